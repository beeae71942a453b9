// Package i18n holds the few user-facing strings the backend and chat client emit.
package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"sync"

	gi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

const (
	MsgDefaultSessionTitle = "default_session_title"
	MsgChatHTTPError       = "chat_http_error"
	MsgChatNetworkError    = "chat_network_error"
	MsgLoginRequired       = "login_required"
)

//go:embed locales/*.json
var localeFS embed.FS

var (
	bundleOnce sync.Once
	bundle     *gi18n.Bundle
	bundleErr  error
)

func loadBundle() (*gi18n.Bundle, error) {
	bundleOnce.Do(func() {
		b := gi18n.NewBundle(language.English)
		b.RegisterUnmarshalFunc("json", json.Unmarshal)
		for _, file := range []string{"locales/en.json", "locales/zh.json"} {
			if _, err := b.LoadMessageFileFS(localeFS, file); err != nil {
				bundleErr = fmt.Errorf("load %s: %w", file, err)
				return
			}
		}
		bundle = b
	})
	return bundle, bundleErr
}

// Translator resolves message ids for an ordered list of preferred languages.
type Translator struct {
	localizer *gi18n.Localizer
}

// New builds a Translator; langs are BCP 47 tags or Accept-Language values, best first.
func New(langs ...string) (*Translator, error) {
	b, err := loadBundle()
	if err != nil {
		return nil, err
	}
	return &Translator{localizer: gi18n.NewLocalizer(b, langs...)}, nil
}

// T falls back to the message id itself when no translation exists.
func (t *Translator) T(messageID string) string {
	msg, err := t.localizer.Localize(&gi18n.LocalizeConfig{MessageID: messageID})
	if err != nil || msg == "" {
		return messageID
	}
	return msg
}

// Resolver picks a Translator per request, falling back to a configured default locale.
type Resolver struct {
	defaultLocale string
}

func NewResolver(defaultLocale string) *Resolver {
	if defaultLocale == "" {
		defaultLocale = "en"
	}
	return &Resolver{defaultLocale: defaultLocale}
}

func (r *Resolver) For(acceptLanguage string) *Translator {
	t, err := New(acceptLanguage, r.defaultLocale)
	if err != nil {
		// The bundle is embedded; a load failure is a build defect.
		panic(err)
	}
	return t
}

// DefaultSessionTitle is a shorthand used when a session is created without a title.
func (r *Resolver) DefaultSessionTitle(acceptLanguage string) string {
	return r.For(acceptLanguage).T(MsgDefaultSessionTitle)
}
