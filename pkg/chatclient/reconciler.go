package chatclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"wspace-be/internal/dto"
	"wspace-be/pkg/i18n"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

var (
	ErrTurnInFlight  = errors.New("a chat turn is already in flight")
	ErrLoginRequired = errors.New("login required")
	ErrEmptyMessage  = errors.New("message is empty")
)

// API is the subset of Client the reconciler drives.
type API interface {
	CreateSession(ctx context.Context) (*dto.SessionResponse, error)
	ListSessions(ctx context.Context) ([]dto.SessionResponse, error)
	RenameSession(ctx context.Context, id uuid.UUID, title string) error
	DeleteSession(ctx context.Context, id uuid.UUID) error
	ListMessages(ctx context.Context, sessionId uuid.UUID) ([]dto.MessageResponse, error)
	SendChat(ctx context.Context, req *dto.SendChatRequest) (*dto.SendChatResponse, error)
}

type TurnState int

const (
	Composing TurnState = iota
	OptimisticallyDisplayed
	Confirmed
	Failed
)

func (s TurnState) String() string {
	switch s {
	case Composing:
		return "composing"
	case OptimisticallyDisplayed:
		return "optimistically_displayed"
	case Confirmed:
		return "confirmed"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("TurnState(%d)", int(s))
}

// LocalMessage is one bubble in the local transcript: *PendingMessage,
// *ConfirmedMessage or *ErrorNotice.
type LocalMessage interface {
	Key() string
	Role() string
	Text() string
}

// PendingMessage is a user message the server has not acknowledged yet.
type PendingMessage struct {
	TempID    string
	Content   string
	CreatedAt time.Time
}

func (m *PendingMessage) Key() string  { return m.TempID }
func (m *PendingMessage) Role() string { return "user" }
func (m *PendingMessage) Text() string { return m.Content }

// ConfirmedMessage mirrors a stored server message.
type ConfirmedMessage struct {
	Message dto.MessageResponse
}

func (m *ConfirmedMessage) Key() string  { return m.Message.Id.String() }
func (m *ConfirmedMessage) Role() string { return m.Message.Role }
func (m *ConfirmedMessage) Text() string { return m.Message.Content }

// ErrorNotice is a synthetic assistant bubble that exists only on the client.
type ErrorNotice struct {
	LocalID string
	Content string
	Cause   error
}

func (m *ErrorNotice) Key() string  { return m.LocalID }
func (m *ErrorNotice) Role() string { return "assistant" }
func (m *ErrorNotice) Text() string { return m.Content }

// Snapshot is a copy of the reconciler state safe to render.
type Snapshot struct {
	ActiveSessionId uuid.UUID
	Sessions        []dto.SessionResponse
	Messages        []LocalMessage
	State           TurnState
	Loading         bool
}

type Observer func(Snapshot)

type Option func(*Reconciler)

func WithObserver(observer Observer) Option {
	return func(r *Reconciler) { r.observer = observer }
}

func WithClock(now func() time.Time) Option {
	return func(r *Reconciler) { r.now = now }
}

func WithWebSearch(enabled bool) Option {
	return func(r *Reconciler) { r.webSearch = enabled }
}

type Reconciler struct {
	api        API
	translator *i18n.Translator
	observer   Observer
	now        func() time.Time
	webSearch  bool
	seq        atomic.Uint64

	mu       sync.Mutex
	sessions []dto.SessionResponse
	cache    map[uuid.UUID][]LocalMessage
	active   uuid.UUID
	state    TurnState
	loading  bool
}

func NewReconciler(api API, translator *i18n.Translator, opts ...Option) *Reconciler {
	r := &Reconciler{
		api:        api,
		translator: translator,
		now:        time.Now,
		cache:      make(map[uuid.UUID][]LocalMessage),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Reconciler) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked()
}

func (r *Reconciler) snapshotLocked() Snapshot {
	return Snapshot{
		ActiveSessionId: r.active,
		Sessions:        append([]dto.SessionResponse(nil), r.sessions...),
		Messages:        append([]LocalMessage(nil), r.cache[r.active]...),
		State:           r.state,
		Loading:         r.loading,
	}
}

// update applies fn under the lock and notifies the observer afterwards.
func (r *Reconciler) update(fn func()) {
	r.mu.Lock()
	fn()
	snap := r.snapshotLocked()
	r.mu.Unlock()

	if r.observer != nil {
		r.observer(snap)
	}
}

// Submit runs one chat turn. The returned error is informational: a failed
// turn has already been reflected in the transcript as an ErrorNotice.
func (r *Reconciler) Submit(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyMessage
	}

	r.mu.Lock()
	if r.loading {
		r.mu.Unlock()
		return ErrTurnInFlight
	}
	r.loading = true
	r.state = Composing
	sessionId := r.active
	r.mu.Unlock()
	defer r.update(func() { r.loading = false })

	isNew := sessionId == uuid.Nil
	if isNew {
		session, err := r.api.CreateSession(ctx)
		if err != nil {
			r.update(func() { r.state = Failed })
			if IsHTTPStatus(err, http.StatusUnauthorized) {
				return ErrLoginRequired
			}
			return fmt.Errorf("create session: %w", err)
		}
		sessionId = session.Id
		r.update(func() {
			r.sessions = append([]dto.SessionResponse{*session}, r.sessions...)
			r.cache[sessionId] = []LocalMessage{}
			r.active = sessionId
		})
	}

	now := r.now()
	pending := &PendingMessage{
		TempID:    fmt.Sprintf("local-%d-%d", now.UnixNano(), r.seq.Add(1)),
		Content:   text,
		CreatedAt: now,
	}
	r.update(func() {
		r.cache[sessionId] = append(r.cache[sessionId], pending)
		r.state = OptimisticallyDisplayed
	})

	res, err := r.api.SendChat(ctx, &dto.SendChatRequest{
		SessionId:        sessionId,
		Message:          text,
		WebSearchEnabled: r.webSearch,
	})
	if err != nil {
		notice := &ErrorNotice{
			LocalID: fmt.Sprintf("error-%d-%d", r.now().UnixNano(), r.seq.Add(1)),
			Content: r.failureText(err),
			Cause:   err,
		}
		r.update(func() {
			r.cache[sessionId] = append(r.cache[sessionId], notice)
			r.state = Failed
		})
		return err
	}

	r.update(func() {
		messages := r.cache[sessionId]
		replaced := false
		for i, m := range messages {
			if p, ok := m.(*PendingMessage); ok && p == pending {
				messages[i] = &ConfirmedMessage{Message: res.UserMessage}
				replaced = true
				break
			}
		}
		if !replaced {
			messages = append(messages, &ConfirmedMessage{Message: res.UserMessage})
		}
		r.cache[sessionId] = append(messages, &ConfirmedMessage{Message: res.AssistantMessage})

		if res.SessionTitle != "" {
			r.sessions = lo.Map(r.sessions, func(s dto.SessionResponse, _ int) dto.SessionResponse {
				if s.Id == sessionId {
					s.Title = res.SessionTitle
				}
				return s
			})
		}
		r.state = Confirmed
	})

	if !isNew {
		// Best effort; the transcript is already correct.
		if sessions, err := r.api.ListSessions(ctx); err == nil {
			r.update(func() { r.sessions = sessions })
		}
	}
	return nil
}

func (r *Reconciler) failureText(err error) string {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return r.translator.T(i18n.MsgChatHTTPError)
	}
	return r.translator.T(i18n.MsgChatNetworkError)
}

func (r *Reconciler) LoadSessions(ctx context.Context) error {
	sessions, err := r.api.ListSessions(ctx)
	if err != nil {
		if IsHTTPStatus(err, http.StatusUnauthorized) {
			return ErrLoginRequired
		}
		return err
	}
	r.update(func() { r.sessions = sessions })
	return nil
}

// SelectSession makes id active and replaces its cached transcript with the server copy.
func (r *Reconciler) SelectSession(ctx context.Context, id uuid.UUID) error {
	messages, err := r.api.ListMessages(ctx, id)
	if err != nil {
		return err
	}
	r.update(func() {
		r.cache[id] = lo.Map(messages, func(m dto.MessageResponse, _ int) LocalMessage {
			return &ConfirmedMessage{Message: m}
		})
		r.active = id
		r.state = Composing
	})
	return nil
}

// StartNewSession clears the active session; the next Submit creates one.
func (r *Reconciler) StartNewSession() {
	r.update(func() {
		r.active = uuid.Nil
		r.state = Composing
	})
}

func (r *Reconciler) RenameSession(ctx context.Context, id uuid.UUID, title string) error {
	if err := r.api.RenameSession(ctx, id, title); err != nil {
		return err
	}
	r.update(func() {
		r.sessions = lo.Map(r.sessions, func(s dto.SessionResponse, _ int) dto.SessionResponse {
			if s.Id == id {
				s.Title = strings.TrimSpace(title)
			}
			return s
		})
	})
	return nil
}

func (r *Reconciler) DeleteSession(ctx context.Context, id uuid.UUID) error {
	if err := r.api.DeleteSession(ctx, id); err != nil {
		return err
	}
	r.update(func() {
		r.sessions = lo.Reject(r.sessions, func(s dto.SessionResponse, _ int) bool { return s.Id == id })
		delete(r.cache, id)
		if r.active == id {
			r.active = uuid.Nil
			r.state = Composing
		}
	})
	return nil
}
