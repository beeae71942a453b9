package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslation(t *testing.T) {
	cases := []struct {
		lang, expected string
	}{
		{"en", "New Chat"},
		{"zh", "新对话"},
		{"zh-CN,zh;q=0.9,en;q=0.8", "新对话"},
		{"fr", "New Chat"},
	}

	for _, tc := range cases {
		t.Run(tc.lang, func(t *testing.T) {
			tr, err := New(tc.lang)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, tr.T(MsgDefaultSessionTitle))
		})
	}
}

func TestResolverDefaultLocale(t *testing.T) {
	r := NewResolver("zh")

	assert.Equal(t, "新对话", r.DefaultSessionTitle(""))
	assert.Equal(t, "New Chat", r.DefaultSessionTitle("en-US"))
}

func TestUnknownMessageFallsBackToID(t *testing.T) {
	tr, err := New("en")
	require.NoError(t, err)
	assert.Equal(t, "no_such_message", tr.T("no_such_message"))
}

func TestClientErrorTextsDiffer(t *testing.T) {
	tr, err := New("en")
	require.NoError(t, err)
	assert.NotEqual(t, tr.T(MsgChatHTTPError), tr.T(MsgChatNetworkError))
}
