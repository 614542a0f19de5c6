package telegram

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetUpdates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/bottest-token/getUpdates", r.URL.Path)
		assert.Equal(t, "7", r.URL.Query().Get("offset"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true,"result":[
			{"update_id":7,"channel_post":{"message_id":42,"date":1700000000,"text":"ዋጋ 500 ብር",
				"chat":{"id":-100,"type":"channel","title":"Shega Shop","username":"shegashop"},"views":120}},
			{"update_id":8}
		]}`))
	}))
	defer srv.Close()

	c := NewClientWithBaseURL("test-token", srv.URL)
	updates, err := c.GetUpdates(context.Background(), 7, 30*time.Second)
	require.NoError(t, err)
	require.Len(t, updates, 2)

	post := updates[0].ChannelPost
	require.NotNil(t, post)
	assert.Equal(t, int64(42), post.MessageID)
	assert.Equal(t, "shegashop", post.Chat.Username)
	assert.Equal(t, "ዋጋ 500 ብር", post.Content())
	assert.Equal(t, 120, post.Views)
	assert.Equal(t, time.Unix(1700000000, 0).UTC(), post.PostedAt())

	assert.Nil(t, updates[1].ChannelPost)
}

func TestGetUpdatesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ok":false,"description":"Unauthorized"}`))
	}))
	defer srv.Close()

	c := NewClientWithBaseURL("bad-token", srv.URL)
	_, err := c.GetUpdates(context.Background(), 0, time.Second)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Unauthorized")
}

func TestMessageContentFallsBackToCaption(t *testing.T) {
	m := &Message{Caption: "የሴት ጫማ 1200 ብር"}
	assert.Equal(t, "የሴት ጫማ 1200 ብር", m.Content())
}
