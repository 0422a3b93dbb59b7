package sendgrid

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/yamdb-backend/internal/platform/httpx"
	"github.com/yungbote/yamdb-backend/internal/platform/logger"
)

func newTestClient(t *testing.T, url string) *client {
	t.Helper()
	c, err := New(logger.Nop(), Config{
		APIKey:           "sg-key",
		BaseURL:          url,
		DefaultFromEmail: "noreply@yamdb.test",
		MaxRetries:       2,
	})
	require.NoError(t, err)
	cl := c.(*client)
	cl.backoff = httpx.Backoff{Base: time.Millisecond}
	return cl
}

func TestSendPostsWirePayload(t *testing.T) {
	var got mailSendRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v3/mail/send", r.URL.Path)
		assert.Equal(t, "Bearer sg-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("X-Message-Id", "msg-1")
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	res, err := newTestClient(t, srv.URL).Send(context.Background(), SendEmailRequest{
		To:      []EmailAddress{{Email: "alice@example.com"}},
		Subject: "Your confirmation code",
		Text:    "code: 123",
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusAccepted, res.StatusCode)
	assert.Equal(t, "msg-1", res.MessageID)
	assert.Equal(t, "noreply@yamdb.test", got.From.Email)
	require.Len(t, got.Personalizations, 1)
	assert.Equal(t, "alice@example.com", got.Personalizations[0].To[0].Email)
	assert.Equal(t, "text/plain", got.Content[0].Type)
}

func TestSendRetriesServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv.URL).Send(context.Background(), SendEmailRequest{
		To:      []EmailAddress{{Email: "bob@example.com"}},
		Subject: "s",
		Text:    "t",
	})
	require.NoError(t, err)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestSendDoesNotRetryClientErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"errors":[{"message":"bad from"}]}`))
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv.URL).Send(context.Background(), SendEmailRequest{
		To:      []EmailAddress{{Email: "bob@example.com"}},
		Subject: "s",
		Text:    "t",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad from")
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestSendValidatesRequest(t *testing.T) {
	c := newTestClient(t, "http://unused")
	_, err := c.Send(context.Background(), SendEmailRequest{Subject: "s", Text: "t"})
	assert.ErrorContains(t, err, "To required")

	_, err = c.Send(context.Background(), SendEmailRequest{To: []EmailAddress{{Email: "a@b.c"}}, Text: "t"})
	assert.ErrorContains(t, err, "Subject required")
}

func TestNewRequiresAPIKey(t *testing.T) {
	_, err := New(logger.Nop(), Config{})
	assert.Error(t, err)
}
