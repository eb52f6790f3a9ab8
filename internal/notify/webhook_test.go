package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ummet-social/moderation-hub/internal/config"
	"github.com/ummet-social/moderation-hub/internal/moderation"
)

type receiver struct {
	mu     sync.Mutex
	events []moderation.Event
	auth   []string
	status int
}

func (r *receiver) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	var ev moderation.Event
	_ = json.NewDecoder(req.Body).Decode(&ev)

	r.mu.Lock()
	r.events = append(r.events, ev)
	r.auth = append(r.auth, req.Header.Get("Authorization"))
	status := r.status
	r.mu.Unlock()

	if status == 0 {
		status = http.StatusNoContent
	}
	w.WriteHeader(status)
}

func (r *receiver) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

func TestNewWebhookDisabled(t *testing.T) {
	assert.Nil(t, NewWebhook(config.NotifyConfig{}))
}

func TestWebhookSend(t *testing.T) {
	t.Run("推送事件", func(t *testing.T) {
		rcv := &receiver{}
		srv := httptest.NewServer(rcv)
		defer srv.Close()

		w := NewWebhook(config.NotifyConfig{WebhookURL: srv.URL, WebhookToken: "secret", Timeout: time.Second})
		require.NotNil(t, w)

		ev := moderation.Event{
			Kind:       moderation.EventAutoBan,
			Severity:   moderation.SeverityCritical,
			UserID:     "u1",
			Confidence: 80,
			Reasons:    []string{moderation.ReasonThreat},
		}
		require.NoError(t, w.Send(context.Background(), ev))

		require.Equal(t, 1, rcv.count())
		assert.Equal(t, "u1", rcv.events[0].UserID)
		assert.Equal(t, moderation.EventAutoBan, rcv.events[0].Kind)
		assert.Equal(t, 80, rcv.events[0].Confidence)
		assert.Equal(t, "Bearer secret", rcv.auth[0])
	})

	t.Run("非 2xx 返回错误", func(t *testing.T) {
		rcv := &receiver{status: http.StatusBadRequest}
		srv := httptest.NewServer(rcv)
		defer srv.Close()

		w := NewWebhook(config.NotifyConfig{WebhookURL: srv.URL, Timeout: time.Second})
		err := w.Send(context.Background(), moderation.Event{Kind: moderation.EventAutoReject})
		assert.Error(t, err)
	})
}

func TestWebhookEmit(t *testing.T) {
	rcv := &receiver{}
	srv := httptest.NewServer(rcv)
	defer srv.Close()

	w := NewWebhook(config.NotifyConfig{WebhookURL: srv.URL, Timeout: time.Second})
	ctx, cancel := context.WithCancel(context.Background())

	w.Emit(ctx, moderation.Event{Kind: moderation.EventAutoBan, UserID: "u1"})
	w.Emit(ctx, moderation.Event{Kind: moderation.EventAutoReject, UserID: "u2"})
	w.Emit(ctx, moderation.Event{Kind: moderation.EventReviewQueued, UserID: "u3"})
	cancel()
	w.Close()

	assert.Equal(t, 2, rcv.count(), "只推送自动封禁与自动拒绝，请求结束不影响推送")
}
