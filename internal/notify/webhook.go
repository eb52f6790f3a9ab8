// Package notify 把审核事件推送给管理员
package notify

import (
	"context"
	"fmt"
	"sync"

	"github.com/ummet-social/moderation-hub/internal/config"
	"github.com/ummet-social/moderation-hub/internal/moderation"
	"github.com/ummet-social/moderation-hub/internal/pkg/httpclient"
	"github.com/ummet-social/moderation-hub/internal/pkg/logger"
)

// maxInFlight 同时进行中的推送上限，超出的事件只写日志
const maxInFlight = 32

// Webhook 以 JSON POST 推送自动封禁与自动拒绝事件
type Webhook struct {
	client *httpclient.Client
	url    string
	kinds  map[moderation.EventKind]struct{}

	slots chan struct{}
	wg    sync.WaitGroup
}

var _ moderation.EventSink = (*Webhook)(nil)

// NewWebhook 创建推送器，URL 为空时返回 nil
func NewWebhook(cfg config.NotifyConfig) *Webhook {
	if cfg.WebhookURL == "" {
		return nil
	}
	hc := httpclient.DefaultConfig()
	if cfg.Timeout > 0 {
		hc.Timeout = cfg.Timeout
	}
	hc.RetryCount = cfg.RetryCount

	return &Webhook{
		client: httpclient.New(hc).WithBearerAuth(cfg.WebhookToken),
		url:    cfg.WebhookURL,
		kinds: map[moderation.EventKind]struct{}{
			moderation.EventAutoBan:    {},
			moderation.EventAutoReject: {},
		},
		slots: make(chan struct{}, maxInFlight),
	}
}

// Emit 异步推送，不阻塞请求
func (w *Webhook) Emit(ctx context.Context, ev moderation.Event) {
	if _, ok := w.kinds[ev.Kind]; !ok {
		return
	}

	select {
	case w.slots <- struct{}{}:
	default:
		logger.Warn().Str("event", string(ev.Kind)).Str("user_id", ev.UserID).Msg("Webhook queue full, event dropped")
		return
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer func() { <-w.slots }()

		if err := w.Send(context.WithoutCancel(ctx), ev); err != nil {
			logger.Warn().Err(err).Str("event", string(ev.Kind)).Str("user_id", ev.UserID).Msg("Webhook delivery failed")
		}
	}()
}

// Send 同步推送一个事件
func (w *Webhook) Send(ctx context.Context, ev moderation.Event) error {
	resp, err := w.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(ev).
		Post(w.url)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("webhook responded with status %d", resp.StatusCode())
	}
	return nil
}

// Close 等待进行中的推送完成
func (w *Webhook) Close() {
	w.wg.Wait()
}
