package moderation

import (
	"context"
	"time"

	"github.com/ummet-social/moderation-hub/internal/model"
	"github.com/ummet-social/moderation-hub/internal/pkg/logger"
)

// EventKind 审核事件类型
type EventKind string

const (
	EventAutoBan      EventKind = "auto_ban"
	EventAutoReject   EventKind = "auto_reject"
	EventReviewQueued EventKind = "review_queued"
	EventManualBan    EventKind = "manual_ban"
	EventFailOpen     EventKind = "fail_open"
)

// Severity 事件级别
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Event 供管理员查看的审核事件
type Event struct {
	Kind        EventKind         `json:"kind"`
	Severity    Severity          `json:"severity"`
	Message     string            `json:"message"`
	UserID      string            `json:"userId"`
	ContentType model.ContentType `json:"contentType,omitempty"`
	Confidence  int               `json:"confidence"`
	Reasons     []string          `json:"reasons,omitempty"`
	Excerpt     string            `json:"excerpt,omitempty"`
	Error       string            `json:"error,omitempty"`
	At          time.Time         `json:"at"`
}

// EventSink 接收审核事件
type EventSink interface {
	Emit(ctx context.Context, ev Event)
}

// LogSink 把事件写入 zerolog
type LogSink struct{}

// Emit 按事件级别写日志
func (LogSink) Emit(_ context.Context, ev Event) {
	l := logger.WithUserID(ev.UserID)
	e := l.Info()
	switch ev.Severity {
	case SeverityCritical:
		e = l.Error()
	case SeverityWarning:
		e = l.Warn()
	}
	e = e.Str("event", string(ev.Kind)).Int("confidence", ev.Confidence)
	if ev.ContentType != "" {
		e = e.Str("content_type", string(ev.ContentType))
	}
	if len(ev.Reasons) > 0 {
		e = e.Strs("reasons", ev.Reasons)
	}
	if ev.Excerpt != "" {
		e = e.Str("excerpt", ev.Excerpt)
	}
	if ev.Error != "" {
		e = e.Str("error", ev.Error)
	}
	e.Msg(ev.Message)
}

// MultiSink 依次投递到多个 sink
type MultiSink []EventSink

// Emit 投递到全部 sink
func (m MultiSink) Emit(ctx context.Context, ev Event) {
	for _, s := range m {
		if s != nil {
			s.Emit(ctx, ev)
		}
	}
}
