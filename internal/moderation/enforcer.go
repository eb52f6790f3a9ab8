package moderation

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/ummet-social/moderation-hub/internal/model"
	"github.com/ummet-social/moderation-hub/internal/pkg/utils"
)

// 面向用户的提示（土耳其语）
const (
	MessageAccountRestricted = "İçeriğiniz topluluk kurallarına aykırı bulundu. Hesabınız geçici olarak kısıtlandı."
	MessageContentRejected   = "İçeriğiniz topluluk kurallarına uygun olmadığı için reddedildi."
	MessageUserBanned        = "Hesabınız kısıtlandığı için gönderi paylaşamazsınız."
)

// BanWriter 写入封禁记录
type BanWriter interface {
	Create(ctx context.Context, ban *model.UserBan) error
}

// ReportWriter 写入审核举报
type ReportWriter interface {
	Create(ctx context.Context, report *model.ModerationReport) error
	// FindLinked 查找同一举报人针对同一内容的已有举报，没有时返回 nil, nil
	FindLinked(ctx context.Context, reporterID string, link model.ContentLink) (*model.ModerationReport, error)
}

// EnforceResult 执法结果
type EnforceResult struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
}

// Options 执法参数
type Options struct {
	BanDuration   time.Duration // 自动封禁时长，默认 24h
	SystemActor   string        // 自动封禁、自动举报的操作者，默认 "system"
	ExcerptLength int           // 日志中保留的内容长度，默认 50
}

func (o Options) withDefaults() Options {
	if o.BanDuration <= 0 {
		o.BanDuration = 24 * time.Hour
	}
	if o.SystemActor == "" {
		o.SystemActor = "system"
	}
	if o.ExcerptLength <= 0 {
		o.ExcerptLength = 50
	}
	return o
}

// EnforcerDeps Enforcer 依赖
type EnforcerDeps struct {
	Scorer  *Scorer
	Bans    BanWriter
	Reports ReportWriter
	Cache   BanCache  // 可选，封禁后失效对应用户的缓存
	Sink    EventSink // 可选，默认写日志
	Clock   func() time.Time
	Options Options
}

// Enforcer 根据打分结果执行封禁、拒绝或提交人工审核
type Enforcer struct {
	scorer  *Scorer
	bans    BanWriter
	reports ReportWriter
	cache   BanCache
	sink    EventSink
	now     func() time.Time
	opts    Options
}

// NewEnforcer 创建 Enforcer
func NewEnforcer(deps EnforcerDeps) *Enforcer {
	e := &Enforcer{
		scorer:  deps.Scorer,
		bans:    deps.Bans,
		reports: deps.Reports,
		cache:   deps.Cache,
		sink:    deps.Sink,
		now:     deps.Clock,
		opts:    deps.Options.withDefaults(),
	}
	if e.scorer == nil {
		e.scorer = NewScorer(nil)
	}
	if e.sink == nil {
		e.sink = LogSink{}
	}
	if e.now == nil {
		e.now = time.Now
	}
	return e
}

// DecisionState 两阶段审核的状态
type DecisionState string

const (
	// StateFinal 无需关联内容：放行、拒绝或封禁
	StateFinal DecisionState = "final"
	// StatePending 需人工审核，尚未关联已保存的内容
	StatePending DecisionState = "pending"
	// StateLinked 已创建关联内容的审核举报
	StateLinked DecisionState = "linked"
)

// Decision 第一阶段（保存前）的审核结论
// 对需要人工审核的内容，调用方保存内容后用 LinkReview 关联内容 ID
type Decision struct {
	UserID      string
	ContentType model.ContentType
	Result      ModerationResult

	mu      sync.Mutex
	outcome EnforceResult
	state   DecisionState
	report  *model.ModerationReport
}

// Outcome 返回放行/拒绝结果
func (d *Decision) Outcome() EnforceResult {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.outcome
}

// State 返回当前状态
func (d *Decision) State() DecisionState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Report 返回已创建的审核举报，未关联时为 nil
func (d *Decision) Report() *model.ModerationReport {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.report
}

// outcome 一次执法的内部结果：要么是结论，要么是基础设施故障
type outcome struct {
	op      string
	verdict EnforceResult
	err     error
}

// resolveFailOpen 把内部结果映射为对外结果
// 任何基础设施故障都按放行处理，第二个返回值表示是否发生了故障
func resolveFailOpen(o outcome) (EnforceResult, bool) {
	if o.err != nil {
		return EnforceResult{Allowed: true}, true
	}
	return o.verdict, false
}

// failOpen 解析内部结果，故障时记录日志和指标
func (e *Enforcer) failOpen(ctx context.Context, userID string, o outcome) EnforceResult {
	res, failed := resolveFailOpen(o)
	if failed {
		failOpenTotal.WithLabelValues(o.op).Inc()
		e.sink.Emit(ctx, Event{
			Kind:     EventFailOpen,
			Severity: SeverityCritical,
			Message:  "moderation side effect failed, content allowed",
			UserID:   userID,
			Error:    o.err.Error(),
			At:       e.now(),
		})
	}
	return res
}

// Precheck 第一阶段：保存内容之前调用
// 封禁与拒绝的副作用在这里执行；需人工审核的内容返回 StatePending
func (e *Enforcer) Precheck(ctx context.Context, text, userID string, contentType model.ContentType) *Decision {
	result := e.scorer.Score(text)
	scoreDistribution.Observe(float64(result.Confidence))
	decisionsTotal.WithLabelValues(string(result.Action), string(contentType)).Inc()

	d := &Decision{
		UserID:      userID,
		ContentType: contentType,
		Result:      result,
		outcome:     EnforceResult{Allowed: true},
		state:       StateFinal,
	}
	if result.IsClean {
		return d
	}

	switch result.Action {
	case ActionBan:
		d.outcome = e.failOpen(ctx, userID, e.applyBan(ctx, userID, contentType, result))
	case ActionDelete:
		d.outcome = e.reject(ctx, text, userID, contentType, result)
	case ActionReview:
		d.state = StatePending
		e.sink.Emit(ctx, Event{
			Kind:        EventReviewQueued,
			Severity:    SeverityInfo,
			Message:     "content queued for review",
			UserID:      userID,
			ContentType: contentType,
			Confidence:  result.Confidence,
			Reasons:     result.Reasons,
			At:          e.now(),
		})
	}
	return d
}

// Restore 重新打分得到第一阶段的结论，不执行任何副作用
// 打分是确定性的，用于调用方无法保留 Decision 的场景（例如两次独立的 HTTP 请求）
func (e *Enforcer) Restore(text, userID string, contentType model.ContentType) *Decision {
	result := e.scorer.Score(text)
	d := &Decision{
		UserID:      userID,
		ContentType: contentType,
		Result:      result,
		outcome:     EnforceResult{Allowed: true},
		state:       StateFinal,
	}
	switch result.Action {
	case ActionBan:
		d.outcome = EnforceResult{Allowed: false, Reason: MessageAccountRestricted}
	case ActionDelete:
		d.outcome = EnforceResult{Allowed: false, Reason: MessageContentRejected}
	case ActionReview:
		d.state = StatePending
	}
	return d
}

// LinkReview 第二阶段：内容保存后调用，为待审核的结论创建关联内容的举报
// 只有 StatePending 的结论会创建举报，成功后转为 StateLinked，重复调用不会重复创建。
// 同一内容已有系统举报时直接关联已有举报，Restore 得到的新结论也不会重复创建。
// 查询或创建失败时保持 StatePending 并放行。
func (e *Enforcer) LinkReview(ctx context.Context, d *Decision, contentID string) EnforceResult {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.state != StatePending || contentID == "" {
		return d.outcome
	}

	link := model.LinkFor(d.ContentType, contentID)
	if !link.IsNone() {
		existing, err := e.reports.FindLinked(ctx, e.opts.SystemActor, link)
		if err != nil {
			return e.failOpen(ctx, d.UserID, outcome{op: "find_report", err: err})
		}
		if existing != nil {
			d.state = StateLinked
			d.report = existing
			return d.outcome
		}
	}

	report := &model.ModerationReport{
		ReporterID:     e.opts.SystemActor,
		ReportedUserID: d.UserID,
		Reason:         string(model.ReportReasonInappropriate),
		Status:         string(model.ReportStatusPending),
	}
	description := strings.Join(d.Result.Reasons, ", ")
	report.Description = &description
	report.SetLink(link)

	if err := e.reports.Create(ctx, report); err != nil {
		return e.failOpen(ctx, d.UserID, outcome{op: "create_report", err: err})
	}

	d.state = StateLinked
	d.report = report
	return d.outcome
}

// Enforce 单次调用：先执行第一阶段，contentID 非空时再关联审核举报
func (e *Enforcer) Enforce(ctx context.Context, text, userID string, contentType model.ContentType, contentID string) EnforceResult {
	d := e.Precheck(ctx, text, userID, contentType)
	if contentID != "" {
		return e.LinkReview(ctx, d, contentID)
	}
	return d.Outcome()
}

// ManualBan 管理员手动封禁，错误直接返回给调用方
func (e *Enforcer) ManualBan(ctx context.Context, ban *model.UserBan) error {
	if err := e.bans.Create(ctx, ban); err != nil {
		return err
	}
	e.invalidate(ctx, ban.UserID)
	e.sink.Emit(ctx, Event{
		Kind:     EventManualBan,
		Severity: SeverityWarning,
		Message:  "user banned by moderator",
		UserID:   ban.UserID,
		Reasons:  []string{ban.Reason},
		At:       e.now(),
	})
	return nil
}

func (e *Enforcer) applyBan(ctx context.Context, userID string, contentType model.ContentType, result ModerationResult) outcome {
	expiresAt := e.now().Add(e.opts.BanDuration)
	ban := &model.UserBan{
		UserID:    userID,
		BannedBy:  e.opts.SystemActor,
		Reason:    strings.Join(result.Reasons, ", "),
		BanType:   string(model.BanTypeTemporary),
		ExpiresAt: &expiresAt,
		Active:    true,
		CreatedAt: e.now(),
	}
	if err := e.bans.Create(ctx, ban); err != nil {
		return outcome{op: "create_ban", err: err}
	}
	e.invalidate(ctx, userID)

	e.sink.Emit(ctx, Event{
		Kind:        EventAutoBan,
		Severity:    SeverityCritical,
		Message:     "user automatically banned",
		UserID:      userID,
		ContentType: contentType,
		Confidence:  result.Confidence,
		Reasons:     result.Reasons,
		At:          e.now(),
	})
	return outcome{op: "create_ban", verdict: EnforceResult{Allowed: false, Reason: MessageAccountRestricted}}
}

func (e *Enforcer) reject(ctx context.Context, text, userID string, contentType model.ContentType, result ModerationResult) EnforceResult {
	e.sink.Emit(ctx, Event{
		Kind:        EventAutoReject,
		Severity:    SeverityWarning,
		Message:     "content rejected",
		UserID:      userID,
		ContentType: contentType,
		Confidence:  result.Confidence,
		Reasons:     result.Reasons,
		Excerpt:     utils.Excerpt(text, e.opts.ExcerptLength),
		At:          e.now(),
	})
	return EnforceResult{Allowed: false, Reason: MessageContentRejected}
}

// invalidate 清除封禁状态缓存，失败只记录日志
func (e *Enforcer) invalidate(ctx context.Context, userID string) {
	if e.cache == nil {
		return
	}
	if err := e.cache.Invalidate(ctx, userID); err != nil {
		e.sink.Emit(ctx, Event{
			Kind:     EventFailOpen,
			Severity: SeverityWarning,
			Message:  "failed to invalidate ban status cache",
			UserID:   userID,
			Error:    err.Error(),
			At:       e.now(),
		})
	}
}
