package moderation

import (
	"context"
	"sync"
	"time"

	"github.com/ummet-social/moderation-hub/internal/model"
)

// fakeBanStore 内存封禁存储
type fakeBanStore struct {
	mu      sync.Mutex
	created []*model.UserBan

	CreateFunc func(ctx context.Context, ban *model.UserBan) error
	FindFunc   func(ctx context.Context, userID string, now time.Time) ([]*model.UserBan, error)
	findCalls  int
}

func (f *fakeBanStore) Create(ctx context.Context, ban *model.UserBan) error {
	if f.CreateFunc != nil {
		if err := f.CreateFunc(ctx, ban); err != nil {
			return err
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, ban)
	return nil
}

func (f *fakeBanStore) FindActiveByUser(ctx context.Context, userID string, now time.Time) ([]*model.UserBan, error) {
	f.mu.Lock()
	f.findCalls++
	f.mu.Unlock()
	if f.FindFunc != nil {
		return f.FindFunc(ctx, userID, now)
	}
	return nil, nil
}

func (f *fakeBanStore) Created() []*model.UserBan {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*model.UserBan(nil), f.created...)
}

// fakeReportStore 内存举报存储
type fakeReportStore struct {
	mu      sync.Mutex
	created []*model.ModerationReport

	CreateFunc func(ctx context.Context, report *model.ModerationReport) error
	FindErr    error
}

func (f *fakeReportStore) FindLinked(_ context.Context, reporterID string, link model.ContentLink) (*model.ModerationReport, error) {
	if f.FindErr != nil {
		return nil, f.FindErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.created {
		if r.ReporterID == reporterID && !link.IsNone() && r.Link() == link {
			return r, nil
		}
	}
	return nil, nil
}

func (f *fakeReportStore) Create(ctx context.Context, report *model.ModerationReport) error {
	if f.CreateFunc != nil {
		if err := f.CreateFunc(ctx, report); err != nil {
			return err
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, report)
	return nil
}

func (f *fakeReportStore) Created() []*model.ModerationReport {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*model.ModerationReport(nil), f.created...)
}

// fakeCache 内存封禁状态缓存
type fakeCache struct {
	mu          sync.Mutex
	entries     map[string]BanStatus
	ttls        map[string]time.Duration
	invalidated []string

	GetErr error
	SetErr error
}

func newFakeCache() *fakeCache {
	return &fakeCache{
		entries: make(map[string]BanStatus),
		ttls:    make(map[string]time.Duration),
	}
}

func (c *fakeCache) Get(_ context.Context, userID string) (BanStatus, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.GetErr != nil {
		return BanStatus{}, false, c.GetErr
	}
	status, ok := c.entries[userID]
	return status, ok, nil
}

func (c *fakeCache) Set(_ context.Context, userID string, status BanStatus, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.SetErr != nil {
		return c.SetErr
	}
	c.entries[userID] = status
	c.ttls[userID] = ttl
	return nil
}

func (c *fakeCache) Invalidate(_ context.Context, userID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, userID)
	c.invalidated = append(c.invalidated, userID)
	return nil
}

// recordingSink 记录收到的事件
type recordingSink struct {
	mu     sync.Mutex
	events []Event
}

func (s *recordingSink) Emit(_ context.Context, ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
}

func (s *recordingSink) Kinds() []EventKind {
	s.mu.Lock()
	defer s.mu.Unlock()
	kinds := make([]EventKind, 0, len(s.events))
	for _, ev := range s.events {
		kinds = append(kinds, ev.Kind)
	}
	return kinds
}

func (s *recordingSink) Last() Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.events[len(s.events)-1]
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
