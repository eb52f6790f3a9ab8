package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/ummet-social/moderation-hub/internal/model"
	"github.com/ummet-social/moderation-hub/internal/moderation"
	"github.com/ummet-social/moderation-hub/internal/pkg/errors"
	"github.com/ummet-social/moderation-hub/internal/pkg/validator"
	"github.com/ummet-social/moderation-hub/internal/repository"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	validator.Init()
	os.Exit(m.Run())
}

// memoryBans 内存封禁存储
type memoryBans struct {
	mu   sync.Mutex
	bans []*model.UserBan

	CreateErr error
	ListErr   error
}

func (m *memoryBans) Create(_ context.Context, ban *model.UserBan) error {
	if m.CreateErr != nil {
		return m.CreateErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	ban.ID = fmt.Sprintf("ban-%d", len(m.bans)+1)
	ban.Active = true
	m.bans = append(m.bans, ban)
	return nil
}

func (m *memoryBans) FindActiveByUser(_ context.Context, userID string, now time.Time) ([]*model.UserBan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.UserBan
	for _, b := range m.bans {
		if b.UserID == userID && b.IsActiveAt(now) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *memoryBans) ListByUser(_ context.Context, userID string) ([]*model.UserBan, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.UserBan
	for _, b := range m.bans {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

// memoryReports 内存举报存储
type memoryReports struct {
	mu      sync.Mutex
	reports []*model.ModerationReport
}

func (m *memoryReports) Create(_ context.Context, report *model.ModerationReport) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	report.ID = fmt.Sprintf("report-%d", len(m.reports)+1)
	report.Status = string(model.ReportStatusPending)
	m.reports = append(m.reports, report)
	return nil
}

func (m *memoryReports) GetByID(_ context.Context, id string) (*model.ModerationReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.reports {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, errors.NewNotFoundError("Report")
}

func (m *memoryReports) FindLinked(_ context.Context, reporterID string, link model.ContentLink) (*model.ModerationReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.reports {
		if r.ReporterID == reporterID && !link.IsNone() && r.Link() == link {
			return r, nil
		}
	}
	return nil, nil
}

func (m *memoryReports) UpdateStatus(_ context.Context, id string, status model.ReportStatus, adminNotes *string) (*model.ModerationReport, error) {
	if !status.IsValid() {
		return nil, errors.NewInvalidRequest("invalid report status")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.reports {
		if r.ID == id {
			r.Status = string(status)
			r.AdminNotes = adminNotes
			return r, nil
		}
	}
	return nil, errors.NewNotFoundError("Report")
}

func (m *memoryReports) List(_ context.Context, opts *repository.ListOptions) ([]*model.ModerationReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*model.ModerationReport{}
	for i := len(m.reports) - 1; i >= 0; i-- {
		if opts.Status != "" && m.reports[i].Status != opts.Status {
			continue
		}
		out = append(out, m.reports[i])
	}
	p := opts.Pagination
	p.Total = len(out)
	start := p.GetOffset()
	if start > len(out) {
		start = len(out)
	}
	end := start + p.GetLimit()
	if end > len(out) {
		end = len(out)
	}
	return out[start:end], nil
}

type nopSink struct{}

func (nopSink) Emit(context.Context, moderation.Event) {}

type testServer struct {
	router  *gin.Engine
	bans    *memoryBans
	reports *memoryReports
}

func newTestServer(token string, health map[string]HealthCheck) *testServer {
	bans := &memoryBans{}
	reports := &memoryReports{}
	enforcer := moderation.NewEnforcer(moderation.EnforcerDeps{
		Bans:    bans,
		Reports: reports,
		Sink:    nopSink{},
	})
	gate := moderation.NewBanGate(bans, nil, 0, nil)

	router := NewRouter(RouterDeps{
		Moderation: NewModerationHandler(nil, enforcer, gate),
		Bans:       NewBanHandler(enforcer, bans, gate),
		Reports:    NewReportHandler(reports),
		AdminToken: token,
		Health:     health,
	})
	return &testServer{router: router, bans: bans, reports: reports}
}

func (s *testServer) do(method, path string, body interface{}, headers ...string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v))
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) errors.ErrorResponseBody {
	t.Helper()
	var resp errors.ErrorResponse
	decode(t, w, &resp)
	return resp.Error
}
