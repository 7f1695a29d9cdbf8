package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/Zachkp/soc-portfolio/internal/auth"
	"github.com/Zachkp/soc-portfolio/internal/config"
	"github.com/Zachkp/soc-portfolio/internal/content"
	"github.com/Zachkp/soc-portfolio/internal/mailer"
	"github.com/Zachkp/soc-portfolio/internal/ratelimit"
	"github.com/Zachkp/soc-portfolio/internal/sched"
	"github.com/Zachkp/soc-portfolio/internal/store"
	"github.com/Zachkp/soc-portfolio/internal/view"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []mailer.Message
	err  error
}

func (m *fakeMailer) Send(_ context.Context, msg mailer.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

type fakeVisits struct {
	mu     sync.Mutex
	visits []store.Visit
}

func (f *fakeVisits) Visit(v store.Visit) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.visits = append(f.visits, v)
}

func (f *fakeVisits) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.visits)
}

// streamRecorder lets gin's Stream run against a recorder.
type streamRecorder struct {
	*httptest.ResponseRecorder
	closed chan bool
}

func (r *streamRecorder) CloseNotify() <-chan bool { return r.closed }

type ServerTestSuite struct {
	suite.Suite
	clock  *sched.ManualClock
	views  *view.Registry
	store  *store.Store
	mail   *fakeMailer
	visits *fakeVisits
	srv    *Server
	now    time.Time
}

func (s *ServerTestSuite) SetupTest() {
	s.now = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	s.clock = sched.NewManualClock(s.now)
	s.views = view.NewRegistry(view.Options{Clock: s.clock}, time.Minute)

	st, err := store.Open(context.Background(), ":memory:")
	s.Require().NoError(err)
	s.store = st

	jwtSvc, err := auth.NewJWTService("test-secret", time.Hour)
	s.Require().NoError(err)

	var cfg config.Config
	cfg.Admin.Username = "admin"
	cfg.Admin.Password = "hunter2"
	cfg.Privacy.Retention = 365 * 24 * time.Hour

	s.mail = &fakeMailer{}
	s.visits = &fakeVisits{}
	s.srv, err = New(Deps{
		Config:    cfg,
		Views:     s.views,
		Portfolio: content.Default(),
		Store:     st,
		Visits:    s.visits,
		Mailer:    s.mail,
		Limiter:   ratelimit.NewMemory(2, time.Hour),
		JWT:       jwtSvc,
		Salt:      "salt",
		Now:       func() time.Time { return s.now },
	})
	s.Require().NoError(err)
}

func (s *ServerTestSuite) TearDownTest() {
	s.views.Close()
	s.store.Close()
}

func (s *ServerTestSuite) do(method, target string, body url.Values, header http.Header) *httptest.ResponseRecorder {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(body.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	w := httptest.NewRecorder()
	s.srv.Handler().ServeHTTP(w, req)
	return w
}

var viewIDPattern = regexp.MustCompile(`data-view="([0-9a-f-]{36})"`)

// open loads the page and returns the new view's id.
func (s *ServerTestSuite) open() string {
	w := s.do(http.MethodGet, "/", nil, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	m := viewIDPattern.FindStringSubmatch(w.Body.String())
	s.Require().Len(m, 2)
	return m[1]
}

func (s *ServerTestSuite) state(id string) statePayload {
	w := s.do(http.MethodGet, "/views/"+id+"/state", nil, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var p statePayload
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &p))
	return p
}

func (s *ServerTestSuite) TestIndexOpensView() {
	w := s.do(http.MethodGet, "/", nil, nil)
	s.Equal(http.StatusOK, w.Code)
	body := w.Body.String()
	s.Contains(body, "ROSHAN")
	s.Contains(body, `id="terminal"`)
	s.Contains(body, "Security Status")
	s.Contains(body, "Operational History")
	s.Equal(1, s.views.Len())

	s.open()
	s.Equal(2, s.views.Len())
}

func (s *ServerTestSuite) TestTerminalRevealsOverTime() {
	id := s.open()
	s.Empty(s.state(id).TerminalLines)

	s.clock.Advance(500 * time.Millisecond)
	p := s.state(id)
	s.Require().Len(p.TerminalLines, 1)
	s.Equal("$", p.TerminalLines[0].Prefix)
	s.Equal("cmd", p.TerminalLines[0].Severity)

	s.clock.Advance(5 * time.Second)
	p = s.state(id)
	s.Len(p.TerminalLines, p.TerminalTotal)
}

func (s *ServerTestSuite) TestSelectTab() {
	id := s.open()

	w := s.do(http.MethodPost, "/views/"+id+"/tab/experience", nil, nil)
	s.Equal(http.StatusOK, w.Code)
	body := w.Body.String()
	s.Contains(body, "Operational History")
	s.NotContains(body, `id="terminal"`)
	s.Contains(body, `hx-swap-oob="true"`)
	s.Contains(body, "tab tab-active")

	p := s.state(id)
	s.Equal(view.Experience, p.Tab)
	s.False(p.TerminalShown)

	w = s.do(http.MethodPost, "/views/"+id+"/tab/profile", nil, nil)
	s.Contains(w.Body.String(), `id="terminal"`)
	s.Contains(w.Body.String(), "Technical Arsenal")
}

func (s *ServerTestSuite) TestSelectTabErrors() {
	id := s.open()

	w := s.do(http.MethodPost, "/views/"+id+"/tab/Profile", nil, nil)
	s.Equal(http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, "/views/"+uuid.NewString()+"/tab/skills", nil, nil)
	s.Equal(http.StatusNotFound, w.Code)

	w = s.do(http.MethodPost, "/views/not-a-uuid/tab/skills", nil, nil)
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *ServerTestSuite) TestDismissTerminal() {
	id := s.open()

	w := s.do(http.MethodPost, "/views/"+id+"/terminal/dismiss", nil, nil)
	s.Equal(http.StatusOK, w.Code)
	s.Empty(w.Body.String())
	s.False(s.state(id).TerminalShown)

	s.do(http.MethodPost, "/views/"+id+"/tab/skills", nil, nil)
	w = s.do(http.MethodPost, "/views/"+id+"/tab/profile", nil, nil)
	s.NotContains(w.Body.String(), `id="terminal"`)
}

func (s *ServerTestSuite) TestScanCycle() {
	id := s.open()

	var resp struct {
		Started bool         `json:"started"`
		State   statePayload `json:"state"`
	}
	w := s.do(http.MethodPost, "/views/"+id+"/scan", nil, nil)
	s.Equal(http.StatusAccepted, w.Code)
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.True(resp.Started)
	s.True(resp.State.ScanActive)
	s.Equal("0%", resp.State.ScanButton)

	w = s.do(http.MethodPost, "/views/"+id+"/scan", nil, nil)
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.False(resp.Started)

	s.clock.Advance(300 * time.Millisecond)
	s.Equal(20, s.state(id).ScanProgress)

	s.clock.Advance(1200 * time.Millisecond)
	p := s.state(id)
	s.Equal(100, p.ScanProgress)
	s.True(p.ScanActive)

	s.clock.Advance(500 * time.Millisecond)
	p = s.state(id)
	s.False(p.ScanActive)
	s.Equal("SCAN", p.ScanButton)
}

func (s *ServerTestSuite) serveEvents(ctx context.Context, id string) (*streamRecorder, <-chan struct{}) {
	req := httptest.NewRequest(http.MethodGet, "/views/"+id+"/events", nil).WithContext(ctx)
	w := &streamRecorder{ResponseRecorder: httptest.NewRecorder(), closed: make(chan bool, 1)}
	done := make(chan struct{})
	go func() {
		defer close(done)
		s.srv.Handler().ServeHTTP(w, req)
	}()
	return w, done
}

func (s *ServerTestSuite) TestEventsStreamState() {
	id := s.open()
	v, err := s.views.Lookup(id)
	s.Require().NoError(err)

	w, done := s.serveEvents(context.Background(), id)
	s.Require().Eventually(func() bool { return v.Subscribers() == 1 }, time.Second, 5*time.Millisecond)

	s.Require().NoError(v.SetTab(view.Skills))
	s.views.Dispose(v.ID())

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		s.FailNow("stream did not end after dispose")
	}
	s.Equal(2, strings.Count(w.Body.String(), "event:state"))
	s.Contains(w.Body.String(), `"tab":"skills"`)
}

// disconnect serves one event stream for id and cancels it.
func (s *ServerTestSuite) disconnect(id string, v *view.View) *streamRecorder {
	ctx, cancel := context.WithCancel(context.Background())
	w, done := s.serveEvents(ctx, id)
	s.Require().Eventually(func() bool { return v.Subscribers() == 1 }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		s.FailNow("stream did not end after disconnect")
	}
	s.Zero(v.Subscribers())
	return w
}

func (s *ServerTestSuite) TestEventsReconnectKeepsView() {
	id := s.open()
	v, err := s.views.Lookup(id)
	s.Require().NoError(err)

	w := s.disconnect(id, v)
	s.Contains(w.Body.String(), `"tab":"profile"`)
	s.Equal(1, s.views.Len())

	w = s.disconnect(id, v)
	s.Contains(w.Body.String(), "event:state")

	resp := s.do(http.MethodPost, "/views/"+id+"/tab/skills", nil, nil)
	s.Equal(http.StatusOK, resp.Code)
	resp = s.do(http.MethodPost, "/views/"+id+"/scan", nil, nil)
	s.Equal(http.StatusAccepted, resp.Code)
	s.Equal(view.Skills, s.state(id).Tab)
}

func (s *ServerTestSuite) TestAbandonedViewIsSwept() {
	id := s.open()
	v, err := s.views.Lookup(id)
	s.Require().NoError(err)
	s.disconnect(id, v)

	s.clock.Advance(30 * time.Second)
	s.Zero(s.views.Sweep())

	s.clock.Advance(time.Minute)
	s.Equal(1, s.views.Sweep())
	s.Zero(v.Pending())

	resp := s.do(http.MethodGet, "/views/"+id+"/state", nil, nil)
	s.Equal(http.StatusNotFound, resp.Code)
}

func (s *ServerTestSuite) TestContactSubmit() {
	form := url.Values{"fullName": {"Ada"}, "email": {"ada@example.com"}, "message": {"hello"}}

	w := s.do(http.MethodPost, "/contact", form, nil)
	s.Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), "Thank you for your message")
	s.Require().Len(s.mail.sent, 1)
	s.Equal("Ada", s.mail.sent[0].Name)
}

func (s *ServerTestSuite) TestContactValidation() {
	form := url.Values{"fullName": {"Ada"}, "email": {"not-an-email"}, "message": {"hello"}}

	w := s.do(http.MethodPost, "/contact", form, nil)
	s.Contains(w.Body.String(), "valid email")
	s.Empty(s.mail.sent)
}

func (s *ServerTestSuite) TestContactRateLimited() {
	form := url.Values{"fullName": {"Ada"}, "email": {"ada@example.com"}, "message": {"hello"}}

	s.do(http.MethodPost, "/contact", form, nil)
	s.do(http.MethodPost, "/contact", form, nil)
	w := s.do(http.MethodPost, "/contact", form, nil)
	s.Contains(w.Body.String(), "Too many messages")
	s.Len(s.mail.sent, 2)
}

func (s *ServerTestSuite) TestContactSendFailure() {
	s.mail.err = errors.New("smtp down")
	form := url.Values{"fullName": {"Ada"}, "email": {"ada@example.com"}, "message": {"hello"}}

	w := s.do(http.MethodPost, "/contact", form, nil)
	s.Contains(w.Body.String(), "error sending your message")
}

func (s *ServerTestSuite) TestVisitorTracking() {
	s.do(http.MethodGet, "/", nil, nil)
	s.Equal(1, s.visits.count())

	s.do(http.MethodGet, "/", nil, http.Header{"Dnt": {"1"}})
	s.do(http.MethodGet, "/privacy", nil, nil)
	s.do(http.MethodGet, "/static/app.css", nil, nil)
	s.Equal(1, s.visits.count())

	v := s.visits.visits[0]
	s.Len(v.HashedIP, 16)
	s.Equal("/", v.Path)
	s.Equal(s.now, v.Timestamp)
}

func (s *ServerTestSuite) TestStaticAndPrivacy() {
	w := s.do(http.MethodGet, "/static/app.js", nil, nil)
	s.Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), "EventSource")

	w = s.do(http.MethodGet, "/privacy", nil, nil)
	s.Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), "365 days")
}

func (s *ServerTestSuite) TestHealth() {
	w := s.do(http.MethodGet, "/healthz", nil, nil)
	s.Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), `"status":"ok"`)
}

func (s *ServerTestSuite) login() *http.Cookie {
	w := s.do(http.MethodPost, "/admin/login", url.Values{"username": {"admin"}, "password": {"hunter2"}}, nil)
	s.Require().Equal(http.StatusFound, w.Code)
	s.Equal("/admin/dashboard", w.Header().Get("Location"))
	for _, c := range w.Result().Cookies() {
		if c.Name == adminCookie {
			return c
		}
	}
	s.FailNow("no admin cookie set")
	return nil
}

func (s *ServerTestSuite) TestAdminRequiresLogin() {
	w := s.do(http.MethodGet, "/admin/dashboard", nil, nil)
	s.Equal(http.StatusFound, w.Code)
	s.Equal("/admin/login", w.Header().Get("Location"))

	w = s.do(http.MethodGet, "/admin/api/stats", nil, nil)
	s.Equal(http.StatusUnauthorized, w.Code)

	s.Contains(w.Body.String(), `"error":"unauthorized"`)

	w = s.do(http.MethodGet, "/admin/api/stats", nil, http.Header{"Cookie": {adminCookie + "=forged"}})
	s.Equal(http.StatusUnauthorized, w.Code)
	s.Contains(w.Body.String(), `"message":"Invalid credentials"`)
}

func (s *ServerTestSuite) TestAdminLoginRejectsBadPassword() {
	w := s.do(http.MethodPost, "/admin/login", url.Values{"username": {"admin"}, "password": {"nope"}}, nil)
	s.Equal(http.StatusUnauthorized, w.Code)
	s.Contains(w.Body.String(), "Invalid credentials")
}

func (s *ServerTestSuite) TestAdminStats() {
	ctx := context.Background()
	s.Require().NoError(s.store.RecordVisit(ctx, store.Visit{HashedIP: "aaaa", Path: "/", Timestamp: s.now.Add(-time.Hour)}))
	s.Require().NoError(s.store.RecordEvent(ctx, store.Event{ViewID: "v", Kind: string(view.EventScanCompleted), Timestamp: s.now}))

	cookie := s.login()
	header := http.Header{"Cookie": {adminCookie + "=" + cookie.Value}}

	w := s.do(http.MethodGet, "/admin/api/stats", nil, header)
	s.Require().Equal(http.StatusOK, w.Code)
	var stats store.Stats
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &stats))
	s.EqualValues(1, stats.TotalVisitors)
	s.EqualValues(1, stats.ScansCompleted)

	w = s.do(http.MethodGet, "/admin/export/stats", nil, header)
	s.Equal(http.StatusOK, w.Code)
	s.Contains(w.Header().Get("Content-Disposition"), "admin-stats.json")

	w = s.do(http.MethodGet, "/admin/dashboard", nil, header)
	s.Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), "Scans completed")
}

func (s *ServerTestSuite) TestAdminPrivacyCleanup() {
	ctx := context.Background()
	s.Require().NoError(s.store.RecordVisit(ctx, store.Visit{HashedIP: "old", Path: "/", Timestamp: s.now.AddDate(-2, 0, 0)}))
	s.Require().NoError(s.store.RecordVisit(ctx, store.Visit{HashedIP: "new", Path: "/", Timestamp: s.now}))

	cookie := s.login()
	w := s.do(http.MethodPost, "/admin/privacy/cleanup", nil, http.Header{"Cookie": {adminCookie + "=" + cookie.Value}})
	s.Require().Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), `"removed":1`)
}

func TestServerTestSuite(t *testing.T) {
	suite.Run(t, new(ServerTestSuite))
}
