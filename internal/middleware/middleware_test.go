package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"amonic/skydesk/internal/auth"
	"amonic/skydesk/internal/common"
	"amonic/skydesk/internal/constants"
	"amonic/skydesk/internal/logging"
	"amonic/skydesk/internal/metrics"
)

func okHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func newSession(t *testing.T, role constants.Role) (*common.SessionService, *common.Session) {
	t.Helper()
	svc := common.NewSessionService(common.NewMemorySessionStore(time.Minute), time.Hour)
	s, err := svc.CreateSession(context.Background(), 5, int(role), "u@amonic.com",
		map[string]string{constants.TokenKeyAccess: "tok"}, 0)
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	return svc, s
}

func TestSessionAuthMiddleware_RedirectsWithoutCookie(t *testing.T) {
	svc, _ := newSession(t, constants.RoleUser)
	h := SessionAuthMiddleware(svc)(http.HandlerFunc(okHandler))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/user", nil))
	if rr.Code != http.StatusSeeOther || rr.Header().Get("Location") != "/auth/login" {
		t.Errorf("got %d %s", rr.Code, rr.Header().Get("Location"))
	}

	req := httptest.NewRequest(http.MethodGet, "/user", nil)
	req.Header.Set("HX-Request", "true")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized || rr.Header().Get("HX-Redirect") != "/auth/login" {
		t.Errorf("htmx got %d %s", rr.Code, rr.Header().Get("HX-Redirect"))
	}
}

func TestSessionAuthMiddleware_UnknownSessionClearsCookie(t *testing.T) {
	svc, _ := newSession(t, constants.RoleUser)
	h := SessionAuthMiddleware(svc)(http.HandlerFunc(okHandler))

	req := httptest.NewRequest(http.MethodGet, "/user", nil)
	req.AddCookie(&http.Cookie{Name: constants.CookieSession, Value: "gone"})
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusSeeOther {
		t.Fatalf("status = %d", rr.Code)
	}
	if !strings.Contains(rr.Header().Get("Set-Cookie"), constants.CookieSession+"=;") {
		t.Errorf("cookie not cleared: %q", rr.Header().Get("Set-Cookie"))
	}
}

func TestSessionAuthMiddleware_StoresSession(t *testing.T) {
	svc, s := newSession(t, constants.RoleAdmin)

	var gotToken string
	var gotRole constants.Role
	h := SessionAuthMiddleware(svc)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotToken = auth.AccessToken(r.Context())
		gotRole = auth.GetUserClaims(r.Context()).Role()
	}))

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.AddCookie(&http.Cookie{Name: constants.CookieSession, Value: s.ID()})
	h.ServeHTTP(httptest.NewRecorder(), req)

	if gotToken != "tok" || gotRole != constants.RoleAdmin {
		t.Errorf("token=%q role=%v", gotToken, gotRole)
	}
}

func TestRequireRole(t *testing.T) {
	svc, userSession := newSession(t, constants.RoleUser)
	h := SessionAuthMiddleware(svc)(RequireRole(constants.RoleAdmin)(http.HandlerFunc(okHandler)))

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("HX-Request", "true")
	req.AddCookie(&http.Cookie{Name: constants.CookieSession, Value: userSession.ID()})
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Fatalf("status = %d", rr.Code)
	}
	if rr.Header().Get("HX-Retarget") != "#alerts" {
		t.Errorf("missing retarget header")
	}
	if !strings.Contains(rr.Body.String(), constants.MsgForbidden) {
		t.Errorf("body = %s", rr.Body.String())
	}

	adminSvc, adminSession := newSession(t, constants.RoleAdmin)
	h = SessionAuthMiddleware(adminSvc)(RequireRole(constants.RoleAdmin, constants.RoleUser)(http.HandlerFunc(okHandler)))
	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.AddCookie(&http.Cookie{Name: constants.CookieSession, Value: adminSession.ID()})
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Errorf("admin status = %d", rr.Code)
	}
}

func TestLoginRateLimiter(t *testing.T) {
	limiter := NewLoginRateLimiter(0.001, 2)
	h := limiter.Middleware(http.HandlerFunc(okHandler))

	codes := []int{}
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
		req.RemoteAddr = "10.0.0.1:5555"
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		codes = append(codes, rr.Code)
	}
	if codes[0] != 200 || codes[1] != 200 || codes[2] != http.StatusTooManyRequests {
		t.Errorf("codes = %v", codes)
	}

	req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
	req.RemoteAddr = "10.0.0.2:5555"
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Errorf("other client throttled: %d", rr.Code)
	}
}

func TestThemeMiddleware(t *testing.T) {
	var got string
	h := ThemeMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = auth.GetTheme(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: constants.CookieTheme, Value: "dark"})
	h.ServeHTTP(httptest.NewRecorder(), req)
	if got != "dark" {
		t.Errorf("theme = %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: constants.CookieTheme, Value: "<script>"})
	h.ServeHTTP(httptest.NewRecorder(), req)
	if got != "light" {
		t.Errorf("invalid theme = %q", got)
	}
}

func TestRequestIDAndMetrics(t *testing.T) {
	m := metrics.NewMetricsRegistry(prometheus.NewRegistry())

	r := chi.NewRouter()
	r.Use(RequestIDMiddleware)
	r.Use(MetricsMiddleware(m))
	var seen string
	r.Get("/schedules/{id}", func(w http.ResponseWriter, r *http.Request) {
		seen = auth.GetRequestID(r.Context())
		w.WriteHeader(http.StatusAccepted)
	})

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/schedules/12", nil))

	if seen == "" || rr.Header().Get("X-Request-ID") != seen {
		t.Errorf("request id %q header %q", seen, rr.Header().Get("X-Request-ID"))
	}
	got := testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("/schedules/{id}", http.MethodGet, "202"))
	if got != 1 {
		t.Errorf("requests_total = %v", got)
	}
}

func TestAccessLogCarriesSignedInUser(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	prev := logging.GetLogger()
	logging.SetLogger(zap.New(core).Sugar())
	t.Cleanup(func() { logging.SetLogger(prev) })

	svc, s := newSession(t, constants.RoleAdmin)
	r := chi.NewRouter()
	r.Use(MetricsMiddleware(metrics.NewMetricsRegistry(prometheus.NewRegistry())))
	r.With(SessionAuthMiddleware(svc)).Get("/admin", okHandler)

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.AddCookie(&http.Cookie{Name: constants.CookieSession, Value: s.ID()})
	r.ServeHTTP(httptest.NewRecorder(), req)

	entries := logs.FilterMessage("HTTP request completed").All()
	if len(entries) != 1 {
		t.Fatalf("access log entries = %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["user_id"] != int64(5) || fields["session_id"] != s.ID() || fields["role"] != "admin" {
		t.Errorf("fields = %v", fields)
	}
}

func TestNormalizeEndpoint(t *testing.T) {
	cases := map[string]string{
		"/schedules/12/cancel":                      "/schedules/{id}/cancel",
		"/ui/api/health":                            "/ui/api/health",
		"/x/123e4567-e89b-12d3-a456-426614174000/y": "/x/{id}/y",
	}
	for in, want := range cases {
		if got := NormalizeEndpoint(in); got != want {
			t.Errorf("NormalizeEndpoint(%q) = %q, want %q", in, got, want)
		}
	}
}
