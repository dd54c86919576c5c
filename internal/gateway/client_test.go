package gateway

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"golang.org/x/time/rate"

	"github.com/rexlx/clinicdesk/internal/session"
	"github.com/rexlx/clinicdesk/internal/store"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *session.TokenStore) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	tokens := session.NewTokenStore(store.NewMemStore())
	c := New(srv.URL, tokens)
	c.Limiter = rate.NewLimiter(rate.Inf, 1)
	return c, tokens
}

func TestBearerAttachedOnlyWhenTokenHeld(t *testing.T) {
	t.Parallel()

	var gotAuth []string
	c, tokens := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = append(gotAuth, r.Header.Get("Authorization"))
		w.Write([]byte(`{}`))
	}))

	var out map[string]any
	if err := c.Get(context.Background(), "/patients/", &out); err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if err := tokens.Set("tok-123"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := c.Get(context.Background(), "/patients/", &out); err != nil {
		t.Fatalf("Get failed: %v", err)
	}

	if gotAuth[0] != "" {
		t.Fatalf("request without token carried Authorization %q", gotAuth[0])
	}
	if gotAuth[1] != "Bearer tok-123" {
		t.Fatalf("Authorization = %q, want Bearer tok-123", gotAuth[1])
	}
}

func TestUnauthorizedClearsTokenAndNotifies(t *testing.T) {
	t.Parallel()

	c, tokens := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	if err := tokens.Set("stale"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	fired := 0
	c.OnUnauthorized = func() { fired++ }

	err := c.Get(context.Background(), "/appointments/", nil)
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
	if _, ok := tokens.Get(); ok {
		t.Fatal("expected token cleared after 401")
	}
	if fired != 1 {
		t.Fatalf("OnUnauthorized fired %d times, want 1", fired)
	}
}

func TestLoginStoresTokenWithoutAttachingOne(t *testing.T) {
	t.Parallel()

	var gotAuth, gotContentType, gotUser, gotPass string
	c, tokens := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/token" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		gotUser = r.PostFormValue("username")
		gotPass = r.PostFormValue("password")
		w.Write([]byte(`{"access_token":"fresh-token"}`))
	}))
	if err := tokens.Set("old-token"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	if err := c.Login(context.Background(), "admin", "hunter2"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	if gotAuth != "" {
		t.Fatalf("login request carried Authorization %q", gotAuth)
	}
	if gotContentType != "application/x-www-form-urlencoded" {
		t.Fatalf("Content-Type = %q", gotContentType)
	}
	if gotUser != "admin" || gotPass != "hunter2" {
		t.Fatalf("form = (%q, %q)", gotUser, gotPass)
	}
	if got, _ := tokens.Get(); got != "fresh-token" {
		t.Fatalf("stored token = %q, want fresh-token", got)
	}
}

func TestFailedLoginHasNoSideEffects(t *testing.T) {
	t.Parallel()

	c, tokens := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	if err := tokens.Set("existing"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	fired := 0
	c.OnUnauthorized = func() { fired++ }

	err := c.Login(context.Background(), "admin", "wrong")
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
	if got, ok := tokens.Get(); !ok || got != "existing" {
		t.Fatal("failed login must not touch the stored token")
	}
	if fired != 0 {
		t.Fatalf("OnUnauthorized fired %d times on a failed login", fired)
	}
}

func TestServerErrorCarriesStatusAndBody(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"detail":"boom"}`))
	}))

	err := c.Get(context.Background(), "/logs/", nil)
	var se *ServerError
	if !errors.As(err, &se) {
		t.Fatalf("err = %T (%v), want *ServerError", err, err)
	}
	if se.Status != http.StatusInternalServerError {
		t.Fatalf("Status = %d", se.Status)
	}
	if se.Body != `{"detail":"boom"}` {
		t.Fatalf("Body = %q", se.Body)
	}
}

func TestTransportFailureIsNetworkError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := srv.URL
	srv.Close() // nothing is listening anymore

	c := New(addr, session.NewTokenStore(store.NewMemStore()))
	c.Limiter = rate.NewLimiter(rate.Inf, 1)

	err := c.Get(context.Background(), "/patients/", nil)
	var ne *NetworkError
	if !errors.As(err, &ne) {
		t.Fatalf("err = %T (%v), want *NetworkError", err, err)
	}
}

func TestPatchBuildsQueryString(t *testing.T) {
	t.Parallel()

	var gotMethod, gotQuery, gotPath string
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotQuery = r.URL.Query().Get("new_status")
	}))

	err := c.Patch(context.Background(), "/appointments/42/status", url.Values{"new_status": {"confirmed"}})
	if err != nil {
		t.Fatalf("Patch failed: %v", err)
	}
	if gotMethod != http.MethodPatch || gotPath != "/appointments/42/status" || gotQuery != "confirmed" {
		t.Fatalf("got %s %s new_status=%s", gotMethod, gotPath, gotQuery)
	}
}

func TestRequestIDHeaderPresent(t *testing.T) {
	t.Parallel()

	ids := make(map[string]bool)
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ids[r.Header.Get("X-Request-ID")] = true
		w.Write([]byte(`{}`))
	}))

	var out map[string]any
	for range 3 {
		if err := c.Get(context.Background(), "/logs/", &out); err != nil {
			t.Fatalf("Get failed: %v", err)
		}
	}
	if len(ids) != 3 || ids[""] {
		t.Fatalf("expected 3 distinct non-empty request ids, got %v", ids)
	}
}
