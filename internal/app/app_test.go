package app

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/samvad-hq/pawfinder/internal/config"
	"github.com/samvad-hq/pawfinder/pkg/authapi"
	"github.com/samvad-hq/pawfinder/pkg/session"
)

func testConfig(t *testing.T, apiURL, store string) *config.Config {
	t.Helper()
	cfg := &config.Config{
		AppName:            "pawfinder-test",
		LogLevel:           "debug",
		APIBaseURL:         apiURL,
		HTTPTimeoutSeconds: 5,
		SessionStore:       store,
		SessionPath:        filepath.Join(t.TempDir(), "session.db"),
		OutputFormat:       "json",
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	return cfg
}

func newAPIServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/login":
			_, _ = io.WriteString(w, `{"data":{"token":"tok","user":{"id":5,"name":"Иван"}}}`)
		case "/api/pets/slider":
			w.WriteHeader(http.StatusNotFound)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestNewRequiresConfig(t *testing.T) {
	if _, err := New(nil, nil); err == nil {
		t.Fatalf("expected error for nil config")
	}
}

func TestLoginSurvivesRestartWithBolt(t *testing.T) {
	srv := newAPIServer(t)
	cfg := testConfig(t, srv.URL+"/api", "bbolt")

	a, err := New(cfg, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := a.Auth.Login(context.Background(), authapi.Credentials{Email: "a@b.c", Password: "x"}); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if err := a.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	b, err := New(cfg, nil)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer b.Close()

	tok, err := b.Session().Token()
	if err != nil || tok != "tok" {
		t.Fatalf("token after reopen = %q, %v", tok, err)
	}
	u, err := b.CurrentUser()
	if err != nil || u == nil || u.ID != 5 {
		t.Fatalf("CurrentUser = %+v, %v", u, err)
	}
}

func TestRequestCountsByStatus(t *testing.T) {
	srv := newAPIServer(t)
	a, err := New(testConfig(t, srv.URL+"/api", "memory"), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer a.Close()

	ctx := context.Background()
	if _, err := a.Pets.GetSlider(ctx); err != nil {
		t.Fatalf("GetSlider: %v", err)
	}
	if _, err := a.Pets.GetRecentPets(ctx); err == nil {
		t.Fatalf("expected server error")
	}

	counts, err := a.RequestCounts()
	if err != nil {
		t.Fatalf("RequestCounts: %v", err)
	}
	if counts["404"] != 1 || counts["500"] != 1 {
		t.Fatalf("counts = %v", counts)
	}
}

func TestImagesUseConfiguredBase(t *testing.T) {
	cfg := testConfig(t, "https://pets.example/api", "none")
	a, err := New(cfg, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer a.Close()

	if got := a.Images.Resolve("/storage/a.png"); got != "https://pets.example/storage/a.png" {
		t.Fatalf("Resolve = %q", got)
	}
	if u, err := a.CurrentUser(); err != nil || u != nil {
		t.Fatalf("CurrentUser = %+v, %v", u, err)
	}
}

type closeCounter struct {
	*session.Memory
	closed int
}

func (c *closeCounter) Close() error {
	c.closed++
	return c.Memory.Close()
}

func TestNewLeavesCallerStoreOpenOnFailure(t *testing.T) {
	store := &closeCounter{Memory: session.NewMemory()}
	cfg := &config.Config{AppName: "pawfinder-test", SessionStore: "memory"}

	if _, err := New(cfg, nil, WithStore(store)); err == nil {
		t.Fatalf("expected error for empty api base url")
	}
	if store.closed != 0 {
		t.Fatalf("caller's store was closed %d times", store.closed)
	}
}
