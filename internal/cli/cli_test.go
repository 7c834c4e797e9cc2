package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/samvad-hq/pawfinder/internal/app"
	"github.com/samvad-hq/pawfinder/pkg/httpclient"
	"gopkg.in/yaml.v3"
)

// fakeAPI is an httptest server that remembers the requests it saw.
type fakeAPI struct {
	*httptest.Server
	mu       sync.Mutex
	requests []*http.Request
	handler  http.HandlerFunc
}

func newFakeAPI(t *testing.T, h http.HandlerFunc) *fakeAPI {
	t.Helper()
	f := &fakeAPI{handler: h}
	f.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.MultipartForm == nil && strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
			_ = r.ParseMultipartForm(1 << 20)
		}
		f.mu.Lock()
		f.requests = append(f.requests, r)
		f.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		f.handler(w, r)
	}))
	t.Cleanup(f.Close)
	return f
}

func (f *fakeAPI) seen() []*http.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*http.Request(nil), f.requests...)
}

func petsHandler(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == "/api/login":
		_, _ = io.WriteString(w, `{"data":{"token":"abc123","user":{"id":7,"name":"Иван"}}}`)
	case r.URL.Path == "/api/users/7/orders":
		if r.Header.Get("Authorization") != "Bearer abc123" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = io.WriteString(w, `{"error":{"message":"Unauthenticated"}}`)
			return
		}
		_, _ = io.WriteString(w, `{"data":{"orders":[{"id":1,"kind":"cat","status":"wasFound","photos":["/storage/1.jpg"]}]}}`)
	case r.URL.Path == "/api/pets" && r.Method == http.MethodGet:
		_, _ = io.WriteString(w, `{"data":{"orders":[{"id":1,"kind":"cat"},{"id":2,"kind":"dog"},{"id":3,"kind":"bird"}]}}`)
	case r.URL.Path == "/api/pets" && r.Method == http.MethodPost:
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"data":{"id":99,"status":"ok"}}`)
	case r.URL.Path == "/api/pets/slider":
		w.WriteHeader(http.StatusNotFound)
	case r.URL.Path == "/api/subscription":
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = io.WriteString(w, `{"error":{"message":"Validation error","errors":{"email":["already subscribed"]}}}`)
	default:
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `<html>oops</html>`)
	}
}

func run(t *testing.T, api *fakeAPI, args []string, opts ...Option) (string, string, int) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	base := []string{"--api-url", api.URL + "/api", "--session-store", "bbolt", "--session-path", sessionPath(t)}
	code := Execute(context.Background(), append(base, args...), &stdout, &stderr, opts...)
	return stdout.String(), stderr.String(), code
}

var sessionPaths sync.Map

// sessionPath gives every test its own bbolt file shared by its runs.
func sessionPath(t *testing.T) string {
	if p, ok := sessionPaths.Load(t.Name()); ok {
		return p.(string)
	}
	p := filepath.Join(t.TempDir(), "session.db")
	sessionPaths.Store(t.Name(), p)
	return p
}

func TestLoginThenOrdersUsesStoredSession(t *testing.T) {
	api := newFakeAPI(t, petsHandler)

	if _, stderr, code := run(t, api, []string{"orders"}); code == 0 || !strings.Contains(stderr, "no user recorded") {
		t.Fatalf("orders before login: code=%d stderr=%s", code, stderr)
	}

	out, stderr, code := run(t, api, []string{"login", "--email", "ivan@example.com", "--password", "Passw0rd"})
	if code != 0 {
		t.Fatalf("login failed: %s", stderr)
	}
	if strings.Contains(out, "abc123") {
		t.Fatalf("token must not be printed: %s", out)
	}

	out, stderr, code = run(t, api, []string{"orders"})
	if code != 0 {
		t.Fatalf("orders failed: %s", stderr)
	}
	var page struct {
		Items []struct {
			ID          int      `json:"id"`
			StatusLabel string   `json:"status_label"`
			PhotoURLs   []string `json:"photo_urls"`
		} `json:"items"`
		TotalPages int `json:"total_pages"`
	}
	if err := json.Unmarshal([]byte(out), &page); err != nil {
		t.Fatalf("orders output is not JSON: %v\n%s", err, out)
	}
	if len(page.Items) != 1 || page.Items[0].StatusLabel != "Owner found" {
		t.Fatalf("unexpected page %+v", page)
	}
	if got := page.Items[0].PhotoURLs[0]; got != api.URL+"/storage/1.jpg" {
		t.Fatalf("photo url = %q", got)
	}

	if _, stderr, code := run(t, api, []string{"logout"}); code != 0 {
		t.Fatalf("logout failed: %s", stderr)
	}
	if _, stderr, code := run(t, api, []string{"orders", "--user", "7"}); code == 0 || !strings.Contains(stderr, "please log in") {
		t.Fatalf("orders after logout: code=%d stderr=%s", code, stderr)
	}
}

func TestRecentPaginatesAsYAML(t *testing.T) {
	api := newFakeAPI(t, petsHandler)

	out, stderr, code := run(t, api, []string{"recent", "-o", "yaml", "--page", "2", "--per-page", "2"})
	if code != 0 {
		t.Fatalf("recent failed: %s", stderr)
	}
	var page struct {
		Items []struct {
			ID   int    `yaml:"id"`
			Kind string `yaml:"kind"`
		} `yaml:"items"`
		Page       int `yaml:"page"`
		TotalPages int `yaml:"total_pages"`
	}
	if err := yaml.Unmarshal([]byte(out), &page); err != nil {
		t.Fatalf("output is not YAML: %v\n%s", err, out)
	}
	if page.Page != 2 || page.TotalPages != 2 || len(page.Items) != 1 || page.Items[0].Kind != "bird" {
		t.Fatalf("unexpected page %+v", page)
	}
}

func TestSliderNotFoundPrintsEmpty(t *testing.T) {
	api := newFakeAPI(t, petsHandler)

	out, stderr, code := run(t, api, []string{"slider"})
	if code != 0 {
		t.Fatalf("slider failed: %s", stderr)
	}
	if strings.Join(strings.Fields(out), "") != `{"pets":[]}` {
		t.Fatalf("slider output = %s", out)
	}
}

func TestServerValidationErrorsArePrintedPerField(t *testing.T) {
	api := newFakeAPI(t, petsHandler)

	_, stderr, code := run(t, api, []string{"subscribe", "a@b.ru"})
	if code == 0 {
		t.Fatalf("expected failure")
	}
	if !strings.Contains(stderr, "Validation error") || !strings.Contains(stderr, "email: already subscribed") {
		t.Fatalf("stderr = %s", stderr)
	}
}

func TestServerErrorUsesGenericMessage(t *testing.T) {
	api := newFakeAPI(t, petsHandler)

	_, stderr, code := run(t, api, []string{"pet", "get", "5"})
	if code == 0 || !strings.Contains(stderr, "server error (status 500)") {
		t.Fatalf("code=%d stderr=%s", code, stderr)
	}
}

func TestLocalValidationSendsNothing(t *testing.T) {
	api := newFakeAPI(t, petsHandler)

	_, stderr, code := run(t, api, []string{"pet", "add", "--phone", "8 999", "--kind", "cat"})
	if code == 0 {
		t.Fatalf("expected failure")
	}
	for _, field := range []string{"phone", "email", "district", "confirm", "photo1"} {
		if !strings.Contains(stderr, "  "+field+": ") {
			t.Fatalf("missing %s in %s", field, stderr)
		}
	}
	if n := len(api.seen()); n != 0 {
		t.Fatalf("expected no requests, got %d", n)
	}
}

func TestPetAddUploadsPhotos(t *testing.T) {
	api := newFakeAPI(t, petsHandler)
	photo := filepath.Join(t.TempDir(), "cat.png")
	if err := os.WriteFile(photo, []byte("png"), 0o600); err != nil {
		t.Fatalf("write photo: %v", err)
	}

	out, stderr, code := run(t, api, []string{"pet", "add",
		"--phone", "+79991234567", "--email", "a@b.ru", "--kind", "cat",
		"--district", "Центральный", "--confirm", "--photo", photo})
	if code != 0 {
		t.Fatalf("pet add failed: %s", stderr)
	}
	if !strings.Contains(out, `"id": 99`) {
		t.Fatalf("output = %s", out)
	}

	reqs := api.seen()
	if len(reqs) != 1 {
		t.Fatalf("expected one request, got %d", len(reqs))
	}
	form := reqs[0].MultipartForm
	if form == nil || form.Value["confirm"][0] != "1" || len(form.File["photo1"]) != 1 {
		t.Fatalf("unexpected form %+v", form)
	}
	if form.File["photo1"][0].Filename != "cat.png" {
		t.Fatalf("filename = %q", form.File["photo1"][0].Filename)
	}
}

type errRT struct{}

func (errRT) RoundTrip(*http.Request) (*http.Response, error) {
	return nil, errors.New("dial tcp: connection refused")
}

func TestNetworkFailureSuggestsConnectionCheck(t *testing.T) {
	api := newFakeAPI(t, petsHandler)

	_, stderr, code := run(t, api, []string{"recent"},
		WithAppOptions(app.WithHTTPOptions(httpclient.WithTransport(errRT{}))))
	if code == 0 || !strings.Contains(stderr, "check your connection") {
		t.Fatalf("code=%d stderr=%s", code, stderr)
	}
}

func TestImageResolvesWithoutNetwork(t *testing.T) {
	api := newFakeAPI(t, petsHandler)

	out, stderr, code := run(t, api, []string{"image", "a.png", "https://cdn/x.png"})
	if code != 0 {
		t.Fatalf("image failed: %s", stderr)
	}
	var got map[string]string
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if got["a.png"] != api.URL+"/a.png" || got["https://cdn/x.png"] != "https://cdn/x.png" {
		t.Fatalf("unexpected output %v", got)
	}
	if n := len(api.seen()); n != 0 {
		t.Fatalf("expected no requests, got %d", n)
	}
}

func TestInvalidOutputFormat(t *testing.T) {
	api := newFakeAPI(t, petsHandler)

	_, stderr, code := run(t, api, []string{"recent", "-o", "xml"})
	if code == 0 || !strings.Contains(stderr, "output_format") {
		t.Fatalf("code=%d stderr=%s", code, stderr)
	}
}
