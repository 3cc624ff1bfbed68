package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/google/go-cmp/cmp"
	redis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/signadot/xton-format/go-xton/parse"
	"github.com/signadot/xton-format/go-xton/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer(t *testing.T, withStore bool) *Server {
	t.Helper()
	opts := []Option{WithLogger(zerolog.Nop())}
	if withStore {
		srv, err := miniredis.Run()
		if err != nil {
			t.Fatalf("failed to start miniredis: %v", err)
		}
		client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
		t.Cleanup(func() {
			_ = client.Close()
			srv.Close()
		})
		st, err := store.New(client)
		if err != nil {
			t.Fatal(err)
		}
		opts = append(opts, WithStore(st))
	}
	cfg := DefaultConfig()
	cfg.MaxBodyBytes = 64
	return New(cfg, opts...)
}

func do(t *testing.T, s *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func jsonBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &m); err != nil {
		t.Fatalf("bad json %q: %v", w.Body.String(), err)
	}
	return m
}

func TestDecode(t *testing.T) {
	s := newTestServer(t, false)
	w := do(t, s, http.MethodPost, "/v1/decode", `<b-1/a-[x/\none]>`)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body)
	}
	if got, want := w.Body.String(), `{"b":1,"a":["x",null]}`; got != want {
		t.Errorf("got %s want %s", got, want)
	}

	w = do(t, s, http.MethodPost, "/v1/decode", "a-[\nx")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status %d", w.Code)
	}
	m := jsonBody(t, w)
	want := map[string]any{"kind": "UnterminatedContainer", "offset": 2.0, "line": 1.0, "col": 3.0}
	for k, v := range want {
		if m[k] != v {
			t.Errorf("%s: got %v want %v", k, m[k], v)
		}
	}
}

func TestEncode(t *testing.T) {
	s := newTestServer(t, false)
	w := do(t, s, http.MethodPost, "/v1/encode", `{"name":"a b","n":[1,2.5]}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body)
	}
	if got, want := w.Body.String(), `<name-'a b'/n-[1/2.5]>`; got != want {
		t.Errorf("got %s want %s", got, want)
	}
	if w := do(t, s, http.MethodPost, "/v1/encode", `{`); w.Code != http.StatusBadRequest {
		t.Errorf("status %d", w.Code)
	}
}

func TestValidate(t *testing.T) {
	s := newTestServer(t, false)
	m := jsonBody(t, do(t, s, http.MethodPost, "/v1/validate", `a-b`))
	if m["valid"] != true {
		t.Errorf("got %v", m)
	}
	m = jsonBody(t, do(t, s, http.MethodPost, "/v1/validate", `a-b c`))
	if m["valid"] != false || m["kind"] != "TrailingData" {
		t.Errorf("got %v", m)
	}
}

func TestBodyLimit(t *testing.T) {
	s := newTestServer(t, false)
	w := do(t, s, http.MethodPost, "/v1/validate", "["+strings.Repeat("a/", 64)+"a]")
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status %d", w.Code)
	}
}

func TestConvert(t *testing.T) {
	s := newTestServer(t, false)
	w := do(t, s, http.MethodPost, "/v1/convert?from=xton&to=json", `x-[1/\true]`)
	if w.Code != http.StatusOK || w.Body.String() != `{"x":[1,true]}` {
		t.Errorf("status %d: %s", w.Code, w.Body)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type %q", ct)
	}
	w = do(t, s, http.MethodPost, "/v1/convert?from=yaml", "a: 1\n")
	if w.Code != http.StatusOK || w.Body.String() != `a-1` {
		t.Errorf("status %d: %s", w.Code, w.Body)
	}
	if w := do(t, s, http.MethodPost, "/v1/convert?to=csv", `{}`); w.Code != http.StatusBadRequest {
		t.Errorf("status %d", w.Code)
	}
	if w := do(t, s, http.MethodPost, "/v1/convert?to=toml", `[1]`); w.Code != http.StatusUnprocessableEntity {
		t.Errorf("status %d", w.Code)
	}
}

func TestDocs(t *testing.T) {
	s := newTestServer(t, true)

	w := do(t, s, http.MethodPut, "/v1/docs/cfg", `<a-1/b-x>`)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body)
	}
	if diff := cmp.Diff(map[string]any{"key": "cfg", "version": 1.0}, jsonBody(t, w)); diff != "" {
		t.Errorf("(-want +got)\n%s", diff)
	}
	w = do(t, s, http.MethodPut, "/v1/docs/other?format=json", `{"z":true}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body)
	}

	w = do(t, s, http.MethodGet, "/v1/docs/cfg", "")
	if w.Code != http.StatusOK || w.Body.String() != `<a-1.0/b-x>` {
		t.Errorf("status %d: %s", w.Code, w.Body)
	}
	if v := w.Header().Get(versionHeader); v != "1" {
		t.Errorf("version header %q", v)
	}
	w = do(t, s, http.MethodGet, "/v1/docs/other?format=json", "")
	if w.Body.String() != `{"z":true}` {
		t.Errorf("got %s", w.Body)
	}

	m := jsonBody(t, do(t, s, http.MethodGet, "/v1/docs", ""))
	if diff := cmp.Diff([]any{"cfg", "other"}, m["keys"]); diff != "" {
		t.Errorf("(-want +got)\n%s", diff)
	}

	if w := do(t, s, http.MethodDelete, "/v1/docs/cfg", ""); w.Code != http.StatusNoContent {
		t.Errorf("delete status %d", w.Code)
	}
	if w := do(t, s, http.MethodGet, "/v1/docs/cfg", ""); w.Code != http.StatusNotFound {
		t.Errorf("get after delete status %d", w.Code)
	}
	if w := do(t, s, http.MethodDelete, "/v1/docs/cfg", ""); w.Code != http.StatusNotFound {
		t.Errorf("second delete status %d", w.Code)
	}
	if w := do(t, s, http.MethodPut, "/v1/docs/bad", `[`); w.Code != http.StatusBadRequest {
		t.Errorf("bad put status %d", w.Code)
	}
}

func TestDocsDisabledWithoutStore(t *testing.T) {
	s := newTestServer(t, false)
	if w := do(t, s, http.MethodGet, "/v1/docs/x", ""); w.Code != http.StatusNotFound {
		t.Errorf("status %d", w.Code)
	}
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t, false)
	m := jsonBody(t, do(t, s, http.MethodGet, "/healthz", ""))
	if m["status"] != "ok" || m["service"] != "xton" {
		t.Errorf("got %v", m)
	}
	do(t, s, http.MethodPost, "/v1/decode", `[`)
	w := do(t, s, http.MethodGet, "/metrics", "")
	for _, name := range []string{"xton_http_requests_total", "xton_decode_errors_total"} {
		if !strings.Contains(w.Body.String(), name) {
			t.Errorf("metrics missing %s", name)
		}
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "xton.toml")
	text := `addr = ":9000"
cors_origins = ["http://localhost:3000/"]
redis_addr = "localhost:6379"
duplicate_keys = "reject"
max_depth = 64
`
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	want := Config{
		Name:          "xton",
		Addr:          ":9000",
		CorsOrigins:   []string{"http://localhost:3000/"},
		RedisAddr:     "localhost:6379",
		MaxBodyBytes:  defaultMaxBodyBytes,
		MaxDepth:      64,
		DuplicateKeys: parse.RejectDuplicates,
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("(-want +got)\n%s", diff)
	}

	for _, bad := range []string{
		`max_depth = 0`,
		`duplicate_keys = "sometimes"`,
		`addr = ""`,
		`addr = `,
	} {
		if _, err := ParseConfig(bad); err == nil {
			t.Errorf("%q: expected error", bad)
		}
	}
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("expected error for missing file")
	}
}
