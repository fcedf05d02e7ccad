package audio

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
)

func testLoader(t *testing.T, handler http.HandlerFunc) *Loader {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	l := NewLoader(t.TempDir())
	l.baseURL = srv.URL
	l.client = srv.Client()
	return l
}

func TestCacheKey(t *testing.T) {
	key := CacheKey("كَتَبَ")
	if len(key) != 12 {
		t.Fatalf("expected 12-char key, got %q", key)
	}
	if key != CacheKey("كَتَبَ") {
		t.Error("key is not deterministic")
	}
	if key == CacheKey("ب") {
		t.Error("distinct texts share a key")
	}
}

func TestPath(t *testing.T) {
	l := NewLoader("/tmp/clips")
	p := l.Path("ب")
	if filepath.Dir(p) != "/tmp/clips" {
		t.Errorf("unexpected dir: %q", p)
	}
	base := filepath.Base(p)
	if !strings.HasPrefix(base, "tts_") || !strings.HasSuffix(base, ".mp3") {
		t.Errorf("unexpected name: %q", base)
	}
}

func TestResolve_FetchesAndCaches(t *testing.T) {
	var hits atomic.Int32
	l := testLoader(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte("mp3-bytes"))
	})

	path1, err := l.Resolve(context.Background(), "كَتَبَ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, err := os.ReadFile(path1)
	if err != nil {
		t.Fatalf("clip not on disk: %v", err)
	}
	if string(data) != "mp3-bytes" {
		t.Errorf("unexpected clip contents: %q", data)
	}

	path2, err := l.Resolve(context.Background(), "كَتَبَ")
	if err != nil {
		t.Fatalf("unexpected error on cache hit: %v", err)
	}
	if path1 != path2 {
		t.Errorf("paths differ: %q vs %q", path1, path2)
	}
	if hits.Load() != 1 {
		t.Errorf("expected 1 fetch, got %d", hits.Load())
	}
}

func TestResolve_QueryAndHeaders(t *testing.T) {
	var gotQuery map[string][]string
	var gotUA string
	l := testLoader(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		gotUA = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte("x"))
	})

	if _, err := l.Resolve(context.Background(), "ب"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := gotQuery["q"]; len(got) != 1 || got[0] != "ب" {
		t.Errorf("unexpected q param: %v", got)
	}
	if got := gotQuery["tl"]; len(got) != 1 || got[0] != "ar" {
		t.Errorf("unexpected tl param: %v", got)
	}
	if got := gotQuery["client"]; len(got) != 1 || got[0] != "tw-ob" {
		t.Errorf("unexpected client param: %v", got)
	}
	if got := gotQuery["textlen"]; len(got) != 1 || got[0] != "1" {
		t.Errorf("expected textlen counted in runes, got %v", got)
	}
	if !strings.Contains(gotUA, "Mozilla") {
		t.Errorf("expected browser user agent, got %q", gotUA)
	}
}

func TestResolve_HTTPError(t *testing.T) {
	l := testLoader(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusTooManyRequests)
	})

	if _, err := l.Resolve(context.Background(), "ب"); err == nil {
		t.Fatal("expected error for HTTP 429")
	}
	if _, err := os.Stat(l.Path("ب")); !os.IsNotExist(err) {
		t.Error("failed fetch must not leave a cached clip")
	}
}

func TestResolve_NoTempLeftovers(t *testing.T) {
	l := testLoader(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("x"))
	})

	if _, err := l.Resolve(context.Background(), "ب"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entries, err := os.ReadDir(l.dir)
	if err != nil {
		t.Fatalf("read cache dir: %v", err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".tts-") {
			t.Errorf("temp file left behind: %s", e.Name())
		}
	}
}

func TestResolve_CanceledContext(t *testing.T) {
	l := testLoader(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("x"))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := l.Resolve(ctx, "ب"); err == nil {
		t.Fatal("expected error for canceled context")
	}
}
