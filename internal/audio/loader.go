package audio

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Loader fetches spoken renditions of Arabic text and caches them on
// disk. Clips come from the Google Translate TTS endpoint (free, no API
// key needed) and are stored under content-addressed names, so each
// distinct text is fetched at most once across sessions.
type Loader struct {
	dir     string
	baseURL string
	client  *http.Client
}

const (
	defaultBaseURL = "https://translate.google.com/translate_tts"
	fetchTimeout   = 10 * time.Second

	// The endpoint rejects non-browser clients.
	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
)

// NewLoader creates a Loader caching clips under dir.
func NewLoader(dir string) *Loader {
	return &Loader{
		dir:     dir,
		baseURL: defaultBaseURL,
		client:  &http.Client{Timeout: fetchTimeout},
	}
}

// CacheKey returns the content-addressed key for text: the first 12 hex
// characters of its SHA-256. Arabic text makes a poor filename; the
// hash does not.
func CacheKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])[:12]
}

// Path returns the on-disk location for text's clip, whether or not it
// has been fetched yet.
func (l *Loader) Path(text string) string {
	return filepath.Join(l.dir, "tts_"+CacheKey(text)+".mp3")
}

// Resolve ensures a clip for text exists on disk and returns its path.
// A cache hit costs a single stat call.
func (l *Loader) Resolve(ctx context.Context, text string) (string, error) {
	path := l.Path(text)
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}

	if err := l.fetch(ctx, text, path); err != nil {
		return "", fmt.Errorf("fetch clip for %q: %w", text, err)
	}
	return path, nil
}

func (l *Loader) fetch(ctx context.Context, text, path string) error {
	params := url.Values{}
	params.Set("ie", "UTF-8")
	params.Set("q", text)
	params.Set("tl", "ar")
	params.Set("client", "tw-ob")
	params.Set("textlen", strconv.Itoa(len([]rune(text))))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := l.client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d from TTS endpoint", resp.StatusCode)
	}

	if err := os.MkdirAll(l.dir, 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}

	// Write to a temp file and rename so a cache hit never sees a
	// half-written clip.
	tmp, err := os.CreateTemp(l.dir, ".tts-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write clip: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close clip: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("rename clip: %w", err)
	}
	return nil
}
