// Package renderer assembles complete filter lists by resolving
// %include% instructions across local and remote sources.
package renderer

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// ErrNotFound indicates an include target that no source can supply.
var ErrNotFound = errors.New("filter list not found")

// Source supplies filter list content by path.
type Source interface {
	Get(path string) (io.ReadCloser, error)
}

// FSSource serves filter lists from files under a root directory.
type FSSource struct {
	Root string
}

func (s FSSource) Get(path string) (io.ReadCloser, error) {
	f, err := os.Open(filepath.Join(s.Root, filepath.FromSlash(path)))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if err != nil {
		return nil, err
	}
	return f, nil
}

// cacheEntry stores cached URL data with timestamp.
type cacheEntry struct {
	FetchedAt time.Time `json:"fetched_at"`
	RulesFile string    `json:"rules_file"`
}

// WebSource fetches filter lists over HTTP, optionally keeping a
// per-URL cache on disk so repeated renders do not refetch.
type WebSource struct {
	Client    *http.Client
	URLPrefix string // prepended to include paths
	CacheDir  string // empty disables caching
}

// NewWebSource creates a WebSource with a default HTTP client.
func NewWebSource(urlPrefix, cacheDir string) *WebSource {
	return &WebSource{
		Client: &http.Client{
			Timeout: 30 * time.Second,
		},
		URLPrefix: urlPrefix,
		CacheDir:  cacheDir,
	}
}

func (s *WebSource) Get(path string) (io.ReadCloser, error) {
	url := s.URLPrefix + path

	if s.CacheDir != "" {
		key := urlToCacheKey(url)
		rulesFile := filepath.Join(s.CacheDir, key+".rules.txt")
		if f, err := os.Open(rulesFile); err == nil {
			return f, nil
		}
		body, err := s.fetch(url)
		if err != nil {
			return nil, err
		}
		if err := s.writeCache(key, url, body); err != nil {
			return nil, err
		}
		return os.Open(rulesFile)
	}

	body, err := s.fetch(url)
	if err != nil {
		return nil, err
	}
	return io.NopCloser(bytes.NewReader(body)), nil
}

func (s *WebSource) fetch(url string) ([]byte, error) {
	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("fetch %q: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, url)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %q: bad status: %s", url, resp.Status)
	}
	return io.ReadAll(resp.Body)
}

func (s *WebSource) writeCache(key, url string, body []byte) error {
	if err := os.MkdirAll(s.CacheDir, 0755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}
	rulesFile := key + ".rules.txt"
	if err := os.WriteFile(filepath.Join(s.CacheDir, rulesFile), body, 0644); err != nil {
		return fmt.Errorf("write cache file: %w", err)
	}
	meta, err := json.MarshalIndent(cacheEntry{
		FetchedAt: time.Now(),
		RulesFile: rulesFile,
	}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(s.CacheDir, key+".meta.json"), meta, 0644)
}

func urlToCacheKey(url string) string {
	hash := sha256.Sum256([]byte(url))
	return hex.EncodeToString(hash[:8])
}
