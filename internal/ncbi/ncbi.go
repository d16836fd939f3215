package ncbi

// Package ncbi fetches nucleotide FASTA records from NCBI E-utilities so a
// reference genome can be named by accession instead of a local file.
// Responses are cached on disk per accession.

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"
)

// httpClient performs requests; tests may replace it with a mock transport.
var httpClient = &http.Client{Timeout: 2 * time.Minute}

// efetchURL is the E-utilities endpoint; tests may point it elsewhere.
var efetchURL = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/efetch.fcgi"

const maxAttempts = 3

// Cache structures
type cachedEntry struct {
	Fasta       string `json:"fasta"`
	RetrievedAt int64  `json:"retrieved_at"`
}

var (
	cacheMu       sync.RWMutex
	cache         map[string]cachedEntry
	cacheLoaded   bool
	cacheDirty    bool
	cacheFilePath string
	cacheTTLSecs  int64 = 7 * 24 * 3600
	apiKey        string
)

// SetCacheFilePath overrides the on-disk cache location.
func SetCacheFilePath(p string) {
	cacheMu.Lock()
	defer cacheMu.Unlock()
	cacheFilePath = p
	cacheLoaded = false
}

// SetCacheTTLSeconds sets how long cached records stay valid. Zero or less
// disables expiry.
func SetCacheTTLSeconds(s int64) {
	cacheMu.Lock()
	defer cacheMu.Unlock()
	cacheTTLSecs = s
}

// CacheTTLSeconds returns the current cache expiry.
func CacheTTLSeconds() int64 {
	cacheMu.RLock()
	defer cacheMu.RUnlock()
	return cacheTTLSecs
}

// SetAPIKey sets the E-utilities api_key sent with every request.
func SetAPIKey(k string) {
	cacheMu.Lock()
	defer cacheMu.Unlock()
	apiKey = k
}

func defaultCachePath() string {
	if cacheFilePath != "" {
		return cacheFilePath
	}
	if dir, err := os.UserCacheDir(); err == nil {
		p := filepath.Join(dir, "genomicseq")
		_ = os.MkdirAll(p, 0o755)
		return filepath.Join(p, "ncbi_cache.json")
	}
	return filepath.Join(os.TempDir(), "genomicseq_ncbi_cache.json")
}

// loadCacheLocked must be called with cacheMu held for writing.
func loadCacheLocked() {
	if cacheLoaded {
		return
	}
	cache = make(map[string]cachedEntry)
	cacheLoaded = true
	data, err := os.ReadFile(defaultCachePath())
	if err != nil {
		return
	}
	_ = json.Unmarshal(data, &cache)
}

func getCached(acc string) (string, bool) {
	cacheMu.Lock()
	defer cacheMu.Unlock()
	loadCacheLocked()
	e, ok := cache[acc]
	if !ok {
		return "", false
	}
	if cacheTTLSecs > 0 && time.Now().Unix()-e.RetrievedAt > cacheTTLSecs {
		return "", false
	}
	return e.Fasta, true
}

func setCached(acc, fasta string) {
	if acc == "" || fasta == "" {
		return
	}
	cacheMu.Lock()
	defer cacheMu.Unlock()
	loadCacheLocked()
	cache[acc] = cachedEntry{Fasta: fasta, RetrievedAt: time.Now().Unix()}
	cacheDirty = true
}

// FlushCache writes the cache to disk if it changed since the last flush.
func FlushCache() error {
	cacheMu.Lock()
	defer cacheMu.Unlock()
	if !cacheDirty {
		return nil
	}
	b, err := json.MarshalIndent(cache, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(defaultCachePath(), b, 0o644); err != nil {
		return err
	}
	cacheDirty = false
	return nil
}

// FetchFasta returns the FASTA text of each accession, in request order.
// Cached records are used when still fresh; the rest are fetched one
// accession at a time.
func FetchFasta(ctx context.Context, accessions []string) ([]string, error) {
	out := make([]string, 0, len(accessions))
	for _, acc := range accessions {
		acc = strings.TrimSpace(acc)
		if acc == "" {
			continue
		}
		if v, ok := getCached(acc); ok {
			out = append(out, v)
			continue
		}
		text, err := fetchOne(ctx, acc)
		if err != nil {
			return nil, fmt.Errorf("fetch %s: %w", acc, err)
		}
		if !strings.HasPrefix(text, ">") {
			return nil, fmt.Errorf("fetch %s: response is not FASTA", acc)
		}
		setCached(acc, text)
		out = append(out, text)
	}
	return out, nil
}

func requestURL(acc string) string {
	q := url.Values{}
	q.Set("db", "nuccore")
	q.Set("id", acc)
	q.Set("rettype", "fasta")
	q.Set("retmode", "text")
	cacheMu.RLock()
	if apiKey != "" {
		q.Set("api_key", apiKey)
	}
	cacheMu.RUnlock()
	return efetchURL + "?" + q.Encode()
}

func fetchOne(ctx context.Context, acc string) (string, error) {
	reqURL := requestURL(acc)

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return "", err
		}
		req.Header.Set("User-Agent", "genomicseq/1.0")

		wait := time.Duration(attempt*300) * time.Millisecond
		resp, err := httpClient.Do(req)
		if err != nil {
			lastErr = err
		} else {
			data, rerr := io.ReadAll(resp.Body)
			resp.Body.Close()
			switch {
			case resp.StatusCode == http.StatusOK:
				if rerr != nil {
					return "", rerr
				}
				return string(data), nil
			case resp.StatusCode == http.StatusTooManyRequests:
				lastErr = fmt.Errorf("ncbi efetch returned 429")
				wait = retryAfter(resp.Header.Get("Retry-After"), time.Duration(attempt*500)*time.Millisecond)
			default:
				return "", fmt.Errorf("ncbi efetch returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
			}
		}
		if attempt == maxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(wait):
		}
	}
	return "", lastErr
}

// retryAfter parses a Retry-After header given in seconds.
func retryAfter(h string, fallback time.Duration) time.Duration {
	if s, err := strconv.Atoi(strings.TrimSpace(h)); err == nil && s >= 0 {
		return time.Duration(s) * time.Second
	}
	return fallback
}
