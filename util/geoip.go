package util

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/oschwald/geoip2-golang"
	cache "github.com/patrickmn/go-cache"
)

var (
	geoipDB        *geoip2.Reader
	geoipCache     *cache.Cache
	geoipCacheHits int64
	geoipCacheMiss int64
)

// InitGeoIP opens a GeoIP2/GeoLite2 .mmdb file and sets up the lookup cache.
// With no path given it falls back to GEOIP_DB_PATH; when neither is set,
// location enrichment simply stays disabled.
func InitGeoIP(dbPath string) error {
	if dbPath == "" {
		dbPath = os.Getenv("GEOIP_DB_PATH")
	}
	if dbPath == "" {
		return nil
	}

	r, err := geoip2.Open(dbPath)
	if err != nil {
		return err
	}
	geoipDB = r
	geoipCache = cache.New(24*time.Hour, 1*time.Hour)
	return nil
}

// CloseGeoIP closes the GeoIP DB if opened.
func CloseGeoIP() {
	if geoipDB != nil {
		_ = geoipDB.Close()
		geoipDB = nil
	}
}

// ValidateGeoIP checks that the file at path is a readable MMDB database.
func ValidateGeoIP(path string) error {
	r, err := geoip2.Open(path)
	if err != nil {
		return err
	}
	return r.Close()
}

// DownloadGeoIP fetches an MMDB file from url into destPath, transparently
// decompressing .gz sources. The write goes through a temp file so a partial
// download never replaces a working database.
func DownloadGeoIP(ctx context.Context, url, destPath string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return "", err
	}
	client := &http.Client{Timeout: 60 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to download, status: %d", resp.StatusCode)
	}

	destDir := filepath.Dir(destPath)
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", err
	}

	tmpFile, err := os.CreateTemp(destDir, "geoip-*.tmp")
	if err != nil {
		return "", err
	}
	defer func() {
		_ = tmpFile.Close()
		// No-op after a successful rename; cleans up on error paths.
		_ = os.Remove(tmpFile.Name())
	}()

	var src io.Reader = resp.Body
	if filepath.Ext(url) == ".gz" {
		gzReader, err := gzip.NewReader(resp.Body)
		if err != nil {
			return "", err
		}
		defer gzReader.Close()
		src = gzReader
	}
	if _, err := io.Copy(tmpFile, src); err != nil {
		return "", err
	}

	if err := tmpFile.Sync(); err != nil {
		return "", err
	}
	if err := tmpFile.Close(); err != nil {
		return "", err
	}
	if err := os.Rename(tmpFile.Name(), destPath); err != nil {
		return "", err
	}
	return destPath, nil
}

// isPrivateOrLocalIP filters addresses that a GeoIP database cannot place.
func isPrivateOrLocalIP(ip string) bool {
	return ip == "127.0.0.1" || ip == "::1" ||
		strings.HasPrefix(ip, "10.") ||
		strings.HasPrefix(ip, "192.168") ||
		strings.HasPrefix(ip, "::")
}

// GetIPLocation returns the city and country for an IP using the local GeoIP
// database behind an in-memory cache. Both values are empty when no lookup is
// possible.
func GetIPLocation(ip string) (string, string) {
	if ip == "" || isPrivateOrLocalIP(ip) {
		return "", ""
	}

	if geoipCache != nil {
		if v, ok := geoipCache.Get(ip); ok {
			atomic.AddInt64(&geoipCacheHits, 1)
			if arr, ok := v.([]string); ok && len(arr) == 2 {
				return arr[0], arr[1]
			}
		}
	}
	atomic.AddInt64(&geoipCacheMiss, 1)

	if geoipDB == nil {
		return "", ""
	}
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return "", ""
	}
	rec, err := geoipDB.City(parsed)
	if err != nil {
		return "", ""
	}

	city := rec.City.Names["en"]
	country := rec.Country.Names["en"]
	if country == "" {
		country = rec.Country.IsoCode
	}

	if geoipCache != nil {
		geoipCache.Set(ip, []string{city, country}, cache.DefaultExpiration)
	}
	return city, country
}

// GetGeoIPCacheMetrics reports cache hits, misses, and the current entry count.
func GetGeoIPCacheMetrics() (hits int64, misses int64, size int) {
	hits = atomic.LoadInt64(&geoipCacheHits)
	misses = atomic.LoadInt64(&geoipCacheMiss)
	if geoipCache != nil {
		size = geoipCache.ItemCount()
	}
	return hits, misses, size
}
