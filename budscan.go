// Package budscan identifies a cannabis product from the annotations of a
// photo. The matching engine (MatchStrainByVisuals and the functions it
// composes) is pure and deterministic. The intake helpers on Config decode,
// fingerprint and annotate photos before handing them to the engine.
package budscan

import (
	"context"
	"net/http"
	"sync"
	"time"
)

// DefaultMinPhotoWidth is the minimum pixel width for accepted photos.
const DefaultMinPhotoWidth = 320

// DefaultMaxPhotoBytes bounds photo downloads.
const DefaultMaxPhotoBytes = 8 << 20

// DefaultDedupThreshold is the maximum dHash distance at which two photos
// count as the same scan.
const DefaultDedupThreshold = 6

// PhotoInput is a photo handed to an Annotator.
type PhotoInput struct {
	URL      string // data: URI or HTTP URL
	MIMEType string // e.g. "image/jpeg"
}

// Cache abstracts key-value caching (Redis, go-cache, etc.)
type Cache interface {
	Key(prefix, value string) string
	Get(ctx context.Context, key string, dest any) bool
	Set(ctx context.Context, key string, value any)
}

// Annotator is the external vision step: OCR, label detection, color
// extraction and web-similarity lookup for one photo.
type Annotator interface {
	Annotate(ctx context.Context, photo PhotoInput) (*AnnotationBundle, error)
}

// ScanEvent describes one completed scan for audit logs and metrics.
type ScanEvent struct {
	Fingerprint string
	TopMatch    string
	Confidence  int
	Packaged    bool
	Cached      bool
	Duration    time.Duration
}

// Config holds all dependencies injected by the consumer.
type Config struct {
	Annotator  Annotator    // required for Scan
	Cache      Cache        // optional: scan results keyed by photo fingerprint
	HTTPClient *http.Client // optional: client for ScanURL (nil = http.DefaultClient)

	MinPhotoWidth  int    // default: DefaultMinPhotoWidth
	MaxPhotoBytes  int64  // default: DefaultMaxPhotoBytes
	DedupThreshold int    // default: DefaultDedupThreshold
	UserAgent      string // default: "Mozilla/5.0 (compatible; go-budscan/1.0)"

	// Optional callbacks for metrics/logging.
	OnScan  func(ScanEvent)
	OnPanic func(tag string, r any)

	once sync.Once
	seen *fingerprintIndex
}

// defaults fills zero-value fields once; safe for concurrent callers.
func (c *Config) defaults() {
	c.once.Do(c.applyDefaults)
}

func (c *Config) applyDefaults() {
	c.seen = newFingerprintIndex(maxRecentFingerprints)
	if c.MinPhotoWidth <= 0 {
		c.MinPhotoWidth = DefaultMinPhotoWidth
	}
	if c.MaxPhotoBytes <= 0 {
		c.MaxPhotoBytes = DefaultMaxPhotoBytes
	}
	if c.DedupThreshold <= 0 {
		c.DedupThreshold = DefaultDedupThreshold
	}
	if c.UserAgent == "" {
		c.UserAgent = "Mozilla/5.0 (compatible; go-budscan/1.0)"
	}
	if c.HTTPClient == nil {
		c.HTTPClient = http.DefaultClient
	}
}
