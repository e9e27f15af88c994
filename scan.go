package budscan

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"
)

// ErrNoAnnotator is returned by Scan when Config.Annotator is nil.
var ErrNoAnnotator = errors.New("budscan: no annotator configured")

// paletteSize is the number of swatches filled in when the annotator returns none.
const paletteSize = 3

// ScanResult is the outcome of scanning one photo.
type ScanResult struct {
	MatchResult
	Fingerprint    string         `json:"fingerprint,omitempty"`
	Photo          *PhotoMetadata `json:"photo,omitempty"`
	CatalogVersion uint64         `json:"catalogVersion"`
	Cached         bool           `json:"cached"`
}

// clone returns a copy of r that shares no memory with it. Cached results are
// cloned on the way in and out so callers may modify what Scan returns.
func (r ScanResult) clone() ScanResult {
	r.MatchResult = r.MatchResult.clone()
	r.Photo = clonePtr(r.Photo)
	return r
}

// Scan runs the intake pipeline for one photo and matches it against catalog:
// decode, validate, fingerprint, cache lookup, annotate, fill the palette when
// the annotator has none, and match. The result is cached under the photo's
// fingerprint and the catalog version.
func (cfg *Config) Scan(ctx context.Context, data []byte, catalog Catalog) (*ScanResult, error) {
	cfg.defaults()
	start := time.Now()

	if err := cfg.ValidatePhoto(data); err != nil {
		return nil, err
	}
	img, _, err := DecodePhoto(data)
	if err != nil {
		return nil, err
	}

	fingerprint := cfg.photoKey(img)
	cacheKey := ""
	if cfg.Cache != nil && fingerprint != "" {
		cacheKey = cfg.Cache.Key("budscan_scan", fingerprint+"@"+strconv.FormatUint(catalog.Version, 10))
		var cached ScanResult
		if cfg.Cache.Get(ctx, cacheKey, &cached) {
			slog.Debug("budscan: scan cache hit", "fingerprint", fingerprint)
			cached = cached.clone()
			cached.Cached = true
			cfg.emitScan(&cached, start)
			return &cached, nil
		}
	}

	if cfg.Annotator == nil {
		return nil, ErrNoAnnotator
	}
	mimeType := http.DetectContentType(data)
	annotated, err := cfg.annotate(ctx, PhotoInput{
		URL:      EncodeDataURL(data, mimeType),
		MIMEType: mimeType,
	})
	if err != nil {
		return nil, err
	}
	bundle := *annotated
	if len(bundle.DominantColors) == 0 {
		bundle.DominantColors = DominantColors(img, paletteSize)
	}

	res := &ScanResult{
		MatchResult:    MatchStrainByVisuals(bundle, catalog.Entries),
		Fingerprint:    fingerprint,
		Photo:          ExtractPhotoMetadata(data),
		CatalogVersion: catalog.Version,
	}
	if cacheKey != "" {
		cfg.Cache.Set(ctx, cacheKey, res.clone())
	}
	cfg.emitScan(res, start)
	return res, nil
}

// ScanURL downloads a photo and scans it.
func (cfg *Config) ScanURL(ctx context.Context, url string, catalog Catalog) (*ScanResult, error) {
	r, err := cfg.Download(ctx, url, DownloadOpts{})
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, fmt.Errorf("%w: download failed: %s", ErrPhotoUndecodable, url)
	}
	return cfg.Scan(ctx, r.Data, catalog)
}

// annotate calls the annotator, turning a panic into an error.
func (cfg *Config) annotate(ctx context.Context, photo PhotoInput) (bundle *AnnotationBundle, err error) {
	defer func() {
		if r := recover(); r != nil {
			if cfg.OnPanic != nil {
				cfg.OnPanic("annotate", r)
			}
			bundle, err = nil, fmt.Errorf("budscan: annotator panic: %v", r)
		}
	}()

	bundle, err = cfg.Annotator.Annotate(ctx, photo)
	if err != nil {
		slog.Warn("budscan: annotator error", "error", err.Error())
		return nil, fmt.Errorf("annotate photo: %w", err)
	}
	if bundle == nil {
		bundle = &AnnotationBundle{}
	}
	return bundle, nil
}

func (cfg *Config) emitScan(res *ScanResult, start time.Time) {
	if cfg.OnScan == nil {
		return
	}
	ev := ScanEvent{
		Fingerprint: res.Fingerprint,
		Packaged:    res.IsPackagedProduct,
		Cached:      res.Cached,
		Duration:    time.Since(start),
	}
	if res.TopMatch != nil {
		ev.TopMatch = res.TopMatch.Entry.Name
		ev.Confidence = res.TopMatch.Confidence
	}
	cfg.OnScan(ev)
}
