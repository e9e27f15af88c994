package budscan

import (
	"context"
	"fmt"
	"sync"
)

// batchConcurrency bounds concurrent scans in ScanBatch.
const batchConcurrency = 3

// BatchItem is the outcome of one photo in ScanBatch.
type BatchItem struct {
	Result *ScanResult
	Err    error
}

// ScanBatch scans photos concurrently against one catalog snapshot and returns
// results in input order. A failing or panicking photo never stops the others.
func (cfg *Config) ScanBatch(ctx context.Context, photos [][]byte, catalog Catalog) []BatchItem {
	cfg.defaults()

	out := make([]BatchItem, len(photos))
	sem := make(chan struct{}, batchConcurrency)

	var wg sync.WaitGroup
	for i, data := range photos {
		wg.Add(1)
		go func(i int, data []byte) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			out[i] = cfg.scanOne(ctx, data, catalog)
		}(i, data)
	}
	wg.Wait()

	return out
}

// scanOne scans a single photo, recovering from panics to protect the pool.
func (cfg *Config) scanOne(ctx context.Context, data []byte, catalog Catalog) (item BatchItem) {
	defer func() {
		if r := recover(); r != nil {
			if cfg.OnPanic != nil {
				cfg.OnPanic("scanBatch", r)
			}
			item = BatchItem{Err: fmt.Errorf("budscan: scan panic: %v", r)}
		}
	}()

	if err := ctx.Err(); err != nil {
		return BatchItem{Err: err}
	}
	res, err := cfg.Scan(ctx, data, catalog)
	return BatchItem{Result: res, Err: err}
}
