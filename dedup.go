package budscan

import (
	"image"
	"sync"

	"github.com/corona10/goimagehash"
)

// maxRecentFingerprints bounds the near-duplicate index.
const maxRecentFingerprints = 512

// Fingerprint returns the perceptual difference hash of a photo as a string.
func Fingerprint(img image.Image) (string, error) {
	h, err := goimagehash.DifferenceHash(img)
	if err != nil {
		return "", err
	}
	return h.ToString(), nil
}

// fingerprintIndex remembers recent photo hashes so a re-submitted photo
// (re-encoded, slightly cropped) resolves to the hash it was first seen with.
// It is safe for concurrent use.
type fingerprintIndex struct {
	mu     sync.Mutex
	hashes []*goimagehash.ImageHash
	next   int
	limit  int
}

func newFingerprintIndex(limit int) *fingerprintIndex {
	return &fingerprintIndex{limit: limit}
}

// canonical returns the first remembered hash within threshold of h, or
// remembers h and returns it. The oldest hash is evicted when full.
func (x *fingerprintIndex) canonical(h *goimagehash.ImageHash, threshold int) *goimagehash.ImageHash {
	x.mu.Lock()
	defer x.mu.Unlock()

	for _, seen := range x.hashes {
		dist, err := h.Distance(seen)
		if err == nil && dist <= threshold {
			return seen
		}
	}

	if len(x.hashes) < x.limit {
		x.hashes = append(x.hashes, h)
		return h
	}
	x.hashes[x.next] = h
	x.next = (x.next + 1) % x.limit
	return h
}

// photoKey fingerprints img and resolves near duplicates to a stable key.
// Returns "" when hashing fails; the scan then proceeds uncached.
func (cfg *Config) photoKey(img image.Image) string {
	h, err := goimagehash.DifferenceHash(img)
	if err != nil {
		return ""
	}
	return cfg.seen.canonical(h, cfg.DedupThreshold).ToString()
}
