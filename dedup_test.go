package budscan

import (
	"image/color"
	"math"
	"testing"

	"github.com/corona10/goimagehash"
)

func TestFingerprint(t *testing.T) {
	t.Parallel()

	a1, err := Fingerprint(gradientImage(400, 300, false))
	if err != nil {
		t.Fatalf("Fingerprint: %v", err)
	}
	a2, err := Fingerprint(gradientImage(400, 300, false))
	if err != nil {
		t.Fatalf("Fingerprint: %v", err)
	}
	b, err := Fingerprint(gradientImage(400, 300, true))
	if err != nil {
		t.Fatalf("Fingerprint: %v", err)
	}

	if a1 == "" || a1 != a2 {
		t.Errorf("Fingerprint not stable: %q vs %q", a1, a2)
	}
	if a1 == b {
		t.Errorf("opposite gradients share fingerprint %q", a1)
	}
}

func TestFingerprintIndex(t *testing.T) {
	t.Parallel()

	x := newFingerprintIndex(2)
	zero := goimagehash.NewImageHash(0, goimagehash.DHash)
	near := goimagehash.NewImageHash(0b101, goimagehash.DHash)
	far := goimagehash.NewImageHash(math.MaxUint64, goimagehash.DHash)
	half := goimagehash.NewImageHash(0xFFFFFFFF, goimagehash.DHash)

	if got := x.canonical(zero, 6); got != zero {
		t.Error("first hash not remembered as itself")
	}
	if got := x.canonical(near, 6); got != zero {
		t.Error("near duplicate did not resolve to the first hash")
	}
	if got := x.canonical(far, 6); got != far {
		t.Error("distant hash resolved to an existing one")
	}

	// The index holds two hashes; adding a third evicts the oldest.
	if got := x.canonical(half, 6); got != half {
		t.Error("distant hash resolved to an existing one")
	}
	again := goimagehash.NewImageHash(0, goimagehash.DHash)
	if got := x.canonical(again, 6); got != again {
		t.Error("evicted hash still resolved")
	}
}

func TestPhotoKey(t *testing.T) {
	t.Parallel()

	cfg := &Config{}
	cfg.defaults()

	img := gradientImage(400, 300, false)
	key := cfg.photoKey(img)
	if key == "" {
		t.Fatal("photoKey is empty")
	}

	touched := gradientImage(400, 300, false)
	touched.SetNRGBA(10, 10, color.NRGBA{R: 255, A: 255})
	if got := cfg.photoKey(touched); got != key {
		t.Errorf("near duplicate key = %q, want %q", got, key)
	}

	if got := cfg.photoKey(gradientImage(400, 300, true)); got == key {
		t.Error("distinct photo shares the key")
	}
}
