package budscan

import (
	"image"
	"math"
	"sort"

	"golang.org/x/image/draw"
)

// paletteSampleSize is the longest side photos are downsampled to before bucketing.
const paletteSampleSize = 64

type colorBucket struct {
	key              int
	r, g, b, samples int
}

// DominantColors returns up to k swatches covering most of img, most
// prominent first. Pixels are grouped into 4-bit-per-channel buckets; each
// swatch is the average color of its bucket. Fully transparent pixels are ignored.
func DominantColors(img image.Image, k int) []ColorSwatch {
	if img == nil || k <= 0 || img.Bounds().Empty() {
		return nil
	}
	sample := downsample(img, paletteSampleSize)

	buckets := make(map[int]*colorBucket)
	total := 0
	bounds := sample.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := sample.NRGBAAt(x, y)
			if c.A == 0 {
				continue
			}
			key := int(c.R>>4)<<8 | int(c.G>>4)<<4 | int(c.B>>4)
			bk, ok := buckets[key]
			if !ok {
				bk = &colorBucket{key: key}
				buckets[key] = bk
			}
			bk.r += int(c.R)
			bk.g += int(c.G)
			bk.b += int(c.B)
			bk.samples++
			total++
		}
	}
	if total == 0 {
		return nil
	}

	ranked := make([]*colorBucket, 0, len(buckets))
	for _, bk := range buckets {
		ranked = append(ranked, bk)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].samples != ranked[j].samples {
			return ranked[i].samples > ranked[j].samples
		}
		return ranked[i].key < ranked[j].key
	})
	if len(ranked) > k {
		ranked = ranked[:k]
	}

	out := make([]ColorSwatch, len(ranked))
	for i, bk := range ranked {
		out[i] = ColorSwatch{
			Red:      bk.r / bk.samples,
			Green:    bk.g / bk.samples,
			Blue:     bk.b / bk.samples,
			Coverage: roundTo(float64(bk.samples)/float64(total), 4),
		}
	}
	return out
}

// downsample scales img so its longest side is at most size pixels.
func downsample(img image.Image, size int) *image.NRGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if longest := max(w, h); longest > size {
		scale := float64(size) / float64(longest)
		w = max(1, int(math.Round(float64(w)*scale)))
		h = max(1, int(math.Round(float64(h)*scale)))
	}
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}
