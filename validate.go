package budscan

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"

	_ "golang.org/x/image/webp"
)

var (
	// ErrPhotoUndecodable is returned for data that is not a supported image.
	ErrPhotoUndecodable = errors.New("budscan: photo cannot be decoded")
	// ErrPhotoTooSmall is returned for photos narrower than Config.MinPhotoWidth.
	ErrPhotoTooSmall = errors.New("budscan: photo is too small")
)

// ValidatePhoto checks the photo header without decoding pixels:
//   - jpeg, png, gif or webp
//   - width >= cfg.MinPhotoWidth
func (cfg *Config) ValidatePhoto(data []byte) error {
	cfg.defaults()

	imgCfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPhotoUndecodable, err)
	}
	if imgCfg.Width < cfg.MinPhotoWidth {
		slog.Debug("budscan: photo too narrow", "format", format, "width", imgCfg.Width, "min", cfg.MinPhotoWidth)
		return fmt.Errorf("%w: width %d < %d", ErrPhotoTooSmall, imgCfg.Width, cfg.MinPhotoWidth)
	}
	return nil
}

// DecodePhoto decodes jpeg, png, gif or webp data.
func DecodePhoto(data []byte) (image.Image, string, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrPhotoUndecodable, err)
	}
	return img, format, nil
}
