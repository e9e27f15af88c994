package budscan

import (
	"bytes"
	"strings"
	"time"

	"github.com/bep/imagemeta"
)

// PhotoMetadata holds the EXIF capture fields of a submitted photo.
type PhotoMetadata struct {
	Make       string    `json:"make,omitempty"`
	Model      string    `json:"model,omitempty"`
	Software   string    `json:"software,omitempty"`
	CapturedAt time.Time `json:"capturedAt,omitzero"`
}

// screenshotSoftware are EXIF Software fragments left by screen capture tools.
var screenshotSoftware = []string{"screenshot", "snipping", "screen capture", "grab"}

// IsScreenshot reports a screen capture rather than a camera photo: no camera
// make and a capture tool in the Software tag.
func (m *PhotoMetadata) IsScreenshot() bool {
	if m == nil || m.Make != "" {
		return false
	}
	sw := strings.ToLower(m.Software)
	for _, s := range screenshotSoftware {
		if strings.Contains(sw, s) {
			return true
		}
	}
	return false
}

var wantedEXIFTags = map[string]bool{
	"Make":             true,
	"Model":            true,
	"Software":         true,
	"DateTimeOriginal": true,
}

// exifTimeLayout is the EXIF date format.
const exifTimeLayout = "2006:01:02 15:04:05"

// ExtractPhotoMetadata parses EXIF capture fields from raw image bytes.
// Returns nil if the data is nil, empty, or carries none of the fields.
// Graceful degradation: never returns an error.
func ExtractPhotoMetadata(data []byte) *PhotoMetadata {
	if len(data) == 0 {
		return nil
	}

	meta := &PhotoMetadata{}
	found := false

	_, err := imagemeta.Decode(imagemeta.Options{
		R:       bytes.NewReader(data),
		Sources: imagemeta.EXIF,
		ShouldHandleTag: func(ti imagemeta.TagInfo) bool {
			return ti.Source == imagemeta.EXIF && wantedEXIFTags[ti.Tag]
		},
		HandleTag: func(ti imagemeta.TagInfo) error {
			handleEXIFTag(meta, ti, &found)
			return nil
		},
	})

	if err != nil || !found {
		return nil
	}

	return meta
}

// handleEXIFTag sets the PhotoMetadata field for an EXIF tag.
func handleEXIFTag(meta *PhotoMetadata, ti imagemeta.TagInfo, found *bool) {
	if ti.Tag == "DateTimeOriginal" {
		if t, ok := tagValueTime(ti.Value); ok {
			meta.CapturedAt = t
			*found = true
		}
		return
	}

	s := strings.TrimSpace(tagValueString(ti.Value))
	if s == "" {
		return
	}

	switch ti.Tag {
	case "Make":
		meta.Make = s
	case "Model":
		meta.Model = s
	case "Software":
		meta.Software = s
	default:
		return
	}

	*found = true
}

func tagValueTime(v any) (time.Time, bool) {
	switch val := v.(type) {
	case time.Time:
		return val, !val.IsZero()
	default:
		t, err := time.Parse(exifTimeLayout, strings.TrimSpace(tagValueString(v)))
		if err != nil {
			return time.Time{}, false
		}
		return t, true
	}
}

// tagValueString extracts a string from a tag value.
func tagValueString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case []string:
		if len(val) > 0 {
			return val[0]
		}
		return ""
	case []any:
		if len(val) > 0 {
			if s, ok := val[0].(string); ok {
				return s
			}
		}
		return ""
	default:
		return ""
	}
}
