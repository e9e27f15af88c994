package budscan

import (
	"testing"
)

func TestIsScreenshot(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		meta *PhotoMetadata
		want bool
	}{
		{name: "nil metadata", meta: nil, want: false},
		{name: "empty metadata", meta: &PhotoMetadata{}, want: false},
		{name: "camera photo", meta: &PhotoMetadata{Make: "Apple", Model: "iPhone 15", Software: "17.4"}, want: false},
		{name: "screenshot software", meta: &PhotoMetadata{Software: "Screenshot"}, want: true},
		{name: "snipping tool", meta: &PhotoMetadata{Software: "Snipping Tool"}, want: true},
		{name: "case insensitive", meta: &PhotoMetadata{Software: "SCREEN CAPTURE utility"}, want: true},
		{name: "camera make wins", meta: &PhotoMetadata{Make: "Google", Software: "Screenshot"}, want: false},
		{name: "editor is not a screenshot", meta: &PhotoMetadata{Software: "Adobe Lightroom"}, want: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := tc.meta.IsScreenshot()
			if got != tc.want {
				t.Errorf("IsScreenshot() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestExtractPhotoMetadata_NilAndEmpty(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data []byte
	}{
		{name: "nil data returns nil", data: nil},
		{name: "empty data returns nil", data: []byte{}},
		{name: "garbage data returns nil", data: []byte{0xDE, 0xAD, 0xBE, 0xEF, 0x00, 0x11, 0x22, 0x33}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := ExtractPhotoMetadata(tc.data)
			if got != nil {
				t.Errorf("ExtractPhotoMetadata(%v) = %+v, want nil", tc.data, got)
			}
		})
	}
}

func TestExtractPhotoMetadata_NoEXIF(t *testing.T) {
	t.Parallel()

	// A PNG written by image/png carries no EXIF block.
	if got := ExtractPhotoMetadata(testPNG(t, 32, 32, budGreen)); got != nil {
		t.Errorf("ExtractPhotoMetadata(png) = %+v, want nil", got)
	}
}
