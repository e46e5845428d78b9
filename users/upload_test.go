package users

import (
	"testing"
	"time"
)

// Minimal valid file signatures, enough for content sniffing.
var (
	pngHeader  = []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 0x0D, 'I', 'H', 'D', 'R'}
	jpegHeader = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00}
	gifHeader  = []byte("GIF89a")
)

func TestDetectImageExt(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		data    []byte
		wantExt string
		wantErr bool
	}{
		{"png", pngHeader, ".png", false},
		{"jpeg", jpegHeader, ".jpg", false},
		{"gif", gifHeader, ".gif", false},
		{"plain text", []byte("definitely not an image"), "", true},
		{"pdf", []byte("%PDF-1.4 fake document"), "", true},
		{"empty", nil, "", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ext, err := detectImageExt(tc.data)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected rejection, got ext %q", ext)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if ext != tc.wantExt {
				t.Fatalf("extension: got %q want %q", ext, tc.wantExt)
			}
		})
	}
}

func TestStoredImageName(t *testing.T) {
	t.Parallel()

	at := time.UnixMilli(1700000000000)
	got := storedImageName(7, at, ".png")
	want := "7-1700000000000.png"
	if got != want {
		t.Fatalf("stored name: got %q want %q", got, want)
	}
}
