package eventImage

import (
	"errors"
	"strings"
	"testing"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func TestValidate(t *testing.T) {
	ct, err := Validate(Upload{FileName: "a.png", ContentType: "image/png", Data: pngHeader}, 0)
	if err != nil || ct != "image/png" {
		t.Fatalf("Validate png = %q, %v", ct, err)
	}

	if _, err := Validate(Upload{Data: nil}, 0); !errors.Is(err, ErrEmptyFile) {
		t.Fatalf("empty: err = %v", err)
	}
	if _, err := Validate(Upload{Data: pngHeader}, 4); !errors.Is(err, ErrFileTooLarge) {
		t.Fatalf("too large: err = %v", err)
	}
	if _, err := Validate(Upload{Data: []byte("plain text, not an image")}, 0); !errors.Is(err, ErrInvalidFileType) {
		t.Fatalf("text: err = %v", err)
	}
	if _, err := Validate(Upload{ContentType: "application/pdf", Data: pngHeader}, 0); !errors.Is(err, ErrInvalidFileType) {
		t.Fatalf("declared pdf: err = %v", err)
	}
	if _, err := Validate(Upload{ContentType: "image/jpg", Data: pngHeader}, 0); err != nil {
		t.Fatalf("image/jpg alias should be accepted: %v", err)
	}
}

func TestBuildObjectPath(t *testing.T) {
	p, err := BuildObjectPath("", "react-summit", `C:\Users\me\banner image.png`)
	if err != nil {
		t.Fatalf("BuildObjectPath: %v", err)
	}
	if !strings.HasPrefix(p, "DevEvent/react-summit/") || !strings.HasSuffix(p, "-banner_image.png") {
		t.Fatalf("unexpected object path %q", p)
	}

	if _, err := BuildObjectPath("x", "y", "../"); !errors.Is(err, ErrInvalidFileName) {
		t.Fatalf("err = %v", err)
	}
}

func TestSanitizeFileName(t *testing.T) {
	cases := map[string]string{
		"photo.jpg":        "photo.jpg",
		"dir/sub/pic.png":  "pic.png",
		"..":               "",
		"evil.png?x=1":     "",
		"  my banner.webp": "my_banner.webp",
	}
	for in, want := range cases {
		if got := SanitizeFileName(in); got != want {
			t.Fatalf("SanitizeFileName(%q) = %q, want %q", in, got, want)
		}
	}
}
