package storage

import (
	"testing"
)

func TestNormalizeObjectKey(t *testing.T) {
	valid := map[string]string{
		"user/face.jpg":          "user/face.jpg",
		"  /user/face.jpg ":      "user/face.jpg",
		"user//2024/./face.jpeg": "user/2024/face.jpeg",
	}
	for in, want := range valid {
		got, err := NormalizeObjectKey(in)
		if err != nil {
			t.Fatalf("NormalizeObjectKey(%q) unexpected error: %v", in, err)
		}
		if got != want {
			t.Fatalf("NormalizeObjectKey(%q) = %q, want %q", in, got, want)
		}
	}

	for _, in := range []string{"", "   ", "/", "../secret", "user/../../x", "."} {
		if _, err := NormalizeObjectKey(in); err == nil {
			t.Fatalf("NormalizeObjectKey(%q) expected error", in)
		}
	}
}
