package storage

import (
	"errors"
	"path"
	"strings"
)

// ErrInvalidObjectKey is returned for keys that cannot address an object.
var ErrInvalidObjectKey = errors.New("invalid object key")

// NormalizeObjectKey trims a client-supplied object path and rejects keys
// that escape the bucket root or are empty.
func NormalizeObjectKey(key string) (string, error) {
	key = strings.TrimSpace(key)
	key = strings.TrimLeft(key, "/")
	if key == "" || len(key) > 1024 {
		return "", ErrInvalidObjectKey
	}
	for _, segment := range strings.Split(key, "/") {
		if segment == ".." {
			return "", ErrInvalidObjectKey
		}
	}
	cleaned := path.Clean(key)
	if cleaned == "." {
		return "", ErrInvalidObjectKey
	}
	return cleaned, nil
}
