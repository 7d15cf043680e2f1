// Package storage keeps uploaded document bytes behind a key.
package storage

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"
)

var (
	ErrNotExist   = errors.New("storage: object does not exist")
	ErrInvalidKey = errors.New("storage: invalid key")
)

// Store is implemented by every backend. Keys are flat slash-free names.
type Store interface {
	Put(ctx context.Context, key string, r io.Reader, contentType string) error
	Exists(ctx context.Context, key string) (bool, error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

func checkKey(key string) error {
	if key == "" || key == "." || key == ".." || strings.ContainsAny(key, `/\`) || path.Clean(key) != key {
		return ErrInvalidKey
	}
	return nil
}
