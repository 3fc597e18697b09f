// Package blobstore provides opaque document storage for uploaded records
// (identification documents, insurance licenses, financial statements). It
// defines the Store interface and an in-memory implementation suitable for
// testing and development; production deployments swap in an object-store
// backed implementation behind the same interface.
package blobstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

var (
	ErrNotFound = errors.New("blob not found")
	ErrTooLarge = errors.New("file exceeds maximum allowed size")
	ErrNoKey    = errors.New("object key is required")
)

// MaxFileSize is the maximum allowed blob size in bytes (20 MB).
const MaxFileSize = 20 * 1024 * 1024

// Store is the contract for blob storage backends: put content under a key,
// delete it, issue a public URL for a stored key, and recover the key from a
// URL it issued.
type Store interface {
	Put(ctx context.Context, key, contentType string, content io.Reader) (string, error)
	Delete(ctx context.Context, key string) error
	URL(key string) string
	KeyFromURL(url string) string
}

type object struct {
	contentType string
	data        []byte
	storedAt    time.Time
}

// MemoryStore is a thread-safe, in-memory Store.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string]*object
	baseURL string
}

// NewMemoryStore returns a MemoryStore issuing URLs under baseURL.
func NewMemoryStore(baseURL string) *MemoryStore {
	return &MemoryStore{
		objects: make(map[string]*object),
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Put stores the content under key and returns its public URL. An existing
// object under the same key is overwritten.
func (s *MemoryStore) Put(_ context.Context, key, contentType string, content io.Reader) (string, error) {
	if key == "" {
		return "", ErrNoKey
	}

	data, err := io.ReadAll(io.LimitReader(content, MaxFileSize+1))
	if err != nil {
		return "", fmt.Errorf("reading content: %w", err)
	}
	if int64(len(data)) > MaxFileSize {
		return "", ErrTooLarge
	}

	s.mu.Lock()
	s.objects[key] = &object{
		contentType: contentType,
		data:        data,
		storedAt:    time.Now().UTC(),
	}
	s.mu.Unlock()

	return s.URL(key), nil
}

// Delete removes the object under key.
func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.objects[key]; !ok {
		return ErrNotFound
	}
	delete(s.objects, key)
	return nil
}

// URL returns the public URL for a key. It does not check existence.
func (s *MemoryStore) URL(key string) string {
	return s.baseURL + "/" + key
}

// Get returns the stored content and its content type. It exists for tests
// and the development download handler; the Store interface intentionally
// omits reads.
func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	obj, ok := s.objects[key]
	if !ok {
		return nil, "", ErrNotFound
	}
	return bytes.Clone(obj.data), obj.contentType, nil
}

// KeyFromURL extracts the object key from a URL previously issued by URL.
// Keys may span several path segments, so the whole base-URL prefix is
// trimmed rather than splitting on the last slash. Returns an empty string
// for URLs this store did not issue.
func (s *MemoryStore) KeyFromURL(url string) string {
	prefix := s.baseURL + "/"
	if !strings.HasPrefix(url, prefix) || len(url) == len(prefix) {
		return ""
	}
	return url[len(prefix):]
}
