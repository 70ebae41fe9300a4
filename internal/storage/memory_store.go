package storage

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"
)

type Object struct {
	ContentType string
	Data        []byte
}

// MemoryStore is an in-process ReceiptStore for development and tests.
// Presigned URLs point at BaseURL and are not served by anything.
type MemoryStore struct {
	BaseURL string
	Now     func() time.Time

	mu      sync.RWMutex
	objects map[string]Object
}

func NewMemoryStore(baseURL string) *MemoryStore {
	return &MemoryStore{
		BaseURL: baseURL,
		Now:     time.Now,
		objects: make(map[string]Object),
	}
}

func (s *MemoryStore) Put(_ context.Context, key, contentType string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	buf := make([]byte, len(data))
	copy(buf, data)
	s.objects[key] = Object{ContentType: contentType, Data: buf}
	return nil
}

func (s *MemoryStore) PresignGet(_ context.Context, key string, ttl time.Duration) (string, error) {
	s.mu.RLock()
	_, ok := s.objects[key]
	s.mu.RUnlock()
	if !ok {
		return "", ErrObjectNotFound
	}
	expires := s.Now().Add(ttl).Unix()
	return fmt.Sprintf("%s/%s?expires=%d", s.BaseURL, url.PathEscape(key), expires), nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	return nil
}

// Get returns a stored object.
func (s *MemoryStore) Get(key string) (Object, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[key]
	return obj, ok
}
