// Package storagetest provides an in-memory storage.ObjectStore for tests.
package storagetest

import (
	"context"
	"errors"
	"io"
	"sort"
	"strings"
	"sync"
)

const BaseURL = "https://cdn.test/journal-images"

// Memory keeps objects in a map. Keys for which FailOn reports true are
// rejected with an error.
type Memory struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
	deleted []string

	FailOn func(key string) bool
}

func NewMemory() *Memory {
	return &Memory{objects: map[string][]byte{}, types: map[string]string{}}
}

func (m *Memory) Put(ctx context.Context, key string, body io.Reader, contentType string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if m.FailOn != nil && m.FailOn(key) {
		return errors.New("storage rejected object")
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = data
	m.types[key] = contentType
	return nil
}

func (m *Memory) PublicURL(key string) string {
	return BaseURL + "/" + key
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	m.deleted = append(m.deleted, key)
	return nil
}

// Keys returns stored keys in sorted order.
func (m *Memory) Keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.objects))
	for k := range m.objects {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Object returns the stored bytes and content type for key.
func (m *Memory) Object(key string) ([]byte, string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[key]
	return data, m.types[key], ok
}

// Deleted returns every key passed to Delete.
func (m *Memory) Deleted() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.deleted...)
}

// KeyOf strips BaseURL from a public URL.
func KeyOf(url string) string {
	return strings.TrimPrefix(url, BaseURL+"/")
}
