package storage

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/JaimeStill/taxon/pkg/lifecycle"
)

// Object is a blob held by the in-memory store.
type Object struct {
	Data         []byte
	ContentType  string
	LastModified time.Time
}

// Memory is a process-local System. Blobs are lost when the process exits.
type Memory struct {
	mu      sync.RWMutex
	objects map[string]Object
	logger  *slog.Logger
	now     func() time.Time
}

// NewMemory creates an empty in-memory store.
func NewMemory(logger *slog.Logger) *Memory {
	return &Memory{
		objects: make(map[string]Object),
		logger:  logger,
		now:     time.Now,
	}
}

func (m *Memory) Start(lc *lifecycle.Coordinator) error {
	m.logger.Info("memory storage ready")
	return nil
}

func (m *Memory) Upload(ctx context.Context, key string, reader io.Reader, contentType string) error {
	if err := ValidateKey(key); err != nil {
		return err
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.objects[key] = Object{Data: data, ContentType: contentType, LastModified: m.now().UTC()}
	m.mu.Unlock()

	m.logger.Info("blob stored", "key", key, "bytes", len(data))
	return nil
}

func (m *Memory) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	obj, err := m.get(key)
	if err != nil {
		return nil, err
	}
	return io.NopCloser(bytes.NewReader(obj.Data)), nil
}

func (m *Memory) Delete(ctx context.Context, key string) error {
	if err := ValidateKey(key); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.objects[key]; !ok {
		return ErrNotFound
	}
	delete(m.objects, key)
	return nil
}

func (m *Memory) Exists(ctx context.Context, key string) (bool, error) {
	_, err := m.get(key)
	switch err {
	case nil:
		return true, nil
	case ErrNotFound:
		return false, nil
	}
	return false, err
}

func (m *Memory) List(ctx context.Context, prefix string) ([]Blob, error) {
	if err := validatePrefix(prefix); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []Blob
	for key, obj := range m.objects {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		out = append(out, Blob{
			Key:          key,
			Size:         int64(len(obj.Data)),
			ContentType:  obj.ContentType,
			LastModified: obj.LastModified,
		})
	}
	slices.SortFunc(out, func(a, b Blob) int { return strings.Compare(a.Key, b.Key) })
	return out, nil
}

// Keys returns the stored keys in lexical order.
func (m *Memory) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]string, 0, len(m.objects))
	for k := range m.objects {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Object returns the blob stored at key.
func (m *Memory) Object(key string) (Object, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	obj, ok := m.objects[key]
	return obj, ok
}

func (m *Memory) get(key string) (Object, error) {
	if err := ValidateKey(key); err != nil {
		return Object{}, err
	}

	m.mu.RLock()
	obj, ok := m.objects[key]
	m.mu.RUnlock()

	if !ok {
		return Object{}, ErrNotFound
	}
	return obj, nil
}
