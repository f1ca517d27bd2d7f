package session

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/denchenko/cartdash/internal/core/auth"
	"github.com/redis/go-redis/v9"
)

// FileStore keeps the session in a small cookie-jar style file, one
// name=value line, so the CLI stays signed in between runs.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore creates a file backed session store.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Read returns the stored value, if any.
func (s *FileStore) Read(_ context.Context) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to open session file: %w", err)
	}
	defer func() { _ = f.Close() }()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		name, value, ok := strings.Cut(strings.TrimSpace(scanner.Text()), "=")
		if ok && name == auth.SessionName {
			return value, true, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return "", false, fmt.Errorf("failed to read session file: %w", err)
	}

	return "", false, nil
}

// Write replaces the stored value.
func (s *FileStore) Write(_ context.Context, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	line := auth.SessionName + "=" + value + "\n"
	if err := os.WriteFile(s.path, []byte(line), 0o600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}

	return nil
}

// Clear removes the session file.
func (s *FileStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove session file: %w", err)
	}

	return nil
}

// RedisStore keeps the session under <prefix>user in Redis.
type RedisStore struct {
	client redis.Cmdable
	key    string
}

// NewRedisStore creates a Redis backed session store.
func NewRedisStore(client redis.Cmdable, prefix string) *RedisStore {
	return &RedisStore{
		client: client,
		key:    prefix + auth.SessionName,
	}
}

// Read returns the stored value, if any.
func (s *RedisStore) Read(ctx context.Context) (string, bool, error) {
	value, err := s.client.Get(ctx, s.key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get session: %w", err)
	}

	return value, true, nil
}

// Write replaces the stored value. Sessions carry no expiry.
func (s *RedisStore) Write(ctx context.Context, value string) error {
	if err := s.client.Set(ctx, s.key, value, 0).Err(); err != nil {
		return fmt.Errorf("failed to set session: %w", err)
	}

	return nil
}

// Clear deletes the session key.
func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	return nil
}

// MemoryStore keeps the session for the life of the process.
type MemoryStore struct {
	mu    sync.RWMutex
	value string
	set   bool
}

// NewMemoryStore creates an empty in-process session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Read(_ context.Context) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.value, s.set, nil
}

func (s *MemoryStore) Write(_ context.Context, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.value, s.set = value, true

	return nil
}

func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.value, s.set = "", false

	return nil
}
