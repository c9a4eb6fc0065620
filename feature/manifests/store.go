package manifests

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"condi-loader/core/condiloader"
	"condi-loader/core/storage"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Extension is the object suffix of stored manifests.
const Extension = ".yaml"

var (
	// ErrNotFound means no manifest is stored under the name.
	ErrNotFound = errors.New("manifest not found")
	// ErrInvalidName means the name cannot be used as an object key.
	ErrInvalidName = errors.New("invalid manifest name")
)

var namePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidName reports whether name can be stored.
func ValidName(name string) bool {
	return namePattern.MatchString(name) && !strings.Contains(name, "..")
}

type cachedManifest struct {
	manifest *condiloader.Manifest
	built    time.Time
}

// Store keeps manifests in the bucket under a key prefix. Reads are cached
// for ttl; concurrent misses for one name share a single download.
type Store struct {
	client storage.Client
	bucket string
	prefix string
	ttl    time.Duration
	logger *zap.Logger

	mu    sync.RWMutex
	cache map[string]*cachedManifest
	// gen counts invalidations per name; a read only fills the cache if
	// no invalidation happened while it was in flight
	gen map[string]uint64
	sf  singleflight.Group
}

// NewStore creates a Store. A zero ttl disables caching.
func NewStore(client storage.Client, bucket, prefix string, ttl time.Duration, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return &Store{
		client: client,
		bucket: bucket,
		prefix: prefix,
		ttl:    ttl,
		logger: logger,
		cache:  make(map[string]*cachedManifest),
		gen:    make(map[string]uint64),
	}
}

// Key returns the object key of manifest name.
func (s *Store) Key(name string) string {
	return s.prefix + name + Extension
}

// Get returns the manifest stored under name. The result is shared with
// other callers and must not be modified.
func (s *Store) Get(ctx context.Context, name string) (*condiloader.Manifest, error) {
	if !ValidName(name) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}

	if m, ok := s.cached(name); ok {
		return m, nil
	}

	result, err, _ := s.sf.Do(name, func() (interface{}, error) {
		if m, ok := s.cached(name); ok {
			return m, nil
		}

		s.mu.RLock()
		gen := s.gen[name]
		s.mu.RUnlock()

		m, err := s.read(ctx, name)
		if err != nil {
			return nil, err
		}

		if s.ttl > 0 {
			s.mu.Lock()
			if s.gen[name] == gen {
				s.cache[name] = &cachedManifest{manifest: m, built: time.Now()}
			}
			s.mu.Unlock()
		}
		return m, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*condiloader.Manifest), nil
}

func (s *Store) cached(name string) (*condiloader.Manifest, bool) {
	if s.ttl <= 0 {
		return nil, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.cache[name]
	if !ok || time.Since(c.built) > s.ttl {
		return nil, false
	}
	return c.manifest, true
}

func (s *Store) read(ctx context.Context, name string) (*condiloader.Manifest, error) {
	data, err := s.readRaw(ctx, name)
	if err != nil {
		return nil, err
	}

	m, err := condiloader.ParseManifest(data)
	if err != nil {
		return nil, fmt.Errorf("manifest %s: %w", name, err)
	}
	s.logger.Debug("Manifest loaded", zap.String("manifest", name), zap.Int("items", len(m.Items)))
	return m, nil
}

func (s *Store) readRaw(ctx context.Context, name string) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, s.Key(name), minio.GetObjectOptions{})
	if err != nil {
		if storage.IsNotFound(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, fmt.Errorf("failed to get manifest %s: %w", name, err)
	}
	defer obj.Close()

	// minio defers the request until the first read
	data, err := io.ReadAll(obj)
	if err != nil {
		if storage.IsNotFound(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, fmt.Errorf("failed to read manifest %s: %w", name, err)
	}
	return data, nil
}

// Put validates data as a manifest and stores it under name.
func (s *Store) Put(ctx context.Context, name string, data []byte) (*condiloader.Manifest, error) {
	if !ValidName(name) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}

	m, err := condiloader.ParseManifest(data)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := m.Encode(&buf); err != nil {
		return nil, err
	}

	_, err = s.client.PutObject(ctx, s.bucket, s.Key(name), bytes.NewReader(buf.Bytes()), int64(buf.Len()),
		minio.PutObjectOptions{ContentType: "application/yaml"})
	if err != nil {
		return nil, fmt.Errorf("failed to store manifest %s: %w", name, err)
	}

	s.Invalidate(name)
	s.logger.Info("Manifest stored", zap.String("manifest", name), zap.Int("items", len(m.Items)))
	return m, nil
}

// Delete removes the manifest stored under name.
func (s *Store) Delete(ctx context.Context, name string) error {
	if !ValidName(name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	if err := s.client.RemoveObject(ctx, s.bucket, s.Key(name), minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete manifest %s: %w", name, err)
	}
	s.Invalidate(name)
	return nil
}

// List returns the names of the stored manifests, sorted.
func (s *Store) List(ctx context.Context) ([]string, error) {
	// stops the listing goroutine when returning early
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	opts := minio.ListObjectsOptions{Prefix: s.prefix, Recursive: true}

	names := []string{}
	for obj := range s.client.ListObjects(ctx, s.bucket, opts) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list manifests: %w", obj.Err)
		}
		rel := strings.TrimPrefix(obj.Key, s.prefix)
		if !strings.HasSuffix(rel, Extension) || strings.Contains(rel, "/") {
			continue
		}
		names = append(names, strings.TrimSuffix(rel, Extension))
	}
	sort.Strings(names)
	return names, nil
}

// Invalidate drops the cached copy of name. A read already in flight is
// still returned to its callers but is not cached, and later callers start
// a fresh read.
func (s *Store) Invalidate(name string) {
	s.mu.Lock()
	delete(s.cache, name)
	s.gen[name]++
	s.mu.Unlock()
	s.sf.Forget(name)
}
