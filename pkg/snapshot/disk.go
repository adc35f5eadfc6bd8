package snapshot

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

const (
	snapshotExt = ".html"
	metaExt     = ".meta"
)

// DiskStore stores snapshots as files under a directory. Keys may contain
// slashes, which become subdirectories.
type DiskStore struct {
	dir string
	mu  sync.Mutex
}

type diskMeta struct {
	Key         string    `json:"key"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewDiskStore creates the directory if needed.
func NewDiskStore(dir string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, storeError("create dir", dir, err)
	}
	return &DiskStore{dir: dir}, nil
}

// Dir returns the root directory.
func (s *DiskStore) Dir() string {
	return s.dir
}

// Save writes r under key, replacing any previous snapshot.
func (s *DiskStore) Save(ctx context.Context, key string, r io.Reader) (Info, error) {
	if err := ValidateKey(key); err != nil {
		return Info{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return Info{}, storeError("save", key, err)
	}

	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return Info{}, storeError("save", key, err)
	}
	written, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tmp)
		return Info{}, storeError("save", key, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return Info{}, storeError("save", key, err)
	}

	info := Info{Key: key, Size: written, CreatedAt: time.Now().UTC()}
	if err := s.saveMeta(key, info); err != nil {
		return Info{}, storeError("save meta", key, err)
	}
	return info, nil
}

// Load opens the snapshot stored under key.
func (s *DiskStore) Load(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}
	f, err := os.Open(s.path(key))
	if os.IsNotExist(err) {
		return nil, storeError("load", key, ErrNotFound)
	}
	if err != nil {
		return nil, storeError("load", key, err)
	}
	return f, nil
}

// Stat returns the metadata recorded when key was saved.
func (s *DiskStore) Stat(key string) (Info, error) {
	if err := ValidateKey(key); err != nil {
		return Info{}, err
	}
	data, err := os.ReadFile(s.metaPath(key))
	if os.IsNotExist(err) {
		return Info{}, storeError("stat", key, ErrNotFound)
	}
	if err != nil {
		return Info{}, storeError("stat", key, err)
	}
	var meta diskMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		return Info{}, storeError("stat", key, err)
	}
	return Info{Key: meta.Key, Size: meta.Size, CreatedAt: meta.CreatedAt}, nil
}

// List returns every stored key in sorted order.
func (s *DiskStore) List(ctx context.Context) ([]string, error) {
	var keys []string
	err := filepath.WalkDir(s.dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, snapshotExt) {
			return nil
		}
		rel, err := filepath.Rel(s.dir, path)
		if err != nil {
			return err
		}
		keys = append(keys, filepath.ToSlash(strings.TrimSuffix(rel, snapshotExt)))
		return nil
	})
	if err != nil {
		return nil, storeError("list", s.dir, err)
	}
	sort.Strings(keys)
	return keys, nil
}

// Delete removes key. Deleting a missing key is a no-op.
func (s *DiskStore) Delete(ctx context.Context, key string) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path(key)); err != nil && !os.IsNotExist(err) {
		return storeError("delete", key, err)
	}
	os.Remove(s.metaPath(key))
	return nil
}

func (s *DiskStore) path(key string) string {
	return filepath.Join(s.dir, filepath.FromSlash(key)+snapshotExt)
}

func (s *DiskStore) metaPath(key string) string {
	return filepath.Join(s.dir, filepath.FromSlash(key)+metaExt)
}

func (s *DiskStore) saveMeta(key string, info Info) error {
	data, err := json.Marshal(diskMeta{
		Key:         key,
		ContentType: ContentType,
		Size:        info.Size,
		CreatedAt:   info.CreatedAt,
	})
	if err != nil {
		return err
	}
	return os.WriteFile(s.metaPath(key), data, 0644)
}
