package cache

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// entryExt marks finished entries; writes in progress use a temp name.
const entryExt = ".entry"

// FileCache keeps one file per key under dir, fanned out over 256
// subdirectories by the first byte of the key hash.
//
// An entry is a header line holding the expiry as Unix nanoseconds (0 for
// none) followed by the raw value. Values are written to a temp file and
// renamed into place, so readers never see a partial entry.
type FileCache struct {
	dir string
}

// NewFileCache opens a file cache rooted at dir, creating it if needed.
func NewFileCache(dir string) (*FileCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileCache{dir: dir}, nil
}

// Dir returns the cache root.
func (c *FileCache) Dir() string { return c.dir }

func (c *FileCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	path := c.path(key)
	raw, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, false, nil
	case err != nil:
		return nil, false, err
	}

	expires, value, ok := decodeEntry(raw)
	if !ok || (!expires.IsZero() && time.Now().After(expires)) {
		// Corrupt or stale entries are dropped and reported as misses.
		_ = os.Remove(path)
		return nil, false, nil
	}
	return value, true, nil
}

func (c *FileCache) Set(_ context.Context, key string, data []byte, ttl time.Duration) error {
	var expires time.Time
	if ttl > 0 {
		expires = time.Now().Add(ttl)
	}

	path := c.path(key)
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name()) // no-op after a successful rename

	if _, err := tmp.Write(encodeEntry(expires, data)); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func (c *FileCache) Delete(_ context.Context, key string) error {
	if err := os.Remove(c.path(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// Clear removes every entry below the root and reports how many were
// deleted. The root itself is kept.
func (c *FileCache) Clear() (int, error) {
	removed := 0
	err := filepath.WalkDir(c.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if d.IsDir() || filepath.Ext(path) != entryExt {
			return nil
		}
		if os.Remove(path) == nil {
			removed++
		}
		return nil
	})
	if err != nil {
		return removed, err
	}

	subdirs, _ := os.ReadDir(c.dir)
	for _, sub := range subdirs {
		if sub.IsDir() {
			_ = os.Remove(filepath.Join(c.dir, sub.Name())) // only succeeds when empty
		}
	}
	return removed, nil
}

// Usage walks the cache and reports the number of entries and their total
// size on disk. Expired entries are counted until a read or Clear drops them.
func (c *FileCache) Usage() (entries int, size int64, err error) {
	err = filepath.WalkDir(c.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || filepath.Ext(path) != entryExt {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return nil // removed while walking
		}
		entries++
		size += info.Size()
		return nil
	})
	if errors.Is(err, fs.ErrNotExist) {
		err = nil
	}
	return entries, size, err
}

func (c *FileCache) Close() error { return nil }

func (c *FileCache) path(key string) string {
	h := Hash([]byte(key))
	return filepath.Join(c.dir, h[:2], h[2:]+entryExt)
}

func encodeEntry(expires time.Time, value []byte) []byte {
	var stamp int64
	if !expires.IsZero() {
		stamp = expires.UnixNano()
	}
	buf := strconv.AppendInt(make([]byte, 0, 20+1+len(value)), stamp, 10)
	buf = append(buf, '\n')
	return append(buf, value...)
}

func decodeEntry(raw []byte) (time.Time, []byte, bool) {
	header, value, found := bytes.Cut(raw, []byte{'\n'})
	if !found {
		return time.Time{}, nil, false
	}
	stamp, err := strconv.ParseInt(string(header), 10, 64)
	if err != nil || stamp < 0 {
		return time.Time{}, nil, false
	}
	if stamp == 0 {
		return time.Time{}, value, true
	}
	return time.Unix(0, stamp), value, true
}

var _ Cache = (*FileCache)(nil)
