package cache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit || data != nil {
		t.Errorf("Get() = %v, %v, want miss", data, hit)
	}

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}
	if _, hit, _ = c.Get(ctx, "key"); hit {
		t.Error("NullCache should not store data")
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(filepath.Join(t.TempDir(), "nested", "cache"))
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	defer c.Close()

	if _, hit, err := c.Get(ctx, "absent"); hit || err != nil {
		t.Errorf("Get(absent) = %v, %v, want miss", hit, err)
	}

	if err := c.Set(ctx, "k", []byte("<svg/>"), time.Hour); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "k")
	if err != nil || !hit || string(data) != "<svg/>" {
		t.Errorf("Get(k) = %q, %v, %v, want <svg/>, true, nil", data, hit, err)
	}

	if err := c.Delete(ctx, "k"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Errorf("Delete of missing key error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("Get after Delete should miss")
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	if err := c.Set(ctx, "old", []byte("x"), time.Nanosecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(2 * time.Millisecond)
	if _, hit, _ := c.Get(ctx, "old"); hit {
		t.Error("expired entry should miss")
	}
	if _, err := os.Stat(c.path("old")); !os.IsNotExist(err) {
		t.Error("expired entry should be removed from disk")
	}

	if err := c.Set(ctx, "forever", []byte("y"), 0); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := c.Get(ctx, "forever"); !hit {
		t.Error("entry with zero ttl should not expire")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	path := c.path("bad")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, hit, err := c.Get(ctx, "bad"); hit || err != nil {
		t.Errorf("Get(bad) = %v, %v, want silent miss", hit, err)
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c, err := NewFileCache(dir)
	if err != nil {
		t.Fatal(err)
	}
	if c.Dir() != dir {
		t.Errorf("Dir() = %q, want %q", c.Dir(), dir)
	}

	for _, k := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, k, []byte(k), time.Hour); err != nil {
			t.Fatal(err)
		}
	}

	n, err := c.Clear()
	if err != nil {
		t.Fatalf("Clear error: %v", err)
	}
	if n != 3 {
		t.Errorf("Clear() = %d, want 3", n)
	}
	if _, hit, _ := c.Get(ctx, "a"); hit {
		t.Error("Get after Clear should miss")
	}
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("Clear should keep the cache root: %v", err)
	}

	n, err = c.Clear()
	if err != nil || n != 0 {
		t.Errorf("Clear() on empty cache = %d, %v, want 0, nil", n, err)
	}
}

func TestFileCacheUsage(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if n, size, err := c.Usage(); n != 0 || size != 0 || err != nil {
		t.Errorf("Usage() on empty cache = %d, %d, %v, want 0, 0, nil", n, size, err)
	}

	for _, k := range []string{"a", "b"} {
		if err := c.Set(ctx, k, []byte("1234"), 0); err != nil {
			t.Fatal(err)
		}
	}
	n, size, err := c.Usage()
	if err != nil {
		t.Fatal(err)
	}
	// Each entry is "0\n" followed by the four value bytes.
	if n != 2 || size != 12 {
		t.Errorf("Usage() = %d, %d, want 2, 12", n, size)
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	if h1 != Hash([]byte("hello")) {
		t.Error("Hash should be deterministic")
	}
	if h1 == Hash([]byte("world")) {
		t.Error("Different inputs should produce different hashes")
	}
	if len(h1) != 64 {
		t.Errorf("Hash length = %d, want 64", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	g1 := k.GeometryKey("/data/roads.wkt", "1024-1700000000")
	g2 := k.GeometryKey("/data/roads.wkt", "1025-1700000001")
	if g1 == g2 {
		t.Error("GeometryKey should change with the stamp")
	}
	if !strings.HasPrefix(g1, "geom:") {
		t.Errorf("GeometryKey = %q, want geom: prefix", g1)
	}

	a1 := k.ArtifactKey("abc", ArtifactKeyOpts{Format: "png", Scale: 1})
	a2 := k.ArtifactKey("abc", ArtifactKeyOpts{Format: "png", Scale: 2})
	a3 := k.ArtifactKey("abc", ArtifactKeyOpts{Format: "pdf", Scale: 1})
	if a1 == a2 || a1 == a3 {
		t.Error("Different ArtifactKeyOpts should produce different keys")
	}
	if a1 != k.ArtifactKey("abc", ArtifactKeyOpts{Format: "png", Scale: 1}) {
		t.Error("ArtifactKey should be deterministic")
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "serve:")

	if got, want := scoped.GeometryKey("a", "b"), "serve:"+inner.GeometryKey("a", "b"); got != want {
		t.Errorf("GeometryKey = %q, want %q", got, want)
	}
	opts := ArtifactKeyOpts{Format: "svg"}
	if got, want := scoped.ArtifactKey("h", opts), "serve:"+inner.ArtifactKey("h", opts); got != want {
		t.Errorf("ArtifactKey = %q, want %q", got, want)
	}
}

func TestScopedKeyerNilInner(t *testing.T) {
	scoped := NewScopedKeyer(nil, "prefix:")
	if got, want := scoped.GeometryKey("a", "b"), "prefix:"+NewDefaultKeyer().GeometryKey("a", "b"); got != want {
		t.Errorf("GeometryKey with nil inner = %q, want %q", got, want)
	}
}

func TestScopedKeyerNested(t *testing.T) {
	inner := NewScopedKeyer(nil, "serve:")
	outer := NewScopedKeyer(inner, "tenant:")
	if got := outer.(*ScopedKeyer).Prefix(); got != "tenant:serve:" {
		t.Errorf("Prefix() = %q, want %q", got, "tenant:serve:")
	}
	if got, want := outer.GeometryKey("a", "b"), "tenant:"+inner.GeometryKey("a", "b"); got != want {
		t.Errorf("GeometryKey = %q, want %q", got, want)
	}
}

func TestDecodeEntry(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		expires bool
		ok      bool
	}{
		{"no expiry", "0\n<svg/>", "<svg/>", false, true},
		{"expiry", "1700000000000000000\nx", "x", true, true},
		{"value with newlines", "0\na\nb", "a\nb", false, true},
		{"no header", "<svg/>", "", false, false},
		{"bad stamp", "soon\nx", "", false, false},
		{"negative stamp", "-5\nx", "", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expires, value, ok := decodeEntry([]byte(tt.raw))
			if ok != tt.ok {
				t.Fatalf("decodeEntry(%q) ok = %v, want %v", tt.raw, ok, tt.ok)
			}
			if !ok {
				return
			}
			if string(value) != tt.want {
				t.Errorf("decodeEntry(%q) value = %q, want %q", tt.raw, value, tt.want)
			}
			if expires.IsZero() == tt.expires {
				t.Errorf("decodeEntry(%q) expires = %v", tt.raw, expires)
			}
		})
	}
}

func TestPing(t *testing.T) {
	defer func(d time.Duration) { pingDelay = d }(pingDelay)
	pingDelay = time.Millisecond

	tests := []struct {
		name      string
		failures  int
		wantCalls int
		wantErr   bool
	}{
		{"up", 0, 1, false},
		{"starting", 2, 3, false},
		{"down", 5, 3, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := ping(context.Background(), func(context.Context) error {
				calls++
				if calls > tt.failures {
					return nil
				}
				return errors.New("connection refused")
			})
			if (err != nil) != tt.wantErr {
				t.Errorf("ping() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrUnavailable) {
				t.Errorf("ping() error = %v, want ErrUnavailable", err)
			}
			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
		})
	}
}

func TestPingCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := ping(ctx, func(context.Context) error { return errors.New("connection refused") })
	if !errors.Is(err, context.Canceled) {
		t.Errorf("ping() = %v, want %v", err, context.Canceled)
	}
}

func TestOpenUnsupported(t *testing.T) {
	tests := []string{"memcached://localhost:11211", "localhost:6379", "file:///tmp/cache"}
	for _, url := range tests {
		if _, err := Open(context.Background(), url); err == nil {
			t.Errorf("Open(%q) error = nil, want error", url)
		}
	}
}

func TestMongoDatabase(t *testing.T) {
	tests := []struct {
		uri  string
		want string
	}{
		{"mongodb://localhost:27017", "geosvg"},
		{"mongodb://localhost:27017/", "geosvg"},
		{"mongodb://user:pw@db.example.com/tiles?authSource=admin", "tiles"},
		{"mongodb+srv://cluster.example.net/maps", "maps"},
	}
	for _, tt := range tests {
		if got := mongoDatabase(tt.uri); got != tt.want {
			t.Errorf("mongoDatabase(%q) = %q, want %q", tt.uri, got, tt.want)
		}
	}
}

// Remote backends run only when a server is provided, e.g.
// GEOSVG_TEST_REDIS=redis://localhost:6379/15 go test ./pkg/cache
func TestRemoteCaches(t *testing.T) {
	for _, env := range []string{"GEOSVG_TEST_REDIS", "GEOSVG_TEST_MONGO"} {
		t.Run(env, func(t *testing.T) {
			url := os.Getenv(env)
			if url == "" {
				t.Skipf("%s not set", env)
			}
			ctx := context.Background()
			c, err := Open(ctx, url)
			if err != nil {
				t.Fatalf("Open(%q) error: %v", url, err)
			}
			defer c.Close()

			key := "test:" + Hash([]byte(t.Name()))
			defer c.Delete(ctx, key)
			if err := c.Set(ctx, key, []byte("v"), time.Minute); err != nil {
				t.Fatalf("Set error: %v", err)
			}
			data, hit, err := c.Get(ctx, key)
			if err != nil || !hit || string(data) != "v" {
				t.Errorf("Get() = %q, %v, %v, want v, true, nil", data, hit, err)
			}
			if err := c.Delete(ctx, key); err != nil {
				t.Errorf("Delete error: %v", err)
			}
			if _, hit, _ := c.Get(ctx, key); hit {
				t.Error("Get after Delete should miss")
			}
		})
	}
}
