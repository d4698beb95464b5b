package cache

import (
	"context"
	"fmt"
	"strings"
)

// Open returns the remote cache named by url. Supported schemes are
// redis://, rediss://, mongodb:// and mongodb+srv://.
func Open(ctx context.Context, url string) (Cache, error) {
	scheme, _, ok := strings.Cut(url, "://")
	if !ok {
		return nil, fmt.Errorf("cache url %q has no scheme", url)
	}
	switch strings.ToLower(scheme) {
	case "redis", "rediss":
		return NewRedisCache(ctx, url)
	case "mongodb", "mongodb+srv":
		return NewMongoCache(ctx, url)
	}
	return nil, fmt.Errorf("unsupported cache scheme %q", scheme)
}
