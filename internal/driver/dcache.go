package driver

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"
)

// diskCacheSchemaVersion входит в ключ и в payload; поднимать при любом
// изменении DiskPayload или правил рендера.
const diskCacheSchemaVersion uint16 = 1

const entriesDir = "exp"

// DiskCache keeps successful expansions on disk, one msgpack file per
// Digest. A nil *DiskCache is a valid cache that never hits. Safe for
// concurrent use.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// DiskPayload is one cached expansion.
type DiskPayload struct {
	Schema     uint16
	Path       string // шаблон, давший запись; только для отладки
	Output     string
	Mode       uint8 // seq.Mode
	Sections   int
	Iterations int
}

// OpenDiskCache opens $XDG_CACHE_HOME/<app>, falling back to the
// platform user cache dir.
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		var err error
		if base, err = os.UserCacheDir(); err != nil {
			return nil, fmt.Errorf("locate cache dir: %w", err)
		}
	}
	return OpenDiskCacheAt(filepath.Join(base, app))
}

// OpenDiskCacheAt opens a cache rooted at dir, creating it if needed.
func OpenDiskCacheAt(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	return &DiskCache{dir: dir}, nil
}

func (c *DiskCache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

// pathFor shards entries by the first byte of the key: exp/ab/abcd....mp
func (c *DiskCache) pathFor(key Digest) string {
	name := key.String()
	return filepath.Join(c.dir, entriesDir, name[:2], name+".mp")
}

// Put stores payload under key, replacing any previous entry atomically.
func (c *DiskCache) Put(key Digest, payload *DiskPayload) error {
	if c == nil || payload == nil {
		return nil
	}
	payload.Schema = diskCacheSchemaVersion
	data, err := msgpack.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode cache entry %s: %w", key, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return writeFileAtomic(c.pathFor(key), data)
}

func writeFileAtomic(path string, data []byte) (err error) {
	dir := filepath.Dir(path)
	if err = os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(f.Name())
		}
	}()
	if _, err = f.Write(data); err != nil {
		_ = f.Close()
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), path)
}

// Get loads the entry for key into out. Missing entries and entries written
// under another schema are misses, not errors.
func (c *DiskCache) Get(key Digest, out *DiskPayload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	// #nosec G304 -- path is derived from the cache dir and a hex digest
	data, err := os.ReadFile(c.pathFor(key))
	c.mu.RUnlock()
	switch {
	case errors.Is(err, os.ErrNotExist):
		return false, nil
	case err != nil:
		return false, err
	}

	var payload DiskPayload
	if err := msgpack.Unmarshal(data, &payload); err != nil {
		return false, fmt.Errorf("decode cache entry %s: %w", key, err)
	}
	if payload.Schema != diskCacheSchemaVersion {
		return false, nil
	}
	*out = payload
	return true, nil
}

// DropAll removes every entry; the cache root itself stays.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return os.RemoveAll(filepath.Join(c.dir, entriesDir))
}
