package coherence

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Cache persists genealogical-coherence rowsets to disk, keyed by
// (store identity, focal witness). Writes are atomic (temp file +
// rename), following the teacher's DownloadCanonicalOverrides pattern;
// concurrent writers racing on the same key are tolerated since the
// computed bytes are deterministic (last writer wins).
type Cache struct {
	dir string
}

// NewCache returns a Cache rooted at dir, creating it if needed.
func NewCache(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create coherence cache directory: %w", err)
	}
	return &Cache{dir: dir}, nil
}

func (c *Cache) path(storeID, w1 string) string {
	h := sha256.Sum256([]byte(storeID + "\x00" + w1))
	return filepath.Join(c.dir, hex.EncodeToString(h[:])+".json")
}

// Load returns the cached rowset for (storeID, w1), and false if
// nothing is cached yet.
func (c *Cache) Load(storeID, w1 string) ([]Row, bool, error) {
	data, err := os.ReadFile(c.path(storeID, w1))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("read coherence cache: %w", err)
	}
	var rows []Row
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, false, fmt.Errorf("decode coherence cache: %w", err)
	}
	return rows, true, nil
}

// Store writes rows to the cache for (storeID, w1), atomically.
func (c *Cache) Store(storeID, w1 string, rows []Row) error {
	data, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("encode coherence cache: %w", err)
	}

	dest := c.path(storeID, w1)
	tmp := dest + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write coherence cache: %w", err)
	}
	if err := os.Rename(tmp, dest); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename coherence cache: %w", err)
	}
	return nil
}
