package pinned

import (
	"checkinboard/internal/models"
	"checkinboard/internal/structures"

	"github.com/coocood/freecache"
	json "github.com/goccy/go-json"
)

// SummaryCache holds hydrated user summaries keyed by user id. It is
// best-effort: freecache may evict under memory pressure and a miss only
// means the user has not been loaded.
type SummaryCache struct {
	cache *freecache.Cache
}

// NewSummaryCache allocates a cache of sizeMB megabytes. Entries never expire.
func NewSummaryCache(sizeMB int) *SummaryCache {
	return &SummaryCache{cache: freecache.NewCache(max(sizeMB, 1) * 1024 * 1024)}
}

func NewSummaryCacheProvider(conf *structures.Config) *SummaryCache {
	return NewSummaryCache(conf.Pinned.CacheSize)
}

func (c *SummaryCache) Get(userID string) (models.UserCheckinItem, bool) {
	var item models.UserCheckinItem
	data, err := c.cache.Get([]byte(userID))
	if err != nil {
		return item, false
	}
	if err := json.Unmarshal(data, &item); err != nil {
		return item, false
	}
	return item, true
}

func (c *SummaryCache) Set(userID string, item models.UserCheckinItem) error {
	data, err := json.Marshal(item)
	if err != nil {
		return err
	}
	return c.cache.Set([]byte(userID), data, 0)
}

func (c *SummaryCache) Del(userID string) {
	c.cache.Del([]byte(userID))
}

func (c *SummaryCache) Clear() {
	c.cache.Clear()
}

func (c *SummaryCache) Len() int {
	return int(c.cache.EntryCount())
}
