package cache

import (
	"context"
	"encoding/json"
	"time"

	dom "Notes/internal/domain"

	"github.com/redis/go-redis/v9"
)

const (
	keyList = "note:list"
	keyNote = "note:"
	// keyGen is bumped on every write. A read that started under an older
	// generation must not fill the cache.
	keyGen = "note:gen"
)

// setIfGen stores KEYS[2] only while KEYS[1] still holds the generation
// observed before the database read.
var setIfGen = redis.NewScript(`
local g = redis.call('GET', KEYS[1]) or '0'
if g ~= ARGV[1] then
	return 0
end
if tonumber(ARGV[3]) > 0 then
	redis.call('SET', KEYS[2], ARGV[2], 'PX', ARGV[3])
else
	redis.call('SET', KEYS[2], ARGV[2])
end
return 1
`)

// NoteCache caches single notes and the full list in Redis.
type NoteCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewNoteCache returns a new NoteCache.
func NewNoteCache(rdb *redis.Client, ttl time.Duration) *NoteCache {
	return &NoteCache{rdb: rdb, ttl: ttl}
}

// Generation returns the current write generation. Take it before reading
// the store and pass it to SetNote/SetList.
func (c *NoteCache) Generation(ctx context.Context) (int64, error) {
	g, err := c.rdb.Get(ctx, keyGen).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return g, err
}

// GetList returns cached list or nil if miss.
func (c *NoteCache) GetList(ctx context.Context) ([]dom.Note, error) {
	var list []dom.Note
	ok, err := c.get(ctx, keyList, &list)
	if !ok {
		return nil, err
	}
	if list == nil {
		list = []dom.Note{}
	}
	return list, nil
}

// SetList stores the list unless a write happened after gen was taken.
func (c *NoteCache) SetList(ctx context.Context, gen int64, list []dom.Note) (bool, error) {
	return c.set(ctx, gen, keyList, list)
}

// GetNote returns the cached note and whether it was found.
func (c *NoteCache) GetNote(ctx context.Context, id string) (dom.Note, bool, error) {
	var n dom.Note
	ok, err := c.get(ctx, keyNote+id, &n)
	return n, ok, err
}

// SetNote stores a single note unless a write happened after gen was taken.
func (c *NoteCache) SetNote(ctx context.Context, gen int64, n dom.Note) (bool, error) {
	return c.set(ctx, gen, keyNote+n.ID, n)
}

// Invalidate bumps the generation and drops the list and the given note.
func (c *NoteCache) Invalidate(ctx context.Context, id string) error {
	keys := []string{keyList}
	if id != "" {
		keys = append(keys, keyNote+id)
	}
	_, err := c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, keyGen)
		pipe.Del(ctx, keys...)
		return nil
	})
	return err
}

func (c *NoteCache) get(ctx context.Context, key string, v any) (bool, error) {
	b, err := c.rdb.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(b, v); err != nil {
		return false, err
	}
	return true, nil
}

func (c *NoteCache) set(ctx context.Context, gen int64, key string, v any) (bool, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return false, err
	}
	n, err := setIfGen.Run(ctx, c.rdb, []string{keyGen, key}, gen, b, c.ttl.Milliseconds()).Int()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}
