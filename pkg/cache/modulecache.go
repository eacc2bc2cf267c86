package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"
)

// CachedMethod carries one class method's call edges. It has no text of
// its own: a class renders as a single unit, so only the owning
// CachedEntity.Text is needed for re-emission; per-method Calls still have
// to survive the round trip since community detection and import
// derivation both operate on them individually.
type CachedMethod struct {
	QualifiedName string
	Calls         []string
}

// CachedEntity is the serialisable stand-in for a types.Entity: rendered
// source text takes the place of a live CST node, since tree-sitter's
// *sitter.Node cannot survive a msgpack round trip. Calls is populated for
// Kind == function or global; Methods is populated for Kind == class.
type CachedEntity struct {
	QualifiedName string
	Kind          int
	Text          string
	Calls         []string
	Methods       []CachedMethod
}

// CachedModule is the serialisable stand-in for a parsed module, keyed in
// the cache by the content hash of the source file it was parsed from.
type CachedModule struct {
	Name     string
	Imports  []string
	Entities []CachedEntity
}

// parseCacheShards sizes the ShardedCache backing a ParseCache. S1 fans
// out Get/Put across a worker pool of up to GOMAXPROCS goroutines, so a
// single-mutex LRUCache would serialise every file's cache access; shards
// spread that contention the same way the teacher's ShardedCache does.
const parseCacheShards = 8

// ParseCache wraps a sharded, stats-tracked cache keyed by source content
// hash so an unchanged file never pays the tree-sitter parse and
// call-extraction cost twice across runs.
type ParseCache struct {
	stats *StatsCache
	dir   string
}

// ContentHash returns the hex sha256 digest of source, used as the cache
// key. Plain stdlib hashing; no parser in the example corpus offers a
// content-addressing scheme worth adopting instead.
func ContentHash(source []byte) string {
	sum := sha256.Sum256(source)
	return hex.EncodeToString(sum[:])
}

// NewParseCache creates a parse cache backed by a sharded LRU cache
// (eviction is by byte budget only, since module text varies wildly in
// size, split evenly across shards) persisted under dir.
func NewParseCache(dir string, maxBytes int64) *ParseCache {
	perShard := maxBytes / parseCacheShards
	shards := NewShardedCache(parseCacheShards, Options{MaxBytes: perShard})
	return &ParseCache{
		stats: NewStatsCache(shards),
		dir:   dir,
	}
}

func (pc *ParseCache) persistPath() string {
	return filepath.Join(pc.dir, "modsplit-parse.cache")
}

// Get looks up a previously cached module by the content hash of its
// source text.
func (pc *ParseCache) Get(source []byte) (CachedModule, bool) {
	v, found := pc.stats.Get(ContentHash(source))
	if !found {
		return CachedModule{}, false
	}
	cm, ok := v.(CachedModule)
	if !ok {
		// An entry restored by Warm holds msgpack's generic decoded form;
		// re-encode it and decode into the concrete type.
		b, err := msgpack.Marshal(v)
		if err != nil || msgpack.Unmarshal(b, &cm) != nil {
			return CachedModule{}, false
		}
		ok = true
	}
	return cm, ok
}

// Put records a module's cacheable form under its source content hash.
func (pc *ParseCache) Put(source []byte, cm CachedModule) {
	pc.stats.Set(ContentHash(source), cm)
}

// Flush persists the cache to dir, if one was configured.
func (pc *ParseCache) Flush() error {
	if pc.dir == "" {
		return nil
	}
	return PersistToFile(pc.stats, pc.persistPath())
}

// Warm loads a previously-flushed cache from dir, if one was configured
// and exists. A missing file is not an error: the cache simply starts
// cold.
func (pc *ParseCache) Warm() error {
	if pc.dir == "" {
		return nil
	}
	return LoadFromFile(pc.stats, pc.persistPath())
}

// Len reports the number of cached modules.
func (pc *ParseCache) Len() int {
	return pc.stats.Len()
}

// HitRate reports the fraction of Get calls this run that found a
// previously cached module, for the CLI to surface alongside the other
// per-stage counters it logs.
func (pc *ParseCache) HitRate() float64 {
	return pc.stats.HitRate()
}
