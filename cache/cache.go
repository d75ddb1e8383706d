// Package cache memoizes compile results. A bounded in-memory LRU sits in
// front of an optional bbolt file, so repeated builds and editor
// round-trips skip the pipeline for unchanged sources.
//
// Only successful results are stored. The cache key covers the compiler
// version, the source, the file name (it can appear in debug output) and
// every option that changes the generated code.
package cache

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru"
	"github.com/prometheus/client_golang/prometheus"
	bolt "go.etcd.io/bbolt"
	"gopkg.in/yaml.v3"

	"github.com/polly2d/shaderc"
	"github.com/polly2d/shaderc/logutil"
)

// DefaultSize is the number of results kept in memory when Options.Size
// is zero.
const DefaultSize = 256

// DBFileName is the name of the database file created in Options.Dir.
const DBFileName = "shaderc-cache.db"

const bucketResults = "results"

var (
	// Lookups counts cache lookups by tier ("memory" or "disk") and result
	// ("hit" or "miss").
	Lookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shaderc_cache_lookups",
			Help: "The number of compile cache lookups.",
		},
		[]string{"tier", "result"},
	)

	// CompileSeconds observes the duration of compiles that missed the
	// cache.
	CompileSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "shaderc_compile_seconds",
			Help:    "Time spent compiling shaders on cache misses.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		},
		[]string{"target"},
	)
)

// Options configures a Cache.
type Options struct {
	// Size is the number of results kept in memory.
	Size int

	// Dir enables the disk tier. The directory is created if missing.
	Dir string

	// Logger receives hit/miss traces. Nil discards them.
	Logger *log.Logger
}

// Cache is safe for concurrent use.
type Cache struct {
	mem *lru.Cache
	db  *bolt.DB
	log *log.Logger
}

// New opens a cache.
func New(opts Options) (*Cache, error) {
	size := opts.Size
	if size <= 0 {
		size = DefaultSize
	}
	mem, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	c := &Cache{mem: mem, log: logutil.OrDiscard(opts.Logger)}

	if opts.Dir != "" {
		if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
			return nil, fmt.Errorf("cache: %w", err)
		}
		db, err := bolt.Open(filepath.Join(opts.Dir, DBFileName), 0o644, &bolt.Options{Timeout: time.Second})
		if err != nil {
			return nil, fmt.Errorf("cache: open %s: %w", opts.Dir, err)
		}
		err = db.Update(func(tx *bolt.Tx) error {
			_, err := tx.CreateBucketIfNotExists([]byte(bucketResults))
			return err
		})
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("cache: %w", err)
		}
		c.db = db
	}
	return c, nil
}

// Close releases the disk tier.
func (c *Cache) Close() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

// Key returns the cache key of a compile request. Options.Logger does not
// contribute. The key changes with shaderc.Version.
func Key(source, filename string, opts shaderc.Options) string {
	return keyFor(shaderc.Version, source, filename, opts)
}

func keyFor(version, source, filename string, opts shaderc.Options) string {
	d := xxhash.New()
	d.WriteString(version)
	d.Write([]byte{0})
	d.WriteString(opts.Target.String())
	flags := []byte{'0', '0', 0}
	if opts.Optimize {
		flags[0] = '1'
	}
	if opts.DebugInfo {
		flags[1] = '1'
	}
	d.Write(flags)
	d.WriteString(filename)
	d.Write([]byte{0})
	d.WriteString(source)
	return strconv.FormatUint(d.Sum64(), 16)
}

// Compile returns the cached result for the request or compiles it with
// shaderc.CompileWithOptions. Errors are returned as-is and not cached.
func (c *Cache) Compile(ctx context.Context, source, filename string, opts shaderc.Options) (shaderc.Result, error) {
	if err := ctx.Err(); err != nil {
		return shaderc.Result{}, err
	}
	key := Key(source, filename, opts)

	if v, ok := c.mem.Get(key); ok {
		Lookups.WithLabelValues("memory", "hit").Inc()
		c.log.Printf("%s: memory hit %s", filename, key)
		return v.(shaderc.Result), nil
	}
	Lookups.WithLabelValues("memory", "miss").Inc()

	if c.db != nil {
		res, ok, err := c.load(key)
		if err != nil {
			// A corrupt entry is recompiled and overwritten.
			c.log.Printf("%s: dropping disk entry %s: %v", filename, key, err)
		}
		if ok {
			Lookups.WithLabelValues("disk", "hit").Inc()
			c.log.Printf("%s: disk hit %s", filename, key)
			c.mem.Add(key, res)
			return res, nil
		}
		Lookups.WithLabelValues("disk", "miss").Inc()
	}

	start := time.Now()
	res, err := shaderc.CompileWithOptions(source, filename, opts)
	CompileSeconds.WithLabelValues(opts.Target.String()).Observe(time.Since(start).Seconds())
	if err != nil {
		return shaderc.Result{}, err
	}

	c.mem.Add(key, res)
	if c.db != nil {
		if err := c.store(key, res); err != nil {
			c.log.Printf("%s: cannot store %s: %v", filename, key, err)
		}
	}
	return res, nil
}

// Purge empties both tiers.
func (c *Cache) Purge() error {
	c.mem.Purge()
	if c.db == nil {
		return nil
	}
	return c.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket([]byte(bucketResults)); err != nil && !errors.Is(err, bolt.ErrBucketNotFound) {
			return err
		}
		_, err := tx.CreateBucket([]byte(bucketResults))
		return err
	})
}

// Len returns the number of results held in memory.
func (c *Cache) Len() int { return c.mem.Len() }

func (c *Cache) load(key string) (shaderc.Result, bool, error) {
	var data []byte
	err := c.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket([]byte(bucketResults)).Get([]byte(key)); v != nil {
			data = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil || data == nil {
		return shaderc.Result{}, false, err
	}
	var res shaderc.Result
	if err := yaml.Unmarshal(data, &res); err != nil {
		return shaderc.Result{}, false, err
	}
	return res, true, nil
}

func (c *Cache) store(key string, res shaderc.Result) error {
	data, err := yaml.Marshal(res)
	if err != nil {
		return err
	}
	return c.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketResults)).Put([]byte(key), data)
	})
}
