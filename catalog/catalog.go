// Package catalog serves positions from a prioritized set of DE files,
// keeping the most recently used ones loaded.
package catalog

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru"
	"golang.org/x/sync/singleflight"

	"github.com/echoflaresat/jpleph/ephem"
	"github.com/echoflaresat/jpleph/vectors"
)

// ErrNotCovered is returned when no registered file covers a date.
var ErrNotCovered = fmt.Errorf("no registered ephemeris covers the date: %w", ephem.ErrOutOfRange)

// Option configures a Catalog.
type Option func(*Catalog)

// WithLogger sets the logger used for load and eviction events.
func WithLogger(l *slog.Logger) Option {
	return func(c *Catalog) { c.logger = l }
}

// WithLoader replaces the functions used to read files. Both must be safe for
// concurrent use.
func WithLoader(load func(path string) (*ephem.Ephemeris, error), readHeader func(path string) (ephem.Header, error)) Option {
	return func(c *Catalog) {
		c.load = load
		c.readHeader = readHeader
	}
}

// Catalog is safe for concurrent use.
type Catalog struct {
	mu      sync.RWMutex
	paths   []string
	headers map[string]ephem.Header

	cache *lru.Cache
	group singleflight.Group

	load       func(path string) (*ephem.Ephemeris, error)
	readHeader func(path string) (ephem.Header, error)
	logger     *slog.Logger
}

// New returns an empty catalog that keeps at most size files loaded.
func New(size int, opts ...Option) (*Catalog, error) {
	c := &Catalog{
		headers:    make(map[string]ephem.Header),
		load:       ephem.LoadFile,
		readHeader: ephem.ReadHeaderFile,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}

	cache, err := lru.NewWithEvict(size, func(key, _ interface{}) {
		c.logger.Debug("evicted ephemeris", "path", key)
	})
	if err != nil {
		return nil, fmt.Errorf("catalog cache: %w", err)
	}
	c.cache = cache
	return c, nil
}

// Add registers files in priority order after those already present. Only
// headers are read; records load on first use. Paths already registered are
// skipped.
func (c *Catalog) Add(paths ...string) error {
	for _, path := range paths {
		c.mu.RLock()
		_, seen := c.headers[path]
		c.mu.RUnlock()
		if seen {
			continue
		}

		h, err := c.readHeader(path)
		if err != nil {
			return err
		}

		c.mu.Lock()
		if _, seen := c.headers[path]; !seen {
			c.headers[path] = h
			c.paths = append(c.paths, path)
		}
		c.mu.Unlock()

		c.logger.Debug("registered ephemeris", "path", path, "de", h.DENumber, "start", h.StartDate, "end", h.EndDate)
	}
	return nil
}

// Paths lists the registered files in priority order.
func (c *Catalog) Paths() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.paths)
}

// Header returns the header read when path was added.
func (c *Catalog) Header(path string) (ephem.Header, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	h, ok := c.headers[path]
	return h, ok
}

// Get returns the loaded ephemeris for a registered path, loading it if it is
// not cached. Concurrent calls for the same path share one load.
func (c *Catalog) Get(path string) (*ephem.Ephemeris, error) {
	if _, ok := c.Header(path); !ok {
		return nil, fmt.Errorf("ephemeris %s is not registered", path)
	}
	if v, ok := c.cache.Get(path); ok {
		return v.(*ephem.Ephemeris), nil
	}

	v, err, _ := c.group.Do(path, func() (interface{}, error) {
		if v, ok := c.cache.Get(path); ok {
			return v, nil
		}
		start := time.Now()
		eph, err := c.load(path)
		if err != nil {
			return nil, err
		}
		c.cache.Add(path, eph)
		c.logger.Info("loaded ephemeris", "path", path, "de", eph.DENumber(), "records", eph.RecordCount(), "elapsed", time.Since(start))
		return eph, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*ephem.Ephemeris), nil
}

// Covering returns the highest-priority registered path whose range
// contains jd.
func (c *Catalog) Covering(jd float64) (string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, path := range c.paths {
		if c.headers[path].Covers(jd) {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w: JD %v", ErrNotCovered, jd)
}

// candidates lists, in priority order, the registered paths whose header
// covers jd and carries body.
func (c *Catalog) candidates(body ephem.Body, jd float64) ([]string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var out []string
	covered := false
	for _, path := range c.paths {
		h := c.headers[path]
		if !h.Covers(jd) {
			continue
		}
		covered = true
		if !h.Supports(body) {
			c.logger.Debug("ephemeris lacks body", "path", path, "body", body)
			continue
		}
		out = append(out, path)
	}

	switch {
	case len(out) > 0:
		return out, nil
	case covered:
		return nil, &ephem.UnsupportedBodyError{Body: body}
	default:
		return nil, fmt.Errorf("%w: %s at JD %v", ErrNotCovered, body, jd)
	}
}

// Resolve returns the path Position reads body from at jd.
func (c *Catalog) Resolve(body ephem.Body, jd float64) (string, error) {
	paths, err := c.candidates(body, jd)
	if err != nil {
		return "", err
	}
	return paths[0], nil
}

// Position evaluates body at jd using the first registered file that covers
// the date and carries the body. Files that are out of range or lack the
// body are skipped; any other failure is returned as is.
func (c *Catalog) Position(body ephem.Body, jd float64) (vectors.Vec3, error) {
	paths, err := c.candidates(body, jd)
	if err != nil {
		return vectors.Vec3{}, err
	}
	for _, path := range paths {
		eph, err := c.Get(path)
		if err != nil {
			return vectors.Vec3{}, err
		}
		pos, err := eph.Position(body, jd)
		if errors.Is(err, ephem.ErrOutOfRange) || errors.Is(err, ephem.ErrUnsupportedBody) {
			continue
		}
		return pos, err
	}
	return vectors.Vec3{}, &ephem.UnsupportedBodyError{Body: body}
}
