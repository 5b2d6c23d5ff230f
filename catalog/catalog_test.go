package catalog_test

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"golang.org/x/sync/errgroup"

	"github.com/echoflaresat/jpleph/catalog"
	"github.com/echoflaresat/jpleph/ephem"
	"github.com/echoflaresat/jpleph/ephem/ephemtest"
	"github.com/echoflaresat/jpleph/vectors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quiet() catalog.Option {
	return catalog.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func write(t *testing.T, name string, b *ephemtest.Builder) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, b.Bytes(), 0o644))
	return path
}

// short covers [2451545, 2451609] with Mars at x=1.
func short() *ephemtest.Builder {
	return ephemtest.New().Add(ephem.SlotMars, 3, 1, ephemtest.Raw([]float64{1}))
}

// long covers [2451545, 2451673] with Mars at x=2 and the Sun at y=5.
func long() *ephemtest.Builder {
	b := ephemtest.New()
	b.DENumber = 998
	b.Intervals = 4
	b.Add(ephem.SlotMars, 3, 1, ephemtest.Raw([]float64{2}))
	b.Add(ephem.SlotSun, 3, 1, ephemtest.Raw(nil, []float64{5}))
	return b
}

func TestNewRejectsBadSize(t *testing.T) {
	_, err := catalog.New(0, quiet())
	assert.Error(t, err)
}

func TestAdd(t *testing.T) {
	a := write(t, "a.bin", short())
	b := write(t, "b.bin", long())

	c, err := catalog.New(2, quiet())
	require.NoError(t, err)
	require.NoError(t, c.Add(a, b, a))
	assert.Equal(t, []string{a, b}, c.Paths())

	h, ok := c.Header(b)
	require.True(t, ok)
	assert.Equal(t, 998, h.DENumber)

	err = c.Add(filepath.Join(t.TempDir(), "missing.bin"))
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Len(t, c.Paths(), 2)
}

func TestAddRejectsMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "junk.bin")
	require.NoError(t, os.WriteFile(path, make([]byte, 4096), 0o644))

	c, err := catalog.New(1, quiet())
	require.NoError(t, err)
	assert.ErrorIs(t, c.Add(path), ephem.ErrFormat)
	assert.Empty(t, c.Paths())
}

func TestCovering(t *testing.T) {
	a := write(t, "a.bin", short())
	b := write(t, "b.bin", long())
	c, err := catalog.New(2, quiet())
	require.NoError(t, err)
	require.NoError(t, c.Add(a, b))

	tests := []struct {
		jd   float64
		want string
	}{
		{2451545, a},
		{2451609, a},
		{2451609.5, b},
		{2451673, b},
	}
	for _, tt := range tests {
		got, err := c.Covering(tt.jd)
		require.NoError(t, err, "JD %v", tt.jd)
		assert.Equal(t, tt.want, got, "JD %v", tt.jd)
	}

	_, err = c.Covering(2451700)
	assert.ErrorIs(t, err, catalog.ErrNotCovered)
	assert.ErrorIs(t, err, ephem.ErrOutOfRange)
}

func TestPositionFallback(t *testing.T) {
	a := write(t, "a.bin", short())
	b := write(t, "b.bin", long())
	c, err := catalog.New(2, quiet())
	require.NoError(t, err)
	require.NoError(t, c.Add(a, b))

	tests := []struct {
		name string
		body ephem.Body
		jd   float64
		want vectors.Vec3
	}{
		{"first-file-wins", ephem.Mars, 2451560, vectors.Vec3{X: 1}},
		{"past-first-range", ephem.Mars, 2451650, vectors.Vec3{X: 2}},
		{"body-missing-from-first", ephem.Sun, 2451560, vectors.Vec3{Y: 5}},
		{"barycenter", ephem.SolarSystemBarycenter, 2451560, vectors.Zero()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Position(tt.body, tt.jd)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err = c.Position(ephem.Jupiter, 2451560)
	assert.ErrorIs(t, err, ephem.ErrUnsupportedBody)
	var unsupported *ephem.UnsupportedBodyError
	require.True(t, errors.As(err, &unsupported))
	assert.Equal(t, ephem.Jupiter, unsupported.Body)

	_, err = c.Position(ephem.Mars, 2400000)
	assert.ErrorIs(t, err, ephem.ErrOutOfRange)
}

func TestResolve(t *testing.T) {
	a := write(t, "a.bin", short())
	b := write(t, "b.bin", long())
	c, err := catalog.New(2, quiet())
	require.NoError(t, err)
	require.NoError(t, c.Add(a, b))

	got, err := c.Resolve(ephem.Mars, 2451560)
	require.NoError(t, err)
	assert.Equal(t, a, got)

	got, err = c.Resolve(ephem.Sun, 2451560)
	require.NoError(t, err)
	assert.Equal(t, b, got)

	_, err = c.Resolve(ephem.Jupiter, 2451560)
	assert.ErrorIs(t, err, ephem.ErrUnsupportedBody)
	_, err = c.Resolve(ephem.Mars, 2451700)
	assert.ErrorIs(t, err, catalog.ErrNotCovered)
}

func TestPositionEmpty(t *testing.T) {
	c, err := catalog.New(1, quiet())
	require.NoError(t, err)
	_, err = c.Position(ephem.Mars, 2451545)
	assert.ErrorIs(t, err, catalog.ErrNotCovered)
}

func TestGetUnregistered(t *testing.T) {
	c, err := catalog.New(1, quiet())
	require.NoError(t, err)
	_, err = c.Get("nowhere.bin")
	assert.Error(t, err)
}

type countingLoader struct {
	loads atomic.Int32
}

func (l *countingLoader) options() catalog.Option {
	return catalog.WithLoader(func(path string) (*ephem.Ephemeris, error) {
		l.loads.Add(1)
		return ephem.LoadFile(path)
	}, ephem.ReadHeaderFile)
}

func TestGetCachesAndEvicts(t *testing.T) {
	a := write(t, "a.bin", short())
	b := write(t, "b.bin", long())

	var loader countingLoader
	c, err := catalog.New(1, quiet(), loader.options())
	require.NoError(t, err)
	require.NoError(t, c.Add(a, b))

	first, err := c.Get(a)
	require.NoError(t, err)
	again, err := c.Get(a)
	require.NoError(t, err)
	assert.Same(t, first, again)
	assert.EqualValues(t, 1, loader.loads.Load())

	_, err = c.Get(b)
	require.NoError(t, err)
	assert.EqualValues(t, 2, loader.loads.Load())

	// a was evicted to make room for b.
	reloaded, err := c.Get(a)
	require.NoError(t, err)
	assert.NotSame(t, first, reloaded)
	assert.EqualValues(t, 3, loader.loads.Load())
}

func TestGetConcurrent(t *testing.T) {
	path := write(t, "b.bin", long())

	var loader countingLoader
	c, err := catalog.New(2, quiet(), loader.options())
	require.NoError(t, err)
	require.NoError(t, c.Add(path))

	var g errgroup.Group
	for i := 0; i < 64; i++ {
		jd := 2451545 + float64(i)*2
		g.Go(func() error {
			pos, err := c.Position(ephem.Mars, jd)
			if err != nil {
				return err
			}
			if pos.X != 2 {
				return errors.New("wrong mars position")
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
	assert.EqualValues(t, 1, loader.loads.Load())
}

func TestGetLoadFailure(t *testing.T) {
	path := write(t, "a.bin", short())

	c, err := catalog.New(1, quiet(), catalog.WithLoader(func(string) (*ephem.Ephemeris, error) {
		return nil, io.ErrUnexpectedEOF
	}, ephem.ReadHeaderFile))
	require.NoError(t, err)
	require.NoError(t, c.Add(path))

	_, err = c.Position(ephem.Mars, 2451550)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}
