package orchestrator

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weathercore/cache"
	"weathercore/domain"
	"weathercore/resolver"
	"weathercore/singleflight"
	"weathercore/workerpool"
)

// countingDecoder returns a fixed set of GridMessages and counts how
// many times Decode actually ran, so tests can assert a file was
// decoded at most once under concurrency.
type countingDecoder struct {
	calls    atomic.Int64
	messages []domain.GridMessage
}

func (d *countingDecoder) Decode(path string) ([]domain.GridMessage, error) {
	d.calls.Add(1)
	out := make([]domain.GridMessage, len(d.messages))
	copy(out, d.messages)
	return out, nil
}

func gridOf(values [][]float64) ([][]float64, [][]float64) {
	lats := make([][]float64, len(values))
	lons := make([][]float64, len(values))
	for r := range values {
		lats[r] = make([]float64, len(values[r]))
		lons[r] = make([]float64, len(values[r]))
		for c := range values[r] {
			lats[r][c] = float64(r)
			lons[r][c] = float64(c)
		}
	}
	return lats, lons
}

func temperatureMessage() domain.GridMessage {
	values := [][]float64{
		{270, 271, 272, 273},
		{274, 275, 276, 277},
		{278, 279, 280, 281},
		{282, 283, 284, 285},
	}
	lats, lons := gridOf(values)
	return domain.GridMessage{
		Values:           values,
		Lats:             lats,
		Lons:             lons,
		JScansPositively: true,
		MissingValue:     -9999,
		Metadata: domain.MessageMetadata{
			ParameterName: "2 metre temperature",
			TypeOfLevel:   "heightAboveGround",
			Level:         2,
			StepType:      "instant",
			DataDate:      20260301,
			DataTime:      1200,
			ForecastTime:  0,
		},
	}
}

// newTestOrchestrator wires an Orchestrator over a real temp-dir
// FileResolver (Resolver is a concrete type, not an interface) paired
// with a fake Decoder, and in-process-only caches so tests never need
// a live Redis.
func newTestOrchestrator(t *testing.T, decoder *countingDecoder) *Orchestrator {
	t.Helper()
	base := t.TempDir()
	dir := filepath.Join(base, "20260301", "12")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	// f003 and f006 let Timeseries resolve offsets 3 and 6 from the
	// same 12z run.
	for _, name := range []string{"gfs.t12z.pgrb2.0p25.f000", "gfs.t12z.pgrb2.0p25.f003", "gfs.t12z.pgrb2.0p25.f006"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("grib"), 0o644))
	}

	registry := map[string]domain.ModelDescriptor{
		"gfs": {ID: "gfs", FilePrefix: "gfs", Category: "pgrb2", Resolution: "0p25", Suffix: ""},
	}
	r := resolver.New(base, registry)
	r.Now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }

	interpL1 := cache.NewLocalStore(time.Minute)
	minMaxL1 := cache.NewLocalStore(time.Minute)
	t.Cleanup(interpL1.Shutdown)
	t.Cleanup(minMaxL1.Shutdown)

	l2 := &memKVCache{}
	interpCache := cache.NewTwoTierCache(interpL1, l2, time.Hour)
	minMaxCache := cache.NewTwoTierCache(minMaxL1, l2, time.Hour)
	valueDict := cache.NewLocalStore(time.Minute)
	t.Cleanup(valueDict.Shutdown)

	return &Orchestrator{
		Resolver:       r,
		Decoder:        decoder,
		InterpCache:    interpCache,
		MinMaxCache:    minMaxCache,
		ValueDictCache: valueDict,
		SF:             singleflight.New(),
		Workers:        workerpool.New(4),
	}
}

func testParam() ParamSpec {
	return ParamSpec{Slug: "temperature-2m", Name: "2 metre temperature", Level: 2, LevelType: "heightAboveGround", StepType: "instant"}
}

func TestGetOrBuildInterpolator_BuildsOnceUnderConcurrency(t *testing.T) {
	decoder := &countingDecoder{messages: []domain.GridMessage{temperatureMessage()}}
	o := newTestOrchestrator(t, decoder)

	const callers = 16
	errCh := make(chan error, callers)
	for i := 0; i < callers; i++ {
		go func() {
			_, err := o.GetOrBuildInterpolator(context.Background(), "gfs", testParam(), "2026-03-01:12", 0)
			errCh <- err
		}()
	}
	for i := 0; i < callers; i++ {
		require.NoError(t, <-errCh)
	}
	assert.Equal(t, int64(1), decoder.calls.Load())
}

func TestGetOrBuildInterpolator_WidensMinMaxMonotonically(t *testing.T) {
	decoder := &countingDecoder{messages: []domain.GridMessage{temperatureMessage()}}
	o := newTestOrchestrator(t, decoder)

	in1, err := o.GetOrBuildInterpolator(context.Background(), "gfs", testParam(), "2026-03-01:12", 0)
	require.NoError(t, err)
	firstMin, firstMax := in1.GMin, in1.GMax

	// Force a rebuild with a narrower grid so widenMinMax must keep the
	// previously observed range instead of shrinking to match it.
	narrow := temperatureMessage()
	for r := range narrow.Values {
		for c := range narrow.Values[r] {
			narrow.Values[r][c] = 275
		}
	}
	decoder2 := &countingDecoder{messages: []domain.GridMessage{narrow}}
	o.Decoder = decoder2
	o.InterpCache = cache.NewTwoTierCache(cache.NewLocalStore(time.Minute), &memKVCache{}, time.Hour)

	in2, err := o.GetOrBuildInterpolator(context.Background(), "gfs", testParam(), "2026-03-01:12", 0)
	require.NoError(t, err)

	assert.LessOrEqual(t, in2.GMin, firstMin)
	assert.GreaterOrEqual(t, in2.GMax, firstMax)
}

func TestPointValues_FailedParameterIsNilNotAbort(t *testing.T) {
	decoder := &countingDecoder{messages: []domain.GridMessage{temperatureMessage()}}
	o := newTestOrchestrator(t, decoder)

	params := []ParamSpec{
		testParam(),
		{Slug: "nonexistent", Name: "does not exist"},
	}
	values, err := o.PointValues(context.Background(), "gfs", params, 0, 2, 2)
	require.NoError(t, err)
	require.Contains(t, values, "temperature-2m")
	require.Contains(t, values, "nonexistent")
	assert.NotNil(t, values["temperature-2m"])
	assert.Nil(t, values["nonexistent"])
}

func TestPointValues_SharesOneDecodeAcrossParameters(t *testing.T) {
	decoder := &countingDecoder{messages: []domain.GridMessage{temperatureMessage()}}
	o := newTestOrchestrator(t, decoder)

	params := []ParamSpec{testParam(), testParam(), testParam()}
	_, err := o.PointValues(context.Background(), "gfs", params, 0, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), decoder.calls.Load())
}

func TestTimeseries_SortsByValidDatetimeAndReportsProgress(t *testing.T) {
	decoder := &countingDecoder{messages: []domain.GridMessage{temperatureMessage()}}
	o := newTestOrchestrator(t, decoder)

	var progressCalls [][2]int
	progress := func(done, total int) {
		progressCalls = append(progressCalls, [2]int{done, total})
	}

	series, err := o.Timeseries(context.Background(), "gfs", []ParamSpec{testParam()}, []int{6, 0, 3}, 1, 1, progress)
	require.NoError(t, err)
	require.Contains(t, series, "temperature-2m")
	points := series["temperature-2m"]
	require.Len(t, points, 3)
	for i := 1; i < len(points); i++ {
		assert.False(t, points[i].ValidTime.Before(points[i-1].ValidTime))
	}
	assert.Len(t, progressCalls, 3)
	assert.Equal(t, 3, progressCalls[len(progressCalls)-1][1])
}

func TestRenderTile_ProducesFullSizedRaster(t *testing.T) {
	decoder := &countingDecoder{messages: []domain.GridMessage{temperatureMessage()}}
	o := newTestOrchestrator(t, decoder)

	raster, err := o.RenderTile(context.Background(), "gfs", testParam(), "2026-03-01:12", 0, 0, 0, 0)
	require.NoError(t, err)
	assert.Len(t, raster, 256*256*4)
}

// memKVCache is a tiny in-process stand-in for cache.KVCache so these
// orchestrator tests don't need a live Redis.
type memKVCache struct {
	m map[string][]byte
}

func (c *memKVCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if c.m == nil {
		return nil, false, nil
	}
	v, ok := c.m[key]
	return v, ok, nil
}

func (c *memKVCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if c.m == nil {
		c.m = make(map[string][]byte)
	}
	c.m[key] = value
	return nil
}

func (c *memKVCache) Delete(ctx context.Context, key string) error {
	delete(c.m, key)
	return nil
}
