// Package orchestrator wires file resolution, message selection,
// interpolation, tiling, colorization, and point evaluation behind the
// three operations the HTTP surface calls: RenderTile, PointValues,
// and Timeseries (spec.md §4.12).
package orchestrator

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"weathercore/cache"
	"weathercore/color"
	"weathercore/domain"
	"weathercore/errs"
	"weathercore/grib"
	"weathercore/interp"
	"weathercore/pkg/audit"
	"weathercore/pkg/eventbus"
	"weathercore/pointeval"
	"weathercore/resolver"
	"weathercore/singleflight"
	"weathercore/tiles"
	"weathercore/tracing"
	"weathercore/workerpool"
)

// Decoder extracts GridMessages from a GRIB2 file. The concrete decoder
// in this module is grib.Wgrib2Decoder, which shells out to the wgrib2
// CLI — none of the retrieved example repos ships a pure-Go GRIB2
// reader, so Orchestrator only depends on this minimal contract (spec.md
// §4.6), the same way mmp-squall's own Read/ReadWithOptions sits in
// front of whatever bytes it was handed.
type Decoder interface {
	Decode(path string) ([]domain.GridMessage, error)
}

// ParamSpec identifies one parameter to select out of a decoded file.
type ParamSpec struct {
	Slug      string
	Name      string
	Level     float64
	LevelType string
	StepType  string
}

// Orchestrator is the single entry point the HTTP layer calls into.
type Orchestrator struct {
	Resolver *resolver.FileResolver
	Decoder  Decoder

	InterpCache *cache.TwoTierCache
	MinMaxCache *cache.TwoTierCache
	// ValueDictCache holds, per (model, timeBucket), the full slice of
	// GridMessages decoded from that offset's file, so PointValues and
	// Timeseries decode a file at most once per time bucket no matter
	// how many parameters they request (spec.md §4.12 step 2, §5 "the
	// whole dictionary is read-modify-written; use SingleFlight on the
	// dictionary key").
	ValueDictCache *cache.LocalStore
	SF             *singleflight.Group
	Workers        *workerpool.Pool

	// Decimation strides both the interpolator's source grid (spec.md
	// §4.7 step 3) and PointValues' native grid (spec.md §4.12 step 1)
	// before they're consumed, bounding triangulation cost at GFS's
	// full 0.25° resolution. <1 is treated as 1 (no decimation).
	Decimation int

	Audit  audit.Logger
	Events eventbus.Bus
}

// GetOrBuildInterpolator returns the cached Interpolator for
// (model, param, timeBucket, hourOffset), building it exactly once
// under concurrent callers (spec.md §4.4) and widening its tracked
// min/max monotonically against whatever range was previously cached
// for the same InterpKey.
func (o *Orchestrator) GetOrBuildInterpolator(ctx context.Context, model string, param ParamSpec, timeBucket string, hourOffset int) (*interp.Interpolator, error) {
	ctx, span := tracing.Start(ctx, "orchestrator.get_or_build_interpolator")
	defer span.End()

	key := domain.InterpKey(model, param.Slug, timeBucket, param.Level, param.LevelType, param.StepType)

	if v, ok := o.InterpCache.Get(ctx, key, interp.Codec); ok {
		tracing.RecordOutcome(span, nil)
		return v.(*interp.Interpolator), nil
	}

	result, err := o.SF.DoOrWait(ctx, key, func(ctx context.Context) (any, error) {
		if v, ok := o.InterpCache.Get(ctx, key, interp.Codec); ok {
			return v, nil
		}
		return o.buildInterpolator(ctx, model, param, key, hourOffset)
	})
	tracing.RecordOutcome(span, err)
	if err != nil {
		return nil, err
	}
	return result.(*interp.Interpolator), nil
}

func (o *Orchestrator) buildInterpolator(ctx context.Context, model string, param ParamSpec, key string, hourOffset int) (*interp.Interpolator, error) {
	path, ok := o.Resolver.Resolve(model, hourOffset)
	if !ok {
		return nil, &errs.FileNotFound{Model: model, Offset: hourOffset}
	}

	messages, err := o.Decoder.Decode(path)
	if err != nil {
		return nil, &errs.GribDecodeError{Path: path, Err: err}
	}

	msg, err := grib.Select(grib.Request{
		ParameterName: param.Name,
		Level:         param.Level,
		LevelType:     param.LevelType,
		StepType:      param.StepType,
	}, messages)
	if err != nil {
		return nil, err
	}

	msg.NormalizeScan()
	lons, lats, values := flattenGrid(msg)

	in, err := interp.Build(lons, lats, values, msg.MissingValue, o.Decimation)
	if err != nil {
		return nil, err
	}

	widened := o.widenMinMax(ctx, key, minMax{Min: in.GMin, Max: in.GMax})
	in.GMin, in.GMax = widened.Min, widened.Max

	o.InterpCache.Set(key, in, interp.Codec, 15*time.Minute)

	correlationID := uuid.New()
	if o.Audit != nil {
		o.Audit.Log(correlationID, audit.TypeBuildInterpolator, model, key, fmt.Sprintf("points=%d simplices=%d", len(in.Values), len(in.Simplices)))
	}
	if o.Events != nil {
		_ = o.Events.Publish(ctx, eventbus.CacheEvent{Type: eventbus.EventInterpolatorBuilt, Model: model, Key: key, Timestamp: time.Now().UTC()})
	}

	return in, nil
}

// widenMinMax merges candidate into whatever range is cached for key,
// persisting the widened range if it actually grew.
func (o *Orchestrator) widenMinMax(ctx context.Context, interpKey string, candidate minMax) minMax {
	mmKey := domain.MinMaxKey(interpKey)

	current := candidate
	if v, ok := o.MinMaxCache.Get(ctx, mmKey, minMaxCodecInstance); ok {
		current = v.(minMax)
	}

	widened, changed := current.merge(candidate)
	if changed {
		o.MinMaxCache.Set(mmKey, widened, minMaxCodecInstance, 24*time.Hour)
		if o.Events != nil {
			_ = o.Events.Publish(ctx, eventbus.CacheEvent{Type: eventbus.EventMinMaxWidened, Key: mmKey, Timestamp: time.Now().UTC()})
		}
	}
	return widened
}

// RenderTile evaluates param's interpolator over tile z/x/y's query
// grid and colorizes the result into an RGBA8 raster (spec.md §4.9,
// §4.10, §4.12).
func (o *Orchestrator) RenderTile(ctx context.Context, model string, param ParamSpec, timeBucket string, hourOffset, z, x, y int) ([]byte, error) {
	ctx, span := tracing.Start(ctx, "orchestrator.render_tile")
	defer span.End()

	in, err := o.GetOrBuildInterpolator(ctx, model, param, timeBucket, hourOffset)
	if err != nil {
		tracing.RecordOutcome(span, err)
		return nil, err
	}

	grid, err := tiles.BuildGrid(z, x, y)
	if err != nil {
		tracing.RecordOutcome(span, err)
		return nil, err
	}

	workers := o.Workers.Size()
	values, ok := in.EvalBatch(grid.Points, workers)
	maskMissing(values, in.MissingValue)
	raster := color.Colorize(values, ok, in.GMin, in.GMax, in.MissingValue, param.Name)
	raster = tiles.Crop(raster, 4)

	if o.Audit != nil {
		o.Audit.Log(uuid.New(), audit.TypeRenderTile, model, domain.TileKey(model, param.Slug, timeBucket, z, x, y, param.Level, param.LevelType, param.StepType), "")
	}

	tracing.RecordOutcome(span, nil)
	return raster, nil
}

// PointValues evaluates every requested parameter at (lat, lon) using
// k-nearest inverse-distance weighting over the raw decoded grid
// (spec.md §4.11), fanned out across the worker pool. A parameter that
// fails to resolve or select gets a nil entry; it never aborts the
// rest of the batch (spec.md §7).
func (o *Orchestrator) PointValues(ctx context.Context, model string, params []ParamSpec, hourOffset int, lat, lon float64) (map[string]*float64, error) {
	ctx, span := tracing.Start(ctx, "orchestrator.point_values")
	defer span.End()

	timeBucket := domain.TimeBucket(time.Now(), hourOffset)

	tasks := make([]workerpool.Task, len(params))
	for i, p := range params {
		p := p
		tasks[i] = func(ctx context.Context) (any, error) {
			v, _, err := o.pointValueWithMeta(ctx, model, p, hourOffset, timeBucket, lat, lon)
			return v, err
		}
	}

	results, taskErrs := o.Workers.RunAll(ctx, tasks)

	out := make(map[string]*float64, len(params))
	for i, p := range params {
		if taskErrs[i] != nil {
			out[p.Slug] = nil
			continue
		}
		v := results[i].(float64)
		out[p.Slug] = &v
	}

	tracing.RecordOutcome(span, nil)
	if o.Audit != nil {
		o.Audit.Log(uuid.New(), audit.TypePointQuery, model, fmt.Sprintf("%.4f,%.4f", lat, lon), fmt.Sprintf("params=%d", len(params)))
	}
	return out, nil
}

// decodedMessages returns every GridMessage decoded from the file for
// (model, hourOffset), building it at most once per (model,
// timeBucket) no matter how many callers race for it concurrently
// (spec.md §4.12 step 2; §5's SingleFlight-guarded dictionary key).
func (o *Orchestrator) decodedMessages(ctx context.Context, model string, hourOffset int, timeBucket string) ([]domain.GridMessage, error) {
	dictKey := domain.ValueDictKey(model, timeBucket)

	if v, ok := o.ValueDictCache.Get(dictKey); ok {
		return v.([]domain.GridMessage), nil
	}

	result, err := o.SF.DoOrWait(ctx, dictKey, func(ctx context.Context) (any, error) {
		if v, ok := o.ValueDictCache.Get(dictKey); ok {
			return v, nil
		}
		path, ok := o.Resolver.Resolve(model, hourOffset)
		if !ok {
			return nil, &errs.FileNotFound{Model: model, Offset: hourOffset}
		}
		messages, err := o.Decoder.Decode(path)
		if err != nil {
			return nil, &errs.GribDecodeError{Path: path, Err: err}
		}
		for i := range messages {
			messages[i].NormalizeScan()
		}
		o.ValueDictCache.Set(dictKey, messages)
		return messages, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.GridMessage), nil
}

func (o *Orchestrator) pointValueWithMeta(ctx context.Context, model string, p ParamSpec, hourOffset int, timeBucket string, lat, lon float64) (float64, domain.MessageMetadata, error) {
	messages, err := o.decodedMessages(ctx, model, hourOffset, timeBucket)
	if err != nil {
		return 0, domain.MessageMetadata{}, err
	}
	msg, err := grib.Select(grib.Request{
		ParameterName: p.Name,
		Level:         p.Level,
		LevelType:     p.LevelType,
		StepType:      p.StepType,
	}, messages)
	if err != nil {
		return 0, domain.MessageMetadata{}, err
	}

	samples := gridToSamples(msg, o.Decimation)
	v, err := pointeval.Evaluate(samples, lat, lon)
	return v, msg.Metadata, err
}

// TimeseriesPoint is one (offset, value) sample of a forecast series,
// carrying the forecast-valid instant used to sort the series
// (spec.md §4.12 step 3).
type TimeseriesPoint struct {
	Offset    int
	Value     float64
	ValidTime time.Time
}

// Timeseries evaluates every requested parameter at (lat, lon) across
// every hour offset in offsets, fanned out across the worker pool. An
// (offset, parameter) pair that fails to resolve or select is simply
// omitted from that parameter's series rather than failing the whole
// request. progress, if non-nil, is invoked once per offset as soon as
// every parameter requested for that offset has completed (spec.md
// §4.12 step 2).
func (o *Orchestrator) Timeseries(ctx context.Context, model string, params []ParamSpec, offsets []int, lat, lon float64, progress func(completedOffsets, totalOffsets int)) (map[string][]TimeseriesPoint, error) {
	ctx, span := tracing.Start(ctx, "orchestrator.timeseries")
	defer span.End()

	type cell struct {
		value float64
		meta  domain.MessageMetadata
		ok    bool
	}
	cells := make([][]cell, len(params))
	for i := range cells {
		cells[i] = make([]cell, len(offsets))
	}

	sem := make(chan struct{}, o.Workers.Size())
	var wg sync.WaitGroup
	outstanding := make([]int32, len(offsets))
	for i := range outstanding {
		outstanding[i] = int32(len(params))
	}
	var completed int32
	total := len(offsets)

	for oi, off := range offsets {
		timeBucket := domain.TimeBucket(time.Now(), off)
		for pi, p := range params {
			wg.Add(1)
			sem <- struct{}{}
			go func(oi, pi, off int, timeBucket string, p ParamSpec) {
				defer wg.Done()
				defer func() { <-sem }()

				v, meta, err := o.pointValueWithMeta(ctx, model, p, off, timeBucket, lat, lon)
				if err == nil {
					cells[pi][oi] = cell{value: v, meta: meta, ok: true}
				}

				if atomic.AddInt32(&outstanding[oi], -1) == 0 {
					done := atomic.AddInt32(&completed, 1)
					if progress != nil {
						progress(int(done), total)
					}
				}
			}(oi, pi, off, timeBucket, p)
		}
	}
	wg.Wait()

	now := time.Now()
	out := make(map[string][]TimeseriesPoint, len(params))
	for pi, p := range params {
		series := make([]TimeseriesPoint, 0, len(offsets))
		for oi, off := range offsets {
			c := cells[pi][oi]
			if !c.ok {
				continue
			}
			validTime, parsed := domain.ValidDatetime(c.meta, now, off)
			if !parsed && o.Audit != nil {
				o.Audit.Log(uuid.New(), audit.TypePointQuery, model, p.Slug, "valid datetime fallback: metadata unparseable, using now+offset UTC")
			}
			series = append(series, TimeseriesPoint{Offset: off, Value: c.value, ValidTime: validTime})
		}
		sort.Slice(series, func(i, j int) bool { return series[i].ValidTime.Before(series[j].ValidTime) })
		out[p.Slug] = series
	}

	tracing.RecordOutcome(span, nil)
	return out, nil
}

// maskMissing replaces any value within 1.0 of missingValue with NaN
// in place, per spec.md §4.12 step 4; a fully-NaN result renders as a
// blank, fully-transparent tile once color.Colorize runs (every
// channel gets alpha 0).
func maskMissing(values []float64, missingValue float64) {
	for i, v := range values {
		if math.Abs(v-missingValue) <= 1.0 {
			values[i] = math.NaN()
		}
	}
}

func flattenGrid(m domain.GridMessage) (lons, lats, values []float64) {
	rows, cols := m.Dims()
	n := rows * cols
	lons = make([]float64, 0, n)
	lats = make([]float64, 0, n)
	values = make([]float64, 0, n)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			lons = append(lons, m.Lons[r][c])
			lats = append(lats, m.Lats[r][c])
			values = append(values, m.Values[r][c])
		}
	}
	return
}

// gridToSamples converts m's native grid to point samples for
// PointEvaluator, striding both axes by decimation (spec.md §4.12
// step 1, matching the original's `data_array[::decimation,
// ::decimation]`) before dropping missing cells.
func gridToSamples(m domain.GridMessage, decimation int) []pointeval.Sample {
	if decimation < 1 {
		decimation = 1
	}
	rows, cols := m.Dims()
	out := make([]pointeval.Sample, 0, (rows/decimation+1)*(cols/decimation+1))
	for r := 0; r < rows; r += decimation {
		for c := 0; c < cols; c += decimation {
			v := m.Values[r][c]
			if m.IsMissing(v) {
				continue
			}
			out = append(out, pointeval.Sample{Lat: m.Lats[r][c], Lon: m.Lons[r][c], Value: v})
		}
	}
	return out
}
