package domain

import (
	"fmt"
	"time"
)

// TimeBucket resolves a forecast offset to the cache-key time bucket.
//
// The original service bucketed on "DD:HH" alone — day-of-month and
// hour, with no month or year — which collides across month
// boundaries (spec.md §9 Open Question). This implementation extends
// the bucket to "YYYY-MM-DD:HH" to remove that collision while keeping
// the same half-hour rounding-up behavior and the same effective
// granularity within a day.
func TimeBucket(now time.Time, offsetHours int) string {
	target := now.UTC().Add(time.Duration(offsetHours) * time.Hour)
	target = roundUpHalfHour(target)
	return target.Format("2006-01-02:15")
}

func roundUpHalfHour(t time.Time) time.Time {
	const half = 30 * time.Minute
	rem := t.Sub(t.Truncate(half))
	if rem == 0 {
		return t
	}
	return t.Add(half - rem)
}

// TileKey identifies one cached tile raster.
func TileKey(model, slug, timeBucket string, z, x, y int, level float64, levelType, stepType string) string {
	lt := levelType
	if lt == "" {
		lt = "surface"
	}
	st := stepType
	if st == "" {
		st = "instant"
	}
	return fmt.Sprintf("tile:%s:%s:%s:%d:%d:%d:%v:%s:%s", model, slug, timeBucket, z, x, y, level, lt, st)
}

// InterpKey identifies one cached Interpolator, shared by every tile
// request that lands in the same time bucket and level selection.
func InterpKey(model, slug, timeBucket string, level float64, levelType, stepType string) string {
	return fmt.Sprintf("interp:%s:%s:%s:%v:%s:%s", model, slug, timeBucket, level, levelType, stepType)
}

// MinMaxKey identifies the monotone-merged (gmin, gmax) record for one
// InterpKey. The InterpKey includes the time bucket, so each bucket's
// range is merged separately; ranges are not merged across buckets of
// the same (model, slug, level, levelType, stepType) tuple.
func MinMaxKey(interpKey string) string {
	return "max:min:" + interpKey
}

// ValueDictKey identifies the per-offset decoded-value dictionary used
// by PointValues to avoid re-decoding a GRIB file per requested
// parameter.
func ValueDictKey(model, timeBucket string) string {
	return fmt.Sprintf("grib_dictionary_array:%s:%s", model, timeBucket)
}
