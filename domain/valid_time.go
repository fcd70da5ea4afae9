package domain

import "time"

// ValidDatetime computes the message's forecast-valid instant from its
// metadata: the run-init (DataDate "YYYYMMDD" + DataTime "HHMM", both
// UTC) plus ForecastTime hours. This is the ground truth for
// Timeseries sort order (spec.md §4.12 step 3; SPEC_FULL.md §6,
// grounded on original_source's
// `_build_valid_datetime_from_metadata`).
//
// If DataDate/DataTime don't parse as a calendar date, ValidDatetime
// falls back to now.UTC() + offsetHours, explicitly UTC rather than
// the original's timezone-naive utcnow() (spec.md §9 Open Question),
// and reports ok=false so callers can log the fallback.
func ValidDatetime(meta MessageMetadata, now time.Time, offsetHours int) (valid time.Time, ok bool) {
	if meta.DataDate <= 0 {
		return now.UTC().Add(time.Duration(offsetHours) * time.Hour), false
	}

	date := meta.DataDate
	year, month, day := date/10000, (date/100)%100, date%100
	hour, minute := meta.DataTime/100, meta.DataTime%100

	if month < 1 || month > 12 || day < 1 || day > 31 || hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return now.UTC().Add(time.Duration(offsetHours) * time.Hour), false
	}

	runInit := time.Date(year, time.Month(month), day, hour, minute, 0, 0, time.UTC)
	return runInit.Add(time.Duration(meta.ForecastTime) * time.Hour), true
}
