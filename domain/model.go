// Package domain holds the immutable value types shared across the
// forecast-value plane: model descriptors, run-init/offset arithmetic,
// parameter identity, and the decoded grid message shape.
package domain

import "fmt"

// ModelDescriptor is an immutable record describing one numerical
// weather model's file-naming convention.
type ModelDescriptor struct {
	ID         string
	FilePrefix string
	Category   string
	Resolution string
	Suffix     string
}

// RunInit is the nominal origin time of a forecast cycle: a calendar
// date plus one of the four synoptic run hours.
type RunInit struct {
	Date    string // YYYYMMDD
	RunHour int    // one of 0, 6, 12, 18
}

// RunHours are the synoptic cycle hours every supported model publishes.
var RunHours = [4]int{0, 6, 12, 18}

// String renders the run init as it appears in the filesystem layout.
func (r RunInit) String() string {
	return fmt.Sprintf("%s/%02d", r.Date, r.RunHour)
}

// MinOffset and MaxOffset bound the valid forecast-hour range.
const (
	MinOffset = 0
	MaxOffset = 384
	// SnapThreshold is the forecast hour past which offsets are only
	// published every 3 hours.
	SnapThreshold = 120
)

// SnapOffset applies the forecast-hour snapping rule from spec.md §3:
// offsets beyond SnapThreshold only exist on multiples of 3. Ties are
// broken toward the nearest multiple via the fhr%3 residue:
// residue 0 is already aligned, residue 1 rounds down, residue 2
// rounds up.
func SnapOffset(fhr int) int {
	if fhr <= SnapThreshold {
		return fhr
	}
	switch residue := ((fhr % 3) + 3) % 3; residue {
	case 1:
		return fhr - 1
	case 2:
		return fhr + 1
	default:
		return fhr
	}
}
