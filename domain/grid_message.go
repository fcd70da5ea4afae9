package domain

import "math"

// GridMessage is a single decoded GRIB record, already materialized as
// dense row-major grids. The GRIB decoder itself lives outside this
// module (spec.md §1); this is the shape the core consumes.
type GridMessage struct {
	Values           [][]float64
	Lats             [][]float64
	Lons             [][]float64
	JScansPositively bool
	Minimum          float64
	Maximum          float64
	MissingValue     float64
	Metadata         MessageMetadata
}

// MessageMetadata carries the GRIB attributes MessageSelector and the
// valid-datetime builder need, without requiring the core to know the
// full GRIB section layout.
type MessageMetadata struct {
	ParameterName string
	Units         string
	TypeOfLevel   string
	Level         float64
	StepType      string
	DataDate      int // YYYYMMDD
	DataTime      int // HHMM
	ForecastTime  int // hours
}

// NormalizeScan flips Values, Lats, and Lons along axis 0 in place when
// the message scans north-to-south (JScansPositively == false), so
// downstream consumers always see rows in south-to-north order (row 0
// is the southernmost row), the order a j-positive scan produces.
func (m *GridMessage) NormalizeScan() {
	if m.JScansPositively {
		return
	}
	flipRows(m.Values)
	flipRows(m.Lats)
	flipRows(m.Lons)
}

func flipRows(grid [][]float64) {
	for i, j := 0, len(grid)-1; i < j; i, j = i+1, j-1 {
		grid[i], grid[j] = grid[j], grid[i]
	}
}

// Dims returns the (height, width) of the message's grid.
func (m *GridMessage) Dims() (int, int) {
	if len(m.Values) == 0 {
		return 0, 0
	}
	return len(m.Values), len(m.Values[0])
}

// IsMissing reports whether v should be treated as the message's
// missing-value sentinel, using a small epsilon because GRIB missing
// values are frequently re-derived through floating point arithmetic.
func (m *GridMessage) IsMissing(v float64) bool {
	if math.IsNaN(v) {
		return true
	}
	return math.Abs(v-m.MissingValue) <= 1.0
}
