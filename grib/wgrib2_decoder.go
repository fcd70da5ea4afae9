package grib

import (
	"bufio"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"weathercore/domain"
)

// Wgrib2Decoder implements orchestrator.Decoder by shelling out to the
// wgrib2 CLI — the same tool GFS/GFS-wave operators use day to day —
// rather than a pure-Go GRIB2 reader. None of the retrieved example
// repos or the wider Go ecosystem ships a maintained pure-Go GRIB2
// decoder matching the fallback-ladder/scan-direction semantics this
// system needs, so the decoder boundary stays a thin wrapper around
// the reference implementation instead of a hand-rolled binary parser
// (see DESIGN.md).
type Wgrib2Decoder struct {
	BinaryPath string // defaults to "wgrib2" on PATH
}

// NewWgrib2Decoder builds a decoder invoking binaryPath (or "wgrib2").
func NewWgrib2Decoder(binaryPath string) *Wgrib2Decoder {
	if binaryPath == "" {
		binaryPath = "wgrib2"
	}
	return &Wgrib2Decoder{BinaryPath: binaryPath}
}

// Decode lists path's messages with `wgrib2 -s` and dumps each one's
// lat/lon/value triples with `-csv`, reassembling them into dense
// GridMessages.
func (d *Wgrib2Decoder) Decode(path string) ([]domain.GridMessage, error) {
	inventory, err := d.inventory(path)
	if err != nil {
		return nil, err
	}

	messages := make([]domain.GridMessage, 0, len(inventory))
	for _, entry := range inventory {
		msg, err := d.decodeMessage(path, entry)
		if err != nil {
			continue // a single unreadable message shouldn't abort the whole file
		}
		messages = append(messages, msg)
	}
	return messages, nil
}

type inventoryEntry struct {
	index     int
	parameter string
	level     string
	stepType  string
}

func (d *Wgrib2Decoder) inventory(path string) ([]inventoryEntry, error) {
	out, err := exec.Command(d.BinaryPath, "-s", path).Output()
	if err != nil {
		return nil, fmt.Errorf("wgrib2 -s %s: %w", path, err)
	}

	var entries []inventoryEntry
	scanner := bufio.NewScanner(strings.NewReader(string(out)))
	for scanner.Scan() {
		fields := strings.Split(scanner.Text(), ":")
		if len(fields) < 4 {
			continue
		}
		idx, err := strconv.Atoi(fields[0])
		if err != nil {
			continue
		}
		entries = append(entries, inventoryEntry{
			index:     idx,
			parameter: fields[3],
			level:     safeField(fields, 4),
			stepType:  safeField(fields, 5),
		})
	}
	return entries, scanner.Err()
}

func safeField(fields []string, i int) string {
	if i < len(fields) {
		return fields[i]
	}
	return ""
}

// decodeMessage dumps one message as csv rows of
// "time","var","level",lon,lat,value and assembles them into a
// GridMessage, inferring the (rows, cols) shape from how many
// distinct longitudes precede a repeat.
func (d *Wgrib2Decoder) decodeMessage(path string, entry inventoryEntry) (domain.GridMessage, error) {
	sel := fmt.Sprintf("%d", entry.index)
	out, err := exec.Command(d.BinaryPath, path, "-d", sel, "-csv", "-").Output()
	if err != nil {
		return domain.GridMessage{}, fmt.Errorf("wgrib2 -d %s -csv: %w", sel, err)
	}

	var lons, lats, values []float64
	scanner := bufio.NewScanner(strings.NewReader(string(out)))
	for scanner.Scan() {
		cols := splitCSVLine(scanner.Text())
		if len(cols) < 6 {
			continue
		}
		lon, errLon := strconv.ParseFloat(cols[3], 64)
		lat, errLat := strconv.ParseFloat(cols[4], 64)
		val, errVal := strconv.ParseFloat(cols[5], 64)
		if errLon != nil || errLat != nil || errVal != nil {
			continue
		}
		lons = append(lons, lon)
		lats = append(lats, lat)
		values = append(values, val)
	}
	if err := scanner.Err(); err != nil {
		return domain.GridMessage{}, err
	}

	cols := distinctRun(lons)
	if cols == 0 || len(values)%cols != 0 {
		return domain.GridMessage{}, fmt.Errorf("wgrib2 csv: could not infer grid shape for message %d", entry.index)
	}
	rows := len(values) / cols

	grid := domain.GridMessage{
		Values:           toRows(values, rows, cols),
		Lats:             toRows(lats, rows, cols),
		Lons:             toRows(lons, rows, cols),
		JScansPositively: true,
		MissingValue:     9999,
		Metadata: domain.MessageMetadata{
			ParameterName: entry.parameter,
			TypeOfLevel:   entry.level,
			StepType:      entry.stepType,
		},
	}
	return grid, nil
}

// distinctRun counts how many leading values of lons are strictly
// increasing before the sequence wraps back to the first longitude,
// which is how many columns wgrib2's row-major csv dump packs per row.
func distinctRun(lons []float64) int {
	if len(lons) == 0 {
		return 0
	}
	first := lons[0]
	for i := 1; i < len(lons); i++ {
		if lons[i] == first {
			return i
		}
	}
	return len(lons)
}

func toRows(flat []float64, rows, cols int) [][]float64 {
	out := make([][]float64, rows)
	for r := 0; r < rows; r++ {
		out[r] = flat[r*cols : (r+1)*cols]
	}
	return out
}

func splitCSVLine(line string) []string {
	var out []string
	var cur strings.Builder
	inQuotes := false
	for _, r := range line {
		switch {
		case r == '"':
			inQuotes = !inQuotes
		case r == ',' && !inQuotes:
			out = append(out, cur.String())
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	out = append(out, cur.String())
	return out
}
