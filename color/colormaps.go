// Package color implements Colorizer (spec.md §4.10): mapping scalar
// field values to an RGBA8 raster through a parameter-selected
// colormap, grounded in
// _examples/original_source/tile_renderers/gfs_render/map_colors.py's
// assign_color_map/zero_clip keyword rules and its hard alpha-cutoff
// behavior near zero for precipitation-like parameters.
package color

// Stop is one control point of a colormap: Pos in [0,1], RGB in [0,255].
type Stop struct {
	Pos     float64
	R, G, B uint8
}

// LUTSize is the number of entries in a baked colormap table, matching
// spec.md §4.10's "well-known 256-entry LUTs" / SPEC_FULL §6's
// `[256][3]uint8` reference tables.
const LUTSize = 256

// Colormap is a 256-entry RGB reference table, baked once at package
// init from an ordered list of control-point stops. No pack repo or
// common Go library ships matplotlib-equivalent LUT data, so the
// stops themselves are a hand-picked approximation of each named map's
// color progression (see DESIGN.md); baking them into a fixed-size
// table at construction is what makes the in-memory shape match the
// spec's literal 256-entry contract rather than interpolating the
// stops afresh on every pixel.
type Colormap struct {
	Name  string
	Stops []Stop
	LUT   [LUTSize][3]uint8
}

// newColormap bakes stops into a 256-entry LUT.
func newColormap(name string, stops []Stop) Colormap {
	var lut [LUTSize][3]uint8
	for i := 0; i < LUTSize; i++ {
		t := float64(i) / float64(LUTSize-1)
		r, g, b := sampleStops(stops, t)
		lut[i] = [3]uint8{r, g, b}
	}
	return Colormap{Name: name, Stops: stops, LUT: lut}
}

// Sample returns the RGB color for t (clamped to [0,1]) by rounding to
// the nearest of the colormap's 256 baked entries.
func (c Colormap) Sample(t float64) (r, g, b uint8) {
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	idx := int(t*float64(LUTSize-1) + 0.5)
	entry := c.LUT[idx]
	return entry[0], entry[1], entry[2]
}

// sampleStops linearly interpolates between the two stops bracketing
// t; used only to populate a Colormap's LUT at construction.
func sampleStops(stops []Stop, t float64) (r, g, b uint8) {
	if t <= stops[0].Pos {
		s := stops[0]
		return s.R, s.G, s.B
	}
	last := stops[len(stops)-1]
	if t >= last.Pos {
		return last.R, last.G, last.B
	}
	for i := 1; i < len(stops); i++ {
		a, b2 := stops[i-1], stops[i]
		if t <= b2.Pos {
			span := b2.Pos - a.Pos
			f := 0.0
			if span > 0 {
				f = (t - a.Pos) / span
			}
			return lerp(a.R, b2.R, f), lerp(a.G, b2.G, f), lerp(a.B, b2.B, f)
		}
	}
	return last.R, last.G, last.B
}

func lerp(a, b uint8, f float64) uint8 {
	return uint8(float64(a) + (float64(b)-float64(a))*f)
}

var (
	Jet = newColormap("jet", []Stop{
		{0.000, 0, 0, 131},
		{0.125, 0, 0, 255},
		{0.375, 0, 255, 255},
		{0.625, 255, 255, 0},
		{0.875, 255, 0, 0},
		{1.000, 128, 0, 0},
	})

	Viridis = newColormap("viridis", []Stop{
		{0.00, 68, 1, 84},
		{0.25, 59, 82, 139},
		{0.50, 33, 145, 140},
		{0.75, 94, 201, 98},
		{1.00, 253, 231, 37},
	})

	Plasma = newColormap("plasma", []Stop{
		{0.00, 13, 8, 135},
		{0.25, 126, 3, 168},
		{0.50, 204, 71, 120},
		{0.75, 248, 149, 64},
		{1.00, 240, 249, 33},
	})

	Twilight = newColormap("twilight", []Stop{
		{0.00, 226, 217, 226},
		{0.25, 110, 94, 154},
		{0.50, 36, 36, 62},
		{0.75, 100, 25, 77},
		{1.00, 226, 217, 226},
	})

	HSV = newColormap("hsv", []Stop{
		{0.000, 255, 0, 0},
		{0.167, 255, 255, 0},
		{0.333, 0, 255, 0},
		{0.500, 0, 255, 255},
		{0.667, 0, 0, 255},
		{0.833, 255, 0, 255},
		{1.000, 255, 0, 0},
	})

	YlGnBu = newColormap("YlGnBu", []Stop{
		{0.00, 255, 255, 217},
		{0.25, 199, 233, 180},
		{0.50, 65, 182, 196},
		{0.75, 34, 94, 168},
		{1.00, 8, 29, 88},
	})

	Rainbow = newColormap("rainbow", []Stop{
		{0.00, 110, 0, 220},
		{0.25, 0, 110, 255},
		{0.50, 0, 220, 110},
		{0.75, 255, 200, 0},
		{1.00, 255, 0, 0},
	})
)
