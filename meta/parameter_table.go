// Package meta holds descriptive metadata for well-known parameters,
// merged into the /parameters response (/list_parameters returns raw
// parameter names only). Data is
// carried over from
// _examples/original_source/tile_renderers/gfs_render/parameter_meta.py's
// PARAMETER_META table.
package meta

// Info is the descriptive metadata attached to a parameter slug.
type Info struct {
	Description string
	Notes       string
}

// Table maps model -> parameter slug -> Info.
type Table map[string]map[string]Info

// Default holds the metadata shipped with the service, covering the
// most commonly rendered gfs and gfswave parameters. Entries not
// present here simply have no description/notes merged in.
var Default = Table{
	"gfs": {
		"pressure-reduced-to-msl": {
			Description: "Mean sea level pressure commonly used for weather analysis and forecasting.",
			Notes:       "Typically ranges from ~800 hPa to ~1100 hPa.",
		},
		"temperature": {
			Description: "Atmospheric temperature in Kelvin at isobaric levels.",
			Notes:       "Ranges from very cold (~150K) to very hot (~350K).",
		},
		"2-metre-temperature": {
			Description: "Air temperature at 2m above ground in Kelvin.",
			Notes:       "Ranges from ~180K to ~330K.",
		},
		"relative-humidity": {
			Description: "Ratio of water vapor partial pressure to saturation vapor pressure, in percent.",
			Notes:       "0% = fully dry, 100% = fully saturated.",
		},
		"u-component-of-wind": {
			Description: "Zonal (east-west) wind component in m/s.",
			Notes:       "Negative = westward, positive = eastward.",
		},
		"v-component-of-wind": {
			Description: "Meridional (north-south) wind component in m/s.",
			Notes:       "Negative = southward, positive = northward.",
		},
		"wind-speed-gust": {
			Description: "Surface gust wind speed in m/s.",
			Notes:       "Can exceed 100 m/s in extreme storms (rare).",
		},
		"geopotential-height": {
			Description: "Height of a given pressure level in geopotential meters (~ actual meters).",
			Notes:       "Values can approach 30,000 gpm at very high altitudes.",
		},
		"total-cloud-cover": {
			Description: "Fraction of sky covered by cloud (0%-100%).",
			Notes:       "0% = clear, 100% = fully overcast.",
		},
		"precipitation-rate": {
			Description: "Rate of precipitation at the surface (kg m^-2 s^-1).",
			Notes:       "0.1 is extremely heavy precipitation.",
		},
		"convective-available-potential-energy": {
			Description: "Energy available for convection, indicating thunderstorm potential.",
			Notes:       "Values over 4000 J/kg can be extreme.",
		},
		"surface-pressure": {
			Description: "Atmospheric pressure at the surface.",
			Notes:       "Lower near high elevations, higher at sea level.",
		},
		"visibility": {
			Description: "Horizontal visibility at the surface in meters.",
			Notes:       "Typically up to 10-20 km in clear air; 100000 m ~ 100 km in some models.",
		},
	},
	"gfswave": {
		"wind-speed": {
			Description: "Wind speed at the surface.",
			Notes:       "Measured in meters per second; ranges from calm (~0 m/s) to hurricane-force (>30 m/s).",
		},
		"wind-direction": {
			Description: "Wind direction at the surface, the direction from which the wind is blowing.",
			Notes:       "Degrees true; 0 = north, 90 = east, 180 = south, 270 = west.",
		},
		"significant-height-of-combined-wind-waves-and-swell": {
			Description: "Significant height of the combined wind waves and swell.",
			Notes:       "Average height of the highest one-third of waves, in meters.",
		},
		"primary-wave-mean-period": {
			Description: "Mean period of the primary wave.",
			Notes:       "Average time interval between consecutive wave crests, in seconds.",
		},
	},
}

// Lookup returns the Info for (model, slug), if any metadata is known
// for it.
func (t Table) Lookup(model, slug string) (Info, bool) {
	byModel, ok := t[model]
	if !ok {
		return Info{}, false
	}
	info, ok := byModel[slug]
	return info, ok
}
