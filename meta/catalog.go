package meta

// ParamDef is the static definition of one selectable parameter: the
// raw GRIB parameter name MessageSelector matches against, plus the
// level/step-type it's normally found at. This is the Go-native
// equivalent of looping over a decoded file's parameter_key set in
// the reference renderer's /parameters route.
type ParamDef struct {
	Slug      string
	RawName   string
	LevelType string
	Level     float64
	StepType  string
}

// Catalog lists the parameters exposed per model. It intentionally
// covers the commonly requested surface/near-surface fields rather
// than every GRIB message a file contains — new parameters are added
// here as they're onboarded.
var Catalog = map[string][]ParamDef{
	"gfs": {
		{Slug: "temperature-2m", RawName: "2 metre temperature", LevelType: "heightAboveGround", Level: 2, StepType: "instant"},
		{Slug: "wind-u-10m", RawName: "10 metre U wind component", LevelType: "heightAboveGround", Level: 10, StepType: "instant"},
		{Slug: "wind-v-10m", RawName: "10 metre V wind component", LevelType: "heightAboveGround", Level: 10, StepType: "instant"},
		{Slug: "relative-humidity-2m", RawName: "2 metre relative humidity", LevelType: "heightAboveGround", Level: 2, StepType: "instant"},
		{Slug: "mslp", RawName: "Pressure reduced to MSL", LevelType: "meanSea", Level: 0, StepType: "instant"},
		{Slug: "total-cloud-cover", RawName: "Total Cloud Cover", LevelType: "atmosphere", Level: 0, StepType: "avg"},
		{Slug: "precipitation-rate", RawName: "Precipitation rate", LevelType: "surface", Level: 0, StepType: "instant"},
		{Slug: "wind-gust", RawName: "Wind speed (gust)", LevelType: "surface", Level: 0, StepType: "instant"},
	},
	"gfswave": {
		{Slug: "wave-height", RawName: "Significant height of combined wind waves and swell", LevelType: "surface", Level: 0, StepType: "instant"},
		{Slug: "wind-speed", RawName: "Wind speed", LevelType: "surface", Level: 0, StepType: "instant"},
		{Slug: "wind-direction", RawName: "Wind direction", LevelType: "surface", Level: 0, StepType: "instant"},
	},
}

// Lookup finds a ParamDef by model and slug.
func Lookup(model, slug string) (ParamDef, bool) {
	for _, d := range Catalog[model] {
		if d.Slug == slug {
			return d, true
		}
	}
	return ParamDef{}, false
}
