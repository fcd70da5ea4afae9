package domain

import (
	"regexp"
	"strings"
)

// Parameter describes one GRIB2 field's identity as exposed to callers:
// the raw GRIB parameter name plus the vertical-level/step qualifiers
// that, together with the slug, pin down a single message.
type Parameter struct {
	RawName   string
	Slug      string
	Units     string
	LevelType string
	Level     float64
	StepType  string
}

var slugNonWord = regexp.MustCompile(`[^a-z0-9_-]+`)

// Slugify derives the user-facing parameter identifier from a raw GRIB
// parameter name: lowercase, "/" becomes "_", whitespace becomes "-",
// and anything left that isn't a word character or hyphen is dropped.
//
// Order matters: spaces are turned into hyphens before the final strip
// pass, so the hyphens survive the "non-word chars stripped" rule.
func Slugify(rawName string) string {
	s := strings.ToLower(rawName)
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.Join(strings.Fields(s), "-")
	return slugNonWord.ReplaceAllString(s, "")
}

// NewParameter builds a Parameter from GRIB metadata, computing the slug.
func NewParameter(rawName, units, levelType string, level float64, stepType string) Parameter {
	return Parameter{
		RawName:   rawName,
		Slug:      Slugify(rawName),
		Units:     units,
		LevelType: levelType,
		Level:     level,
		StepType:  stepType,
	}
}
