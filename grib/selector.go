// Package grib implements MessageSelector (spec.md §4.6): picking the
// GridMessage that best matches a requested parameter out of the set
// decoded from one GRIB file, by walking a fallback ladder of
// progressively looser criteria. The named-rung shape mirrors
// _examples/mmp-squall's ReadOption/readConfig (options.go) — a filter
// predicate composed from small, named pieces rather than one big
// conditional.
package grib

import (
	"weathercore/domain"
	"weathercore/errs"
)

// Request describes what the caller is looking for. In the exact-match
// rung, a non-empty LevelType constrains both LevelType and Level, and
// a non-empty StepType constrains StepType. Only when LevelType and
// StepType are both set does an exact miss fail instead of falling
// through the ladder — see Select's "all three specified" rule
// (spec.md §4.6 step 2).
type Request struct {
	ParameterName string
	Level         float64
	LevelType     string
	StepType      string
}

// fullySpecified reports whether req names all three optional
// qualifiers, forcing an exact-match-or-fail rule instead of falling
// through the ladder.
func (r Request) fullySpecified() bool {
	return r.LevelType != "" && r.StepType != ""
}

// isobaricFallbackLevels is Fallback B's probe order (spec.md §4.6
// step 5): the standard pressure levels nearest the surface, tried in
// order until one yields a message.
var isobaricFallbackLevels = []float64{1000, 975, 950, 925, 900, 850}

// Select runs the fallback ladder over candidates and returns the best
// match, or errs.NoMatchingMessage if nothing in the ladder matches.
func Select(req Request, candidates []domain.GridMessage) (domain.GridMessage, error) {
	sameParamSet := filterByParam(candidates, req.ParameterName)

	exact := filterExact(sameParamSet, req)
	if len(exact) > 0 {
		return pickByPriority(exact), nil
	}
	if req.fullySpecified() {
		return domain.GridMessage{}, notFound(req)
	}

	// Fallback A: 2m-above-ground instant (or the requested step type).
	step := req.StepType
	if step == "" {
		step = "instant"
	}
	fallbackA := filterBy(sameParamSet, func(m domain.GridMessage) bool {
		return m.Metadata.TypeOfLevel == "heightAboveGround" && m.Metadata.Level == 2 && m.Metadata.StepType == step
	})
	if len(fallbackA) > 0 {
		return pickByPriority(fallbackA), nil
	}

	// Fallback B: standard isobaric levels, nearest-surface first.
	for _, lvl := range isobaricFallbackLevels {
		cands := filterBy(sameParamSet, func(m domain.GridMessage) bool {
			return m.Metadata.TypeOfLevel == "isobaricInhPa" && m.Metadata.Level == lvl
		})
		if len(cands) > 0 {
			return pickByPriority(cands), nil
		}
	}

	// Fallback C: parameter name only, surface-priority, else first.
	if len(sameParamSet) > 0 {
		return pickByPriority(sameParamSet), nil
	}

	return domain.GridMessage{}, notFound(req)
}

func filterByParam(candidates []domain.GridMessage, name string) []domain.GridMessage {
	return filterBy(candidates, func(m domain.GridMessage) bool {
		return m.Metadata.ParameterName == name
	})
}

func filterExact(candidates []domain.GridMessage, req Request) []domain.GridMessage {
	return filterBy(candidates, func(m domain.GridMessage) bool {
		if req.LevelType != "" && (m.Metadata.TypeOfLevel != req.LevelType || m.Metadata.Level != req.Level) {
			return false
		}
		if req.StepType != "" && m.Metadata.StepType != req.StepType {
			return false
		}
		return true
	})
}

func filterBy(candidates []domain.GridMessage, pred func(domain.GridMessage) bool) []domain.GridMessage {
	out := make([]domain.GridMessage, 0, len(candidates))
	for _, m := range candidates {
		if pred(m) {
			out = append(out, m)
		}
	}
	return out
}

// surfacePriority ranks a message's level type per spec.md §4.6 step
// 3: lower is preferred.
func surfacePriority(m domain.GridMessage) int {
	switch {
	case m.Metadata.TypeOfLevel == "surface":
		return 0
	case m.Metadata.TypeOfLevel == "orderedSequenceData" && (m.Metadata.Level == 0 || m.Metadata.Level == 1):
		return 1
	case m.Metadata.TypeOfLevel == "heightAboveGround":
		return 2
	case m.Metadata.TypeOfLevel == "atmosphere" && m.Metadata.Level == 0:
		return 3
	default:
		return 99
	}
}

// pickByPriority selects one message out of a non-empty candidate set
// using surface-priority first, then preferring stepType=="instant"
// among ties (spec.md §4.6 step 3). Candidate order otherwise breaks
// remaining ties, matching the ladder's stable, first-wins behavior.
func pickByPriority(candidates []domain.GridMessage) domain.GridMessage {
	best := candidates[0]
	bestRank := surfacePriority(best)
	bestInstant := best.Metadata.StepType == "instant"

	for _, m := range candidates[1:] {
		rank := surfacePriority(m)
		instant := m.Metadata.StepType == "instant"
		switch {
		case rank < bestRank:
			best, bestRank, bestInstant = m, rank, instant
		case rank == bestRank && instant && !bestInstant:
			best, bestInstant = m, instant
		}
	}
	return best
}

func notFound(req Request) error {
	return &errs.NoMatchingMessage{
		Parameter: req.ParameterName,
		Level:     req.Level,
		LevelType: req.LevelType,
		StepType:  req.StepType,
	}
}
