package grib

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weathercore/domain"
	"weathercore/errs"
)

func msg(param, levelType string, level float64, stepType string) domain.GridMessage {
	return domain.GridMessage{
		Metadata: domain.MessageMetadata{
			ParameterName: param,
			TypeOfLevel:   levelType,
			Level:         level,
			StepType:      stepType,
		},
	}
}

func TestSelect_ExactMatchWins(t *testing.T) {
	candidates := []domain.GridMessage{
		msg("2 metre temperature", "heightAboveGround", 2, "instant"),
		msg("2 metre temperature", "isobaricInhPa", 1000, "instant"),
	}
	got, err := Select(Request{ParameterName: "2 metre temperature", Level: 2, LevelType: "heightAboveGround", StepType: "instant"}, candidates)
	require.NoError(t, err)
	assert.Equal(t, "heightAboveGround", got.Metadata.TypeOfLevel)
}

func TestSelect_FullySpecifiedMissExactDoesNotFallThrough(t *testing.T) {
	candidates := []domain.GridMessage{
		msg("2 metre temperature", "isobaricInhPa", 1000, "instant"),
	}
	_, err := Select(Request{ParameterName: "2 metre temperature", Level: 2, LevelType: "heightAboveGround", StepType: "instant"}, candidates)
	require.Error(t, err)
	var nmm *errs.NoMatchingMessage
	assert.ErrorAs(t, err, &nmm)
}

func TestSelect_FallbackA_HeightAboveGroundLevel2(t *testing.T) {
	candidates := []domain.GridMessage{
		msg("Wind speed (gust)", "heightAboveGround", 2, "instant"),
		msg("Wind speed (gust)", "isobaricInhPa", 850, "instant"),
	}
	got, err := Select(Request{ParameterName: "Wind speed (gust)", Level: 0, LevelType: "surface"}, candidates)
	require.NoError(t, err)
	assert.Equal(t, "heightAboveGround", got.Metadata.TypeOfLevel)
	assert.Equal(t, float64(2), got.Metadata.Level)
}

func TestSelect_FallbackB_NearestIsobaricLevelWins(t *testing.T) {
	candidates := []domain.GridMessage{
		msg("Relative humidity", "isobaricInhPa", 850, "instant"),
		msg("Relative humidity", "isobaricInhPa", 1000, "instant"),
	}
	got, err := Select(Request{ParameterName: "Relative humidity", Level: 0, LevelType: "surface"}, candidates)
	require.NoError(t, err)
	assert.Equal(t, float64(1000), got.Metadata.Level)
}

func TestSelect_FallbackC_ParameterNameOnlyBySurfacePriority(t *testing.T) {
	candidates := []domain.GridMessage{
		msg("Total Cloud Cover", "atmosphere", 0, "avg"),
		msg("Total Cloud Cover", "surface", 0, "instant"),
	}
	got, err := Select(Request{ParameterName: "Total Cloud Cover", Level: 10, LevelType: "heightAboveGround"}, candidates)
	require.NoError(t, err)
	assert.Equal(t, "surface", got.Metadata.TypeOfLevel)
}

func TestSelect_NoCandidatesForParameter(t *testing.T) {
	candidates := []domain.GridMessage{
		msg("Pressure reduced to MSL", "meanSea", 0, "instant"),
	}
	_, err := Select(Request{ParameterName: "does not exist"}, candidates)
	require.Error(t, err)
}

func TestSelect_TiebreakPrefersInstantStepType(t *testing.T) {
	candidates := []domain.GridMessage{
		msg("Precipitation rate", "surface", 0, "avg"),
		msg("Precipitation rate", "surface", 0, "instant"),
	}
	got, err := Select(Request{ParameterName: "Precipitation rate"}, candidates)
	require.NoError(t, err)
	assert.Equal(t, "instant", got.Metadata.StepType)
}
