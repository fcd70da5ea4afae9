package meta

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookup_FindsCatalogedParameter(t *testing.T) {
	def, ok := Lookup("gfs", "temperature-2m")
	assert.True(t, ok)
	assert.Equal(t, "2 metre temperature", def.RawName)
}

func TestLookup_UnknownSlugReportsFalse(t *testing.T) {
	_, ok := Lookup("gfs", "does-not-exist")
	assert.False(t, ok)
}

func TestLookup_UnknownModelReportsFalse(t *testing.T) {
	_, ok := Lookup("nope", "temperature-2m")
	assert.False(t, ok)
}

func TestTableLookup_FindsDescriptiveMetadata(t *testing.T) {
	info, ok := Default.Lookup("gfs", "2-metre-temperature")
	assert.True(t, ok)
	assert.NotEmpty(t, info.Description)
}

func TestTableLookup_MissingEntryReportsFalse(t *testing.T) {
	_, ok := Default.Lookup("gfs", "no-such-parameter")
	assert.False(t, ok)
}
