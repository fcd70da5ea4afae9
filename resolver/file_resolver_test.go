package resolver

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weathercore/domain"
)

func testRegistry() map[string]domain.ModelDescriptor {
	return map[string]domain.ModelDescriptor{
		"gfs": {ID: "gfs", FilePrefix: "gfs", Category: "pgrb2", Resolution: "0p25", Suffix: ""},
	}
}

func TestResolve_UnknownModel(t *testing.T) {
	r := New(t.TempDir(), testRegistry())
	_, ok := r.Resolve("hrrr", 0)
	assert.False(t, ok)
}

func TestResolve_FindsNewestExistingRunInit(t *testing.T) {
	base := t.TempDir()
	now := time.Date(2026, 3, 1, 13, 0, 0, 0, time.UTC)

	// The 06z run at fhr=007 exists; the 12z run (closer to now) does not.
	dir := filepath.Join(base, "20260301", "06")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	path := filepath.Join(dir, "gfs.t06z.pgrb2.0p25.f007")
	require.NoError(t, os.WriteFile(path, []byte("grib"), 0o644))

	r := New(base, testRegistry())
	r.Now = func() time.Time { return now }

	got, ok := r.Resolve("gfs", 0)
	require.True(t, ok)
	assert.Equal(t, path, got)
}

func TestResolve_NoFileOnDiskReturnsFalse(t *testing.T) {
	base := t.TempDir()
	r := New(base, testRegistry())
	r.Now = func() time.Time { return time.Date(2026, 3, 1, 13, 0, 0, 0, time.UTC) }

	_, ok := r.Resolve("gfs", 0)
	assert.False(t, ok)
}

func TestResolve_RejectsOffsetBeyondMaxForecastHour(t *testing.T) {
	base := t.TempDir()
	dir := filepath.Join(base, "20260301", "00")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	// For offset 400 from 13z, the 00z run needs fhr 413, snapped to
	// 414: this file would match if the range check were skipped.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "gfs.t00z.pgrb2.0p25.f414"), []byte("x"), 0o644))

	r := New(base, testRegistry())
	r.Now = func() time.Time { return time.Date(2026, 3, 1, 13, 0, 0, 0, time.UTC) }

	_, ok := r.Resolve("gfs", 400*1) // 400h out is past MaxOffset (384)
	assert.False(t, ok)
}

func TestCandidateRunInits_NewestFirst(t *testing.T) {
	now := time.Date(2026, 3, 1, 13, 0, 0, 0, time.UTC)
	runs := candidateRunInits(now)
	require.NotEmpty(t, runs)
	assert.Equal(t, "20260302", runs[0].Date)
	assert.Equal(t, 18, runs[0].RunHour)
	assert.Equal(t, "20260224", runs[len(runs)-1].Date)
	assert.Equal(t, 0, runs[len(runs)-1].RunHour)
}
