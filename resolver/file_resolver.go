// Package resolver implements FileResolver (spec.md §4.5): mapping a
// (model, hour offset) pair to a local GRIB file path by scanning the
// set of run-inits that could plausibly have produced it.
package resolver

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"weathercore/domain"
)

// FileResolver locates on-disk GRIB files for a model registry rooted
// at Base. It never writes or deletes; files are produced by an
// external downloader and may be truncated or recreated concurrently
// (spec.md §6) — Resolve only checks for existence.
type FileResolver struct {
	Base     string
	Registry map[string]domain.ModelDescriptor
	Now      func() time.Time // overridable for tests
}

// New builds a FileResolver rooted at base.
func New(base string, registry map[string]domain.ModelDescriptor) *FileResolver {
	return &FileResolver{Base: base, Registry: registry, Now: time.Now}
}

// Resolve finds the path for model at hourOffset, per spec.md §4.5:
// candidate run-inits for [today-5, today+1] x {0,6,12,18}, newest
// first; for each, compute fhr = round((T-R)/1h), snap it, require
// fhr in [0,384]; return the first path that exists on disk.
func (r *FileResolver) Resolve(model string, hourOffset int) (string, bool) {
	desc, ok := r.Registry[model]
	if !ok {
		return "", false
	}

	now := r.Now().UTC()
	target := now.Add(time.Duration(hourOffset) * time.Hour)

	for _, run := range candidateRunInits(now) {
		runTime, err := time.Parse("20060102 15", fmt.Sprintf("%s %02d", run.Date, run.RunHour))
		if err != nil {
			continue
		}
		runTime = runTime.UTC()

		fhr := int(target.Sub(runTime).Round(time.Hour).Hours())
		fhr = domain.SnapOffset(fhr)
		if fhr < domain.MinOffset || fhr > domain.MaxOffset {
			continue
		}

		path := r.path(desc, run, fhr)
		if fileExists(path) {
			return path, true
		}
	}
	return "", false
}

// candidateRunInits enumerates every (date, runHour) in
// [today-5, today+1] newest-first, as spec.md §4.5 step 1 requires.
func candidateRunInits(now time.Time) []domain.RunInit {
	today := now.Truncate(24 * time.Hour)
	var runs []domain.RunInit
	for dayOffset := 1; dayOffset >= -5; dayOffset-- {
		day := today.Add(time.Duration(dayOffset) * 24 * time.Hour)
		for i := len(domain.RunHours) - 1; i >= 0; i-- {
			runs = append(runs, domain.RunInit{
				Date:    day.Format("20060102"),
				RunHour: domain.RunHours[i],
			})
		}
	}
	return runs
}

func (r *FileResolver) path(desc domain.ModelDescriptor, run domain.RunInit, fhr int) string {
	filename := fmt.Sprintf("%s.t%02dz.%s.%s.f%03d%s",
		desc.FilePrefix, run.RunHour, desc.Category, desc.Resolution, fhr, desc.Suffix)
	return filepath.Join(r.Base, run.Date, fmt.Sprintf("%02d", run.RunHour), filename)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
