package main

import "path/filepath"

// cacheDirForSource returns the .aurora/cache directory sitting next to a
// Beamfile at beamfileSource.
func cacheDirForSource(beamfileSource string) string {
	return filepath.Join(filepath.Dir(beamfileSource), ".aurora", "cache")
}
