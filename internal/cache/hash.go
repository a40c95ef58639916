package cache

import (
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/samber/lo"
	"lukechampine.com/blake3"
)

// hashBytes returns the hex-encoded BLAKE3 digest of data.
func hashBytes(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// hashFile returns the hex-encoded BLAKE3 digest of the file at path's
// content. Any I/O failure (missing file, permission error, directory) is
// surfaced to the caller; callers in this package treat it as "not
// up-to-date" rather than propagating it, per spec.
func hashFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return hashBytes(data), nil
}

// commandFingerprint hashes the concatenation of each command string
// joined by "\n"; an empty RunBlock hashes the empty string.
func commandFingerprint(commands []string) string {
	return hashBytes([]byte(strings.Join(commands, "\n")))
}

// expandPatterns resolves Aurora's glob-capable input/output patterns
// against workingDir using doublestar, matching the syntax dagu's watch
// collaborator already expects (spec.md §9 open question, resolved in
// SPEC_FULL.md: patterns are glob-expanded). A pattern with no glob
// metacharacters, and a glob that matches nothing, is returned verbatim.
// Record skips such a path when the file is missing, while IsUpToDate
// still counts it, so a missing declared file makes the beam stale.
func expandPatterns(workingDir string, patterns []string) ([]string, error) {
	var out []string
	for _, pattern := range patterns {
		full := pattern
		if !filepath.IsAbs(pattern) {
			full = filepath.Join(workingDir, pattern)
		}
		if !doublestar.ValidatePattern(filepath.ToSlash(pattern)) || !containsGlobMeta(pattern) {
			out = append(out, pattern)
			continue
		}
		matches, err := doublestar.FilepathGlob(filepath.ToSlash(full))
		if err != nil {
			return nil, err
		}
		if len(matches) == 0 {
			out = append(out, pattern)
			continue
		}
		for _, m := range matches {
			rel, err := filepath.Rel(workingDir, m)
			if err != nil {
				rel = m
			}
			out = append(out, rel)
		}
	}
	return lo.Uniq(out), nil
}

func containsGlobMeta(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{")
}
