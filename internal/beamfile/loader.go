package beamfile

import (
	"fmt"
	"os"
)

// ErrBeamfileNotFound is returned by Load when path does not exist.
type ErrBeamfileNotFound struct{ Path string }

func (e *ErrBeamfileNotFound) Error() string { return fmt.Sprintf("beamfile not found: %s", e.Path) }

// Load reads and parses the Beamfile at path.
func Load(path string) (*Beamfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &ErrBeamfileNotFound{Path: path}
		}
		return nil, fmt.Errorf("reading beamfile %s: %w", path, err)
	}
	bf, err := Parse(path, string(data))
	if err != nil {
		return nil, err
	}
	return bf, nil
}

// Discover walks upward from dir (or the current directory if dir is
// empty) looking for a file named "Beamfile", the way the teacher's DAG
// loader walks for its default config file.
func Discover(dir string) (string, error) {
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", err
		}
		dir = wd
	}
	for {
		candidate := dir + string(os.PathSeparator) + "Beamfile"
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
		parent := parentDir(dir)
		if parent == dir {
			return "", &ErrBeamfileNotFound{Path: "Beamfile"}
		}
		dir = parent
	}
}

func parentDir(dir string) string {
	for i := len(dir) - 1; i >= 0; i-- {
		if dir[i] == os.PathSeparator {
			if i == 0 {
				return string(os.PathSeparator)
			}
			return dir[:i]
		}
	}
	return dir
}
