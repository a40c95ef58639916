// Package cache implements Aurora's content-addressed build cache: BLAKE3
// fingerprinting of commands and input/output files, a staleness
// predicate, and a JSON-backed store persisted under .aurora/cache.
package cache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/aurora-build/aurora/internal/logger"
)

// Entry is a single beam's recorded cache state.
type Entry struct {
	BeamName     string            `json:"beam_name"`
	InputHashes  map[string]string `json:"input_hashes"`
	OutputHashes map[string]string `json:"output_hashes"`
	CommandHash  string            `json:"command_hash"`
	Timestamp    int64             `json:"timestamp"`
}

// Beam is the minimal view of a beam the Cache needs: it deliberately does
// not import package beamfile so that package has no reverse dependency on
// cache, keeping the dependency graph of the module itself acyclic and
// shallow.
type Beam struct {
	Name     string
	Commands []string // RunBlock command strings, in order
	Inputs   []string // declared input patterns
	Outputs  []string // declared output patterns
}

// Cache is a JSON-file-backed store of Entry values, one per beam name. It
// is safe for concurrent use: a single mutex guards every read and write,
// consistent with spec.md's "short critical section" design — no long-lived
// read borrow is held across file I/O for a single beam.
type Cache struct {
	mu      sync.Mutex
	path    string
	entries map[string]Entry
	log     logger.Logger
}

// Load reads the cache file at dir/cache.json. A missing or corrupt file
// degrades silently to an empty cache rather than an error, per spec.
func Load(dir string, log logger.Logger) (*Cache, error) {
	if log == nil {
		log = logger.Default
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	path := filepath.Join(dir, "cache.json")
	c := &Cache{path: path, entries: map[string]Entry{}, log: log}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return c, nil
		}
		log.Warnf("cache: failed to read %s, starting cold: %v", path, err)
		return c, nil
	}

	var entries map[string]Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		log.Warnf("cache: corrupt cache file %s, starting cold: %v", path, err)
		return c, nil
	}
	c.entries = entries
	return c, nil
}

func (c *Cache) save() error {
	data, err := json.MarshalIndent(c.entries, "", "  ")
	if err != nil {
		return err
	}
	tmp := c.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, c.path)
}

// Fingerprint computes the command fingerprint for beam without touching
// the entry store or running a staleness check.
func Fingerprint(beam Beam) string {
	return commandFingerprint(beam.Commands)
}

// IsUpToDate reports whether beam's recorded entry still matches its
// current command fingerprint, inputs and outputs. Any I/O failure while
// hashing a declared path is treated as "not up to date", not an error.
func (c *Cache) IsUpToDate(beam Beam, workingDir string) bool {
	c.mu.Lock()
	entry, ok := c.entries[beam.Name]
	c.mu.Unlock()
	if !ok {
		return false
	}

	if entry.CommandHash != commandFingerprint(beam.Commands) {
		return false
	}

	if !c.hashesMatch(entry.InputHashes, beam.Inputs, workingDir) {
		return false
	}
	if !c.hashesMatch(entry.OutputHashes, beam.Outputs, workingDir) {
		return false
	}
	return true
}

func (c *Cache) hashesMatch(recorded map[string]string, patterns []string, workingDir string) bool {
	paths, err := expandPatterns(workingDir, patterns)
	if err != nil {
		c.log.Debugf("cache: glob expansion failed for %v: %v", patterns, err)
		return false
	}
	if len(paths) != len(recorded) {
		return false
	}
	for _, rel := range paths {
		want, ok := recorded[rel]
		if !ok {
			return false
		}
		full := rel
		if !filepath.IsAbs(rel) {
			full = filepath.Join(workingDir, rel)
		}
		got, err := hashFile(full)
		if err != nil {
			return false
		}
		if got != want {
			return false
		}
	}
	return true
}

// Record hashes beam's currently-existing inputs and outputs (silently
// skipping missing files) and persists a fresh entry with the current
// timestamp.
func (c *Cache) Record(beam Beam, workingDir string) error {
	inputHashes, err := c.hashExisting(beam.Inputs, workingDir)
	if err != nil {
		return err
	}
	outputHashes, err := c.hashExisting(beam.Outputs, workingDir)
	if err != nil {
		return err
	}

	entry := Entry{
		BeamName:     beam.Name,
		InputHashes:  inputHashes,
		OutputHashes: outputHashes,
		CommandHash:  commandFingerprint(beam.Commands),
		Timestamp:    nowUnix(),
	}

	c.mu.Lock()
	c.entries[beam.Name] = entry
	err = c.save()
	c.mu.Unlock()
	return err
}

func (c *Cache) hashExisting(patterns []string, workingDir string) (map[string]string, error) {
	paths, err := expandPatterns(workingDir, patterns)
	if err != nil {
		return nil, err
	}
	hashes := map[string]string{}
	for _, rel := range paths {
		full := rel
		if !filepath.IsAbs(rel) {
			full = filepath.Join(workingDir, rel)
		}
		h, err := hashFile(full)
		if err != nil {
			continue // missing file: silently skipped, per spec
		}
		hashes[rel] = h
	}
	return hashes, nil
}

// Clear empties the cache store and persists the (empty) result.
func (c *Cache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = map[string]Entry{}
	return c.save()
}

// Invalidate removes a single beam's entry and persists the result. It is
// not an error to invalidate a beam with no recorded entry.
func (c *Cache) Invalidate(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, name)
	return c.save()
}

// Entry returns a copy of the recorded entry for name, if any.
func (c *Cache) Entry(name string) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[name]
	return e, ok
}

// Entries returns a copy of every recorded entry, keyed by beam name, used
// by the `cache status` surface.
func (c *Cache) Entries() map[string]Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]Entry, len(c.entries))
	for k, v := range c.entries {
		out[k] = v
	}
	return out
}

// nowUnix is a seam so tests can stub the recorded timestamp if needed; it
// defaults to the real wall clock.
var nowUnix = func() int64 { return time.Now().Unix() }
