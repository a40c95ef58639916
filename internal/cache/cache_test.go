package cache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*Cache, string) {
	t.Helper()
	dir := t.TempDir()
	c, err := Load(filepath.Join(dir, ".aurora", "cache"), nil)
	require.NoError(t, err)
	return c, dir
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestCache_RecordThenUpToDate(t *testing.T) {
	c, dir := newTestCache(t)
	writeFile(t, dir, "in.txt", "hello")

	beam := Beam{Name: "build", Commands: []string{"go build"}, Inputs: []string{"in.txt"}}
	require.False(t, c.IsUpToDate(beam, dir))

	require.NoError(t, c.Record(beam, dir))
	require.True(t, c.IsUpToDate(beam, dir))
}

func TestCache_MutatedInputIsStale(t *testing.T) {
	c, dir := newTestCache(t)
	writeFile(t, dir, "in.txt", "hello")
	beam := Beam{Name: "build", Commands: []string{"go build"}, Inputs: []string{"in.txt"}}
	require.NoError(t, c.Record(beam, dir))
	require.True(t, c.IsUpToDate(beam, dir))

	writeFile(t, dir, "in.txt", "changed")
	require.False(t, c.IsUpToDate(beam, dir))
}

func TestCache_DeletedOutputIsStale(t *testing.T) {
	c, dir := newTestCache(t)
	writeFile(t, dir, "out.bin", "artifact")
	beam := Beam{Name: "build", Commands: []string{"go build"}, Outputs: []string{"out.bin"}}
	require.NoError(t, c.Record(beam, dir))
	require.True(t, c.IsUpToDate(beam, dir))

	require.NoError(t, os.Remove(filepath.Join(dir, "out.bin")))
	require.False(t, c.IsUpToDate(beam, dir))
}

func TestCache_ChangedCommandIsStale(t *testing.T) {
	c, dir := newTestCache(t)
	beam := Beam{Name: "build", Commands: []string{"go build ./..."}}
	require.NoError(t, c.Record(beam, dir))
	require.True(t, c.IsUpToDate(beam, dir))

	beam.Commands = []string{"go build ./cmd/..."}
	require.False(t, c.IsUpToDate(beam, dir))
}

func TestCache_ClearInvalidatesEverything(t *testing.T) {
	c, dir := newTestCache(t)
	beamA := Beam{Name: "a", Commands: []string{"echo a"}}
	beamB := Beam{Name: "b", Commands: []string{"echo b"}}
	require.NoError(t, c.Record(beamA, dir))
	require.NoError(t, c.Record(beamB, dir))

	require.NoError(t, c.Clear())
	require.False(t, c.IsUpToDate(beamA, dir))
	require.False(t, c.IsUpToDate(beamB, dir))
}

func TestCache_InvalidateSingleBeam(t *testing.T) {
	c, dir := newTestCache(t)
	beamA := Beam{Name: "a", Commands: []string{"echo a"}}
	beamB := Beam{Name: "b", Commands: []string{"echo b"}}
	require.NoError(t, c.Record(beamA, dir))
	require.NoError(t, c.Record(beamB, dir))

	require.NoError(t, c.Invalidate("a"))
	require.False(t, c.IsUpToDate(beamA, dir))
	require.True(t, c.IsUpToDate(beamB, dir))
}

func TestCache_MissingEntryIsNotUpToDate(t *testing.T) {
	c, dir := newTestCache(t)
	require.False(t, c.IsUpToDate(Beam{Name: "never-recorded"}, dir))
}

func TestCache_PersistsAcrossLoad(t *testing.T) {
	dir := t.TempDir()
	cacheDir := filepath.Join(dir, ".aurora", "cache")
	c1, err := Load(cacheDir, nil)
	require.NoError(t, err)

	beam := Beam{Name: "build", Commands: []string{"echo hi"}}
	require.NoError(t, c1.Record(beam, dir))

	c2, err := Load(cacheDir, nil)
	require.NoError(t, err)
	require.True(t, c2.IsUpToDate(beam, dir))
}

func TestCache_CorruptFileDegradesToEmpty(t *testing.T) {
	dir := t.TempDir()
	cacheDir := filepath.Join(dir, ".aurora", "cache")
	require.NoError(t, os.MkdirAll(cacheDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(cacheDir, "cache.json"), []byte("not json"), 0o644))

	c, err := Load(cacheDir, nil)
	require.NoError(t, err)
	require.Empty(t, c.Entries())
}

func TestFingerprint_StableForSameCommands(t *testing.T) {
	a := Fingerprint(Beam{Commands: []string{"go build", "go test"}})
	b := Fingerprint(Beam{Commands: []string{"go build", "go test"}})
	require.Equal(t, a, b)

	c := Fingerprint(Beam{Commands: []string{"go build"}})
	require.NotEqual(t, a, c)
}
