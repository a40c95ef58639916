package beamfile

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidate_UndefinedDefaultBeam(t *testing.T) {
	bf, err := Parse("Beamfile", `beam "clean" {}
default = "build"`)
	require.NoError(t, err)

	problems := Validate(bf)
	require.Len(t, problems, 1)
	var notFound *ErrDefaultBeamNotFound
	require.ErrorAs(t, problems[0], &notFound)
}

func TestValidate_Cycle(t *testing.T) {
	bf, err := Parse("Beamfile", `
beam "a" { depends_on = ["b"] }
beam "b" { depends_on = ["c"] }
beam "c" { depends_on = ["a"] }
`)
	require.NoError(t, err)

	problems := Validate(bf)
	require.NotEmpty(t, problems)
}

func TestValidate_UndefinedDependency(t *testing.T) {
	bf, err := Parse("Beamfile", `beam "build" { depends_on = ["missing"] }`)
	require.NoError(t, err)

	problems := Validate(bf)
	require.NotEmpty(t, problems)
}

func TestValidate_CleanBeamfileHasNoProblems(t *testing.T) {
	bf, err := Parse("Beamfile", `
beam "clean" {}
beam "build" { depends_on = ["clean"] }
default = "build"
`)
	require.NoError(t, err)
	require.Empty(t, Validate(bf))
}
