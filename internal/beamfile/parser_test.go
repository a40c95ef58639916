package beamfile

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParse_SeedScenario(t *testing.T) {
	src := `
beam "clean" {}
beam "lint" {}
beam "build" {
  depends_on = ["clean", "lint"]
  run {
    commands = ["go build ./..."]
  }
}
beam "test" {
  depends_on = ["build"]
}
default = "test"
`
	bf, err := Parse("Beamfile", src)
	require.NoError(t, err)
	require.Len(t, bf.Beams, 4)
	require.Equal(t, "test", bf.Default)

	build, ok := bf.Beam("build")
	require.True(t, ok)
	require.Equal(t, []string{"clean", "lint"}, build.DependsOn)
	require.NotNil(t, build.Run)
	require.Equal(t, []Command{{Run: "go build ./..."}}, build.Run.Commands)
	require.True(t, build.Run.FailFast)
}

func TestParse_StringEscapes(t *testing.T) {
	tests := []struct {
		src  string // raw Beamfile source for the quoted literal
		want string
	}{
		{src: `"hello"`, want: "hello"},
		{src: `"a\nb"`, want: "a\nb"},
		{src: `"tab\there"`, want: "tab\there"},
		{src: `"quote\"here\""`, want: `quote"here"`},
		{src: `"back\\slash"`, want: `back\slash`},
	}
	for _, tt := range tests {
		src := `beam "x" { description = ` + tt.src + ` }`
		bf, err := Parse("Beamfile", src)
		require.NoError(t, err, tt.src)
		b, _ := bf.Beam("x")
		require.Equal(t, tt.want, b.Description, tt.src)
	}
}

func TestParse_UnknownKeysInHookBodyAreIgnored(t *testing.T) {
	withBogus := `beam "x" { run { commands = ["echo hi"] bogus = 42 } }`
	without := `beam "x" { run { commands = ["echo hi"] } }`

	a, err := Parse("Beamfile", withBogus)
	require.NoError(t, err)
	b, err := Parse("Beamfile", without)
	require.NoError(t, err)

	ba, _ := a.Beam("x")
	bb, _ := b.Beam("x")
	require.Equal(t, bb.Run, ba.Run)
}

func TestParse_TrailingCommaInArray(t *testing.T) {
	src := `beam "x" { depends_on = ["a", "b",] }
beam "a" {}
beam "b" {}`
	bf, err := Parse("Beamfile", src)
	require.NoError(t, err)
	x, _ := bf.Beam("x")
	require.Equal(t, []string{"a", "b"}, x.DependsOn)
}

func TestParse_EmptyStringsInCommandsPreserved(t *testing.T) {
	src := `beam "x" { run { commands = ["", "echo hi"] } }`
	bf, err := Parse("Beamfile", src)
	require.NoError(t, err)
	x, _ := bf.Beam("x")
	require.Equal(t, []Command{{Run: ""}, {Run: "echo hi"}}, x.Run.Commands)
}

func TestParse_ConditionVariants(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want ConditionKind
	}{
		{"file_exists", `beam "x" { condition { file_exists = "GO" } }`, CondFileExists},
		{"env_set", `beam "x" { condition { env_set = "CI" } }`, CondEnvSet},
		{"env_equals", `beam "x" { condition { env_equals { name = "CI" value = "true" } } }`, CondEnvEquals},
		{"command", `beam "x" { condition { command = "true" } }`, CondCommand},
		{"not", `beam "x" { condition { not { file_exists = "GO" } } }`, CondNot},
		{"and", `beam "x" { condition { and = [{file_exists = "GO"}, {env_set = "CI"}] } }`, CondAnd},
		{"or", `beam "x" { condition { or = [{file_exists = "GO"}, {env_set = "CI"}] } }`, CondOr},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bf, err := Parse("Beamfile", tt.src)
			require.NoError(t, err)
			x, _ := bf.Beam("x")
			require.NotNil(t, x.Condition)
			require.Equal(t, tt.want, x.Condition.Kind)
		})
	}
}

func TestParse_CommandConditionDefaultsExpectSuccessTrue(t *testing.T) {
	bf, err := Parse("Beamfile", `beam "x" { condition { command = "true" } }`)
	require.NoError(t, err)
	x, _ := bf.Beam("x")
	require.True(t, x.Condition.ExpectSuccess)
}

func TestParse_UnexpectedEOF(t *testing.T) {
	_, err := Parse("Beamfile", `beam "x" { description = "unterminated`)
	require.Error(t, err)
	var eof *ErrUnexpectedEof
	require.ErrorAs(t, err, &eof)
}

func TestParse_InvalidCharacterIsError(t *testing.T) {
	_, err := Parse("Beamfile", `beam "x" {} @ bogus`)
	require.Error(t, err)
}

func TestParse_EmptyBeamNameRejected(t *testing.T) {
	_, err := Parse("Beamfile", `beam "" {}`)
	require.Error(t, err)
}

func TestParse_VariableBlock(t *testing.T) {
	bf, err := Parse("Beamfile", `variable "region" { default = "us-east-1" description = "AWS region" }`)
	require.NoError(t, err)
	v, ok := bf.Variables["region"]
	require.True(t, ok)
	require.NotNil(t, v.Default)
	require.Equal(t, "us-east-1", *v.Default)
	require.Equal(t, "AWS region", v.Description)
}
