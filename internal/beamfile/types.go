// Package beamfile holds Aurora's declarative project model: the Beamfile
// AST and semantic types, the lexer/parser that produces them from text,
// and the validator pass that checks cross-references.
package beamfile

// Beamfile is the parsed project model: the root of everything Aurora
// knows about a project. It is immutable after parsing and safe to share
// by reference across goroutines.
type Beamfile struct {
	// Source is the path the Beamfile was read from, used in error
	// messages and by relative-path resolution elsewhere.
	Source string

	Variables map[string]*Variable
	Beams     map[string]*Beam

	// Default is the beam name used when no target is given on the
	// command line. Empty if the Beamfile declares none.
	Default string
}

// Beam looks up a beam by name.
func (b *Beamfile) Beam(name string) (*Beam, bool) {
	beam, ok := b.Beams[name]
	return beam, ok
}

// Variable is a named value declared with a `variable` block.
type Variable struct {
	Name        string
	Default     *string
	Description string
}

// Beam is a single build target.
type Beam struct {
	Name        string
	Description string
	DependsOn   []string
	Condition   *Condition
	Env         map[string]string
	PreHooks    []*Hook
	Run         *RunBlock
	PostHooks   []*Hook
	Inputs      []string
	Outputs     []string
}

// RunBlock is the main command list of a beam.
type RunBlock struct {
	Commands   []Command
	Shell      string
	WorkingDir string
	FailFast   bool
}

// Command is a single shell command string plus an optional human label.
type Command struct {
	Run         string
	Description string
}

// Hook is a pre- or post-phase command list, a simpler shape than
// RunBlock: it has no per-command descriptions, only the command strings.
type Hook struct {
	Commands    []string
	Shell       string
	WorkingDir  string
	FailOnError bool
}

// ConditionKind discriminates the sum-typed Condition tree.
type ConditionKind int

const (
	CondFileExists ConditionKind = iota
	CondEnvSet
	CondEnvEquals
	CondCommand
	CondAnd
	CondOr
	CondNot
)

// Condition is a recursive boolean expression gating whether a beam runs.
// It is a tagged union: exactly the fields relevant to Kind are populated.
type Condition struct {
	Kind ConditionKind

	// CondFileExists
	Path string

	// CondEnvSet / CondEnvEquals
	EnvName  string
	EnvValue string

	// CondCommand
	Command       string
	ExpectSuccess bool

	// CondAnd / CondOr
	Children []*Condition

	// CondNot
	Child *Condition
}
