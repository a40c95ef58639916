package beamfile

import (
	"fmt"

	"github.com/aurora-build/aurora/internal/dag"
)

// ErrDefaultBeamNotFound is returned when Beamfile.Default names a beam
// that does not exist.
type ErrDefaultBeamNotFound struct{ Name string }

func (e *ErrDefaultBeamNotFound) Error() string {
	return fmt.Sprintf("default beam %q is not defined", e.Name)
}

// Validate checks a Beamfile's cross-references: every depends_on name
// resolves to a real beam, the default beam (if set) exists, and the
// dependency relation is acyclic. It returns every problem found rather
// than stopping at the first.
func Validate(bf *Beamfile) []error {
	var problems []error

	if bf.Default != "" {
		if _, ok := bf.Beams[bf.Default]; !ok {
			problems = append(problems, &ErrDefaultBeamNotFound{Name: bf.Default})
		}
	}

	missingDep := false
	for _, beam := range bf.Beams {
		for _, dep := range beam.DependsOn {
			if _, ok := bf.Beams[dep]; !ok {
				problems = append(problems, &dag.ErrBeamNotFound{Name: dep})
				missingDep = true
			}
		}
	}
	if !missingDep {
		if _, err := Graph(bf); err != nil {
			problems = append(problems, err)
		}
	}

	for name, beam := range bf.Beams {
		if beam.Name == "" {
			problems = append(problems, fmt.Errorf("beam %q has an empty name", name))
		}
	}

	return problems
}

// Graph builds the dag.Graph for bf. Callers that already ran Validate and
// know the Beamfile is acyclic can use this directly; it is also how the
// Scheduler obtains a graph to plan against.
func Graph(bf *Beamfile) (*dag.Graph, error) {
	deps := make(map[string][]string, len(bf.Beams))
	for name, beam := range bf.Beams {
		deps[name] = beam.DependsOn
	}
	return dag.NewGraph(deps)
}
