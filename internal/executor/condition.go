package executor

import (
	"context"
	"os"

	"github.com/aurora-build/aurora/internal/beamfile"
	"github.com/aurora-build/aurora/internal/runner"
)

// evalCondition walks a Condition tree and reports whether beam should run.
// A nil Condition always evaluates true (an unconditional beam).
func evalCondition(ctx context.Context, c *beamfile.Condition, workingDir string, r *runner.Runner) (bool, error) {
	if c == nil {
		return true, nil
	}

	switch c.Kind {
	case beamfile.CondFileExists:
		_, err := os.Stat(resolveDir(workingDir, c.Path))
		return err == nil, nil

	case beamfile.CondEnvSet:
		_, ok := os.LookupEnv(c.EnvName)
		return ok, nil

	case beamfile.CondEnvEquals:
		v, ok := os.LookupEnv(c.EnvName)
		return ok && v == c.EnvValue, nil

	case beamfile.CondCommand:
		res := r.Run(ctx, "", c.Command, workingDir)
		succeeded := res.Err == nil
		if c.ExpectSuccess {
			return succeeded, nil
		}
		return !succeeded, nil

	case beamfile.CondAnd:
		for _, child := range c.Children {
			ok, err := evalCondition(ctx, child, workingDir, r)
			if err != nil {
				return false, err
			}
			if !ok {
				return false, nil
			}
		}
		return true, nil

	case beamfile.CondOr:
		for _, child := range c.Children {
			ok, err := evalCondition(ctx, child, workingDir, r)
			if err != nil {
				return false, err
			}
			if ok {
				return true, nil
			}
		}
		return false, nil

	case beamfile.CondNot:
		ok, err := evalCondition(ctx, c.Child, workingDir, r)
		if err != nil {
			return false, err
		}
		return !ok, nil

	default:
		return true, nil
	}
}
