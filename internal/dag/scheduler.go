package dag

import "runtime"

// Level is a maximal set of beam names with no mutual dependency; order
// within a level carries no meaning (beams in it may run concurrently).
type Level struct {
	Beams []string
}

// ExecutionPlan is an ordered sequence of Levels for a target: every
// dependency of a beam at level k appears in some level < k.
type ExecutionPlan struct {
	Target string
	Levels []Level
}

// AllBeams returns every beam name across every level, in level order.
func (p *ExecutionPlan) AllBeams() []string {
	var all []string
	for _, lvl := range p.Levels {
		all = append(all, lvl.Beams...)
	}
	return all
}

// Scheduler wraps a Graph and produces ExecutionPlans for a target,
// honoring a configured max_parallelism (the Executor, not the Scheduler,
// is responsible for enforcing the bound — Scheduler does not subdivide
// large levels).
type Scheduler struct {
	graph          *Graph
	maxParallelism int
}

// NewScheduler wraps graph. maxParallelism is clamped to >= 1; a value <= 0
// selects the detected CPU count.
func NewScheduler(graph *Graph, maxParallelism int) *Scheduler {
	if maxParallelism <= 0 {
		maxParallelism = runtime.NumCPU()
	}
	if maxParallelism < 1 {
		maxParallelism = 1
	}
	return &Scheduler{graph: graph, maxParallelism: maxParallelism}
}

// MaxParallelism returns the configured concurrency bound.
func (s *Scheduler) MaxParallelism() int { return s.maxParallelism }

// Plan computes the ExecutionPlan for target.
func (s *Scheduler) Plan(target string) (*ExecutionPlan, error) {
	levels, err := s.graph.ParallelLevels(target)
	if err != nil {
		return nil, err
	}
	plan := &ExecutionPlan{Target: target}
	for _, beams := range levels {
		plan.Levels = append(plan.Levels, Level{Beams: beams})
	}
	return plan, nil
}
