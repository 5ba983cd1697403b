package crew

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/hupe1980/agentcrew/logging"
)

// Result is the output one agent produced during a crew run.
type Result struct {
	Agent  string
	Output string
}

// Run schedules the crew and runs its agents one at a time in topological
// order. A cycle aborts before any agent runs. The first agent failure stops
// the run; the results produced before it are returned together with an error
// wrapping the agent's error.
//
// No timeout is applied; ctx is the only way to bound a run.
func (c *Crew) Run(ctx context.Context) ([]Result, error) {
	runID := uuid.NewString()
	log := logging.With(c.logger, "crew", c.name, "run_id", runID)

	order, err := c.TopologicalSort()
	if err != nil {
		log.Error("crew.run.schedule_error", "error", err)
		return nil, err
	}

	log.Info("crew.run.start", "agents", len(order))
	started := time.Now()

	results := make([]Result, 0, len(order))
	for i, a := range order {
		c.console.Banner(fmt.Sprintf("RUNNING AGENT: %s", a.name))
		log.Info("crew.agent.start", "agent", a.name, "position", i+1, "dependencies", len(a.dependencies))

		agentStart := time.Now()
		output, err := a.Run(ctx)
		if err != nil {
			log.Error("crew.agent.error", "agent", a.name, "error", err)
			return results, fmt.Errorf("crew execution failed at agent %s: %w", a.name, err)
		}

		c.console.Print(color.FgRed, "", output)
		log.Info("crew.agent.complete",
			"agent", a.name,
			"dependents", len(a.dependents),
			"duration", time.Since(agentStart),
		)

		results = append(results, Result{Agent: a.name, Output: output})
	}

	log.Info("crew.run.complete", "agents", len(results), "duration", time.Since(started))

	return results, nil
}
