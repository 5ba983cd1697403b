// Package crew orchestrates several agents as a dependency graph.
//
// Each Agent holds a task, a reasoning capability (by default an
// agent.ReactAgent) and two edge lists: the agents it waits for and the agents
// it feeds. Edges are always added in matched pairs by AddDependency,
// AddDependent, Then and After.
//
// A Crew collects agents, either explicitly (WithCrew, Add, Load) or through
// the active crew set by Enter or Within. Run orders the crew with Kahn's
// algorithm and executes one agent at a time; every output is appended to the
// context of the agent's dependents before they run.
//
//	c := crew.New()
//	_ = c.Within(func() error {
//		poet := crew.NewAgent("Poet", "You write poems.", "Write a poem about Go.", crew.WithModel(m))
//		translator := crew.NewAgent("Translator", "You translate.", "Translate the poem to Spanish.", crew.WithModel(m))
//		poet.Then(translator)
//		return nil
//	})
//	results, err := c.Run(ctx)
package crew
