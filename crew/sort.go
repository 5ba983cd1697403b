package crew

// TopologicalSort orders the crew with Kahn's algorithm. An agent's in-degree
// is the length of its dependency list, so parallel edges are counted and
// released once per occurrence. Ties resolve FIFO: roots in insertion order,
// then dependents in the order they become ready.
//
// If some agents can never become ready a *CyclicDependencyError naming them
// is returned.
func (c *Crew) TopologicalSort() ([]*Agent, error) {
	inDegree := make(map[*Agent]int, len(c.agents))
	for _, a := range c.agents {
		inDegree[a] = len(a.dependencies)
	}

	queue := make([]*Agent, 0, len(c.agents))
	for _, a := range c.agents {
		if inDegree[a] == 0 {
			queue = append(queue, a)
		}
	}

	sorted := make([]*Agent, 0, len(c.agents))
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		sorted = append(sorted, current)

		for _, d := range current.dependents {
			if _, ok := inDegree[d]; !ok {
				continue // not a member of this crew
			}
			inDegree[d]--
			if inDegree[d] == 0 {
				queue = append(queue, d)
			}
		}
	}

	if len(sorted) != len(c.agents) {
		var blocked []string
		for _, a := range c.agents {
			if inDegree[a] > 0 {
				blocked = append(blocked, a.name)
			}
		}
		return nil, &CyclicDependencyError{Agents: blocked}
	}

	return sorted, nil
}
