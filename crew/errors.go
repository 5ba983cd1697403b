package crew

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidOperand is returned when a dependency or dependent target is
	// not a usable agent (nil, or an empty list).
	ErrInvalidOperand = errors.New("invalid operand")

	// ErrCyclicDependency indicates the dependency graph has no valid
	// execution order.
	ErrCyclicDependency = errors.New("circular dependencies detected among agents")
)

// CyclicDependencyError lists the agents that could not be scheduled, in
// crew insertion order. They sit on a cycle, downstream of one, or depend on
// an agent outside the crew.
type CyclicDependencyError struct {
	Agents []string
}

func (e *CyclicDependencyError) Error() string {
	return fmt.Sprintf("%s, preventing a valid topological sort: %s",
		ErrCyclicDependency, strings.Join(e.Agents, ", "))
}

// Is reports whether target is ErrCyclicDependency.
func (e *CyclicDependencyError) Is(target error) bool {
	return target == ErrCyclicDependency
}
