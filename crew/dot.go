package crew

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
)

// WriteDOT writes the dependency graph in Graphviz DOT format: one node per
// agent in insertion order and one edge dependency -> dependent for every
// entry of each agent's dependency list.
func (c *Crew) WriteDOT(w io.Writer) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "digraph %s {\n", strconv.Quote(c.name))
	for _, a := range c.agents {
		fmt.Fprintf(bw, "  %s;\n", strconv.Quote(a.name))
	}
	for _, a := range c.agents {
		for _, dep := range a.dependencies {
			fmt.Fprintf(bw, "  %s -> %s;\n", strconv.Quote(dep.name), strconv.Quote(a.name))
		}
	}
	fmt.Fprintln(bw, "}")

	return bw.Flush()
}
