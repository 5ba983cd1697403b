// Command agentcrew runs the agentic patterns from the command line: a crew
// defined in YAML, or a single reflection, ReAct or tool-use agent.
package main

func main() {
	Execute()
}
