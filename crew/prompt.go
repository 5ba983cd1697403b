package crew

import (
	"strings"

	"github.com/hupe1980/agentcrew/internal/util"
)

const taskPromptTemplate = `You are an AI agent. You are part of a team of agents working together to complete a task.
I'm going to give you the task description enclosed in <task_description></task_description> tags. I'll also give
you the available context from the other agents in <context></context> tags. If the context
is not available, the <context></context> tags will be empty. You'll also receive the task
expected output enclosed in <task_expected_output></task_expected_output> tags. With all this information
you need to create the best possible response, always respecting the format as describe in
<task_expected_output></task_expected_output> tags. If expected output is not available, just create
a meaningful response to complete the task, inferring a sensible output format.

<task_description>
{{.TaskDescription}}
</task_description>

<task_expected_output>
{{.TaskExpectedOutput}}
</task_expected_output>

<context>
{{.Context}}
</context>

Your response:`

// Prompt renders the task prompt from the task description, the expected
// output and the context received so far.
func (a *Agent) Prompt() (string, error) {
	out, err := util.RenderTemplate(taskPromptTemplate, struct {
		TaskDescription    string
		TaskExpectedOutput string
		Context            string
	}{
		TaskDescription:    a.taskDescription,
		TaskExpectedOutput: a.taskExpectedOutput,
		Context:            a.Context(),
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}
