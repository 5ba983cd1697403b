package agent

import (
	"context"
	"fmt"

	"github.com/hupe1980/agentcrew/internal/util"
	"github.com/hupe1980/agentcrew/logging"
	"github.com/hupe1980/agentcrew/model"
	"github.com/hupe1980/agentcrew/tool"
)

// ToolAgentOptions configures a ToolAgent.
type ToolAgentOptions struct {
	Logger  logging.Logger
	Console *logging.Console
}

// ToolAgent implements the tool-use pattern: one completion decides which
// tools to call, the calls are executed, and a second completion answers the
// user with the observations in view.
type ToolAgent struct {
	model  model.Model
	tools  *toolbox
	logger logging.Logger
}

// NewToolAgent creates a ToolAgent over tools.
func NewToolAgent(m model.Model, tools []tool.Tool, optFns ...func(o *ToolAgentOptions)) *ToolAgent {
	opts := ToolAgentOptions{Logger: logging.NoOpLogger{}}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	return &ToolAgent{
		model:  m,
		tools:  newToolbox(tools, opts.Logger, opts.Console),
		logger: opts.Logger,
	}
}

// Run answers userMsg.
func (a *ToolAgent) Run(ctx context.Context, userMsg string) (string, error) {
	prompt, err := a.tools.systemPrompt(toolSystemPrompt)
	if err != nil {
		return "", err
	}

	user := model.UserMessage(userMsg)

	callResponse, err := model.Complete(ctx, a.model, []model.Message{model.SystemMessage(prompt), user})
	if err != nil {
		return "", fmt.Errorf("tool call completion: %w", err)
	}

	history := []model.Message{user}

	if calls := util.ExtractTagContent(callResponse, "tool_call"); calls.Found {
		a.logger.Debug("tool_agent.calls", "count", len(calls.Content))

		observations, err := a.tools.run(ctx, calls.Content)
		if err != nil {
			return "", err
		}

		history = append(history, model.UserMessage(fmt.Sprintf("Observation: %s", formatObservations(observations))))
	}

	return model.Complete(ctx, a.model, history)
}
