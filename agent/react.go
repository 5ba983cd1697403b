package agent

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/hupe1980/agentcrew/internal/util"
	"github.com/hupe1980/agentcrew/logging"
	"github.com/hupe1980/agentcrew/model"
	"github.com/hupe1980/agentcrew/tool"
)

// ReactAgentOptions configures a ReactAgent.
type ReactAgentOptions struct {
	// SystemPrompt is prepended to the ReAct instructions (e.g. a backstory).
	SystemPrompt string
	Tools        []tool.Tool
	// MaxRounds bounds the thought/action/observation loop. Defaults to 10.
	MaxRounds int
	Logger    logging.Logger
	Console   *logging.Console
}

// ReactAgent implements the planning pattern: the model alternates between
// thoughts and tool calls, sees each observation, and finishes with a
// <response> block.
type ReactAgent struct {
	model     model.Model
	system    string
	maxRounds int
	tools     *toolbox
	logger    logging.Logger
	console   *logging.Console
}

// NewReactAgent creates a ReactAgent driving m.
func NewReactAgent(m model.Model, optFns ...func(o *ReactAgentOptions)) *ReactAgent {
	opts := ReactAgentOptions{
		MaxRounds: 10,
		Logger:    logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.MaxRounds <= 0 {
		opts.MaxRounds = 10
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	return &ReactAgent{
		model:     m,
		system:    opts.SystemPrompt,
		maxRounds: opts.MaxRounds,
		tools:     newToolbox(opts.Tools, opts.Logger, opts.Console),
		logger:    opts.Logger,
		console:   opts.Console,
	}
}

// MaxRounds returns the configured round limit.
func (a *ReactAgent) MaxRounds() int { return a.maxRounds }

// Run answers userMsg. A reply carrying <response> ends the loop; a reply with
// neither a response nor tool calls is returned as-is. When the rounds run out
// one last completion over the accumulated history is returned.
func (a *ReactAgent) Run(ctx context.Context, userMsg string) (string, error) {
	prompt, err := a.tools.systemPrompt(reactSystemPrompt)
	if err != nil {
		return "", err
	}
	if a.system != "" {
		prompt = a.system + "\n" + prompt
	}

	history := []model.Message{
		model.SystemMessage(prompt),
		model.UserMessage(fmt.Sprintf("<question>%s</question>", userMsg)),
	}

	// one extra call for the closing completion
	limiter := model.NewCallLimiter(a.maxRounds + 1)

	for round := 1; round <= a.maxRounds; round++ {
		if err := limiter.Increment(); err != nil {
			return "", err
		}

		a.logger.Debug("react.round.start", "round", round, "max_rounds", a.maxRounds)

		completion, err := model.Complete(ctx, a.model, history)
		if err != nil {
			a.logger.Error("react.round.error", "round", round, "error", err)
			return "", fmt.Errorf("react round %d: %w", round, err)
		}

		if resp := util.ExtractTagContent(completion, "response"); resp.Found {
			a.logger.Debug("react.response", "round", round)
			return resp.Content[0], nil
		}

		if thought := util.ExtractTagContent(completion, "thought"); thought.Found {
			a.console.Print(color.FgMagenta, "", fmt.Sprintf("Thought: %s", thought.Content[0]))
		}

		history = append(history, model.AssistantMessage(completion))

		calls := util.ExtractTagContent(completion, "tool_call")
		if !calls.Found {
			a.logger.Debug("react.untagged_reply", "round", round)
			return completion, nil
		}

		observations, err := a.tools.run(ctx, calls.Content)
		if err != nil {
			return "", err
		}

		observation := formatObservations(observations)
		a.console.Print(color.FgBlue, "", fmt.Sprintf("Observations: %s", observation))
		a.logger.Debug("react.observation", "round", round, "calls", len(calls.Content))

		history = append(history, model.UserMessage(fmt.Sprintf("<observation>%s</observation>", observation)))
	}

	if err := limiter.Increment(); err != nil {
		return "", err
	}

	a.logger.Warn("react.rounds_exhausted", "max_rounds", a.maxRounds)

	completion, err := model.Complete(ctx, a.model, history)
	if err != nil {
		return "", fmt.Errorf("react final completion: %w", err)
	}

	if resp := util.ExtractTagContent(completion, "response"); resp.Found {
		return resp.Content[0], nil
	}

	return completion, nil
}
