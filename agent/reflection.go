package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/hupe1980/agentcrew/logging"
	"github.com/hupe1980/agentcrew/model"
)

// reflectionHistoryLen keeps the system prompt plus the latest exchange.
const reflectionHistoryLen = 3

// ReflectionAgentOptions configures a ReflectionAgent.
type ReflectionAgentOptions struct {
	// GenerationSystemPrompt and ReflectionSystemPrompt are prepended to the
	// built-in generation and critique instructions.
	GenerationSystemPrompt string
	ReflectionSystemPrompt string
	// Steps is the maximum number of generate/critique cycles. Defaults to 10.
	Steps   int
	Logger  logging.Logger
	Console *logging.Console
}

// ReflectionAgent implements the reflection pattern: one conversation drafts
// content, a second critiques it, and the critique is fed back until the
// critic answers <OK> or the steps run out.
type ReflectionAgent struct {
	model      model.Model
	genPrompt  string
	reflPrompt string
	steps      int
	logger     logging.Logger
	console    *logging.Console
}

// NewReflectionAgent creates a ReflectionAgent driving m.
func NewReflectionAgent(m model.Model, optFns ...func(o *ReflectionAgentOptions)) *ReflectionAgent {
	opts := ReflectionAgentOptions{
		Steps:  10,
		Logger: logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Steps <= 0 {
		opts.Steps = 10
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	return &ReflectionAgent{
		model:      m,
		genPrompt:  opts.GenerationSystemPrompt + baseGenerationSystemPrompt,
		reflPrompt: opts.ReflectionSystemPrompt + baseReflectionSystemPrompt,
		steps:      opts.Steps,
		logger:     opts.Logger,
		console:    opts.Console,
	}
}

// Run drafts an answer to userMsg and refines it. It returns the last draft.
func (a *ReflectionAgent) Run(ctx context.Context, userMsg string) (string, error) {
	generation := model.NewFixedFirstHistory(reflectionHistoryLen,
		model.SystemMessage(a.genPrompt),
		model.UserMessage(userMsg),
	)
	reflection := model.NewFixedFirstHistory(reflectionHistoryLen,
		model.SystemMessage(a.reflPrompt),
	)

	var draft string

	for step := 0; step < a.steps; step++ {
		a.console.Step(step, a.steps)

		var err error
		draft, err = model.Complete(ctx, a.model, generation.Messages())
		if err != nil {
			return "", fmt.Errorf("generation step %d: %w", step+1, err)
		}
		a.console.Print(color.FgBlue, "GENERATION", draft)

		generation.AddText(model.RoleAssistant, draft)
		reflection.AddText(model.RoleUser, draft)

		critique, err := model.Complete(ctx, a.model, reflection.Messages())
		if err != nil {
			return "", fmt.Errorf("reflection step %d: %w", step+1, err)
		}
		a.console.Print(color.FgGreen, "REFLECTION", critique)

		if strings.Contains(critique, stopSequence) {
			a.console.Print(color.FgRed, "", "Stop Sequence found. Stopping the reflection loop ...")
			a.logger.Debug("reflection.stop", "step", step+1)
			break
		}

		generation.AddText(model.RoleUser, critique)
		reflection.AddText(model.RoleAssistant, critique)
	}

	return draft, nil
}
