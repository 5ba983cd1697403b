package crew

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hupe1980/agentcrew/agent"
	"github.com/hupe1980/agentcrew/model"
	"github.com/hupe1980/agentcrew/tool"
)

// ErrNoReasoner is returned by Run when an agent was built without a model
// or reasoner factory.
var ErrNoReasoner = errors.New("no reasoning capability configured")

// Reasoner is the reasoning capability an agent delegates its task to.
type Reasoner interface {
	Run(ctx context.Context, userMsg string) (string, error)
}

// ReasonerFunc adapts a function to Reasoner.
type ReasonerFunc func(ctx context.Context, userMsg string) (string, error)

// Run implements Reasoner.
func (f ReasonerFunc) Run(ctx context.Context, userMsg string) (string, error) { return f(ctx, userMsg) }

// ReasonerFactory configures a Reasoner with a system prompt and tool set.
type ReasonerFactory func(systemPrompt string, tools []tool.Tool) Reasoner

// NewReactReasoner returns a factory that builds an agent.ReactAgent over m.
func NewReactReasoner(m model.Model, optFns ...func(o *agent.ReactAgentOptions)) ReasonerFactory {
	return func(systemPrompt string, tools []tool.Tool) Reasoner {
		return agent.NewReactAgent(m, append([]func(o *agent.ReactAgentOptions){
			func(o *agent.ReactAgentOptions) {
				o.SystemPrompt = systemPrompt
				o.Tools = tools
			},
		}, optFns...)...)
	}
}

// AgentOptions configures an Agent.
type AgentOptions struct {
	TaskExpectedOutput string
	Tools              []tool.Tool
	// Model drives the default ReAct reasoner when ReasonerFactory is nil.
	Model           model.Model
	ReasonerFactory ReasonerFactory
	// Crew registers the agent explicitly instead of into the active crew.
	Crew *Crew
}

// AgentOption mutates AgentOptions.
type AgentOption func(o *AgentOptions)

// WithExpectedOutput sets the expected output format of the task.
func WithExpectedOutput(s string) AgentOption {
	return func(o *AgentOptions) { o.TaskExpectedOutput = s }
}

// WithTools appends tools the reasoner may call.
func WithTools(tools ...tool.Tool) AgentOption {
	return func(o *AgentOptions) { o.Tools = append(o.Tools, tools...) }
}

// WithModel sets the model used by the default ReAct reasoner.
func WithModel(m model.Model) AgentOption {
	return func(o *AgentOptions) { o.Model = m }
}

// WithReasonerFactory replaces the default ReAct reasoner.
func WithReasonerFactory(f ReasonerFactory) AgentOption {
	return func(o *AgentOptions) { o.ReasonerFactory = f }
}

// WithCrew registers the agent into c, ignoring any active crew.
func WithCrew(c *Crew) AgentOption {
	return func(o *AgentOptions) { o.Crew = c }
}

// ContextBlock is the output of one upstream agent as received by a dependent.
type ContextBlock struct {
	From string
	Text string
}

// Agent is a node of the crew dependency graph: a task, a reasoning
// capability and the edges to the agents it waits for and feeds.
//
// Graph construction and runs are not synchronized; build the graph before
// running it and run one crew at a time.
type Agent struct {
	name               string
	backstory          string
	taskDescription    string
	taskExpectedOutput string
	reasoner           Reasoner

	dependencies []*Agent
	dependents   []*Agent
	context      []ContextBlock
}

// NewAgent creates an agent and registers it into the crew given by WithCrew
// or, failing that, the active crew.
func NewAgent(name, backstory, taskDescription string, optFns ...AgentOption) *Agent {
	var opts AgentOptions
	for _, fn := range optFns {
		fn(&opts)
	}

	target := opts.Crew
	if target == nil {
		target = Active()
	}

	factory := opts.ReasonerFactory
	if factory == nil && opts.Model != nil {
		factory = defaultReasoner(opts.Model, target)
	}

	a := &Agent{
		name:               name,
		backstory:          backstory,
		taskDescription:    taskDescription,
		taskExpectedOutput: opts.TaskExpectedOutput,
	}
	if factory != nil {
		a.reasoner = factory(backstory, opts.Tools)
	}

	if target != nil {
		target.Add(a)
	}

	return a
}

func defaultReasoner(m model.Model, c *Crew) ReasonerFactory {
	if c == nil {
		return NewReactReasoner(m)
	}
	return NewReactReasoner(m, func(o *agent.ReactAgentOptions) {
		o.Logger = c.logger
		o.Console = c.console
		if c.maxRounds > 0 {
			o.MaxRounds = c.maxRounds
		}
	})
}

// Name returns the display name.
func (a *Agent) Name() string { return a.name }

// Backstory returns the system instruction given to the reasoner.
func (a *Agent) Backstory() string { return a.backstory }

// TaskDescription returns the task text.
func (a *Agent) TaskDescription() string { return a.taskDescription }

// TaskExpectedOutput returns the expected output format, possibly empty.
func (a *Agent) TaskExpectedOutput() string { return a.taskExpectedOutput }

// Dependencies returns a copy of the agents this agent waits for.
func (a *Agent) Dependencies() []*Agent { return append([]*Agent(nil), a.dependencies...) }

// Dependents returns a copy of the agents waiting on this agent.
func (a *Agent) Dependents() []*Agent { return append([]*Agent(nil), a.dependents...) }

// ContextBlocks returns a copy of the received upstream outputs in arrival order.
func (a *Agent) ContextBlocks() []ContextBlock { return append([]ContextBlock(nil), a.context...) }

// Context renders the received upstream outputs as prompt text.
func (a *Agent) Context() string {
	var sb strings.Builder
	for _, b := range a.context {
		fmt.Fprintf(&sb, "%s output:\n%s\n", b.From, b.Text)
	}
	return sb.String()
}

// String implements fmt.Stringer.
func (a *Agent) String() string { return a.name }

// AddDependency makes a wait for every agent in others. Every operand is
// checked before any edge is added.
func (a *Agent) AddDependency(others ...*Agent) error {
	if err := checkOperands("dependency", others); err != nil {
		return err
	}
	for _, o := range others {
		a.dependencies = append(a.dependencies, o)
		o.dependents = append(o.dependents, a)
	}
	return nil
}

// AddDependent makes every agent in others wait for a. Every operand is
// checked before any edge is added.
func (a *Agent) AddDependent(others ...*Agent) error {
	if err := checkOperands("dependent", others); err != nil {
		return err
	}
	for _, o := range others {
		o.dependencies = append(o.dependencies, a)
		a.dependents = append(a.dependents, o)
	}
	return nil
}

func checkOperands(kind string, others []*Agent) error {
	if len(others) == 0 {
		return fmt.Errorf("%w: the %s must be an agent or a list of agents, got none", ErrInvalidOperand, kind)
	}
	for i, o := range others {
		if o == nil {
			return fmt.Errorf("%w: the %s at position %d is nil", ErrInvalidOperand, kind, i)
		}
	}
	return nil
}

// Then draws the edge a -> next (next depends on a) and returns next, so
// a.Then(b).Then(c) declares the chain a -> b -> c. It panics if next is nil.
func (a *Agent) Then(next *Agent) *Agent {
	if err := a.AddDependent(next); err != nil {
		panic(err)
	}
	return next
}

// After draws the edge prev -> a (a depends on prev) and returns prev, so
// c.After(b).After(a) declares the chain a -> b -> c. It panics if prev is nil.
func (a *Agent) After(prev *Agent) *Agent {
	if err := a.AddDependency(prev); err != nil {
		panic(err)
	}
	return prev
}

// receiveContext appends the output of from to the context buffer.
func (a *Agent) receiveContext(from *Agent, output string) {
	a.context = append(a.context, ContextBlock{From: from.name, Text: output})
}

// Run renders the task prompt, asks the reasoner and forwards the output to
// every dependent. Reasoner errors are returned unchanged and nothing is
// forwarded.
func (a *Agent) Run(ctx context.Context) (string, error) {
	if a.reasoner == nil {
		return "", fmt.Errorf("agent %s: %w", a.name, ErrNoReasoner)
	}

	prompt, err := a.Prompt()
	if err != nil {
		return "", err
	}

	output, err := a.reasoner.Run(ctx, prompt)
	if err != nil {
		return "", err
	}

	for _, d := range a.dependents {
		d.receiveContext(a, output)
	}

	return output, nil
}

// compile-time check that the pattern agents plug in as reasoners
var (
	_ Reasoner = (*agent.ReactAgent)(nil)
	_ Reasoner = (*agent.ToolAgent)(nil)
	_ Reasoner = (*agent.ReflectionAgent)(nil)
)
