package crew

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/hupe1980/agentcrew/logging"
	"github.com/hupe1980/agentcrew/model"
	"github.com/hupe1980/agentcrew/tool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder is a scripted reasoning capability that logs every run.
type recorder struct {
	runs    []string
	prompts map[string]string
	fail    map[string]error
}

func newRecorder() *recorder {
	return &recorder{prompts: map[string]string{}, fail: map[string]error{}}
}

func (r *recorder) agent(c *Crew, name string) *Agent {
	return NewAgent(name, "backstory of "+name, "task of "+name,
		WithCrew(c),
		WithReasonerFactory(func(string, []tool.Tool) Reasoner {
			return ReasonerFunc(func(_ context.Context, prompt string) (string, error) {
				r.runs = append(r.runs, name)
				r.prompts[name] = prompt
				if err := r.fail[name]; err != nil {
					return "", err
				}
				return name + " result", nil
			})
		}),
	)
}

func names(agents []*Agent) []string {
	out := make([]string, len(agents))
	for i, a := range agents {
		out[i] = a.Name()
	}
	return out
}

// -------------------- Graph Builder Tests --------------------

func TestAddDependency_MatchedPairs(t *testing.T) {
	c := New()
	r := newRecorder()
	a, b, d := r.agent(c, "A"), r.agent(c, "B"), r.agent(c, "D")

	require.NoError(t, d.AddDependency(a, b))
	assert.Equal(t, []string{"A", "B"}, names(d.Dependencies()))
	assert.Equal(t, []string{"D"}, names(a.Dependents()))
	assert.Equal(t, []string{"D"}, names(b.Dependents()))

	require.NoError(t, a.AddDependent(b))
	assert.Equal(t, []string{"D", "B"}, names(a.Dependents()))
	assert.Equal(t, []string{"A"}, names(b.Dependencies()))
}

func TestAddDependency_InvalidOperand(t *testing.T) {
	c := New()
	r := newRecorder()
	a, b := r.agent(c, "A"), r.agent(c, "B")

	err := a.AddDependency()
	assert.ErrorIs(t, err, ErrInvalidOperand)

	err = a.AddDependency(b, nil)
	assert.ErrorIs(t, err, ErrInvalidOperand)
	assert.Empty(t, a.Dependencies(), "no edge may be added when any operand is invalid")
	assert.Empty(t, b.Dependents())

	err = a.AddDependent(nil)
	assert.ErrorIs(t, err, ErrInvalidOperand)
	assert.Empty(t, a.Dependents())
}

func TestThenAndAfter_Chain(t *testing.T) {
	c := New()
	r := newRecorder()
	a, b, d := r.agent(c, "A"), r.agent(c, "B"), r.agent(c, "C")

	assert.Same(t, d, a.Then(b).Then(d))
	assert.Equal(t, []string{"A"}, names(b.Dependencies()))
	assert.Equal(t, []string{"B"}, names(d.Dependencies()))

	c2 := New()
	x, y, z := r.agent(c2, "X"), r.agent(c2, "Y"), r.agent(c2, "Z")
	assert.Same(t, x, z.After(y).After(x))
	assert.Equal(t, []string{"X"}, names(y.Dependencies()))
	assert.Equal(t, []string{"Y"}, names(z.Dependencies()))

	order, err := c2.TopologicalSort()
	require.NoError(t, err)
	assert.Equal(t, []string{"X", "Y", "Z"}, names(order))
}

func TestThen_PanicsOnNil(t *testing.T) {
	a := newRecorder().agent(New(), "A")
	assert.Panics(t, func() { a.Then(nil) })
	assert.Panics(t, func() { a.After(nil) })
}

// -------------------- Scheduler Tests --------------------

func TestTopologicalSort_ValidOrder(t *testing.T) {
	c := New()
	r := newRecorder()
	// Inserted in reverse so that insertion order alone is not a valid order.
	e := r.agent(c, "E")
	d := r.agent(c, "D")
	cc := r.agent(c, "C")
	b := r.agent(c, "B")
	a := r.agent(c, "A")

	a.Then(b)
	a.Then(cc)
	require.NoError(t, d.AddDependency(b, cc))
	d.Then(e)

	order, err := c.TopologicalSort()
	require.NoError(t, err)
	require.Len(t, order, 5)

	index := map[*Agent]int{}
	for i, ag := range order {
		index[ag] = i
	}
	for _, ag := range c.Agents() {
		for _, dep := range ag.Dependencies() {
			assert.Less(t, index[dep], index[ag], "%s must precede %s", dep.Name(), ag.Name())
		}
	}
	assert.Equal(t, []string{"A", "B", "C", "D", "E"}, names(order))
}

func TestTopologicalSort_TieBreakIsInsertionOrder(t *testing.T) {
	c := New()
	r := newRecorder()
	r.agent(c, "Q")
	r.agent(c, "P")
	r.agent(c, "R")

	order, err := c.TopologicalSort()
	require.NoError(t, err)
	assert.Equal(t, []string{"Q", "P", "R"}, names(order))
}

func TestRun_CycleExecutesNothing(t *testing.T) {
	c := New()
	r := newRecorder()
	a, b, d := r.agent(c, "A"), r.agent(c, "B"), r.agent(c, "C")
	a.Then(b).Then(d).Then(a)

	results, err := c.Run(context.Background())
	require.Error(t, err)
	assert.Nil(t, results)
	assert.Empty(t, r.runs)
	assert.ErrorIs(t, err, ErrCyclicDependency)

	var cycErr *CyclicDependencyError
	require.ErrorAs(t, err, &cycErr)
	assert.Equal(t, []string{"A", "B", "C"}, cycErr.Agents)

	for _, ag := range c.Agents() {
		assert.Empty(t, ag.ContextBlocks())
	}
}

func TestTopologicalSort_CycleDownstreamIsBlocked(t *testing.T) {
	c := New()
	r := newRecorder()
	root, a, b, tail := r.agent(c, "Root"), r.agent(c, "A"), r.agent(c, "B"), r.agent(c, "Tail")
	root.Then(a)
	a.Then(b).Then(a)
	b.Then(tail)

	_, err := c.TopologicalSort()

	var cycErr *CyclicDependencyError
	require.ErrorAs(t, err, &cycErr)
	assert.Equal(t, []string{"A", "B", "Tail"}, cycErr.Agents)
}

func TestDuplicateEdges(t *testing.T) {
	c := New()
	r := newRecorder()
	p := r.agent(c, "P")
	q := r.agent(c, "Q")

	require.NoError(t, p.AddDependency(q, q))
	assert.Len(t, p.Dependencies(), 2)
	assert.Len(t, q.Dependents(), 2)

	order, err := c.TopologicalSort()
	require.NoError(t, err)
	assert.Equal(t, []string{"Q", "P"}, names(order))

	_, err = c.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Q", "P"}, r.runs)
	// One block per edge occurrence.
	assert.Len(t, p.ContextBlocks(), 2)
}

// -------------------- Execution Tests --------------------

func TestRun_ChainPropagation(t *testing.T) {
	c := New()
	r := newRecorder()
	x, y, z := r.agent(c, "X"), r.agent(c, "Y"), r.agent(c, "Z")
	require.NoError(t, y.AddDependency(x))
	require.NoError(t, z.AddDependency(y))

	results, err := c.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []Result{
		{Agent: "X", Output: "X result"},
		{Agent: "Y", Output: "Y result"},
		{Agent: "Z", Output: "Z result"},
	}, results)

	assert.Empty(t, x.ContextBlocks())
	assert.Equal(t, []ContextBlock{{From: "X", Text: "X result"}}, y.ContextBlocks())
	assert.Equal(t, []ContextBlock{{From: "Y", Text: "Y result"}}, z.ContextBlocks())
	assert.NotContains(t, z.Context(), "X result")
	assert.Contains(t, r.prompts["Z"], "Y output:\nY result")
}

func TestRun_FanInFollowsCompletionOrder(t *testing.T) {
	c := New()
	r := newRecorder()
	a, b, d := r.agent(c, "A"), r.agent(c, "B"), r.agent(c, "C")
	// Declared B first, but A completes first.
	require.NoError(t, d.AddDependency(b, a))

	_, err := c.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "B", "C"}, r.runs)
	assert.Equal(t, []ContextBlock{
		{From: "A", Text: "A result"},
		{From: "B", Text: "B result"},
	}, d.ContextBlocks())
	assert.Equal(t, "A output:\nA result\nB output:\nB result\n", d.Context())
}

func TestRun_FailFast(t *testing.T) {
	boom := errors.New("provider unavailable")
	c := New()
	r := newRecorder()
	r.fail["B"] = boom
	a, b, d := r.agent(c, "A"), r.agent(c, "B"), r.agent(c, "C")
	a.Then(b).Then(d)

	results, err := c.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "crew execution failed at agent B")

	assert.Equal(t, []Result{{Agent: "A", Output: "A result"}}, results)
	assert.Equal(t, []string{"A", "B"}, r.runs)
	assert.Len(t, b.ContextBlocks(), 1, "output forwarded before the failure is kept")
	assert.Empty(t, d.ContextBlocks())
}

func TestRun_NoReasoner(t *testing.T) {
	c := New()
	NewAgent("Lonely", "b", "t", WithCrew(c))

	_, err := c.Run(context.Background())
	assert.ErrorIs(t, err, ErrNoReasoner)
}

func TestRun_ConsoleAndLogs(t *testing.T) {
	color.NoColor = true

	var out, logs bytes.Buffer
	c := New(func(o *Options) {
		o.Name = "poets"
		o.Console = logging.NewConsole(&out)
		o.Logger = logging.NewSlogLogger(logging.LogLevelInfo, "json", &logs)
	})
	r := newRecorder()
	r.agent(c, "Poet").Then(r.agent(c, "Translator"))

	_, err := c.Run(context.Background())
	require.NoError(t, err)

	console := out.String()
	poet := strings.Index(console, "RUNNING AGENT: Poet")
	translator := strings.Index(console, "RUNNING AGENT: Translator")
	require.GreaterOrEqual(t, poet, 0)
	assert.Greater(t, translator, poet)
	assert.Contains(t, console, "Poet result")

	assert.Contains(t, logs.String(), `"msg":"crew.agent.start"`)
	assert.Contains(t, logs.String(), `"msg":"crew.agent.complete"`)
	assert.Contains(t, logs.String(), `"crew":"poets"`)
	assert.Contains(t, logs.String(), `"run_id":`)
}

func TestPrompt(t *testing.T) {
	c := New()
	a := NewAgent("Writer", "You write.", "Write a haiku about Go.", WithCrew(c), WithExpectedOutput("Three lines."))
	up := newRecorder().agent(c, "Muse")
	require.NoError(t, a.AddDependency(up))
	a.receiveContext(up, "channels and goroutines")

	prompt, err := a.Prompt()
	require.NoError(t, err)
	assert.Contains(t, prompt, "<task_description>\nWrite a haiku about Go.\n</task_description>")
	assert.Contains(t, prompt, "<task_expected_output>\nThree lines.\n</task_expected_output>")
	assert.Contains(t, prompt, "<context>\nMuse output:\nchannels and goroutines\n\n</context>")
	assert.True(t, strings.HasSuffix(prompt, "Your response:"))
}

func TestNewAgent_DefaultReactReasoner(t *testing.T) {
	m := model.NewMockModel("mock", "mock")
	m.Enqueue("<thought>easy</thought><response>a poem</response>")

	c := New(func(o *Options) { o.MaxRounds = 3 })
	a := NewAgent("Poet", "You are a poet.", "Write a poem.", WithCrew(c), WithModel(m), WithTools(tool.NewSumTool()))

	out, err := a.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "a poem", out)

	req := m.Requests()[0]
	assert.Contains(t, req.Messages[0].Content, "You are a poet.")
	assert.Contains(t, req.Messages[0].Content, "sum_two_elements")
	assert.Contains(t, req.Messages[1].Content, "Write a poem.")
}

// -------------------- Registry Tests --------------------

func TestWithin_RegistersAndClears(t *testing.T) {
	c := New()

	var inside *Agent
	err := c.Within(func() error {
		inside = NewAgent("A", "b", "t")
		assert.Same(t, c, Active())
		return nil
	})
	require.NoError(t, err)
	assert.Nil(t, Active())
	assert.Equal(t, []*Agent{inside}, c.Agents())

	outside := NewAgent("B", "b", "t")
	assert.NotContains(t, c.Agents(), outside)

	boom := errors.New("boom")
	assert.ErrorIs(t, c.Within(func() error { return boom }), boom)
	assert.Nil(t, Active())

	assert.Panics(t, func() {
		_ = c.Within(func() error { panic("builder bug") })
	})
	assert.Nil(t, Active(), "a panic must not leave the crew active")
}

func TestEnter_DoesNotNest(t *testing.T) {
	outer, inner := New(), New()

	exitOuter := outer.Enter()
	exitInner := inner.Enter()
	assert.Same(t, inner, Active())

	exitInner()
	assert.Nil(t, Active(), "exit clears unconditionally")
	exitOuter()
	assert.Nil(t, Active())
}

func TestRegister(t *testing.T) {
	c := New()
	a := NewAgent("A", "b", "t", WithCrew(New()))

	Register(a)
	assert.Empty(t, c.Agents(), "no-op without an active crew")

	exit := c.Enter()
	Register(a)
	exit()
	assert.Equal(t, []*Agent{a}, c.Agents())
}

func TestWithCrew_IgnoresActive(t *testing.T) {
	active, explicit := New(), New()

	exit := active.Enter()
	a := NewAgent("A", "b", "t", WithCrew(explicit))
	exit()

	assert.Empty(t, active.Agents())
	assert.Equal(t, []*Agent{a}, explicit.Agents())
}

// -------------------- Rendering Tests --------------------

func TestWriteDOT(t *testing.T) {
	c := New(func(o *Options) { o.Name = "poem" })
	r := newRecorder()
	a, b, d := r.agent(c, "Poet Agent"), r.agent(c, "Translator"), r.agent(c, "Writer")
	a.Then(b).Then(d)
	require.NoError(t, d.AddDependency(a))

	var buf bytes.Buffer
	require.NoError(t, c.WriteDOT(&buf))

	assert.Equal(t, `digraph "poem" {
  "Poet Agent";
  "Translator";
  "Writer";
  "Poet Agent" -> "Translator";
  "Translator" -> "Writer";
  "Poet Agent" -> "Writer";
}
`, buf.String())
}
