package crew

import (
	"sync"

	"github.com/hupe1980/agentcrew/logging"
	"github.com/hupe1980/agentcrew/tool"
)

// Options configures a Crew.
type Options struct {
	Name    string
	Logger  logging.Logger
	Console *logging.Console
	// MaxRounds overrides the ReAct round limit of agents built with WithModel
	// into this crew. Zero keeps the reasoner default.
	MaxRounds int
	// ToolRegistry resolves tool names in crew files.
	ToolRegistry *tool.Registry
	// AgentOptions are applied to every agent created by Load before the
	// options derived from the file.
	AgentOptions []AgentOption
}

// Crew is an ordered group of agents scheduled together. Agents join in
// construction order; adding the same agent twice is not detected.
type Crew struct {
	name         string
	logger       logging.Logger
	console      *logging.Console
	maxRounds    int
	toolRegistry *tool.Registry
	agentOpts    []AgentOption

	agents []*Agent
}

// New creates an empty crew.
func New(optFns ...func(o *Options)) *Crew {
	opts := Options{
		Name:   "crew",
		Logger: logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	if opts.ToolRegistry == nil {
		opts.ToolRegistry = tool.NewRegistry()
	}

	return &Crew{
		name:         opts.Name,
		logger:       opts.Logger,
		console:      opts.Console,
		maxRounds:    opts.MaxRounds,
		toolRegistry: opts.ToolRegistry,
		agentOpts:    opts.AgentOptions,
	}
}

// Name returns the crew name.
func (c *Crew) Name() string { return c.name }

// Add appends agents to the crew.
func (c *Crew) Add(agents ...*Agent) {
	c.agents = append(c.agents, agents...)
}

// Agents returns a copy of the member list in insertion order.
func (c *Crew) Agents() []*Agent { return append([]*Agent(nil), c.agents...) }

var (
	activeMu sync.Mutex
	active   *Crew
)

// Enter makes c the active crew, the one NewAgent registers into when no
// crew is given explicitly. The returned exit func clears the active crew.
//
// Scopes do not nest: entering another crew replaces c, and any exit clears
// the active crew to none. Prefer WithCrew when building crews from several
// goroutines.
func (c *Crew) Enter() (exit func()) {
	activeMu.Lock()
	active = c
	activeMu.Unlock()

	return func() {
		activeMu.Lock()
		active = nil
		activeMu.Unlock()
	}
}

// Within runs fn with c as the active crew and clears it on every exit path,
// including panics.
func (c *Crew) Within(fn func() error) error {
	exit := c.Enter()
	defer exit()

	return fn()
}

// Active returns the active crew, or nil.
func Active() *Crew {
	activeMu.Lock()
	defer activeMu.Unlock()

	return active
}

// Register adds a to the active crew. It is a no-op when no crew is active.
func Register(a *Agent) {
	if c := Active(); c != nil {
		c.Add(a)
	}
}
