package crew

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/hupe1980/agentcrew/tool"
	"gopkg.in/yaml.v3"
)

// File is the YAML representation of a crew.
type File struct {
	Name   string      `yaml:"name,omitempty"`
	Agents []AgentSpec `yaml:"agents"`
}

// AgentSpec is the YAML representation of an agent. DependsOn names agents of
// the same file; Tools names tools of the crew's tool registry.
type AgentSpec struct {
	Name               string   `yaml:"name"`
	Backstory          string   `yaml:"backstory"`
	TaskDescription    string   `yaml:"task_description"`
	TaskExpectedOutput string   `yaml:"task_expected_output,omitempty"`
	Tools              []string `yaml:"tools,omitempty"`
	DependsOn          []string `yaml:"depends_on,omitempty"`
}

// LoadFile reads a crew definition from path. See Load.
func LoadFile(path string, optFns ...func(o *Options)) (*Crew, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open crew file: %w", err)
	}
	defer f.Close()

	return Load(f, optFns...)
}

// Load builds a crew from a YAML definition. Agents are created in file
// order and registered explicitly, so no crew needs to be active. Options.AgentOptions
// (typically WithModel) apply to every agent.
func Load(r io.Reader, optFns ...func(o *Options)) (*Crew, error) {
	var file File

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse crew file: %w", err)
	}

	return file.Build(optFns...)
}

// Build constructs the crew described by f.
func (f *File) Build(optFns ...func(o *Options)) (*Crew, error) {
	if f.Name != "" {
		optFns = append([]func(o *Options){func(o *Options) { o.Name = f.Name }}, optFns...)
	}

	c := New(optFns...)

	byName := make(map[string]*Agent, len(f.Agents))
	for i, spec := range f.Agents {
		if spec.Name == "" {
			return nil, fmt.Errorf("agent %d: name is required", i)
		}
		if _, dup := byName[spec.Name]; dup {
			return nil, fmt.Errorf("agent %q: duplicate name", spec.Name)
		}

		tools, err := c.resolveTools(spec.Tools)
		if err != nil {
			return nil, fmt.Errorf("agent %q: %w", spec.Name, err)
		}

		opts := append([]AgentOption(nil), c.agentOpts...)
		opts = append(opts,
			WithExpectedOutput(spec.TaskExpectedOutput),
			WithTools(tools...),
			WithCrew(c),
		)

		byName[spec.Name] = NewAgent(spec.Name, spec.Backstory, spec.TaskDescription, opts...)
	}

	for _, spec := range f.Agents {
		if len(spec.DependsOn) == 0 {
			continue
		}

		deps := make([]*Agent, 0, len(spec.DependsOn))
		for _, name := range spec.DependsOn {
			dep, ok := byName[name]
			if !ok {
				return nil, fmt.Errorf("agent %q: %w: unknown dependency %q", spec.Name, ErrInvalidOperand, name)
			}
			deps = append(deps, dep)
		}

		if err := byName[spec.Name].AddDependency(deps...); err != nil {
			return nil, fmt.Errorf("agent %q: %w", spec.Name, err)
		}
	}

	return c, nil
}

func (c *Crew) resolveTools(names []string) ([]tool.Tool, error) {
	tools := make([]tool.Tool, 0, len(names))
	for _, name := range names {
		t, ok := c.toolRegistry.Get(name)
		if !ok {
			return nil, fmt.Errorf("%w: unknown tool %q", ErrInvalidOperand, name)
		}
		tools = append(tools, t)
	}
	return tools, nil
}
