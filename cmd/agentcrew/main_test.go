package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/agentcrew/config"
	"github.com/hupe1980/agentcrew/model"
)

const testCrew = `
name: poem
agents:
  - name: Poet
    backstory: You are a poet.
    task_description: Write a poem.
  - name: Translator
    backstory: You are a translator.
    task_description: Translate the poem.
    depends_on: [Poet]
`

// setupCLI isolates config lookup and swaps in a scripted model.
func setupCLI(t *testing.T) *model.MockModel {
	t.Helper()

	color.NoColor = true
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("OPENAI_API_KEY", "sk-test")
	chdirForTest(t, t.TempDir())

	m := model.NewMockModel("mock", "mock")
	orig := newModel
	newModel = func(*config.Config) (model.Model, error) { return m, nil }
	t.Cleanup(func() {
		newModel = orig
		cfgFile = ""
		verbose = false
	})

	return m
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return buf.String(), err
}

func writeCrew(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "crew.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "agentcrew version dev\n", out)
}

func TestRunCommand(t *testing.T) {
	m := setupCLI(t)
	m.Enqueue("<response>roses</response>", "<response>rosas</response>")

	out, err := execute(t, "run", writeCrew(t, testCrew))
	require.NoError(t, err)

	assert.Contains(t, out, "RUNNING AGENT: Poet")
	assert.Contains(t, out, "RUNNING AGENT: Translator")
	assert.Contains(t, out, "rosas")
	assert.Contains(t, out, "crew poem finished: 2 agent(s)")

	// The translator saw the poet's output as context.
	assert.Contains(t, m.Requests()[1].Messages[1].Content, "Poet output:\nroses")
}

func TestRunCommand_Cycle(t *testing.T) {
	m := setupCLI(t)

	_, err := execute(t, "run", writeCrew(t, `
agents:
  - name: A
    depends_on: [B]
  - name: B
    depends_on: [A]
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "circular dependencies")
	assert.Zero(t, m.Calls())
}

func TestPlotCommand(t *testing.T) {
	setupCLI(t)

	out, err := execute(t, "plot", writeCrew(t, testCrew))
	require.NoError(t, err)
	assert.Contains(t, out, `digraph "poem" {`)
	assert.Contains(t, out, `"Poet" -> "Translator";`)
}

func TestReactCommand(t *testing.T) {
	m := setupCLI(t)
	m.Enqueue(
		`<tool_call>{"name":"sum_two_elements","arguments":{"a":2,"b":3},"id":0}</tool_call>`,
		`<response>The sum is 5</response>`,
	)

	out, err := execute(t, "react", "--max-rounds", "3", "what", "is", "2+3?")
	require.NoError(t, err)
	assert.Contains(t, out, "The sum is 5")
	assert.Equal(t, 2, m.Calls())
}

func TestToolCommand(t *testing.T) {
	m := setupCLI(t)
	m.Enqueue(`<tool_call>{"name":"multiply_two_elements","arguments":{"a":6,"b":7},"id":1}</tool_call>`, "It is 42.")

	out, err := execute(t, "tool", "multiply 6 by 7")
	require.NoError(t, err)
	assert.Contains(t, out, "It is 42.")
	assert.Contains(t, m.Requests()[1].Messages[1].Content, `"1":42`)
}

func TestReflectCommand(t *testing.T) {
	m := setupCLI(t)
	m.Enqueue("a haiku", "<OK>")

	out, err := execute(t, "reflect", "--steps", "2", "write", "a", "haiku")
	require.NoError(t, err)
	assert.Contains(t, out, "Final Output:")
	assert.Contains(t, out, "a haiku")
	assert.Contains(t, out, "STEP 1/2")
}

func TestConfigFlag(t *testing.T) {
	setupCLI(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("provider: bard\n"), 0o600))

	_, err := execute(t, "--config", path, "plot", writeCrew(t, testCrew))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported provider")
}

func TestModelFromConfig(t *testing.T) {
	cfg := config.Default()

	_, err := modelFromConfig(cfg)
	assert.Error(t, err, "openai without key or base URL")

	cfg.OpenAI.BaseURL = "http://localhost:8000/v1"
	cfg.Model = "qwen"
	m, err := modelFromConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, model.Info{Name: "qwen", Provider: "openai"}, m.Info())

	cfg.Provider = config.ProviderAnthropic
	_, err = modelFromConfig(cfg)
	assert.Error(t, err)

	cfg.Anthropic.APIKey = "sk-ant"
	cfg.Model = "claude-3-5-haiku-latest"
	m, err = modelFromConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, "anthropic", m.Info().Provider)
}

// chdirForTest changes the working directory for the duration of the test
// and restores it on cleanup (equivalent of testing.T.Chdir from Go 1.24).
func chdirForTest(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatal(err)
		}
	})
}
