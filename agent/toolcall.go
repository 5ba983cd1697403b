package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/hupe1980/agentcrew/internal/util"
	"github.com/hupe1980/agentcrew/logging"
	"github.com/hupe1980/agentcrew/tool"
)

// ErrUnknownTool is reported when a model calls a tool the agent does not have.
var ErrUnknownTool = errors.New("unknown tool")

// ToolCall is a single call parsed from a <tool_call> block.
type ToolCall struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
	ID        any            `json:"id"` // models emit numbers as often as strings
}

// CallID returns the call id as a string, generating one when the model
// omitted it.
func (c ToolCall) CallID() string {
	switch id := c.ID.(type) {
	case nil:
		return uuid.NewString()
	case string:
		if id == "" {
			return uuid.NewString()
		}
		return id
	default:
		return fmt.Sprint(id)
	}
}

// ParseToolCall decodes the JSON body of a <tool_call> block.
func ParseToolCall(body string) (ToolCall, error) {
	var call ToolCall
	if err := json.Unmarshal([]byte(body), &call); err != nil {
		return ToolCall{}, fmt.Errorf("invalid tool call %q: %w", body, err)
	}
	if call.Name == "" {
		return ToolCall{}, fmt.Errorf("invalid tool call %q: missing name", body)
	}
	if call.Arguments == nil {
		call.Arguments = map[string]any{}
	}
	return call, nil
}

// toolbox executes parsed tool calls against a fixed set of tools.
type toolbox struct {
	tools   map[string]tool.Tool
	list    []tool.Tool
	logger  logging.Logger
	console *logging.Console
}

func newToolbox(tools []tool.Tool, logger logging.Logger, console *logging.Console) *toolbox {
	tb := &toolbox{
		tools:   make(map[string]tool.Tool, len(tools)),
		list:    tools,
		logger:  logger,
		console: console,
	}
	for _, t := range tools {
		tb.tools[t.Name()] = t
	}
	return tb
}

func (tb *toolbox) signatures() string {
	return tool.Signatures(tb.list)
}

// systemPrompt renders a prompt template that references the tool signatures as .Tools.
func (tb *toolbox) systemPrompt(tmpl string) (string, error) {
	return util.RenderTemplate(tmpl, struct{ Tools string }{tb.signatures()})
}

// run executes every call body and returns the observations keyed by call
// id. Failures are recorded as observations so the model can react to them;
// only context cancellation aborts.
func (tb *toolbox) run(ctx context.Context, bodies []string) (map[string]any, error) {
	observations := make(map[string]any, len(bodies))

	for _, body := range bodies {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		call, err := ParseToolCall(body)
		if err != nil {
			tb.logger.Warn("tool.call.parse_error", "error", err)
			observations[uuid.NewString()] = errorObservation(err)
			continue
		}

		id := call.CallID()

		t, ok := tb.tools[call.Name]
		if !ok {
			err := fmt.Errorf("%w: %s", ErrUnknownTool, call.Name)
			tb.logger.Warn("tool.call.unknown", "tool", call.Name, "id", id)
			observations[id] = errorObservation(err)
			continue
		}

		tb.console.Print(color.FgGreen, "", fmt.Sprintf("Using Tool: %s", call.Name))
		tb.logger.Debug("tool.call.start", "tool", call.Name, "id", id, "args", call.Arguments)

		result, err := t.Call(ctx, call.Arguments)
		if err != nil {
			tb.logger.Warn("tool.call.error", "tool", call.Name, "id", id, "error", err)
			observations[id] = errorObservation(err)
			continue
		}

		tb.console.Print(color.FgGreen, "", fmt.Sprintf("Tool result: %v", result))
		tb.logger.Debug("tool.call.complete", "tool", call.Name, "id", id)

		observations[id] = result
	}

	return observations, nil
}

func errorObservation(err error) map[string]any {
	return map[string]any{"error": err.Error()}
}

// formatObservations renders observations as a JSON object; values that do
// not marshal fall back to their fmt representation.
func formatObservations(observations map[string]any) string {
	b, err := json.Marshal(observations)
	if err == nil {
		return string(b)
	}

	safe := make(map[string]any, len(observations))
	for k, v := range observations {
		safe[k] = fmt.Sprint(v)
	}
	b, _ = json.Marshal(safe)
	return string(b)
}
