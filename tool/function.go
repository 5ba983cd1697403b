package tool

import (
	"context"
	"errors"
	"fmt"

	"github.com/hupe1980/agentcrew/internal/util"
)

// Error codes set by FunctionTool.
const (
	CodeValidation = "VALIDATION_ERROR"
	CodeExecution  = "EXECUTION_ERROR"
)

// Func is the implementation behind a FunctionTool. args have already been
// coerced to the declared schema types and validated.
type Func func(ctx context.Context, args map[string]any) (any, error)

// FunctionTool exposes a Go function to the model.
//
// Models write tool arguments as free-form JSON inside <tool_call> tags, so
// values often arrive with the wrong JSON type ("42" for an integer, 3.0 for
// 3). Call coerces such values to the declared types before validating them
// and reports every failure as a *ToolError: CodeValidation for argument
// mismatches, CodeExecution for errors returned by the function. A *ToolError
// returned by the function itself is passed through with its own code.
//
// A FunctionTool is immutable and safe for concurrent use.
type FunctionTool struct {
	name        string
	description string
	parameters  map[string]any
	fn          Func
}

// NewFunctionTool creates a tool with an explicit parameter schema:
//
//	greet := tool.NewFunctionTool(
//		"greet",
//		"Greets a person by name.",
//		map[string]any{
//			"type":       "object",
//			"properties": map[string]any{"name": map[string]any{"type": "string"}},
//			"required":   []string{"name"},
//		},
//		func(_ context.Context, args map[string]any) (any, error) {
//			return "Hello, " + args["name"].(string), nil
//		},
//	)
func NewFunctionTool(name, description string, parameters map[string]any, fn Func) *FunctionTool {
	return &FunctionTool{
		name:        name,
		description: description,
		parameters:  parameters,
		fn:          fn,
	}
}

// NewFunctionToolFromStruct derives the schema from the json and description
// tags of argsType. Fields without omitempty are required.
func NewFunctionToolFromStruct(name, description string, argsType any, fn Func) *FunctionTool {
	return NewFunctionTool(name, description, util.CreateSchema(argsType), fn)
}

// Name returns the tool name.
func (t *FunctionTool) Name() string { return t.name }

// Description returns the description shown to the model.
func (t *FunctionTool) Description() string { return t.description }

// Parameters returns the JSON schema of the arguments.
func (t *FunctionTool) Parameters() map[string]any { return t.parameters }

// Call coerces, validates and runs the function.
func (t *FunctionTool) Call(ctx context.Context, args map[string]any) (any, error) {
	args = util.CoerceArguments(args, t.parameters)

	if err := util.ValidateParameters(args, t.parameters); err != nil {
		te := NewToolError(t.name, fmt.Sprintf("parameter validation failed: %v", err), CodeValidation)
		te.Details = err
		return nil, te
	}

	result, err := t.fn(ctx, args)
	if err != nil {
		if te := new(ToolError); errors.As(err, &te) {
			return nil, te
		}
		return nil, NewToolError(t.name, err.Error(), CodeExecution)
	}

	return result, nil
}
