package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractTagContent(t *testing.T) {
	text := `
	<thought>This is my first thought.</thought>
	<response>This is my first response.</response>
	<thought>
	This is my second thought.
	</thought>
	<other>ignored</other>`

	thoughts := ExtractTagContent(text, "thought")
	assert.True(t, thoughts.Found)
	assert.Equal(t, []string{"This is my first thought.", "This is my second thought."}, thoughts.Content)

	missing := ExtractTagContent(text, "tool_call")
	assert.False(t, missing.Found)
	assert.Empty(t, missing.Content)
}

func TestExtractTagContent_SpecialCharacters(t *testing.T) {
	res := ExtractTagContent("<a.b>x</a.b><aXb>y</aXb>", "a.b")
	assert.Equal(t, []string{"x"}, res.Content)
}

func TestRenderTemplate(t *testing.T) {
	out, err := RenderTemplate("Hello {{ .Name | upper }} <{{ default \"none\" .Missing }}>", map[string]any{"Name": "crew"})
	require.NoError(t, err)
	assert.Equal(t, "Hello CREW <none>", out)

	// No escaping of prompt text.
	out, err = RenderTemplate("{{ .Text }}", map[string]any{"Text": "<context>a & b</context>"})
	require.NoError(t, err)
	assert.Equal(t, "<context>a & b</context>", out)

	plain, err := RenderTemplate("no markers", nil)
	require.NoError(t, err)
	assert.Equal(t, "no markers", plain)

	_, err = RenderTemplate("{{ .Broken ", nil)
	assert.Error(t, err)
}

type sumArgs struct {
	A int     `json:"a" description:"First addend"`
	B float64 `json:"b"`
	C *string `json:"c"`
}

func TestCreateSchemaAndValidate(t *testing.T) {
	schema := CreateSchema(sumArgs{})
	assert.Equal(t, []string{"a", "b"}, schema["required"])

	err := ValidateParameters(map[string]any{"a": 1}, schema)
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "b", vErr.Field)

	assert.NoError(t, ValidateParameters(map[string]any{"a": 1, "b": 2.5}, schema))
}

func TestCoerceArguments(t *testing.T) {
	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"n":    map[string]any{"type": "integer"},
			"x":    map[string]any{"type": "number"},
			"s":    map[string]any{"type": "string"},
			"flag": map[string]any{"type": "boolean"},
		},
	}
	in := map[string]any{"n": "42", "x": "1.5", "s": 7.0, "flag": "true", "extra": "kept"}

	out := CoerceArguments(in, schema)

	assert.Equal(t, int64(42), out["n"])
	assert.Equal(t, 1.5, out["x"])
	assert.Equal(t, "7", out["s"])
	assert.Equal(t, true, out["flag"])
	assert.Equal(t, "kept", out["extra"])
	assert.Equal(t, "42", in["n"], "input must not be modified")
	assert.NoError(t, ValidateParameters(out, schema))
}
