// Package agent contains the reasoning engines of agentcrew. Each one wraps a
// model.Model and answers a single user message through Run:
//
//  1. ReactAgent - planning pattern (thought, tool call, observation loop)
//  2. ToolAgent - tool-use pattern (one round of tool calls, then an answer)
//  3. ReflectionAgent - reflection pattern (draft, critique, revise)
//
// Tool calls are exchanged as JSON inside <tool_call> tags in plain text, so
// any chat model can drive them. Failed or unknown calls are reported back to
// the model as observations instead of aborting the run.
//
// ReactAgent is the default reasoning capability of crew agents.
package agent
