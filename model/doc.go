// Package model defines the provider-agnostic abstractions and concrete
// helpers for interacting with language models inside agentcrew.
//
// Core goals:
//   - Unify streaming + non-streaming generation behind a single interface
//   - Keep request/response shapes minimal and transport independent
//   - Bounded chat histories for iterative patterns (History)
//   - Facilitate lightweight mocking for tests (MockModel)
//
// Providers (OpenAI, Anthropic) implement the Model interface in
// sub-packages so agents remain decoupled from vendor SDKs.
package model
