// Copyright 2026 Teradata
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
// Package llm defines the text-completion provider contract used by the
// agent's generation, correction and analysis collaborators, plus a bounded
// retry wrapper for transport failures.
package llm

import "context"

// Message is a single message in a completion conversation.
type Message struct {
	// Role is the message sender: "system", "user" or "assistant".
	Role string

	// Content is the message text.
	Content string
}

// Usage tracks token consumption for one completion.
type Usage struct {
	InputTokens  int
	OutputTokens int
}

// Response is the provider's completion output.
type Response struct {
	// Content is the completion text.
	Content string

	// StopReason is the provider's finish reason, when reported.
	StopReason string

	// Usage tracks token consumption.
	Usage Usage
}

// Provider is an opaque text-completion service. Output carries no safety
// guarantees; SQL produced through a Provider must pass the gate before
// execution.
type Provider interface {
	// Name returns the provider name (e.g. "openai", "anthropic").
	Name() string

	// Model returns the model identifier.
	Model() string

	// Complete sends a conversation and returns the completion.
	Complete(ctx context.Context, messages []Message) (*Response, error)
}
