// Package llm defines the chat completion types and the Completer backend
// interface used by the summarizer.
//
// Backends register themselves by name, similar to database/sql drivers:
//
//	import _ "github.com/kbukum/lecturekit/llm/openai"
//
//	completer, err := llm.New(llm.Config{Provider: "openai", Model: "gpt-4", APIKey: key})
//	text, err := llm.Complete(ctx, completer, "You are helpful.", "Hello!")
//
// Completer is a provider.RequestResponse, so resilience, logging, metrics
// and tracing middleware from the provider package apply unchanged.
package llm
