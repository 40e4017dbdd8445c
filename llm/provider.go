package llm

import (
	"github.com/kbukum/lecturekit/provider"
)

// Completer is a chat completion backend. Wrap it with provider middleware
// (WithResilience, WithLogging) to compose retries and logging.
type Completer = provider.RequestResponse[CompletionRequest, CompletionResponse]

var registry = provider.NewRegistry[Config, Completer]()

// Register makes a backend available to New under name. Backend packages
// call it from init.
func Register(name string, factory provider.Factory[Config, Completer]) {
	registry.RegisterFactory(name, factory)
}

// New builds the backend named by cfg.Provider.
func New(cfg Config) (Completer, error) {
	cfg.ApplyDefaults()
	return registry.Create(cfg.Provider, cfg)
}

// Providers lists registered backend names.
func Providers() []string {
	return registry.List()
}
