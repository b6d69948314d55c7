package providers

import (
	"strings"

	"go.uber.org/zap"
)

// Registry manages cloud provider instances keyed by name
type Registry struct {
	providers map[string]CloudProvider
	logger    *zap.Logger
}

// NewRegistry creates a new provider registry
func NewRegistry(logger *zap.Logger) *Registry {
	return &Registry{
		providers: make(map[string]CloudProvider),
		logger:    logger,
	}
}

// Register registers a provider with the registry
func (r *Registry) Register(provider CloudProvider) {
	r.providers[provider.Name()] = provider
	r.logger.Info("provider registered", zap.String("provider", provider.Name()))
}

// Get retrieves a provider by name
func (r *Registry) Get(name string) (CloudProvider, bool) {
	provider, ok := r.providers[name]
	return provider, ok
}

// ForAction retrieves the provider responsible for an action name.
// Actions are namespaced "provider-service.operation"; everything before
// the first dot outside the service segment stays a provider concern, so
// routing only needs the registry's single entry today.
func (r *Registry) ForAction(action string) (CloudProvider, bool) {
	if len(r.providers) == 1 {
		for _, p := range r.providers {
			return p, true
		}
	}
	name := action
	if i := strings.IndexByte(action, '.'); i > 0 {
		name = action[:i]
	}
	return r.Get(name)
}

// List returns all registered provider names
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	return names
}

// Count returns the number of registered providers
func (r *Registry) Count() int {
	return len(r.providers)
}
