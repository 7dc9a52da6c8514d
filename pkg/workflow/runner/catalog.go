package runner

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/RMASolutions/jobscraper/pkg/workflow/registry"
)

// ErrUnknownWorkflow indicates a workflow type name with no registered factory.
var ErrUnknownWorkflow = errors.New("workflow not registered")

// Catalog maps workflow-type names to definition factories.
//
// Registration happens explicitly at process startup: populate the
// catalog from an initialization function, never from package import side
// effects. The last registration for a name wins; replacing an existing
// registration is logged so the behavior is observable.
type Catalog struct {
	factories *registry.Registry[string, Factory]
	logger    *slog.Logger
}

// NewCatalog creates an empty workflow catalog. A nil logger defaults to
// slog.Default().
func NewCatalog(logger *slog.Logger) *Catalog {
	if logger == nil {
		logger = slog.Default()
	}
	return &Catalog{
		factories: registry.New[string, Factory](),
		logger:    logger,
	}
}

// Register adds a workflow factory under a type name. Last write wins.
func (c *Catalog) Register(name string, factory Factory) {
	if factory == nil {
		panic("runner: workflow factory cannot be nil")
	}
	if c.factories.Has(name) {
		c.logger.Warn("replacing registered workflow", slog.String("workflow", name))
	}
	c.factories.Register(name, factory)
}

// Get returns the factory for a workflow type name.
func (c *Catalog) Get(name string) (Factory, bool) {
	return c.factories.Get(name)
}

// List returns all registered workflow type names, sorted.
func (c *Catalog) List() []string {
	names := c.factories.Keys()
	sort.Strings(names)
	return names
}

// Create instantiates the definition for a workflow type name.
func (c *Catalog) Create(name string) (Definition, error) {
	factory, ok := c.factories.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownWorkflow, name)
	}
	return factory(), nil
}
