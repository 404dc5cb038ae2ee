package frameworks

import "sync"

// Engine parses, formats and compares frameworks against one portable
// profile catalog. An Engine is immutable and safe for concurrent use.
type Engine struct {
	catalog *ProfileCatalog
	hook    func(Decision)
}

// Option configures an Engine.
type Option func(*Engine)

// WithCatalog substitutes the portable profile catalog.
func WithCatalog(c *ProfileCatalog) Option {
	return func(e *Engine) {
		if c != nil {
			e.catalog = c
		}
	}
}

// WithDecisionHook registers a callback invoked once per top-level
// compatibility decision. Member checks of portable profiles are not reported.
func WithDecisionHook(fn func(Decision)) Option {
	return func(e *Engine) {
		e.hook = fn
	}
}

// NewEngine creates an engine backed by the built-in catalog unless
// WithCatalog says otherwise.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{}
	for _, opt := range opts {
		opt(e)
	}
	if e.catalog == nil {
		e.catalog = DefaultProfileCatalog()
	}
	return e
}

var (
	defaultEngine     *Engine
	defaultEngineOnce sync.Once
)

// Default returns the process-wide engine over the built-in catalog.
func Default() *Engine {
	defaultEngineOnce.Do(func() {
		defaultEngine = NewEngine()
	})
	return defaultEngine
}

// Catalog returns the engine's portable profile catalog.
func (e *Engine) Catalog() *ProfileCatalog {
	return e.catalog
}
