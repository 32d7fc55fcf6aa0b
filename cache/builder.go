package cache

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jonwraymond/cachekit/telemetry"
)

// Implementation names registered out of the box.
const (
	ImplPerpetual = "perpetual"

	DecoratorLRU  = "lru"
	DecoratorFIFO = "fifo"
	DecoratorWeak = "weak"
	DecoratorSoft = "soft"
)

// ImplementationFunc constructs a base cache with the given identity.
type ImplementationFunc func(id string) Cache

// DecoratorFunc wraps a cache with one decorator.
type DecoratorFunc func(delegate Cache) Cache

var (
	registryMu      sync.RWMutex
	implementations = map[string]ImplementationFunc{
		ImplPerpetual: func(id string) Cache { return NewPerpetualCache(id) },
	}
	decorators = map[string]DecoratorFunc{
		DecoratorLRU:  func(d Cache) Cache { return NewLRUCache(d) },
		DecoratorFIFO: func(d Cache) Cache { return NewFIFOCache(d) },
		DecoratorWeak: func(d Cache) Cache { return NewWeakCache(d) },
		DecoratorSoft: func(d Cache) Cache { return NewSoftCache(d) },
	}
)

// RegisterImplementation makes a custom base implementation available to
// builders under the given name. Custom implementations bypass standard
// decoration; see Builder.Build.
func RegisterImplementation(name string, fn ImplementationFunc) {
	registryMu.Lock()
	defer registryMu.Unlock()
	implementations[name] = fn
}

// RegisterDecorator makes a custom decorator available to builders under
// the given name.
func RegisterDecorator(name string, fn DecoratorFunc) {
	registryMu.Lock()
	defer registryMu.Unlock()
	decorators[name] = fn
}

func lookupImplementation(name string) (ImplementationFunc, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	fn, ok := implementations[name]
	return fn, ok
}

func lookupDecorator(name string) (DecoratorFunc, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	fn, ok := decorators[name]
	return fn, ok
}

// Builder assembles one decorator chain from a declarative configuration.
// The standard suffix order it applies is load-bearing: Scheduled (when a
// clear interval is set), then Serialized (read-write mode), then Logging,
// then Synchronized, then Blocking (when enabled). Synchronized must wrap
// everything Blocking does not, so external callers observe one coarse lock
// while Blocking manages its finer per-key gates outermost; Logging sits
// above the decorated storage so its statistics describe the final surface;
// Serialized stays below Synchronized so encoded payloads never escape the
// lock.
type Builder struct {
	id             string
	implementation string
	extras         []string
	size           int
	clearInterval  time.Duration
	readWrite      bool
	blocking       bool
	timeout        time.Duration
	properties     map[string]string
	logger         telemetry.Logger
	consumed       bool
}

// NewBuilder starts a builder for the logical cache id. An empty id gets a
// generated one.
func NewBuilder(id string) *Builder {
	if id == "" {
		id = uuid.NewString()
	}
	return &Builder{id: id, logger: telemetry.NopLogger()}
}

// Implementation selects the registered base implementation by name.
func (b *Builder) Implementation(name string) *Builder {
	b.implementation = name
	return b
}

// AddDecorator appends a registered decorator name to the chain applied
// above the base, in declaration order.
func (b *Builder) AddDecorator(name string) *Builder {
	if name != "" {
		b.extras = append(b.extras, name)
	}
	return b
}

// Size bounds the chain; it is routed to the outermost decorator that
// accepts a capacity.
func (b *Builder) Size(n int) *Builder {
	b.size = n
	return b
}

// ClearInterval enables the scheduled decorator with the given interval.
func (b *Builder) ClearInterval(d time.Duration) *Builder {
	b.clearInterval = d
	return b
}

// ReadWrite enables the serialization decorator, isolating stored values
// from caller-held references.
func (b *Builder) ReadWrite(enabled bool) *Builder {
	b.readWrite = enabled
	return b
}

// Blocking enables the per-key blocking decorator.
func (b *Builder) Blocking(enabled bool) *Builder {
	b.blocking = enabled
	return b
}

// Timeout bounds blocking Get waits. Zero blocks indefinitely.
func (b *Builder) Timeout(d time.Duration) *Builder {
	b.timeout = d
	return b
}

// Properties supplies free-form configuration applied to the base and each
// declared decorator through their typed property surfaces.
func (b *Builder) Properties(props map[string]string) *Builder {
	b.properties = props
	return b
}

// Logger wires structured logging into the chain's logging decorator.
func (b *Builder) Logger(l telemetry.Logger) *Builder {
	if l != nil {
		b.logger = l
	}
	return b
}

// Build assembles the chain. Any instantiation, property, or initialization
// failure aborts with a BuildError; no partially built cache is returned.
// A Builder describes exactly one chain: a second Build fails.
func (b *Builder) Build() (Cache, error) {
	if b.consumed {
		return nil, &BuildError{CacheID: b.id, Component: "builder", Err: ErrBuilderConsumed}
	}

	b.applyDefaults()

	implFn, ok := lookupImplementation(b.implementation)
	if !ok {
		return nil, &BuildError{
			CacheID:   b.id,
			Component: b.implementation,
			Err:       fmt.Errorf("unknown implementation"),
		}
	}
	base := implFn(b.id)
	if err := b.configure(base, b.implementation); err != nil {
		return nil, err
	}

	chain := base
	if _, stock := base.(*PerpetualCache); stock {
		for _, name := range b.extras {
			decFn, ok := lookupDecorator(name)
			if !ok {
				return nil, &BuildError{CacheID: b.id, Component: name, Err: fmt.Errorf("unknown decorator")}
			}
			chain = decFn(chain)
			if err := b.configure(chain, name); err != nil {
				return nil, err
			}
		}
		chain = b.applyStandardDecorators(chain)
	} else if _, logs := base.(StatsProvider); !logs {
		// Custom implementations are not decorated; they only gain logging.
		chain = NewLoggingCache(base, b.logger)
	}

	b.consumed = true
	return chain, nil
}

func (b *Builder) applyDefaults() {
	if b.implementation == "" {
		b.implementation = ImplPerpetual
		if len(b.extras) == 0 {
			b.extras = append(b.extras, DecoratorLRU)
		}
	}
}

func (b *Builder) applyStandardDecorators(chain Cache) Cache {
	if b.size > 0 {
		if sc, ok := chain.(SizeConfigurable); ok {
			sc.SetSize(b.size)
		}
	}
	if b.clearInterval > 0 {
		scheduled := NewScheduledCache(chain)
		scheduled.SetClearInterval(b.clearInterval)
		chain = scheduled
	}
	if b.readWrite {
		chain = NewSerializedCache(chain)
	}
	chain = NewLoggingCache(chain, b.logger)
	chain = NewSynchronizedCache(chain)
	if b.blocking {
		blocking := NewBlockingCache(chain)
		blocking.SetTimeout(b.timeout)
		chain = blocking
	}
	return chain
}

// configure applies free-form properties and runs the post-construction
// hook for one component of the chain.
func (b *Builder) configure(c Cache, component string) error {
	if len(b.properties) > 0 {
		if pc, ok := c.(PropertyConfigurable); ok {
			if err := pc.ApplyProperties(b.properties); err != nil {
				return &BuildError{CacheID: b.id, Component: component, Err: err}
			}
		}
	}
	if init, ok := c.(Initializable); ok {
		if err := init.Init(); err != nil {
			return &BuildError{CacheID: b.id, Component: component, Err: err}
		}
	}
	return nil
}
