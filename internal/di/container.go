// Package di provides a minimal service container with typed tokens.
package di

import (
	"fmt"
	"sync"
)

// ServiceRegistry is the read side of the container.
type ServiceRegistry interface {
	Get(name string) any
}

// Container registers and resolves services by name. Registration normally
// happens once at startup; resolution can happen from any goroutine.
type Container interface {
	ServiceRegistry
	Register(name string, svc any)
}

type container struct {
	mu   sync.RWMutex
	svcs map[string]any
}

// NewContainer creates an empty container.
func NewContainer() Container {
	return &container{svcs: make(map[string]any)}
}

func (c *container) Register(name string, svc any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.svcs[name] = svc
}

func (c *container) Get(name string) any {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.svcs[name]
}

// Token is a typed service key. Modules declare tokens for the services they
// expose so consumers get compile-time types instead of assertions.
type Token[T any] struct {
	name string
}

// NewToken creates a token with a unique service name.
func NewToken[T any](name string) Token[T] {
	return Token[T]{name: name}
}

// Name returns the underlying service name.
func (t Token[T]) Name() string {
	return t.name
}

// lazy defers construction to first resolve and memoizes the result.
type lazy[T any] struct {
	once    sync.Once
	factory func(ServiceRegistry) T
	v       T
}

// RegisterToken registers a factory under the token's name. The factory runs
// once, on first resolve, and may pull its own dependencies from the registry.
func RegisterToken[T any](c Container, t Token[T], factory func(ServiceRegistry) T) {
	c.Register(t.name, &lazy[T]{factory: factory})
}

// GetToken resolves the token, panicking on a missing or mistyped service:
// both are wiring bugs, not runtime conditions.
func GetToken[T any](r ServiceRegistry, t Token[T]) T {
	v := r.Get(t.name)
	if v == nil {
		panic(fmt.Sprintf("di: service %q not registered", t.name))
	}
	if l, ok := v.(*lazy[T]); ok {
		l.once.Do(func() { l.v = l.factory(r) })
		return l.v
	}
	s, ok := v.(T)
	if !ok {
		panic(fmt.Sprintf("di: service %q has type %T", t.name, v))
	}
	return s
}
