package di

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"github.com/skillsenselab/callbridge/internal/logger"
)

// RegistrationMode determines how a component should be resolved
type RegistrationMode int

const (
	Eager     RegistrationMode = iota // Initialize immediately on registration
	Lazy                              // Initialize on first resolve
	Singleton                         // Pre-created instance
)

// Container defines the interface for a dependency injection container
type Container interface {
	Register(key string, constructor interface{}) error
	RegisterLazy(key string, constructor interface{}) error
	RegisterEager(key string, constructor interface{}) error
	RegisterSingleton(key string, instance interface{}) error
	Resolve(key string) (interface{}, error)
	Close() error

	// Introspection
	Registrations() []RegistrationInfo
}

// RegistrationInfo describes a registered component for introspection.
type RegistrationInfo struct {
	Key         string
	Mode        RegistrationMode // Eager, Lazy, or Singleton
	Initialized bool
}

// UnifiedContainer is the single DI container implementation.
type UnifiedContainer struct {
	components map[string]*componentRegistration
	singletons map[string]interface{}
	mutex      sync.RWMutex
}

type componentRegistration struct {
	key         string
	constructor interface{}
	mode        RegistrationMode
	instance    interface{}
	mutex       sync.RWMutex
	initialized bool
	lastError   error
}

// NewContainer creates a new empty container.
func NewContainer() Container {
	return &UnifiedContainer{
		components: make(map[string]*componentRegistration),
		singletons: make(map[string]interface{}),
	}
}

// Register registers a component with lazy loading by default (most common case).
func (c *UnifiedContainer) Register(key string, constructor interface{}) error {
	return c.RegisterLazy(key, constructor)
}

// RegisterLazy registers a component for initialization on first resolve.
func (c *UnifiedContainer) RegisterLazy(key string, constructor interface{}) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.components[key] = &componentRegistration{
		key:         key,
		constructor: constructor,
		mode:        Lazy,
	}
	return nil
}

// RegisterEager registers a component and initializes it immediately.
func (c *UnifiedContainer) RegisterEager(key string, constructor interface{}) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	registration := &componentRegistration{
		key:         key,
		constructor: constructor,
		mode:        Eager,
	}

	instance, err := c.callConstructor(constructor)
	if err != nil {
		return fmt.Errorf("failed to initialize eager component '%s': %w", key, err)
	}

	registration.instance = instance
	registration.initialized = true

	c.components[key] = registration
	return nil
}

// RegisterSingleton registers a pre-created instance.
func (c *UnifiedContainer) RegisterSingleton(key string, instance interface{}) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.singletons[key] = instance
	return nil
}

// Resolve gets a component instance.
func (c *UnifiedContainer) Resolve(key string) (interface{}, error) {
	// Check singletons first
	c.mutex.RLock()
	if singleton, exists := c.singletons[key]; exists {
		c.mutex.RUnlock()
		return singleton, nil
	}

	registration, exists := c.components[key]
	c.mutex.RUnlock()

	if !exists {
		return nil, fmt.Errorf("component not registered: %s", key)
	}

	switch registration.mode {
	case Eager:
		return c.resolveEager(registration)
	case Lazy:
		return c.resolveLazy(registration)
	default:
		return nil, fmt.Errorf("unknown registration mode for component: %s", registration.key)
	}
}

func (c *UnifiedContainer) resolveEager(registration *componentRegistration) (interface{}, error) {
	registration.mutex.RLock()
	defer registration.mutex.RUnlock()

	if registration.initialized && registration.instance != nil {
		return registration.instance, nil
	}
	return nil, fmt.Errorf("eager component not properly initialized: %s", registration.key)
}

func (c *UnifiedContainer) resolveLazy(registration *componentRegistration) (interface{}, error) {
	registration.mutex.RLock()
	if registration.initialized && registration.instance != nil && registration.lastError == nil {
		instance := registration.instance
		registration.mutex.RUnlock()
		return instance, nil
	}
	registration.mutex.RUnlock()

	registration.mutex.Lock()
	defer registration.mutex.Unlock()

	// Double-check after acquiring write lock
	if registration.initialized && registration.instance != nil && registration.lastError == nil {
		return registration.instance, nil
	}

	instance, err := c.callConstructor(registration.constructor)
	if err != nil {
		registration.lastError = err
		return nil, fmt.Errorf("failed to initialize lazy component '%s': %w", registration.key, err)
	}

	registration.instance = instance
	registration.initialized = true
	registration.lastError = nil

	logger.Debug("Lazy component initialized", map[string]interface{}{
		"component": registration.key,
	})
	return instance, nil
}

func (c *UnifiedContainer) callConstructor(constructor interface{}) (interface{}, error) {
	fn := reflect.ValueOf(constructor)
	if fn.Kind() != reflect.Func {
		return nil, fmt.Errorf("constructor must be a function")
	}

	fnType := fn.Type()

	// Handle different constructor signatures
	switch fnType.NumIn() {
	case 0:
		// Simple constructor: func() (Service, error) or func() Service
		results := fn.Call(nil)
		return c.handleConstructorResults(results)

	case 1:
		// Context-aware constructor: func(context.Context) (Service, error)
		if fnType.In(0).String() == "context.Context" {
			ctx := context.Background()
			results := fn.Call([]reflect.Value{reflect.ValueOf(ctx)})
			return c.handleConstructorResults(results)
		}
		fallthrough

	default:
		// DI-aware constructor: func(Container) (Service, error)
		results := fn.Call([]reflect.Value{reflect.ValueOf(c)})
		return c.handleConstructorResults(results)
	}
}

func (c *UnifiedContainer) handleConstructorResults(results []reflect.Value) (interface{}, error) {
	switch len(results) {
	case 1:
		// Constructor returns just the instance
		return results[0].Interface(), nil
	case 2:
		// Constructor returns (instance, error)
		instance := results[0].Interface()
		if err := results[1].Interface(); err != nil {
			return nil, err.(error)
		}
		return instance, nil
	default:
		return nil, fmt.Errorf("constructor must return either (instance) or (instance, error)")
	}
}

// Registrations returns info about all registered components for introspection.
func (c *UnifiedContainer) Registrations() []RegistrationInfo {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	result := make([]RegistrationInfo, 0, len(c.components)+len(c.singletons))

	for key, reg := range c.components {
		reg.mutex.RLock()
		result = append(result, RegistrationInfo{
			Key:         key,
			Mode:        reg.mode,
			Initialized: reg.initialized,
		})
		reg.mutex.RUnlock()
	}

	for key := range c.singletons {
		result = append(result, RegistrationInfo{
			Key:         key,
			Mode:        Singleton,
			Initialized: true,
		})
	}

	return result
}

// Close closes all initialized components that implement io.Closer.
func (c *UnifiedContainer) Close() error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	for _, registration := range c.components {
		if registration.initialized && registration.instance != nil {
			if closer, ok := registration.instance.(interface{ Close() error }); ok {
				closer.Close()
			}
		}
	}

	for _, singleton := range c.singletons {
		if closer, ok := singleton.(interface{ Close() error }); ok {
			closer.Close()
		}
	}

	return nil
}
