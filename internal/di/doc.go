// Package di provides a dependency injection container for callbridge.
//
// It supports eager, lazy, and singleton registration modes with type-safe
// resolution using Go generics. The container manages service dependencies
// and their lifecycle during bootstrap.
//
// # Registration
//
//	container.RegisterSingleton(di.App.CallRegistry, registry)
//
// # Resolution
//
//	reg := di.MustResolve[*call.Registry](container, di.App.CallRegistry)
package di
