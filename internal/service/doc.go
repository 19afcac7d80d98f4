// Package service provides the registry that routes tool calls to providers.
//
// Tool IDs have the form "<service>.<tool>"; the registry picks the provider by
// the service part and hands it the full ID.
//
// Example Usage:
//
//	registry := service.NewRegistry()
//	registry.Register(filesystem.NewProvider(store, &mu))
//	result, err := registry.Execute(ctx, "filesystem.read", params, appCtx)
package service
