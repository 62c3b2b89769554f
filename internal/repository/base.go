package repository

import (
	"context"

	"marketplace/internal/observability"
)

const (
	tableUsers    = "users"
	tableListings = "listings"
)

// observe opens a repository span and starts the latency timer. The returned
// func must be called with the final error of the call.
func observe(ctx context.Context, table, method string) (context.Context, func(error)) {
	ctx, finish := observability.StartRepositorySpan(ctx, table, method)
	stop := observability.TrackQuery(method, table)
	return ctx, func(err error) {
		stop()
		finish(err)
	}
}
