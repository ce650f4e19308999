package handler

import (
	"context"

	"github.com/mumbaitransit/mumbaitransit/internal/api/middleware"
)

// GetRequestID retrieves the request ID from the context.
// This is a convenience wrapper around middleware.GetRequestID.
func GetRequestID(ctx context.Context) string {
	return middleware.GetRequestID(ctx)
}

// GetSubject retrieves the authenticated admin subject from the context.
// This is a convenience wrapper around middleware.GetSubject.
func GetSubject(ctx context.Context) string {
	return middleware.GetSubject(ctx)
}
