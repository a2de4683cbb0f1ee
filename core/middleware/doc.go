// Package middleware contains HTTP middleware for the Fiber application.
//
// # Components
//
//   - Auth: API key validation protecting the bucket routes.
//   - RayID: a unique request ID (RayID) for every incoming request,
//     stored in the context and echoed in the response headers for tracing.
package middleware
