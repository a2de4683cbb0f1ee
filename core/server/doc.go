// Package server holds the HTTP server configuration.
//
// The start command builds the Fiber application; this package only defines the
// settings it reads: the listen port and the API key protecting the routes.
package server
