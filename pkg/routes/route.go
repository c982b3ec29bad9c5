// Package routes declares HTTP routes as data so handlers can describe
// their surface and register it against a mux in one pass.
package routes

import "net/http"

// Route binds an HTTP method and pattern to a handler.
type Route struct {
	Method  string
	Pattern string
	Handler http.HandlerFunc
}
