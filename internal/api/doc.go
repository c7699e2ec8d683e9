// Package api implements the HTTP REST API for the person registry.
//
// This package provides:
//   - Hypermedia person resources (self links, collection and page navigation)
//   - Read endpoints: list, page, by id, by gender
//   - Write endpoints: create, update, delete (admin only)
//   - JWT authentication with a static role-permission guard
//   - Middleware stack (request ID, logging, recovery, CORS, identity headers)
//
// # Architecture
//
// The API server sits between HTTP clients and the person query/command
// services. Handlers translate domain errors to the structured error
// envelope; they never expose internal error strings to clients.
//
// Every response carries the X-Person-API-Version and X-API-Key headers,
// echoing the request values when present and falling back to the
// configured defaults.
package api
