// Package server provides the HTTP server for lecturekit: a Gin engine on a
// root mux, served with h2c, wrapped in net/http middleware and managed as a
// component.
//
// Middleware (server/middleware) runs outermost first: recovery, request id,
// CORS, per-client rate limiting, body size limit, request logging.
//
// Default endpoints (server/endpoint): /health, /alive, /ready, /info, /metrics.
package server
