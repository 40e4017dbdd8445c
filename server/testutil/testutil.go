// Package testutil starts a fully wired server on an httptest listener.
package testutil

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/lecturekit/logger"
	"github.com/kbukum/lecturekit/server"
)

// NewServer builds a server with the standard middleware stack, lets
// register add routes, and serves it until the test ends.
func NewServer(t testing.TB, cfg server.Config, register func(*gin.Engine)) (*server.Server, *httptest.Server) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	srv := server.New(cfg, logger.NewNop())
	srv.ApplyMiddleware()
	if register != nil {
		register(srv.GinEngine())
	}

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return srv, ts
}
