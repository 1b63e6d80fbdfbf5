// Package debugserver contains the optional developer HTTP sidecar: a
// gin router exposing worker stats, the capability snapshot and recorder
// status as JSON, plus net/http/pprof profiles. Off by default, gated by
// configuration — this is observability, not the presentation UI.
package debugserver

import (
	"context"
	"net/http"

	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"

	"github.com/smartscope-embedded/smartscope/internal/logger"
)

type parent interface {
	logger.Writer
}

// StatusProvider supplies the JSON payload for /status; implemented by
// the façade so this package never imports it directly.
type StatusProvider interface {
	DebugStatus() interface{}
}

// Server is the debug HTTP sidecar.
type Server struct {
	Address string
	Status  StatusProvider
	Parent  parent

	httpServer *http.Server
}

// Initialize starts listening. Callers must check the configuration gate
// before constructing a Server; Initialize does not check it itself.
func (s *Server) Initialize() error {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	pprof.Register(router)

	router.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, s.Status.DebugStatus())
	})

	s.httpServer = &http.Server{
		Addr:    s.Address,
		Handler: router,
	}

	ln, err := newListener(s.Address)
	if err != nil {
		return err
	}

	go s.httpServer.Serve(ln) //nolint:errcheck

	s.Log(logger.Info, "listener opened on %s", s.Address)

	return nil
}

// Close stops the debug server.
func (s *Server) Close() {
	s.Log(logger.Info, "listener is closing")
	s.httpServer.Shutdown(context.Background()) //nolint:errcheck
}

// Log implements logger.Writer.
func (s *Server) Log(level logger.Level, format string, args ...interface{}) {
	s.Parent.Log(level, "[debugserver] "+format, args...)
}
