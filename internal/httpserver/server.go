package httpserver

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tinytelemetry/dronepanel/internal/model"
)

// StateSource provides the latest panel snapshot.
type StateSource interface {
	Snapshot() model.Snapshot
}

// Selector forwards selection requests to the panel event loop.
// SelectPhoto waits for the loop to apply the request and reports whether
// the slot was pinned.
type Selector interface {
	SelectLive()
	SelectPhoto(ctx context.Context, index int) (bool, error)
}

// selectTimeout bounds how long a request waits for the panel loop.
const selectTimeout = 2 * time.Second

// Server provides an HTTP API for reading and steering the panel.
type Server struct {
	addr      string
	state     StateSource
	selector  Selector
	server    *http.Server
	ctx       context.Context
	cancel    context.CancelFunc
	startTime time.Time
}

// NewServer creates a new HTTP API server.
func NewServer(addr string, state StateSource, selector Selector) *Server {
	if addr == "" {
		addr = model.DefaultAPIAddr
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		addr:      addr,
		state:     state,
		selector:  selector,
		ctx:       ctx,
		cancel:    cancel,
		startTime: time.Now(),
	}
}

// Handler builds the gin engine with all API routes.
func (s *Server) Handler() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/api/health", s.handleHealth)
	r.GET("/api/state", s.handleState)
	r.POST("/api/select/live", s.handleSelectLive)
	r.POST("/api/select/photo/:index", s.handleSelectPhoto)

	return r
}

// Start begins serving HTTP requests.
func (s *Server) Start() error {
	gin.SetMode(gin.ReleaseMode)

	s.server = &http.Server{
		Handler:           s.Handler(),
		BaseContext:       func(_ net.Listener) context.Context { return s.ctx },
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}

	s.startTime = time.Now()

	go s.server.Serve(listener)
	return nil
}

// Stop gracefully shuts down the HTTP server.
func (s *Server) Stop() error {
	s.cancel()
	if s.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"uptime": time.Since(s.startTime).String(),
	})
}

func (s *Server) handleState(c *gin.Context) {
	c.JSON(http.StatusOK, s.state.Snapshot())
}

func (s *Server) handleSelectLive(c *gin.Context) {
	s.selector.SelectLive()
	c.JSON(http.StatusAccepted, gin.H{"selected": model.SelectionLive})
}

func (s *Server) handleSelectPhoto(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "index must be an integer"})
		return
	}

	if index < 0 || index >= len(s.state.Snapshot().Slots) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "index out of range"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), selectTimeout)
	defer cancel()

	pinned, err := s.selector.SelectPhoto(ctx, index)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "panel did not answer"})
		return
	}
	if !pinned {
		c.JSON(http.StatusConflict, gin.H{"error": "photo slot is empty"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"selected": model.SelectionPhoto, "slot": index})
}
