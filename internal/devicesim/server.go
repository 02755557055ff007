package devicesim

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tinytelemetry/dronepanel/internal/model"
)

// Server exposes a Device over the HTTP endpoints the panel polls.
type Server struct {
	addr   string
	device *Device
	server *http.Server
}

// NewServer creates a simulator server for device.
func NewServer(addr string, device *Device) *Server {
	if addr == "" {
		addr = model.DefaultSimulatorAddr
	}
	return &Server{addr: addr, device: device}
}

// Handler builds the gin engine with all simulator routes.
func (s *Server) Handler() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery())

	app := r.Group("/app")
	app.GET("/isvideoon", s.handleIsVideoOn)
	app.GET("/isframeavailable", s.handleIsFrameAvailable)
	app.GET("/videoframe", s.handleVideoFrame)
	app.GET("/photo/:index", s.handlePhoto)
	app.POST("/photo", s.handleTakePicture)
	app.DELETE("/photo/:index", s.handleDeletePhoto)
	app.POST("/video/on", s.handleVideo(true))
	app.POST("/video/off", s.handleVideo(false))

	return r
}

// Start begins serving in the background.
func (s *Server) Start() error {
	s.server = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	s.addr = listener.Addr().String()

	go s.server.Serve(listener)
	return nil
}

// Addr returns the bound address once Start has succeeded.
func (s *Server) Addr() string {
	return s.addr
}

// Stop gracefully shuts down the server.
func (s *Server) Stop() error {
	if s.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func (s *Server) handleIsVideoOn(c *gin.Context) {
	c.String(http.StatusOK, yesNo(s.device.VideoOn()))
}

func (s *Server) handleIsFrameAvailable(c *gin.Context) {
	c.String(http.StatusOK, yesNo(s.device.FrameAvailable()))
}

func (s *Server) handleVideoFrame(c *gin.Context) {
	frame := s.device.Frame()
	if len(frame) == 0 {
		c.Status(http.StatusNotFound)
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "image/jpeg", frame)
}

func (s *Server) handlePhoto(c *gin.Context) {
	idx, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}
	photo := s.device.Photo(idx)
	if len(photo) == 0 {
		c.Status(http.StatusNotFound)
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "image/jpeg", photo)
}

func (s *Server) handleTakePicture(c *gin.Context) {
	slot, err := s.device.TakePicture()
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"slot": slot})
}

func (s *Server) handleDeletePhoto(c *gin.Context) {
	idx, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid photo index"})
		return
	}
	if err := s.device.DeletePhoto(idx); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleVideo(on bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		s.device.SetVideo(on)
		c.JSON(http.StatusOK, gin.H{"video_on": on})
	}
}
