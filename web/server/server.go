package server

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/df07/go-mirror-raytracer/pkg/renderer"
	"github.com/df07/go-mirror-raytracer/pkg/scene"
)

// Config holds the server settings
type Config struct {
	Port       int    // Port to listen on
	ScenesDir  string // Directory searched for file: scenes
	NumWorkers int    // Render workers per request (0 = auto)
}

// Server handles web requests for the mirror raytracer
type Server struct {
	config Config
	echo   *echo.Echo
}

// NewServer creates a new web server with its routes registered
func NewServer(config Config) *Server {
	s := &Server{config: config}

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.Logger())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{http.MethodGet},
		ExposeHeaders: []string{headerRenderID, headerRenderMillis},
	}))

	e.GET("/api/render", s.handleRender)
	e.GET("/api/inspect", s.handleInspect)
	e.GET("/api/scenes", s.handleScenes)
	e.GET("/api/health", s.handleHealth)

	s.echo = e
	return s
}

// Handler exposes the routes for embedding or testing
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start starts the web server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.config.Port)
	log.Printf("Starting web server on http://localhost%s", addr)
	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// HealthResponse reports server status and host capacity
type HealthResponse struct {
	Status            string  `json:"status"`
	LogicalCPUs       int     `json:"logicalCpus"`
	PhysicalCPUs      int     `json:"physicalCpus"`
	DefaultWorkers    int     `json:"defaultWorkers"`
	MemoryTotal       uint64  `json:"memoryTotal"`
	MemoryAvailable   uint64  `json:"memoryAvailable"`
	MemoryUsedPercent float64 `json:"memoryUsedPercent"`
}

// handleHealth reports status plus CPU and memory figures. Host queries
// that fail leave their fields zero.
func (s *Server) handleHealth(c echo.Context) error {
	response := HealthResponse{
		Status:         "ok",
		DefaultWorkers: renderer.DefaultWorkerCount(),
	}
	if n, err := cpu.Counts(true); err == nil {
		response.LogicalCPUs = n
	}
	if n, err := cpu.Counts(false); err == nil {
		response.PhysicalCPUs = n
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		response.MemoryTotal = vm.Total
		response.MemoryAvailable = vm.Available
		response.MemoryUsedPercent = vm.UsedPercent
	}
	return c.JSON(http.StatusOK, response)
}

// handleScenes lists built-in scenes followed by scene files
func (s *Server) handleScenes(c echo.Context) error {
	scenes, err := scene.ListAllScenes(s.config.ScenesDir)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, scenes)
}
