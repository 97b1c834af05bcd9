package api

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"forest-disease/internal/metrics"
	"forest-disease/internal/report"
	"forest-disease/internal/sims/forest"
)

// MaxStepsPerRequest bounds how many ticks a single step call may run.
const MaxStepsPerRequest = 10000

// Server exposes a forest world over HTTP. The world is not safe for
// concurrent use, so every handler holds mu while touching it.
type Server struct {
	mu      sync.Mutex
	world   *forest.World
	metrics *metrics.Collector
	logger  *log.Logger
	echo    *echo.Echo
}

// StateResponse summarises the current run.
type StateResponse struct {
	Tick    int              `json:"tick"`
	Phase   forest.Phase     `json:"phase"`
	Counts  forest.Counts    `json:"counts"`
	Carrier forest.AgentView `json:"carrier"`
}

// New wires the routes for world. collector may be nil.
func New(world *forest.World, collector *metrics.Collector, logger *log.Logger) *Server {
	s := &Server{world: world, metrics: collector, logger: logger}
	if collector != nil {
		collector.Attach(world)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(s.requestLogger)

	e.GET("/health", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/api/config", s.handleConfig)
	e.GET("/api/parameters", s.handleParameters)
	e.GET("/api/state", s.handleState)
	e.GET("/api/counts", s.handleCounts)
	e.GET("/api/history", s.handleHistory)
	e.GET("/api/agents", s.handleAgents)
	e.GET("/api/chart.png", s.handleChart)
	e.POST("/api/step", s.handleStep)
	e.POST("/api/reset", s.handleReset)
	if collector != nil {
		e.GET("/metrics", echo.WrapHandler(collector.Handler()))
	}
	s.echo = e
	return s
}

// Handler returns the HTTP handler serving all routes.
func (s *Server) Handler() http.Handler { return s.echo }

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	server := &http.Server{Addr: addr, Handler: s.echo, ReadTimeout: 5 * time.Second, WriteTimeout: 30 * time.Second}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("serving forest API", "addr", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("stopping forest API")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func (s *Server) requestLogger(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		if err != nil {
			c.Error(err)
		}
		s.logger.Debug("request",
			"method", c.Request().Method,
			"path", c.Path(),
			"status", c.Response().Status,
			"took", time.Since(start),
		)
		return nil
	}
}

func (s *Server) state() StateResponse {
	return StateResponse{
		Tick:    s.world.Tick(),
		Phase:   s.world.Phase(),
		Counts:  s.world.Counts(),
		Carrier: s.world.Carrier(),
	}
}

func (s *Server) handleConfig(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return c.JSON(http.StatusOK, s.world.Config())
}

func (s *Server) handleParameters(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return c.JSON(http.StatusOK, s.world.Parameters())
}

func (s *Server) handleState(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return c.JSON(http.StatusOK, s.state())
}

func (s *Server) handleCounts(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return c.JSON(http.StatusOK, s.world.Counts())
}

func (s *Server) handleHistory(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return c.JSON(http.StatusOK, s.world.History())
}

func (s *Server) handleAgents(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return c.JSON(http.StatusOK, s.world.Agents())
}

func (s *Server) handleChart(c echo.Context) error {
	s.mu.Lock()
	history := s.world.History()
	s.mu.Unlock()

	var buf bytes.Buffer
	if err := report.WriteCountsChart(&buf, history, report.DefaultChartOptions()); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.Blob(http.StatusOK, "image/png", buf.Bytes())
}

func (s *Server) handleStep(c echo.Context) error {
	n := 1
	if raw := c.QueryParam("n"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 || parsed > MaxStepsPerRequest {
			return echo.NewHTTPError(http.StatusBadRequest, "n must be an integer in [1, "+strconv.Itoa(MaxStepsPerRequest)+"]")
		}
		n = parsed
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := 0; i < n && s.world.Running(); i++ {
		s.world.Step()
		if s.metrics != nil {
			s.metrics.ObserveTick(s.world)
		}
	}
	if !s.world.Running() {
		s.logger.Info("forest halted", "tick", s.world.Tick(), "dead", s.world.Counts().Dead)
	}
	return c.JSON(http.StatusOK, s.state())
}

func (s *Server) handleReset(c echo.Context) error {
	var seed int64
	if raw := c.QueryParam("seed"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "seed must be an integer")
		}
		seed = parsed
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.world.Reset(seed)
	if s.metrics != nil {
		s.metrics.Observe(s.world)
	}
	s.logger.Info("forest reset", "seed", s.world.Config().Seed, "trees", s.world.NumTrees())
	return c.JSON(http.StatusOK, s.state())
}
