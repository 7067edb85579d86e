// ABOUTME: HTTP binding for the tool registry on Echo with JWT session auth
// ABOUTME: Serves /health and /metrics openly and the /api tool routes behind HS256 tokens
package web

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"github.com/harperreed/civibridge/handlers"
	"github.com/harperreed/civibridge/session"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// maxArgsBytes bounds a tool call request body.
const maxArgsBytes = 1 << 20

type Server struct {
	echo   *echo.Echo
	addr   string
	reg    *handlers.Registry
	logger *slog.Logger
}

// ToolInfo describes one tool for GET /api/tools.
type ToolInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	InputSchema any    `json:"input_schema"`
}

// NewServer builds the Echo server. Every /api route requires a session
// token signed with jwtSecret.
func NewServer(reg *handlers.Registry, jwtSecret, addr string, log *slog.Logger) (*Server, error) {
	if jwtSecret == "" {
		return nil, errors.New("jwt secret is required for the HTTP server")
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		echo:   echo.New(),
		addr:   addr,
		reg:    reg,
		logger: log.With(slog.String("component", "server")),
	}

	e := s.echo
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus: true,
		LogURI:    true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			s.logger.Info("request",
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
				slog.String("remote_ip", c.RealIP()),
			)
			return nil
		},
	}))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api",
		echojwt.WithConfig(echojwt.Config{
			SigningKey:    []byte(jwtSecret),
			SigningMethod: jwt.SigningMethodHS256.Alg(),
			NewClaimsFunc: func(echo.Context) jwt.Claims {
				return new(session.Claims)
			},
		}),
		identityMiddleware,
	)
	api.GET("/tools", s.listTools)
	api.POST("/tools/:name", s.callTool)

	return s, nil
}

// identityMiddleware moves the verified claims onto the request context.
func identityMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, ok := c.Get("user").(*jwt.Token)
		if !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing session token")
		}
		claims, ok := token.Claims.(*session.Claims)
		if !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid session claims")
		}
		id, err := claims.Identity()
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
		}

		req := c.Request()
		c.SetRequest(req.WithContext(session.WithIdentity(req.Context(), id)))
		return next(c)
	}
}

func (s *Server) listTools(c echo.Context) error {
	list := s.reg.List()
	out := make([]ToolInfo, len(list))
	for i, t := range list {
		out[i] = ToolInfo{Name: t.Name, Description: t.Description, InputSchema: t.InputSchema}
	}
	return c.JSON(http.StatusOK, out)
}

// callTool always answers 200 with the result envelope once the tool
// exists; tool failures are reported inside the envelope.
func (s *Server) callTool(c echo.Context) error {
	name := c.Param("name")
	if _, ok := s.reg.Lookup(name); !ok {
		return echo.NewHTTPError(http.StatusNotFound, fmt.Sprintf("unknown tool: %s", name))
	}

	args, err := io.ReadAll(io.LimitReader(c.Request().Body, maxArgsBytes))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	res := s.reg.Call(c.Request().Context(), name, args)
	return c.JSON(http.StatusOK, res)
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start starts the HTTP server (blocks until shutdown).
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", slog.String("addr", s.addr))
	if err := s.echo.Start(s.addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to serve: %w", err)
	}
	return nil
}

// Stop gracefully shuts down the server using the given context.
func (s *Server) Stop(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
