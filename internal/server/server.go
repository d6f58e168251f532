// Package server is the HTTP routing glue in front of the chat service.
package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"infomate/internal/domain"
	"infomate/internal/service"
)

type Server struct {
	echo   *echo.Echo
	svc    *service.ChatService
	logger *zap.Logger
}

func New(svc *service.ChatService, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	// CORS left wide open for the browser client
	e.Use(middleware.CORS())
	e.Use(requestLogger(logger))

	s := &Server{echo: e, svc: svc, logger: logger}
	e.GET("/", s.handleStatus)
	e.POST("/chat", s.handleChat)
	return s
}

func (s *Server) Start(addr string) error {
	return s.echo.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

type chatRequest struct {
	Query     string `json:"query"`
	SessionID string `json:"session_id"`
}

type chatResponse struct {
	Answer  string           `json:"answer"`
	Sources []service.Source `json:"sources"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleChat(c echo.Context) error {
	var req chatRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}
	answer, err := s.svc.Chat(c.Request().Context(), req.Query, req.SessionID)
	if err != nil {
		return c.JSON(statusFor(err), errorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, chatResponse{Answer: answer.Answer, Sources: answer.Sources})
}

type statusResponse struct {
	Message string `json:"message"`
	service.Status
}

func (s *Server) handleStatus(c echo.Context) error {
	return c.JSON(http.StatusOK, statusResponse{
		Message: "InfoMate backend is running",
		Status:  s.svc.Status(),
	})
}

func statusFor(err error) int {
	var retrieval *domain.RetrievalError
	var generation *domain.GenerationError
	switch {
	case errors.Is(err, domain.ErrEmptyQuery):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrIndexNotReady):
		return http.StatusServiceUnavailable
	case errors.As(err, &retrieval), errors.As(err, &generation):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func requestLogger(logger *zap.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:     true,
		LogMethod:  true,
		LogStatus:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			logger.Info("request",
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
			)
			return nil
		},
	})
}
