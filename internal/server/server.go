// Package server hosts games over a small REST API.
package server

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/hailam/sage/internal/board"
	"github.com/hailam/sage/internal/game"
)

// Server wires the game manager to fiber routes.
type Server struct {
	app     *fiber.App
	manager *Manager
}

// New creates a server. recorder may be nil. Middleware runs ahead of every
// route in the order given.
func New(recorder Recorder, logger *log.Logger, middleware ...fiber.Handler) *Server {
	s := &Server{
		app: fiber.New(fiber.Config{
			AppName:               "sage",
			DisableStartupMessage: true,
		}),
		manager: NewManager(recorder, logger),
	}
	for _, h := range middleware {
		s.app.Use(h)
	}
	s.routes()
	return s
}

// App returns the underlying fiber app.
func (s *Server) App() *fiber.App {
	return s.app
}

// Manager returns the game manager.
func (s *Server) Manager() *Manager {
	return s.manager
}

// Listen serves on addr until Shutdown.
func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

// Shutdown stops the listener gracefully.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func (s *Server) routes() {
	api := s.app.Group("/api")

	games := api.Group("/games")
	games.Post("/", s.createGame)
	games.Get("/:gameId", s.getGame)
	games.Post("/:gameId/moves", s.playMove)
	games.Post("/:gameId/autoplay", s.autoplay)
}

type createRequest struct {
	Seed int64 `json:"seed"`
}

type moveRequest struct {
	Index *int `json:"index"`
}

func (s *Server) createGame(c *fiber.Ctx) error {
	var req createRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid request body",
			})
		}
	}

	view, err := s.manager.Create(req.Seed)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(view)
}

func (s *Server) getGame(c *fiber.Ctx) error {
	view, err := s.manager.View(c.Params("gameId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(view)
}

func (s *Server) playMove(c *fiber.Ctx) error {
	var req moveRequest
	if err := c.BodyParser(&req); err != nil || req.Index == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "body must be {\"index\": n}",
		})
	}

	view, err := s.manager.Play(c.Params("gameId"), *req.Index)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(view)
}

func (s *Server) autoplay(c *fiber.Ctx) error {
	view, err := s.manager.Autoplay(c.UserContext(), c.Params("gameId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(view)
}

// writeError maps domain errors onto status codes.
func writeError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, ErrGameNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, game.ErrGameOver):
		status = fiber.StatusConflict
	case errors.Is(err, game.ErrInvalidMoveNumber), errors.Is(err, board.ErrInvalidMove):
		status = fiber.StatusBadRequest
	}
	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
	})
}
