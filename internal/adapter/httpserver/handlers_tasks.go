package httpserver

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	apperrors "github.com/pscheid92/taskmaster/internal/platform/errors"
)

const taskFormField = "task"

func (s *Server) registerTaskRoutes(mutating ...echo.MiddlewareFunc) {
	s.echo.GET("/", s.handleIndex)
	s.echo.POST("/add", s.handleAddTask, mutating...)
	s.echo.POST("/delete", s.handleDeleteTask, mutating...)
}

func (s *Server) handleIndex(c echo.Context) error {
	board := s.app.Board(c.Request().Context())

	data := map[string]any{
		"Tasks":            board.Tasks,
		"Count":            len(board.Tasks),
		"Hostname":         board.Hostname.Name,
		"HostnameFallback": board.Hostname.Fallback,
	}

	return s.renderTemplate(c, "index.html", data)
}

// handleAddTask never reports whether the task was stored; blank input is
// dropped silently and the client is always sent back to the board.
func (s *Server) handleAddTask(c echo.Context) error {
	task, err := taskFromForm(c)
	if err != nil {
		return err
	}

	s.app.AddTask(c.Request().Context(), task)
	return redirectToBoard(c)
}

// handleDeleteTask removes the first exact match; unknown tasks are ignored.
func (s *Server) handleDeleteTask(c echo.Context) error {
	task, err := taskFromForm(c)
	if err != nil {
		return err
	}

	s.app.DeleteTask(c.Request().Context(), task)
	return redirectToBoard(c)
}

// taskFromForm returns the raw, untrimmed task field. A missing field yields "".
// Errors raised by echo while the body is read, such as the body limit's 413,
// are returned as they are so echo can answer with their status.
func taskFromForm(c echo.Context) (string, error) {
	if _, err := c.FormParams(); err != nil {
		if httpErr, ok := errors.AsType[*echo.HTTPError](err); ok {
			return "", httpErr
		}
		return "", apperrors.ValidationError("invalid form body", err)
	}
	return c.FormValue(taskFormField), nil
}

func redirectToBoard(c echo.Context) error {
	if err := c.Redirect(http.StatusFound, "/"); err != nil {
		return fmt.Errorf("failed to redirect: %w", err)
	}
	return nil
}
