package server

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	apperrors "github.com/AhemdNada/alx-company/internal/errors"
)

// tickerRequest is the body of ticker create and update calls. IsActive
// defaults to true when omitted.
type tickerRequest struct {
	Message  string `json:"message"`
	IsActive *bool  `json:"isActive"`
}

func (r *tickerRequest) Validate() error {
	err := apperrors.ValidationError("invalid ticker message")
	r.Message = strings.TrimSpace(r.Message)
	if r.Message == "" {
		err = err.WithField("message", "message is required")
	} else if len(r.Message) > 500 {
		err = err.WithField("message", "message must be at most 500 characters")
	}
	if len(err.Fields) > 0 {
		return err
	}
	return nil
}

func (r *tickerRequest) active() bool {
	if r.IsActive == nil {
		return true
	}
	return *r.IsActive
}

func (s *Server) handleListTicker(c echo.Context) error {
	messages, err := s.content.ListTicker(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messages)
}

func (s *Server) handleCreateTicker(c echo.Context) error {
	var req tickerRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}
	if err := req.Validate(); err != nil {
		return err
	}

	ticker, err := s.content.CreateTicker(c.Request().Context(), req.Message, req.active())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, ticker)
}

func (s *Server) handleUpdateTicker(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req tickerRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}
	if err := req.Validate(); err != nil {
		return err
	}

	ticker, err := s.content.UpdateTicker(c.Request().Context(), id, req.Message, req.active())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ticker)
}

func (s *Server) handleDeleteTicker(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := s.content.DeleteTicker(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
