package server

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	apperrors "github.com/AhemdNada/alx-company/internal/errors"
)

// sharingRateRequest is the body of sharing rate create and update calls.
type sharingRateRequest struct {
	Title      string   `json:"title"`
	Percentage *float64 `json:"percentage"`
}

func (r *sharingRateRequest) Validate() error {
	err := apperrors.ValidationError("invalid sharing rate")
	r.Title = strings.TrimSpace(r.Title)
	if r.Title == "" {
		err = err.WithField("title", "title is required")
	} else if len(r.Title) > 200 {
		err = err.WithField("title", "title must be at most 200 characters")
	}
	if r.Percentage == nil {
		err = err.WithField("percentage", "percentage is required")
	} else if *r.Percentage < 0 || *r.Percentage > 100 {
		err = err.WithField("percentage", "percentage must be between 0 and 100")
	}
	if len(err.Fields) > 0 {
		return err
	}
	return nil
}

func (s *Server) handleListSharingRates(c echo.Context) error {
	rates, err := s.content.ListSharingRates(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rates)
}

func (s *Server) handleCreateSharingRate(c echo.Context) error {
	var req sharingRateRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}
	if err := req.Validate(); err != nil {
		return err
	}

	rate, err := s.content.CreateSharingRate(c.Request().Context(), req.Title, *req.Percentage)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, rate)
}

func (s *Server) handleUpdateSharingRate(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req sharingRateRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}
	if err := req.Validate(); err != nil {
		return err
	}

	rate, err := s.content.UpdateSharingRate(c.Request().Context(), id, req.Title, *req.Percentage)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rate)
}

func (s *Server) handleDeleteSharingRate(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := s.content.DeleteSharingRate(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
