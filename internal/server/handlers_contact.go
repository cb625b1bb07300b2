package server

import (
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/AhemdNada/alx-company/internal/domain"
	apperrors "github.com/AhemdNada/alx-company/internal/errors"
)

var (
	nameRe  = regexp.MustCompile(`^[\p{L}\s.'-]+$`)
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// contactSubmitRequest is the public contact form body.
type contactSubmitRequest struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Subject        string `json:"subject"`
	Message        string `json:"message"`
	RecaptchaToken string `json:"recaptchaToken"`
}

func (r *contactSubmitRequest) Validate() error {
	err := apperrors.ValidationError("invalid contact message")

	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
	r.Subject = strings.TrimSpace(r.Subject)
	r.Message = strings.TrimSpace(r.Message)

	switch {
	case r.Name == "":
		err = err.WithField("name", "name is required")
	case len(r.Name) < 2 || len(r.Name) > 100:
		err = err.WithField("name", "name must be between 2 and 100 characters")
	case !nameRe.MatchString(r.Name):
		err = err.WithField("name", "name may only contain letters, spaces, hyphens, apostrophes and periods")
	}

	if r.Email == "" {
		err = err.WithField("email", "email is required")
	} else if len(r.Email) > 254 || !emailRe.MatchString(r.Email) {
		err = err.WithField("email", "a valid email address is required")
	}

	if r.Subject == "" {
		err = err.WithField("subject", "subject is required")
	} else if len(r.Subject) > 200 {
		err = err.WithField("subject", "subject must be at most 200 characters")
	}

	if len(r.Message) < 10 || len(r.Message) > 1000 {
		err = err.WithField("message", "message must be between 10 and 1000 characters")
	}

	if len(err.Fields) > 0 {
		return err
	}
	return nil
}

// contactEnvelope is the success wrapper the contact endpoints respond with.
type contactEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func (s *Server) handleSubmitContact(c echo.Context) error {
	var req contactSubmitRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}
	if err := req.Validate(); err != nil {
		return err
	}
	if err := s.captcha.Verify(c.Request().Context(), req.RecaptchaToken, c.RealIP()); err != nil {
		return err
	}

	contact, err := s.contacts.Create(c.Request().Context(), req.Name, req.Email, req.Subject, req.Message)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, contactEnvelope{
		Success: true,
		Message: "Your message has been sent successfully",
		Data:    contact,
	})
}

func (s *Server) handleListContacts(c echo.Context) error {
	filter := domain.ContactFilter{
		Search: strings.TrimSpace(c.QueryParam("search")),
	}
	if raw := c.QueryParam("is_replied"); raw != "" {
		replied, err := strconv.ParseBool(raw)
		if err != nil {
			return apperrors.ValidationError("invalid filter").WithField("is_replied", "is_replied must be true or false")
		}
		filter.IsReplied = &replied
	}
	if raw := c.QueryParam("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			return apperrors.ValidationError("invalid filter").WithField("limit", "limit must be a positive integer")
		}
		filter.Limit = limit
	}
	if raw := c.QueryParam("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil || offset < 0 {
			return apperrors.ValidationError("invalid filter").WithField("offset", "offset must be a non-negative integer")
		}
		filter.Offset = offset
	}

	contacts, err := s.contacts.List(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, contactEnvelope{Success: true, Data: contacts})
}

func (s *Server) handleContactStats(c echo.Context) error {
	stats, err := s.contacts.Stats(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, contactEnvelope{Success: true, Data: stats})
}

func (s *Server) handleGetContact(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	contact, err := s.contacts.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, contactEnvelope{Success: true, Data: contact})
}

func (s *Server) handleMarkContactReplied(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	req := struct {
		IsReplied *bool `json:"is_replied"`
	}{}
	if err := c.Bind(&req); err != nil || req.IsReplied == nil {
		return apperrors.ValidationError("invalid request body").
			WithField("is_replied", "is_replied must be a boolean value")
	}

	contact, err := s.contacts.MarkReplied(c.Request().Context(), id, *req.IsReplied)
	if err != nil {
		return err
	}

	status := "unreplied"
	if *req.IsReplied {
		status = "replied"
	}
	return c.JSON(http.StatusOK, contactEnvelope{Success: true, Message: "Contact marked as " + status, Data: contact})
}

func (s *Server) handleDeleteContact(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := s.contacts.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, contactEnvelope{Success: true, Message: "Contact message deleted"})
}
