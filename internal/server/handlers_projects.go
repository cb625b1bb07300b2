package server

import (
	"encoding/json"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/AhemdNada/alx-company/internal/domain"
	apperrors "github.com/AhemdNada/alx-company/internal/errors"
)

// projectForm is the multipart body of project create and update calls.
// details is a JSON array of {label, value} pairs; updates replace the whole
// detail set. keepImages works like the news form.
type projectForm struct {
	Title       string
	Description *string
	Category    string
	Images      []*multipart.FileHeader
	KeepImages  []string
	DetailsRaw  string

	details []domain.DetailFields
}

func parseProjectForm(c echo.Context) *projectForm {
	return &projectForm{
		Title:       strings.TrimSpace(c.FormValue("title")),
		Description: formPtr(c, "description"),
		Category:    strings.TrimSpace(c.FormValue("category")),
		Images:      formFiles(c, "images"),
		KeepImages:  formValues(c, "keepImages"),
		DetailsRaw:  strings.TrimSpace(c.FormValue("details")),
	}
}

func (f *projectForm) Validate() error {
	err := apperrors.ValidationError("invalid project")
	if f.Title == "" {
		err = err.WithField("title", "title is required")
	} else if len(f.Title) > 300 {
		err = err.WithField("title", "title must be at most 300 characters")
	}
	if !domain.ProjectCategory(f.Category).Valid() {
		err = err.WithField("category", "category must be major_projects, replacement_renovation or geographical_region")
	}

	f.details = nil
	if f.DetailsRaw != "" {
		var details []struct {
			Label string `json:"label"`
			Value string `json:"value"`
		}
		if jsonErr := json.Unmarshal([]byte(f.DetailsRaw), &details); jsonErr != nil {
			err = err.WithField("details", "details must be a JSON array of {label, value} objects")
		} else {
			for _, d := range details {
				label := strings.TrimSpace(d.Label)
				value := strings.TrimSpace(d.Value)
				if label == "" || value == "" {
					err = err.WithField("details", "every detail needs a non-empty label and value")
					break
				}
				f.details = append(f.details, domain.DetailFields{Label: label, Value: value})
			}
		}
	}

	if len(err.Fields) > 0 {
		return err
	}
	return nil
}

func (f *projectForm) fields() domain.ProjectFields {
	return domain.ProjectFields{
		Title:       f.Title,
		Description: f.Description,
		Category:    domain.ProjectCategory(f.Category),
	}
}

// saveProjectImages stores the uploaded files, releasing them again when one
// in the middle fails.
func (s *Server) saveProjectImages(form *projectForm) ([]string, error) {
	urls := make([]string, 0, len(form.Images))
	for _, file := range form.Images {
		url, err := s.uploads.Save(file, "project")
		if err != nil {
			for _, stored := range urls {
				_ = s.uploads.Remove(stored)
			}
			return nil, apperrors.InternalError("failed to store uploaded image", err)
		}
		urls = append(urls, url)
	}
	return urls, nil
}

func (s *Server) releaseProjectImages(urls []string) {
	for _, url := range urls {
		_ = s.uploads.Remove(url)
	}
}

func (s *Server) handleListProjects(c echo.Context) error {
	var category *domain.ProjectCategory
	if raw := strings.TrimSpace(c.QueryParam("category")); raw != "" {
		parsed := domain.ProjectCategory(raw)
		if !parsed.Valid() {
			return apperrors.ValidationError("invalid category").
				WithField("category", "category must be major_projects, replacement_renovation or geographical_region")
		}
		category = &parsed
	}

	projects, err := s.content.ListProjects(c.Request().Context(), category)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, projects)
}

func (s *Server) handleGetProject(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	project, err := s.content.GetProject(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, project)
}

func (s *Server) handleCreateProject(c echo.Context) error {
	form := parseProjectForm(c)
	if err := form.Validate(); err != nil {
		return err
	}
	urls, err := s.saveProjectImages(form)
	if err != nil {
		return err
	}

	project, err := s.content.CreateProject(c.Request().Context(), form.fields(), urls, form.details)
	if err != nil {
		s.releaseProjectImages(urls)
		return err
	}
	return c.JSON(http.StatusCreated, project)
}

func (s *Server) handleUpdateProject(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	form := parseProjectForm(c)
	if err := form.Validate(); err != nil {
		return err
	}
	urls, err := s.saveProjectImages(form)
	if err != nil {
		return err
	}

	project, err := s.content.UpdateProject(c.Request().Context(), id, form.fields(), form.KeepImages, urls, form.details)
	if err != nil {
		s.releaseProjectImages(urls)
		return err
	}
	return c.JSON(http.StatusOK, project)
}

func (s *Server) handleDeleteProject(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := s.content.DeleteProject(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
