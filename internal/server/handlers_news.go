package server

import (
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/AhemdNada/alx-company/internal/domain"
	apperrors "github.com/AhemdNada/alx-company/internal/errors"
)

// newsForm is the multipart body of news create and update calls. Each new
// image file is paired positionally with an orientation value; orientations
// beyond the supplied ones default to horizontal. On update, keepImages lists
// the URLs of existing images that must survive.
type newsForm struct {
	Title        string
	Summary      *string
	Content      string
	Images       []*multipart.FileHeader
	Orientations []string
	KeepImages   []string
}

func parseNewsForm(c echo.Context) *newsForm {
	return &newsForm{
		Title:        strings.TrimSpace(c.FormValue("title")),
		Summary:      formPtr(c, "summary"),
		Content:      strings.TrimSpace(c.FormValue("content")),
		Images:       formFiles(c, "images"),
		Orientations: formValues(c, "orientations"),
		KeepImages:   formValues(c, "keepImages"),
	}
}

func (f *newsForm) Validate() error {
	err := apperrors.ValidationError("invalid news item")
	if f.Title == "" {
		err = err.WithField("title", "title is required")
	} else if len(f.Title) > 300 {
		err = err.WithField("title", "title must be at most 300 characters")
	}
	if f.Content == "" {
		err = err.WithField("content", "content is required")
	}
	for _, raw := range f.Orientations {
		if !domain.ImageOrientation(raw).Valid() {
			err = err.WithField("orientations", "orientation must be vertical or horizontal")
			break
		}
	}
	if len(f.Orientations) > len(f.Images) {
		err = err.WithField("orientations", "more orientations than uploaded images")
	}
	if len(err.Fields) > 0 {
		return err
	}
	return nil
}

func (f *newsForm) fields() domain.NewsFields {
	return domain.NewsFields{Title: f.Title, Summary: f.Summary, Content: f.Content}
}

func (f *newsForm) orientationAt(i int) domain.ImageOrientation {
	if i < len(f.Orientations) {
		return domain.ImageOrientation(f.Orientations[i])
	}
	return domain.OrientationHorizontal
}

// saveNewsImages stores the uploaded files and pairs each with its
// orientation. On a mid-way failure the already-stored files are released.
func (s *Server) saveNewsImages(form *newsForm) ([]domain.NewNewsImage, error) {
	images := make([]domain.NewNewsImage, 0, len(form.Images))
	for i, file := range form.Images {
		url, err := s.uploads.Save(file, "news")
		if err != nil {
			for _, img := range images {
				_ = s.uploads.Remove(img.URL)
			}
			return nil, apperrors.InternalError("failed to store uploaded image", err)
		}
		images = append(images, domain.NewNewsImage{URL: url, Orientation: form.orientationAt(i)})
	}
	return images, nil
}

// releaseNewsImages removes freshly stored uploads again when the write they
// were saved for does not happen.
func (s *Server) releaseNewsImages(images []domain.NewNewsImage) {
	for _, img := range images {
		_ = s.uploads.Remove(img.URL)
	}
}

func (s *Server) handleListNews(c echo.Context) error {
	items, err := s.content.ListNews(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

func (s *Server) handleGetNews(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	item, err := s.content.GetNews(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, item)
}

func (s *Server) handleCreateNews(c echo.Context) error {
	form := parseNewsForm(c)
	if err := form.Validate(); err != nil {
		return err
	}
	images, err := s.saveNewsImages(form)
	if err != nil {
		return err
	}

	item, err := s.content.CreateNews(c.Request().Context(), form.fields(), images)
	if err != nil {
		s.releaseNewsImages(images)
		return err
	}
	return c.JSON(http.StatusCreated, item)
}

func (s *Server) handleUpdateNews(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	form := parseNewsForm(c)
	if err := form.Validate(); err != nil {
		return err
	}
	images, err := s.saveNewsImages(form)
	if err != nil {
		return err
	}

	item, err := s.content.UpdateNews(c.Request().Context(), id, form.fields(), form.KeepImages, images)
	if err != nil {
		s.releaseNewsImages(images)
		return err
	}
	return c.JSON(http.StatusOK, item)
}

func (s *Server) handleDeleteNews(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := s.content.DeleteNews(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
