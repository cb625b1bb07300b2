package server

import (
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/AhemdNada/alx-company/internal/domain"
	apperrors "github.com/AhemdNada/alx-company/internal/errors"
)

// chairmanForm is the multipart body of chairman create and update calls.
// The image comes either as an uploaded imageFile or an external imageUrl;
// on update, removeImage clears it.
type chairmanForm struct {
	Name        string
	Subtitle    *string
	Description *string
	ImageURL    *string
	ImageFile   *multipart.FileHeader
	IsFeatured  bool
	RemoveImage bool
}

func parseChairmanForm(c echo.Context) (*chairmanForm, error) {
	file, err := formFile(c, "imageFile")
	if err != nil {
		return nil, err
	}
	return &chairmanForm{
		Name:        strings.TrimSpace(c.FormValue("name")),
		Subtitle:    formPtr(c, "subtitle"),
		Description: formPtr(c, "description"),
		ImageURL:    formPtr(c, "imageUrl"),
		ImageFile:   file,
		IsFeatured:  formBool(c, "isFeatured"),
		RemoveImage: formBool(c, "removeImage"),
	}, nil
}

func (f *chairmanForm) Validate() error {
	err := apperrors.ValidationError("invalid chairman")
	if f.Name == "" {
		err = err.WithField("name", "name is required")
	} else if len(f.Name) > 200 {
		err = err.WithField("name", "name must be at most 200 characters")
	}
	if f.ImageFile != nil && f.ImageURL != nil {
		err = err.WithField("imageUrl", "provide either an image file or an image URL, not both")
	}
	if len(err.Fields) > 0 {
		return err
	}
	return nil
}

// resolveImage saves a fresh upload if present and returns the final image
// URL given the currently stored one.
func (s *Server) resolveImage(form *chairmanForm, current *string) (*string, error) {
	switch {
	case form.ImageFile != nil:
		url, err := s.uploads.Save(form.ImageFile, form.Name)
		if err != nil {
			return nil, apperrors.InternalError("failed to store uploaded image", err)
		}
		return &url, nil
	case form.ImageURL != nil:
		return form.ImageURL, nil
	case form.RemoveImage:
		return nil, nil
	default:
		return current, nil
	}
}

func (s *Server) handleListChairmen(c echo.Context) error {
	chairmen, err := s.content.ListChairmen(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, chairmen)
}

func (s *Server) handleCreateChairman(c echo.Context) error {
	form, err := parseChairmanForm(c)
	if err != nil {
		return err
	}
	if err := form.Validate(); err != nil {
		return err
	}

	imageURL, err := s.resolveImage(form, nil)
	if err != nil {
		return err
	}

	chairman, err := s.content.CreateChairman(c.Request().Context(), domain.ChairmanFields{
		Name:        form.Name,
		Subtitle:    form.Subtitle,
		Description: form.Description,
		ImageURL:    imageURL,
		IsFeatured:  form.IsFeatured,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, chairman)
}

func (s *Server) handleUpdateChairman(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	form, err := parseChairmanForm(c)
	if err != nil {
		return err
	}
	if err := form.Validate(); err != nil {
		return err
	}

	existing, err := s.content.GetChairman(c.Request().Context(), id)
	if err != nil {
		return err
	}
	imageURL, err := s.resolveImage(form, existing.ImageURL)
	if err != nil {
		return err
	}

	chairman, err := s.content.UpdateChairman(c.Request().Context(), id, domain.ChairmanFields{
		Name:        form.Name,
		Subtitle:    form.Subtitle,
		Description: form.Description,
		ImageURL:    imageURL,
		IsFeatured:  form.IsFeatured,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, chairman)
}

func (s *Server) handleDeleteChairman(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := s.content.DeleteChairman(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
