package handlers

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/tanvirio/openblog/backend/internal/models"
	"github.com/tanvirio/openblog/backend/internal/repositories"
)

const maxUploadBytes = 5 << 20 // 5 MB

// MediaHandler handles file uploads and serving from the media store.
type MediaHandler struct {
	mediaRepo repositories.MediaRepository
	userRepo  repositories.UserRepository
}

func NewMediaHandler(mediaRepo repositories.MediaRepository, userRepo repositories.UserRepository) *MediaHandler {
	return &MediaHandler{mediaRepo: mediaRepo, userRepo: userRepo}
}

// Upload accepts one or more multipart images or videos, each up to 5 MB,
// stores them under random names and returns the URLs to serve them from.
func (h *MediaHandler) Upload(c echo.Context) error {
	if _, err := requireActiveUser(c, h.userRepo); err != nil {
		return err
	}

	form, err := c.MultipartForm()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid multipart form")
	}
	files := form.File["files"]
	if len(files) == 0 {
		files = form.File["file"]
	}
	if len(files) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing files")
	}

	type stored struct {
		Name string `json:"name"`
		URL  string `json:"url"`
	}
	results := make([]stored, 0, len(files))
	for _, fileHeader := range files {
		name, err := h.storeOne(c, fileHeader)
		if err != nil {
			return err
		}
		results = append(results, stored{Name: name, URL: "/api/v1/media/" + name})
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"data":    results,
	})
}

func (h *MediaHandler) storeOne(c echo.Context, fileHeader *multipart.FileHeader) (string, error) {
	if fileHeader.Size > maxUploadBytes {
		return "", echo.NewHTTPError(http.StatusRequestEntityTooLarge, "File exceeds the 5 MB limit")
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") && !strings.HasPrefix(contentType, "video/") {
		return "", echo.NewHTTPError(http.StatusBadRequest, "Only image and video uploads are allowed")
	}

	src, err := fileHeader.Open()
	if err != nil {
		return "", echo.NewHTTPError(http.StatusInternalServerError, "Failed to read upload")
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, maxUploadBytes+1))
	if err != nil {
		return "", echo.NewHTTPError(http.StatusInternalServerError, "Failed to read upload")
	}
	if len(data) > maxUploadBytes {
		return "", echo.NewHTTPError(http.StatusRequestEntityTooLarge, "File exceeds the 5 MB limit")
	}

	name, err := randomFileName(fileHeader.Filename)
	if err != nil {
		return "", echo.NewHTTPError(http.StatusInternalServerError, "Failed to store upload")
	}

	file := &models.MediaFile{
		Name:        name,
		ContentType: contentType,
		Size:        int64(len(data)),
		Data:        data,
	}
	if err := h.mediaRepo.SaveFile(c.Request().Context(), file); err != nil {
		return "", echo.NewHTTPError(http.StatusInternalServerError, "Failed to store upload")
	}
	return name, nil
}

// Serve streams a stored upload with its original content type.
func (h *MediaHandler) Serve(c echo.Context) error {
	name := c.Param("name")
	if name == "" || strings.ContainsAny(name, "/\\") {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid file name")
	}

	file, err := h.mediaRepo.GetFile(c.Request().Context(), name)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "File not found")
	}
	return c.Blob(http.StatusOK, file.ContentType, file.Data)
}

// randomFileName keeps the original extension on a random hex stem.
func randomFileName(original string) (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	ext := strings.ToLower(filepath.Ext(original))
	return fmt.Sprintf("%s%s", hex.EncodeToString(buf), ext), nil
}
