package handlers

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	portssvc "github.com/kevkotuto/freelance_backend/internal/core/ports/services"
	"github.com/kevkotuto/freelance_backend/internal/dto"
	"github.com/kevkotuto/freelance_backend/internal/middleware"
)

// multipartOverhead leaves room for the multipart envelope around the file part.
const multipartOverhead = 1 << 20

// fileHandler handles uploads and downloads.
type fileHandler struct {
	fileService    portssvc.FileSvcFacade
	maxUploadBytes int64
}

func registerFileRoutes(rg *gin.RouterGroup, fileService portssvc.FileSvcFacade, maxUploadBytes int64) {
	h := &fileHandler{fileService: fileService, maxUploadBytes: maxUploadBytes}

	files := rg.Group("/files")
	{
		files.POST("", h.uploadFile)
		files.GET("", h.listFiles)
		files.GET("/:id/download", h.downloadFile)
		files.DELETE("/:id", h.deleteFile)
	}
}

// uploadFile godoc
// @Summary Upload a file
// @Tags files
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "File"
// @Param projectId formData string false "Project ID"
// @Success 201 {object} dto.FileResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 413 {object} dto.ErrorResponse "File too large"
// @Security BearerAuth
// @Router /files [post]
func (h *fileHandler) uploadFile(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes+multipartOverhead)
	header, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, dto.ErrorResponse{Error: "File exceeds " + strconv.FormatInt(h.maxUploadBytes, 10) + " bytes"})
			return
		}
		logger.Warn("Missing upload", slog.String("error", err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, dto.ErrorResponse{Error: "A file part named 'file' is required"})
		return
	}
	if header.Size > h.maxUploadBytes {
		c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, dto.ErrorResponse{Error: "File exceeds " + strconv.FormatInt(h.maxUploadBytes, 10) + " bytes"})
		return
	}

	src, err := header.Open()
	if err != nil {
		respondError(c, err, "Failed to read upload")
		return
	}
	defer src.Close()

	stored, err := h.fileService.Upload(c.Request.Context(), userID, portssvc.UploadInput{
		ProjectID:    optionalString(c.PostForm("projectId")),
		OriginalName: header.Filename,
		MimeType:     header.Header.Get("Content-Type"),
		Content:      src,
	})
	if err != nil {
		respondError(c, err, "Failed to store file")
		return
	}
	logger.Info("File uploaded", slog.String("file_id", stored.FileID), slog.Int64("size", stored.SizeBytes))
	c.JSON(http.StatusCreated, dto.ToFileResponse(stored))
}

// listFiles godoc
// @Summary List files
// @Tags files
// @Produce json
// @Param projectId query string false "Project ID"
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Offset" default(0)
// @Success 200 {array} dto.FileResponse
// @Security BearerAuth
// @Router /files [get]
func (h *fileHandler) listFiles(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var params dto.ListFilesParams
	if !bindQuery(c, &params) {
		return
	}
	files, err := h.fileService.ListFiles(c.Request.Context(), userID, optionalString(params.ProjectID), params.ToDomain())
	if err != nil {
		respondError(c, err, "Failed to list files")
		return
	}
	c.JSON(http.StatusOK, dto.ToListFileResponse(files))
}

// downloadFile godoc
// @Summary Download a file
// @Tags files
// @Produce octet-stream
// @Param id path string true "File ID"
// @Success 200 {file} binary
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /files/{id}/download [get]
func (h *fileHandler) downloadFile(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	meta, rc, err := h.fileService.Open(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to open file")
		return
	}
	defer rc.Close()

	contentType := meta.MimeType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", meta.OriginalName))
	c.Header("Content-Length", strconv.FormatInt(meta.SizeBytes, 10))
	c.Header("Content-Type", contentType)
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, rc); err != nil {
		middleware.GetLoggerFromCtx(c.Request.Context()).Warn("Download interrupted", slog.String("error", err.Error()))
	}
}

// deleteFile godoc
// @Summary Delete a file
// @Description Removes the metadata row and the stored blob.
// @Tags files
// @Param id path string true "File ID"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /files/{id} [delete]
func (h *fileHandler) deleteFile(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	if err := h.fileService.DeleteFile(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondError(c, err, "Failed to delete file")
		return
	}
	c.Status(http.StatusNoContent)
}
