package api

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/confjudge/api-server/internal/metrics"
	"github.com/confjudge/api-server/internal/services"
)

// UploadHandler handles student presentation file operations.
type UploadHandler struct {
	uploads services.FileUploadService
	metrics *metrics.Manager
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(uploads services.FileUploadService, m *metrics.Manager) *UploadHandler {
	return &UploadHandler{uploads: uploads, metrics: m}
}

// UploadPresentation accepts a multipart file upload for a project the
// calling student is a team member of.
func (h *UploadHandler) UploadPresentation(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}
	projectID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file provided"})
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unable to read uploaded file"})
		return
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unable to read uploaded file"})
		return
	}

	upload := &services.FileUpload{
		Name:        fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Size:        fileHeader.Size,
		Data:        data,
	}

	result, err := h.uploads.UploadPresentation(caller, projectID, upload)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	h.metrics.RecordUpload()
	c.JSON(http.StatusCreated, result)
}

// DeletePresentation removes the presentation file of a project.
func (h *UploadHandler) DeletePresentation(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}
	projectID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	if err := h.uploads.DeletePresentation(caller, projectID); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Presentation deleted"})
}

// GetStudentProjects lists the projects the calling student belongs to.
func (h *UploadHandler) GetStudentProjects(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	projects, err := h.uploads.GetStudentProjects(caller)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"projects": projects})
}
