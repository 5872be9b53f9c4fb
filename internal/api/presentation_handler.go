package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/confjudge/api-server/internal/services"
)

// PresentationHandler serves the judge-side view of assigned projects.
type PresentationHandler struct {
	presentations services.PresentationViewService
}

// NewPresentationHandler creates a new presentation handler
func NewPresentationHandler(presentations services.PresentationViewService) *PresentationHandler {
	return &PresentationHandler{presentations: presentations}
}

// GetAssignedProjects lists the projects assigned to the calling judge.
func (h *PresentationHandler) GetAssignedProjects(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	projects, err := h.presentations.GetAssignedProjects(caller)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"projects": projects})
}

// GetProjectDetails returns one assigned project in full.
func (h *PresentationHandler) GetProjectDetails(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}
	projectID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	project, err := h.presentations.GetProjectDetails(caller, projectID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"project": project})
}

// GetPresentationURL returns the presentation file URL of an assigned
// project. The URL is null when no file has been uploaded.
func (h *PresentationHandler) GetPresentationURL(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}
	projectID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	url, err := h.presentations.GetPresentationURL(caller, projectID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"presentation_url": url})
}
