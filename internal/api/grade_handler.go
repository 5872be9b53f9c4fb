package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/confjudge/api-server/internal/services"
)

// GradeHandler serves the student-side grade views.
type GradeHandler struct {
	grades services.StudentGradeService
}

// NewGradeHandler creates a new grade handler
func NewGradeHandler(grades services.StudentGradeService) *GradeHandler {
	return &GradeHandler{grades: grades}
}

// GetAllGrades returns the grade of every project the student belongs
// to.
func (h *GradeHandler) GetAllGrades(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	grades, err := h.grades.GetAllGrades(caller)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"grades": grades})
}

// GetProjectGrade returns the average grade of one project.
func (h *GradeHandler) GetProjectGrade(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}
	projectID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	grade, err := h.grades.GetProjectGrade(caller, projectID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, grade)
}

// GetDetailedScores returns per-criterion averages for one project.
func (h *GradeHandler) GetDetailedScores(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}
	projectID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	scores, err := h.grades.GetDetailedScores(caller, projectID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"scores": scores})
}
