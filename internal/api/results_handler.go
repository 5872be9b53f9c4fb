package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/confjudge/api-server/internal/services"
)

// ResultsHandler serves the manager-side evaluation views.
type ResultsHandler struct {
	results services.EvaluationResultsService
}

// NewResultsHandler creates a new results handler
func NewResultsHandler(results services.EvaluationResultsService) *ResultsHandler {
	return &ResultsHandler{results: results}
}

// GetAllEvaluations lists every evaluation in a conference.
func (h *ResultsHandler) GetAllEvaluations(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}
	conferenceID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	evaluations, err := h.results.GetAllEvaluations(caller, conferenceID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"evaluations": evaluations})
}

// GetProjectEvaluations lists the evaluations of one project.
func (h *ResultsHandler) GetProjectEvaluations(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}
	projectID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	evaluations, err := h.results.GetProjectEvaluations(caller, projectID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"evaluations": evaluations})
}

// GetSummary returns conference-wide completion counts.
func (h *ResultsHandler) GetSummary(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}
	conferenceID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	summary, err := h.results.GetSummary(caller, conferenceID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// GetProjectAverageScores returns projects ranked by average score.
func (h *ResultsHandler) GetProjectAverageScores(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}
	conferenceID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	averages, err := h.results.GetProjectAverageScores(caller, conferenceID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"rankings": averages})
}

// GetJudgeStatus returns per-judge completion counts.
func (h *ResultsHandler) GetJudgeStatus(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}
	conferenceID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	status, err := h.results.GetJudgeStatus(caller, conferenceID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"judges": status})
}
