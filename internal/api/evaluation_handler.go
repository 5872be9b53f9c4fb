package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/confjudge/api-server/internal/metrics"
	"github.com/confjudge/api-server/internal/services"
)

// EvaluationHandler handles judge evaluation reads and writes.
type EvaluationHandler struct {
	evaluations services.EvaluationService
	metrics     *metrics.Manager
}

// NewEvaluationHandler creates a new evaluation handler
func NewEvaluationHandler(evaluations services.EvaluationService, m *metrics.Manager) *EvaluationHandler {
	return &EvaluationHandler{evaluations: evaluations, metrics: m}
}

// evaluationRequest carries scores keyed by criterion id.
type evaluationRequest struct {
	Scores       map[string]services.ScoreInput `json:"scores"`
	GeneralNotes string                         `json:"general_notes"`
}

func (r *evaluationRequest) parseScores() (map[uuid.UUID]services.ScoreInput, bool) {
	scores := make(map[uuid.UUID]services.ScoreInput, len(r.Scores))
	for key, input := range r.Scores {
		id, err := uuid.Parse(key)
		if err != nil {
			return nil, false
		}
		scores[id] = input
	}
	return scores, true
}

// GetCriteria lists the evaluation criteria of a conference.
func (h *EvaluationHandler) GetCriteria(c *gin.Context) {
	if _, ok := requireCaller(c); !ok {
		return
	}
	conferenceID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	criteria, err := h.evaluations.GetCriteria(conferenceID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"criteria": criteria})
}

// SaveDraft stores or updates an incomplete evaluation.
func (h *EvaluationHandler) SaveDraft(c *gin.Context) {
	h.write(c, false)
}

// SubmitEvaluation stores or updates an evaluation and marks it
// complete.
func (h *EvaluationHandler) SubmitEvaluation(c *gin.Context) {
	h.write(c, true)
}

func (h *EvaluationHandler) write(c *gin.Context, complete bool) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}
	projectID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req evaluationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	scores, ok := req.parseScores()
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid criterion id"})
		return
	}

	var evaluationID uuid.UUID
	var err error
	if complete {
		evaluationID, err = h.evaluations.SubmitEvaluation(caller, projectID, scores, req.GeneralNotes)
	} else {
		evaluationID, err = h.evaluations.SaveDraft(caller, projectID, scores, req.GeneralNotes)
	}
	if err != nil {
		handleServiceError(c, err)
		return
	}

	h.metrics.RecordEvaluation(complete)
	c.JSON(http.StatusOK, gin.H{
		"evaluation_id": evaluationID,
		"is_complete":   complete,
	})
}

// GetEvaluation returns the caller's evaluation for a project, or null
// when none has been saved yet.
func (h *EvaluationHandler) GetEvaluation(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}
	projectID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	evaluation, err := h.evaluations.GetEvaluation(caller, projectID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"evaluation": evaluation})
}
