package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/confjudge/api-server/internal/services"
)

// ExpertiseHandler handles the conference expertise vocabulary and
// per-judge expertise assignment.
type ExpertiseHandler struct {
	expertise services.ExpertiseAreaService
}

// NewExpertiseHandler creates a new expertise handler
func NewExpertiseHandler(expertise services.ExpertiseAreaService) *ExpertiseHandler {
	return &ExpertiseHandler{expertise: expertise}
}

type expertiseAreaRequest struct {
	Area string `json:"area" binding:"required"`
}

type judgeExpertiseRequest struct {
	Areas []string `json:"areas"`
}

// AddConferenceArea adds an area to the conference vocabulary.
func (h *ExpertiseHandler) AddConferenceArea(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}
	conferenceID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req expertiseAreaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	areas, err := h.expertise.AddConferenceArea(caller, conferenceID, req.Area)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"expertise_areas": areas})
}

// RemoveConferenceArea removes an area from the conference vocabulary.
func (h *ExpertiseHandler) RemoveConferenceArea(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}
	conferenceID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req expertiseAreaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	areas, err := h.expertise.RemoveConferenceArea(caller, conferenceID, req.Area)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"expertise_areas": areas})
}

// GetConferenceAreas lists the conference vocabulary.
func (h *ExpertiseHandler) GetConferenceAreas(c *gin.Context) {
	if _, ok := requireCaller(c); !ok {
		return
	}
	conferenceID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	areas, err := h.expertise.GetConferenceAreas(conferenceID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"expertise_areas": areas})
}

// AssignJudgeExpertise replaces the expertise tags of a judge.
func (h *ExpertiseHandler) AssignJudgeExpertise(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}
	judgeID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req judgeExpertiseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.expertise.AssignJudgeExpertise(caller, judgeID, req.Areas); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"judge_id": judgeID, "expertise_areas": req.Areas})
}
