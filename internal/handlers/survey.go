package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ranznz/wage-survey/internal/services"
	"github.com/ranznz/wage-survey/pkg/response"
)

// SurveyHandler accepts public wage survey submissions.
type SurveyHandler struct {
	surveys *services.SurveyService
}

func NewSurveyHandler(surveys *services.SurveyService) *SurveyHandler {
	return &SurveyHandler{surveys: surveys}
}

// POST /api/submit-survey
func (h *SurveyHandler) Submit(c *gin.Context) {
	var input services.SubmitInput
	if !bindAndValidate(c, &input) {
		return
	}

	id, err := h.surveys.Submit(requestContext(c), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"submissionId": id,
	})
}
