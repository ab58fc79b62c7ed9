package handlers_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ranznz/wage-survey/internal/handlers/testutil"
	"github.com/ranznz/wage-survey/internal/models"
)

func surveyPayload() map[string]any {
	return map[string]any{
		"company": map[string]any{
			"companyName":      "Acme Roofing Ltd",
			"ranzMemberNumber": "RANZ-042",
			"region":           "Auckland",
			"totalStaff":       "12",
			"isLbp":            true,
		},
		"rates": map[string]any{
			"qualified_residential": map[string]any{
				"3_years": map[string]string{"hourlyRate": "38.50", "chargeOutRate": "85.00"},
			},
			"apprentice": map[string]any{
				"apprentice_1": map[string]string{"hourlyRate": "24.00"},
			},
		},
		"overtime": map[string]string{
			"hoursBeforeOvertime": "40",
			"overtimeMultiplier":  "1.5",
		},
		"mileage": map[string]string{
			"perKmRate": "0.95",
		},
		"otherBenefits": "Vehicle and phone provided",
	}
}

func TestSubmitSurveyPersistsSubmissionAndRates(t *testing.T) {
	env := testutil.NewEnv(t)

	w := env.Request(http.MethodPost, "/api/submit-survey", surveyPayload(), "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var result struct {
		Success      bool `json:"success"`
		SubmissionID uint `json:"submissionId"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	require.True(t, result.Success)
	require.NotZero(t, result.SubmissionID)

	var submission models.Submission
	require.NoError(t, env.DB.First(&submission, result.SubmissionID).Error)
	require.Equal(t, "Acme Roofing Ltd", submission.CompanyName)
	require.Equal(t, "Auckland", submission.Region)

	var rateCount int64
	require.NoError(t, env.DB.Model(&models.RateLine{}).
		Where("submission_id = ?", result.SubmissionID).Count(&rateCount).Error)
	require.EqualValues(t, 2, rateCount)
}

func TestSubmitSurveyRequiresCompanyName(t *testing.T) {
	env := testutil.NewEnv(t)

	payload := surveyPayload()
	payload["company"].(map[string]any)["companyName"] = "   "

	w := env.Request(http.MethodPost, "/api/submit-survey", payload, "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "BAD_REQUEST", testutil.DecodeResponse(t, w).Error.Code)
}

func TestSubmitSurveyRejectsUnknownRegion(t *testing.T) {
	env := testutil.NewEnv(t)

	payload := surveyPayload()
	payload["company"].(map[string]any)["region"] = "Atlantis"

	w := env.Request(http.MethodPost, "/api/submit-survey", payload, "")
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSubmitSurveyRejectsInvalidJSON(t *testing.T) {
	env := testutil.NewEnv(t)

	w := env.Request(http.MethodPost, "/api/submit-survey", "not an object", "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "BAD_REQUEST", testutil.DecodeResponse(t, w).Error.Code)
}
