package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ranznz/wage-survey/internal/database/testutil"
	"github.com/ranznz/wage-survey/internal/models"
	apperrors "github.com/ranznz/wage-survey/pkg/errors"
)

func validInput() SubmitInput {
	return SubmitInput{
		Company: &CompanyInfo{
			CompanyName: "Acme Roofing",
			Region:      "Auckland",
			TotalStaff:  "12",
		},
		Rates: map[string]map[string]RateEntry{
			"foreman": {
				"3_years": {HourlyRate: "32.50"},
			},
		},
		Overtime: &OvertimeSettings{},
		Mileage:  &MileageSettings{},
	}
}

func TestSubmitPersistsSubmissionAndRateLine(t *testing.T) {
	db := testutil.MustOpenTestDB(t)
	svc, err := NewSurveyService(db)
	require.NoError(t, err)

	id, err := svc.Submit(context.Background(), validInput())
	require.NoError(t, err)
	require.NotZero(t, id)

	var submission models.Submission
	require.NoError(t, db.Take(&submission, id).Error)
	require.Equal(t, "Acme Roofing", submission.CompanyName)
	require.Equal(t, "Auckland", submission.Region)
	require.NotNil(t, submission.TotalStaff)
	require.Equal(t, 12, *submission.TotalStaff)
	require.False(t, submission.IsLBP)

	var lines []models.RateLine
	require.NoError(t, db.Where("submission_id = ?", id).Find(&lines).Error)
	require.Len(t, lines, 1)
	require.Equal(t, "foreman", lines[0].RoleKey)
	require.Equal(t, "3_years", lines[0].BandKey)
	require.NotNil(t, lines[0].HourlyRate)
	require.InDelta(t, 32.50, *lines[0].HourlyRate, 0.001)
	require.Nil(t, lines[0].ChargeOutRate)
}

func TestSubmitDropsBothBlankRateEntries(t *testing.T) {
	db := testutil.MustOpenTestDB(t)
	svc, err := NewSurveyService(db)
	require.NoError(t, err)

	input := validInput()
	input.Rates = map[string]map[string]RateEntry{
		"foreman": {
			"1_year":  {},
			"3_years": {HourlyRate: "", ChargeOutRate: "  "},
			"6_years": {ChargeOutRate: "68"},
		},
	}

	id, err := svc.Submit(context.Background(), input)
	require.NoError(t, err)

	var lines []models.RateLine
	require.NoError(t, db.Where("submission_id = ?", id).Find(&lines).Error)
	require.Len(t, lines, 1)
	require.Equal(t, "6_years", lines[0].BandKey)
	require.Nil(t, lines[0].HourlyRate)
	require.NotNil(t, lines[0].ChargeOutRate)
	require.InDelta(t, 68, *lines[0].ChargeOutRate, 0.001)
}

func TestSubmitSkipsUnknownRoleAndBandKeys(t *testing.T) {
	db := testutil.MustOpenTestDB(t)
	svc, err := NewSurveyService(db)
	require.NoError(t, err)

	input := validInput()
	input.Rates = map[string]map[string]RateEntry{
		"ceo":       {"1_year": {HourlyRate: "90"}},
		"foreman":   {"apprentice_1": {HourlyRate: "30"}},
		"estimator": {"8_plus": {HourlyRate: "45"}},
	}

	id, err := svc.Submit(context.Background(), input)
	require.NoError(t, err)

	var lines []models.RateLine
	require.NoError(t, db.Where("submission_id = ?", id).Find(&lines).Error)
	require.Len(t, lines, 1)
	require.Equal(t, "estimator", lines[0].RoleKey)
}

func TestSubmitParsesNumbersLeniently(t *testing.T) {
	db := testutil.MustOpenTestDB(t)
	svc, err := NewSurveyService(db)
	require.NoError(t, err)

	input := validInput()
	input.Company.TotalStaff = "about twenty"
	input.Rates = map[string]map[string]RateEntry{
		"labourer": {
			"1_year": {HourlyRate: "not a number", ChargeOutRate: "55.00"},
		},
	}

	id, err := svc.Submit(context.Background(), input)
	require.NoError(t, err)

	var submission models.Submission
	require.NoError(t, db.Take(&submission, id).Error)
	require.Nil(t, submission.TotalStaff)

	var lines []models.RateLine
	require.NoError(t, db.Where("submission_id = ?", id).Find(&lines).Error)
	require.Len(t, lines, 1)
	require.Nil(t, lines[0].HourlyRate)
	require.NotNil(t, lines[0].ChargeOutRate)
}

func TestSubmitRejectsMissingCompanyName(t *testing.T) {
	db := testutil.MustOpenTestDB(t)
	svc, err := NewSurveyService(db)
	require.NoError(t, err)

	input := validInput()
	input.Company.CompanyName = "  "

	_, err = svc.Submit(context.Background(), input)
	require.Error(t, err)
	require.Equal(t, apperrors.ErrBadRequest.StatusCode, apperrors.FromError(err).StatusCode)

	var count int64
	require.NoError(t, db.Model(&models.Submission{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestSubmitRejectsUnknownRegion(t *testing.T) {
	db := testutil.MustOpenTestDB(t)
	svc, err := NewSurveyService(db)
	require.NoError(t, err)

	input := validInput()
	input.Company.Region = "Sydney"

	_, err = svc.Submit(context.Background(), input)
	require.Error(t, err)
	require.Equal(t, apperrors.ErrBadRequest.StatusCode, apperrors.FromError(err).StatusCode)
}

func TestSubmitStoresSettingsBlobs(t *testing.T) {
	db := testutil.MustOpenTestDB(t)
	svc, err := NewSurveyService(db)
	require.NoError(t, err)

	input := validInput()
	input.Overtime = &OvertimeSettings{HoursBeforeOvertime: "40", OvertimeMultiplier: "1.5", Notes: "after 40h"}
	input.Mileage = &MileageSettings{PerKmRate: "0.95"}
	input.OtherBenefits = "Meal allowance"

	id, err := svc.Submit(context.Background(), input)
	require.NoError(t, err)

	var submission models.Submission
	require.NoError(t, db.Take(&submission, id).Error)
	require.JSONEq(t, `{"hoursBeforeOvertime":"40","overtimeMultiplier":"1.5","notes":"after 40h"}`, string(submission.Overtime))
	require.JSONEq(t, `{"perKmRate":"0.95"}`, string(submission.Mileage))
	require.Equal(t, "Meal allowance", submission.OtherBenefits)
}

func TestSubmitIsAtomicOnRateLineFailure(t *testing.T) {
	db := testutil.MustOpenTestDB(t)
	svc, err := NewSurveyService(db)
	require.NoError(t, err)

	// Dropping the rates table mid-flight forces the second insert to fail;
	// the already-inserted submission row must roll back with it.
	require.NoError(t, db.Migrator().DropTable(&models.RateLine{}))

	input := validInput()
	_, err = svc.Submit(context.Background(), input)
	require.Error(t, err)
	require.Equal(t, apperrors.ErrSubmissionFailed.Code, apperrors.FromError(err).Code)

	var count int64
	require.NoError(t, db.Model(&models.Submission{}).Count(&count).Error)
	require.Zero(t, count, "submission row must not survive a failed transaction")
}
