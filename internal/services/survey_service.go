package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/ranznz/wage-survey/internal/models"
	"github.com/ranznz/wage-survey/internal/survey"
	apperrors "github.com/ranznz/wage-survey/pkg/errors"
	"github.com/ranznz/wage-survey/pkg/logger"
	"github.com/ranznz/wage-survey/pkg/metrics"
)

// CompanyInfo carries the company sub-fields of a survey payload.
type CompanyInfo struct {
	CompanyName      string `json:"companyName"`
	RanzMemberNumber string `json:"ranzMemberNumber"`
	Region           string `json:"region"`
	TotalStaff       string `json:"totalStaff"`
	IsLBP            bool   `json:"isLbp"`
}

// RateEntry holds the two optional rate strings for one role/band pair.
type RateEntry struct {
	HourlyRate    string `json:"hourlyRate"`
	ChargeOutRate string `json:"chargeOutRate"`
}

// OvertimeSettings is stored as an opaque JSON blob alongside the submission.
type OvertimeSettings struct {
	HoursBeforeOvertime string `json:"hoursBeforeOvertime,omitempty"`
	OvertimeMultiplier  string `json:"overtimeMultiplier,omitempty"`
	Notes               string `json:"notes,omitempty"`
}

// MileageSettings is stored as an opaque JSON blob alongside the submission.
type MileageSettings struct {
	PerKmRate     string `json:"perKmRate,omitempty"`
	FlatDailyRate string `json:"flatDailyRate,omitempty"`
	Notes         string `json:"notes,omitempty"`
}

// SubmitInput mirrors the JSON payload produced by the survey form client.
type SubmitInput struct {
	Company       *CompanyInfo                    `json:"company"`
	Rates         map[string]map[string]RateEntry `json:"rates"`
	Overtime      *OvertimeSettings               `json:"overtime"`
	Mileage       *MileageSettings                `json:"mileage"`
	OtherBenefits string                          `json:"otherBenefits"`
}

// SurveyService persists survey submissions. Each Submit call runs inside a
// single transaction: either the submission row and all its qualifying rate
// lines commit together, or none of them do.
type SurveyService struct {
	db *gorm.DB
}

// NewSurveyService constructs a SurveyService.
func NewSurveyService(db *gorm.DB) (*SurveyService, error) {
	if db == nil {
		return nil, errors.New("survey service: db is required")
	}
	return &SurveyService{db: db}, nil
}

// Submit validates and persists one survey response, returning the generated
// submission identifier. Numeric fields are parsed leniently: absent or
// unparsable values become NULL rather than errors. Rate entries with both
// values blank are dropped, and unknown role/band keys are skipped.
func (s *SurveyService) Submit(ctx context.Context, input SubmitInput) (uint, error) {
	company := input.Company
	if company == nil || strings.TrimSpace(company.CompanyName) == "" {
		metrics.SurveySubmissions.WithLabelValues("invalid").Inc()
		return 0, apperrors.NewBadRequest("company name is required")
	}

	region := strings.TrimSpace(company.Region)
	if !survey.ValidRegion(region) {
		metrics.SurveySubmissions.WithLabelValues("invalid").Inc()
		return 0, apperrors.NewBadRequest("a valid region is required")
	}

	overtime, err := marshalSettings(input.Overtime)
	if err != nil {
		return 0, apperrors.ErrSubmissionFailed.WithInternal(err)
	}
	mileage, err := marshalSettings(input.Mileage)
	if err != nil {
		return 0, apperrors.ErrSubmissionFailed.WithInternal(err)
	}

	submission := models.Submission{
		CompanyName:      strings.TrimSpace(company.CompanyName),
		RanzMemberNumber: strings.TrimSpace(company.RanzMemberNumber),
		Region:           region,
		TotalStaff:       parseOptionalInt(company.TotalStaff),
		IsLBP:            company.IsLBP,
		Overtime:         overtime,
		Mileage:          mileage,
		OtherBenefits:    input.OtherBenefits,
	}

	var written int
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&submission).Error; err != nil {
			return fmt.Errorf("insert submission: %w", err)
		}

		// Catalog order keeps inserts deterministic across submissions.
		for _, role := range survey.Roles {
			bands, ok := input.Rates[role.Key]
			if !ok {
				continue
			}
			for _, band := range role.Bands {
				entry, ok := bands[band]
				if !ok {
					continue
				}

				hourly := parseOptionalRate(entry.HourlyRate)
				chargeOut := parseOptionalRate(entry.ChargeOutRate)
				if hourly == nil && chargeOut == nil {
					continue
				}

				line := models.RateLine{
					SubmissionID:  submission.ID,
					RoleKey:       role.Key,
					BandKey:       band,
					HourlyRate:    hourly,
					ChargeOutRate: chargeOut,
				}
				if err := tx.Create(&line).Error; err != nil {
					return fmt.Errorf("insert rate line %s/%s: %w", role.Key, band, err)
				}
				written++
			}
		}

		return nil
	})
	if err != nil {
		logger.WithModule("survey").Error("submission rolled back",
			zap.Bool("constraint_violation", isConstraintViolation(err)),
			zap.Error(err),
		)
		metrics.SurveySubmissions.WithLabelValues("failure").Inc()
		return 0, apperrors.ErrSubmissionFailed.WithInternal(err)
	}

	metrics.SurveySubmissions.WithLabelValues("success").Inc()
	metrics.RateLinesWritten.Add(float64(written))

	return submission.ID, nil
}

// marshalSettings serialises a settings blob, mapping nil to a NULL column.
func marshalSettings(v any) (datatypes.JSON, error) {
	switch settings := v.(type) {
	case nil:
		return nil, nil
	case *OvertimeSettings:
		if settings == nil {
			return nil, nil
		}
	case *MileageSettings:
		if settings == nil {
			return nil, nil
		}
	}

	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}

// parseOptionalInt converts a free-text staff count; anything that is not a
// non-negative integer becomes NULL.
func parseOptionalInt(value string) *int {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed < 0 {
		return nil
	}
	return &parsed
}

// parseOptionalRate converts a free-text rate; anything that is not a
// non-negative decimal becomes NULL.
func parseOptionalRate(value string) *float64 {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil || parsed < 0 {
		return nil
	}
	return &parsed
}
