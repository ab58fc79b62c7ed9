package services

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"time"

	"gorm.io/gorm"

	"github.com/ranznz/wage-survey/internal/models"
)

// ExportColumns is the fixed CSV header, in output order.
var ExportColumns = []string{
	"submission_id",
	"company_name",
	"ranz_member_number",
	"region",
	"total_staff",
	"is_lbp",
	"overtime",
	"mileage",
	"other_benefits",
	"created_at",
	"role_key",
	"band_key",
	"hourly_rate",
	"charge_out_rate",
}

// SurveyStats aggregates row counts for the admin dashboard.
type SurveyStats struct {
	TotalSubmissions int64 `json:"totalSubmissions"`
	TotalRates       int64 `json:"totalRates"`
}

// exportRow is one line of the flattened submission/rate join. Rate fields
// are pointers because submissions without rate lines still emit a row.
type exportRow struct {
	SubmissionID     uint      `gorm:"column:submission_id"`
	CompanyName      string    `gorm:"column:company_name"`
	RanzMemberNumber *string   `gorm:"column:ranz_member_number"`
	Region           string    `gorm:"column:region"`
	TotalStaff       *int      `gorm:"column:total_staff"`
	IsLBP            bool      `gorm:"column:is_lbp"`
	Overtime         *string   `gorm:"column:overtime"`
	Mileage          *string   `gorm:"column:mileage"`
	OtherBenefits    *string   `gorm:"column:other_benefits"`
	CreatedAt        time.Time `gorm:"column:created_at"`
	RoleKey          *string   `gorm:"column:role_key"`
	BandKey          *string   `gorm:"column:band_key"`
	HourlyRate       *float64  `gorm:"column:hourly_rate"`
	ChargeOutRate    *float64  `gorm:"column:charge_out_rate"`
}

// ExportService reads aggregate statistics and streams CSV exports. All
// reads are point-in-time; exports are not required to be consistent with
// in-flight submissions.
type ExportService struct {
	db *gorm.DB
}

// NewExportService constructs an ExportService.
func NewExportService(db *gorm.DB) (*ExportService, error) {
	if db == nil {
		return nil, errors.New("export service: db is required")
	}
	return &ExportService{db: db}, nil
}

// Stats runs two independent count queries.
func (s *ExportService) Stats(ctx context.Context) (SurveyStats, error) {
	var stats SurveyStats

	if err := s.db.WithContext(ctx).Model(&models.Submission{}).Count(&stats.TotalSubmissions).Error; err != nil {
		return SurveyStats{}, fmt.Errorf("count submissions: %w", err)
	}
	if err := s.db.WithContext(ctx).Model(&models.RateLine{}).Count(&stats.TotalRates).Error; err != nil {
		return SurveyStats{}, fmt.Errorf("count rate lines: %w", err)
	}

	return stats, nil
}

// WriteCSV writes the full export to w: a left outer join of submissions to
// rate lines ordered by submission id, role key, then band key, so repeated
// exports over unchanged data are byte-identical.
func (s *ExportService) WriteCSV(ctx context.Context, w io.Writer) error {
	var rows []exportRow
	err := s.db.WithContext(ctx).
		Table("survey_submissions AS s").
		Select(`s.id AS submission_id,
			s.company_name,
			s.ranz_member_number,
			s.region,
			s.total_staff,
			s.is_lbp,
			s.overtime,
			s.mileage,
			s.other_benefits,
			s.created_at,
			r.role_key,
			r.band_key,
			r.hourly_rate,
			r.charge_out_rate`).
		Joins("LEFT JOIN survey_rates AS r ON r.submission_id = s.id").
		Order("s.id, r.role_key, r.band_key").
		Scan(&rows).Error
	if err != nil {
		return fmt.Errorf("export query: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(ExportColumns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, row := range rows {
		record := []string{
			fmt.Sprintf("%d", row.SubmissionID),
			row.CompanyName,
			stringOrEmpty(row.RanzMemberNumber),
			row.Region,
			intOrEmpty(row.TotalStaff),
			fmt.Sprintf("%t", row.IsLBP),
			stringOrEmpty(row.Overtime),
			stringOrEmpty(row.Mileage),
			stringOrEmpty(row.OtherBenefits),
			row.CreatedAt.UTC().Format(time.RFC3339),
			stringOrEmpty(row.RoleKey),
			stringOrEmpty(row.BandKey),
			rateOrEmpty(row.HourlyRate),
			rateOrEmpty(row.ChargeOutRate),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func stringOrEmpty(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func intOrEmpty(v *int) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%d", *v)
}

func rateOrEmpty(v *float64) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%.2f", *v)
}
