package models

import (
	"time"

	"gorm.io/datatypes"
)

// Submission is one survey response from one member company.
// Rows are immutable once committed; there is no edit or delete path.
type Submission struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CompanyName      string `gorm:"not null" json:"company_name"`
	RanzMemberNumber string `json:"ranz_member_number"`
	Region           string `gorm:"not null" json:"region"`
	TotalStaff       *int   `json:"total_staff"`
	IsLBP            bool   `gorm:"column:is_lbp;default:false" json:"is_lbp"`

	// Overtime and mileage settings are free-form notes plus a couple of
	// optional numbers, stored as JSON rather than normalised columns.
	Overtime datatypes.JSON `json:"overtime"`
	Mileage  datatypes.JSON `json:"mileage"`

	OtherBenefits string `json:"other_benefits"`

	RateLines []RateLine `gorm:"foreignKey:SubmissionID" json:"rate_lines,omitempty"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

// TableName preserves the historical table name used by existing exports.
func (Submission) TableName() string { return "survey_submissions" }
