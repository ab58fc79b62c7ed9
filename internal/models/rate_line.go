package models

// RateLine is a single role/experience-band wage data point within a
// submission. A row only exists when at least one of the two rates was
// supplied; both-blank entries are dropped before insert.
type RateLine struct {
	ID           uint `gorm:"primaryKey" json:"id"`
	SubmissionID uint `gorm:"index;not null" json:"submission_id"`

	RoleKey string `gorm:"not null" json:"role_key"`
	BandKey string `gorm:"not null" json:"band_key"`

	HourlyRate    *float64 `gorm:"type:decimal(10,2)" json:"hourly_rate"`
	ChargeOutRate *float64 `gorm:"type:decimal(10,2)" json:"charge_out_rate"`
}

// TableName preserves the historical table name used by existing exports.
func (RateLine) TableName() string { return "survey_rates" }
