package models

import (
	"time"

	"github.com/turtacn/jalak-hijau/pkg/constants"
)

// InvestigationAction is a follow-up task inside an investigation case.
type InvestigationAction struct {
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
}

// TimelineEntry records one event in an investigation's history.
type TimelineEntry struct {
	At    time.Time `json:"at"`
	Event string    `json:"event"`
}

// Investigation is a persisted investigation case opened from an alert.
type Investigation struct {
	ID         string                          `gorm:"primaryKey;size:64" json:"id"`
	AlertID    string                          `gorm:"index;size:64" json:"alert_id"`
	Status     constants.InvestigationStatus   `gorm:"size:16" json:"status"`
	Priority   constants.InvestigationPriority `gorm:"size:16" json:"priority"`
	AssignedTo string                          `gorm:"size:128" json:"assigned_to"`
	Company    string                          `gorm:"size:128" json:"company"`
	Location   string                          `gorm:"size:128" json:"location"`
	AlertType  constants.AlertType             `gorm:"size:64" json:"alert_type"`
	RiskLevel  constants.Severity              `gorm:"size:16" json:"risk_level"`
	Summary    string                          `gorm:"type:text" json:"summary"`

	Evidence    []string              `gorm:"serializer:json" json:"evidence"`
	NextActions []InvestigationAction `gorm:"serializer:json" json:"next_actions"`
	Timeline    []TimelineEntry       `gorm:"serializer:json" json:"timeline"`

	StartedAt time.Time  `json:"started_at"`
	ClosedAt  *time.Time `json:"closed_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// TableName keeps the table name stable across gorm naming strategies.
func (Investigation) TableName() string {
	return "investigations"
}
