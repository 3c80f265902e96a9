package models

import (
	"time"

	"github.com/turtacn/jalak-hijau/pkg/constants"
)

// Alert is a dashboard alert derived from an overlap record or a flagged
// transaction pattern.
type Alert struct {
	ID        string              `json:"id"`
	Time      time.Time           `json:"time"`
	Location  string              `json:"location"`
	Type      constants.AlertType `json:"type"`
	RiskLevel constants.Severity  `json:"risk_level"`
	Company   string              `json:"company"`
	Details   string              `json:"details"`
	CenterLat float64             `json:"center_lat"`
	CenterLon float64             `json:"center_lon"`
}
