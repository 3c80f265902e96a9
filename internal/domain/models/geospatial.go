package models

import "github.com/turtacn/jalak-hijau/pkg/constants"

// ProtectedArea is a protected forest polygon. Immutable once loaded or
// generated.
type ProtectedArea struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Region    string   `json:"region"`
	Geometry  Geometry `json:"geometry"`
	Status    string   `json:"status"`
	AreaHa    int64    `json:"area_ha"`
	CenterLat float64  `json:"center_lat"`
	CenterLon float64  `json:"center_lon"`
}

// Concession is a palm-oil concession polygon. The derived fields
// IsOverlapping and RiskScore are written only by the risk scorer when
// derived state is (re)computed; everything else is immutable after load.
type Concession struct {
	Company      string   `json:"company"`
	Region       string   `json:"region"`
	Geometry     Geometry `json:"geometry"`
	PermitStatus string   `json:"permit_status"`
	AreaHa       int64    `json:"area_ha"`
	CenterLat    float64  `json:"center_lat"`
	CenterLon    float64  `json:"center_lon"`

	// Derived by the risk scorer.
	IsOverlapping bool `json:"is_overlapping"`
	RiskScore     int  `json:"risk_score"`
}

// OverlapRecord is the output of one detected concession/protected-area
// overlap. Created fresh on every analysis run, never mutated and never
// persisted.
type OverlapRecord struct {
	Company      string   `json:"company"`
	ForestName   string   `json:"forest_name"`
	Intersection Geometry `json:"intersection"`

	// ConcessionAreaHa is the concession's own area; the overlap percentage
	// denominator is always this value, never the protected area's.
	ConcessionAreaHa int64 `json:"concession_area_ha"`

	OverlapAreaHa     int64              `json:"overlap_area_ha"`
	OverlapPercentage float64            `json:"overlap_percentage"`
	Severity          constants.Severity `json:"severity"`
	CenterLat         float64            `json:"center_lat"`
	CenterLon         float64            `json:"center_lon"`
}

// PairError reports a concession/protected-area pair whose intersection could
// not be computed. The analysis batch continues past these; they are surfaced
// so callers can distinguish "no overlap" from "geometry error".
type PairError struct {
	Company    string `json:"company"`
	ForestName string `json:"forest_name"`
	Reason     string `json:"reason"`
}
