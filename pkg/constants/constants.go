// Package constants defines system-wide constants for the JALAK-HIJAU
// analysis service.
package constants

import "time"

// Severity classifies how badly a concession overlaps a protected area.
type Severity string

const (
	// SeverityCritical applies when the overlap percentage exceeds 30.
	SeverityCritical Severity = "CRITICAL"

	// SeverityHigh applies when the overlap percentage exceeds 15.
	SeverityHigh Severity = "HIGH"

	// SeverityMedium applies to overlaps at or below 15 percent that still
	// clear the reporting threshold.
	SeverityMedium Severity = "MEDIUM"
)

// TransactionType tags a transaction with the laundering pattern it belongs to.
type TransactionType string

const (
	TransactionTypeNormal      TransactionType = "normal"
	TransactionTypeStructuring TransactionType = "structuring"
	TransactionTypeLayering    TransactionType = "layering"
)

// CompanyType categorises an entity in the financial network.
type CompanyType string

const (
	CompanyTypePlantation CompanyType = "plantation"
	CompanyTypeShell      CompanyType = "shell_company"
	CompanyTypeBank       CompanyType = "bank"
	CompanyTypeIndividual CompanyType = "individual"
)

// InvestigationStatus represents the lifecycle status of an investigation case.
type InvestigationStatus string

const (
	InvestigationStatusActive InvestigationStatus = "ACTIVE"
	InvestigationStatusClosed InvestigationStatus = "CLOSED"
)

// InvestigationPriority ranks an investigation case.
type InvestigationPriority string

const (
	InvestigationPriorityHigh   InvestigationPriority = "HIGH"
	InvestigationPriorityMedium InvestigationPriority = "MEDIUM"
)

// AlertType identifies what kind of detection raised an alert.
type AlertType string

const (
	// AlertTypeOverlap is raised for forest/concession overlap detections.
	AlertTypeOverlap AlertType = "Forest-Concession Overlap"

	// AlertTypeFinancial is raised for suspicious transaction patterns.
	AlertTypeFinancial AlertType = "Suspicious Transaction Pattern"
)

// Geometry unit conversion. Polygon coordinates are planar degrees; areas in
// squared degrees are scaled to square metres with an equirectangular
// approximation that only holds near the equator, then truncated to hectares.
const (
	// MetersPerDegree approximates one degree of latitude in metres.
	MetersPerDegree = 111000.0

	// SquareMetersPerHectare converts square metres to hectares.
	SquareMetersPerHectare = 10000.0
)

// Analysis defaults.
const (
	// DefaultMinOverlapPercent is the reporting threshold for overlap records.
	DefaultMinOverlapPercent = 10.0

	// SeverityCriticalThreshold and SeverityHighThreshold bound the severity
	// tiers: (30,100] CRITICAL, (15,30] HIGH, [threshold,15] MEDIUM.
	SeverityCriticalThreshold = 30.0
	SeverityHighThreshold     = 15.0
)

// Risk score contract. Overlapping concessions score in [85,100) and
// non-overlapping ones in [20,40); the two ranges are disjoint and downstream
// demo expectations depend on it.
const (
	OverlapRiskBase   = 85
	OverlapRiskSpread = 15
	BaselineRiskFloor = 20
	BaselineRiskCeil  = 40
	MaxRiskScore      = 100
	HighRiskThreshold = 70
)

// Transaction heuristics (see domain/service/txn_analyzer.go).
const (
	// StructuringReportThresholdIDR is the cash reporting threshold the
	// structuring heuristic watches: repeated transfers just below it are
	// the signal.
	StructuringReportThresholdIDR = 500_000_000.0

	// StructuringMarginFraction bounds "just below": amounts within this
	// fraction under the threshold count toward a structuring cluster.
	StructuringMarginFraction = 0.10

	// StructuringMinCount is the minimum cluster size.
	StructuringMinCount = 3

	// StructuringWindow is the time window a structuring cluster must fit in.
	StructuringWindow = 72 * time.Hour

	// LayeringWindow bounds how quickly funds must pass through an
	// intermediary to count as layering.
	LayeringWindow = 48 * time.Hour

	// LayeringPassThroughRatio is the minimum outbound/inbound amount ratio
	// for a pass-through hop.
	LayeringPassThroughRatio = 0.90

	// LayeringMinChain is the minimum number of hops in a layering chain.
	LayeringMinChain = 3
)

// Session and cache lifetimes.
const (
	// SessionTTL is how long per-session dashboard state (selected alert,
	// chat history, investigation flag) survives without activity.
	SessionTTL = 2 * time.Hour

	// AnalysisCacheTTL is the lifetime of cached overlap analysis results.
	AnalysisCacheTTL = 10 * time.Minute

	// AnalysisCacheCleanup is the sweep interval for expired cache entries.
	AnalysisCacheCleanup = 30 * time.Minute
)

// ChatUnavailableMessage is returned verbatim when the AI collaborator cannot
// be reached. The chat surface fails closed with this string and never
// surfaces the underlying error to the caller.
const ChatUnavailableMessage = "Maaf, asisten JALAK-HIJAU sedang tidak tersedia. Silakan coba beberapa saat lagi. (The AI assistant is temporarily unavailable, please try again later.)"

// ContextKey is the type for request-scoped context keys.
type ContextKey string

const (
	// ContextKeyRequestID carries the per-request correlation id.
	ContextKeyRequestID ContextKey = "request_id"

	// ContextKeyTraceID carries the OpenTelemetry trace id.
	ContextKeyTraceID ContextKey = "trace_id"

	// ContextKeySessionID carries the dashboard session id.
	ContextKeySessionID ContextKey = "session_id"
)

// HeaderSessionID is the HTTP header dashboard clients use to identify their
// session.
const HeaderSessionID = "X-Session-ID"
