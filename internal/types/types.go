package types

import "time"

// Severity is the reported severity of a defect.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// Category classifies where a defect manifests.
type Category string

const (
	CategoryRuntime    Category = "runtime"
	CategoryNetwork    Category = "network"
	CategoryRendering  Category = "rendering"
	CategoryNavigation Category = "navigation"
)

// ReporterRole is the role of the person who filed the defect.
type ReporterRole string

const (
	RoleManager   ReporterRole = "manager"
	RoleTeamLead  ReporterRole = "team-lead"
	RoleDeveloper ReporterRole = "developer"
)

// Area classifies the application area a defect was observed in.
type Area string

const (
	AreaDashboard Area = "dashboard"
	AreaAuth      Area = "auth"
	AreaAPI       Area = "api"
)

// Defect is a raw defect report from the tracker, before scoring.
type Defect struct {
	ID           string       `json:"id"`
	Title        string       `json:"title"`
	Severity     Severity     `json:"severity"`
	Category     Category     `json:"category"`
	ReporterRole ReporterRole `json:"reporter_role"`
	Area         Area         `json:"area"`
	ReportedAt   time.Time    `json:"reported_at"`
}

// TeamMember is a roster entry enriched with workload signals.
// Capacity is a utilization percentage (0-100), Velocity is story points per
// sprint, WellnessFactor is a 0-1 self-reported wellness signal. RiskScore is
// supplied by the upstream burnout assessment (0-100) and is not derived here.
type TeamMember struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Role           string  `json:"role"`
	Capacity       float64 `json:"capacity"`
	Velocity       float64 `json:"velocity"`
	WellnessFactor float64 `json:"wellness_factor"`
	RiskScore      float64 `json:"risk_score"`
}

// RiskAssessment is one upstream burnout-assessment result for a member.
type RiskAssessment struct {
	MemberID   string    `json:"member_id"`
	Score      float64   `json:"score"` // 0-100, passed through as-is
	AssessedAt time.Time `json:"assessed_at"`
}

// ServiceResponse is the envelope the caching/serving layer hands to callers.
// Error is a user-facing message; read paths never return a Go error.
type ServiceResponse[T any] struct {
	Data      *T     `json:"data"`
	IsLoading bool   `json:"isLoading"`
	Error     string `json:"error,omitempty"`
}
