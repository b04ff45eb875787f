package models

// VerificationStatus is the review state of a disease report
type VerificationStatus string

// Verification states
const (
	StatusPending         VerificationStatus = "pending"
	StatusUnderReview     VerificationStatus = "under_review"
	StatusVerified        VerificationStatus = "verified"
	StatusRejected        VerificationStatus = "rejected"
	StatusFlagged         VerificationStatus = "flagged"
	StatusNeedsFieldVisit VerificationStatus = "needs_field_visit"
)

// IsValid reports whether s is a known verification status
func (s VerificationStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusUnderReview, StatusVerified, StatusRejected, StatusFlagged, StatusNeedsFieldVisit:
		return true
	}
	return false
}

// Priority is the officer-assigned urgency of a report
type Priority string

// Priority levels
const (
	PriorityInfo      Priority = "info"
	PriorityLow       Priority = "low"
	PriorityMedium    Priority = "medium"
	PriorityHigh      Priority = "high"
	PriorityEmergency Priority = "emergency"
)

// IsValid reports whether p is a known priority
func (p Priority) IsValid() bool {
	switch p {
	case PriorityInfo, PriorityLow, PriorityMedium, PriorityHigh, PriorityEmergency:
		return true
	}
	return false
}

// Severity grades reports and alerts
type Severity string

// Severity levels
const (
	SeverityNone     Severity = "none"
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// IsValid reports whether s is a known severity
func (s Severity) IsValid() bool {
	switch s {
	case SeverityNone, SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	}
	return false
}

func (s Severity) rank() int {
	switch s {
	case SeverityLow:
		return 1
	case SeverityMedium:
		return 2
	case SeverityHigh:
		return 3
	case SeverityCritical:
		return 4
	default:
		return 0
	}
}

// AtLeast reports whether s is at or above other on the severity scale
func (s Severity) AtLeast(other Severity) bool {
	return s.rank() >= other.rank()
}

// AlertStatus is the lifecycle state of a community alert
type AlertStatus string

// Alert lifecycle states
const (
	AlertActive     AlertStatus = "active"
	AlertMonitoring AlertStatus = "monitoring"
	AlertResolved   AlertStatus = "resolved"
)

// IsValid reports whether s is a known alert status
func (s AlertStatus) IsValid() bool {
	switch s {
	case AlertActive, AlertMonitoring, AlertResolved:
		return true
	}
	return false
}

// ActionType labels an entry in the officer action log
type ActionType string

// Officer action types
const (
	ActionMarkUnderReview   ActionType = "mark_under_review"
	ActionVerifyReport      ActionType = "verify_report"
	ActionRejectReport      ActionType = "reject_report"
	ActionFlagReport        ActionType = "flag_report"
	ActionRequestFieldVisit ActionType = "request_field_visit"
	ActionChangePriority    ActionType = "change_priority"
	ActionResolveAlert      ActionType = "resolve_alert"
)

// ActionForStatus maps a target verification status to its audit action type
func ActionForStatus(target VerificationStatus) ActionType {
	switch target {
	case StatusUnderReview:
		return ActionMarkUnderReview
	case StatusVerified:
		return ActionVerifyReport
	case StatusRejected:
		return ActionRejectReport
	case StatusFlagged:
		return ActionFlagReport
	case StatusNeedsFieldVisit:
		return ActionRequestFieldVisit
	default:
		return ActionType(string(target))
	}
}

// NotificationScope is the geographic breadth of a notification
type NotificationScope string

// Notification scopes
const (
	ScopeGnDivision NotificationScope = "gn"
	ScopeDsDivision NotificationScope = "ds"
	ScopeDistrict   NotificationScope = "district"
)

// IsValid reports whether s is a known notification scope
func (s NotificationScope) IsValid() bool {
	switch s {
	case ScopeGnDivision, ScopeDsDivision, ScopeDistrict:
		return true
	}
	return false
}
