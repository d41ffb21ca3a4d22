package models

import "time"

// InsightType classifies a generated insight
type InsightType string

const (
	InsightPattern        InsightType = "pattern"
	InsightAlert          InsightType = "alert"
	InsightOpportunity    InsightType = "opportunity"
	InsightRecommendation InsightType = "recommendation"
)

// Severity is the priority attached to an insight
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Insight is a rule-generated text recommendation
type Insight struct {
	ID        int64       `json:"id"`
	UserID    int64       `json:"user_id"`
	Type      InsightType `json:"type"`
	Severity  Severity    `json:"severity"`
	Title     string      `json:"title"`
	Message   string      `json:"message"`
	CreatedAt time.Time   `json:"created_at"`
}

// Notification is a message shown in the user's inbox
type Notification struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Kind      string    `json:"kind"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}
