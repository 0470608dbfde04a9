package model

import "time"

// Overview holds the headline counters shown on the admin dashboard
type Overview struct {
	TotalSpecialists int64   `json:"total_specialists"`
	TotalReviews     int64   `json:"total_reviews"`
	TotalQuestions   int64   `json:"total_questions"`
	TotalUsers       int64   `json:"total_users"`
	AverageRating    float64 `json:"average_rating"`
	ResponseRate     float64 `json:"response_rate"` // percent of questions with an admin reply
}

// RecentActivity counts submissions over the trailing week and month
type RecentActivity struct {
	ReviewsLastWeek    int64 `json:"reviews_last_week"`
	QuestionsLastWeek  int64 `json:"questions_last_week"`
	ReviewsLastMonth   int64 `json:"reviews_last_month"`
	QuestionsLastMonth int64 `json:"questions_last_month"`
}

// SystemStatistics is the /admin/statistics response
type SystemStatistics struct {
	Overview               Overview         `json:"overview"`
	RecentActivity         RecentActivity   `json:"recent_activity"`
	RatingDistribution     map[int]int64    `json:"rating_distribution"`
	SpecialistsByPosition  map[string]int64 `json:"specialists_by_position"`
	SpecialistsByWorkplace map[string]int64 `json:"specialists_by_workplace"`
	GeneratedAt            time.Time        `json:"generated_at"`
}

// DataExport is the /admin/export response: a full JSON dump with a summary
type DataExport struct {
	ExportDate  time.Time    `json:"export_date"`
	Statistics  Overview     `json:"statistics"`
	Specialists []Specialist `json:"specialists"`
	Reviews     []Review     `json:"reviews"`
	Questions   []Question   `json:"questions"`
	Users       []User       `json:"users"`
}

// CleanupResult reports how many stale rows /admin/cleanup removed
type CleanupResult struct {
	DeletedReviews   int64 `json:"deleted_reviews"`
	DeletedQuestions int64 `json:"deleted_questions"`
}

// ActivityLogEntry is one row of the /admin/logs activity feed
type ActivityLogEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Type      string    `json:"type"`   // "review" or "question"
	Action    string    `json:"action"` // currently always "created"
	User      string    `json:"user"`
	Details   string    `json:"details"`
	ID        int64     `json:"id"`
}
