package model

import "time"

// Question is a Q&A submission from a registered user or a guest
type Question struct {
	ID         int64     `json:"id"`
	UserID     *int      `json:"user_id,omitempty"`
	GuestName  *string   `json:"guest_name,omitempty"`
	GuestPhone *string   `json:"guest_phone,omitempty"`
	Text       string    `json:"text"`
	CreatedAt  time.Time `json:"created_at"`
	AdminReply *string   `json:"admin_reply,omitempty"`
	IsRead     bool      `json:"is_read"`

	// UserName is joined from users; nil for guest questions.
	UserName *string `json:"user_name,omitempty"`
}

// CreateQuestionRequest is used for submitting a new question
type CreateQuestionRequest struct {
	Text       string  `json:"text" binding:"required"`
	GuestName  *string `json:"guest_name"`
	GuestPhone *string `json:"guest_phone"`
}

// QuestionFilters contains filter parameters for question queries
type QuestionFilters struct {
	Unread    *bool
	Unreplied *bool
	Since     *time.Time
}
