package model

import "time"

// Review is a site review left by a registered user or a guest
type Review struct {
	ID         int64     `json:"id"`
	UserID     *int      `json:"user_id,omitempty"`
	GuestName  *string   `json:"guest_name,omitempty"`
	GuestPhone *string   `json:"guest_phone,omitempty"`
	Rating     int       `json:"rating"`
	Text       string    `json:"text"`
	CreatedAt  time.Time `json:"created_at"`
	AdminReply *string   `json:"admin_reply,omitempty"`

	// UserName is the display name of the author, joined from users.
	// Nil for guest reviews.
	UserName *string `json:"user_name,omitempty"`
}

// CreateReviewRequest is used for submitting a new review
type CreateReviewRequest struct {
	Rating     int     `json:"rating" binding:"required,min=1,max=5"`
	Text       string  `json:"text" binding:"required"`
	GuestName  *string `json:"guest_name"`
	GuestPhone *string `json:"guest_phone"`
}

// ReplyRequest carries an admin reply for a review or question
type ReplyRequest struct {
	Reply string `json:"reply" binding:"required"`
}

// ReviewFilters contains filter parameters for review queries
type ReviewFilters struct {
	Rating    *int
	Unreplied *bool
	Since     *time.Time
}
