package model

import "time"

// Specialist is a staff profile shown on the public site
type Specialist struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	Position       string    `json:"position"`
	Specialization *string   `json:"specialization,omitempty"`
	Workplace      *string   `json:"workplace,omitempty"`
	Education      *string   `json:"education,omitempty"`
	ExtraQual      *string   `json:"extra_qual,omitempty"`
	Photo          *string   `json:"photo,omitempty"` // relative path under the uploads dir
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// CreateSpecialistRequest is used for creating a new specialist profile
type CreateSpecialistRequest struct {
	Name           string  `json:"name" binding:"required"`
	Position       string  `json:"position" binding:"required"`
	Specialization *string `json:"specialization"`
	Workplace      *string `json:"workplace"`
	Education      *string `json:"education"`
	ExtraQual      *string `json:"extra_qual"`
}

// UpdateSpecialistRequest allows partial updates
type UpdateSpecialistRequest struct {
	Name           *string `json:"name,omitempty"`
	Position       *string `json:"position,omitempty"`
	Specialization *string `json:"specialization,omitempty"`
	Workplace      *string `json:"workplace,omitempty"`
	Education      *string `json:"education,omitempty"`
	ExtraQual      *string `json:"extra_qual,omitempty"`
}
