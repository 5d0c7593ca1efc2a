package model

import "time"

// Expert is a practitioner as listed in the public directory.
type Expert struct {
	ID              string    `json:"_id"`
	UserID          string    `json:"userId,omitempty"`
	Name            string    `json:"name"`
	Specialization  string    `json:"specialization"`
	Bio             string    `json:"bio,omitempty"`
	ExperienceYears int       `json:"experience,omitempty"`
	Rating          float64   `json:"rating,omitempty"`
	Languages       []string  `json:"languages,omitempty"`
	Avatar          string    `json:"profileImage,omitempty"`
	Plans           []Plan    `json:"plans,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}

// ExpertRegistration is submitted by an account applying to become an expert.
type ExpertRegistration struct {
	Specialization  string   `json:"specialization"`
	Bio             string   `json:"bio"`
	ExperienceYears int      `json:"experience"`
	Languages       []string `json:"languages,omitempty"`
	Certifications  []string `json:"certifications,omitempty"`
}
