package models

import "time"

type Sponsor struct {
	ID          string    `json:"id"`
	CompanyName string    `json:"company_name"`
	Description string    `json:"description"`
	Logo        string    `json:"logo"`
	Website     *string   `json:"website,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// SponsorInquiry: заявка компании, которая хочет стать спонсором.
type SponsorInquiry struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	CompanyName string    `json:"company_name"`
	Message     string    `json:"message"`
	CreatedAt   time.Time `json:"created_at"`
}
