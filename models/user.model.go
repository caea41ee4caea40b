package models

import "time"

// User mirrors the identity provider's subject. The ID is issued by the
// provider and is never generated locally; rows are maintained by the
// identity webhook.
type User struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"default:''" json:"name"`
	Email     string    `gorm:"index" json:"email"`
	ImageURL  string    `gorm:"default:''" json:"image_url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
