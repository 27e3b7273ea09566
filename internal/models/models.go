package models

import "time"

// SavedRequest is a named list request kept for reuse
type SavedRequest struct {
	ID          string    `yaml:"id" json:"id"`
	Name        string    `yaml:"name" json:"name"`
	Description string    `yaml:"description" json:"description"`
	Entity      string    `yaml:"entity" json:"entity"`
	Request     string    `yaml:"request" json:"request"` // raw request envelope JSON
	Tags        []string  `yaml:"tags" json:"tags"`
	CreatedAt   time.Time `yaml:"created_at" json:"created_at"`
	UpdatedAt   time.Time `yaml:"updated_at" json:"updated_at"`
	LastUsed    time.Time `yaml:"last_used" json:"last_used"`
	UsageCount  int       `yaml:"usage_count" json:"usage_count"`
}

// Principal is the authenticated caller a list request runs for
type Principal struct {
	UserID int64
}
