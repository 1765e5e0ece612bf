package models

import (
	"time"
)

// ShortLink is one shortcode -> destination mapping. Rows are never updated
// after creation except for the clicks_count counter.
type ShortLink struct {
	ID          uint         `json:"id" gorm:"primaryKey"`
	Shortcode   string       `json:"shortcode" gorm:"column:shortcode;unique;not null"`
	OriginalURL string       `json:"url" gorm:"column:original_url;not null"`
	CreatedAt   time.Time    `json:"created_at" gorm:"column:created_at;not null"`
	ExpiryAt    time.Time    `json:"expiry_at" gorm:"column:expiry_at;not null"`
	ClickCount  int          `json:"clicks" gorm:"column:clicks_count;default:0"`
	Clicks      []ClickEvent `json:"clicks_data,omitempty" gorm:"foreignKey:LinkID"`
}

func (ShortLink) TableName() string { return "urls" }

// Expired reports whether the link's validity window has passed at now.
func (l *ShortLink) Expired(now time.Time) bool {
	return now.After(l.ExpiryAt)
}
