package models

import (
	"time"
)

// ClickEvent is an append-only visit record for a ShortLink.
type ClickEvent struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	LinkID    uint      `json:"url_id" gorm:"column:url_id;index;not null"`
	Timestamp time.Time `json:"timestamp" gorm:"column:timestamp;not null"`
	Referrer  string    `json:"referrer" gorm:"column:referrer"`
	Country   string    `json:"country" gorm:"column:country"`
}

func (ClickEvent) TableName() string { return "clicks" }
