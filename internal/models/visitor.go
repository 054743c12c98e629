package models

import "time"

// VisitorModel is the profile of an anonymous visitor session. The ID is the
// stable per-device userId issued at first anonymous sign-in. The row is
// created once and updated in place afterwards (SessionCount increment,
// LastActive touch), never replaced.
type VisitorModel struct {
	Base
	DisplayName  string     `json:"display_name" gorm:"not null"`
	AvatarLetter string     `json:"avatar_letter" gorm:"type:char(1)"`
	LastActive   *time.Time `json:"last_active"`
	SessionCount int        `json:"session_count" gorm:"default:1"`
}

func (VisitorModel) TableName() string { return "visitors" }
