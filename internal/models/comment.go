package models

// CommentCategory is the fixed category enumeration for feedback comments.
type CommentCategory string

const (
	CategoryImprovement    CommentCategory = "improvement"
	CategoryRecommendation CommentCategory = "recommendation"
	CategoryRequest        CommentCategory = "request"
	CategoryReport         CommentCategory = "report"
	CategoryOthers         CommentCategory = "others"
)

// ValidCategory reports whether c is a member of the category enumeration.
func ValidCategory(c CommentCategory) bool {
	switch c {
	case CategoryImprovement, CategoryRecommendation, CategoryRequest, CategoryReport, CategoryOthers:
		return true
	}
	return false
}

// CommentStatus is the moderation state of a comment. Only "active" comments
// are served to visitors; other values are opaque to the public surface.
type CommentStatus string

const (
	CommentActive  CommentStatus = "active"
	CommentHidden  CommentStatus = "hidden"
	CommentRemoved CommentStatus = "removed"
)

// CommentModel is a feedback comment. UserName and UserAvatar are denormalized
// display fields copied from the author's profile at post time and never
// synced retroactively. ReplyCount is advisory: a reply may exist without the
// counter reflecting it.
type CommentModel struct {
	Base
	Content     string          `json:"content"      gorm:"type:text;not null"`
	Category    CommentCategory `json:"category"     gorm:"type:varchar(32);not null;index"`
	UserID      string          `json:"user_id"      gorm:"not null;index"`
	UserName    string          `json:"user_name"`
	UserAvatar  string          `json:"user_avatar"`
	Status      CommentStatus   `json:"status"       gorm:"type:varchar(16);default:'active';index"`
	Likes       int             `json:"likes"        gorm:"default:0"`
	LikedBy     StringArray     `json:"liked_by"     gorm:"type:text"`
	ReplyCount  int             `json:"reply_count"  gorm:"default:0"`
	Reports     int             `json:"reports"      gorm:"default:0"`
	IsSensitive bool            `json:"is_sensitive" gorm:"default:false"`
}

func (CommentModel) TableName() string { return "comments" }

// ReplyModel is a reply under a comment. Replies are fetched on demand and
// never cached or rendered inline in the main feed.
type ReplyModel struct {
	Base
	CommentID  string      `json:"comment_id"  gorm:"not null;index"`
	Content    string      `json:"content"     gorm:"type:text;not null"`
	UserID     string      `json:"user_id"     gorm:"not null"`
	UserName   string      `json:"user_name"`
	UserAvatar string      `json:"user_avatar"`
	Likes      int         `json:"likes"       gorm:"default:0"`
	LikedBy    StringArray `json:"liked_by"    gorm:"type:text"`
}

func (ReplyModel) TableName() string { return "replies" }
