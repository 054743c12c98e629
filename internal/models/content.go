package models

// PostModel is a blog-style post shown in the posts viewer. Text is markdown;
// rendered HTML is produced at read time, never stored.
type PostModel struct {
	Base
	Slug        string      `json:"slug"         gorm:"uniqueIndex;not null"`
	Title       string      `json:"title"        gorm:"not null"`
	Summary     string      `json:"summary"`
	Text        string      `json:"text"         gorm:"type:longtext"`
	Tags        StringArray `json:"tags"         gorm:"type:text"`
	IsPublished bool        `json:"is_published" gorm:"default:false;index"`
	ReadCount   int         `json:"read"         gorm:"column:read_count;default:0"`
	Pin         bool        `json:"pin"          gorm:"default:false"`
}

func (PostModel) TableName() string { return "posts" }

// LinkModel is a landing-page link card.
type LinkModel struct {
	Base
	Name        string `json:"name"        gorm:"not null"`
	URL         string `json:"url"         gorm:"uniqueIndex;not null"`
	Icon        string `json:"icon"`
	Description string `json:"description"`
	OrderNum    int    `json:"order"       gorm:"column:order_num;default:0"`
	Hidden      bool   `json:"hidden"      gorm:"default:false;index"`
}

func (LinkModel) TableName() string { return "links" }

// QuoteModel is an entry in the quotes gallery.
type QuoteModel struct {
	Base
	Text   string `json:"text"   gorm:"type:text;not null"`
	Author string `json:"author"`
	Source string `json:"source"`
}

func (QuoteModel) TableName() string { return "quotes" }
