package models

// ReportStatus is the review state of a content report.
type ReportStatus string

const (
	ReportPending  ReportStatus = "pending"
	ReportResolved ReportStatus = "resolved"
	ReportIgnored  ReportStatus = "ignored"
)

// ReportModel is a visitor-submitted content report. Visitors only ever write
// these; the owner moderation surface is the only read path. Reports are not
// deduplicated per reporter.
type ReportModel struct {
	Base
	ContentID   string       `json:"content_id"   gorm:"not null;index"`
	ContentType string       `json:"content_type" gorm:"type:varchar(32);not null"`
	Reason      string       `json:"reason"       gorm:"type:varchar(500);not null"`
	ReportedBy  string       `json:"reported_by"  gorm:"index"`
	Status      ReportStatus `json:"status"       gorm:"type:varchar(16);default:'pending';index"`
	Reviewed    bool         `json:"reviewed"     gorm:"default:false"`
}

func (ReportModel) TableName() string { return "reports" }
