package models

import "time"

// Report statuses, advanced by admins only.
const (
	ReportPending     = "PENDING"
	ReportUnderReview = "UNDER_REVIEW"
	ReportResolved    = "RESOLVED"
	ReportDismissed   = "DISMISSED"
)

// Report targets exactly one of a user or a post. The two partial composite
// unique indexes enforce at most one report per (reporter, target) pair;
// NULL target columns keep the other index out of play.
type Report struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	Reason         string    `json:"reason" gorm:"size:500;not null"`
	ReporterID     uint      `json:"reporter_id" gorm:"index;uniqueIndex:idx_reporter_reported_user;uniqueIndex:idx_reporter_reported_post"`
	ReportedUserID *uint     `json:"reported_user_id,omitempty" gorm:"uniqueIndex:idx_reporter_reported_user"`
	ReportedPostID *uint     `json:"reported_post_id,omitempty" gorm:"uniqueIndex:idx_reporter_reported_post"`
	Status         string    `json:"status" gorm:"size:20;default:'PENDING'"`
	CreatedAt      time.Time `json:"created_at"`
}

// CreateReportRequest defines the request body for filing a report
type CreateReportRequest struct {
	Reason         string `json:"reason" validate:"required,min=10,max=500"`
	ReportedUserID *uint  `json:"reportedUserId,omitempty"`
	ReportedPostID *uint  `json:"reportedPostId,omitempty"`
}

// ValidStatus reports whether s is one of the known report statuses.
func ValidStatus(s string) bool {
	switch s {
	case ReportPending, ReportUnderReview, ReportResolved, ReportDismissed:
		return true
	}
	return false
}
