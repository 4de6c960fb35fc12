package repositories

import (
	"github.com/tanvirio/openblog/backend/internal/models"
	"gorm.io/gorm"
)

// ReportedUserCount is one row of the most-reported aggregation.
type ReportedUserCount struct {
	UserID uint  `json:"user_id"`
	Count  int64 `json:"count"`
}

// ReportRepository defines the interface for report data operations
type ReportRepository interface {
	CreateReport(report *models.Report) error
	GetReports() ([]models.Report, error)
	GetReportByID(id uint) (*models.Report, error)
	UpdateStatus(id uint, status string) error
	ExistsByReporterAndUser(reporterID, reportedUserID uint) (bool, error)
	ExistsByReporterAndPost(reporterID, reportedPostID uint) (bool, error)
	CountReports() (int64, error)
	CountByStatus(status string) (int64, error)
	CountByReportedPost(postID uint) (int64, error)
	MostReportedUsers(limit int) ([]ReportedUserCount, error)
}

// PostgresReportRepository implements ReportRepository for PostgreSQL
type PostgresReportRepository struct {
	db *gorm.DB
}

// NewPostgresReportRepository creates a new PostgresReportRepository
func NewPostgresReportRepository(db *gorm.DB) *PostgresReportRepository {
	return &PostgresReportRepository{db: db}
}

// CreateReport inserts the report. A duplicate (reporter, target) pair
// surfaces as gorm.ErrDuplicatedKey for the caller to map to a conflict.
func (r *PostgresReportRepository) CreateReport(report *models.Report) error {
	return r.db.Create(report).Error
}

func (r *PostgresReportRepository) GetReports() ([]models.Report, error) {
	var reports []models.Report
	err := r.db.Order("created_at DESC").Find(&reports).Error
	return reports, err
}

func (r *PostgresReportRepository) GetReportByID(id uint) (*models.Report, error) {
	var report models.Report
	if err := r.db.First(&report, id).Error; err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *PostgresReportRepository) UpdateStatus(id uint, status string) error {
	res := r.db.Model(&models.Report{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *PostgresReportRepository) ExistsByReporterAndUser(reporterID, reportedUserID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Report{}).
		Where("reporter_id = ? AND reported_user_id = ?", reporterID, reportedUserID).
		Count(&count).Error
	return count > 0, err
}

func (r *PostgresReportRepository) ExistsByReporterAndPost(reporterID, reportedPostID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Report{}).
		Where("reporter_id = ? AND reported_post_id = ?", reporterID, reportedPostID).
		Count(&count).Error
	return count > 0, err
}

func (r *PostgresReportRepository) CountReports() (int64, error) {
	var count int64
	err := r.db.Model(&models.Report{}).Count(&count).Error
	return count, err
}

func (r *PostgresReportRepository) CountByStatus(status string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Report{}).Where("status = ?", status).Count(&count).Error
	return count, err
}

func (r *PostgresReportRepository) CountByReportedPost(postID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Report{}).Where("reported_post_id = ?", postID).Count(&count).Error
	return count, err
}

// MostReportedUsers aggregates reports against users, most reported first.
func (r *PostgresReportRepository) MostReportedUsers(limit int) ([]ReportedUserCount, error) {
	var rows []ReportedUserCount
	err := r.db.Model(&models.Report{}).
		Select("reported_user_id AS user_id, COUNT(*) AS count").
		Where("reported_user_id IS NOT NULL").
		Group("reported_user_id").
		Order("count DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}
