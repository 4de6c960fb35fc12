package repositories

import (
	"time"

	"github.com/tanvirio/openblog/backend/internal/models"
	"gorm.io/gorm"
)

// PostActivity is one day's worth of created posts.
type PostActivity struct {
	Day   time.Time `json:"date"`
	Count int64     `json:"count"`
}

// PostRepository defines the interface for post data operations
type PostRepository interface {
	CreatePost(post *models.Post) error
	GetPostByID(id uint) (*models.Post, error)
	GetPosts(viewerID uint, includeHidden bool, offset, limit int) ([]models.Post, error)
	GetPostsByAuthor(authorID, viewerID uint, includeHidden bool, offset, limit int) ([]models.Post, error)
	UpdatePost(post *models.Post) error
	ReplaceImages(postID uint, urls []string) error
	ReplaceTags(postID uint, names []string) error
	DeletePostCascade(id uint) error
	SearchPosts(query string, viewerID uint, includeHidden bool, limit int) ([]models.Post, error)
	CountPosts() (int64, error)
	CountByAuthor(authorID uint) (int64, error)
	PostActivitySince(start time.Time) ([]PostActivity, error)
}

// PostgresPostRepository implements PostRepository for PostgreSQL
type PostgresPostRepository struct {
	db *gorm.DB
}

// NewPostgresPostRepository creates a new PostgresPostRepository
func NewPostgresPostRepository(db *gorm.DB) *PostgresPostRepository {
	return &PostgresPostRepository{db: db}
}

func (r *PostgresPostRepository) CreatePost(post *models.Post) error {
	return r.db.Create(post).Error
}

func (r *PostgresPostRepository) GetPostByID(id uint) (*models.Post, error) {
	var post models.Post
	if err := r.db.Preload("Images").Preload("Tags").Preload("Author").First(&post, id).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// GetPosts lists newest-first. Hidden posts stay visible to their owner;
// includeHidden lifts the filter entirely for admins.
func (r *PostgresPostRepository) GetPosts(viewerID uint, includeHidden bool, offset, limit int) ([]models.Post, error) {
	var posts []models.Post
	q := r.db.Preload("Images").Preload("Tags").Preload("Author").Order("created_at DESC").Offset(offset).Limit(limit)
	if !includeHidden {
		q = q.Where("hidden = false OR author_id = ?", viewerID)
	}
	err := q.Find(&posts).Error
	return posts, err
}

func (r *PostgresPostRepository) GetPostsByAuthor(authorID, viewerID uint, includeHidden bool, offset, limit int) ([]models.Post, error) {
	var posts []models.Post
	q := r.db.Preload("Images").Preload("Tags").Preload("Author").
		Where("author_id = ?", authorID).
		Order("created_at DESC").Offset(offset).Limit(limit)
	if !includeHidden {
		q = q.Where("hidden = false OR author_id = ?", viewerID)
	}
	err := q.Find(&posts).Error
	return posts, err
}

func (r *PostgresPostRepository) UpdatePost(post *models.Post) error {
	return r.db.Omit("Images", "Tags", "Author").Save(post).Error
}

// ReplaceImages swaps the attached media references for a post.
func (r *PostgresPostRepository) ReplaceImages(postID uint, urls []string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", postID).Delete(&models.PostImage{}).Error; err != nil {
			return err
		}
		for _, url := range urls {
			if err := tx.Create(&models.PostImage{PostID: postID, URL: url}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// ReplaceTags swaps the labels attached to a post.
func (r *PostgresPostRepository) ReplaceTags(postID uint, names []string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", postID).Delete(&models.PostTag{}).Error; err != nil {
			return err
		}
		for _, name := range names {
			if err := tx.Create(&models.PostTag{PostID: postID, Name: name}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// DeletePostCascade removes a post together with its comments, all like
// rows, attached images, reports against it, and notifications that point
// at it.
func (r *PostgresPostRepository) DeletePostCascade(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var commentIDs []uint
		if err := tx.Model(&models.Comment{}).Where("post_id = ?", id).Pluck("id", &commentIDs).Error; err != nil {
			return err
		}
		if len(commentIDs) > 0 {
			if err := tx.Where("comment_id IN ?", commentIDs).Delete(&models.CommentLike{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.PostLike{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.PostImage{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.PostTag{}).Error; err != nil {
			return err
		}
		if err := tx.Where("reported_post_id = ?", id).Delete(&models.Report{}).Error; err != nil {
			return err
		}
		postTypes := []models.NotificationType{models.NotificationLike, models.NotificationComment, models.NotificationNewPost}
		if err := tx.Where("type IN ? AND entity_id = ?", postTypes, id).Delete(&models.Notification{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Post{}, id).Error
	})
}

// SearchPosts matches title or category, case-insensitive. The hidden
// filter runs in SQL so invisible posts never consume result slots.
func (r *PostgresPostRepository) SearchPosts(query string, viewerID uint, includeHidden bool, limit int) ([]models.Post, error) {
	var posts []models.Post
	pattern := "%" + query + "%"
	q := r.db.Preload("Images").Preload("Tags").Preload("Author").
		Where("title ILIKE ? OR category ILIKE ?", pattern, pattern).
		Order("created_at DESC").
		Limit(limit)
	if !includeHidden {
		q = q.Where("hidden = false OR author_id = ?", viewerID)
	}
	err := q.Find(&posts).Error
	return posts, err
}

func (r *PostgresPostRepository) CountPosts() (int64, error) {
	var count int64
	err := r.db.Model(&models.Post{}).Count(&count).Error
	return count, err
}

func (r *PostgresPostRepository) CountByAuthor(authorID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Post{}).Where("author_id = ?", authorID).Count(&count).Error
	return count, err
}

// PostActivitySince buckets post creation per day for the dashboard chart.
func (r *PostgresPostRepository) PostActivitySince(start time.Time) ([]PostActivity, error) {
	var activity []PostActivity
	err := r.db.Model(&models.Post{}).
		Select("DATE(created_at) AS day, COUNT(*) AS count").
		Where("created_at >= ?", start).
		Group("DATE(created_at)").
		Order("day").
		Scan(&activity).Error
	return activity, err
}
