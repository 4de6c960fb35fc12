package repositories

import (
	"github.com/tanvirio/openblog/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LikeRepository defines the interface for like data operations
type LikeRepository interface {
	TogglePostLike(postID, userID uint) (liked bool, err error)
	ToggleCommentLike(commentID, userID uint) (liked bool, err error)
	CountPostLikes(postID uint) (int64, error)
	CountCommentLikes(commentID uint) (int64, error)
	HasUserLikedPost(postID, userID uint) (bool, error)
	HasUserLikedComment(commentID, userID uint) (bool, error)
}

// PostgresLikeRepository implements LikeRepository for PostgreSQL
type PostgresLikeRepository struct {
	db *gorm.DB
}

// NewPostgresLikeRepository creates a new PostgresLikeRepository
func NewPostgresLikeRepository(db *gorm.DB) *PostgresLikeRepository {
	return &PostgresLikeRepository{db: db}
}

// TogglePostLike flips the like state with an insert-if-absent /
// delete-if-present pair. The ON CONFLICT DO NOTHING insert keeps two
// concurrent toggles by the same user from ever producing a duplicate row.
func (r *PostgresLikeRepository) TogglePostLike(postID, userID uint) (bool, error) {
	like := &models.PostLike{PostID: postID, UserID: userID}
	res := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(like)
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected > 0 {
		return true, nil
	}
	del := r.db.Where("post_id = ? AND user_id = ?", postID, userID).Delete(&models.PostLike{})
	if del.Error != nil {
		return false, del.Error
	}
	return false, nil
}

func (r *PostgresLikeRepository) ToggleCommentLike(commentID, userID uint) (bool, error) {
	like := &models.CommentLike{CommentID: commentID, UserID: userID}
	res := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(like)
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected > 0 {
		return true, nil
	}
	del := r.db.Where("comment_id = ? AND user_id = ?", commentID, userID).Delete(&models.CommentLike{})
	if del.Error != nil {
		return false, del.Error
	}
	return false, nil
}

func (r *PostgresLikeRepository) CountPostLikes(postID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.PostLike{}).Where("post_id = ?", postID).Count(&count).Error
	return count, err
}

func (r *PostgresLikeRepository) CountCommentLikes(commentID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.CommentLike{}).Where("comment_id = ?", commentID).Count(&count).Error
	return count, err
}

func (r *PostgresLikeRepository) HasUserLikedPost(postID, userID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.PostLike{}).Where("post_id = ? AND user_id = ?", postID, userID).Count(&count).Error
	return count > 0, err
}

func (r *PostgresLikeRepository) HasUserLikedComment(commentID, userID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.CommentLike{}).Where("comment_id = ? AND user_id = ?", commentID, userID).Count(&count).Error
	return count > 0, err
}
