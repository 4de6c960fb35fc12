package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/tanvirio/openblog/backend/internal/models"
	"github.com/tanvirio/openblog/backend/internal/repositories"
)

// CommentHandler handles comments and comment likes.
type CommentHandler struct {
	commentRepo repositories.CommentRepository
	postRepo    repositories.PostRepository
	likeRepo    repositories.LikeRepository
	notifRepo   repositories.NotificationRepository
	userRepo    repositories.UserRepository
}

func NewCommentHandler(
	commentRepo repositories.CommentRepository,
	postRepo repositories.PostRepository,
	likeRepo repositories.LikeRepository,
	notifRepo repositories.NotificationRepository,
	userRepo repositories.UserRepository,
) *CommentHandler {
	return &CommentHandler{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		likeRepo:    likeRepo,
		notifRepo:   notifRepo,
		userRepo:    userRepo,
	}
}

// visiblePost loads a post and applies the hidden-post visibility rule.
func (h *CommentHandler) visiblePost(c echo.Context, postID uint) (*models.Post, error) {
	post, err := h.postRepo.GetPostByID(postID)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}
	if post.Hidden && post.AuthorID != getUserIDFromContext(c) && !isAdminContext(c) {
		return nil, echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}
	return post, nil
}

func (h *CommentHandler) commentDTO(comment *models.Comment, viewerID uint, postAuthorID uint, viewerIsAdmin bool) (*CommentDTO, error) {
	likes, err := h.likeRepo.CountCommentLikes(comment.ID)
	if err != nil {
		return nil, err
	}
	isLiked := false
	if viewerID != 0 {
		isLiked, err = h.likeRepo.HasUserLikedComment(comment.ID, viewerID)
		if err != nil {
			return nil, err
		}
	}
	return &CommentDTO{
		ID:        comment.ID,
		User:      toUserSummaryDTO(&comment.Author),
		Content:   comment.Content,
		Time:      timeAgo(comment.CreatedAt),
		Likes:     likes,
		IsLiked:   isLiked,
		CanDelete: viewerID == comment.AuthorID || viewerID == postAuthorID || viewerIsAdmin,
		CreatedAt: comment.CreatedAt,
	}, nil
}

// CreateComment adds a comment to a post and notifies the post's author.
func (h *CommentHandler) CreateComment(c echo.Context) error {
	postID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	caller, err := requireActiveUser(c, h.userRepo)
	if err != nil {
		return err
	}
	userID := caller.ID

	post, err := h.visiblePost(c, postID)
	if err != nil {
		return err
	}

	req := new(models.CreateCommentRequest)
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	comment := &models.Comment{
		Content:  req.Content,
		AuthorID: userID,
		PostID:   postID,
	}
	if err := h.commentRepo.CreateComment(comment); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create comment")
	}

	notify(h.notifRepo, post.AuthorID, userID, models.NotificationComment, post.ID)

	created, err := h.commentRepo.GetCommentByID(comment.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load comment")
	}
	dto, err := h.commentDTO(created, userID, post.AuthorID, isAdminContext(c))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load comment")
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": dto})
}

// GetComments lists a post's comments, newest first.
func (h *CommentHandler) GetComments(c echo.Context) error {
	postID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	post, err := h.visiblePost(c, postID)
	if err != nil {
		return err
	}

	comments, err := h.commentRepo.GetCommentsByPostID(postID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch comments")
	}

	viewerID := getUserIDFromContext(c)
	viewerIsAdmin := isAdminContext(c)
	dtos := make([]CommentDTO, 0, len(comments))
	for i := range comments {
		dto, err := h.commentDTO(&comments[i], viewerID, post.AuthorID, viewerIsAdmin)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch comments")
		}
		dtos = append(dtos, *dto)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": dtos})
}

// DeleteComment removes a comment. Allowed for the comment author, the post
// author and admins.
func (h *CommentHandler) DeleteComment(c echo.Context) error {
	commentID, err := parseIDParam(c, "commentId")
	if err != nil {
		return err
	}
	caller, err := requireActiveUser(c, h.userRepo)
	if err != nil {
		return err
	}
	userID := caller.ID

	comment, err := h.commentRepo.GetCommentByID(commentID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Comment not found")
	}
	post, err := h.postRepo.GetPostByID(comment.PostID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}

	if comment.AuthorID != userID && post.AuthorID != userID && !isAdminContext(c) {
		return echo.NewHTTPError(http.StatusForbidden, "You cannot delete this comment")
	}

	if err := h.commentRepo.DeleteCommentCascade(commentID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete comment")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Comment deleted",
	})
}

// ToggleCommentLike likes or unlikes a comment. Comment likes do not
// generate notifications.
func (h *CommentHandler) ToggleCommentLike(c echo.Context) error {
	commentID, err := parseIDParam(c, "commentId")
	if err != nil {
		return err
	}
	caller, err := requireActiveUser(c, h.userRepo)
	if err != nil {
		return err
	}
	userID := caller.ID

	comment, err := h.commentRepo.GetCommentByID(commentID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Comment not found")
	}
	if _, err := h.visiblePost(c, comment.PostID); err != nil {
		return err
	}

	liked, err := h.likeRepo.ToggleCommentLike(commentID, userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update like state")
	}

	likes, err := h.likeRepo.CountCommentLikes(commentID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to count likes")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"liked": liked, "likes": likes},
	})
}
