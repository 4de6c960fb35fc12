package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/tanvirio/openblog/backend/internal/models"
	"github.com/tanvirio/openblog/backend/internal/repositories"
)

const (
	defaultPageSize = 10
	maxPageSize     = 50
)

// PostHandler handles the post lifecycle plus likes and visibility.
type PostHandler struct {
	postRepo    repositories.PostRepository
	userRepo    repositories.UserRepository
	likeRepo    repositories.LikeRepository
	commentRepo repositories.CommentRepository
	followRepo  repositories.FollowRepository
	notifRepo   repositories.NotificationRepository
	reportRepo  repositories.ReportRepository
}

func NewPostHandler(
	postRepo repositories.PostRepository,
	userRepo repositories.UserRepository,
	likeRepo repositories.LikeRepository,
	commentRepo repositories.CommentRepository,
	followRepo repositories.FollowRepository,
	notifRepo repositories.NotificationRepository,
	reportRepo repositories.ReportRepository,
) *PostHandler {
	return &PostHandler{
		postRepo:    postRepo,
		userRepo:    userRepo,
		likeRepo:    likeRepo,
		commentRepo: commentRepo,
		followRepo:  followRepo,
		notifRepo:   notifRepo,
		reportRepo:  reportRepo,
	}
}

func parsePagination(c echo.Context) (offset, limit int) {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 0 {
		page = 0
	}
	size, _ := strconv.Atoi(c.QueryParam("size"))
	if size <= 0 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	return page * size, size
}

// postDTO assembles the denormalized view of a post for the given viewer.
func (h *PostHandler) postDTO(post *models.Post, viewerID uint, viewerIsAdmin bool) (*PostDTO, error) {
	likes, err := h.likeRepo.CountPostLikes(post.ID)
	if err != nil {
		return nil, err
	}
	comments, err := h.commentRepo.CountByPostID(post.ID)
	if err != nil {
		return nil, err
	}
	isLiked := false
	if viewerID != 0 {
		isLiked, err = h.likeRepo.HasUserLikedPost(post.ID, viewerID)
		if err != nil {
			return nil, err
		}
	}

	isOwner := viewerID == post.AuthorID
	dto := &PostDTO{
		ID:        post.ID,
		User:      toUserSummaryDTO(&post.Author),
		Time:      timeAgo(post.CreatedAt),
		ReadTime:  post.ReadTime,
		Title:     post.Title,
		Content:   post.Content,
		Images:    post.ImageURLs(),
		Tags:      post.TagNames(),
		Category:  post.Category,
		Likes:     likes,
		Comments:  comments,
		IsLiked:   isLiked,
		Hidden:    post.Hidden,
		CanEdit:   isOwner,
		CanDelete: isOwner || viewerIsAdmin,
		CreatedAt: post.CreatedAt,
	}

	if viewerIsAdmin {
		reports, err := h.reportRepo.CountByReportedPost(post.ID)
		if err != nil {
			return nil, err
		}
		dto.ReportsCount = reports
	}
	return dto, nil
}

func (h *PostHandler) postDTOs(posts []models.Post, viewerID uint, viewerIsAdmin bool) ([]PostDTO, error) {
	dtos := make([]PostDTO, 0, len(posts))
	for i := range posts {
		dto, err := h.postDTO(&posts[i], viewerID, viewerIsAdmin)
		if err != nil {
			return nil, err
		}
		dtos = append(dtos, *dto)
	}
	return dtos, nil
}

// CreatePost stores a new post and fans a NEW_POST notification out to the
// author's subscribed followers.
func (h *PostHandler) CreatePost(c echo.Context) error {
	author, err := requireActiveUser(c, h.userRepo)
	if err != nil {
		return err
	}
	userID := author.ID

	req := new(models.CreatePostRequest)
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return err
	}
	for _, url := range req.Images {
		if !isAllowedMediaURL(url) {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid image URL")
		}
	}

	post := &models.Post{
		Title:    req.Title,
		Content:  req.Content,
		Category: req.Category,
		ReadTime: req.ReadTime,
		AuthorID: userID,
	}
	for _, url := range req.Images {
		post.Images = append(post.Images, models.PostImage{URL: url})
	}
	for _, tag := range req.Tags {
		post.Tags = append(post.Tags, models.PostTag{Name: tag})
	}

	if err := h.postRepo.CreatePost(post); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create post")
	}

	// Only followers who opted in receive the fan-out.
	subscribers, err := h.followRepo.GetSubscribedFollowers(userID)
	if err != nil {
		c.Logger().Warnf("failed to load subscribed followers: %v", err)
	} else {
		for i := range subscribers {
			notify(h.notifRepo, subscribers[i].ID, userID, models.NotificationNewPost, post.ID)
		}
	}

	created, err := h.postRepo.GetPostByID(post.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load post")
	}
	dto, err := h.postDTO(created, userID, isAdminContext(c))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load post")
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": dto})
}

// GetPosts returns the paginated feed. Hidden posts are visible only to
// their owner or to admins.
func (h *PostHandler) GetPosts(c echo.Context) error {
	viewerID := getUserIDFromContext(c)
	viewerIsAdmin := isAdminContext(c)
	offset, limit := parsePagination(c)

	posts, err := h.postRepo.GetPosts(viewerID, viewerIsAdmin, offset, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch posts")
	}
	dtos, err := h.postDTOs(posts, viewerID, viewerIsAdmin)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch posts")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": dtos})
}

// GetPost returns a single post. A hidden post reads as not found to
// everyone but its owner and admins, so its existence is not revealed.
func (h *PostHandler) GetPost(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	viewerID := getUserIDFromContext(c)
	viewerIsAdmin := isAdminContext(c)

	post, err := h.postRepo.GetPostByID(id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}
	if post.Hidden && post.AuthorID != viewerID && !viewerIsAdmin {
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}

	dto, err := h.postDTO(post, viewerID, viewerIsAdmin)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load post")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": dto})
}

// GetPostsByAuthor returns one user's posts, hidden ones included when the
// viewer is the author or an admin.
func (h *PostHandler) GetPostsByAuthor(c echo.Context) error {
	authorID, err := parseIDParam(c, "userId")
	if err != nil {
		return err
	}
	if _, err := h.userRepo.GetUserByID(authorID); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}

	viewerID := getUserIDFromContext(c)
	viewerIsAdmin := isAdminContext(c)
	offset, limit := parsePagination(c)

	posts, err := h.postRepo.GetPostsByAuthor(authorID, viewerID, viewerIsAdmin, offset, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch posts")
	}
	dtos, err := h.postDTOs(posts, viewerID, viewerIsAdmin)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch posts")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": dtos})
}

// UpdatePost replaces the editable fields of a post. Only the author may
// edit; admins moderate through hide and delete instead.
func (h *PostHandler) UpdatePost(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	caller, err := requireActiveUser(c, h.userRepo)
	if err != nil {
		return err
	}
	userID := caller.ID

	post, err := h.postRepo.GetPostByID(id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}
	if post.AuthorID != userID {
		return echo.NewHTTPError(http.StatusForbidden, "You can only edit your own posts")
	}

	req := new(models.CreatePostRequest)
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return err
	}
	for _, url := range req.Images {
		if !isAllowedMediaURL(url) {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid image URL")
		}
	}

	post.Title = req.Title
	post.Content = req.Content
	post.Category = req.Category
	post.ReadTime = req.ReadTime

	if err := h.postRepo.UpdatePost(post); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update post")
	}
	if err := h.postRepo.ReplaceImages(post.ID, req.Images); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update post images")
	}
	if err := h.postRepo.ReplaceTags(post.ID, req.Tags); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update post tags")
	}

	updated, err := h.postRepo.GetPostByID(post.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load post")
	}
	dto, err := h.postDTO(updated, userID, isAdminContext(c))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load post")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": dto})
}

// DeletePost removes a post with everything hanging off it. Allowed for the
// author and for admins.
func (h *PostHandler) DeletePost(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	caller, err := requireActiveUser(c, h.userRepo)
	if err != nil {
		return err
	}

	post, err := h.postRepo.GetPostByID(id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}
	if post.AuthorID != caller.ID && !isAdminContext(c) {
		return echo.NewHTTPError(http.StatusForbidden, "You can only delete your own posts")
	}

	if err := h.postRepo.DeletePostCascade(id); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete post")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Post deleted",
	})
}

// ToggleHide flips a post's visibility. Allowed for the author and admins.
func (h *PostHandler) ToggleHide(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	caller, err := requireActiveUser(c, h.userRepo)
	if err != nil {
		return err
	}

	post, err := h.postRepo.GetPostByID(id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}
	if post.AuthorID != caller.ID && !isAdminContext(c) {
		return echo.NewHTTPError(http.StatusForbidden, "You can only hide your own posts")
	}

	post.Hidden = !post.Hidden
	if err := h.postRepo.UpdatePost(post); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update post")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"hidden": post.Hidden},
	})
}

// ToggleLike likes or unlikes a post. A fresh like notifies the author; an
// unlike leaves the earlier notification in place.
func (h *PostHandler) ToggleLike(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	caller, err := requireActiveUser(c, h.userRepo)
	if err != nil {
		return err
	}
	userID := caller.ID
	viewerIsAdmin := isAdminContext(c)

	post, err := h.postRepo.GetPostByID(id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}
	if post.Hidden && post.AuthorID != userID && !viewerIsAdmin {
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}

	liked, err := h.likeRepo.TogglePostLike(id, userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update like state")
	}

	if liked {
		notify(h.notifRepo, post.AuthorID, userID, models.NotificationLike, post.ID)
	}

	dto, err := h.postDTO(post, userID, viewerIsAdmin)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load post")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": dto})
}
