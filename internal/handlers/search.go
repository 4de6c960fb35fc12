package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/tanvirio/openblog/backend/internal/repositories"
)

const (
	defaultSearchLimit = 20
	maxSearchLimit     = 50
)

// SearchHandler serves combined post and people search.
type SearchHandler struct {
	postRepo    repositories.PostRepository
	userRepo    repositories.UserRepository
	postHandler *PostHandler
}

func NewSearchHandler(postRepo repositories.PostRepository, userRepo repositories.UserRepository, postHandler *PostHandler) *SearchHandler {
	return &SearchHandler{
		postRepo:    postRepo,
		userRepo:    userRepo,
		postHandler: postHandler,
	}
}

// Search matches posts by title or category and people by name or email.
// The filter parameter narrows the scope to "posts" or "people"; anything
// else searches both. An empty query yields empty results, not an error.
// Hidden posts follow the usual visibility rule.
func (h *SearchHandler) Search(c echo.Context) error {
	query := strings.TrimSpace(c.QueryParam("q"))
	scope := c.QueryParam("filter")

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}

	viewerID := getUserIDFromContext(c)
	viewerIsAdmin := isAdminContext(c)

	result := echo.Map{}
	if query == "" {
		if scope == "" || scope == "all" || scope == "posts" {
			result["posts"] = []PostDTO{}
		}
		if scope == "" || scope == "all" || scope == "people" {
			result["people"] = []UserSummaryDTO{}
		}
		return c.JSON(http.StatusOK, echo.Map{"success": true, "data": result})
	}

	if scope == "" || scope == "all" || scope == "posts" {
		posts, err := h.postRepo.SearchPosts(query, viewerID, viewerIsAdmin, limit)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "Search failed")
		}
		dtos, err := h.postHandler.postDTOs(posts, viewerID, viewerIsAdmin)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "Search failed")
		}
		result["posts"] = dtos
	}

	if scope == "" || scope == "all" || scope == "people" {
		users, err := h.userRepo.SearchUsers(query, limit)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "Search failed")
		}
		summaries := make([]UserSummaryDTO, 0, len(users))
		for i := range users {
			summaries = append(summaries, toUserSummaryDTO(&users[i]))
		}
		result["people"] = summaries
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": result})
}
