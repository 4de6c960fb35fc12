package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/tanvirio/openblog/backend/internal/models"
	"github.com/tanvirio/openblog/backend/internal/repositories"
)

// UserHandler handles profile, follow and admin user management endpoints.
type UserHandler struct {
	userRepo   repositories.UserRepository
	followRepo repositories.FollowRepository
	postRepo   repositories.PostRepository
	notifRepo  repositories.NotificationRepository
}

func NewUserHandler(
	userRepo repositories.UserRepository,
	followRepo repositories.FollowRepository,
	postRepo repositories.PostRepository,
	notifRepo repositories.NotificationRepository,
) *UserHandler {
	return &UserHandler{
		userRepo:   userRepo,
		followRepo: followRepo,
		postRepo:   postRepo,
		notifRepo:  notifRepo,
	}
}

func parseIDParam(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid ID")
	}
	return uint(id), nil
}

func (h *UserHandler) profileDTO(user *models.User, viewerID uint) (*UserDTO, error) {
	followers, err := h.followRepo.GetFollowersCount(user.ID)
	if err != nil {
		return nil, err
	}
	following, err := h.followRepo.GetFollowingCount(user.ID)
	if err != nil {
		return nil, err
	}
	posts, err := h.postRepo.CountByAuthor(user.ID)
	if err != nil {
		return nil, err
	}
	isFollowing := false
	if viewerID != 0 && viewerID != user.ID {
		isFollowing, err = h.followRepo.IsFollowing(viewerID, user.ID)
		if err != nil {
			return nil, err
		}
	}
	return &UserDTO{
		ID:             user.ID,
		Firstname:      user.Firstname,
		Lastname:       user.Lastname,
		Name:           user.FullName(),
		Handle:         user.Handle(),
		Email:          user.Email,
		Role:           user.Role,
		Avatar:         user.Avatar,
		Cover:          user.Cover,
		Bio:            user.Bio,
		Banned:         user.Banned,
		Subscribed:     user.Subscribed,
		FollowersCount: followers,
		FollowingCount: following,
		PostsCount:     posts,
		IsFollowing:    isFollowing,
		JoinedAt:       user.CreatedAt.Format("January 2006"),
	}, nil
}

// Me returns the authenticated user's own profile.
func (h *UserHandler) Me(c echo.Context) error {
	userID := getUserIDFromContext(c)
	user, err := h.userRepo.GetUserByID(userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}
	dto, err := h.profileDTO(user, userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load profile")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": dto})
}

// GetUser returns another user's profile.
func (h *UserHandler) GetUser(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	user, err := h.userRepo.GetUserByID(id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}
	dto, err := h.profileDTO(user, getUserIDFromContext(c))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load profile")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": dto})
}

// ListUsers returns all users as compact summaries.
func (h *UserHandler) ListUsers(c echo.Context) error {
	users, err := h.userRepo.GetUsers()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch users")
	}
	summaries := make([]UserSummaryDTO, 0, len(users))
	for i := range users {
		summaries = append(summaries, toUserSummaryDTO(&users[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": summaries})
}

// UpdateProfile applies partial updates to the caller's own profile. The
// role field is ignored here; only AdminUpdateUser may change roles.
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	user, err := requireActiveUser(c, h.userRepo)
	if err != nil {
		return err
	}

	req := new(models.UpdateProfileRequest)
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	if err := applyProfileUpdate(user, req); err != nil {
		return err
	}

	if err := h.userRepo.UpdateUser(user); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update profile")
	}

	dto, err := h.profileDTO(user, user.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load profile")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": dto})
}

func applyProfileUpdate(user *models.User, req *models.UpdateProfileRequest) error {
	if req.Firstname != nil {
		if !validName(*req.Firstname) {
			return echo.NewHTTPError(http.StatusBadRequest, "Names may only contain letters, hyphens and apostrophes (2-50 characters)")
		}
		user.Firstname = *req.Firstname
	}
	if req.Lastname != nil {
		if !validName(*req.Lastname) {
			return echo.NewHTTPError(http.StatusBadRequest, "Names may only contain letters, hyphens and apostrophes (2-50 characters)")
		}
		user.Lastname = *req.Lastname
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}
	if req.Avatar != nil {
		if *req.Avatar != "" && !isAllowedMediaURL(*req.Avatar) {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid avatar URL")
		}
		user.Avatar = *req.Avatar
	}
	if req.Cover != nil {
		if *req.Cover != "" && !isAllowedMediaURL(*req.Cover) {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid cover URL")
		}
		user.Cover = *req.Cover
	}
	if req.Subscribed != nil {
		user.Subscribed = *req.Subscribed
	}
	return nil
}

// ToggleSubscription flips the caller's new-post subscription flag.
func (h *UserHandler) ToggleSubscription(c echo.Context) error {
	user, err := requireActiveUser(c, h.userRepo)
	if err != nil {
		return err
	}
	user.Subscribed = !user.Subscribed
	if err := h.userRepo.UpdateUser(user); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update subscription")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"subscribed": user.Subscribed},
	})
}

// ToggleFollow follows or unfollows the target user. A fresh follow
// notifies the target; an unfollow retracts that exact notification.
func (h *UserHandler) ToggleFollow(c echo.Context) error {
	targetID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	caller, err := requireActiveUser(c, h.userRepo)
	if err != nil {
		return err
	}
	if targetID == caller.ID {
		return echo.NewHTTPError(http.StatusBadRequest, "You cannot follow yourself")
	}

	if _, err := h.userRepo.GetUserByID(targetID); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}

	following, err := h.followRepo.ToggleFollow(caller.ID, targetID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update follow state")
	}

	if following {
		notify(h.notifRepo, targetID, caller.ID, models.NotificationFollow, caller.ID)
	} else {
		if err := h.notifRepo.DeleteExact(targetID, caller.ID, models.NotificationFollow, caller.ID); err != nil {
			c.Logger().Warnf("failed to retract follow notification: %v", err)
		}
	}

	followers, err := h.followRepo.GetFollowersCount(targetID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to count followers")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"following": following, "followersCount": followers},
	})
}

// GetFollowers lists the users following the target.
func (h *UserHandler) GetFollowers(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	if _, err := h.userRepo.GetUserByID(id); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}
	users, err := h.followRepo.GetFollowers(id)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch followers")
	}
	summaries := make([]UserSummaryDTO, 0, len(users))
	for i := range users {
		summaries = append(summaries, toUserSummaryDTO(&users[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": summaries})
}

// GetFollowing lists the users the target follows.
func (h *UserHandler) GetFollowing(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	if _, err := h.userRepo.GetUserByID(id); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}
	users, err := h.followRepo.GetFollowing(id)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch following")
	}
	summaries := make([]UserSummaryDTO, 0, len(users))
	for i := range users {
		summaries = append(summaries, toUserSummaryDTO(&users[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": summaries})
}

// BanUser toggles the ban flag on the target account. Admins cannot ban
// themselves.
func (h *UserHandler) BanUser(c echo.Context) error {
	if !isAdminContext(c) {
		return echo.NewHTTPError(http.StatusForbidden, "Admin access required")
	}
	targetID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	if targetID == getUserIDFromContext(c) {
		return echo.NewHTTPError(http.StatusBadRequest, "You cannot ban yourself")
	}

	user, err := h.userRepo.GetUserByID(targetID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}

	user.Banned = !user.Banned
	if err := h.userRepo.UpdateUser(user); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update ban state")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"banned": user.Banned},
	})
}

// AdminUpdateUser applies profile updates to any account, including role
// changes.
func (h *UserHandler) AdminUpdateUser(c echo.Context) error {
	if !isAdminContext(c) {
		return echo.NewHTTPError(http.StatusForbidden, "Admin access required")
	}
	targetID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	user, err := h.userRepo.GetUserByID(targetID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}

	req := new(models.UpdateProfileRequest)
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	if err := applyProfileUpdate(user, req); err != nil {
		return err
	}
	if req.Role != nil {
		user.Role = *req.Role
	}

	if err := h.userRepo.UpdateUser(user); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update user")
	}

	dto, err := h.profileDTO(user, getUserIDFromContext(c))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load profile")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": dto})
}

// DeleteUser removes an account and everything it owns or touched. Admins
// cannot delete themselves through this route.
func (h *UserHandler) DeleteUser(c echo.Context) error {
	if !isAdminContext(c) {
		return echo.NewHTTPError(http.StatusForbidden, "Admin access required")
	}
	targetID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	if targetID == getUserIDFromContext(c) {
		return echo.NewHTTPError(http.StatusBadRequest, "You cannot delete your own account here")
	}

	if _, err := h.userRepo.GetUserByID(targetID); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}

	if err := h.userRepo.DeleteUserCascade(targetID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete user")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "User deleted",
	})
}
