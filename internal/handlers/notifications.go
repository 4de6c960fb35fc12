package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/tanvirio/openblog/backend/internal/models"
	"github.com/tanvirio/openblog/backend/internal/repositories"
)

// NotificationHandler serves the authenticated user's notification feed.
type NotificationHandler struct {
	notifRepo repositories.NotificationRepository
	userRepo  repositories.UserRepository
}

func NewNotificationHandler(notifRepo repositories.NotificationRepository, userRepo repositories.UserRepository) *NotificationHandler {
	return &NotificationHandler{notifRepo: notifRepo, userRepo: userRepo}
}

// GetNotifications lists the caller's notifications, newest first, with the
// unread count alongside.
func (h *NotificationHandler) GetNotifications(c echo.Context) error {
	userID := getUserIDFromContext(c)

	notifications, err := h.notifRepo.GetByRecipientID(userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch notifications")
	}

	// Actor profiles are fetched once per distinct actor. A nil entry means
	// the account was deleted after the notification was written.
	actors := make(map[uint]*models.User)
	dtos := make([]NotificationDTO, 0, len(notifications))
	for i := range notifications {
		n := &notifications[i]

		actor, seen := actors[n.ActorID]
		if !seen {
			actor, _ = h.userRepo.GetUserByID(n.ActorID)
			actors[n.ActorID] = actor
		}

		var actorDTO *UserSummaryDTO
		if actor != nil {
			dto := toUserSummaryDTO(actor)
			actorDTO = &dto
		}

		dtos = append(dtos, NotificationDTO{
			ID:        n.ID,
			Type:      string(n.Type),
			Message:   notificationMessage(n, actor),
			Actor:     actorDTO,
			EntityID:  n.EntityID,
			IsRead:    n.IsRead,
			Time:      timeAgo(n.CreatedAt),
			CreatedAt: n.CreatedAt,
		})
	}

	unread, err := h.notifRepo.GetUnreadCount(userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to count notifications")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data": echo.Map{
			"notifications": dtos,
			"unreadCount":   unread,
		},
	})
}

// MarkAsRead marks one notification read. Callers may only touch their own.
func (h *NotificationHandler) MarkAsRead(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	userID := getUserIDFromContext(c)

	notification, err := h.notifRepo.GetNotificationByID(id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Notification not found")
	}
	if notification.RecipientID != userID {
		return echo.NewHTTPError(http.StatusForbidden, "You cannot modify this notification")
	}

	if err := h.notifRepo.MarkAsRead(id); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update notification")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Notification marked as read"})
}

// MarkAllAsRead marks every unread notification of the caller as read.
func (h *NotificationHandler) MarkAllAsRead(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if err := h.notifRepo.MarkAllAsRead(userID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update notifications")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "All notifications marked as read"})
}
