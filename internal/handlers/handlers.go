package handlers

import (
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/tanvirio/openblog/backend/internal/models"
	"github.com/tanvirio/openblog/backend/internal/repositories"
)

// getUserIDFromContext extracts the authenticated user's ID from the JWT
// claims placed in the context by the auth middleware. Returns 0 when the
// request carries no valid claims.
func getUserIDFromContext(c echo.Context) uint {
	claims, ok := c.Get("user").(*models.JwtCustomClaims)
	if !ok || claims == nil {
		return 0
	}
	return claims.UserID
}

// getClaimsFromContext returns the full JWT claims, or nil when absent.
func getClaimsFromContext(c echo.Context) *models.JwtCustomClaims {
	claims, ok := c.Get("user").(*models.JwtCustomClaims)
	if !ok {
		return nil
	}
	return claims
}

// isAdminContext reports whether the authenticated user holds the ADMIN role.
func isAdminContext(c echo.Context) bool {
	claims := getClaimsFromContext(c)
	return claims != nil && claims.Role == models.RoleAdmin
}

// requireActiveUser loads the caller's account and rejects banned ones.
// Every mutating handler calls this before doing any work, so a ban takes
// effect even while an older token is still valid.
func requireActiveUser(c echo.Context, users repositories.UserRepository) (*models.User, error) {
	userID := getUserIDFromContext(c)
	user, err := users.GetUserByID(userID)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "Account not found")
	}
	if user.Banned {
		return nil, echo.NewHTTPError(http.StatusForbidden, "This account has been banned")
	}
	return user, nil
}

// notify persists a notification unless the actor is the recipient. A user
// acting on their own content never notifies themselves. Failures are
// logged and swallowed so they never fail the triggering request.
func notify(repo repositories.NotificationRepository, recipientID, actorID uint, notifType models.NotificationType, entityID uint) {
	if recipientID == actorID {
		return
	}
	n := &models.Notification{
		RecipientID: recipientID,
		ActorID:     actorID,
		Type:        notifType,
		EntityID:    entityID,
	}
	if err := repo.CreateNotification(n); err != nil {
		log.Printf("failed to create %s notification for user %d: %v", notifType, recipientID, err)
	}
}
