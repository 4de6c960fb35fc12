package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/tanvirio/openblog/backend/internal/models"
	"github.com/tanvirio/openblog/backend/internal/repositories"
)

// DashboardHandler serves the admin overview statistics.
type DashboardHandler struct {
	userRepo   repositories.UserRepository
	postRepo   repositories.PostRepository
	reportRepo repositories.ReportRepository
}

func NewDashboardHandler(
	userRepo repositories.UserRepository,
	postRepo repositories.PostRepository,
	reportRepo repositories.ReportRepository,
) *DashboardHandler {
	return &DashboardHandler{
		userRepo:   userRepo,
		postRepo:   postRepo,
		reportRepo: reportRepo,
	}
}

type reportedUserDTO struct {
	User   *UserSummaryDTO `json:"user,omitempty"`
	Count  int64           `json:"count"`
	Banned bool            `json:"banned"`
}

// GetStats aggregates counts for the admin dashboard: totals, report
// backlog, 30 days of posting activity and the most reported users.
func (h *DashboardHandler) GetStats(c echo.Context) error {
	if !isAdminContext(c) {
		return echo.NewHTTPError(http.StatusForbidden, "Admin access required")
	}

	totalUsers, err := h.userRepo.CountUsers()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load stats")
	}
	bannedUsers, err := h.userRepo.CountBanned()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load stats")
	}
	totalPosts, err := h.postRepo.CountPosts()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load stats")
	}
	totalReports, err := h.reportRepo.CountReports()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load stats")
	}
	pendingReports, err := h.reportRepo.CountByStatus(models.ReportPending)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load stats")
	}

	activity, err := h.postRepo.PostActivitySince(time.Now().AddDate(0, 0, -30))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load stats")
	}

	topReported, err := h.reportRepo.MostReportedUsers(5)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load stats")
	}
	reported := make([]reportedUserDTO, 0, len(topReported))
	for _, rc := range topReported {
		entry := reportedUserDTO{Count: rc.Count}
		if user, err := h.userRepo.GetUserByID(rc.UserID); err == nil {
			dto := toUserSummaryDTO(user)
			entry.User = &dto
			entry.Banned = user.Banned
		}
		reported = append(reported, entry)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data": echo.Map{
			"totalUsers":        totalUsers,
			"bannedUsers":       bannedUsers,
			"totalPosts":        totalPosts,
			"totalReports":      totalReports,
			"pendingReports":    pendingReports,
			"postActivity":      activity,
			"mostReportedUsers": reported,
		},
	})
}
