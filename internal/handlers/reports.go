package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/tanvirio/openblog/backend/internal/models"
	"github.com/tanvirio/openblog/backend/internal/repositories"
	"gorm.io/gorm"
)

// ReportHandler handles filing reports and the admin moderation queue.
type ReportHandler struct {
	reportRepo repositories.ReportRepository
	userRepo   repositories.UserRepository
	postRepo   repositories.PostRepository
}

func NewReportHandler(
	reportRepo repositories.ReportRepository,
	userRepo repositories.UserRepository,
	postRepo repositories.PostRepository,
) *ReportHandler {
	return &ReportHandler{
		reportRepo: reportRepo,
		userRepo:   userRepo,
		postRepo:   postRepo,
	}
}

// ReportDTO is the admin view of a filed report.
type ReportDTO struct {
	ID             uint            `json:"id"`
	Reason         string          `json:"reason"`
	Reporter       *UserSummaryDTO `json:"reporter,omitempty"`
	ReportedUser   *UserSummaryDTO `json:"reportedUser,omitempty"`
	ReportedPostID *uint           `json:"reportedPostId,omitempty"`
	Status         string          `json:"status"`
	Time           string          `json:"time"`
}

// CreateReport files a report against exactly one user or one post. The
// unique indexes catch concurrent duplicates that slip past the precheck.
func (h *ReportHandler) CreateReport(c echo.Context) error {
	caller, err := requireActiveUser(c, h.userRepo)
	if err != nil {
		return err
	}
	userID := caller.ID

	req := new(models.CreateReportRequest)
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	hasUser := req.ReportedUserID != nil
	hasPost := req.ReportedPostID != nil
	if hasUser == hasPost {
		return echo.NewHTTPError(http.StatusBadRequest, "Report exactly one of a user or a post")
	}

	if hasUser {
		if *req.ReportedUserID == userID {
			return echo.NewHTTPError(http.StatusBadRequest, "You cannot report yourself")
		}
		if _, err := h.userRepo.GetUserByID(*req.ReportedUserID); err != nil {
			return echo.NewHTTPError(http.StatusNotFound, "Reported user not found")
		}
		exists, err := h.reportRepo.ExistsByReporterAndUser(userID, *req.ReportedUserID)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to file report")
		}
		if exists {
			return echo.NewHTTPError(http.StatusConflict, "You have already reported this user")
		}
	} else {
		post, err := h.postRepo.GetPostByID(*req.ReportedPostID)
		if err != nil {
			return echo.NewHTTPError(http.StatusNotFound, "Reported post not found")
		}
		if post.AuthorID == userID {
			return echo.NewHTTPError(http.StatusBadRequest, "You cannot report your own post")
		}
		exists, err := h.reportRepo.ExistsByReporterAndPost(userID, *req.ReportedPostID)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to file report")
		}
		if exists {
			return echo.NewHTTPError(http.StatusConflict, "You have already reported this post")
		}
	}

	report := &models.Report{
		Reason:         req.Reason,
		ReporterID:     userID,
		ReportedUserID: req.ReportedUserID,
		ReportedPostID: req.ReportedPostID,
		Status:         models.ReportPending,
	}
	if err := h.reportRepo.CreateReport(report); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return echo.NewHTTPError(http.StatusConflict, "You have already filed this report")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to file report")
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"data":    report,
	})
}

// GetReports lists all reports for admins, newest first.
func (h *ReportHandler) GetReports(c echo.Context) error {
	if !isAdminContext(c) {
		return echo.NewHTTPError(http.StatusForbidden, "Admin access required")
	}

	reports, err := h.reportRepo.GetReports()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch reports")
	}

	users := make(map[uint]*models.User)
	lookup := func(id uint) *UserSummaryDTO {
		u, seen := users[id]
		if !seen {
			u, _ = h.userRepo.GetUserByID(id)
			users[id] = u
		}
		if u == nil {
			return nil
		}
		dto := toUserSummaryDTO(u)
		return &dto
	}

	dtos := make([]ReportDTO, 0, len(reports))
	for i := range reports {
		r := &reports[i]
		dto := ReportDTO{
			ID:             r.ID,
			Reason:         r.Reason,
			Reporter:       lookup(r.ReporterID),
			ReportedPostID: r.ReportedPostID,
			Status:         r.Status,
			Time:           timeAgo(r.CreatedAt),
		}
		if r.ReportedUserID != nil {
			dto.ReportedUser = lookup(*r.ReportedUserID)
		}
		dtos = append(dtos, dto)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": dtos})
}

// UpdateReportStatus advances a report through the moderation workflow.
func (h *ReportHandler) UpdateReportStatus(c echo.Context) error {
	if !isAdminContext(c) {
		return echo.NewHTTPError(http.StatusForbidden, "Admin access required")
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var body struct {
		Status string `json:"status" validate:"required"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if !models.ValidStatus(body.Status) {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid report status")
	}

	if err := h.reportRepo.UpdateStatus(id, body.Status); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Report not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update report")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"id": id, "status": body.Status},
	})
}
