package handlers

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/tanvirio/openblog/backend/internal/models"
)

// UserSummaryDTO is the compact author/actor view embedded in other payloads.
type UserSummaryDTO struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Handle   string `json:"handle"`
	Avatar   string `json:"avatar,omitempty"`
	IsAdmin  bool   `json:"isAdmin"`
	Verified bool   `json:"verified"`
}

// UserDTO is the full profile view.
type UserDTO struct {
	ID             uint   `json:"id"`
	Firstname      string `json:"firstname"`
	Lastname       string `json:"lastname"`
	Name           string `json:"name"`
	Handle         string `json:"handle"`
	Email          string `json:"email"`
	Role           string `json:"role"`
	Avatar         string `json:"avatar,omitempty"`
	Cover          string `json:"cover,omitempty"`
	Bio            string `json:"bio,omitempty"`
	Banned         bool   `json:"banned"`
	Subscribed     bool   `json:"subscribed"`
	FollowersCount int64  `json:"followersCount"`
	FollowingCount int64  `json:"followingCount"`
	PostsCount     int64  `json:"postsCount"`
	IsFollowing    bool   `json:"isFollowing"`
	JoinedAt       string `json:"joinedAt"`
}

// PostDTO is the denormalized post view with viewer-dependent flags.
type PostDTO struct {
	ID           uint           `json:"id"`
	User         UserSummaryDTO `json:"user"`
	Time         string         `json:"time"`
	ReadTime     string         `json:"readTime,omitempty"`
	Title        string         `json:"title"`
	Content      string         `json:"content"`
	Images       []string       `json:"images"`
	Tags         []string       `json:"tags"`
	Category     string         `json:"category,omitempty"`
	Likes        int64          `json:"likes"`
	Comments     int64          `json:"comments"`
	IsLiked      bool           `json:"isLiked"`
	Hidden       bool           `json:"hidden"`
	CanEdit      bool           `json:"canEdit"`
	CanDelete    bool           `json:"canDelete"`
	ReportsCount int64          `json:"reportsCount,omitempty"`
	CreatedAt    time.Time      `json:"createdAt"`
}

// CommentDTO is the comment view with like state for the viewer.
type CommentDTO struct {
	ID        uint           `json:"id"`
	User      UserSummaryDTO `json:"user"`
	Content   string         `json:"content"`
	Time      string         `json:"time"`
	Likes     int64          `json:"likes"`
	IsLiked   bool           `json:"isLiked"`
	CanDelete bool           `json:"canDelete"`
	CreatedAt time.Time      `json:"createdAt"`
}

// NotificationDTO renders a notification with a generated message.
type NotificationDTO struct {
	ID        uint            `json:"id"`
	Type      string          `json:"type"`
	Message   string          `json:"message"`
	Actor     *UserSummaryDTO `json:"actor,omitempty"`
	EntityID  uint            `json:"entityId"`
	IsRead    bool            `json:"isRead"`
	Time      string          `json:"time"`
	CreatedAt time.Time       `json:"createdAt"`
}

func toUserSummaryDTO(u *models.User) UserSummaryDTO {
	return UserSummaryDTO{
		ID:       u.ID,
		Name:     u.FullName(),
		Handle:   u.Handle(),
		Avatar:   u.Avatar,
		IsAdmin:  u.IsAdmin(),
		Verified: u.Subscribed,
	}
}

// notificationMessage builds the display text for a notification. The actor
// may be nil when the acting account has since been deleted.
func notificationMessage(n *models.Notification, actor *models.User) string {
	name := "Someone"
	if actor != nil {
		name = actor.FullName()
	}
	switch n.Type {
	case models.NotificationLike:
		return fmt.Sprintf("%s liked your post", name)
	case models.NotificationComment:
		return fmt.Sprintf("%s commented on your post", name)
	case models.NotificationFollow:
		return fmt.Sprintf("%s started following you", name)
	case models.NotificationNewPost:
		return fmt.Sprintf("%s published a new post", name)
	default:
		return "You have a new notification"
	}
}

// timeAgo renders a coarse relative timestamp, e.g. "5m ago". Anything a
// week or older falls back to the calendar date.
func timeAgo(t time.Time) string {
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	default:
		return t.Format("Jan 2, 2006")
	}
}

var namePattern = regexp.MustCompile(`^[A-Za-z\-']{2,50}$`)

// validName accepts letters, hyphens and apostrophes, 2 to 50 characters.
func validName(name string) bool {
	return namePattern.MatchString(name)
}

// isAllowedMediaURL accepts http(s) URLs and inline image/video data URIs,
// capped at 2048 characters to keep rows bounded.
func isAllowedMediaURL(url string) bool {
	if url == "" || len(url) > 2048 {
		return false
	}
	return strings.HasPrefix(url, "http://") ||
		strings.HasPrefix(url, "https://") ||
		strings.HasPrefix(url, "data:image/") ||
		strings.HasPrefix(url, "data:video/")
}
