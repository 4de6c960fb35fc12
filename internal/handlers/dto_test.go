package handlers

import (
	"testing"
	"time"

	"github.com/tanvirio/openblog/backend/internal/models"
)

func TestValidName(t *testing.T) {
	cases := []struct {
		name string
		ok   bool
	}{
		{"Jane", true},
		{"O'Brien", true},
		{"Smith-Jones", true},
		{"Al", true},
		{"J", false},
		{"", false},
		{"Jane Doe", false},
		{"Jane1", false},
		{"名前", false},
	}
	for i, c := range cases {
		if got := validName(c.name); got != c.ok {
			t.Fatalf("case %d (%q): expected %v, got %v", i, c.name, c.ok, got)
		}
	}
}

func TestIsAllowedMediaURL(t *testing.T) {
	long := "https://example.com/"
	for len(long) <= 2048 {
		long += "x"
	}
	cases := []struct {
		url string
		ok  bool
	}{
		{"https://example.com/a.png", true},
		{"http://example.com/a.png", true},
		{"data:image/png;base64,iVBOR", true},
		{"data:video/mp4;base64,AAAA", true},
		{"ftp://example.com/a.png", false},
		{"data:text/html;base64,PGh0", false},
		{"javascript:alert(1)", false},
		{"", false},
		{long, false},
	}
	for i, c := range cases {
		if got := isAllowedMediaURL(c.url); got != c.ok {
			t.Fatalf("case %d (%q): expected %v, got %v", i, c.url, c.ok, got)
		}
	}
}

func TestTimeAgo(t *testing.T) {
	now := time.Now()
	cases := []struct {
		t    time.Time
		want string
	}{
		{now.Add(-10 * time.Second), "just now"},
		{now.Add(-5 * time.Minute), "5m ago"},
		{now.Add(-3 * time.Hour), "3h ago"},
		{now.Add(-48 * time.Hour), "2d ago"},
	}
	for i, c := range cases {
		if got := timeAgo(c.t); got != c.want {
			t.Fatalf("case %d: expected %q, got %q", i, c.want, got)
		}
	}

	old := time.Date(2020, time.March, 14, 12, 0, 0, 0, time.UTC)
	if got := timeAgo(old); got != "Mar 14, 2020" {
		t.Fatalf("expected calendar date for old timestamps, got %q", got)
	}
}

func TestNotificationMessage(t *testing.T) {
	actor := &models.User{Firstname: "Jane", Lastname: "Doe"}
	cases := []struct {
		typ  models.NotificationType
		want string
	}{
		{models.NotificationLike, "Jane Doe liked your post"},
		{models.NotificationComment, "Jane Doe commented on your post"},
		{models.NotificationFollow, "Jane Doe started following you"},
		{models.NotificationNewPost, "Jane Doe published a new post"},
		{models.NotificationSystem, "You have a new notification"},
	}
	for i, c := range cases {
		n := &models.Notification{Type: c.typ}
		if got := notificationMessage(n, actor); got != c.want {
			t.Fatalf("case %d: expected %q, got %q", i, c.want, got)
		}
	}

	n := &models.Notification{Type: models.NotificationLike}
	if got := notificationMessage(n, nil); got != "Someone liked your post" {
		t.Fatalf("expected fallback actor name, got %q", got)
	}
}

func TestUserHandle(t *testing.T) {
	u := &models.User{Email: "jane.doe@example.com"}
	if got := u.Handle(); got != "@jane.doe" {
		t.Fatalf("expected @jane.doe, got %q", got)
	}
}
