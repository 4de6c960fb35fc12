package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tanvirio/openblog/backend/internal/models"
	"github.com/tanvirio/openblog/backend/internal/repositories"
	"github.com/tanvirio/openblog/backend/validators"
)

var (
	testDB *gorm.DB
	testE  *echo.Echo

	authHandler    *AuthHandler
	userHandler    *UserHandler
	postHandler    *PostHandler
	commentHandler *CommentHandler
	reportHandler  *ReportHandler

	notifRepo repositories.NotificationRepository
)

func TestMain(m *testing.M) {
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("openblog_handlers_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		log.Fatalf("failed to start postgres container: %v", err)
	}

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		log.Fatalf("failed to get connection string: %v", err)
	}

	testDB, err = gorm.Open(postgres.Open(connStr), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		log.Fatalf("failed to open gorm connection: %v", err)
	}

	err = testDB.AutoMigrate(
		&models.User{},
		&models.Post{},
		&models.PostImage{},
		&models.PostTag{},
		&models.Comment{},
		&models.PostLike{},
		&models.CommentLike{},
		&models.Follow{},
		&models.Notification{},
		&models.Report{},
	)
	if err != nil {
		log.Fatalf("failed to migrate schema: %v", err)
	}

	userRepo := repositories.NewPostgresUserRepository(testDB)
	postRepo := repositories.NewPostgresPostRepository(testDB)
	commentRepo := repositories.NewPostgresCommentRepository(testDB)
	likeRepo := repositories.NewPostgresLikeRepository(testDB)
	followRepo := repositories.NewPostgresFollowRepository(testDB)
	notifRepo = repositories.NewPostgresNotificationRepository(testDB)
	reportRepo := repositories.NewPostgresReportRepository(testDB)

	authHandler = NewAuthHandler(userRepo)
	userHandler = NewUserHandler(userRepo, followRepo, postRepo, notifRepo)
	postHandler = NewPostHandler(postRepo, userRepo, likeRepo, commentRepo, followRepo, notifRepo, reportRepo)
	commentHandler = NewCommentHandler(commentRepo, postRepo, likeRepo, notifRepo, userRepo)
	reportHandler = NewReportHandler(reportRepo, userRepo, postRepo)

	testE = echo.New()
	testE.Validator = validators.NewValidator()

	code := m.Run()

	if err := container.Terminate(ctx); err != nil {
		log.Printf("failed to terminate container: %v", err)
	}
	os.Exit(code)
}

func clearTables(t *testing.T) {
	t.Helper()
	tables := []string{
		"reports", "notifications", "follows", "comment_likes",
		"post_likes", "comments", "post_images", "post_tags", "posts", "users",
	}
	for _, table := range tables {
		if err := testDB.Exec("DELETE FROM " + table).Error; err != nil {
			t.Fatalf("failed to clear %s: %v", table, err)
		}
	}
}

var userSeq int

func seedUser(t *testing.T, name, password string) *models.User {
	t.Helper()
	userSeq++
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt failed: %v", err)
	}
	user := &models.User{
		Firstname: name,
		Lastname:  "Tester",
		Email:     fmt.Sprintf("%s%d@example.com", strings.ToLower(name), userSeq),
		Password:  string(hash),
		Role:      models.RoleUser,
	}
	if err := testDB.Create(user).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return user
}

// newRequest builds an echo context. A non-nil user attaches JWT claims the
// way the auth middleware would.
func newRequest(method, path, body string, user *models.User) (echo.Context, *httptest.ResponseRecorder) {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	c := testE.NewContext(req, rec)
	if user != nil {
		c.Set("user", &models.JwtCustomClaims{
			UserID: user.ID,
			Email:  user.Email,
			Role:   user.Role,
		})
	}
	return c, rec
}

func expectHTTPError(t *testing.T, err error, code int) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected HTTP error %d, got nil", code)
	}
	he, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected *echo.HTTPError, got %T: %v", err, err)
	}
	if he.Code != code {
		t.Fatalf("expected status %d, got %d (%v)", code, he.Code, he.Message)
	}
}

func TestLoginBannedAccountForbidden(t *testing.T) {
	clearTables(t)
	user := seedUser(t, "Banned", "secret123")
	testDB.Model(user).Update("banned", true)

	body := fmt.Sprintf(`{"email":%q,"password":"secret123"}`, user.Email)
	c, _ := newRequest(http.MethodPost, "/api/v1/auth/login", body, nil)
	expectHTTPError(t, authHandler.Login(c), http.StatusForbidden)
}

func TestLoginWrongPasswordDoesNotRevealBan(t *testing.T) {
	clearTables(t)
	user := seedUser(t, "Banned", "secret123")
	testDB.Model(user).Update("banned", true)

	body := fmt.Sprintf(`{"email":%q,"password":"wrongpass"}`, user.Email)
	c, _ := newRequest(http.MethodPost, "/api/v1/auth/login", body, nil)
	expectHTTPError(t, authHandler.Login(c), http.StatusUnauthorized)
}

func TestSelfFollowRejected(t *testing.T) {
	clearTables(t)
	user := seedUser(t, "Loner", "secret123")

	c, _ := newRequest(http.MethodPost, "/api/v1/users/1/follow", "", user)
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprint(user.ID))
	expectHTTPError(t, userHandler.ToggleFollow(c), http.StatusBadRequest)
}

func TestFollowNotifiesAndUnfollowRetracts(t *testing.T) {
	clearTables(t)
	follower := seedUser(t, "Follower", "secret123")
	target := seedUser(t, "Target", "secret123")

	c, _ := newRequest(http.MethodPost, "/follow", "", follower)
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprint(target.ID))
	if err := userHandler.ToggleFollow(c); err != nil {
		t.Fatalf("follow failed: %v", err)
	}

	notifs, _ := notifRepo.GetByRecipientID(target.ID)
	if len(notifs) != 1 || notifs[0].Type != models.NotificationFollow {
		t.Fatalf("expected one follow notification, got %d", len(notifs))
	}

	c, _ = newRequest(http.MethodPost, "/follow", "", follower)
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprint(target.ID))
	if err := userHandler.ToggleFollow(c); err != nil {
		t.Fatalf("unfollow failed: %v", err)
	}

	notifs, _ = notifRepo.GetByRecipientID(target.ID)
	if len(notifs) != 0 {
		t.Fatalf("unfollow should retract the notification, %d remain", len(notifs))
	}
}

func TestBannedUserCannotMutate(t *testing.T) {
	clearTables(t)
	banned := seedUser(t, "Banned", "secret123")
	other := seedUser(t, "Other", "secret123")
	testDB.Model(banned).Update("banned", true)

	// The token was issued before the ban; writes must still be refused.
	c, _ := newRequest(http.MethodPost, "/api/v1/posts", `{"title":"nope","content":"x"}`, banned)
	expectHTTPError(t, postHandler.CreatePost(c), http.StatusForbidden)

	c, _ = newRequest(http.MethodPost, "/follow", "", banned)
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprint(other.ID))
	expectHTTPError(t, userHandler.ToggleFollow(c), http.StatusForbidden)
}

func TestNewPostNotifiesSubscribedFollowersOnly(t *testing.T) {
	clearTables(t)
	author := seedUser(t, "Author", "secret123")
	subscribed := seedUser(t, "Subbed", "secret123")
	unsubscribed := seedUser(t, "Unsubbed", "secret123")

	testDB.Model(subscribed).Update("subscribed", true)
	testDB.Create(&models.Follow{FollowerID: subscribed.ID, FollowingID: author.ID})
	testDB.Create(&models.Follow{FollowerID: unsubscribed.ID, FollowingID: author.ID})

	body := `{"title":"Fresh post","content":"hello world"}`
	c, rec := newRequest(http.MethodPost, "/api/v1/posts", body, author)
	if err := postHandler.CreatePost(c); err != nil {
		t.Fatalf("create post failed: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	notifs, _ := notifRepo.GetByRecipientID(subscribed.ID)
	if len(notifs) != 1 || notifs[0].Type != models.NotificationNewPost {
		t.Fatalf("subscribed follower should get one NEW_POST notification, got %d", len(notifs))
	}

	notifs, _ = notifRepo.GetByRecipientID(unsubscribed.ID)
	if len(notifs) != 0 {
		t.Fatalf("unsubscribed follower should get nothing, got %d", len(notifs))
	}
}

func TestHiddenPostReadsAsNotFound(t *testing.T) {
	clearTables(t)
	owner := seedUser(t, "Owner", "secret123")
	stranger := seedUser(t, "Stranger", "secret123")
	admin := seedUser(t, "Admin", "secret123")
	testDB.Model(admin).Update("role", models.RoleAdmin)
	admin.Role = models.RoleAdmin

	post := &models.Post{Title: "secret", Content: "body", AuthorID: owner.ID, Hidden: true}
	if err := testDB.Create(post).Error; err != nil {
		t.Fatalf("seed post failed: %v", err)
	}

	get := func(viewer *models.User) (error, *httptest.ResponseRecorder) {
		c, rec := newRequest(http.MethodGet, "/posts", "", viewer)
		c.SetParamNames("id")
		c.SetParamValues(fmt.Sprint(post.ID))
		return postHandler.GetPost(c), rec
	}

	err, _ := get(stranger)
	expectHTTPError(t, err, http.StatusNotFound)

	err, rec := get(owner)
	if err != nil || rec.Code != http.StatusOK {
		t.Fatalf("owner should see the hidden post, err=%v code=%d", err, rec.Code)
	}

	err, rec = get(admin)
	if err != nil || rec.Code != http.StatusOK {
		t.Fatalf("admin should see the hidden post, err=%v code=%d", err, rec.Code)
	}
}

func TestDuplicateReportConflict(t *testing.T) {
	clearTables(t)
	reporter := seedUser(t, "Reporter", "secret123")
	target := seedUser(t, "Target", "secret123")

	body := fmt.Sprintf(`{"reason":"harassment in comments","reportedUserId":%d}`, target.ID)
	c, rec := newRequest(http.MethodPost, "/api/v1/reports", body, reporter)
	if err := reportHandler.CreateReport(c); err != nil {
		t.Fatalf("first report failed: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	c, _ = newRequest(http.MethodPost, "/api/v1/reports", body, reporter)
	expectHTTPError(t, reportHandler.CreateReport(c), http.StatusConflict)
}

func TestSelfReportRejected(t *testing.T) {
	clearTables(t)
	user := seedUser(t, "Narc", "secret123")

	body := fmt.Sprintf(`{"reason":"reporting my own account","reportedUserId":%d}`, user.ID)
	c, _ := newRequest(http.MethodPost, "/api/v1/reports", body, user)
	expectHTTPError(t, reportHandler.CreateReport(c), http.StatusBadRequest)
}

func TestReportBothTargetsRejected(t *testing.T) {
	clearTables(t)
	reporter := seedUser(t, "Reporter", "secret123")
	target := seedUser(t, "Target", "secret123")
	post := &models.Post{Title: "post", Content: "body", AuthorID: target.ID}
	testDB.Create(post)

	body := fmt.Sprintf(`{"reason":"targets both at once","reportedUserId":%d,"reportedPostId":%d}`, target.ID, post.ID)
	c, _ := newRequest(http.MethodPost, "/api/v1/reports", body, reporter)
	expectHTTPError(t, reportHandler.CreateReport(c), http.StatusBadRequest)
}

func TestOwnActivityProducesNoNotifications(t *testing.T) {
	clearTables(t)
	author := seedUser(t, "Author", "secret123")

	post := &models.Post{Title: "mine", Content: "body", AuthorID: author.ID}
	if err := testDB.Create(post).Error; err != nil {
		t.Fatalf("seed post failed: %v", err)
	}

	c, _ := newRequest(http.MethodPost, "/like", "", author)
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprint(post.ID))
	if err := postHandler.ToggleLike(c); err != nil {
		t.Fatalf("like failed: %v", err)
	}

	c, _ = newRequest(http.MethodPost, "/comment", `{"content":"replying to myself"}`, author)
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprint(post.ID))
	if err := commentHandler.CreateComment(c); err != nil {
		t.Fatalf("comment failed: %v", err)
	}

	notifs, err := notifRepo.GetByRecipientID(author.ID)
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if len(notifs) != 0 {
		t.Fatalf("acting on your own post must not notify you, got %d", len(notifs))
	}
}

func TestBanToggleAppliesToAdmins(t *testing.T) {
	clearTables(t)
	admin := seedUser(t, "Admin", "secret123")
	other := seedUser(t, "OtherAdmin", "secret123")
	testDB.Model(admin).Update("role", models.RoleAdmin)
	admin.Role = models.RoleAdmin
	testDB.Model(other).Update("role", models.RoleAdmin)

	ban := func() {
		t.Helper()
		c, rec := newRequest(http.MethodPut, "/ban", "", admin)
		c.SetParamNames("id")
		c.SetParamValues(fmt.Sprint(other.ID))
		if err := userHandler.BanUser(c); err != nil {
			t.Fatalf("ban failed: %v", err)
		}
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	}

	ban()
	var banned bool
	testDB.Model(&models.User{}).Where("id = ?", other.ID).Pluck("banned", &banned)
	if !banned {
		t.Fatalf("admin account should be bannable")
	}

	// A second call lifts the ban.
	ban()
	testDB.Model(&models.User{}).Where("id = ?", other.ID).Pluck("banned", &banned)
	if banned {
		t.Fatalf("second toggle should unban")
	}
}

func TestCreatePostStoresTags(t *testing.T) {
	clearTables(t)
	author := seedUser(t, "Tagger", "secret123")

	body := `{"title":"Tagged post","content":"body","tags":["golang","web"]}`
	c, rec := newRequest(http.MethodPost, "/api/v1/posts", body, author)
	if err := postHandler.CreatePost(c); err != nil {
		t.Fatalf("create post failed: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp struct {
		Data struct {
			Tags []string `json:"tags"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Data.Tags) != 2 {
		t.Fatalf("expected 2 tags in response, got %v", resp.Data.Tags)
	}

	var count int64
	testDB.Model(&models.PostTag{}).Count(&count)
	if count != 2 {
		t.Fatalf("expected 2 tag rows, got %d", count)
	}
}

func TestRegisterDuplicateEmailConflict(t *testing.T) {
	clearTables(t)

	body := `{"firstname":"Jane","lastname":"Doe","email":"jane@example.com","password":"secret123"}`
	c, rec := newRequest(http.MethodPost, "/api/v1/auth/register", body, nil)
	if err := authHandler.Register(c); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	c, _ = newRequest(http.MethodPost, "/api/v1/auth/register", body, nil)
	expectHTTPError(t, authHandler.Register(c), http.StatusConflict)
}
