package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/takatama/bottle-store/internal/core/session"
	"github.com/takatama/bottle-store/internal/domain"
	"github.com/takatama/bottle-store/internal/repo"
	"github.com/takatama/bottle-store/internal/service"
	"github.com/takatama/bottle-store/internal/transport/http/handler"
	"github.com/takatama/bottle-store/internal/transport/http/router"
	"github.com/takatama/bottle-store/pkg/utils"
)

const templateGlob = "../../../../web/templates/*.html"

func newTestApp(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&domain.User{}, &domain.Product{}, &domain.Review{}))

	users := repo.NewUserRepo(db)
	products := repo.NewProductRepo(db)
	reviews := repo.NewReviewRepo(db)

	auth := service.NewAuthService(users)
	catalog := service.NewCatalogService(products, reviews)
	reviewSvc := service.NewReviewService(reviews)

	codec := &session.Codec{Secret: []byte("handler-test-secret"), Issuer: "bottle-store", TTL: time.Hour}
	log := zap.NewNop()

	h := router.Handlers{
		Auth:     handler.NewAuthHandler(auth, codec, log),
		Products: handler.NewProductHandler(catalog, reviewSvc, log),
		Reviews:  handler.NewReviewHandler(reviewSvc, log),
	}
	return router.New(log, codec, h, templateGlob), db
}

func seedAccount(t *testing.T, db *gorm.DB, email, password, nickname string) int64 {
	t.Helper()
	u := &domain.User{Email: email, PasswordHash: utils.HashPassword(password), Nickname: nickname}
	require.NoError(t, repo.NewUserRepo(db).Create(context.Background(), u))
	return u.ID
}

func seedCatalogProduct(t *testing.T, db *gorm.DB, name string) int64 {
	t.Helper()
	p := &domain.Product{Name: name, Description: name + "の説明", ImageURL: "/static/1.png", PriceYen: 500}
	require.NoError(t, repo.NewProductRepo(db).Create(context.Background(), p))
	return p.ID
}

func doGet(r *gin.Engine, path string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func doForm(r *gin.Engine, path string, form url.Values, cookies []*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func login(t *testing.T, r *gin.Engine, email, password string) []*http.Cookie {
	t.Helper()
	w := doForm(r, "/login", url.Values{"email": {email}, "password": {password}}, nil)
	require.Equal(t, http.StatusSeeOther, w.Code)
	require.Equal(t, "/products", w.Header().Get("Location"))
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)
	return cookies
}

func TestAnonymousIsSentToLogin(t *testing.T) {
	r, _ := newTestApp(t)

	for _, path := range []string{"/products", "/products/1"} {
		w := doGet(r, path, nil)
		assert.Equal(t, http.StatusSeeOther, w.Code)
		loc := w.Header().Get("Location")
		assert.True(t, strings.HasPrefix(loc, "/login?message="), "got %q", loc)
	}

	w := doForm(r, "/reviews", url.Values{"product_id": {"1"}, "rate": {"5"}}, nil)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.True(t, strings.HasPrefix(w.Header().Get("Location"), "/login?message="))
}

func TestLoginIssuesSessionCookies(t *testing.T) {
	r, db := newTestApp(t)
	seedAccount(t, db, "alice@example.com", "password1", "アリス")

	cookies := login(t, r, "alice@example.com", "password1")

	names := map[string]bool{}
	for _, ck := range cookies {
		names[ck.Name] = true
	}
	assert.True(t, names[session.CookieUserID])
	assert.True(t, names[session.CookieNickname])
}

func TestLoginFailureRedirectsWithMessage(t *testing.T) {
	r, db := newTestApp(t)
	seedAccount(t, db, "alice@example.com", "password1", "アリス")

	cases := []url.Values{
		{"email": {"alice@example.com"}, "password": {"wrong"}},
		{"email": {"nobody@example.com"}, "password": {"password1"}},
	}
	for _, form := range cases {
		w := doForm(r, "/login", form, nil)
		assert.Equal(t, http.StatusSeeOther, w.Code)
		loc := w.Header().Get("Location")
		assert.Contains(t, loc, "/login?message=")
		assert.Contains(t, loc, url.QueryEscape("ログインに失敗しました。"))
		assert.Empty(t, w.Result().Cookies())
	}
}

func TestProductListRendersForSession(t *testing.T) {
	r, db := newTestApp(t)
	seedAccount(t, db, "alice@example.com", "password1", "アリス")
	seedCatalogProduct(t, db, "商品1")
	seedCatalogProduct(t, db, "緑茶")
	cookies := login(t, r, "alice@example.com", "password1")

	w := doGet(r, "/products", cookies)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "商品1")
	assert.Contains(t, body, "緑茶")
	assert.Contains(t, body, "アリス")

	w = doGet(r, "/products?q=%E7%B7%91%E8%8C%B6", cookies)
	require.Equal(t, http.StatusOK, w.Code)
	body = w.Body.String()
	assert.Contains(t, body, "緑茶")
	assert.NotContains(t, body, "商品1")
}

func TestReviewLifecycle(t *testing.T) {
	r, db := newTestApp(t)
	seedAccount(t, db, "alice@example.com", "password1", "アリス")
	productID := seedCatalogProduct(t, db, "商品1")
	cookies := login(t, r, "alice@example.com", "password1")

	pid := strconv.FormatInt(productID, 10)
	detail := "/products/" + pid

	w := doGet(r, detail, cookies)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "無し")

	w = doForm(r, "/reviews", url.Values{
		"product_id": {pid}, "rate": {"5"}, "comment": {"great"},
	}, cookies)
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/products", w.Header().Get("Location"))

	w = doGet(r, detail, cookies)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "【★5】great")
	assert.Contains(t, body, "5.0")
	assert.NotContains(t, body, "無し")

	// posting again replaces, never duplicates
	w = doForm(r, "/reviews", url.Values{
		"product_id": {pid}, "rate": {"3"}, "comment": {"okay"},
	}, cookies)
	require.Equal(t, http.StatusSeeOther, w.Code)

	w = doGet(r, detail, cookies)
	body = w.Body.String()
	assert.Contains(t, body, "【★3】okay")
	assert.NotContains(t, body, "great")
	assert.Equal(t, 1, strings.Count(body, "【★"))

	w = doForm(r, "/reviews", url.Values{
		"product_id": {pid}, "_method": {"delete"},
	}, cookies)
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, detail, w.Header().Get("Location"))

	w = doGet(r, detail, cookies)
	assert.Contains(t, w.Body.String(), "無し")
}

func TestReviewRejectsBadInput(t *testing.T) {
	r, db := newTestApp(t)
	seedAccount(t, db, "alice@example.com", "password1", "アリス")
	seedCatalogProduct(t, db, "商品1")
	cookies := login(t, r, "alice@example.com", "password1")

	for _, form := range []url.Values{
		{"product_id": {"1"}, "rate": {"9"}},
		{"product_id": {"1"}, "rate": {"0"}},
		{"product_id": {"1"}, "rate": {"abc"}},
	} {
		w := doForm(r, "/reviews", form, cookies)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "評価の値が不正です。")
	}

	w := doForm(r, "/reviews", url.Values{"rate": {"5"}}, cookies)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteOnlyTouchesOwnReview(t *testing.T) {
	r, db := newTestApp(t)
	seedAccount(t, db, "alice@example.com", "password1", "アリス")
	seedAccount(t, db, "bob@example.com", "password2", "ボブ")
	seedCatalogProduct(t, db, "商品1")

	alice := login(t, r, "alice@example.com", "password1")
	w := doForm(r, "/reviews", url.Values{
		"product_id": {"1"}, "rate": {"4"}, "comment": {"alice says"},
	}, alice)
	require.Equal(t, http.StatusSeeOther, w.Code)

	bob := login(t, r, "bob@example.com", "password2")
	w = doForm(r, "/reviews", url.Values{
		"product_id": {"1"}, "_method": {"delete"},
	}, bob)
	require.Equal(t, http.StatusSeeOther, w.Code)

	w = doGet(r, "/products/1", alice)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "alice says")
}

func TestUnknownProductIsClientError(t *testing.T) {
	r, db := newTestApp(t)
	seedAccount(t, db, "alice@example.com", "password1", "アリス")
	cookies := login(t, r, "alice@example.com", "password1")

	for _, path := range []string{"/products/999", "/products/abc"} {
		w := doGet(r, path, cookies)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "該当する商品がありません。")
	}
}

func TestLogoutClearsSession(t *testing.T) {
	r, db := newTestApp(t)
	seedAccount(t, db, "alice@example.com", "password1", "アリス")
	cookies := login(t, r, "alice@example.com", "password1")

	w := doGet(r, "/logout", cookies)
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Contains(t, w.Header().Get("Location"), url.QueryEscape("ログアウトしました。"))
	for _, ck := range w.Result().Cookies() {
		assert.Less(t, ck.MaxAge, 0, "cookie %s should be expired", ck.Name)
	}
}

func TestMetricsEndpointServesStoreCollectors(t *testing.T) {
	r, _ := newTestApp(t)
	doGet(r, "/login", nil)

	w := doGet(r, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "bottle_store_http_requests_total")
}

func TestSecurityHeadersOnEveryResponse(t *testing.T) {
	r, _ := newTestApp(t)

	w := doGet(r, "/login", nil)
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))

	w = doGet(r, "/products", nil) // redirect carries them too
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
}
