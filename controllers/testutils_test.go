package controllers_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/inklet/inklet/config"
	"github.com/inklet/inklet/models"
	"github.com/inklet/inklet/routes"
	"github.com/inklet/inklet/utils"
)

var dbSeq int64

type contactMessage struct {
	Name, Email, Message string
}

// stubMailer records contact messages instead of dialing a relay.
type stubMailer struct {
	sent []contactMessage
	err  error
}

func (m *stubMailer) SendContactMessage(name, email, message string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, contactMessage{Name: name, Email: email, Message: message})
	return nil
}

func newTestApp(t *testing.T) (*gin.Engine, *gorm.DB, *stubMailer) {
	t.Helper()

	config.SetForTesting(config.AppConfig{
		AppPort:            "0",
		GinMode:            "test",
		SessionSecret:      "test-secret",
		RateLimitPerMinute: 10000,
		LogLevel:           "error",
	})
	require.NoError(t, utils.InitLogger(config.Get()))

	// A named shared-cache database keeps the schema visible across pooled connections
	dsn := fmt.Sprintf("file:controllers_test_%d?mode=memory&cache=shared", atomic.AddInt64(&dbSeq, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Post{}, &models.Comment{}))

	mailer := &stubMailer{}
	r := routes.SetupRouterTemplates(db, mailer, "../templates/*.html")
	return r, db, mailer
}

// testClient replays session cookies across requests like a browser would.
type testClient struct {
	t       *testing.T
	r       *gin.Engine
	cookies map[string]*http.Cookie
}

func newClient(t *testing.T, r *gin.Engine) *testClient {
	return &testClient{t: t, r: r, cookies: map[string]*http.Cookie{}}
}

func (c *testClient) do(method, path string, form url.Values) *httptest.ResponseRecorder {
	c.t.Helper()

	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}

	w := httptest.NewRecorder()
	c.r.ServeHTTP(w, req)

	for _, ck := range w.Result().Cookies() {
		if ck.MaxAge < 0 {
			delete(c.cookies, ck.Name)
			continue
		}
		c.cookies[ck.Name] = ck
	}
	return w
}

func (c *testClient) get(path string) *httptest.ResponseRecorder {
	return c.do(http.MethodGet, path, nil)
}

func (c *testClient) postForm(path string, form url.Values) *httptest.ResponseRecorder {
	return c.do(http.MethodPost, path, form)
}

// register creates an account through the real handler; the first account gets
// id 1 and is therefore the administrator.
func (c *testClient) register(name, email, password string) *httptest.ResponseRecorder {
	return c.postForm("/register", url.Values{
		"name":     {name},
		"email":    {email},
		"password": {password},
	})
}

func (c *testClient) login(email, password string) *httptest.ResponseRecorder {
	return c.postForm("/login", url.Values{
		"email":    {email},
		"password": {password},
	})
}

func (c *testClient) createPost(title, subtitle, imgURL, body string) *httptest.ResponseRecorder {
	return c.postForm("/new-post", url.Values{
		"title":    {title},
		"subtitle": {subtitle},
		"img_url":  {imgURL},
		"body":     {body},
	})
}

func countRows(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}
