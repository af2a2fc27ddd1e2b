package controllers_test

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inklet/inklet/models"
)

// registerAdmin registers the first account, which gets primary key 1 and is
// therefore the administrator.
func registerAdmin(t *testing.T, c *testClient) {
	t.Helper()
	w := c.register("Admin", "admin@example.com", "adminpass")
	require.Equal(t, http.StatusSeeOther, w.Code)
}

func TestListPostsOrderedByID(t *testing.T) {
	r, _, _ := newTestApp(t)
	admin := newClient(t, r)
	registerAdmin(t, admin)

	admin.createPost("First Post", "one", "https://example.com/1.jpg", "<p>first</p>")
	admin.createPost("Second Post", "two", "https://example.com/2.jpg", "<p>second</p>")

	body := admin.get("/").Body.String()
	assert.Contains(t, body, "First Post")
	assert.Contains(t, body, "Second Post")
	assert.Less(t, strings.Index(body, "First Post"), strings.Index(body, "Second Post"))
}

func TestShowPostNotFound(t *testing.T) {
	r, _, _ := newTestApp(t)
	c := newClient(t, r)

	w := c.get("/post/999")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = c.get("/post/not-a-number")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestEditAndDeleteNotFoundCauseNoMutation(t *testing.T) {
	r, db, _ := newTestApp(t)
	admin := newClient(t, r)
	registerAdmin(t, admin)
	admin.createPost("Keep Me", "sub", "https://example.com/x.jpg", "body")

	w := admin.get("/edit-post/999")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = admin.postForm("/edit-post/999", url.Values{
		"title": {"X"}, "subtitle": {"X"}, "img_url": {"X"}, "body": {"X"},
	})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = admin.get("/delete/999")
	assert.Equal(t, http.StatusNotFound, w.Code)

	assert.EqualValues(t, 1, countRows(t, db, &models.Post{}))
	var post models.Post
	require.NoError(t, db.First(&post).Error)
	assert.Equal(t, "Keep Me", post.Title)
}

func TestAdminRoutesForbiddenForOthers(t *testing.T) {
	r, db, _ := newTestApp(t)

	admin := newClient(t, r)
	registerAdmin(t, admin)
	admin.createPost("Admin Post", "sub", "https://example.com/x.jpg", "body")

	// A second registered user is not id 1
	user := newClient(t, r)
	user.register("Bob", "bob@example.com", "bobpass")

	anon := newClient(t, r)

	form := url.Values{
		"title": {"Sneaky"}, "subtitle": {"s"}, "img_url": {"u"}, "body": {"b"},
	}
	for _, c := range []*testClient{user, anon} {
		assert.Equal(t, http.StatusForbidden, c.get("/new-post").Code)
		assert.Equal(t, http.StatusForbidden, c.postForm("/new-post", form).Code)
		assert.Equal(t, http.StatusForbidden, c.get("/edit-post/1").Code)
		assert.Equal(t, http.StatusForbidden, c.postForm("/edit-post/1", form).Code)
		assert.Equal(t, http.StatusForbidden, c.get("/delete/1").Code)
	}

	assert.EqualValues(t, 1, countRows(t, db, &models.Post{}))
	var post models.Post
	require.NoError(t, db.First(&post).Error)
	assert.Equal(t, "Admin Post", post.Title)
}

func TestCreatePostValidation(t *testing.T) {
	r, db, _ := newTestApp(t)
	admin := newClient(t, r)
	registerAdmin(t, admin)

	w := admin.createPost("", "", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Title is required.")
	assert.Contains(t, w.Body.String(), "Body is required.")

	assert.EqualValues(t, 0, countRows(t, db, &models.Post{}))
}

func TestDuplicateTitleRejected(t *testing.T) {
	r, db, _ := newTestApp(t)
	admin := newClient(t, r)
	registerAdmin(t, admin)

	w := admin.createPost("T1", "first", "https://example.com/1.jpg", "body one")
	assert.Equal(t, http.StatusSeeOther, w.Code)

	w = admin.createPost("T1", "second", "https://example.com/2.jpg", "body two")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "That title is already taken.")

	var n int64
	require.NoError(t, db.Model(&models.Post{}).Where("title = ?", "T1").Count(&n).Error)
	assert.EqualValues(t, 1, n)
}

func TestCommentRequiresLogin(t *testing.T) {
	r, db, _ := newTestApp(t)
	admin := newClient(t, r)
	registerAdmin(t, admin)
	admin.createPost("A Post", "sub", "https://example.com/x.jpg", "body")

	anon := newClient(t, r)
	w := anon.postForm("/post/1", url.Values{"text": {"drive-by"}})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))

	assert.EqualValues(t, 0, countRows(t, db, &models.Comment{}))

	body := anon.get("/login").Body.String()
	assert.Contains(t, body, "You have to login first!")
}

func TestCommentEndToEnd(t *testing.T) {
	r, db, _ := newTestApp(t)

	admin := newClient(t, r)
	registerAdmin(t, admin)
	admin.createPost("A Post", "sub", "https://example.com/x.jpg", "body")

	userA := newClient(t, r)
	userA.register("A", "a@example.com", "apass")

	w := userA.get("/post/1")
	require.Equal(t, http.StatusOK, w.Code)

	w = userA.postForm("/post/1", url.Values{"text": {"hello"}})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/post/1", w.Header().Get("Location"))

	var comments []models.Comment
	require.NoError(t, db.Where("post_id = ?", 1).Find(&comments).Error)
	require.Len(t, comments, 1)
	assert.Equal(t, "hello", comments[0].Text)

	var author models.User
	require.NoError(t, db.First(&author, comments[0].AuthorID).Error)
	assert.Equal(t, "a@example.com", author.Email)

	body := userA.get("/post/1").Body.String()
	assert.Contains(t, body, "hello")
}

func TestEmptyCommentNotPersisted(t *testing.T) {
	r, db, _ := newTestApp(t)
	admin := newClient(t, r)
	registerAdmin(t, admin)
	admin.createPost("A Post", "sub", "https://example.com/x.jpg", "body")

	w := admin.postForm("/post/1", url.Values{"text": {"   "}})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Comment cannot be empty.")
	assert.EqualValues(t, 0, countRows(t, db, &models.Comment{}))
}

func TestEditPostEndToEnd(t *testing.T) {
	r, db, _ := newTestApp(t)
	admin := newClient(t, r)
	registerAdmin(t, admin)

	admin.createPost("T1", "old subtitle", "https://example.com/x.jpg", "body")

	var before models.Post
	require.NoError(t, db.First(&before).Error)

	// Form arrives pre-populated
	w := admin.get(fmt.Sprintf("/edit-post/%d", before.ID))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "old subtitle")

	w = admin.postForm(fmt.Sprintf("/edit-post/%d", before.ID), url.Values{
		"title":    {"T1"},
		"subtitle": {"new subtitle"},
		"img_url":  {"https://example.com/x.jpg"},
		"body":     {"body"},
	})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, fmt.Sprintf("/post/%d", before.ID), w.Header().Get("Location"))

	body := admin.get(fmt.Sprintf("/post/%d", before.ID)).Body.String()
	assert.Contains(t, body, "T1")
	assert.Contains(t, body, "new subtitle")

	var after models.Post
	require.NoError(t, db.First(&after, before.ID).Error)
	assert.Equal(t, before.Date, after.Date)
	assert.Equal(t, models.AdminUserID, after.AuthorID)
}

func TestDeletePostRemovesComments(t *testing.T) {
	r, db, _ := newTestApp(t)
	admin := newClient(t, r)
	registerAdmin(t, admin)
	admin.createPost("Doomed", "sub", "https://example.com/x.jpg", "body")
	admin.postForm("/post/1", url.Values{"text": {"will vanish"}})

	require.EqualValues(t, 1, countRows(t, db, &models.Comment{}))

	w := admin.get("/delete/1")
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	assert.EqualValues(t, 0, countRows(t, db, &models.Post{}))
	assert.EqualValues(t, 0, countRows(t, db, &models.Comment{}))
}

func TestPostBodyIsSanitized(t *testing.T) {
	r, db, _ := newTestApp(t)
	admin := newClient(t, r)
	registerAdmin(t, admin)

	admin.createPost("Sneaky", "sub", "https://example.com/x.jpg",
		`<p>fine</p><script>alert("xss")</script>`)

	var post models.Post
	require.NoError(t, db.First(&post).Error)
	assert.Contains(t, post.Body, "<p>fine</p>")
	assert.NotContains(t, post.Body, "<script>")
}
