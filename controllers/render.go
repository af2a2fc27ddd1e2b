package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/inklet/inklet/middleware"
)

// pageData decorates template data with the request's identity and pending
// flash messages so every page can render the navigation and message bar.
func pageData(ctx *gin.Context, data gin.H) gin.H {
	if data == nil {
		data = gin.H{}
	}
	if user, ok := middleware.CurrentUser(ctx); ok {
		data["User"] = user
	}
	data["Flashes"] = middleware.TakeFlashes(ctx)
	return data
}

func renderNotFound(ctx *gin.Context) {
	ctx.HTML(http.StatusNotFound, "error.html", pageData(ctx, gin.H{
		"Status": http.StatusNotFound,
		"Title":  "Page Not Found",
	}))
}

func renderServerError(ctx *gin.Context) {
	ctx.HTML(http.StatusInternalServerError, "error.html", pageData(ctx, gin.H{
		"Status": http.StatusInternalServerError,
		"Title":  "Something Went Wrong",
	}))
}

// isDuplicateKey reports whether err is the database rejecting a unique index.
// The unique constraints on users.email and posts.title are the backstop for
// concurrent writes that both pass the application-level check.
func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || // sqlite
		strings.Contains(msg, "Duplicate entry") // mysql
}
