package middleware

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/inklet/inklet/models"
)

const (
	// SessionUserIDKey is the session value holding the logged-in user's primary key.
	SessionUserIDKey = "user_id"
	// ContextUserKey is the gin context key holding the resolved *models.User.
	ContextUserKey = "current_user"
)

// LoadCurrentUser resolves the session cookie to a User row on every request.
// A missing or stale session value leaves the request anonymous.
func LoadCurrentUser(db *gorm.DB) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		session := sessions.Default(ctx)
		v := session.Get(SessionUserIDKey)
		id, ok := v.(uint)
		if !ok || id == 0 {
			ctx.Next()
			return
		}

		var user models.User
		if err := db.First(&user, id).Error; err != nil {
			// Row deleted since login; drop the dangling session
			session.Delete(SessionUserIDKey)
			_ = session.Save()
			ctx.Next()
			return
		}

		ctx.Set(ContextUserKey, &user)
		ctx.Next()
	}
}

// CurrentUser returns the authenticated user for this request, if any.
func CurrentUser(ctx *gin.Context) (*models.User, bool) {
	v, exists := ctx.Get(ContextUserKey)
	if !exists {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok && user != nil
}

// LoginRequired redirects anonymous visitors to the login page with a flash.
func LoginRequired() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if _, ok := CurrentUser(ctx); !ok {
			AddFlash(ctx, "You have to login first!")
			ctx.Redirect(http.StatusSeeOther, "/login")
			ctx.Abort()
			return
		}
		ctx.Next()
	}
}

// AdminOnly permits only the administrator identity. Everyone else gets a 403
// with no detail and no side effect.
func AdminOnly() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		user, ok := CurrentUser(ctx)
		if !ok || !user.IsAdmin() {
			ctx.HTML(http.StatusForbidden, "error.html", gin.H{
				"Status": http.StatusForbidden,
				"Title":  "Forbidden",
			})
			ctx.Abort()
			return
		}
		ctx.Next()
	}
}

// AddFlash queues a one-shot message shown on the next rendered page.
func AddFlash(ctx *gin.Context, message string) {
	session := sessions.Default(ctx)
	session.AddFlash(message)
	_ = session.Save()
}

// TakeFlashes drains and returns the queued flash messages.
func TakeFlashes(ctx *gin.Context) []string {
	session := sessions.Default(ctx)
	raw := session.Flashes()
	if len(raw) > 0 {
		_ = session.Save()
	}
	msgs := make([]string, 0, len(raw))
	for _, f := range raw {
		if s, ok := f.(string); ok {
			msgs = append(msgs, s)
		}
	}
	return msgs
}
