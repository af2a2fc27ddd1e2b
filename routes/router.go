package routes

import (
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/inklet/inklet/config"
	"github.com/inklet/inklet/controllers"
	"github.com/inklet/inklet/middleware"
	"github.com/inklet/inklet/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(db *gorm.DB, mailer utils.Mailer) *gin.Engine {
	return SetupRouterTemplates(db, mailer, "templates/*.html")
}

// SetupRouterTemplates is SetupRouter with an explicit template glob so tests can
// run from a package directory.
func SetupRouterTemplates(db *gorm.DB, mailer utils.Mailer, templateGlob string) *gin.Engine {
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(utils.Recovery())
	r.Use(middleware.RequestID())
	r.Use(utils.AccessLog())

	store := cookie.NewStore([]byte(cfg.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   7 * 24 * 3600,
		HttpOnly: true,
	})
	r.Use(sessions.Sessions("session", store))
	r.Use(middleware.LoadCurrentUser(db))

	r.LoadHTMLGlob(templateGlob)
	r.Static("/static", "./static")

	authController := controllers.NewAuthController(db)
	postController := controllers.NewPostController(db)
	contactController := controllers.NewContactController(mailer)
	pagesController := controllers.NewPagesController()

	// Credential endpoints carry a per-IP rate limit
	creds := r.Group("")
	creds.Use(middleware.RateLimit())
	creds.GET("/register", authController.RegisterForm)
	creds.POST("/register", authController.Register)
	creds.GET("/login", authController.LoginForm)
	creds.POST("/login", authController.Login)

	r.GET("/logout", middleware.LoginRequired(), authController.Logout)

	r.GET("/", postController.ListPosts)
	r.GET("/post/:id", postController.ShowPost)
	r.POST("/post/:id", postController.CreateComment)

	admin := r.Group("")
	admin.Use(middleware.AdminOnly())
	admin.GET("/new-post", postController.NewPostForm)
	admin.POST("/new-post", postController.CreatePost)
	admin.GET("/edit-post/:id", postController.EditPostForm)
	admin.POST("/edit-post/:id", postController.UpdatePost)
	admin.GET("/delete/:id", postController.DeletePost)

	r.GET("/about", pagesController.About)

	contact := r.Group("/contact")
	contact.Use(middleware.LoginRequired())
	contact.GET("", contactController.ContactForm)
	contact.POST("", contactController.SendMessage)

	r.NoRoute(pagesController.NotFound)

	return r
}
