package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/inklet/inklet/middleware"
	"github.com/inklet/inklet/models"
	"github.com/inklet/inklet/utils"
)

// AuthController handles registration, login, and logout.
type AuthController struct {
	db *gorm.DB
}

// NewAuthController creates an AuthController.
func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{db: db}
}

// RegisterForm renders the empty registration form.
func (a *AuthController) RegisterForm(ctx *gin.Context) {
	ctx.HTML(http.StatusOK, "register.html", pageData(ctx, gin.H{
		"Form": gin.H{}, "Errors": gin.H{},
	}))
}

// Register creates an account and logs it in. A duplicate email never creates a
// second row; it flashes and redirects to login instead.
func (a *AuthController) Register(ctx *gin.Context) {
	name := strings.TrimSpace(ctx.PostForm("name"))
	email := strings.TrimSpace(strings.ToLower(ctx.PostForm("email")))
	password := ctx.PostForm("password")

	form := gin.H{"Name": name, "Email": email}
	errs := gin.H{}
	if name == "" {
		errs["Name"] = "Name is required."
	}
	if email == "" {
		errs["Email"] = "E-mail is required."
	}
	if password == "" {
		errs["Password"] = "Password is required."
	}
	if len(errs) > 0 {
		ctx.HTML(http.StatusOK, "register.html", pageData(ctx, gin.H{"Form": form, "Errors": errs}))
		return
	}

	var existing models.User
	if err := a.db.Where("email = ?", email).First(&existing).Error; err == nil {
		middleware.AddFlash(ctx, "E-mail already registered!")
		ctx.Redirect(http.StatusSeeOther, "/login")
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.Sugar.Errorf("register: email lookup failed: %v", err)
		renderServerError(ctx)
		return
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		utils.Sugar.Errorf("register: failed to hash password: %v", err)
		renderServerError(ctx)
		return
	}

	user := models.User{Name: name, Email: email, PasswordHash: hash}
	if err := a.db.Create(&user).Error; err != nil {
		if isDuplicateKey(err) {
			// Lost the race against a concurrent registration
			middleware.AddFlash(ctx, "E-mail already registered!")
			ctx.Redirect(http.StatusSeeOther, "/login")
			return
		}
		utils.Sugar.Errorf("register: failed to create user: %v", err)
		renderServerError(ctx)
		return
	}

	establishSession(ctx, user.ID)
	ctx.Redirect(http.StatusSeeOther, "/")
}

// LoginForm renders the login page.
func (a *AuthController) LoginForm(ctx *gin.Context) {
	ctx.HTML(http.StatusOK, "login.html", pageData(ctx, gin.H{
		"Form": gin.H{}, "Errors": gin.H{},
	}))
}

// Login verifies credentials and establishes a session. An unknown email and a
// wrong password produce the same message so nothing leaks about which was wrong.
func (a *AuthController) Login(ctx *gin.Context) {
	email := strings.TrimSpace(strings.ToLower(ctx.PostForm("email")))
	password := ctx.PostForm("password")

	var user models.User
	if err := a.db.Where("email = ?", email).First(&user).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Sugar.Errorf("login: email lookup failed: %v", err)
		}
		middleware.AddFlash(ctx, "Invalid email or password!")
		ctx.Redirect(http.StatusSeeOther, "/login")
		return
	}

	if !utils.CheckPassword(user.PasswordHash, password) {
		middleware.AddFlash(ctx, "Invalid email or password!")
		ctx.Redirect(http.StatusSeeOther, "/login")
		return
	}

	establishSession(ctx, user.ID)
	ctx.Redirect(http.StatusSeeOther, "/")
}

// Logout clears the session and sends the visitor home.
func (a *AuthController) Logout(ctx *gin.Context) {
	session := sessions.Default(ctx)
	session.Delete(middleware.SessionUserIDKey)
	_ = session.Save()
	ctx.Redirect(http.StatusSeeOther, "/")
}

func establishSession(ctx *gin.Context, userID uint) {
	session := sessions.Default(ctx)
	session.Set(middleware.SessionUserIDKey, userID)
	_ = session.Save()
}
