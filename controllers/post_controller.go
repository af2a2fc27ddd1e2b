package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/inklet/inklet/middleware"
	"github.com/inklet/inklet/models"
	"github.com/inklet/inklet/utils"
)

// dateLayout renders publish dates the way the blog always has, e.g. "April 05, 2024".
const dateLayout = "January 02, 2006"

// PostController manages post listing, detail, comments, and the admin-guarded
// authoring operations.
type PostController struct {
	db *gorm.DB
}

// NewPostController creates a new PostController instance.
func NewPostController(db *gorm.DB) *PostController {
	return &PostController{db: db}
}

// ListPosts renders the home page with every post, oldest first. The storage
// order is pinned to id ascending so the listing is deterministic.
func (p *PostController) ListPosts(ctx *gin.Context) {
	var posts []models.Post
	if err := p.db.Preload("Author").Order("id ASC").Find(&posts).Error; err != nil {
		utils.Sugar.Errorf("failed to list posts: %v", err)
		renderServerError(ctx)
		return
	}
	ctx.HTML(http.StatusOK, "index.html", pageData(ctx, gin.H{"Posts": posts}))
}

// ShowPost renders a single post with its comments and the comment form.
func (p *PostController) ShowPost(ctx *gin.Context) {
	post, ok := p.loadPost(ctx)
	if !ok {
		return
	}
	p.renderPost(ctx, http.StatusOK, post, "", "")
}

// CreateComment attaches a comment to a post. Anonymous submissions persist
// nothing and are bounced to the login page.
func (p *PostController) CreateComment(ctx *gin.Context) {
	post, ok := p.loadPost(ctx)
	if !ok {
		return
	}

	user, authed := middleware.CurrentUser(ctx)
	if !authed {
		middleware.AddFlash(ctx, "You have to login first!")
		ctx.Redirect(http.StatusSeeOther, "/login")
		return
	}

	text := utils.Sanitize(strings.TrimSpace(ctx.PostForm("text")))
	if text == "" {
		p.renderPost(ctx, http.StatusOK, post, "Comment cannot be empty.", "")
		return
	}

	comment := models.Comment{PostID: post.ID, AuthorID: user.ID, Text: text}
	if err := p.db.Create(&comment).Error; err != nil {
		utils.Sugar.Errorf("failed to create comment on post %d: %v", post.ID, err)
		renderServerError(ctx)
		return
	}

	// Redirect back to the same post so a refresh cannot resubmit
	ctx.Redirect(http.StatusSeeOther, "/post/"+strconv.FormatUint(uint64(post.ID), 10))
}

// NewPostForm renders the empty authoring form.
func (p *PostController) NewPostForm(ctx *gin.Context) {
	ctx.HTML(http.StatusOK, "make-post.html", pageData(ctx, gin.H{
		"Form": gin.H{}, "Errors": gin.H{},
	}))
}

// CreatePost persists a new post authored by the current identity. The publish
// date is stamped once, here, as a human-readable string.
func (p *PostController) CreatePost(ctx *gin.Context) {
	form, errs := readPostForm(ctx)
	if len(errs) > 0 {
		ctx.HTML(http.StatusOK, "make-post.html", pageData(ctx, gin.H{"Form": form, "Errors": errs}))
		return
	}

	user, _ := middleware.CurrentUser(ctx)

	post := models.Post{
		AuthorID: user.ID,
		Title:    form["Title"].(string),
		Subtitle: form["Subtitle"].(string),
		ImgURL:   form["ImgURL"].(string),
		Body:     utils.Sanitize(form["Body"].(string)),
		Date:     time.Now().Format(dateLayout),
	}

	if err := p.db.Create(&post).Error; err != nil {
		if isDuplicateKey(err) {
			errs["Title"] = "That title is already taken."
			ctx.HTML(http.StatusOK, "make-post.html", pageData(ctx, gin.H{"Form": form, "Errors": errs}))
			return
		}
		utils.Sugar.Errorf("failed to create post: %v", err)
		renderServerError(ctx)
		return
	}

	ctx.Redirect(http.StatusSeeOther, "/")
}

// EditPostForm renders the authoring form pre-populated with the stored values.
func (p *PostController) EditPostForm(ctx *gin.Context) {
	post, ok := p.loadPost(ctx)
	if !ok {
		return
	}
	ctx.HTML(http.StatusOK, "make-post.html", pageData(ctx, gin.H{
		"IsEdit": true,
		"PostID": post.ID,
		"Form": gin.H{
			"Title":    post.Title,
			"Subtitle": post.Subtitle,
			"ImgURL":   post.ImgURL,
			"Body":     post.Body,
		},
		"Errors": gin.H{},
	}))
}

// UpdatePost overwrites an existing post. The author is reassigned to the
// current identity on every edit and the publish date is left untouched.
func (p *PostController) UpdatePost(ctx *gin.Context) {
	post, ok := p.loadPost(ctx)
	if !ok {
		return
	}

	form, errs := readPostForm(ctx)
	if len(errs) > 0 {
		ctx.HTML(http.StatusOK, "make-post.html", pageData(ctx, gin.H{
			"IsEdit": true, "PostID": post.ID, "Form": form, "Errors": errs,
		}))
		return
	}

	user, _ := middleware.CurrentUser(ctx)

	post.Title = form["Title"].(string)
	post.Subtitle = form["Subtitle"].(string)
	post.ImgURL = form["ImgURL"].(string)
	post.Body = utils.Sanitize(form["Body"].(string))
	post.AuthorID = user.ID

	if err := p.db.Save(post).Error; err != nil {
		if isDuplicateKey(err) {
			errs["Title"] = "That title is already taken."
			ctx.HTML(http.StatusOK, "make-post.html", pageData(ctx, gin.H{
				"IsEdit": true, "PostID": post.ID, "Form": form, "Errors": errs,
			}))
			return
		}
		utils.Sugar.Errorf("failed to update post %d: %v", post.ID, err)
		renderServerError(ctx)
		return
	}

	ctx.Redirect(http.StatusSeeOther, "/post/"+strconv.FormatUint(uint64(post.ID), 10))
}

// DeletePost removes a post and its comments in one transaction.
func (p *PostController) DeletePost(ctx *gin.Context) {
	post, ok := p.loadPost(ctx)
	if !ok {
		return
	}

	err := p.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(post).Error
	})
	if err != nil {
		utils.Sugar.Errorf("failed to delete post %d: %v", post.ID, err)
		renderServerError(ctx)
		return
	}

	ctx.Redirect(http.StatusSeeOther, "/")
}

// loadPost fetches the post named by the :id route parameter, rendering a 404
// and returning ok=false when it does not exist.
func (p *PostController) loadPost(ctx *gin.Context) (*models.Post, bool) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		renderNotFound(ctx)
		return nil, false
	}

	var post models.Post
	if err := p.db.Preload("Author").First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			renderNotFound(ctx)
			return nil, false
		}
		utils.Sugar.Errorf("failed to load post %d: %v", id, err)
		renderServerError(ctx)
		return nil, false
	}
	return &post, true
}

func (p *PostController) renderPost(ctx *gin.Context, status int, post *models.Post, commentErr, commentText string) {
	var comments []models.Comment
	if err := p.db.Where("post_id = ?", post.ID).Preload("Author").Order("id ASC").Find(&comments).Error; err != nil {
		utils.Sugar.Errorf("failed to load comments for post %d: %v", post.ID, err)
		renderServerError(ctx)
		return
	}

	ctx.HTML(status, "post.html", pageData(ctx, gin.H{
		"Post":         post,
		"Comments":     comments,
		"CommentError": commentErr,
		"CommentText":  commentText,
	}))
}

func readPostForm(ctx *gin.Context) (gin.H, gin.H) {
	title := strings.TrimSpace(ctx.PostForm("title"))
	subtitle := strings.TrimSpace(ctx.PostForm("subtitle"))
	imgURL := strings.TrimSpace(ctx.PostForm("img_url"))
	body := strings.TrimSpace(ctx.PostForm("body"))

	form := gin.H{"Title": title, "Subtitle": subtitle, "ImgURL": imgURL, "Body": body}
	errs := gin.H{}
	if title == "" {
		errs["Title"] = "Title is required."
	}
	if subtitle == "" {
		errs["Subtitle"] = "Subtitle is required."
	}
	if imgURL == "" {
		errs["ImgURL"] = "Image URL is required."
	}
	if body == "" {
		errs["Body"] = "Body is required."
	}
	return form, errs
}
