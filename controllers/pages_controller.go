package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// PagesController serves the static informational pages.
type PagesController struct{}

// NewPagesController creates a PagesController.
func NewPagesController() *PagesController {
	return &PagesController{}
}

// About renders the about page.
func (p *PagesController) About(ctx *gin.Context) {
	ctx.HTML(http.StatusOK, "about.html", pageData(ctx, nil))
}

// NotFound renders the 404 page for unknown routes.
func (p *PagesController) NotFound(ctx *gin.Context) {
	renderNotFound(ctx)
}
