package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/inklet/inklet/middleware"
	"github.com/inklet/inklet/utils"
)

// ContactController relays contact-form submissions over SMTP.
type ContactController struct {
	mailer utils.Mailer
}

// NewContactController creates a ContactController around the given mailer.
func NewContactController(mailer utils.Mailer) *ContactController {
	return &ContactController{mailer: mailer}
}

// ContactForm renders the contact page.
func (c *ContactController) ContactForm(ctx *gin.Context) {
	ctx.HTML(http.StatusOK, "contact.html", pageData(ctx, nil))
}

// SendMessage relays one message to the blog operator. Delivery is best-effort:
// a relay failure is reported to the submitter instead of failing the request.
func (c *ContactController) SendMessage(ctx *gin.Context) {
	name := strings.TrimSpace(ctx.PostForm("name"))
	email := strings.TrimSpace(ctx.PostForm("email"))
	message := ctx.PostForm("message")

	if err := c.mailer.SendContactMessage(name, email, message); err != nil {
		utils.Sugar.Errorf("contact: failed to relay message: %v", err)
		middleware.AddFlash(ctx, "Could not send your message. Please try again later.")
	} else {
		middleware.AddFlash(ctx, "Your message has been sent.")
	}

	ctx.Redirect(http.StatusSeeOther, "/")
}
