package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Zachkp/soc-portfolio/internal/mailer"
)

const sendTimeout = 15 * time.Second

type contactForm struct {
	FullName string `form:"fullName" binding:"required,max=100"`
	Email    string `form:"email" binding:"required,email,max=254"`
	Message  string `form:"message" binding:"required,max=5000"`
}

func (s *Server) contactForm(c *gin.Context) {
	c.HTML(http.StatusOK, "contact.html", gin.H{
		"title":  "Secure Channel",
		"blurb":  s.Portfolio.Copy.ContactBlurb,
		"viewID": c.Query("view"),
	})
}

// submitContact answers with an HTML fragment in every case so HTMX swaps
// the result into the form's place.
func (s *Server) submitContact(c *gin.Context) {
	var form contactForm
	if err := c.ShouldBind(&form); err != nil {
		c.HTML(http.StatusOK, "contact-error.html", gin.H{
			"error": "Please provide your name, a valid email address and a message.",
		})
		return
	}

	visitor := hashIP(c.ClientIP(), s.Salt)
	if s.Limiter != nil {
		allowed, err := s.Limiter.Allow(c.Request.Context(), "contact:"+visitor)
		if err != nil {
			s.Log.Warn("rate limiter unavailable", zap.Error(err))
		} else if !allowed {
			c.HTML(http.StatusOK, "contact-error.html", gin.H{
				"error": "Too many messages. Please wait a while before trying again.",
			})
			return
		}
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), sendTimeout)
	defer cancel()
	err := s.Mailer.Send(ctx, mailer.Message{Name: form.FullName, Email: form.Email, Message: form.Message})
	if err != nil {
		s.Log.Error("error sending email", err, zap.String("visitor", visitor))
		c.HTML(http.StatusOK, "contact-error.html", gin.H{
			"error": "Sorry, there was an error sending your message. Please try again later.",
		})
		return
	}

	s.Log.Info("contact email sent", zap.String("visitor", visitor))
	c.HTML(http.StatusOK, "contact-success.html", gin.H{
		"success": "Thank you for your message! I'll get back to you soon.",
	})
}
