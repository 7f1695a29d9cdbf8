package server

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Zachkp/soc-portfolio/internal/apperror"
	"github.com/Zachkp/soc-portfolio/internal/logger"
	"github.com/Zachkp/soc-portfolio/internal/store"
)

const adminCookie = "admin_token"

func requestLogger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		}
		if len(c.Errors) > 0 {
			log.Warn("request failed", append(fields, zap.String("errors", c.Errors.String()))...)
			return
		}
		log.Debug("request", fields...)
	}
}

// hashIP keeps visitors distinguishable without storing addresses.
func hashIP(ip, salt string) string {
	hash := sha256.New()
	hash.Write([]byte(ip + salt))
	return hex.EncodeToString(hash.Sum(nil))[:16]
}

var untrackedPrefixes = []string{
	"/static/",
	"/admin/",
	"/views/",
	"/favicon",
	"/privacy",
	"/healthz",
}

// visitorTracking records page loads with hashed IPs, honouring Do Not Track.
func (s *Server) visitorTracking() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if s.Visits == nil || c.Request.Method != http.MethodGet || c.GetHeader("DNT") == "1" {
			c.Next()
			return
		}
		for _, prefix := range untrackedPrefixes {
			if strings.HasPrefix(path, prefix) {
				c.Next()
				return
			}
		}

		s.Visits.Visit(store.Visit{
			HashedIP:  hashIP(c.ClientIP(), s.Salt),
			UserAgent: c.GetHeader("User-Agent"),
			Path:      path,
			Timestamp: s.Now(),
		})
		c.Next()
	}
}

// adminAuth admits requests carrying a valid session cookie. Browsers are
// redirected to the login page; API callers get 401.
func (s *Server) adminAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(adminCookie)
		if err == nil {
			claims, verr := s.JWT.ValidateToken(token)
			if verr == nil {
				c.Set("admin", claims.Username)
				c.Next()
				return
			}
			err = verr
		}

		if strings.HasPrefix(c.Request.URL.Path, "/admin/api/") {
			s.fail(c, apperror.NewUnauthorized("missing or invalid admin token", err))
			return
		}
		c.Redirect(http.StatusFound, "/admin/login")
		c.Abort()
	}
}
