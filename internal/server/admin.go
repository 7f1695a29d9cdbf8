package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Zachkp/soc-portfolio/internal/apperror"
	"github.com/Zachkp/soc-portfolio/internal/auth"
	"github.com/Zachkp/soc-portfolio/internal/store"
)

const statsTimeout = 5 * time.Second

// CleanupVisitors deletes visitor rows older than the retention window.
func CleanupVisitors(ctx context.Context, st *store.Store, retention time.Duration, now time.Time) (int64, error) {
	return st.CleanupVisitors(ctx, now.Add(-retention))
}

func (s *Server) stats(c *gin.Context) (*store.Stats, error) {
	if s.Store == nil {
		return nil, apperror.NewUnavailable("statistics store not configured", nil)
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), statsTimeout)
	defer cancel()
	stats, err := s.Store.Stats(ctx, s.Now())
	if err != nil {
		return nil, apperror.NewInternal("failed to load statistics", err)
	}
	return stats, nil
}

func (s *Server) setupAdminRoutes(r *gin.Engine) {
	r.GET("/privacy", func(c *gin.Context) {
		c.HTML(http.StatusOK, "privacy.html", gin.H{
			"title":         "Privacy Policy",
			"retentionDays": int(s.Config.Privacy.Retention.Hours() / 24),
		})
	})

	r.GET("/admin/login", func(c *gin.Context) {
		c.HTML(http.StatusOK, "admin-login.html", gin.H{
			"title": "Admin Login",
		})
	})

	r.POST("/admin/login", func(c *gin.Context) {
		username := c.PostForm("username")
		password := c.PostForm("password")
		visitor := hashIP(c.ClientIP(), s.Salt)

		if !auth.CheckCredentials(username, password, s.Config.Admin.Username, s.Config.Admin.Password) {
			s.Log.Warn("failed admin login attempt", zap.String("visitor", visitor))
			c.HTML(http.StatusUnauthorized, "admin-login.html", gin.H{
				"error": "Invalid credentials",
			})
			return
		}

		token, err := s.JWT.GenerateToken(username)
		if err != nil {
			s.Log.Error("failed to issue admin token", err)
			c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{
				"error": "Login is unavailable",
			})
			return
		}
		c.SetSameSite(http.SameSiteStrictMode)
		c.SetCookie(adminCookie, token, int(s.JWT.Lifespan().Seconds()), "/admin", "", s.Config.Production(), true)
		s.Log.Info("admin login successful", zap.String("visitor", visitor))
		c.Redirect(http.StatusFound, "/admin/dashboard")
	})

	r.GET("/admin/logout", func(c *gin.Context) {
		c.SetCookie(adminCookie, "", -1, "/admin", "", s.Config.Production(), true)
		s.Log.Info("admin logout", zap.String("visitor", hashIP(c.ClientIP(), s.Salt)))
		c.Redirect(http.StatusFound, "/admin/login")
	})

	adminGroup := r.Group("/admin")
	adminGroup.Use(s.adminAuth())

	adminGroup.GET("/dashboard", func(c *gin.Context) {
		stats, err := s.stats(c)
		if err != nil {
			s.Log.Error("error loading admin stats", err)
			c.HTML(apperror.ToHTTPStatus(err), "admin-error.html", gin.H{
				"error": "Failed to load statistics",
			})
			return
		}
		c.HTML(http.StatusOK, "admin-dashboard.html", gin.H{
			"stats":     stats,
			"liveViews": s.Views.Len(),
		})
	})

	adminGroup.GET("/visitors", func(c *gin.Context) {
		if s.Store == nil {
			c.HTML(http.StatusServiceUnavailable, "admin-error.html", gin.H{"error": "Failed to load visitors"})
			return
		}
		visitors, err := s.Store.RecentVisitors(c.Request.Context(), 200)
		if err != nil {
			s.Log.Error("error loading visitors", err)
			c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{"error": "Failed to load visitors"})
			return
		}
		c.HTML(http.StatusOK, "admin-visitors.html", gin.H{"visitors": visitors})
	})

	adminGroup.GET("/api/stats", func(c *gin.Context) {
		stats, err := s.stats(c)
		if err != nil {
			s.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, stats)
	})

	adminGroup.POST("/privacy/cleanup", func(c *gin.Context) {
		if s.Store == nil {
			s.fail(c, apperror.NewUnavailable("statistics store not configured", nil))
			return
		}
		removed, err := CleanupVisitors(c.Request.Context(), s.Store, s.Config.Privacy.Retention, s.Now())
		if err != nil {
			s.fail(c, apperror.NewInternal("privacy cleanup failed", err))
			return
		}
		s.Log.Info("privacy cleanup run by admin", zap.Int64("removed", removed))
		c.JSON(http.StatusOK, gin.H{"message": "Privacy cleanup complete", "removed": removed})
	})

	adminGroup.GET("/export/stats", func(c *gin.Context) {
		stats, err := s.stats(c)
		if err != nil {
			s.fail(c, err)
			return
		}
		c.Header("Content-Disposition", "attachment; filename=admin-stats.json")
		s.Log.Info("admin stats exported", zap.String("visitor", hashIP(c.ClientIP(), s.Salt)))
		c.JSON(http.StatusOK, stats)
	})
}
