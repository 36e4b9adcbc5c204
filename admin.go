// admin.go - privacy-conscious admin area over the analytics store
package main

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Zachkp/untangle/internal/analytics"
	"github.com/Zachkp/untangle/internal/config"
)

const adminCookie = "admin_token"

type admin struct {
	token     string
	username  string
	password  string
	stats     *analytics.Store
	retention time.Duration
}

type loginForm struct {
	Username string `form:"username" json:"username"`
	Password string `form:"password" json:"password"`
}

func newAdmin(cfg *config.Config, stats *analytics.Store) (*admin, error) {
	token, err := generateAdminToken()
	if err != nil {
		return nil, fmt.Errorf("generating admin token: %w", err)
	}

	log.Printf("Admin access available at: /admin/login")
	if gin.Mode() == gin.DebugMode {
		log.Printf("Admin token (dev only): %s", token)
		if cfg.DefaultCredentials {
			log.Println("WARNING: Using default admin credentials. Set ADMIN_USERNAME and ADMIN_PASSWORD.")
		}
	}
	log.Println("Privacy: Visitor tracking enabled with hashed IP addresses")

	return &admin{
		token:     token,
		username:  cfg.AdminUsername,
		password:  cfg.AdminPassword,
		stats:     stats,
		retention: cfg.VisitorRetention,
	}, nil
}

func generateAdminToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func equalSecret(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// Middleware to check admin authentication
func (a *admin) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(adminCookie)
		if err != nil || !equalSecret(token, a.token) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Not logged in"})
			return
		}
		c.Next()
	}
}

func (a *admin) register(r *gin.Engine) {
	r.GET("/privacy", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"title": "Privacy Policy",
			"policy": fmt.Sprintf("Visits are stored with a salted, truncated hash of your IP address and deleted after %s. "+
				"Requests sent with Do Not Track are not recorded. Puzzle solves are counted per level without any personal data.", a.retention),
		})
	})

	r.POST("/admin/login", func(c *gin.Context) {
		var form loginForm
		if err := c.ShouldBind(&form); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid login request"})
			return
		}

		userOK := equalSecret(form.Username, a.username)
		passOK := equalSecret(form.Password, a.password)
		if !userOK || !passOK {
			log.Printf("Failed admin login attempt from %s", a.stats.HashIP(c.ClientIP()))
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}

		// Secure cookie (24 hours)
		c.SetCookie(adminCookie, a.token, 3600*24, "/admin", "", false, true)
		log.Printf("Admin login successful from %s", a.stats.HashIP(c.ClientIP()))
		c.JSON(http.StatusOK, gin.H{"message": "Logged in"})
	})

	r.GET("/admin/logout", func(c *gin.Context) {
		c.SetCookie(adminCookie, "", -1, "/admin", "", false, true)
		log.Printf("Admin logout from %s", a.stats.HashIP(c.ClientIP()))
		c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
	})

	adminGroup := r.Group("/admin")
	adminGroup.Use(a.authMiddleware())

	adminGroup.GET("/api/stats", func(c *gin.Context) {
		stats, err := a.stats.Stats(c.Request.Context())
		if err != nil {
			log.Printf("Error loading admin stats: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load statistics"})
			return
		}
		c.JSON(http.StatusOK, stats)
	})

	adminGroup.GET("/visitors", func(c *gin.Context) {
		limit, err := strconv.Atoi(c.DefaultQuery("limit", "200"))
		if err != nil || limit < 1 || limit > 1000 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be between 1 and 1000"})
			return
		}
		visitors, err := a.stats.RecentVisitors(c.Request.Context(), limit)
		if err != nil {
			log.Printf("Error loading visitors: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load visitors"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"visitors": visitors})
	})

	// Statistics export for backups or analysis
	adminGroup.GET("/export/stats", func(c *gin.Context) {
		stats, err := a.stats.Stats(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.Header("Content-Disposition", "attachment; filename=admin-stats.json")
		log.Printf("Admin stats exported by %s", a.stats.HashIP(c.ClientIP()))
		c.JSON(http.StatusOK, stats)
	})

	adminGroup.POST("/privacy/cleanup", func(c *gin.Context) {
		removed, err := a.stats.Cleanup(c.Request.Context(), a.retention)
		if err != nil {
			log.Printf("Error cleaning up old visitor data: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Cleanup failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Privacy cleanup complete", "removed": removed})
	})
}
