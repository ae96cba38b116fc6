package server

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Zachkp/portfolio/internal/store"
)

const adminCookie = "admin_token"

// hashIP hashes an address with the per-process salt. The same IP maps to
// the same value for the life of the process and nothing more.
func (s *Server) hashIP(ip string) string {
	h := sha256.Sum256([]byte(ip + s.hashingSalt))
	return hex.EncodeToString(h[:])[:16]
}

func doNotTrack(c *gin.Context) bool {
	return c.GetHeader("DNT") == "1" || c.GetHeader("Sec-GPC") == "1"
}

var untrackedPrefixes = []string{"/static/", "/images/", "/admin/", "/api/", "/favicon", "/privacy", "/healthz"}

// visitorTracking records page views with hashed IPs. Static files, admin
// pages, API calls and DNT requests are skipped.
func (s *Server) visitorTracking() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, prefix := range untrackedPrefixes {
			if strings.HasPrefix(path, prefix) {
				c.Next()
				return
			}
		}
		if c.Request.Method != http.MethodGet || doNotTrack(c) {
			c.Next()
			return
		}

		v := store.Visit{
			HashedIP:  s.hashIP(c.ClientIP()),
			UserAgent: c.GetHeader("User-Agent"),
			Path:      path,
			Timestamp: time.Now(),
		}
		go func() {
			if err := s.store.RecordVisit(context.Background(), v); err != nil {
				s.log.Error("recording visitor", "error", err)
			}
		}()
		c.Next()
	}
}

// adminAuth redirects to the login page unless the admin cookie matches.
func (s *Server) adminAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(adminCookie)
		if err != nil || subtle.ConstantTimeCompare([]byte(token), []byte(s.adminToken)) != 1 {
			c.Redirect(http.StatusFound, "/admin/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// requestLogger logs each request once it has been served.
func requestLogger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}
