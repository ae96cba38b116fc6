package server

import (
	"errors"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Zachkp/portfolio/internal/contact"
	"github.com/Zachkp/portfolio/internal/content"
	"github.com/Zachkp/portfolio/internal/engagement"
)

const sessionCookie = "scroll_session"

type projectView struct {
	Name    string
	Summary template.HTML
	URL     string
}

func (s *Server) setupPublicRoutes(r *gin.Engine) {
	r.GET("/", s.handleIndex)

	// HTMX fragments
	r.GET("/contact-form", func(c *gin.Context) {
		c.HTML(http.StatusOK, "contact.html", gin.H{
			"title": "Contact Me",
		})
	})
	r.GET("/work-content", func(c *gin.Context) {
		c.HTML(http.StatusOK, "entries.html", gin.H{
			"heading": "Work Experience",
			"entries": s.profile.Work,
		})
	})
	r.GET("/education-content", func(c *gin.Context) {
		c.HTML(http.StatusOK, "entries.html", gin.H{
			"heading": "Education",
			"entries": s.profile.Education,
		})
	})

	r.POST("/contact", s.handleContact)

	r.GET("/resume", func(c *gin.Context) {
		c.HTML(http.StatusOK, "resume.html", gin.H{
			"profile": s.profile,
		})
	})
	r.GET("/resume.json", func(c *gin.Context) {
		c.JSON(http.StatusOK, s.profile)
	})

	r.GET("/privacy", func(c *gin.Context) {
		c.HTML(http.StatusOK, "privacy.html", gin.H{
			"title":           "Privacy Policy",
			"retentionMonths": s.cfg.RetentionMonths,
		})
	})
}

func (s *Server) handleIndex(c *gin.Context) {
	about, err := content.Markdown(s.profile.About)
	if err != nil {
		s.log.Error("rendering about", "error", err)
		about = template.HTML(template.HTMLEscapeString(s.profile.About))
	}
	projects := make([]projectView, 0, len(s.profile.Projects))
	for _, p := range s.profile.Projects {
		summary, err := content.Markdown(p.Summary)
		if err != nil {
			summary = template.HTML(template.HTMLEscapeString(p.Summary))
		}
		projects = append(projects, projectView{Name: p.Name, Summary: summary, URL: p.URL})
	}

	session := ""
	if !doNotTrack(c) {
		session = s.trackingSession(c)
	}

	opts := s.cfg.TrackerOptions(s.profile.Sections)
	c.HTML(http.StatusOK, "index.html", gin.H{
		"profile":      s.profile,
		"about":        about,
		"projects":     projects,
		"sections":     opts.Candidates,
		"session":      session,
		"debounceMs":   opts.Debounce.Milliseconds(),
		"visibleAfter": opts.VisibleAfterPx,
	})
}

// trackingSession returns the reader's session id, issuing one if needed.
func (s *Server) trackingSession(c *gin.Context) string {
	if id, err := c.Cookie(sessionCookie); err == nil {
		if _, err := uuid.Parse(id); err == nil {
			return id
		}
	}
	id := engagement.NewSessionID()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, id, int(s.cfg.Scroll.SessionTTL.Seconds()), "/", "", false, true)
	return id
}

func (s *Server) handleContact(c *gin.Context) {
	var msg contact.Message
	if err := c.ShouldBind(&msg); err != nil {
		c.HTML(http.StatusOK, "contact-error.html", gin.H{
			"error": "Please fill in your name, a valid email address and a message.",
		})
		return
	}

	if err := s.mailer.Send(c.Request.Context(), msg); err != nil {
		if errors.Is(err, contact.ErrNotConfigured) {
			s.log.Warn("contact form used but SMTP is not configured")
		}
		c.HTML(http.StatusOK, "contact-error.html", gin.H{
			"error": "Sorry, there was an error sending your message. Please try again later.",
		})
		return
	}

	c.HTML(http.StatusOK, "contact-success.html", gin.H{
		"success": "Thank you for your message! I'll get back to you soon.",
	})
}
