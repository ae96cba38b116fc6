package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Zachkp/portfolio/internal/engagement"
	"github.com/Zachkp/portfolio/internal/scroll"
)

type resolveRequest struct {
	Viewport     scroll.Viewport  `json:"viewport"`
	Sections     []scroll.Section `json:"sections" binding:"max=64"`
	Candidates   []string         `json:"candidates" binding:"max=64"`
	Previous     string           `json:"previous"`
	HysteresisPx *float64         `json:"hysteresisPx"`
	Mode         scroll.Mode      `json:"mode"`
	SectionID    string           `json:"sectionId"`
}

type resolveResponse struct {
	Section  *string         `json:"section"`
	Progress scroll.Progress `json:"progress"`
}

type beaconResponse struct {
	Section *string `json:"section"`
}

func (s *Server) setupScrollRoutes(r *gin.Engine) {
	api := r.Group("/api/scroll")
	api.POST("/resolve", s.handleResolve)
	api.POST("/beacon", s.handleBeacon)
	api.DELETE("/sessions/:id", s.handleEndSession)
	// navigator.sendBeacon can only POST
	api.POST("/sessions/:id/end", s.handleEndSession)
}

// handleResolve is the stateless form of the tracker: the caller supplies
// the layout and the previous section and gets the resolved section and
// progress back.
func (s *Server) handleResolve(c *gin.Context) {
	var req resolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hysteresis := s.cfg.Scroll.HysteresisPx
	if req.HysteresisPx != nil {
		hysteresis = *req.HysteresisPx
	}
	candidates := req.Candidates
	if len(candidates) == 0 {
		for _, sec := range req.Sections {
			candidates = append(candidates, sec.ID)
		}
	}

	opts := scroll.Options{
		Candidates:   candidates,
		HysteresisPx: hysteresis,
		Mode:         req.Mode,
		SectionID:    req.SectionID,
	}
	// an empty layout is valid here and resolves to no section
	if err := opts.Validate(); err != nil && !errors.Is(err, scroll.ErrNoCandidates) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	g := scroll.NewSnapshotGeometry(req.Viewport, req.Sections...)
	resp := resolveResponse{
		Progress: scroll.Calculator{
			Geometry:       g,
			Mode:           req.Mode,
			SectionID:      req.SectionID,
			VisibleAfterPx: s.cfg.Scroll.VisibleAfterPx,
		}.Compute(),
	}
	if id := scroll.Resolve(g, candidates, req.Previous, hysteresis); id != "" {
		resp.Section = &id
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleBeacon(c *gin.Context) {
	if doNotTrack(c) {
		c.Status(http.StatusNoContent)
		return
	}
	var b engagement.Beacon
	if err := c.ShouldBindJSON(&b); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	section, err := s.sessions.Observe(b)
	switch {
	case errors.Is(err, engagement.ErrInvalidSession):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case errors.Is(err, engagement.ErrTooManySessions):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	case err != nil:
		s.log.Error("observing beacon", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to track"})
		return
	}

	resp := beaconResponse{}
	if section != "" {
		resp.Section = &section
	}
	c.JSON(http.StatusAccepted, resp)
}

func (s *Server) handleEndSession(c *gin.Context) {
	if !s.sessions.End(c.Param("id")) {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}
	c.Status(http.StatusNoContent)
}
