package server

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Zachkp/soc-portfolio/internal/apperror"
	"github.com/Zachkp/soc-portfolio/internal/render"
	"github.com/Zachkp/soc-portfolio/internal/view"
)

// keepAlive bounds how long an idle event stream stays silent.
const keepAlive = 25 * time.Second

type lineJSON struct {
	Prefix   string `json:"prefix"`
	Text     string `json:"text"`
	Severity string `json:"severity"`
}

// statePayload is the client's view of a State, with display strings
// already resolved.
type statePayload struct {
	ID            string     `json:"id"`
	Tab           view.Tab   `json:"tab"`
	TerminalShown bool       `json:"terminal_shown"`
	TerminalLines []lineJSON `json:"terminal_lines"`
	TerminalTotal int        `json:"terminal_total"`
	ScanActive    bool       `json:"scan_active"`
	ScanProgress  int        `json:"scan_progress"`
	ScanButton    string     `json:"scan_button"`
	Disposed      bool       `json:"disposed"`
}

func (s *Server) payload(st view.State) statePayload {
	lines := make([]lineJSON, len(st.TerminalLines))
	for i, l := range st.TerminalLines {
		rl := render.Line(l)
		lines[i] = lineJSON{Prefix: rl.Prefix, Text: rl.Text, Severity: rl.Severity}
	}
	return statePayload{
		ID:            st.ID.String(),
		Tab:           st.ActiveTab,
		TerminalShown: st.TerminalShown,
		TerminalLines: lines,
		TerminalTotal: st.TerminalTotal,
		ScanActive:    st.ScanActive,
		ScanProgress:  st.ScanProgress,
		ScanButton:    render.Scan(st, s.Portfolio.Copy).Button,
		Disposed:      st.Disposed,
	}
}

func (s *Server) fail(c *gin.Context, err error) {
	status := apperror.ToHTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.Log.Error("request failed", err, zap.String("path", c.FullPath()))
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, apperror.ToJSON(err))
}

// lookup resolves the :id parameter, writing the error response on failure.
func (s *Server) lookup(c *gin.Context) (*view.View, bool) {
	v, err := s.Views.Lookup(c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return nil, false
	}
	return v, true
}

// index opens a fresh view per page load so a reload always starts over.
func (s *Server) index(c *gin.Context) {
	v := s.Views.Create()
	c.Header("Cache-Control", "no-store")
	c.HTML(http.StatusOK, "index.html", render.Build(v.Snapshot(), s.Portfolio))
}

func (s *Server) health(c *gin.Context) {
	if s.Store != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := s.Store.Ping(ctx); err != nil {
			s.fail(c, apperror.NewUnavailable("database unreachable", err))
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "views": s.Views.Len()})
}

func (s *Server) state(c *gin.Context) {
	v, ok := s.lookup(c)
	if !ok {
		return
	}
	v.Touch()
	c.JSON(http.StatusOK, s.payload(v.Snapshot()))
}

// selectTab switches tabs and returns the new main column.
func (s *Server) selectTab(c *gin.Context) {
	v, ok := s.lookup(c)
	if !ok {
		return
	}
	t, err := view.ParseTab(c.Param("tab"))
	if err != nil {
		s.fail(c, err)
		return
	}
	if err := v.SetTab(t); err != nil {
		s.fail(c, err)
		return
	}
	c.HTML(http.StatusOK, "main.html", render.Build(v.Snapshot(), s.Portfolio))
}

// dismissTerminal answers with an empty body so the block is swapped away.
func (s *Server) dismissTerminal(c *gin.Context) {
	v, ok := s.lookup(c)
	if !ok {
		return
	}
	v.DismissTerminal()
	c.String(http.StatusOK, "")
}

func (s *Server) startScan(c *gin.Context) {
	v, ok := s.lookup(c)
	if !ok {
		return
	}
	started := v.StartScan()
	c.JSON(http.StatusAccepted, gin.H{
		"started": started,
		"state":   s.payload(v.Snapshot()),
	})
}

// events streams the view's state as server-sent events. Ending the stream
// only unsubscribes, so a reconnecting EventSource finds the same view. The
// registry's sweeper disposes it once it has been idle without subscribers.
func (s *Server) events(c *gin.Context) {
	v, ok := s.lookup(c)
	if !ok {
		return
	}
	updates, unsubscribe := v.Subscribe()
	defer unsubscribe()

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")

	ticker := time.NewTicker(keepAlive)
	defer ticker.Stop()

	ctx := c.Request.Context()
	c.SSEvent("state", s.payload(v.Snapshot()))
	c.Writer.Flush()
	c.Stream(func(io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case _, open := <-updates:
			if !open {
				return false
			}
			c.SSEvent("state", s.payload(v.Snapshot()))
			return true
		case <-ticker.C:
			c.SSEvent("ping", "")
			return true
		}
	})
}
