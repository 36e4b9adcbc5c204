// Package api exposes the untangle puzzle over HTTP. The browser forwards its
// pointer events here and redraws from the returned state.
package api

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/Zachkp/untangle/internal/analytics"
	"github.com/Zachkp/untangle/internal/session"
	"github.com/Zachkp/untangle/internal/untangle"
)

// SolveRecorder receives one event per solved round.
type SolveRecorder interface {
	RecordSolve(ctx context.Context, solve analytics.Solve) error
}

// Handler serves the puzzle routes.
type Handler struct {
	sessions *session.Store
	canvas   untangle.Canvas
	levels   untangle.Levels
	limiter  *rate.Limiter
	recorder SolveRecorder
}

// New creates a Handler. recorder may be nil.
func New(sessions *session.Store, canvas untangle.Canvas, levels untangle.Levels, limiter *rate.Limiter, recorder SolveRecorder) *Handler {
	return &Handler{
		sessions: sessions,
		canvas:   canvas,
		levels:   levels,
		limiter:  limiter,
		recorder: recorder,
	}
}

// Register mounts the routes on r.
func (h *Handler) Register(r gin.IRouter) {
	g := r.Group("/api/untangle")
	g.GET("/levels", h.getLevels)
	g.POST("", h.createPuzzle)
	g.GET("/:id", h.getPuzzle)
	g.DELETE("/:id", h.deletePuzzle)
	g.POST("/:id/reset", h.resetPuzzle)
	g.POST("/:id/level", h.setLevel)
	g.POST("/:id/next", h.nextLevel)
	g.POST("/:id/drag/begin", h.beginDrag)
	g.POST("/:id/drag/move", h.moveDrag)
	g.POST("/:id/drag/end", h.endDrag)
}

type levelRequest struct {
	Level int `json:"level"`
}

// pointerRequest carries either canvas coordinates or raw client coordinates
// plus the viewport they were measured in.
type pointerRequest struct {
	X        *float64           `json:"x"`
	Y        *float64           `json:"y"`
	ClientX  *float64           `json:"clientX"`
	ClientY  *float64           `json:"clientY"`
	Viewport *untangle.Viewport `json:"viewport"`
}

func (req pointerRequest) point(c untangle.Canvas) (untangle.Point, bool) {
	switch {
	case req.X != nil && req.Y != nil:
		return untangle.Point{X: *req.X, Y: *req.Y}, true
	case req.ClientX != nil && req.ClientY != nil && req.Viewport != nil:
		return req.Viewport.ToCanvas(c, *req.ClientX, *req.ClientY), true
	default:
		return untangle.Point{}, false
	}
}

func (h *Handler) getLevels(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"canvas": h.canvas,
		"levels": h.levels,
	})
}

func (h *Handler) createPuzzle(c *gin.Context) {
	if h.limiter != nil && !h.limiter.Allow() {
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many new puzzles, try again shortly"})
		return
	}

	req := levelRequest{Level: 1}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
	}
	if req.Level == 0 {
		req.Level = 1
	}

	id, state := h.sessions.Create(req.Level)
	c.JSON(http.StatusCreated, gin.H{"id": id, "state": state})
}

func (h *Handler) getPuzzle(c *gin.Context) {
	state, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

func (h *Handler) deletePuzzle(c *gin.Context) {
	h.sessions.Delete(c.Param("id"))
	c.Status(http.StatusNoContent)
}

func (h *Handler) resetPuzzle(c *gin.Context) {
	h.apply(c, (*untangle.Puzzle).Reset)
}

func (h *Handler) setLevel(c *gin.Context) {
	var req levelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	h.apply(c, func(p *untangle.Puzzle) untangle.State {
		return p.Generate(req.Level)
	})
}

func (h *Handler) nextLevel(c *gin.Context) {
	id := c.Param("id")
	var advanced bool
	res, err := h.sessions.Update(id, func(p *untangle.Puzzle) untangle.State {
		if !p.Solved() {
			return p.State()
		}
		advanced = true
		return p.Advance()
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	if !advanced {
		c.JSON(http.StatusConflict, gin.H{"error": "Level is not solved yet", "state": res.State})
		return
	}
	c.JSON(http.StatusOK, res.State)
}

func (h *Handler) beginDrag(c *gin.Context) {
	h.pointer(c, (*untangle.Puzzle).BeginDrag)
}

func (h *Handler) moveDrag(c *gin.Context) {
	h.pointer(c, (*untangle.Puzzle).UpdateDrag)
}

func (h *Handler) endDrag(c *gin.Context) {
	h.apply(c, (*untangle.Puzzle).EndDrag)
}

func (h *Handler) pointer(c *gin.Context, op func(*untangle.Puzzle, untangle.Point) untangle.State) {
	var req pointerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	pt, ok := req.point(h.canvas)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Expected x/y or clientX/clientY with a viewport"})
		return
	}
	h.apply(c, func(p *untangle.Puzzle) untangle.State {
		return op(p, pt)
	})
}

func (h *Handler) apply(c *gin.Context, op func(*untangle.Puzzle) untangle.State) {
	id := c.Param("id")
	res, err := h.sessions.Update(id, op)
	if err != nil {
		h.fail(c, err)
		return
	}
	if res.JustSolved {
		h.recordSolve(c.Request.Context(), id, res.State)
	}
	c.JSON(http.StatusOK, res.State)
}

func (h *Handler) recordSolve(ctx context.Context, id string, s untangle.State) {
	if h.recorder == nil {
		return
	}
	err := h.recorder.RecordSolve(ctx, analytics.Solve{
		SessionID: id,
		Level:     s.Level,
		Nodes:     len(s.Nodes),
		Edges:     len(s.Edges),
		Moves:     s.Moves,
	})
	if err != nil {
		log.Printf("Error recording solve for %s: %v", id, err)
	}
}

func (h *Handler) fail(c *gin.Context, err error) {
	if errors.Is(err, session.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Puzzle not found"})
		return
	}
	log.Printf("Puzzle request failed: %v", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
}
