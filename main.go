package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/Zachkp/untangle/internal/analytics"
	"github.com/Zachkp/untangle/internal/api"
	"github.com/Zachkp/untangle/internal/config"
	"github.com/Zachkp/untangle/internal/session"
	"github.com/Zachkp/untangle/internal/untangle"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	preset, err := config.CanvasPreset(cfg.Canvas)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	canvas, levels, err := config.LoadPuzzle(cfg.PuzzleFile, preset)
	if err != nil {
		log.Fatalf("Failed to load puzzle levels: %v", err)
	}

	stats, err := analytics.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer stats.Close()
	log.Printf("Database opened: %s", cfg.DBPath)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sessions := session.NewStore(func() *untangle.Puzzle {
		return untangle.New(untangle.Config{Canvas: canvas, Levels: levels})
	}, cfg.SessionTTL)
	if cfg.SessionTTL > 0 {
		go sessions.Run(ctx, time.Minute, func(n int) {
			log.Printf("Discarded %d idle puzzles", n)
		})
	}

	// Clean up old visitor data for privacy compliance
	go cleanupOldVisitorData(stats, cfg.VisitorRetention)

	adm, err := newAdmin(cfg, stats)
	if err != nil {
		log.Fatalf("Failed to initialize admin: %v", err)
	}

	limiter := rate.NewLimiter(rate.Limit(cfg.NewPuzzleRate), cfg.NewPuzzleBurst)
	puzzles := api.New(sessions, canvas, levels, limiter, stats)

	r := setupRouter(cfg, stats, puzzles, adm)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}
	go func() {
		log.Printf("Listening on %s (%gx%g canvas, %d levels)", srv.Addr, canvas.Width, canvas.Height, levels.Max())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}

func setupRouter(cfg *config.Config, stats *analytics.Store, puzzles *api.Handler, adm *admin) *gin.Engine {
	r := gin.Default()
	r.Use(analytics.Track(stats))

	if info, err := os.Stat(cfg.StaticDir); err == nil && info.IsDir() {
		r.Static("/static", cfg.StaticDir)
	}

	// Home page content
	r.GET("/", siteContent)
	r.GET("/api/content", siteContent)

	puzzles.Register(r)
	adm.register(r)
	return r
}

func siteContent(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"about":    AboutMe,
		"projects": Projects,
		"resolver": Resolver,
	})
}

func cleanupOldVisitorData(stats *analytics.Store, retention time.Duration) {
	removed, err := stats.Cleanup(context.Background(), retention)
	if err != nil {
		log.Printf("Error cleaning up old visitor data: %v", err)
		return
	}
	if removed > 0 {
		log.Printf("Privacy cleanup: Removed %d visitor records older than %s", removed, retention)
	}
}
