package analytics

import (
	"context"
	"log"
	"strings"

	"github.com/gin-gonic/gin"
)

// untrackedPrefixes are never recorded.
var untrackedPrefixes = []string{
	"/static/",
	"/images/",
	"/admin/",
	"/favicon",
	"/privacy",
	"/api/untangle/",
}

// Track records page views in the background. Requests carrying "DNT: 1"
// and asset, admin and puzzle-event paths are skipped.
func Track(store *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if !shouldTrack(path, c.GetHeader("DNT")) {
			c.Next()
			return
		}

		ip, ua := c.ClientIP(), c.GetHeader("User-Agent")
		go func() {
			if err := store.RecordVisit(context.Background(), ip, ua, path); err != nil {
				log.Printf("Error recording visitor: %v", err)
			}
		}()
		c.Next()
	}
}

func shouldTrack(path, dnt string) bool {
	if dnt == "1" {
		return false
	}
	for _, prefix := range untrackedPrefixes {
		if strings.HasPrefix(path, prefix) {
			return false
		}
	}
	return true
}
