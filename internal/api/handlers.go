// Package api provides the HTTP handlers of the demo backend. Every
// handler is a thin pass-through to a library call; the service exists
// to give the devloop supervisor something realistic to run.
package api

import (
	"encoding/json"
	"io"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sirosfoundation/go-demo-backend/pkg/config"
)

// maxIDCount caps the number of identifiers a single request may ask for.
const maxIDCount = 100

// Handlers aggregates all HTTP handlers
type Handlers struct {
	cfg     *config.Config
	logger  *zap.Logger
	started time.Time
}

// NewHandlers creates a new Handlers instance
func NewHandlers(cfg *config.Config, logger *zap.Logger) *Handlers {
	return &Handlers{
		cfg:     cfg,
		logger:  logger.Named("handlers"),
		started: time.Now(),
	}
}

// Status handles the /status and /health endpoints
func (h *Handlers) Status(c *gin.Context) {
	c.JSON(200, StatusResponse{
		Status:  "ok",
		Service: "demo-backend",
		Version: Version,
		Uptime:  time.Since(h.started).Round(time.Second).String(),
	})
}

// Echo mirrors the JSON request body back to the caller
func (h *Handlers) Echo(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(400, gin.H{"error": "Failed to read body"})
		return
	}
	if len(body) == 0 || !json.Valid(body) {
		c.JSON(400, gin.H{"error": "Body must be valid JSON"})
		return
	}

	c.JSON(200, gin.H{
		"echo":       json.RawMessage(body),
		"request_id": c.GetString("request_id"),
		"received":   time.Now().UTC().Format(time.RFC3339),
	})
}

// RandomID returns freshly generated UUIDv4 identifiers
func (h *Handlers) RandomID(c *gin.Context) {
	count := 1
	if raw := c.Query("count"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			c.JSON(400, gin.H{"error": "count must be a positive integer"})
			return
		}
		if n > maxIDCount {
			c.JSON(400, gin.H{"error": "count must be at most " + strconv.Itoa(maxIDCount)})
			return
		}
		count = n
	}

	ids := make([]string, count)
	for i := range ids {
		ids[i] = uuid.NewString()
	}

	c.JSON(200, gin.H{
		"ids":   ids,
		"count": count,
	})
}
