package httpapi

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/couchcryptid/flood-watch/internal/domain"
	"github.com/couchcryptid/flood-watch/internal/pipeline"
)

// RecentStore serves the bounded-history read path.
type RecentStore interface {
	Recent(ctx context.Context, limit int) ([]domain.SensorRecord, error)
	CheckReadiness(ctx context.Context) error
}

type handler struct {
	pipeline  *pipeline.Pipeline
	store     RecentStore
	feedLimit int
	logger    *slog.Logger
}

func newHandler(pl *pipeline.Pipeline, store RecentStore, feedLimit int, logger *slog.Logger) *handler {
	return &handler{pipeline: pl, store: store, feedLimit: feedLimit, logger: logger}
}

// update ingests one reading, submitted as JSON or form-encoded.
func (h *handler) update(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable body"})
		return
	}

	risk, err := h.pipeline.Ingest(c.Request.Context(), buildPayload(c.ContentType(), raw))
	if err != nil {
		h.writeIngestError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "risk": string(risk)})
}

// buildPayload picks the payload adapter for the body. JSON is tried first
// regardless of content type (devices are sloppy about headers); form
// decoding only applies to form content types. Anything else comes back as
// an empty payload that still carries the body for diagnostics.
func buildPayload(contentType string, raw []byte) domain.Payload {
	if len(bytes.TrimSpace(raw)) > 0 {
		if p, err := domain.NewJSONPayload(raw, contentType); err == nil {
			return p
		}
	}
	if strings.HasPrefix(contentType, "application/x-www-form-urlencoded") {
		if vals, err := url.ParseQuery(string(raw)); err == nil {
			return domain.NewFormPayload(vals, contentType, string(raw))
		}
	}
	return domain.NewFormPayload(url.Values{}, contentType, string(raw))
}

// writeIngestError maps pipeline errors onto the wire: client errors carry
// diagnostics for device-side debugging, internal faults stay opaque.
func (h *handler) writeIngestError(c *gin.Context, err error) {
	var emptyErr *domain.EmptyBodyError
	if errors.As(err, &emptyErr) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "No/invalid body",
			"ct":    emptyErr.ContentType,
			"raw":   emptyErr.Raw,
		})
		return
	}

	var fieldErr *domain.NonNumericFieldError
	if errors.As(err, &fieldErr) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Non-numeric value",
			"field":   fieldErr.Field,
			"payload": fieldErr.Raw,
		})
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}

// feed returns the recent window oldest-first as rows of
// [timestamp, flow_rate, water_level, rain_level, risk], with anti-cache
// headers so dashboard pollers always see fresh data.
func (h *handler) feed(c *gin.Context) {
	limit := h.feedLimit
	if s := c.Query("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = n
	}

	records, err := h.store.Recent(c.Request.Context(), limit)
	if err != nil {
		h.logger.Error("feed query failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	rows := make([][]any, 0, len(records))
	for _, rec := range records {
		rows = append(rows, []any{rec.Timestamp, rec.FlowRate, rec.WaterLevel, rec.RainLevel, string(rec.Risk)})
	}

	c.Header("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
	c.Header("Pragma", "no-cache")
	c.JSON(http.StatusOK, rows)
}

// dashboard renders the chart page over the same recent window as the feed.
func (h *handler) dashboard(c *gin.Context) {
	records, err := h.store.Recent(c.Request.Context(), h.feedLimit)
	if err != nil {
		h.logger.Error("dashboard query failed", "error", err)
		c.String(http.StatusInternalServerError, "internal error")
		return
	}
	c.HTML(http.StatusOK, "dashboard.html", gin.H{"Records": records})
}
