package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"team-pulse/internal/aggregate"
	"team-pulse/internal/domain"
	"team-pulse/internal/extractor"
	"team-pulse/internal/repository"
)

// EventHandler recibe eventos de interaccion, extrae sus features y las
// funde en la ventana de agregacion. El contenido del mensaje muere aca:
// nunca se persiste ni se loguea.
type EventHandler struct {
	logger    *zap.Logger
	users     repository.UserRepository
	extractor extractor.Extractor
	store     *aggregate.Store
}

// NewEventHandler crea una instancia de EventHandler con sus dependencias.
func NewEventHandler(logger *zap.Logger, users repository.UserRepository, store *aggregate.Store) *EventHandler {
	return &EventHandler{
		logger: logger,
		users:  users,
		store:  store,
	}
}

// IngestEvent maneja POST /events.
func (h *EventHandler) IngestEvent(c *gin.Context) {
	var event domain.InteractionEvent
	if err := c.ShouldBindJSON(&event); err != nil {
		h.logger.Warn("invalid ingest request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	user, err := h.users.Get(c.Request.Context(), event.UserID)
	if err != nil || user.OrganizationID != event.OrganizationID {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	if !user.ConsentGranted {
		c.JSON(http.StatusForbidden, gin.H{"error": "consent required"})
		return
	}

	features, err := h.extractor.Extract(event)
	if err != nil {
		var extractionErr *domain.ExtractionError
		if errors.As(err, &extractionErr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": extractionErr.Error()})
			return
		}
		h.logger.Error("feature extraction failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not process event"})
		return
	}

	if err := h.store.MergeFeatures(c.Request.Context(), event.UserID, event.OrganizationID, event.ChannelType, event.Timestamp, features); err != nil {
		h.logger.Error("merge features failed",
			zap.String("user_id", event.UserID),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not store event"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"status":       "accepted",
		"period_start": h.store.PeriodStart(event.Timestamp),
		"low_quality":  features.LowQuality,
	})
}
