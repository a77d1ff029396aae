package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"team-pulse/internal/orchestrator"
	"team-pulse/internal/repository"
)

// RunHandler dispara corridas de analisis y expone su estado.
type RunHandler struct {
	logger *zap.Logger
	runs   repository.RunRepository
	orch   *orchestrator.Orchestrator
}

// NewRunHandler crea una instancia de RunHandler con sus dependencias.
func NewRunHandler(logger *zap.Logger, runs repository.RunRepository, orch *orchestrator.Orchestrator) *RunHandler {
	return &RunHandler{logger: logger, runs: runs, orch: orch}
}

// StartRun maneja POST /runs. La corrida se ejecuta en background; el
// endpoint responde 202 con el run en pending para poder consultarlo.
func (h *RunHandler) StartRun(c *gin.Context) {
	var req struct {
		RunType string `json:"run_type"`
	}
	// El cuerpo es opcional: sin body la corrida es manual.
	_ = c.ShouldBindJSON(&req)

	run, err := h.orch.StartRun(c.Request.Context(), req.RunType)
	if err != nil {
		h.logger.Error("start run failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not start run"})
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Hour)
		defer cancel()
		if _, err := h.orch.Execute(ctx, run); err != nil {
			h.logger.Error("run execution failed", zap.String("run_id", run.ID), zap.Error(err))
		}
	}()

	c.JSON(http.StatusAccepted, gin.H{"run": run})
}

// GetRun maneja GET /runs/:id.
func (h *RunHandler) GetRun(c *gin.Context) {
	run, err := h.runs.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "run not found"})
			return
		}
		h.logger.Error("get run failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load run"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"run": run})
}
