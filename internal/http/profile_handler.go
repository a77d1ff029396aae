package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"team-pulse/internal/repository"
)

// ProfileHandler expone perfiles de personalidad, historial de rasgos y el
// derecho al olvido. La lectura tambien es fail-closed: consentimiento
// revocado bloquea el perfil aunque exista.
type ProfileHandler struct {
	logger    *zap.Logger
	users     repository.UserRepository
	profiles  repository.ProfileRepository
	traits    repository.TraitRepository
	culturals repository.CulturalRepository
	erasure   repository.ErasureRepository
}

// NewProfileHandler crea una instancia de ProfileHandler con sus dependencias.
func NewProfileHandler(
	logger *zap.Logger,
	users repository.UserRepository,
	profiles repository.ProfileRepository,
	traits repository.TraitRepository,
	culturals repository.CulturalRepository,
	erasure repository.ErasureRepository,
) *ProfileHandler {
	return &ProfileHandler{
		logger:    logger,
		users:     users,
		profiles:  profiles,
		traits:    traits,
		culturals: culturals,
		erasure:   erasure,
	}
}

// GetProfile maneja GET /profiles.
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID := c.Query("user_id")
	orgID := c.Query("organization_id")
	if userID == "" || orgID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id and organization_id are required"})
		return
	}

	user, err := h.users.Get(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	if !user.ConsentGranted {
		c.JSON(http.StatusForbidden, gin.H{"error": "consent required"})
		return
	}

	profile, err := h.profiles.GetByUserOrg(c.Request.Context(), userID, orgID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
			return
		}
		h.logger.Error("get profile failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load profile"})
		return
	}

	traits, err := h.traits.Latest(c.Request.Context(), profile.ID)
	if err != nil {
		h.logger.Error("load traits failed", zap.String("profile_id", profile.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load traits"})
		return
	}

	response := gin.H{"profile": profile, "traits": traits}
	if cp, err := h.culturals.GetByProfile(c.Request.Context(), profile.ID); err == nil {
		response["cultural_context"] = cp
	}
	c.JSON(http.StatusOK, response)
}

// GetTraitHistory maneja GET /profiles/:id/traits/history.
func (h *ProfileHandler) GetTraitHistory(c *gin.Context) {
	profileID := c.Param("id")
	framework := c.Query("framework")
	trait := c.Query("trait")
	if framework == "" || trait == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "framework and trait are required"})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "26"))

	history, err := h.traits.History(c.Request.Context(), profileID, framework, trait, limit)
	if err != nil {
		h.logger.Error("trait history failed", zap.String("profile_id", profileID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load history"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": history})
}

// EraseUser maneja DELETE /users/:id.
func (h *ProfileHandler) EraseUser(c *gin.Context) {
	userID := c.Param("id")
	if err := h.erasure.EraseUser(c.Request.Context(), userID); err != nil {
		h.logger.Error("user erasure failed", zap.String("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not erase user"})
		return
	}
	h.logger.Info("user erased", zap.String("user_id", userID))
	c.Status(http.StatusNoContent)
}
