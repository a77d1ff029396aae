package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"team-pulse/internal/aggregate"
	"team-pulse/internal/cultural"
	"team-pulse/internal/domain"
	"team-pulse/internal/fusion"
	"team-pulse/internal/models"
	"team-pulse/internal/repository"
	"team-pulse/internal/validator"
)

// AnalysisResult resume lo que produjo el analisis de un usuario.
type AnalysisResult struct {
	ProfileID  string
	Confidence int
	ModelsUsed []string
	TokenCost  int
	Validated  bool
	Degraded   bool
}

// AnalysisService corre el pipeline completo para un usuario: ventanas,
// banco tier-1, fusion, validacion selectiva tier-2, contexto cultural y
// persistencia. El consentimiento se verifica fail-closed antes de tocar
// cualquier dato.
type AnalysisService struct {
	profiles  repository.ProfileRepository
	traits    repository.TraitRepository
	outputs   repository.OutputRepository
	culturals repository.CulturalRepository

	store     *aggregate.Store
	bank      []models.Analyzer
	fuser     *fusion.Engine
	validator *validator.Validator
	cultural  *cultural.Engine

	minConversations int
	logger           *zap.Logger
}

func NewAnalysisService(
	profiles repository.ProfileRepository,
	traits repository.TraitRepository,
	outputs repository.OutputRepository,
	culturals repository.CulturalRepository,
	store *aggregate.Store,
	fuser *fusion.Engine,
	v *validator.Validator,
	culturalEngine *cultural.Engine,
	minConversations int,
	logger *zap.Logger,
) *AnalysisService {
	if minConversations <= 0 {
		minConversations = 3
	}
	return &AnalysisService{
		profiles:         profiles,
		traits:           traits,
		outputs:          outputs,
		culturals:        culturals,
		store:            store,
		bank:             models.Bank(),
		fuser:            fuser,
		validator:        v,
		cultural:         culturalEngine,
		minConversations: minConversations,
		logger:           logger,
	}
}

// AnalyzeUser ejecuta una pasada de analisis para un usuario. Sin
// consentimiento no se lee ni se escribe nada; con datos insuficientes no se
// crea perfil.
func (s *AnalysisService) AnalyzeUser(ctx context.Context, runID string, user domain.UserAccount) (AnalysisResult, error) {
	if !user.ConsentGranted {
		return AnalysisResult{}, domain.ErrConsentMissing
	}

	windows, err := s.store.History(ctx, user.ID, user.OrganizationID, 0)
	if err != nil {
		return AnalysisResult{}, fmt.Errorf("load windows: %w", err)
	}
	conversations := 0
	for _, w := range windows {
		conversations += w.MessageCount
	}
	if conversations < s.minConversations {
		return AnalysisResult{}, domain.ErrInsufficientData
	}

	outputs := make([]domain.ModelOutput, 0, len(s.bank)+1)
	modelsUsed := make([]string, 0, len(s.bank)+1)
	for _, analyzer := range s.bank {
		out, err := analyzer.Analyze(windows)
		if err != nil {
			if errors.Is(err, domain.ErrInsufficientData) {
				continue
			}
			return AnalysisResult{}, fmt.Errorf("analyzer %s: %w", analyzer.Type(), err)
		}
		outputs = append(outputs, out)
		modelsUsed = append(modelsUsed, string(out.ModelType))
	}
	if len(outputs) == 0 {
		return AnalysisResult{}, domain.ErrInsufficientData
	}

	consensus := s.fuser.Fuse(outputs)

	result := AnalysisResult{ModelsUsed: modelsUsed}
	if s.validator != nil {
		if should, reason := s.validator.ShouldValidate(user.ID, time.Now().UTC(), consensus); should {
			summary := validator.BuildSummary(windows, consensus)
			tier2, err := s.validator.Validate(ctx, summary)
			switch {
			case err == nil:
				outputs = append(outputs, tier2)
				consensus = s.fuser.Fuse(outputs)
				result.Validated = true
				result.TokenCost = tier2.TokenCost
				result.ModelsUsed = append(result.ModelsUsed, string(tier2.ModelType))
			case errors.Is(err, domain.ErrValidationProvider):
				// El consenso tier-1 sigue valiendo; el perfil queda marcado
				// como degradado hasta la proxima corrida.
				result.Degraded = true
				s.logger.Warn("tier-2 validation degraded",
					zap.String("user_id", user.ID),
					zap.String("reason", reason),
					zap.Error(err))
			default:
				return AnalysisResult{}, err
			}
		}
	}

	result.Confidence = fusion.OverallConfidence(consensus)

	profileID, err := s.persist(ctx, runID, user, windows, outputs, consensus, result, conversations)
	if err != nil {
		return AnalysisResult{}, err
	}
	result.ProfileID = profileID
	return result, nil
}

func (s *AnalysisService) persist(
	ctx context.Context,
	runID string,
	user domain.UserAccount,
	windows []domain.AggregationWindow,
	outputs []domain.ModelOutput,
	consensus map[string]fusion.Consensus,
	result AnalysisResult,
	conversations int,
) (string, error) {
	now := time.Now().UTC()

	profile, err := s.profiles.GetByUserOrg(ctx, user.ID, user.OrganizationID)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return "", fmt.Errorf("load profile: %w", err)
		}
		// Creacion perezosa: el perfil nace en la primera corrida que califica.
		profile = domain.PersonalityProfile{
			ID:             uuid.NewString(),
			UserID:         user.ID,
			OrganizationID: user.OrganizationID,
			CreatedAt:      now,
		}
	}

	messages := 0
	for _, w := range windows {
		messages += w.MessageCount
	}
	profile.OverallConfidence = result.Confidence
	profile.ConversationsAnalyzed = conversations
	profile.MessagesAnalyzed = messages
	profile.ConsentGranted = true
	profile.Degraded = result.Degraded
	profile.LastRunID = &runID
	profile.UpdatedAt = now

	if err := s.profiles.Upsert(ctx, profile); err != nil {
		return "", fmt.Errorf("upsert profile: %w", err)
	}

	for _, out := range outputs {
		out.ID = uuid.NewString()
		out.RunID = runID
		out.ProfileID = profile.ID
		if out.CreatedAt.IsZero() {
			out.CreatedAt = now
		}
		if err := s.outputs.Insert(ctx, out); err != nil {
			return "", fmt.Errorf("insert model output: %w", err)
		}
	}

	for key, c := range consensus {
		framework, trait := domain.SplitTraitKey(key)
		row := domain.PersonalityTrait{
			ID:         uuid.NewString(),
			ProfileID:  profile.ID,
			Framework:  framework,
			Trait:      trait,
			Score:      c.Score,
			Confidence: c.Confidence,
			Breakdown:  c.Breakdown,
			ObservedAt: now,
			CreatedAt:  now,
		}
		if err := s.traits.Insert(ctx, row); err != nil {
			return "", fmt.Errorf("insert trait %s: %w", key, err)
		}
	}

	if s.cultural != nil {
		cp := s.cultural.Profile(profile.ID, user.CountryCode, windows)
		cp.ID = uuid.NewString()
		cp.CreatedAt = now
		cp.UpdatedAt = now
		if err := s.culturals.Upsert(ctx, cp); err != nil {
			return "", fmt.Errorf("upsert cultural profile: %w", err)
		}
	}
	return profile.ID, nil
}
