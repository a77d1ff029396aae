package orchestrator

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"team-pulse/internal/aggregate"
	"team-pulse/internal/cultural"
	"team-pulse/internal/domain"
	"team-pulse/internal/fusion"
	"team-pulse/internal/validator"
)

type mockWindowRepo struct {
	mu          sync.Mutex
	byUser      map[string][]domain.AggregationWindow
	failUser    string
	onList      func()
	inFlight    int32
	maxInFlight int32
}

func (m *mockWindowRepo) MergeAbsorb(context.Context, domain.AggregationWindow) error { return nil }

func (m *mockWindowRepo) Get(context.Context, string, string, string, time.Time) (domain.AggregationWindow, error) {
	return domain.AggregationWindow{}, pgx.ErrNoRows
}

func (m *mockWindowRepo) ListByUser(_ context.Context, userID, _ string, _ int) ([]domain.AggregationWindow, error) {
	if m.onList != nil {
		m.onList()
	}
	current := atomic.AddInt32(&m.inFlight, 1)
	defer atomic.AddInt32(&m.inFlight, -1)
	for {
		max := atomic.LoadInt32(&m.maxInFlight)
		if current <= max || atomic.CompareAndSwapInt32(&m.maxInFlight, max, current) {
			break
		}
	}
	time.Sleep(time.Millisecond)

	if userID == m.failUser {
		return nil, errors.New("storage unavailable")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.byUser[userID], nil
}

func (m *mockWindowRepo) ListByOrgPeriod(context.Context, string, time.Time, time.Time) ([]domain.AggregationWindow, error) {
	return nil, nil
}

func (m *mockWindowRepo) ListBefore(context.Context, time.Time) ([]domain.AggregationWindow, error) {
	return nil, nil
}

func (m *mockWindowRepo) Compact(context.Context, domain.AggregationWindow, []string) error {
	return nil
}

type mockProfileRepo struct {
	mu       sync.Mutex
	profiles map[string]domain.PersonalityProfile
}

func (m *mockProfileRepo) Upsert(_ context.Context, p domain.PersonalityProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.profiles == nil {
		m.profiles = map[string]domain.PersonalityProfile{}
	}
	m.profiles[p.UserID+"/"+p.OrganizationID] = p
	return nil
}

func (m *mockProfileRepo) GetByID(context.Context, string) (domain.PersonalityProfile, error) {
	return domain.PersonalityProfile{}, pgx.ErrNoRows
}

func (m *mockProfileRepo) GetByUserOrg(_ context.Context, userID, orgID string) (domain.PersonalityProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[userID+"/"+orgID]
	if !ok {
		return domain.PersonalityProfile{}, pgx.ErrNoRows
	}
	return p, nil
}

func (m *mockProfileRepo) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.profiles)
}

func (m *mockProfileRepo) all() []domain.PersonalityProfile {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.PersonalityProfile, 0, len(m.profiles))
	for _, p := range m.profiles {
		out = append(out, p)
	}
	return out
}

type mockTraitRepo struct {
	mu     sync.Mutex
	traits []domain.PersonalityTrait
}

func (m *mockTraitRepo) Insert(_ context.Context, t domain.PersonalityTrait) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.traits = append(m.traits, t)
	return nil
}

func (m *mockTraitRepo) countByProfile() map[string]int {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := map[string]int{}
	for _, tr := range m.traits {
		out[tr.ProfileID]++
	}
	return out
}

func (m *mockTraitRepo) Latest(context.Context, string) ([]domain.PersonalityTrait, error) {
	return nil, nil
}

func (m *mockTraitRepo) History(context.Context, string, string, string, int) ([]domain.PersonalityTrait, error) {
	return nil, nil
}

type mockOutputRepo struct {
	mu      sync.Mutex
	outputs []domain.ModelOutput
}

func (m *mockOutputRepo) Insert(_ context.Context, o domain.ModelOutput) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outputs = append(m.outputs, o)
	return nil
}

func (m *mockOutputRepo) ListByProfile(context.Context, string, int) ([]domain.ModelOutput, error) {
	return nil, nil
}

type mockCulturalRepo struct {
	mu       sync.Mutex
	profiles []domain.CulturalProfile
}

func (m *mockCulturalRepo) Upsert(_ context.Context, p domain.CulturalProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles = append(m.profiles, p)
	return nil
}

func (m *mockCulturalRepo) GetByProfile(context.Context, string) (domain.CulturalProfile, error) {
	return domain.CulturalProfile{}, pgx.ErrNoRows
}

type mockRunRepo struct {
	mu   sync.Mutex
	runs map[string]domain.AnalysisRun
}

func (m *mockRunRepo) Create(_ context.Context, r domain.AnalysisRun) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.runs == nil {
		m.runs = map[string]domain.AnalysisRun{}
	}
	m.runs[r.ID] = r
	return nil
}

func (m *mockRunRepo) Update(_ context.Context, r domain.AnalysisRun) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.runs[r.ID]
	if ok && existing.Terminal() {
		return nil
	}
	m.runs[r.ID] = r
	return nil
}

func (m *mockRunRepo) Get(_ context.Context, id string) (domain.AnalysisRun, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.runs[id]
	if !ok {
		return domain.AnalysisRun{}, pgx.ErrNoRows
	}
	return r, nil
}

type mockUserRepo struct {
	users []domain.UserAccount
}

func (m *mockUserRepo) Get(_ context.Context, id string) (domain.UserAccount, error) {
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return domain.UserAccount{}, pgx.ErrNoRows
}

func (m *mockUserRepo) ListConsented(_ context.Context, orgID string) ([]domain.UserAccount, error) {
	var out []domain.UserAccount
	for _, u := range m.users {
		if u.OrganizationID == orgID && u.ConsentGranted {
			out = append(out, u)
		}
	}
	return out, nil
}

type mockOrgRepo struct {
	ids []string
}

func (m *mockOrgRepo) Get(context.Context, string) (domain.OrganizationProfile, error) {
	return domain.OrganizationProfile{}, pgx.ErrNoRows
}

func (m *mockOrgRepo) ListIDs(context.Context) ([]string, error) { return m.ids, nil }

func (m *mockOrgRepo) FindCohort(context.Context, string, int, int, string) ([]domain.OrganizationProfile, error) {
	return nil, nil
}

type fixture struct {
	windows   *mockWindowRepo
	profiles  *mockProfileRepo
	traits    *mockTraitRepo
	outputs   *mockOutputRepo
	culturals *mockCulturalRepo
	runs      *mockRunRepo
	users     *mockUserRepo
	orgs      *mockOrgRepo
	provider  *validator.MockProvider
	analysis  *AnalysisService
}

func newFixture(users []domain.UserAccount, workers int) (*fixture, *Orchestrator) {
	logger := zap.NewNop()
	f := &fixture{
		windows:   &mockWindowRepo{byUser: map[string][]domain.AggregationWindow{}},
		profiles:  &mockProfileRepo{},
		traits:    &mockTraitRepo{},
		outputs:   &mockOutputRepo{},
		culturals: &mockCulturalRepo{},
		runs:      &mockRunRepo{},
		users:     &mockUserRepo{users: users},
		orgs:      &mockOrgRepo{ids: []string{"org-1"}},
		provider:  validator.NewMockProvider(),
	}

	store := aggregate.NewStore(f.windows, 7, logger)
	triggers := validator.DefaultTriggers()
	triggers.SamplePercent = 0
	v := validator.NewValidator(f.provider, triggers, 1000, time.Second, 0, logger)
	culturalEngine := cultural.NewEngine("US", 50, logger)

	f.analysis = NewAnalysisService(
		f.profiles, f.traits, f.outputs, f.culturals,
		store, fusion.NewEngine(nil), v, culturalEngine, 3, logger,
	)
	orch := NewOrchestrator(f.runs, f.users, f.orgs, f.analysis, workers, logger)
	return f, orch
}

func userWindows() []domain.AggregationWindow {
	return []domain.AggregationWindow{{
		PeriodStart:    time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC),
		PeriodEnd:      time.Date(2026, 2, 9, 0, 0, 0, 0, time.UTC),
		MessageCount:   20,
		WordSum:        240,
		PositiveCount:  8,
		NeutralCount:   9,
		NegativeCount:  3,
		QuestionSum:    5,
		InitiatedCount: 6,
		FormalitySum:   20 * 55,
		KeywordCounts:  map[string]int{domain.KeywordCognitive: 4, domain.KeywordPlanning: 3},
	}}
}

// Sin consentimiento el pipeline no lee ventanas ni escribe nada.
func TestAnalyzeUserConsentFailClosed(t *testing.T) {
	f, _ := newFixture(nil, 1)
	user := domain.UserAccount{ID: "user-1", OrganizationID: "org-1", ConsentGranted: false}

	_, err := f.analysis.AnalyzeUser(context.Background(), "run-1", user)
	if !errors.Is(err, domain.ErrConsentMissing) {
		t.Fatalf("expected ErrConsentMissing, got %v", err)
	}
	if f.profiles.count() != 0 || len(f.outputs.outputs) != 0 || len(f.traits.traits) != 0 {
		t.Fatalf("consent failure must not write anything")
	}
	if f.provider.Calls() != 0 {
		t.Fatalf("consent failure must not reach the provider")
	}
}

func TestAnalyzeUserInsufficientData(t *testing.T) {
	f, _ := newFixture(nil, 1)
	user := domain.UserAccount{ID: "user-1", OrganizationID: "org-1", ConsentGranted: true}

	_, err := f.analysis.AnalyzeUser(context.Background(), "run-1", user)
	if !errors.Is(err, domain.ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData for empty history, got %v", err)
	}
	if f.profiles.count() != 0 {
		t.Fatalf("insufficient data must not create a profile")
	}
}

// Con confianza tier-1 debajo del umbral el proveedor externo se invoca
// exactamente una vez y el resultado se re-fusiona.
func TestAnalyzeUserEscalatesToTier2Once(t *testing.T) {
	f, _ := newFixture(nil, 1)
	f.windows.byUser["user-1"] = userWindows()
	f.provider.Validation.TraitScores = map[string]int{
		domain.TraitKey(domain.FrameworkBigFive, "extraversion"): 75,
	}
	user := domain.UserAccount{ID: "user-1", OrganizationID: "org-1", CountryCode: "ES", ConsentGranted: true}

	result, err := f.analysis.AnalyzeUser(context.Background(), "run-1", user)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.provider.Calls() != 1 {
		t.Fatalf("expected exactly one provider call, got %d", f.provider.Calls())
	}
	if !result.Validated || result.Degraded {
		t.Fatalf("expected validated non-degraded result, got %+v", result)
	}
	if result.TokenCost == 0 {
		t.Fatalf("expected token cost recorded from provider usage")
	}

	sawTier2 := false
	for _, out := range f.outputs.outputs {
		if out.ModelType == domain.ModelTier2LLM {
			sawTier2 = true
		}
		if out.RunID != "run-1" {
			t.Fatalf("output missing run provenance: %+v", out)
		}
	}
	if !sawTier2 {
		t.Fatalf("tier-2 output must be persisted for audit")
	}
	if len(f.culturals.profiles) != 1 || f.culturals.profiles[0].CountryCode != "ES" {
		t.Fatalf("expected cultural profile persisted for ES")
	}
}

// Un proveedor caido degrada al consenso tier-1 y marca el perfil, sin
// tumbar el analisis.
func TestAnalyzeUserDegradesOnProviderFailure(t *testing.T) {
	f, _ := newFixture(nil, 1)
	f.windows.byUser["user-1"] = userWindows()
	f.provider.Err = errors.New("provider down")
	user := domain.UserAccount{ID: "user-1", OrganizationID: "org-1", ConsentGranted: true}

	result, err := f.analysis.AnalyzeUser(context.Background(), "run-1", user)
	if err != nil {
		t.Fatalf("analysis should survive provider failure, got %v", err)
	}
	if !result.Degraded || result.Validated {
		t.Fatalf("expected degraded tier-1 result, got %+v", result)
	}

	profile, err := f.profiles.GetByUserOrg(context.Background(), "user-1", "org-1")
	if err != nil {
		t.Fatalf("expected profile persisted: %v", err)
	}
	if !profile.Degraded {
		t.Fatalf("profile must be marked degraded")
	}
	if len(f.traits.traits) == 0 {
		t.Fatalf("tier-1 consensus traits must still be persisted")
	}
}

// Una corrida completa: usuarios sin datos cuentan como skipped, errores de
// storage como failed, y el resto se procesa. El run termina completed con
// contadores exactos.
func TestExecuteCountsOutcomes(t *testing.T) {
	users := []domain.UserAccount{
		{ID: "user-ok", OrganizationID: "org-1", ConsentGranted: true},
		{ID: "user-empty", OrganizationID: "org-1", ConsentGranted: true},
		{ID: "user-broken", OrganizationID: "org-1", ConsentGranted: true},
		{ID: "user-optout", OrganizationID: "org-1", ConsentGranted: false},
	}
	f, orch := newFixture(users, 4)
	f.windows.byUser["user-ok"] = userWindows()
	f.windows.failUser = "user-broken"

	run, err := orch.RunOnce(context.Background(), domain.RunTypeManual)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if run.Status != domain.RunStatusCompleted {
		t.Fatalf("expected completed run, got %s (%s)", run.Status, run.ErrorMessage)
	}
	if run.UsersProcessed != 1 || run.UsersSkipped != 1 || run.UsersFailed != 1 {
		t.Fatalf("expected 1/1/1 processed/skipped/failed, got %d/%d/%d",
			run.UsersProcessed, run.UsersSkipped, run.UsersFailed)
	}
	if run.StartedAt == nil || run.FinishedAt == nil {
		t.Fatalf("run must carry start and finish timestamps")
	}
	if len(run.ModelsUsed) == 0 {
		t.Fatalf("run must record which models ran")
	}

	stored, err := f.runs.Get(context.Background(), run.ID)
	if err != nil {
		t.Fatalf("run must be persisted: %v", err)
	}
	if !stored.Terminal() {
		t.Fatalf("persisted run must be terminal, got %s", stored.Status)
	}
}

// Cancelar una corrida frena el despacho de nuevos usuarios, pero los ya
// despachados terminan su escritura completa y cuentan en el cierre.
func TestExecuteCancelStopsDispatchNotInFlightWrites(t *testing.T) {
	var users []domain.UserAccount
	for i := 0; i < 6; i++ {
		id := string(rune('a' + i))
		users = append(users, domain.UserAccount{ID: "user-" + id, OrganizationID: "org-1", ConsentGranted: true})
	}
	f, orch := newFixture(users, 1)
	for _, u := range users {
		f.windows.byUser[u.ID] = userWindows()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	var once sync.Once
	f.windows.onList = func() { once.Do(cancel) }

	run, err := orch.RunOnce(ctx, domain.RunTypeManual)
	if err == nil {
		t.Fatalf("expected cancelled run to report an error")
	}
	if run.Status != domain.RunStatusFailed {
		t.Fatalf("expected failed run, got %s", run.Status)
	}
	if run.UsersProcessed == 0 {
		t.Fatalf("in-flight user must finish and count after cancellation")
	}
	if run.UsersProcessed == len(users) {
		t.Fatalf("cancellation must stop dispatch, yet all %d users ran", len(users))
	}
	if run.UsersFailed != 0 {
		t.Fatalf("cancellation must not mark dispatched users as failed, got %d", run.UsersFailed)
	}

	// Nada queda a medio escribir: cada perfil persistido tiene sus rasgos y
	// su contexto cultural.
	if f.profiles.count() != run.UsersProcessed {
		t.Fatalf("expected %d complete profiles, got %d", run.UsersProcessed, f.profiles.count())
	}
	traitsByProfile := f.traits.countByProfile()
	for _, p := range f.profiles.all() {
		if traitsByProfile[p.ID] == 0 {
			t.Fatalf("profile %s persisted without trait rows", p.ID)
		}
	}
	if len(f.culturals.profiles) != run.UsersProcessed {
		t.Fatalf("expected %d cultural profiles, got %d", run.UsersProcessed, len(f.culturals.profiles))
	}
}

// El pool respeta el limite de workers configurado.
func TestExecuteBoundsConcurrency(t *testing.T) {
	var users []domain.UserAccount
	for i := 0; i < 12; i++ {
		id := string(rune('a' + i))
		users = append(users, domain.UserAccount{ID: "user-" + id, OrganizationID: "org-1", ConsentGranted: true})
	}
	f, orch := newFixture(users, 2)
	for _, u := range users {
		f.windows.byUser[u.ID] = userWindows()
	}

	if _, err := orch.RunOnce(context.Background(), domain.RunTypeScheduled); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if max := atomic.LoadInt32(&f.windows.maxInFlight); max > 2 {
		t.Fatalf("worker pool exceeded its limit: observed %d concurrent loads", max)
	}
}
