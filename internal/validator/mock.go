package validator

import (
	"context"
	"sync"
)

// MockProvider devuelve validaciones fijas sin red. Util en tests y en
// entornos sin credenciales del proveedor.
type MockProvider struct {
	mu         sync.Mutex
	calls      int
	Validation Validation
	Err        error
}

func NewMockProvider() *MockProvider {
	return &MockProvider{
		Validation: Validation{
			TraitScores: map[string]int{},
			Confidence:  85,
			TokensUsed:  420,
		},
	}
}

func (m *MockProvider) Validate(_ context.Context, _ string) (Validation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.Err != nil {
		return Validation{}, m.Err
	}
	return m.Validation, nil
}

// Calls devuelve cuantas veces se invoco al proveedor.
func (m *MockProvider) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}
