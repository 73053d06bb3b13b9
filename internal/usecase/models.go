package usecase

import (
	"detection-service/internal/domain"
	"detection-service/internal/metrics"
	"detection-service/internal/registry"
)

// ModelUseCase exposes model listing and switching over the registry.
type ModelUseCase struct {
	registry *registry.Registry
	metrics  *metrics.Metrics
}

func NewModelUseCase(reg *registry.Registry, m *metrics.Metrics) *ModelUseCase {
	return &ModelUseCase{registry: reg, metrics: m}
}

// List returns the registered model names and the active model name.
func (uc *ModelUseCase) List() ([]string, string) {
	return uc.registry.Names(), uc.registry.Active()
}

// Switch makes name the active model. Subsequent single-model detect
// calls use it; a detect already in flight may still observe the
// previous model.
func (uc *ModelUseCase) Switch(name string) error {
	if name == "" {
		return domain.ErrInvalidModelName
	}
	if err := uc.registry.SetActive(name); err != nil {
		return err
	}
	uc.metrics.ModelSwitches.Inc()
	return nil
}
