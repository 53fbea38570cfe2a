package checkers

import (
	"context"
	"errors"

	"github.com/artem13815/resumerank/pkg/skills"
)

// RegistryChecker верифицирует, что каталог навыков загружен и непуст.
type RegistryChecker struct {
	registry *skills.Registry
}

func NewRegistryChecker(registry *skills.Registry) *RegistryChecker {
	return &RegistryChecker{registry: registry}
}

func (c *RegistryChecker) Name() string { return "skills-registry" }

func (c *RegistryChecker) Check(_ context.Context) error {
	if c.registry == nil || c.registry.Size() == 0 {
		return errors.New("skills registry is empty")
	}
	return nil
}
