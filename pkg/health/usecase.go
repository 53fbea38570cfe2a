package health

import (
	"context"
	"errors"
	"fmt"
)

// Checker represents a dependency health check.
type Checker interface {
	Name() string
	Check(ctx context.Context) error
}

// ReadinessUseCase describes readiness verification.
type ReadinessUseCase interface {
	Ready(ctx context.Context) error
}

type service struct {
	checkers []Checker
}

// NewService aggregates dependency checkers.
func NewService(checkers ...Checker) ReadinessUseCase {
	return &service{checkers: checkers}
}

// Ready runs every checker and joins all failures into one error.
func (s *service) Ready(ctx context.Context) error {
	var failures []error
	for _, ch := range s.checkers {
		if err := ch.Check(ctx); err != nil {
			failures = append(failures, fmt.Errorf("%s: %w", ch.Name(), err))
		}
	}
	return errors.Join(failures...)
}
