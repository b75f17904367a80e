package clock

import (
	"time"

	"go.uber.org/fx"
)

// Clock abstracts time for services that schedule or expire state.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

// NewSystem returns a Clock backed by the wall clock.
func NewSystem() Clock {
	return systemClock{}
}

var Module = fx.Module("clock",
	fx.Provide(NewSystem),
)
