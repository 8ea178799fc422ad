package workout

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("input must be a positive number")
	ErrUnknownType  = errors.New("unknown workout type")
)

// ValidationError names the form field that failed.
type ValidationError struct {
	Field string
	Value float64
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s (%v): %v", e.Field, e.Value, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

var (
	nowFn   = time.Now
	newIDFn = uuid.NewString
)

// New validates the inputs and builds a workout of the given type. metric is
// the cadence for running and the elevation gain for cycling.
func New(t Type, coords Coords, distance, duration, metric float64) (Workout, error) {
	switch t {
	case TypeRunning:
		return NewRunning(coords, distance, duration, metric)
	case TypeCycling:
		return NewCycling(coords, distance, duration, metric)
	}
	return Workout{}, &ValidationError{Field: "type", Err: fmt.Errorf("%w: %q", ErrUnknownType, t)}
}

func NewRunning(coords Coords, distance, duration, cadence float64) (Workout, error) {
	if err := positive(field{"distance", distance}, field{"duration", duration}, field{"cadence", cadence}); err != nil {
		return Workout{}, err
	}
	if err := validCoords(coords); err != nil {
		return Workout{}, err
	}

	w := base(TypeRunning, coords, distance, duration)
	w.Running = &RunningStats{
		Cadence: cadence,
		Pace:    duration / distance,
	}
	return w, nil
}

// NewCycling accepts any finite elevation gain, including zero and negative
// values for downhill rides.
func NewCycling(coords Coords, distance, duration, elevationGain float64) (Workout, error) {
	if err := positive(field{"distance", distance}, field{"duration", duration}); err != nil {
		return Workout{}, err
	}
	if !finite(elevationGain) {
		return Workout{}, &ValidationError{Field: "elevation gain", Value: elevationGain, Err: ErrInvalidInput}
	}
	if err := validCoords(coords); err != nil {
		return Workout{}, err
	}

	w := base(TypeCycling, coords, distance, duration)
	w.Cycling = &CyclingStats{
		ElevationGain: elevationGain,
		Speed:         distance / (duration / 60),
	}
	return w, nil
}

// Describe renders the list title, e.g. "Running on October 15".
func Describe(t Type, at time.Time) string {
	name := string(t)
	if name != "" {
		name = strings.ToUpper(name[:1]) + name[1:]
	}
	return fmt.Sprintf("%s on %s %d", name, at.Month(), at.Day())
}

func base(t Type, coords Coords, distance, duration float64) Workout {
	created := nowFn()
	return Workout{
		ID:          newIDFn(),
		CreatedAt:   created,
		Coords:      coords,
		Distance:    distance,
		Duration:    duration,
		Type:        t,
		Description: Describe(t, created),
	}
}

type field struct {
	name  string
	value float64
}

// positive reports the first field that is not a finite number above zero.
func positive(fields ...field) error {
	for _, f := range fields {
		if !finite(f.value) || f.value <= 0 {
			return &ValidationError{Field: f.name, Value: f.value, Err: ErrInvalidInput}
		}
	}
	return nil
}

func validCoords(c Coords) error {
	if !c.Valid() {
		return &ValidationError{Field: "coords", Value: c.Lat(), Err: errors.New("coordinates out of range")}
	}
	return nil
}
