package workout

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"
)

type Type string

const (
	TypeRunning Type = "running"
	TypeCycling Type = "cycling"
)

func (t Type) Valid() bool {
	return t == TypeRunning || t == TypeCycling
}

// Coords is a [lat, lng] pair as reported by the map.
type Coords [2]float64

func (c Coords) Lat() float64 { return c[0] }
func (c Coords) Lng() float64 { return c[1] }

// Valid reports whether both values are finite and the latitude is in range.
func (c Coords) Valid() bool {
	return finite(c.Lat()) && finite(c.Lng()) && c.Lat() >= -90 && c.Lat() <= 90
}

// Workout is a tagged union: exactly one of Running or Cycling is set,
// matching Type.
type Workout struct {
	ID          string
	CreatedAt   time.Time
	Coords      Coords
	Distance    float64
	Duration    float64
	Type        Type
	Description string

	Running *RunningStats
	Cycling *CyclingStats
}

type RunningStats struct {
	Cadence float64
	Pace    float64
}

type CyclingStats struct {
	ElevationGain float64
	Speed         float64
}

// Metric returns the derived performance value and its unit.
func (w Workout) Metric() (float64, string) {
	switch w.Type {
	case TypeRunning:
		return w.Running.Pace, "min/km"
	case TypeCycling:
		return w.Cycling.Speed, "km/h"
	}
	return 0, ""
}

// Extra returns the type-specific input field and its unit.
func (w Workout) Extra() (float64, string) {
	switch w.Type {
	case TypeRunning:
		return w.Running.Cadence, "spm"
	case TypeCycling:
		return w.Cycling.ElevationGain, "m"
	}
	return 0, ""
}

// clone copies the variant stats so callers never share them with the store.
func (w Workout) clone() Workout {
	if w.Running != nil {
		stats := *w.Running
		w.Running = &stats
	}
	if w.Cycling != nil {
		stats := *w.Cycling
		w.Cycling = &stats
	}
	return w
}

func (w Workout) Icon() string {
	if w.Type == TypeRunning {
		return "🏃‍♂️"
	}
	return "🚴‍♂️"
}

// record is the persisted shape. Derived values travel as plain fields and
// are trusted on the way back in.
type record struct {
	ID            string    `json:"id"`
	Date          time.Time `json:"date"`
	Coords        []float64 `json:"coords"`
	Distance      float64   `json:"distance"`
	Duration      float64   `json:"duration"`
	Type          Type      `json:"type"`
	Description   string    `json:"description"`
	Cadence       *float64  `json:"cadence,omitempty"`
	Pace          *float64  `json:"pace,omitempty"`
	ElevationGain *float64  `json:"elevationGain,omitempty"`
	Speed         *float64  `json:"speed,omitempty"`
}

var errMalformed = errors.New("malformed workout record")

func (w Workout) MarshalJSON() ([]byte, error) {
	rec := record{
		ID:          w.ID,
		Date:        w.CreatedAt,
		Coords:      []float64{w.Coords.Lat(), w.Coords.Lng()},
		Distance:    w.Distance,
		Duration:    w.Duration,
		Type:        w.Type,
		Description: w.Description,
	}
	switch w.Type {
	case TypeRunning:
		if w.Running == nil {
			return nil, fmt.Errorf("%w: running workout %s has no running stats", errMalformed, w.ID)
		}
		rec.Cadence = &w.Running.Cadence
		rec.Pace = &w.Running.Pace
	case TypeCycling:
		if w.Cycling == nil {
			return nil, fmt.Errorf("%w: cycling workout %s has no cycling stats", errMalformed, w.ID)
		}
		rec.ElevationGain = &w.Cycling.ElevationGain
		rec.Speed = &w.Cycling.Speed
	default:
		return nil, fmt.Errorf("%w: unknown type %q", errMalformed, w.Type)
	}
	return json.Marshal(rec)
}

func (w *Workout) UnmarshalJSON(data []byte) error {
	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return err
	}
	if rec.ID == "" {
		return fmt.Errorf("%w: missing id", errMalformed)
	}
	if len(rec.Coords) != 2 {
		return fmt.Errorf("%w: coords must be [lat, lng]", errMalformed)
	}

	out := Workout{
		ID:          rec.ID,
		CreatedAt:   rec.Date,
		Coords:      Coords{rec.Coords[0], rec.Coords[1]},
		Distance:    rec.Distance,
		Duration:    rec.Duration,
		Type:        rec.Type,
		Description: rec.Description,
	}
	switch rec.Type {
	case TypeRunning:
		if rec.Cadence == nil || rec.Pace == nil {
			return fmt.Errorf("%w: running record %s lacks cadence or pace", errMalformed, rec.ID)
		}
		out.Running = &RunningStats{Cadence: *rec.Cadence, Pace: *rec.Pace}
	case TypeCycling:
		if rec.ElevationGain == nil || rec.Speed == nil {
			return fmt.Errorf("%w: cycling record %s lacks elevationGain or speed", errMalformed, rec.ID)
		}
		out.Cycling = &CyclingStats{ElevationGain: *rec.ElevationGain, Speed: *rec.Speed}
	default:
		return fmt.Errorf("%w: unknown type %q", errMalformed, rec.Type)
	}

	*w = out
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
