package session

import (
	"fmt"

	"github.com/KhYulian/Mapty-App/internal/workout"
)

// Row is everything the list needs to draw one workout.
type Row struct {
	ID          string       `json:"id"`
	Type        workout.Type `json:"type"`
	Description string       `json:"description"`
	Icon        string       `json:"icon"`
	Distance    float64      `json:"distance"`
	Duration    float64      `json:"duration"`
	Metric      float64      `json:"metric"`
	MetricText  string       `json:"metric_text"`
	MetricUnit  string       `json:"metric_unit"`
	Extra       float64      `json:"extra"`
	ExtraUnit   string       `json:"extra_unit"`
}

type Popup struct {
	WorkoutID string `json:"workout_id"`
	ClassName string `json:"class_name"`
	Content   string `json:"content"`
}

func rowFor(w workout.Workout) Row {
	metric, metricUnit := w.Metric()
	extra, extraUnit := w.Extra()
	return Row{
		ID:          w.ID,
		Type:        w.Type,
		Description: w.Description,
		Icon:        w.Icon(),
		Distance:    w.Distance,
		Duration:    w.Duration,
		Metric:      metric,
		MetricText:  fmt.Sprintf("%.1f", metric),
		MetricUnit:  metricUnit,
		Extra:       extra,
		ExtraUnit:   extraUnit,
	}
}

func popupFor(w workout.Workout) Popup {
	return Popup{
		WorkoutID: w.ID,
		ClassName: string(w.Type) + "-popup",
		Content:   w.Icon() + " " + w.Description,
	}
}
