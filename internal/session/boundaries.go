package session

import (
	"context"

	"github.com/KhYulian/Mapty-App/internal/workout"
)

// MapAdapter draws the tile map. The controller never renders pixels itself.
type MapAdapter interface {
	RenderAt(coords workout.Coords, zoom int)
	AddMarker(coords workout.Coords, popup Popup)
	PanTo(coords workout.Coords, zoom int)
	OnClick(handler func(workout.Coords))
	ClearMarkers()
}

type Geolocator interface {
	CurrentPosition(ctx context.Context) (workout.Coords, error)
}

type GeolocatorFunc func(ctx context.Context) (workout.Coords, error)

func (f GeolocatorFunc) CurrentPosition(ctx context.Context) (workout.Coords, error) {
	return f(ctx)
}

// FormView is the workout input form. Hide also clears the inputs.
type FormView interface {
	Show()
	Hide()
	ShowField(t workout.Type)
}

type ListRenderer interface {
	RenderRow(row Row)
	RemoveRow(id string)
	Reset()
	ShowRemoveAll()
}

type Notifier interface {
	Notify(message string)
}

type Confirmer interface {
	Confirm(prompt string) bool
}

type ConfirmFunc func(prompt string) bool

func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

// Views groups the visual collaborators the controller drives.
type Views struct {
	Map    MapAdapter
	Form   FormView
	List   ListRenderer
	Notice Notifier
}
