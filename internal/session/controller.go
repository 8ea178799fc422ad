package session

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/KhYulian/Mapty-App/internal/observability"
	"github.com/KhYulian/Mapty-App/internal/storage"
	"github.com/KhYulian/Mapty-App/internal/workout"
)

const (
	DefaultZoom = 13

	noticeLocation     = "Could not get your position"
	noticeInvalidInput = "Input have to be positive number!"
	promptRemoveAll    = "Are you sure?"
)

var (
	ErrFormClosed          = errors.New("workout form is not open")
	ErrLocationUnavailable = errors.New("could not get your position")
	ErrUnknownTarget       = errors.New("unknown list click target")

	errPositionOutOfRange = errors.New("position out of range")
)

type State int

const (
	AwaitingLocation State = iota
	MapReady
	FormOpen
)

func (s State) String() string {
	switch s {
	case AwaitingLocation:
		return "awaiting_location"
	case MapReady:
		return "map_ready"
	case FormOpen:
		return "form_open"
	}
	return "unknown"
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// FormInput carries the form fields as typed by the user.
type FormInput struct {
	Type          workout.Type `json:"type"`
	Distance      string       `json:"distance"`
	Duration      string       `json:"duration"`
	Cadence       string       `json:"cadence"`
	ElevationGain string       `json:"elevation_gain"`
}

type Target string

const (
	TargetRow       Target = "row"
	TargetRemove    Target = "remove"
	TargetRemoveAll Target = "remove-all"
)

// ListClick describes a click inside the workout list.
type ListClick struct {
	WorkoutID string `json:"workout_id"`
	Target    Target `json:"target"`
}

// Controller owns the workout store and mediates every user interaction.
// It is not safe for concurrent use; callers serialize events.
type Controller struct {
	slot  storage.Slot
	views Views
	zoom  int

	store          *workout.Store
	state          State
	pending        workout.Coords
	formType       workout.Type
	removeAllShown bool
	locationFailed bool
}

func NewController(slot storage.Slot, views Views, zoom int) *Controller {
	if zoom <= 0 {
		zoom = DefaultZoom
	}
	return &Controller{
		slot:     slot,
		views:    views,
		zoom:     zoom,
		store:    workout.NewStore(),
		state:    AwaitingLocation,
		formType: workout.TypeRunning,
	}
}

func (c *Controller) State() State { return c.state }

func (c *Controller) Workouts() []workout.Workout { return c.store.All() }

func (c *Controller) Rows() []Row {
	all := c.store.All()
	rows := make([]Row, 0, len(all))
	for _, w := range all {
		rows = append(rows, rowFor(w))
	}
	return rows
}

// Start loads the persisted snapshot and renders the list. Markers wait for
// the map to be ready.
func (c *Controller) Start(ctx context.Context) error {
	raw, err := c.slot.Get(ctx)
	if err != nil {
		return fmt.Errorf("read snapshot: %w", err)
	}
	c.store = workout.Load(raw)
	c.renderList()
	return nil
}

// Locate asks the geolocator once and settles the map state from the answer.
// After a failure the map stays unavailable for the session.
func (c *Controller) Locate(ctx context.Context, geo Geolocator) error {
	if c.locationFailed {
		return ErrLocationUnavailable
	}
	if c.state != AwaitingLocation {
		return nil
	}
	coords, err := geo.CurrentPosition(ctx)
	if err == nil && !coords.Valid() {
		err = errPositionOutOfRange
	}
	if err != nil {
		c.LocationFailed(err)
		return fmt.Errorf("%w: %v", ErrLocationUnavailable, err)
	}
	c.LocationResolved(coords)
	return nil
}

func (c *Controller) LocationResolved(coords workout.Coords) {
	if c.locationFailed || c.state != AwaitingLocation {
		return
	}
	if !coords.Valid() {
		c.LocationFailed(errPositionOutOfRange)
		return
	}
	c.views.Map.RenderAt(coords, c.zoom)
	c.views.Map.OnClick(c.MapClicked)
	c.renderMarkers()
	c.state = MapReady
}

// LocationFailed leaves the map feature unavailable for the session.
func (c *Controller) LocationFailed(error) {
	if c.locationFailed {
		return
	}
	c.locationFailed = true
	c.views.Notice.Notify(noticeLocation)
}

func (c *Controller) MapClicked(coords workout.Coords) {
	if c.state == AwaitingLocation {
		return
	}
	c.pending = coords
	c.views.Form.Show()
	c.state = FormOpen
}

func (c *Controller) ToggleType(t workout.Type) error {
	if c.state != FormOpen {
		return ErrFormClosed
	}
	if !t.Valid() {
		return fmt.Errorf("%w: %q", workout.ErrUnknownType, t)
	}
	c.formType = t
	c.views.Form.ShowField(t)
	return nil
}

// Submit validates the form against the pending map click. On rejection the
// form stays open and nothing is stored.
func (c *Controller) Submit(ctx context.Context, in FormInput) (workout.Workout, error) {
	if c.state != FormOpen {
		return workout.Workout{}, ErrFormClosed
	}
	kind := in.Type
	if kind == "" {
		kind = c.formType
	}

	metric := in.Cadence
	if kind == workout.TypeCycling {
		metric = in.ElevationGain
	}
	w, err := workout.New(kind, c.pending, parseField(in.Distance), parseField(in.Duration), parseField(metric))
	if err != nil {
		observability.RecordWorkoutRejected()
		c.views.Notice.Notify(noticeInvalidInput)
		return workout.Workout{}, err
	}
	if err := c.store.Append(w); err != nil {
		return workout.Workout{}, err
	}
	observability.RecordWorkoutCreated(string(w.Type))

	c.views.Map.AddMarker(w.Coords, popupFor(w))
	c.renderRow(w)
	c.views.Form.Hide()
	c.state = MapReady

	if err := c.persist(ctx); err != nil {
		return w, err
	}
	return w, nil
}

// ListClicked routes a click in the list to removal, reset, or map focus.
func (c *Controller) ListClicked(ctx context.Context, click ListClick, confirm Confirmer) error {
	switch click.Target {
	case TargetRemoveAll:
		return c.RemoveAll(ctx, confirm)
	case TargetRemove:
		return c.Remove(ctx, click.WorkoutID)
	case TargetRow, "":
		c.Focus(click.WorkoutID)
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnknownTarget, click.Target)
}

// Focus pans the map to a workout without touching any state.
func (c *Controller) Focus(id string) {
	if c.state == AwaitingLocation {
		return
	}
	w, ok := c.store.Find(id)
	if !ok {
		return
	}
	c.views.Map.PanTo(w.Coords, c.zoom)
}

// Remove drops one workout, rewrites the snapshot and reloads from it. An
// unknown id is a no-op.
func (c *Controller) Remove(ctx context.Context, id string) error {
	if !c.store.RemoveByID(id) {
		return nil
	}
	observability.RecordWorkoutsRemoved(1)
	c.views.List.RemoveRow(id)
	if err := c.persist(ctx); err != nil {
		return err
	}
	return c.reload(ctx)
}

// RemoveAll clears every workout once the user confirms.
func (c *Controller) RemoveAll(ctx context.Context, confirm Confirmer) error {
	if confirm == nil || !confirm.Confirm(promptRemoveAll) {
		return nil
	}
	observability.RecordWorkoutsRemoved(c.store.Len())
	c.store.Clear()
	if err := c.slot.Delete(ctx); err != nil {
		return fmt.Errorf("delete snapshot: %w", err)
	}
	return c.reload(ctx)
}

// reload rebuilds the store and every rendered view from the snapshot, the
// same end state a fresh page load would reach.
func (c *Controller) reload(ctx context.Context) error {
	raw, err := c.slot.Get(ctx)
	if err != nil {
		return fmt.Errorf("read snapshot: %w", err)
	}
	c.store = workout.Load(raw)

	if c.state == FormOpen {
		c.views.Form.Hide()
		c.state = MapReady
	}
	c.views.List.Reset()
	c.removeAllShown = false
	c.renderList()

	if c.state != AwaitingLocation {
		c.views.Map.ClearMarkers()
		c.renderMarkers()
	}
	return nil
}

func (c *Controller) persist(ctx context.Context) error {
	raw, err := c.store.Serialize()
	if err == nil {
		err = c.slot.Set(ctx, raw)
	}
	observability.RecordSnapshotWrite(c.store.Len(), err)
	if err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

func (c *Controller) renderList() {
	for _, w := range c.store.All() {
		c.renderRow(w)
	}
}

func (c *Controller) renderRow(w workout.Workout) {
	c.views.List.RenderRow(rowFor(w))
	if !c.removeAllShown {
		c.views.List.ShowRemoveAll()
		c.removeAllShown = true
	}
}

func (c *Controller) renderMarkers() {
	for _, w := range c.store.All() {
		c.views.Map.AddMarker(w.Coords, popupFor(w))
	}
}

// parseField reads a raw form value; blank or unparsable text becomes NaN so
// validation rejects it.
func parseField(raw string) float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}
