package session

import (
	"context"
	"errors"

	"github.com/KhYulian/Mapty-App/internal/storage"
	"github.com/KhYulian/Mapty-App/internal/workout"
)

type marker struct {
	coords workout.Coords
	popup  Popup
}

type fakeMap struct {
	renderedAt *workout.Coords
	zoom       int
	markers    []marker
	pans       []workout.Coords
	clears     int
	handler    func(workout.Coords)
}

func (m *fakeMap) RenderAt(coords workout.Coords, zoom int) {
	m.renderedAt = &coords
	m.zoom = zoom
}

func (m *fakeMap) AddMarker(coords workout.Coords, popup Popup) {
	m.markers = append(m.markers, marker{coords: coords, popup: popup})
}

func (m *fakeMap) PanTo(coords workout.Coords, _ int) {
	m.pans = append(m.pans, coords)
}

func (m *fakeMap) OnClick(handler func(workout.Coords)) {
	m.handler = handler
}

func (m *fakeMap) ClearMarkers() {
	m.clears++
	m.markers = nil
}

func (m *fakeMap) DispatchClick(coords workout.Coords) bool {
	if m.handler == nil {
		return false
	}
	m.handler(coords)
	return true
}

type fakeForm struct {
	visible bool
	field   workout.Type
	hides   int
}

func (f *fakeForm) Show()                    { f.visible = true }
func (f *fakeForm) Hide()                    { f.visible = false; f.hides++ }
func (f *fakeForm) ShowField(t workout.Type) { f.field = t }

type fakeList struct {
	rows           []Row
	removed        []string
	resets         int
	removeAllShown int
}

func (l *fakeList) RenderRow(row Row) { l.rows = append(l.rows, row) }

func (l *fakeList) RemoveRow(id string) {
	l.removed = append(l.removed, id)
	for i, r := range l.rows {
		if r.ID == id {
			l.rows = append(l.rows[:i], l.rows[i+1:]...)
			return
		}
	}
}

func (l *fakeList) Reset() {
	l.resets++
	l.rows = nil
}

func (l *fakeList) ShowRemoveAll() { l.removeAllShown++ }

type fakeNotifier struct {
	messages []string
}

func (n *fakeNotifier) Notify(message string) { n.messages = append(n.messages, message) }

// failingSlot wraps a slot and fails writes on demand.
type failingSlot struct {
	storage.Slot
	failSet bool
	failGet bool
}

var errSlot = errors.New("slot unavailable")

func (s *failingSlot) Set(ctx context.Context, payload []byte) error {
	if s.failSet {
		return errSlot
	}
	return s.Slot.Set(ctx, payload)
}

func (s *failingSlot) Get(ctx context.Context) ([]byte, error) {
	if s.failGet {
		return nil, errSlot
	}
	return s.Slot.Get(ctx)
}

type harness struct {
	ctrl   *Controller
	slot   *storage.MemorySlot
	mapv   *fakeMap
	form   *fakeForm
	list   *fakeList
	notice *fakeNotifier
}

func newHarness() *harness {
	h := &harness{
		slot:   storage.NewMemorySlot(),
		mapv:   &fakeMap{},
		form:   &fakeForm{},
		list:   &fakeList{},
		notice: &fakeNotifier{},
	}
	h.ctrl = NewController(h.slot, h.views(), 0)
	return h
}

func (h *harness) views() Views {
	return Views{Map: h.mapv, Form: h.form, List: h.list, Notice: h.notice}
}

func (h *harness) snapshotLen() int {
	raw, _ := h.slot.Get(context.Background())
	return workout.Load(raw).Len()
}

func located(coords workout.Coords) Geolocator {
	return GeolocatorFunc(func(context.Context) (workout.Coords, error) { return coords, nil })
}
