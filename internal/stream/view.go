package stream

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/KhYulian/Mapty-App/internal/session"
	"github.com/KhYulian/Mapty-App/internal/workout"
)

const (
	OpRenderMap     = "render_map"
	OpAddMarker     = "add_marker"
	OpPanTo         = "pan_to"
	OpClearMarkers  = "clear_markers"
	OpShowForm      = "show_form"
	OpHideForm      = "hide_form"
	OpShowField     = "show_field"
	OpRenderRow     = "render_row"
	OpRemoveRow     = "remove_row"
	OpResetRows     = "reset_rows"
	OpShowRemoveAll = "show_remove_all"
	OpNotice        = "notice"
)

// Command is one instruction for the browser to apply to the page.
type Command struct {
	Op        string          `json:"op"`
	Coords    *workout.Coords `json:"coords,omitempty"`
	Zoom      int             `json:"zoom,omitempty"`
	Popup     *session.Popup  `json:"popup,omitempty"`
	Row       *session.Row    `json:"row,omitempty"`
	WorkoutID string          `json:"workout_id,omitempty"`
	Type      workout.Type    `json:"type,omitempty"`
	Message   string          `json:"message,omitempty"`
}

// View drives the browser page by broadcasting commands on one hub channel.
// It serves as map adapter, form, list and notifier for the controller.
type View struct {
	hub     *Hub
	channel string

	mu      sync.Mutex
	onClick func(workout.Coords)
}

func NewView(hub *Hub, channel string) *View {
	return &View{hub: hub, channel: channel}
}

func (v *View) RenderAt(coords workout.Coords, zoom int) {
	v.send(Command{Op: OpRenderMap, Coords: &coords, Zoom: zoom})
}

func (v *View) AddMarker(coords workout.Coords, popup session.Popup) {
	v.send(Command{Op: OpAddMarker, Coords: &coords, Popup: &popup})
}

func (v *View) PanTo(coords workout.Coords, zoom int) {
	v.send(Command{Op: OpPanTo, Coords: &coords, Zoom: zoom})
}

func (v *View) OnClick(handler func(workout.Coords)) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.onClick = handler
}

func (v *View) ClearMarkers() { v.send(Command{Op: OpClearMarkers}) }

// DispatchClick hands a map click from the browser to the registered
// handler. It reports false while no map has been rendered.
func (v *View) DispatchClick(coords workout.Coords) bool {
	v.mu.Lock()
	handler := v.onClick
	v.mu.Unlock()
	if handler == nil {
		return false
	}
	handler(coords)
	return true
}

func (v *View) Show() { v.send(Command{Op: OpShowForm}) }
func (v *View) Hide() { v.send(Command{Op: OpHideForm}) }

func (v *View) ShowField(t workout.Type) {
	v.send(Command{Op: OpShowField, Type: t})
}

func (v *View) RenderRow(row session.Row) {
	v.send(Command{Op: OpRenderRow, Row: &row, WorkoutID: row.ID})
}

func (v *View) RemoveRow(id string) {
	v.send(Command{Op: OpRemoveRow, WorkoutID: id})
}

func (v *View) Reset()         { v.send(Command{Op: OpResetRows}) }
func (v *View) ShowRemoveAll() { v.send(Command{Op: OpShowRemoveAll}) }

func (v *View) Notify(message string) {
	v.send(Command{Op: OpNotice, Message: message})
}

// Views exposes the view under every role the controller needs.
func (v *View) Views() session.Views {
	return session.Views{Map: v, Form: v, List: v, Notice: v}
}

func (v *View) send(cmd Command) {
	payload, err := json.Marshal(cmd)
	if err != nil {
		log.Printf("encode %s command: %v", cmd.Op, err)
		return
	}
	v.hub.Broadcast(v.channel, payload)
}
