package registry

import (
	"errors"
	"fmt"

	"github.com/BurntSushi/xgb/xproto"

	"github.com/DevByProxy/fensterchef/internal/x11"
)

// ErrAlreadyManaged is returned by Create when the xid is already present.
var ErrAlreadyManaged = errors.New("window is already managed")

// Registry maps X window ids to Window records and owns their lifecycle.
type Registry struct {
	client *x11.Client
	byID   map[xproto.Window]*Window
	focus  xproto.Window // 0 if nothing is focused
}

// New creates an empty Registry bound to client.
func New(client *x11.Client) *Registry {
	return &Registry{client: client, byID: make(map[xproto.Window]*Window)}
}

// Create queries the X server for xid's initial geometry and properties,
// allocates a Window record and requests substructure events on it.
// Classification into tiling/popup/fullscreen happens in the caller
// (internal/wm), which has the frame tree Create needs for placement;
// Create itself only builds the record.
func (r *Registry) Create(xid xproto.Window) (*Window, error) {
	if _, ok := r.byID[xid]; ok {
		return nil, fmt.Errorf("create window %d: %w", xid, ErrAlreadyManaged)
	}

	geo, err := r.client.Geometry(xid)
	if err != nil {
		return nil, fmt.Errorf("create window %d: %w", xid, err)
	}

	props, err := r.readProperties(xid)
	if err != nil {
		return nil, fmt.Errorf("create window %d: %w", xid, err)
	}

	w := &Window{
		ID:         xid,
		Geometry:   geo,
		PopupRect:  geo,
		Properties: props,
		State:      StateTiling,
	}
	r.byID[xid] = w

	if err := r.client.ManageSubstructure(xid); err != nil {
		delete(r.byID, xid)
		return nil, fmt.Errorf("create window %d: manage substructure: %w", xid, err)
	}
	if err := r.client.AddToSaveSet(xid); err != nil {
		delete(r.byID, xid)
		return nil, fmt.Errorf("create window %d: save set: %w", xid, err)
	}
	return w, nil
}

func (r *Registry) readProperties(xid xproto.Window) (Properties, error) {
	attrs, err := r.client.WindowAttributes(xid)
	overrideRedirect := false
	if err == nil && attrs != nil {
		overrideRedirect = attrs.OverrideRedirect
	}

	title, err := r.client.GetWindowTitle(xid)
	if err != nil {
		title = ""
	}
	sizeHints, err := r.client.SizeHintsGet(xid)
	if err != nil {
		sizeHints = x11.SizeHints{}
	}
	wmHints, err := r.client.WMHintsGet(xid)
	if err != nil {
		wmHints = x11.WMHints{}
	}
	transientFor, err := r.client.TransientFor(xid)
	if err != nil {
		transientFor = 0
	}
	deleteAtom, err := r.client.Atom(x11.AtomWMDeleteWindow)
	supportsDelete := err == nil && r.client.SupportsProtocol(xid, deleteAtom)

	return Properties{
		Title:            title,
		SizeHints:        sizeHints,
		WMHints:          wmHints,
		SupportsDelete:   supportsDelete,
		TransientFor:     transientFor,
		OverrideRedirect: overrideRedirect,
	}, nil
}

// RefreshTitle re-reads _NET_WM_NAME/WM_NAME, used by the PropertyNotify
// handler.
func (r *Registry) RefreshTitle(w *Window) {
	if title, err := r.client.GetWindowTitle(w.ID); err == nil {
		w.Properties.Title = title
	}
}

// RefreshSizeHints re-reads WM_NORMAL_HINTS.
func (r *Registry) RefreshSizeHints(w *Window) {
	if hints, err := r.client.SizeHintsGet(w.ID); err == nil {
		w.Properties.SizeHints = hints
	}
}

// RefreshWMHints re-reads WM_HINTS.
func (r *Registry) RefreshWMHints(w *Window) {
	if hints, err := r.client.WMHintsGet(w.ID); err == nil {
		w.Properties.WMHints = hints
	}
}

// Lookup returns the Window for xid, or nil.
func (r *Registry) Lookup(xid xproto.Window) *Window {
	return r.byID[xid]
}

// Destroy removes w's record. It does not touch the frame tree; callers
// (internal/wm) must vacate w's frame slot first so the registry stays a
// pure id->record map.
func (r *Registry) Destroy(w *Window) {
	if r.focus == w.ID {
		r.focus = 0
	}
	delete(r.byID, w.ID)
}

// Iterate calls fn for every managed window, in unspecified order.
func (r *Registry) Iterate(fn func(*Window)) {
	for _, w := range r.byID {
		fn(w)
	}
}

// Focus returns the currently focused window, or nil.
func (r *Registry) Focus() *Window {
	return r.byID[r.focus]
}

// SetFocus records xid as the focus target. Exactly one window is the
// focus target at a time; passing 0 clears focus.
func (r *Registry) SetFocus(xid xproto.Window) {
	r.focus = xid
}
