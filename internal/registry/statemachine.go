package registry

import (
	"github.com/DevByProxy/fensterchef/internal/geom"
	"github.com/DevByProxy/fensterchef/internal/x11"
)

// Classify decides a newly created window's initial state: transient-for
// set, fixed-size-smaller-than-monitor, or override-redirect all route
// to popup (the last case tracked without being managed for input);
// otherwise tiling.
func Classify(props Properties, monitor geom.Rect) State {
	if props.OverrideRedirect {
		return StatePopup
	}
	if props.TransientFor != 0 {
		return StatePopup
	}
	if fixedSizeSmallerThanMonitor(props.SizeHints, monitor) {
		return StatePopup
	}
	return StateTiling
}

func fixedSizeSmallerThanMonitor(hints x11.SizeHints, monitor geom.Rect) bool {
	if !hints.Has(x11.SizeHintPMinSize) || !hints.Has(x11.SizeHintPMaxSize) {
		return false
	}
	if hints.MinWidth != hints.MaxWidth || hints.MinHeight != hints.MaxHeight {
		return false // not fixed-size
	}
	return hints.MinWidth < monitor.Width && hints.MinHeight < monitor.Height
}

// ToFullscreen transitions w into the fullscreen state, remembering the
// state to restore later.
func (w *Window) ToFullscreen() {
	if w.State == StateFullscreen {
		return
	}
	w.PreviousState = w.State
	w.State = StateFullscreen
}

// FromFullscreen restores w's previous state.
func (w *Window) FromFullscreen() {
	if w.State != StateFullscreen {
		return
	}
	w.State = w.PreviousState
}

// ToHidden transitions w to hidden, on unmap or by action; its frame
// slot is retained so a later remap can restore it.
func (w *Window) ToHidden() {
	if w.State == StateHidden {
		return
	}
	w.PreviousState = w.State
	w.State = StateHidden
	w.Mapped = false
}

// FromHidden restores w's previous state on remap.
func (w *Window) FromHidden() {
	if w.State != StateHidden {
		return
	}
	w.State = w.PreviousState
}

// TargetRect computes the rectangle w should occupy given its state and
// (for tiling windows) the rectangle of the frame holding it.
func (w *Window) TargetRect(frameRect geom.Rect, monitorRect geom.Rect) geom.Rect {
	switch w.State {
	case StateFullscreen:
		return monitorRect
	case StateTiling:
		return frameRect
	case StatePopup:
		return w.clampedPopupRect(monitorRect)
	default: // hidden: geometry is irrelevant, window is unmapped
		return w.PopupRect
	}
}

// clampedPopupRect clamps a popup's stored rectangle to its size hints,
// honoring the requested position and clamping size to size hints.
func (w *Window) clampedPopupRect(monitorRect geom.Rect) geom.Rect {
	r := w.PopupRect
	hints := w.Properties.SizeHints
	if hints.Has(x11.SizeHintPMaxSize) {
		if r.Width > hints.MaxWidth && hints.MaxWidth > 0 {
			r.Width = hints.MaxWidth
		}
		if r.Height > hints.MaxHeight && hints.MaxHeight > 0 {
			r.Height = hints.MaxHeight
		}
	}
	if hints.Has(x11.SizeHintPMinSize) {
		if r.Width < hints.MinWidth {
			r.Width = hints.MinWidth
		}
		if r.Height < hints.MinHeight {
			r.Height = hints.MinHeight
		}
	}
	return r
}

// ApplyGeometry computes the target rectangle and, only if it differs
// from the last geometry actually sent to the server, issues a
// ConfigureWindow request, keeping geometry application idempotent.
func (w *Window) ApplyGeometry(client *x11.Client, frameRect, monitorRect geom.Rect) error {
	target := w.TargetRect(frameRect, monitorRect)
	w.Geometry = target
	if w.hasAppliedGeometry && target == w.lastAppliedGeometry {
		return nil
	}
	if err := client.Configure(w.ID, target); err != nil {
		return err
	}
	w.lastAppliedGeometry = target
	w.hasAppliedGeometry = true
	return nil
}
