// Package monitor tracks the set of physical outputs and keeps each
// one's frame tree in sync with RandR. Output enumeration walks
// GetScreenResources' outputs, skips any not ConnectionConnected or
// without a crtc, reads geometry via GetCrtcInfo, and falls back to the
// largest head as primary when RandR reports none.
package monitor

import (
	"fmt"
	"sort"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"

	"github.com/DevByProxy/fensterchef/internal/frametree"
	"github.com/DevByProxy/fensterchef/internal/geom"
	"github.com/DevByProxy/fensterchef/internal/x11"
)

// Monitor is one physical output and the frame tree partitioning it.
type Monitor struct {
	Output  randr.Output
	Name    string
	Primary bool
	Rect    geom.Rect
	Tree    *frametree.Tree
}

// Set is the ordered collection of currently connected monitors.
type Set struct {
	client    *x11.Client
	monitors  []*Monitor
	outerGaps geom.Quad
}

// New creates an empty Set. Call Refresh before using it.
func New(client *x11.Client, outerGaps geom.Quad) *Set {
	return &Set{client: client, outerGaps: outerGaps}
}

// Monitors returns the current monitors in a stable, name-sorted order.
func (s *Set) Monitors() []*Monitor { return s.monitors }

// Primary returns the primary monitor, or the first monitor if none is
// marked primary, or nil if there are no monitors.
func (s *Set) Primary() *Monitor {
	for _, m := range s.monitors {
		if m.Primary {
			return m
		}
	}
	if len(s.monitors) > 0 {
		return s.monitors[0]
	}
	return nil
}

// AtPoint returns the monitor whose rectangle contains (x, y), or the
// primary monitor if none does.
func (s *Set) AtPoint(x, y int32) *Monitor {
	for _, m := range s.monitors {
		if x >= m.Rect.X && x < m.Rect.Right() && y >= m.Rect.Y && y < m.Rect.Bottom() {
			return m
		}
	}
	return s.Primary()
}

// EnableRandR requests ScreenChangeNotify delivery on the root window.
// Per-output NotifyEvent is deliberately not tracked; see DESIGN.md.
func EnableRandR(client *x11.Client) error {
	if err := randr.Init(client.Conn); err != nil {
		return fmt.Errorf("randr init: %w", err)
	}
	err := randr.SelectInputChecked(client.Conn, client.Root, randr.NotifyMaskScreenChange).Check()
	if err != nil {
		return fmt.Errorf("randr select input: %w", err)
	}
	return nil
}

// physicalHead is one connected RandR output's geometry, prior to being
// reconciled against the existing monitor set.
type physicalHead struct {
	output  randr.Output
	name    string
	primary bool
	rect    geom.Rect
}

func queryPhysicalHeads(client *x11.Client) ([]physicalHead, error) {
	resources, err := randr.GetScreenResources(client.Conn, client.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("get screen resources: %w", err)
	}
	primaryReply, err := randr.GetOutputPrimary(client.Conn, client.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("get output primary: %w", err)
	}

	var heads []physicalHead
	hasPrimary := false
	biggestArea := int64(-1)
	biggestIdx := -1

	for _, output := range resources.Outputs {
		oinfo, err := randr.GetOutputInfo(client.Conn, output, 0).Reply()
		if err != nil {
			continue
		}
		if oinfo.Connection != randr.ConnectionConnected || oinfo.Crtc == 0 {
			continue
		}
		cinfo, err := randr.GetCrtcInfo(client.Conn, oinfo.Crtc, 0).Reply()
		if err != nil {
			continue
		}

		head := physicalHead{
			output:  output,
			name:    string(oinfo.Name),
			primary: primaryReply != nil && output == primaryReply.Output,
			rect: geom.Rect{
				X: int32(cinfo.X), Y: int32(cinfo.Y),
				Width: uint32(cinfo.Width), Height: uint32(cinfo.Height),
			},
		}
		heads = append(heads, head)

		hasPrimary = hasPrimary || head.primary
		area := int64(head.rect.Width) * int64(head.rect.Height)
		if area > biggestArea {
			biggestArea = area
			biggestIdx = len(heads) - 1
		}
	}

	if !hasPrimary && biggestIdx >= 0 {
		heads[biggestIdx].primary = true
	}

	sort.Slice(heads, func(i, j int) bool { return heads[i].name < heads[j].name })
	return heads, nil
}

// MigrationPlan describes, for one removed monitor, where its windows
// should land.
type MigrationPlan struct {
	Removed *Monitor
	Target  *Monitor
}

// Refresh re-queries RandR and reconciles the monitor set: existing
// monitors keep their tree if their output is still present, new
// monitors get a fresh single-leaf tree, and removed monitors are
// reported so their windows can be migrated. It returns the migration
// plans for any monitor that disappeared.
func (s *Set) Refresh() ([]MigrationPlan, error) {
	heads, err := queryPhysicalHeads(s.client)
	if err != nil {
		return nil, err
	}

	byOutput := make(map[randr.Output]*Monitor, len(s.monitors))
	for _, m := range s.monitors {
		byOutput[m.Output] = m
	}

	var next []*Monitor
	seen := make(map[randr.Output]bool, len(heads))
	for _, h := range heads {
		seen[h.output] = true
		usable := h.rect.Inset(s.outerGaps)
		if existing, ok := byOutput[h.output]; ok {
			existing.Name = h.name
			existing.Primary = h.primary
			existing.Rect = h.rect
			existing.Tree.Resize(usable)
			next = append(next, existing)
		} else {
			next = append(next, &Monitor{
				Output:  h.output,
				Name:    h.name,
				Primary: h.primary,
				Rect:    h.rect,
				Tree:    frametree.New(usable),
			})
		}
	}

	var plans []MigrationPlan
	for _, m := range s.monitors {
		if !seen[m.Output] {
			plans = append(plans, MigrationPlan{Removed: m})
		}
	}

	s.monitors = next

	target := s.Primary()
	for i := range plans {
		plans[i].Target = target
	}
	return plans, nil
}

// MigrateWindows moves every window out of plan.Removed's tree into
// plan.Target's tree, preferring an empty leaf and otherwise taking over
// the target's first leaf. A window that loses its leaf this way is
// reported with a nil frame.
func MigrateWindows(plan MigrationPlan) map[xproto.Window]*frametree.Frame {
	result := make(map[xproto.Window]*frametree.Frame)
	if plan.Removed == nil || plan.Target == nil {
		return result
	}
	for _, leaf := range plan.Removed.Tree.PreOrderLeaves() {
		win := leaf.WindowID()
		if win == 0 {
			continue
		}
		assigned, displaced := plan.Target.Tree.Place(win, plan.Target.Tree.Root())
		result[win] = assigned
		if displaced != 0 {
			result[displaced] = nil
		}
	}
	return result
}
