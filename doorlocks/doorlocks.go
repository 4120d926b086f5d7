package doorlocks

import (
	"errors"
	"fmt"
	"sort"

	"github.com/zyedidia/generic/mapset"
	"go.uber.org/zap"

	"metpatch/rom"
	"metpatch/room"
)

var (
	// ErrSlotBudgetExceeded is returned when a room's hatches need more slots
	// than a room has.
	ErrSlotBudgetExceeded = errors.New("room needs more than 6 hatch slots")

	// ErrUnsupported is returned for games without a door lock policy.
	ErrUnsupported = errors.New("door locks are not supported for this game")
)

// RoomKey identifies a room by area and room id.
type RoomKey struct {
	Area int
	Room int
}

func (k RoomKey) String() string {
	return fmt.Sprintf("%d-%02X", k.Area, k.Room)
}

// DiagnosticKind classifies a Diagnostic.
type DiagnosticKind uint8

// Diagnostic kinds.
const (
	ConfigConflict = DiagnosticKind(iota) // lock requested for a door that can't take one
	UnresolvedTile                        // no minimap tile shows the requested edges
	UnusedOverride                        // lock requested for a door the tables don't have
)

func (k DiagnosticKind) String() string {
	switch k {
	case ConfigConflict:
		return "config conflict"
	case UnresolvedTile:
		return "unresolved tile"
	case UnusedOverride:
		return "unused override"
	}
	return fmt.Sprintf("DiagnosticKind(%d)", uint8(k))
}

// Diagnostic is a recoverable problem found during the pass.
type Diagnostic struct {
	Kind    DiagnosticKind
	Area    int
	Door    int // ConfigConflict, UnusedOverride
	Minimap int // UnresolvedTile
	X, Y    int // UnresolvedTile
	Message string
}

func (d Diagnostic) String() string {
	switch d.Kind {
	case UnresolvedTile:
		return fmt.Sprintf("%s: minimap %d (%X, %X): %s", d.Kind, d.Minimap, d.X, d.Y, d.Message)
	default:
		return fmt.Sprintf("%s: door %d-%02X: %s", d.Kind, d.Area, d.Door, d.Message)
	}
}

// Result summarizes a door lock pass.
type Result struct {
	Diagnostics []Diagnostic
	// Remaps holds, per room, original slot -> new slot for every slot that
	// moved.
	Remaps map[RoomKey]map[int]int
	// Staged counts minimap cells that had edge changes staged.
	Staged int
	// Resolved counts staged cells written back.
	Resolved int
	// EventsFixed counts hatch lock events whose slot mask changed.
	EventsFixed int
}

// slotCounter hands out slots from both ends of a room's slot range.
type slotCounter struct {
	capped  int
	capless int
}

func newSlotCounter() slotCounter {
	return slotCounter{capped: 0, capless: SlotCount - 1}
}

func (c *slotCounter) take(capped bool) (int, error) {
	if c.capped > c.capless {
		return 0, ErrSlotBudgetExceeded
	}
	if capped {
		c.capped++
		return c.capped - 1, nil
	}
	c.capless--
	return c.capless + 1, nil
}

type roomState struct {
	key   RoomKey
	entry *room.Entry
	bg1   *room.Layer
	clip  *room.Layer

	orig slotCounter
	next slotCounter
}

type synchronizer struct {
	r     *rom.Rom
	pol   *Policy
	locks map[DoorKey]HatchLock
	log   *zap.Logger

	rooms   map[RoomKey]*roomState
	order   []*roomState
	seen    mapset.Set[DoorKey]
	pending *pendingCells
	res     *Result
}

// Apply sets the lock of every door in locks, keeps the slot numbering of the
// remaining hatches consistent, and updates the minimap icons. Fatal errors
// leave the image partially written; callers must discard it.
func Apply(r *rom.Rom, pol *Policy, locks map[DoorKey]HatchLock, log *zap.Logger) (*Result, error) {
	if pol == nil {
		return nil, fmt.Errorf("%s: %w", r.Game, ErrUnsupported)
	}
	if log == nil {
		log = zap.NewNop()
	}

	s := &synchronizer{
		r:       r,
		pol:     pol,
		locks:   locks,
		log:     log,
		rooms:   make(map[RoomKey]*roomState),
		seen:    mapset.New[DoorKey](),
		pending: newPendingCells(),
		res:     &Result{Remaps: make(map[RoomKey]map[int]int)},
	}

	for area := 0; area < pol.Areas; area++ {
		if err := doorTable(r, pol, area, s.door); err != nil {
			return nil, err
		}
	}
	s.reportUnused()

	for _, rs := range s.order {
		if err := rs.bg1.Flush(r); err != nil {
			return nil, fmt.Errorf("room %s: %w", rs.key, err)
		}
		if err := rs.clip.Flush(r); err != nil {
			return nil, fmt.Errorf("room %s: %w", rs.key, err)
		}
	}
	log.Info("hatch layers written", zap.Int("rooms", len(s.order)))

	s.res.EventsFixed = fixEvents(r, pol, s.res.Remaps, log)

	s.res.Staged = s.pending.len()
	if err := s.resolveMinimaps(); err != nil {
		return nil, err
	}
	log.Info("minimap door icons updated",
		zap.Int("staged", s.res.Staged),
		zap.Int("resolved", s.res.Resolved),
	)

	return s.res, nil
}

func (s *synchronizer) diagnose(d Diagnostic) {
	s.res.Diagnostics = append(s.res.Diagnostics, d)
}

func (s *synchronizer) loadRoom(key RoomKey) (*roomState, error) {
	if rs, ok := s.rooms[key]; ok {
		return rs, nil
	}
	e, err := room.LoadEntry(s.r, s.pol.RoomLayout, s.pol.RoomTablePtrs, key.Area, key.Room)
	if err != nil {
		return nil, err
	}
	rs := &roomState{key: key, entry: e, orig: newSlotCounter(), next: newSlotCounter()}
	if rs.bg1, err = e.LoadBG1(s.r); err != nil {
		return nil, err
	}
	if rs.clip, err = e.LoadClip(s.r); err != nil {
		return nil, err
	}
	s.rooms[key] = rs
	s.order = append(s.order, rs)
	return rs, nil
}

func (s *synchronizer) door(d *Door) error {
	key := DoorKey{d.Area, d.Index}
	lock, hasLock := s.locks[key]
	if hasLock {
		s.seen.Put(key)
	}
	if d.Deleted() {
		return nil
	}

	if s.pol.Excluded.Has(key) || !d.Lockable() {
		if hasLock {
			msg := fmt.Sprintf("cannot have its lock changed (kind $%02X)", d.Kind)
			s.log.Error("lock override ignored",
				zap.Stringer("door", d),
				zap.Stringer("lock", lock),
				zap.String("reason", msg),
			)
			s.diagnose(Diagnostic{Kind: ConfigConflict, Area: d.Area, Door: d.Index, Message: msg})
		}
		return nil
	}

	rkey := RoomKey{d.Area, int(d.Room)}
	rs, err := s.loadRoom(rkey)
	if err != nil {
		return fmt.Errorf("%s: %w", d, err)
	}

	hx, hy := d.Hatch()
	origClip, err := rs.clip.Get(hx, hy)
	if err != nil {
		return fmt.Errorf("%s hatch: %w", d, err)
	}

	origCapped := origClip != 0
	origSlot, err := rs.orig.take(origCapped)
	if err != nil {
		return fmt.Errorf("%s in room %s: %w", d, rkey, err)
	}

	var newSlot int
	switch {
	case hasLock && lock == Locked:
		newSlot = origSlot
		markDeleted(s.r, d)
	case (!hasLock && origCapped) || (hasLock && lock != Open):
		newSlot, err = rs.next.take(true)
	default:
		newSlot, err = rs.next.take(false)
	}
	if err != nil {
		return fmt.Errorf("%s in room %s: %w", d, rkey, err)
	}
	if newSlot != origSlot {
		m := s.res.Remaps[rkey]
		if m == nil {
			m = make(map[int]int)
			s.res.Remaps[rkey] = m
		}
		m[origSlot] = newSlot
	}
	s.log.Debug("hatch slot",
		zap.Stringer("door", d),
		zap.Stringer("room", rkey),
		zap.Bool("capped", origCapped),
		zap.Int("orig", origSlot),
		zap.Int("new", newSlot),
	)

	if hasLock {
		s.stage(d.FacesRight(), rs, hx, hy, lock)
	}

	effective := lock
	if !hasLock {
		var ok bool
		if effective, ok = LockForClip(origClip); !ok {
			// not a hatch graphic we know; the slot still counted
			return nil
		}
	}

	bg1 := effective.BG1()
	if d.FacesRight() {
		bg1++
	}
	clip := effective.Clip(newSlot)
	for y := 0; y < 4; y++ {
		if err = rs.bg1.Set(hx, hy+y, bg1); err != nil {
			return fmt.Errorf("%s BG1: %w", d, err)
		}
		if err = rs.clip.Set(hx, hy+y, clip); err != nil {
			return fmt.Errorf("%s clipdata: %w", d, err)
		}
		bg1 += 0x10
	}
	return nil
}

// stage records the minimap edge change for a door. The icon sits on the
// side of the cell the door is entered from. Cells are keyed by the room
// loaded for the door, which a Locked door's record no longer names.
func (s *synchronizer) stage(facesRight bool, rs *roomState, hx, hy int, lock HatchLock) {
	ox, oy := s.pol.cellOffset(hx, hy)
	x, y := rs.entry.MapX+ox, rs.entry.MapY+oy
	for _, id := range s.pol.minimapsFor(rs.key.Area) {
		c := s.pending.get(cellKey{Minimap: id, Area: rs.key.Area, X: x, Y: y, Room: rs.key.Room})
		if facesRight {
			c.left, c.hasLeft = lock, true
		} else {
			c.right, c.hasRight = lock, true
		}
	}
}

func (s *synchronizer) reportUnused() {
	var unused []DoorKey
	for key := range s.locks {
		if !s.seen.Has(key) {
			unused = append(unused, key)
		}
	}
	sort.Slice(unused, func(i, j int) bool {
		if unused[i].Area != unused[j].Area {
			return unused[i].Area < unused[j].Area
		}
		return unused[i].Door < unused[j].Door
	})
	for _, key := range unused {
		lock := s.locks[key]
		s.log.Warn("lock override matches no door",
			zap.Int("area", key.Area),
			zap.Int("door", key.Door),
			zap.Stringer("lock", lock),
		)
		s.diagnose(Diagnostic{Kind: UnusedOverride, Area: key.Area, Door: key.Door, Message: "no such door"})
	}
}
