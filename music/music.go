package music

import (
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"metpatch/rom"
)

// entrySize is the size of one sound data entry.
const entrySize = 8

var ErrUnknownTrack = errors.New("unknown track")

// Library maps track names to sound table indices.
type Library map[string]int

// Index looks up a track by name.
func (l Library) Index(name string) (int, error) {
	i, ok := l[name]
	if !ok {
		return 0, fmt.Errorf("%q: %w", name, ErrUnknownTrack)
	}
	return i, nil
}

// Names returns the library's track names in table order.
func (l Library) Names() []string {
	names := make([]string, 0, len(l))
	for n := range l {
		names = append(names, n)
	}
	sort.Slice(names, func(i, j int) bool { return l[names[i]] < l[names[j]] })
	return names
}

// For returns the track library of a game.
func For(g rom.Game) (Library, bool) {
	switch g {
	case rom.GameFusion:
		return Fusion, true
	case rom.GameZeroMission:
		return ZeroMission, true
	}
	return nil, false
}

// Validate checks every name of a replacement map without touching the image.
func (l Library) Validate(replace map[string]string) error {
	var errs []error
	for orig, repl := range replace {
		if _, err := l.Index(orig); err != nil {
			errs = append(errs, err)
		}
		if _, err := l.Index(repl); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Replace makes each original track play the replacement's sound data. All
// replacement entries are read before any is written, so tracks can be
// swapped with each other.
func Replace(r *rom.Rom, table int, lib Library, replace map[string]string, log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}
	if err := lib.Validate(replace); err != nil {
		return err
	}

	origs := make([]string, 0, len(replace))
	for o := range replace {
		origs = append(origs, o)
	}
	sort.Strings(origs)

	entries := make([][]byte, len(origs))
	for i, o := range origs {
		addr := table + lib[replace[o]]*entrySize
		if addr+entrySize > r.Size() {
			return fmt.Errorf("sound entry %q at $%X: %w", replace[o], addr, rom.ErrBadPointer)
		}
		entries[i] = r.ReadBytes(addr, entrySize)
	}
	for i, o := range origs {
		r.WriteBytes(table+lib[o]*entrySize, entries[i])
		log.Debug("track replaced", zap.String("track", o), zap.String("with", replace[o]))
	}
	log.Info("music replaced", zap.Int("tracks", len(origs)))
	return nil
}
