package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"metpatch/credits"
	"metpatch/doorlocks"
)

// Patch is the per-seed data applied to an image.
type Patch struct {
	DoorLocks []DoorLockEntry   `yaml:"door_locks"`
	Credits   []CreditsEntry    `yaml:"credits"`
	Music     map[string]string `yaml:"music"` // original track -> replacement
}

type DoorLockEntry struct {
	Area int                 `yaml:"area"`
	Door int                 `yaml:"door"`
	Lock doorlocks.HatchLock `yaml:"lock"`
}

type CreditsEntry struct {
	LineType   string `yaml:"line_type"`
	BlankLines uint8  `yaml:"blank_lines"`
	Text       string `yaml:"text"`
	Centered   *bool  `yaml:"centered"` // default true
}

// LoadPatch reads patch data. Lock names are checked while parsing.
func LoadPatch(path string) (*Patch, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read patch %s: %w", path, err)
	}
	var p Patch
	if err := yaml.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("parse patch %s: %w", path, err)
	}
	return &p, nil
}

// Locks returns the door lock overrides keyed by door. A door listed twice
// is an error.
func (p *Patch) Locks() (map[doorlocks.DoorKey]doorlocks.HatchLock, error) {
	locks := make(map[doorlocks.DoorKey]doorlocks.HatchLock, len(p.DoorLocks))
	var errs []error
	for _, e := range p.DoorLocks {
		key := doorlocks.DoorKey{Area: e.Area, Door: e.Door}
		if prev, ok := locks[key]; ok {
			errs = append(errs, fmt.Errorf("door %d-%02X locked twice (%s, %s)", e.Area, e.Door, prev, e.Lock))
			continue
		}
		locks[key] = e.Lock
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return locks, nil
}

// CreditLines converts the custom credits entries.
func (p *Patch) CreditLines() ([]credits.Line, error) {
	lines := make([]credits.Line, 0, len(p.Credits))
	for i, e := range p.Credits {
		t, err := credits.ParseLineType(e.LineType)
		if err != nil {
			return nil, fmt.Errorf("credits line %d: %w", i, err)
		}
		centered := true
		if e.Centered != nil {
			centered = *e.Centered
		}
		lines = append(lines, credits.Line{
			Type:       t,
			BlankLines: e.BlankLines,
			Text:       e.Text,
			Centered:   centered,
		})
	}
	return lines, nil
}
