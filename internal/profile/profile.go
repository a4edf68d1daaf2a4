// Package profile persists the timetable data the engine consumes: subjects,
// time layouts, class plans, and temp changes, as a single JSON document.
// The engine itself never touches files; this package is the external
// persistence collaborator feeding it.
package profile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ziyi127/TimeNest-sub002/internal/schedule"
)

// Profile is the on-disk document.
type Profile struct {
	Subjects    []schedule.Subject    `json:"subjects"`
	TimeLayouts []schedule.TimeLayout `json:"timeLayouts"`
	Plans       []schedule.ClassPlan  `json:"classPlans"`
	TempChanges []schedule.TempChange `json:"tempChanges"`
}

// Store holds a loaded profile and serves the engine's store interfaces.
// Reload swaps the whole profile; readers always see a consistent document.
type Store struct {
	mu      sync.RWMutex
	path    string
	profile *Profile
}

// Load reads the profile at path into a new Store.
func Load(path string) (*Store, error) {
	p, err := read(path)
	if err != nil {
		return nil, err
	}
	return &Store{path: path, profile: p}, nil
}

// LoadOrCreate reads the profile at path, writing a default profile first
// when the file does not exist.
func LoadOrCreate(path string) (*Store, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := write(path, Default()); err != nil {
			return nil, fmt.Errorf("failed to create default profile: %w", err)
		}
	}
	return Load(path)
}

// Path returns the profile file path.
func (s *Store) Path() string {
	return s.path
}

// Reload re-reads the profile from disk and swaps it in.
func (s *Store) Reload() error {
	p, err := read(s.path)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.profile = p
	s.mu.Unlock()
	return nil
}

// Plans implements engine.PlanStore.
func (s *Store) Plans() []*schedule.ClassPlan {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*schedule.ClassPlan, len(s.profile.Plans))
	for i := range s.profile.Plans {
		out[i] = &s.profile.Plans[i]
	}
	return out
}

// Layout implements engine.PlanStore.
func (s *Store) Layout(id string) *schedule.TimeLayout {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.profile.TimeLayouts {
		if s.profile.TimeLayouts[i].ID == id {
			return &s.profile.TimeLayouts[i]
		}
	}
	return nil
}

// Subject implements engine.PlanStore.
func (s *Store) Subject(id string) (schedule.Subject, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, subj := range s.profile.Subjects {
		if subj.ID == id {
			return subj, true
		}
	}
	return schedule.Subject{}, false
}

// TempChanges implements engine.TempChangeStore.
func (s *Store) TempChanges() []schedule.TempChange {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]schedule.TempChange, len(s.profile.TempChanges))
	copy(out, s.profile.TempChanges)
	return out
}

// MarkConsumed flips the used flag on the given temp change IDs and saves the
// profile. Wired to the engine's consumed callback.
func (s *Store) MarkConsumed(ids []string) error {
	s.mu.Lock()
	for _, id := range ids {
		for i := range s.profile.TempChanges {
			if s.profile.TempChanges[i].ID == id {
				s.profile.TempChanges[i].Used = true
			}
		}
	}
	p := s.profile
	s.mu.Unlock()

	return write(s.path, p)
}

// Save writes the current profile to disk.
func (s *Store) Save() error {
	s.mu.RLock()
	p := s.profile
	s.mu.RUnlock()
	return write(s.path, p)
}

// read parses the profile document at path.
func read(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}
	var p Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse profile: %w", err)
	}
	return &p, nil
}

// write atomically saves the profile using a temp file + rename.
func write(path string, p *Profile) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create profile directory: %w", err)
		}
	}

	tmpPath := fmt.Sprintf("%s.tmp.%d", path, os.Getpid())
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}

// Default builds a starter profile: one standard school-day layout and an
// every-weekday plan over three sample subjects.
func Default() *Profile {
	subjects := []schedule.Subject{
		{ID: uuid.NewString(), Name: "Mathematics", Initial: "M"},
		{ID: uuid.NewString(), Name: "English", Initial: "E"},
		{ID: uuid.NewString(), Name: "Science", Initial: "S"},
	}

	layout := schedule.TimeLayout{
		ID:   uuid.NewString(),
		Name: "Standard day",
		Items: []schedule.TimeLayoutItem{
			{Start: schedule.MustTimeOfDay("08:00"), End: schedule.MustTimeOfDay("08:45"), Kind: schedule.KindClass},
			{Start: schedule.MustTimeOfDay("08:45"), End: schedule.MustTimeOfDay("08:55"), Kind: schedule.KindBreak, BreakLabel: "Recess"},
			{Start: schedule.MustTimeOfDay("08:55"), End: schedule.MustTimeOfDay("09:40"), Kind: schedule.KindClass},
			{Start: schedule.MustTimeOfDay("09:40"), End: schedule.MustTimeOfDay("10:00"), Kind: schedule.KindBreak, BreakLabel: "Long break"},
			{Start: schedule.MustTimeOfDay("10:00"), End: schedule.MustTimeOfDay("10:45"), Kind: schedule.KindClass},
		},
	}

	var plans []schedule.ClassPlan
	for wd := time.Monday; wd <= time.Friday; wd++ {
		classes := make([]schedule.ClassInfo, layout.ClassCount())
		for i := range classes {
			classes[i] = schedule.ClassInfo{
				ID:        uuid.NewString(),
				SubjectID: subjects[i%len(subjects)].ID,
				Index:     i,
				Enabled:   true,
			}
		}
		plans = append(plans, schedule.ClassPlan{
			ID:           uuid.NewString(),
			Name:         wd.String(),
			TimeLayoutID: layout.ID,
			Classes:      classes,
			Rule:         schedule.PlanRule{Weekday: wd, WeekParity: schedule.ParityAny},
			Enabled:      true,
			LastEdited:   time.Now(),
		})
	}

	return &Profile{
		Subjects:    subjects,
		TimeLayouts: []schedule.TimeLayout{layout},
		Plans:       plans,
	}
}
