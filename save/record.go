package save

import (
	"errors"
	"fmt"
	"log"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

const (
	recordsObject = "records"
	bestProperty  = "best"
)

var ErrCorruptRecord = errors.New("save: corrupt record")

// Record is one run's result.
type Record struct {
	Distance float64 `yaml:"distance"`
	Pills    int     `yaml:"pills"`
}

// Beats reports whether r is a better run than o. Distance decides; pills
// break ties.
func (r Record) Beats(o Record) bool {
	if r.Distance != o.Distance {
		return r.Distance > o.Distance
	}
	return r.Pills > o.Pills
}

// Store keeps the best run. A Store with a nil manager only remembers the
// best run in memory.
type Store struct {
	manager *gdata.Manager
	best    Record
}

// Open opens the save storage for appName. When the platform storage is not
// available the store still works in memory and the error is returned
// alongside it.
func Open(appName string) (*Store, error) {
	m, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		return NewStore(nil), fmt.Errorf("save: open %s: %w", appName, err)
	}
	return NewStore(m), nil
}

func NewStore(manager *gdata.Manager) *Store {
	s := &Store{manager: manager}
	if err := s.Load(); err != nil {
		log.Printf("Save: %v (starting without a record)", err)
	}
	return s
}

// Load reads the stored best run. A missing record is not an error.
func (s *Store) Load() error {
	s.best = Record{}
	if s.manager == nil || !s.manager.ObjectPropExists(recordsObject, bestProperty) {
		return nil
	}
	data, err := s.manager.LoadObjectProp(recordsObject, bestProperty)
	if err != nil {
		return fmt.Errorf("save: load best: %w", err)
	}
	var r Record
	if err := yaml.Unmarshal(data, &r); err != nil {
		return fmt.Errorf("%w: %v", ErrCorruptRecord, err)
	}
	s.best = r
	return nil
}

func (s *Store) Best() Record {
	return s.best
}

// Submit records r if it beats the best run and reports whether it did.
func (s *Store) Submit(r Record) (bool, error) {
	if !r.Beats(s.best) {
		return false, nil
	}
	s.best = r
	if s.manager == nil {
		return true, nil
	}
	data, err := yaml.Marshal(r)
	if err != nil {
		return true, fmt.Errorf("save: marshal best: %w", err)
	}
	if err := s.manager.SaveObjectProp(recordsObject, bestProperty, data); err != nil {
		return true, fmt.Errorf("save: store best: %w", err)
	}
	return true, nil
}

// Reset forgets the best run, in storage too.
func (s *Store) Reset() error {
	s.best = Record{}
	if s.manager == nil || !s.manager.ObjectPropExists(recordsObject, bestProperty) {
		return nil
	}
	if err := s.manager.DeleteObjectProp(recordsObject, bestProperty); err != nil {
		return fmt.Errorf("save: reset best: %w", err)
	}
	return nil
}
