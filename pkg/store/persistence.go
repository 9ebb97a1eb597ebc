package store

import (
	"encoding/gob"
	"fmt"
	"os"

	"github.com/kass/pitstop/pkg/models"
)

// SavedPlan is the serializable form of the store
type SavedPlan struct {
	Routes   []models.RouteResult
	Selected int
}

// SaveToFile writes the route collection and highlight to a binary file
func (s *RouteStore) SaveToFile(filename string) error {
	s.mu.RLock()
	data := SavedPlan{
		Routes:   cloneRoutes(s.routes),
		Selected: s.selected,
	}
	s.mu.RUnlock()

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	encoder := gob.NewEncoder(file)
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode data: %w", err)
	}

	return nil
}

// LoadFromFile replaces the route collection and highlight with a saved
// plan. Loading and error state are reset.
func (s *RouteStore) LoadFromFile(filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	var data SavedPlan
	decoder := gob.NewDecoder(file)
	if err := decoder.Decode(&data); err != nil {
		return fmt.Errorf("failed to decode data: %w", err)
	}

	if data.Selected < NoSelection || data.Selected >= len(data.Routes) {
		data.Selected = NoSelection
	}

	s.update(func() bool {
		s.routes = data.Routes
		s.selected = data.Selected
		s.loading = false
		s.err = nil
		return true
	})
	return nil
}
