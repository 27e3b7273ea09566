package favorites

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/rebeliceyang/lazycms/internal/filter"
	"github.com/rebeliceyang/lazycms/internal/models"
)

// Manager manages saved list requests
type Manager struct {
	path     string
	requests []models.SavedRequest
}

// NewManager creates a manager backed by the yaml file at path
func NewManager(path string) (*Manager, error) {
	m := &Manager{
		path:     path,
		requests: []models.SavedRequest{},
	}

	if _, err := os.Stat(path); err == nil {
		if err := m.Load(); err != nil {
			return nil, fmt.Errorf("failed to load saved requests: %w", err)
		}
	}

	return m, nil
}

// Load loads saved requests from the YAML file
func (m *Manager) Load() error {
	data, err := os.ReadFile(m.path)
	if err != nil {
		return fmt.Errorf("failed to read saved requests file: %w", err)
	}

	if err := yaml.Unmarshal(data, &m.requests); err != nil {
		return fmt.Errorf("failed to parse saved requests: %w", err)
	}

	return nil
}

// Save saves requests to the YAML file
func (m *Manager) Save() error {
	data, err := yaml.Marshal(m.requests)
	if err != nil {
		return fmt.Errorf("failed to marshal saved requests: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(m.path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(m.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write saved requests file: %w", err)
	}

	return nil
}

// Add saves a new request. The request must decode as a list request envelope.
func (m *Manager) Add(name, description, entity, request string, tags []string) (*models.SavedRequest, error) {
	name = strings.TrimSpace(name)
	entity = strings.TrimSpace(entity)
	request = strings.TrimSpace(request)

	if name == "" {
		return nil, fmt.Errorf("saved request name cannot be empty")
	}
	if entity == "" {
		return nil, fmt.Errorf("saved request entity cannot be empty")
	}
	if _, err := filter.ParseEnvelope([]byte(request)); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}

	for _, r := range m.requests {
		if strings.EqualFold(r.Name, name) {
			return nil, fmt.Errorf("a saved request with the name '%s' already exists (names are case-insensitive)", name)
		}
	}

	now := time.Now()
	saved := models.SavedRequest{
		ID:          uuid.New().String(),
		Name:        name,
		Description: strings.TrimSpace(description),
		Entity:      entity,
		Request:     request,
		Tags:        tags,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	m.requests = append(m.requests, saved)

	if err := m.Save(); err != nil {
		return nil, fmt.Errorf("failed to save request: %w", err)
	}

	return &saved, nil
}

// Delete removes a saved request by ID or name
func (m *Manager) Delete(ref string) error {
	i, err := m.index(ref)
	if err != nil {
		return err
	}
	m.requests = append(m.requests[:i], m.requests[i+1:]...)
	if err := m.Save(); err != nil {
		return fmt.Errorf("failed to save requests after deletion: %w", err)
	}
	return nil
}

// Get returns a saved request by ID or name
func (m *Manager) Get(ref string) (*models.SavedRequest, error) {
	i, err := m.index(ref)
	if err != nil {
		return nil, err
	}
	r := m.requests[i]
	return &r, nil
}

// GetAll returns all saved requests sorted by name
func (m *Manager) GetAll() []models.SavedRequest {
	out := make([]models.SavedRequest, len(m.requests))
	copy(out, m.requests)
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out
}

// Search searches saved requests by name, description, entity or tags
func (m *Manager) Search(query string) []models.SavedRequest {
	if query == "" {
		return m.GetAll()
	}

	query = strings.ToLower(query)
	var results []models.SavedRequest
	for _, r := range m.GetAll() {
		if strings.Contains(strings.ToLower(r.Name), query) ||
			strings.Contains(strings.ToLower(r.Description), query) ||
			strings.EqualFold(r.Entity, query) {
			results = append(results, r)
			continue
		}
		for _, tag := range r.Tags {
			if strings.Contains(strings.ToLower(tag), query) {
				results = append(results, r)
				break
			}
		}
	}

	return results
}

// RecordUsage updates usage statistics for a saved request
func (m *Manager) RecordUsage(ref string) error {
	i, err := m.index(ref)
	if err != nil {
		return err
	}
	m.requests[i].UsageCount++
	m.requests[i].LastUsed = time.Now()
	if err := m.Save(); err != nil {
		return fmt.Errorf("failed to save usage statistics: %w", err)
	}
	return nil
}

func (m *Manager) index(ref string) (int, error) {
	for i, r := range m.requests {
		if r.ID == ref {
			return i, nil
		}
	}
	for i, r := range m.requests {
		if strings.EqualFold(r.Name, ref) {
			return i, nil
		}
	}
	return -1, fmt.Errorf("saved request '%s' was not found", ref)
}
