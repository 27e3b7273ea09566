package filter

import (
	"fmt"
	"sort"

	"github.com/rebeliceyang/lazycms/internal/models"
)

// EntityRegistry maps entity-name tokens to backend handles
type EntityRegistry struct {
	entities map[string]*models.Entity
}

// NewEntityRegistry builds a registry and checks that names are unique and
// that every association targets a registered entity
func NewEntityRegistry(entities []models.Entity) (*EntityRegistry, error) {
	r := &EntityRegistry{entities: make(map[string]*models.Entity, len(entities))}
	for i := range entities {
		e := entities[i]
		if e.Name == "" {
			return nil, fmt.Errorf("entity %d: name is required", i)
		}
		if e.Table == "" {
			return nil, fmt.Errorf("entity %s: table is required", e.Name)
		}
		if _, dup := r.entities[e.Name]; dup {
			return nil, fmt.Errorf("entity %s registered twice", e.Name)
		}
		r.entities[e.Name] = &e
	}

	for _, e := range r.entities {
		for _, a := range e.Associations {
			if _, ok := r.entities[a.Target]; !ok {
				return nil, fmt.Errorf("entity %s: association %q targets unknown entity %s", e.Name, a.As, a.Target)
			}
			switch a.Kind {
			case models.BelongsTo, models.HasMany, models.HasOne:
			default:
				return nil, fmt.Errorf("entity %s: association %q has unsupported kind %q", e.Name, a.As, a.Kind)
			}
			if a.ForeignKey == "" {
				return nil, fmt.Errorf("entity %s: association %q needs a foreign key", e.Name, a.As)
			}
		}
	}

	return r, nil
}

// Lookup resolves an entity-name token
func (r *EntityRegistry) Lookup(name string) (*models.Entity, bool) {
	if r == nil {
		return nil, false
	}
	e, ok := r.entities[name]
	return e, ok
}

// Names returns all registered entity names, sorted
func (r *EntityRegistry) Names() []string {
	names := make([]string, 0, len(r.entities))
	for name := range r.entities {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
