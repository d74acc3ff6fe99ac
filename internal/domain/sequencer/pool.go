package sequencer

import (
	"fmt"
	"io"

	"github.com/okian/trackmeet/internal/domain/model"
	"gopkg.in/yaml.v3"
)

// DefaultEventPool returns the built-in event catalog.
func DefaultEventPool() model.EventPool {
	return model.EventPool{
		{Name: "shortSprints", Events: []model.Event{
			{Name: "50m", Enabled: true},
			{Name: "60m", Enabled: false},
			{Name: "100m", Enabled: true},
			{Name: "150m", Enabled: false},
			{Name: "200m", Enabled: true},
			{Name: "300m", Enabled: true},
		}},
		{Name: "middleDistances", Events: []model.Event{
			{Name: "400m", Enabled: true},
			{Name: "500m", Enabled: true},
			{Name: "600m", Enabled: true},
			{Name: "700m", Enabled: false},
			{Name: "800m", Enabled: true},
			{Name: "1km", Enabled: false},
		}},
		{Name: "longDistances", Events: []model.Event{
			{Name: "1.2km", Enabled: true},
			{Name: "1 Mile", Enabled: true},
			{Name: "2km", Enabled: true},
			{Name: "2.4km", Enabled: true},
			{Name: "2.8km", Enabled: false},
			{Name: "2 Mile", Enabled: false},
		}},
		{Name: "relays", Events: []model.Event{
			{Name: "4x100", Enabled: true},
			{Name: "4x200", Enabled: true},
			{Name: "4x400", Enabled: true},
			{Name: "4x800", Enabled: false},
			{Name: "100-100-200-400", Enabled: true},
			{Name: "200-200-400-800", Enabled: true},
			{Name: "1200-400-800-1600", Enabled: false},
		}},
		{Name: "technicalEvents", Events: []model.Event{
			{Name: "60mH", Enabled: false},
			{Name: "110mH", Enabled: false},
			{Name: "400mH", Enabled: false},
			{Name: "Long Jump", Enabled: false},
			{Name: "Triple Jump", Enabled: false},
			{Name: "High Jump", Enabled: false},
			{Name: "Pole Vault", Enabled: false},
			{Name: "Shot Put", Enabled: false},
			{Name: "Discus", Enabled: false},
		}},
	}
}

// LoadPool decodes a YAML event pool:
//
//	shortSprints:
//	  - {name: 100m, enabled: true}
//	relays:
//	  - {name: 4x100, enabled: true}
func LoadPool(r io.Reader) (model.EventPool, error) {
	var pool model.EventPool
	if err := yaml.NewDecoder(r).Decode(&pool); err != nil {
		return nil, fmt.Errorf("decode event pool: %w", err)
	}
	if len(pool) == 0 {
		return nil, fmt.Errorf("decode event pool: no categories")
	}
	for _, c := range pool {
		for _, e := range c.Events {
			if e.Name == "" {
				return nil, fmt.Errorf("decode event pool: category %q has an unnamed event", c.Name)
			}
		}
	}
	return pool, nil
}
