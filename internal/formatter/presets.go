package formatter

import (
	"fmt"
	"sort"
)

// Preset represents a template preset with name, template string, and description.
type Preset struct {
	Name        string
	Template    string
	Description string
}

// PresetRegistry manages template presets.
type PresetRegistry interface {
	// Get returns a preset by name.
	Get(name string) (*Preset, error)

	// List returns all available presets.
	List() []Preset

	// Register adds a new preset.
	Register(preset Preset) error
}

type presetRegistry struct {
	presets map[string]Preset
	order   []string
}

// NewPresetRegistry creates a new preset registry with all default presets.
func NewPresetRegistry() PresetRegistry {
	registry := &presetRegistry{presets: make(map[string]Preset)}
	for _, preset := range defaultPresets {
		registry.presets[preset.Name] = preset
		registry.order = append(registry.order, preset.Name)
	}
	return registry
}

var defaultPresets = []Preset{
	{
		Name:        "compact",
		Template:    "[{{active-count}}] {{latest-message}}",
		Description: "Active count and the newest message",
	},
	{
		Name:        "detailed",
		Template:    "{{active-count}} active, {{error-count}} error, {{loading-count}} loading | Latest: {{latest-message}}",
		Description: "Counts per kind and the newest message",
	},
	{
		Name:        "json",
		Template:    `{"active":{{active-count}},"errors":{{error-count}},"loading":{{loading-count}},"latest":{{latest-message-json}}}`,
		Description: "JSON for programmatic consumption",
	},
	{
		Name:        "count-only",
		Template:    "{{active-count}}",
		Description: "Only the active count",
	},
	{
		Name:        "severity",
		Template:    "Severity: {{highest-severity}} | Active: {{active-count}}",
		Description: "Most severe kind on screen and the active count",
	},
	{
		Name:        "positions",
		Template:    "{{position-list}} ({{active-count}})",
		Description: "Occupied anchors and the active count",
	},
}

func (pr *presetRegistry) Get(name string) (*Preset, error) {
	preset, ok := pr.presets[name]
	if !ok {
		names := make([]string, 0, len(pr.presets))
		for n := range pr.presets {
			names = append(names, n)
		}
		sort.Strings(names)
		return nil, fmt.Errorf("preset not found: %s (available: %v)", name, names)
	}
	return &preset, nil
}

// List returns all available presets in registration order.
func (pr *presetRegistry) List() []Preset {
	result := make([]Preset, 0, len(pr.order))
	for _, name := range pr.order {
		result = append(result, pr.presets[name])
	}
	return result
}

// Register adds a new preset or overwrites an existing one.
func (pr *presetRegistry) Register(preset Preset) error {
	if preset.Name == "" {
		return fmt.Errorf("preset name cannot be empty")
	}
	if preset.Template == "" {
		return fmt.Errorf("preset template cannot be empty")
	}
	if _, exists := pr.presets[preset.Name]; !exists {
		pr.order = append(pr.order, preset.Name)
	}
	pr.presets[preset.Name] = preset
	return nil
}
