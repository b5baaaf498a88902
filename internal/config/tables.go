package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// CategoryEntry maps one semantic tag to the class labels carrying it.
type CategoryEntry struct {
	Tag    string   `mapstructure:"tag"`
	Labels []string `mapstructure:"labels"`
}

// Tables is the static reference data consumed by the pipeline stages.
// Values are built once and passed to constructors; nothing mutates them afterwards.
type Tables struct {
	DefaultThreshold float64
	Thresholds       map[string]float64
	CategoryTable    []CategoryEntry
	DisplayNames     map[string]string
	Templates        map[string][4]string
}

// DefaultTables returns the built-in thresholds, categories, display names and templates.
func DefaultTables() Tables {
	return Tables{
		DefaultThreshold: 0.25,
		Thresholds: map[string]float64{
			// small objects the detector tends to miss
			"cup":        0.10,
			"bottle":     0.10,
			"wine glass": 0.10,
			"cell phone": 0.10,
			"mouse":      0.10,
			"remote":     0.10,
			// ghost detections
			"person": 0.30,
		},
		CategoryTable: []CategoryEntry{
			{Tag: "liquid", Labels: []string{"cup", "bottle", "wine glass", "bowl"}},
			{Tag: "electronics", Labels: []string{"laptop", "mouse", "keyboard", "cell phone", "tv", "remote"}},
			{Tag: "flammable", Labels: []string{"book", "paper", "cardboard box"}},
			{Tag: "sharp", Labels: []string{"knife", "scissors", "fork"}},
			{Tag: "furniture", Labels: []string{"dining table", "chair", "couch", "bed"}},
		},
		DisplayNames: map[string]string{
			"cup":    "liquid container",
			"bottle": "liquid container",
			"glass":  "liquid container",
		},
		Templates: map[string][4]string{
			"spill_risk": {
				"A {obj_a} is placed close to a {obj_b}.",
				"Liquids near electronic devices can be risky.",
				"If the liquid spills, it may damage the device.",
				"Moving the {obj_a} away could help reduce this risk.",
			},
			"fire_risk": {
				"A {obj_a} is currently near a {obj_b}.",
				"Heat sources placed near flammable objects can be dangerous.",
				"There is a potential risk of fire if they are left too close.",
				"It would be safer to separate the {obj_a} from the {obj_b}.",
			},
			"damage_risk": {
				"A {obj_a} is located near a {obj_b}.",
				"Liquids can easily damage paper-based items.",
				"If a spill occurs, the {obj_b} could be ruined.",
				"Please consider keeping the area around the {obj_b} clear.",
			},
			"sharp_risk": {
				"A {obj_a} was detected near the edge or near a {obj_b}.",
				"Sharp objects can cause injury if not stored safely.",
				"An accidental bump could cause the {obj_a} to fall or hurt someone.",
				"Storing the {obj_a} in a safer spot is recommended.",
			},
			"default": {
				"A {obj_a} is near a {obj_b}.",
				"Objects placed close together can sometimes interact unexpectedly.",
				"It is good practice to correct valid spatial organization.",
				"Please check if this arrangement is intended.",
			},
		},
	}
}

// Threshold returns the confidence threshold for a class, or the default for unknown classes.
func (t Tables) Threshold(label string) float64 {
	if v, ok := t.Thresholds[label]; ok {
		return v
	}
	return t.DefaultThreshold
}

// Categories returns the tags of a class in table order. Unknown labels have none.
func (t Tables) Categories(label string) []string {
	var tags []string
	for _, entry := range t.CategoryTable {
		for _, l := range entry.Labels {
			if l == label {
				tags = append(tags, entry.Tag)
				break
			}
		}
	}
	return tags
}

// DisplayName returns the presentation name for a class.
func (t Tables) DisplayName(label string) string {
	if v, ok := t.DisplayNames[label]; ok {
		return v
	}
	return label
}

// Template returns the four template lines for a risk type.
func (t Tables) Template(riskType string) ([4]string, bool) {
	lines, ok := t.Templates[riskType]
	return lines, ok
}

type tablesFile struct {
	DefaultThreshold *float64            `mapstructure:"default_threshold"`
	Thresholds       map[string]float64  `mapstructure:"thresholds"`
	Categories       []CategoryEntry     `mapstructure:"categories"`
	DisplayNames     map[string]string   `mapstructure:"display_names"`
	Templates        map[string][]string `mapstructure:"templates"`
}

// LoadTables reads a YAML/JSON/TOML overrides file on top of DefaultTables.
// Threshold, display name and template entries are merged per key; a categories
// list replaces the built-in one entirely so its order stays explicit.
func LoadTables(path string) (Tables, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return Tables{}, fmt.Errorf("failed to read tables file %s: %w", path, err)
	}

	var file tablesFile
	if err := v.Unmarshal(&file); err != nil {
		return Tables{}, fmt.Errorf("failed to decode tables file %s: %w", path, err)
	}

	tables := DefaultTables()
	if file.DefaultThreshold != nil {
		tables.DefaultThreshold = *file.DefaultThreshold
	}
	for label, threshold := range file.Thresholds {
		tables.Thresholds[label] = threshold
	}
	if len(file.Categories) > 0 {
		tables.CategoryTable = file.Categories
	}
	for label, name := range file.DisplayNames {
		tables.DisplayNames[label] = name
	}
	for riskType, lines := range file.Templates {
		if len(lines) != 4 {
			return Tables{}, fmt.Errorf("template %q must have 4 lines, got %d", riskType, len(lines))
		}
		tables.Templates[riskType] = [4]string{lines[0], lines[1], lines[2], lines[3]}
	}

	return tables, nil
}
