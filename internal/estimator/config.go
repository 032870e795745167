package estimator

import "strings"

// Accuracy is a confidence score on the host's accuracy scale. Zero means unsupported.
type Accuracy float64

const (
	DefaultEnergyAccuracy Accuracy = 75
	DefaultAreaAccuracy   Accuracy = 75
)

// Recognized classes and actions. These are fixed and not configurable.
var (
	classNames  = []string{"adc", "pim_adc", "sar_adc"}
	actionNames = []string{"convert", "drive", "read", "sample"}
)

// ClassNames returns the recognized component classes.
func ClassNames() []string { return append([]string(nil), classNames...) }

// ActionNames returns the recognized actions.
func ActionNames() []string { return append([]string(nil), actionNames...) }

// Config is the fixed dispatch configuration. It is built once and never
// modified; use NewConfig to get one.
type Config struct {
	energyAccuracy Accuracy
	areaAccuracy   Accuracy
	classes        map[string]struct{}
	actions        map[string]struct{}
}

// NewConfig builds a Config with the given accuracies. Non-positive
// accuracies fall back to the defaults.
func NewConfig(energyAccuracy, areaAccuracy Accuracy) Config {
	return newConfig(energyAccuracy, areaAccuracy, classNames, actionNames)
}

func newConfig(energyAccuracy, areaAccuracy Accuracy, classes, actions []string) Config {
	if energyAccuracy <= 0 {
		energyAccuracy = DefaultEnergyAccuracy
	}
	if areaAccuracy <= 0 {
		areaAccuracy = DefaultAreaAccuracy
	}
	return Config{
		energyAccuracy: energyAccuracy,
		areaAccuracy:   areaAccuracy,
		classes:        nameSet(classes),
		actions:        nameSet(actions),
	}
}

// DefaultConfig returns the stock dispatch configuration.
func DefaultConfig() Config {
	return NewConfig(DefaultEnergyAccuracy, DefaultAreaAccuracy)
}

// EnergyAccuracy returns the accuracy reported for supported energy queries.
func (c Config) EnergyAccuracy() Accuracy { return c.energyAccuracy }

// AreaAccuracy returns the accuracy reported for supported area queries.
func (c Config) AreaAccuracy() Accuracy { return c.areaAccuracy }

// RecognizesClass reports whether name is a known component class, ignoring case.
func (c Config) RecognizesClass(name string) bool {
	_, ok := c.classes[strings.ToLower(name)]
	return ok
}

// RecognizesAction reports whether name is a known action, ignoring case.
func (c Config) RecognizesAction(name string) bool {
	_, ok := c.actions[strings.ToLower(name)]
	return ok
}

func nameSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[strings.ToLower(n)] = struct{}{}
	}
	return set
}
