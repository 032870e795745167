// Package charmodel holds the precomputed ADC characterization table and
// the lookup that maps a canonical request onto it.
package charmodel

import (
	"fmt"
	"io"
	"math"

	"gopkg.in/yaml.v3"

	"github.com/haskel/adcfox/internal/request"
)

const currentVersion = 1

// Model answers energy and area lookups for canonical requests.
type Model interface {
	// EnergyPerOp returns joules per conversion, false if no entry matches.
	EnergyPerOp(r request.Canonical) (float64, bool)
	// Area returns total area in um^2, false if no entry matches.
	Area(r request.Canonical) (float64, bool)
	// Len returns the number of entries.
	Len() int
}

// Entry is one characterized design point.
type Entry struct {
	Resolution    int     `yaml:"resolution" json:"resolution"`
	Technology    float64 `yaml:"technology" json:"technology"`
	ThroughputMin float64 `yaml:"throughput_min" json:"throughput_min"`
	ThroughputMax float64 `yaml:"throughput_max" json:"throughput_max"`
	EnergyPerOp   float64 `yaml:"energy_per_op" json:"energy_per_op"`
	Area          float64 `yaml:"area" json:"area"`
}

func (e Entry) validate() error {
	switch {
	case e.Resolution < 0:
		return fmt.Errorf("resolution must be non-negative, got %d", e.Resolution)
	case e.Technology <= 0:
		return fmt.Errorf("technology must be positive, got %g", e.Technology)
	case e.ThroughputMin < 0 || e.ThroughputMax < e.ThroughputMin:
		return fmt.Errorf("invalid throughput range [%g, %g]", e.ThroughputMin, e.ThroughputMax)
	case e.EnergyPerOp < 0 || e.Area < 0:
		return fmt.Errorf("energy_per_op and area must be non-negative")
	}
	return nil
}

type file struct {
	Version int     `yaml:"version"`
	Entries []Entry `yaml:"entries"`
}

// Table is an immutable characterization table. It is safe for concurrent use.
type Table struct {
	entries []Entry
}

// NewTable copies entries into a Table.
func NewTable(entries []Entry) *Table {
	t := &Table{entries: make([]Entry, len(entries))}
	copy(t.entries, entries)
	return t
}

// Decode reads a YAML characterization file.
func Decode(r io.Reader) (*Table, error) {
	var f file
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		if err == io.EOF {
			return NewTable(nil), nil
		}
		return nil, fmt.Errorf("failed to decode model: %w", err)
	}

	if f.Version > currentVersion {
		return nil, fmt.Errorf("model version %d is newer than supported version %d", f.Version, currentVersion)
	}

	for i, e := range f.Entries {
		if err := e.validate(); err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
	}

	return NewTable(f.Entries), nil
}

// Len returns the number of entries.
func (t *Table) Len() int {
	return len(t.entries)
}

// Entries returns a copy of the table entries.
func (t *Table) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// EnergyPerOp scales the closest entry's energy linearly with technology.
func (t *Table) EnergyPerOp(r request.Canonical) (float64, bool) {
	e, ok := t.match(r)
	if !ok {
		return 0, false
	}
	return e.EnergyPerOp * (r.Technology() / e.Technology), true
}

// Area scales the closest entry's area with the square of technology and
// multiplies by the converter count.
func (t *Table) Area(r request.Canonical) (float64, bool) {
	e, ok := t.match(r)
	if !ok {
		return 0, false
	}
	s := r.Technology() / e.Technology
	return e.Area * s * s * float64(r.Components()), true
}

// match picks, among entries of the requested resolution whose throughput
// range holds the per-converter rate, the one nearest in technology on a
// log scale. Ties keep the earlier entry.
func (t *Table) match(r request.Canonical) (Entry, bool) {
	bits := int(math.Round(r.Resolution()))
	rate := r.PerComponentThroughput()

	var (
		best     Entry
		bestDist = math.Inf(1)
		found    bool
	)
	for _, e := range t.entries {
		if e.Resolution != bits || rate < e.ThroughputMin || rate > e.ThroughputMax {
			continue
		}
		d := math.Abs(math.Log(r.Technology() / e.Technology))
		if d < bestDist {
			best, bestDist, found = e, d, true
		}
	}
	return best, found
}
