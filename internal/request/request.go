// Package request builds the canonical ADC request from host attributes.
package request

import (
	"fmt"
	"math"

	"github.com/haskel/adcfox/internal/attrs"
	"github.com/haskel/adcfox/internal/errors"
)

// Attribute fields making up a canonical request.
var (
	ResolutionField = attrs.Field{Name: "resolution", Kind: attrs.Numeric, Required: true}
	TechnologyField = attrs.Field{Name: "technology", Kind: attrs.Numeric, Required: true}
	ThroughputField = attrs.Field{Name: "throughput", Kind: attrs.Numeric, Required: true}
	ComponentsField = attrs.Field{Name: "n_adc", Kind: attrs.Numeric, Required: true, Aliases: []string{"n_components"}}
)

// Canonical is a normalized ADC request. The zero value is not valid; use Build.
type Canonical struct {
	bits       float64
	tech       float64
	throughput float64
	components int
}

// Resolution returns the converter resolution in bits.
func (c Canonical) Resolution() float64 { return c.bits }

// Technology returns the process node in nanometres.
func (c Canonical) Technology() float64 { return c.tech }

// Throughput returns total conversions per second across all converters.
func (c Canonical) Throughput() float64 { return c.throughput }

// Components returns the number of converters.
func (c Canonical) Components() int { return c.components }

// PerComponentThroughput returns the conversion rate each converter sustains.
func (c Canonical) PerComponentThroughput() float64 {
	return c.throughput / float64(c.components)
}

func (c Canonical) String() string {
	return fmt.Sprintf("{bits=%g tech=%gnm throughput=%g n_adc=%d}",
		c.bits, c.tech, c.throughput, c.components)
}

// Build normalizes the request fields out of a.
func Build(a attrs.Attributes) (Canonical, error) {
	bits, err := attrs.Float(a, ResolutionField)
	if err != nil {
		return Canonical{}, err
	}
	tech, err := attrs.Float(a, TechnologyField)
	if err != nil {
		return Canonical{}, err
	}
	throughput, err := attrs.Float(a, ThroughputField)
	if err != nil {
		return Canonical{}, err
	}
	n, err := attrs.Float(a, ComponentsField)
	if err != nil {
		return Canonical{}, err
	}

	switch {
	case bits < 0:
		return Canonical{}, errors.NewInvalidAttribute(ResolutionField.Name, bits, ">= 0")
	case tech <= 0:
		return Canonical{}, errors.NewInvalidAttribute(TechnologyField.Name, tech, "> 0")
	case throughput <= 0:
		return Canonical{}, errors.NewInvalidAttribute(ThroughputField.Name, throughput, "> 0")
	case n < 1 || math.IsNaN(n):
		return Canonical{}, errors.NewInvalidAttribute(ComponentsField.Name, n, ">= 1")
	case n > math.MaxInt32:
		return Canonical{}, errors.NewInvalidAttribute(ComponentsField.Name, n, fmt.Sprintf("<= %d", math.MaxInt32))
	}

	return Canonical{
		bits:       bits,
		tech:       tech,
		throughput: throughput,
		components: int(n),
	}, nil
}

// TryBuild is Build for callers that only need to know whether a is well formed.
func TryBuild(a attrs.Attributes) (Canonical, bool) {
	c, err := Build(a)
	return c, err == nil
}
