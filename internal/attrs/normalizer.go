package attrs

import (
	"github.com/haskel/adcfox/internal/errors"
	"github.com/haskel/adcfox/internal/units"
)

// FieldKind selects how a raw value is narrowed.
type FieldKind int

const (
	// Raw fields pass through unchanged.
	Raw FieldKind = iota
	// Numeric fields take the first decimal number found, without unit scaling.
	Numeric
	// Scaled fields are converted with units.Parse.
	Scaled
)

// Field describes one attribute the normalizer resolves.
type Field struct {
	Name    string
	Kind    FieldKind
	Aliases []string

	// Required fields fail with MissingAttribute when absent.
	// Optional fields resolve to Default.
	Required bool
	Default  float64

	// Scaled only.
	NativeScale float64
	TargetScale float64
}

// Names returns the primary name followed by its aliases.
func (f Field) Names() []string {
	return append([]string{f.Name}, f.Aliases...)
}

// Lookup finds the field under its primary name, then under each alias.
// Only absence moves on to the next name.
func Lookup(a Attributes, f Field) (Value, string, bool) {
	for _, name := range f.Names() {
		if v, ok := a.Lookup(name); ok {
			return v, name, true
		}
	}
	return Value{}, "", false
}

// Resolve returns the normalized value of f.
func Resolve(a Attributes, f Field) (Value, error) {
	v, name, ok := Lookup(a, f)
	if !ok {
		if f.Required {
			return Value{}, errors.NewMissingAttribute(f.Name, f.Aliases...)
		}
		return Number(f.Default), nil
	}

	switch f.Kind {
	case Numeric:
		n, err := numeric(name, v)
		if err != nil {
			return Value{}, err
		}
		return Number(n), nil
	case Scaled:
		native, target := f.NativeScale, f.TargetScale
		if native == 0 {
			native = 1
		}
		if target == 0 {
			target = 1
		}
		return Number(units.Parse(v.Interface(), native, target, f.Default)), nil
	default:
		return v, nil
	}
}

// Float resolves f and returns its numeric payload.
func Float(a Attributes, f Field) (float64, error) {
	v, err := Resolve(a, f)
	if err != nil {
		return 0, err
	}
	n, ok := v.Float()
	if !ok {
		return 0, errors.NewUnparsableNumeric(f.Name, v)
	}
	return n, nil
}

func numeric(name string, v Value) (float64, error) {
	if n, ok := v.Float(); ok {
		return n, nil
	}
	if s, ok := v.Str(); ok {
		if n, found := units.ExtractNumber(s); found {
			return n, nil
		}
	}
	return 0, errors.NewUnparsableNumeric(name, v)
}
