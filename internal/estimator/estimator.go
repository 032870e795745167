// Package estimator implements the energy and area entry points the
// estimation host calls: a capability probe and a value computation for
// each estimate kind.
package estimator

import (
	"log/slog"

	"github.com/haskel/adcfox/internal/attrs"
	"github.com/haskel/adcfox/internal/charmodel"
	"github.com/haskel/adcfox/internal/errors"
	"github.com/haskel/adcfox/internal/request"
)

// Unit labels reported to the host.
const (
	EnergyUnit = "p"
	AreaUnit   = "u^2"

	joulesToPicojoules = 1e12
)

// Query is a single host request.
type Query struct {
	ClassName  string           `json:"class_name"`
	ClassAttrs attrs.Attributes `json:"class_attrs"`
	ActionName string           `json:"action_name"`
	ActionArgs map[string]any   `json:"action_args,omitempty"`
}

// Estimation is a value with its unit label.
type Estimation struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

// Estimator answers probes and estimates against a characterization model.
// It holds no mutable state and is safe for concurrent use.
type Estimator struct {
	cfg    Config
	model  charmodel.Model
	logger *slog.Logger
}

// New creates a new Estimator.
func New(cfg Config, model charmodel.Model, logger *slog.Logger) *Estimator {
	return &Estimator{
		cfg:    cfg,
		model:  model,
		logger: logger,
	}
}

// Name returns the estimator name.
func (e *Estimator) Name() string {
	return "ADC Estimator"
}

// Config returns the dispatch configuration.
func (e *Estimator) Config() Config {
	return e.cfg
}

// EnergySupported returns the energy accuracy if q names a recognized class
// and action and carries a well-formed request, zero otherwise.
func (e *Estimator) EnergySupported(q Query) Accuracy {
	acc := Accuracy(0)
	if e.cfg.RecognizesClass(q.ClassName) && e.cfg.RecognizesAction(q.ActionName) {
		if _, ok := request.TryBuild(q.ClassAttrs); ok {
			acc = e.cfg.EnergyAccuracy()
		}
	}
	observeProbe(kindEnergy, acc)
	return acc
}

// Energy returns the energy of one conversion in picojoules.
func (e *Estimator) Energy(q Query) (Estimation, error) {
	est, err := e.energy(q)
	observeEstimate(kindEnergy, err)
	return est, err
}

func (e *Estimator) energy(q Query) (Estimation, error) {
	if !e.cfg.RecognizesClass(q.ClassName) || !e.cfg.RecognizesAction(q.ActionName) {
		return Estimation{}, errors.NewUnsupportedQuery(kindEnergy, q.ClassName, q.ActionName)
	}

	r, err := request.Build(q.ClassAttrs)
	if err != nil {
		return Estimation{}, err
	}

	e.logger.Info("ADC energy estimation requested",
		"class", q.ClassName,
		"action", q.ActionName,
		"attributes", q.ClassAttrs.Dump(),
	)

	joules, ok := e.model.EnergyPerOp(r)
	if !ok || joules == 0 {
		return Estimation{}, errors.NewNoMatchingModelEntry(kindEnergy, r.String())
	}

	pj := joules * joulesToPicojoules
	e.logger.Info("generated model energy", "pj_per_op", pj)
	return Estimation{Value: pj, Unit: EnergyUnit}, nil
}

// AreaSupported returns the area accuracy if q names a recognized class and
// carries a well-formed request, zero otherwise. The action is not consulted.
func (e *Estimator) AreaSupported(q Query) Accuracy {
	acc := Accuracy(0)
	if e.cfg.RecognizesClass(q.ClassName) {
		if _, ok := request.TryBuild(q.ClassAttrs); ok {
			acc = e.cfg.AreaAccuracy()
		}
	}
	observeProbe(kindArea, acc)
	return acc
}

// Area returns the total area of all converters in square micrometres.
// A lookup miss fails with a no-matching-entry error, as Energy does.
func (e *Estimator) Area(q Query) (Estimation, error) {
	est, err := e.area(q)
	observeEstimate(kindArea, err)
	return est, err
}

func (e *Estimator) area(q Query) (Estimation, error) {
	if !e.cfg.RecognizesClass(q.ClassName) {
		return Estimation{}, errors.NewUnsupportedQuery(kindArea, q.ClassName, "")
	}

	r, err := request.Build(q.ClassAttrs)
	if err != nil {
		return Estimation{}, err
	}

	e.logger.Info("ADC area estimation requested",
		"class", q.ClassName,
		"attributes", q.ClassAttrs.Dump(),
	)

	um2, ok := e.model.Area(r)
	if !ok {
		return Estimation{}, errors.NewNoMatchingModelEntry(kindArea, r.String())
	}

	e.logger.Info("generated model area", "um2_total", um2)
	return Estimation{Value: um2, Unit: AreaUnit}, nil
}
