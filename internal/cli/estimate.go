package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/haskel/adcfox/internal/attrs"
	"github.com/haskel/adcfox/internal/errors"
	"github.com/haskel/adcfox/internal/estimator"
	"github.com/haskel/adcfox/internal/logger"
)

const (
	kindEnergy = "energy"
	kindArea   = "area"
)

var (
	className  string
	actionName string
	attrFlags  []string
	remote     bool
)

var energyCmd = &cobra.Command{
	Use:   "energy",
	Short: "Estimate the energy of one ADC action",
	Long: `Estimate the energy of one conversion in picojoules.

Example:
  adcfox energy --attr resolution=8 --attr technology=16nm --attr throughput=5.12e9 --attr n_adc=32`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runEstimate(cmd, kindEnergy)
	},
}

var areaCmd = &cobra.Command{
	Use:   "area",
	Short: "Estimate the area of an ADC bank",
	Long:  `Estimate the total area of all converters in square micrometres.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runEstimate(cmd, kindArea)
	},
}

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Report the energy and area accuracy for a query",
	Long:  `Run both capability probes. An accuracy of 0 means the query is not supported.`,
	RunE:  runProbe,
}

func init() {
	for _, c := range []*cobra.Command{energyCmd, areaCmd, probeCmd} {
		c.Flags().StringVar(&className, "class", "adc", "component class name")
		c.Flags().StringVar(&actionName, "action", "convert", "action name")
		c.Flags().StringArrayVarP(&attrFlags, "attr", "a", nil, "class attribute as key=value (repeatable)")
		c.Flags().BoolVar(&remote, "remote", false, "query a running server instead of estimating locally")
		rootCmd.AddCommand(c)
	}
}

// parseAttrs turns key=value pairs into class attributes. Values that parse
// as numbers become numbers; everything else stays a string.
func parseAttrs(pairs []string) (attrs.Attributes, error) {
	out := make(attrs.Attributes, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid attribute %q: expected key=value", p)
		}
		v = strings.TrimSpace(v)
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			out[k] = attrs.Number(f)
		} else {
			out[k] = attrs.String(v)
		}
	}
	return out, nil
}

func buildQuery() (estimator.Query, error) {
	a, err := parseAttrs(attrFlags)
	if err != nil {
		return estimator.Query{}, err
	}
	return estimator.Query{
		ClassName:  className,
		ActionName: actionName,
		ClassAttrs: a,
	}, nil
}

// backend answers probes and estimates either in-process or over HTTP.
type backend interface {
	Supported(kind string, q estimator.Query) (estimator.Accuracy, error)
	Estimate(kind string, q estimator.Query) (estimator.Estimation, error)
}

type localBackend struct {
	est *estimator.Estimator
}

func (b localBackend) Supported(kind string, q estimator.Query) (estimator.Accuracy, error) {
	if kind == kindArea {
		return b.est.AreaSupported(q), nil
	}
	return b.est.EnergySupported(q), nil
}

func (b localBackend) Estimate(kind string, q estimator.Query) (estimator.Estimation, error) {
	if kind == kindArea {
		return b.est.Area(q)
	}
	return b.est.Energy(q)
}

func newBackend(ctx context.Context) (backend, error) {
	if remote {
		return NewClient(), nil
	}

	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	level := "error"
	if verbose {
		level = "debug"
	}
	est, _ := buildEstimator(ctx, cfg, logger.New(level, "text"))
	return localBackend{est: est}, nil
}

func runEstimate(cmd *cobra.Command, kind string) error {
	q, err := buildQuery()
	if err != nil {
		return err
	}

	b, err := newBackend(cmd.Context())
	if err != nil {
		return err
	}

	est, err := b.Estimate(kind, q)
	if err != nil {
		return estimateError(cmd.OutOrStdout(), err)
	}

	return printEstimation(cmd.OutOrStdout(), kind, q, est)
}

func runProbe(cmd *cobra.Command, args []string) error {
	q, err := buildQuery()
	if err != nil {
		return err
	}

	b, err := newBackend(cmd.Context())
	if err != nil {
		return err
	}

	energy, err := b.Supported(kindEnergy, q)
	if err != nil {
		return err
	}
	area, err := b.Supported(kindArea, q)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if jsonOut {
		return json.NewEncoder(w).Encode(map[string]estimator.Accuracy{
			kindEnergy: energy,
			kindArea:   area,
		})
	}

	renderBlock(w, "Probe "+q.ClassName+"."+q.ActionName, []row{
		{"energy", accuracyString(energy)},
		{"area", accuracyString(area)},
	})
	return nil
}

func accuracyString(a estimator.Accuracy) string {
	if a <= 0 {
		return warnStyle.Render("unsupported")
	}
	return okStyle.Render(strconv.FormatFloat(float64(a), 'g', -1, 64))
}

func printEstimation(w io.Writer, kind string, q estimator.Query, est estimator.Estimation) error {
	if jsonOut {
		return json.NewEncoder(w).Encode(est)
	}

	rows := []row{
		{kind, valueStyle.Render(strconv.FormatFloat(est.Value, 'g', 6, 64)) + " " + unitStyle.Render(est.Unit)},
	}
	if verbose {
		rows = append(rows, row{"class", q.ClassName}, row{"action", q.ActionName})
		for _, line := range strings.Split(strings.TrimSpace(q.ClassAttrs.Dump()), "\n") {
			k, v, _ := strings.Cut(strings.TrimSpace(line), ": ")
			rows = append(rows, row{k, v})
		}
	}

	renderBlock(w, "ADC "+kind+" estimate", rows)
	return nil
}

// estimateError prints the error in the requested format and returns it so
// the command exits non-zero.
func estimateError(w io.Writer, err error) error {
	code, hint := "", ""
	if c, ok := errors.CodeOf(err); ok {
		code = string(c)
		hint = errors.FlattenHints(err)
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		code, hint = apiErr.Code, apiErr.Hint
	}

	if jsonOut {
		json.NewEncoder(w).Encode(map[string]string{
			"error": err.Error(),
			"code":  code,
			"hint":  hint,
		})
	} else if hint != "" {
		fmt.Fprintln(w, warnStyle.Render("hint: "+hint))
	}
	return err
}
