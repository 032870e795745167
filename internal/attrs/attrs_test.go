package attrs

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/haskel/adcfox/internal/errors"
)

func TestOfNarrowsKinds(t *testing.T) {
	assert.Equal(t, KindNumber, Of(8).Kind())
	assert.Equal(t, KindNumber, Of(int64(8)).Kind())
	assert.Equal(t, KindNumber, Of(5.12e9).Kind())
	assert.Equal(t, KindString, Of("16nm").Kind())
	assert.Equal(t, KindOther, Of(true).Kind())
	assert.Equal(t, KindOther, Of(nil).Kind())
	assert.Equal(t, KindOther, Of([]any{1, 2}).Kind())
}

func TestValueJSON(t *testing.T) {
	var a Attributes
	err := json.Unmarshal([]byte(`{"resolution": 8, "technology": "16nm", "flag": true}`), &a)
	require.NoError(t, err)

	n, ok := a["resolution"].Float()
	require.True(t, ok)
	assert.Equal(t, 8.0, n)

	s, ok := a["technology"].Str()
	require.True(t, ok)
	assert.Equal(t, "16nm", s)
	assert.Equal(t, KindOther, a["flag"].Kind())

	out, err := json.Marshal(a["technology"])
	require.NoError(t, err)
	assert.JSONEq(t, `"16nm"`, string(out))
}

func TestValueYAML(t *testing.T) {
	var a Attributes
	err := yaml.Unmarshal([]byte("resolution: 8\nthroughput: 5.12e9\ntechnology: 16nm\n"), &a)
	require.NoError(t, err)

	n, ok := a["throughput"].Float()
	require.True(t, ok)
	assert.Equal(t, 5.12e9, n)
	assert.Equal(t, KindString, a["technology"].Kind())
}

func TestResolveNumeric(t *testing.T) {
	a := FromMap(map[string]any{
		"resolution": 8,
		"technology": "16nm",
		"label":      "fast adc",
		"flag":       true,
	})

	tests := []struct {
		name    string
		field   Field
		want    float64
		wantErr error
	}{
		{"number", Field{Name: "resolution", Kind: Numeric, Required: true}, 8, nil},
		{"string magnitude only", Field{Name: "technology", Kind: Numeric, Required: true}, 16, nil},
		{"no number", Field{Name: "label", Kind: Numeric, Required: true}, 0, errors.ErrUnparsableNumeric},
		{"not a string", Field{Name: "flag", Kind: Numeric, Required: true}, 0, errors.ErrUnparsableNumeric},
		{"missing", Field{Name: "throughput", Kind: Numeric, Required: true}, 0, errors.ErrMissingAttribute},
		{"optional default", Field{Name: "throughput", Kind: Numeric, Default: 3}, 3, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Float(a, tt.field)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveAlias(t *testing.T) {
	f := Field{Name: "n_adc", Kind: Numeric, Aliases: []string{"n_components"}, Required: true}

	got, err := Float(FromMap(map[string]any{"n_components": "4"}), f)
	require.NoError(t, err)
	assert.Equal(t, 4.0, got)

	// primary wins when both are present
	got, err = Float(FromMap(map[string]any{"n_adc": 2, "n_components": 4}), f)
	require.NoError(t, err)
	assert.Equal(t, 2.0, got)

	// a present but unparsable primary does not fall through
	_, err = Float(FromMap(map[string]any{"n_adc": "many", "n_components": 4}), f)
	assert.True(t, errors.Is(err, errors.ErrUnparsableNumeric))

	_, err = Float(Attributes{}, f)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrMissingAttribute))
	assert.Contains(t, err.Error(), "n_adc")
}

func TestResolveRawPassesThrough(t *testing.T) {
	a := FromMap(map[string]any{"name": "sar", "flag": true})

	v, err := Resolve(a, Field{Name: "name", Required: true})
	require.NoError(t, err)
	s, _ := v.Str()
	assert.Equal(t, "sar", s)

	v, err = Resolve(a, Field{Name: "flag", Required: true})
	require.NoError(t, err)
	assert.Equal(t, true, v.Interface())
}

func TestResolveScaled(t *testing.T) {
	f := Field{Name: "supply_voltage", Kind: Scaled, Default: 1}

	got, err := Float(Attributes{}, f)
	require.NoError(t, err)
	assert.Equal(t, 1.0, got)

	got, err = Float(FromMap(map[string]any{"supply_voltage": "0.5"}), f)
	require.NoError(t, err)
	assert.Equal(t, 0.5, got)

	got, err = Float(FromMap(map[string]any{"supply_voltage": "2x"}), f)
	require.NoError(t, err)
	assert.Equal(t, 2.0, got)

	got, err = Float(FromMap(map[string]any{"supply_voltage": "none"}), f)
	require.NoError(t, err)
	assert.Equal(t, 1.0, got)
}

func TestDumpIsSorted(t *testing.T) {
	a := FromMap(map[string]any{"b": 2, "a": "x"})
	assert.Equal(t, "\n\ta: x\n\tb: 2\n", a.Dump())
}
