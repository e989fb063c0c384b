package schema

import (
	"path/filepath"
	"os"
	"strings"
	"testing"

	"github.com/YuminosukeSato/tabframe/pkg/errors"
	"github.com/YuminosukeSato/tabframe/stype"
	"github.com/YuminosukeSato/tabframe/table"
	"github.com/YuminosukeSato/tabframe/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const adultSchema = `
target: label
normalization: standard
columns:
  - {name: age, stype: numerical}
  - {name: city, stype: CAT}
  - {name: label, stype: categorical}
`

func TestParse(t *testing.T) {
	s, err := Parse([]byte(adultSchema))
	require.NoError(t, err)
	assert.Equal(t, "label", s.Target)

	types, err := s.ColumnTypes()
	require.NoError(t, err)
	want := stype.MustColumnTypeMap(
		stype.ColumnType{Name: "age", Type: stype.Numerical},
		stype.ColumnType{Name: "city", Type: stype.Categorical},
		stype.ColumnType{Name: "label", Type: stype.Categorical},
	)
	assert.True(t, types.Equal(want), "got %v", types)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"empty", ""},
		{"unknown key", "columns: []\nextra: 1\n"},
		{"duplicate column", "columns:\n  - {name: a, stype: numerical}\n  - {name: a, stype: categorical}\n"},
		{"missing name", "columns:\n  - {stype: numerical}\n"},
		{"missing stype", "columns:\n  - {name: a}\n"},
		{"undeclared target", "target: y\ncolumns:\n  - {name: a, stype: numerical}\n"},
		{"bad normalization", "normalization: zscore\ncolumns: []\n"},
		{"not yaml", "columns: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestNewDataset(t *testing.T) {
	s, err := Load(strings.NewReader(adultSchema))
	require.NoError(t, err)

	tbl := table.MustNew(
		table.Column{Name: "age", Values: table.Ints(20, 40)},
		table.Column{Name: "city", Values: table.Strings("NY", "LA")},
		table.Column{Name: "label", Values: table.Ints(1, 0)},
	)
	ds, err := s.NewDataset(tbl)
	require.NoError(t, err)
	assert.Equal(t, "label", ds.TargetCol())

	_, err = ds.Materialize()
	require.NoError(t, err)
	tf, err := ds.TensorFrame()
	require.NoError(t, err)

	num, _ := tf.Feat(stype.Numerical)
	assert.InDeltaSlice(t, []float64{-1, 1}, num.(*tensor.Float).Data(), 1e-12, "standard normalization from the schema")
}

func TestNewDataset_MissingColumn(t *testing.T) {
	s, err := Parse([]byte(adultSchema))
	require.NoError(t, err)

	tbl := table.MustNew(table.Column{Name: "age", Values: table.Ints(1)})
	_, err = s.NewDataset(tbl)
	var missing *errors.MissingColumnError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, []string{"city", "label"}, missing.Columns)
}

func TestMarshal_RoundTrip(t *testing.T) {
	s, err := Parse([]byte(adultSchema))
	require.NoError(t, err)

	ds, err := s.NewDataset(table.MustNew(
		table.Column{Name: "age", Values: table.Ints(1)},
		table.Column{Name: "city", Values: table.Strings("NY")},
		table.Column{Name: "label", Values: table.Ints(0)},
	))
	require.NoError(t, err)

	out, err := FromDataset(ds).Marshal()
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "schema.yaml")
	require.NoError(t, os.WriteFile(path, out, 0o600))
	back, err := LoadFile(path)
	require.NoError(t, err)

	types, _ := back.ColumnTypes()
	assert.True(t, types.Equal(ds.ColumnTypes()))
	assert.Equal(t, "label", back.Target)
}
