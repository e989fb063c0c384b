// Package schema reads column type declarations from YAML:
//
//	target: label
//	normalization: standard
//	columns:
//	  - {name: age, stype: numerical}
//	  - {name: city, stype: categorical}
//	  - {name: label, stype: categorical}
//
// A Schema turns into the column type map and dataset options that
// dataset.New expects.
package schema

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/YuminosukeSato/tabframe/dataset"
	"github.com/YuminosukeSato/tabframe/mapper"
	"github.com/YuminosukeSato/tabframe/pkg/errors"
	"github.com/YuminosukeSato/tabframe/stype"
	"github.com/YuminosukeSato/tabframe/table"
	"gopkg.in/yaml.v3"
)

// Column declares the semantic type of one column.
type Column struct {
	Name  string `yaml:"name"`
	Stype string `yaml:"stype"`
}

// Schema is the parsed form of a schema file.
type Schema struct {
	Target        string   `yaml:"target,omitempty"`
	Normalization string   `yaml:"normalization,omitempty"`
	Columns       []Column `yaml:"columns"`
}

// Parse decodes and validates a YAML schema. Unknown keys are rejected.
func Parse(data []byte) (*Schema, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var s Schema
	if err := dec.Decode(&s); err != nil {
		if err == io.EOF {
			return nil, errors.NewValidationError("schema", "empty schema document", "")
		}
		return nil, errors.Wrap(err, "failed to parse schema")
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Load reads a schema from r.
func Load(r io.Reader) (*Schema, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read schema")
	}
	return Parse(data)
}

// LoadFile reads a schema file.
func LoadFile(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read schema %s", path)
	}
	return Parse(data)
}

// Validate checks column names, type names, the target and the
// normalization setting.
func (s *Schema) Validate() error {
	if _, err := s.ColumnTypes(); err != nil {
		return err
	}
	if s.Target != "" {
		found := false
		for _, c := range s.Columns {
			if c.Name == s.Target {
				found = true
				break
			}
		}
		if !found {
			return errors.NewValidationError("target", "target column is not declared in columns", s.Target)
		}
	}
	_, err := parseNormalization(s.Normalization)
	return err
}

// ColumnTypes returns the declared columns in file order.
func (s *Schema) ColumnTypes() (*stype.ColumnTypeMap, error) {
	pairs := make([]stype.ColumnType, 0, len(s.Columns))
	for i, c := range s.Columns {
		if strings.TrimSpace(c.Name) == "" {
			return nil, errors.NewValidationError("columns", fmt.Sprintf("column %d has no name", i), c)
		}
		t, err := stype.Parse(c.Stype)
		if err != nil {
			return nil, errors.Wrapf(err, "column '%s'", c.Name)
		}
		pairs = append(pairs, stype.ColumnType{Name: c.Name, Type: t})
	}
	return stype.NewColumnTypeMap(pairs...)
}

// DatasetOptions returns the dataset options implied by the schema.
func (s *Schema) DatasetOptions() ([]dataset.Option, error) {
	var opts []dataset.Option
	if s.Target != "" {
		opts = append(opts, dataset.WithTarget(s.Target))
	}
	norm, err := parseNormalization(s.Normalization)
	if err != nil {
		return nil, err
	}
	if norm != mapper.NormalizeNone {
		opts = append(opts, dataset.WithMapperRegistry(mapper.NewDefaultRegistry(mapper.WithNormalization(norm))))
	}
	return opts, nil
}

// NewDataset builds an unmaterialized dataset over tbl. Extra options are
// applied after the schema's own.
func (s *Schema) NewDataset(tbl *table.Table, extra ...dataset.Option) (*dataset.Dataset, error) {
	types, err := s.ColumnTypes()
	if err != nil {
		return nil, err
	}
	opts, err := s.DatasetOptions()
	if err != nil {
		return nil, err
	}
	return dataset.New(tbl, types, append(opts, extra...)...)
}

// Marshal encodes the schema as YAML.
func (s *Schema) Marshal() ([]byte, error) {
	out, err := yaml.Marshal(s)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode schema")
	}
	return out, nil
}

// FromDataset captures the column types and target of a dataset.
func FromDataset(ds *dataset.Dataset) *Schema {
	s := &Schema{Target: ds.TargetCol()}
	for _, ct := range ds.ColumnTypes().Pairs() {
		s.Columns = append(s.Columns, Column{Name: ct.Name, Stype: ct.Type.String()})
	}
	return s
}

func parseNormalization(s string) (mapper.Normalization, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return mapper.NormalizeNone, nil
	case "standard":
		return mapper.NormalizeStandard, nil
	case "minmax":
		return mapper.NormalizeMinMax, nil
	default:
		return mapper.NormalizeNone, errors.NewValidationError("normalization", "expected none, standard or minmax", s)
	}
}
