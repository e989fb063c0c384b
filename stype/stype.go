// Package stype defines semantic column types and the ordered column → type
// mapping that drives materialization.
package stype

import (
	"strings"

	"github.com/YuminosukeSato/tabframe/pkg/errors"
)

// Type is the declared meaning of a column. It selects the statistics
// calculator and tensor mapper used for the column. Any non-empty name is a
// valid Type; whether it can be materialized depends on the registries.
type Type string

const (
	// Numerical columns are cast to float tensors.
	Numerical Type = "numerical"
	// Categorical columns are mapped to integer category indices.
	Categorical Type = "categorical"
)

// String returns the canonical name of the type.
func (t Type) String() string {
	return string(t)
}

// IsValid reports whether t has a non-empty name.
func (t Type) IsValid() bool {
	return strings.TrimSpace(string(t)) != ""
}

var aliases = map[string]Type{
	"numerical":   Numerical,
	"num":         Numerical,
	"categorical": Categorical,
	"cat":         Categorical,
}

// Parse converts a type name to a Type. Built-in names and their short
// aliases ("num", "cat") are matched case-insensitively; other non-empty names
// are returned as custom types.
func Parse(s string) (Type, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "" {
		return "", errors.NewValidationError("stype", "semantic type name must not be empty", s)
	}
	if t, ok := aliases[name]; ok {
		return t, nil
	}
	return Type(name), nil
}

// MarshalText implements encoding.TextMarshaler.
func (t Type) MarshalText() ([]byte, error) {
	return []byte(t), nil
}

// UnmarshalText implements encoding.TextUnmarshaler using Parse.
func (t *Type) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
