package model

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// RootID is the reserved id of the synthetic root. Real options must not use it.
const RootID = 0

// Option is one raw entry of a hierarchical option list: an id, the id of its
// parent (0 = top level) and the label shown to the user.
type Option struct {
	ID       FlexInt `json:"id" yaml:"id"`
	ParentID FlexInt `json:"parent,omitempty" yaml:"parent,omitempty"`
	Title    string  `json:"title" yaml:"title"`
}

// NewOption is a convenience constructor used by tests and loaders.
func NewOption(id, parentID int, title string) Option {
	return Option{ID: FlexInt(id), ParentID: FlexInt(parentID), Title: title}
}

// Validate checks that the option can take part in a tree
func (o Option) Validate() error {
	if o.ID == RootID {
		return fmt.Errorf("option %q: id %d is reserved for the root", o.Title, RootID)
	}
	if o.ID == o.ParentID {
		return fmt.Errorf("option %d: cannot be its own parent", o.ID)
	}
	return nil
}

// FlexInt is an integer that also accepts numeric strings and null when
// decoded. Option lists are often produced by tools that quote ids.
//
//	1, "1", " 1 ", 1.0, "1.0" -> 1
//	null, "", absent          -> 0
//	"abc", 1.5, 1e20          -> error
type FlexInt int

// ParseFlexInt converts text to a FlexInt using the coercion rules above.
func ParseFlexInt(s string) (FlexInt, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "null" || s == "~" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err == nil {
		return FlexInt(n), nil
	}
	if errors.Is(err, strconv.ErrRange) {
		return 0, fmt.Errorf("number out of range: %q", s)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", s)
	}
	if f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("not an integer: %q", s)
	}
	// float64(math.MaxInt) rounds up to 2^63, which int cannot hold.
	if f < float64(math.MinInt) || f >= -float64(math.MinInt) {
		return 0, fmt.Errorf("number out of range: %q", s)
	}
	return FlexInt(int(f)), nil
}

// Int returns the plain int value.
func (f FlexInt) Int() int {
	return int(f)
}

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 1 && data[0] == '"' {
		unquoted, err := strconv.Unquote(string(data))
		if err != nil {
			return fmt.Errorf("invalid id %s: %w", data, err)
		}
		data = []byte(unquoted)
	}
	v, err := ParseFlexInt(string(data))
	if err != nil {
		return err
	}
	*f = v
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (f *FlexInt) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected a scalar id", value.Line)
	}
	if value.Tag == "!!null" {
		*f = 0
		return nil
	}
	v, err := ParseFlexInt(value.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*f = v
	return nil
}
