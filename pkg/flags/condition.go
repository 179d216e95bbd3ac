package flags

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Condition is a boolean expression over flag names. It is a closed set
// of variants evaluated by exhaustive switch; the authoring format's
// "no combinator given" case is the explicit Always variant rather than
// an implicit default. Event authors rely on Always: omitting a
// condition means "no constraint", never "false".
type Condition struct {
	kind  condKind
	flag  string
	items []Condition
}

type condKind int

const (
	condAlways condKind = iota
	condFlag
	condAll
	condAny
	condNone
	condAnd
	condOr
	condNot
)

// Always is the unconstrained condition; it evaluates to true.
func Always() Condition { return Condition{kind: condAlways} }

// FlagSet requires a single flag to be present.
func FlagSet(name string) Condition { return Condition{kind: condFlag, flag: name} }

// AllOf requires every listed flag to be present.
func AllOf(names ...string) Condition { return Condition{kind: condAll, items: flagConds(names)} }

// AnyOf requires at least one listed flag to be present.
func AnyOf(names ...string) Condition { return Condition{kind: condAny, items: flagConds(names)} }

// NoneOf requires every listed flag to be absent.
func NoneOf(names ...string) Condition { return Condition{kind: condNone, items: flagConds(names)} }

// And requires every sub-condition to hold.
func And(conds ...Condition) Condition { return Condition{kind: condAnd, items: conds} }

// Or requires at least one sub-condition to hold.
func Or(conds ...Condition) Condition { return Condition{kind: condOr, items: conds} }

// Not inverts a condition.
func Not(c Condition) Condition { return Condition{kind: condNot, items: []Condition{c}} }

func flagConds(names []string) []Condition {
	out := make([]Condition, len(names))
	for i, n := range names {
		out[i] = FlagSet(n)
	}
	return out
}

// Eval evaluates the condition against a flag store.
func (c Condition) Eval(s *Store) bool {
	switch c.kind {
	case condAlways:
		return true
	case condFlag:
		return s.Has(c.flag)
	case condAll, condAnd:
		for _, sub := range c.items {
			if !sub.Eval(s) {
				return false
			}
		}
		return true
	case condAny, condOr:
		for _, sub := range c.items {
			if sub.Eval(s) {
				return true
			}
		}
		return false
	case condNone:
		for _, sub := range c.items {
			if sub.Eval(s) {
				return false
			}
		}
		return true
	case condNot:
		return !c.items[0].Eval(s)
	}
	return true
}

// IsAlways reports whether the condition is unconstrained.
func (c Condition) IsAlways() bool { return c.kind == condAlways }

// The authoring shape is a mapping with at most one combinator key:
//
//	{flag: name}
//	{all: [f1, f2]} / {any: [...]} / {none: [...]}
//	{and: [cond, ...]} / {or: [cond, ...]} / {not: cond}
//
// An empty or absent mapping decodes to Always.
type condDoc struct {
	Flag string    `yaml:"flag" json:"flag,omitempty"`
	All  []string  `yaml:"all" json:"all,omitempty"`
	Any  []string  `yaml:"any" json:"any,omitempty"`
	None []string  `yaml:"none" json:"none,omitempty"`
	And  []condDoc `yaml:"and" json:"and,omitempty"`
	Or   []condDoc `yaml:"or" json:"or,omitempty"`
	Not  *condDoc  `yaml:"not" json:"not,omitempty"`
}

func (d condDoc) condition() Condition {
	switch {
	case d.Flag != "":
		return FlagSet(d.Flag)
	case len(d.All) > 0:
		return AllOf(d.All...)
	case len(d.Any) > 0:
		return AnyOf(d.Any...)
	case len(d.None) > 0:
		return NoneOf(d.None...)
	case len(d.And) > 0:
		return And(docConds(d.And)...)
	case len(d.Or) > 0:
		return Or(docConds(d.Or)...)
	case d.Not != nil:
		return Not(d.Not.condition())
	}
	return Always()
}

func docConds(docs []condDoc) []Condition {
	out := make([]Condition, len(docs))
	for i, d := range docs {
		out[i] = d.condition()
	}
	return out
}

func (c Condition) doc() condDoc {
	switch c.kind {
	case condFlag:
		return condDoc{Flag: c.flag}
	case condAll:
		return condDoc{All: condFlags(c.items)}
	case condAny:
		return condDoc{Any: condFlags(c.items)}
	case condNone:
		return condDoc{None: condFlags(c.items)}
	case condAnd:
		return condDoc{And: condDocs(c.items)}
	case condOr:
		return condDoc{Or: condDocs(c.items)}
	case condNot:
		d := c.items[0].doc()
		return condDoc{Not: &d}
	}
	return condDoc{}
}

func condFlags(items []Condition) []string {
	out := make([]string, len(items))
	for i, c := range items {
		out[i] = c.flag
	}
	return out
}

func condDocs(items []Condition) []condDoc {
	out := make([]condDoc, len(items))
	for i, c := range items {
		out[i] = c.doc()
	}
	return out
}

// UnmarshalYAML decodes a condition from the authoring shape.
func (c *Condition) UnmarshalYAML(value *yaml.Node) error {
	var d condDoc
	if err := value.Decode(&d); err != nil {
		return fmt.Errorf("invalid condition: %w", err)
	}
	*c = d.condition()
	return nil
}

// MarshalYAML encodes the condition back into the authoring shape.
func (c Condition) MarshalYAML() (any, error) {
	return c.doc(), nil
}

// UnmarshalJSON decodes a condition from the authoring shape.
func (c *Condition) UnmarshalJSON(data []byte) error {
	var d condDoc
	if err := json.Unmarshal(data, &d); err != nil {
		return fmt.Errorf("invalid condition: %w", err)
	}
	*c = d.condition()
	return nil
}

// MarshalJSON encodes the condition back into the authoring shape.
func (c Condition) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.doc())
}
