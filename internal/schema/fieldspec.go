// Package schema defines the declarative per-document-class evaluation
// configuration: which fields to score, with which method, threshold, and
// weight. Schemas are structural input and are validated fail-fast at load
// time; a bad schema means a misconfigured document class, not a degraded
// evaluation.
package schema

import (
	"fmt"
	"strings"

	"github.com/docuverify/fieldcheck/internal/compare"
)

// Field types a FieldSpec may declare.
const (
	TypeScalar = "scalar"
	TypeObject = "object"
	TypeList   = "list"
)

// DefaultThreshold applies when a field does not set its own.
const DefaultThreshold = 0.8

// FieldSpec configures evaluation of one named field.
type FieldSpec struct {
	Name        string   `yaml:"name" json:"name"`
	Description string   `yaml:"description,omitempty" json:"description,omitempty"`
	Type        string   `yaml:"type,omitempty" json:"type,omitempty"`
	Method      string   `yaml:"method,omitempty" json:"method,omitempty"`
	Threshold   *float64 `yaml:"threshold,omitempty" json:"threshold,omitempty"`
	Weight      float64  `yaml:"weight,omitempty" json:"weight,omitempty"`

	// Comparator selects the sub-strategy used inside HUNGARIAN matching
	// (EXACT, FUZZY, or NUMERIC). Ignored for scalar methods.
	Comparator string `yaml:"comparator,omitempty" json:"comparator,omitempty"`

	// Fields holds nested object fields (type=object) or the per-item
	// sub-schema of a list (type=list).
	Fields []FieldSpec `yaml:"fields,omitempty" json:"fields,omitempty"`
}

// EffectiveType returns the declared type, defaulting to scalar.
func (f FieldSpec) EffectiveType() string {
	if f.Type == "" {
		return TypeScalar
	}
	return strings.ToLower(f.Type)
}

// EffectiveMethod resolves the evaluation method, defaulting unset or
// unknown strings to EXACT (lists default to HUNGARIAN).
func (f FieldSpec) EffectiveMethod() compare.Method {
	if f.Method == "" && f.EffectiveType() == TypeList {
		return compare.MethodHungarian
	}
	return compare.ParseMethod(f.Method)
}

// EffectiveThreshold resolves the match threshold, defaulting to 0.8.
func (f FieldSpec) EffectiveThreshold() float64 {
	if f.Threshold != nil {
		return *f.Threshold
	}
	return DefaultThreshold
}

// EffectiveWeight resolves the aggregate-importance weight, defaulting to 1.
func (f FieldSpec) EffectiveWeight() float64 {
	if f.Weight <= 0 {
		return 1.0
	}
	return f.Weight
}

// SectionSpec lists the fields evaluated for one document section.
type SectionSpec struct {
	ID          string      `yaml:"id" json:"id"`
	Description string      `yaml:"description,omitempty" json:"description,omitempty"`
	Fields      []FieldSpec `yaml:"fields" json:"fields"`
}

// Class is the evaluation schema for one document class.
type Class struct {
	Name        string        `yaml:"class" json:"class"`
	Description string        `yaml:"description,omitempty" json:"description,omitempty"`
	Sections    []SectionSpec `yaml:"sections" json:"sections"`
}

// Validate fail-fast checks the structural invariants: thresholds in [0,1],
// known methods only, HUNGARIAN only on list fields, scalar methods never on
// list fields. Returns the first violation found.
func (c *Class) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("schema missing document class name")
	}
	if len(c.Sections) == 0 {
		return fmt.Errorf("schema for class %q has no sections", c.Name)
	}
	seen := make(map[string]bool, len(c.Sections))
	for _, s := range c.Sections {
		if s.ID == "" {
			return fmt.Errorf("class %q: section missing id", c.Name)
		}
		if seen[s.ID] {
			return fmt.Errorf("class %q: duplicate section id %q", c.Name, s.ID)
		}
		seen[s.ID] = true
		if len(s.Fields) == 0 {
			return fmt.Errorf("class %q: section %q has no fields", c.Name, s.ID)
		}
		for _, f := range s.Fields {
			if err := validateField(c.Name, s.ID, f); err != nil {
				return err
			}
		}
	}
	return nil
}

func validateField(class, section string, f FieldSpec) error {
	where := fmt.Sprintf("class %q section %q field %q", class, section, f.Name)

	if f.Name == "" {
		return fmt.Errorf("class %q section %q: field missing name", class, section)
	}
	if f.Threshold != nil && (*f.Threshold < 0 || *f.Threshold > 1) {
		return fmt.Errorf("%s: threshold %v outside [0,1]", where, *f.Threshold)
	}
	if f.Method != "" && !compare.KnownMethod(f.Method) {
		return fmt.Errorf("%s: unknown evaluation method %q", where, f.Method)
	}

	method := f.EffectiveMethod()
	typ := f.EffectiveType()
	switch typ {
	case TypeScalar:
		if method == compare.MethodHungarian {
			return fmt.Errorf("%s: HUNGARIAN requires a list field", where)
		}
		if len(f.Fields) > 0 {
			return fmt.Errorf("%s: scalar field cannot declare sub-fields", where)
		}
	case TypeObject:
		if method == compare.MethodHungarian {
			return fmt.Errorf("%s: HUNGARIAN requires a list field", where)
		}
		if len(f.Fields) == 0 {
			return fmt.Errorf("%s: object field declares no sub-fields", where)
		}
	case TypeList:
		if f.Method != "" && method != compare.MethodHungarian && method != compare.MethodNone {
			return fmt.Errorf("%s: scalar method %s invalid on a list field", where, method)
		}
	default:
		return fmt.Errorf("%s: unknown field type %q", where, f.Type)
	}

	for _, sub := range f.Fields {
		if err := validateField(class, section, sub); err != nil {
			return err
		}
	}
	return nil
}
