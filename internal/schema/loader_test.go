package schema

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/docuverify/fieldcheck/internal/compare"
)

const validSchema = `
class: invoice
description: Vendor invoices
sections:
  - id: header
    fields:
      - name: vendor_name
        method: FUZZY
        threshold: 0.85
        weight: 2
      - name: invoice_date
        method: EXACT
      - name: line_items
        type: list
        comparator: FUZZY
      - name: remit_to
        type: object
        fields:
          - name: city
          - name: zip
  - id: totals
    fields:
      - name: total
        method: NUMERIC_EXACT
`

func TestParseValidSchema(t *testing.T) {
	c, err := Parse([]byte(validSchema))
	if err != nil {
		t.Fatal(err)
	}
	if c.Name != "invoice" {
		t.Errorf("Name = %q", c.Name)
	}
	if len(c.Sections) != 2 {
		t.Fatalf("got %d sections", len(c.Sections))
	}

	vendor := c.Sections[0].Fields[0]
	if vendor.EffectiveMethod() != compare.MethodFuzzy {
		t.Errorf("method = %v", vendor.EffectiveMethod())
	}
	if vendor.EffectiveThreshold() != 0.85 {
		t.Errorf("threshold = %v", vendor.EffectiveThreshold())
	}
	if vendor.EffectiveWeight() != 2.0 {
		t.Errorf("weight = %v", vendor.EffectiveWeight())
	}

	items := c.Sections[0].Fields[2]
	if items.EffectiveMethod() != compare.MethodHungarian {
		t.Errorf("list field defaulted to %v, want HUNGARIAN", items.EffectiveMethod())
	}

	date := c.Sections[0].Fields[1]
	if date.EffectiveThreshold() != DefaultThreshold || date.EffectiveWeight() != 1.0 {
		t.Errorf("defaults not applied: threshold=%v weight=%v",
			date.EffectiveThreshold(), date.EffectiveWeight())
	}
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "not yaml",
			yaml:    "{{{{",
			wantErr: "invalid schema YAML",
		},
		{
			name:    "missing class name",
			yaml:    "sections:\n  - id: a\n    fields:\n      - name: f\n",
			wantErr: "class",
		},
		{
			name:    "no sections",
			yaml:    "class: x\nsections: []\n",
			wantErr: "sections",
		},
		{
			name: "threshold out of range",
			yaml: `
class: x
sections:
  - id: a
    fields:
      - name: f
        threshold: 1.5
`,
			wantErr: "threshold",
		},
		{
			name: "unknown method",
			yaml: `
class: x
sections:
  - id: a
    fields:
      - name: f
        method: SOUNDEX
`,
			wantErr: "unknown evaluation method",
		},
		{
			name: "hungarian on scalar",
			yaml: `
class: x
sections:
  - id: a
    fields:
      - name: f
        method: HUNGARIAN
`,
			wantErr: "HUNGARIAN requires a list field",
		},
		{
			name: "scalar method on list",
			yaml: `
class: x
sections:
  - id: a
    fields:
      - name: f
        type: list
        method: FUZZY
`,
			wantErr: "invalid on a list field",
		},
		{
			name: "object without sub-fields",
			yaml: `
class: x
sections:
  - id: a
    fields:
      - name: f
        type: object
`,
			wantErr: "no sub-fields",
		},
		{
			name: "duplicate section ids",
			yaml: `
class: x
sections:
  - id: a
    fields:
      - name: f
  - id: a
    fields:
      - name: g
`,
			wantErr: "duplicate section id",
		},
		{
			name: "unknown top-level key",
			yaml: `
class: x
extra: true
sections:
  - id: a
    fields:
      - name: f
`,
			wantErr: "does not match",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "invoice.yaml")
	if err := os.WriteFile(path, []byte(validSchema), 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if c.Name != "invoice" {
		t.Errorf("Name = %q", c.Name)
	}

	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	receipt := strings.Replace(validSchema, "class: invoice", "class: receipt", 1)
	files := map[string]string{
		"invoice.yaml": validSchema,
		"receipt.yml":  receipt,
		"notes.txt":    "ignored",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	classes, err := LoadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(classes) != 2 {
		t.Fatalf("got %d classes, want 2", len(classes))
	}
	if classes["invoice"] == nil || classes["receipt"] == nil {
		t.Errorf("classes = %v", classes)
	}
}

func TestLoadDirDuplicateClass(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.yaml", "b.yaml"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(validSchema), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := LoadDir(dir); err == nil || !strings.Contains(err.Error(), "duplicate schema") {
		t.Errorf("err = %v, want duplicate class error", err)
	}
}
