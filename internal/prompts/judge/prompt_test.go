package judge

import (
	"strings"
	"testing"
)

func TestRender(t *testing.T) {
	p, err := Render(Vars{
		DocumentClass:        "invoice",
		AttributeName:        "vendor_name",
		AttributeDescription: "Legal name of the vendor",
		ExpectedValue:        "ACME Corp",
		ActualValue:          "ACME Corporation",
	})
	if err != nil {
		t.Fatal(err)
	}
	if p.System != System {
		t.Error("rendered prompt lost its system message")
	}
	for _, fragment := range []string{
		`"invoice"`,
		"Attribute: vendor_name",
		"Description: Legal name of the vendor",
		"Ground truth value: ACME Corp",
		"Extracted value: ACME Corporation",
		`"match"`,
		`"score"`,
	} {
		if !strings.Contains(p.Content, fragment) {
			t.Errorf("prompt missing %q", fragment)
		}
	}
}

func TestRenderOmitsEmptyDescription(t *testing.T) {
	p, err := Render(Vars{
		DocumentClass: "invoice",
		AttributeName: "total",
		ExpectedValue: "100",
		ActualValue:   "100",
	})
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(p.Content, "Description:") {
		t.Error("empty description should be omitted")
	}
}

func TestVariablesMatchVars(t *testing.T) {
	// The template's substitution fields must track the Vars struct exactly;
	// a drifting edit shows up here before it ships a broken prompt.
	want := []string{
		"ActualValue",
		"AttributeDescription",
		"AttributeName",
		"DocumentClass",
		"ExpectedValue",
	}
	if len(Variables) != len(want) {
		t.Fatalf("Variables = %v, want %v", Variables, want)
	}
	for i := range want {
		if Variables[i] != want[i] {
			t.Fatalf("Variables = %v, want %v", Variables, want)
		}
	}
}

func TestFingerprint(t *testing.T) {
	if len(Fingerprint) != 64 {
		t.Errorf("Fingerprint length = %d, want 64 hex chars", len(Fingerprint))
	}
}
