package prompts

import (
	"testing"
)

func TestExtractVariables(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"none", "plain text", nil},
		{"single", "Hello {{.Name}}", []string{"Name"}},
		{"sorted and deduplicated", "{{.B}} {{.A}} {{.B}}", []string{"A", "B"}},
		{"spaced", "{{ .Spaced }}", []string{"Spaced"}},
		{"nested field", "{{.Outer.Inner}}", []string{"Outer.Inner"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractVariables(tt.text)
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Fatalf("got %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestHashText(t *testing.T) {
	a := HashText("same")
	b := HashText("same")
	c := HashText("different")
	if a != b {
		t.Error("equal inputs must hash equally")
	}
	if a == c {
		t.Error("different inputs should hash differently")
	}
	if len(a) != 64 {
		t.Errorf("hash length = %d, want 64 hex chars", len(a))
	}
}
