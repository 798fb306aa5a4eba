package colorscale

import (
	"math"
	"testing"

	"github.com/ontoloviz/ontoloviz/pkg/errors"
)

func TestGradient(t *testing.T) {
	tests := []struct {
		name     string
		from, to string
		n        int
		want     []string
	}{
		{"three steps", "#000000", "#FF0000", 3, []string{"#000000", "#7F0000", "#FF0000"}},
		{"single", "#403C53", "#C33D35", 1, []string{"#403C53"}},
		{"none", "#403C53", "#C33D35", 0, nil},
		{"negative", "#403C53", "#C33D35", -2, nil},
		{"descending", "#FFFFFF", "#000000", 2, []string{"#FFFFFF", "#000000"}},
		{"lowercase input", "#ffffff", "#403c53", 2, []string{"#FFFFFF", "#403C53"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Gradient(tt.from, tt.to, tt.n, RGB)
			if len(got) != len(tt.want) {
				t.Fatalf("Gradient() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Gradient()[%d] = %s, want %s", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestGradientEndpointsInOtherSpaces(t *testing.T) {
	for _, space := range []Space{Lab, HCL} {
		got := Gradient("#403C53", "#C33D35", 5, space)
		if len(got) != 5 {
			t.Fatalf("Gradient(%s) len = %d, want 5", space, len(got))
		}
		if got[0] != "#403C53" || got[4] != "#C33D35" {
			t.Errorf("Gradient(%s) endpoints = %s, %s, want #403C53, #C33D35", space, got[0], got[4])
		}
	}
}

func TestBuildDefaultScale(t *testing.T) {
	table := Build(Default(), 8, "#FFFFFF")

	if table.Factor != 1 {
		t.Errorf("Factor = %d, want 1", table.Factor)
	}
	// 1 default + int(1.6)-0 + 8-int(1.6)
	if table.Len() != 9 {
		t.Fatalf("Len() = %d, want 9", table.Len())
	}
	if got := table.Lookup(8); got != "#C33D35" {
		t.Errorf("Lookup(8) = %s, want #C33D35", got)
	}
	if got := table.Lookup(2); got != "#403C53" {
		t.Errorf("Lookup(2) = %s, want #403C53", got)
	}
	if got := table.Lookup(100); got != "#C33D35" {
		t.Errorf("Lookup(100) = %s, want clamp to #C33D35", got)
	}
}

func TestBuildSentinelMax(t *testing.T) {
	table := Build(Default(), 0.000001337, "#EEEEEE")
	if table.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", table.Len())
	}
	if got := table.Lookup(5); got != "#EEEEEE" {
		t.Errorf("Lookup(5) = %s, want default", got)
	}
}

func TestBuildBucketFactor(t *testing.T) {
	tests := []struct {
		max        float64
		wantFactor int
		wantLen    int
	}{
		{99999, 1, 100000},
		{100000, 10, 10001},
		{249999, 10, 25000},
		{250000, 25, 10001},
		{1000000, 25, 40001},
	}

	scale := Scale{{0, "#000000"}, {1, "#FFFFFF"}}
	for _, tt := range tests {
		table := Build(scale, tt.max, "#FFFFFF")
		if table.Factor != tt.wantFactor {
			t.Errorf("Build(%v).Factor = %d, want %d", tt.max, table.Factor, tt.wantFactor)
		}
		if table.Len() != tt.wantLen {
			t.Errorf("Build(%v).Len() = %d, want %d", tt.max, table.Len(), tt.wantLen)
		}
	}
}

func TestTableMonotonic(t *testing.T) {
	for _, maxValue := range []float64{8, 1234, 150000, 300000} {
		table := Build(Default(), maxValue, "#FFFFFF")
		prev := -1
		for v := 0.0; v <= maxValue*1.1; v += maxValue / 97 {
			i := table.Index(v)
			if i < prev {
				t.Fatalf("Index(%v) = %d after %d, want monotonic", v, i, prev)
			}
			if i < 0 || i >= table.Len() {
				t.Fatalf("Index(%v) = %d out of range [0, %d)", v, i, table.Len())
			}
			prev = i
		}
	}
}

func TestTableNonFinite(t *testing.T) {
	table := Build(Default(), 100, "#FFFFFF")
	tests := []struct {
		value float64
		want  int
	}{
		{math.NaN(), 0},
		{math.Inf(-1), 0},
		{math.Inf(1), table.Len() - 1},
	}
	for _, tt := range tests {
		if got := table.Index(tt.value); got != tt.want {
			t.Errorf("Index(%v) = %d, want %d", tt.value, got, tt.want)
		}
	}

	for _, maxValue := range []float64{math.NaN(), math.Inf(1)} {
		if got := Build(Default(), maxValue, "#FFFFFF").Len(); got != 1 {
			t.Errorf("Build(%v).Len() = %d, want 1", maxValue, got)
		}
	}
}

func TestScaleValidate(t *testing.T) {
	tests := []struct {
		name    string
		scale   Scale
		wantErr bool
	}{
		{"default", Default(), false},
		{"two points", Scale{{0, "#000000"}, {1, "#FFFFFF"}}, false},

		{"single", Scale{{0, "#000000"}}, true},
		{"not starting at zero", Scale{{0.1, "#000000"}, {1, "#FFFFFF"}}, true},
		{"not ending at one", Scale{{0, "#000000"}, {0.9, "#FFFFFF"}}, true},
		{"decreasing", Scale{{0, "#000000"}, {0.6, "#111111"}, {0.4, "#222222"}, {1, "#FFFFFF"}}, true},
		{"repeated threshold", Scale{{0, "#000000"}, {0.5, "#111111"}, {0.5, "#222222"}, {1, "#FFFFFF"}}, true},
		{"out of range", Scale{{0, "#000000"}, {1.5, "#111111"}, {1, "#FFFFFF"}}, true},
		{"bad color", Scale{{0, "black"}, {1, "#FFFFFF"}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.scale.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeInvalidColorScale) {
				t.Errorf("Validate() code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidColorScale)
			}
		})
	}
}

func TestParseScale(t *testing.T) {
	got, err := ParseScale("0:#ffffff, 0.2:#403C53 ,1:#C33D35")
	if err != nil {
		t.Fatalf("ParseScale() error = %v", err)
	}
	if got.String() != Default().String() {
		t.Errorf("ParseScale() = %s, want %s", got, Default())
	}

	for _, bad := range []string{"", "0:#FFFFFF", "0-#FFFFFF,1:#000000", "x:#FFFFFF,1:#000000"} {
		if _, err := ParseScale(bad); err == nil {
			t.Errorf("ParseScale(%q) error = nil, want error", bad)
		}
	}
}

func TestParseSpace(t *testing.T) {
	tests := []struct {
		in      string
		want    Space
		wantErr bool
	}{
		{"", RGB, false},
		{"RGB", RGB, false},
		{"lab", Lab, false},
		{"hcl", HCL, false},
		{"hsv", "", true},
	}
	for _, tt := range tests {
		got, err := ParseSpace(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseSpace(%q) = %v, %v, want %v, wantErr %v", tt.in, got, err, tt.want, tt.wantErr)
		}
	}
}
