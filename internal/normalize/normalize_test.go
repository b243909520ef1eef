package normalize

import "testing"

func TestParse(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		hint Hint
		want float64
		null bool
	}{
		{"dot thousands", "16.730.000", Hint{Sep: SepDot}, 16730000, false},
		{"comma thousands", "16,730,000", Hint{Sep: SepComma}, 16730000, false},
		{"per chi in thousands", "16,450", Hint{Sep: SepComma, PerChi: true, InThousands: true}, 164500000, false},
		{"currency suffix", "25.400 đ", Hint{Sep: SepDot}, 25400, false},
		{"vnd suffix", "85,500,000 VND", Hint{Sep: SepComma}, 85500000, false},
		{"mixed separators", "87,800.000", Hint{Sep: SepAny}, 87800000, false},
		{"decimal part with comma sep", "36,123.45", Hint{Sep: SepComma}, 36123.45, false},
		{"empty", "", Hint{Sep: SepDot}, 0, true},
		{"whitespace", "   ", Hint{Sep: SepComma}, 0, true},
		{"non numeric", "abc", Hint{}, 0, true},
		{"residue after strip", "12x34", Hint{Sep: SepDot}, 0, true},
	}

	for _, c := range cases {
		got := Parse(c.raw, c.hint)
		if c.null {
			if got != nil {
				t.Fatalf("%s: parse %q => %v, want nil", c.name, c.raw, *got)
			}
			continue
		}
		if got == nil {
			t.Fatalf("%s: parse %q => nil, want %v", c.name, c.raw, c.want)
		}
		if *got != c.want {
			t.Fatalf("%s: parse %q => %v, want %v", c.name, c.raw, *got, c.want)
		}
	}
}

func TestScale(t *testing.T) {
	cases := []struct {
		name string
		v    float64
		hint Hint
		want float64
	}{
		{"stock under threshold", 25.4, Hint{ThousandsThreshold: 500}, 25400},
		{"stock over threshold", 680, Hint{ThousandsThreshold: 500}, 680},
		{"fund nav under threshold", 36.5, Hint{ThousandsThreshold: 1000}, 36500},
		{"no heuristic", 25.4, Hint{}, 25.4},
		{"per chi then thousands", 8200, Hint{PerChi: true, InThousands: true}, 82000000},
		{"zero not scaled", 0, Hint{ThousandsThreshold: 500}, 0},
	}

	for _, c := range cases {
		got := Scale(c.v, c.hint)
		if got != c.want {
			t.Fatalf("%s: scale %v => %v, want %v", c.name, c.v, got, c.want)
		}
	}
}
