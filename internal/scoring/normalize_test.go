package scoring

import "testing"

func TestNormalize(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"lowercases", "DRIVER LICENSE", "driver license"},
		{"collapses whitespace", "driver\n\t license   class\tC", "driver license class c"},
		{"trims ends", "  dmv  ", "dmv"},
		{"whitespace only", " \n\t ", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Normalize(tc.in); got != tc.want {
				t.Fatalf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestNormalizeNeverGrows(t *testing.T) {
	inputs := []string{"", "A B", "DRIVER\n\nLICENSE", "  x  ", "CLASS C DOB 01/02/1990"}
	for _, in := range inputs {
		if got := Normalize(in); len(got) > len(in) {
			t.Fatalf("Normalize(%q) grew from %d to %d bytes", in, len(in), len(got))
		}
	}
}
