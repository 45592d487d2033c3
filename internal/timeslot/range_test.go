package timeslot

import "testing"

func TestValidate(t *testing.T) {
	cases := []struct {
		text string
		want bool
	}{
		{"10:00 AM - 11:00 AM", true},
		{"09:00 AM - 05:00 PM", true},
		{"9:00 AM - 5:00 PM", true},
		{"12:00 PM - 12:30 PM", true},
		{"10:00 - 11:00", false},
		{"10:00 AM", false},
		{"10:00 AM - 11:00 AM - 12:00 PM", false},
		{"25:00 AM - 11:00 AM", false},
		{"10:61 AM - 11:00 AM", false},
		{"hello - world", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := Validate(tc.text); got != tc.want {
			t.Errorf("Validate(%q) = %v, want %v", tc.text, got, tc.want)
		}
	}
}

func TestParseRangeMinutes(t *testing.T) {
	r, err := ParseRange("10:00 AM - 10:30 AM")
	if err != nil {
		t.Fatalf("ParseRange: %v", err)
	}
	if r.Start != 600 || r.End != 630 {
		t.Fatalf("got %+v, want start 600 end 630", r)
	}

	r, err = ParseRange("12:00 AM - 11:59 PM")
	if err != nil {
		t.Fatalf("ParseRange: %v", err)
	}
	if r.Start != 0 || r.End != 23*60+59 {
		t.Fatalf("got %+v, want midnight to 23:59", r)
	}
}

func TestRangeString(t *testing.T) {
	r := Range{Start: 9 * 60, End: 9*60 + 30}
	if got := r.String(); got != "09:00 AM - 09:30 AM" {
		t.Fatalf("String() = %q", got)
	}
	// Round-trips through the parser.
	if !Validate(r.String()) {
		t.Fatal("formatted range must validate")
	}
}

func TestOverlaps(t *testing.T) {
	a := Range{Start: 600, End: 660} // 10:00 - 11:00
	b := Range{Start: 630, End: 690} // 10:30 - 11:30
	c := Range{Start: 660, End: 720} // 11:00 - 12:00

	if !a.Overlaps(b) || !b.Overlaps(a) {
		t.Fatal("intersecting ranges must overlap symmetrically")
	}
	if a.Overlaps(c) || c.Overlaps(a) {
		t.Fatal("touching endpoints must not overlap")
	}
	if !a.Overlaps(a) {
		t.Fatal("a nondegenerate range overlaps itself")
	}

	inner := Range{Start: 615, End: 630}
	if !a.Overlaps(inner) || !inner.Overlaps(a) {
		t.Fatal("containment is overlap")
	}
}
