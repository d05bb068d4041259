package invite

import (
	"strings"
	"testing"
	"time"
)

func TestGenerate(t *testing.T) {
	t.Parallel()

	start := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	end := time.Date(2024, 6, 1, 10, 40, 0, 0, time.UTC)

	got := string(Generate(start, end))

	for _, want := range []string{
		"DTSTART:20240601T090000Z",
		"DTEND:20240601T104000Z",
		"BEGIN:VEVENT",
		"END:VCALENDAR",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("invite missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "{{") {
		t.Errorf("invite has unexpanded placeholders:\n%s", got)
	}
}

func TestGenerateStableUID(t *testing.T) {
	t.Parallel()

	start := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	end := start.Add(100 * time.Minute)

	a := string(Generate(start, end))
	b := string(Generate(start, end))
	if a != b {
		t.Error("same period should produce the same invite")
	}

	c := string(Generate(start, end.Add(40*time.Minute)))
	if a == c {
		t.Error("different periods should produce different uids")
	}
}

func TestGenerateNormalizesToUTC(t *testing.T) {
	t.Parallel()

	paris := time.FixedZone("CEST", 2*60*60)
	start := time.Date(2024, 6, 1, 11, 0, 0, 0, paris)

	got := string(Generate(start, start.Add(40*time.Minute)))
	if !strings.Contains(got, "DTSTART:20240601T090000Z") {
		t.Errorf("timestamps should be rendered in UTC:\n%s", got)
	}
}
