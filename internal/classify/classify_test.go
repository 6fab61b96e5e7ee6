package classify

import (
	"testing"

	"github.com/dgallion1/tripgest/internal/doctext"
)

func TestClassify_KindWins(t *testing.T) {
	if got := Classify("| a | b |", doctext.BlockTable); got != doctext.TypeTable {
		t.Errorf("table kind: got %s", got)
	}
	// Kind beats text signals: a code block full of "must" stays code.
	if got := Classify("// must not fail", doctext.BlockCode); got != doctext.TypeCode {
		t.Errorf("code kind: got %s", got)
	}
}

func TestClassify_Constraints(t *testing.T) {
	cases := []string{
		"Visitors must carry a permit at all times.",
		"Reservations required for the summit trail.",
		"No drones allowed in the park.",
		"Do not feed the wildlife.",
		"The museum closes at 17:00 on weekdays.",
		"Last entry is 45 minutes before closing.",
		"Seasonally closed from November through March.",
		"Adults only after 20:00.",
		"Photography is prohibited inside the shrine.",
	}
	for _, text := range cases {
		if got := Classify(text, doctext.BlockParagraph); got != doctext.TypeConstraint {
			t.Errorf("%q: expected constraint, got %s", text, got)
		}
	}
}

func TestClassify_Facts(t *testing.T) {
	cases := []string{
		"The trail is 7.5 km long with 400 meters of climbing.",
		"The ferry leaves at 8:30 and the crossing takes 40 minutes.",
		"Entry costs $12 for adults.",
		"The summit sits at an elevation of 2100 feet.",
		"Drive time from the airport is about an hour.",
		"The old town has a population of 40000.",
	}
	for _, text := range cases {
		if got := Classify(text, doctext.BlockParagraph); got != doctext.TypeFact {
			t.Errorf("%q: expected fact, got %s", text, got)
		}
	}
}

func TestClassify_ConstraintBeatsFact(t *testing.T) {
	// Carries both a figure and a rule; the rule wins.
	text := "Permits required for groups larger than 10 people."
	if got := Classify(text, doctext.BlockParagraph); got != doctext.TypeConstraint {
		t.Errorf("expected constraint to outrank fact, got %s", got)
	}
}

func TestClassify_NarrativeDefault(t *testing.T) {
	cases := []string{
		"The harbor glows at dusk while fishermen mend their nets.",
		"We wandered the alleys and found a tiny bakery.",
		"",
		"   ",
	}
	for _, text := range cases {
		if got := Classify(text, doctext.BlockParagraph); got != doctext.TypeNarrative {
			t.Errorf("%q: expected narrative, got %s", text, got)
		}
	}
}

func TestClassify_CaseInsensitive(t *testing.T) {
	if got := Classify("PERMITS REQUIRED BEYOND THIS POINT.", doctext.BlockParagraph); got != doctext.TypeConstraint {
		t.Errorf("uppercase constraint missed: got %s", got)
	}
}
