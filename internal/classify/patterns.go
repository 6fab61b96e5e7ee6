package classify

import (
	"regexp"
	"strings"
)

// Signal phrase tables for travel content. Compiled once at init into
// two case-insensitive alternation patterns; read-only afterward.

// constraintPatterns flag rules a traveler has to obey: obligation and
// prohibition modals, access restrictions, operating hours and
// seasonality.
var constraintPatterns = []string{
	`\bmust(\s+not)?\b`,
	`\bshall\s+not\b`,
	`\brequired?\b`,
	`\brequires\b`,
	`\bmandatory\b`,
	`\bprohibited\b`,
	`\bforbidden\b`,
	`\bnot\s+(allowed|permitted)\b`,
	`\bdo\s+not\b`,
	`\bdon'?t\b`,
	`\bno\s+(entry|access|parking|pets|photography|camping|drones?)\b`,
	`\bpermit(s)?\s+(required|only)\b`,
	`\breservations?\s+(required|only|needed)\b`,
	`\bbooking\s+(required|essential)\b`,
	`\bticket(s)?\s+(required|only)\b`,
	`\brestricted\b`,
	`\bmembers?\s+only\b`,
	`\badults?\s+only\b`,
	`\bage\s+limit\b`,
	`\bcurfew\b`,
	`\bclos(es?|ed|ing)\b`,
	`\bopen(s|ing)?\s+(at|from|until|daily|hours)\b`,
	`\b(opening|operating|visiting)\s+hours\b`,
	`\blast\s+entry\b`,
	`\bcheck-?in\s+(before|after|by)\b`,
	`\bonly\s+open\b`,
	`\bseasonal(ly)?\s+closed\b`,
	`\bclosed\s+(in|on|from|until|during)\b`,
	`\bavailable\s+only\b`,
	`\bbefore\s+(sunset|sunrise|dark)\b`,
}

// factPatterns flag concrete figures: clock times, distance and
// duration units, money, coordinates, drive times.
var factPatterns = []string{
	`\b\d{1,2}:\d{2}\b`,
	`\b\d{1,2}(:\d{2})?\s*(am|pm)\b`,
	`\b\d+(\.\d+)?\s*(km|kilometers?|kilometres?|miles?|mi)\b`,
	`\b\d+(\.\d+)?\s*(meters?|metres?|ft|feet)\b`,
	`\b\d+(\.\d+)?\s*(minutes?|mins?|hours?|hrs?|days?|nights?)\b`,
	`[$€£¥]\s*\d`,
	`\b\d+(\.\d+)?\s*(usd|eur|gbp|jpy|dollars?|euros?|pounds?)\b`,
	`\b-?\d{1,3}\.\d{3,}\s*,\s*-?\d{1,3}\.\d{3,}\b`,
	`\bdrive\s+time\b`,
	`\b\d+\s*(km|mi)/h\b`,
	`\belevation\b`,
	`\bpopulation\b`,
}

var (
	constraintRE = compileAny(constraintPatterns)
	factRE       = compileAny(factPatterns)
)

func compileAny(patterns []string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)(` + strings.Join(patterns, "|") + `)`)
}
