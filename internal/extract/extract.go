// Package extract pulls company attributes out of a free-text profile description.
//
// Every rule runs against the same description string; no rule sees another
// rule's match, so the order of Rules only affects iteration, never results.
package extract

import (
	"regexp"

	"github.com/jonathan/company-scraper/internal/types"
)

// Field names an attribute populated by a rule.
type Field string

const (
	// FieldFoundedYear is the four-digit founding year.
	FieldFoundedYear Field = "foundedYear"
	// FieldFounders is the founder text up to the first comma.
	FieldFounders Field = "founders"
	// FieldEmployeeCount is the number of employees.
	FieldEmployeeCount Field = "employeeCount"
	// FieldLocation is the headquarters location.
	FieldLocation Field = "location"
	// FieldHiring is the number of open roles.
	FieldHiring Field = "hiring"
)

// Rule maps a description to an optional value. A nil result means no match.
type Rule func(description string) *string

// FieldRule pairs a field with the rule that populates it.
type FieldRule struct {
	Field Field
	Rule  Rule
}

var (
	foundedYearPattern   = regexp.MustCompile(`Founded in (\d{4})`)
	foundersPattern      = regexp.MustCompile(`Founded in \d{4} by (.+?),`)
	employeeCountPattern = regexp.MustCompile(`has (\d+) employees`)
	locationPattern      = regexp.MustCompile(`based in ([^,.]+)`)
	hiringPattern        = regexp.MustCompile(`hiring for (\d+) roles`)
)

// Rules returns the attribute rules in output order.
//
// The founders rule stops at the first comma, so "by A, B, and C" yields "A".
func Rules() []FieldRule {
	return []FieldRule{
		{Field: FieldFounders, Rule: FirstGroup(foundersPattern)},
		{Field: FieldFoundedYear, Rule: FirstGroup(foundedYearPattern)},
		{Field: FieldEmployeeCount, Rule: FirstGroup(employeeCountPattern)},
		{Field: FieldLocation, Rule: FirstGroup(locationPattern)},
		{Field: FieldHiring, Rule: FirstGroup(hiringPattern)},
	}
}

// FirstGroup builds a rule returning the first capture group of the leftmost match.
func FirstGroup(re *regexp.Regexp) Rule {
	return func(description string) *string {
		m := re.FindStringSubmatch(description)
		if len(m) < 2 {
			return nil
		}
		return types.StringPtr(m[1])
	}
}

// Extract applies every rule to description and returns the resulting record.
// Description is always set, even when empty.
func Extract(description string) types.AttributeRecord {
	return ExtractWith(description, Rules())
}

// ExtractWith applies the given rules to description.
func ExtractWith(description string, rules []FieldRule) types.AttributeRecord {
	record := types.AttributeRecord{Description: types.StringPtr(description)}
	for _, fr := range rules {
		set(&record, fr.Field, fr.Rule(description))
	}
	return record
}

func set(record *types.AttributeRecord, field Field, value *string) {
	switch field {
	case FieldFoundedYear:
		record.FoundedYear = value
	case FieldFounders:
		record.Founders = value
	case FieldEmployeeCount:
		record.EmployeeCount = value
	case FieldLocation:
		record.Location = value
	case FieldHiring:
		record.Hiring = value
	}
}
