package report

import (
	"fmt"
	"slices"

	"github.com/dyluth/allot/internal/assign"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortByStudent sorts assignments in place by student name using the
// collation rules of locale, ignoring case and diacritics. Ties keep their
// current order.
func SortByStudent(assignments []assign.Assignment, locale string) error {
	tag := language.Und
	if locale != "" {
		var err error
		tag, err = language.Parse(locale)
		if err != nil {
			return fmt.Errorf("invalid locale %q: %w", locale, err)
		}
	}

	c := collate.New(tag, collate.IgnoreCase, collate.IgnoreDiacritics)
	slices.SortStableFunc(assignments, func(a, b assign.Assignment) int {
		return c.CompareString(a.Student, b.Student)
	})
	return nil
}
