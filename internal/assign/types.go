// Package assign places students on projects outside their own group and case study.
package assign

import (
	"fmt"
	"strings"

	"github.com/dyluth/allot/internal/roster"
)

// Policy decides what the engine does when a group has fewer eligible
// projects than students.
type Policy int

const (
	// PolicyWiden falls back to the full project list for that group.
	// The fallback can hand out a group's own project or case study again.
	PolicyWiden Policy = iota

	// PolicyStrict keeps the filtered list. Students are still drawn with
	// replacement, so a short list only matters when it is empty.
	PolicyStrict
)

func (p Policy) String() string {
	switch p {
	case PolicyWiden:
		return "widen"
	case PolicyStrict:
		return "strict"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

// ParsePolicy converts a policy name ("widen" or "strict") to a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "widen", "":
		return PolicyWiden, nil
	case "strict":
		return PolicyStrict, nil
	default:
		return PolicyWiden, fmt.Errorf("unknown fallback policy: %s (must be 'widen' or 'strict')", s)
	}
}

// Assignment is one student's assigned project. OriginalCaseStudy is the case
// study of the project the student's group owns.
type Assignment struct {
	Student           string `json:"student"`
	OriginalGroup     string `json:"original_group"`
	OriginalCaseStudy string `json:"original_case_study"`
	AssignedProject   string `json:"assigned_project"`
	AssignedCaseStudy string `json:"assigned_case_study"`
}

// ReasonNoSuitableProject is the Failure reason when the candidate list is empty.
const ReasonNoSuitableProject = "no suitable project"

// Failure records a student the engine could not place.
type Failure struct {
	Student string `json:"student"`
	Group   string `json:"group"`
	Reason  string `json:"reason"`
}

// WarningKind classifies a non-fatal condition met during a run.
type WarningKind string

const (
	WarningTooFewEligible      WarningKind = "too-few-eligible"
	WarningNoOwnProject        WarningKind = "no-own-project"
	WarningMultipleOwnProjects WarningKind = "multiple-own-projects"
)

// Warning is a non-fatal condition tied to a group.
type Warning struct {
	Group  string      `json:"group"`
	Kind   WarningKind `json:"kind"`
	Detail string      `json:"detail"`
}

// Result is the outcome of one engine run.
type Result struct {
	RunID       string
	Seed        uint64
	Policy      Policy
	GroupOrder  []string // Shuffled order the groups were processed in
	Assignments []Assignment
	Failures    []Failure
	Warnings    []Warning
	Widened     map[string]bool // Groups that fell back to the full project list
}

func (r *Result) warn(group string, kind WarningKind, detail string) {
	r.Warnings = append(r.Warnings, Warning{Group: group, Kind: kind, Detail: detail})
}

// Placed reports whether student received an assignment.
func (r *Result) Placed(student string) bool {
	for _, a := range r.Assignments {
		if a.Student == student {
			return true
		}
	}
	return false
}

// Reconciliation compares the input roster with a result.
type Reconciliation struct {
	Students int
	Assigned int
	Failed   int
	Missing  []string // Students with neither an assignment nor a failure
	Doubled  []string // Students with more than one outcome
}

// OK is true when every student has exactly one outcome.
func (rc Reconciliation) OK() bool {
	return len(rc.Missing) == 0 && len(rc.Doubled) == 0
}

// Reconcile checks that every student has exactly one assignment or failure.
// Students are matched by name and group.
func (r *Result) Reconcile(students []roster.Student) Reconciliation {
	outcomes := make(map[roster.Student]int, len(students))
	for _, a := range r.Assignments {
		outcomes[roster.Student{Name: a.Student, Group: a.OriginalGroup}]++
	}
	for _, f := range r.Failures {
		outcomes[roster.Student{Name: f.Student, Group: f.Group}]++
	}

	expected := make(map[roster.Student]int, len(students))
	for _, s := range students {
		expected[s]++
	}

	rc := Reconciliation{
		Students: len(students),
		Assigned: len(r.Assignments),
		Failed:   len(r.Failures),
	}
	for _, s := range students {
		want, got := expected[s], outcomes[s]
		if want == 0 {
			continue
		}
		switch {
		case got < want:
			rc.Missing = append(rc.Missing, s.Name)
		case got > want:
			rc.Doubled = append(rc.Doubled, s.Name)
		}
		// Report each duplicated roster entry once
		expected[s] = 0
	}
	return rc
}
