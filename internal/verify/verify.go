// Package verify re-checks assignments against the eligibility rule and tallies
// how they are spread across projects and case studies. It only reports; it
// never changes or drops an assignment.
package verify

import (
	"fmt"

	"github.com/dyluth/allot/internal/assign"
	"github.com/dyluth/allot/internal/roster"
)

// Status is the classification of a single assignment.
type Status string

const (
	StatusOK             Status = "ok"
	StatusOwnProject     Status = "violation-own-project"
	StatusSameCaseStudy  Status = "violation-same-case-study"
	StatusUnknownProject Status = "unknown-project"
)

// IsViolation is true for statuses that break the eligibility rule.
func (s Status) IsViolation() bool {
	return s == StatusOwnProject || s == StatusSameCaseStudy
}

// Verdict pairs an assignment with its classification.
type Verdict struct {
	Assignment assign.Assignment
	Owner      string // Owner group of the assigned project, empty if unknown
	Status     Status
}

// Message renders the verdict as a console line.
func (v Verdict) Message() string {
	a := v.Assignment
	switch v.Status {
	case StatusOwnProject:
		return fmt.Sprintf("Error: %s from %s was assigned their own group's project: %s",
			a.Student, a.OriginalGroup, a.AssignedProject)
	case StatusSameCaseStudy:
		return fmt.Sprintf("Error: %s from %s was assigned a project with the same case study: %s",
			a.Student, a.OriginalGroup, a.AssignedCaseStudy)
	case StatusUnknownProject:
		return fmt.Sprintf("Error: %s from %s was assigned %s, which is not in the project list",
			a.Student, a.OriginalGroup, a.AssignedProject)
	default:
		return fmt.Sprintf("OK: %s from %s (Case study: %s) was assigned %s (Case study: %s)",
			a.Student, a.OriginalGroup, a.OriginalCaseStudy, a.AssignedProject, a.AssignedCaseStudy)
	}
}

// Check classifies every assignment. The assigned project's owner is found by
// scanning projects for the first record with a matching name. An own-project
// violation is reported ahead of a same-case-study one.
func Check(assignments []assign.Assignment, projects []roster.Project) []Verdict {
	verdicts := make([]Verdict, 0, len(assignments))
	for _, a := range assignments {
		verdicts = append(verdicts, classify(a, projects))
	}
	return verdicts
}

func classify(a assign.Assignment, projects []roster.Project) Verdict {
	v := Verdict{Assignment: a}

	owner, ok := ownerOf(a.AssignedProject, projects)
	switch {
	case !ok:
		v.Status = StatusUnknownProject
	case owner == a.OriginalGroup:
		v.Owner = owner
		v.Status = StatusOwnProject
	case a.AssignedCaseStudy == a.OriginalCaseStudy:
		v.Owner = owner
		v.Status = StatusSameCaseStudy
	default:
		v.Owner = owner
		v.Status = StatusOK
	}
	return v
}

func ownerOf(project string, projects []roster.Project) (string, bool) {
	for _, p := range projects {
		if p.Name == project {
			return p.OwnerGroup, true
		}
	}
	return "", false
}

// Summary totals verdicts by status.
type Summary struct {
	Total      int
	OK         int
	Violations int
	Unknown    int
	ByStatus   map[Status]int
}

// Summarize counts verdicts per status.
func Summarize(verdicts []Verdict) Summary {
	s := Summary{Total: len(verdicts), ByStatus: make(map[Status]int)}
	for _, v := range verdicts {
		s.ByStatus[v.Status]++
		switch {
		case v.Status == StatusOK:
			s.OK++
		case v.Status.IsViolation():
			s.Violations++
		case v.Status == StatusUnknownProject:
			s.Unknown++
		}
	}
	return s
}
