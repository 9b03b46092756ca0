package verify

import "github.com/dyluth/allot/internal/assign"

// Count is one key of a frequency table.
type Count struct {
	Key   string
	Count int
}

// Counts is a frequency table ordered by first occurrence.
type Counts []Count

// Get returns the count for key, or 0.
func (c Counts) Get(key string) int {
	for _, entry := range c {
		if entry.Key == key {
			return entry.Count
		}
	}
	return 0
}

// Total sums all counts.
func (c Counts) Total() int {
	total := 0
	for _, entry := range c {
		total += entry.Count
	}
	return total
}

// Distribution counts assignments per project and per case study.
func Distribution(assignments []assign.Assignment) (projects, caseStudies Counts) {
	projects = tally(assignments, func(a assign.Assignment) string { return a.AssignedProject })
	caseStudies = tally(assignments, func(a assign.Assignment) string { return a.AssignedCaseStudy })
	return projects, caseStudies
}

func tally(assignments []assign.Assignment, key func(assign.Assignment) string) Counts {
	index := make(map[string]int)
	var counts Counts
	for _, a := range assignments {
		k := key(a)
		i, ok := index[k]
		if !ok {
			i = len(counts)
			index[k] = i
			counts = append(counts, Count{Key: k})
		}
		counts[i].Count++
	}
	return counts
}
