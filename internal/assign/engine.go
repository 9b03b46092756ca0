package assign

import (
	"fmt"
	"math/rand/v2"

	"github.com/dyluth/allot/internal/roster"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Engine assigns every student a project that neither their group owns nor
// shares their group's case study. Draws are independent and with replacement,
// so several students may end up on the same project.
type Engine struct {
	rng    *rand.Rand
	seed   uint64
	policy Policy
	logger *zap.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithSeed seeds the engine's PCG source so that runs can be replayed.
func WithSeed(seed uint64) Option {
	return func(e *Engine) {
		e.seed = seed
		e.rng = newRand(seed)
	}
}

// WithRand supplies the random source directly. The reported seed is left at 0.
func WithRand(r *rand.Rand) Option {
	return func(e *Engine) {
		e.rng = r
	}
}

// WithPolicy selects what happens when a group has fewer eligible projects than students.
func WithPolicy(p Policy) Option {
	return func(e *Engine) {
		e.policy = p
	}
}

// WithLogger attaches a structured logger for per-group diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// New creates an engine. Without WithSeed or WithRand a random seed is drawn,
// and it is reported on every Result.
func New(opts ...Option) *Engine {
	e := &Engine{
		policy: PolicyWiden,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.seed = rand.Uint64()
		e.rng = newRand(e.seed)
	}
	return e
}

// Seed returns the seed the engine's source was created from.
func (e *Engine) Seed() uint64 {
	return e.seed
}

// Run computes one assignment per student, or a Failure for students that
// cannot be placed. Assignments follow the shuffled group order, then the
// students' file order.
func (e *Engine) Run(students []roster.Student, projects []roster.Project) *Result {
	result := &Result{
		RunID:   uuid.NewString(),
		Seed:    e.seed,
		Policy:  e.policy,
		Widened: make(map[string]bool),
	}

	groups := roster.Groups(students)
	owned := ownProjects(projects, result)

	e.rng.Shuffle(len(groups), func(i, j int) {
		groups[i], groups[j] = groups[j], groups[i]
	})

	for _, g := range groups {
		result.GroupOrder = append(result.GroupOrder, g.Group)

		own, ok := owned[g.Group]
		if !ok {
			result.warn(g.Group, WarningNoOwnProject, "group owns no project; its case study is unknown")
		}

		candidates := Eligible(g.Group, own.CaseStudy, projects)
		log := e.logger.With(
			zap.String("group", g.Group),
			zap.String("case_study", own.CaseStudy),
			zap.Int("students", len(g.Students)),
			zap.Int("eligible", len(candidates)),
		)

		if len(candidates) < len(g.Students) {
			detail := fmt.Sprintf("not enough suitable projects for all students in %s (%d eligible, %d students)",
				g.Group, len(candidates), len(g.Students))
			if e.policy == PolicyWiden {
				candidates = projects
				result.Widened[g.Group] = true
				detail += "; falling back to all projects"
			}
			result.warn(g.Group, WarningTooFewEligible, detail)
			log.Warn("Too few eligible projects", zap.Stringer("policy", e.policy), zap.Int("candidates", len(candidates)))
		} else {
			log.Debug("Assigning group")
		}

		for _, s := range g.Students {
			if len(candidates) == 0 {
				result.Failures = append(result.Failures, Failure{
					Student: s.Name,
					Group:   g.Group,
					Reason:  ReasonNoSuitableProject,
				})
				log.Warn("No suitable project", zap.String("student", s.Name))
				continue
			}

			p := candidates[e.rng.IntN(len(candidates))]
			result.Assignments = append(result.Assignments, Assignment{
				Student:           s.Name,
				OriginalGroup:     g.Group,
				OriginalCaseStudy: own.CaseStudy,
				AssignedProject:   p.Name,
				AssignedCaseStudy: p.CaseStudy,
			})
		}
	}

	return result
}

// Eligible returns the projects a member of group may work on: owned by another
// group and tagged with a different case study. File order is preserved.
func Eligible(group, caseStudy string, projects []roster.Project) []roster.Project {
	var eligible []roster.Project
	for _, p := range projects {
		if p.OwnerGroup != group && p.CaseStudy != caseStudy {
			eligible = append(eligible, p)
		}
	}
	return eligible
}

// ownProjects maps each group to the project it owns. When a group owns several
// projects the last record wins and a warning is recorded.
func ownProjects(projects []roster.Project, result *Result) map[string]roster.Project {
	owned := make(map[string]roster.Project, len(projects))
	for _, p := range projects {
		if prev, ok := owned[p.OwnerGroup]; ok {
			result.warn(p.OwnerGroup, WarningMultipleOwnProjects,
				fmt.Sprintf("group owns both %q and %q; using %q", prev.Name, p.Name, p.Name))
		}
		owned[p.OwnerGroup] = p
	}
	return owned
}

func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
