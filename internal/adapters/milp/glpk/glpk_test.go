package glpk_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/fantrip/internal/adapters/milp/glpk"
	"github.com/okian/fantrip/internal/domain/costmatrix"
	"github.com/okian/fantrip/internal/domain/feasibility"
	"github.com/okian/fantrip/internal/domain/formulation"
	"github.com/okian/fantrip/internal/domain/itinerary"
	"github.com/okian/fantrip/internal/domain/milp"
	"github.com/okian/fantrip/internal/testutil"
)

// chain builds s -> a -> b -> s with a shortcut s -> b. Covering a forces
// the long way round.
func chain(coverA bool) *milp.Model {
	m := milp.NewModel("chain")
	sa := m.AddBinary("x_s_a", 1)
	ab := m.AddBinary("x_a_b", 3)
	sb := m.AddBinary("x_s_b", 1)
	bs := m.AddBinary("x_b_s", 1)

	m.AddConstraint(milp.Constraint{Name: "flow_a", Sense: milp.Equal,
		Terms: []milp.Term{{Var: ab, Coef: 1}, {Var: sa, Coef: -1}}})
	m.AddConstraint(milp.Constraint{Name: "flow_b", Sense: milp.Equal,
		Terms: []milp.Term{{Var: bs, Coef: 1}, {Var: ab, Coef: -1}, {Var: sb, Coef: -1}}})
	m.AddConstraint(milp.Constraint{Name: "out_s", Sense: milp.LessEqual, RHS: 1,
		Terms: []milp.Term{{Var: sa, Coef: 1}, {Var: sb, Coef: 1}}})
	m.AddConstraint(milp.Constraint{Name: "cover_b", Sense: milp.GreaterEqual, RHS: 1,
		Terms: []milp.Term{{Var: ab, Coef: 1}, {Var: sb, Coef: 1}}})
	if coverA {
		m.AddConstraint(milp.Constraint{Name: "cover_a", Sense: milp.GreaterEqual, RHS: 1,
			Terms: []milp.Term{{Var: sa, Coef: 1}}})
	}
	return m
}

func TestSolver_Solve(t *testing.T) {
	convey.Convey("Given a GLPK solver", t, func() {
		ctx := context.Background()
		s := glpk.New()

		convey.Convey("When only b must be covered", func() {
			sol, err := s.Solve(ctx, chain(false))

			convey.Convey("Then the shortcut is taken", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(sol.Status, convey.ShouldEqual, milp.StatusOptimal)
				convey.So(sol.Objective, convey.ShouldAlmostEqual, 2, milp.Tolerance)
				convey.So(sol.Selected, convey.ShouldResemble, []bool{false, false, true, true})
			})
		})

		convey.Convey("When a must be covered as well", func() {
			m := chain(true)
			sol, err := s.Solve(ctx, m)

			convey.Convey("Then the path runs through a", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(sol.Optimal(), convey.ShouldBeTrue)
				convey.So(sol.Objective, convey.ShouldAlmostEqual, 5, milp.Tolerance)
				obj, ok := m.Evaluate(sol.Selected)
				convey.So(ok, convey.ShouldBeTrue)
				convey.So(obj, convey.ShouldAlmostEqual, sol.Objective, milp.Tolerance)
			})
		})

		convey.Convey("When the constraints contradict each other", func() {
			m := milp.NewModel("contradiction")
			x := m.AddBinary("x", 1)
			m.AddConstraint(milp.Constraint{Name: "ge", Sense: milp.GreaterEqual, RHS: 1,
				Terms: []milp.Term{{Var: x, Coef: 1}}})
			m.AddConstraint(milp.Constraint{Name: "le", Sense: milp.LessEqual, RHS: 0,
				Terms: []milp.Term{{Var: x, Coef: 1}}})

			sol, err := s.Solve(ctx, m)

			convey.Convey("Then no optimum is reported", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(sol.Optimal(), convey.ShouldBeFalse)
				convey.So(sol.Selected, convey.ShouldBeNil)
			})
		})

		convey.Convey("When presolve is disabled and solves are serialized", func() {
			s := glpk.New(glpk.WithPresolve(false), glpk.WithSerialized(true))
			sol, err := s.Solve(ctx, chain(true))

			convey.Convey("Then the same optimum is found", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(sol.Objective, convey.ShouldAlmostEqual, 5, milp.Tolerance)
			})
		})

		convey.Convey("When a constraint references an unknown variable", func() {
			m := milp.NewModel("broken")
			m.AddBinary("x", 1)
			m.AddConstraint(milp.Constraint{Name: "bad", Sense: milp.LessEqual, RHS: 1,
				Terms: []milp.Term{{Var: 3, Coef: 1}}})

			_, err := s.Solve(ctx, m)

			convey.Convey("Then the model is rejected before reaching GLPK", func() {
				convey.So(errors.Is(err, glpk.ErrInvalidModel), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the context is already cancelled", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()

			_, err := s.Solve(cctx, chain(false))

			convey.Convey("Then the cancellation is returned", func() {
				convey.So(errors.Is(err, context.Canceled), convey.ShouldBeTrue)
			})
		})
	})
}

func abcProblem(t *testing.T, hours int) *formulation.Problem {
	t.Helper()
	ds := testutil.ABC()
	events := ds.AwayEvents(testutil.Visitors)
	durations, err := costmatrix.Driving(events, ds.Duration)
	if err != nil {
		t.Fatal(err)
	}
	p, err := formulation.Formulate(formulation.Input{
		Events:    events,
		Hours:     hours,
		Durations: durations,
		Costs:     costmatrix.TripDuration(events, time.UTC),
		Matchups:  costmatrix.BuildMatchups(events),
		Targets:   []string{testutil.HomeA, testutil.HomeB, testutil.HomeC},
		Rule:      feasibility.NewRule(),
	})
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func TestSolver_SolveTrip(t *testing.T) {
	convey.Convey("Given the ABC trip solved by GLPK", t, func() {
		ctx := context.Background()
		s := glpk.New()

		convey.Convey("When five driving hours a day are allowed", func() {
			p := abcProblem(t, 5)
			sol, err := s.Solve(ctx, p.Model)

			convey.Convey("Then the itinerary visits A, B and C for nine days", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(sol.Optimal(), convey.ShouldBeTrue)
				convey.So(sol.Objective, convey.ShouldAlmostEqual, 9, milp.Tolerance)

				it, err := itinerary.Extract(p, sol)
				convey.So(err, convey.ShouldBeNil)
				convey.So(it.EventIDs, convey.ShouldResemble, []string{"A", "B", "C"})
				convey.So(it.Format(), convey.ShouldEqual, "9\n5\nA\nB\nC\n")
			})
		})

		convey.Convey("When only four driving hours a day are allowed", func() {
			sol, err := s.Solve(ctx, abcProblem(t, 4).Model)

			convey.Convey("Then no optimum is reported", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(sol.Optimal(), convey.ShouldBeFalse)
			})
		})
	})
}
