package milp_test

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/fantrip/internal/domain/milp"
)

func TestModel_Evaluate(t *testing.T) {
	Convey("Given a pick-exactly-one model", t, func() {
		m := milp.NewModel("pick")
		a := m.AddBinary("a", 3)
		b := m.AddBinary("b", 5)
		m.AddConstraint(milp.Constraint{
			Name:  "one",
			Terms: []milp.Term{{Var: a, Coef: 1}, {Var: b, Coef: 1}},
			Sense: milp.Equal,
			RHS:   1,
		})

		Convey("Then variables are indexed in insertion order", func() {
			So(a, ShouldEqual, 0)
			So(b, ShouldEqual, 1)
			So(m.Name, ShouldEqual, "pick")
		})

		Convey("Then a feasible assignment reports its objective", func() {
			obj, ok := m.Evaluate([]bool{false, true})
			So(ok, ShouldBeTrue)
			So(obj, ShouldEqual, 5)
		})

		Convey("Then a violated constraint is reported", func() {
			_, ok := m.Evaluate([]bool{true, true})
			So(ok, ShouldBeFalse)
			_, ok = m.Evaluate([]bool{false, false})
			So(ok, ShouldBeFalse)
		})

		Convey("Then an assignment of the wrong length is rejected", func() {
			_, ok := m.Evaluate([]bool{true})
			So(ok, ShouldBeFalse)
		})
	})
}

func TestConstraint_Holds(t *testing.T) {
	tests := []struct {
		sense milp.Sense
		lhs   float64
		want  bool
	}{
		{milp.LessEqual, 1, true},
		{milp.LessEqual, 1 + milp.Tolerance/2, true},
		{milp.LessEqual, 2, false},
		{milp.GreaterEqual, 1, true},
		{milp.GreaterEqual, 0, false},
		{milp.Equal, 1, true},
		{milp.Equal, 0.999999, true},
		{milp.Equal, 2, false},
		{milp.Sense(9), 1, false},
	}
	for _, tt := range tests {
		t.Run(tt.sense.String(), func(t *testing.T) {
			c := milp.Constraint{Sense: tt.sense, RHS: 1}
			if got := c.Holds(tt.lhs); got != tt.want {
				t.Fatalf("%v 1 at %v = %v, want %v", tt.sense, tt.lhs, got, tt.want)
			}
		})
	}
}

func TestConstraint_Reachable(t *testing.T) {
	Convey("Given a constraint with RHS 1", t, func() {
		le := milp.Constraint{Sense: milp.LessEqual, RHS: 1}
		ge := milp.Constraint{Sense: milp.GreaterEqual, RHS: 1}
		eq := milp.Constraint{Sense: milp.Equal, RHS: 1}

		So(le.Reachable(0, 3), ShouldBeTrue)
		So(le.Reachable(2, 3), ShouldBeFalse)
		So(ge.Reachable(0, 1), ShouldBeTrue)
		So(ge.Reachable(-1, 0), ShouldBeFalse)
		So(eq.Reachable(0, 2), ShouldBeTrue)
		So(eq.Reachable(2, 3), ShouldBeFalse)
		So(eq.Reachable(-2, 0), ShouldBeFalse)
	})
}

func TestStatusStrings(t *testing.T) {
	Convey("Given the statuses and senses", t, func() {
		So(milp.StatusOptimal.String(), ShouldEqual, "optimal")
		So(milp.StatusInfeasible.String(), ShouldEqual, "infeasible")
		So(milp.StatusUnbounded.String(), ShouldEqual, "unbounded")
		So(milp.StatusOther.String(), ShouldEqual, "other")
		So(milp.Equal.String(), ShouldEqual, "=")
		So(milp.Sense(7).String(), ShouldEqual, "?")
		So(milp.Solution{Status: milp.StatusOptimal}.Optimal(), ShouldBeTrue)
		So(milp.Solution{Status: milp.StatusOther}.Optimal(), ShouldBeFalse)
	})
}

func TestIsOne(t *testing.T) {
	for v, want := range map[float64]bool{1: true, 0.999999998: true, 0: false, 0.5: false, 1.01: false} {
		if got := milp.IsOne(v); got != want {
			t.Errorf("IsOne(%v) = %v, want %v", v, got, want)
		}
	}
}
