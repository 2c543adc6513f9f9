// Package glpk solves milp models with the GNU Linear Programming Kit.
package glpk

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/lukpank/go-glpk/glpk"

	"github.com/okian/fantrip/internal/domain/milp"
	"github.com/okian/fantrip/pkg/logger"
	"github.com/okian/fantrip/pkg/metrics"
)

// global guards GLPK when solves are serialized.
var global sync.Mutex

// Solver adapts GLPK's branch-and-cut to milp.Solver.
type Solver struct {
	serialized bool
	presolve   bool
}

var _ milp.Solver = (*Solver)(nil)

// New creates a Solver.
func New(opts ...Option) *Solver {
	s := &Solver{presolve: true}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Solve builds m as a GLPK problem and runs the integer optimizer.
// Anything other than a proven optimum is returned as a non-optimal status.
func (s *Solver) Solve(ctx context.Context, m *milp.Model) (milp.Solution, error) {
	if m == nil {
		return milp.Solution{}, fmt.Errorf("%w: nil model", ErrInvalidModel)
	}
	if err := validate(m); err != nil {
		return milp.Solution{}, err
	}
	if err := ctx.Err(); err != nil {
		return milp.Solution{}, err
	}

	if s.serialized {
		global.Lock()
		defer global.Unlock()
	}
	// GLPK keeps its environment in thread-local storage.
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	metrics.RecordModelSize(len(m.Vars), len(m.Constraints))
	start := time.Now()

	lp := glpk.New()
	defer lp.Delete()
	load(lp, m)

	iocp := glpk.NewIocp()
	iocp.SetPresolve(s.presolve)
	iocp.SetMsgLev(glpk.MsgLev(glpk.MSG_ERR))

	if !s.presolve {
		// Without presolve the integer optimizer needs an optimal LP basis.
		smcp := glpk.NewSmcp()
		smcp.SetMsgLev(glpk.MsgLev(glpk.MSG_ERR))
		if err := lp.Simplex(smcp); err != nil {
			logger.Get().Debug(ctx, "glpk simplex stopped",
				logger.String("model", m.Name), logger.Error(err))
			return milp.Solution{Status: milp.StatusOther}, nil
		}
	}

	if err := lp.Intopt(iocp); err != nil {
		// Presolve reports an infeasible relaxation as an error.
		logger.Get().Debug(ctx, "glpk intopt stopped",
			logger.String("model", m.Name), logger.Error(err))
		return milp.Solution{Status: milp.StatusOther}, nil
	}

	sol := milp.Solution{Status: status(lp.MipStatus())}
	logger.Get().Debug(ctx, "glpk solved",
		logger.String("model", m.Name),
		logger.String("status", sol.Status.String()),
		logger.Bool("presolve", s.presolve),
		logger.Duration("elapsed", time.Since(start)))
	if !sol.Optimal() {
		return sol, nil
	}

	sol.Objective = lp.MipObjVal()
	sol.Selected = make([]bool, len(m.Vars))
	for j := range m.Vars {
		sol.Selected[j] = milp.IsOne(lp.MipColVal(j + 1))
	}
	return sol, nil
}

// load copies m into lp. GLPK numbers rows and columns from 1.
func load(lp *glpk.Prob, m *milp.Model) {
	lp.SetProbName(m.Name)
	lp.SetObjDir(glpk.ObjDir(glpk.MIN))

	if n := len(m.Vars); n > 0 {
		lp.AddCols(n)
	}
	for j, v := range m.Vars {
		col := j + 1
		lp.SetColName(col, v.Name)
		lp.SetColKind(col, glpk.VarType(glpk.BV))
		lp.SetObjCoef(col, v.Cost)
	}

	if n := len(m.Constraints); n > 0 {
		lp.AddRows(n)
	}
	for i, c := range m.Constraints {
		row := i + 1
		lp.SetRowName(row, c.Name)
		switch c.Sense {
		case milp.LessEqual:
			lp.SetRowBnds(row, glpk.BndsType(glpk.UP), 0, c.RHS)
		case milp.GreaterEqual:
			lp.SetRowBnds(row, glpk.BndsType(glpk.LO), c.RHS, 0)
		case milp.Equal:
			lp.SetRowBnds(row, glpk.BndsType(glpk.FX), c.RHS, c.RHS)
		}
		// Element 0 of both slices is ignored by GLPK.
		ind := make([]int32, 1, len(c.Terms)+1)
		val := make([]float64, 1, len(c.Terms)+1)
		for _, t := range c.Terms {
			ind = append(ind, int32(t.Var+1)) //nolint:gosec // bounded by validate
			val = append(val, t.Coef)
		}
		lp.SetMatRow(row, ind, val)
	}
}

func status(st glpk.SolStat) milp.Status {
	switch st {
	case glpk.OPT:
		return milp.StatusOptimal
	case glpk.NOFEAS:
		return milp.StatusInfeasible
	case glpk.UNBND:
		return milp.StatusUnbounded
	default:
		return milp.StatusOther
	}
}

// validate rejects models GLPK would abort the process on.
func validate(m *milp.Model) error {
	for i, c := range m.Constraints {
		seen := make(map[int]struct{}, len(c.Terms))
		for _, t := range c.Terms {
			if t.Var < 0 || t.Var >= len(m.Vars) {
				return fmt.Errorf("%w: constraint %d (%s) references variable %d of %d",
					ErrInvalidModel, i, c.Name, t.Var, len(m.Vars))
			}
			if _, dup := seen[t.Var]; dup {
				return fmt.Errorf("%w: constraint %d (%s) repeats variable %d",
					ErrInvalidModel, i, c.Name, t.Var)
			}
			seen[t.Var] = struct{}{}
		}
		if c.Sense < milp.LessEqual || c.Sense > milp.Equal {
			return fmt.Errorf("%w: constraint %d (%s) has sense %d", ErrInvalidModel, i, c.Name, c.Sense)
		}
	}
	return nil
}
