package glpk

// Option configures a Solver.
type Option func(*Solver)

// WithSerialized makes every Solver built with it share one process-wide
// lock, so only one GLPK problem is solved at a time.
func WithSerialized(serialized bool) Option {
	return func(s *Solver) {
		s.serialized = serialized
	}
}

// WithPresolve toggles the GLPK MIP presolver. It is on by default.
func WithPresolve(presolve bool) Option {
	return func(s *Solver) {
		s.presolve = presolve
	}
}
