package qaoa

/*
Regulator watches a computation that grows step by step and decides when it
has to stop. The tree generator consults one after every layer, the Copula
register consults one before it allocates its 2^n states.

Like a pressure valve, the regulator only observes and answers; it never
changes the computation itself.
*/
type Regulator interface {
	// Observe records the size reached at the given step.
	//
	// Parameters:
	//   - step: the layer (or other unit of growth) just completed
	//   - nodes: the number of live entries after that step
	Observe(step int, nodes int)

	// Limit reports whether the observed growth exceeds the budget.
	Limit() bool

	// Renormalize forgets every observation so the regulator can guard a
	// new computation.
	Renormalize()
}
