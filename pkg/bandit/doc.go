// Package bandit implements adaptive allocation of a fixed budget of
// resource units across competing regions, each with an unknown Bernoulli
// success probability.
//
// Each region carries a Beta(alpha, beta) posterior over its success
// probability. Every step draws one sample per posterior, allocates a unit
// to the region with the largest sample (Thompson Sampling), simulates the
// outcome against the region's hidden effectiveness and folds that outcome
// back into the posterior. When the budget runs out the engine compares the
// adaptive result against a uniform split of the same budget.
//
// The Engine performs no I/O, no logging and no timing. Drivers call
// Initialize, then Step until the snapshot reports StateExhausted, and
// read Snapshot at any point. All randomness flows through a caller-supplied
// rand.Source so runs are reproducible under a fixed seed.
package bandit
