// Package domain models a full-factorial road-salt application sweep.
//
// # Land-Use Categories
//
// Salted surfaces fall into six fixed categories. Four are area-based
// parking-type surfaces (Commercial, Industrial, Institutional, Residential)
// whose land-use values are areas in square metres and whose application
// rates are in grams of salt per square metre. Two are roadway categories
// (Road-Local, Road-ArterialCollector) whose land-use values are lane-lengths
// in lane-kilometres and whose rates are already in kilograms per lane-km.
//
// Categories are identified by name everywhere. Joining rate grids to
// land-use records by column position is a configuration error waiting to
// happen and is rejected up front: a land-use record must carry exactly the
// six category keys by name before any evaluation runs.
//
// # Units
//
// Per-category salt mass is reported in kilograms. Area-based products
// (g/m² × m² = grams) are divided by 1000 during evaluation; roadway
// products are already in kilograms and pass through unchanged.
//
// # Rate Grids
//
// Candidate rates are enumerated from inclusive ranges with a uniform step.
// The reference configuration sweeps parking rates 27-90 g/m² in steps of 10
// and roadway rates 88-130 kg/lane-km in steps of 10. The stop value is
// included only when (stop-start) divides evenly by step; otherwise the
// sequence truncates before it. See [RateRange.Sequence].
//
// The sweep is deterministic: the Cartesian product over the six grids is
// enumerated in row-major order over the canonical category order, so two
// runs over the same inputs produce identical tables.
//
// # Total Salt
//
// Every scenario carries a derived total equal to the sum of its six
// per-category masses. The total is always recomputed from the row, never
// stored independently, so the row invariant Total == Σ categories holds by
// construction.
package domain
