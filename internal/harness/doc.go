// Package harness runs parse-case scenarios against a compiled schema and a
// seeded resolver.
//
// # Scenario Format
//
//	name: observation_search
//	description: "Search terms resolve names and dates"
//	schema: schema            # CUE directory, relative to the scenario file
//	seed: seed.yaml           # optional, relative to the scenario file
//	backend: sqlite           # memory (default) or sqlite
//	actor: 1                  # user whose permissions object params check
//	location: America/Los_Angeles
//	cases:
//	  - name: names by id and text
//	    search: 'name:42,"Agaricus campestris"'
//	    expect:
//	      values: {name: [42, 70]}
//	  - name: private project
//	    params: {project: "8"}
//	    expect:
//	      error: PERMISSION_DENIED
//	      field: project
//
// A case has either search (a search string) or params (raw parameter
// values). Expected values are a subset match: only the listed fields are
// compared, and a null value requires the field to be absent. Values compare
// by canonical JSON, so dates are written as strings and ranges as
// {from, to} maps. An expected error matches the first error the case
// produced.
//
// # Deterministic Output
//
// Each scenario runs against a fresh resolver. RunWithGolden snapshots the
// canonical JSON of every case outcome, including the value fingerprint, to
// testdata/golden/{name}.golden.
package harness
