// Package schema compiles CUE field declarations into the immutable
// configuration used by the parameter parser and the search interpreter.
//
// A schema directory holds one CUE package with two optional top-level
// structs:
//
//	param: {
//		id:        {kind: "integer", list: true, range: true}
//		size:      {kind: "integer", range: true, limit: {min: 1, max: 100}}
//		lichen:    {kind: "boolean", default: false}
//		size_name: {kind: "enum", allowed: ["small", "medium", "large"], default: "medium"}
//		projects:  {kind: "object", list: true, permissions: ["member"]}
//	}
//
//	search: {
//		name: {accessor: "list"}
//		date: "date_range"
//	}
//
// An object parameter or list field without ref takes its entity type from
// the singular of its name, so projects above references project entities.
//
// Uses the CUE SDK's Go API directly; no cue CLI subprocess.
package schema
