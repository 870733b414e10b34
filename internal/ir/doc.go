// Package ir provides the value types produced by obsparse parsers.
//
// This package contains type definitions and serialization only. All other
// internal packages import ir; ir imports nothing internal.
//
// Key design constraints:
//   - Value is sealed; every parser result is one of its variants
//   - Range ends are ordered, except wrap-around MonthDay seasons
//   - Canonical JSON (MarshalCanonical) is the only serialization used for
//     fingerprints and golden snapshots
package ir
