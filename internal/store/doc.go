// Package store provides a SQLite-backed entity resolver and query log.
//
// Tables:
//   - entities: catalog rows with pre-normalized lookup keys
//   - grants: (entity, permission, actor) rows for permission checks
//   - queries: parse results keyed by content fingerprint, with hit counts
//
// *Store implements resolver.Resolver. Name lookups compare the NFC,
// case-folded keys written by PutEntity, so they agree with resolver.Memory.
//
// # Database Configuration
//
// Pragmas are set through go-sqlite3 DSN parameters:
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//
// Schema changes after the first release are numbered migrations tracked in
// PRAGMA user_version; Open applies the missing ones.
//
// Query fingerprints are computed by ir.Fingerprint over the canonical JSON
// of the parsed value.
package store
