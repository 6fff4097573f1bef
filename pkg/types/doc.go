// Package types defines the public vocabulary shared by every hardenkit
// package: the fuse enumeration and its status, the three families of
// patchable options, and the typed error taxonomy.
//
// Design goals:
//   - Closed enumerations with per-variant metadata held in lookup tables.
//   - Typed errors with stable categories so callers branch on Kind, not text.
//   - No behavior that touches a binary; the engine lives in internal packages
//     and is reached through pkg/hardener.
package types
