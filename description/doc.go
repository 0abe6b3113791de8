// Package description models JVM types, methods and annotations as
// read-only descriptions.
//
// This package contains:
//   - the Type and Method interfaces consumed by method lookup and binding
//   - JVM descriptors, unique signatures and assignability rules
//   - latent (declared, not loaded) implementations of both interfaces
//   - the predeclared primitive and java.lang bootstrap types
//   - Pool, a name-indexed registry of types
//
// Descriptions are immutable once a Pool is handed out and may be read
// from many goroutines.
package description
