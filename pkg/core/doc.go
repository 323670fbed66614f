// Package core defines the shared language of the compmatrix system.
//
// This package contains:
//   - Catalog entities (App, SDK, Association)
//   - Matrix vocabulary (Selector, Matrix, Cursor, Direction, AppPage)
//   - Service interfaces and connection settings (Store, AdapterConfig)
//
// The Golden Rule: pkg/core imports ONLY stdlib.
// All other packages depend on core, not the reverse.
package core
