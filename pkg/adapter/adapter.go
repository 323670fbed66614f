// Package adapter provides the database adapter contract for the
// compmatrix store.
//
// Concrete adapter implementations are in pkg/adapters/ subdirectories and
// register themselves with this package from their init() functions.
package adapter

import (
	"github.com/leapstack-labs/compmatrix/pkg/core"
)

type (
	// Config is an alias for core.AdapterConfig.
	Config = core.AdapterConfig

	// Adapter is an alias for core.Adapter.
	Adapter = core.Adapter
)
