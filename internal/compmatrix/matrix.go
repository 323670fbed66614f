package compmatrix

import (
	"context"
	"database/sql"
	"time"

	"github.com/leapstack-labs/compmatrix/pkg/core"
)

// ComputeMatrix counts migrations between every source and destination
// SDK. Rows and columns follow the given order. A trailing "(none)" row is
// added when sources leaves out a stored SDK, and likewise for columns.
func (e *Engine) ComputeMatrix(ctx context.Context, sources, destinations []int64) (core.Matrix, error) {
	start := time.Now()

	var m core.Matrix
	err := e.withReadTx(ctx, func(tx *sql.Tx) error {
		all, err := sdkIDs(ctx, tx)
		if err != nil {
			return err
		}

		m.Rows = Axis(sources, all)
		m.Columns = Axis(destinations, all)
		m.Numbers = make([][]int64, len(m.Rows))

		for i, src := range m.Rows {
			m.Numbers[i] = make([]int64, len(m.Columns))
			for j, dst := range m.Columns {
				n, err := e.countCell(ctx, tx, BuildCellQuery(src, dst))
				if err != nil {
					return err
				}
				m.Numbers[i][j] = n
			}
		}
		return nil
	})
	if err != nil {
		return core.Matrix{}, err
	}

	e.logger.Debug("computed matrix",
		"rows", len(m.Rows),
		"columns", len(m.Columns),
		"duration", time.Since(start))
	return m, nil
}

// Axis returns the selectors of one matrix axis: one Specific per listed
// id, in order, then NoneOf(listed) if any of all is not listed.
func Axis(listed, all []int64) []core.Selector {
	axis := make([]core.Selector, 0, len(listed)+1)
	for _, id := range listed {
		axis = append(axis, core.Specific(id))
	}
	if core.MissingFrom(listed, all) {
		axis = append(axis, core.NoneOf(listed))
	}
	return axis
}
