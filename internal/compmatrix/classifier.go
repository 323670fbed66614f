package compmatrix

import (
	"github.com/leapstack-labs/compmatrix/pkg/core"
)

// BuildCellQuery returns a query selecting one app_id row per app that
// migrated from src to dst. It is a pure function of the selector pair.
func BuildCellQuery(src, dst core.Selector) Query {
	switch {
	case src.IsSpecific() && dst.IsSpecific():
		if src.ID() == dst.ID() {
			return retainedQuery(src.ID())
		}
		return switchedQuery(src.ID(), dst.ID())
	case src.IsSpecific():
		return droppedQuery(src.ID(), dst.Excluded())
	case dst.IsSpecific():
		return adoptedQuery(src.Excluded(), dst.ID())
	default:
		return unlistedQuery(src.Excluded(), dst.Excluded())
	}
}

// retainedQuery selects apps that currently have sdk installed.
func retainedQuery(sdk int64) Query {
	var b queryBuilder
	b.write("SELECT app_id FROM app_sdk WHERE sdk_id = ? AND installed = TRUE GROUP BY app_id", sdk)
	return b.query()
}

// switchedQuery selects apps that dropped from and currently have to.
// Each condition matches at most one row per app, so two matching rows
// mean both held.
func switchedQuery(from, to int64) Query {
	var b queryBuilder
	b.write("SELECT app_id FROM app_sdk WHERE (sdk_id = ? AND installed = FALSE) OR (sdk_id = ? AND installed = TRUE)", from, to).
		write(" GROUP BY app_id HAVING COUNT(*) > 1")
	return b.query()
}

// droppedQuery selects apps that moved from a specific SDK to anything
// without its own column.
func droppedQuery(from int64, toExcluded []int64) Query {
	// dropped from, and currently have an unlisted SDK
	var moved queryBuilder
	moved.write("SELECT app_id FROM app_sdk WHERE (sdk_id = ? AND installed = FALSE) OR (", from).
		notIn("sdk_id", toExcluded).
		write(" AND installed = TRUE) GROUP BY app_id HAVING COUNT(*) > 1")

	// had from, and currently have nothing at all
	var idle queryBuilder
	idle.write("SELECT a.app_id FROM app_sdk AS a JOIN ("+idleApps()+") AS idle ON idle.app_id = a.app_id").
		write(" WHERE a.sdk_id = ?", from)

	parts := []Query{moved.query(), idle.query()}

	// from has no column of its own, so keeping it counts as unlisted
	if !core.NoneOf(toExcluded).Excludes(from) {
		var kept queryBuilder
		kept.write("SELECT app_id FROM app_sdk WHERE sdk_id = ? AND installed = TRUE", from)
		parts = append(parts, kept.query())
	}

	return unionApps(parts...)
}

// adoptedQuery selects apps that moved from anything without its own row
// to a specific SDK.
func adoptedQuery(fromExcluded []int64, to int64) Query {
	// When to has its own row, apps whose only row is to belong to the
	// diagonal cell of that row.
	threshold := "COUNT(*) >= 1"
	if core.NoneOf(fromExcluded).Excludes(to) {
		threshold = "COUNT(*) > 1"
	}

	var b queryBuilder
	b.write("SELECT app_id FROM app_sdk WHERE (").
		notIn("sdk_id", fromExcluded).
		write(" AND installed = FALSE) OR (sdk_id = ? AND installed = TRUE)", to).
		write(" GROUP BY app_id HAVING " + threshold + " AND " + installedSum + " > 0")
	return b.query()
}

// unlistedQuery selects apps that moved between SDKs that have neither a
// row nor a column of their own.
func unlistedQuery(fromExcluded, toExcluded []int64) Query {
	var moved queryBuilder
	moved.write("SELECT app_id FROM app_sdk WHERE (").
		notIn("sdk_id", fromExcluded).
		write(" AND installed = FALSE) OR (").
		notIn("sdk_id", toExcluded).
		write(" AND installed = TRUE) GROUP BY app_id HAVING COUNT(*) > 1 AND " + installedSum + " > 0")

	// currently have an SDK listed on neither axis
	var kept queryBuilder
	kept.write("SELECT app_id FROM app_sdk WHERE ").
		notIn("sdk_id", fromExcluded).
		write(" AND ").
		notIn("sdk_id", toExcluded).
		write(" AND installed = TRUE")

	// currently have nothing, and had an SDK without its own row
	var idle queryBuilder
	idle.write("SELECT a.app_id FROM app_sdk AS a JOIN ("+idleApps()+") AS idle ON idle.app_id = a.app_id WHERE ").
		notIn("a.sdk_id", fromExcluded)

	return unionApps(moved.query(), kept.query(), idle.query())
}
