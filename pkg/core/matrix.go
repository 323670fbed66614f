package core

// Matrix is a computed competitive matrix. Numbers[i][j] is the count of
// apps that migrated from Rows[i] to Columns[j].
type Matrix struct {
	Rows    []Selector
	Columns []Selector
	Numbers [][]int64
}

// CellRequest identifies one matrix cell and the page of its apps to fetch.
type CellRequest struct {
	Source      Selector
	Destination Selector
	Count       int
	Cursor      *Cursor
	Direction   Direction
}

// AppPage is one page of the apps behind a matrix cell.
// StartCursor and EndCursor are nil when Apps is empty.
type AppPage struct {
	Apps        []App
	TotalCount  int64
	StartCursor *Cursor
	EndCursor   *Cursor
}
