package document

// CellRef locates a cell by its row index in the table and its index in the row.
type CellRef struct {
	Row   int
	Index int
}

// Rect is a grid rectangle, Bottom and Right exclusive.
type Rect struct {
	Top, Left, Bottom, Right int
}

// Contains reports whether the grid position lies inside the rectangle.
func (r Rect) Contains(row, col int) bool {
	return row >= r.Top && row < r.Bottom && col >= r.Left && col < r.Right
}

// Union returns the smallest rectangle covering both.
func (r Rect) Union(other Rect) Rect {
	return Rect{
		Top:    min(r.Top, other.Top),
		Left:   min(r.Left, other.Left),
		Bottom: max(r.Bottom, other.Bottom),
		Right:  max(r.Right, other.Right),
	}
}

// TableMap resolves colspan/rowspan into a grid of cell references.
type TableMap struct {
	Width  int
	Height int
	grid   [][]CellRef
	rects  map[CellRef]Rect
}

var noCell = CellRef{Row: -1, Index: -1}

// BuildTableMap computes the grid of a table node. Spans reaching past the
// last row are clipped; positions no cell covers hold no reference.
func BuildTableMap(table Node) TableMap {
	height := len(table.Content)
	grid := make([][]CellRef, height)
	rects := map[CellRef]Rect{}
	width := 0

	occupy := func(row, col int, ref CellRef) {
		for len(grid[row]) <= col {
			grid[row] = append(grid[row], noCell)
		}
		grid[row][col] = ref
	}
	occupied := func(row, col int) bool {
		return col < len(grid[row]) && grid[row][col] != noCell
	}

	for r, row := range table.Content {
		col := 0
		for i, cell := range row.Content {
			for occupied(r, col) {
				col++
			}
			colspan := max(cell.GetIntAttr("colspan", 1), 1)
			rowspan := max(cell.GetIntAttr("rowspan", 1), 1)
			bottom := min(r+rowspan, height)
			ref := CellRef{Row: r, Index: i}
			for rr := r; rr < bottom; rr++ {
				for cc := col; cc < col+colspan; cc++ {
					occupy(rr, cc, ref)
				}
			}
			rects[ref] = Rect{Top: r, Left: col, Bottom: bottom, Right: col + colspan}
			col += colspan
		}
	}

	for r := range grid {
		width = max(width, len(grid[r]))
	}
	for r := range grid {
		for len(grid[r]) < width {
			grid[r] = append(grid[r], noCell)
		}
	}

	return TableMap{Width: width, Height: height, grid: grid, rects: rects}
}

// CellAt returns the cell covering a grid position.
func (m TableMap) CellAt(row, col int) (CellRef, bool) {
	if row < 0 || row >= m.Height || col < 0 || col >= m.Width {
		return CellRef{}, false
	}
	ref := m.grid[row][col]
	return ref, ref != noCell
}

// RectOf returns the grid rectangle a cell covers.
func (m TableMap) RectOf(ref CellRef) (Rect, bool) {
	rect, ok := m.rects[ref]
	return rect, ok
}

// CellsIn returns the distinct cells intersecting rect in grid order.
func (m TableMap) CellsIn(rect Rect) []CellRef {
	seen := map[CellRef]bool{}
	var refs []CellRef
	for r := rect.Top; r < rect.Bottom; r++ {
		for c := rect.Left; c < rect.Right; c++ {
			ref, ok := m.CellAt(r, c)
			if !ok || seen[ref] {
				continue
			}
			seen[ref] = true
			refs = append(refs, ref)
		}
	}
	return refs
}

// Expand grows rect until every cell it touches lies fully inside it.
func (m TableMap) Expand(rect Rect) Rect {
	for {
		grown := rect
		for _, ref := range m.CellsIn(rect) {
			grown = grown.Union(m.rects[ref])
		}
		if grown == rect {
			return rect
		}
		rect = grown
	}
}

// InsertIndex returns the index in row at which a cell starting at grid
// column col belongs.
func (m TableMap) InsertIndex(table Node, row, col int) int {
	if row < 0 || row >= len(table.Content) {
		return 0
	}
	for i := range table.Content[row].Content {
		rect := m.rects[CellRef{Row: row, Index: i}]
		if rect.Left >= col {
			return i
		}
	}
	return len(table.Content[row].Content)
}
