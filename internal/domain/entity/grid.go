package entity

// RawCell cell text exactly as decoded
type RawCell struct {
	Column int
	Row    int
	Raw    string
}

// Grid decoded tabular file: header row plus data rows, cells untrimmed
type Grid struct {
	Header []string
	Rows   [][]string
}

// Cell returns the raw cell at (row, col); cells past the end of a ragged row are empty
func (g *Grid) Cell(row, col int) RawCell {
	cell := RawCell{Column: col, Row: row}
	if row < 0 || row >= len(g.Rows) || col < 0 {
		return cell
	}
	if r := g.Rows[row]; col < len(r) {
		cell.Raw = r[col]
	}
	return cell
}
