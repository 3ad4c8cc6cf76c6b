package entity

// BoardSize is the side length of the board. It never changes during a game.
const BoardSize = 19

// Stone is the value of a single board cell.
type Stone int

const (
	Empty Stone = iota
	Black
	White
)

// Opponent - returns the other player's color. Empty has no opponent.
func (that Stone) Opponent() Stone {
	switch that {
	case Black:
		return White
	case White:
		return Black
	default:
		return Empty
	}
}

func (that Stone) String() string {
	switch that {
	case Black:
		return "black"
	case White:
		return "white"
	default:
		return "empty"
	}
}

// Position is a board coordinate. X is the column, Y the row.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Board is indexed as board[y][x]. It is a value type: assigning a board copies it.
type Board [BoardSize][BoardSize]Stone

// At - returns the stone at p. The caller is responsible for bounds.
func (that *Board) At(p Position) Stone {
	return that[p.Y][p.X]
}

// Set - places s at p. The caller is responsible for bounds.
func (that *Board) Set(p Position, s Stone) {
	that[p.Y][p.X] = s
}
