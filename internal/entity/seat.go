package entity

// Seat is the binding of a participant to a color within a room.
type Seat int

const (
	Unseated Seat = iota
	SeatBlack
	SeatWhite
)

// Stone - returns the color played from this seat, Empty when unseated.
func (that Seat) Stone() Stone {
	switch that {
	case SeatBlack:
		return Black
	case SeatWhite:
		return White
	case Unseated:
		return Empty
	default:
		return Empty
	}
}

func (that Seat) String() string {
	switch that {
	case SeatBlack:
		return "black"
	case SeatWhite:
		return "white"
	case Unseated:
		return "unseated"
	default:
		return "unknown"
	}
}

// Players holds the identities bound to each seat. A nil seat is free.
type Players struct {
	Black *string `json:"black"`
	White *string `json:"white"`
}

// IsFull - reports whether both seats are taken.
func (that Players) IsFull() bool {
	return that.Black != nil && that.White != nil
}

// Has - reports whether id occupies either seat.
func (that Players) Has(id string) bool {
	return (that.Black != nil && *that.Black == id) || (that.White != nil && *that.White == id)
}
