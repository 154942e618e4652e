package common

// Move is packed into 16 bits: 6 bits from, 6 bits to, 4 bits flags.
type Move uint16

const MoveEmpty = Move(0)

const (
	FlagQuiet           = 0x0
	FlagDoublePawnPush  = 0x1
	FlagKingsideCastle  = 0x2
	FlagQueensideCastle = 0x3
	FlagCapture         = 0x4
	FlagEnPassant       = 0x5
	FlagPromotion       = 0x8
)

var (
	whiteKingsideCastle  = makeMove(SquareE1, SquareG1, FlagKingsideCastle)
	whiteQueensideCastle = makeMove(SquareE1, SquareC1, FlagQueensideCastle)
	blackKingsideCastle  = makeMove(SquareE8, SquareG8, FlagKingsideCastle)
	blackQueensideCastle = makeMove(SquareE8, SquareC8, FlagQueensideCastle)
)

func makeMove(from, to, flags int) Move {
	return Move(from ^ (to << 6) ^ (flags << 12))
}

func (m Move) From() int {
	return int(m & 63)
}

func (m Move) To() int {
	return int((m >> 6) & 63)
}

func (m Move) Flags() int {
	return int(m >> 12)
}

func (m Move) IsCapture() bool {
	return m&(FlagCapture<<12) != 0
}

func (m Move) IsPromotion() bool {
	return m&(FlagPromotion<<12) != 0
}

func (m Move) IsEnPassant() bool {
	return m.Flags() == FlagEnPassant
}

func (m Move) IsCastle() bool {
	var flags = m.Flags()
	return flags == FlagKingsideCastle || flags == FlagQueensideCastle
}

// Promotion returns the promoted piece type, or Empty for non-promotions.
func (m Move) Promotion() int {
	if !m.IsPromotion() {
		return Empty
	}
	return Knight + m.Flags()&3
}

func (m Move) String() string {
	if m == MoveEmpty {
		return "0000"
	}
	var sPromotion = ""
	if m.IsPromotion() {
		sPromotion = string("nbrq"[m.Promotion()-Knight])
	}
	return SquareName(m.From()) + SquareName(m.To()) + sPromotion
}
