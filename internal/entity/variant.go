package entity

import (
	"fmt"
	"strings"

	"github.com/rocketscienceinc/multigame-backend/internal/apperror"
)

type GameType string

const (
	Checkers GameType = "CHECKERS"
	Pente    GameType = "PENTE"
)

// ParseGameType accepts any letter case.
func ParseGameType(value string) (GameType, error) {
	switch gameType := GameType(strings.ToUpper(strings.TrimSpace(value))); gameType {
	case Checkers, Pente:
		return gameType, nil
	default:
		return "", fmt.Errorf("%w: %q", apperror.ErrUnknownGameType, value)
	}
}

type Color string

const (
	Black   Color = "BLACK"
	Red     Color = "RED"
	Blue    Color = "BLUE"
	Green   Color = "GREEN"
	NoColor Color = ""
)

// Mode selects the winning score of alignment variants.
type Mode string

const (
	ModeClassic       Mode = "CLASSIC"
	ModeBasicPuzzle   Mode = "BASIC_PUZZLE"
	ModeSilvopastoral Mode = "SILVOPASTORAL"
	ModeSilvoPuzzle   Mode = "SILVO_PUZZLE"
	ModeReloaded      Mode = "RELOADED"
)

func ParseMode(value string) (Mode, error) {
	mode := Mode(strings.ToUpper(strings.TrimSpace(value)))
	if mode.WinningScore() == 0 {
		return "", fmt.Errorf("unknown mode %q", value)
	}
	return mode, nil
}

func (that Mode) WinningScore() int {
	switch that {
	case ModeClassic, ModeBasicPuzzle:
		return 24
	case ModeSilvopastoral, ModeSilvoPuzzle, ModeReloaded:
		return 32
	default:
		return 0
	}
}

// Variant describes everything the engine needs to know about a GameType.
type Variant struct {
	Type    GameType
	Players int
	Palette []Color
	Columns int
	Rows    int

	Mode         Mode
	WinningScore int

	ScoresAlignments bool
	TriaScore        int
	TesseraScore     int
}

// InBounds reports whether the coordinate lies on the board.
func (that Variant) InBounds(coordinate Coordinate) bool {
	return coordinate.Column >= 0 && coordinate.Column < that.Columns &&
		coordinate.Row >= 0 && coordinate.Row < that.Rows
}

// Variants is the catalogue of supported game types.
type Variants map[GameType]Variant

func DefaultVariants() Variants {
	return Variants{
		Checkers: {
			Type:         Checkers,
			Players:      2,
			Palette:      []Color{Black, Red},
			Columns:      8,
			Rows:         8,
			WinningScore: 12,
		},
		Pente: {
			Type:             Pente,
			Players:          4,
			Palette:          []Color{Black, Blue, Green, Red},
			Columns:          19,
			Rows:             19,
			Mode:             ModeClassic,
			WinningScore:     ModeClassic.WinningScore(),
			ScoresAlignments: true,
			TriaScore:        1,
			TesseraScore:     2,
		},
	}
}

// WithMode returns a copy of the catalogue where alignment variants play the given mode.
func (that Variants) WithMode(mode Mode) Variants {
	out := make(Variants, len(that))
	for gameType, variant := range that {
		if variant.ScoresAlignments {
			variant.Mode = mode
			variant.WinningScore = mode.WinningScore()
		}
		out[gameType] = variant
	}
	return out
}

func (that Variants) Get(gameType GameType) (Variant, error) {
	variant, ok := that[gameType]
	if !ok {
		return Variant{}, fmt.Errorf("%w: %q", apperror.ErrUnknownGameType, gameType)
	}
	return variant, nil
}
