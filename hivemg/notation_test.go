package hivemg

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirectionGlyphs(t *testing.T) {
	cases := map[string]Direction{
		"bS1 wS1/":  Up,
		"bS1 wS1-":  UpRight,
		"bS1 wS1\\": DownRight,
		"bS1 /wS1":  Down,
		"bS1 -wS1":  DownLeft,
		"bS1 \\wS1": UpLeft,
	}
	for s, d := range cases {
		b := NewBoard(Base)
		playAll(t, b, "wS1")
		m, err := b.ParseMove(s)
		require.NoError(t, err, s)
		assert.Equal(t, Origin.Neighbor(d), m.Dest, s)
		assert.Equal(t, s, b.FormatMove(m))
	}
}

func TestParseMoveErrors(t *testing.T) {
	b := NewBoard(Base)
	playAll(t, b, "wS1")
	for _, s := range []string{"", "xQ", "bS1", "bS1 wS1/ extra", "bS1 wX9/", "bS1 wA1-", "bS1[1,1,1]", "bS1[1,0", "bS1[a,b,c]"} {
		_, err := b.ParseMove(s)
		var perr *ParseError
		assert.ErrorAs(t, err, &perr, "%q", s)
	}

	m, err := b.ParseMove("PASS")
	require.NoError(t, err)
	assert.True(t, m.IsPass())
}

func TestParseErrorIsNotInvalidMove(t *testing.T) {
	b := NewBoard(Base)
	err := b.PlayString("wZ1")
	var perr *ParseError
	assert.ErrorAs(t, err, &perr)
	var invalid *InvalidMoveError
	assert.False(t, errors.As(err, &invalid))
}

func TestMoveNotationRoundTrip(t *testing.T) {
	for _, gt := range []GameType{Base, BaseMLP} {
		rng := rand.New(rand.NewSource(11))
		for game := 0; game < 10; game++ {
			b := NewBoard(gt)
			for ply := 0; ply < 80 && !b.GameOver(); ply++ {
				moves := b.ValidMoves()
				for _, m := range moves {
					s := b.FormatMove(m)
					parsed, err := b.ParseMove(s)
					require.NoError(t, err, s)
					require.Equal(t, m, parsed, s)

					abs, err := b.ParseMove(m.String())
					require.NoError(t, err, m.String())
					require.Equal(t, m, abs)
				}
				if len(moves) == 0 {
					require.NoError(t, b.Play(PassMove))
					continue
				}
				require.NoError(t, b.Play(moves[rng.Intn(len(moves))]))
			}
		}
	}
}

func TestGameStringRoundTrip(t *testing.T) {
	for _, gt := range []GameType{Base, BaseMLP} {
		rng := rand.New(rand.NewSource(5))
		for game := 0; game < 10; game++ {
			b := NewBoard(gt)
			for ply := 0; ply < 50 && !b.GameOver(); ply++ {
				moves := b.ValidMoves()
				if len(moves) == 0 {
					require.NoError(t, b.Play(PassMove))
					continue
				}
				require.NoError(t, b.Play(moves[rng.Intn(len(moves))]))
			}
			s := b.GameString()
			parsed, err := ParseGameString(s)
			require.NoError(t, err, s)
			assert.True(t, parsed.Equal(b), s)
			assert.Equal(t, s, parsed.GameString())
		}
	}
}

func TestGameStringFormat(t *testing.T) {
	b := NewBoard(Base)
	assert.Equal(t, "Base;NotStarted;White[1]", b.GameString())
	playAll(t, b, "wS1", "bS1 wS1/", "wQ /wS1")
	assert.Equal(t, "Base;InProgress;Black[2];wS1;bS1 wS1/;wQ /wS1", b.GameString())
}

func TestParseGameStringRejectsBadInput(t *testing.T) {
	for _, s := range []string{
		"",
		"Base;InProgress",
		"Chess;InProgress;White[1]",
		"Base;Sleeping;White[1]",
		"Base;NotStarted;Green[1]",
		"Base;InProgress;White[2];wS1",
		"Base;InProgress;Black[1];wQ",
		"Base;InProgress;Black[1];wS1 bS1",
	} {
		_, err := ParseGameString(s)
		var perr *ParseError
		assert.ErrorAs(t, err, &perr, "%q", s)
	}
}
