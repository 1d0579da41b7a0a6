package engine

import (
	"sync/atomic"

	gm "hive-engine/hivemg"
)

const (
	// Flags
	AlphaFlag uint8 = iota // upper bound, the search failed low
	BetaFlag               // lower bound, the search failed high
	ExactFlag

	// In MB
	MinTTSizeMB     = 1
	MaxTTSizeMB     = 4096
	DefaultTTSizeMB = 64

	// Two 64-bit words per slot
	ttEntryBytes = 16
)

// Packed entry layout, low to high:
//
//	move  26 bits: piece+1 (5, 29 = pass), x+128 (8), y+128 (8), stack (5)
//	depth  8 bits
//	flag   2 bits
//	score 24 bits, offset by scoreOffset
//	valid  1 bit (bit 63)
const (
	moveBits    = 26
	depthShift  = 26
	flagShift   = 34
	scoreShift  = 36
	validBit    = uint64(1) << 63
	scoreOffset = 1 << 23
	passPiece   = 29
)

// TTEntry is the decoded view of a table slot.
type TTEntry struct {
	Move    gm.Move
	HasMove bool
	Depth   int
	Score   int
	Flag    uint8
}

// TransTable is a fixed-size, direct-mapped table shared by every search
// worker without locks. Each slot stores key^data next to data, so a torn
// write fails the key check and reads as a miss.
type TransTable struct {
	slots    []ttSlot
	capacity uint64
	count    atomic.Int64
}

type ttSlot struct {
	check atomic.Uint64
	data  atomic.Uint64
}

// NewTransTable allocates a table of mb megabytes, clamped to
// [MinTTSizeMB, MaxTTSizeMB].
func NewTransTable(mb int) *TransTable {
	mb = Clamp(mb, MinTTSizeMB, MaxTTSizeMB)
	capacity := uint64(mb) << 20 / ttEntryBytes
	return &TransTable{
		slots:    make([]ttSlot, capacity),
		capacity: capacity,
	}
}

func (tt *TransTable) Capacity() int { return int(tt.capacity) }

// Count is the number of occupied slots.
func (tt *TransTable) Count() int { return int(tt.count.Load()) }

// SizeBytes is the memory held by the slots.
func (tt *TransTable) SizeBytes() int { return int(tt.capacity) * ttEntryBytes }

func (tt *TransTable) Clear() {
	for i := range tt.slots {
		tt.slots[i].data.Store(0)
		tt.slots[i].check.Store(0)
	}
	tt.count.Store(0)
}

// Store writes an entry unless the slot holds a deeper one. Win scores are
// made relative to the node at ply so they stay valid at other plies.
func (tt *TransTable) Store(key uint64, depth, ply int, move gm.Move, hasMove bool, score int, flag uint8) {
	if score > winThreshold {
		score += ply
	} else if score < -winThreshold {
		score -= ply
	}
	data := packEntry(depth, move, hasMove, score, flag)
	slot := &tt.slots[key%tt.capacity]

	old := slot.data.Load()
	if old == 0 {
		if slot.data.CompareAndSwap(0, data) {
			tt.count.Add(1)
			slot.check.Store(key ^ data)
			return
		}
		old = slot.data.Load()
	}
	if unpackDepth(old) > depth {
		return
	}
	slot.data.Store(data)
	slot.check.Store(key ^ data)
}

// TryGet returns the entry for key, with win scores adjusted to ply.
func (tt *TransTable) TryGet(key uint64, ply int) (TTEntry, bool) {
	slot := &tt.slots[key%tt.capacity]
	data := slot.data.Load()
	check := slot.check.Load()
	if data == 0 || check^data != key {
		return TTEntry{}, false
	}
	e := unpackEntry(data)
	if e.Score > winThreshold {
		e.Score -= ply
	} else if e.Score < -winThreshold {
		e.Score += ply
	}
	return e, true
}

func packEntry(depth int, move gm.Move, hasMove bool, score int, flag uint8) uint64 {
	var m uint64
	if hasMove {
		m = packMove(move)
	}
	return validBit |
		m |
		uint64(Clamp(depth, 0, 255))<<depthShift |
		uint64(flag&3)<<flagShift |
		uint64(score+scoreOffset)<<scoreShift
}

func packMove(m gm.Move) uint64 {
	if m.IsPass() {
		return passPiece
	}
	d := m.Dest
	return uint64(m.Piece+1) |
		uint64(d.X+128)<<5 |
		uint64(d.Y+128)<<13 |
		uint64(d.Stack)<<21
}

func unpackDepth(data uint64) int { return int(data >> depthShift & 0xff) }

func unpackEntry(data uint64) TTEntry {
	e := TTEntry{
		Depth: unpackDepth(data),
		Flag:  uint8(data >> flagShift & 3),
		Score: int(data>>scoreShift&(1<<24-1)) - scoreOffset,
	}
	m := data & (1<<moveBits - 1)
	switch piece := int(m & 31); piece {
	case 0:
	case passPiece:
		e.Move, e.HasMove = gm.PassMove, true
	default:
		x := int(m>>5&0xff) - 128
		y := int(m>>13&0xff) - 128
		e.Move = gm.Move{
			Piece: gm.PieceName(piece - 1),
			Dest:  gm.Position{X: x, Y: y, Z: -x - y, Stack: int(m >> 21 & 31)},
		}
		e.HasMove = true
	}
	return e
}
