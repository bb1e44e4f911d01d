// Package seq decodes and patches Zelda64 binary sequence streams.
// It never executes a sequence; it statically walks the command stream
// reachable from an entry offset and rewrites specific commands in place.
package seq

import "fmt"

// Game selects which title's instruction set governs decoding.
// OoT and MM share most of the sequence command set, but MM defines
// commands OoT does not; decoding with the wrong table misparses
// everything after the first divergent opcode.
type Game int

const (
	GameOOT Game = iota
	GameMM
)

func (g Game) String() string {
	switch g {
	case GameOOT:
		return "oot"
	case GameMM:
		return "mm"
	}
	return fmt.Sprintf("game(%d)", int(g))
}

// ParseGame maps a user-supplied title selector to a Game.
func ParseGame(s string) (Game, error) {
	switch s {
	case "oot", "OoT", "OOT":
		return GameOOT, nil
	case "mm", "MM":
		return GameMM, nil
	}
	return 0, fmt.Errorf("unknown game %q (expected oot or mm)", s)
}

// Kind classifies a command for traversal and patching purposes.
type Kind int

const (
	// KindEvent is a plain data-setting command with no control-flow effect.
	KindEvent Kind = iota
	// KindMasterVolume is the master-volume-set command (patch rule A).
	KindMasterVolume
	// KindCondJump is a conditional branch (patch rule B, both paths live).
	KindCondJump
	// KindJump is an unconditional branch (only the target path is live).
	KindJump
	// KindCall is a subroutine call; the callee and the fall-through are
	// both live since the callee returns.
	KindCall
	// KindEnd terminates the stream.
	KindEnd
)

// TargetMode describes how a branching command encodes its destination.
type TargetMode int

const (
	// TargetNone is used by non-branching commands.
	TargetNone TargetMode = iota
	// TargetAbs16 is a big-endian u16 absolute stream offset.
	TargetAbs16
	// TargetRel8 is a signed byte relative to the end of the command.
	TargetRel8
)

// ArgsVar marks a variable-length operand: one byte, or two when the
// first operand byte has bit 7 set (the delay command's encoding).
const ArgsVar = -1

// Opcode describes one instruction-table entry.
type Opcode struct {
	Name   string
	Kind   Kind
	Args   int // operand length in bytes, or ArgsVar
	Target TargetMode
	// Fix is the unconditional opcode with the same operand layout that a
	// conditional jump is rewritten to by the jump fix. Zero means the
	// table records no equivalent, which makes the fix a hard error.
	Fix byte
}

// Table is an immutable per-title instruction table. Entries are dense by
// opcode byte; a nil entry means the byte is not a valid command for the
// title and decoding it is fatal.
type Table struct {
	game Game
	ops  [256]*Opcode
}

// Game reports which title the table belongs to.
func (t *Table) Game() Game { return t.game }

// Lookup resolves an opcode byte to its descriptor.
func (t *Table) Lookup(op byte) (*Opcode, error) {
	if o := t.ops[op]; o != nil {
		return o, nil
	}
	return nil, &UnknownOpcodeError{Opcode: op, Game: t.game}
}

// FixFor returns the unconditional counterpart opcode for a conditional
// jump, or an error when the table records none.
func (t *Table) FixFor(op byte) (byte, error) {
	o, err := t.Lookup(op)
	if err != nil {
		return 0, err
	}
	if o.Kind != KindCondJump || o.Fix == 0 {
		return 0, &NoJumpFixError{Opcode: op, Game: t.game}
	}
	return o.Fix, nil
}

var (
	ootTable = buildTable(GameOOT)
	mmTable  = buildTable(GameMM)
)

// TableFor returns the shared immutable table for a title.
func TableFor(g Game) *Table {
	if g == GameMM {
		return mmTable
	}
	return ootTable
}

// buildTable constructs the sequence-section command table for one title.
// The layout follows the game's audio engine: fixed opcodes from 0xC2 up,
// and "arg-bits" commands below that where the low nibble is a channel or
// IO-port index baked into the opcode byte.
func buildTable(g Game) *Table {
	t := &Table{game: g}

	set := func(op byte, o Opcode) {
		o2 := o
		t.ops[op] = &o2
	}
	setRange := func(lo, hi byte, o Opcode) {
		for i := int(lo); i <= int(hi); i++ {
			o2 := o
			t.ops[i] = &o2
		}
	}

	// Control flow.
	set(0xFF, Opcode{Name: "end", Kind: KindEnd})
	set(0xFE, Opcode{Name: "delay1", Kind: KindEvent})
	set(0xFD, Opcode{Name: "delay", Kind: KindEvent, Args: ArgsVar})
	set(0xFC, Opcode{Name: "call", Kind: KindCall, Args: 2, Target: TargetAbs16})
	set(0xFB, Opcode{Name: "jump", Kind: KindJump, Args: 2, Target: TargetAbs16})
	set(0xFA, Opcode{Name: "eqjump", Kind: KindCondJump, Args: 2, Target: TargetAbs16, Fix: 0xFB})
	set(0xF9, Opcode{Name: "ltjump", Kind: KindCondJump, Args: 2, Target: TargetAbs16, Fix: 0xFB})
	set(0xF8, Opcode{Name: "loop", Kind: KindEvent, Args: 1})
	set(0xF7, Opcode{Name: "loopend", Kind: KindEvent})
	set(0xF6, Opcode{Name: "loopbreak", Kind: KindEvent})
	set(0xF5, Opcode{Name: "gteqjump", Kind: KindCondJump, Args: 2, Target: TargetAbs16, Fix: 0xFB})
	set(0xF4, Opcode{Name: "rjump", Kind: KindJump, Args: 1, Target: TargetRel8})
	set(0xF3, Opcode{Name: "reqjump", Kind: KindCondJump, Args: 1, Target: TargetRel8, Fix: 0xF4})
	set(0xF2, Opcode{Name: "rltjump", Kind: KindCondJump, Args: 1, Target: TargetRel8, Fix: 0xF4})

	// Non arg-bits data commands.
	set(0xF1, Opcode{Name: "reservenotes", Kind: KindEvent, Args: 1})
	set(0xF0, Opcode{Name: "releasenotes", Kind: KindEvent, Args: 1})
	set(0xEF, Opcode{Name: "print3", Kind: KindEvent, Args: 3})
	set(0xDF, Opcode{Name: "transpose", Kind: KindEvent, Args: 1})
	set(0xDE, Opcode{Name: "rtranspose", Kind: KindEvent, Args: 1})
	set(0xDD, Opcode{Name: "tempo", Kind: KindEvent, Args: 1})
	set(0xDC, Opcode{Name: "addtempo", Kind: KindEvent, Args: 1})
	set(0xDB, Opcode{Name: "mstrvol", Kind: KindMasterVolume, Args: 1})
	set(0xDA, Opcode{Name: "fade", Kind: KindEvent, Args: 3})
	set(0xD9, Opcode{Name: "mstrexpression", Kind: KindEvent, Args: 1})
	set(0xD7, Opcode{Name: "enablechan", Kind: KindEvent, Args: 2})
	set(0xD6, Opcode{Name: "disablechan", Kind: KindEvent, Args: 2})
	set(0xD5, Opcode{Name: "mutescale", Kind: KindEvent, Args: 1})
	set(0xD4, Opcode{Name: "mute", Kind: KindEvent})
	set(0xD3, Opcode{Name: "mutebhv", Kind: KindEvent, Args: 1})
	set(0xD2, Opcode{Name: "loadshortvel", Kind: KindEvent, Args: 2})
	set(0xD1, Opcode{Name: "loadshortgate", Kind: KindEvent, Args: 2})
	set(0xD0, Opcode{Name: "notealloc", Kind: KindEvent, Args: 1})
	set(0xCE, Opcode{Name: "rand", Kind: KindEvent, Args: 1})
	set(0xCD, Opcode{Name: "dyncall", Kind: KindEvent, Args: 2})
	set(0xCC, Opcode{Name: "load", Kind: KindEvent, Args: 1})
	set(0xC9, Opcode{Name: "and", Kind: KindEvent, Args: 1})
	set(0xC8, Opcode{Name: "sub", Kind: KindEvent, Args: 1})
	set(0xC7, Opcode{Name: "storeseq", Kind: KindEvent, Args: 3})
	set(0xC6, Opcode{Name: "stop", Kind: KindEvent})
	set(0xC5, Opcode{Name: "scriptctr", Kind: KindEvent, Args: 2})
	set(0xC4, Opcode{Name: "callseq", Kind: KindEvent, Args: 2})

	// MM extended the command set; these bytes are invalid on OoT.
	if g == GameMM {
		set(0xC3, Opcode{Name: "mutechan", Kind: KindEvent, Args: 2})
		set(0xC2, Opcode{Name: "unk_C2", Kind: KindEvent, Args: 2})
	}

	// Arg-bits ranges: the low nibble selects a channel or IO port.
	setRange(0x00, 0x0F, Opcode{Name: "testchan", Kind: KindEvent})
	setRange(0x40, 0x4F, Opcode{Name: "stopchan", Kind: KindEvent})
	setRange(0x50, 0x5F, Opcode{Name: "subio", Kind: KindEvent})
	setRange(0x60, 0x6F, Opcode{Name: "loadres", Kind: KindEvent, Args: 2})
	setRange(0x70, 0x7F, Opcode{Name: "storeio", Kind: KindEvent})
	setRange(0x80, 0x8F, Opcode{Name: "loadio", Kind: KindEvent})
	setRange(0x90, 0x9F, Opcode{Name: "loadchan", Kind: KindEvent, Args: 2})
	setRange(0xA0, 0xAF, Opcode{Name: "rloadchan", Kind: KindEvent, Args: 2})
	setRange(0xB0, 0xBF, Opcode{Name: "loadseq", Kind: KindEvent, Args: 3})

	return t
}
