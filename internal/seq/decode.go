package seq

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// Command is one decoded command occurrence. Operand aliases the source
// buffer and must not be mutated; patches go through Apply instead.
type Command struct {
	Offset  int
	Opcode  byte
	Op      *Opcode
	Operand []byte
}

// Size is the full encoded length of the command in bytes.
func (c Command) Size() int { return 1 + len(c.Operand) }

// Next is the fall-through offset of the command.
func (c Command) Next() int { return c.Offset + c.Size() }

// JumpTarget computes the branch destination of a jump or call command.
// ok is false for commands that do not branch.
func (c Command) JumpTarget() (target int, ok bool) {
	switch c.Op.Target {
	case TargetAbs16:
		return int(binary.BigEndian.Uint16(c.Operand)), true
	case TargetRel8:
		return c.Next() + int(int8(c.Operand[0])), true
	}
	return 0, false
}

// String formats the command the way the listing output shows it:
// name, offset, then the raw bytes.
func (c Command) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-16s@%04X: %02X", c.Op.Name, c.Offset, c.Opcode)
	for _, v := range c.Operand {
		fmt.Fprintf(&b, " %02X", v)
	}
	return b.String()
}

// DecodeOne decodes the command at off. The returned command's operand
// slice aliases buf. Decoding never advances implicitly; callers step to
// Command.Next or to a jump target themselves.
func DecodeOne(buf []byte, off int, t *Table) (Command, error) {
	if off < 0 || off >= len(buf) {
		return Command{}, &JumpTargetError{Offset: off, Target: off, Size: len(buf)}
	}
	opcode := buf[off]
	op, err := t.Lookup(opcode)
	if err != nil {
		if ue, ok := err.(*UnknownOpcodeError); ok {
			ue.Offset = off
		}
		return Command{}, err
	}

	n := op.Args
	if n == ArgsVar {
		// The delay command's operand is one byte, or a big-endian u16
		// when the first byte has its high bit set.
		if off+1 >= len(buf) {
			return Command{}, &TruncatedError{Offset: off, Opcode: opcode, Need: 1, Have: len(buf) - off - 1}
		}
		n = 1
		if buf[off+1]&0x80 != 0 {
			n = 2
		}
	}
	if off+1+n > len(buf) {
		return Command{}, &TruncatedError{Offset: off, Opcode: opcode, Need: n, Have: len(buf) - off - 1}
	}

	return Command{
		Offset:  off,
		Opcode:  opcode,
		Op:      op,
		Operand: buf[off+1 : off+1+n],
	}, nil
}
