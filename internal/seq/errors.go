package seq

import "fmt"

// UnknownOpcodeError reports an opcode byte the selected title's table has
// no rule for. It usually means the wrong game was selected, so the game
// is included in the message.
type UnknownOpcodeError struct {
	Offset int
	Opcode byte
	Game   Game
}

func (e *UnknownOpcodeError) Error() string {
	return fmt.Sprintf("unknown opcode 0x%02X at offset 0x%04X for game %s", e.Opcode, e.Offset, e.Game)
}

// TruncatedError reports an operand read running past the end of the buffer.
type TruncatedError struct {
	Offset int
	Opcode byte
	Need   int // bytes required past the opcode
	Have   int // bytes actually remaining
}

func (e *TruncatedError) Error() string {
	return fmt.Sprintf("truncated stream: opcode 0x%02X at offset 0x%04X needs %d operand byte(s), %d remain", e.Opcode, e.Offset, e.Need, e.Have)
}

// JumpTargetError reports a branch destination outside the buffer.
type JumpTargetError struct {
	Offset int // offset of the jump command
	Target int // computed destination
	Size   int // buffer length
}

func (e *JumpTargetError) Error() string {
	return fmt.Sprintf("jump at offset 0x%04X targets 0x%04X, outside stream of %d bytes", e.Offset, e.Target, e.Size)
}

// NoJumpFixError reports a conditional jump whose table records no
// unconditional counterpart with the same operand layout. The jump fix
// never guesses a substitute opcode.
type NoJumpFixError struct {
	Offset int
	Opcode byte
	Game   Game
}

func (e *NoJumpFixError) Error() string {
	return fmt.Sprintf("no unconditional equivalent for conditional jump 0x%02X at offset 0x%04X (game %s)", e.Opcode, e.Offset, e.Game)
}

// StalePatchError reports a patch whose expected original bytes no longer
// match the buffer, meaning the plan was computed against different data.
type StalePatchError struct {
	Offset int
	Want   []byte
	Got    []byte
}

func (e *StalePatchError) Error() string {
	return fmt.Sprintf("stale patch at offset 0x%04X: expected % X, buffer has % X", e.Offset, e.Want, e.Got)
}
