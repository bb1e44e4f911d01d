package seq

import (
	"sort"

	"seqvol/internal/logging"
)

// CollectReachable decodes every command reachable from start by any
// control-flow path: fall-through, taken branches, and not-taken sides of
// conditional branches. Each offset is visited at most once, so cyclic
// jumps (including a branch targeting itself) terminate.
//
// Commands are returned in traversal order, which is not byte order;
// anything keying off the result must use Command.Offset, never the index.
func CollectReachable(buf []byte, start int, t *Table) ([]Command, error) {
	if len(buf) == 0 {
		return nil, nil
	}

	var cmds []Command
	visited := make(map[int]bool)
	work := []int{start}

	for len(work) > 0 {
		off := work[0]
		work = work[1:]
		if visited[off] {
			continue
		}

		cmd, err := DecodeOne(buf, off, t)
		if err != nil {
			return nil, err
		}
		visited[off] = true
		cmds = append(cmds, cmd)

		// Successors are pushed only after the offset is marked visited,
		// so a self-targeting branch does not loop.
		switch cmd.Op.Kind {
		case KindEnd:
			// No successors.
		case KindJump, KindCondJump, KindCall:
			target, _ := cmd.JumpTarget()
			if target < 0 || target >= len(buf) {
				return nil, &JumpTargetError{Offset: off, Target: target, Size: len(buf)}
			}
			work = append(work, target)
			// An unconditional jump never falls through; conditionals and
			// calls keep the sequential path live too.
			if cmd.Op.Kind != KindJump && cmd.Next() < len(buf) {
				work = append(work, cmd.Next())
			}
		default:
			if cmd.Next() < len(buf) {
				work = append(work, cmd.Next())
			}
		}
	}

	if logging.IsDebug() {
		lg := logging.NewLogger()
		lg.Debug("collected reachable commands",
			"game", t.Game().String(),
			"start", start,
			"commands", len(cmds),
			"bytes", len(buf))
	}

	return cmds, nil
}

// SortByOffset returns the commands ordered by stream offset, for
// presenting a listing in byte order.
func SortByOffset(cmds []Command) []Command {
	out := make([]Command, len(cmds))
	copy(out, cmds)
	sort.Slice(out, func(i, j int) bool { return out[i].Offset < out[j].Offset })
	return out
}
