package seq

import "bytes"

// Patch is a fixed-width in-place edit. Old and New are always the same
// length; a patch never grows or shrinks the stream.
type Patch struct {
	Offset int
	Old    []byte
	New    []byte
}

// Plan is the full set of edits for one invocation, built before any byte
// is written so that a decode or planning error leaves the input untouched.
type Plan struct {
	Patches []Patch
	Volumes int // master-volume operand overwrites
	Jumps   int // conditional-jump opcode rewrites
}

// PlanPatches matches decoded commands against the two patch rules:
// every master-volume command has its operand byte overwritten with vol,
// and, when fixJumps is set, every conditional jump has its opcode
// rewritten to the table's unconditional counterpart (operand untouched).
//
// vol is an opaque byte here; range validation is the caller's problem.
// Duplicate offsets in cmds (which the tracker never produces) keep only
// the first patch.
func PlanPatches(cmds []Command, vol byte, fixJumps bool, t *Table) (*Plan, error) {
	plan := &Plan{}
	seen := make(map[int]bool)

	for _, c := range cmds {
		switch c.Op.Kind {
		case KindMasterVolume:
			at := c.Offset + 1
			if seen[at] {
				continue
			}
			seen[at] = true
			plan.Patches = append(plan.Patches, Patch{
				Offset: at,
				Old:    []byte{c.Operand[0]},
				New:    []byte{vol},
			})
			plan.Volumes++

		case KindCondJump:
			if !fixJumps {
				continue
			}
			fix, err := t.FixFor(c.Opcode)
			if err != nil {
				if ne, ok := err.(*NoJumpFixError); ok {
					ne.Offset = c.Offset
				}
				return nil, err
			}
			if seen[c.Offset] {
				continue
			}
			seen[c.Offset] = true
			plan.Patches = append(plan.Patches, Patch{
				Offset: c.Offset,
				Old:    []byte{c.Opcode},
				New:    []byte{fix},
			})
			plan.Jumps++
		}
	}

	return plan, nil
}

// Apply writes the patches to a copy of buf and returns it. Every patch's
// expected original bytes are checked against buf before anything is
// written; one mismatch fails the whole apply and no output is produced.
func Apply(buf []byte, patches []Patch) ([]byte, error) {
	for _, p := range patches {
		if p.Offset < 0 || p.Offset+len(p.Old) > len(buf) {
			return nil, &StalePatchError{Offset: p.Offset, Want: p.Old}
		}
		got := buf[p.Offset : p.Offset+len(p.Old)]
		if !bytes.Equal(got, p.Old) {
			return nil, &StalePatchError{Offset: p.Offset, Want: p.Old, Got: got}
		}
	}

	out := make([]byte, len(buf))
	copy(out, buf)
	for _, p := range patches {
		copy(out[p.Offset:], p.New)
	}
	return out, nil
}
