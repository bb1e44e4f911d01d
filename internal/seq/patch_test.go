package seq

import (
	"bytes"
	"errors"
	"testing"
)

func mustCollect(t *testing.T, buf []byte, g Game) []Command {
	t.Helper()
	cmds, err := CollectReachable(buf, 0, TableFor(g))
	if err != nil {
		t.Fatal(err)
	}
	return cmds
}

func TestPlanPatchesVolume(t *testing.T) {
	buf := []byte{0xDB, 0x7F, 0xFF}
	cmds := mustCollect(t, buf, GameMM)

	plan, err := PlanPatches(cmds, 0x40, false, TableFor(GameMM))
	if err != nil {
		t.Fatal(err)
	}
	if plan.Volumes != 1 || plan.Jumps != 0 {
		t.Fatalf("counts = %d/%d, want 1/0", plan.Volumes, plan.Jumps)
	}

	out, err := Apply(buf, plan.Patches)
	if err != nil {
		t.Fatal(err)
	}
	if want := []byte{0xDB, 0x40, 0xFF}; !bytes.Equal(out, want) {
		t.Errorf("out = % X, want % X", out, want)
	}
}

func TestPlanPatchesJumpFix(t *testing.T) {
	// eqjump with a two byte target; the fix rewrites only the opcode.
	buf := []byte{0xFA, 0x00, 0x04, 0xFF, 0xFF}
	cmds := mustCollect(t, buf, GameMM)

	t.Run("fix enabled", func(t *testing.T) {
		plan, err := PlanPatches(cmds, 0x40, true, TableFor(GameMM))
		if err != nil {
			t.Fatal(err)
		}
		if plan.Jumps != 1 {
			t.Fatalf("jump patches = %d, want 1", plan.Jumps)
		}
		out, err := Apply(buf, plan.Patches)
		if err != nil {
			t.Fatal(err)
		}
		if want := []byte{0xFB, 0x00, 0x04, 0xFF, 0xFF}; !bytes.Equal(out, want) {
			t.Errorf("out = % X, want % X", out, want)
		}
	})

	t.Run("fix disabled", func(t *testing.T) {
		plan, err := PlanPatches(cmds, 0x40, false, TableFor(GameMM))
		if err != nil {
			t.Fatal(err)
		}
		if len(plan.Patches) != 0 {
			t.Fatalf("got %d patches with fix disabled", len(plan.Patches))
		}
		out, err := Apply(buf, plan.Patches)
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(out, buf) {
			t.Errorf("out = % X, want input unchanged", out)
		}
	})
}

func TestPlanPatchesRelativeJumpFix(t *testing.T) {
	// rltjump fixes to rjump, keeping the one byte displacement.
	buf := []byte{0xF2, 0x00, 0xFF}
	cmds := mustCollect(t, buf, GameMM)

	plan, err := PlanPatches(cmds, 0x40, true, TableFor(GameMM))
	if err != nil {
		t.Fatal(err)
	}
	out, err := Apply(buf, plan.Patches)
	if err != nil {
		t.Fatal(err)
	}
	if want := []byte{0xF4, 0x00, 0xFF}; !bytes.Equal(out, want) {
		t.Errorf("out = % X, want % X", out, want)
	}
}

func TestPlanPatchesNoEquivalent(t *testing.T) {
	// A synthetic table whose conditional jump records no unconditional
	// counterpart: planning must fail rather than skip the command.
	table := &Table{game: GameOOT}
	table.ops[0x10] = &Opcode{Name: "condjump", Kind: KindCondJump, Args: 2, Target: TargetAbs16}
	table.ops[0xFF] = &Opcode{Name: "end", Kind: KindEnd}

	buf := []byte{0x10, 0x00, 0x03, 0xFF}
	cmds, err := CollectReachable(buf, 0, table)
	if err != nil {
		t.Fatal(err)
	}

	_, err = PlanPatches(cmds, 0x40, true, table)
	var ne *NoJumpFixError
	if !errors.As(err, &ne) {
		t.Fatalf("err = %v, want NoJumpFixError", err)
	}
	if ne.Offset != 0 || ne.Opcode != 0x10 {
		t.Errorf("error = %+v, want offset 0 opcode 0x10", ne)
	}
}

func TestPlanPatchesDuplicateOffsets(t *testing.T) {
	buf := []byte{0xDB, 0x7F, 0xFF}
	cmds := mustCollect(t, buf, GameMM)
	// Feed the same command twice; only the first patch may survive.
	cmds = append(cmds, cmds[0])

	plan, err := PlanPatches(cmds, 0x40, false, TableFor(GameMM))
	if err != nil {
		t.Fatal(err)
	}
	if len(plan.Patches) != 1 || plan.Volumes != 1 {
		t.Errorf("got %d patches (%d volume), want 1", len(plan.Patches), plan.Volumes)
	}
}

func TestApplyAllOrNothing(t *testing.T) {
	buf := []byte{0xDB, 0x7F, 0xDB, 0x30, 0xFF}
	patches := []Patch{
		{Offset: 1, Old: []byte{0x7F}, New: []byte{0x40}},
		{Offset: 3, Old: []byte{0x99}, New: []byte{0x40}}, // stale
	}

	out, err := Apply(buf, patches)
	var se *StalePatchError
	if !errors.As(err, &se) {
		t.Fatalf("err = %v, want StalePatchError", err)
	}
	if out != nil {
		t.Error("output produced despite failed precondition")
	}
	// First patch must not have leaked into the input either.
	if buf[1] != 0x7F {
		t.Error("input buffer was mutated")
	}
}

func TestApplyOutOfRange(t *testing.T) {
	buf := []byte{0xFF}
	_, err := Apply(buf, []Patch{{Offset: 5, Old: []byte{0x00}, New: []byte{0x01}}})
	var se *StalePatchError
	if !errors.As(err, &se) {
		t.Fatalf("err = %v, want StalePatchError", err)
	}
}

func TestApplyLeavesInputAlone(t *testing.T) {
	buf := []byte{0xDB, 0x7F, 0xFF}
	orig := bytes.Clone(buf)

	out, err := Apply(buf, []Patch{{Offset: 1, Old: []byte{0x7F}, New: []byte{0x40}}})
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(buf, orig) {
		t.Error("Apply mutated its input")
	}
	if len(out) != len(buf) {
		t.Errorf("length changed: %d -> %d", len(buf), len(out))
	}
}
