package seq

// Options configures one edit invocation.
type Options struct {
	Game     Game
	Volume   byte // replacement master-volume operand
	FixJumps bool // also rewrite conditional jumps to unconditional ones
	Start    int  // entry offset of the event stream, normally 0
}

// Result is the outcome of a successful edit.
type Result struct {
	// Data is the patched copy of the input; always the same length.
	Data []byte
	// Commands is every reachable command, in traversal order.
	Commands []Command
	// Patches is the applied plan, keyed by offset.
	Patches []Patch
	Volumes int
	Jumps   int
}

// Edit runs the full decode, traversal, plan and apply cycle over one
// sequence buffer. The input buffer is never mutated; on any error no
// output buffer exists at all.
func Edit(buf []byte, opts Options) (*Result, error) {
	table := TableFor(opts.Game)

	cmds, err := CollectReachable(buf, opts.Start, table)
	if err != nil {
		return nil, err
	}

	plan, err := PlanPatches(cmds, opts.Volume, opts.FixJumps, table)
	if err != nil {
		return nil, err
	}

	out, err := Apply(buf, plan.Patches)
	if err != nil {
		return nil, err
	}

	return &Result{
		Data:     out,
		Commands: cmds,
		Patches:  plan.Patches,
		Volumes:  plan.Volumes,
		Jumps:    plan.Jumps,
	}, nil
}
