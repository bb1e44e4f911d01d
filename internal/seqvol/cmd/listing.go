package cmd

import (
	"strings"

	"seqvol/internal/seq"
	"seqvol/internal/ui/colorize"
)

// listingLines formats the reachable commands in byte order, one line per
// command, with accent colors on the commands the patch rules care about.
func listingLines(cmds []seq.Command, colored bool) []string {
	lines := make([]string, 0, len(cmds))
	for _, c := range seq.SortByOffset(cmds) {
		line := "  " + c.String()
		if colored {
			switch c.Op.Kind {
			case seq.KindMasterVolume:
				line = colorize.AccentLine(line, colorize.AccentMasterVolume)
			case seq.KindCondJump:
				line = colorize.AccentLine(line, colorize.AccentCondJump)
			default:
				line = colorize.Line(line)
			}
		}
		lines = append(lines, line)
	}
	return lines
}

// renderListing frames the command lines the way the listing output
// always has: a header row and start/end markers.
func renderListing(cmds []seq.Command, colored bool) string {
	var b strings.Builder
	b.WriteString("  [  START SEQ SECTION  ]\n")
	b.WriteString("  COMMAND         @ADDR: DATA\n")
	for _, line := range listingLines(cmds, colored) {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	b.WriteString("  [   END SEQ SECTION   ]")
	return b.String()
}
