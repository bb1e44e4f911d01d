// Package colorize applies terminal colors to sequence command listings.
package colorize

import (
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// Accent colors for command roles, matching the original editor's palette.
const (
	AccentMasterVolume = "255;175;215" // pink
	AccentCondJump     = "215;215;95"  // yellow
)

// Enabled reports whether color output is on. SEQVOL_NO_COLOR disables it.
func Enabled() bool {
	return os.Getenv("SEQVOL_NO_COLOR") == ""
}

// getListingLexer returns an assembly-flavored lexer with fallbacks; the
// listing's "mnemonic @offset: bytes" shape tokenizes well under them.
func getListingLexer() chroma.Lexer {
	candidates := []string{"nasm", "gas", "armasm"}
	for _, name := range candidates {
		if lexer := lexers.Get(name); lexer != nil {
			return lexer
		}
	}
	return nil
}

// getListingStyle returns the listing style with fallbacks.
func getListingStyle() *chroma.Style {
	candidates := []string{"seqvol-dark", "dracula", "monokai"}
	for _, name := range candidates {
		if style := styles.Get(name); style != nil {
			return style
		}
	}
	return styles.Fallback
}

// getTerminalFormatter returns an appropriate terminal formatter.
func getTerminalFormatter() chroma.Formatter {
	candidates := []string{"terminal16m", "terminal256"}
	for _, name := range candidates {
		if formatter := formatters.Get(name); formatter != nil {
			return formatter
		}
	}
	return formatters.Fallback
}

// Line colorizes one formatted listing line with chroma.
func Line(line string) string {
	if !Enabled() {
		return line
	}

	lexer := getListingLexer()
	if lexer == nil {
		return line
	}

	// Make sure our custom style is registered
	_ = SeqDark

	style := getListingStyle()
	formatter := getTerminalFormatter()

	iterator, err := lexer.Tokenise(nil, line)
	if err != nil {
		return line
	}

	var buf strings.Builder
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return line
	}

	return strings.TrimSuffix(buf.String(), "\n")
}

// AccentLine paints a whole line in one truecolor accent, for commands
// the listing wants to call out (master volume, conditional jumps).
func AccentLine(line, accent string) string {
	if !Enabled() || accent == "" {
		return line
	}
	return fmt.Sprintf("\033[38;2;%sm%s\033[0m", accent, line)
}

// Listing colorizes a block of listing lines, one per element.
func Listing(lines []string) string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = Line(l)
	}
	return strings.Join(out, "\n")
}
