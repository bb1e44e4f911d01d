package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	pathpkg "path/filepath"
	"runtime/pprof"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"seqvol/internal/container"
	"seqvol/internal/seq"
	"seqvol/internal/seqvol/log"
)

// editReport summarizes one completed edit for display and JSON output.
type editReport struct {
	File           string   `json:"file"`
	Game           string   `json:"game"`
	Volume         byte     `json:"volume"`
	FixJumps       bool     `json:"fix_jumps"`
	VolumePatches  int      `json:"volume_patches"`
	JumpPatches    int      `json:"jump_patches"`
	PatchedOffsets []string `json:"patched_offsets"`
	Output         string   `json:"output"`

	commands []seq.Command
}

// resolveGame picks the instruction table: a packed music file's
// extension names its title and wins over the flag.
func resolveGame(f *container.File, gameArg string) (seq.Game, error) {
	if hint, ok := f.GameHint(); ok {
		if hint != gameArg {
			slog.Debug("Archive extension overrides game flag", "flag", gameArg, "archive", hint)
		}
		gameArg = hint
	}
	return seq.ParseGame(gameArg)
}

// runEdit performs the full load, edit, save cycle for one file.
func runEdit(path string, vol byte, gameArg string, fixJumps bool, outPath string) (*editReport, error) {
	f, err := container.Load(path)
	if err != nil {
		return nil, err
	}

	game, err := resolveGame(f, gameArg)
	if err != nil {
		return nil, err
	}

	res, err := seq.Edit(f.Seq, seq.Options{
		Game:     game,
		Volume:   vol,
		FixJumps: fixJumps,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse sequence: %w", err)
	}

	saved, err := f.Save(res.Data, outPath)
	if err != nil {
		return nil, err
	}

	offsets := make([]string, 0, len(res.Patches))
	for _, p := range res.Patches {
		offsets = append(offsets, fmt.Sprintf("0x%04X", p.Offset))
	}

	slog.Debug("Edit complete", "file", path, "volumes", res.Volumes, "jumps", res.Jumps, "output", saved)

	return &editReport{
		File:           path,
		Game:           game.String(),
		Volume:         vol,
		FixJumps:       fixJumps,
		VolumePatches:  res.Volumes,
		JumpPatches:    res.Jumps,
		PatchedOffsets: offsets,
		Output:         saved,
		commands:       res.Commands,
	}, nil
}

// runNoTUI edits the file and prints the listing plus a plain summary.
func runNoTUI(path string, vol byte, gameArg string, fixJumps bool, outPath string) error {
	report, err := runEdit(path, vol, gameArg, fixJumps, outPath)
	if err != nil {
		return err
	}

	fmt.Println("[SEQ COMMANDS]:")
	fmt.Println(renderListing(report.commands, false))
	fmt.Println()
	printSummary(report)
	return nil
}

func printSummary(report *editReport) {
	if report.VolumePatches > 0 {
		fmt.Printf("Master volume changed to %d (0x%02X) at %d location(s).\n",
			report.Volume, report.Volume, report.VolumePatches)
	} else {
		fmt.Println("No master volume command found; the volume was not changed.")
	}
	if report.FixJumps {
		fmt.Printf("Conditional jumps fixed: %d.\n", report.JumpPatches)
	}
	fmt.Printf("Output written to: %s\n", report.Output)
}

// runJSON edits the file and emits the report for regression harnesses.
func runJSON(path string, vol byte, gameArg string, fixJumps bool, outPath string) error {
	report, err := runEdit(path, vol, gameArg, fixJumps, outPath)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

func init() {
	rootCmd.Flags().BoolP("help", "h", false, "Help")
	rootCmd.Flags().BoolP("fix-jumps", "j", false, "Also rewrite conditional jumps that can break sequences in rando")
	rootCmd.Flags().StringP("game", "g", "mm", "Instruction set the sequence was created for (oot or mm)")
	rootCmd.Flags().BoolP("no-tui", "n", false, "Print the listing and summary without the TUI")
	rootCmd.Flags().Bool("json", false, "Output the edit report as JSON")
	rootCmd.Flags().StringP("output", "o", "", "Write the result to this path instead of the default")
	rootCmd.Flags().String("cpuprofile", "", "Write CPU profile to file")

	rootCmd.AddCommand(listCmd)
}

var rootCmd = &cobra.Command{
	Use:   "seqvol <file> <volume>",
	Short: "Change a Zelda64 music file's master volume",
	Long: `Seqvol rewrites the master volume commands of a Zelda64 binary sequence,
following every jump and branch so volume commands hidden behind rarely
taken paths are changed too. It accepts bare sequences (.seq, .aseq,
.zseq) and packed music files (.ootrs, .mmrs), repacking the latter.`,
	Example: `
# Set the master volume to 0x40
seqvol song.zseq 0x40

# Use a percentage of full volume and fix conditional jumps
seqvol -j song.ootrs 50%

# Decode with the Ocarina of Time instruction set
seqvol -g oot song.seq 96
  `,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cpuprofile, _ := cmd.Flags().GetString("cpuprofile")
		if cpuprofile != "" {
			f, err := os.Create(cpuprofile)
			if err != nil {
				return fmt.Errorf("could not create CPU profile: %v", err)
			}
			defer f.Close()
			if err := pprof.StartCPUProfile(f); err != nil {
				return fmt.Errorf("could not start CPU profile: %v", err)
			}
			defer pprof.StopCPUProfile()
		}

		file := args[0]
		vol, err := ParseVolume(args[1])
		if err != nil {
			return err
		}

		absPath, err := pathpkg.Abs(file)
		if err != nil {
			return fmt.Errorf("failed to resolve path: %v", err)
		}
		if _, err := os.Stat(absPath); err != nil {
			if os.IsNotExist(err) {
				return fmt.Errorf("file not found: %s", file)
			}
			return fmt.Errorf("cannot access file: %v", err)
		}

		fixJumps, _ := cmd.Flags().GetBool("fix-jumps")
		gameArg, _ := cmd.Flags().GetString("game")
		noTUI, _ := cmd.Flags().GetBool("no-tui")
		jsonOutput, _ := cmd.Flags().GetBool("json")
		outPath, _ := cmd.Flags().GetString("output")

		// Piped output never gets the TUI or colors.
		if !term.IsTerminal(os.Stdout.Fd()) {
			noTUI = true
			os.Setenv("SEQVOL_NO_COLOR", "1")
		}
		if noTUI {
			os.Setenv("SEQVOL_NO_COLOR", "1")
		}

		if jsonOutput {
			return runJSON(absPath, vol, gameArg, fixJumps, outPath)
		}
		if noTUI {
			return runNoTUI(absPath, vol, gameArg, fixJumps, outPath)
		}

		program := tea.NewProgram(
			newModel(absPath, vol, gameArg, fixJumps, outPath),
			tea.WithAltScreen(),
			tea.WithContext(cmd.Context()),
		)
		if _, err := program.Run(); err != nil {
			slog.Error("TUI run error", "error", err)
			return fmt.Errorf("TUI error: %v", err)
		}
		return nil
	},
}

func Execute() {
	log.Setup(os.Getenv("SEQVOL_DEBUG") != "")

	// Bypass fang's markdown rendering for plain/scripted output modes.
	noTUI := false
	for _, arg := range os.Args[1:] {
		if arg == "--no-tui" || arg == "-n" || arg == "--json" {
			noTUI = true
			break
		}
	}
	if !noTUI && !term.IsTerminal(os.Stdout.Fd()) {
		noTUI = true
	}

	if noTUI {
		if err := rootCmd.Execute(); err != nil {
			os.Exit(1)
		}
	} else {
		if err := fang.Execute(
			context.Background(),
			rootCmd,
			fang.WithNotifySignal(os.Interrupt),
		); err != nil {
			os.Exit(1)
		}
	}
}
