package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"seqvol/internal/container"
	"seqvol/internal/seq"
)

var listCmd = &cobra.Command{
	Use:   "list <file>",
	Short: "Decode a sequence and print its command listing without editing",
	Long: `List walks every command reachable from the start of the sequence,
including branch targets, and prints the decoded listing. Nothing is
written.`,
	Example: `
# List the commands of a sequence
seqvol list song.zseq

# List with the Ocarina of Time instruction set
seqvol list -g oot song.seq
  `,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		gameArg, _ := cmd.Flags().GetString("game")

		f, err := container.Load(args[0])
		if err != nil {
			return err
		}
		game, err := resolveGame(f, gameArg)
		if err != nil {
			return err
		}

		cmds, err := seq.CollectReachable(f.Seq, 0, seq.TableFor(game))
		if err != nil {
			return fmt.Errorf("failed to parse sequence: %w", err)
		}

		colored := term.IsTerminal(os.Stdout.Fd())
		fmt.Println("[SEQ COMMANDS]:")
		fmt.Println(renderListing(cmds, colored))
		return nil
	},
}

func init() {
	listCmd.Flags().StringP("game", "g", "mm", "Instruction set the sequence was created for (oot or mm)")
}
