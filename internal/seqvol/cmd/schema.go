package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
	"github.com/spf13/cobra"
)

// SeqvolConfig represents configuration for the seqvol tool
type SeqvolConfig struct {
	Game     string `json:"game" jsonschema:"title=Game,description=Instruction set to decode with (oot or mm)"`
	Volume   string `json:"volume" jsonschema:"title=Volume,description=Replacement master volume (decimal, hex, or percentage)"`
	FixJumps bool   `json:"fixJumps" jsonschema:"title=Fix Jumps,description=Rewrite conditional jumps to unconditional ones"`
	Output   string `json:"output" jsonschema:"title=Output,description=Path to write the edited file to"`
}

var schemaCmd = &cobra.Command{
	Use:    "schema",
	Short:  "Generate JSON schema for configuration",
	Long:   "Generate JSON schema for the seqvol configuration",
	Hidden: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		reflector := new(jsonschema.Reflector)
		bts, err := json.MarshalIndent(reflector.Reflect(&SeqvolConfig{}), "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal schema: %w", err)
		}
		fmt.Println(string(bts))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(schemaCmd)
}
