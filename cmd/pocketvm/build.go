package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/gookit/color"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/pocketvm-dev/pocketvm/module"
)

var (
	outputFlag string
)

var buildCmd = &cobra.Command{
	Use:   "build MANIFEST",
	Short: "Compile a TOML module manifest into a binary module",
	Args:  cobra.ExactArgs(1),
	Run:   buildCommand,
}

func init() {
	buildCmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Output path (default: manifest name with .pvm)")
}

func buildCommand(cmd *cobra.Command, args []string) {
	manifest, err := module.LoadManifestFile(args[0])
	if err != nil {
		log.Fatal().Err(err).Msg("Couldn't load manifest")
	}
	prog, err := manifest.Assemble()
	if err != nil {
		log.Fatal().Err(err).Msg("Couldn't assemble manifest")
	}

	out := outputFlag
	if out == "" {
		out = strings.TrimSuffix(args[0], filepath.Ext(args[0])) + ".pvm"
	}
	f, err := os.Create(out)
	if err != nil {
		log.Fatal().Err(err).Msg("Couldn't create output file")
	}
	defer f.Close()
	if err := module.WriteProgram(f, prog); err != nil {
		log.Fatal().Err(err).Msg("Couldn't write module")
	}
	color.Green.Printf("✓ wrote %s\n", out)
}
