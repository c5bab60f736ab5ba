package main

import (
	"fmt"

	"github.com/gookit/color"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/pocketvm-dev/pocketvm/interp"
	"github.com/pocketvm-dev/pocketvm/module"
	"github.com/pocketvm-dev/pocketvm/ops"
	_ "github.com/pocketvm-dev/pocketvm/prim"
	"github.com/pocketvm-dev/pocketvm/vm"
)

var (
	disasmFlag bool
)

var runCmd = &cobra.Command{
	Use:   "run MODULE",
	Short: "Load a module and execute it",
	Args:  cobra.ExactArgs(1),
	Run:   runCommand,
}

func init() {
	runCmd.Flags().BoolVar(&disasmFlag, "disasm", false, "Print the loaded bytecode before running")
}

func runCommand(cmd *cobra.Command, args []string) {
	prog, err := module.LoadFile(args[0], ops.Default)
	if err != nil {
		log.Fatal().Err(err).Msg("Couldn't load module")
	}
	if disasmFlag {
		prog.DebugPrint()
	}

	result, err := interp.New(prog, ops.Default).Run()
	if err != nil {
		log.Fatal().Err(err).Msg("Error during execution")
	}

	if _, ok := result.(vm.NoneValue); !ok {
		fmt.Println(result.String())
	}
	color.Green.Println("✓ module finished")
}
