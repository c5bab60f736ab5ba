package main

import (
	"fmt"

	"github.com/gookit/color"
	"github.com/spf13/cobra"

	"github.com/pocketvm-dev/pocketvm/ops"
	_ "github.com/pocketvm-dev/pocketvm/prim"
)

var opsCmd = &cobra.Command{
	Use:   "ops",
	Short: "List the registered primitive operations",
	Run: func(cmd *cobra.Command, args []string) {
		color.Cyan.Printf("%d registered operations\n", ops.Default.Count())
		for _, name := range ops.Default.Names() {
			fmt.Println("  " + name)
		}
	},
}
