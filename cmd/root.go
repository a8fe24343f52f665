package cmd

import (
	"fmt"
	"os"

	"github.com/netfabrik/resdir/cmd/res"
	"github.com/netfabrik/resdir/cmd/serve"
	"github.com/netfabrik/resdir/cmd/util"
	"github.com/spf13/cobra"
)

const (
	Version = "1.0.2"
)

var (

	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "resdir",
		Short: "resource directory and lock manager",
		Long: fmt.Sprintf(`resdir (v%s)

A resource directory and advisory lock manager for embedded network
processors. Resources are named regions in a fixed on-device table;
acquiring one takes the matching hardware mutex so concurrent hosts
never touch the same region at the same time.`, Version),
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of resdir",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("resdir v%s\n", Version)
		},
	}
)

func init() {
	// Add Commands
	RootCmd.AddCommand(serve.ServeCmd)
	RootCmd.AddCommand(res.ResourceCommands)
	RootCmd.AddCommand(versionCmd)

	// Add Flags
	key := "serializer"
	RootCmd.PersistentFlags().String(key, "binary", util.WrapString("serializer to use (json, gob, binary, cbor)"))
	key = "transport"
	RootCmd.PersistentFlags().String(key, "tcp", util.WrapString("transport to use (http, tcp, unix)"))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
