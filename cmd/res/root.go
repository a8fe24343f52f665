package res

import (
	"github.com/netfabrik/resdir/cmd/util"
	"github.com/netfabrik/resdir/rpc/client"
	"github.com/spf13/cobra"
)

var (
	rpcDirectory client.IRemoteDirectory

	// ResourceCommands represents the resource command group
	ResourceCommands = &cobra.Command{
		Use:               "res",
		Short:             "Perform resource directory operations",
		PersistentPreRunE: setupResourceClient,
	}
)

func init() {
	// Initialize viper
	cobra.OnInitialize(util.InitClientConfig)

	// Add common RPC flags to the resource command
	util.SetupRPCClientFlags(ResourceCommands)

	// Set default device ID for resource operations
	ResourceCommands.PersistentFlags().Int("device", 1, util.WrapString("ID of the device to connect to"))

	// Add subcommands
	ResourceCommands.AddCommand(acquireCmd)
	ResourceCommands.AddCommand(infoCmd)
	ResourceCommands.AddCommand(perfTestCmd)
}

// setupResourceClient initializes the remote directory client
func setupResourceClient(cmd *cobra.Command, _ []string) error {
	// Bind command flags to viper
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}

	// Get client configuration components
	config := util.GetClientConfig()
	deviceId := util.GetDeviceID()

	// Get serializer and transport
	s, err := util.GetSerializer()
	if err != nil {
		return err
	}

	t, err := util.GetTransport()
	if err != nil {
		return err
	}

	// Create the remote directory client
	rpcDirectory, err = client.NewRPCResourceDirectory(
		deviceId,
		*config,
		t,
		s,
	)

	return err
}
