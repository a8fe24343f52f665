package res

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var (
	holdSeconds uint64

	acquireCmd = &cobra.Command{
		Use:   "acquire [name]",
		Short: "Acquire a resource and print its metadata",
		Long:  "Acquire a named resource, print its metadata and release it again. With --hold the resource is kept locked for the given number of seconds before it is released, which keeps other hosts out of the region for that time.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]

			res, err := rpcDirectory.Acquire(name)
			if err != nil {
				return err
			}

			fmt.Printf("name=%s, cppid=0x%08x, address=0x%x, size=%d\n", res.Name(), res.CPPID(), res.Address(), res.Size())

			if holdSeconds > 0 {
				fmt.Printf("holding lock for %d seconds...\n", holdSeconds)
				time.Sleep(time.Duration(holdSeconds) * time.Second)
			}

			if err := rpcDirectory.Release(res); err != nil {
				return fmt.Errorf("failed to release resource: %v", err)
			}
			fmt.Println("released")
			return nil
		},
	}

	infoCmd = &cobra.Command{
		Use:   "info [name]",
		Short: "Print the metadata of a resource without locking it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]

			res, err := rpcDirectory.Info(name)
			if err != nil {
				return err
			}

			fmt.Printf("name=%s, cppid=0x%08x, address=0x%x, size=%d\n", res.Name(), res.CPPID(), res.Address(), res.Size())
			return nil
		},
	}
)

func init() {
	acquireCmd.Flags().Uint64Var(&holdSeconds, "hold", 0, "How long to hold the lock before releasing it (in seconds, 0 releases immediately)")
}
