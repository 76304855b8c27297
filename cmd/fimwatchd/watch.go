package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"fimwatch/internal/containerid"
	"fimwatch/internal/engine"
	"fimwatch/internal/logging"
	"fimwatch/internal/registry"
	"fimwatch/internal/rpc"
)

var (
	watchNode      string
	watchPod       string
	watchPaths     []string
	watchEvents    []string
	watchRecursive bool
)

func init() {
	cmdWatch.Flags().StringVar(&watchNode, "node", "", "node name")
	cmdWatch.Flags().StringVar(&watchPod, "pod", "", "pod name")
	cmdWatch.Flags().StringSliceVar(&watchPaths, "path", nil, "container-relative path to watch (repeatable)")
	cmdWatch.Flags().StringSliceVar(&watchEvents, "event", []string{"all"}, "event name to watch (repeatable)")
	cmdWatch.Flags().BoolVar(&watchRecursive, "recursive", false, "auto-watch subdirectories created under --path")
	rootCmd.AddCommand(cmdWatch)
	rootCmd.AddCommand(cmdUnwatch)
}

// fimwatchd has no separate daemon process to dial into: the watch and
// unwatch subcommands build their own Service against a fresh, empty
// Registry and act on it directly for this one invocation, same as the
// out-of-scope RPC surface would against the long-running serve process.
func newStandaloneService() *engine.Service {
	log := logging.New("info")
	return engine.NewService(registry.New(), containerid.PassthroughResolver{}, log)
}

var cmdWatch = &cobra.Command{
	Use:   "watch <container-id> [container-id...]",
	Short: "install a watch for the given containers",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if watchNode == "" || watchPod == "" {
			return fmt.Errorf("--node and --pod are required")
		}
		if len(watchPaths) == 0 {
			return fmt.Errorf("at least one --path is required")
		}

		svc := newStandaloneService()
		req := rpc.CreateWatchRequest{
			NodeName:     watchNode,
			PodName:      watchPod,
			ContainerIDs: args,
			Subjects:     []rpc.Subject{{Paths: watchPaths, Events: watchEvents, Recursive: watchRecursive}},
		}
		resp, err := svc.CreateWatch(cmd.Context(), req)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "watching pids %s via queue %s\n", strings.Trim(fmt.Sprint(resp.Pids), "[]"), resp.QueueName)
		return nil
	},
}

var cmdUnwatch = &cobra.Command{
	Use:   "unwatch <container-id> [container-id...]",
	Short: "remove a watch for the given containers",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if watchNode == "" {
			return fmt.Errorf("--node is required")
		}
		svc := newStandaloneService()
		_, err := svc.DestroyWatch(cmd.Context(), rpc.DestroyWatchRequest{NodeName: watchNode, ContainerIDs: args})
		if err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout, "watch removed")
		return nil
	},
}
