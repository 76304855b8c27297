package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"fimwatch/internal/config"
	"fimwatch/internal/containerid"
	"fimwatch/internal/debughttp"
	"fimwatch/internal/engine"
	"fimwatch/internal/logging"
	"fimwatch/internal/registry"
	"fimwatch/internal/rpc"
)

var (
	manifestPath string
	debugBind    string
	debugPort    string
	logLevel     string
)

func init() {
	cmdServe.Flags().StringVar(&manifestPath, "manifest", "", "path to a YAML or JSON watch manifest")
	cmdServe.Flags().StringVar(&debugBind, "debug-bind", "127.0.0.1", "address the debug HTTP surface listens on")
	cmdServe.Flags().StringVar(&debugPort, "debug-port", "9191", "port the debug HTTP surface listens on")
	cmdServe.Flags().StringVar(&logLevel, "log-level", "info", "logrus level: debug, info, warn, error")
	rootCmd.AddCommand(cmdServe)
}

var cmdServe = &cobra.Command{
	Use:   "serve",
	Short: "run the agent: install watches from a manifest and stream events",
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logging.New(logLevel)

		cfg, err := config.Load(manifestPath)
		if err != nil && manifestPath != "" {
			return err
		}

		reg := registry.New()
		svc := engine.NewService(reg, containerid.PassthroughResolver{}, log)

		debug := debughttp.New(debughttp.Config{Bind: debugBind, Port: debugPort}, reg)
		if err := debug.Start(); err != nil {
			return err
		}
		defer debug.Close()

		ctx := cmd.Context()
		for _, pod := range cfg.Pods {
			req := rpc.CreateWatchRequest{
				NodeName:     cfg.NodeName,
				PodName:      pod.PodName,
				ContainerIDs: pod.ContainerIDs,
				LogFormat:    cfg.LogFormat,
				Subjects:     toRPCSubjects(pod.Subjects),
			}
			if _, err := svc.CreateWatch(ctx, req); err != nil {
				log.WithError(err).WithField("pod", pod.PodName).Error("serve: initial watch failed")
			}
		}

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		return nil
	},
}

func toRPCSubjects(subjects []config.SubjectConfig) []rpc.Subject {
	out := make([]rpc.Subject, len(subjects))
	for i, s := range subjects {
		out[i] = rpc.Subject{Paths: s.Paths, Events: s.Events, Recursive: s.Recursive}
	}
	return out
}
