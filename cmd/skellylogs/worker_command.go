package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"skellylogs/internal/logging"
	"skellylogs/internal/relayq"
)

func newWorkerCommand(ctx *commandContext) *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:    "worker",
		Short:  "Forward events to the parent process relay queue",
		Hidden: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			relay, err := relayq.ConnectWorker(cfg.Queue.Capacity)
			if err != nil {
				return err
			}

			workerCfg := *cfg
			workerCfg.File.ProcessLock = true
			ok, err := logging.Setup(ctx.pipeline, &workerCfg, logging.SetupOptions{
				Manager: ctx.manager,
				Queue:   relay,
				Console: cmd.ErrOrStderr(),
			})
			if err != nil {
				return errors.Join(fmt.Errorf("configure worker logging: %w", err), relay.Close())
			}
			if !ok {
				return errors.Join(errors.New("configure worker logging: no relay handle"), relay.Close())
			}

			log := ctx.pipeline.Logger("skellylogs.worker")
			for i := range count {
				log.Info("worker event %d", i)
			}
			log.Success("worker finished %d events", count)

			ctx.pipeline.Reset()
			if err := relay.Close(); err != nil {
				return fmt.Errorf("close relay: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 5, "Events to forward")
	return cmd
}
