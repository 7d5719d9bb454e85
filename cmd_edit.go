package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/OtisPresley/snmp-switch-manager-card/internal/ui"
)

func newEditCmd() *cobra.Command {
	editCmd := &cobra.Command{
		Use:   "edit",
		Short: "open the interactive panel and layout editor",
		RunE:  runEdit,
	}
	editCmd.Flags().DurationVar(&refresh, "refresh", 5*time.Second, "host states polling interval, 0 to disable")
	return editCmd
}

func runEdit(cmd *cobra.Command, args []string) error {
	logger, closeLog, err := newLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	p, err := openPanel(logger)
	if err != nil {
		return err
	}
	app, err := ui.New(ui.Options{
		Config:   p.config,
		WorkDir:  dataDir,
		Host:     p.host,
		Reload:   p.host.Reload,
		Slots:    p.slots,
		Notifier: p.notifier,
		Refresh:  refresh,
		Logger:   logger,
	})
	if err != nil {
		return err
	}
	logger.Info().Str("device", p.config.DeviceName()).Int("ports", len(p.catalog.Keys())).Msg("panel started")
	return app.Run()
}
