package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/OtisPresley/snmp-switch-manager-card/internal/domain"
	"github.com/OtisPresley/snmp-switch-manager-card/internal/layout"
	"github.com/OtisPresley/snmp-switch-manager-card/internal/store"
)

var (
	cfgFile    string
	statesFile string
	dataDir    string
	logFile    string
	refresh    time.Duration
	outFile    string
	jsonFile   string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "ssm-panel",
		Short:        "switch port panel with a layout editor",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", store.ConfigFileName, "path to the panel YAML config")
	rootCmd.PersistentFlags().StringVar(&statesFile, "states", store.StatesFileName, "path to the host states YAML file")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", ".", "directory holding "+store.DataDirName+"/ and "+store.MarkdownFileName)
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "write diagnostic logs to this file")

	rootCmd.AddCommand(newEditCmd(), newRenderCmd(), newLayoutCmd())
	return rootCmd
}

// newLogger opens the log file, or returns a disabled logger when none is set.
func newLogger() (zerolog.Logger, func(), error) {
	if logFile == "" {
		return zerolog.Nop(), func() {}, nil
	}
	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("open log file: %w", err)
	}
	logger := zerolog.New(f).With().Timestamp().Logger()
	return logger, func() { _ = f.Close() }, nil
}

// panel is everything a command needs to work on one device's layout.
type panel struct {
	config  *domain.Config
	host    *store.FileHost
	catalog *domain.Catalog
	bridge  *store.Bridge
	logger  zerolog.Logger

	slots    store.Slots
	notifier store.Notifier
}

func openPanel(logger zerolog.Logger) (*panel, error) {
	cfg, err := store.LoadConfig(cfgFile)
	if err != nil {
		return nil, err
	}
	host, err := store.NewFileHost(statesFile, logger)
	if err != nil {
		return nil, err
	}
	notifier := store.Notifiers{
		&store.ConfigNotifier{Path: cfgFile, Config: cfg},
		store.LogNotifier{Logger: logger},
	}
	slots := store.NewFileSlots(dataDir)
	return &panel{
		config:   cfg,
		host:     host,
		catalog:  domain.NewCatalog(host.States(), cfg),
		bridge:   store.NewBridge(slots, notifier, logger),
		logger:   logger,
		slots:    slots,
		notifier: notifier,
	}, nil
}

// session returns an open editing session seeded the way the editor would
// open it.
func (p *panel) session() (*layout.Session, layout.Seed) {
	items := layout.ItemsFromCatalog(p.catalog, p.config.UplinkPorts.Set())
	s := layout.NewSession(items, layout.OptionsFromConfig(p.config))
	seed := p.bridge.Load(p.config)
	s.Start(seed)
	return s, seed
}
