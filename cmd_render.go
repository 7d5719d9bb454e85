package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/OtisPresley/snmp-switch-manager-card/internal/export"
	"github.com/OtisPresley/snmp-switch-manager-card/internal/store"
)

func newRenderCmd() *cobra.Command {
	renderCmd := &cobra.Command{
		Use:   "render",
		Short: "render the saved layout to markdown (.md) or an image (.png)",
		RunE:  runRender,
	}
	renderCmd.Flags().StringVar(&outFile, "out", "", "output file, defaults to "+store.MarkdownFileName+" in the data directory")
	return renderCmd
}

func runRender(cmd *cobra.Command, args []string) error {
	logger, closeLog, err := newLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	p, err := openPanel(logger)
	if err != nil {
		return err
	}
	s, seed := p.session()
	view := export.NewPanel(p.config, p.catalog, s)

	out := outFile
	if out == "" {
		out = filepath.Join(dataDir, store.MarkdownFileName)
	}
	switch ext := strings.ToLower(filepath.Ext(out)); ext {
	case ".png":
		if err := export.RenderPNG(view, out); err != nil {
			return err
		}
	case ".md", ".markdown":
		md, err := export.RenderMarkdown(view)
		if err != nil {
			return err
		}
		if err := os.WriteFile(out, []byte(md), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", out, err)
		}
	default:
		return fmt.Errorf("unsupported output format %q: use .md or .png", ext)
	}

	logger.Info().Str("out", out).Str("source", string(seed.Source)).Msg("panel rendered")
	pterm.Success.WithWriter(cmd.OutOrStdout()).Printfln("Rendered %s layout to %s", seed.Source, out)
	return nil
}
