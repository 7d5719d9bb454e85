package main

import (
	"fmt"
	"io"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/OtisPresley/snmp-switch-manager-card/internal/layout"
	"github.com/OtisPresley/snmp-switch-manager-card/internal/store"
)

func newLayoutCmd() *cobra.Command {
	layoutCmd := &cobra.Command{
		Use:   "layout",
		Short: "inspect and manage the saved port layout",
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "print port positions and boxes of the current layout",
		RunE:  runLayoutShow,
	}

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "print the layout as JSON (port name to {x, y})",
		RunE:  runLayoutExport,
	}

	applyCmd := &cobra.Command{
		Use:   "apply",
		Short: "replace the layout from a JSON file and save it",
		RunE:  runLayoutApply,
	}
	applyCmd.Flags().StringVar(&jsonFile, "file", "", "JSON layout file, - for stdin (required)")
	applyCmd.MarkFlagRequired("file")

	resetCmd := &cobra.Command{
		Use:   "reset",
		Short: "delete the saved layout so the configured or default one is used",
		RunE:  runLayoutReset,
	}

	enableCmd := &cobra.Command{
		Use:   "enable",
		Short: "turn calibration mode on and clear the editor force-off flag",
		RunE:  runLayoutEnable,
	}

	layoutCmd.AddCommand(showCmd, exportCmd, applyCmd, resetCmd, enableCmd)
	return layoutCmd
}

// withPanel opens the panel with the configured logger and runs fn.
func withPanel(fn func(p *panel) error) error {
	logger, closeLog, err := newLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	p, err := openPanel(logger)
	if err != nil {
		return err
	}
	return fn(p)
}

func runLayoutShow(cmd *cobra.Command, args []string) error {
	return withPanel(func(p *panel) error {
		s, seed := p.session()
		reg := s.Registry()
		w := cmd.OutOrStdout()

		pterm.Info.WithWriter(w).Printfln("Layout of %s from %s positions, editor enabled: %t",
			p.config.DeviceName(), seed.Source, p.bridge.EditorEnabled(p.config))

		data := pterm.TableData{{"Port", "X", "Y", "Uplink"}}
		for _, key := range reg.Keys(nil) {
			pos := reg.Rendered(key)
			it, _ := reg.Item(key)
			uplink := ""
			if it.Uplink {
				uplink = "yes"
			}
			data = append(data, []string{key, formatCoord(pos.X), formatCoord(pos.Y), uplink})
		}
		if err := pterm.DefaultTable.WithHasHeader().WithWriter(w).WithData(data).Render(); err != nil {
			return err
		}

		boxes := pterm.TableData{{"Box", "X", "Y", "Width", "Height"}}
		addBox := func(name string, r *layout.Rect) {
			if r == nil {
				return
			}
			boxes = append(boxes, []string{name, formatCoord(r.X), formatCoord(r.Y), formatCoord(r.W), formatCoord(r.H)})
		}
		addBox("Ports", s.MainBox())
		addBox("Uplinks", s.UplinkBox())
		if len(boxes) > 1 {
			pterm.Info.WithWriter(w).Printfln("Ports box order: %s", s.Order())
			return pterm.DefaultTable.WithHasHeader().WithWriter(w).WithData(boxes).Render()
		}
		return nil
	})
}

func runLayoutExport(cmd *cobra.Command, args []string) error {
	return withPanel(func(p *panel) error {
		s, _ := p.session()
		_, err := fmt.Fprintln(cmd.OutOrStdout(), s.ExportJSON())
		return err
	})
}

func runLayoutApply(cmd *cobra.Command, args []string) error {
	text, err := readJSONFile(cmd.InOrStdin())
	if err != nil {
		return err
	}
	return withPanel(func(p *panel) error {
		s, _ := p.session()
		if err := s.ApplyJSON(text); err != nil {
			return err
		}
		if err := p.bridge.Save(p.config, s.Snapshot()); err != nil {
			return err
		}
		pterm.Success.WithWriter(cmd.OutOrStdout()).Printfln("Saved %d port positions for %s", len(s.Registry().Positions()), p.config.DeviceName())
		return nil
	})
}

func readJSONFile(stdin io.Reader) (string, error) {
	if jsonFile == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(jsonFile)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", jsonFile, err)
	}
	return string(data), nil
}

func runLayoutReset(cmd *cobra.Command, args []string) error {
	return withPanel(func(p *panel) error {
		if err := p.bridge.Forget(p.config); err != nil {
			return err
		}
		p.logger.Info().Str("key", store.StorageKey(p.config)).Msg("stored layout deleted")
		pterm.Success.WithWriter(cmd.OutOrStdout()).Printfln("Deleted the saved layout for %s", p.config.DeviceName())
		return nil
	})
}

func runLayoutEnable(cmd *cobra.Command, args []string) error {
	return withPanel(func(p *panel) error {
		if err := p.bridge.Enable(p.config); err != nil {
			return err
		}
		if err := p.notifier.ConfigChanged(store.ConfigChanged{CalibrationMode: true}); err != nil {
			return err
		}
		pterm.Success.WithWriter(cmd.OutOrStdout()).Printfln("Layout editor enabled for %s", p.config.DeviceName())
		return nil
	})
}

func formatCoord(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
