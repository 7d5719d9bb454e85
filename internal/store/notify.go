package store

import (
	"errors"
	"maps"

	"github.com/OtisPresley/snmp-switch-manager-card/internal/domain"
	"github.com/OtisPresley/snmp-switch-manager-card/internal/layout"
	"github.com/rs/zerolog"
)

// LayoutSaved announces positions written by the editor.
type LayoutSaved struct {
	Device          string
	BackgroundImage string
	PortPositions   map[string]layout.Point
}

// SessionClosed announces that the editor was closed from the panel.
type SessionClosed struct {
	Device string
}

// ConfigChanged carries a configuration change requested by the panel.
type ConfigChanged struct {
	CalibrationMode bool
}

// Notifier receives events for the host.
type Notifier interface {
	LayoutSaved(LayoutSaved) error
	SessionClosed(SessionClosed) error
	ConfigChanged(ConfigChanged) error
}

// Notifiers fans events out to every notifier in order.
type Notifiers []Notifier

func (ns Notifiers) LayoutSaved(e LayoutSaved) error {
	var errs []error
	for _, n := range ns {
		errs = append(errs, n.LayoutSaved(e))
	}
	return errors.Join(errs...)
}

func (ns Notifiers) SessionClosed(e SessionClosed) error {
	var errs []error
	for _, n := range ns {
		errs = append(errs, n.SessionClosed(e))
	}
	return errors.Join(errs...)
}

func (ns Notifiers) ConfigChanged(e ConfigChanged) error {
	var errs []error
	for _, n := range ns {
		errs = append(errs, n.ConfigChanged(e))
	}
	return errors.Join(errs...)
}

// ConfigNotifier persists events into the panel configuration file.
type ConfigNotifier struct {
	Path   string
	Config *domain.Config
}

func (n *ConfigNotifier) LayoutSaved(e LayoutSaved) error {
	n.Config.PortPositions = maps.Clone(e.PortPositions)
	return SaveConfig(n.Path, n.Config)
}

func (n *ConfigNotifier) SessionClosed(SessionClosed) error { return nil }

func (n *ConfigNotifier) ConfigChanged(e ConfigChanged) error {
	if n.Config.CalibrationMode == e.CalibrationMode {
		return nil
	}
	n.Config.CalibrationMode = e.CalibrationMode
	return SaveConfig(n.Path, n.Config)
}

// LogNotifier writes events to a logger.
type LogNotifier struct {
	Logger zerolog.Logger
}

func (n LogNotifier) LayoutSaved(e LayoutSaved) error {
	n.Logger.Info().
		Str("device", e.Device).
		Str("background_image", e.BackgroundImage).
		Int("ports", len(e.PortPositions)).
		Msg("layout saved")
	return nil
}

func (n LogNotifier) SessionClosed(e SessionClosed) error {
	n.Logger.Info().Str("device", e.Device).Msg("layout editor closed")
	return nil
}

func (n LogNotifier) ConfigChanged(e ConfigChanged) error {
	n.Logger.Info().Bool("calibration_mode", e.CalibrationMode).Msg("config changed")
	return nil
}
