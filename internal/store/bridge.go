package store

import (
	"fmt"
	"time"

	"github.com/OtisPresley/snmp-switch-manager-card/internal/domain"
	"github.com/OtisPresley/snmp-switch-manager-card/internal/layout"
	"github.com/rs/zerolog"
)

// Bridge connects an editing session to slot storage and to the host.
type Bridge struct {
	slots    Slots
	notifier Notifier
	logger   zerolog.Logger
	now      func() time.Time
}

// NewBridge creates a bridge. A nil notifier discards events.
func NewBridge(slots Slots, notifier Notifier, logger zerolog.Logger) *Bridge {
	if notifier == nil {
		notifier = Notifiers{}
	}
	return &Bridge{slots: slots, notifier: notifier, logger: logger, now: time.Now}
}

// Stored returns the saved record for cfg, if a readable one exists.
func (b *Bridge) Stored(cfg *domain.Config) (Record, bool) {
	key := StorageKey(cfg)
	data, ok, err := b.slots.Get(key)
	if err != nil {
		b.logger.Debug().Err(err).Str("key", key).Msg("read stored layout")
		return Record{}, false
	}
	if !ok {
		return Record{}, false
	}
	rec, ok := DecodeRecord(data)
	if !ok {
		b.logger.Debug().Str("key", key).Msg("ignoring unreadable stored layout")
	}
	return rec, ok
}

// Load returns the starting state for a session: the stored layout, else the
// configured port_positions, else the default grid.
func (b *Bridge) Load(cfg *domain.Config) layout.Seed {
	if rec, ok := b.Stored(cfg); ok {
		return layout.Seed{
			Source:    layout.SeedStored,
			Positions: rec.Map,
			MainBox:   rec.PortsBox,
			UplinkBox: rec.UplinkBox,
			Order:     rec.PortsOrder,
		}
	}
	if len(cfg.PortPositions) > 0 {
		return layout.Seed{Source: layout.SeedConfig, Positions: cfg.PortPositions, Order: layout.OrderNumeric}
	}
	return layout.Seed{Source: layout.SeedDefault, Order: layout.OrderNumeric}
}

// Save writes snap to the slot for cfg and announces the saved positions.
func (b *Bridge) Save(cfg *domain.Config, snap layout.Snapshot) error {
	rec := NewRecord(snap, b.now())
	data, err := EncodeRecord(rec)
	if err != nil {
		return fmt.Errorf("encode layout: %w", err)
	}
	if err := b.slots.Set(StorageKey(cfg), data); err != nil {
		return err
	}
	b.logger.Info().Str("key", StorageKey(cfg)).Int("ports", len(rec.Map)).Msg("layout saved")
	event := LayoutSaved{
		Device:          cfg.DeviceName(),
		BackgroundImage: cfg.BackgroundImage,
		PortPositions:   rec.Map,
	}
	if err := b.notifier.LayoutSaved(event); err != nil {
		return fmt.Errorf("notify layout saved: %w", err)
	}
	return nil
}

// Close keeps the editor closed for the device and tells the host so.
func (b *Bridge) Close(cfg *domain.Config) error {
	if err := b.slots.Set(ForceOffKey(cfg), []byte("1")); err != nil {
		return err
	}
	if err := b.notifier.SessionClosed(SessionClosed{Device: cfg.DeviceName()}); err != nil {
		return fmt.Errorf("notify session closed: %w", err)
	}
	if err := b.notifier.ConfigChanged(ConfigChanged{CalibrationMode: false}); err != nil {
		return fmt.Errorf("notify config changed: %w", err)
	}
	return nil
}

// Enable clears the force-off flag set by Close.
func (b *Bridge) Enable(cfg *domain.Config) error {
	return b.slots.Delete(ForceOffKey(cfg))
}

// Forget deletes the stored layout for cfg.
func (b *Bridge) Forget(cfg *domain.Config) error {
	return b.slots.Delete(StorageKey(cfg))
}

// EditorEnabled reports whether the host asks for the editor and it was not
// closed from inside the panel since.
func (b *Bridge) EditorEnabled(cfg *domain.Config) bool {
	if !cfg.CalibrationMode {
		return false
	}
	_, off, err := b.slots.Get(ForceOffKey(cfg))
	if err != nil {
		b.logger.Debug().Err(err).Msg("read force-off flag")
		return true
	}
	return !off
}
