package ui

import (
	"errors"
	"time"

	"github.com/OtisPresley/snmp-switch-manager-card/internal/domain"
)

// ToggleEditor opens the layout editor, or closes it asking first when the
// layout has unsaved changes.
func (a *App) ToggleEditor() {
	if !a.Session.Active() {
		a.OpenEditor()
		return
	}
	if a.Session.GestureInProgress() {
		a.setStatus("Finish the current gesture first")
		return
	}
	if a.Session.Dirty() {
		a.showCloseEditorDialog()
		return
	}
	a.CloseEditor()
}

// OpenEditor starts an editing session from the stored, configured or
// default layout and clears the force-off flag of a previous close.
func (a *App) OpenEditor() {
	if err := a.Bridge.Enable(a.Config); err != nil {
		a.logger.Warn().Err(err).Msg("clear editor force-off flag")
	}
	a.Session.Start(a.Bridge.Load(a.Config))
	a.logger.Info().Str("device", a.Config.DeviceName()).Msg("layout editor opened")
	a.renderDetails()
	a.setStatus("Layout editor open")
}

// CloseEditor ends the session, keeps the editor closed for this device and
// applies any host refresh deferred while it was open. Unsaved changes are
// dropped by reloading the last saved layout.
func (a *App) CloseEditor() {
	if !a.Session.Active() {
		return
	}
	dirty := a.Session.Dirty()
	a.Session.Stop()
	if dirty {
		a.Session.Start(a.Bridge.Load(a.Config))
		a.Session.Stop()
	}
	if err := a.Bridge.Close(a.Config); err != nil {
		a.logger.Error().Err(err).Msg("close layout editor")
		a.setStatus("Error closing editor: " + err.Error())
	} else {
		a.setStatus("Layout editor closed")
	}
	a.logger.Info().Str("device", a.Config.DeviceName()).Bool("discarded", dirty).Msg("layout editor closed")
	a.renderDetails()
	a.flushRefresh()
}

// ToggleFocusedPort asks the host to turn the focused port on or off.
func (a *App) ToggleFocusedPort() {
	port := a.Catalog.Get(a.FocusKey)
	if port == nil {
		a.setStatus("No port selected")
		return
	}
	service, err := domain.TogglePort(a.Host, a.Config, port)
	if err != nil {
		if errors.Is(err, domain.ErrControlsHidden) {
			a.setStatus("Port controls are hidden")
			return
		}
		a.setStatus("Error toggling port: " + err.Error())
		return
	}
	a.logger.Info().Str("entity_id", port.EntityID).Str("service", service).Msg("port toggled")
	a.setStatus("Requested " + service + " for " + port.Key())
	a.RequestRefresh()
}

// afterGesture updates the details pane and runs a refresh that was
// waiting for the gesture to end.
func (a *App) afterGesture() {
	a.renderDetails()
	a.flushRefresh()
}

// onSessionRender runs after the session replaced its state wholesale.
func (a *App) onSessionRender() {
	a.renderDetails()
}

// RequestRefresh rebuilds the panel from host states, or remembers the
// request while the editor or a gesture is open. Must run on the UI loop.
func (a *App) RequestRefresh() {
	if a.Session.RefreshBlocked() {
		a.refreshPending = true
		return
	}
	a.refreshPending = false
	a.applyRefresh()
}

func (a *App) flushRefresh() {
	if a.refreshPending {
		a.RequestRefresh()
	}
}

// applyRefresh rereads host states and syncs the port set.
func (a *App) applyRefresh() {
	states := a.Host.States()
	if a.reload != nil {
		reloaded, err := a.reload()
		if err != nil {
			a.logger.Warn().Err(err).Msg("reload host states")
			a.setStatus("Error reloading states: " + err.Error())
			return
		}
		states = reloaded
	}
	a.Catalog = domain.NewCatalog(states, a.Config)
	a.Session.Sync(a.items())
	if a.Catalog.Get(a.FocusKey) == nil {
		a.FocusKey = ""
		if keys := a.Catalog.Keys(); len(keys) > 0 {
			a.FocusKey = keys[0]
		}
	}
	a.renderDetails()
}

// startRefreshLoop polls the host on the UI loop every refresh interval.
func (a *App) startRefreshLoop() {
	if a.refresh <= 0 || a.stopRefresh != nil {
		return
	}
	stop := make(chan struct{})
	a.stopRefresh = stop
	go func() {
		ticker := time.NewTicker(a.refresh)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				a.TviewApp.QueueUpdateDraw(a.RequestRefresh)
			}
		}
	}()
}

func (a *App) stopRefreshLoop() {
	if a.stopRefresh != nil {
		close(a.stopRefresh)
		a.stopRefresh = nil
	}
}
