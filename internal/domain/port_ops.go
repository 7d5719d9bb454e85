package domain

import (
	"errors"
	"fmt"
)

// ErrControlsHidden is returned when the panel is configured view-only.
var ErrControlsHidden = errors.New("port controls are hidden by configuration")

// TogglePort asks the host to flip the switch entity of p.
// It returns the service that was requested.
func TogglePort(host Host, cfg *Config, p *Port) (string, error) {
	if cfg.HideControlButtons {
		return "", ErrControlsHidden
	}
	if p == nil || p.EntityID == "" {
		return "", fmt.Errorf("port has no entity id")
	}
	service := ServiceTurnOn
	if p.IsOn() {
		service = ServiceTurnOff
	}
	host.CallService(SwitchDomain, service, map[string]any{"entity_id": p.EntityID})
	return service, nil
}
