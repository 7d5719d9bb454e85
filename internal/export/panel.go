package export

import (
	"github.com/OtisPresley/snmp-switch-manager-card/internal/domain"
	"github.com/OtisPresley/snmp-switch-manager-card/internal/layout"
)

// Panel is everything a report or image needs about one switch panel.
type Panel struct {
	Config    *domain.Config
	Catalog   *domain.Catalog
	Registry  *layout.Registry
	MainBox   *layout.Rect
	UplinkBox *layout.Rect
	Order     layout.OrderMode
}

// NewPanel captures the current state of a session.
func NewPanel(cfg *domain.Config, c *domain.Catalog, s *layout.Session) Panel {
	return Panel{
		Config:    cfg,
		Catalog:   c,
		Registry:  s.Registry(),
		MainBox:   s.MainBox(),
		UplinkBox: s.UplinkBox(),
		Order:     s.Order(),
	}
}

func (p Panel) title() string {
	if p.Config.Title != "" {
		return p.Config.Title
	}
	if prefix := p.Config.DevicePrefix(); prefix != "" {
		return prefix
	}
	return "Switch Panel"
}

func (p Panel) port(key string) *domain.Port {
	if p.Catalog == nil {
		return nil
	}
	return p.Catalog.Get(key)
}
