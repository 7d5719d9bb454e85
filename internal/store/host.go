package store

import (
	"maps"
	"sync"

	"github.com/OtisPresley/snmp-switch-manager-card/internal/domain"
	"github.com/rs/zerolog"
)

// FileHost is a domain.Host backed by a states file. Service calls flip the
// switch entity and write the file back.
type FileHost struct {
	mu     sync.Mutex
	path   string
	states domain.States
	logger zerolog.Logger
}

// NewFileHost loads the states file at path.
func NewFileHost(path string, logger zerolog.Logger) (*FileHost, error) {
	states, err := LoadStates(path)
	if err != nil {
		return nil, err
	}
	return &FileHost{path: path, states: states, logger: logger}, nil
}

func (h *FileHost) States() domain.States {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.states
}

// Reload rereads the states file.
func (h *FileHost) Reload() (domain.States, error) {
	states, err := LoadStates(h.path)
	if err != nil {
		return nil, err
	}
	h.mu.Lock()
	h.states = states
	h.mu.Unlock()
	return states, nil
}

func (h *FileHost) CallService(svcDomain, service string, data map[string]any) {
	entityID, _ := data["entity_id"].(string)
	log := h.logger.With().Str("domain", svcDomain).Str("service", service).Str("entity_id", entityID).Logger()
	if svcDomain != domain.SwitchDomain {
		log.Warn().Msg("unsupported service domain")
		return
	}

	h.mu.Lock()
	st, ok := h.states[entityID]
	if !ok {
		h.mu.Unlock()
		log.Warn().Msg("unknown entity")
		return
	}
	next := maps.Clone(h.states)
	attrs := maps.Clone(st.Attributes)
	if attrs == nil {
		attrs = map[string]any{}
	}
	switch service {
	case domain.ServiceTurnOn:
		st.State = domain.SwitchStateOn
		attrs["Admin"] = "Up"
	case domain.ServiceTurnOff:
		st.State = domain.SwitchStateOff
		attrs["Admin"] = "Down"
	default:
		h.mu.Unlock()
		log.Warn().Msg("unsupported service")
		return
	}
	st.Attributes = attrs
	next[entityID] = st
	h.states = next
	h.mu.Unlock()

	if err := SaveStates(h.path, next); err != nil {
		log.Error().Err(err).Msg("write states")
		return
	}
	log.Info().Msg("service called")
}
