package topology

import (
	"github.com/google/uuid"

	"cmuxterm/internal/model"
)

// PanelFor resolves surfaceHandle (ref, uuid, decimal index into the current
// workspace's surfaces, or empty for the focused surface) and returns its
// Panel, the one piece of topology a host collaborator (terminal/browser
// adapter) needs to address the real backing session (spec §4.7, §9).
func (s *Store) PanelFor(surfaceHandle string) (model.Panel, error) {
	var out model.Panel
	var err error
	s.submit(func() {
		id, rerr := s.resolveCurrentSurface(surfaceHandle)
		if rerr != nil {
			err = rerr
			return
		}
		sfc := s.surfaces[id]
		panel := s.panels[sfc.PanelID]
		if panel == nil {
			err = notFound(model.KindSurface, surfaceHandle)
			return
		}
		out = *panel
	})
	return out, err
}

// SetPanelHost updates the opaque host handle for surfaceID's panel, called
// by a host collaborator once it has actually spawned the backing terminal
// or web view session.
func (s *Store) SetPanelHost(surfaceID uuid.UUID, host string) error {
	var err error
	s.submit(func() {
		sfc := s.surfaces[surfaceID]
		if sfc == nil {
			err = notFound(model.KindSurface, surfaceID.String())
			return
		}
		panel := s.panels[sfc.PanelID]
		if panel == nil {
			err = notFound(model.KindSurface, surfaceID.String())
			return
		}
		panel.Host = host
	})
	return err
}
