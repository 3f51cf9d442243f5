package state

import (
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/azpdev/zshrcman/pkg/errors"
)

// Export formats accepted by Export.
const (
	FormatTOML = "toml"
	FormatYAML = "yaml"
)

// Export renders the snapshot for inspection. TOML is the native
// on-disk format; YAML is offered for tooling that prefers it. An
// empty format means TOML.
func (m *Manager) Export(format string) ([]byte, error) {
	switch format {
	case "", FormatTOML:
		data, err := toml.Marshal(m.snap)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrInternal, "failed to encode snapshot as TOML")
		}
		return data, nil
	case FormatYAML:
		data, err := yaml.Marshal(m.snap)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrInternal, "failed to encode snapshot as YAML")
		}
		return data, nil
	default:
		return nil, errors.Newf(errors.ErrInvalidInput, "unsupported export format %q", format).
			WithDetail("format", format)
	}
}
