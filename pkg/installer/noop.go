package installer

import (
	"context"

	"github.com/azpdev/zshrcman/pkg/types"
)

// Noop satisfies Installer without running anything. Groups whose
// payload is configuration (aliases, ssh keys, rc scripts) dispatch
// here; their materialization happens in the packages that own those
// payloads, not through a package manager.
type Noop struct {
	kind string
}

// NewNoop returns a no-op installer reporting the given type.
func NewNoop(kind string) Noop {
	return Noop{kind: kind}
}

func (n Noop) Name() string {
	if n.kind == "" {
		return TypeCustom
	}
	return n.kind
}

func (n Noop) Install(ctx context.Context, packages []string, scope types.InstallScope) error {
	return nil
}

func (n Noop) Uninstall(ctx context.Context, packages []string) error {
	return nil
}
