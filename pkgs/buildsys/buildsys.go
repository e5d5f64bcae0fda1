// Package buildsys defines what the CLI needs from a build helper.
package buildsys

import "context"

// BuildSystem is a fully configured build of one source tree. Option setting
// is helper specific; the lifecycle is shared.
type BuildSystem interface {
	// Configure runs the configuration steps only.
	Configure(ctx context.Context) error

	// Build runs the whole pipeline and returns where artifacts landed.
	Build(ctx context.Context) (string, error)

	// OutputDir reports where artifacts land.
	OutputDir() string
}
