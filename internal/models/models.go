package models

import (
	"context"
)

// Command is a fully configured mdforge operation, ready to run.
// Setup constructs one from CLI args + project config.
type Command interface {
	Run(ctx context.Context) error
}
