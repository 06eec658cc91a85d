package handlers

import (
	"context"

	"github.com/auralist-app/auralist/internal/application/identity/usecases"
)

// Use case interfaces let tests substitute the identity flows.

type ProvisionIdentityExecutor interface {
	Execute(ctx context.Context, cmd usecases.ProvisionIdentityCommand) (*usecases.ProvisionIdentityResult, error)
}

type ResolveDeviceExecutor interface {
	Execute(ctx context.Context, cmd usecases.ResolveDeviceCommand) (*usecases.ResolveDeviceResult, error)
}

type RestoreIdentityExecutor interface {
	Execute(ctx context.Context, cmd usecases.RestoreIdentityCommand) (*usecases.RestoreIdentityResult, error)
}
