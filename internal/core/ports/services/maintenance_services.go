package services

import "context"

// MaintenanceSvcFacade runs the periodic maintenance-fee batch. The trigger
// (scheduler, admin call) lives outside the core.
type MaintenanceSvcFacade interface {
	ApplyMaintenanceFees(ctx context.Context) error
}
