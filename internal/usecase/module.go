package usecase

import "go.uber.org/fx"

// Module provides core business use cases to the fx container.
var Module = fx.Provide(
	newSettings,
	NewGamificationUseCase,
	NewDispatcher,
	NewOrderUseCase,
	NewCheckoutUseCase,
	NewSlipUseCase,
	NewApprovalUseCase,
	NewEntitlementUseCase,
	NewCatalogUseCase,
	NewNotificationUseCase,
	NewLicenseUseCase,
	NewAuthUseCase,
)
