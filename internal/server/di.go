package server

import (
	"github.com/google/wire"

	"github.com/iWorld-y/memo_dashboard/internal/data"
	"github.com/iWorld-y/memo_dashboard/internal/service"
	"github.com/iWorld-y/memo_dashboard/internal/usecase"
)

// ProviderSet 是仪表盘服务的依赖注入 Provider 集合
var ProviderSet = wire.NewSet(
	// Server providers
	NewHTTPServer,

	// Data providers
	data.NewData,
	data.NewBackendRepo,
	data.NewSessionRepo,
	data.NewImageRepo,
	data.NewCatalogRepo,

	// UseCase providers
	usecase.NewDashboardUseCase,

	// Service providers
	service.NewDashboardService,
)
