//go:build wireinject
// +build wireinject

package workorder

import (
	"github.com/google/wire"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	httpDelivery "github.com/tair/garage-management/internal/workorder/delivery/http"
	"github.com/tair/garage-management/internal/workorder/domain"
	"github.com/tair/garage-management/internal/workorder/repository"
)

// StoreSet provides the traced GORM store bound to the domain interface
var StoreSet = wire.NewSet(
	repository.NewGormStoreWithTracing,
	wire.Bind(new(domain.Store), new(*repository.GormStoreWithTracing)),
)

// InitializeHTTPHandler initializes the work order HTTP handler with all
// dependencies
func InitializeHTTPHandler(db *gorm.DB, publisher domain.Publisher, redisClient *redis.Client) (*httpDelivery.WorkOrderHandler, error) {
	wire.Build(
		StoreSet,
		httpDelivery.NewWorkOrderHandler,
	)
	return nil, nil
}
