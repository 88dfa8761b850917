package bootstrap

import (
	"time"

	"jobfair-booking/internal/domain/booking"
	"jobfair-booking/internal/pkg/config"

	"go.uber.org/fx"
)

var CatalogModule = fx.Module("catalog",
	fx.Provide(
		NewCatalog,
	),
)

func NewCatalog(cfg config.Config) (*booking.Catalog, error) {
	start, err := time.Parse("2006-01-02", cfg.Campaign.Start)
	if err != nil {
		return nil, err
	}
	end, err := time.Parse("2006-01-02", cfg.Campaign.End)
	if err != nil {
		return nil, err
	}

	return booking.NewCatalog(cfg.Campaign.Slots, start, end)
}
