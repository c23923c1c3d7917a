package handlers

import (
	"github.com/jmoiron/sqlx"

	"tradepost/internal/config"
	"tradepost/internal/repos"
	"tradepost/internal/services"
)

type Deps struct {
	ListingHandler   *ListingHandler
	OrderHandler     *OrderHandler
	LineItemsHandler *LineItemsHandler
	PricingHandler   *PricingHandler
}

func NewDeps(db *sqlx.DB, cfg config.Config) *Deps {
	listingRepo := repos.NewListingRepo(db)
	orderRepo := repos.NewOrderRepo(db)

	lineItemSvc := services.NewLineItemService(cfg)
	listingSvc := services.NewListingService(listingRepo)
	orderSvc := services.NewOrderService(listingRepo, orderRepo, lineItemSvc)

	return &Deps{
		ListingHandler:   &ListingHandler{Listings: listingRepo, Cfg: cfg},
		OrderHandler:     &OrderHandler{Listings: listingRepo, Orders: orderRepo, Order: orderSvc, Cfg: cfg},
		LineItemsHandler: &LineItemsHandler{Listings: listingRepo, LineItems: lineItemSvc},
		PricingHandler:   &PricingHandler{Listings: listingRepo, Listing: listingSvc, Cfg: cfg},
	}
}
