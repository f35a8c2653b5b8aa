package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/ykaradag/ustahub/internal/models"
)

// Ustalar lists the trade categories available to customers.
func (c *Client) Ustalar(ctx context.Context) ([]models.Usta, error) {
	var ustalar []models.Usta
	if err := c.do(ctx, http.MethodGet, "/ustalar", nil, nil, &ustalar); err != nil {
		return nil, err
	}
	return ustalar, nil
}

// SorularByUsta lists the intake questions for a trade, ordered for
// display.
func (c *Client) SorularByUsta(ctx context.Context, ustaName string) ([]models.Soru, error) {
	var sorular []models.Soru
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/sorular/usta/%s", ustaName), nil, nil, &sorular); err != nil {
		return nil, err
	}
	return sorular, nil
}

// Hizmetler lists the public service-showcase catalog.
func (c *Client) Hizmetler(ctx context.Context) ([]models.Hizmet, error) {
	var hizmetler []models.Hizmet
	if err := c.do(ctx, http.MethodGet, "/hizmetler", nil, nil, &hizmetler); err != nil {
		return nil, err
	}
	return hizmetler, nil
}

// ActivePortfolio lists the published portfolio entries of a trade.
func (c *Client) ActivePortfolio(ctx context.Context, ustaID string) ([]models.PortfolioItem, error) {
	var items []models.PortfolioItem
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/ustalar/%s/portfolio", ustaID), nil, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}
