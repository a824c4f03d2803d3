package service

import (
	"context"

	"github.com/jhlin/deskctl/internal/models"
)

func (c *Client) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	var customers []models.Customer
	if err := c.get(ctx, "/customers/", nil, &customers); err != nil {
		return nil, err
	}
	return customers, nil
}
