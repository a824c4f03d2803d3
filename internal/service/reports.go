package service

import (
	"context"

	"github.com/jhlin/deskctl/internal/models"
)

func (c *Client) Dashboard(ctx context.Context) (*models.DashboardSummary, error) {
	var summary models.DashboardSummary
	if err := c.get(ctx, "/reports/dashboard/", nil, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}
