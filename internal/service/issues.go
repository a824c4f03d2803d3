package service

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/jhlin/deskctl/internal/models"
)

func (c *Client) ListIssues(ctx context.Context, params url.Values) (*models.IssueList, error) {
	var list models.IssueList
	if err := c.get(ctx, "/issues/", params, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

func (c *Client) GetIssue(ctx context.Context, id int64) (*models.Issue, error) {
	var issue models.Issue
	if err := c.get(ctx, fmt.Sprintf("/issues/%d/", id), nil, &issue); err != nil {
		return nil, err
	}
	return &issue, nil
}

// UpdateIssueStatus persists a status transition. The server resolves
// concurrent transitions last-write-wins; no version token travels
// with the request.
func (c *Client) UpdateIssueStatus(ctx context.Context, id int64, status models.Status) (*models.Issue, error) {
	body := map[string]models.Status{"status": status}
	var issue models.Issue
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/issues/%d/status/", id), nil, body, &issue); err != nil {
		return nil, err
	}
	return &issue, nil
}

type batchUpdateRequest struct {
	IssueIDs   []int64        `json:"issue_ids"`
	Status     *models.Status `json:"status,omitempty"`
	AssigneeID *int64         `json:"assignee_id,omitempty"`
}

func (c *Client) BatchUpdateIssues(ctx context.Context, ids []int64, status *models.Status, assigneeID *int64) (*models.BatchResult, error) {
	body := batchUpdateRequest{IssueIDs: ids, Status: status, AssigneeID: assigneeID}
	var result models.BatchResult
	if err := c.do(ctx, http.MethodPost, "/issues/batch-update/", nil, body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
