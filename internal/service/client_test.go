package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/jhlin/deskctl/internal/config"
	"github.com/jhlin/deskctl/internal/models"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(&config.Config{BaseURL: srv.URL, APIToken: "sekrit"})
}

func TestListIssues(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/issues/" {
			t.Errorf("path = %q, want /issues/", r.URL.Path)
		}
		if got := r.URL.Query()["status"]; len(got) != 2 {
			t.Errorf("status query = %v, want two repeated values", got)
		}
		if got := r.Header.Get("Authorization"); got != "Token sekrit" {
			t.Errorf("authorization header = %q", got)
		}
		json.NewEncoder(w).Encode(models.IssueList{
			Count:   1,
			Results: []models.Issue{{ID: 42, Title: "VPN down", Status: models.StatusOpen}},
		})
	})

	params := url.Values{}
	params.Add("status", "Open")
	params.Add("status", "Pending")

	list, err := client.ListIssues(context.Background(), params)
	if err != nil {
		t.Fatalf("ListIssues: %v", err)
	}
	if list.Count != 1 || len(list.Results) != 1 || list.Results[0].ID != 42 {
		t.Errorf("unexpected list %+v", list)
	}
}

func TestUpdateIssueStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch {
			t.Errorf("method = %s, want PATCH", r.Method)
		}
		if r.URL.Path != "/issues/42/status/" {
			t.Errorf("path = %q", r.URL.Path)
		}
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["status"] != "In Progress" {
			t.Errorf("body status = %q", body["status"])
		}
		json.NewEncoder(w).Encode(models.Issue{ID: 42, Status: models.StatusInProgress})
	})

	issue, err := client.UpdateIssueStatus(context.Background(), 42, models.StatusInProgress)
	if err != nil {
		t.Fatalf("UpdateIssueStatus: %v", err)
	}
	if issue.Status != models.StatusInProgress {
		t.Errorf("status = %q", issue.Status)
	}
}

func TestBatchUpdateIssues(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/issues/batch-update/" {
			t.Errorf("%s %s, want POST /issues/batch-update/", r.Method, r.URL.Path)
		}
		var body struct {
			IssueIDs   []int64 `json:"issue_ids"`
			Status     *string `json:"status"`
			AssigneeID *int64  `json:"assignee_id"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		if len(body.IssueIDs) != 2 || body.Status == nil || *body.Status != "Closed" {
			t.Errorf("unexpected body %+v", body)
		}
		if body.AssigneeID != nil {
			t.Error("assignee_id must be omitted when not set")
		}
		json.NewEncoder(w).Encode(models.BatchResult{Success: true, UpdatedCount: 2})
	})

	status := models.StatusClosed
	result, err := client.BatchUpdateIssues(context.Background(), []int64{1, 2}, &status, nil)
	if err != nil {
		t.Fatalf("BatchUpdateIssues: %v", err)
	}
	if !result.Success || result.UpdatedCount != 2 {
		t.Errorf("unexpected result %+v", result)
	}
}

func TestAPIErrorSurfaces(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "invalid status"})
	})

	_, err := client.UpdateIssueStatus(context.Background(), 1, models.Status("Bogus"))
	if err == nil {
		t.Fatal("expected error")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error type %T, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusBadRequest || apiErr.Message != "invalid status" {
		t.Errorf("unexpected APIError %+v", apiErr)
	}
}
