package service

import (
	"net/url"
	"strconv"

	"github.com/jhlin/deskctl/internal/filter"
)

// ListParams maps filter criteria plus paging into the parameters of
// the list endpoint. Multi-value facets become repeated parameters
// (one value each), unlike the comma-joined share-link encoding: HTTP
// query semantics and compact links serve different consumers. Facets
// at their default are omitted entirely. Page and pageSize values of
// zero or less are omitted.
func ListParams(c filter.Criteria, page, pageSize int) url.Values {
	params := url.Values{}

	addAll(params, "status", c.Status)
	addAll(params, "priority", c.Priority)
	addAll(params, "category", c.Category)
	addAll(params, "source", c.Source)

	if c.ProjectID != nil {
		params.Set("project_id", strconv.FormatInt(*c.ProjectID, 10))
	}
	if c.CustomerID != nil {
		params.Set("customer_id", strconv.FormatInt(*c.CustomerID, 10))
	}
	if c.AssigneeID != nil {
		params.Set("assignee_id", strconv.FormatInt(*c.AssigneeID, 10))
	}
	if c.Search != "" {
		params.Set("q", c.Search)
	}
	if c.DateFrom != "" {
		params.Set("from", c.DateFrom)
	}
	if c.DateTo != "" {
		params.Set("to", c.DateTo)
	}
	if page > 0 {
		params.Set("page", strconv.Itoa(page))
	}
	if pageSize > 0 {
		params.Set("page_size", strconv.Itoa(pageSize))
	}
	if c.SortField != "" {
		params.Set("ordering", filter.Ordering(c.SortField, c.SortOrder))
	}

	return params
}

func addAll(params url.Values, key string, vals []string) {
	for _, v := range vals {
		if v != "" {
			params.Add(key, v)
		}
	}
}
