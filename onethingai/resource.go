package onethingai

import (
	"context"
	"net/http"
)

// AvailableResources reports rentable GPU capacity matching query. The
// result is a point-in-time snapshot; capacity may change between
// calls, so nothing is cached.
func (c *Client) AvailableResources(ctx context.Context, query ResourcesQuery) ([]Resource, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	const op = "list resources"
	data, err := c.doRequest(ctx, op, http.MethodGet, "/api/v2/resources", query.values(), nil)
	if err != nil {
		return nil, err
	}

	var list struct {
		ResourceList []Resource `json:"resourceList"`
	}
	if err := decode(op, data, &list); err != nil {
		return nil, err
	}
	return list.ResourceList, nil
}
