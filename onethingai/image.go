package onethingai

import (
	"context"
	"net/http"
)

// PrivateImages lists the caller's saved images matching query.
func (c *Client) PrivateImages(ctx context.Context, query PrivateImageQuery) ([]PrivateImage, error) {
	const op = "list private images"
	data, err := c.doRequest(ctx, op, http.MethodGet, "/api/v2/app/private/image/list", query.values(), nil)
	if err != nil {
		return nil, err
	}

	var list struct {
		PrivateImageList []PrivateImage `json:"privateImageList"`
	}
	if err := decode(op, data, &list); err != nil {
		return nil, err
	}
	return list.PrivateImageList, nil
}

// PublishImages lists platform-published images matching query.
func (c *Client) PublishImages(ctx context.Context, query PublishImageQuery) ([]PublishImage, error) {
	const op = "list publish images"
	data, err := c.doRequest(ctx, op, http.MethodGet, "/api/v2/app/publish/image/list", query.values(), nil)
	if err != nil {
		return nil, err
	}

	var list struct {
		PublishImageList []PublishImage `json:"publishImageList"`
	}
	if err := decode(op, data, &list); err != nil {
		return nil, err
	}
	return list.PublishImageList, nil
}
