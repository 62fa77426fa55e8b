package onethingai

import (
	"context"
	"fmt"
	"net/http"
)

const (
	pathApp      = "/api/v2/app"
	pathBoot     = "/api/v1/app/operate/boot/"
	pathShutdown = "/api/v1/app/operate/shutdown/"
	pathDelete   = "/api/v1/app/"
)

// CreateInstance provisions a new instance from config and returns the
// created record. Only AppID and GroupID are populated by the creation
// response; use ListInstances for the full record. The configuration is
// validated locally before any network call.
func (c *Client) CreateInstance(ctx context.Context, config InstanceConfig) (*Instance, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if config.BillType == 0 {
		config.BillType = BillTypePayAsYouGo
	}

	const op = "create instance"
	data, err := c.doRequest(ctx, op, http.MethodPost, pathApp, nil, config)
	if err != nil {
		return nil, err
	}

	var inst Instance
	if err := decode(op, data, &inst); err != nil {
		return nil, err
	}
	if inst.AppID == "" {
		return nil, &ProtocolError{Op: op, Reason: "response is missing appId"}
	}

	c.logger.Info("instance created", "appId", inst.AppID, "gpuType", config.GPUType, "gpuNum", config.GPUNum)
	return &inst, nil
}

// ListInstances fetches one page of instances. Results keep the
// server's ordering; paging across the full set is the caller's
// responsibility via repeated calls with an incremented Page.
func (c *Client) ListInstances(ctx context.Context, query ListInstancesQuery) (*InstanceList, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	const op = "list instances"
	data, err := c.doRequest(ctx, op, http.MethodGet, pathApp, query.values(), nil)
	if err != nil {
		return nil, err
	}

	var list InstanceList
	if err := decode(op, data, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// StartInstance boots a stopped instance. Starting an already running
// instance is a no-op when the platform reports it as one; the client
// passes the server's verdict through unchanged.
func (c *Client) StartInstance(ctx context.Context, appID string) error {
	return c.operate(ctx, "start instance", http.MethodPut, pathBoot, appID)
}

// StopInstance shuts a running instance down. Stopping an already
// stopped instance follows the same pass-through contract as
// StartInstance.
func (c *Client) StopInstance(ctx context.Context, appID string) error {
	return c.operate(ctx, "stop instance", http.MethodPut, pathShutdown, appID)
}

// DeleteInstance releases an instance. Afterwards the appId is no
// longer a valid target: further operations on it surface the
// platform's NotFound as a *RemoteError (see IsNotFound).
func (c *Client) DeleteInstance(ctx context.Context, appID string) error {
	return c.operate(ctx, "delete instance", http.MethodDelete, pathDelete, appID)
}

func (c *Client) operate(ctx context.Context, op, method, prefix, appID string) error {
	if appID == "" {
		return &ValidationError{Field: "appId", Reason: "must not be empty"}
	}

	if _, err := c.doRequest(ctx, op, method, prefix+appID, nil, nil); err != nil {
		return err
	}
	c.logger.Info(fmt.Sprintf("%s acknowledged", op), "appId", appID)
	return nil
}
