package onethingai_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/onethingai/onethingai-go/internal/apitest"
	"github.com/onethingai/onethingai-go/onethingai"
)

func startFake(t *testing.T) (*apitest.Server, *onethingai.Client) {
	t.Helper()
	fake := apitest.New("test-key")
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)
	return fake, newTestClient(t, srv.URL, 1)
}

func TestCreateInstance(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/v2/app", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte(`{"code":0,"msg":"success","data":{"appId":"abc123","groupId":"grp-1"}}`))
	}))
	defer srv.Close()

	inst, err := newTestClient(t, srv.URL, 1).CreateInstance(context.Background(), onethingai.InstanceConfig{
		AppImageID: "img-001",
		GPUType:    "NVIDIA-GEFORCE-RTX-4090",
		GPUNum:     1,
		RegionID:   6,
		BillType:   onethingai.BillTypePayAsYouGo,
		Duration:   0,
		CustomPort: []onethingai.CustomPort{{LocalPort: 7860, Type: "http"}},
	})
	require.NoError(t, err)
	require.Equal(t, "abc123", inst.AppID)
	require.Equal(t, "grp-1", inst.GroupID)

	// the request payload carries the platform's camelCase field names
	require.Equal(t, "img-001", gotBody["appImageId"])
	require.Equal(t, "NVIDIA-GEFORCE-RTX-4090", gotBody["gpuType"])
	require.Equal(t, float64(1), gotBody["gpuNum"])
	require.Equal(t, float64(6), gotBody["regionId"])
	require.Equal(t, float64(3), gotBody["billType"])
	require.Equal(t, float64(0), gotBody["duration"])
	ports, ok := gotBody["customPort"].([]any)
	require.True(t, ok)
	require.Len(t, ports, 1)
	port := ports[0].(map[string]any)
	require.Equal(t, float64(7860), port["localPort"])
	require.Equal(t, "http", port["type"])
}

func TestCreateInstanceDefaultsBillType(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte(`{"code":0,"msg":"success","data":{"appId":"abc123"}}`))
	}))
	defer srv.Close()

	cfg := validConfig()
	cfg.BillType = 0
	_, err := newTestClient(t, srv.URL, 1).CreateInstance(context.Background(), cfg)
	require.NoError(t, err)
	require.Equal(t, float64(onethingai.BillTypePayAsYouGo), gotBody["billType"])
}

func TestCreateInstanceValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*onethingai.InstanceConfig)
	}{
		{"empty image", func(c *onethingai.InstanceConfig) { c.AppImageID = "" }},
		{"empty gpu type", func(c *onethingai.InstanceConfig) { c.GPUType = "" }},
		{"zero gpus", func(c *onethingai.InstanceConfig) { c.GPUNum = 0 }},
		{"negative gpus", func(c *onethingai.InstanceConfig) { c.GPUNum = -2 }},
		{"negative duration", func(c *onethingai.InstanceConfig) { c.Duration = -1 }},
		{"port zero", func(c *onethingai.InstanceConfig) {
			c.CustomPort = []onethingai.CustomPort{{LocalPort: 0, Type: "tcp"}}
		}},
		{"port too high", func(c *onethingai.InstanceConfig) {
			c.CustomPort = []onethingai.CustomPort{{LocalPort: 70000, Type: "http"}}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int64
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
			}))
			defer srv.Close()

			cfg := validConfig()
			tt.mutate(&cfg)

			_, err := newTestClient(t, srv.URL, 1).CreateInstance(context.Background(), cfg)
			require.Error(t, err)

			var validation *onethingai.ValidationError
			require.ErrorAs(t, err, &validation)
			require.Equal(t, int64(0), calls.Load(), "validation failures must not reach the network")
		})
	}
}

func TestCreateInstanceMissingAppID(t *testing.T) {
	// A 2xx envelope whose data has no appId is a contract violation by
	// the server, not a success.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code":0,"msg":"success","data":{"groupId":"grp-1"}}`))
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv.URL, 1).CreateInstance(context.Background(), validConfig())
	require.Error(t, err)

	var protocol *onethingai.ProtocolError
	require.ErrorAs(t, err, &protocol)
}

func TestOperateRequiresAppID(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL, 1)
	for _, call := range []func(context.Context, string) error{
		client.StartInstance, client.StopInstance, client.DeleteInstance,
	} {
		err := call(context.Background(), "")
		var validation *onethingai.ValidationError
		require.ErrorAs(t, err, &validation)
	}
	require.Equal(t, int64(0), calls.Load())
}

func TestInstanceLifecycle(t *testing.T) {
	fake, client := startFake(t)
	ctx := context.Background()

	inst, err := client.CreateInstance(ctx, validConfig())
	require.NoError(t, err)
	require.NotEmpty(t, inst.AppID)

	require.NoError(t, client.StartInstance(ctx, inst.AppID))
	require.Equal(t, int(onethingai.StatusRunning), fake.InstanceStatus(inst.AppID))

	// repeating start on a running instance is indistinguishable from
	// the first success
	require.NoError(t, client.StartInstance(ctx, inst.AppID))
	require.Equal(t, int(onethingai.StatusRunning), fake.InstanceStatus(inst.AppID))

	require.NoError(t, client.StopInstance(ctx, inst.AppID))
	require.NoError(t, client.StopInstance(ctx, inst.AppID))
	require.Equal(t, int(onethingai.StatusStopped), fake.InstanceStatus(inst.AppID))

	require.NoError(t, client.DeleteInstance(ctx, inst.AppID))

	// the appId is no longer a valid target for any operation
	for _, call := range []func(context.Context, string) error{
		client.StartInstance, client.StopInstance, client.DeleteInstance,
	} {
		err := call(ctx, inst.AppID)
		require.Error(t, err)
		require.True(t, onethingai.IsNotFound(err))
	}
}

func TestListInstancesPagination(t *testing.T) {
	_, client := startFake(t)
	ctx := context.Background()

	created := make([]string, 0, 12)
	for i := 0; i < 12; i++ {
		inst, err := client.CreateInstance(ctx, validConfig())
		require.NoError(t, err)
		created = append(created, inst.AppID)
	}

	page1, err := client.ListInstances(ctx, onethingai.ListInstancesQuery{Page: 1, PageSize: 10})
	require.NoError(t, err)
	require.Len(t, page1.AppList, 10)
	require.Equal(t, 12, page1.Pagination.Total)

	// server ordering is preserved, never re-sorted
	for i, inst := range page1.AppList {
		require.Equal(t, created[i], inst.AppID)
	}

	page2, err := client.ListInstances(ctx, onethingai.ListInstancesQuery{Page: 2, PageSize: 10})
	require.NoError(t, err)
	require.Len(t, page2.AppList, 2)
	require.Equal(t, created[10], page2.AppList[0].AppID)
	require.Equal(t, created[11], page2.AppList[1].AppID)
}

func TestListInstancesFilters(t *testing.T) {
	_, client := startFake(t)
	ctx := context.Background()

	cfg := validConfig()
	cfg.GroupID = "workers"
	inGroup, err := client.CreateInstance(ctx, cfg)
	require.NoError(t, err)

	_, err = client.CreateInstance(ctx, validConfig())
	require.NoError(t, err)

	list, err := client.ListInstances(ctx, onethingai.ListInstancesQuery{Page: 1, PageSize: 10, GroupID: "workers"})
	require.NoError(t, err)
	require.Len(t, list.AppList, 1)
	require.Equal(t, inGroup.AppID, list.AppList[0].AppID)
}

func TestListInstancesValidation(t *testing.T) {
	_, client := startFake(t)

	for _, q := range []onethingai.ListInstancesQuery{
		{Page: 0, PageSize: 10},
		{Page: 1, PageSize: 0},
		{Page: -1, PageSize: -1},
	} {
		_, err := client.ListInstances(context.Background(), q)
		var validation *onethingai.ValidationError
		require.ErrorAs(t, err, &validation)
	}
}
