package onethingai

import (
	"net/url"
	"strconv"
)

// BillType selects how an instance is billed.
type BillType int

const (
	BillTypeMonthlySubscription BillType = 1
	BillTypeDailySubscription   BillType = 2
	BillTypePayAsYouGo          BillType = 3
)

// BusinessType classifies a consumption record.
type BusinessType int

const (
	BusinessTypeInstanceUsage     BusinessType = 1
	BusinessTypeImageStorage      BusinessType = 2
	BusinessTypeFileStorage       BusinessType = 3
	BusinessTypeInstanceExpansion BusinessType = 4
)

// InstanceStatus is the platform-side lifecycle state of an instance.
// The set is defined by the remote service; unrecognized values pass
// through unchanged.
type InstanceStatus int

const (
	StatusDeploying     InstanceStatus = 100
	StatusStarting      InstanceStatus = 200
	StatusRunning       InstanceStatus = 300
	StatusStopping      InstanceStatus = 400
	StatusResetting     InstanceStatus = 500
	StatusChangingImage InstanceStatus = 600
	StatusReleasing     InstanceStatus = 700
	StatusStopped       InstanceStatus = 800
)

// PrivateImageStatus is the save state of a private image.
type PrivateImageStatus int

const (
	ImageStatusSaving  PrivateImageStatus = 1
	ImageStatusSuccess PrivateImageStatus = 4
	ImageStatusFailed  PrivateImageStatus = 5
)

// CustomPort declares a port forwarding attached at instance creation.
// Type is a protocol tag, "http" or "tcp".
type CustomPort struct {
	LocalPort int    `json:"localPort"`
	Type      string `json:"type"`
}

// InstanceConfig is the create-request configuration. BillType defaults
// to pay-as-you-go when left zero; Duration 0 means unbounded.
type InstanceConfig struct {
	AppImageID string       `json:"appImageId"`
	GPUType    string       `json:"gpuType"`
	GPUNum     int          `json:"gpuNum"`
	RegionID   int          `json:"regionId"`
	BillType   BillType     `json:"billType"`
	Duration   int          `json:"duration"`
	GroupID    string       `json:"groupId,omitempty"`
	CustomPort []CustomPort `json:"customPort,omitempty"`
}

// Validate checks the configuration locally. It returns a
// *ValidationError on the first violation.
func (c InstanceConfig) Validate() error {
	if c.AppImageID == "" {
		return &ValidationError{Field: "appImageId", Reason: "must not be empty"}
	}
	if c.GPUType == "" {
		return &ValidationError{Field: "gpuType", Reason: "must not be empty"}
	}
	if c.GPUNum < 1 {
		return &ValidationError{Field: "gpuNum", Reason: "must be at least 1"}
	}
	if c.Duration < 0 {
		return &ValidationError{Field: "duration", Reason: "must not be negative"}
	}
	for _, p := range c.CustomPort {
		if p.LocalPort < 1 || p.LocalPort > 65535 {
			return &ValidationError{
				Field:  "customPort.localPort",
				Reason: "port " + strconv.Itoa(p.LocalPort) + " outside [1,65535]",
			}
		}
	}
	return nil
}

// ListInstancesQuery selects one page of instances. Pages are 1-based.
type ListInstancesQuery struct {
	Page     int
	PageSize int
	AppID    string
	GroupID  string
}

func (q ListInstancesQuery) Validate() error {
	if q.Page < 1 {
		return &ValidationError{Field: "page", Reason: "must be positive"}
	}
	if q.PageSize < 1 {
		return &ValidationError{Field: "pageSize", Reason: "must be positive"}
	}
	return nil
}

func (q ListInstancesQuery) values() url.Values {
	v := url.Values{}
	v.Set("page", strconv.Itoa(q.Page))
	v.Set("pageSize", strconv.Itoa(q.PageSize))
	if q.AppID != "" {
		v.Set("appId", q.AppID)
	}
	if q.GroupID != "" {
		v.Set("groupId", q.GroupID)
	}
	return v
}

// ResourcesQuery filters the availability lookup by image and
// optionally GPU type and region.
type ResourcesQuery struct {
	AppImageID string
	GPUType    string
	RegionID   int
}

func (q ResourcesQuery) Validate() error {
	if q.AppImageID == "" {
		return &ValidationError{Field: "appImageId", Reason: "must not be empty"}
	}
	return nil
}

func (q ResourcesQuery) values() url.Values {
	v := url.Values{}
	v.Set("appImageId", q.AppImageID)
	if q.GPUType != "" {
		v.Set("gpuType", q.GPUType)
	}
	if q.RegionID != 0 {
		v.Set("regionId", strconv.Itoa(q.RegionID))
	}
	return v
}

// OrdersQuery selects one page of consumption records. The platform
// caps pageSize at 100.
type OrdersQuery struct {
	Page         int
	PageSize     int
	AppID        string
	BusinessType BusinessType
}

func (q OrdersQuery) Validate() error {
	if q.Page < 1 {
		return &ValidationError{Field: "page", Reason: "must be positive"}
	}
	if q.PageSize < 1 || q.PageSize > 100 {
		return &ValidationError{Field: "pageSize", Reason: "must be between 1 and 100"}
	}
	return nil
}

func (q OrdersQuery) values() url.Values {
	v := url.Values{}
	v.Set("page", strconv.Itoa(q.Page))
	v.Set("pageSize", strconv.Itoa(q.PageSize))
	if q.AppID != "" {
		v.Set("appId", q.AppID)
	}
	if q.BusinessType != 0 {
		v.Set("businessType", strconv.Itoa(int(q.BusinessType)))
	}
	return v
}

// PrivateImageQuery filters the private image listing.
type PrivateImageQuery struct {
	RegionID     int
	AppImageName string
}

func (q PrivateImageQuery) values() url.Values {
	v := url.Values{}
	if q.RegionID != 0 {
		v.Set("regionId", strconv.Itoa(q.RegionID))
	}
	if q.AppImageName != "" {
		v.Set("appImageName", q.AppImageName)
	}
	return v
}

// PublishImageQuery filters the public image listing.
type PublishImageQuery struct {
	AppImageName   string
	AppImageAuthor string
}

func (q PublishImageQuery) values() url.Values {
	v := url.Values{}
	if q.AppImageName != "" {
		v.Set("appImageName", q.AppImageName)
	}
	if q.AppImageAuthor != "" {
		v.Set("appImageAuthor", q.AppImageAuthor)
	}
	return v
}

// Pagination echoes the page window of a list response.
type Pagination struct {
	Page     int `json:"page"`
	PageSize int `json:"pageSize"`
	Total    int `json:"total"`
}

// CustomPortBinding is a CustomPort as materialized by the platform,
// with the assigned public subdomain.
type CustomPortBinding struct {
	LocalPort int    `json:"localPort"`
	Type      string `json:"type"`
	SubDomain string `json:"subDomain"`
}

// Instance is the server-owned instance record. A create response
// populates AppID and GroupID only; list responses carry the full
// record. AppID is the sole key for addressing an instance.
type Instance struct {
	AppID              string              `json:"appId"`
	GroupID            string              `json:"groupId"`
	AppImageID         string              `json:"appImageId"`
	AppImageName       string              `json:"appImageName"`
	AppImageAuthor     string              `json:"appImageAuthor"`
	AppImageVersion    string              `json:"appImageVersion"`
	BillType           BillType            `json:"billType"`
	Status             InstanceStatus      `json:"status"`
	GPUType            string              `json:"gpuType"`
	RegionID           int                 `json:"regionId"`
	CustomName         string              `json:"customName"`
	CustomPort         []CustomPortBinding `json:"customPort"`
	Price              float64             `json:"price"`
	PrePrice           float64             `json:"prePrice"`
	Runtime            float64             `json:"runtime"`
	ErrCode            int                 `json:"errCode"`
	CreatedAt          int64               `json:"createdAt"`
	StartedAt          int64               `json:"startedAt"`
	StoppedAt          int64               `json:"stoppedAt"`
	ExpiredAt          int64               `json:"expiredAt"`
	SystemDiskSize     int                 `json:"systemDiskSize"`
	SystemDiskSizeUsed float64             `json:"systemDiskSizeUsed"`
	WebUIAddress       string              `json:"webUIAddress"`
}

// InstanceList is one page of instances in server order.
type InstanceList struct {
	AppList    []Instance `json:"appList"`
	Pagination Pagination `json:"pagination"`
}

// Resource reports rentable capacity for a GPU type in a region.
type Resource struct {
	GPUType   string `json:"gpuType"`
	RegionID  int    `json:"regionId"`
	MaxGPUNum int    `json:"maxGpuNum"`
}

// WalletDetail is the account balance snapshot. Balances already
// account for instance reservations.
type WalletDetail struct {
	AvailableBalance     float64 `json:"availableBalance"`
	AvailableVoucherCash float64 `json:"availableVoucherCash"`
	ConsumeCashTotal     float64 `json:"consumeCashTotal"`
}

// Order is one consumption record.
type Order struct {
	OrderID            string       `json:"orderId"`
	AppID              string       `json:"appId"`
	BillType           BillType     `json:"billType"`
	BusinessType       BusinessType `json:"businessType"`
	ConsumeCash        float64      `json:"consumeCash"`
	ActualPayCash      float64      `json:"actualPayCash"`
	VoucherDeductCash  float64      `json:"voucherDeductCash"`
	TotalDiscountPrice float64      `json:"totalDiscountPrice"`
	Runtime            int64        `json:"runtime"`
	Event              string       `json:"event"`
	CreatedAt          int64        `json:"createdAt"`
}

// OrderList is one page of consumption records in server order.
type OrderList struct {
	OrderList  []Order    `json:"orderList"`
	Pagination Pagination `json:"pagination"`
}

// PrivateImage describes a user-owned image.
type PrivateImage struct {
	AppImageID          string             `json:"appImageId"`
	AppImageName        string             `json:"appImageName"`
	AppImageDescription string             `json:"appImageDescription"`
	AppImageStatus      PrivateImageStatus `json:"appImageStatus"`
	AppImageTotalSize   float64            `json:"appImageTotalSize"`
	RegionID            int                `json:"regionId"`
	CreatedAt           int64              `json:"createdAt"`
	UpdatedAt           int64              `json:"updatedAt"`
}

// PublishImage describes a platform-published image.
type PublishImage struct {
	AppImageID          string `json:"appImageId"`
	AppImageName        string `json:"appImageName"`
	AppImageDescription string `json:"appImageDescription"`
	AppImageAuthor      string `json:"appImageAuthor"`
	AppImageVersion     string `json:"appImageVersion"`
	CreatedAt           int64  `json:"createdAt"`
	UpdatedAt           int64  `json:"updatedAt"`
}
