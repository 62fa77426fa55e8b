// Package apitest provides an in-memory fake of the OneThingAI API for
// SDK tests. It speaks the platform's wire contract (bearer auth, the
// {code,msg,data} envelope, camelCase fields) but holds state in plain
// maps, so tests can exercise the full client surface without the real
// service.
package apitest

import (
	"net/http"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type customPort struct {
	LocalPort int    `json:"localPort"`
	Type      string `json:"type"`
}

type createRequest struct {
	AppImageID string       `json:"appImageId"`
	GPUType    string       `json:"gpuType"`
	GPUNum     int          `json:"gpuNum"`
	RegionID   int          `json:"regionId"`
	BillType   int          `json:"billType"`
	Duration   int          `json:"duration"`
	GroupID    string       `json:"groupId"`
	CustomPort []customPort `json:"customPort"`
}

type portBinding struct {
	LocalPort int    `json:"localPort"`
	Type      string `json:"type"`
	SubDomain string `json:"subDomain"`
}

type instanceRecord struct {
	AppID      string        `json:"appId"`
	GroupID    string        `json:"groupId"`
	AppImageID string        `json:"appImageId"`
	BillType   int           `json:"billType"`
	Status     int           `json:"status"`
	GPUType    string        `json:"gpuType"`
	RegionID   int           `json:"regionId"`
	CustomPort []portBinding `json:"customPort"`
}

// Resource seeds one availability row.
type Resource struct {
	GPUType   string `json:"gpuType"`
	RegionID  int    `json:"regionId"`
	MaxGPUNum int    `json:"maxGpuNum"`
}

// Wallet seeds the account balance response.
type Wallet struct {
	AvailableBalance     float64 `json:"availableBalance"`
	AvailableVoucherCash float64 `json:"availableVoucherCash"`
	ConsumeCashTotal     float64 `json:"consumeCashTotal"`
}

// Order seeds one consumption record.
type Order struct {
	OrderID      string  `json:"orderId"`
	AppID        string  `json:"appId"`
	BillType     int     `json:"billType"`
	BusinessType int     `json:"businessType"`
	ConsumeCash  float64 `json:"consumeCash"`
	Runtime      int64   `json:"runtime"`
	CreatedAt    int64   `json:"createdAt"`
}

// PrivateImage seeds one private image row.
type PrivateImage struct {
	AppImageID     string `json:"appImageId"`
	AppImageName   string `json:"appImageName"`
	AppImageStatus int    `json:"appImageStatus"`
	RegionID       int    `json:"regionId"`
}

// PublishImage seeds one published image row.
type PublishImage struct {
	AppImageID      string `json:"appImageId"`
	AppImageName    string `json:"appImageName"`
	AppImageAuthor  string `json:"appImageAuthor"`
	AppImageVersion string `json:"appImageVersion"`
}

// Instance lifecycle statuses mirrored from the platform.
const (
	statusDeploying = 100
	statusRunning   = 300
	statusStopped   = 800
)

// Server is the fake API. Instances are kept in creation order so list
// responses have a deterministic server-defined ordering.
type Server struct {
	apiKey string
	engine *gin.Engine

	mu            sync.Mutex
	instances     []*instanceRecord
	resources     []Resource
	wallet        Wallet
	orders        []Order
	privateImages []PrivateImage
	publishImages []PublishImage
}

// New builds a fake API that accepts the given key as the bearer
// credential.
func New(apiKey string) *Server {
	gin.SetMode(gin.TestMode)

	s := &Server{apiKey: apiKey}

	engine := gin.New()
	engine.Use(s.auth)
	engine.POST("/api/v2/app", s.createInstance)
	engine.GET("/api/v2/app", s.listInstances)
	engine.PUT("/api/v1/app/operate/boot/:appId", s.bootInstance)
	engine.PUT("/api/v1/app/operate/shutdown/:appId", s.shutdownInstance)
	engine.DELETE("/api/v1/app/:appId", s.deleteInstance)
	engine.GET("/api/v2/resources", s.listResources)
	engine.GET("/api/v1/account/wallet/detail", s.walletDetail)
	engine.GET("/api/v2/account/wallet/consume/query", s.listOrders)
	engine.GET("/api/v2/app/private/image/list", s.listPrivateImages)
	engine.GET("/api/v2/app/publish/image/list", s.listPublishImages)
	s.engine = engine

	return s
}

// ServeHTTP makes the fake usable with httptest.NewServer.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.engine.ServeHTTP(w, r)
}

// SetWallet seeds the wallet response.
func (s *Server) SetWallet(w Wallet) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wallet = w
}

// AddResource seeds an availability row.
func (s *Server) AddResource(r Resource) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resources = append(s.resources, r)
}

// AddOrder seeds a consumption record.
func (s *Server) AddOrder(o Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if o.OrderID == "" {
		o.OrderID = uuid.New().String()
	}
	s.orders = append(s.orders, o)
}

// AddPrivateImage seeds a private image row.
func (s *Server) AddPrivateImage(img PrivateImage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.privateImages = append(s.privateImages, img)
}

// AddPublishImage seeds a published image row.
func (s *Server) AddPublishImage(img PublishImage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.publishImages = append(s.publishImages, img)
}

// InstanceStatus returns the stored status for appId, or 0 when the
// instance does not exist.
func (s *Server) InstanceStatus(appID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec := s.find(appID); rec != nil {
		return rec.Status
	}
	return 0
}

func (s *Server) find(appID string) *instanceRecord {
	for _, rec := range s.instances {
		if rec.AppID == appID {
			return rec
		}
	}
	return nil
}

func ok(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{"code": 0, "msg": "success", "data": data})
}

func fail(c *gin.Context, status, code int, msg string) {
	c.JSON(status, gin.H{"code": code, "msg": msg})
}

func (s *Server) auth(c *gin.Context) {
	if c.GetHeader("Authorization") != "Bearer "+s.apiKey {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"code": 1, "msg": "unauthorized"})
		return
	}
	c.Next()
}

func (s *Server) createInstance(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, 1, "malformed request: "+err.Error())
		return
	}
	if req.AppImageID == "" || req.GPUType == "" || req.GPUNum < 1 {
		fail(c, http.StatusOK, 1, "invalid instance configuration")
		return
	}

	groupID := req.GroupID
	if groupID == "" {
		groupID = "grp-" + uuid.New().String()[:8]
	}

	rec := &instanceRecord{
		AppID:      uuid.New().String(),
		GroupID:    groupID,
		AppImageID: req.AppImageID,
		BillType:   req.BillType,
		Status:     statusDeploying,
		GPUType:    req.GPUType,
		RegionID:   req.RegionID,
	}
	for _, p := range req.CustomPort {
		rec.CustomPort = append(rec.CustomPort, portBinding{
			LocalPort: p.LocalPort,
			Type:      p.Type,
			SubDomain: uuid.New().String()[:8] + ".gw.onethingai.com",
		})
	}

	s.mu.Lock()
	s.instances = append(s.instances, rec)
	s.mu.Unlock()

	ok(c, gin.H{"appId": rec.AppID, "groupId": rec.GroupID})
}

func (s *Server) listInstances(c *gin.Context) {
	page, err1 := strconv.Atoi(c.Query("page"))
	pageSize, err2 := strconv.Atoi(c.Query("pageSize"))
	if err1 != nil || err2 != nil || page < 1 || pageSize < 1 {
		fail(c, http.StatusOK, 1, "invalid pagination")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	filtered := make([]*instanceRecord, 0, len(s.instances))
	for _, rec := range s.instances {
		if appID := c.Query("appId"); appID != "" && rec.AppID != appID {
			continue
		}
		if groupID := c.Query("groupId"); groupID != "" && rec.GroupID != groupID {
			continue
		}
		filtered = append(filtered, rec)
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if start > len(filtered) {
		start = len(filtered)
	}
	if end > len(filtered) {
		end = len(filtered)
	}

	appList := make([]instanceRecord, 0, end-start)
	for _, rec := range filtered[start:end] {
		appList = append(appList, *rec)
	}

	ok(c, gin.H{
		"appList": appList,
		"pagination": gin.H{
			"page":     page,
			"pageSize": pageSize,
			"total":    len(filtered),
		},
	})
}

func (s *Server) bootInstance(c *gin.Context) {
	s.operate(c, func(rec *instanceRecord) {
		// booting a running instance is a platform-side no-op
		rec.Status = statusRunning
	})
}

func (s *Server) shutdownInstance(c *gin.Context) {
	s.operate(c, func(rec *instanceRecord) {
		rec.Status = statusStopped
	})
}

func (s *Server) operate(c *gin.Context, apply func(*instanceRecord)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := s.find(c.Param("appId"))
	if rec == nil {
		fail(c, http.StatusNotFound, 1, "app not found")
		return
	}
	apply(rec)
	ok(c, nil)
}

func (s *Server) deleteInstance(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	appID := c.Param("appId")
	for i, rec := range s.instances {
		if rec.AppID == appID {
			s.instances = append(s.instances[:i], s.instances[i+1:]...)
			ok(c, nil)
			return
		}
	}
	fail(c, http.StatusNotFound, 1, "app not found")
}

func (s *Server) listResources(c *gin.Context) {
	if c.Query("appImageId") == "" {
		fail(c, http.StatusOK, 1, "appImageId is required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	matched := make([]Resource, 0, len(s.resources))
	for _, r := range s.resources {
		if gpuType := c.Query("gpuType"); gpuType != "" && r.GPUType != gpuType {
			continue
		}
		if regionID := c.Query("regionId"); regionID != "" && strconv.Itoa(r.RegionID) != regionID {
			continue
		}
		matched = append(matched, r)
	}
	ok(c, gin.H{"resourceList": matched})
}

func (s *Server) walletDetail(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ok(c, s.wallet)
}

func (s *Server) listOrders(c *gin.Context) {
	page, err1 := strconv.Atoi(c.Query("page"))
	pageSize, err2 := strconv.Atoi(c.Query("pageSize"))
	if err1 != nil || err2 != nil || page < 1 || pageSize < 1 || pageSize > 100 {
		fail(c, http.StatusOK, 1, "invalid pagination")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	start := (page - 1) * pageSize
	end := start + pageSize
	if start > len(s.orders) {
		start = len(s.orders)
	}
	if end > len(s.orders) {
		end = len(s.orders)
	}

	ok(c, gin.H{
		"orderList": s.orders[start:end],
		"pagination": gin.H{
			"page":     page,
			"pageSize": pageSize,
			"total":    len(s.orders),
		},
	})
}

func (s *Server) listPrivateImages(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	matched := make([]PrivateImage, 0, len(s.privateImages))
	for _, img := range s.privateImages {
		if name := c.Query("appImageName"); name != "" && img.AppImageName != name {
			continue
		}
		if regionID := c.Query("regionId"); regionID != "" && strconv.Itoa(img.RegionID) != regionID {
			continue
		}
		matched = append(matched, img)
	}
	ok(c, gin.H{"privateImageList": matched})
}

func (s *Server) listPublishImages(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	matched := make([]PublishImage, 0, len(s.publishImages))
	for _, img := range s.publishImages {
		if name := c.Query("appImageName"); name != "" && img.AppImageName != name {
			continue
		}
		if author := c.Query("appImageAuthor"); author != "" && img.AppImageAuthor != author {
			continue
		}
		matched = append(matched, img)
	}
	ok(c, gin.H{"publishImageList": matched})
}
