package geoip

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"sync"

	"github.com/2beens/liftlog/internal/telemetry/tracing"
	"github.com/2beens/liftlog/pkg"

	"github.com/go-redis/redis/v8"
	"github.com/ipinfo/go/v2/ipinfo"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// IpInfo is the subset of ip info details kept around (e.g. on login sessions).
type IpInfo struct {
	IP      string `json:"ip"`
	City    string `json:"city"`
	Region  string `json:"region"`
	Country string `json:"country"`
}

var devGeoIpInfo = IpInfo{
	IP:      "127.0.0.1",
	City:    "Berlin",
	Country: "DE",
}

type Api struct {
	mu          sync.Mutex
	client      *ipinfo.Client
	redisClient *redis.Client
}

func NewApi(
	ipInfoAPIToken string,
	httpClient *http.Client,
	redisClient *redis.Client,
) *Api {
	return &Api{
		client:      ipinfo.NewClient(httpClient, nil, ipInfoAPIToken),
		redisClient: redisClient,
	}
}

func (gi *Api) GetRequestGeoInfo(ctx context.Context, r *http.Request) (*IpInfo, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "geoIp.getRequestGeoInfo")
	defer span.End()

	userIp, err := pkg.ReadUserIP(r)
	if err != nil {
		span.SetStatus(codes.Error, fmt.Sprintf("get user ip: %s", err))
		return nil, fmt.Errorf("get user ip: %w", err)
	}

	return gi.GetIPGeoInfo(ctx, userIp)
}

func (gi *Api) GetIPGeoInfo(ctx context.Context, userIp string) (*IpInfo, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "geoIp.getIpGeoInfo")
	defer span.End()
	span.SetAttributes(attribute.String("user.ip", userIp))

	// used for development
	if userIp == "localhost" {
		log.Debugf("request geo info: returning development localhost / Berlin")
		return &devGeoIpInfo, nil
	}

	// the ipinfo free plan is not exactly generous, so serialize lookups and
	// try the redis cache first
	gi.mu.Lock()
	defer gi.mu.Unlock()

	userIpKey := fmt.Sprintf("ip-info::%s", userIp)
	cmd := gi.redisClient.Get(ctx, userIpKey)
	if cachedInfo := cmd.Val(); cachedInfo != "" {
		span.SetAttributes(attribute.Bool("user.ip.from-cache", true))
		ipInfo := &IpInfo{}
		if err := json.Unmarshal([]byte(cachedInfo), ipInfo); err == nil {
			return ipInfo, nil
		}
		log.Errorf("failed to unmarshal cached ip info from redis for %s, will refetch", userIp)
	}
	span.SetAttributes(attribute.Bool("user.ip.from-cache", false))

	info, err := gi.client.GetIPInfo(net.ParseIP(userIp))
	if err != nil {
		span.SetStatus(codes.Error, fmt.Sprintf("get ip info: %s", err))
		return nil, fmt.Errorf("get ip info for %s: %w", userIp, err)
	}

	ipInfo := &IpInfo{
		IP:      userIp,
		City:    info.City,
		Region:  info.Region,
		Country: info.Country,
	}

	// cache response in redis
	ipInfoBytes, err := json.Marshal(ipInfo)
	if err == nil {
		if err := gi.redisClient.Set(ctx, userIpKey, ipInfoBytes, 0).Err(); err != nil {
			log.Errorf("failed to cache ip info in redis for %s: %s", userIp, err)
		}
	}

	return ipInfo, nil
}
