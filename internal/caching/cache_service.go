package caching

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"invoicedash/internal/models"
)

// Cached renderings are keyed under the logical view path they belong
// to, so a mutation can mark every rendering of the invoices view stale
// with one pattern delete.
const (
	invoiceViewPath = "/dashboard/invoices"
	summaryViewPath = "/dashboard"
)

type CacheService interface {
	// Invoice listing view caching
	GetInvoiceList(ctx context.Context, search string, limit, offset int) ([]*models.InvoiceWithCustomer, error)
	SetInvoiceList(ctx context.Context, search string, limit, offset int, invoices []*models.InvoiceWithCustomer, ttl time.Duration) error

	// Dashboard summary caching
	GetDashboardSummary(ctx context.Context) (*models.DashboardSummary, error)
	SetDashboardSummary(ctx context.Context, summary *models.DashboardSummary, ttl time.Duration) error

	// Cache invalidation
	InvalidateInvoiceViews(ctx context.Context) error

	Ping(ctx context.Context) error
}

type redisCacheService struct {
	client *redis.Client
}

func NewRedisCacheService(addr, password string, db int) CacheService {
	// Accept redis://host:port as well as a bare host:port
	parsedAddr := addr
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		if hostPort := strings.TrimPrefix(strings.TrimPrefix(addr, "redis://"), "rediss://"); hostPort != addr {
			parsedAddr = hostPort
		}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     parsedAddr,
		Password: password,
		DB:       db,
	})

	if pingErr := client.Ping(context.Background()).Err(); pingErr != nil {
		log.Printf("WARN: Redis ping failed on initialization: %v (address: %s)", pingErr, parsedAddr)
	}

	return &redisCacheService{client: client}
}

func invoiceListKey(search string, limit, offset int) string {
	return fmt.Sprintf("invoicedash:views:%s:q=%s:l=%d:o=%d", invoiceViewPath, search, limit, offset)
}

func summaryKey() string {
	return fmt.Sprintf("invoicedash:views:%s:summary", summaryViewPath)
}

func (r *redisCacheService) GetInvoiceList(ctx context.Context, search string, limit, offset int) ([]*models.InvoiceWithCustomer, error) {
	data, err := r.client.Get(ctx, invoiceListKey(search, limit, offset)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var invoices []*models.InvoiceWithCustomer
	if err := json.Unmarshal(data, &invoices); err != nil {
		return nil, err
	}
	return invoices, nil
}

func (r *redisCacheService) SetInvoiceList(ctx context.Context, search string, limit, offset int, invoices []*models.InvoiceWithCustomer, ttl time.Duration) error {
	data, err := json.Marshal(invoices)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, invoiceListKey(search, limit, offset), data, ttl).Err()
}

func (r *redisCacheService) GetDashboardSummary(ctx context.Context) (*models.DashboardSummary, error) {
	data, err := r.client.Get(ctx, summaryKey()).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var summary models.DashboardSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

func (r *redisCacheService) SetDashboardSummary(ctx context.Context, summary *models.DashboardSummary, ttl time.Duration) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, summaryKey(), data, ttl).Err()
}

// InvalidateInvoiceViews marks every cached rendering derived from the
// invoices table stale: the listing pages and the dashboard summary.
func (r *redisCacheService) InvalidateInvoiceViews(ctx context.Context) error {
	pattern := "invoicedash:views:*"
	keys, err := r.client.Keys(ctx, pattern).Result()
	if err != nil {
		return err
	}

	if len(keys) > 0 {
		return r.client.Del(ctx, keys...).Err()
	}
	return nil
}

func (r *redisCacheService) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
