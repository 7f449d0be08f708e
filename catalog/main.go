package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	"gitlab.connectwisedev.com/storefront-service/models"
	"gitlab.connectwisedev.com/storefront-service/pkg/cache"
	"gitlab.connectwisedev.com/storefront-service/pkg/config"
	"gitlab.connectwisedev.com/storefront-service/pkg/contentful"
	"gitlab.connectwisedev.com/storefront-service/pkg/logging"
)

const repopulateTimeout = 30 * time.Second

var (
	cms          *contentful.Client
	productCache *cache.RedisClient
)

func init() {
	config.LoadEnv() // Load environment variables first

	cfg := config.Load()
	logging.Init(cfg.LogLevel)
	cms = contentful.New(cfg)

	// The cache is optional: without REDIS_ADDR every request goes
	// straight to the content API.
	if cfg.RedisAddr != "" {
		c, err := cache.NewRedisClient(cfg.RedisAddr)
		if err != nil {
			slog.Warn("catalog cache disabled", "err", err)
		} else {
			productCache = c
		}
	}
}

// handler serves the full product catalog as JSON: cache first when a
// cache is configured, the content API on a miss, with an asynchronous
// cache repopulate after a source fetch.
func handler(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	if request.HTTPMethod != http.MethodGet {
		return events.APIGatewayProxyResponse{
			StatusCode: http.StatusMethodNotAllowed,
			Body:       "Method Not Allowed",
		}, nil
	}

	var products []models.Product
	cached := false

	if productCache != nil {
		if fromCache, err := productCache.Products(ctx); err == nil {
			products = fromCache
			cached = true
		} else {
			slog.Info("catalog cache miss, falling back to content API", "err", err)
		}
	}

	if !cached {
		var err error
		products, err = cms.AllProducts(ctx)
		if err != nil {
			slog.Error("failed to fetch products", "err", err)
			return events.APIGatewayProxyResponse{
				StatusCode: http.StatusInternalServerError,
				Headers:    map[string]string{"Content-Type": "application/json"},
				Body:       `{"message": "Failed to retrieve products"}`,
			}, nil
		}

		if productCache != nil {
			// Repopulate off the request path; the next invocation
			// benefits even if this one has already responded.
			go func(products []models.Product) {
				ctx, cancel := context.WithTimeout(context.Background(), repopulateTimeout)
				defer cancel()
				if err := productCache.StoreProducts(ctx, products); err != nil {
					slog.Warn("failed to repopulate catalog cache", "err", err)
				}
			}(products)
		}
	}

	if products == nil {
		products = []models.Product{}
	}

	body, err := json.Marshal(products)
	if err != nil {
		slog.Error("failed to marshal products", "err", err)
		return events.APIGatewayProxyResponse{
			StatusCode: http.StatusInternalServerError,
			Headers:    map[string]string{"Content-Type": "application/json"},
			Body:       `{"message": "Failed to format response"}`,
		}, nil
	}

	headers := map[string]string{
		"Content-Type":                 "application/json",
		"Cache-Control":                "public, max-age=300, must-revalidate",
		"Access-Control-Allow-Origin":  "*",
		"Access-Control-Allow-Methods": "GET",
		"Access-Control-Allow-Headers": "Content-Type",
	}

	return events.APIGatewayProxyResponse{
		StatusCode: http.StatusOK,
		Headers:    headers,
		Body:       string(body),
	}, nil
}

func main() {
	lambda.Start(handler)
}
