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

const storeTimeout = 5 * time.Second

var (
	cms          *contentful.Client
	productCache *cache.RedisClient
)

func init() {
	config.LoadEnv() // Load environment variables first

	cfg := config.Load()
	logging.Init(cfg.LogLevel)
	cms = contentful.New(cfg)

	if cfg.RedisAddr != "" {
		c, err := cache.NewRedisClient(cfg.RedisAddr)
		if err != nil {
			slog.Warn("product cache disabled", "err", err)
		} else {
			productCache = c
		}
	}
}

// handler serves one product by SKU. A SKU without a matching record is
// a 404, not an error. Preview reads bypass the cache in both
// directions so draft content is never served to or stored for
// non-preview callers.
func handler(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	if request.HTTPMethod != http.MethodGet {
		return events.APIGatewayProxyResponse{
			StatusCode: http.StatusMethodNotAllowed,
			Body:       "Method Not Allowed",
		}, nil
	}

	sku := request.QueryStringParameters["sku"]
	if sku == "" {
		return messageResponse(http.StatusBadRequest, "sku is required"), nil
	}
	preview := request.QueryStringParameters["preview"] == "true"

	if !preview && productCache != nil {
		if cached, err := productCache.Product(ctx, sku); err == nil && cached != nil {
			return productResponse(*cached)
		}
	}

	product, err := cms.ProductBySKU(ctx, sku, preview)
	if err != nil {
		slog.Error("failed to fetch product", "sku", sku, "err", err)
		return messageResponse(http.StatusInternalServerError, "Failed to retrieve product"), nil
	}
	if product == nil {
		return messageResponse(http.StatusNotFound, "Product not found"), nil
	}

	if !preview && productCache != nil {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
			defer cancel()
			if err := productCache.StoreProduct(ctx, *product); err != nil {
				slog.Warn("failed to cache product", "sku", sku, "err", err)
			}
		}()
	}

	return productResponse(*product)
}

func productResponse(product models.Product) (events.APIGatewayProxyResponse, error) {
	body, err := json.Marshal(product)
	if err != nil {
		slog.Error("failed to marshal product", "err", err)
		return messageResponse(http.StatusInternalServerError, "Failed to format response"), nil
	}
	return events.APIGatewayProxyResponse{
		StatusCode: http.StatusOK,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       string(body),
	}, nil
}

func messageResponse(status int, message string) events.APIGatewayProxyResponse {
	body, _ := json.Marshal(map[string]string{"message": message})
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       string(body),
	}
}

func main() {
	lambda.Start(handler)
}
