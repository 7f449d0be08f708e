package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	"gitlab.connectwisedev.com/storefront-service/models"
	"gitlab.connectwisedev.com/storefront-service/pkg/config"
	"gitlab.connectwisedev.com/storefront-service/pkg/courier"
	"gitlab.connectwisedev.com/storefront-service/pkg/logging"
)

const (
	restockEvent  = "WORSTBUY_RESTOCK_ALERT"
	defaultLocale = "en-US"
)

var alerts *courier.Client

func init() {
	config.LoadEnv() // Load environment variables first

	cfg := config.Load()
	logging.Init(cfg.LogLevel)
	alerts = courier.New(cfg)
}

// handler receives CMS publish events. When a published product has
// stock, a restock alert is broadcast to that SKU's list. The POST path
// always acks with 200 so the CMS never retries: a lost alert is
// preferred over an endless redelivery loop.
func handler(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	switch request.HTTPMethod {
	case http.MethodGet:
		return events.APIGatewayProxyResponse{StatusCode: http.StatusNoContent}, nil
	case http.MethodPost:
		handlePublish(ctx, request.Body)
		return events.APIGatewayProxyResponse{StatusCode: http.StatusOK}, nil
	default:
		return events.APIGatewayProxyResponse{
			StatusCode: http.StatusMethodNotAllowed,
			Body:       "Method Not Allowed",
		}, nil
	}
}

func handlePublish(ctx context.Context, body string) {
	var event models.PublishEvent
	if err := json.Unmarshal([]byte(body), &event); err != nil {
		slog.Error("failed to parse publish event", "err", err)
		return
	}

	fields := event.FlattenFields(defaultLocale)

	stock, _ := fields["itemsInStock"].(float64)
	if stock <= 0 {
		return
	}

	sku, _ := fields["sku"].(string)
	if sku == "" {
		slog.Error("publish event has stock but no sku", "entry", event.Sys.ID)
		return
	}

	listID := courier.ListID(sku)
	messageID, err := alerts.SendToList(ctx, listID, restockEvent, fields)
	if err != nil {
		slog.Error("failed to send restock alert", "list", listID, "err", err)
		return
	}
	slog.Info("sent restock alert", "list", listID, "messageId", messageID)
}

func main() {
	lambda.Start(handler)
}
