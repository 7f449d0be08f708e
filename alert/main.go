package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	"gitlab.connectwisedev.com/storefront-service/pkg/config"
	"gitlab.connectwisedev.com/storefront-service/pkg/courier"
	"gitlab.connectwisedev.com/storefront-service/pkg/logging"
)

var alerts *courier.Client

func init() {
	config.LoadEnv() // Load environment variables first

	cfg := config.Load()
	logging.Init(cfg.LogLevel)
	alerts = courier.New(cfg)
}

// subscriptionRequest is the body of subscribe and unsubscribe calls.
type subscriptionRequest struct {
	SKU    string `json:"sku"`
	UserID string `json:"userId"`
}

// handler exposes restock-alert subscriptions: GET lists the alerts a
// user is subscribed to, POST subscribes, DELETE unsubscribes. All
// membership state lives in the external list service.
func handler(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	switch request.HTTPMethod {
	case http.MethodGet:
		return listAlerts(ctx, request)
	case http.MethodPost, http.MethodDelete:
		return changeSubscription(ctx, request)
	default:
		return events.APIGatewayProxyResponse{
			StatusCode: http.StatusMethodNotAllowed,
			Body:       "Method Not Allowed",
		}, nil
	}
}

func listAlerts(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	userID := request.QueryStringParameters["userId"]
	if userID == "" {
		return errorResponse(http.StatusBadRequest, "userId is required"), nil
	}

	lists, err := alerts.ListsByRecipient(ctx, userID)
	if err != nil {
		slog.Error("failed to list alerts", "userId", userID, "err", err)
		return errorResponse(http.StatusInternalServerError, "failed to list alerts"), nil
	}
	if lists == nil {
		lists = []courier.List{}
	}

	body, err := json.Marshal(struct {
		Items []courier.List `json:"items"`
	}{lists})
	if err != nil {
		slog.Error("failed to marshal alert list", "err", err)
		return errorResponse(http.StatusInternalServerError, "failed to format response"), nil
	}

	return events.APIGatewayProxyResponse{
		StatusCode: http.StatusOK,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       string(body),
	}, nil
}

func changeSubscription(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	var sub subscriptionRequest
	if err := json.Unmarshal([]byte(request.Body), &sub); err != nil {
		return errorResponse(http.StatusBadRequest, "invalid JSON body"), nil
	}
	if sub.SKU == "" || sub.UserID == "" {
		return errorResponse(http.StatusBadRequest, "sku and userId are required"), nil
	}

	listID := courier.ListID(sub.SKU)

	var err error
	if request.HTTPMethod == http.MethodPost {
		err = alerts.Subscribe(ctx, listID, sub.UserID)
	} else {
		err = alerts.Unsubscribe(ctx, listID, sub.UserID)
	}
	if err != nil {
		slog.Error("failed to change subscription",
			"method", request.HTTPMethod, "list", listID, "userId", sub.UserID, "err", err)
		return errorResponse(http.StatusInternalServerError, "failed to update subscription"), nil
	}

	slog.Info("subscription changed", "method", request.HTTPMethod, "list", listID, "userId", sub.UserID)
	return events.APIGatewayProxyResponse{StatusCode: http.StatusNoContent}, nil
}

func errorResponse(status int, message string) events.APIGatewayProxyResponse {
	body, _ := json.Marshal(map[string]string{"error": message})
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       string(body),
	}
}

func main() {
	lambda.Start(handler)
}
