package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.connectwisedev.com/storefront-service/pkg/config"
	"gitlab.connectwisedev.com/storefront-service/pkg/courier"
)

type sendRequest struct {
	Event string         `json:"event"`
	List  string         `json:"list"`
	Data  map[string]any `json:"data"`
}

// withListService points the handler's courier client at a stub list
// service and returns the send requests it received.
func withListService(t *testing.T, status int) *[]sendRequest {
	t.Helper()

	var mu sync.Mutex
	sends := &[]sendRequest{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var send sendRequest
		require.NoError(t, json.Unmarshal(body, &send))
		mu.Lock()
		*sends = append(*sends, send)
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(`{"messageId": "msg-1"}`))
	}))
	t.Cleanup(srv.Close)

	previous := alerts
	alerts = courier.New(config.Config{
		CourierBaseURL:   srv.URL,
		CourierAuthToken: "test-token",
		HTTPTimeout:      5 * time.Second,
	})
	t.Cleanup(func() { alerts = previous })

	return sends
}

func publishBody(t *testing.T, fields map[string]map[string]any) string {
	t.Helper()
	body, err := json.Marshal(map[string]any{
		"sys":    map[string]any{"id": "entry-1"},
		"fields": fields,
	})
	require.NoError(t, err)
	return string(body)
}

func TestPublish(t *testing.T) {
	t.Run("InStockBroadcastsToSKUList", func(t *testing.T) {
		sends := withListService(t, http.StatusOK)

		resp, err := handler(context.Background(), events.APIGatewayProxyRequest{
			HTTPMethod: http.MethodPost,
			Body: publishBody(t, map[string]map[string]any{
				"sku":          {"en-US": "XYZ"},
				"title":        {"en-US": "Widget", "de-DE": "Dings"},
				"itemsInStock": {"en-US": 5},
			}),
		})
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		require.Len(t, *sends, 1)
		send := (*sends)[0]
		assert.Equal(t, "WORSTBUY_RESTOCK_ALERT", send.Event)
		assert.Equal(t, "worstbuy.XYZ.restock", send.List)
		assert.Equal(t, "XYZ", send.Data["sku"])
		assert.Equal(t, "Widget", send.Data["title"], "data carries the flattened en-US values")
		assert.Equal(t, float64(5), send.Data["itemsInStock"])
	})

	t.Run("OutOfStockSendsNothing", func(t *testing.T) {
		sends := withListService(t, http.StatusOK)

		resp, err := handler(context.Background(), events.APIGatewayProxyRequest{
			HTTPMethod: http.MethodPost,
			Body: publishBody(t, map[string]map[string]any{
				"sku":          {"en-US": "XYZ"},
				"itemsInStock": {"en-US": 0},
			}),
		})
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Empty(t, *sends)
	})

	t.Run("SendFailureStillAcks", func(t *testing.T) {
		sends := withListService(t, http.StatusInternalServerError)

		resp, err := handler(context.Background(), events.APIGatewayProxyRequest{
			HTTPMethod: http.MethodPost,
			Body: publishBody(t, map[string]map[string]any{
				"sku":          {"en-US": "XYZ"},
				"itemsInStock": {"en-US": 9},
			}),
		})
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Len(t, *sends, 1)
	})

	t.Run("MalformedBodyStillAcks", func(t *testing.T) {
		sends := withListService(t, http.StatusOK)

		resp, err := handler(context.Background(), events.APIGatewayProxyRequest{
			HTTPMethod: http.MethodPost,
			Body:       `{"fields": `,
		})
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Empty(t, *sends)
	})

	t.Run("MissingSKUSendsNothing", func(t *testing.T) {
		sends := withListService(t, http.StatusOK)

		resp, err := handler(context.Background(), events.APIGatewayProxyRequest{
			HTTPMethod: http.MethodPost,
			Body: publishBody(t, map[string]map[string]any{
				"itemsInStock": {"en-US": 3},
			}),
		})
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Empty(t, *sends)
	})
}

func TestHealthCheck(t *testing.T) {
	resp, err := handler(context.Background(), events.APIGatewayProxyRequest{HTTPMethod: http.MethodGet})
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestMethodNotAllowed(t *testing.T) {
	for _, method := range []string{http.MethodPut, http.MethodDelete, http.MethodPatch} {
		resp, err := handler(context.Background(), events.APIGatewayProxyRequest{HTTPMethod: method})
		require.NoError(t, err)
		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode, method)
	}
}
