package webhook

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"pharmapos/config"
	"pharmapos/models"
)

func countingServer(status int, calls *int64, lastBody *[]byte) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(calls, 1)
		if lastBody != nil {
			body, _ := io.ReadAll(r.Body)
			*lastBody = body
		}
		w.WriteHeader(status)
	}))
}

func TestSend_NoEndpointConfigured(t *testing.T) {
	var calls int64
	server := countingServer(200, &calls, nil)
	defer server.Close()

	// Only the AI endpoint is configured; a sale routes to alerts,
	// which is empty, so nothing must be sent.
	client := NewClient(config.Config{AIWebhookURL: server.URL}, "U1")
	if ok := client.Send(client.NewEnvelope("sale", nil)); ok {
		t.Fatalf("expected false for unconfigured endpoint")
	}
	if atomic.LoadInt64(&calls) != 0 {
		t.Fatalf("expected no HTTP call, got %d", calls)
	}
}

func TestSend_SuccessAndFailure(t *testing.T) {
	var okCalls, failCalls int64
	okServer := countingServer(200, &okCalls, nil)
	defer okServer.Close()
	failServer := countingServer(500, &failCalls, nil)
	defer failServer.Close()

	client := NewClient(config.Config{WebhookURL: okServer.URL}, "U1")
	if !client.Send(client.NewEnvelope("something_else", nil)) {
		t.Fatalf("expected success for 200 response")
	}

	client = NewClient(config.Config{WebhookURL: failServer.URL}, "U1")
	if client.Send(client.NewEnvelope("something_else", nil)) {
		t.Fatalf("expected failure for 500 response")
	}
	if atomic.LoadInt64(&failCalls) != 1 {
		t.Fatalf("expected exactly one call to failing server, got %d", failCalls)
	}
}

func TestSend_RoutesByType(t *testing.T) {
	var alertCalls, aiCalls, analyticsCalls, defaultCalls int64
	alerts := countingServer(200, &alertCalls, nil)
	defer alerts.Close()
	ai := countingServer(200, &aiCalls, nil)
	defer ai.Close()
	analytics := countingServer(200, &analyticsCalls, nil)
	defer analytics.Close()
	fallback := countingServer(200, &defaultCalls, nil)
	defer fallback.Close()

	client := NewClient(config.Config{
		WebhookURL:          fallback.URL,
		AIWebhookURL:        ai.URL,
		AnalyticsWebhookURL: analytics.URL,
		AlertsWebhookURL:    alerts.URL,
	}, "U1")

	client.Send(client.NewEnvelope("sale", nil))
	client.Send(client.NewEnvelope("low_stock_alert", nil))
	client.Send(client.NewEnvelope("demand_forecast", nil))
	client.Send(client.NewEnvelope("ai_prediction", nil))
	client.Send(client.NewEnvelope("price_optimization", nil))
	client.Send(client.NewEnvelope("customer_behavior", nil))
	client.Send(client.NewEnvelope("inventory_anomaly", nil))

	if alertCalls != 2 {
		t.Fatalf("expected 2 alert deliveries, got %d", alertCalls)
	}
	if aiCalls != 3 {
		t.Fatalf("expected 3 AI deliveries, got %d", aiCalls)
	}
	if analyticsCalls != 1 {
		t.Fatalf("expected 1 analytics delivery, got %d", analyticsCalls)
	}
	if defaultCalls != 1 {
		t.Fatalf("expected unknown type on the default endpoint, got %d", defaultCalls)
	}
}

func TestSendDemandForecast_PayloadFields(t *testing.T) {
	var calls int64
	var body []byte
	server := countingServer(200, &calls, &body)
	defer server.Close()

	client := NewClient(config.Config{AIWebhookURL: server.URL}, "U1")
	ok := client.SendDemandForecast(models.DemandForecast{
		ProductID:       "p1",
		ProductName:     "Paracetamol",
		CurrentStock:    4,
		PredictedDemand: 60,
		Period:          "monthly",
		SeasonalFactors: map[string]float64{"winter": 1.2},
		Trend:           "increasing",
		Action:          "reorder_immediately",
		DataPoints:      30,
	})
	if !ok {
		t.Fatalf("expected delivery to succeed")
	}

	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		t.Fatalf("failed to decode envelope: %v", err)
	}
	if env.Type != "demand_forecast" || env.UserCode != "U1" || env.Timestamp == "" {
		t.Fatalf("unexpected envelope: %+v", env)
	}

	data, ok := env.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("expected object data, got %T", env.Data)
	}
	for _, field := range []string{
		"product_id", "product_name", "current_stock", "predicted_demand",
		"forecast_period", "seasonal_factors", "trend_direction",
		"recommended_action", "data_points",
	} {
		if _, present := data[field]; !present {
			t.Fatalf("missing field %q in forecast payload: %v", field, data)
		}
	}
	if data["trend_direction"] != "increasing" {
		t.Fatalf("expected trend_direction increasing, got %v", data["trend_direction"])
	}
}

func TestSendAIPrediction_PayloadFields(t *testing.T) {
	var calls int64
	var body []byte
	server := countingServer(200, &calls, &body)
	defer server.Close()

	client := NewClient(config.Config{AIWebhookURL: server.URL}, "U1")
	if !client.SendAIPrediction(models.AIPrediction{
		Type: "demand", ProductID: "p1", Value: 21, Confidence: 0.75,
		TimeHorizon: "7_days", Factors: []string{"historical_sales"}, Accuracy: 0.85,
	}) {
		t.Fatalf("expected delivery to succeed")
	}

	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		t.Fatalf("failed to decode envelope: %v", err)
	}
	data := env.Data.(map[string]interface{})
	for _, field := range []string{
		"prediction_type", "product_id", "predicted_value",
		"confidence_score", "time_horizon", "factors", "accuracy",
	} {
		if _, present := data[field]; !present {
			t.Fatalf("missing field %q in prediction payload: %v", field, data)
		}
	}
}

func TestSend_Headers(t *testing.T) {
	var gotSource, gotUser, gotType string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSource = r.Header.Get("X-Source")
		gotUser = r.Header.Get("X-User-Code")
		gotType = r.Header.Get("Content-Type")
		w.WriteHeader(200)
	}))
	defer server.Close()

	client := NewClient(config.Config{WebhookURL: server.URL}, "U7")
	client.Send(client.NewEnvelope("ping", nil))

	if gotSource != "pharmapos-backend" {
		t.Fatalf("expected X-Source pharmapos-backend, got %q", gotSource)
	}
	if gotUser != "U7" {
		t.Fatalf("expected X-User-Code U7, got %q", gotUser)
	}
	if gotType != "application/json" {
		t.Fatalf("expected application/json, got %q", gotType)
	}
}

func TestSendBatch_CountsSuccessesAndFailures(t *testing.T) {
	var okCalls, failCalls int64
	okServer := countingServer(200, &okCalls, nil)
	defer okServer.Close()
	failServer := countingServer(503, &failCalls, nil)
	defer failServer.Close()

	client := NewClient(config.Config{
		AIWebhookURL:        okServer.URL,
		AnalyticsWebhookURL: failServer.URL,
	}, "U1")

	sent, failed := client.SendBatch([]Envelope{
		client.NewEnvelope("demand_forecast", nil),
		client.NewEnvelope("ai_prediction", nil),
		client.NewEnvelope("customer_behavior", nil),
		client.NewEnvelope("sale", nil), // alerts endpoint unset
	})
	if sent != 2 {
		t.Fatalf("expected 2 sent, got %d", sent)
	}
	if failed != 2 {
		t.Fatalf("expected 2 failed, got %d", failed)
	}
}

func TestStatus(t *testing.T) {
	client := NewClient(config.Config{WebhookURL: "http://example.com", AlertsWebhookURL: "http://example.com/a"}, "U1")
	status := client.Status()
	if !status[EndpointDefault] || !status[EndpointAlerts] {
		t.Fatalf("expected default and alerts configured: %v", status)
	}
	if status[EndpointAI] || status[EndpointAnalytics] {
		t.Fatalf("expected ai and analytics unconfigured: %v", status)
	}
}
