package webhook

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"pharmapos/config"
	"pharmapos/models"
)

// Envelope is the JSON body delivered to a configured endpoint.
type Envelope struct {
	Type      string                 `json:"type"`
	Data      interface{}            `json:"data"`
	Timestamp string                 `json:"timestamp"`
	UserCode  string                 `json:"user_code"`
	Priority  string                 `json:"priority,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// Endpoint keys. Each maps to one independently configurable URL.
const (
	EndpointDefault   = "default"
	EndpointAI        = "ai"
	EndpointAnalytics = "analytics"
	EndpointAlerts    = "alerts"
)

// endpointByType routes an envelope type to an endpoint key. Types not
// listed here go to the default endpoint.
var endpointByType = map[string]string{
	"sale":               EndpointAlerts,
	"low_stock_alert":    EndpointAlerts,
	"ai_prediction":      EndpointAI,
	"demand_forecast":    EndpointAI,
	"price_optimization": EndpointAI,
	"customer_behavior":  EndpointAnalytics,
}

// Client posts envelopes to the configured Make.com endpoints on
// behalf of one user. Delivery is fire-and-forget best effort: no
// retries, no backoff, no at-least-once guarantee. The client holds no
// mutable state, so it is safe for concurrent sends.
type Client struct {
	endpoints map[string]string
	userCode  string
	http      *http.Client
}

// NewClient builds a dispatcher for the given user code. Endpoints
// missing from the configuration stay empty and their report
// categories are silently skipped at send time.
func NewClient(cfg config.Config, userCode string) *Client {
	return &Client{
		endpoints: map[string]string{
			EndpointDefault:   cfg.WebhookURL,
			EndpointAI:        cfg.AIWebhookURL,
			EndpointAnalytics: cfg.AnalyticsWebhookURL,
			EndpointAlerts:    cfg.AlertsWebhookURL,
		},
		userCode: userCode,
		http:     &http.Client{},
	}
}

// Status reports which endpoints are configured.
func (c *Client) Status() map[string]bool {
	status := make(map[string]bool, len(c.endpoints))
	for key, url := range c.endpoints {
		status[key] = url != ""
	}
	return status
}

func (c *Client) resolveURL(envType string) string {
	key, ok := endpointByType[envType]
	if !ok {
		key = EndpointDefault
	}
	return c.endpoints[key]
}

// Send delivers one envelope to the endpoint its type routes to, or to
// urlOverride when given. It returns false without attempting a call
// when no endpoint is configured; that is a valid operating mode for
// development, not an error. Transport failures and non-2xx responses
// also return false, logged only.
func (c *Client) Send(env Envelope, urlOverride ...string) bool {
	url := c.resolveURL(env.Type)
	if len(urlOverride) > 0 && urlOverride[0] != "" {
		url = urlOverride[0]
	}
	if url == "" {
		log.Printf("webhook: no endpoint configured for type %q, skipping", env.Type)
		return false
	}

	body, err := json.Marshal(env)
	if err != nil {
		log.Printf("webhook: failed to marshal %q envelope: %v", env.Type, err)
		return false
	}

	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		log.Printf("webhook: failed to build request for %q envelope: %v", env.Type, err)
		return false
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Source", "pharmapos-backend")
	req.Header.Set("X-User-Code", env.UserCode)

	resp, err := c.http.Do(req)
	if err != nil {
		log.Printf("webhook: error sending %q envelope: %v", env.Type, err)
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Printf("webhook: %q delivery failed with status %d", env.Type, resp.StatusCode)
		return false
	}
	return true
}

// SendBatch issues all sends concurrently and reports how many
// succeeded and failed. A failure never cancels the rest.
func (c *Client) SendBatch(envelopes []Envelope) (sent, failed int) {
	var wg sync.WaitGroup
	var mu sync.Mutex
	for _, env := range envelopes {
		wg.Add(1)
		go func(env Envelope) {
			defer wg.Done()
			ok := c.Send(env)
			mu.Lock()
			if ok {
				sent++
			} else {
				failed++
			}
			mu.Unlock()
		}(env)
	}
	wg.Wait()
	return sent, failed
}

// NewEnvelope stamps the current time and the client's user code.
func (c *Client) NewEnvelope(envType string, data interface{}) Envelope {
	return Envelope{
		Type:      envType,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		UserCode:  c.userCode,
	}
}

// SendSale reports a completed sale.
func (c *Client) SendSale(sale models.Sale) bool {
	return c.Send(c.NewEnvelope("sale", map[string]interface{}{
		"sale_id":      sale.ID,
		"product_id":   sale.ProductID,
		"quantity":     sale.Quantity,
		"total_amount": sale.TotalAmount,
		"timestamp":    sale.Timestamp.UTC().Format(time.RFC3339),
	}))
}

// SendLowStockAlert reports every product at or below its reorder
// level in a single envelope.
func (c *Client) SendLowStockAlert(products []models.Product) bool {
	items := make([]map[string]interface{}, 0, len(products))
	for _, p := range products {
		items = append(items, map[string]interface{}{
			"id":            p.ID,
			"name":          p.Name,
			"current_stock": p.CurrentStock,
			"reorder_level": p.ReorderLevel,
		})
	}
	return c.Send(c.NewEnvelope("low_stock_alert", map[string]interface{}{
		"products": items,
		"count":    len(products),
	}))
}

// SendDemandForecast delivers a forecast under its wire field names.
// Every field the engine populates must survive into the payload.
func (c *Client) SendDemandForecast(f models.DemandForecast) bool {
	return c.Send(c.NewEnvelope("demand_forecast", map[string]interface{}{
		"product_id":         f.ProductID,
		"product_name":       f.ProductName,
		"current_stock":      f.CurrentStock,
		"predicted_demand":   f.PredictedDemand,
		"forecast_period":    f.Period,
		"seasonal_factors":   f.SeasonalFactors,
		"trend_direction":    f.Trend,
		"recommended_action": f.Action,
		"data_points":        f.DataPoints,
	}))
}

// SendAIPrediction delivers one demand/restock/price prediction.
func (c *Client) SendAIPrediction(p models.AIPrediction) bool {
	return c.Send(c.NewEnvelope("ai_prediction", map[string]interface{}{
		"prediction_type":  p.Type,
		"product_id":       p.ProductID,
		"predicted_value":  p.Value,
		"confidence_score": p.Confidence,
		"time_horizon":     p.TimeHorizon,
		"factors":          p.Factors,
		"accuracy":         p.Accuracy,
	}))
}

func (c *Client) SendPriceOptimization(o models.PriceOptimization) bool {
	return c.Send(c.NewEnvelope("price_optimization", o))
}

func (c *Client) SendCustomerBehavior(b models.CustomerBehavior) bool {
	return c.Send(c.NewEnvelope("customer_behavior", b))
}

func (c *Client) SendInventoryAnomaly(a models.InventoryAnomaly) bool {
	return c.Send(c.NewEnvelope("inventory_anomaly", a))
}
