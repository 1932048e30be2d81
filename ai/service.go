package ai

import (
	"math"
	"math/rand"
	"sort"
	"time"

	"pharmapos/models"
	"pharmapos/utils"
	"pharmapos/webhook"
)

// Service runs heuristic analytics over product/sales snapshots and
// pushes every report it produces to the webhook dispatcher. The
// computations are pure over their inputs; the only I/O is the
// dispatch call after each report. Dispatch failures are counted and
// never block the rest of the run.
type Service struct {
	userCode string
	hooks    *webhook.Client
	rng      *rand.Rand

	delivered int
	failed    int
}

// NewService builds an engine for one analysis run. hooks may be nil
// (compute only, nothing delivered). rng may be nil, in which case a
// time-seeded source is used; tests pass a fixed seed so the
// cross-sell correlations are reproducible.
func NewService(userCode string, hooks *webhook.Client, rng *rand.Rand) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Service{userCode: userCode, hooks: hooks, rng: rng}
}

// Deliveries reports how many webhook sends succeeded and failed so
// far in this run.
func (s *Service) Deliveries() (delivered, failed int) {
	return s.delivered, s.failed
}

func (s *Service) record(ok bool) {
	if ok {
		s.delivered++
	} else {
		s.failed++
	}
}

// GenerateDemandForecasts computes a monthly demand forecast per
// product and dispatches each one as it is produced.
func (s *Service) GenerateDemandForecasts(products []models.Product, sales []models.Sale) []models.DemandForecast {
	forecasts := make([]models.DemandForecast, 0, len(products))
	for _, product := range products {
		forecast := ForecastDemand(product, salesForProduct(sales, product.ID))
		forecasts = append(forecasts, forecast)
		if s.hooks != nil {
			s.record(s.hooks.SendDemandForecast(forecast))
		}
	}
	return forecasts
}

// GenerateAIPredictions produces the demand, restock and price
// predictions for every product, dispatching each one individually.
func (s *Service) GenerateAIPredictions(products []models.Product, sales []models.Sale) []models.AIPrediction {
	predictions := make([]models.AIPrediction, 0, 3*len(products))
	for _, product := range products {
		productSales := salesForProduct(sales, product.ID)
		for _, prediction := range []models.AIPrediction{
			PredictDemand(product, productSales),
			PredictRestockTiming(product, productSales),
			PredictOptimalPrice(product, productSales),
		} {
			predictions = append(predictions, prediction)
			if s.hooks != nil {
				s.record(s.hooks.SendAIPrediction(prediction))
			}
		}
	}
	return predictions
}

// GeneratePriceOptimizations suggests a price per product.
func (s *Service) GeneratePriceOptimizations(products []models.Product, sales []models.Sale) []models.PriceOptimization {
	optimizations := make([]models.PriceOptimization, 0, len(products))
	for _, product := range products {
		optimization := CalculatePriceOptimization(product, salesForProduct(sales, product.ID))
		optimizations = append(optimizations, optimization)
		if s.hooks != nil {
			s.record(s.hooks.SendPriceOptimization(optimization))
		}
	}
	return optimizations
}

// AnalyzeCustomerBehavior summarises buying patterns across the whole
// catalog in a single report.
func (s *Service) AnalyzeCustomerBehavior(products []models.Product, sales []models.Sale) models.CustomerBehavior {
	behavior := CalculateCustomerBehavior(products, sales, s.rng)
	if s.hooks != nil {
		s.record(s.hooks.SendCustomerBehavior(behavior))
	}
	return behavior
}

// DetectInventoryAnomalies runs all three detectors and dispatches
// every anomaly found.
func (s *Service) DetectInventoryAnomalies(products []models.Product, sales []models.Sale) []models.InventoryAnomaly {
	var anomalies []models.InventoryAnomaly
	anomalies = append(anomalies, DetectSalesSpikes(products, sales)...)
	anomalies = append(anomalies, DetectUnexpectedStockouts(products)...)
	anomalies = append(anomalies, DetectDemandPatternChanges(sales)...)

	for _, anomaly := range anomalies {
		if s.hooks != nil {
			s.record(s.hooks.SendInventoryAnomaly(anomaly))
		}
	}
	return anomalies
}

// RunFullAnalysis executes every report family in order and returns
// the run summary. There is no transactional grouping: a failed
// dispatch is counted and the run continues.
func (s *Service) RunFullAnalysis(products []models.Product, sales []models.Sale) models.AnalysisSummary {
	forecasts := s.GenerateDemandForecasts(products, sales)
	predictions := s.GenerateAIPredictions(products, sales)
	optimizations := s.GeneratePriceOptimizations(products, sales)
	s.AnalyzeCustomerBehavior(products, sales)
	anomalies := s.DetectInventoryAnomalies(products, sales)

	delivered, failed := s.Deliveries()
	return models.AnalysisSummary{
		Forecasts:          len(forecasts),
		Predictions:        len(predictions),
		PriceOptimizations: len(optimizations),
		Anomalies:          len(anomalies),
		WebhooksDelivered:  delivered,
		WebhooksFailed:     failed,
	}
}

// --- Pure computations ---

// seasonalFactors are fixed illustrative constants attached to every
// forecast; they are not computed from data.
func seasonalFactors() map[string]float64 {
	return map[string]float64{
		"winter": 1.2,
		"spring": 1.0,
		"summer": 0.8,
		"fall":   1.1,
	}
}

// salesForProduct filters a snapshot down to one product, preserving
// the input's insertion order.
func salesForProduct(sales []models.Sale, productID string) []models.Sale {
	var filtered []models.Sale
	for _, s := range sales {
		if s.ProductID == productID {
			filtered = append(filtered, s)
		}
	}
	return filtered
}

// lastN returns the most recent n sales, or all of them when fewer
// exist. Input order is insertion order.
func lastN(sales []models.Sale, n int) []models.Sale {
	if len(sales) <= n {
		return sales
	}
	return sales[len(sales)-n:]
}

// window returns the slice counted [from, to) back from the end,
// mirroring negative-index slicing: window(s, 30, 7) is everything
// between the 30th-last and 7th-last sale.
func window(sales []models.Sale, from, to int) []models.Sale {
	start := len(sales) - from
	if start < 0 {
		start = 0
	}
	end := len(sales) - to
	if end < 0 {
		end = 0
	}
	if start > end {
		start = end
	}
	return sales[start:end]
}

func sumQuantity(sales []models.Sale) int {
	total := 0
	for _, s := range sales {
		total += s.Quantity
	}
	return total
}

// avgQuantity averages quantity over the given sales, defaulting to 1
// on an empty slice. The default is a zero-division guard, not a
// business rule.
func avgQuantity(sales []models.Sale) float64 {
	if len(sales) == 0 {
		return 1
	}
	return float64(sumQuantity(sales)) / float64(len(sales))
}

// ForecastDemand projects monthly demand from the most recent 30 sales
// of the product.
func ForecastDemand(product models.Product, sales []models.Sale) models.DemandForecast {
	avg := avgQuantity(lastN(sales, 30))

	trend := "stable"
	if avg > 2 {
		trend = "increasing"
	} else if avg < 1 {
		trend = "decreasing"
	}

	action := "monitor"
	if float64(product.CurrentStock) < avg*15 {
		action = "reorder_immediately"
	}

	return models.DemandForecast{
		ProductID:       product.ID,
		ProductName:     product.Name,
		CurrentStock:    product.CurrentStock,
		PredictedDemand: int(math.Round(avg * 30)),
		Period:          "monthly",
		SeasonalFactors: seasonalFactors(),
		Trend:           trend,
		Action:          action,
		DataPoints:      len(sales),
	}
}

// PredictDemand projects weekly demand from the most recent 14 sales.
// Confidence rises linearly with available samples and saturates at
// 0.95.
func PredictDemand(product models.Product, sales []models.Sale) models.AIPrediction {
	recent := lastN(sales, 14)
	avg := avgQuantity(recent)

	return models.AIPrediction{
		Type:        "demand",
		ProductID:   product.ID,
		Value:       math.Round(avg * 7),
		Confidence:  math.Min(0.95, 0.5+float64(len(recent))/28),
		TimeHorizon: "7_days",
		Factors:     []string{"historical_sales", "seasonal_trends", "current_stock"},
		Accuracy:    0.85,
	}
}

// PredictRestockTiming estimates how many days of stock remain. The
// result is never less than 1.
func PredictRestockTiming(product models.Product, sales []models.Sale) models.AIPrediction {
	avgDailySales := avgQuantity(sales)
	days := math.Floor(float64(product.CurrentStock) / avgDailySales)
	if days < 1 {
		days = 1
	}

	return models.AIPrediction{
		Type:        "restock",
		ProductID:   product.ID,
		Value:       days,
		Confidence:  0.8,
		TimeHorizon: "days",
		Factors:     []string{"current_stock", "sales_velocity", "lead_time"},
		Accuracy:    0.78,
	}
}

func priceMultiplier(salesVelocity float64) float64 {
	if salesVelocity > 2 {
		return 1.05 // raise price under high demand
	}
	if salesVelocity < 0.5 {
		return 0.95 // discount under low demand
	}
	return 1.0
}

// PredictOptimalPrice suggests a price from sales velocity over a
// fixed 30-day window.
func PredictOptimalPrice(product models.Product, sales []models.Sale) models.AIPrediction {
	velocity := float64(len(sales)) / 30

	return models.AIPrediction{
		Type:        "price",
		ProductID:   product.ID,
		Value:       utils.Round2(product.Price * priceMultiplier(velocity)),
		Confidence:  0.7,
		TimeHorizon: "30_days",
		Factors:     []string{"demand_elasticity", "competitor_pricing", "inventory_levels"},
		Accuracy:    0.72,
	}
}

// CalculatePriceOptimization restates the price suggestion with an
// expected impact and synthetic competitor prices. The impact deltas
// and competitor prices are illustrative constants, not market data.
func CalculatePriceOptimization(product models.Product, sales []models.Sale) models.PriceOptimization {
	velocity := float64(len(sales)) / 30
	suggested := product.Price * priceMultiplier(velocity)

	var impact models.ExpectedImpact
	strategy := "competitive_pricing"
	switch {
	case velocity > 2:
		impact = models.ExpectedImpact{SalesVolume: -5, Revenue: 3, Profit: 5}
		strategy = "premium_pricing"
	case velocity < 0.5:
		impact = models.ExpectedImpact{SalesVolume: 15, Revenue: 8, Profit: 12}
	}

	changePct := 0.0
	if product.Price != 0 {
		changePct = (suggested - product.Price) / product.Price * 100
	}

	return models.PriceOptimization{
		ProductID:        product.ID,
		CurrentPrice:     product.Price,
		SuggestedPrice:   utils.Round2(suggested),
		ChangePercentage: changePct,
		ExpectedImpact:   impact,
		CompetitorPrices: []float64{
			product.Price * 0.95,
			product.Price * 1.02,
			product.Price * 0.98,
		},
		Elasticity:       -1.2,
		Strategy:         strategy,
		MarketConditions: "stable",
	}
}

// CalculateCustomerBehavior ranks products by revenue and attaches the
// fixed segment, peak-hour and seasonal constants. Cross-sell pairs
// are adjacent top products with a correlation drawn from rng in
// [0.3, 0.7), which makes this the one non-deterministic report.
func CalculateCustomerBehavior(products []models.Product, sales []models.Sale, rng *rand.Rand) models.CustomerBehavior {
	top := make([]models.TopProduct, 0, len(products))
	for _, p := range products {
		tp := models.TopProduct{ProductID: p.ID, Name: p.Name}
		for _, s := range sales {
			if s.ProductID == p.ID {
				tp.SalesCount++
				tp.Revenue += s.TotalAmount
			}
		}
		top = append(top, tp)
	}
	sort.SliceStable(top, func(i, j int) bool { return top[i].Revenue > top[j].Revenue })
	if len(top) > 10 {
		top = top[:10]
	}

	avgTransaction := 0.0
	if len(sales) > 0 {
		total := 0.0
		for _, s := range sales {
			total += s.TotalAmount
		}
		avgTransaction = total / float64(len(sales))
	}

	pairCount := len(top)
	if pairCount > 5 {
		pairCount = 5
	}
	crossSelling := make([]models.CrossSellPair, 0, pairCount)
	for i := 0; i < pairCount; i++ {
		crossSelling = append(crossSelling, models.CrossSellPair{
			Product1:    top[i].ProductID,
			Product2:    top[(i+1)%len(top)].ProductID,
			Correlation: 0.3 + rng.Float64()*0.4,
		})
	}

	return models.CustomerBehavior{
		Period:      "last_30_days",
		TopProducts: top,
		Patterns: models.BehaviorPatterns{
			PeakHours:               []string{"10:00-12:00", "14:00-16:00"},
			SeasonalTrends:          seasonalFactors(),
			AverageTransactionValue: avgTransaction,
			FrequentBuyers:          int(math.Floor(float64(len(sales)) * 0.3)),
		},
		SeasonalTrends: map[string]map[string]float64{
			"monthly": {"jan": 1.1, "feb": 1.0, "mar": 1.2},
			"weekly":  {"mon": 0.8, "tue": 1.0, "wed": 1.1, "thu": 1.2, "fri": 1.3, "sat": 0.9, "sun": 0.7},
		},
		Segments: []models.CustomerSegment{
			{Name: "Regular Customers", Size: 60, Characteristics: []string{"frequent_purchases", "brand_loyal"}},
			{Name: "Occasional Buyers", Size: 30, Characteristics: []string{"price_sensitive", "seasonal"}},
			{Name: "New Customers", Size: 10, Characteristics: []string{"exploring", "comparison_shopping"}},
		},
		CrossSelling: crossSelling,
		ChurnRisk:    models.ChurnRisk{HighRisk: 15, MediumRisk: 25, LowRisk: 60},
		DataQuality:  0.85,
	}
}

// DetectSalesSpikes flags products whose recent sales mean exceeds
// twice the preceding window's mean. The divisors are the fixed window
// sizes (7 recent, 23 prior), not the observed counts; a zero prior
// mean defaults to 1.
func DetectSalesSpikes(products []models.Product, sales []models.Sale) []models.InventoryAnomaly {
	var anomalies []models.InventoryAnomaly

	for _, product := range products {
		productSales := salesForProduct(sales, product.ID)

		priorMean := float64(sumQuantity(window(productSales, 30, 7))) / 23
		if priorMean == 0 {
			priorMean = 1
		}
		recentMean := float64(sumQuantity(lastN(productSales, 7))) / 7

		if recentMean > priorMean*2 {
			anomalies = append(anomalies, models.InventoryAnomaly{
				Type:     "unusual_sales_spike",
				Products: []string{product.ID},
				Severity: math.Min(10, recentMean/priorMean),
				Method:   "statistical_analysis",
				Actions:  []string{"investigate_cause", "increase_stock", "monitor_trend"},
				Causes:   []string{"seasonal_demand", "marketing_campaign", "competitor_stockout"},
				Impact: models.AnomalyImpact{
					Financial:   recentMean * product.Price * 7,
					Operational: "potential_stockout_risk",
				},
				Confidence: 0.8,
			})
		}
	}
	return anomalies
}

// DetectUnexpectedStockouts emits at most one aggregate anomaly
// listing every product with zero stock. The financial impact assumes
// ten lost units per product; it is not derived from actual velocity.
func DetectUnexpectedStockouts(products []models.Product) []models.InventoryAnomaly {
	var outOfStock []string
	var lostSales float64
	for _, p := range products {
		if p.CurrentStock == 0 {
			outOfStock = append(outOfStock, p.ID)
			lostSales += p.Price * 10
		}
	}
	if len(outOfStock) == 0 {
		return nil
	}

	return []models.InventoryAnomaly{{
		Type:     "unexpected_stockout",
		Products: outOfStock,
		Severity: float64(len(outOfStock)),
		Method:   "inventory_monitoring",
		Actions:  []string{"emergency_reorder", "find_alternatives", "notify_customers"},
		Causes:   []string{"supplier_delay", "demand_spike", "forecasting_error"},
		Impact: models.AnomalyImpact{
			Financial:   lostSales,
			Operational: "customer_dissatisfaction",
		},
		Confidence: 0.95,
	}}
}

// DetectDemandPatternChanges compares the mean quantity of the most
// recent 14 sales across all products against the preceding 14 and
// flags a relative change above 50%.
func DetectDemandPatternChanges(sales []models.Sale) []models.InventoryAnomaly {
	recent := lastN(sales, 14)
	older := window(sales, 28, 14)

	recentAvg := float64(sumQuantity(recent)) / 14
	olderAvg := float64(sumQuantity(older)) / 14
	if olderAvg == 0 {
		olderAvg = 1
	}

	change := math.Abs(recentAvg-olderAvg) / olderAvg
	if change <= 0.5 {
		return nil
	}

	// Unique product ids in order of first appearance.
	seen := make(map[string]bool)
	var productIDs []string
	for _, s := range recent {
		if !seen[s.ProductID] {
			seen[s.ProductID] = true
			productIDs = append(productIDs, s.ProductID)
		}
	}

	return []models.InventoryAnomaly{{
		Type:     "demand_pattern_change",
		Products: productIDs,
		Severity: change,
		Method:   "trend_analysis",
		Actions:  []string{"update_forecasts", "adjust_inventory", "investigate_market"},
		Causes:   []string{"market_shift", "seasonal_change", "external_factors"},
		Impact: models.AnomalyImpact{
			Financial:   math.Abs(recentAvg-olderAvg) * 100,
			Operational: "forecasting_accuracy_impact",
		},
		Confidence: 0.7,
	}}
}
