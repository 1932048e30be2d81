package models

// Report shapes produced by the analytics engine. Each value is built
// fresh per analysis run, handed to the webhook dispatcher once and
// then discarded; nothing here carries cross-run state.

// AIPrediction is a heuristic prediction for a single product. Type is
// one of "demand", "restock" or "price".
type AIPrediction struct {
	Type        string   `json:"type"`
	ProductID   string   `json:"product_id"`
	Value       float64  `json:"value"`
	Confidence  float64  `json:"confidence"`
	TimeHorizon string   `json:"time_horizon"`
	Factors     []string `json:"factors"`
	Accuracy    float64  `json:"accuracy,omitempty"`
}

// DemandForecast projects monthly demand for one product from its
// recent sales history.
type DemandForecast struct {
	ProductID       string             `json:"product_id"`
	ProductName     string             `json:"product_name"`
	CurrentStock    int                `json:"current_stock"`
	PredictedDemand int                `json:"predicted_demand"`
	Period          string             `json:"period"`
	SeasonalFactors map[string]float64 `json:"seasonal_factors"`
	Trend           string             `json:"trend"`
	Action          string             `json:"action"`
	DataPoints      int                `json:"data_points"`
}

// ExpectedImpact holds percentage deltas per pricing regime.
type ExpectedImpact struct {
	SalesVolume float64 `json:"sales_volume"`
	Revenue     float64 `json:"revenue"`
	Profit      float64 `json:"profit"`
}

type PriceOptimization struct {
	ProductID        string         `json:"product_id"`
	CurrentPrice     float64        `json:"current_price"`
	SuggestedPrice   float64        `json:"suggested_price"`
	ChangePercentage float64        `json:"change_percentage"`
	ExpectedImpact   ExpectedImpact `json:"expected_impact"`
	CompetitorPrices []float64      `json:"competitor_prices"`
	Elasticity       float64        `json:"elasticity"`
	Strategy         string         `json:"strategy"`
	MarketConditions string         `json:"market_conditions"`
}

type TopProduct struct {
	ProductID  string  `json:"product_id"`
	Name       string  `json:"name"`
	SalesCount int     `json:"sales_count"`
	Revenue    float64 `json:"revenue"`
}

type BehaviorPatterns struct {
	PeakHours               []string           `json:"peak_hours"`
	SeasonalTrends          map[string]float64 `json:"seasonal_trends"`
	AverageTransactionValue float64            `json:"average_transaction_value"`
	FrequentBuyers          int                `json:"frequent_buyers"`
}

type CustomerSegment struct {
	Name            string   `json:"name"`
	Size            int      `json:"size"`
	Characteristics []string `json:"characteristics"`
}

type CrossSellPair struct {
	Product1    string  `json:"product_1"`
	Product2    string  `json:"product_2"`
	Correlation float64 `json:"correlation"`
}

type ChurnRisk struct {
	HighRisk   int `json:"high_risk"`
	MediumRisk int `json:"medium_risk"`
	LowRisk    int `json:"low_risk"`
}

type CustomerBehavior struct {
	Period         string                        `json:"period"`
	TopProducts    []TopProduct                  `json:"top_products"`
	Patterns       BehaviorPatterns              `json:"patterns"`
	SeasonalTrends map[string]map[string]float64 `json:"seasonal_trends"`
	Segments       []CustomerSegment             `json:"segments"`
	CrossSelling   []CrossSellPair               `json:"cross_selling"`
	ChurnRisk      ChurnRisk                     `json:"churn_risk"`
	DataQuality    float64                       `json:"data_quality"`
}

type AnomalyImpact struct {
	Financial   float64 `json:"financial"`
	Operational string  `json:"operational"`
}

// InventoryAnomaly flags an unusual pattern in the sales or stock
// data. Type is one of "unusual_sales_spike", "unexpected_stockout" or
// "demand_pattern_change".
type InventoryAnomaly struct {
	Type       string        `json:"type"`
	Products   []string      `json:"products"`
	Severity   float64       `json:"severity"`
	Method     string        `json:"method"`
	Actions    []string      `json:"actions"`
	Causes     []string      `json:"causes"`
	Impact     AnomalyImpact `json:"impact"`
	Confidence float64       `json:"confidence"`
}

// AnalysisSummary is returned by the analysis-run endpoint.
type AnalysisSummary struct {
	Forecasts          int `json:"forecasts"`
	Predictions        int `json:"predictions"`
	PriceOptimizations int `json:"price_optimizations"`
	Anomalies          int `json:"anomalies"`
	WebhooksDelivered  int `json:"webhooks_delivered"`
	WebhooksFailed     int `json:"webhooks_failed"`
}
