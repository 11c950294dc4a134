package api

type KpiUpsertRequest struct {
	Month     string  `json:"month"`
	Revenue   float64 `json:"revenue"`
	Orders    int64   `json:"orders"`
	Customers int64   `json:"customers"`
}

type KpiListResponse struct {
	Data []KpiPoint `json:"data"`
}

type SeedRequest struct {
	Months   int    `json:"months"`
	Reset    bool   `json:"reset"`
	Scenario string `json:"scenario"`
}

type SeedResponse struct {
	Status         string   `json:"status"`
	MonthsInserted int      `json:"months_inserted"`
	MonthsRange    []string `json:"months_range"`
	Reset          bool     `json:"reset"`
	Scenario       string   `json:"scenario"`
}
