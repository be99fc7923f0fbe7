package domain

// Collector is a route agent who visits clients to collect installments.
// Plain reference data; many clients point at one collector.
type Collector struct {
	CollectorCode string `json:"collectorCode"`
	Name          string `json:"name"`
	Address       string `json:"address"`
	Phone         string `json:"phone"`
	Motorbike     string `json:"motorbike"` // plate of the assigned motorbike
	AuditFields
}
