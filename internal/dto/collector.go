package dto

// CreateCollectorRequest registers a new route collector.
type CreateCollectorRequest struct {
	CollectorCode string `json:"collectorCode" binding:"required"`
	Name          string `json:"name" binding:"required"`
	Address       string `json:"address"`
	Phone         string `json:"phone"`
	Motorbike     string `json:"motorbike"`
}

// UpdateCollectorRequest rewrites a collector's contact fields.
type UpdateCollectorRequest struct {
	Name      string `json:"name" binding:"required"`
	Address   string `json:"address"`
	Phone     string `json:"phone"`
	Motorbike string `json:"motorbike"`
}
