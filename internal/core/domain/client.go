package domain

// ClientStatus is the derived activity state of a client.
type ClientStatus string

const (
	ClientActive   ClientStatus = "ACTIVE"
	ClientInactive ClientStatus = "INACTIVE"
)

// Client represents a borrower on a collection route. Clients are created on
// their first loan and soft-deactivated rather than deleted while they carry
// loan history.
type Client struct {
	ClientCode    int64        `json:"clientCode"` // externally assigned, e.g. national ID
	Name          string       `json:"name"`
	Street        string       `json:"street"`
	CollectorCode string       `json:"collectorCode"` // FK -> collectors.collector_code
	Status        ClientStatus `json:"status"`        // denormalized cache of DeriveClientStatus
	AuditFields
}

// DeriveClientStatus computes the activity state from the outstanding balance
// of the client's active card (zero when there is none). This is the single
// source of truth; the stored Status column is only a refreshed cache of it.
func DeriveClientStatus(outstanding int64) ClientStatus {
	if outstanding > 0 {
		return ClientActive
	}
	return ClientInactive
}

// ClientOverview is a client joined with its active-card standing, the shape
// collectors see while navigating a route.
type ClientOverview struct {
	Client
	Outstanding int64     `json:"outstanding"`
	Position    int       `json:"position,omitempty"` // active card's route position, 0 when none
	ActiveCard  *LoanCard `json:"activeCard,omitempty"`
}

// ClientHistory bundles every card a client has ever held with per-card and
// aggregate repayment summaries.
type ClientHistory struct {
	Client
	Cards   []CardWithSummary `json:"cards"`
	Summary HistorySummary    `json:"summary"`
}

// HistorySummary aggregates a client's full lending history.
type HistorySummary struct {
	TotalCards       int   `json:"totalCards"`
	ActiveCards      int   `json:"activeCards"`
	PaidCards        int   `json:"paidCards"`
	TotalLent        int64 `json:"totalLent"`
	TotalPaid        int64 `json:"totalPaid"`
	TotalOutstanding int64 `json:"totalOutstanding"`
}
