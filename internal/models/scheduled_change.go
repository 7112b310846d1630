package models

import "time"

// ScheduledChange is a future-dated batch of price updates for one producer.
type ScheduledChange struct {
	ID            string                `json:"id"`
	ProducerSlug  string                `json:"producerSlug"`
	ProducerName  string                `json:"producerName"`
	ScheduledDate string                `json:"scheduledDate"`
	CreatedAt     time.Time             `json:"createdAt"`
	CreatedBy     string                `json:"createdBy,omitempty"`
	Changes       []ChangeItem          `json:"changes"`
	Summary       ChangeSummary         `json:"summary"`
	Status        ScheduledChangeStatus `json:"status"`
	AppliedAt     *time.Time            `json:"appliedAt,omitempty"`
	CancelledAt   *time.Time            `json:"cancelledAt,omitempty"`
}

// ChangeItem identifies one price in a catalog and its new value.
type ChangeItem struct {
	Category      string  `json:"category"`
	Element       string  `json:"element"`
	Dimension     string  `json:"dimension,omitempty"`
	PriceGroup    string  `json:"priceGroup,omitempty"`
	OldPrice      float64 `json:"oldPrice"`
	NewPrice      float64 `json:"newPrice"`
	PercentChange float64 `json:"percentChange"`
}

type ChangeSummary struct {
	ItemCount     int     `json:"itemCount"`
	AverageChange float64 `json:"averageChange"`
	MinChange     float64 `json:"minChange"`
	MaxChange     float64 `json:"maxChange"`
}

type ScheduledChangeStatus string

const (
	ScheduledChangePending   ScheduledChangeStatus = "pending"
	ScheduledChangeApplied   ScheduledChangeStatus = "applied"
	ScheduledChangeCancelled ScheduledChangeStatus = "cancelled"
)

// ScheduledDateLayout is the on-disk format of ScheduledDate.
const ScheduledDateLayout = "2006-01-02"
