package storage

import (
	"time"

	"github.com/shopspring/decimal"
)

// Reading is one persisted sensor observation.
type Reading struct {
	SensorID string
	Time     time.Time
	Value    decimal.Decimal
}

// Float returns the reading as float64 for the numeric pipeline.
func (r Reading) Float() float64 {
	return r.Value.InexactFloat64()
}
