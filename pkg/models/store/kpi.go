package store

import "time"

// KpiRecord mirrors one row of the kpi_monthly table.
type KpiRecord struct {
	Month     time.Time `db:"month"`
	Revenue   float64   `db:"revenue"`
	Orders    int64     `db:"orders"`
	Customers int64     `db:"customers"`
}
