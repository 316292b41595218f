package domain

// FleetStatistics aggregates fleet-wide counts for the summary view.
type FleetStatistics struct {
	TotalBuses          int `json:"totalBuses"`
	ActiveBuses         int `json:"activeBuses"`
	BusesInMaintenance  int `json:"busesInMaintenance"`
	DecommissionedBuses int `json:"decommissionedBuses"`

	DegradedComponents int `json:"degradedComponents"`

	PendingWorkOrders    int `json:"pendingWorkOrders"`
	InProgressWorkOrders int `json:"inProgressWorkOrders"`
	CompletedWorkOrders  int `json:"completedWorkOrders"`
	CancelledWorkOrders  int `json:"cancelledWorkOrders"`

	// OutstandingCost is the estimated cost of all open work orders.
	OutstandingCost float64 `json:"outstandingCost"`
}
