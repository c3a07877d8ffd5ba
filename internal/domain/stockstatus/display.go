package stockstatus

// Display is the badge color and icon a front-end renders for a tier.
type Display struct {
	Color string `json:"color"`
	Icon  string `json:"icon"`
}

var levelDisplays = map[StockStatus]Display{
	StatusOutOfStock: {Color: "red", Icon: "alert-icon"},
	StatusLowStock:   {Color: "yellow", Icon: "warning-icon"},
	StatusOverstock:  {Color: "purple", Icon: "trend-icon"},
	StatusInStock:    {Color: "green", Icon: "check-icon"},
}

var alertDisplays = map[AlertLevel]Display{
	AlertCritical: {Color: "red", Icon: "x-circle"},
	AlertUrgent:   {Color: "orange", Icon: "alert-triangle"},
	AlertWarning:  {Color: "yellow", Icon: "alert-circle"},
}

var neutralDisplay = Display{Color: "gray", Icon: "alert-triangle"}

// LevelDisplay returns the fixed pairing for a stock-level tier.
func LevelDisplay(status StockStatus) Display {
	if d, ok := levelDisplays[status]; ok {
		return d
	}
	return neutralDisplay
}

// AlertDisplay returns the fixed pairing for an alert tier.
func AlertDisplay(level AlertLevel) Display {
	if d, ok := alertDisplays[level]; ok {
		return d
	}
	return neutralDisplay
}
