package core

// Side is the direction of an order, execution or position.
type Side string

// Side constants use the venue's wire spelling.
const (
	SideBuy  Side = "Buy"
	SideSell Side = "Sell"
)

// OrderType is how an order executes.
type OrderType string

const (
	OrderTypeMarket OrderType = "Market"
	OrderTypeLimit  OrderType = "Limit"
)

// TimeInForce controls how long an order rests on the book.
type TimeInForce string

const (
	TimeInForceGTC      TimeInForce = "GTC"
	TimeInForceIOC      TimeInForce = "IOC"
	TimeInForceFOK      TimeInForce = "FOK"
	TimeInForcePostOnly TimeInForce = "PostOnly"
)

// OrderStatus is the venue's order lifecycle state.
type OrderStatus string

const (
	OrderStatusNew                     OrderStatus = "New"
	OrderStatusPartiallyFilled         OrderStatus = "PartiallyFilled"
	OrderStatusUntriggered             OrderStatus = "Untriggered"
	OrderStatusRejected                OrderStatus = "Rejected"
	OrderStatusPartiallyFilledCanceled OrderStatus = "PartiallyFilledCanceled"
	OrderStatusFilled                  OrderStatus = "Filled"
	OrderStatusCancelled               OrderStatus = "Cancelled"
	OrderStatusTriggered               OrderStatus = "Triggered"
	OrderStatusDeactivated             OrderStatus = "Deactivated"
)

// IsFinal reports whether no further updates are expected for the order.
func (s OrderStatus) IsFinal() bool {
	switch s {
	case OrderStatusRejected, OrderStatusPartiallyFilledCanceled, OrderStatusFilled,
		OrderStatusCancelled, OrderStatusDeactivated:
		return true
	}
	return false
}

// TriggerBy is the price type a conditional order watches. The venue sends
// an empty string when no trigger is set.
type TriggerBy string

const (
	TriggerByNone       TriggerBy = ""
	TriggerByLastPrice  TriggerBy = "LastPrice"
	TriggerByMarkPrice  TriggerBy = "MarkPrice"
	TriggerByIndexPrice TriggerBy = "IndexPrice"
)

// IsSet reports whether a trigger price type is present.
func (t TriggerBy) IsSet() bool {
	return t != TriggerByNone
}

// PositionIdx identifies a position in one-way or hedge mode.
type PositionIdx uint8

const (
	// PositionIdxBoth is a one-way mode position.
	PositionIdxBoth PositionIdx = 0
	// PositionIdxLong is the buy side of a hedge-mode position.
	PositionIdxLong PositionIdx = 1
	// PositionIdxShort is the sell side of a hedge-mode position.
	PositionIdxShort PositionIdx = 2
)
