package delivery

import "time"

// OrderEffect is what a delivery change requires from the owning order.
type OrderEffect int

const (
	NoOrderEffect OrderEffect = iota
	MarkOrderDelivered
	CancelOrder
)

// Outcome is returned by delivery mutations. The delivery never touches the
// order itself; the caller applies the effect through the order update port.
type Outcome struct {
	Effect OrderEffect
	At     time.Time
	Reason string
}
