package order

import "strings"

// Destination is where the goods are delivered.
type Destination struct {
	Address      string
	Area         string
	ContactPhone string
	Notes        string
}

// IsEmpty reports whether neither address nor area was supplied.
func (d Destination) IsEmpty() bool {
	return strings.TrimSpace(d.Address) == "" && strings.TrimSpace(d.Area) == ""
}

// WithFallback fills the missing address and area from fallback.
func (d Destination) WithFallback(fallback Destination) Destination {
	if strings.TrimSpace(d.Address) == "" {
		d.Address = fallback.Address
	}
	if strings.TrimSpace(d.Area) == "" {
		d.Area = fallback.Area
	}
	if strings.TrimSpace(d.ContactPhone) == "" {
		d.ContactPhone = fallback.ContactPhone
	}
	return d
}
