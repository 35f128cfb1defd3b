package domain

import "time"

// Customer is the local projection of a customer record owned by the external
// customer-management service. It is populated exclusively by the identity
// projector from the inbound sync feed and is eventually consistent: an
// account may reference a customer id with no projected row yet.
type Customer struct {
	ID        int64
	Name      string
	UpdatedAt time.Time
}
