package agents

import "github.com/google/uuid"

// GuestRecord tracks which item instances a visiting actor purchased,
// by stack identity. Purchased items are the guest's to take home.
type GuestRecord struct {
	Purchased []uuid.UUID `json:"purchased"`
}

// RecordPurchase marks an item instance as bought by this guest.
func (g *GuestRecord) RecordPurchase(id uuid.UUID) {
	g.Purchased = append(g.Purchased, id)
}

// HasPurchased reports whether the guest bought the given item instance.
func (g *GuestRecord) HasPurchased(id uuid.UUID) bool {
	for _, p := range g.Purchased {
		if p == id {
			return true
		}
	}
	return false
}
