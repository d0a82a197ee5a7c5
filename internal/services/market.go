// internal/services/market.go
package services

import (
	"github.com/dravik/licensing-console/internal/models"
)

// Market is the state of the marketplace page. The settlement wallet is
// fetched once per session and survives remounts; listings are replaced on
// every mount. processing holds the per-listing purchase locks; reserved
// marks purchases that passed lookup but have not reached the lock yet.
type Market struct {
	page

	listings         []models.Listing
	settlementWallet string
	processing       map[int64]struct{}
	reserved         map[int64]struct{}
}

func newMarket() *Market {
	return &Market{
		processing: make(map[int64]struct{}),
		reserved:   make(map[int64]struct{}),
	}
}

// Listings returns a copy of the loaded listings.
func (m *Market) Listings() []models.Listing {
	var out []models.Listing
	m.read(func() {
		out = make([]models.Listing, len(m.listings))
		copy(out, m.listings)
	})
	return out
}

// Listing looks a loaded listing up by id.
func (m *Market) Listing(id int64) (models.Listing, bool) {
	var (
		listing models.Listing
		found   bool
	)
	m.read(func() {
		for _, l := range m.listings {
			if l.ID == id {
				listing, found = l, true
				return
			}
		}
	})
	return listing, found
}

// SettlementWallet returns the payment address, empty until loaded.
func (m *Market) SettlementWallet() string {
	var w string
	m.read(func() { w = m.settlementWallet })
	return w
}

func (m *Market) setSettlementWallet(w string) {
	m.update(func() { m.settlementWallet = w })
}

// Processing reports whether a purchase of listing id is in flight.
func (m *Market) Processing(id int64) bool {
	var busy bool
	m.read(func() { _, busy = m.processing[id] })
	return busy
}

// tryLock takes the processing lock of listing id. Locks of other listings
// are independent.
func (m *Market) tryLock(id int64) bool {
	acquired := false
	m.read(func() {
		if _, busy := m.processing[id]; busy {
			return
		}
		m.processing[id] = struct{}{}
		acquired = true
	})
	return acquired
}

// reserve claims listing id for one purchase from lookup onwards, so a
// second purchase of the same listing stops before prompting the wallet.
func (m *Market) reserve(id int64) bool {
	ok := false
	m.read(func() {
		_, busy := m.processing[id]
		_, taken := m.reserved[id]
		if busy || taken {
			return
		}
		m.reserved[id] = struct{}{}
		ok = true
	})
	return ok
}

func (m *Market) releaseReservation(id int64) {
	m.read(func() { delete(m.reserved, id) })
}

// unlock releases the lock of listing id. It works on a closed page too so
// a purchase outliving its session still cleans up.
func (m *Market) unlock(id int64) {
	m.read(func() { delete(m.processing, id) })
}
