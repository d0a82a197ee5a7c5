// internal/services/listing_service.go
package services

import (
	"context"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/dravik/licensing-console/internal/i18n"
	"github.com/dravik/licensing-console/internal/models"
)

// ListingEntry is one of the user's assets on the add-to-marketplace page.
type ListingEntry struct {
	Asset  models.Asset
	Listed bool
}

// PriceInputDisabled reports whether the price control is locked. A listed
// asset cannot be listed again.
func (e ListingEntry) PriceInputDisabled() bool {
	return e.Listed
}

// ActionLabel is the key of the list button's caption.
func (e ListingEntry) ActionLabel() string {
	if e.Listed {
		return i18n.KeyListingAlready
	}
	return i18n.KeyListingAction
}

// ListingBoard is the state of the add-to-marketplace page.
type ListingBoard struct {
	page

	entries []ListingEntry
}

// Entries returns a copy of the board.
func (b *ListingBoard) Entries() []ListingEntry {
	var out []ListingEntry
	b.read(func() {
		out = make([]ListingEntry, len(b.entries))
		copy(out, b.entries)
	})
	return out
}

// Entry looks up an asset on the board.
func (b *ListingBoard) Entry(ipID string) (ListingEntry, bool) {
	var (
		entry ListingEntry
		found bool
	)
	b.read(func() {
		for _, e := range b.entries {
			if e.Asset.IPID == ipID {
				entry, found = e, true
				return
			}
		}
	})
	return entry, found
}

// markListed patches the listed flag locally.
func (b *ListingBoard) markListed(ipID string) bool {
	patched := false
	b.update(func() {
		for i := range b.entries {
			if b.entries[i].Asset.IPID == ipID {
				b.entries[i].Listed = true
				patched = true
			}
		}
	})
	return patched
}

// markListings sets each asset's listed flag by membership of its ip id in
// the active listings.
func markListings(assets []models.Asset, listings []models.Listing) []ListingEntry {
	active := make(map[string]struct{}, len(listings))
	for _, l := range listings {
		active[l.IPID] = struct{}{}
	}

	entries := make([]ListingEntry, 0, len(assets))
	for _, asset := range assets {
		_, listed := active[asset.IPID]
		entries = append(entries, ListingEntry{Asset: asset, Listed: listed})
	}
	return entries
}

// ListingEntryView is an entry as rendered.
type ListingEntryView struct {
	Card               models.AssetCard `json:"card"`
	Listed             bool             `json:"listed"`
	PriceInputDisabled bool             `json:"priceInputDisabled"`
	ActionLabel        string           `json:"actionLabel"`
}

type ListingService struct {
	backend Backend
	media   MediaSettings
}

func NewListingService(backend Backend, media MediaSettings) *ListingService {
	return &ListingService{backend: backend, media: media}
}

// Load mounts the page: the user's assets and the active listings are
// fetched concurrently and joined. A result arriving after a newer mount or
// after logout is dropped.
func (s *ListingService) Load(ctx context.Context, ws *Workspace) ([]ListingEntry, error) {
	board := ws.Listings
	gen := board.mount()

	var (
		assets   []models.Asset
		listings []models.Listing
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		assets, err = s.backend.Assets(gctx, ws.Token())
		return err
	})
	g.Go(func() error {
		var err error
		listings, err = s.backend.Listings(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		logrus.WithError(err).Warn("Failed to load assets for listing")
		return nil, backendError(i18n.M(i18n.KeyListingLoadFailed), err)
	}

	entries := markListings(assets, listings)
	if !board.commit(gen, func() {
		board.entries = entries
	}) {
		logrus.Debug("Dropping superseded listing board load")
	}
	return entries, nil
}

// View renders entries in lang.
func (s *ListingService) View(entries []ListingEntry, lang string) []ListingEntryView {
	labels := labelsFor(lang)
	out := make([]ListingEntryView, 0, len(entries))
	for _, e := range entries {
		card := e.Asset.Card(labels)
		card.ImageURL = s.media.image(card.ImageURL)
		out = append(out, ListingEntryView{
			Card:               card,
			Listed:             e.Listed,
			PriceInputDisabled: e.PriceInputDisabled(),
			ActionLabel:        i18n.T(lang, e.ActionLabel()),
		})
	}
	return out
}

// ParsePrice reads a price input. Empty, non-numeric, zero and negative
// inputs are all invalid.
func ParsePrice(input string) (float64, bool) {
	price, err := strconv.ParseFloat(strings.TrimSpace(input), 64)
	if err != nil || !(price > 0) {
		return 0, false
	}
	return price, true
}

// List puts an asset up for sale at price. On success the entry's listed
// flag is set locally; the board is not re-fetched.
func (s *ListingService) List(ctx context.Context, ws *Workspace, ipID, priceInput string) error {
	price, ok := ParsePrice(priceInput)
	if !ok {
		return validationError(i18n.M(i18n.KeyListingInvalidPrice), nil)
	}
	if entry, found := ws.Listings.Entry(ipID); found && entry.Listed {
		return &UserError{Kind: KindConflict, Msg: i18n.M(i18n.KeyListingAlready)}
	}

	req := models.ListLicenseRequest{IPID: ipID, Price: price}
	if err := s.backend.ListLicense(ctx, ws.Token(), req); err != nil {
		logrus.WithError(err).WithField("ip_id", ipID).Warn("Failed to list asset")
		return backendError(i18n.M(i18n.KeyListingFailed), err)
	}

	ws.Listings.markListed(ipID)
	logrus.WithFields(logrus.Fields{
		"ip_id": ipID,
		"price": price,
	}).Info("Asset listed")
	return nil
}
