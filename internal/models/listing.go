// internal/models/listing.go
package models

// Listing is an active marketplace offer from GET /market/listings.
type Listing struct {
	ID            int64         `json:"id"`
	IPID          string        `json:"ip_id"`
	CreatorWallet string        `json:"creator_wallet"`
	Price         float64       `json:"price"`
	Image         string        `json:"image,omitempty"`
	Terms         *LicenseTerms `json:"terms,omitempty"`
}

// DisplayImage prefers the image carried in the listing terms.
func (l Listing) DisplayImage() string {
	if l.Terms != nil && l.Terms.ImageURL != "" {
		return l.Terms.ImageURL
	}
	return l.Image
}

// ListLicenseRequest is the body of POST /list-license.
type ListLicenseRequest struct {
	IPID  string  `json:"ipId" validate:"required"`
	Price float64 `json:"price" validate:"gt=0"`
}
