// internal/models/license.go
package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// LicenseTerms is the optional-field record behind asset licenses, listing
// terms and purchased license metadata. Every field is optional on the wire;
// absent flags decode as false and absent numbers as nil / zero.
type LicenseTerms struct {
	Title              string   `json:"title,omitempty"`
	CommercialUse      bool     `json:"commercialUse"`
	DerivativesAllowed bool     `json:"derivativesAllowed"`
	AITraining         bool     `json:"aiTraining"`
	CommercialRevShare *float64 `json:"commercialRevShare,omitempty"`
	MaxLicenses        *int64   `json:"maxLicenses,omitempty"`
	Transferable       bool     `json:"transferable"`
	// Expiration is a unix timestamp in seconds; 0 means perpetual.
	Expiration int64  `json:"expiration"`
	ImageURL   string `json:"imageUrl,omitempty"`
	Image      string `json:"image,omitempty"`
	MediaURL   string `json:"mediaUrl,omitempty"`
}

// ParseLicenseTerms reads terms from a JSON object, or from a JSON string
// that itself holds an encoded object. Anything else yields empty terms.
func ParseLicenseTerms(raw string) LicenseTerms {
	doc := gjson.Parse(raw)
	if doc.Type == gjson.String {
		doc = gjson.Parse(doc.String())
	}
	if !doc.IsObject() {
		return LicenseTerms{}
	}

	terms := LicenseTerms{
		Title:              doc.Get("title").String(),
		CommercialUse:      doc.Get("commercialUse").Bool(),
		DerivativesAllowed: doc.Get("derivativesAllowed").Bool(),
		AITraining:         doc.Get("aiTraining").Bool(),
		Transferable:       doc.Get("transferable").Bool(),
		Expiration:         doc.Get("expiration").Int(),
		ImageURL:           doc.Get("imageUrl").String(),
		Image:              doc.Get("image").String(),
		MediaURL:           doc.Get("mediaUrl").String(),
	}
	if v := doc.Get("commercialRevShare"); v.Exists() && v.Type != gjson.Null {
		share := v.Float()
		terms.CommercialRevShare = &share
	}
	if v := doc.Get("maxLicenses"); v.Exists() && v.Type != gjson.Null {
		limit := v.Int()
		terms.MaxLicenses = &limit
	}
	return terms
}

func (t *LicenseTerms) UnmarshalJSON(data []byte) error {
	*t = ParseLicenseTerms(string(data))
	return nil
}

// Perpetual reports whether the license never expires.
func (t LicenseTerms) Perpetual() bool {
	return t.Expiration == 0
}

// ExpirationLabel is the lifetime label for perpetual terms, the expiry
// date otherwise.
func (t LicenseTerms) ExpirationLabel(l Labels) string {
	if t.Perpetual() {
		return l.Lifetime
	}
	return time.Unix(t.Expiration, 0).UTC().Format(DateLayout)
}

// RevShareLabel renders the revenue share as "N%"; empty when absent.
func (t LicenseTerms) RevShareLabel() string {
	if t.CommercialRevShare == nil {
		return ""
	}
	return FormatNumber(*t.CommercialRevShare) + "%"
}

// ImageSource returns the preferred image reference, imageUrl over image.
func (t LicenseTerms) ImageSource() string {
	if t.ImageURL != "" {
		return t.ImageURL
	}
	return t.Image
}

// MediaSource returns what the media viewer opens: mediaUrl, then the image.
func (t LicenseTerms) MediaSource() string {
	if t.MediaURL != "" {
		return t.MediaURL
	}
	return t.ImageSource()
}

// DateLayout is the calendar format used for purchase and expiry dates.
const DateLayout = "2006-01-02"

const ipfsScheme = "ipfs://"

// GatewayURL rewrites ipfs:// references onto an HTTP gateway prefix.
func GatewayURL(ref, gateway string) string {
	if strings.HasPrefix(ref, ipfsScheme) && gateway != "" {
		return strings.TrimSuffix(gateway, "/") + "/" + strings.TrimPrefix(ref, ipfsScheme)
	}
	return ref
}

// OwnedLicense is a purchase record from GET /my-licenses.
type OwnedLicense struct {
	ID          int64        `json:"id"`
	IPID        string       `json:"ipId"`
	Terms       LicenseTerms `json:"terms"`
	PurchasedOn string       `json:"purchasedOn"`
}

// UnmarshalJSON prefers license_metadata when the backend sends it as an
// encoded string, and falls back to the terms object otherwise.
func (l *OwnedLicense) UnmarshalJSON(data []byte) error {
	doc := gjson.ParseBytes(data)
	if !doc.IsObject() {
		return fmt.Errorf("owned license: expected object, got %s", doc.Type)
	}

	l.ID = doc.Get("id").Int()
	l.IPID = doc.Get("ipId").String()
	l.PurchasedOn = doc.Get("purchasedOn").String()
	if meta := doc.Get("license_metadata"); meta.Type == gjson.String {
		l.Terms = ParseLicenseTerms(meta.Raw)
	} else {
		l.Terms = ParseLicenseTerms(doc.Get("terms").Raw)
	}
	return nil
}

// DisplayTitle falls back to a generic label when the terms carry no title.
func (l OwnedLicense) DisplayTitle(labels Labels) string {
	if l.Terms.Title != "" {
		return l.Terms.Title
	}
	return labels.LicensedAsset
}

// PurchaseDate renders purchasedOn as a calendar date, or returns it
// unchanged when it is not a recognised timestamp.
func (l OwnedLicense) PurchaseDate() string {
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05", DateLayout} {
		if t, err := time.Parse(layout, l.PurchasedOn); err == nil {
			return t.Format(DateLayout)
		}
	}
	return l.PurchasedOn
}
