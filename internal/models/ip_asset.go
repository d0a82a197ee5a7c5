// internal/models/ip_asset.go
package models

// AssetMetadata is the descriptive part of a registered asset.
type AssetMetadata struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	CreatorName   string `json:"creatorName,omitempty"`
	CreatorWallet string `json:"creatorWallet"`
}

// Asset is a registered IP asset as returned by GET /assets. Image, explorer
// link and license are optional.
type Asset struct {
	ID       int64         `json:"id"`
	IPID     string        `json:"ipId"`
	Metadata AssetMetadata `json:"metadata"`
	ImageURL string        `json:"imageUrl,omitempty"`
	Explorer string        `json:"explorer,omitempty"`
	License  *LicenseTerms `json:"license,omitempty"`
}

// AssetCard is the rendered form of an asset tile.
type AssetCard struct {
	IPID        string        `json:"ip_id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Wallet      string        `json:"wallet"`
	ImageURL    string        `json:"image_url,omitempty"`
	Explorer    string        `json:"explorer,omitempty"`
	License     *LicensePanel `json:"license,omitempty"`
}

// LicensePanel is the expandable license section of an asset tile.
type LicensePanel struct {
	Commercial   string `json:"commercial"`
	Derivatives  string `json:"derivatives"`
	AITraining   string `json:"ai_training"`
	RevShare     string `json:"rev_share"`
	MaxLicenses  string `json:"max_licenses"`
	Transferable string `json:"transferable"`
}

// Card renders the asset tile. The license panel is present only when the
// asset carries license terms.
func (a Asset) Card(l Labels) AssetCard {
	card := AssetCard{
		IPID:        a.IPID,
		Title:       a.Metadata.Title,
		Description: a.Metadata.Description,
		Wallet:      a.Metadata.CreatorWallet,
		ImageURL:    a.ImageURL,
		Explorer:    a.Explorer,
	}
	if a.License != nil {
		card.License = a.License.Panel(l)
	}
	return card
}

// Panel renders terms for an asset tile.
func (t LicenseTerms) Panel(l Labels) *LicensePanel {
	panel := &LicensePanel{
		Commercial:   l.Allow(t.CommercialUse, l.NotAllowed),
		Derivatives:  l.Allow(t.DerivativesAllowed, l.NotAllowed),
		AITraining:   l.Allow(t.AITraining, l.NotAllowed),
		RevShare:     t.RevShareLabel(),
		Transferable: l.YesNo(t.Transferable),
	}
	if t.MaxLicenses != nil {
		panel.MaxLicenses = FormatNumber(float64(*t.MaxLicenses))
	}
	return panel
}

// RegisterResult is the data block of a successful POST /register.
type RegisterResult struct {
	IPID     string `json:"ipId"`
	Explorer string `json:"explorer"`
	TxHash   string `json:"txHash"`
	ImageURL string `json:"imageUrl,omitempty"`
}
