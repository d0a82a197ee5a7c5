package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAmountDecodesNumbersAndStrings(t *testing.T) {
	cases := []struct {
		raw  string
		want Amount
	}{
		{raw: `12.5`, want: 12.5},
		{raw: `"7"`, want: 7},
		{raw: `" 3.25 "`, want: 3.25},
		{raw: `"abc"`, want: 0},
		{raw: `null`, want: 0},
	}
	for _, tc := range cases {
		var a Amount
		require.NoError(t, json.Unmarshal([]byte(tc.raw), &a), tc.raw)
		assert.Equal(t, tc.want, a, tc.raw)
	}

	var a Amount
	assert.Error(t, json.Unmarshal([]byte(`{}`), &a))
}

func TestParseAmount(t *testing.T) {
	assert.Equal(t, Amount(10), ParseAmount("10"))
	assert.Equal(t, Amount(0.5), ParseAmount(" 0.5"))
	assert.Equal(t, Amount(0), ParseAmount("ten"))
	assert.Equal(t, Amount(0), ParseAmount(""))
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "0.5", FormatNumber(0.5))
	assert.Equal(t, "12", FormatNumber(12))
	assert.Equal(t, "1.25", Amount(1.25).String())
}

func TestParseLicenseTerms(t *testing.T) {
	terms := ParseLicenseTerms(`{"title":"Alpha","commercialUse":true,"commercialRevShare":"15","maxLicenses":100,"expiration":"0"}`)
	assert.Equal(t, "Alpha", terms.Title)
	assert.True(t, terms.CommercialUse)
	assert.False(t, terms.DerivativesAllowed)
	require.NotNil(t, terms.CommercialRevShare)
	assert.Equal(t, "15%", terms.RevShareLabel())
	require.NotNil(t, terms.MaxLicenses)
	assert.Equal(t, int64(100), *terms.MaxLicenses)
	assert.True(t, terms.Perpetual())
	assert.Equal(t, "Lifetime", terms.ExpirationLabel(EnglishLabels))

	encoded := ParseLicenseTerms(`"{\"aiTraining\":true,\"expiration\":86400}"`)
	assert.True(t, encoded.AITraining)
	assert.Equal(t, "1970-01-02", encoded.ExpirationLabel(EnglishLabels))
	assert.Empty(t, encoded.RevShareLabel())

	assert.Equal(t, LicenseTerms{}, ParseLicenseTerms(`not json`))
	assert.Equal(t, LicenseTerms{}, ParseLicenseTerms(`[1,2]`))
}

func TestOwnedLicenseUnmarshal(t *testing.T) {
	var fromMeta OwnedLicense
	require.NoError(t, json.Unmarshal([]byte(`{"id":4,"ipId":"0xa","license_metadata":"{\"title\":\"Alpha\"}","terms":{"title":"ignored"},"purchasedOn":"2025-03-04 10:00:00"}`), &fromMeta))
	assert.Equal(t, int64(4), fromMeta.ID)
	assert.Equal(t, "Alpha", fromMeta.DisplayTitle(EnglishLabels))
	assert.Equal(t, "2025-03-04", fromMeta.PurchaseDate())

	var fromTerms OwnedLicense
	require.NoError(t, json.Unmarshal([]byte(`{"id":5,"terms":{"commercialUse":true},"purchasedOn":"yesterday"}`), &fromTerms))
	assert.True(t, fromTerms.Terms.CommercialUse)
	assert.Equal(t, "Licensed Asset", fromTerms.DisplayTitle(EnglishLabels))
	assert.Equal(t, "yesterday", fromTerms.PurchaseDate())

	var bad OwnedLicense
	assert.Error(t, json.Unmarshal([]byte(`"x"`), &bad))
}

func TestImageSources(t *testing.T) {
	terms := LicenseTerms{Image: "ipfs://img"}
	assert.Equal(t, "ipfs://img", terms.ImageSource())
	assert.Equal(t, "ipfs://img", terms.MediaSource())

	terms.ImageURL = "https://img"
	terms.MediaURL = "ipfs://song"
	assert.Equal(t, "https://img", terms.ImageSource())
	assert.Equal(t, "ipfs://song", terms.MediaSource())

	listing := Listing{Image: "plain", Terms: &LicenseTerms{ImageURL: "from-terms"}}
	assert.Equal(t, "from-terms", listing.DisplayImage())
	assert.Equal(t, "plain", Listing{Image: "plain"}.DisplayImage())
}

func TestGatewayURL(t *testing.T) {
	assert.Equal(t, "https://gw.example/ipfs/abc", GatewayURL("ipfs://abc", "https://gw.example/ipfs/"))
	assert.Equal(t, "ipfs://abc", GatewayURL("ipfs://abc", ""))
	assert.Equal(t, "https://x/y.png", GatewayURL("https://x/y.png", "https://gw.example/ipfs"))
}

func TestAssetCard(t *testing.T) {
	share := 10.0
	limit := int64(50)
	asset := Asset{
		IPID:     "0xa",
		Metadata: AssetMetadata{Title: "Alpha", Description: "d", CreatorWallet: "0xc"},
		License:  &LicenseTerms{CommercialUse: true, CommercialRevShare: &share, MaxLicenses: &limit},
	}

	card := asset.Card(EnglishLabels)
	assert.Equal(t, "Alpha", card.Title)
	assert.Equal(t, "0xc", card.Wallet)
	require.NotNil(t, card.License)
	assert.Equal(t, "Allowed", card.License.Commercial)
	assert.Equal(t, "Not Allowed", card.License.Derivatives)
	assert.Equal(t, "10%", card.License.RevShare)
	assert.Equal(t, "50", card.License.MaxLicenses)
	assert.Equal(t, "No", card.License.Transferable)

	asset.License = nil
	assert.Nil(t, asset.Card(EnglishLabels).License)
}

func TestIPFiRevenue(t *testing.T) {
	var asset IPFiAsset
	require.NoError(t, json.Unmarshal([]byte(`{"ipId":"0xa","creatorShares":"60","investors":[{"wallet":"0xi","shares":40}],"revenueEarned":{"WIP":"1.5","ETH":1}}`), &asset))

	assert.Equal(t, 2.5, asset.TotalRevenue())
	assert.Equal(t, []ShareSlice{{Name: "Creator", Value: 60}, {Name: "0xi", Value: 40}}, asset.Shares())
}
