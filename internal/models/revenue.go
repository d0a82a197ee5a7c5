// internal/models/revenue.go
package models

import "sort"

// Investor is one (wallet, share) pair of an IPFi asset.
type Investor struct {
	Wallet string `json:"wallet"`
	Shares Amount `json:"shares"`
}

// IPFiAsset is a revenue-sharing view of an asset from GET /ipfi-assets.
type IPFiAsset struct {
	IPID     string `json:"ipId"`
	Metadata struct {
		Title string `json:"title"`
	} `json:"metadata"`
	CreatorShares Amount            `json:"creatorShares"`
	Investors     []Investor        `json:"investors"`
	RevenueEarned map[string]Amount `json:"revenueEarned"`
}

// TotalRevenue sums accrued revenue across every denomination.
func (a IPFiAsset) TotalRevenue() float64 {
	denoms := make([]string, 0, len(a.RevenueEarned))
	for denom := range a.RevenueEarned {
		denoms = append(denoms, denom)
	}
	sort.Strings(denoms)

	var total float64
	for _, denom := range denoms {
		total += a.RevenueEarned[denom].Float64()
	}
	return total
}

// ShareSlice is one segment of the ownership chart.
type ShareSlice struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// Shares lists the creator's share first, then each investor.
func (a IPFiAsset) Shares() []ShareSlice {
	slices := make([]ShareSlice, 0, len(a.Investors)+1)
	slices = append(slices, ShareSlice{Name: "Creator", Value: a.CreatorShares.Float64()})
	for _, inv := range a.Investors {
		slices = append(slices, ShareSlice{Name: inv.Wallet, Value: inv.Shares.Float64()})
	}
	return slices
}

// ClaimRequest is the body of POST /claim.
type ClaimRequest struct {
	IPID string `json:"ipId"`
}

// ClaimResult is the backend's answer to a claim; Success false is a
// business refusal described by Message, not a transport failure.
type ClaimResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
