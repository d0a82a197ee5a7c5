// internal/handlers/navigation.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dravik/licensing-console/internal/middleware"
	"github.com/dravik/licensing-console/internal/services"
	"github.com/dravik/licensing-console/internal/wallet"
)

// Link is a navigation entry.
type Link struct {
	Label string `json:"label"`
	Path  string `json:"path"`
}

// Navigation is the header and sidebar shown around every page.
type Navigation struct {
	SignedIn bool   `json:"signedIn"`
	Wallet   string `json:"wallet,omitempty"`
	// WalletLabel is the abbreviated address shown in the header.
	WalletLabel string `json:"walletLabel,omitempty"`
	Header      []Link `json:"header"`
	Sidebar     []Link `json:"sidebar,omitempty"`
}

var sidebarLinks = []Link{
	{Label: "Dashboard", Path: "/"},
	{Label: "Register IP", Path: "/register"},
	{Label: "My Assets", Path: "/assets"},
	{Label: "IPFi Dashboard", Path: "/ipfi-dashboard"},
	{Label: "Marketplace", Path: "/marketplace"},
	{Label: "Add to Marketplace", Path: "/marketplace/add"},
	{Label: "My Licenses", Path: "/my-licenses"},
}

func navigation(c *gin.Context) Navigation {
	ws, ok := middleware.CurrentWorkspace(c)
	if !ok {
		return Navigation{
			Header: []Link{
				{Label: "Signup", Path: "/signup"},
				{Label: "Login", Path: middleware.LoginPath},
			},
		}
	}
	return Navigation{
		SignedIn:    true,
		Wallet:      ws.Session().Wallet(),
		WalletLabel: wallet.Short(ws.Session().Wallet()),
		Header: []Link{
			{Label: "Dashboard", Path: "/"},
			{Label: "Logout", Path: "/logout"},
		},
		Sidebar: sidebarLinks,
	}
}

// page wraps a page's view with the navigation.
func page(c *gin.Context, view interface{}) gin.H {
	return gin.H{
		"nav":  navigation(c),
		"page": view,
	}
}

// sessionWorkspace returns the workspace the session gate put on the
// request, redirecting to the login page when there is none.
func sessionWorkspace(c *gin.Context) (*services.Workspace, bool) {
	ws, ok := middleware.CurrentWorkspace(c)
	if !ok {
		c.Redirect(http.StatusFound, middleware.LoginPath)
		c.Abort()
	}
	return ws, ok
}
