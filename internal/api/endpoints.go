// internal/api/endpoints.go
package api

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"

	"github.com/dravik/licensing-console/internal/models"
)

// Login exchanges wallet and password for a bearer credential.
func (c *Client) Login(ctx context.Context, creds models.Credentials) (*models.AuthResult, error) {
	var out models.AuthResult
	if err := c.postJSON(ctx, "/login", "", creds, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Signup creates an account and returns its bearer credential.
func (c *Client) Signup(ctx context.Context, req models.Signup) (*models.AuthResult, error) {
	var out models.AuthResult
	if err := c.postJSON(ctx, "/signup", "", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Me returns the signed-in user's profile.
func (c *Client) Me(ctx context.Context, token string) (*models.User, error) {
	var out models.User
	if err := c.getJSON(ctx, "/me", token, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Assets lists the assets owned by the signed-in user.
func (c *Client) Assets(ctx context.Context, token string) ([]models.Asset, error) {
	var out struct {
		Assets []models.Asset `json:"assets"`
	}
	if err := c.getJSON(ctx, "/assets", token, &out); err != nil {
		return nil, err
	}
	return out.Assets, nil
}

// File is an attachment of a multipart registration.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// RegisterPayload is the multipart body of POST /register. Fields keep their
// order on the wire.
type RegisterPayload struct {
	Fields [][2]string
	Image  *File
	Media  *File
}

// Register posts a new asset as multipart form data.
func (c *Client) Register(ctx context.Context, token string, payload RegisterPayload) (*models.RegisterResult, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	for _, field := range payload.Fields {
		if err := mw.WriteField(field[0], field[1]); err != nil {
			return nil, fmt.Errorf("write field %s: %w", field[0], err)
		}
	}
	if err := writeFile(mw, "image", payload.Image); err != nil {
		return nil, err
	}
	if err := writeFile(mw, "media", payload.Media); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("close multipart: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/register", token, &body, mw.FormDataContentType())
	if err != nil {
		return nil, err
	}

	var out struct {
		Data models.RegisterResult `json:"data"`
	}
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

func writeFile(mw *multipart.Writer, field string, file *File) error {
	if file == nil {
		return nil
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, file.Name))
	contentType := file.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	header.Set("Content-Type", contentType)

	part, err := mw.CreatePart(header)
	if err != nil {
		return fmt.Errorf("create %s part: %w", field, err)
	}
	if _, err := part.Write(file.Data); err != nil {
		return fmt.Errorf("write %s part: %w", field, err)
	}
	return nil
}

// Listings returns the active marketplace listings. No credential needed.
func (c *Client) Listings(ctx context.Context) ([]models.Listing, error) {
	var out struct {
		Listings []models.Listing `json:"listings"`
	}
	if err := c.getJSON(ctx, "/market/listings", "", &out); err != nil {
		return nil, err
	}
	return out.Listings, nil
}

// ListLicense puts an asset's license up for sale.
func (c *Client) ListLicense(ctx context.Context, token string, req models.ListLicenseRequest) error {
	return c.postJSON(ctx, "/list-license", token, req, nil)
}

// BuyLicense settles a purchase against a broadcast payment transaction.
func (c *Client) BuyLicense(ctx context.Context, token string, req models.BuyLicenseRequest) (*models.Settlement, error) {
	var out models.Settlement
	if err := c.postJSON(ctx, "/buy-license", token, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ServerWallet returns the address that receives purchase payments.
func (c *Client) ServerWallet(ctx context.Context, token string) (string, error) {
	var out models.ServerWallet
	if err := c.getJSON(ctx, "/wallet/server", token, &out); err != nil {
		return "", err
	}
	return out.Wallet, nil
}

// IPFiAssets returns the revenue-sharing view of the user's assets.
func (c *Client) IPFiAssets(ctx context.Context, token string) ([]models.IPFiAsset, error) {
	var out struct {
		Assets []models.IPFiAsset `json:"assets"`
	}
	if err := c.getJSON(ctx, "/ipfi-assets", token, &out); err != nil {
		return nil, err
	}
	return out.Assets, nil
}

// Claim asks the backend to pay out accrued revenue for an asset. A refusal
// comes back as Success false with a nil error.
func (c *Client) Claim(ctx context.Context, token, ipID string) (*models.ClaimResult, error) {
	var out models.ClaimResult
	if err := c.postJSON(ctx, "/claim", token, models.ClaimRequest{IPID: ipID}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// MyLicenses lists the licenses the user has purchased.
func (c *Client) MyLicenses(ctx context.Context, token string) ([]models.OwnedLicense, error) {
	var out struct {
		Licenses []models.OwnedLicense `json:"licenses"`
	}
	if err := c.getJSON(ctx, "/my-licenses", token, &out); err != nil {
		return nil, err
	}
	return out.Licenses, nil
}
