// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Common
	KeyRaw             = "raw"
	KeyFixErrors       = "common.fix_errors"
	KeyTooManyRequests = "common.too_many_requests"
	KeyInvalidRequest  = "common.invalid_request"
	KeyNotFound        = "common.not_found"
	KeyInternalError   = "common.internal_error"
	KeyLoadFailed      = "common.load_failed"

	// Authentication
	KeyAuthRequired       = "auth.required"
	KeyAuthEnterWallet    = "auth.enter_wallet_and_password"
	KeyAuthFillAllFields  = "auth.fill_all_fields"
	KeyAuthLoginFailed    = "auth.login_failed"
	KeyAuthSignupFailed   = "auth.signup_failed"
	KeyAuthSignupSuccess  = "auth.signup_success"
	KeyAuthLogoutSuccess  = "auth.logout_success"
	KeyAuthSessionExpired = "auth.session_expired"
	KeyAuthLoginSuccess   = "auth.login_success"

	// Registration
	KeyRegisterTitleRequired       = "register.title_required"
	KeyRegisterDescriptionRequired = "register.description_required"
	KeyRegisterCreatorRequired     = "register.creator_required"
	KeyRegisterInvalidWallet       = "register.invalid_wallet"
	KeyRegisterRoyaltyNegative     = "register.royalty_negative"
	KeyRegisterMinLicenses         = "register.min_licenses"
	KeyRegisterTemplateRequired    = "register.template_required"
	KeyRegisterUnknownTemplate     = "register.unknown_template"
	KeyRegisterSuccess             = "register.success"
	KeyRegisterFailed              = "register.failed"
	KeyRegisterInvalidFile         = "register.invalid_file"
	KeyRegisterSubmitting          = "register.submitting"

	// Listing
	KeyListingInvalidPrice = "listing.invalid_price"
	KeyListingSuccess      = "listing.success"
	KeyListingFailed       = "listing.failed"
	KeyListingAlready      = "listing.already_listed"
	KeyListingAction       = "listing.action"
	KeyListingLoadFailed   = "listing.load_failed"

	// Purchase
	KeyPurchaseNoServerWallet   = "purchase.no_server_wallet"
	KeyPurchaseSwitchNetwork    = "purchase.switch_network"
	KeyPurchaseSuccess          = "purchase.success"
	KeyPurchaseFailed           = "purchase.failed"
	KeyPurchaseInvalidPrice     = "purchase.invalid_price"
	KeyPurchaseInProgress       = "purchase.in_progress"
	KeyPurchaseRejected         = "purchase.rejected"
	KeyPurchaseUnknownListing   = "purchase.unknown_listing"
	KeyPurchaseInvalidListingID = "purchase.invalid_listing_id"

	// Revenue
	KeyClaimNothing = "claim.nothing"
	KeyClaimSuccess = "claim.success"
	KeyClaimFailed  = "claim.failed"
	KeyClaimError   = "claim.error"
	KeyClaimBusy    = "claim.in_progress"
	KeyClaimUnknown = "claim.unknown_asset"

	// Display
	KeyLicensedAsset = "display.licensed_asset"
	KeyLifetime      = "display.lifetime"
	KeyAllowed       = "display.allowed"
	KeyNotAllowed    = "display.not_allowed"
	KeyNo            = "display.no"
	KeyYes           = "display.yes"
)
