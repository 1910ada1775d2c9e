// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Authentication
	KeyAuthRequired           = "auth.required"
	KeyAuthInvalidToken       = "auth.invalid_token"
	KeyAuthTokenExpired       = "auth.token_expired"
	KeyAuthInvalidCredentials = "auth.invalid_credentials"
	KeyAuthUserExists         = "auth.user_exists"
	KeyAuthLoginSuccess       = "auth.login_success"
	KeyAuthRegisterSuccess    = "auth.register_success"

	// User management
	KeyUserNotFound  = "user.not_found"
	KeyUserSuspended = "user.suspended"
	KeyUserUpdated   = "user.updated"

	// CinPlace products
	KeyProductCreated   = "product.created"
	KeyProductUpdated   = "product.updated"
	KeyProductDeleted   = "product.deleted"
	KeyProductNotFound  = "product.not_found"
	KeyProductPurchased = "product.purchased"

	// Negotiations
	KeyNegotiationCreated  = "negotiation.created"
	KeyNegotiationApproved = "negotiation.approved"
	KeyNegotiationRejected = "negotiation.rejected"
	KeyNegotiationNotFound = "negotiation.not_found"
	KeyNegotiationDecided  = "negotiation.already_decided"

	// Exchange
	KeyExchangeBuySuccess   = "exchange.buy_success"
	KeyExchangeSellQueued   = "exchange.sell_queued"
	KeyExchangePriceUpdated = "exchange.price_updated"
	KeySellOrderNotFound    = "sell_order.not_found"
	KeySellOrderCompleted   = "sell_order.already_completed"
	KeySellOrderAdvanced    = "sell_order.advanced"
	KeySellOrderRemoved     = "sell_order.removed"

	// Wallet
	KeyWalletSendSuccess       = "wallet.send_success"
	KeyWalletInsufficientFunds = "wallet.insufficient_funds"

	// CinBank
	KeyBankInvestSuccess = "bank.invest_success"
	KeyBankCardRequested = "bank.card_requested"
	KeyBankAssetNotFound = "bank_asset.not_found"

	// Companies
	KeyCompanyCreated  = "company.created"
	KeyCompanyApproved = "company.approved"
	KeyCompanyRejected = "company.rejected"
	KeyCompanyNotFound = "company.not_found"

	// Payments
	KeyPaymentSuccess  = "payment.success"
	KeyPaymentFailed   = "payment.failed"
	KeyPaymentRefunded = "payment.refunded"

	// Admin
	KeyAdminActionSuccess   = "admin.action_success"
	KeyAdminAccessDenied    = "admin.access_denied"
	KeyAdminSettingsUpdated = "admin.settings_updated"

	// Validation
	KeyValidationRequired = "validation.required"
	KeyValidationInvalid  = "validation.invalid"

	// File upload
	KeyFileUploadSuccess = "file.upload_success"
	KeyFileUploadFailed  = "file.upload_failed"
	KeyFileInvalidType   = "file.invalid_type"
	KeyFileTooLarge      = "file.too_large"
)
