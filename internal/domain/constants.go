package domain

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// Report lifecycle statuses. DRAFT is initial; PENDING and PROCESSING are
// transient during generation; GENERATED and FAILED end a generation attempt.
const (
	ReportStatusDraft      = "DRAFT"
	ReportStatusPending    = "PENDING"
	ReportStatusProcessing = "PROCESSING"
	ReportStatusGenerated  = "GENERATED"
	ReportStatusFailed     = "FAILED"
)

// Credit transaction kinds.
const (
	TxPurchase          = "PURCHASE"
	TxReportUsage       = "REPORT_USAGE"
	TxSubscriptionGrant = "SUBSCRIPTION_GRANT"
	TxRefund            = "REFUND"
	TxBonus             = "BONUS"
	TxAdminAdjustment   = "ADMIN_ADJUSTMENT"
)

const (
	PaymentStatusPending   = "PENDING"
	PaymentStatusCompleted = "COMPLETED"
	PaymentStatusFailed    = "FAILED"
	PaymentStatusRefunded  = "REFUNDED"
	PaymentStatusExpired   = "EXPIRED"
)

const (
	SubscriptionActive    = "ACTIVE"
	SubscriptionCancelled = "CANCELLED"
	SubscriptionExpired   = "EXPIRED"
)
