package enum

// ── Group A: Caller roles (carried in JWT claims) ──

const (
	RoleUser  = "USER"
	RoleAgent = "AGENT"
	RoleAdmin = "ADMIN"
)

// ── Group B: Configurable labels (no DB constraint) ──

const (
	PaymentMethodCash       = "CASH"
	PaymentMethodUPI        = "UPI"
	PaymentMethodCard       = "CARD"
	PaymentMethodNetBanking = "NETBANKING"
)

// IsPaymentMethod reports whether s is a known payment method label.
func IsPaymentMethod(s string) bool {
	switch s {
	case PaymentMethodCash, PaymentMethodUPI, PaymentMethodCard, PaymentMethodNetBanking:
		return true
	}
	return false
}

// IsRole reports whether s is a known caller role.
func IsRole(s string) bool {
	switch s {
	case RoleUser, RoleAgent, RoleAdmin:
		return true
	}
	return false
}
