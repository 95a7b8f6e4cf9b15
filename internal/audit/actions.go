package audit

// Action codes recorded on audit entries. The human-readable description
// is what lands in the action column, mirroring the catalog the UI layer
// reads back.
const (
	ActionRegister           = "User registration"
	ActionLoginSuccess       = "Successful login"
	ActionLoginFailed        = "Failed login attempt"
	ActionLogout             = "User logout"
	ActionPasswordChange     = "Password changed"
	ActionProfileUpdate      = "Profile updated"
	ActionTransactionCreate  = "Transaction created"
	ActionBalanceInquiry     = "Balance inquiry"
	ActionValidationFailed   = "Input validation failed"
	ActionSuspiciousActivity = "Suspicious activity detected"
	ActionSessionTimeout     = "Session timeout"
	ActionAccountLocked      = "Account locked"
	ActionFileUpload         = "File uploaded"
)
