package webhook

// Query parameters of the verification handshake.
const (
	QueryMode        = "hub.mode"
	QueryVerifyToken = "hub.verify_token"
	QueryChallenge   = "hub.challenge"
)
