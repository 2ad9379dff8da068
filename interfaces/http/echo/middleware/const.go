package middleware

const (
	Authorization      = "Authorization"
	TokenKey           = "requestToken"
	RequestIdentityKey = "requestIdentity"
)
