package config

import "time"

// ClientTokenIssuer is the issuer stamped on browser identity tokens.
func ClientTokenIssuer() string {
	return GetEnv("CLIENT_TOKEN_ISSUER", "authform")
}

// ClientTokenExpiresIn bounds how long a browser keeps its identity, and with
// it the remembered email.
func ClientTokenExpiresIn() time.Duration {
	return MustParseDuration("CLIENT_TOKEN_EXPIRES_IN", "720h")
}

func ClientCookieName() string {
	return GetEnv("CLIENT_COOKIE_NAME", "authform_client")
}
