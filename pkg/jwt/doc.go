// Package jwt implements RS256 JSON Web Tokens for the identity provider
// integration. The API normally runs validation-only with the provider's
// public key; signing is used by the dev token tool and in tests.
package jwt
