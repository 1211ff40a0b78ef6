package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the
// access token on inbound requests.
const AccessTokenHeaderName = "access_token"

// DefaultSecretLength is the length of one-time secrets issued at
// self-service registration.
const DefaultSecretLength = 16

// SecretAlphabet is the character set one-time secrets are drawn from.
const SecretAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*"
