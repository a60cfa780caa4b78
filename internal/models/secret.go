package models

// MinSecretLen is the minimum length for a new admin secret
const MinSecretLen = 8

// SecretUpdate is the request body for POST /setup
type SecretUpdate struct {
	CurrentSecret string `json:"currentSecret"`
	NewSecret     string `json:"newSecret"`
}
