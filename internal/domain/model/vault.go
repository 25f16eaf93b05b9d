package model

// Vault is the decrypted in-memory form of the backing store: the
// master-password validator plus every credential in insertion order.
type Vault struct {
	Validator   string
	Credentials []Credential
}
