package ports

import "movecli/internal/domain"

// CredentialReader loads the credential file
type CredentialReader interface {
	Load() (domain.CredentialFile, error)
	Path() string
}

// CredentialWriter persists a registry token atomically
type CredentialWriter interface {
	Save(registry, token string) error
}

// CredentialStore is the composite interface
type CredentialStore interface {
	CredentialReader
	CredentialWriter
}
