package domain

import "sort"

// DefaultRegistry is the table name used when no registry is given
const DefaultRegistry = "registry"

// RegistryCredential is the token record stored for one registry
type RegistryCredential struct {
	Token string `toml:"token"`
}

// CredentialFile maps registry name to its credential
type CredentialFile map[string]RegistryCredential

// Registries returns the registry names in sorted order
func (c CredentialFile) Registries() []string {
	names := make([]string, 0, len(c))
	for name := range c {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
