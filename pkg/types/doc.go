// Package types defines the campaign and character entities, their creation
// and patch request types, the validation helpers, and the error taxonomy for
// the DM Vault storage system.
package types
