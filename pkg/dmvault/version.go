// Package dmvault exposes module-level metadata for the DM Vault CLI and
// libraries.
package dmvault

// Version is the semantic version of the module.
const Version = "0.1.0"
