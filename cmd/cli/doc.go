// Package cli builds the gitcare command tree and wires layered configuration
// and structured logging into each subcommand.
package cli
