// Package commands defines the billsplit CLI and wires dependencies for
// subcommands.
//
// Commands
//
//   - split        Split a bill and print every payment request
//   - validate     Check an IBAN, card, phone, email or amount
//   - currencies   List supported currencies
//   - history      List, show or delete recorded splits
//
// # Implementation
//
// The root command loads configuration and builds the dependency graph
// (state store, services, history database, share dispatcher) before any
// subcommand runs. Messages are "shared" by printing them to stdout; logs go
// to stderr.
package commands
