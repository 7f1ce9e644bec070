// Package models defines the value types of the bill-splitting core.
//
// # Models
//
//   - Currency: entry of the fixed currency catalog (symbol, decimal places)
//   - PaymentDetails: IBAN or card destination for payments
//   - Participant: one person asked to pay a share
//   - BillSplit: the split being built; exactly one is live at a time
//   - PhoneContact: contact-book entry a participant can be created from
//   - HistoryItem: record of a finished, shared split
//
// # Design Principles
//
// 1. **Values, not references**: BillSplit and Participant are copied, never
// shared. Helpers named With* return a new value and leave the receiver alone,
// so a snapshot handed to a reader can never change underneath it.
//
// 2. **Decimal money**: amounts use shopspring/decimal. Binary floats are not
// used anywhere money is stored or computed.
//
// 3. **Closed enumerations**: PaymentType, ContactMethod, SplitMode and
// ShareChannel are typed string constants; Currency metadata is a lookup
// table keyed by CurrencyCode.
package models
