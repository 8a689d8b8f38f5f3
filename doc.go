// Package carteira tracks a stock wallet from its transaction history.
// It is designed to be local-first and auditable: the ledger file is the
// single source of truth, and every figure is recomputed from it.
//
// The core functionalities include:
//   - Ledger Management: recording buy and sell transactions in a
//     chronological, human-readable JSONL file.
//   - Position Book: a fold engine that replays the ledger in order and
//     maintains, per ticker, the current share count and the
//     moving-average acquisition cost used for tax reporting.
//   - Import: converting broker CSV statements into ledger transactions.
//   - Online Sync: pushing the recorded trades to an investidor10.com.br
//     online wallet.
//
// This package serves as the foundational logic for the `carteira`
// command-line tool, ensuring that all operations are consistent and based
// on a single source of truth.
package carteira
