// Package ledger is the balance-computation core: it turns a snapshot of
// expense and settlement records into per-member net balances, a netted
// pairwise debt graph, personal (1:1) running balances, and spend reports.
//
// Every function here is a pure computation over its inputs. The package
// performs no I/O, reads no ambient identity, and never mutates the records
// it is given; fetching, authorization, and persistence belong to the
// callers. Balances are always derived from history on read, never stored.
package ledger
