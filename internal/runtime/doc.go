// Package runtime holds the planning math behind a wellplan run: the liquid height model,
// the reservoir ledger that rolls draws over from well to well, and the consumable tracker.
package runtime
