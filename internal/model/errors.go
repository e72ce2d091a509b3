// errors.go — Sentinel errors for driftlens.
//
// These are the expected failure modes that callers check with errors.Is().
// Every sentinel error is a specific, documented condition, not a catch-all,
// following the three-tier taxonomy of spec §7: domain absence, parse
// failure, and fatal.
package model

import "errors"

// Domain-absence signals. These are not logged above info level — a missing
// file or revision is an input to an analyzer, not a defect.
var (
	// ErrContentUnavailable names a path that does not exist at a given
	// revision. The fetchers in internal/fetch do not return it: they report
	// that case as Result.Missing with a nil error.
	ErrContentUnavailable = errors.New("content unavailable at revision")

	// ErrFetchCanceled names a fetch cut short by cancellation. Nothing in
	// driftlens returns it; internal/fetch uses its own fetch.ErrCanceled.
	ErrFetchCanceled = errors.New("fetch canceled")

	// ErrFetchTimeout names an expired per-fetch deadline. Nothing in
	// driftlens returns it; fetch.ErrCanceled covers deadlines as well.
	ErrFetchTimeout = errors.New("fetch deadline exceeded")
)

// Parse/validation failures. A file that fails to parse yields zero findings
// from that analyzer; other files are unaffected.
var (
	// ErrParseFailure names content that cannot be interpreted as the
	// expected artifact shape (invalid JSON/YAML, invalid OpenAPI document).
	// Analyzers do not return it: they log the failure and skip the file.
	ErrParseFailure = errors.New("parse failure")

	// ErrUnsupportedLanguage names a changed source file whose extension has
	// no registered grammar. The code analyzer does not return it; Parse
	// reports that case with ok=false.
	ErrUnsupportedLanguage = errors.New("unsupported language")
)

// Configuration errors.
var (
	// ErrConfigInvalid is returned when a .driftlens.yml fails to parse or
	// fails struct validation.
	ErrConfigInvalid = errors.New("config invalid")

	// ErrUnresolvedRuleToken names a user-defined correlation rule whose
	// source/target token resolves to no artifact IDs. The correlation
	// engine does not return it; such a rule simply matches no pair.
	ErrUnresolvedRuleToken = errors.New("rule token did not resolve to any artifact")

	// ErrUnknownStrategy names a config entry for a correlation strategy
	// that isn't registered. Nothing returns it: config loading does not
	// check strategy names, and the engine ignores entries it has no
	// strategy for.
	ErrUnknownStrategy = errors.New("unknown correlation strategy")
)

// Fatal errors. These propagate to the orchestrator and abort the run.
var (
	// ErrNoContentFetcher is returned when the orchestrator is invoked
	// without a ContentFetcher — nothing can be read, so nothing can be
	// analyzed.
	ErrNoContentFetcher = errors.New("no content fetcher configured")

	// ErrChangeSetUnreadable is returned when the change-set descriptor
	// itself cannot be enumerated (e.g. both revision handles are empty).
	ErrChangeSetUnreadable = errors.New("change set unreadable")
)
