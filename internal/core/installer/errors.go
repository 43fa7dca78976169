package installer

import "errors"

// Sentinel conditions surfaced per sub-operation in the report. Both mean
// "existing external content we cannot safely edit": the file on disk is
// always left byte-for-byte untouched when they are returned.
var (
	// ErrMalformedConfig marks a config file that does not parse as a JSON
	// object.
	ErrMalformedConfig = errors.New("malformed config")

	// ErrMalformedRuleFile marks a rule file with a broken or duplicated
	// marker pair.
	ErrMalformedRuleFile = errors.New("malformed rule file")
)
