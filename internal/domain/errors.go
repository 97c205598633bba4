package domain

import "errors"

// Sentinel errors for the pipeline's failure modes. Stages wrap these with
// fmt.Errorf("...: %w", ...) so callers classify failures with errors.Is.
// Every stage fails fast: a partially computed weekly statistic is worse
// than no publication.
var (
	ErrFetch          = errors.New("feed fetch failed")
	ErrParse          = errors.New("malformed feed record")
	ErrSchemaMismatch = errors.New("feed encodings out of step")
	ErrContentTooLong = errors.New("composed text exceeds length ceiling")
	ErrRender         = errors.New("image render failed")
	ErrPublish        = errors.New("publish failed")
)
