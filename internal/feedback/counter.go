package feedback

import (
	"context"
	"log"
)

// incrementResult reports how a single counter increment was applied.
type incrementResult int

const (
	// incrementFailed: neither path applied the increment. The answer's
	// count is lost; the submission continues regardless.
	incrementFailed incrementResult = iota
	// incrementApplied: the atomic path succeeded.
	incrementApplied
	// incrementDegraded: the atomic path errored and the read-modify-write
	// fallback was used instead.
	incrementDegraded
)

// incrementCounter applies one answer to a counter row. The atomic store
// update is preferred; when it errors the row is fetched, bumped locally,
// and written back unconditionally. The fallback loses updates under
// concurrent submissions to the same row; that race is an accepted property
// of the two-path design, not reconciled afterwards.
//
// Failures are logged and swallowed so one bad answer never aborts the rest
// of the batch.
func (s *Service) incrementCounter(ctx context.Context, collection, questionCode, bucket string) incrementResult {
	err := s.store.IncrementCounter(ctx, collection, questionCode, bucket)
	if err == nil {
		return incrementApplied
	}
	log.Printf("WARN: atomic increment failed for %s/%s, trying manual fallback: %v", collection, questionCode, err)

	row, err := s.store.CounterRow(ctx, collection, questionCode)
	if err != nil {
		log.Printf("WARN: could not increment counter for %s/%s: %v", collection, questionCode, err)
		return incrementFailed
	}

	if !row.Apply(bucket) {
		log.Printf("WARN: unknown rating bucket %q for %s/%s", bucket, collection, questionCode)
		return incrementFailed
	}

	if err := s.store.ReplaceCounterRow(ctx, collection, row); err != nil {
		log.Printf("WARN: could not increment counter for %s/%s: %v", collection, questionCode, err)
		return incrementFailed
	}

	return incrementDegraded
}
