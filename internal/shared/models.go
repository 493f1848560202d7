// ============================================================================
// internal/shared/models.go
// Shared data models for MongoDB documents and API payloads
// ============================================================================

package shared

import (
	"time"
)

// ============================================================================
// Roster Models
// ============================================================================

// Student is one row of the imported roster. Roll numbers are stored
// uppercased and act as the unique key. The roster is created by an external
// import (see cmd/seeder); this service only ever flips HasSubmitted.
type Student struct {
	RollNo       string `bson:"rollno" json:"rollNo"`
	Name         string `bson:"name" json:"name"`
	Department   string `bson:"department" json:"department"`
	HasSubmitted bool   `bson:"has_submitted" json:"hasSubmitted"`
}

// ============================================================================
// Aggregate Models
// ============================================================================

// Rating bucket column names. These match the aggregate collections exactly
// so the atomic increment can target a column by name.
const (
	BucketVeryGood     = "very_good_4"
	BucketGood         = "good_3"
	BucketAverage      = "average_2"
	BucketBelowAverage = "below_average_1"
)

// BucketForRating maps an ordinal rating (1..4) to its bucket column.
// Unknown ratings return ok=false; callers skip those answers.
func BucketForRating(rating int) (string, bool) {
	switch rating {
	case 4:
		return BucketVeryGood, true
	case 3:
		return BucketGood, true
	case 2:
		return BucketAverage, true
	case 1:
		return BucketBelowAverage, true
	default:
		return "", false
	}
}

// QuestionCounterRow is one row per (department, question code) holding the
// four rating buckets and a running total. TotalCount equals the sum of the
// buckets as long as increments are applied correctly; the manual fallback
// write path does not enforce this transactionally.
type QuestionCounterRow struct {
	QuestionCode string    `bson:"question_code" json:"question_code"`
	VeryGood     int64     `bson:"very_good_4" json:"very_good_4"`
	Good         int64     `bson:"good_3" json:"good_3"`
	Average      int64     `bson:"average_2" json:"average_2"`
	BelowAverage int64     `bson:"below_average_1" json:"below_average_1"`
	TotalCount   int64     `bson:"total_count" json:"total_count"`
	UpdatedAt    time.Time `bson:"updated_at" json:"updated_at"`
}

// Apply adds one response to the given bucket and the running total.
// Returns false if the bucket name is not one of the four known columns.
func (r *QuestionCounterRow) Apply(bucket string) bool {
	switch bucket {
	case BucketVeryGood:
		r.VeryGood++
	case BucketGood:
		r.Good++
	case BucketAverage:
		r.Average++
	case BucketBelowAverage:
		r.BelowAverage++
	default:
		return false
	}
	r.TotalCount++
	r.UpdatedAt = time.Now()
	return true
}

// BucketSum returns the sum of the four rating buckets.
func (r *QuestionCounterRow) BucketSum() int64 {
	return r.VeryGood + r.Good + r.Average + r.BelowAverage
}

// ============================================================================
// Submission Models
// ============================================================================

// Survey sections. Each maps to a one-letter question code prefix.
const (
	SectionFacilities     = "facilities"
	SectionParticipation  = "participation"
	SectionAccomplishment = "accomplishment"
)

// Answer is one rated question inside a submission. Answers are never
// persisted individually; only their aggregate effect on a
// QuestionCounterRow is retained.
type Answer struct {
	QuestionID int    `json:"questionId"`
	Section    string `json:"section"`
	Rating     int    `json:"rating"`
}

// ============================================================================
// Session Models
// ============================================================================

// User roles accepted by the login endpoint.
const (
	RoleStudent = "student"
	RoleAdmin   = "admin"
)

// User is the client-held session view returned by login. There is no
// server-side session record; the client keeps this object (and the signed
// token) for the duration of one browser session.
type User struct {
	Role         string `json:"role"`
	RollNo       string `json:"rollNo,omitempty"`
	Name         string `json:"name,omitempty"`
	Department   string `json:"department,omitempty"`
	Username     string `json:"username,omitempty"`
	HasSubmitted bool   `json:"hasSubmitted"`
}
