package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/nptc-feedback/backend/internal/shared"
)

// StudentsCollection holds the imported roster.
const StudentsCollection = "students"

const queryTimeout = 10 * time.Second

// connectivityHint is the remediation string surfaced with transient store
// failures.
const connectivityHint = "Ensure the database cluster is reachable and the connection URI is correct."

// MongoStore implements Store against a hosted MongoDB cluster.
type MongoStore struct {
	db       *mongo.Database
	students *mongo.Collection
}

// NewMongoStore creates a MongoStore over an established database handle.
func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{
		db:       db,
		students: db.Collection(StudentsCollection),
	}
}

// FindStudent looks up one roster row by roll number.
func (s *MongoStore) FindStudent(ctx context.Context, rollNo string) (*shared.Student, error) {
	queryCtx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var student shared.Student
	err := s.students.FindOne(queryCtx, bson.M{"rollno": strings.ToUpper(rollNo)}).Decode(&student)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrStudentNotFound
		}
		return nil, classify(err, "Failed to look up student")
	}
	return &student, nil
}

// ListStudents returns the roster sorted ascending by roll number.
func (s *MongoStore) ListStudents(ctx context.Context) ([]shared.Student, error) {
	queryCtx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "rollno", Value: 1}})
	cursor, err := s.students.Find(queryCtx, bson.M{}, opts)
	if err != nil {
		return nil, classify(err, "Failed to load roster")
	}
	defer cursor.Close(queryCtx)

	students := []shared.Student{}
	if err := cursor.All(queryCtx, &students); err != nil {
		return nil, classify(err, "Failed to decode roster")
	}
	return students, nil
}

// MarkSubmitted flips the submitted flag for a roll number.
func (s *MongoStore) MarkSubmitted(ctx context.Context, rollNo string) error {
	queryCtx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := s.students.UpdateOne(queryCtx,
		bson.M{"rollno": strings.ToUpper(rollNo)},
		bson.M{"$set": bson.M{"has_submitted": true}},
	)
	if err != nil {
		return classify(err, "Failed to mark student as submitted")
	}
	return nil
}

// IncrementCounter adds one to a rating bucket and the running total in a
// single atomic update, so concurrent submissions cannot lose counts.
func (s *MongoStore) IncrementCounter(ctx context.Context, collection, questionCode, bucket string) error {
	queryCtx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	update := bson.M{
		"$inc": bson.M{bucket: 1, "total_count": 1},
		"$set": bson.M{"updated_at": primitive.NewDateTimeFromTime(time.Now())},
	}

	result, err := s.db.Collection(collection).UpdateOne(queryCtx, bson.M{"question_code": questionCode}, update)
	if err != nil {
		return classify(err, "Failed to increment question counter")
	}
	if result.MatchedCount == 0 {
		return shared.NewError(shared.KindPersistence, "No counter row for question code "+questionCode)
	}
	return nil
}

// CounterRow reads one counter row for the fallback path.
func (s *MongoStore) CounterRow(ctx context.Context, collection, questionCode string) (*shared.QuestionCounterRow, error) {
	queryCtx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var row shared.QuestionCounterRow
	err := s.db.Collection(collection).FindOne(queryCtx, bson.M{"question_code": questionCode}).Decode(&row)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, shared.NewError(shared.KindNotFound, "No counter row for question code "+questionCode)
		}
		return nil, classify(err, "Failed to read question counter")
	}
	return &row, nil
}

// ReplaceCounterRow writes the whole row back without any concurrency guard.
func (s *MongoStore) ReplaceCounterRow(ctx context.Context, collection string, row *shared.QuestionCounterRow) error {
	queryCtx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		shared.BucketVeryGood:     row.VeryGood,
		shared.BucketGood:         row.Good,
		shared.BucketAverage:      row.Average,
		shared.BucketBelowAverage: row.BelowAverage,
		"total_count":             row.TotalCount,
		"updated_at":              primitive.NewDateTimeFromTime(row.UpdatedAt),
	}}

	_, err := s.db.Collection(collection).UpdateOne(queryCtx, bson.M{"question_code": row.QuestionCode}, update)
	if err != nil {
		return classify(err, "Failed to write question counter")
	}
	return nil
}

// CounterRows returns all counter rows of one aggregate collection.
func (s *MongoStore) CounterRows(ctx context.Context, collection string) ([]shared.QuestionCounterRow, error) {
	queryCtx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "question_code", Value: 1}})
	cursor, err := s.db.Collection(collection).Find(queryCtx, bson.M{}, opts)
	if err != nil {
		return nil, classify(err, "Failed to load feedback")
	}
	defer cursor.Close(queryCtx)

	rows := []shared.QuestionCounterRow{}
	if err := cursor.All(queryCtx, &rows); err != nil {
		return nil, classify(err, "Failed to decode feedback")
	}
	return rows, nil
}

// classify wraps a driver error into the shared taxonomy. Connectivity and
// timeout failures become transient (retryable) errors carrying a
// remediation hint; everything else is a persistence failure.
func classify(err error, message string) error {
	if mongo.IsTimeout(err) || mongo.IsNetworkError(err) || errors.Is(err, context.DeadlineExceeded) {
		return shared.NewTransientError("Database connection failed.", connectivityHint, err)
	}
	return shared.WrapError(shared.KindPersistence, message, err)
}
