// Seeder initializes the aggregate store: one zeroed counter row per
// (department, question code) pair, a unique index on roll numbers, and an
// optional roster import from a JSON file.
//
// Counter rows are upserted without touching existing counts, so the seeder
// is safe to re-run after adding a department or question.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/nptc-feedback/backend/internal/feedback"
	"github.com/nptc-feedback/backend/internal/shared"
	"github.com/nptc-feedback/backend/internal/store"
)

// rosterEntry is one student in the import file.
type rosterEntry struct {
	RollNo     string `json:"rollNo"`
	Name       string `json:"name"`
	Department string `json:"department"`
}

func main() {
	rosterPath := flag.String("roster", "", "path to a roster JSON file ([{rollNo,name,department}])")
	flag.Parse()

	log.Println("INFO: Starting feedback store seeder...")

	shared.LoadEnv("")
	mongoURI := shared.GetEnv("MONGO_URI", "")
	if mongoURI == "" {
		log.Fatal("FATAL: MONGO_URI environment variable is required")
	}
	mongoCfg := shared.DefaultMongoConfig(mongoURI, shared.GetEnv("MONGO_DB_NAME", "feedback_portal"))

	client, db, err := shared.ConnectMongoDB(mongoCfg)
	if err != nil {
		log.Fatalf("FATAL: %v", err)
	}
	defer shared.DisconnectMongoDB(client)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := ensureRollNoIndex(ctx, db); err != nil {
		log.Fatalf("FATAL: Failed to create roster index: %v", err)
	}

	departments := shared.NewDepartmentRegistry()
	codes := feedback.AllQuestionCodes()

	for _, deptCode := range departments.Codes() {
		collection, err := departments.Resolve(deptCode)
		if err != nil {
			log.Fatalf("FATAL: %v", err)
		}
		seeded, err := seedCounterRows(ctx, db.Collection(collection), codes)
		if err != nil {
			log.Fatalf("FATAL: Failed to seed %s: %v", collection, err)
		}
		log.Printf("INFO: %s (%s): %d counter rows created", deptCode, shared.DepartmentName(deptCode), seeded)
	}

	if *rosterPath != "" {
		imported, err := importRoster(ctx, db, *rosterPath)
		if err != nil {
			log.Fatalf("FATAL: Roster import failed: %v", err)
		}
		log.Printf("INFO: Roster import complete: %d students", imported)
	}

	log.Println("INFO: Seeding complete.")
}

// ensureRollNoIndex makes roll numbers the unique roster key.
func ensureRollNoIndex(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(store.StudentsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "rollno", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

// seedCounterRows upserts one zeroed row per question code. $setOnInsert
// leaves existing counts untouched.
func seedCounterRows(ctx context.Context, col *mongo.Collection, codes []string) (int, error) {
	created := 0
	for _, code := range codes {
		result, err := col.UpdateOne(ctx,
			bson.M{"question_code": code},
			bson.M{"$setOnInsert": bson.M{
				"question_code":           code,
				shared.BucketVeryGood:     0,
				shared.BucketGood:         0,
				shared.BucketAverage:      0,
				shared.BucketBelowAverage: 0,
				"total_count":             0,
				"updated_at":              time.Now(),
			}},
			options.Update().SetUpsert(true),
		)
		if err != nil {
			return created, err
		}
		if result.UpsertedCount > 0 {
			created++
		}
	}
	return created, nil
}

// importRoster loads students from a JSON file. Existing rows keep their
// submitted flag; only name and department are refreshed.
func importRoster(ctx context.Context, db *mongo.Database, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}

	var entries []rosterEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return 0, err
	}

	departments := shared.NewDepartmentRegistry()
	students := db.Collection(store.StudentsCollection)
	imported := 0

	for _, entry := range entries {
		rollUpper := strings.ToUpper(strings.TrimSpace(entry.RollNo))
		if rollUpper == "" {
			log.Printf("WARN: skipping roster entry with empty roll number (name=%q)", entry.Name)
			continue
		}

		department := strings.ToUpper(strings.TrimSpace(entry.Department))
		if department != "" {
			if _, err := departments.Resolve(department); err != nil {
				log.Printf("WARN: skipping %s: %v", rollUpper, err)
				continue
			}
		}

		_, err := students.UpdateOne(ctx,
			bson.M{"rollno": rollUpper},
			bson.M{
				"$set":         bson.M{"name": entry.Name, "department": department},
				"$setOnInsert": bson.M{"rollno": rollUpper, "has_submitted": false},
			},
			options.Update().SetUpsert(true),
		)
		if err != nil {
			return imported, err
		}
		imported++
	}

	return imported, nil
}
