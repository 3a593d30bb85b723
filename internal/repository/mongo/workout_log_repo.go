// internal/repository/mongo/workout_log_repo.go
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fitmentor/coaching-app/internal/domain"
	"fitmentor/coaching-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const workoutLogCollectionName = "workout_logs"

// mongoWorkoutLogRepository implements repository.WorkoutLogRepository
type mongoWorkoutLogRepository struct {
	collection *mongo.Collection
}

// NewMongoWorkoutLogRepository creates a new WorkoutLog repository.
func NewMongoWorkoutLogRepository(db *mongo.Database) repository.WorkoutLogRepository {
	return &mongoWorkoutLogRepository{
		collection: db.Collection(workoutLogCollectionName),
	}
}

// keyFilter builds the document filter for one composite key.
func keyFilter(clientID primitive.ObjectID, key domain.LogKey) (bson.M, error) {
	exerciseID, err := primitive.ObjectIDFromHex(key.ExerciseID)
	if err != nil {
		return nil, fmt.Errorf("invalid exercise ID in log key: %w", err)
	}
	planID, err := primitive.ObjectIDFromHex(key.PlanID)
	if err != nil {
		return nil, fmt.Errorf("invalid plan ID in log key: %w", err)
	}
	return bson.M{
		"clientId":   clientID,
		"planId":     planID,
		"weekIndex":  key.WeekIndex,
		"dayNumber":  key.DayNumber,
		"exerciseId": exerciseID,
	}, nil
}

// GetForPlan loads every log document of a client for one plan and returns
// the sets as a map keyed by composite log key. Set arrays come back in
// stored order; reconciliation depends on that.
func (r *mongoWorkoutLogRepository) GetForPlan(ctx context.Context, clientID, planID primitive.ObjectID) (map[string][]domain.SetLog, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"clientId": clientID, "planId": planID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []domain.WorkoutLog
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}

	logs := make(map[string][]domain.SetLog, len(docs))
	for i := range docs {
		logs[docs[i].Key().String()] = docs[i].Sets
	}
	return logs, nil
}

// GetByKey retrieves the single log document for one composite key.
func (r *mongoWorkoutLogRepository) GetByKey(ctx context.Context, clientID primitive.ObjectID, key domain.LogKey) (*domain.WorkoutLog, error) {
	filter, err := keyFilter(clientID, key)
	if err != nil {
		return nil, err
	}
	var logDoc domain.WorkoutLog
	if err := r.collection.FindOne(ctx, filter).Decode(&logDoc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &logDoc, nil
}

// AppendSet pushes a set attempt onto the log for the given key, creating
// the document if this is the first attempt. $push preserves array order,
// which is what attributes planned vs extra sets downstream.
func (r *mongoWorkoutLogRepository) AppendSet(ctx context.Context, clientID primitive.ObjectID, key domain.LogKey, set domain.SetLog) error {
	filter, err := keyFilter(clientID, key)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	update := bson.M{
		"$push": bson.M{"sets": set},
		"$set":  bson.M{"updatedAt": now},
		"$setOnInsert": bson.M{
			"_id":       primitive.NewObjectID(),
			"createdAt": now,
		},
	}
	_, err = r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

// MarkSetDeleted soft-deletes one entry by array position. The entry stays
// in place so the surviving entries keep their order.
func (r *mongoWorkoutLogRepository) MarkSetDeleted(ctx context.Context, clientID primitive.ObjectID, key domain.LogKey, setIndex int) error {
	if setIndex < 0 {
		return errors.New("set index must not be negative")
	}
	filter, err := keyFilter(clientID, key)
	if err != nil {
		return err
	}
	// Guard against out-of-range indexes: the positional path only matches
	// documents whose array actually has that element.
	filter[fmt.Sprintf("sets.%d", setIndex)] = bson.M{"$exists": true}

	update := bson.M{
		"$set": bson.M{
			fmt.Sprintf("sets.%d.isDeleted", setIndex): true,
			"updatedAt": time.Now().UTC(),
		},
	}
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureWorkoutLogIndexes creates necessary indexes. Call during startup.
func EnsureWorkoutLogIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			// One document per composite key.
			Keys: bson.D{
				{Key: "clientId", Value: 1},
				{Key: "planId", Value: 1},
				{Key: "weekIndex", Value: 1},
				{Key: "dayNumber", Value: 1},
				{Key: "exerciseId", Value: 1},
			},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "clientId", Value: 1}, {Key: "planId", Value: 1}},
			Options: options.Index(),
		},
	}
	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		logIndexError(collection.Name(), err)
	}
}
