// internal/repository/mongo/enrollment_repo.go
package mongo

import (
	"context"
	"errors"
	"time"

	"fitmentor/coaching-app/internal/domain"
	"fitmentor/coaching-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const enrollmentCollectionName = "enrollments"

// mongoEnrollmentRepository implements repository.EnrollmentRepository
type mongoEnrollmentRepository struct {
	collection *mongo.Collection
}

// NewMongoEnrollmentRepository creates a new Enrollment repository.
func NewMongoEnrollmentRepository(db *mongo.Database) repository.EnrollmentRepository {
	return &mongoEnrollmentRepository{
		collection: db.Collection(enrollmentCollectionName),
	}
}

// Create inserts a new enrollment.
func (r *mongoEnrollmentRepository) Create(ctx context.Context, enrollment *domain.Enrollment) (primitive.ObjectID, error) {
	if enrollment.ClientID == primitive.NilObjectID || enrollment.MentorID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("enrollment requires clientId and mentorId")
	}
	enrollment.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	enrollment.CreatedAt = now
	enrollment.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, enrollment)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted enrollment ID")
	}
	return insertedID, nil
}

// GetByID retrieves a single enrollment by its ID.
func (r *mongoEnrollmentRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Enrollment, error) {
	var enrollment domain.Enrollment
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&enrollment)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &enrollment, nil
}

func (r *mongoEnrollmentRepository) GetByMentorID(ctx context.Context, mentorID primitive.ObjectID) ([]domain.Enrollment, error) {
	return r.findAll(ctx, bson.M{"mentorId": mentorID})
}

func (r *mongoEnrollmentRepository) GetByClientID(ctx context.Context, clientID primitive.ObjectID) ([]domain.Enrollment, error) {
	return r.findAll(ctx, bson.M{"clientId": clientID})
}

func (r *mongoEnrollmentRepository) findAll(ctx context.Context, filter bson.M) ([]domain.Enrollment, error) {
	var enrollments []domain.Enrollment
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &enrollments); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return enrollments, nil
}

// Update rewrites the lifecycle fields of an enrollment.
func (r *mongoEnrollmentRepository) Update(ctx context.Context, enrollment *domain.Enrollment) error {
	if enrollment.ID == primitive.NilObjectID {
		return errors.New("enrollment ID is required for update")
	}

	updateDoc := bson.M{
		"$set": bson.M{
			"status":     enrollment.Status,
			"package":    enrollment.Package,
			"acceptedAt": enrollment.AcceptedAt,
			"endDate":    enrollment.EndDate,
			"paymentId":  enrollment.PaymentID,
			"updatedAt":  time.Now().UTC(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": enrollment.ID}, updateDoc)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// UpdateStatusIfCurrent writes a derived status using a compare-and-set
// filter on the stored status, so two readers that both derive a change
// cannot overwrite a state that moved on in between.
func (r *mongoEnrollmentRepository) UpdateStatusIfCurrent(ctx context.Context, id primitive.ObjectID, from, to domain.EnrollmentStatus) error {
	filter := bson.M{"_id": id, "status": from}
	update := bson.M{"$set": bson.M{"status": to, "updatedAt": time.Now().UTC()}}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		// The enrollment is gone or its status already changed; callers
		// treat a failed precondition as a lost race, not a missing row.
		return repository.ErrUpdateFailed
	}
	return nil
}

// EnsureEnrollmentIndexes creates necessary indexes. Call during startup.
func EnsureEnrollmentIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "mentorId", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "clientId", Value: 1}},
			Options: options.Index(),
		},
	}
	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		logIndexError(collection.Name(), err)
	}
}
