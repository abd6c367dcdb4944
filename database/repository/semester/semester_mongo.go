package semesterRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dormify/database"
	"dormify/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoSemesterRepo implements SemesterRepository using MongoDB.
type MongoSemesterRepo struct {
	coll *mongo.Collection
}

// NewMongoSemesterRepo creates a new SemesterRepository using MongoDB.
func NewMongoSemesterRepo() SemesterRepository {
	return &MongoSemesterRepo{coll: database.Collection("semesters")}
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

func (r *MongoSemesterRepo) Create(s *models.Semester) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	now := time.Now()
	s.CreatedAt = now
	s.UpdatedAt = now

	res, err := r.coll.InsertOne(ctx, s)
	if err != nil {
		return fmt.Errorf("failed to create semester: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		s.ID = oid
	}
	return nil
}

func (r *MongoSemesterRepo) GetByID(id primitive.ObjectID) (*models.Semester, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var s models.Semester
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to fetch semester %s: %w", id.Hex(), err)
	}
	return &s, nil
}

func (r *MongoSemesterRepo) GetAll() ([]models.Semester, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "startDate", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve semesters: %w", err)
	}
	defer cursor.Close(ctx)

	var semesters []models.Semester
	if err := cursor.All(ctx, &semesters); err != nil {
		return nil, fmt.Errorf("failed to decode semesters: %w", err)
	}
	return semesters, nil
}

func (r *MongoSemesterRepo) GetCurrent() (*models.Semester, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	now := time.Now()
	filter := bson.M{
		"startDate": bson.M{"$lte": now},
		"endDate":   bson.M{"$gte": now},
	}
	var s models.Semester
	err := r.coll.FindOne(ctx, filter).Decode(&s)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch current semester: %w", err)
	}
	return &s, nil
}

func (r *MongoSemesterRepo) Update(s *models.Semester) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	s.UpdatedAt = time.Now()
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": s.ID}, bson.M{"$set": s})
	if err != nil {
		return fmt.Errorf("failed to update semester %s: %w", s.ID.Hex(), err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("semester %s not found", s.ID.Hex())
	}
	return nil
}

func (r *MongoSemesterRepo) Delete(id primitive.ObjectID) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete semester %s: %w", id.Hex(), err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("semester %s not found", id.Hex())
	}
	return nil
}
