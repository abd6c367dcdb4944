package feedbackRepo

import (
	"context"
	"fmt"
	"time"

	"dormify/database"
	"dormify/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoFeedbackRepo implements FeedbackRepository using MongoDB.
type MongoFeedbackRepo struct {
	coll *mongo.Collection
}

// NewMongoFeedbackRepo creates a new FeedbackRepository using MongoDB.
func NewMongoFeedbackRepo() FeedbackRepository {
	repo := &MongoFeedbackRepo{coll: database.Collection("feedbacks")}
	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

func (r *MongoFeedbackRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "postedBy", Value: 1}, {Key: "createdAt", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create feedback indexes: %w", err)
	}
	return nil
}

// populate joins the posting student, its user, and the tenancy's room and
// building so listings can show where the feedback came from.
func populate() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$lookup", Value: bson.M{
			"from": "students", "localField": "postedBy",
			"foreignField": "_id", "as": "studentDoc",
		}}},
		{{Key: "$unwind", Value: bson.M{"path": "$studentDoc", "preserveNullAndEmptyArrays": true}}},
		{{Key: "$lookup", Value: bson.M{
			"from": "users", "localField": "studentDoc.user",
			"foreignField": "_id", "as": "studentUser",
		}}},
		{{Key: "$unwind", Value: bson.M{"path": "$studentUser", "preserveNullAndEmptyArrays": true}}},
		{{Key: "$addFields", Value: bson.M{"studentDoc.userDoc": "$studentUser"}}},
		{{Key: "$lookup", Value: bson.M{
			"from": "registrations", "localField": "studentDoc.registration",
			"foreignField": "_id", "as": "studentReg",
		}}},
		{{Key: "$unwind", Value: bson.M{"path": "$studentReg", "preserveNullAndEmptyArrays": true}}},
		{{Key: "$lookup", Value: bson.M{
			"from": "rooms", "localField": "studentReg.room",
			"foreignField": "_id", "as": "regRoom",
		}}},
		{{Key: "$unwind", Value: bson.M{"path": "$regRoom", "preserveNullAndEmptyArrays": true}}},
		{{Key: "$lookup", Value: bson.M{
			"from": "buildings", "localField": "regRoom.building",
			"foreignField": "_id", "as": "regBuilding",
		}}},
		{{Key: "$unwind", Value: bson.M{"path": "$regBuilding", "preserveNullAndEmptyArrays": true}}},
		{{Key: "$addFields", Value: bson.M{"studentReg.roomDoc": "$regRoom"}}},
		{{Key: "$addFields", Value: bson.M{"studentReg.roomDoc.buildingDoc": "$regBuilding"}}},
		{{Key: "$addFields", Value: bson.M{"studentDoc.registrationDoc": "$studentReg"}}},
		{{Key: "$project", Value: bson.M{
			"studentUser": 0, "studentReg": 0, "regRoom": 0, "regBuilding": 0,
		}}},
	}
}

func (r *MongoFeedbackRepo) aggregate(match bson.M, limit int64) ([]models.Feedback, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}}}},
	}
	if limit > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$limit", Value: limit}})
	}
	pipeline = append(pipeline, populate()...)

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve feedback: %w", err)
	}
	defer cursor.Close(ctx)

	var items []models.Feedback
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("failed to decode feedback: %w", err)
	}
	return items, nil
}

func (r *MongoFeedbackRepo) Create(fb *models.Feedback) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	now := time.Now()
	fb.CreatedAt = now
	fb.UpdatedAt = now
	fb.Student = nil

	res, err := r.coll.InsertOne(ctx, fb)
	if err != nil {
		return fmt.Errorf("failed to create feedback: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		fb.ID = oid
	}
	return nil
}

func (r *MongoFeedbackRepo) GetByID(id primitive.ObjectID) (*models.Feedback, error) {
	items, err := r.aggregate(bson.M{"_id": id}, 1)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}
	return &items[0], nil
}

func (r *MongoFeedbackRepo) GetAll() ([]models.Feedback, error) {
	return r.aggregate(bson.M{}, 0)
}

func (r *MongoFeedbackRepo) GetByStudent(studentID primitive.ObjectID) ([]models.Feedback, error) {
	return r.aggregate(bson.M{"postedBy": studentID}, 0)
}

func (r *MongoFeedbackRepo) Update(fb *models.Feedback) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	fb.UpdatedAt = time.Now()
	fb.Student = nil
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": fb.ID}, bson.M{"$set": fb})
	if err != nil {
		return fmt.Errorf("failed to update feedback %s: %w", fb.ID.Hex(), err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("feedback %s not found", fb.ID.Hex())
	}
	return nil
}

func (r *MongoFeedbackRepo) Delete(id primitive.ObjectID) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete feedback %s: %w", id.Hex(), err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("feedback %s not found", id.Hex())
	}
	return nil
}
