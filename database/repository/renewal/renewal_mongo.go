package renewalRepo

import (
	"context"
	"fmt"
	"time"

	"dormify/database"
	"dormify/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRenewalRepo implements RenewalRepository using MongoDB.
type MongoRenewalRepo struct {
	coll *mongo.Collection
}

// NewMongoRenewalRepo creates a new RenewalRepository using MongoDB.
func NewMongoRenewalRepo() RenewalRepository {
	repo := &MongoRenewalRepo{coll: database.Collection("renewals")}
	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

func (r *MongoRenewalRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "renewalRequestId", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "student", Value: 1}, {Key: "status", Value: 1}}},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("failed to create renewal indexes: %w", err)
	}
	return nil
}

// populate joins the student, its user, and the registration (with room and
// building) so admins see the full tenancy behind a renewal.
func populate() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$lookup", Value: bson.M{
			"from": "students", "localField": "student",
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

func (r *MongoRenewalRepo) aggregate(match bson.M, limit int64) ([]models.RenewalRequest, error) {
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
		return nil, fmt.Errorf("failed to retrieve renewals: %w", err)
	}
	defer cursor.Close(ctx)

	var reqs []models.RenewalRequest
	if err := cursor.All(ctx, &reqs); err != nil {
		return nil, fmt.Errorf("failed to decode renewals: %w", err)
	}
	return reqs, nil
}

func (r *MongoRenewalRepo) Create(req *models.RenewalRequest) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	now := time.Now()
	req.CreatedAt = now
	req.UpdatedAt = now
	req.Student = nil

	res, err := r.coll.InsertOne(ctx, req)
	if err != nil {
		return fmt.Errorf("failed to create renewal: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		req.ID = oid
	}
	return nil
}

func (r *MongoRenewalRepo) GetByID(id primitive.ObjectID) (*models.RenewalRequest, error) {
	reqs, err := r.aggregate(bson.M{"_id": id}, 1)
	if err != nil {
		return nil, err
	}
	if len(reqs) == 0 {
		return nil, nil
	}
	return &reqs[0], nil
}

func (r *MongoRenewalRepo) GetAll() ([]models.RenewalRequest, error) {
	return r.aggregate(bson.M{}, 0)
}

func (r *MongoRenewalRepo) GetByStudent(studentID primitive.ObjectID) ([]models.RenewalRequest, error) {
	return r.aggregate(bson.M{"student": studentID}, 0)
}

func (r *MongoRenewalRepo) GetByStatus(status string) ([]models.RenewalRequest, error) {
	return r.aggregate(bson.M{"status": status}, 0)
}

func (r *MongoRenewalRepo) HasOpenByStudent(studentID primitive.ObjectID, month, year int) (bool, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{
		"student": studentID,
		"month":   month,
		"year":    year,
		"status":  bson.M{"$in": []string{models.RenewalStatusUnpaid, models.RenewalStatusPending}},
	}
	count, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return false, fmt.Errorf("failed to count open renewals: %w", err)
	}
	return count > 0, nil
}

func (r *MongoRenewalRepo) CodeTaken(code string) (bool, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	count, err := r.coll.CountDocuments(ctx, bson.M{"renewalRequestId": code})
	if err != nil {
		return false, fmt.Errorf("failed to check renewal code: %w", err)
	}
	return count > 0, nil
}

func (r *MongoRenewalRepo) UpdateStatus(id primitive.ObjectID, status string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{"status": status, "updatedAt": time.Now()}}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to update renewal status: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("renewal %s not found", id.Hex())
	}
	return nil
}

func (r *MongoRenewalRepo) SetNotes(id primitive.ObjectID, notes string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{"notes": notes, "updatedAt": time.Now()}}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to update renewal notes: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("renewal %s not found", id.Hex())
	}
	return nil
}

func (r *MongoRenewalRepo) SetPaymentMethod(id primitive.ObjectID, method string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{"paymentMethod": method, "updatedAt": time.Now()}}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to update renewal payment method: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("renewal %s not found", id.Hex())
	}
	return nil
}

func (r *MongoRenewalRepo) TransitionStatus(id primitive.ObjectID, from, to string) (bool, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{"status": to, "updatedAt": time.Now()}}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id, "status": from}, update)
	if err != nil {
		return false, fmt.Errorf("failed to transition renewal status: %w", err)
	}
	return res.ModifiedCount > 0, nil
}

func (r *MongoRenewalRepo) Delete(id primitive.ObjectID) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete renewal %s: %w", id.Hex(), err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("renewal %s not found", id.Hex())
	}
	return nil
}
