package registrationRepo

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

// MongoRegistrationRepo implements RegistrationRepository using MongoDB.
type MongoRegistrationRepo struct {
	coll *mongo.Collection
}

// NewMongoRegistrationRepo creates a new RegistrationRepository using MongoDB.
func NewMongoRegistrationRepo() RegistrationRepository {
	repo := &MongoRegistrationRepo{coll: database.Collection("registrations")}
	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

func (r *MongoRegistrationRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "registrationCode", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "user", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "room", Value: 1}, {Key: "status", Value: 1}}},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("failed to create registration indexes: %w", err)
	}
	return nil
}

// populate joins room (with its building) and user into the registration.
func populate() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$lookup", Value: bson.M{
			"from": "rooms", "localField": "room",
			"foreignField": "_id", "as": "roomDoc",
		}}},
		{{Key: "$unwind", Value: bson.M{"path": "$roomDoc", "preserveNullAndEmptyArrays": true}}},
		{{Key: "$lookup", Value: bson.M{
			"from": "buildings", "localField": "roomDoc.building",
			"foreignField": "_id", "as": "roomBuilding",
		}}},
		{{Key: "$unwind", Value: bson.M{"path": "$roomBuilding", "preserveNullAndEmptyArrays": true}}},
		{{Key: "$addFields", Value: bson.M{"roomDoc.buildingDoc": "$roomBuilding"}}},
		{{Key: "$project", Value: bson.M{"roomBuilding": 0}}},
		{{Key: "$lookup", Value: bson.M{
			"from": "users", "localField": "user",
			"foreignField": "_id", "as": "userDoc",
		}}},
		{{Key: "$unwind", Value: bson.M{"path": "$userDoc", "preserveNullAndEmptyArrays": true}}},
	}
}

func (r *MongoRegistrationRepo) aggregate(match bson.M, limit int64) ([]models.Registration, error) {
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
		return nil, fmt.Errorf("failed to retrieve registrations: %w", err)
	}
	defer cursor.Close(ctx)

	var regs []models.Registration
	if err := cursor.All(ctx, &regs); err != nil {
		return nil, fmt.Errorf("failed to decode registrations: %w", err)
	}
	return regs, nil
}

func (r *MongoRegistrationRepo) Create(reg *models.Registration) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	now := time.Now()
	reg.CreatedAt = now
	reg.UpdatedAt = now
	reg.Room = nil
	reg.User = nil

	res, err := r.coll.InsertOne(ctx, reg)
	if err != nil {
		return fmt.Errorf("failed to create registration: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		reg.ID = oid
	}
	return nil
}

func (r *MongoRegistrationRepo) GetByID(id primitive.ObjectID) (*models.Registration, error) {
	regs, err := r.aggregate(bson.M{"_id": id}, 1)
	if err != nil {
		return nil, err
	}
	if len(regs) == 0 {
		return nil, nil
	}
	return &regs[0], nil
}

func (r *MongoRegistrationRepo) GetAll() ([]models.Registration, error) {
	return r.aggregate(bson.M{}, 0)
}

func (r *MongoRegistrationRepo) GetByUser(userID primitive.ObjectID) ([]models.Registration, error) {
	return r.aggregate(bson.M{"user": userID}, 0)
}

func (r *MongoRegistrationRepo) LatestByUser(userID primitive.ObjectID) (*models.Registration, error) {
	regs, err := r.aggregate(bson.M{"user": userID}, 1)
	if err != nil {
		return nil, err
	}
	if len(regs) == 0 {
		return nil, nil
	}
	return &regs[0], nil
}

func (r *MongoRegistrationRepo) HasAnyByUser(userID primitive.ObjectID) (bool, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	count, err := r.coll.CountDocuments(ctx, bson.M{"user": userID})
	if err != nil {
		return false, fmt.Errorf("failed to count registrations: %w", err)
	}
	return count > 0, nil
}

func (r *MongoRegistrationRepo) HasNonTerminalByUser(userID primitive.ObjectID) (bool, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{
		"user":   userID,
		"status": bson.M{"$in": []string{models.RegistrationStatusUnpaid, models.RegistrationStatusPending}},
	}
	count, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return false, fmt.Errorf("failed to count open registrations: %w", err)
	}
	return count > 0, nil
}

func (r *MongoRegistrationRepo) CountByRoomAndStatus(roomID primitive.ObjectID, status string) (int64, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	count, err := r.coll.CountDocuments(ctx, bson.M{"room": roomID, "status": status})
	if err != nil {
		return 0, fmt.Errorf("failed to count registrations for room: %w", err)
	}
	return count, nil
}

func (r *MongoRegistrationRepo) CodeTaken(code string) (bool, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	count, err := r.coll.CountDocuments(ctx, bson.M{"registrationCode": code})
	if err != nil {
		return false, fmt.Errorf("failed to check registration code: %w", err)
	}
	return count > 0, nil
}

func (r *MongoRegistrationRepo) Update(reg *models.Registration) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	reg.UpdatedAt = time.Now()
	reg.Room = nil
	reg.User = nil
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": reg.ID}, bson.M{"$set": reg})
	if err != nil {
		return fmt.Errorf("failed to update registration %s: %w", reg.ID.Hex(), err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("registration %s not found", reg.ID.Hex())
	}
	return nil
}

func (r *MongoRegistrationRepo) UpdateStatus(id primitive.ObjectID, status, detail string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	set := bson.M{"status": status, "updatedAt": time.Now()}
	if detail != "" {
		set["registerFormDetail"] = detail
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update registration status: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("registration %s not found", id.Hex())
	}
	return nil
}

// TransitionStatus applies the update only when the stored status matches
// `from`, so concurrent callbacks cannot double-apply a transition.
func (r *MongoRegistrationRepo) TransitionStatus(id primitive.ObjectID, from, to, detail string) (bool, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	set := bson.M{"status": to, "updatedAt": time.Now()}
	if detail != "" {
		set["registerFormDetail"] = detail
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id, "status": from}, bson.M{"$set": set})
	if err != nil {
		return false, fmt.Errorf("failed to transition registration status: %w", err)
	}
	return res.ModifiedCount > 0, nil
}

func (r *MongoRegistrationRepo) SetUser(id, userID primitive.ObjectID) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{"user": userID, "updatedAt": time.Now()}}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to set registration user: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("registration %s not found", id.Hex())
	}
	return nil
}

func (r *MongoRegistrationRepo) UpdateDetail(id primitive.ObjectID, detail string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{"registerFormDetail": detail, "updatedAt": time.Now()}}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to update registration detail: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("registration %s not found", id.Hex())
	}
	return nil
}

func (r *MongoRegistrationRepo) Delete(id primitive.ObjectID) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete registration %s: %w", id.Hex(), err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("registration %s not found", id.Hex())
	}
	return nil
}

func (r *MongoRegistrationRepo) FindExpiredUnpaid(cutoff time.Time) ([]models.Registration, error) {
	return r.aggregate(bson.M{
		"status":    models.RegistrationStatusUnpaid,
		"createdAt": bson.M{"$lte": cutoff},
	}, 0)
}
