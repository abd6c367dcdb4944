package buildingRepo

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

// MongoBuildingRepo implements BuildingRepository using MongoDB.
type MongoBuildingRepo struct {
	coll     *mongo.Collection
	students *mongo.Collection
}

// NewMongoBuildingRepo creates a new BuildingRepository using MongoDB.
func NewMongoBuildingRepo() BuildingRepository {
	repo := &MongoBuildingRepo{
		coll:     database.Collection("buildings"),
		students: database.Collection("students"),
	}
	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

func (r *MongoBuildingRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create building indexes: %w", err)
	}
	return nil
}

func (r *MongoBuildingRepo) Create(b *models.Building) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	now := time.Now()
	b.CreatedAt = now
	b.UpdatedAt = now

	res, err := r.coll.InsertOne(ctx, b)
	if err != nil {
		return fmt.Errorf("failed to create building: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		b.ID = oid
	}
	return nil
}

func (r *MongoBuildingRepo) Update(b *models.Building) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	b.UpdatedAt = time.Now()
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": b.ID}, bson.M{"$set": b})
	if err != nil {
		return fmt.Errorf("failed to update building %s: %w", b.ID.Hex(), err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("building %s not found", b.ID.Hex())
	}
	return nil
}

func (r *MongoBuildingRepo) Delete(id primitive.ObjectID) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete building %s: %w", id.Hex(), err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("building %s not found", id.Hex())
	}
	return nil
}

func (r *MongoBuildingRepo) GetByID(id primitive.ObjectID) (*models.Building, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var b models.Building
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&b); err != nil {
		return nil, fmt.Errorf("failed to fetch building %s: %w", id.Hex(), err)
	}
	return &b, nil
}

func (r *MongoBuildingRepo) GetAll() ([]models.Building, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve buildings: %w", err)
	}
	defer cursor.Close(ctx)

	var buildings []models.Building
	if err := cursor.All(ctx, &buildings); err != nil {
		return nil, fmt.Errorf("failed to decode buildings: %w", err)
	}
	return buildings, nil
}

func (r *MongoBuildingRepo) NameTaken(name string, excludeID primitive.ObjectID) (bool, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{"name": name}
	if !excludeID.IsZero() {
		filter["_id"] = bson.M{"$ne": excludeID}
	}
	count, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return false, fmt.Errorf("failed to check building name: %w", err)
	}
	return count > 0, nil
}

// ActiveStudentCounts aggregates active students through their registration's
// room into building buckets.
func (r *MongoBuildingRepo) ActiveStudentCounts() (map[primitive.ObjectID]int, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"status": models.StudentStatusActive}}},
		{{Key: "$lookup", Value: bson.M{
			"from": "registrations", "localField": "registration",
			"foreignField": "_id", "as": "reg",
		}}},
		{{Key: "$unwind", Value: "$reg"}},
		{{Key: "$lookup", Value: bson.M{
			"from": "rooms", "localField": "reg.room",
			"foreignField": "_id", "as": "room",
		}}},
		{{Key: "$unwind", Value: "$room"}},
		{{Key: "$group", Value: bson.M{
			"_id": "$room.building", "count": bson.M{"$sum": 1},
		}}},
	}

	cursor, err := r.students.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate student counts: %w", err)
	}
	defer cursor.Close(ctx)

	counts := make(map[primitive.ObjectID]int)
	for cursor.Next(ctx) {
		var row struct {
			ID    primitive.ObjectID `bson:"_id"`
			Count int                `bson:"count"`
		}
		if err := cursor.Decode(&row); err != nil {
			return nil, fmt.Errorf("failed to decode student count row: %w", err)
		}
		counts[row.ID] = row.Count
	}
	return counts, cursor.Err()
}
