package roomRepo

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

// MongoRoomRepo implements RoomRepository using MongoDB.
type MongoRoomRepo struct {
	coll *mongo.Collection
}

// NewMongoRoomRepo creates a new RoomRepository using MongoDB.
func NewMongoRoomRepo() RoomRepository {
	repo := &MongoRoomRepo{coll: database.Collection("rooms")}
	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

func (r *MongoRoomRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "building", Value: 1}, {Key: "room", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create room indexes: %w", err)
	}
	return nil
}

// buildingLookup joins the owning building into roomDoc-style output.
func buildingLookup() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$lookup", Value: bson.M{
			"from": "buildings", "localField": "building",
			"foreignField": "_id", "as": "buildingDoc",
		}}},
		{{Key: "$unwind", Value: bson.M{"path": "$buildingDoc", "preserveNullAndEmptyArrays": true}}},
	}
}

func (r *MongoRoomRepo) Create(room *models.Room) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	now := time.Now()
	room.CreatedAt = now
	room.UpdatedAt = now
	room.Building = nil

	res, err := r.coll.InsertOne(ctx, room)
	if err != nil {
		return fmt.Errorf("failed to create room: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		room.ID = oid
	}
	return nil
}

func (r *MongoRoomRepo) Update(room *models.Room) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	room.UpdatedAt = time.Now()
	room.Building = nil
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": room.ID}, bson.M{"$set": room})
	if err != nil {
		return fmt.Errorf("failed to update room %s: %w", room.ID.Hex(), err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("room %s not found", room.ID.Hex())
	}
	return nil
}

func (r *MongoRoomRepo) Delete(id primitive.ObjectID) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete room %s: %w", id.Hex(), err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("room %s not found", id.Hex())
	}
	return nil
}

func (r *MongoRoomRepo) GetByID(id primitive.ObjectID) (*models.Room, error) {
	rooms, err := r.aggregate(bson.M{"_id": id}, nil)
	if err != nil {
		return nil, err
	}
	if len(rooms) == 0 {
		return nil, fmt.Errorf("room %s not found", id.Hex())
	}
	return &rooms[0], nil
}

func (r *MongoRoomRepo) GetAll() ([]models.Room, error) {
	return r.aggregate(bson.M{}, bson.D{{Key: "createdAt", Value: -1}})
}

func (r *MongoRoomRepo) GetByStatus(status string) ([]models.Room, error) {
	return r.aggregate(bson.M{"status": status}, bson.D{{Key: "createdAt", Value: -1}})
}

func (r *MongoRoomRepo) aggregate(match bson.M, sort bson.D) ([]models.Room, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	pipeline := mongo.Pipeline{{{Key: "$match", Value: match}}}
	if sort != nil {
		pipeline = append(pipeline, bson.D{{Key: "$sort", Value: sort}})
	}
	pipeline = append(pipeline, buildingLookup()...)

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve rooms: %w", err)
	}
	defer cursor.Close(ctx)

	var rooms []models.Room
	if err := cursor.All(ctx, &rooms); err != nil {
		return nil, fmt.Errorf("failed to decode rooms: %w", err)
	}
	return rooms, nil
}

func (r *MongoRoomRepo) NumberTaken(buildingID primitive.ObjectID, number string, excludeID primitive.ObjectID) (bool, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{"building": buildingID, "room": number}
	if !excludeID.IsZero() {
		filter["_id"] = bson.M{"$ne": excludeID}
	}
	count, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return false, fmt.Errorf("failed to check room number: %w", err)
	}
	return count > 0, nil
}
