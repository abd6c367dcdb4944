package studentRepo

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

// MongoStudentRepo implements StudentRepository using MongoDB.
type MongoStudentRepo struct {
	coll *mongo.Collection
}

// NewMongoStudentRepo creates a new StudentRepository using MongoDB.
func NewMongoStudentRepo() StudentRepository {
	repo := &MongoStudentRepo{coll: database.Collection("students")}
	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

func isDupKey(err error) bool {
	return mongo.IsDuplicateKeyError(err)
}

func (r *MongoStudentRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		// One tenancy per registration, enforced at the database so two
		// concurrent approvals cannot both mint.
		{Keys: bson.D{{Key: "registration", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "user", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "endDate", Value: 1}}},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("failed to create student indexes: %w", err)
	}
	return nil
}

// populate joins the user and the registration with its room and building.
func populate() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$lookup", Value: bson.M{
			"from": "users", "localField": "user",
			"foreignField": "_id", "as": "userDoc",
		}}},
		{{Key: "$unwind", Value: bson.M{"path": "$userDoc", "preserveNullAndEmptyArrays": true}}},
		{{Key: "$lookup", Value: bson.M{
			"from": "registrations", "localField": "registration",
			"foreignField": "_id", "as": "registrationDoc",
		}}},
		{{Key: "$unwind", Value: bson.M{"path": "$registrationDoc", "preserveNullAndEmptyArrays": true}}},
		{{Key: "$lookup", Value: bson.M{
			"from": "rooms", "localField": "registrationDoc.room",
			"foreignField": "_id", "as": "regRoom",
		}}},
		{{Key: "$unwind", Value: bson.M{"path": "$regRoom", "preserveNullAndEmptyArrays": true}}},
		{{Key: "$lookup", Value: bson.M{
			"from": "buildings", "localField": "regRoom.building",
			"foreignField": "_id", "as": "regBuilding",
		}}},
		{{Key: "$unwind", Value: bson.M{"path": "$regBuilding", "preserveNullAndEmptyArrays": true}}},
		{{Key: "$addFields", Value: bson.M{"registrationDoc.roomDoc": "$regRoom"}}},
		{{Key: "$addFields", Value: bson.M{"registrationDoc.roomDoc.buildingDoc": "$regBuilding"}}},
		{{Key: "$project", Value: bson.M{"regRoom": 0, "regBuilding": 0}}},
	}
}

func (r *MongoStudentRepo) aggregate(match bson.M, limit int64) ([]models.Student, error) {
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
		return nil, fmt.Errorf("failed to retrieve students: %w", err)
	}
	defer cursor.Close(ctx)

	var students []models.Student
	if err := cursor.All(ctx, &students); err != nil {
		return nil, fmt.Errorf("failed to decode students: %w", err)
	}
	return students, nil
}

func (r *MongoStudentRepo) Create(s *models.Student) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	now := time.Now()
	s.CreatedAt = now
	s.UpdatedAt = now
	s.User = nil
	s.Registration = nil

	res, err := r.coll.InsertOne(ctx, s)
	if err != nil {
		if isDupKey(err) {
			return err
		}
		return fmt.Errorf("failed to create student: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		s.ID = oid
	}
	return nil
}

func (r *MongoStudentRepo) GetByID(id primitive.ObjectID) (*models.Student, error) {
	students, err := r.aggregate(bson.M{"_id": id}, 1)
	if err != nil {
		return nil, err
	}
	if len(students) == 0 {
		return nil, nil
	}
	return &students[0], nil
}

func (r *MongoStudentRepo) GetAll() ([]models.Student, error) {
	return r.aggregate(bson.M{}, 0)
}

func (r *MongoStudentRepo) GetByUser(userID primitive.ObjectID) ([]models.Student, error) {
	return r.aggregate(bson.M{"user": userID}, 0)
}

func (r *MongoStudentRepo) GetActiveByUser(userID primitive.ObjectID) (*models.Student, error) {
	students, err := r.aggregate(bson.M{"user": userID, "status": models.StudentStatusActive}, 1)
	if err != nil {
		return nil, err
	}
	if len(students) == 0 {
		return nil, nil
	}
	return &students[0], nil
}

func (r *MongoStudentRepo) GetByRegistration(regID primitive.ObjectID) (*models.Student, error) {
	students, err := r.aggregate(bson.M{"registration": regID}, 1)
	if err != nil {
		return nil, err
	}
	if len(students) == 0 {
		return nil, nil
	}
	return &students[0], nil
}

func (r *MongoStudentRepo) GetActiveByRooms(roomIDs []primitive.ObjectID) ([]models.Student, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"status": models.StudentStatusActive}}},
	}
	pipeline = append(pipeline, populate()...)
	pipeline = append(pipeline, bson.D{{Key: "$match", Value: bson.M{
		"registrationDoc.room": bson.M{"$in": roomIDs},
	}}})

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve students by rooms: %w", err)
	}
	defer cursor.Close(ctx)

	var students []models.Student
	if err := cursor.All(ctx, &students); err != nil {
		return nil, fmt.Errorf("failed to decode students: %w", err)
	}
	return students, nil
}

func (r *MongoStudentRepo) UpdateStatus(id primitive.ObjectID, status string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{"status": status, "updatedAt": time.Now()}}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to update student status: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("student %s not found", id.Hex())
	}
	return nil
}

func (r *MongoStudentRepo) ExtendEndDate(id primitive.ObjectID, endDate time.Time) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{"endDate": endDate, "updatedAt": time.Now()}}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to extend student end date: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("student %s not found", id.Hex())
	}
	return nil
}

func (r *MongoStudentRepo) FindExpiredActive(cutoff time.Time) ([]models.Student, error) {
	return r.aggregate(bson.M{
		"status":  models.StudentStatusActive,
		"endDate": bson.M{"$lte": cutoff},
	}, 0)
}

func (r *MongoStudentRepo) Delete(id primitive.ObjectID) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete student %s: %w", id.Hex(), err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("student %s not found", id.Hex())
	}
	return nil
}
