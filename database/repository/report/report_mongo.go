package reportRepo

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

// MongoReportRepo implements ReportRepository using MongoDB.
type MongoReportRepo struct {
	coll *mongo.Collection
}

// NewMongoReportRepo creates a new ReportRepository using MongoDB.
func NewMongoReportRepo() ReportRepository {
	repo := &MongoReportRepo{coll: database.Collection("reports")}
	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

func (r *MongoReportRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "reportId", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "student", Value: 1}, {Key: "createdAt", Value: -1}}},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("failed to create report indexes: %w", err)
	}
	return nil
}

// populate joins the filing student, its user, and the registration (with
// room and building) so the stats endpoint can group by building.
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

func (r *MongoReportRepo) aggregate(match bson.M, limit int64) ([]models.Report, error) {
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
		return nil, fmt.Errorf("failed to retrieve reports: %w", err)
	}
	defer cursor.Close(ctx)

	var reports []models.Report
	if err := cursor.All(ctx, &reports); err != nil {
		return nil, fmt.Errorf("failed to decode reports: %w", err)
	}
	return reports, nil
}

func (r *MongoReportRepo) Create(rep *models.Report) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	now := time.Now()
	rep.CreatedAt = now
	rep.UpdatedAt = now
	rep.Student = nil

	res, err := r.coll.InsertOne(ctx, rep)
	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		rep.ID = oid
	}
	return nil
}

func (r *MongoReportRepo) GetByID(id primitive.ObjectID) (*models.Report, error) {
	reports, err := r.aggregate(bson.M{"_id": id}, 1)
	if err != nil {
		return nil, err
	}
	if len(reports) == 0 {
		return nil, nil
	}
	return &reports[0], nil
}

func (r *MongoReportRepo) GetAll() ([]models.Report, error) {
	return r.aggregate(bson.M{}, 0)
}

func (r *MongoReportRepo) GetByStudent(studentID primitive.ObjectID) ([]models.Report, error) {
	return r.aggregate(bson.M{"student": studentID}, 0)
}

func (r *MongoReportRepo) CodeTaken(code string) (bool, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	count, err := r.coll.CountDocuments(ctx, bson.M{"reportId": code})
	if err != nil {
		return false, fmt.Errorf("failed to check report code: %w", err)
	}
	return count > 0, nil
}

func (r *MongoReportRepo) UpdateStatus(id primitive.ObjectID, status string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	set := bson.M{"status": status, "updatedAt": time.Now()}
	if status == models.ReportStatusProcessed {
		set["completedAt"] = time.Now()
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update report status: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("report %s not found", id.Hex())
	}
	return nil
}

func (r *MongoReportRepo) Delete(id primitive.ObjectID) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete report %s: %w", id.Hex(), err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("report %s not found", id.Hex())
	}
	return nil
}
