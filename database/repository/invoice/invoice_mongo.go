package invoiceRepo

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

// MongoInvoiceRepo implements InvoiceRepository over one kind's collection.
type MongoInvoiceRepo struct {
	kind string
	coll *mongo.Collection
}

// NewMongoInvoiceRepo creates an InvoiceRepository for the utility kind
// (models.UtilityElectric or models.UtilityWater).
func NewMongoInvoiceRepo(kind string) InvoiceRepository {
	name := "electricInvoices"
	if kind == models.UtilityWater {
		name = "waterInvoices"
	}
	repo := &MongoInvoiceRepo{kind: kind, coll: database.Collection(name)}
	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

func (r *MongoInvoiceRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "invoiceId", Value: 1}}, Options: options.Index().SetUnique(true)},
		{
			Keys:    bson.D{{Key: "room", Value: 1}, {Key: "year", Value: 1}, {Key: "month", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("failed to create %s invoice indexes: %w", r.kind, err)
	}
	return nil
}

func (r *MongoInvoiceRepo) Kind() string { return r.kind }

// populate joins the room and its building into roomDoc.
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
	}
}

func (r *MongoInvoiceRepo) aggregate(match bson.M, limit int64) ([]models.UtilityInvoice, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$sort", Value: bson.D{{Key: "year", Value: -1}, {Key: "month", Value: -1}}}},
	}
	if limit > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$limit", Value: limit}})
	}
	pipeline = append(pipeline, populate()...)

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve %s invoices: %w", r.kind, err)
	}
	defer cursor.Close(ctx)

	var invoices []models.UtilityInvoice
	if err := cursor.All(ctx, &invoices); err != nil {
		return nil, fmt.Errorf("failed to decode %s invoices: %w", r.kind, err)
	}
	return invoices, nil
}

func (r *MongoInvoiceRepo) Create(inv *models.UtilityInvoice) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	now := time.Now()
	inv.CreatedAt = now
	inv.UpdatedAt = now
	inv.Room = nil

	res, err := r.coll.InsertOne(ctx, inv)
	if err != nil {
		return fmt.Errorf("failed to create %s invoice: %w", r.kind, err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		inv.ID = oid
	}
	return nil
}

func (r *MongoInvoiceRepo) GetByID(id primitive.ObjectID) (*models.UtilityInvoice, error) {
	invoices, err := r.aggregate(bson.M{"_id": id}, 1)
	if err != nil {
		return nil, err
	}
	if len(invoices) == 0 {
		return nil, nil
	}
	return &invoices[0], nil
}

func (r *MongoInvoiceRepo) GetAll() ([]models.UtilityInvoice, error) {
	return r.aggregate(bson.M{}, 0)
}

func (r *MongoInvoiceRepo) GetByRooms(roomIDs []primitive.ObjectID) ([]models.UtilityInvoice, error) {
	return r.aggregate(bson.M{"room": bson.M{"$in": roomIDs}}, 0)
}

func (r *MongoInvoiceRepo) ExistsForPeriod(roomID primitive.ObjectID, month, year int) (bool, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	count, err := r.coll.CountDocuments(ctx, bson.M{"room": roomID, "month": month, "year": year})
	if err != nil {
		return false, fmt.Errorf("failed to check %s invoice period: %w", r.kind, err)
	}
	return count > 0, nil
}

func (r *MongoInvoiceRepo) Update(inv *models.UtilityInvoice) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	inv.UpdatedAt = time.Now()
	inv.Room = nil
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": inv.ID}, bson.M{"$set": inv})
	if err != nil {
		return fmt.Errorf("failed to update %s invoice %s: %w", r.kind, inv.ID.Hex(), err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%s invoice %s not found", r.kind, inv.ID.Hex())
	}
	return nil
}

func (r *MongoInvoiceRepo) SetPayer(id, userID primitive.ObjectID) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{"payer": userID, "updatedAt": time.Now()}}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to set %s invoice payer: %w", r.kind, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%s invoice %s not found", r.kind, id.Hex())
	}
	return nil
}

// MarkPaidIfUnpaid is a conditional flip so a replayed gateway callback
// cannot pay an invoice twice.
func (r *MongoInvoiceRepo) MarkPaidIfUnpaid(id primitive.ObjectID) (bool, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{"_id": id, "status": models.InvoiceStatusUnpaid}
	update := bson.M{"$set": bson.M{"status": models.InvoiceStatusPaid, "updatedAt": time.Now()}}
	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to mark %s invoice paid: %w", r.kind, err)
	}
	return res.ModifiedCount > 0, nil
}

func (r *MongoInvoiceRepo) Delete(id primitive.ObjectID) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete %s invoice %s: %w", r.kind, id.Hex(), err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("%s invoice %s not found", r.kind, id.Hex())
	}
	return nil
}
