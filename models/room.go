package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Room statuses.
const (
	RoomStatusOpen    = "open"
	RoomStatusClosed  = "closed"
	RoomStatusDamaged = "damaged"
)

// Room genders mirror the building areas.
const (
	RoomGenderMale   = "male"
	RoomGenderFemale = "female"
)

// Room belongs to a Building; (BuildingID, Number) is unique.
type Room struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	BuildingID primitive.ObjectID `bson:"building" json:"buildingId"`
	Number     string             `bson:"room" json:"number"`
	Price      int64              `bson:"price" json:"price"`
	Gender     string             `bson:"gender" json:"gender"`
	Status     string             `bson:"status" json:"status"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt" json:"updatedAt"`

	// Populated on reads that join the building collection.
	Building *Building `bson:"buildingDoc,omitempty" json:"building,omitempty"`
}

// RoomOccupancy is a room decorated with its occupancy breakdown: active
// tenants plus registrations still in the pipeline count against capacity.
type RoomOccupancy struct {
	Room       `bson:",inline"`
	Rented     int `json:"rented"`
	Registered int `json:"registered"`
	Unpaid     int `json:"unpaid"`
	Empty      int `json:"empty"`
	Total      int `json:"total"`
}
