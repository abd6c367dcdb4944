package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Building area types.
const (
	BuildingAreaMale   = "male"
	BuildingAreaFemale = "female"
)

// Building is a dormitory block. PeoplePerRoom caps the occupancy of every
// room in the block.
type Building struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name          string             `bson:"name" json:"name"`
	Area          string             `bson:"area" json:"area"`
	Rooms         int                `bson:"rooms" json:"rooms"`
	PeoplePerRoom int                `bson:"peoplePerRoom" json:"peoplePerRoom"`
	DamagedRooms  int                `bson:"damagedRooms" json:"damagedRooms"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// BuildingWithStats decorates a building with its current tenant count.
type BuildingWithStats struct {
	Building       `bson:",inline"`
	RentedStudents int `bson:"rentedStudents" json:"rentedStudents"`
}
