package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Event is a document in the events collection.
//
// CreatedBy holds the hex string of the owning user's _id and is immutable
// after insert. JoinedUsers holds user hex ids, each at most once; it is
// absent until the first join, as is UpdatedAt until the first update.
type Event struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Title         string             `bson:"title" json:"title"`
	Name          string             `bson:"name,omitempty" json:"name,omitempty"`
	DateTime      time.Time          `bson:"dateTime" json:"dateTime"`
	Location      string             `bson:"location,omitempty" json:"location,omitempty"`
	Description   string             `bson:"description,omitempty" json:"description,omitempty"`
	AttendeeCount int                `bson:"attendeeCount" json:"attendeeCount"`
	CreatedBy     string             `bson:"createdBy" json:"createdBy"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     *time.Time         `bson:"updatedAt,omitempty" json:"updatedAt,omitempty"`
	JoinedUsers   []string           `bson:"joinedUsers,omitempty" json:"joinedUsers,omitempty"`
}
