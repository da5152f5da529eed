package store

import (
	"context"
	"errors"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/PranayChowdhury00/event-management-task-ph-Backend/models"
)

// EventUpdate is a partial update of an event. Nil fields are left untouched;
// createdBy can never be changed through it.
type EventUpdate struct {
	Title         *string
	Name          *string
	DateTime      *time.Time
	Location      *string
	Description   *string
	AttendeeCount *int
}

// EventFilter selects events by optional title substring and dateTime range.
// Until is an exclusive upper bound.
type EventFilter struct {
	Title string
	From  *time.Time
	Until *time.Time
}

// Events provides access to the events collection.
type Events struct {
	col *mongo.Collection
}

func NewEvents(db *mongo.Database) *Events {
	return &Events{col: db.Collection("events")}
}

// Insert stores a new event and returns the inserted id as a hex string.
func (s *Events) Insert(ctx context.Context, event *models.Event) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if event.ID.IsZero() {
		event.ID = primitive.NewObjectID()
	}
	res, err := s.col.InsertOne(ctx, event)
	if err != nil {
		return "", err
	}
	return res.InsertedID.(primitive.ObjectID).Hex(), nil
}

// All returns every event sorted by dateTime descending.
func (s *Events) All(ctx context.Context) ([]models.Event, error) {
	return s.find(ctx, bson.M{}, -1)
}

// ByCreator returns the events created by the given user, dateTime descending.
func (s *Events) ByCreator(ctx context.Context, creator string) ([]models.Event, error) {
	return s.find(ctx, bson.M{"createdBy": creator}, -1)
}

// Filter returns matching events sorted by dateTime ascending.
func (s *Events) Filter(ctx context.Context, f EventFilter) ([]models.Event, error) {
	query := bson.M{}
	if f.Title != "" {
		query["title"] = primitive.Regex{Pattern: regexp.QuoteMeta(f.Title), Options: "i"}
	}
	dateRange := bson.M{}
	if f.From != nil {
		dateRange["$gte"] = *f.From
	}
	if f.Until != nil {
		dateRange["$lt"] = *f.Until
	}
	if len(dateRange) > 0 {
		query["dateTime"] = dateRange
	}
	return s.find(ctx, query, 1)
}

func (s *Events) find(ctx context.Context, query bson.M, sortDir int) ([]models.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "dateTime", Value: sortDir}})
	cursor, err := s.col.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	events := []models.Event{}
	if err := cursor.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// UpdateOwned applies a partial update to the event with the given id, but
// only when it is owned by owner. The filter carries the ownership check, so
// a missing event and a foreign event both come back as ErrNotFound. Returns
// the post-update document.
func (s *Events) UpdateOwned(ctx context.Context, id primitive.ObjectID, owner string, upd EventUpdate) (*models.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	set := bson.M{"updatedAt": time.Now().UTC()}
	if upd.Title != nil {
		set["title"] = *upd.Title
	}
	if upd.Name != nil {
		set["name"] = *upd.Name
	}
	if upd.DateTime != nil {
		set["dateTime"] = *upd.DateTime
	}
	if upd.Location != nil {
		set["location"] = *upd.Location
	}
	if upd.Description != nil {
		set["description"] = *upd.Description
	}
	if upd.AttendeeCount != nil {
		set["attendeeCount"] = *upd.AttendeeCount
	}

	filter := bson.M{"_id": id, "createdBy": owner}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.Event
	err := s.col.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteOwned removes the event with the given id when owned by owner, with
// the same ErrNotFound conflation as UpdateOwned.
func (s *Events) DeleteOwned(ctx context.Context, id primitive.ObjectID, owner string) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := s.col.DeleteOne(ctx, bson.M{"_id": id, "createdBy": owner})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Join adds userID to the event's joinedUsers set and bumps attendeeCount in
// one update, so the two mutations are atomic at the store level. The $ne
// guard keeps a user from joining twice even under concurrent requests.
func (s *Events) Join(ctx context.Context, id primitive.ObjectID, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	filter := bson.M{"_id": id, "joinedUsers": bson.M{"$ne": userID}}
	update := bson.M{
		"$inc":      bson.M{"attendeeCount": 1},
		"$addToSet": bson.M{"joinedUsers": userID},
	}
	res, err := s.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 1 {
		return nil
	}

	// Either the event is gone or the user is already in the set.
	n, err := s.col.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return ErrAlreadyJoined
}
