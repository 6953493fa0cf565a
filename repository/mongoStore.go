package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"go-restaurant-reservation/database"
	"go-restaurant-reservation/helpers"
	"go-restaurant-reservation/models"
)

// MongoStore keeps reservations in the "reservation" collection and one
// slot-claim document per booked (date, slot, table) triple in "slotClaim".
// The unique compound index on the claim triple is the arbiter between
// concurrent commits: whichever transaction inserts its claims first wins,
// the loser aborts with a duplicate key error and nothing written.
type MongoStore struct {
	client       *mongo.Client
	reservations *mongo.Collection
	claims       *mongo.Collection
}

func NewMongoStore(client *mongo.Client) *MongoStore {
	return &MongoStore{
		client:       client,
		reservations: database.OpenCollection(client, "reservation"),
		claims:       database.OpenCollection(client, "slotClaim"),
	}
}

// EnsureIndexes creates the uniqueness constraint the booking commit relies
// on plus the lookup indexes. Must run before the server accepts traffic.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	unique := true
	_, err := s.claims.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "reservation_date", Value: 1},
			{Key: "time_slot", Value: 1},
			{Key: "table_number", Value: 1},
		},
		Options: &options.IndexOptions{Unique: &unique},
	})
	if err != nil {
		return err
	}
	_, err = s.reservations.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "reservation_id", Value: 1}},
		Options: &options.IndexOptions{Unique: &unique},
	})
	if err != nil {
		return err
	}
	_, err = s.reservations.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "reservation_date", Value: 1},
			{Key: "time_slot", Value: 1},
			{Key: "status", Value: 1},
		},
	})
	return err
}

func (s *MongoStore) Create(ctx context.Context, reservation *models.Reservation) error {
	session, err := s.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		claims := make([]interface{}, 0, len(reservation.Selected_tables))
		for _, table := range reservation.Selected_tables {
			claims = append(claims, models.SlotClaim{
				ID:               primitive.NewObjectID(),
				Reservation_id:   reservation.Reservation_id,
				Reservation_date: reservation.Reservation_date,
				Time_slot:        reservation.Time_slot,
				Table_number:     table,
			})
		}
		if _, err := s.claims.InsertMany(sc, claims); err != nil {
			return nil, err
		}
		if _, err := s.reservations.InsertOne(sc, reservation); err != nil {
			return nil, err
		}
		return nil, nil
	})
	if err == nil {
		return nil
	}
	if mongo.IsDuplicateKeyError(err) {
		claimed, lookupErr := s.ClaimedTables(ctx, reservation.Reservation_date, reservation.Time_slot)
		if lookupErr != nil {
			return &TablesUnavailableError{Tables: reservation.Selected_tables}
		}
		contested := helpers.IntersectTables(reservation.Selected_tables, claimed)
		if len(contested) == 0 {
			contested = reservation.Selected_tables
		}
		return &TablesUnavailableError{Tables: contested}
	}
	return err
}

func (s *MongoStore) FindByID(ctx context.Context, reservationID string) (*models.Reservation, error) {
	var reservation models.Reservation
	err := s.reservations.FindOne(ctx, bson.M{"reservation_id": reservationID}).Decode(&reservation)
	if err == mongo.ErrNoDocuments {
		return nil, ErrReservationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &reservation, nil
}

func (s *MongoStore) List(ctx context.Context, filter ReservationFilter) ([]models.Reservation, error) {
	query := bson.M{}
	if filter.Customer_email != "" {
		query["customer_email"] = filter.Customer_email
	}
	if filter.Reservation_date != "" {
		query["reservation_date"] = filter.Reservation_date
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := s.reservations.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	reservations := make([]models.Reservation, 0)
	if err := cursor.All(ctx, &reservations); err != nil {
		return nil, err
	}
	return reservations, nil
}

func (s *MongoStore) ClaimedTables(ctx context.Context, date string, timeSlot string) ([]int, error) {
	cursor, err := s.claims.Find(ctx, bson.M{
		"reservation_date": date,
		"time_slot":        timeSlot,
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var claims []models.SlotClaim
	if err := cursor.All(ctx, &claims); err != nil {
		return nil, err
	}
	tables := make([]int, 0, len(claims))
	for _, claim := range claims {
		tables = append(tables, claim.Table_number)
	}
	return tables, nil
}

func (s *MongoStore) UpdateStatus(ctx context.Context, reservationID string, target string, now time.Time) (*models.Reservation, error) {
	session, err := s.client.StartSession()
	if err != nil {
		return nil, err
	}
	defer session.EndSession(ctx)

	result, err := session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		var current models.Reservation
		err := s.reservations.FindOne(sc, bson.M{"reservation_id": reservationID}).Decode(&current)
		if err == mongo.ErrNoDocuments {
			return nil, ErrReservationNotFound
		}
		if err != nil {
			return nil, err
		}
		if current.Status != models.StatusConfirmed {
			return nil, &InvalidTransitionError{Current: current.Status}
		}

		after := options.After
		var updated models.Reservation
		err = s.reservations.FindOneAndUpdate(
			sc,
			bson.M{"reservation_id": reservationID, "status": models.StatusConfirmed},
			bson.D{{Key: "$set", Value: bson.D{
				{Key: "status", Value: target},
				{Key: "updated_at", Value: now},
			}}},
			&options.FindOneAndUpdateOptions{ReturnDocument: &after},
		).Decode(&updated)
		if err == mongo.ErrNoDocuments {
			// Lost a race against another transition on the same document.
			return nil, &InvalidTransitionError{Current: current.Status}
		}
		if err != nil {
			return nil, err
		}

		// A terminal reservation no longer constrains availability.
		if _, err := s.claims.DeleteMany(sc, bson.M{"reservation_id": reservationID}); err != nil {
			return nil, err
		}
		return &updated, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*models.Reservation), nil
}
