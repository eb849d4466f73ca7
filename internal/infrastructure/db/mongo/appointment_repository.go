package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/agendakit/crm-backend/internal/core/domain"
	"github.com/agendakit/crm-backend/internal/core/ports"
)

const appointmentsCollection = "appointments"

// AppointmentRepository persists appointments. Read paths attach a snapshot
// of the referenced client (name, email, phone) the way the API consumers
// expect; the stored document keeps only the client id.
type AppointmentRepository struct {
	coll    *mongo.Collection
	clients *mongo.Collection
}

func NewAppointmentRepository(db *mongo.Database) *AppointmentRepository {
	return &AppointmentRepository{
		coll:    db.Collection(appointmentsCollection),
		clients: db.Collection(clientsCollection),
	}
}

type appointmentDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	ClientID  primitive.ObjectID `bson:"client_id"`
	Service   string             `bson:"service"`
	Date      time.Time          `bson:"date"`
	StartTime string             `bson:"start_time"`
	EndTime   string             `bson:"end_time"`
	Status    string             `bson:"status"`
	Notes     string             `bson:"notes,omitempty"`
	CreatedBy primitive.ObjectID `bson:"created_by,omitempty"`
	CreatedAt time.Time          `bson:"created_at"`
}

func (d *appointmentDoc) toDomain() *domain.Appointment {
	appt := &domain.Appointment{
		ID:        d.ID.Hex(),
		ClientID:  d.ClientID.Hex(),
		Service:   d.Service,
		Date:      d.Date.UTC(),
		StartTime: d.StartTime,
		EndTime:   d.EndTime,
		Status:    domain.AppointmentStatus(d.Status),
		Notes:     d.Notes,
		CreatedAt: d.CreatedAt.UTC(),
	}
	if !d.CreatedBy.IsZero() {
		appt.CreatedBy = d.CreatedBy.Hex()
	}
	return appt
}

func (r *AppointmentRepository) Create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	clientOID, err := primitive.ObjectIDFromHex(appt.ClientID)
	if err != nil {
		return nil, &domain.CastError{Entity: "client"}
	}

	doc := appointmentDoc{
		ClientID:  clientOID,
		Service:   appt.Service,
		Date:      appt.Date.UTC(),
		StartTime: appt.StartTime,
		EndTime:   appt.EndTime,
		Status:    string(appt.Status),
		Notes:     appt.Notes,
		CreatedAt: time.Now().UTC(),
	}
	if appt.CreatedBy != "" {
		creatorOID, err := primitive.ObjectIDFromHex(appt.CreatedBy)
		if err != nil {
			return nil, &domain.CastError{Entity: "user"}
		}
		doc.CreatedBy = creatorOID
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert appointment: %w", err)
	}

	doc.ID = res.InsertedID.(primitive.ObjectID)
	created := doc.toDomain()
	r.attachClients(ctx, created)
	return created, nil
}

func (r *AppointmentRepository) FindByID(ctx context.Context, id string) (*domain.Appointment, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, &domain.CastError{Entity: "appointment"}
	}

	var doc appointmentDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, &domain.NotFoundError{Entity: "appointment"}
		}
		return nil, fmt.Errorf("find appointment: %w", err)
	}

	appt := doc.toDomain()
	r.attachClients(ctx, appt)
	return appt, nil
}

func (r *AppointmentRepository) FindAll(ctx context.Context) ([]*domain.Appointment, error) {
	return r.findMany(ctx, bson.M{})
}

func (r *AppointmentRepository) FindByClient(ctx context.Context, clientID string) ([]*domain.Appointment, error) {
	oid, err := primitive.ObjectIDFromHex(clientID)
	if err != nil {
		return nil, &domain.CastError{Entity: "client"}
	}
	return r.findMany(ctx, bson.M{"client_id": oid})
}

func (r *AppointmentRepository) FindByDateRange(ctx context.Context, from, to time.Time) ([]*domain.Appointment, error) {
	return r.findMany(ctx, bson.M{"date": bson.M{"$gte": from, "$lte": to}})
}

func (r *AppointmentRepository) findMany(ctx context.Context, filter bson.M) ([]*domain.Appointment, error) {
	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	defer cursor.Close(ctx)

	appts := make([]*domain.Appointment, 0)
	for cursor.Next(ctx) {
		var doc appointmentDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode appointment: %w", err)
		}
		appts = append(appts, doc.toDomain())
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}

	r.attachClients(ctx, appts...)
	return appts, nil
}

func (r *AppointmentRepository) Update(ctx context.Context, id string, fields ports.UpdateAppointmentFields) (*domain.Appointment, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, &domain.CastError{Entity: "appointment"}
	}

	set := bson.M{}
	if fields.ClientID != nil {
		clientOID, err := primitive.ObjectIDFromHex(*fields.ClientID)
		if err != nil {
			return nil, &domain.CastError{Entity: "client"}
		}
		set["client_id"] = clientOID
	}
	if fields.Service != nil {
		set["service"] = *fields.Service
	}
	if fields.Date != nil {
		set["date"] = fields.Date.UTC()
	}
	if fields.StartTime != nil {
		set["start_time"] = *fields.StartTime
	}
	if fields.EndTime != nil {
		set["end_time"] = *fields.EndTime
	}
	if fields.Notes != nil {
		set["notes"] = *fields.Notes
	}
	if len(set) == 0 {
		return r.FindByID(ctx, id)
	}

	var doc appointmentDoc
	err = r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, afterUpdate()).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, &domain.NotFoundError{Entity: "appointment"}
		}
		return nil, fmt.Errorf("update appointment: %w", err)
	}

	appt := doc.toDomain()
	r.attachClients(ctx, appt)
	return appt, nil
}

func (r *AppointmentRepository) UpdateStatus(ctx context.Context, id string, status domain.AppointmentStatus) (*domain.Appointment, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, &domain.CastError{Entity: "appointment"}
	}

	var doc appointmentDoc
	err = r.coll.FindOneAndUpdate(
		ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"status": string(status)}},
		afterUpdate(),
	).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, &domain.NotFoundError{Entity: "appointment"}
		}
		return nil, fmt.Errorf("update appointment status: %w", err)
	}

	appt := doc.toDomain()
	r.attachClients(ctx, appt)
	return appt, nil
}

func (r *AppointmentRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return &domain.CastError{Entity: "appointment"}
	}

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete appointment: %w", err)
	}
	if res.DeletedCount == 0 {
		return &domain.NotFoundError{Entity: "appointment"}
	}
	return nil
}

// attachClients resolves the referenced clients in one $in query and fills
// the Client snapshot on each appointment. A dangling reference (client
// deleted after scheduling) just leaves the snapshot nil; the weak
// reference tolerates it.
func (r *AppointmentRepository) attachClients(ctx context.Context, appts ...*domain.Appointment) {
	if len(appts) == 0 {
		return
	}

	ids := make([]primitive.ObjectID, 0, len(appts))
	seen := make(map[string]struct{}, len(appts))
	for _, appt := range appts {
		if _, ok := seen[appt.ClientID]; ok {
			continue
		}
		seen[appt.ClientID] = struct{}{}
		if oid, err := primitive.ObjectIDFromHex(appt.ClientID); err == nil {
			ids = append(ids, oid)
		}
	}

	cursor, err := r.clients.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return
	}
	defer cursor.Close(ctx)

	byID := make(map[string]*domain.Client, len(ids))
	for cursor.Next(ctx) {
		var doc clientDoc
		if err := cursor.Decode(&doc); err != nil {
			continue
		}
		byID[doc.ID.Hex()] = doc.toDomain()
	}

	for _, appt := range appts {
		appt.Client = byID[appt.ClientID]
	}
}
