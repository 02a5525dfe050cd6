package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/fleetlog/duty-status/internal/core/domain"
	"github.com/fleetlog/duty-status/internal/core/ports"
)

const collectionOperators = "operators"

// operatorDoc is the stored shape of an operator. Keys match domain.Field
// names so partial updates can be built from a FieldSet directly.
type operatorDoc struct {
	TenantID           string    `bson:"tenant_id"`
	OperatorID         string    `bson:"operator_id"`
	Description        string    `bson:"description,omitempty"`
	ContactEmail       string    `bson:"contact_email,omitempty"`
	ContactPhone       string    `bson:"contact_phone,omitempty"`
	CardID             string    `bson:"card_id,omitempty"`
	ExternalServiceID  string    `bson:"external_service_id,omitempty"`
	BadgeID            string    `bson:"badge_id,omitempty"`
	LicenseType        string    `bson:"license_type,omitempty"`
	LicenseNumber      string    `bson:"license_number,omitempty"`
	LicenseExpiry      int64     `bson:"license_expiry"`
	DutyStatus         int       `bson:"duty_status"`
	DutyStatusTime     int64     `bson:"duty_status_time"`
	AssociatedDeviceID string    `bson:"associated_device_id,omitempty"`
	CreatedAt          time.Time `bson:"created_at"`
	UpdatedAt          time.Time `bson:"updated_at"`
}

func toDoc(o *domain.Operator) operatorDoc {
	return operatorDoc{
		TenantID:           o.TenantID,
		OperatorID:         o.OperatorID,
		Description:        o.Description,
		ContactEmail:       o.ContactEmail,
		ContactPhone:       o.ContactPhone,
		CardID:             o.CardID,
		ExternalServiceID:  o.ExternalServiceID,
		BadgeID:            o.BadgeID,
		LicenseType:        o.LicenseType,
		LicenseNumber:      o.LicenseNumber,
		LicenseExpiry:      int64(o.LicenseExpiry),
		DutyStatus:         int(o.DutyStatus),
		DutyStatusTime:     o.DutyStatusTime,
		AssociatedDeviceID: o.AssociatedDeviceID,
		CreatedAt:          o.CreatedAt.UTC(),
		UpdatedAt:          o.UpdatedAt.UTC(),
	}
}

func (d operatorDoc) toDomain() *domain.Operator {
	o := &domain.Operator{
		TenantID:           d.TenantID,
		OperatorID:         d.OperatorID,
		Description:        d.Description,
		ContactEmail:       d.ContactEmail,
		ContactPhone:       d.ContactPhone,
		CardID:             d.CardID,
		ExternalServiceID:  d.ExternalServiceID,
		BadgeID:            d.BadgeID,
		LicenseType:        d.LicenseType,
		LicenseNumber:      d.LicenseNumber,
		LicenseExpiry:      domain.DayNumber(d.LicenseExpiry),
		DutyStatus:         domain.DutyStatus(d.DutyStatus),
		DutyStatusTime:     d.DutyStatusTime,
		AssociatedDeviceID: d.AssociatedDeviceID,
		CreatedAt:          d.CreatedAt,
		UpdatedAt:          d.UpdatedAt,
	}
	o.Sanitize()
	return o
}

// OperatorStore implements ports.OperatorStore using MongoDB.
type OperatorStore struct {
	col *mongo.Collection
}

var _ ports.OperatorStore = (*OperatorStore)(nil)

func NewOperatorStore(db *mongo.Database) *OperatorStore {
	return &OperatorStore{col: db.Collection(collectionOperators)}
}

func keyFilter(key domain.OperatorKey) bson.M {
	return bson.M{"tenant_id": key.TenantID, "operator_id": key.OperatorID}
}

// Get retrieves an operator by its composite key.
func (s *OperatorStore) Get(ctx context.Context, key domain.OperatorKey) (*domain.Operator, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc operatorDoc
	err := s.col.FindOne(ctx, keyFilter(key)).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrOperatorNotFound
		}
		return nil, err
	}
	return doc.toDomain(), nil
}

// Create inserts a new operator document. The unique index on the key turns
// a second insert into domain.ErrOperatorExists.
func (s *OperatorStore) Create(ctx context.Context, op *domain.Operator) (domain.OperatorKey, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := s.col.InsertOne(ctx, toDoc(op)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.OperatorKey{}, domain.ErrOperatorExists
		}
		return domain.OperatorKey{}, err
	}
	return op.Key(), nil
}

// UpdatePartial sets only the given fields plus updated_at.
func (s *OperatorStore) UpdatePartial(ctx context.Context, key domain.OperatorKey, fields domain.FieldSet) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set := bson.M{"updated_at": time.Now().UTC()}
	for _, f := range fields.Fields() {
		set[string(f)] = bsonValue(fields[f])
	}

	res, err := s.col.UpdateOne(ctx, keyFilter(key), bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrOperatorNotFound
	}
	return nil
}

func bsonValue(v any) any {
	switch t := v.(type) {
	case domain.DutyStatus:
		return int(t)
	case domain.DayNumber:
		return int64(t)
	default:
		return v
	}
}

// QueryByField finds operators whose field matches any of the values.
func (s *OperatorStore) QueryByField(ctx context.Context, q ports.FieldQuery) ([]*domain.Operator, error) {
	if !q.Field.IsAlternateKey() {
		return nil, fmt.Errorf("query by %s: %w", q.Field, domain.ErrInvalidArgument)
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{string(q.Field): bson.M{"$in": q.Values}}
	if q.TenantID != "" {
		filter["tenant_id"] = q.TenantID
	}

	sort := bson.D{}
	for _, f := range q.OrderBy {
		sort = append(sort, bson.E{Key: string(f), Value: 1})
	}
	opts := options.Find().SetSort(sort)
	if q.Limit > 0 {
		opts.SetLimit(int64(q.Limit))
	}

	cur, err := s.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var docs []operatorDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]*domain.Operator, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

// ListOperatorIDs returns the operator IDs of a tenant ordered by ID.
func (s *OperatorStore) ListOperatorIDs(ctx context.Context, tenantID string, limit int) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().
		SetProjection(bson.M{"operator_id": 1}).
		SetSort(bson.D{{Key: "operator_id", Value: 1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cur, err := s.col.Find(ctx, bson.M{"tenant_id": tenantID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rows []struct {
		OperatorID string `bson:"operator_id"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.OperatorID)
	}
	return ids, nil
}

// Ping reports whether the primary is reachable.
func (s *OperatorStore) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()
	return s.col.Database().Client().Ping(ctx, readpref.Primary())
}

// EnsureIndexes creates the unique key index and the alternate-key lookups.
func (s *OperatorStore) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "tenant_id", Value: 1}, {Key: "operator_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "contact_phone", Value: 1}}},
		{Keys: bson.D{{Key: "card_id", Value: 1}}},
		{Keys: bson.D{{Key: "external_service_id", Value: 1}}},
	}

	_, err := s.col.Indexes().CreateMany(ctx, indexes)
	return err
}
