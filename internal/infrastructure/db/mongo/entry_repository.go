package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/kazale/ponto-inteligente/internal/core/domain"
	"github.com/kazale/ponto-inteligente/internal/core/ports"
)

const collectionEntries = "entries"

var entrySortFields = map[string]string{
	"id":        "_id",
	"timestamp": "timestamp",
	"kind":      "kind",
}

// EntryRepository implements ports.EntryRepository using MongoDB.
type EntryRepository struct {
	db  *mongo.Database
	col *mongo.Collection
}

func NewEntryRepository(db *mongo.Database) *EntryRepository {
	return &EntryRepository{db: db, col: db.Collection(collectionEntries)}
}

type entryDoc struct {
	ID          int64     `bson:"_id"`
	Version     int64     `bson:"version"`
	EmployeeID  int64     `bson:"employee_id"`
	Timestamp   time.Time `bson:"timestamp"`
	Kind        string    `bson:"kind"`
	Description string    `bson:"description,omitempty"`
	Location    string    `bson:"location,omitempty"`
	CreatedAt   int64     `bson:"created_at"`
	UpdatedAt   int64     `bson:"updated_at"`
}

func (d *entryDoc) toDomain() *domain.TimeEntry {
	return &domain.TimeEntry{
		ID:          d.ID,
		Version:     d.Version,
		EmployeeID:  d.EmployeeID,
		Timestamp:   d.Timestamp.UTC(),
		Kind:        domain.EntryKind(d.Kind),
		Description: d.Description,
		Location:    d.Location,
		CreatedAt:   unixToTime(d.CreatedAt),
		UpdatedAt:   unixToTime(d.UpdatedAt),
	}
}

func (r *EntryRepository) FindByID(ctx context.Context, id int64) (*domain.TimeEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc entryDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrEntryNotFound
		}
		return nil, storeError("find entry", err)
	}
	return doc.toDomain(), nil
}

// Save inserts when e.ID is zero, taking the next value of the entries sequence,
// and overwrites the stored document otherwise. The version is bumped on the
// server in the same write, so concurrent saves get distinct versions.
func (r *EntryRepository) Save(ctx context.Context, e *domain.TimeEntry) (*domain.TimeEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := entryDoc{
		ID:          e.ID,
		EmployeeID:  e.EmployeeID,
		Timestamp:   e.Timestamp.UTC(),
		Kind:        string(e.Kind),
		Description: e.Description,
		Location:    e.Location,
		CreatedAt:   timeToUnix(e.CreatedAt),
		UpdatedAt:   timeToUnix(e.UpdatedAt),
	}
	if doc.ID == 0 {
		id, err := nextID(ctx, r.db, collectionEntries)
		if err != nil {
			return nil, err
		}
		doc.ID = id
	}

	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var saved entryDoc
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": doc.ID}, entryUpdate(&doc), opts).Decode(&saved); err != nil {
		return nil, storeError("save entry", err)
	}
	return saved.toDomain(), nil
}

// entryUpdate overwrites every field except the id and increments the version.
func entryUpdate(d *entryDoc) bson.M {
	set := bson.M{
		"employee_id": d.EmployeeID,
		"timestamp":   d.Timestamp,
		"kind":        d.Kind,
		"created_at":  d.CreatedAt,
		"updated_at":  d.UpdatedAt,
	}
	update := bson.M{"$set": set, "$inc": bson.M{"version": int64(1)}}

	var unset bson.M
	for field, v := range map[string]string{"description": d.Description, "location": d.Location} {
		if v != "" {
			set[field] = v
			continue
		}
		if unset == nil {
			unset = bson.M{}
		}
		unset[field] = ""
	}
	if unset != nil {
		update["$unset"] = unset
	}
	return update
}

// DeleteByID removes the entry; a missing id is not an error.
func (r *EntryRepository) DeleteByID(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return storeError("delete entry", err)
	}
	return nil
}

func (r *EntryRepository) FindByEmployee(ctx context.Context, req ports.EntryPageRequest) (*ports.Page[*domain.TimeEntry], error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	field, ok := entrySortFields[req.SortField]
	if !ok {
		field = "_id"
	}
	dir := 1
	if req.Descending {
		dir = -1
	}

	filter := bson.M{"employee_id": req.EmployeeID}
	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, storeError("count entries", err)
	}

	sort := bson.D{{Key: field, Value: dir}}
	if field != "_id" {
		sort = append(sort, bson.E{Key: "_id", Value: dir})
	}
	opts := options.Find().
		SetSort(sort).
		SetSkip(int64(req.Page) * int64(req.Size)).
		SetLimit(int64(req.Size))
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, storeError("find entries", err)
	}
	defer cur.Close(ctx)

	var docs []entryDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, storeError("decode entries", err)
	}

	items := make([]*domain.TimeEntry, 0, len(docs))
	for i := range docs {
		items = append(items, docs[i].toDomain())
	}
	return ports.NewPage(items, total, req.Page, req.Size), nil
}
