package docstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore keeps every document in a single collection. The _id is the
// full document path; "collection" and "group" columns serve the collection
// and collection-group scans; the document's own fields live nested under
// "fields".
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

type mongoRow struct {
	ID         string         `bson:"_id"`
	Collection string         `bson:"collection"`
	Group      string         `bson:"group"`
	Fields     map[string]any `bson:"fields"`
}

func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}

	return &MongoStore{
		client: client,
		coll:   client.Database(database).Collection("documents"),
	}, nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *MongoStore) Get(ctx context.Context, path string) (*Document, error) {
	if err := ValidateDocPath(path); err != nil {
		return nil, err
	}

	var row mongoRow
	err := s.coll.FindOne(ctx, bson.M{"_id": path}).Decode(&row)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &Document{Path: path, Fields: normalizeFields(row.Fields)}, nil
}

func (s *MongoStore) Set(ctx context.Context, path string, fields Fields, opts ...SetOption) error {
	if err := ValidateDocPath(path); err != nil {
		return err
	}

	var o setOptions
	for _, opt := range opts {
		opt(&o)
	}

	if !o.merge {
		row := mongoRow{
			ID:         path,
			Collection: CollectionOf(path),
			Group:      GroupOf(path),
			Fields:     applyTransforms(Fields{}, fields),
		}
		_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": path}, row, options.Replace().SetUpsert(true))
		return err
	}

	update := fieldsToUpdate(fields)
	update["$setOnInsert"] = bson.M{"collection": CollectionOf(path), "group": GroupOf(path)}
	_, err := s.coll.UpdateOne(ctx, bson.M{"_id": path}, update, options.Update().SetUpsert(true))
	return err
}

func (s *MongoStore) Update(ctx context.Context, path string, fields Fields) error {
	if err := ValidateDocPath(path); err != nil {
		return err
	}

	res, err := s.coll.UpdateOne(ctx, bson.M{"_id": path}, fieldsToUpdate(fields))
	if err != nil {
		return err
	}

	if res.MatchedCount == 0 {
		return ErrNotFound
	}

	return nil
}

func (s *MongoStore) Delete(ctx context.Context, path string) error {
	if err := ValidateDocPath(path); err != nil {
		return err
	}

	_, err := s.coll.DeleteOne(ctx, bson.M{"_id": path})
	return err
}

func (s *MongoStore) RunTransaction(ctx context.Context, fn func(ctx context.Context, tx Handle) error) error {
	sess, err := s.client.StartSession()
	if err != nil {
		return err
	}
	defer sess.EndSession(ctx)

	// The session context joins every operation issued through the store
	// handle into the transaction. The driver retries transient conflicts
	// itself.
	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (any, error) {
		return nil, fn(sc, s)
	})
	if err != nil {
		var cmdErr mongo.CommandError
		if errors.As(err, &cmdErr) && cmdErr.HasErrorLabel("TransientTransactionError") {
			return fmt.Errorf("%w: %v", ErrConflict, err)
		}
		return err
	}

	return nil
}

func (s *MongoStore) Batch() Batch {
	return &mongoBatch{store: s}
}

type mongoBatch struct {
	store  *MongoStore
	models []mongo.WriteModel
}

func (b *mongoBatch) Set(path string, fields Fields, opts ...SetOption) {
	var o setOptions
	for _, opt := range opts {
		opt(&o)
	}

	if !o.merge {
		row := mongoRow{
			ID:         path,
			Collection: CollectionOf(path),
			Group:      GroupOf(path),
			Fields:     applyTransforms(Fields{}, fields),
		}
		b.models = append(b.models, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"_id": path}).SetReplacement(row).SetUpsert(true))
		return
	}

	update := fieldsToUpdate(fields)
	update["$setOnInsert"] = bson.M{"collection": CollectionOf(path), "group": GroupOf(path)}
	b.models = append(b.models, mongo.NewUpdateOneModel().
		SetFilter(bson.M{"_id": path}).SetUpdate(update).SetUpsert(true))
}

func (b *mongoBatch) Update(path string, fields Fields) {
	b.models = append(b.models, mongo.NewUpdateOneModel().
		SetFilter(bson.M{"_id": path}).SetUpdate(fieldsToUpdate(fields)))
}

func (b *mongoBatch) Delete(path string) {
	b.models = append(b.models, mongo.NewDeleteOneModel().SetFilter(bson.M{"_id": path}))
}

func (b *mongoBatch) Commit(ctx context.Context) error {
	if len(b.models) == 0 {
		return nil
	}

	_, err := b.store.coll.BulkWrite(ctx, b.models, options.BulkWrite().SetOrdered(true))
	return err
}

func (s *MongoStore) Query(ctx context.Context, collection string, q Query) ([]Document, error) {
	filter := bson.M{"collection": collection}
	return s.find(ctx, filter, q)
}

func (s *MongoStore) QueryGroup(ctx context.Context, collectionID string, q Query) ([]Document, error) {
	filter := bson.M{"group": collectionID}
	return s.find(ctx, filter, q)
}

func (s *MongoStore) find(ctx context.Context, filter bson.M, q Query) ([]Document, error) {
	for _, f := range q.Filters {
		// Mongo equality on an array field already means membership, so
		// both filter operators translate to the same form.
		filter["fields."+f.Field] = f.Value
	}

	opts := options.Find()
	if q.OrderBy != "" {
		order := 1
		if q.Desc {
			order = -1
		}
		opts.SetSort(bson.D{{Key: "fields." + q.OrderBy, Value: order}})
	}
	if q.Limit > 0 {
		opts.SetLimit(int64(q.Limit))
	}

	cursor, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var result []Document
	for cursor.Next(ctx) {
		var row mongoRow
		if err := cursor.Decode(&row); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		result = append(result, Document{Path: row.ID, Fields: normalizeFields(row.Fields)})
	}

	return result, cursor.Err()
}

// fieldsToUpdate splits a field map into $set and $inc update documents.
func fieldsToUpdate(fields Fields) bson.M {
	set := bson.M{}
	inc := bson.M{}
	for k, v := range fields {
		if incV, ok := v.(incValue); ok {
			inc["fields."+k] = incV.delta
			continue
		}
		set["fields."+k] = v
	}

	update := bson.M{}
	if len(set) > 0 {
		update["$set"] = set
	}
	if len(inc) > 0 {
		update["$inc"] = inc
	}

	return update
}

// normalizeFields converts BSON decode artifacts back into the plain Go
// values the rest of the module works with.
func normalizeFields(fields map[string]any) Fields {
	result := make(Fields, len(fields))
	for k, v := range fields {
		result[k] = normalizeValue(v)
	}

	return result
}

func normalizeValue(v any) any {
	switch t := v.(type) {
	case primitive.DateTime:
		return t.Time().UTC()
	case primitive.A:
		arr := make([]any, len(t))
		for i, e := range t {
			arr[i] = normalizeValue(e)
		}
		return arr
	case primitive.M:
		return map[string]any(normalizeFields(t))
	case map[string]any:
		return map[string]any(normalizeFields(t))
	case int32:
		return int64(t)
	case time.Time:
		return t.UTC()
	}

	return v
}
