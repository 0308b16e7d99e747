package mongostore

import (
	"context"
	"errors"

	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Directory reads company records from the companies collection.
type Directory struct {
	companies *mongo.Collection
}

func (s *Store) Directory() *Directory {
	return &Directory{companies: s.companies}
}

func (d *Directory) Get(ctx context.Context, id string) (ports.Company, error) {
	if id == "" {
		return ports.Company{}, errs.NewValueIsRequiredError("company id")
	}
	var doc companyDocument
	if err := d.companies.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ports.Company{}, errs.NewObjectNotFoundError("company", id)
		}
		return ports.Company{}, err
	}
	return doc.toPort(), nil
}

func (d *Directory) Lookup(ctx context.Context, ids []string) (map[string]ports.Company, error) {
	out := make(map[string]ports.Company, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	cursor, err := d.companies.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []companyDocument
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	for _, doc := range docs {
		out[doc.ID] = doc.toPort()
	}
	return out, nil
}

// Put upserts a record for seeding.
func (d *Directory) Put(ctx context.Context, c ports.Company) error {
	doc := companyDocument{ID: c.ID, Name: c.Name, Kind: string(c.Kind), Rating: c.Rating}
	_, err := d.companies.ReplaceOne(ctx, bson.M{"_id": c.ID}, doc, options.Replace().SetUpsert(true))
	return err
}

func (doc companyDocument) toPort() ports.Company {
	return ports.Company{ID: doc.ID, Name: doc.Name, Kind: ports.CompanyKind(doc.Kind), Rating: doc.Rating}
}
