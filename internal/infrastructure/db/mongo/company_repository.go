package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/kazale/ponto-inteligente/internal/core/domain"
)

const collectionCompanies = "companies"

type CompanyRepository struct {
	db  *mongo.Database
	col *mongo.Collection
}

func NewCompanyRepository(db *mongo.Database) *CompanyRepository {
	return &CompanyRepository{db: db, col: db.Collection(collectionCompanies)}
}

type companyDoc struct {
	ID            int64  `bson:"_id"`
	CorporateName string `bson:"corporate_name"`
	CNPJ          string `bson:"cnpj"`
	CreatedAt     int64  `bson:"created_at"`
	UpdatedAt     int64  `bson:"updated_at"`
}

func (r *CompanyRepository) FindByCNPJ(ctx context.Context, cnpj string) (*domain.Company, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc companyDoc
	if err := r.col.FindOne(ctx, bson.M{"cnpj": domain.NormalizeCNPJ(cnpj)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCompanyNotFound
		}
		return nil, storeError("find company", err)
	}
	return &domain.Company{
		ID:            doc.ID,
		CorporateName: doc.CorporateName,
		CNPJ:          doc.CNPJ,
		CreatedAt:     unixToTime(doc.CreatedAt),
		UpdatedAt:     unixToTime(doc.UpdatedAt),
	}, nil
}

// Save upserts a company keyed by CNPJ, assigning an id on first insert.
func (r *CompanyRepository) Save(ctx context.Context, c *domain.Company) (*domain.Company, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	out := *c
	out.CNPJ = domain.NormalizeCNPJ(c.CNPJ)
	if out.ID == 0 {
		id, err := nextID(ctx, r.db, collectionCompanies)
		if err != nil {
			return nil, err
		}
		out.ID = id
	}
	doc := companyDoc{
		ID:            out.ID,
		CorporateName: out.CorporateName,
		CNPJ:          out.CNPJ,
		CreatedAt:     timeToUnix(out.CreatedAt),
		UpdatedAt:     timeToUnix(out.UpdatedAt),
	}
	if _, err := r.col.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, options.Replace().SetUpsert(true)); err != nil {
		return nil, storeError("save company", err)
	}
	return &out, nil
}
