package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/kazale/ponto-inteligente/internal/core/domain"
)

const collectionEmployees = "employees"

// EmployeeRepository is the Mongo-backed credential store.
type EmployeeRepository struct {
	db  *mongo.Database
	col *mongo.Collection
}

func NewEmployeeRepository(db *mongo.Database) *EmployeeRepository {
	return &EmployeeRepository{db: db, col: db.Collection(collectionEmployees)}
}

type employeeDoc struct {
	ID             int64    `bson:"_id"`
	Name           string   `bson:"name"`
	Email          string   `bson:"email"`
	PasswordHash   string   `bson:"password_hash"`
	CPF            string   `bson:"cpf,omitempty"`
	Role           string   `bson:"role"`
	CompanyID      int64    `bson:"company_id"`
	HourlyRate     *float64 `bson:"hourly_rate,omitempty"`
	DailyWorkHours *float32 `bson:"daily_work_hours,omitempty"`
	LunchHours     *float32 `bson:"lunch_hours,omitempty"`
	CreatedAt      int64    `bson:"created_at"`
	UpdatedAt      int64    `bson:"updated_at"`
}

func (d *employeeDoc) toDomain() *domain.Employee {
	role, ok := domain.ParseRole(d.Role)
	if !ok {
		role = domain.RoleEmployee
	}
	return &domain.Employee{
		ID:             d.ID,
		Name:           d.Name,
		Email:          d.Email,
		PasswordHash:   d.PasswordHash,
		CPF:            d.CPF,
		Role:           role,
		CompanyID:      d.CompanyID,
		HourlyRate:     d.HourlyRate,
		DailyWorkHours: d.DailyWorkHours,
		LunchHours:     d.LunchHours,
		CreatedAt:      unixToTime(d.CreatedAt),
		UpdatedAt:      unixToTime(d.UpdatedAt),
	}
}

func employeeFromDomain(e *domain.Employee) employeeDoc {
	return employeeDoc{
		ID:             e.ID,
		Name:           e.Name,
		Email:          domain.NormalizeEmail(e.Email),
		PasswordHash:   e.PasswordHash,
		CPF:            e.CPF,
		Role:           string(e.Role),
		CompanyID:      e.CompanyID,
		HourlyRate:     e.HourlyRate,
		DailyWorkHours: e.DailyWorkHours,
		LunchHours:     e.LunchHours,
		CreatedAt:      timeToUnix(e.CreatedAt),
		UpdatedAt:      timeToUnix(e.UpdatedAt),
	}
}

// FindByEmail matches the normalised email.
func (r *EmployeeRepository) FindByEmail(ctx context.Context, email string) (*domain.Employee, error) {
	return r.findOne(ctx, bson.M{"email": domain.NormalizeEmail(email)})
}

func (r *EmployeeRepository) FindByID(ctx context.Context, id int64) (*domain.Employee, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *EmployeeRepository) findOne(ctx context.Context, filter bson.M) (*domain.Employee, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc employeeDoc
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrEmployeeNotFound
		}
		return nil, storeError("find employee", err)
	}
	return doc.toDomain(), nil
}

// Save inserts when e.ID is zero and replaces the stored document otherwise.
// A duplicate email surfaces as domain.ErrEmailInUse.
func (r *EmployeeRepository) Save(ctx context.Context, e *domain.Employee) (*domain.Employee, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := employeeFromDomain(e)
	if doc.ID == 0 {
		id, err := nextID(ctx, r.db, collectionEmployees)
		if err != nil {
			return nil, err
		}
		doc.ID = id
	}

	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrEmailInUse
		}
		return nil, storeError("save employee", err)
	}
	return doc.toDomain(), nil
}
