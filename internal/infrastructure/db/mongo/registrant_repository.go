package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/qdconsortium/qdw-api/internal/core/domain"
)

const registrantCollection = "qdw_registrations"

// RegistrantRepository persists registrant rows in MongoDB.
type RegistrantRepository struct {
	coll *mongo.Collection
}

func NewRegistrantRepository(db *mongo.Database) *RegistrantRepository {
	return &RegistrantRepository{coll: db.Collection(registrantCollection)}
}

type mongoRegistrant struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty"`
	FirstName          string             `bson:"first_name"`
	LastName           string             `bson:"last_name"`
	Email              string             `bson:"email"`
	Designation        string             `bson:"designation"`
	Location           string             `bson:"location"`
	RegistrationType   string             `bson:"registration_type"`
	ProjectTitle       string             `bson:"project_title,omitempty"`
	ProjectDescription string             `bson:"project_description,omitempty"`
	PosterURL          string             `bson:"poster_url,omitempty"`
	WantsQDCMembership bool               `bson:"wants_qdc_membership"`
	AgreeToTerms       bool               `bson:"agree_to_terms"`
	PasswordHash       string             `bson:"password_hash,omitempty"`
	PaymentStatus      string             `bson:"payment_status"`
	CheckoutSessionID  string             `bson:"stripe_checkout_session_id,omitempty"`
	PaymentIntentID    string             `bson:"stripe_payment_intent_id,omitempty"`
	CreatedAt          time.Time          `bson:"created_at"`
	PaidAt             *time.Time         `bson:"paid_at,omitempty"`
}

func (r *RegistrantRepository) Insert(ctx context.Context, reg *domain.Registrant) (*domain.Registrant, error) {
	doc := toMongo(reg)
	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert registrant: %w", err)
	}

	created := *reg
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		created.ID = oid.Hex()
	}
	return &created, nil
}

func (r *RegistrantRepository) List(ctx context.Context, membersOnly bool) ([]domain.Registrant, error) {
	filter := bson.M{}
	if membersOnly {
		filter["wants_qdc_membership"] = true
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list registrants: %w", err)
	}
	defer cur.Close(ctx)

	var out []domain.Registrant
	for cur.Next(ctx) {
		var doc mongoRegistrant
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode registrant: %w", err)
		}
		out = append(out, *fromMongo(&doc))
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("list registrants: %w", err)
	}
	return out, nil
}

func (r *RegistrantRepository) FindPaidByEmail(ctx context.Context, email string) (*domain.Registrant, error) {
	filter := bson.M{"email": email, "payment_status": string(domain.PaymentPaid)}

	var doc mongoRegistrant
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrRegistrantNotFound
		}
		return nil, fmt.Errorf("find registrant: %w", err)
	}
	return fromMongo(&doc), nil
}

func (r *RegistrantRepository) SetPasswordHash(ctx context.Context, id, hash string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("set password hash: %w", err)
	}

	res, err := r.coll.UpdateByID(ctx, oid, bson.M{"$set": bson.M{"password_hash": hash}})
	if err != nil {
		return fmt.Errorf("set password hash: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrRegistrantNotFound
	}
	return nil
}

// UpsertPaidByReference writes the paid registrant. A registrant carrying a
// row id targets the intake row written at form submission; otherwise the
// write is keyed on the payment reference id. Replayed webhook deliveries
// hit the same filter either way and update instead of inserting.
func (r *RegistrantRepository) UpsertPaidByReference(ctx context.Context, reg *domain.Registrant) (*domain.Registrant, error) {
	filter := bson.M{}
	if reg.ID != "" {
		// A malformed id from metadata falls through to the reference keys
		// rather than failing the delivery.
		if oid, err := primitive.ObjectIDFromHex(reg.ID); err == nil {
			filter["_id"] = oid
		}
	}
	if len(filter) == 0 {
		switch {
		case reg.PaymentIntentID != "":
			filter["stripe_payment_intent_id"] = reg.PaymentIntentID
		case reg.CheckoutSessionID != "":
			filter["stripe_checkout_session_id"] = reg.CheckoutSessionID
		default:
			return nil, fmt.Errorf("upsert registrant: no payment reference id")
		}
	}

	doc := toMongo(reg)
	update := bson.M{
		"$set": bson.M{
			"first_name":                 doc.FirstName,
			"last_name":                  doc.LastName,
			"email":                      doc.Email,
			"designation":                doc.Designation,
			"location":                   doc.Location,
			"registration_type":          doc.RegistrationType,
			"project_title":              doc.ProjectTitle,
			"project_description":        doc.ProjectDescription,
			"poster_url":                 doc.PosterURL,
			"wants_qdc_membership":       doc.WantsQDCMembership,
			"agree_to_terms":             doc.AgreeToTerms,
			"payment_status":             doc.PaymentStatus,
			"stripe_checkout_session_id": doc.CheckoutSessionID,
			"stripe_payment_intent_id":   doc.PaymentIntentID,
			"paid_at":                    doc.PaidAt,
		},
		"$setOnInsert": bson.M{
			"created_at": doc.CreatedAt,
		},
	}
	// Preserve a hash from a prior delivery; only write one when present.
	if doc.PasswordHash != "" {
		update["$set"].(bson.M)["password_hash"] = doc.PasswordHash
	}

	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var saved mongoRegistrant
	if err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&saved); err != nil {
		return nil, fmt.Errorf("upsert registrant: %w", err)
	}
	return fromMongo(&saved), nil
}

func toMongo(reg *domain.Registrant) *mongoRegistrant {
	return &mongoRegistrant{
		FirstName:          reg.FirstName,
		LastName:           reg.LastName,
		Email:              reg.Email,
		Designation:        reg.Designation,
		Location:           reg.Location,
		RegistrationType:   string(reg.RegistrationType),
		ProjectTitle:       reg.ProjectTitle,
		ProjectDescription: reg.ProjectDescription,
		PosterURL:          reg.PosterURL,
		WantsQDCMembership: reg.WantsQDCMembership,
		AgreeToTerms:       reg.AgreeToTerms,
		PasswordHash:       reg.PasswordHash,
		PaymentStatus:      string(reg.PaymentStatus),
		CheckoutSessionID:  reg.CheckoutSessionID,
		PaymentIntentID:    reg.PaymentIntentID,
		CreatedAt:          reg.CreatedAt,
		PaidAt:             reg.PaidAt,
	}
}

func fromMongo(doc *mongoRegistrant) *domain.Registrant {
	reg := &domain.Registrant{
		FirstName:          doc.FirstName,
		LastName:           doc.LastName,
		Email:              doc.Email,
		Designation:        doc.Designation,
		Location:           doc.Location,
		RegistrationType:   domain.RegistrationType(doc.RegistrationType),
		ProjectTitle:       doc.ProjectTitle,
		ProjectDescription: doc.ProjectDescription,
		PosterURL:          doc.PosterURL,
		WantsQDCMembership: doc.WantsQDCMembership,
		AgreeToTerms:       doc.AgreeToTerms,
		PasswordHash:       doc.PasswordHash,
		PaymentStatus:      domain.PaymentStatus(doc.PaymentStatus),
		CheckoutSessionID:  doc.CheckoutSessionID,
		PaymentIntentID:    doc.PaymentIntentID,
		CreatedAt:          doc.CreatedAt,
		PaidAt:             doc.PaidAt,
	}
	if !doc.ID.IsZero() {
		reg.ID = doc.ID.Hex()
	}
	return reg
}
