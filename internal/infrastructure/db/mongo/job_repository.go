package mongo

import (
	"context"
	"errors"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/jobradar/jobradar/internal/core/domain"
	"github.com/jobradar/jobradar/internal/core/ports"
)

const collectionJobs = "jobs"

// JobRepository implements ports.JobRepository on MongoDB. The unique index
// on url is the authoritative deduplication guard: a racing insert of the
// same URL is rejected by the index and surfaced as domain.ErrDuplicateJob.
type JobRepository struct {
	col *mongo.Collection
}

func NewJobRepository(db *mongo.Database) *JobRepository {
	return &JobRepository{col: db.Collection(collectionJobs)}
}

type mongoJob struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Title     string             `bson:"title"`
	Company   string             `bson:"company"`
	Location  string             `bson:"location"`
	PostedAt  time.Time          `bson:"posted_at"`
	URL       string             `bson:"url"`
	Source    string             `bson:"source"`
	Applied   bool               `bson:"applied"`
	Emailed   bool               `bson:"emailed"`
	CreatedAt time.Time          `bson:"created_at"`
}

func (m mongoJob) toDomain() *domain.Job {
	return &domain.Job{
		ID:        m.ID.Hex(),
		Title:     m.Title,
		Company:   m.Company,
		Location:  m.Location,
		PostedAt:  m.PostedAt,
		URL:       m.URL,
		Source:    m.Source,
		Applied:   m.Applied,
		Emailed:   m.Emailed,
		CreatedAt: m.CreatedAt,
	}
}

// Insert stores a new job and assigns its generated id.
func (r *JobRepository) Insert(ctx context.Context, j *domain.Job) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoJob{
		Title:     j.Title,
		Company:   j.Company,
		Location:  j.Location,
		PostedAt:  j.PostedAt.UTC(),
		URL:       j.URL,
		Source:    j.Source,
		Applied:   j.Applied,
		Emailed:   j.Emailed,
		CreatedAt: j.CreatedAt.UTC(),
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicateJob
		}
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		j.ID = oid.Hex()
	}
	return nil
}

func (r *JobRepository) FindByID(ctx context.Context, id string) (*domain.Job, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrJobNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *JobRepository) FindByURL(ctx context.Context, url string) (*domain.Job, error) {
	return r.findOne(ctx, bson.M{"url": url})
}

func (r *JobRepository) findOne(ctx context.Context, filter bson.M) (*domain.Job, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var m mongoJob
	if err := r.col.FindOne(ctx, filter).Decode(&m); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrJobNotFound
		}
		return nil, err
	}
	return m.toDomain(), nil
}

// List returns a page of jobs matching filter plus the total match count.
func (r *JobRepository) List(ctx context.Context, filter ports.ListJobsFilter) ([]*domain.Job, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{}
	if filter.Search != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(filter.Search), Options: "i"}
		query["$or"] = bson.A{
			bson.M{"title": pattern},
			bson.M{"company": pattern},
		}
	}
	if filter.Location != "" {
		query["location"] = primitive.Regex{Pattern: regexp.QuoteMeta(filter.Location), Options: "i"}
	}
	if filter.Applied != nil {
		query["applied"] = *filter.Applied
	}
	if filter.Emailed != nil {
		query["emailed"] = *filter.Emailed
	}
	if !filter.DateFrom.IsZero() || !filter.DateTo.IsZero() {
		posted := bson.M{}
		if !filter.DateFrom.IsZero() {
			posted["$gte"] = filter.DateFrom.UTC()
		}
		if !filter.DateTo.IsZero() {
			posted["$lt"] = filter.DateTo.UTC()
		}
		query["posted_at"] = posted
	}

	total, err := r.col.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	skip := int64((filter.Page - 1) * filter.Limit)
	opts := options.Find().
		SetSort(bson.D{{Key: "posted_at", Value: -1}, {Key: "created_at", Value: -1}}).
		SetSkip(skip).
		SetLimit(int64(filter.Limit))

	cursor, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var jobs []*domain.Job
	for cursor.Next(ctx) {
		var m mongoJob
		if err := cursor.Decode(&m); err != nil {
			return nil, 0, err
		}
		jobs = append(jobs, m.toDomain())
	}
	if err := cursor.Err(); err != nil {
		return nil, 0, err
	}

	return jobs, total, nil
}

// SetApplied updates the applied flag and returns the updated job.
func (r *JobRepository) SetApplied(ctx context.Context, id string, applied bool) (*domain.Job, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrJobNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var m mongoJob
	err = r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"applied": applied}},
		opts,
	).Decode(&m)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrJobNotFound
		}
		return nil, err
	}
	return m.toDomain(), nil
}

// FindUnemailed returns every job with emailed=false, newest posted first.
func (r *JobRepository) FindUnemailed(ctx context.Context) ([]*domain.Job, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "posted_at", Value: -1}})
	cursor, err := r.col.Find(ctx, bson.M{"emailed": false}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var jobs []*domain.Job
	for cursor.Next(ctx) {
		var m mongoJob
		if err := cursor.Decode(&m); err != nil {
			return nil, err
		}
		jobs = append(jobs, m.toDomain())
	}
	return jobs, cursor.Err()
}

// MarkEmailed sets emailed=true on every job in ids in one bulk update.
func (r *JobRepository) MarkEmailed(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			continue
		}
		oids = append(oids, oid)
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.UpdateMany(ctx,
		bson.M{"_id": bson.M{"$in": oids}},
		bson.M{"$set": bson.M{"emailed": true}},
	)
	return err
}

func (r *JobRepository) CountUnemailed(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()
	return r.col.CountDocuments(ctx, bson.M{"emailed": false})
}

// Latest returns the most recently created job.
func (r *JobRepository) Latest(ctx context.Context) (*domain.Job, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}})
	var m mongoJob
	if err := r.col.FindOne(ctx, bson.M{}, opts).Decode(&m); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrJobNotFound
		}
		return nil, err
	}
	return m.toDomain(), nil
}

// Stats aggregates the counters for the stats endpoint.
func (r *JobRepository) Stats(ctx context.Context, recentSince time.Time) (*domain.JobStats, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	total, err := r.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	applied, err := r.col.CountDocuments(ctx, bson.M{"applied": true})
	if err != nil {
		return nil, err
	}
	emailed, err := r.col.CountDocuments(ctx, bson.M{"emailed": true})
	if err != nil {
		return nil, err
	}
	recent, err := r.col.CountDocuments(ctx, bson.M{"created_at": bson.M{"$gte": recentSince.UTC()}})
	if err != nil {
		return nil, err
	}

	return &domain.JobStats{Total: total, Applied: applied, Emailed: emailed, Recent: recent}, nil
}

// EnsureIndexes creates the indexes the repository relies on. The unique url
// index must exist before ingestion runs.
func (r *JobRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "url", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "emailed", Value: 1}}},
		{Keys: bson.D{{Key: "posted_at", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
