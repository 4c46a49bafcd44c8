package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/fathima-sithara/social-service/internal/models"
	"github.com/fathima-sithara/social-service/internal/utils"
)

type StoryRepo struct {
	col *mongo.Collection
}

func NewStoryRepo(col *mongo.Collection) *StoryRepo {
	return &StoryRepo{col: col}
}

func (r *StoryRepo) Insert(ctx context.Context, s *models.Story) error {
	stamp(&s.CreatedAt, &s.UpdatedAt)
	_, err := r.col.InsertOne(ctx, s)
	return err
}

func (r *StoryRepo) GetByID(ctx context.Context, id string) (*models.Story, error) {
	var s models.Story
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&s); err != nil {
		return nil, notFound(err)
	}
	return &s, nil
}

func (r *StoryRepo) List(ctx context.Context) ([]*models.Story, error) {
	return r.find(ctx, bson.M{}, newestFirst)
}

func (r *StoryRepo) FindOlderThan(ctx context.Context, cutoff time.Time) ([]*models.Story, error) {
	oldestFirst := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	return r.find(ctx, bson.M{"created_at": bson.M{"$lt": cutoff}}, oldestFirst)
}

func (r *StoryRepo) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*models.Story, error) {
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	stories := []*models.Story{}
	if err := cur.All(ctx, &stories); err != nil {
		return nil, err
	}
	return stories, nil
}

func (r *StoryRepo) Delete(ctx context.Context, id string) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return utils.ErrNotFound
	}
	return nil
}
