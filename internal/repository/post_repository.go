package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/fathima-sithara/social-service/internal/models"
	"github.com/fathima-sithara/social-service/internal/utils"
)

type PostRepo struct {
	col *mongo.Collection
}

func NewPostRepo(col *mongo.Collection) *PostRepo {
	return &PostRepo{col: col}
}

func (r *PostRepo) Insert(ctx context.Context, p *models.Post) error {
	stamp(&p.CreatedAt, &p.UpdatedAt)
	_, err := r.col.InsertOne(ctx, p)
	return err
}

func (r *PostRepo) GetByID(ctx context.Context, id string) (*models.Post, error) {
	var p models.Post
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

func (r *PostRepo) List(ctx context.Context) ([]*models.Post, error) {
	return r.find(ctx, bson.M{})
}

func (r *PostRepo) ListByUser(ctx context.Context, userID string) ([]*models.Post, error) {
	return r.find(ctx, bson.M{"user_id": userID})
}

func (r *PostRepo) find(ctx context.Context, filter bson.M) ([]*models.Post, error) {
	cur, err := r.col.Find(ctx, filter, newestFirst)
	if err != nil {
		return nil, err
	}
	posts := []*models.Post{}
	if err := cur.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *PostRepo) Update(ctx context.Context, p *models.Post) error {
	stamp(&p.CreatedAt, &p.UpdatedAt)
	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": p.ID}, p)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return utils.ErrNotFound
	}
	return nil
}

func (r *PostRepo) Delete(ctx context.Context, id string) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return utils.ErrNotFound
	}
	return nil
}
