// internal/app/store/comments/commentstore.go
package comments

import (
	"context"
	"time"

	"github.com/thedevbrian/folio/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("comments")}
}

// Insert stores a comment by userID (an account id) on postID.
func (s *Store) Insert(ctx context.Context, postID string, userID primitive.ObjectID, content string) (primitive.ObjectID, error) {
	c := models.Comment{
		ID:        primitive.NewObjectID(),
		PostID:    postID,
		UserID:    userID,
		Content:   content,
		CreatedAt: time.Now(),
	}
	if _, err := s.c.InsertOne(ctx, c); err != nil {
		return primitive.NilObjectID, err
	}
	return c.ID, nil
}

// ListByPost returns the comments on postID, newest first, each with its
// author's display name.
func (s *Store) ListByPost(ctx context.Context, postID string) ([]models.CommentView, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"post_id": postID}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: -1}}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         "users",
			"localField":   "user_id",
			"foreignField": "user_id",
			"as":           "author",
		}}},
		{{Key: "$project", Value: bson.M{
			"content":     1,
			"created_at":  1,
			"author_name": bson.M{"$ifNull": bson.A{bson.M{"$arrayElemAt": bson.A{"$author.name", 0}}, ""}},
		}}},
	}

	cur, err := s.c.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.CommentView
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []models.CommentView{}
	}
	return out, nil
}
