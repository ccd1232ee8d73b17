// internal/domain/models/comment.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Comment is a reader's comment on a blog post. PostID is the content
// service's document id.
type Comment struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PostID    string             `bson:"post_id" json:"post_id"`
	UserID    primitive.ObjectID `bson:"user_id" json:"user_id"`
	Content   string             `bson:"content" json:"content"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

// CommentView is a comment joined with its author's display name.
type CommentView struct {
	ID         primitive.ObjectID `bson:"_id" json:"id"`
	Content    string             `bson:"content" json:"content"`
	AuthorName string             `bson:"author_name" json:"author_name"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
}
