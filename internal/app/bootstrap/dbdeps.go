// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/thedevbrian/folio/internal/app/system/content"
	"github.com/thedevbrian/folio/internal/app/system/mailer"
	"github.com/thedevbrian/folio/internal/app/system/newsletter"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds database and backend dependencies for this WAFFLE app.
//
// It is created in ConnectDB and passed to EnsureSchema, Startup,
// BuildHandler, and Shutdown. The HTTP clients for the third-party
// services live here too; they are built once from AppConfig and shared
// by every request.
type DBDeps struct {
	// MongoDB client and database
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database

	// Mailer sends contact messages and signup confirmations (SMTP or Resend).
	Mailer mailer.Sender

	// Newsletter subscribes visitors to the Mailchimp audience.
	Newsletter *newsletter.Client

	// Content reads projects and posts from Sanity.
	Content *content.Client
}
