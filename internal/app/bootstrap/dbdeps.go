// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds database/back-end dependencies for the app.
//
// The Mongo fields are nil unless selections are stored in MongoDB.
// Services is allocated by ConnectDB and filled in by Startup so the later
// hooks, which receive DBDeps by value, share one set of built components.
type DBDeps struct {
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database

	Services *Services
}
