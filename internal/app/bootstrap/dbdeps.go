// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/dalemusser/nurseryhome/internal/app/system/roomcache"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds database/back-end dependencies for the app.
type DBDeps struct {
	NurseryHomeMongoClient   *mongo.Client
	NurseryHomeMongoDatabase *mongo.Database

	// RoomCache is nil when redis_addr is blank.
	RoomCache *roomcache.Cache
}
