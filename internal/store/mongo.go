// Poloboard - Water Polo Ranking Matrix and History API
// Copyright 2026 Poloboard Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/poloboard/poloboard

package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/poloboard/poloboard/internal/logging"
	"github.com/poloboard/poloboard/internal/metrics"
)

// noID projects the internal Mongo identifier out of every result.
var noID = bson.D{{Key: "_id", Value: 0}}

// Mongo implements Client against a MongoDB deployment.
type Mongo struct {
	client *mongo.Client
}

// Connect establishes a MongoDB connection and verifies it with a ping.
func Connect(ctx context.Context, uri string, timeout time.Duration) (*Mongo, error) {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client, err := mongo.Connect(options.Client().
		ApplyURI(uri).
		SetServerSelectionTimeout(timeout))
	if err != nil {
		return nil, Unavailable("connect", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, Unavailable("ping", err)
	}

	logging.Info().Msg("Connected to MongoDB")
	return &Mongo{client: client}, nil
}

// Close disconnects from MongoDB.
func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

// FindAll returns every document in database/collection, without _id.
func (m *Mongo) FindAll(ctx context.Context, database, collection string) ([]Document, error) {
	start := time.Now()

	cursor, err := m.client.Database(database).Collection(collection).
		Find(ctx, bson.D{}, options.Find().SetProjection(noID))
	if err != nil {
		metrics.RecordStoreQuery(database, collection, time.Since(start), err)
		return nil, Unavailable("find "+database+"/"+collection, err)
	}

	var docs []Document
	err = cursor.All(ctx, &docs)
	metrics.RecordStoreQuery(database, collection, time.Since(start), err)
	if err != nil {
		return nil, Unavailable("decode "+database+"/"+collection, err)
	}
	return docs, nil
}

// FindMatches returns the single aggregate matches document, without _id.
func (m *Mongo) FindMatches(ctx context.Context, database string) (Document, error) {
	start := time.Now()

	var doc Document
	err := m.client.Database(database).Collection(CollectionMatches).
		FindOne(ctx, bson.D{}, options.FindOne().SetProjection(noID)).
		Decode(&doc)
	metrics.RecordStoreQuery(database, CollectionMatches, time.Since(start), err)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, Unavailable("matches document missing in "+database, err)
		}
		return nil, Unavailable("find matches in "+database, err)
	}
	return doc, nil
}
