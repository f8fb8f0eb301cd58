package audit

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	DatabaseName          = "audit"
	DefaultOperationLimit = 3 * time.Second
)

var client Logger

func Log(ctx context.Context, log LogEntry) error {
	if client != nil {
		return client.Log(ctx, log)
	}
	logrus.Warnf("audit.Log called without a valid logger")
	return ErrorNotInitialized
}

func GetByEntity(ctx context.Context, entityId string, entityType EntityType, cursor time.Time, limit int64) (LogEntries, error) {
	if client != nil {
		return client.GetByEntity(ctx, entityId, entityType, cursor, limit)
	}
	logrus.Warnf("audit.GetByEntity called without a valid logger")
	return nil, ErrorNotInitialized
}

// Init replaces the package logger, used by InitMongo and by tests
func Init(logger Logger) {
	client = logger
}

func InitMongo(c *mongo.Client) error {
	if c == nil {
		return fmt.Errorf("client is null")
	}
	pingCtx, pingCancel := context.WithTimeout(context.Background(), DefaultOperationLimit)
	defer pingCancel()
	if err := c.Ping(pingCtx, nil); err != nil {
		return fmt.Errorf("server is unpingable: %w", err)
	}
	Init(&mongoLogger{Db: c.Database(DatabaseName)})
	return nil
}

type mongoLogger struct {
	Db *mongo.Database
}

// Log writes the entry into the collection named after its entity type
func (c *mongoLogger) Log(ctx context.Context, logEntry LogEntry) error {
	ctx, cancel := context.WithTimeout(ctx, DefaultOperationLimit)
	defer cancel()
	logEntry.Timestamp = time.Now().UTC()
	res, err := c.Db.Collection(string(logEntry.EntityType)).InsertOne(ctx, logEntry)
	if err != nil {
		logrus.Warnf("failed to insert auditLog: %s", err)
		return fmt.Errorf("audit log insert failed: %w", err)
	}
	logrus.Debugf("inserted auditLog[%v]", res.InsertedID)
	return nil
}

func (c *mongoLogger) GetByEntity(ctx context.Context, entityId string, entityType EntityType, cursor time.Time, limit int64) (LogEntries, error) {
	findCtx, cancelFind := context.WithTimeout(ctx, DefaultOperationLimit)
	defer cancelFind()
	res, err := c.Db.Collection(string(entityType)).Find(
		findCtx,
		bson.M{"entityId": entityId, "timestamp": bson.M{"$lte": cursor}},
		options.Find().SetLimit(limit).SetSort(bson.D{{Key: "timestamp", Value: -1}}),
	)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("timeout[%v] on find", DefaultOperationLimit)
		}
		return nil, fmt.Errorf("find failed: %w", err)
	}
	defer res.Close(findCtx)

	var results LogEntries
	if err := res.All(findCtx, &results); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("timeout[%v] on decode", DefaultOperationLimit)
		}
		return nil, fmt.Errorf("decode failed: %w", err)
	}
	return results, nil
}

// NewMemory returns an in-process Logger for tests and for running
// the controller without an audit database
func NewMemory() *Memory {
	return &Memory{}
}

type Memory struct {
	entries LogEntries
	mutex   sync.Mutex
}

func (m *Memory) Log(ctx context.Context, logEntry LogEntry) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	logEntry.Timestamp = time.Now().UTC()
	m.entries = append(m.entries, logEntry)
	return nil
}

func (m *Memory) GetByEntity(ctx context.Context, entityId string, entityType EntityType, cursor time.Time, limit int64) (LogEntries, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	results := LogEntries{}
	for _, entry := range m.entries {
		if entry.EntityId == entityId && entry.EntityType == entityType && !entry.Timestamp.After(cursor) {
			results = append(results, entry)
		}
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Timestamp.After(results[j].Timestamp)
	})
	if limit > 0 && int64(len(results)) > limit {
		results = results[:limit]
	}
	return results, nil
}
