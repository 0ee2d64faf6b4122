package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	generationLogCollection = "generation_logs"
	defaultLogLimit         = 20
)

type GenerationLogRepo interface {
	SaveLog(ctx context.Context, entry *GenerationLog) error
	ListByUser(ctx context.Context, userID uint64, limit int) ([]*GenerationLog, error)
}

type generationLogRepoImpl struct {
	col *mongo.Collection
}

func NewGenerationLogRepo(db *mongo.Database) GenerationLogRepo {
	return &generationLogRepoImpl{
		col: db.Collection(generationLogCollection),
	}
}

// SaveLog 直接存储
func (s *generationLogRepoImpl) SaveLog(ctx context.Context, entry *GenerationLog) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	_, err := s.col.InsertOne(ctx, entry)
	return err
}

// ListByUser 按时间倒序拉取最近的生成记录
func (s *generationLogRepoImpl) ListByUser(ctx context.Context, userID uint64, limit int) ([]*GenerationLog, error) {
	if limit <= 0 {
		limit = defaultLogLimit
	}

	findOptions := options.Find().
		SetSort(bson.D{
			{Key: "created_at", Value: -1},
			{Key: "_id", Value: -1},
		}).
		SetLimit(int64(limit))

	cursor, err := s.col.Find(ctx, bson.M{"user_id": userID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	logs := make([]*GenerationLog, 0)
	if err := cursor.All(ctx, &logs); err != nil {
		return nil, err
	}
	return logs, nil
}

// noopGenerationLogRepo 未配置 MongoDB 时使用
type noopGenerationLogRepo struct{}

func NewNoopGenerationLogRepo() GenerationLogRepo {
	return noopGenerationLogRepo{}
}

func (noopGenerationLogRepo) SaveLog(context.Context, *GenerationLog) error {
	return nil
}

func (noopGenerationLogRepo) ListByUser(context.Context, uint64, int) ([]*GenerationLog, error) {
	return []*GenerationLog{}, nil
}
