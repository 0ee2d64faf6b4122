package es

import (
	"context"
	"errors"
	"strconv"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/sortorder"
	"github.com/goccy/go-json"
)

// ErrDisabled 未配置 Elasticsearch，调用方应回退到数据库
var ErrDisabled = errors.New("elasticsearch disabled")

const MaxSearchDepth = 1000

type ContentRepo interface {
	EnsureIndex(ctx context.Context) error
	IndexContent(ctx context.Context, content *ContentES) error
	DeleteContent(ctx context.Context, id uint64) error
	SearchContent(ctx context.Context, userID uint64, keyword string, from, size int) ([]uint64, int64, error)
}

type ContentRepoImpl struct {
	client *elasticsearch.TypedClient
	index  string
}

func NewContentRepo(client *elasticsearch.TypedClient, index string) ContentRepo {
	return &ContentRepoImpl{client: client, index: index}
}

// EnsureIndex 索引不存在时按映射创建
func (s *ContentRepoImpl) EnsureIndex(ctx context.Context) error {
	exists, err := s.client.Indices.Exists(s.index).IsSuccess(ctx)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	_, err = s.client.Indices.Create(s.index).
		Mappings(&types.TypeMapping{
			Properties: map[string]types.Property{
				"id":           types.NewLongNumberProperty(),
				"user_id":      types.NewLongNumberProperty(),
				"source_id":    types.NewLongNumberProperty(),
				"title":        types.NewTextProperty(),
				"content":      types.NewTextProperty(),
				"url":          types.NewKeywordProperty(),
				"published_at": types.NewDateProperty(),
				"created_at":   types.NewDateProperty(),
			},
		}).
		Do(ctx)
	if err != nil {
		var e *types.ElasticsearchError
		// 并发创建时索引可能已存在
		if errors.As(err, &e) && e.Status == 400 && e.ErrorCause.Type == "resource_already_exists_exception" {
			return nil
		}
		return err
	}
	return nil
}

func (s *ContentRepoImpl) IndexContent(ctx context.Context, content *ContentES) error {
	docID := strconv.FormatUint(content.ID, 10)

	_, err := s.client.Index(s.index).
		Id(docID).
		Document(content).
		Do(ctx)
	if err != nil {
		var e *types.ElasticsearchError
		if errors.As(err, &e) {
			if e.Status == ConflictCode {
				return nil
			}
		}
		return err
	}
	return nil
}

func (s *ContentRepoImpl) DeleteContent(ctx context.Context, id uint64) error {
	docID := strconv.FormatUint(id, 10)

	_, err := s.client.Delete(s.index, docID).Do(ctx)
	if err != nil {
		var e *types.ElasticsearchError
		if errors.As(err, &e) {
			if e.Status == NotFoundCode {
				return nil
			}
		}
		return err
	}
	return nil
}

// SearchContent 在当前用户的内容中按关键字检索，返回命中的 ID 及总数
func (s *ContentRepoImpl) SearchContent(ctx context.Context, userID uint64, keyword string, from, size int) ([]uint64, int64, error) {
	if from >= MaxSearchDepth {
		return []uint64{}, 0, nil
	}

	resp, err := s.client.Search().
		Index(s.index).
		Query(&types.Query{
			Bool: &types.BoolQuery{
				Must: []types.Query{
					{
						MultiMatch: &types.MultiMatchQuery{
							Query:  keyword,
							Fields: []string{"title^2", "content"},
						},
					},
				},
				Filter: []types.Query{
					{
						Term: map[string]types.TermQuery{
							"user_id": {Value: userID},
						},
					},
				},
			},
		}).
		Sort(
			types.SortOptions{Score_: &types.ScoreSort{Order: &sortorder.Desc}},
			types.SortOptions{SortOptions: map[string]types.FieldSort{
				"created_at": {Order: &sortorder.Desc},
			}},
		).
		From(from).
		Size(size).
		Do(ctx)
	if err != nil {
		return nil, 0, err
	}

	var total int64
	if resp.Hits.Total != nil {
		total = resp.Hits.Total.Value
	}

	ids := make([]uint64, 0, len(resp.Hits.Hits))
	for _, hit := range resp.Hits.Hits {
		if hit.Source_ == nil {
			continue
		}
		var doc ContentES
		if err = json.Unmarshal(hit.Source_, &doc); err != nil {
			continue
		}
		ids = append(ids, doc.ID)
	}
	return ids, total, nil
}

// noopContentRepo 未配置 Elasticsearch 时使用
type noopContentRepo struct{}

func NewNoopContentRepo() ContentRepo {
	return noopContentRepo{}
}

func (noopContentRepo) EnsureIndex(context.Context) error {
	return nil
}

func (noopContentRepo) IndexContent(context.Context, *ContentES) error {
	return nil
}

func (noopContentRepo) DeleteContent(context.Context, uint64) error {
	return nil
}

func (noopContentRepo) SearchContent(context.Context, uint64, string, int, int) ([]uint64, int64, error) {
	return nil, 0, ErrDisabled
}
