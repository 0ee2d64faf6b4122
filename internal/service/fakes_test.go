package service

import (
	"Autopost/internal/model"
	"Autopost/internal/pkg/es"
	"Autopost/internal/pkg/feed"
	"Autopost/internal/pkg/llm"
	"Autopost/internal/pkg/mongo"
	"Autopost/internal/pkg/platform"
	appredis "Autopost/internal/pkg/redis"
	"Autopost/internal/repository"
	"context"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
)

func newTestStore(t *testing.T) (*appredis.Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return appredis.NewStore(client), mr
}

func newTestPrompts(t *testing.T) *llm.Prompts {
	t.Helper()
	prompts, err := llm.ParsePrompts(
		"system",
		"{{.Platform}}|{{.Tone}}|{{.MaxLength}}|{{.Title}}|{{.Body}}|{{.IncludeHashtags}}|{{.IncludeURL}}",
		"summary-system",
		"{{.Title}}:{{.Body}}",
	)
	require.NoError(t, err)
	return prompts
}

// ---- users ----

type fakeUserRepo struct {
	mu     sync.Mutex
	users  map[uint64]*model.User
	nextID uint64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uint64]*model.User{}}
}

func (f *fakeUserRepo) GetUserByID(_ context.Context, id uint64) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		c := *u
		return &c, nil
	}
	return nil, nil
}

func (f *fakeUserRepo) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			c := *u
			return &c, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) CreateUser(_ context.Context, user *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == user.Email {
			return repository.ErrDuplicate
		}
	}
	f.nextID++
	user.ID = f.nextID
	user.CreatedAt = time.Now()
	c := *user
	f.users[user.ID] = &c
	return nil
}

// ---- content sources ----

type fakeSourceRepo struct {
	mu       sync.Mutex
	sources  map[uint64]*model.ContentSource
	nextID   uint64
	contents *fakeContentRepo
	crawled  map[uint64]time.Time
}

func newFakeSourceRepo(contents *fakeContentRepo) *fakeSourceRepo {
	return &fakeSourceRepo{
		sources:  map[uint64]*model.ContentSource{},
		contents: contents,
		crawled:  map[uint64]time.Time{},
	}
}

func (f *fakeSourceRepo) CreateSource(_ context.Context, source *model.ContentSource) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	source.ID = f.nextID
	source.CreatedAt = time.Now()
	source.UpdatedAt = source.CreatedAt
	c := *source
	f.sources[source.ID] = &c
	return nil
}

func (f *fakeSourceRepo) GetSource(_ context.Context, userID, id uint64) (*model.ContentSource, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.sources[id]; ok && s.UserID == userID {
		c := *s
		return &c, nil
	}
	return nil, nil
}

func (f *fakeSourceRepo) ListSources(_ context.Context, userID uint64) ([]*model.ContentSource, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := make([]*model.ContentSource, 0)
	for _, s := range f.sources {
		if s.UserID == userID {
			c := *s
			result = append(result, &c)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID > result[j].ID })
	return result, nil
}

func (f *fakeSourceRepo) ListActiveByType(_ context.Context, sourceType model.SourceType) ([]*model.ContentSource, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := make([]*model.ContentSource, 0)
	for _, s := range f.sources {
		if s.IsActive && s.Type == sourceType {
			c := *s
			result = append(result, &c)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (f *fakeSourceRepo) CountContentBySources(_ context.Context, ids []uint64) (map[uint64]int64, error) {
	counts := make(map[uint64]int64)
	for _, id := range ids {
		counts[id] = int64(len(f.contents.bySource(id)))
	}
	return counts, nil
}

func (f *fakeSourceRepo) UpdateSource(_ context.Context, userID, id uint64, fields map[string]interface{}) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sources[id]
	if !ok || s.UserID != userID {
		return 0, nil
	}
	for k, v := range fields {
		switch k {
		case "name":
			s.Name = v.(string)
		case "url":
			s.URL = v.(string)
		case "type":
			s.Type = v.(model.SourceType)
		case "is_active":
			s.IsActive = v.(bool)
		}
	}
	return 1, nil
}

func (f *fakeSourceRepo) UpdateLastCrawled(_ context.Context, id uint64, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.sources[id]; ok {
		s.LastCrawled = &at
		f.crawled[id] = at
	}
	return nil
}

func (f *fakeSourceRepo) DeleteSourceWithContent(_ context.Context, userID, id uint64) ([]uint64, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sources[id]
	if !ok || s.UserID != userID {
		return nil, false, nil
	}
	ids := f.contents.bySource(id)
	for _, cid := range ids {
		if f.contents.isReferenced(cid) {
			return nil, true, repository.ErrReferenced
		}
	}
	for _, cid := range ids {
		f.contents.remove(cid)
	}
	delete(f.sources, id)
	return ids, true, nil
}

// ---- discovered content ----

type fakeContentRepo struct {
	mu           sync.Mutex
	items        map[uint64]*model.DiscoveredContent
	nextID       uint64
	referenced   map[uint64]bool
	processedErr error
}

func newFakeContentRepo() *fakeContentRepo {
	return &fakeContentRepo{items: map[uint64]*model.DiscoveredContent{}, referenced: map[uint64]bool{}}
}

func (f *fakeContentRepo) bySource(sourceID uint64) []uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := make([]uint64, 0)
	for id, c := range f.items {
		if c.ContentSourceID == sourceID {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (f *fakeContentRepo) isReferenced(id uint64) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.referenced[id]
}

func (f *fakeContentRepo) remove(id uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.items, id)
}

func (f *fakeContentRepo) add(c *model.DiscoveredContent) *model.DiscoveredContent {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	c.ID = f.nextID
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	cp := *c
	f.items[c.ID] = &cp
	return c
}

func (f *fakeContentRepo) CreateIfAbsent(_ context.Context, content *model.DiscoveredContent) (bool, error) {
	if len(content.URL) > model.MaxContentURLLength {
		return false, repository.ErrURLTooLong
	}
	f.mu.Lock()
	for _, c := range f.items {
		if c.ContentSourceID == content.ContentSourceID && c.URL == content.URL {
			f.mu.Unlock()
			return false, nil
		}
	}
	f.mu.Unlock()
	f.add(content)
	return true, nil
}

func (f *fakeContentRepo) GetContent(_ context.Context, userID, id uint64) (*model.DiscoveredContent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.items[id]; ok && c.UserID == userID {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeContentRepo) GetContentByIDs(_ context.Context, userID uint64, ids []uint64) ([]*model.DiscoveredContent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := make([]*model.DiscoveredContent, 0)
	for _, id := range ids {
		if c, ok := f.items[id]; ok && c.UserID == userID {
			cp := *c
			result = append(result, &cp)
		}
	}
	// 按 ID 升序返回，由调用方按 ids 重排
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (f *fakeContentRepo) filter(match func(*model.DiscoveredContent) bool, offset, limit int) ([]*model.DiscoveredContent, int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	all := make([]*model.DiscoveredContent, 0)
	for _, c := range f.items {
		if match(c) {
			cp := *c
			all = append(all, &cp)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })
	total := int64(len(all))
	if offset >= len(all) {
		return []*model.DiscoveredContent{}, total
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total
}

func (f *fakeContentRepo) ListContent(_ context.Context, filter repository.ContentFilter) ([]*model.DiscoveredContent, int64, error) {
	items, total := f.filter(func(c *model.DiscoveredContent) bool {
		if c.UserID != filter.UserID {
			return false
		}
		if filter.SourceID != nil && c.ContentSourceID != *filter.SourceID {
			return false
		}
		if filter.IsProcessed != nil && c.IsProcessed != *filter.IsProcessed {
			return false
		}
		return true
	}, filter.Offset, filter.Limit)
	return items, total, nil
}

func (f *fakeContentRepo) SearchContent(_ context.Context, userID uint64, keyword string, offset, limit int) ([]*model.DiscoveredContent, int64, error) {
	items, total := f.filter(func(c *model.DiscoveredContent) bool {
		return c.UserID == userID && strings.Contains(c.Title, keyword)
	}, offset, limit)
	return items, total, nil
}

func (f *fakeContentRepo) UpdateProcessed(_ context.Context, userID, id uint64, processed bool) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.processedErr != nil {
		return 0, f.processedErr
	}
	if c, ok := f.items[id]; ok && c.UserID == userID {
		c.IsProcessed = processed
		return 1, nil
	}
	return 0, nil
}

func (f *fakeContentRepo) DeleteContent(_ context.Context, userID, id uint64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.items[id]
	if !ok || c.UserID != userID {
		return false, nil
	}
	if f.referenced[id] {
		return false, repository.ErrReferenced
	}
	delete(f.items, id)
	return true, nil
}

func (f *fakeContentRepo) DeleteProcessedBefore(_ context.Context, cutoff time.Time) ([]uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := make([]uint64, 0)
	for id, c := range f.items {
		if c.IsProcessed && c.CreatedAt.Before(cutoff) && !f.referenced[id] {
			ids = append(ids, id)
		}
	}
	for _, id := range ids {
		delete(f.items, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

// ---- social accounts ----

type fakeAccountRepo struct {
	mu         sync.Mutex
	accounts   map[uint64]*model.SocialAccount
	nextID     uint64
	referenced map[uint64]bool
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{accounts: map[uint64]*model.SocialAccount{}, referenced: map[uint64]bool{}}
}

func (f *fakeAccountRepo) CreateAccount(_ context.Context, account *model.SocialAccount) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.accounts {
		if a.UserID == account.UserID && a.Platform == account.Platform {
			return repository.ErrDuplicate
		}
	}
	f.nextID++
	account.ID = f.nextID
	cp := *account
	f.accounts[account.ID] = &cp
	return nil
}

func (f *fakeAccountRepo) GetAccount(_ context.Context, userID, id uint64) (*model.SocialAccount, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if a, ok := f.accounts[id]; ok && a.UserID == userID {
		cp := *a
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeAccountRepo) ListAccounts(_ context.Context, userID uint64) ([]*model.SocialAccount, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := make([]*model.SocialAccount, 0)
	for _, a := range f.accounts {
		if a.UserID == userID {
			cp := *a
			result = append(result, &cp)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (f *fakeAccountRepo) UpdateAccount(_ context.Context, userID, id uint64, fields map[string]interface{}) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.accounts[id]
	if !ok || a.UserID != userID {
		return 0, nil
	}
	for k, v := range fields {
		switch k {
		case "account_name":
			a.AccountName = v.(string)
		case "is_active":
			a.IsActive = v.(bool)
		case "access_token":
			a.AccessToken = v.(*string)
		case "access_secret":
			a.AccessSecret = v.(*string)
		}
	}
	return 1, nil
}

func (f *fakeAccountRepo) DeleteAccount(_ context.Context, userID, id uint64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.accounts[id]
	if !ok || a.UserID != userID {
		return false, nil
	}
	if f.referenced[id] {
		return false, repository.ErrReferenced
	}
	delete(f.accounts, id)
	return true, nil
}

// ---- generated posts ----

type fakePostRepo struct {
	mu        sync.Mutex
	posts     map[uint64]*model.GeneratedPost
	nextID    uint64
	contents  *fakeContentRepo
	accounts  *fakeAccountRepo
	createErr error
}

func newFakePostRepo(contents *fakeContentRepo, accounts *fakeAccountRepo) *fakePostRepo {
	return &fakePostRepo{posts: map[uint64]*model.GeneratedPost{}, contents: contents, accounts: accounts}
}

func (f *fakePostRepo) CreatePost(_ context.Context, post *model.GeneratedPost) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.nextID++
	post.ID = f.nextID
	post.CreatedAt = time.Now()
	post.UpdatedAt = post.CreatedAt
	cp := *post
	f.posts[post.ID] = &cp
	f.contents.mu.Lock()
	f.contents.referenced[post.DiscoveredContentID] = true
	f.contents.mu.Unlock()
	f.accounts.mu.Lock()
	f.accounts.referenced[post.SocialAccountID] = true
	f.accounts.mu.Unlock()
	return nil
}

func (f *fakePostRepo) GetPost(_ context.Context, userID, id uint64) (*model.GeneratedPost, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.posts[id]; ok && p.UserID == userID {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (f *fakePostRepo) ExistsPost(_ context.Context, id uint64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.posts[id]
	return ok, nil
}

func (f *fakePostRepo) ListPosts(_ context.Context, filter repository.PostFilter) ([]*model.GeneratedPost, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	all := make([]*model.GeneratedPost, 0)
	for _, p := range f.posts {
		if p.UserID != filter.UserID {
			continue
		}
		if filter.Status != nil && p.Status != *filter.Status {
			continue
		}
		if filter.Platform != nil && p.Platform != *filter.Platform {
			continue
		}
		cp := *p
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })
	total := int64(len(all))
	if filter.Offset >= len(all) {
		return []*model.GeneratedPost{}, total, nil
	}
	end := filter.Offset + filter.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[filter.Offset:end], total, nil
}

func (f *fakePostRepo) ListRecentPosts(ctx context.Context, userID uint64, limit int) ([]*model.GeneratedPost, error) {
	posts, _, err := f.ListPosts(ctx, repository.PostFilter{UserID: userID, Limit: limit})
	return posts, err
}

func (f *fakePostRepo) ListPublishedSince(_ context.Context, userID uint64, since time.Time) ([]*model.GeneratedPost, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := make([]*model.GeneratedPost, 0)
	for _, p := range f.posts {
		if p.UserID == userID && p.Status == model.PostStatusPublished && p.PublishedAt != nil && !p.PublishedAt.Before(since) {
			cp := *p
			result = append(result, &cp)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (f *fakePostRepo) UpdatePostIfStatus(_ context.Context, id uint64, from []model.PostStatus, fields map[string]interface{}) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.posts[id]
	if !ok {
		return false, nil
	}
	allowed := false
	for _, s := range from {
		if p.Status == s {
			allowed = true
		}
	}
	if !allowed {
		return false, nil
	}
	for k, v := range fields {
		switch k {
		case "status":
			p.Status = v.(model.PostStatus)
		case "content":
			p.Content = v.(string)
		case "scheduled_at":
			t := v.(time.Time)
			p.ScheduledAt = &t
		case "published_at":
			t := v.(time.Time)
			p.PublishedAt = &t
		case "metadata":
			p.Metadata = v.(model.PostMetadata)
		}
	}
	p.UpdatedAt = time.Now()
	return true, nil
}

func (f *fakePostRepo) DeletePostUnlessStatus(_ context.Context, userID, id uint64, keep model.PostStatus) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.posts[id]
	if !ok || p.UserID != userID || p.Status == keep {
		return false, nil
	}
	delete(f.posts, id)
	return true, nil
}

func (f *fakePostRepo) setStatus(id uint64, status model.PostStatus) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.posts[id].Status = status
}

// ---- analytics ----

type fakeSnapshotRepo struct {
	mu        sync.Mutex
	snapshots []*model.PostAnalytics
}

func (f *fakeSnapshotRepo) CreateSnapshot(_ context.Context, snapshot *model.PostAnalytics) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.snapshots = append(f.snapshots, snapshot)
	return nil
}

func (f *fakeSnapshotRepo) ListByPost(_ context.Context, postID uint64) ([]*model.PostAnalytics, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := make([]*model.PostAnalytics, 0)
	for _, s := range f.snapshots {
		if s.GeneratedPostID == postID {
			result = append(result, s)
		}
	}
	return result, nil
}

func (f *fakeSnapshotRepo) LatestByPosts(_ context.Context, postIDs []uint64) (map[uint64]*model.PostAnalytics, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	latest := make(map[uint64]*model.PostAnalytics)
	for _, id := range postIDs {
		for _, s := range f.snapshots {
			if s.GeneratedPostID != id {
				continue
			}
			if cur, ok := latest[id]; !ok || s.RecordedAt.After(cur.RecordedAt) {
				latest[id] = s
			}
		}
	}
	return latest, nil
}

type fakeAnalyticsRepo struct {
	counts *repository.OverviewCounts
	stats  []*repository.SourceStat
	calls  int
}

func (f *fakeAnalyticsRepo) CountOverview(context.Context, uint64) (*repository.OverviewCounts, error) {
	f.calls++
	return f.counts, nil
}

func (f *fakeAnalyticsRepo) SourceStats(context.Context, uint64) ([]*repository.SourceStat, error) {
	return f.stats, nil
}

// ---- infrastructure ----

type fakeGenerator struct {
	mu       sync.Mutex
	requests []llm.Request
	reply    func(req llm.Request) (string, error)
}

func (f *fakeGenerator) Generate(_ context.Context, req llm.Request) (string, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()
	return f.reply(req)
}

func (f *fakeGenerator) lastRequest() llm.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[len(f.requests)-1]
}

func systemOf(req llm.Request) string {
	return llm.MessageText(req.Messages, llms.ChatMessageTypeSystem)
}

func promptOf(req llm.Request) string {
	return llm.MessageText(req.Messages, llms.ChatMessageTypeHuman)
}

type fakeLogRepo struct {
	mu   sync.Mutex
	logs []*mongo.GenerationLog
}

func (f *fakeLogRepo) SaveLog(_ context.Context, entry *mongo.GenerationLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logs = append(f.logs, entry)
	return nil
}

func (f *fakeLogRepo) ListByUser(_ context.Context, userID uint64, _ int) ([]*mongo.GenerationLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := make([]*mongo.GenerationLog, 0)
	for _, l := range f.logs {
		if l.UserID == userID {
			result = append(result, l)
		}
	}
	return result, nil
}

type fakeAdapter struct {
	mu          sync.Mutex
	published   []string
	publishErr  error
	verifyErr   error
	providerID  string
	verifyCalls int
}

func (f *fakeAdapter) Publish(_ context.Context, text string, _ platform.Credentials) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.publishErr != nil {
		return "", f.publishErr
	}
	f.published = append(f.published, text)
	return f.providerID, nil
}

func (f *fakeAdapter) VerifyCredentials(context.Context, platform.Credentials) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.verifyCalls++
	return f.verifyErr
}

type fakeFetcher struct {
	items map[string][]feed.Item
	errs  map[string]error
	calls []string
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) ([]feed.Item, error) {
	f.calls = append(f.calls, url)
	if err := f.errs[url]; err != nil {
		return nil, err
	}
	return f.items[url], nil
}

type fakeContentES struct {
	mu        sync.Mutex
	indexed   []uint64
	deleted   []uint64
	searchIDs []uint64
	searchErr error
	total     int64
}

func (f *fakeContentES) EnsureIndex(context.Context) error {
	return nil
}

func (f *fakeContentES) IndexContent(_ context.Context, content *es.ContentES) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.indexed = append(f.indexed, content.ID)
	return nil
}

func (f *fakeContentES) DeleteContent(_ context.Context, id uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeContentES) SearchContent(context.Context, uint64, string, int, int) ([]uint64, int64, error) {
	if f.searchErr != nil {
		return nil, 0, f.searchErr
	}
	return f.searchIDs, f.total, nil
}

type fakeSink struct {
	mu     sync.Mutex
	events []model.PostEvent
}

func (f *fakeSink) Emit(_ context.Context, event model.PostEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
	return nil
}

func (f *fakeSink) transitions() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := make([]string, 0, len(f.events))
	for _, e := range f.events {
		result = append(result, string(e.From)+">"+string(e.To))
	}
	return result
}
