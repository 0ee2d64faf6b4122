package service

import (
	"Autopost/internal/api/dto"
	"Autopost/internal/model"
	"Autopost/internal/pkg/consts"
	"Autopost/internal/pkg/platform"
	"Autopost/internal/pkg/util"
	"Autopost/internal/repository"
	"context"
	"fmt"
	log "log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

const publishLockTTL = 2 * time.Minute

type GeneratedPostService interface {
	ListPosts(ctx context.Context, userID uint64, query *dto.GeneratedPostQuery) (*dto.PageResult[*dto.GeneratedPostDTO], error)
	GetPost(ctx context.Context, userID, id uint64) (*dto.GeneratedPostDTO, error)
	CreatePost(ctx context.Context, userID uint64, createDTO *dto.CreatePostDTO) (*dto.GeneratedPostDTO, error)
	GeneratePost(ctx context.Context, userID uint64, generateDTO *dto.GeneratePostDTO) (*dto.GeneratedPostDTO, error)
	GenerateVariants(ctx context.Context, userID uint64, variantsDTO *dto.GenerateVariantsDTO) (*dto.VariantsDTO, error)
	UpdatePost(ctx context.Context, userID, id uint64, updateDTO *dto.UpdatePostDTO) (*dto.GeneratedPostDTO, error)
	ApprovePost(ctx context.Context, userID, id uint64) (*dto.GeneratedPostDTO, error)
	RejectPost(ctx context.Context, userID, id uint64) (*dto.GeneratedPostDTO, error)
	RetryPost(ctx context.Context, userID, id uint64) (*dto.GeneratedPostDTO, error)
	PublishPost(ctx context.Context, userID, id uint64) (*dto.GeneratedPostDTO, error)
	DeletePost(ctx context.Context, userID, id uint64) error
}

type GeneratedPostServiceImpl struct {
	postRepo      repository.GeneratedPostRepo
	contentRepo   repository.DiscoveredContentRepo
	accountRepo   repository.SocialAccountRepo
	analyticsRepo repository.PostAnalyticsRepo
	generation    GenerationService
	dispatcher    PublishDispatcher
	platforms     *platform.Table
	locker        Locker
	events        PostEventSink
	now           func() time.Time
}

func NewGeneratedPostService(
	postRepo repository.GeneratedPostRepo,
	contentRepo repository.DiscoveredContentRepo,
	accountRepo repository.SocialAccountRepo,
	analyticsRepo repository.PostAnalyticsRepo,
	generation GenerationService,
	dispatcher PublishDispatcher,
	platforms *platform.Table,
	locker Locker,
	events PostEventSink,
) GeneratedPostService {
	return &GeneratedPostServiceImpl{
		postRepo:      postRepo,
		contentRepo:   contentRepo,
		accountRepo:   accountRepo,
		analyticsRepo: analyticsRepo,
		generation:    generation,
		dispatcher:    dispatcher,
		platforms:     platforms,
		locker:        locker,
		events:        events,
		now:           time.Now,
	}
}

func (s *GeneratedPostServiceImpl) ListPosts(ctx context.Context, userID uint64, query *dto.GeneratedPostQuery) (*dto.PageResult[*dto.GeneratedPostDTO], error) {
	page, limit, offset := util.NormalizePage(query.Page, query.Limit)
	filter := repository.PostFilter{UserID: userID, Offset: offset, Limit: limit}
	if query.Status != "" {
		status := model.PostStatus(query.Status)
		if !status.Valid() {
			return nil, ErrParamInvalid
		}
		filter.Status = &status
	}
	if query.Platform != "" {
		p := model.Platform(query.Platform)
		if !p.Valid() {
			return nil, ErrParamInvalid
		}
		filter.Platform = &p
	}

	posts, total, err := s.postRepo.ListPosts(ctx, filter)
	if err != nil {
		return nil, err
	}

	data := make([]*dto.GeneratedPostDTO, 0, len(posts))
	for _, post := range posts {
		postDTO, err := ToPostDTO(post)
		if err != nil {
			return nil, err
		}
		data = append(data, postDTO)
	}
	return &dto.PageResult[*dto.GeneratedPostDTO]{
		Data:       data,
		Pagination: dto.NewPagination(page, limit, total),
	}, nil
}

// GetPost 附带全部互动快照
func (s *GeneratedPostServiceImpl) GetPost(ctx context.Context, userID, id uint64) (*dto.GeneratedPostDTO, error) {
	post, err := s.getPost(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	postDTO, err := ToPostDTO(post)
	if err != nil {
		return nil, err
	}

	snapshots, err := s.analyticsRepo.ListByPost(ctx, post.ID)
	if err != nil {
		return nil, err
	}
	postDTO.Analytics = make([]dto.PostAnalyticsDTO, 0, len(snapshots))
	for _, snapshot := range snapshots {
		postDTO.Analytics = append(postDTO.Analytics, dto.PostAnalyticsDTO{
			Likes:      snapshot.Likes,
			Shares:     snapshot.Shares,
			Comments:   snapshot.Comments,
			Views:      snapshot.Views,
			RecordedAt: snapshot.RecordedAt,
		})
	}
	return postDTO, nil
}

// CreatePost 手写草稿，带 scheduledAt 时直接进入 SCHEDULED
func (s *GeneratedPostServiceImpl) CreatePost(ctx context.Context, userID uint64, createDTO *dto.CreatePostDTO) (*dto.GeneratedPostDTO, error) {
	if _, err := s.getContent(ctx, userID, createDTO.DiscoveredContentID); err != nil {
		return nil, err
	}
	account, err := s.resolveAccount(ctx, userID, createDTO.SocialAccountID, createDTO.Platform)
	if err != nil {
		return nil, err
	}

	text := strings.TrimSpace(createDTO.Content)
	if text == "" {
		return nil, ErrParamInvalid
	}
	if !platform.WithinLimit(text, s.platforms.MaxLength(account.Platform)) {
		return nil, ErrContentTooLong
	}

	status := model.PostStatusDraft
	if createDTO.ScheduledAt != nil {
		status, _ = status.Next(model.ActionSchedule)
	}

	post := &model.GeneratedPost{
		UserID:              userID,
		DiscoveredContentID: createDTO.DiscoveredContentID,
		SocialAccountID:     account.ID,
		Content:             text,
		Platform:            account.Platform,
		Status:              status,
		ScheduledAt:         createDTO.ScheduledAt,
	}
	if err = s.postRepo.CreatePost(ctx, post); err != nil {
		return nil, err
	}
	emitEvent(ctx, s.events, post, "", status, "created")
	return s.GetPost(ctx, userID, post.ID)
}

// GeneratePost AI 生成的帖子进入 PENDING_APPROVAL，并把素材标记为已处理
func (s *GeneratedPostServiceImpl) GeneratePost(ctx context.Context, userID uint64, generateDTO *dto.GeneratePostDTO) (*dto.GeneratedPostDTO, error) {
	content, err := s.getContent(ctx, userID, generateDTO.DiscoveredContentID)
	if err != nil {
		return nil, err
	}
	account, err := s.resolveAccount(ctx, userID, generateDTO.SocialAccountID, generateDTO.Platform)
	if err != nil {
		return nil, err
	}

	text, err := s.generation.GeneratePost(ctx, generateOptions(userID, account.Platform, content, generateDTO.Options))
	if err != nil {
		return nil, err
	}

	post := &model.GeneratedPost{
		UserID:              userID,
		DiscoveredContentID: content.ID,
		SocialAccountID:     account.ID,
		Content:             text,
		Platform:            account.Platform,
		Status:              model.PostStatusPendingApproval,
	}
	// 先标记素材，避免帖子已落库而素材仍被当作未处理
	if !content.IsProcessed {
		if _, err = s.contentRepo.UpdateProcessed(ctx, userID, content.ID, true); err != nil {
			return nil, err
		}
	}
	if err = s.postRepo.CreatePost(ctx, post); err != nil {
		if !content.IsProcessed {
			if _, rbErr := s.contentRepo.UpdateProcessed(context.WithoutCancel(ctx), userID, content.ID, false); rbErr != nil {
				log.ErrorContext(ctx, "restore content processed flag failed", "content_id", content.ID, "err", rbErr)
			}
		}
		return nil, err
	}
	emitEvent(ctx, s.events, post, "", post.Status, "generated")
	return s.GetPost(ctx, userID, post.ID)
}

// GenerateVariants 只返回文本，不落库
func (s *GeneratedPostServiceImpl) GenerateVariants(ctx context.Context, userID uint64, variantsDTO *dto.GenerateVariantsDTO) (*dto.VariantsDTO, error) {
	content, err := s.getContent(ctx, userID, variantsDTO.DiscoveredContentID)
	if err != nil {
		return nil, err
	}
	p := model.Platform(variantsDTO.Platform)
	if !p.Valid() {
		return nil, ErrParamInvalid
	}

	count := variantsDTO.Count
	if count <= 0 {
		count = consts.DefaultVariantCount
	}
	if count > consts.MaxVariantCount {
		count = consts.MaxVariantCount
	}

	variants := s.generation.GenerateMultiplePosts(ctx, generateOptions(userID, p, content, variantsDTO.Options), count)
	if len(variants) == 0 {
		return nil, ErrGenerationFailed
	}
	return &dto.VariantsDTO{Variants: variants}, nil
}

// UpdatePost 编辑不改变状态，设置排期时 DRAFT/APPROVED 进入 SCHEDULED
func (s *GeneratedPostServiceImpl) UpdatePost(ctx context.Context, userID, id uint64, updateDTO *dto.UpdatePostDTO) (*dto.GeneratedPostDTO, error) {
	post, err := s.getPost(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if !post.Status.Editable() {
		return nil, ErrInvalidState
	}

	fields := make(map[string]interface{})
	if updateDTO.Content != nil {
		text := strings.TrimSpace(*updateDTO.Content)
		if text == "" {
			return nil, ErrParamInvalid
		}
		if !platform.WithinLimit(text, s.platforms.MaxLength(post.Platform)) {
			return nil, ErrContentTooLong
		}
		fields["content"] = text
	}

	next := post.Status
	if updateDTO.ScheduledAt != nil {
		fields["scheduled_at"] = updateDTO.ScheduledAt.UTC()
		if scheduled, ok := post.Status.Next(model.ActionSchedule); ok {
			next = scheduled
			fields["status"] = next
		}
	}
	if len(fields) == 0 {
		return s.GetPost(ctx, userID, id)
	}

	ok, err := s.postRepo.UpdatePostIfStatus(ctx, post.ID, []model.PostStatus{post.Status}, fields)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidState
	}
	if next != post.Status {
		emitEvent(ctx, s.events, post, post.Status, next, "scheduled")
	}
	return s.GetPost(ctx, userID, id)
}

func (s *GeneratedPostServiceImpl) ApprovePost(ctx context.Context, userID, id uint64) (*dto.GeneratedPostDTO, error) {
	return s.transition(ctx, userID, id, model.ActionApprove)
}

func (s *GeneratedPostServiceImpl) RejectPost(ctx context.Context, userID, id uint64) (*dto.GeneratedPostDTO, error) {
	return s.transition(ctx, userID, id, model.ActionReject)
}

// RetryPost FAILED 回到 DRAFT，之后可重新编辑或发布
func (s *GeneratedPostServiceImpl) RetryPost(ctx context.Context, userID, id uint64) (*dto.GeneratedPostDTO, error) {
	return s.transition(ctx, userID, id, model.ActionRetry)
}

// transition 以当前状态为条件更新，并发修改时返回 ErrInvalidState
func (s *GeneratedPostServiceImpl) transition(ctx context.Context, userID, id uint64, action model.PostAction) (*dto.GeneratedPostDTO, error) {
	post, err := s.getPost(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	next, ok := post.Status.Next(action)
	if !ok {
		return nil, ErrInvalidState
	}

	updated, err := s.postRepo.UpdatePostIfStatus(ctx, post.ID, []model.PostStatus{post.Status}, map[string]interface{}{
		"status": next,
	})
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, ErrInvalidState
	}
	emitEvent(ctx, s.events, post, post.Status, next, string(action))
	return s.GetPost(ctx, userID, id)
}

// PublishPost 成功进入 PUBLISHED，平台拒绝时进入 FAILED 并返回原因
func (s *GeneratedPostServiceImpl) PublishPost(ctx context.Context, userID, id uint64) (*dto.GeneratedPostDTO, error) {
	post, err := s.getPost(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if !post.Status.CanPublish() {
		return nil, ErrInvalidState
	}

	lockKey := consts.PostPublishLock + strconv.FormatUint(post.ID, 10)
	lockValue := uuid.NewString()
	locked, err := s.locker.TryLock(ctx, lockKey, lockValue, publishLockTTL, 1)
	if err != nil {
		return nil, err
	}
	if !locked {
		return nil, ErrPublishInProgress
	}
	defer s.locker.UnLock(context.WithoutCancel(ctx), lockKey, lockValue)

	// 拿到锁后重新读取，避免在等待期间已被发布
	post, err = s.getPost(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if !post.Status.CanPublish() {
		return nil, ErrInvalidState
	}

	result, err := s.dispatcher.Publish(ctx, post)
	if err != nil {
		return nil, err
	}

	metadata := model.PostMetadata{}
	for k, v := range post.Metadata {
		metadata[k] = v
	}

	if result.Success {
		next, _ := post.Status.Next(model.ActionSucceed)
		metadata[model.MetadataProviderPostID] = result.ProviderPostID
		delete(metadata, model.MetadataPublishError)
		if err = s.finishPublish(ctx, post, next, map[string]interface{}{
			"status":       next,
			"published_at": s.now().UTC(),
			"metadata":     metadata,
		}); err != nil {
			return nil, err
		}
		emitEvent(ctx, s.events, post, post.Status, next, "")
		return s.GetPost(ctx, userID, id)
	}

	next, _ := post.Status.Next(model.ActionFail)
	metadata[model.MetadataPublishError] = result.Reason
	if err = s.finishPublish(ctx, post, next, map[string]interface{}{
		"status":   next,
		"metadata": metadata,
	}); err != nil {
		return nil, err
	}
	emitEvent(ctx, s.events, post, post.Status, next, result.Reason)
	return nil, fmt.Errorf("%w: %s", ErrPublishFailed, result.Reason)
}

func (s *GeneratedPostServiceImpl) finishPublish(ctx context.Context, post *model.GeneratedPost, next model.PostStatus, fields map[string]interface{}) error {
	ok, err := s.postRepo.UpdatePostIfStatus(ctx, post.ID, []model.PostStatus{post.Status}, fields)
	if err != nil {
		return err
	}
	if !ok {
		log.ErrorContext(ctx, "post status changed during publish", "post_id", post.ID, "from", post.Status, "to", next)
		return ErrInvalidState
	}
	return nil
}

// DeletePost 已发布的帖子不可删除
func (s *GeneratedPostServiceImpl) DeletePost(ctx context.Context, userID, id uint64) error {
	post, err := s.getPost(ctx, userID, id)
	if err != nil {
		return err
	}
	if post.Status.Terminal() {
		return ErrInvalidState
	}

	deleted, err := s.postRepo.DeletePostUnlessStatus(ctx, userID, id, model.PostStatusPublished)
	if err != nil {
		return err
	}
	if !deleted {
		// 删除前被并发发布
		return ErrInvalidState
	}
	return nil
}

func (s *GeneratedPostServiceImpl) getPost(ctx context.Context, userID, id uint64) (*model.GeneratedPost, error) {
	post, err := s.postRepo.GetPost(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}
	return post, nil
}

func (s *GeneratedPostServiceImpl) getContent(ctx context.Context, userID, id uint64) (*model.DiscoveredContent, error) {
	content, err := s.contentRepo.GetContent(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if content == nil {
		return nil, ErrContentNotFound
	}
	return content, nil
}

// resolveAccount 帖子平台以社交账号为准，请求里显式给出的平台必须一致
func (s *GeneratedPostServiceImpl) resolveAccount(ctx context.Context, userID, accountID uint64, requested string) (*model.SocialAccount, error) {
	account, err := s.accountRepo.GetAccount(ctx, userID, accountID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, ErrAccountNotFound
	}
	if requested != "" && model.Platform(requested) != account.Platform {
		return nil, ErrPlatformMismatch
	}
	return account, nil
}

func generateOptions(userID uint64, p model.Platform, content *model.DiscoveredContent, opts dto.GenerationOptions) GenerateOptions {
	return GenerateOptions{
		UserID:          userID,
		Platform:        p,
		Title:           content.Title,
		Body:            util.Deref(content.Content),
		URL:             content.URL,
		Tone:            opts.Tone,
		IncludeHashtags: opts.IncludeHashtags,
		IncludeURL:      opts.IncludeURL,
	}
}

// ToPostDTO 模型转 DTO，关联对象已预加载时一并带出
func ToPostDTO(post *model.GeneratedPost) (*dto.GeneratedPostDTO, error) {
	postDTO := &dto.GeneratedPostDTO{}
	if err := copier.Copy(postDTO, post); err != nil {
		return nil, err
	}
	postDTO.Platform = string(post.Platform)
	postDTO.Status = string(post.Status)
	postDTO.Metadata = post.Metadata
	postDTO.DiscoveredContent = nil
	postDTO.SocialAccount = nil
	postDTO.Analytics = nil
	if post.DiscoveredContent.ID != 0 {
		postDTO.DiscoveredContent = &dto.ContentBriefDTO{
			ID:    post.DiscoveredContent.ID,
			Title: post.DiscoveredContent.Title,
			URL:   post.DiscoveredContent.URL,
		}
	}
	if post.SocialAccount.ID != 0 {
		postDTO.SocialAccount = &dto.AccountBriefDTO{
			ID:          post.SocialAccount.ID,
			Platform:    string(post.SocialAccount.Platform),
			AccountName: post.SocialAccount.AccountName,
		}
	}
	return postDTO, nil
}

