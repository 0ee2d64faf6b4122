package model

// PostStatus 帖子生命周期状态
type PostStatus string

const (
	PostStatusDraft           PostStatus = "DRAFT"
	PostStatusPendingApproval PostStatus = "PENDING_APPROVAL"
	PostStatusApproved        PostStatus = "APPROVED"
	PostStatusScheduled       PostStatus = "SCHEDULED"
	PostStatusPublished       PostStatus = "PUBLISHED"
	PostStatusFailed          PostStatus = "FAILED"
)

// PostAction 触发状态迁移的动作
type PostAction string

const (
	ActionApprove  PostAction = "approve"
	ActionReject   PostAction = "reject"
	ActionSchedule PostAction = "schedule"
	ActionPublish  PostAction = "publish"
	ActionSucceed  PostAction = "succeed"
	ActionFail     PostAction = "fail"
	ActionRetry    PostAction = "retry"
)

// postTransitions 状态迁移表，未列出的组合均非法
var postTransitions = map[PostStatus]map[PostAction]PostStatus{
	PostStatusDraft: {
		ActionSchedule: PostStatusScheduled,
		ActionPublish:  PostStatusDraft,
	},
	PostStatusPendingApproval: {
		ActionApprove: PostStatusApproved,
		ActionReject:  PostStatusDraft,
	},
	PostStatusApproved: {
		ActionSchedule: PostStatusScheduled,
		ActionPublish:  PostStatusApproved,
	},
	PostStatusScheduled: {
		ActionPublish: PostStatusScheduled,
	},
	PostStatusFailed: {
		ActionRetry: PostStatusDraft,
	},
}

// publishing 发布中的状态都可以落到 PUBLISHED 或 FAILED
var publishing = map[PostStatus]bool{
	PostStatusDraft:     true,
	PostStatusApproved:  true,
	PostStatusScheduled: true,
}

var postStatuses = []PostStatus{
	PostStatusDraft,
	PostStatusPendingApproval,
	PostStatusApproved,
	PostStatusScheduled,
	PostStatusPublished,
	PostStatusFailed,
}

func (s PostStatus) Valid() bool {
	for _, v := range postStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// Terminal PUBLISHED 没有任何出边
func (s PostStatus) Terminal() bool {
	return s == PostStatusPublished
}

// Editable 非终态都可以编辑内容
func (s PostStatus) Editable() bool {
	return !s.Terminal()
}

// CanPublish DRAFT、APPROVED、SCHEDULED 可以发布。
// SCHEDULED 是在 APPROVED/DRAFT 之外额外放开的：没有调度器驱动，只能由用户手动发布，不必先回退状态。
// FAILED 需要先 retry 回到 DRAFT
func (s PostStatus) CanPublish() bool {
	return publishing[s]
}

// Next 返回 action 作用后的状态，非法返回 false
func (s PostStatus) Next(action PostAction) (PostStatus, bool) {
	switch action {
	case ActionSucceed:
		if publishing[s] {
			return PostStatusPublished, true
		}
		return s, false
	case ActionFail:
		if publishing[s] {
			return PostStatusFailed, true
		}
		return s, false
	}
	next, ok := postTransitions[s][action]
	if !ok {
		return s, false
	}
	return next, true
}
