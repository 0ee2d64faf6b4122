package consts

const (
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

const (
	// FeedItemLimit 每次抓取只处理前 N 条
	FeedItemLimit = 10
	// RetentionDays 已处理内容保留天数
	RetentionDays = 3
	// DefaultVariantCount 批量生成默认条数
	DefaultVariantCount = 3
	// MaxVariantCount 批量生成上限
	MaxVariantCount = 5
	// RecentPostsLimit 概览中最近帖子条数
	RecentPostsLimit = 5
	// DefaultStatsDays 帖子统计默认天数
	DefaultStatsDays = 30
)
