package repo

import (
	"context"

	"github.com/iWorld-y/memo_dashboard/internal/domain"
)

// BackendRepo 远端生成服务
type BackendRepo interface {
	// Generate 发送一次请求并返回解析后的响应；错误为 domain 中定义的 kratos 错误
	Generate(ctx context.Context, payload domain.Payload, model domain.LLMChoice) (*domain.Document, error)
}

// SessionRepo 会话存储
type SessionRepo interface {
	// Issue 创建新会话并返回其令牌
	Issue(ctx context.Context) (token string, sess domain.Session, err error)
	// Load 根据令牌读取会话；令牌无效或会话不存在时返回 ok=false
	Load(ctx context.Context, token string) (sess domain.Session, ok bool)
	// Update 在会话锁内执行一次状态转换并整体替换会话
	Update(ctx context.Context, token string, fn func(domain.Session) domain.Session) (domain.Session, error)
}

// ImageRepo 本地图表目录
type ImageRepo interface {
	// Resolve 返回图片的访问 URL；不存在时返回尝试过的路径与 false
	Resolve(name string) (url string, attempted string, ok bool)
}

// CatalogRepo NACE 代码表
type CatalogRepo interface {
	// Codes 按文件顺序返回代码与名称
	Codes() []domain.NaceCode
}
