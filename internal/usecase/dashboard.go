package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/memo_dashboard/internal/conf"
	"github.com/iWorld-y/memo_dashboard/internal/domain"
	"github.com/iWorld-y/memo_dashboard/internal/repo"
)

// Options 当前表单变体及结果页规则
type Options struct {
	Title            string
	Mode             domain.IdentifierMode
	Forecast         bool
	MaxForecastYears int
	ImagePathKeys    []string
	ImageBase64Keys  []string
	ProjectionKey    string
	ProjectionLimit  int
}

// NewOptions 根据配置生成选项，未配置的项使用默认值
func NewOptions(c *conf.Dashboard) Options {
	o := Options{
		Title:            "Company Data Viewer",
		Mode:             domain.ModeCompany,
		MaxForecastYears: 10,
		ImagePathKeys:    []string{"graphs"},
		ImageBase64Keys:  []string{"path"},
		ProjectionKey:    "market_size_and_growth_projections",
		ProjectionLimit:  2,
	}
	if c == nil {
		return o
	}
	if p := c.Profile; p != nil {
		if p.Title != "" {
			o.Title = p.Title
		}
		if domain.IdentifierMode(p.Mode) == domain.ModeNace {
			o.Mode = domain.ModeNace
		}
		o.Forecast = p.Forecast
	}
	if c.MaxForecastYears > 0 {
		o.MaxForecastYears = int(c.MaxForecastYears)
	}
	if len(c.ImagePathKeys) > 0 {
		o.ImagePathKeys = c.ImagePathKeys
	}
	if len(c.ImageBase64Keys) > 0 {
		o.ImageBase64Keys = c.ImageBase64Keys
	}
	if c.ProjectionKey != "" {
		o.ProjectionKey = c.ProjectionKey
	}
	if c.ProjectionLimit > 0 {
		o.ProjectionLimit = int(c.ProjectionLimit)
	}
	return o
}

// DashboardUseCase 表单校验、请求组装、页面状态转换
type DashboardUseCase struct {
	backend repo.BackendRepo
	images  repo.ImageRepo
	catalog repo.CatalogRepo
	opts    Options
	log     *log.Helper
}

// NewDashboardUseCase 创建页面业务逻辑实例
func NewDashboardUseCase(backend repo.BackendRepo, images repo.ImageRepo, catalog repo.CatalogRepo, c *conf.Dashboard, logger log.Logger) *DashboardUseCase {
	return &DashboardUseCase{
		backend: backend,
		images:  images,
		catalog: catalog,
		opts:    NewOptions(c),
		log:     log.NewHelper(logger),
	}
}

func (uc *DashboardUseCase) Options() Options {
	return uc.opts
}

// Catalog NACE 代码表，公司模式下为空
func (uc *DashboardUseCase) Catalog() []domain.NaceCode {
	if uc.opts.Mode != domain.ModeNace {
		return nil
	}
	return uc.catalog.Codes()
}

// Validate 收集全部缺失的必填项后一次性报告；必填项齐全后再检查取值
func (uc *DashboardUseCase) Validate(form domain.FormInput) error {
	var missing []string
	if form.Identifier() == "" {
		missing = append(missing, uc.opts.Mode.Label())
	}
	if len(form.SelectedDetails) == 0 {
		missing = append(missing, "Details")
	}
	if form.FromDate.IsZero() {
		missing = append(missing, "From Date")
	}
	if form.ToDate.IsZero() {
		missing = append(missing, "To Date")
	}
	if len(missing) > 0 {
		return domain.ErrMissingFields(missing)
	}

	var problems []string
	if form.FromDate.After(form.ToDate) {
		problems = append(problems, "From Date must not be after To Date")
	}
	if uc.opts.Mode == domain.ModeNace && !uc.knownCode(form.Identifier()) {
		problems = append(problems, fmt.Sprintf("unknown NACE code %q", form.Identifier()))
	}
	if uc.opts.Forecast {
		if form.ForecastYears < 1 || form.ForecastYears > uc.opts.MaxForecastYears {
			problems = append(problems, fmt.Sprintf("Forecast Years must be between 1 and %d", uc.opts.MaxForecastYears))
		}
		if !form.LLMChoice.Valid() {
			problems = append(problems, "LLM must be gemini or chatgpt")
		}
	}
	if len(problems) > 0 {
		return domain.ErrInvalidFields(problems)
	}
	return nil
}

func (uc *DashboardUseCase) knownCode(code string) bool {
	codes := uc.catalog.Codes()
	// 未配置代码表时不限制取值
	if len(codes) == 0 {
		return true
	}
	for _, c := range codes {
		if c.Code == code {
			return true
		}
	}
	return false
}

// BuildPayload 由表单确定性地生成请求体
func (uc *DashboardUseCase) BuildPayload(form domain.FormInput) domain.Payload {
	details := make([]string, 0, len(form.SelectedDetails))
	for _, o := range domain.DetailOptions {
		if form.HasDetail(o.Label) {
			details = append(details, o.Label)
		}
	}

	p := domain.Payload{
		uc.opts.Mode.PayloadKey(): form.Identifier(),
		"region_name":             strings.TrimSpace(form.Region),
		"subregion_name":          strings.TrimSpace(form.Subregion),
		"details":                 details,
		"from_date":               domain.FormatDate(form.FromDate),
		"to_date":                 domain.FormatDate(form.ToDate),
	}
	if uc.opts.Forecast {
		p["forecast_years"] = form.ForecastYears
		p["llm_choice"] = string(form.LLMChoice)
	}
	return p
}

// Submit 处理一次提交。返回的会话总是可用的：失败时停留在输入页并附带提示，
// 返回的 error 仅用于记录日志
func (uc *DashboardUseCase) Submit(ctx context.Context, sess domain.Session, form domain.FormInput) (domain.Session, error) {
	if err := uc.Validate(form); err != nil {
		return sess.Rejected(form, notice(domain.NoticeWarning, err)), err
	}

	payload := uc.BuildPayload(form)
	uc.log.WithContext(ctx).Infof("submitting %s=%q to backend", uc.opts.Mode.PayloadKey(), form.Identifier())

	doc, err := uc.backend.Generate(ctx, payload, form.LLMChoice)
	if err != nil {
		uc.log.WithContext(ctx).Errorf("backend call failed: %v", err)
		return sess.Rejected(form, notice(domain.NoticeError, err)), err
	}
	return sess.Submitted(form, doc), nil
}

// Back 结果页返回输入页
func (uc *DashboardUseCase) Back(sess domain.Session) domain.Session {
	return sess.Back()
}

// Next 使用缓存结果回到结果页，不发起请求
func (uc *DashboardUseCase) Next(sess domain.Session) domain.Session {
	next, ok := sess.Next()
	if !ok {
		return sess.Rejected(sess.Form, domain.Notice{Level: domain.NoticeWarning, Message: "Submit the form first."})
	}
	return next
}

func notice(level domain.NoticeLevel, err error) domain.Notice {
	if e := errors.FromError(err); e != nil && e.Message != "" {
		return domain.Notice{Level: level, Message: e.Message}
	}
	return domain.Notice{Level: level, Message: err.Error()}
}
