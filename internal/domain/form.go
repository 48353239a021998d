package domain

import (
	"strings"
	"time"
)

// DetailOption 可选展示项，Label 面向用户，Key 对应响应中的图表键
type DetailOption struct {
	Label string
	Key   string
}

// DetailOptions 固定的展示项枚举，顺序即页面顺序
var DetailOptions = []DetailOption{
	{Label: "Revenue Growth", Key: "revenue_graph"},
	{Label: "Company Growth", Key: "company_growth_graph"},
	{Label: "Financial Market Overview", Key: "financial_overview_graph"},
}

// LookupDetail 根据 Label 查找展示项
func LookupDetail(label string) (DetailOption, bool) {
	for _, o := range DetailOptions {
		if o.Label == label {
			return o, true
		}
	}
	return DetailOption{}, false
}

// LLMChoice 后端使用的大模型
type LLMChoice string

const (
	LLMGemini  LLMChoice = "gemini"
	LLMChatGPT LLMChoice = "chatgpt"
)

// Valid 是否为已知模型
func (c LLMChoice) Valid() bool {
	return c == LLMGemini || c == LLMChatGPT
}

// IdentifierMode 主标识类型
type IdentifierMode string

const (
	ModeCompany IdentifierMode = "company"
	ModeNace    IdentifierMode = "nace"
)

// PayloadKey 主标识在请求体中的字段名
func (m IdentifierMode) PayloadKey() string {
	if m == ModeNace {
		return "nace_code"
	}
	return "company_name"
}

// Label 主标识在表单中的名称
func (m IdentifierMode) Label() string {
	if m == ModeNace {
		return "NACE Code"
	}
	return "Company Name"
}

// FormInput 表单输入
type FormInput struct {
	PrimaryIdentifier string
	Region            string
	Subregion         string
	// SelectedDetails 按 DetailOptions 的顺序保存已选 Label
	SelectedDetails []string
	FromDate        time.Time
	ToDate          time.Time
	ForecastYears   int
	LLMChoice       LLMChoice
}

// HasDetail 是否选择了某个展示项
func (f FormInput) HasDetail(label string) bool {
	for _, d := range f.SelectedDetails {
		if d == label {
			return true
		}
	}
	return false
}

// Identifier 去除首尾空白后的主标识
func (f FormInput) Identifier() string {
	return strings.TrimSpace(f.PrimaryIdentifier)
}

// Payload 发往后端的请求体
type Payload map[string]any

// FormatDate 统一的日期格式，与区域设置无关
func FormatDate(t time.Time) string {
	return t.Format(time.DateOnly)
}

// NaceCode 行业分类代码
type NaceCode struct {
	Code string
	Name string
}
