package service

import (
	"html/template"
	"strings"

	"github.com/iWorld-y/memo_dashboard/internal/domain"
	"github.com/iWorld-y/memo_dashboard/internal/usecase"
)

// pageView 模板数据
type pageView struct {
	Title   string
	Screen  string
	Notice  *domain.Notice
	Form    formView
	Mode    modeView
	CanNext bool
	Result  *resultView
}

type modeView struct {
	IdentifierLabel  string
	Nace             bool
	Forecast         bool
	MaxForecastYears int
	Codes            []domain.NaceCode
}

type formView struct {
	Identifier    string
	Region        string
	Subregion     string
	Details       []detailView
	FromDate      string
	ToDate        string
	ForecastYears int
	LLMChoice     string
	LLMChoices    []string
}

type detailView struct {
	Label   string
	Checked bool
}

type resultView struct {
	Heading  string
	Sections []sectionView
}

// sectionView 模板按 Kind 选择渲染方式
type sectionView struct {
	Kind    string
	Label   string
	Value   string
	Items   []string
	Entries []domain.Entry
	Groups  []domain.Group
	Caption string
	URL     template.URL
	Notice  string
}

func newPageView(opts usecase.Options, codes []domain.NaceCode, sess domain.Session, res *domain.Result) pageView {
	v := pageView{
		Title:   opts.Title,
		Screen:  string(sess.Screen),
		Notice:  sess.Notice,
		Form:    newFormView(sess.Form),
		CanNext: sess.HasSubmittedOnce && sess.Screen == domain.ScreenInput,
		Mode: modeView{
			IdentifierLabel:  opts.Mode.Label(),
			Nace:             opts.Mode == domain.ModeNace,
			Forecast:         opts.Forecast,
			MaxForecastYears: opts.MaxForecastYears,
			Codes:            codes,
		},
	}
	if res != nil {
		rv := &resultView{Heading: res.Heading}
		for _, s := range res.Sections {
			rv.Sections = append(rv.Sections, newSectionView(s))
		}
		v.Result = rv
	}
	return v
}

func newFormView(f domain.FormInput) formView {
	v := formView{
		Identifier:    f.PrimaryIdentifier,
		Region:        f.Region,
		Subregion:     f.Subregion,
		ForecastYears: f.ForecastYears,
		LLMChoice:     string(f.LLMChoice),
		LLMChoices:    []string{string(domain.LLMGemini), string(domain.LLMChatGPT)},
	}
	if !f.FromDate.IsZero() {
		v.FromDate = domain.FormatDate(f.FromDate)
	}
	if !f.ToDate.IsZero() {
		v.ToDate = domain.FormatDate(f.ToDate)
	}
	if v.ForecastYears == 0 {
		v.ForecastYears = 1
	}
	if v.LLMChoice == "" {
		v.LLMChoice = string(domain.LLMGemini)
	}
	for _, o := range domain.DetailOptions {
		v.Details = append(v.Details, detailView{Label: o.Label, Checked: f.HasDetail(o.Label)})
	}
	return v
}

func newSectionView(s domain.Section) sectionView {
	switch s := s.(type) {
	case domain.ScalarSection:
		return sectionView{Kind: "scalar", Label: s.Label, Value: s.Value}
	case domain.ListSection:
		return sectionView{Kind: "list", Label: s.Label, Items: s.Items}
	case domain.FlatMapSection:
		return sectionView{Kind: "flat", Label: s.Label, Entries: s.Entries}
	case domain.NestedMapSection:
		return sectionView{Kind: "nested", Label: s.Label, Entries: s.Entries, Groups: s.Groups}
	case domain.ImageSection:
		v := sectionView{Kind: "image", Label: s.Label, Caption: s.Caption, Notice: s.Notice}
		// URL 只来自 /static/ 路径或本服务校验过的 data URI
		if strings.HasPrefix(s.URL, "/") || strings.HasPrefix(s.URL, "data:image/") {
			v.URL = template.URL(s.URL)
		} else if s.URL != "" {
			v.Notice = "Graph not generated."
		}
		return v
	default:
		return sectionView{Kind: "scalar"}
	}
}
