package usecase

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/iWorld-y/memo_dashboard/internal/domain"
)

const (
	noticeGraphNotGenerated = "Graph not generated."
	noticeImageNotFound     = "Image not found: %s"
)

// Render 将会话中缓存的响应转换为结果页。每个字段独立渲染，
// 图片问题只会变成该块内的提示
func (uc *DashboardUseCase) Render(sess domain.Session) domain.Result {
	doc := sess.Response
	res := domain.Result{Heading: heading(doc, uc.opts.Mode)}
	if doc.Empty() {
		return res
	}

	for _, f := range doc.Fields {
		switch {
		case f.Key == "company_name" || f.Key == "industry_name":
			// 已用作标题
		case slices.Contains(uc.opts.ImagePathKeys, f.Key):
			res.Sections = append(res.Sections, uc.pathImages(f, sess.SubmittedForm)...)
		case slices.Contains(uc.opts.ImageBase64Keys, f.Key):
			res.Sections = append(res.Sections, base64Image(f))
		case f.Key == uc.opts.ProjectionKey:
			res.Sections = append(res.Sections, section(f.Key, limitEntries(f.Value, uc.opts.ProjectionLimit)))
		default:
			res.Sections = append(res.Sections, section(f.Key, f.Value))
		}
	}
	return res
}

func heading(doc *domain.Document, mode domain.IdentifierMode) string {
	name := doc.Text("company_name")
	if name == "" {
		name = doc.Text("industry_name")
	}
	if name == "" {
		if mode == domain.ModeNace {
			name = "Industry"
		} else {
			name = "Company"
		}
	}
	return name + " Overview"
}

// pathImages 只展示提交时选中的展示项对应的图表
func (uc *DashboardUseCase) pathImages(f domain.Field, form domain.FormInput) []domain.Section {
	label := humanize(f.Key)

	switch v := f.Value.(type) {
	case domain.Scalar:
		return []domain.Section{uc.pathImage(label, label, v.Text)}
	case domain.Mapping:
		var out []domain.Section
		for _, o := range domain.DetailOptions {
			if !form.HasDetail(o.Label) {
				continue
			}
			member, ok := v.Lookup(o.Key)
			if !ok {
				continue
			}
			name, ok := member.(domain.Scalar)
			if !ok {
				out = append(out, domain.ImageSection{Label: label, Caption: o.Label, Notice: noticeGraphNotGenerated})
				continue
			}
			out = append(out, uc.pathImage(label, o.Label, name.Text))
		}
		return out
	default:
		return []domain.Section{domain.ImageSection{Label: label, Caption: label, Notice: noticeGraphNotGenerated}}
	}
}

func (uc *DashboardUseCase) pathImage(label, caption, name string) domain.Section {
	url, attempted, ok := uc.images.Resolve(name)
	if !ok {
		return domain.ImageSection{Label: label, Caption: caption, Notice: fmt.Sprintf(noticeImageNotFound, attempted)}
	}
	return domain.ImageSection{Label: label, Caption: caption, URL: url}
}

func base64Image(f domain.Field) domain.Section {
	label := humanize(f.Key)
	s, ok := f.Value.(domain.Scalar)
	if !ok {
		return domain.ImageSection{Label: label, Caption: label, Notice: noticeGraphNotGenerated}
	}
	url, err := DataURI(s.Text)
	if err != nil {
		return domain.ImageSection{Label: label, Caption: label, Notice: noticeGraphNotGenerated}
	}
	return domain.ImageSection{Label: label, Caption: label, URL: url}
}

// DataURI 解码 Base64 图片并确认是 PNG、JPEG 或 GIF，返回可直接展示的 data URI。
// 允许带 "data:image/...;base64," 前缀
func DataURI(encoded string) (string, error) {
	encoded = strings.TrimSpace(encoded)
	if i := strings.Index(encoded, ";base64,"); strings.HasPrefix(encoded, "data:") && i >= 0 {
		encoded = encoded[i+len(";base64,"):]
	}
	encoded = strings.Join(strings.Fields(encoded), "")
	if encoded == "" {
		return "", fmt.Errorf("empty image")
	}

	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		raw, err = base64.RawStdEncoding.DecodeString(encoded)
		if err != nil {
			return "", fmt.Errorf("decode base64: %w", err)
		}
	}

	_, format, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}
	return "data:image/" + format + ";base64," + base64.StdEncoding.EncodeToString(raw), nil
}

// limitEntries 超过 n 项时只保留前 n 项（按原顺序）
func limitEntries(v domain.Value, n int) domain.Value {
	switch v := v.(type) {
	case domain.Mapping:
		if len(v.Fields) > n {
			return domain.Mapping{Fields: v.Fields[:n:n]}
		}
	case domain.List:
		if len(v.Items) > n {
			return domain.List{Items: v.Items[:n:n]}
		}
	}
	return v
}

func section(key string, v domain.Value) domain.Section {
	label := humanize(key)
	switch v := v.(type) {
	case domain.Scalar:
		return domain.ScalarSection{Label: label, Value: v.Text}
	case domain.List:
		return domain.ListSection{Label: label, Items: texts(v.Items)}
	case domain.Mapping:
		if !hasMapping(v) {
			return domain.FlatMapSection{Label: label, Entries: entries(v)}
		}
		out := domain.NestedMapSection{Label: label}
		for _, f := range v.Fields {
			if inner, ok := f.Value.(domain.Mapping); ok {
				out.Groups = append(out.Groups, domain.Group{Label: humanize(f.Key), Entries: entries(inner)})
				continue
			}
			out.Entries = append(out.Entries, domain.Entry{Label: humanize(f.Key), Value: inline(f.Value)})
		}
		return out
	default:
		return domain.ScalarSection{Label: label}
	}
}

func hasMapping(m domain.Mapping) bool {
	for _, f := range m.Fields {
		if _, ok := f.Value.(domain.Mapping); ok {
			return true
		}
	}
	return false
}

func entries(m domain.Mapping) []domain.Entry {
	out := make([]domain.Entry, 0, len(m.Fields))
	for _, f := range m.Fields {
		out = append(out, domain.Entry{Label: humanize(f.Key), Value: inline(f.Value)})
	}
	return out
}

// inline 单行文本形式
func inline(v domain.Value) string {
	switch v := v.(type) {
	case domain.Scalar:
		return v.Text
	case domain.List:
		return strings.Join(texts(v.Items), ", ")
	case domain.Mapping:
		parts := make([]string, 0, len(v.Fields))
		for _, f := range v.Fields {
			parts = append(parts, humanize(f.Key)+": "+inline(f.Value))
		}
		return strings.Join(parts, ", ")
	default:
		return ""
	}
}

func texts(items []domain.Scalar) []string {
	out := make([]string, 0, len(items))
	for _, s := range items {
		out = append(out, s.Text)
	}
	return out
}

// humanize company_name -> Company Name。Caser 有状态，不能跨 goroutine 共用
func humanize(key string) string {
	return cases.Title(language.English, cases.NoLower).String(strings.ReplaceAll(key, "_", " "))
}
