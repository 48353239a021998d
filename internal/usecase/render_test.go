package usecase

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/png"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/iWorld-y/memo_dashboard/internal/domain"
)

func pngBase64(t *testing.T) string {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2))); err != nil {
		t.Fatal(err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

func scalars(texts ...string) []domain.Field {
	var out []domain.Field
	for i := 0; i+1 < len(texts); i += 2 {
		out = append(out, domain.Field{Key: texts[i], Value: domain.Scalar{Text: texts[i+1]}})
	}
	return out
}

func renderDoc(uc *DashboardUseCase, form domain.FormInput, fields ...domain.Field) domain.Result {
	return uc.Render(domain.NewSession().Submitted(form, &domain.Document{Fields: fields}))
}

func TestRender_GrowthProjectionsFirstTwo(t *testing.T) {
	uc := newTestUseCase(&mockBackendRepo{}, nil)

	res := renderDoc(uc, validForm(), domain.Field{
		Key:   "market_size_and_growth_projections",
		Value: domain.Mapping{Fields: scalars("2028", "50", "2024", "10", "2026", "30", "2025", "20", "2027", "40")},
	})

	want := []domain.Section{domain.FlatMapSection{
		Label:   "Market Size And Growth Projections",
		Entries: []domain.Entry{{Label: "2028", Value: "50"}, {Label: "2024", Value: "10"}},
	}}
	if diff := cmp.Diff(want, res.Sections); diff != "" {
		t.Errorf("Render() mismatch (-want +got):\n%s", diff)
	}
}

func TestRender_GrowthProjectionsSingle(t *testing.T) {
	uc := newTestUseCase(&mockBackendRepo{}, nil)

	res := renderDoc(uc, validForm(), domain.Field{
		Key:   "market_size_and_growth_projections",
		Value: domain.Mapping{Fields: scalars("2024", "10")},
	})
	got := res.Sections[0].(domain.FlatMapSection)
	if len(got.Entries) != 1 || got.Entries[0].Value != "10" {
		t.Errorf("entries = %+v", got.Entries)
	}
}

func TestRender_InvalidBase64KeepsOtherSections(t *testing.T) {
	uc := newTestUseCase(&mockBackendRepo{}, nil)

	res := renderDoc(uc, validForm(),
		domain.Field{Key: "industry_name", Value: domain.Scalar{Text: "Food"}},
		domain.Field{Key: "path", Value: domain.Scalar{Text: "%%%not-base64%%%"}},
		domain.Field{Key: "market_drivers", Value: domain.List{Items: []domain.Scalar{{Text: "demand"}, {Text: "exports"}}}},
		domain.Field{Key: "summary", Value: domain.Scalar{Text: "steady"}},
	)

	if res.Heading != "Food Overview" {
		t.Errorf("Heading = %q", res.Heading)
	}
	want := []domain.Section{
		domain.ImageSection{Label: "Path", Caption: "Path", Notice: "Graph not generated."},
		domain.ListSection{Label: "Market Drivers", Items: []string{"demand", "exports"}},
		domain.ScalarSection{Label: "Summary", Value: "steady"},
	}
	if diff := cmp.Diff(want, res.Sections); diff != "" {
		t.Errorf("Render() mismatch (-want +got):\n%s", diff)
	}
}

func TestRender_Base64Image(t *testing.T) {
	uc := newTestUseCase(&mockBackendRepo{}, nil)
	encoded := pngBase64(t)

	for _, in := range []string{encoded, "data:image/png;base64," + encoded, encoded[:20] + "\n" + encoded[20:]} {
		res := renderDoc(uc, validForm(), domain.Field{Key: "path", Value: domain.Scalar{Text: in}})
		img := res.Sections[0].(domain.ImageSection)
		if img.Notice != "" || img.URL != "data:image/png;base64,"+encoded {
			t.Errorf("image = %+v", img)
		}
	}

	// 合法的 Base64 但不是图片
	text := base64.StdEncoding.EncodeToString([]byte("hello world"))
	res := renderDoc(uc, validForm(), domain.Field{Key: "path", Value: domain.Scalar{Text: text}})
	if res.Sections[0].(domain.ImageSection).Notice != "Graph not generated." {
		t.Errorf("non-image payload should not render: %+v", res.Sections[0])
	}
}

func TestRender_GraphsFollowSelectedDetails(t *testing.T) {
	uc := newTestUseCase(&mockBackendRepo{}, nil)
	form := validForm()
	form.SelectedDetails = []string{"Revenue Growth", "Financial Market Overview"}

	res := renderDoc(uc, form,
		domain.Field{Key: "company_name", Value: domain.Scalar{Text: "Acme"}},
		domain.Field{Key: "graphs", Value: domain.Mapping{Fields: scalars(
			"company_growth_graph", "growth.png",
			"financial_overview_graph", "missing.png",
			"revenue_graph", "rev.png",
		)}},
	)

	if res.Heading != "Acme Overview" {
		t.Errorf("Heading = %q", res.Heading)
	}
	want := []domain.Section{
		domain.ImageSection{Label: "Graphs", Caption: "Revenue Growth", URL: "/static/rev.png"},
		domain.ImageSection{Label: "Graphs", Caption: "Financial Market Overview", Notice: "Image not found: static/missing.png"},
	}
	if diff := cmp.Diff(want, res.Sections); diff != "" {
		t.Errorf("Render() mismatch (-want +got):\n%s", diff)
	}
}

func TestRender_Mappings(t *testing.T) {
	uc := newTestUseCase(&mockBackendRepo{}, nil)

	res := renderDoc(uc, validForm(),
		domain.Field{Key: "market_values", Value: domain.Mapping{Fields: scalars("total_size", "1.2bn", "cagr", "4%")}},
		domain.Field{Key: "market_data", Value: domain.Mapping{Fields: []domain.Field{
			{Key: "europe", Value: domain.Mapping{Fields: scalars("share", "30%")}},
			{Key: "note", Value: domain.Scalar{Text: "estimates"}},
			{Key: "asia", Value: domain.Mapping{Fields: []domain.Field{
				{Key: "share", Value: domain.Scalar{Text: "45%"}},
				{Key: "leaders", Value: domain.List{Items: []domain.Scalar{{Text: "A"}, {Text: "B"}}}},
			}}},
		}}},
	)

	want := []domain.Section{
		domain.FlatMapSection{Label: "Market Values", Entries: []domain.Entry{
			{Label: "Total Size", Value: "1.2bn"}, {Label: "Cagr", Value: "4%"},
		}},
		domain.NestedMapSection{
			Label:   "Market Data",
			Entries: []domain.Entry{{Label: "Note", Value: "estimates"}},
			Groups: []domain.Group{
				{Label: "Europe", Entries: []domain.Entry{{Label: "Share", Value: "30%"}}},
				{Label: "Asia", Entries: []domain.Entry{{Label: "Share", Value: "45%"}, {Label: "Leaders", Value: "A, B"}}},
			},
		},
	}
	if diff := cmp.Diff(want, res.Sections); diff != "" {
		t.Errorf("Render() mismatch (-want +got):\n%s", diff)
	}
}

func TestRender_EmptySession(t *testing.T) {
	uc := newTestUseCase(&mockBackendRepo{}, nil)
	res := uc.Render(domain.NewSession())
	if res.Heading != "Company Overview" || len(res.Sections) != 0 {
		t.Errorf("Render() = %+v", res)
	}
}

func TestDataURI_Errors(t *testing.T) {
	for _, in := range []string{"", "   ", "data:image/png;base64,", "@@@@"} {
		if _, err := DataURI(in); err == nil {
			t.Errorf("DataURI(%q) expected error", in)
		}
	}
	if _, err := DataURI(strings.Repeat("A", 8)); err == nil {
		t.Error("zero bytes are not an image")
	}
}
