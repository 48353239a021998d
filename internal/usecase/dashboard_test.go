package usecase

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/go-cmp/cmp"

	"github.com/iWorld-y/memo_dashboard/internal/conf"
	"github.com/iWorld-y/memo_dashboard/internal/domain"
)

// mockBackendRepo 模拟后端
type mockBackendRepo struct {
	doc      *domain.Document
	err      error
	calls    int
	payloads []domain.Payload
}

func (m *mockBackendRepo) Generate(ctx context.Context, payload domain.Payload, model domain.LLMChoice) (*domain.Document, error) {
	m.calls++
	m.payloads = append(m.payloads, payload)
	return m.doc, m.err
}

// mockImageRepo 只认识 files 中的文件
type mockImageRepo struct {
	files map[string]bool
}

func (m *mockImageRepo) Resolve(name string) (string, string, bool) {
	attempted := "static/" + name
	if m.files[name] {
		return "/static/" + name, attempted, true
	}
	return "", attempted, false
}

type mockCatalogRepo struct {
	codes []domain.NaceCode
}

func (m *mockCatalogRepo) Codes() []domain.NaceCode {
	return m.codes
}

func newTestUseCase(backend *mockBackendRepo, c *conf.Dashboard) *DashboardUseCase {
	return NewDashboardUseCase(backend, &mockImageRepo{files: map[string]bool{"rev.png": true}}, &mockCatalogRepo{
		codes: []domain.NaceCode{{Code: "C10", Name: "Manufacture of food products"}},
	}, c, log.DefaultLogger)
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func validForm() domain.FormInput {
	return domain.FormInput{
		PrimaryIdentifier: " Acme ",
		Region:            "Europe",
		Subregion:         "Nordics",
		SelectedDetails:   []string{"Financial Market Overview", "Revenue Growth"},
		FromDate:          date(2024, 3, 5),
		ToDate:            date(2024, 12, 31),
		ForecastYears:     3,
		LLMChoice:         domain.LLMGemini,
	}
}

func TestDashboardUseCase_Submit_MissingFields(t *testing.T) {
	tests := []struct {
		name string
		form domain.FormInput
		want string
	}{
		{name: "empty", form: domain.FormInput{}, want: "Company Name,Details,From Date,To Date"},
		{name: "blank identifier", form: domain.FormInput{PrimaryIdentifier: "   ", SelectedDetails: []string{"Revenue Growth"}, FromDate: date(2024, 1, 1), ToDate: date(2024, 2, 1)}, want: "Company Name"},
		{name: "dates only", form: domain.FormInput{PrimaryIdentifier: "Acme", SelectedDetails: []string{"Revenue Growth"}}, want: "From Date,To Date"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := &mockBackendRepo{}
			uc := newTestUseCase(backend, nil)

			sess, err := uc.Submit(context.Background(), domain.NewSession(), tt.form)
			if errors.Reason(err) != domain.ReasonMissingFields {
				t.Fatalf("Submit() reason = %q, want %q", errors.Reason(err), domain.ReasonMissingFields)
			}
			if got := errors.FromError(err).Metadata["fields"]; got != tt.want {
				t.Errorf("missing fields = %q, want %q", got, tt.want)
			}
			if backend.calls != 0 {
				t.Errorf("backend called %d times, want 0", backend.calls)
			}
			if sess.Screen != domain.ScreenInput || sess.Notice == nil || sess.Notice.Level != domain.NoticeWarning {
				t.Errorf("unexpected session %+v", sess)
			}
			if diff := cmp.Diff(tt.form, sess.Form); diff != "" {
				t.Errorf("form not kept (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDashboardUseCase_Validate_Invalid(t *testing.T) {
	uc := newTestUseCase(&mockBackendRepo{}, &conf.Dashboard{Profile: &conf.Profile{Mode: "nace", Forecast: true}, MaxForecastYears: 5})

	form := validForm()
	form.PrimaryIdentifier = "Z99"
	form.FromDate, form.ToDate = form.ToDate, form.FromDate
	form.ForecastYears = 6
	form.LLMChoice = "claude"

	err := uc.Validate(form)
	if errors.Reason(err) != domain.ReasonInvalidFields {
		t.Fatalf("Validate() reason = %q", errors.Reason(err))
	}
	msg := errors.FromError(err).Message
	for _, want := range []string{"From Date", "Z99", "between 1 and 5", "gemini or chatgpt"} {
		if !strings.Contains(msg, want) {
			t.Errorf("message %q missing %q", msg, want)
		}
	}

	form = validForm()
	form.PrimaryIdentifier = "C10"
	if err := uc.Validate(form); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestDashboardUseCase_BuildPayload(t *testing.T) {
	uc := newTestUseCase(&mockBackendRepo{}, nil)

	got := uc.BuildPayload(validForm())
	want := domain.Payload{
		"company_name":   "Acme",
		"region_name":    "Europe",
		"subregion_name": "Nordics",
		"details":        []string{"Revenue Growth", "Financial Market Overview"},
		"from_date":      "2024-03-05",
		"to_date":        "2024-12-31",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("BuildPayload() mismatch (-want +got):\n%s", diff)
	}
}

func TestDashboardUseCase_BuildPayload_Forecast(t *testing.T) {
	uc := newTestUseCase(&mockBackendRepo{}, &conf.Dashboard{Profile: &conf.Profile{Mode: "nace", Forecast: true}})

	form := validForm()
	form.PrimaryIdentifier = "C10"
	form.FromDate = date(987, 1, 2)
	got := uc.BuildPayload(form)

	if got["nace_code"] != "C10" {
		t.Errorf("nace_code = %v", got["nace_code"])
	}
	if _, ok := got["company_name"]; ok {
		t.Error("company_name must not be sent in nace mode")
	}
	if got["from_date"] != "0987-01-02" {
		t.Errorf("from_date = %v, want zero padded", got["from_date"])
	}
	if got["forecast_years"] != 3 || got["llm_choice"] != "gemini" {
		t.Errorf("forecast fields = %v, %v", got["forecast_years"], got["llm_choice"])
	}
}

func TestDashboardUseCase_Submit_BackendRejected(t *testing.T) {
	backend := &mockBackendRepo{err: domain.ErrBackendRejected([]string{"company_name"}, "company_name: unknown company")}
	uc := newTestUseCase(backend, nil)

	sess, err := uc.Submit(context.Background(), domain.NewSession(), validForm())
	if err == nil {
		t.Fatal("Submit() error = nil")
	}
	if sess.Screen != domain.ScreenInput {
		t.Errorf("screen = %v, want input", sess.Screen)
	}
	if sess.Notice == nil || !strings.Contains(sess.Notice.Message, "company_name") {
		t.Errorf("notice = %+v", sess.Notice)
	}
	if sess.HasSubmittedOnce || sess.Response != nil {
		t.Error("failed submission must not store a response")
	}
}

func TestDashboardUseCase_Submit_FailureKeepsPreviousResult(t *testing.T) {
	first := &domain.Document{Fields: []domain.Field{{Key: "company_name", Value: domain.Scalar{Text: "Acme"}}}}
	backend := &mockBackendRepo{doc: first}
	uc := newTestUseCase(backend, nil)

	sess, err := uc.Submit(context.Background(), domain.NewSession(), validForm())
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	backend.doc, backend.err = nil, domain.ErrGenerationFailed(domain.LLMGemini, "boom")
	edited := validForm()
	edited.PrimaryIdentifier = "Globex"
	sess, _ = uc.Submit(context.Background(), uc.Back(sess), edited)

	if sess.Response != first || sess.SubmittedForm.Identifier() != "Acme" {
		t.Error("previous result must survive a failed resubmission")
	}
	if sess.Form.Identifier() != "Globex" {
		t.Errorf("form = %q, want the edited values", sess.Form.Identifier())
	}
}

func TestDashboardUseCase_SubmitBackNext(t *testing.T) {
	doc := &domain.Document{Fields: []domain.Field{
		{Key: "company_name", Value: domain.Scalar{Text: "Acme"}},
		{Key: "market_data", Value: domain.List{Items: []domain.Scalar{{Text: "a"}, {Text: "b"}}}},
	}}
	backend := &mockBackendRepo{doc: doc}
	uc := newTestUseCase(backend, nil)

	sess, err := uc.Submit(context.Background(), domain.NewSession(), validForm())
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if sess.Screen != domain.ScreenResult || !sess.HasSubmittedOnce {
		t.Fatalf("unexpected session after submit: %+v", sess)
	}
	before := uc.Render(sess)

	back := uc.Back(sess)
	if back.Screen != domain.ScreenInput || back.Response != doc {
		t.Fatalf("Back() = %+v", back)
	}
	next := uc.Next(back)
	if next.Screen != domain.ScreenResult || next.Response != doc {
		t.Fatalf("Next() = %+v", next)
	}
	if diff := cmp.Diff(before, uc.Render(next)); diff != "" {
		t.Errorf("result changed after back/next (-want +got):\n%s", diff)
	}
	if backend.calls != 1 {
		t.Errorf("backend called %d times, want 1", backend.calls)
	}
}

func TestDashboardUseCase_NextWithoutSubmit(t *testing.T) {
	uc := newTestUseCase(&mockBackendRepo{}, nil)

	sess := uc.Next(domain.NewSession())
	if sess.Screen != domain.ScreenInput || sess.Notice == nil {
		t.Errorf("Next() without submit = %+v", sess)
	}
}

func TestNewOptions_Defaults(t *testing.T) {
	o := NewOptions(&conf.Dashboard{Profile: &conf.Profile{Mode: "bogus"}})
	if o.Mode != domain.ModeCompany || o.ProjectionLimit != 2 || o.ProjectionKey != "market_size_and_growth_projections" {
		t.Errorf("NewOptions() = %+v", o)
	}
}
