package service

import (
	"context"
	"embed"
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/memo_dashboard/internal/domain"
	"github.com/iWorld-y/memo_dashboard/internal/repo"
	"github.com/iWorld-y/memo_dashboard/internal/usecase"
)

// SessionCookie 会话令牌的 cookie 名
const SessionCookie = "memo_session"

//go:embed templates/*.html
var templates embed.FS

// DashboardService 页面处理器：解析表单、维护会话 cookie、渲染模板
type DashboardService struct {
	uc       *usecase.DashboardUseCase
	sessions repo.SessionRepo
	tmpl     *template.Template
	log      *log.Helper
}

func NewDashboardService(uc *usecase.DashboardUseCase, sessions repo.SessionRepo, logger log.Logger) (*DashboardService, error) {
	tmpl, err := template.ParseFS(templates, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &DashboardService{
		uc:       uc,
		sessions: sessions,
		tmpl:     tmpl,
		log:      log.NewHelper(logger),
	}, nil
}

// Index 显示当前页面
func (s *DashboardService) Index(w http.ResponseWriter, r *http.Request) {
	s.transition(w, r, func(ctx context.Context, sess domain.Session) domain.Session {
		return sess
	})
}

// Submit 校验并提交表单，成功后进入结果页
func (s *DashboardService) Submit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	form := parseForm(r)
	s.transition(w, r, func(ctx context.Context, sess domain.Session) domain.Session {
		next, err := s.uc.Submit(ctx, sess, form)
		if err != nil {
			s.log.WithContext(ctx).Warnf("submission rejected: %v", err)
		}
		return next
	})
}

// Back 回到输入页
func (s *DashboardService) Back(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	s.transition(w, r, func(ctx context.Context, sess domain.Session) domain.Session {
		return s.uc.Back(sess)
	})
}

// Next 使用缓存结果回到结果页
func (s *DashboardService) Next(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	s.transition(w, r, func(ctx context.Context, sess domain.Session) domain.Session {
		return s.uc.Next(sess)
	})
}

// transition 在会话锁内执行一次状态转换并渲染结果，一次性提示在渲染后清除
func (s *DashboardService) transition(w http.ResponseWriter, r *http.Request, fn func(context.Context, domain.Session) domain.Session) {
	ctx := r.Context()
	token, err := s.token(ctx, w, r)
	if err != nil {
		s.log.WithContext(ctx).Errorf("issue session: %v", err)
		http.Error(w, "session unavailable", http.StatusInternalServerError)
		return
	}

	var shown domain.Session
	if _, err := s.sessions.Update(ctx, token, func(cur domain.Session) domain.Session {
		shown = fn(ctx, cur)
		return shown.Viewed()
	}); err != nil {
		s.log.WithContext(ctx).Errorf("update session: %v", err)
		http.Error(w, "session unavailable", http.StatusInternalServerError)
		return
	}

	var res *domain.Result
	if shown.Screen == domain.ScreenResult {
		rendered := s.uc.Render(shown)
		res = &rendered
	}
	view := newPageView(s.uc.Options(), s.uc.Catalog(), shown, res)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.ExecuteTemplate(w, "page.html", view); err != nil {
		s.log.WithContext(ctx).Errorf("render page: %v", err)
	}
}

// token 返回有效的会话令牌，没有时签发新会话并写入 cookie
func (s *DashboardService) token(ctx context.Context, w http.ResponseWriter, r *http.Request) (string, error) {
	if c, err := r.Cookie(SessionCookie); err == nil {
		if _, ok := s.sessions.Load(ctx, c.Value); ok {
			return c.Value, nil
		}
	}
	token, _, err := s.sessions.Issue(ctx)
	if err != nil {
		return "", err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(domain.SessionTTL),
	})
	return token, nil
}

// parseForm 日期无法解析时视为未填写
func parseForm(r *http.Request) domain.FormInput {
	form := domain.FormInput{
		PrimaryIdentifier: r.PostForm.Get("identifier"),
		Region:            r.PostForm.Get("region"),
		Subregion:         r.PostForm.Get("subregion"),
		LLMChoice:         domain.LLMChoice(strings.ToLower(strings.TrimSpace(r.PostForm.Get("llm_choice")))),
	}

	picked := r.PostForm["details"]
	for _, o := range domain.DetailOptions {
		for _, p := range picked {
			if p == o.Label {
				form.SelectedDetails = append(form.SelectedDetails, o.Label)
				break
			}
		}
	}

	if t, err := time.Parse(time.DateOnly, strings.TrimSpace(r.PostForm.Get("from_date"))); err == nil {
		form.FromDate = t
	}
	if t, err := time.Parse(time.DateOnly, strings.TrimSpace(r.PostForm.Get("to_date"))); err == nil {
		form.ToDate = t
	}
	if n, err := strconv.Atoi(strings.TrimSpace(r.PostForm.Get("forecast_years"))); err == nil {
		form.ForecastYears = n
	}
	return form
}
