package domain

import "time"

// SessionTTL 会话有效期
const SessionTTL = 24 * time.Hour

// Screen 当前页面
type Screen string

const (
	ScreenInput  Screen = "input"
	ScreenResult Screen = "result"
)

// NoticeLevel 提示级别
type NoticeLevel string

const (
	NoticeSuccess NoticeLevel = "success"
	NoticeWarning NoticeLevel = "warning"
	NoticeError   NoticeLevel = "error"
)

// Notice 页面内提示
type Notice struct {
	Level   NoticeLevel
	Message string
}

// Session 一个浏览器会话的页面状态。每次状态转换都返回新值，不修改接收者
type Session struct {
	Screen Screen
	// Form 页面上显示的最新表单值
	Form FormInput
	// SubmittedForm 产生 Response 的那次提交
	SubmittedForm    FormInput
	Response         *Document
	HasSubmittedOnce bool
	Notice           *Notice
}

// NewSession 初始会话
func NewSession() Session {
	return Session{Screen: ScreenInput}
}

// Submitted 提交成功：整体替换响应并进入结果页
func (s Session) Submitted(form FormInput, doc *Document) Session {
	return Session{
		Screen:           ScreenResult,
		Form:             form,
		SubmittedForm:    form,
		Response:         doc,
		HasSubmittedOnce: true,
		Notice:           &Notice{Level: NoticeSuccess, Message: "Data received successfully!"},
	}
}

// Rejected 提交失败：停留在输入页，保留输入值与上一次的成功结果
func (s Session) Rejected(form FormInput, notice Notice) Session {
	next := s
	next.Screen = ScreenInput
	next.Form = form
	next.Notice = &notice
	return next
}

// Back 返回输入页，不丢弃缓存的响应
func (s Session) Back() Session {
	next := s
	next.Screen = ScreenInput
	next.Notice = nil
	return next
}

// Next 无需重新请求直接回到结果页；从未成功提交过时返回 false
func (s Session) Next() (Session, bool) {
	if !s.HasSubmittedOnce || s.Response.Empty() {
		return s, false
	}
	next := s
	next.Screen = ScreenResult
	next.Notice = nil
	return next, true
}

// Viewed 渲染后清除一次性提示
func (s Session) Viewed() Session {
	next := s
	next.Notice = nil
	return next
}
