package code

import (
	"fmt"
	"net/http"
	"strings"
)

// Code is a response code with a bilingual message and an HTTP status.
// Code 业务响应码，包含双语消息与 HTTP 状态
type Code struct {
	// 状态码
	code int
	// 状态
	status bool
	// HTTP 状态码
	httpStatus int
	// 错误消息
	Lang lang
	// 数据
	data interface{}
	// 是否含有Data
	haveData bool
	// 错误详细信息
	details []string
	// 是否含有详情
	haveDetails bool
	// 原始错误，仅用于日志，不会输出给客户端
	cause error
}

var codes = map[int]string{}
var sussCodes = map[int]string{}

// NewError registers an error code. Registering the same code twice panics.
// NewError 注册错误码，重复注册会 panic
func NewError(code int, httpStatus int, l lang) *Code {
	if _, ok := codes[code]; ok {
		panic(fmt.Sprintf("错误码 %d 已经存在，请更换一个", code))
	}
	codes[code] = l.GetMessage()

	return &Code{code: code, status: false, httpStatus: httpStatus, Lang: l}
}

// NewSuss registers a success code.
// NewSuss 注册成功码
func NewSuss(code int, httpStatus int, l lang) *Code {
	if _, ok := sussCodes[code]; ok {
		panic(fmt.Sprintf("成功码 %d 已经存在，请更换一个", code))
	}
	sussCodes[code] = l.GetMessage()

	return &Code{code: code, status: true, httpStatus: httpStatus, Lang: l}
}

// Clone returns a copy of the code with all attachments.
// Registered codes are shared package values, so every With* builder works on a clone.
// Clone 返回完整副本；注册的 Code 为包级共享值，所有 With* 方法都基于副本
func (e *Code) Clone() *Code {
	c := *e
	if e.details != nil {
		c.details = append([]string(nil), e.details...)
	}
	return &c
}

// Error returns the message and, when present, the details and the cause.
// The cause is never rendered to clients (see Msg).
func (e *Code) Error() string {
	var b strings.Builder
	b.WriteString(e.Msg())
	if e.haveDetails && len(e.details) > 0 {
		b.WriteString(" [")
		b.WriteString(strings.Join(e.details, ","))
		b.WriteString("]")
	}
	if e.cause != nil {
		b.WriteString(": ")
		b.WriteString(e.cause.Error())
	}
	return b.String()
}

// Unwrap exposes the cause to errors.Is / errors.As.
func (e *Code) Unwrap() error {
	return e.cause
}

// Is reports whether target is a Code with the same numeric code.
// Is 比较数字码，支持 errors.Is(err, code.ErrorNoteNotFound)
func (e *Code) Is(target error) bool {
	t, ok := target.(*Code)
	if !ok {
		return false
	}
	return t.code == e.code
}

func (e *Code) Code() int {
	return e.code
}

func (e *Code) Status() bool {
	return e.status
}

func (e *Code) Msg() string {
	return e.Lang.GetMessage()
}

// MsgFor returns the message in the given language.
// MsgFor 返回指定语言的消息
func (e *Code) MsgFor(language string) string {
	if language == "" {
		return e.Msg()
	}
	return e.Lang.GetMessageFor(language)
}

func (e *Code) Details() []string {
	return e.details
}

func (e *Code) Data() interface{} {
	return e.data
}

func (e *Code) Cause() error {
	return e.cause
}

func (e *Code) HaveDetails() bool {
	return e.haveDetails
}

func (e *Code) HaveData() bool {
	return e.haveData
}

func (e *Code) WithData(data interface{}) *Code {
	c := e.Clone()
	c.haveData = true
	c.data = data
	return c
}

func (e *Code) WithDetails(details ...string) *Code {
	c := e.Clone()
	c.haveDetails = true
	c.details = append([]string{}, details...)
	return c
}

// WithCause attaches the underlying error for logging.
// WithCause 附加原始错误，仅用于日志
func (e *Code) WithCause(err error) *Code {
	c := e.Clone()
	c.cause = err
	return c
}

// StatusCode returns the HTTP status the code renders with.
func (e *Code) StatusCode() int {
	if e.httpStatus == 0 {
		if e.status {
			return http.StatusOK
		}
		return http.StatusInternalServerError
	}
	return e.httpStatus
}
