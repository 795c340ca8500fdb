package code

import "net/http"

// Success codes
// 成功码
var (
	Success            = NewSuss(1, http.StatusOK, lang{en: "Success", zh_cn: "成功"})
	SuccessSignup      = NewSuss(2, http.StatusCreated, lang{en: "Signup Successful! Please log in to access the application and start taking notes.", zh_cn: "注册成功！请登录后开始记录笔记。"})
	SuccessLogin       = NewSuss(3, http.StatusOK, lang{en: "Login successful", zh_cn: "登录成功"})
	SuccessNoteCreate  = NewSuss(4, http.StatusCreated, lang{en: "Note created", zh_cn: "笔记已创建"})
	SuccessNoteUpdate  = NewSuss(5, http.StatusOK, lang{en: "Note updated successfully", zh_cn: "笔记更新成功"})
	SuccessNoteDelete  = NewSuss(6, http.StatusOK, lang{en: "Note deleted successfully", zh_cn: "笔记删除成功"})
	SuccessNoteShare   = NewSuss(7, http.StatusOK, lang{en: "Note shared successfully", zh_cn: "笔记分享成功"})
	SuccessNoteUnshare = NewSuss(8, http.StatusOK, lang{en: "Note unshared successfully", zh_cn: "已取消笔记分享"})
	SuccessPasswordSet = NewSuss(9, http.StatusOK, lang{en: "Password changed successfully", zh_cn: "密码修改成功"})
)

// Common errors
// 通用错误
var (
	ErrorServerInternal  = NewError(500, http.StatusInternalServerError, lang{en: "Internal Server Error", zh_cn: "服务器内部错误"})
	ErrorDBQuery         = NewError(501, http.StatusInternalServerError, lang{en: "Database query failed", zh_cn: "数据库查询失败"})
	ErrorInvalidParams   = NewError(502, http.StatusBadRequest, lang{en: "Invalid params", zh_cn: "参数错误"})
	ErrorNotFoundAPI     = NewError(503, http.StatusNotFound, lang{en: "API not found", zh_cn: "接口不存在"})
	ErrorTooManyRequests = NewError(504, http.StatusTooManyRequests, lang{en: "Too many requests", zh_cn: "请求过于频繁"})
	ErrorRequestTimeout  = NewError(505, http.StatusGatewayTimeout, lang{en: "Request timeout", zh_cn: "请求超时"})
	ErrorAdminOnly       = NewError(506, http.StatusForbidden, lang{en: "Administrator permission required", zh_cn: "需要管理员权限"})
)

// Authentication and user errors
// 认证与用户错误
var (
	ErrorNotUserAuthToken       = NewError(510, http.StatusUnauthorized, lang{en: "Authentication credentials were not provided.", zh_cn: "未提供认证凭据"})
	ErrorInvalidUserAuthToken   = NewError(511, http.StatusUnauthorized, lang{en: "Given token not valid for any token type", zh_cn: "认证 Token 无效或已过期"})
	ErrorTokenGenerate          = NewError(512, http.StatusInternalServerError, lang{en: "Failed to generate token", zh_cn: "Token 生成失败"})
	ErrorUserLoginFailed        = NewError(513, http.StatusNotFound, lang{en: "User not found", zh_cn: "用户不存在或密码错误"})
	ErrorUserNotFound           = NewError(514, http.StatusNotFound, lang{en: "User not found", zh_cn: "用户不存在"})
	ErrorUserAlreadyExists      = NewError(515, http.StatusBadRequest, lang{en: "A user with that username already exists.", zh_cn: "该用户名已被注册"})
	ErrorUserEmailAlreadyExists = NewError(516, http.StatusBadRequest, lang{en: "A user with that email id already exists.", zh_cn: "该邮箱已被注册"})
	ErrorUserUsernameNotValid   = NewError(517, http.StatusBadRequest, lang{en: "Username may only contain letters, numbers and underscores (3-20 characters)", zh_cn: "用户名只能包含字母、数字和下划线（3-20 个字符）"})
	ErrorUserPasswordNotMatch   = NewError(518, http.StatusBadRequest, lang{en: "Passwords do not match", zh_cn: "两次输入的密码不一致"})
	ErrorUserOldPasswordFailed  = NewError(519, http.StatusBadRequest, lang{en: "Old password is incorrect", zh_cn: "旧密码错误"})
	ErrorUserRegisterIsDisable  = NewError(520, http.StatusForbidden, lang{en: "User registration is disabled", zh_cn: "用户注册已关闭"})
	ErrorPasswordHash           = NewError(521, http.StatusInternalServerError, lang{en: "Failed to process password", zh_cn: "密码处理失败"})
)

// Note errors
// 笔记错误
var (
	ErrorNoteNotFound           = NewError(530, http.StatusNotFound, lang{en: "Note not found", zh_cn: "笔记不存在"})
	ErrorNoteContentRequired    = NewError(531, http.StatusBadRequest, lang{en: "Note content is required", zh_cn: "笔记内容不能为空"})
	ErrorNoteReadForbidden      = NewError(532, http.StatusForbidden, lang{en: "You do not have permission to view this note", zh_cn: "您没有权限查看此笔记"})
	ErrorNoteEditForbidden      = NewError(533, http.StatusForbidden, lang{en: "You do not have permission to edit this note", zh_cn: "您没有权限编辑此笔记"})
	ErrorNoteDeleteForbidden    = NewError(534, http.StatusForbidden, lang{en: "You do not have permission to delete this note", zh_cn: "您没有权限删除此笔记"})
	ErrorNoteShareForbidden     = NewError(535, http.StatusForbidden, lang{en: "You are not the owner of this note, permission denied", zh_cn: "您不是此笔记的所有者，无权操作"})
	ErrorNoteHistoryForbidden   = NewError(536, http.StatusForbidden, lang{en: "You do not have permission to view the history of this note", zh_cn: "您没有权限查看此笔记的历史记录"})
	ErrorNoteConflict           = NewError(537, http.StatusConflict, lang{en: "Note was modified concurrently, please retry", zh_cn: "笔记已被并发修改，请重试"})
	ErrorShareUsernamesRequired = NewError(538, http.StatusBadRequest, lang{en: "Shared users are required", zh_cn: "分享用户不能为空"})
)
