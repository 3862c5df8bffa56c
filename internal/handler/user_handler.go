// Package handler 提供 HTTP 请求处理器
// 本文件处理用户资料与搜索相关的 API 请求
package handler

import (
	"fusion_messenger_server/internal/dto/request"
	"fusion_messenger_server/internal/service"

	"github.com/gin-gonic/gin"
)

// UserHandler 用户相关接口
type UserHandler struct {
	userService service.UserService
}

// NewUserHandler 创建 UserHandler 实例
func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// GetMe 获取当前登录用户信息
// GET /users/me
func (h *UserHandler) GetMe(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		HandleError(c, err)
		return
	}

	rsp, err := h.userService.GetUserInfo(userID)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, rsp)
}

// UpdateMe 更新当前登录用户资料
// PUT /users/me
// 请求体: request.UpdateUserInfoRequest
func (h *UserHandler) UpdateMe(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		HandleError(c, err)
		return
	}

	var req request.UpdateUserInfoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}

	if err := h.userService.UpdateUserInfo(userID, req); err != nil {
		HandleError(c, err)
		return
	}

	rsp, err := h.userService.GetUserInfo(userID)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, rsp)
}

// SearchUsers 搜索用户
// POST /users/search
// 请求体: request.SearchUsersRequest
// 结果排除当前用户和禁用账号
func (h *UserHandler) SearchUsers(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		HandleError(c, err)
		return
	}

	var req request.SearchUsersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}

	rspList, err := h.userService.SearchUsers(userID, req.Query, req.Limit)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, rspList)
}
