package admin

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/maison-next/internal/http/response"
	"github.com/maison-next/internal/logger"

	"github.com/gin-gonic/gin"
)

type authzRolePayload struct {
	Role string `json:"role" binding:"required"`
}

type authzPolicyPayload struct {
	Role   string `json:"role" binding:"required"`
	Object string `json:"object" binding:"required"`
	Action string `json:"action" binding:"required"`
}

type authzSetAdminRolesPayload struct {
	Roles []string `json:"roles"`
}

// decodeRoleParam 路径参数中的角色名可能经过 URL 编码
func decodeRoleParam(raw string) string {
	if decoded, err := url.PathUnescape(raw); err == nil {
		return decoded
	}
	return raw
}

// ListRoles 获取角色列表
func (h *Handler) ListRoles(c *gin.Context) {
	roles, err := h.AuthzService.ListRoles()
	if err != nil {
		respondError(c, response.CodeInternal, "roles fetch failed", err)
		return
	}
	response.Success(c, gin.H{"roles": roles})
}

// CreateRole 创建角色
func (h *Handler) CreateRole(c *gin.Context) {
	var req authzRolePayload
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}
	role, err := h.AuthzService.EnsureRole(req.Role)
	if err != nil {
		respondError(c, response.CodeBadRequest, err.Error(), nil)
		return
	}

	adminID := currentAdminID(c)
	logger.Infow("admin_authz_role_created",
		"operator_admin_id", adminID,
		"role", role,
	)
	response.Success(c, gin.H{"role": role})
}

// DeleteRole 删除角色及其全部策略
func (h *Handler) DeleteRole(c *gin.Context) {
	role := decodeRoleParam(c.Param("role"))
	if strings.TrimSpace(role) == "" {
		respondError(c, response.CodeBadRequest, "role is required", nil)
		return
	}
	if err := h.AuthzService.DeleteRole(role); err != nil {
		respondError(c, response.CodeBadRequest, err.Error(), nil)
		return
	}

	adminID := currentAdminID(c)
	logger.Infow("admin_authz_role_deleted",
		"operator_admin_id", adminID,
		"role", role,
	)
	response.SuccessWithMsg(c, "deleted", nil)
}

// GetRolePolicies 角色策略列表
func (h *Handler) GetRolePolicies(c *gin.Context) {
	role := decodeRoleParam(c.Param("role"))
	policies, err := h.AuthzService.GetRolePolicies(role)
	if err != nil {
		respondError(c, response.CodeBadRequest, err.Error(), nil)
		return
	}
	response.Success(c, gin.H{"role": role, "policies": policies})
}

// GrantRolePolicy 为角色授予策略
func (h *Handler) GrantRolePolicy(c *gin.Context) {
	var req authzPolicyPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}
	if err := h.AuthzService.GrantRolePolicy(req.Role, req.Object, req.Action); err != nil {
		respondError(c, response.CodeBadRequest, err.Error(), nil)
		return
	}

	adminID := currentAdminID(c)
	logger.Infow("admin_authz_policy_granted",
		"operator_admin_id", adminID,
		"role", req.Role,
		"object", req.Object,
		"action", req.Action,
	)
	response.SuccessWithMsg(c, "granted", nil)
}

// RevokeRolePolicy 撤销角色策略
func (h *Handler) RevokeRolePolicy(c *gin.Context) {
	var req authzPolicyPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}
	if err := h.AuthzService.RevokeRolePolicy(req.Role, req.Object, req.Action); err != nil {
		respondError(c, response.CodeBadRequest, err.Error(), nil)
		return
	}

	adminID := currentAdminID(c)
	logger.Infow("admin_authz_policy_revoked",
		"operator_admin_id", adminID,
		"role", req.Role,
		"object", req.Object,
		"action", req.Action,
	)
	response.SuccessWithMsg(c, "revoked", nil)
}

// ListAdmins 管理员及其角色列表
func (h *Handler) ListAdmins(c *gin.Context) {
	admins, err := h.AdminRepo.List()
	if err != nil {
		respondError(c, response.CodeInternal, "admins fetch failed", err)
		return
	}

	items := make([]gin.H, 0, len(admins))
	for _, admin := range admins {
		roles, roleErr := h.AuthzService.GetAdminRoles(admin.ID)
		if roleErr != nil {
			respondError(c, response.CodeInternal, "roles fetch failed", roleErr)
			return
		}
		items = append(items, gin.H{
			"id":            admin.ID,
			"username":      admin.Username,
			"is_super":      admin.IsSuper,
			"last_login_at": admin.LastLoginAt,
			"created_at":    admin.CreatedAt,
			"roles":         roles,
		})
	}
	response.Success(c, gin.H{"admins": items})
}

// SetAdminRoles 覆盖式设置管理员角色
func (h *Handler) SetAdminRoles(c *gin.Context) {
	targetID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, response.CodeBadRequest, "invalid admin id", nil)
		return
	}
	var req authzSetAdminRolesPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	target, err := h.AdminRepo.GetByID(uint(targetID))
	if err != nil {
		respondError(c, response.CodeInternal, "admin fetch failed", err)
		return
	}
	if target == nil {
		respondError(c, response.CodeNotFound, "admin not found", nil)
		return
	}

	if err := h.AuthzService.SetAdminRoles(uint(targetID), req.Roles); err != nil {
		respondError(c, response.CodeBadRequest, err.Error(), nil)
		return
	}

	operatorID := currentAdminID(c)
	logger.Infow("admin_authz_roles_assigned",
		"operator_admin_id", operatorID,
		"target_admin_id", targetID,
		"roles", req.Roles,
	)
	roles, _ := h.AuthzService.GetAdminRoles(uint(targetID))
	response.Success(c, gin.H{"admin_id": targetID, "roles": roles})
}
