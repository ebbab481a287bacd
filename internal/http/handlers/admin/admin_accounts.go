package admin

import (
	"strconv"

	"github.com/zopumarket/zopumarket/internal/http/response"
	"github.com/zopumarket/zopumarket/internal/models"
	"github.com/zopumarket/zopumarket/internal/repository"

	"github.com/gin-gonic/gin"
)

// GetAdmins pages console accounts with their roles.
func (h *Handler) GetAdmins(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	admins, total, err := h.AdminRepo.List(repository.AdminListFilter{
		Page:     page,
		PageSize: pageSize,
		Keyword:  c.Query("keyword"),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "admin fetch failed", err)
		return
	}

	items := make([]gin.H, 0, len(admins))
	for _, item := range admins {
		roles, err := h.AuthzService.GetAdminRoles(item.ID)
		if err != nil {
			respondError(c, response.CodeInternal, "role fetch failed", err)
			return
		}
		items = append(items, gin.H{
			"id":            item.ID,
			"username":      item.Username,
			"display_name":  item.DisplayName,
			"is_super":      item.IsSuper,
			"last_login_at": item.LastLoginAt,
			"created_at":    item.CreatedAt,
			"roles":         roles,
		})
	}

	response.SuccessWithPage(c, items, response.NewPagination(page, pageSize, total))
}

// CreateAdminRequest is the console account creation payload.
type CreateAdminRequest struct {
	Username    string   `json:"username" binding:"required"`
	Password    string   `json:"password" binding:"required"`
	DisplayName string   `json:"display_name"`
	Roles       []string `json:"roles"`
}

// CreateAdmin adds a console account and assigns its roles.
func (h *Handler) CreateAdmin(c *gin.Context) {
	var req CreateAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request payload", err)
		return
	}

	if err := h.AuthService.ValidatePassword(req.Password); err != nil {
		respondServiceError(c, err)
		return
	}
	existing, err := h.AdminRepo.GetByUsername(req.Username)
	if err != nil {
		respondError(c, response.CodeInternal, "admin create failed", err)
		return
	}
	if existing != nil {
		respondError(c, response.CodeConflict, "username already in use", nil)
		return
	}

	hash, err := h.AuthService.HashPassword(req.Password)
	if err != nil {
		respondError(c, response.CodeInternal, "admin create failed", err)
		return
	}
	account := &models.Admin{
		Username:     req.Username,
		PasswordHash: hash,
		DisplayName:  req.DisplayName,
	}
	if err := h.AdminRepo.Create(account); err != nil {
		respondError(c, response.CodeInternal, "admin create failed", err)
		return
	}

	if len(req.Roles) > 0 {
		if err := h.AuthzService.SetAdminRoles(account.ID, req.Roles); err != nil {
			respondError(c, response.CodeInternal, "role assignment failed", err)
			return
		}
	}

	response.Success(c, account)
}

// SetAdminRolesRequest replaces the role set of an account.
type SetAdminRolesRequest struct {
	Roles []string `json:"roles"`
}

// SetAdminRoles overrides a console account's roles.
func (h *Handler) SetAdminRoles(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req SetAdminRolesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request payload", err)
		return
	}

	account, err := h.AdminRepo.GetByID(id)
	if err != nil {
		respondError(c, response.CodeInternal, "admin fetch failed", err)
		return
	}
	if account == nil {
		respondError(c, response.CodeNotFound, "admin not found", nil)
		return
	}

	if err := h.AuthzService.SetAdminRoles(id, req.Roles); err != nil {
		respondError(c, response.CodeInternal, "role assignment failed", err)
		return
	}

	roles, err := h.AuthzService.GetAdminRoles(id)
	if err != nil {
		respondError(c, response.CodeInternal, "role fetch failed", err)
		return
	}
	response.Success(c, gin.H{"id": id, "roles": roles})
}

// DeleteAdmin removes a console account. The last account and self-removal
// are rejected.
func (h *Handler) DeleteAdmin(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	selfID, ok := getAdminID(c)
	if !ok {
		return
	}
	if id == selfID {
		respondError(c, response.CodeBadRequest, "cannot delete own account", nil)
		return
	}

	count, err := h.AdminRepo.Count()
	if err != nil {
		respondError(c, response.CodeInternal, "admin delete failed", err)
		return
	}
	if count <= 1 {
		respondError(c, response.CodeBadRequest, "cannot delete the last admin", nil)
		return
	}

	if err := h.AdminRepo.Delete(id); err != nil {
		respondError(c, response.CodeInternal, "admin delete failed", err)
		return
	}
	if err := h.AuthzService.SetAdminRoles(id, nil); err != nil {
		requestLog(c).Warnw("clear_admin_roles_failed", "admin_id", id, "error", err)
	}
	response.Success(c, gin.H{"deleted": true})
}

// GetAuthzRoles lists roles with their policies.
func (h *Handler) GetAuthzRoles(c *gin.Context) {
	roles, err := h.AuthzService.ListRoles()
	if err != nil {
		respondError(c, response.CodeInternal, "role fetch failed", err)
		return
	}

	items := make([]gin.H, 0, len(roles))
	for _, role := range roles {
		policies, err := h.AuthzService.GetRolePolicies(role)
		if err != nil {
			respondError(c, response.CodeInternal, "policy fetch failed", err)
			return
		}
		items = append(items, gin.H{"role": role, "policies": policies})
	}
	response.Success(c, items)
}

// RolePolicyRequest targets one role policy.
type RolePolicyRequest struct {
	Role   string `json:"role" binding:"required"`
	Object string `json:"object" binding:"required"`
	Action string `json:"action" binding:"required"`
}

// GrantRolePolicy attaches a policy to a role.
func (h *Handler) GrantRolePolicy(c *gin.Context) {
	var req RolePolicyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request payload", err)
		return
	}
	if err := h.AuthzService.GrantRolePolicy(req.Role, req.Object, req.Action); err != nil {
		respondError(c, response.CodeBadRequest, "policy grant failed", err)
		return
	}
	response.Success(c, nil)
}

// RevokeRolePolicy removes a policy from a role.
func (h *Handler) RevokeRolePolicy(c *gin.Context) {
	var req RolePolicyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request payload", err)
		return
	}
	if err := h.AuthzService.RevokeRolePolicy(req.Role, req.Object, req.Action); err != nil {
		respondError(c, response.CodeBadRequest, "policy revoke failed", err)
		return
	}
	response.Success(c, nil)
}
