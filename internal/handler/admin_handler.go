package handler

import (
	"net/http"
	"time"

	"storefront/internal/domain/model"
	"storefront/internal/repository"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /api/admin（注文・ユーザー・監査ログ）
type AdminHandler struct {
	orders *usecase.AdminOrderUsecase
	auth   *usecase.AuthUsecase
	audit  *usecase.AuditUsecase
}

func NewAdminHandler(orders *usecase.AdminOrderUsecase, auth *usecase.AuthUsecase, audit *usecase.AuditUsecase) *AdminHandler {
	return &AdminHandler{orders: orders, auth: auth, audit: audit}
}

type OrderStatusUpdateRequest struct {
	Status string `json:"status" validate:"required,oneof=PENDING PAID SHIPPED CANCELED"`
}

func (h *AdminHandler) RegisterRoutes(api *echo.Group, guards Guards) {
	admin := api.Group("/admin", guards.Admin...)

	admin.GET("/orders", h.listOrders)
	admin.PUT("/orders/:id/status", h.updateOrderStatus)
	admin.POST("/users/:id/force-logout", h.forceLogout)
	admin.GET("/audit-logs", h.listAuditLogs)
}

func parseTimeParam(c echo.Context, name string) (*time.Time, bool) {
	v := c.QueryParam(name)
	if v == "" {
		return nil, true
	}
	tm, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return nil, false
	}
	return &tm, true
}

func (h *AdminHandler) listOrders(c echo.Context) error {
	page, ok := queryInt(c, "page", 1)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid page"})
	}
	limit, ok := queryInt(c, "limit", 50)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid limit"})
	}
	from, ok := parseTimeParam(c, "from")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid from"})
	}
	to, ok := parseTimeParam(c, "to")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid to"})
	}

	out, err := h.orders.List(c.Request().Context(), repository.AdminOrderListFilter{
		Page:   page,
		Limit:  limit,
		Status: c.QueryParam("status"),
		UserID: c.QueryParam("userId"),
		From:   from,
		To:     to,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminHandler) updateOrderStatus(c echo.Context) error {
	// ★操作した管理者IDを取得（監査ログ用）
	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req OrderStatusUpdateRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	if err := h.orders.UpdateStatus(c.Request().Context(), adminID, c.Param("id"), req.Status); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Success: true, Message: "updated"})
}

func (h *AdminHandler) forceLogout(c echo.Context) error {
	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.auth.ForceLogout(c.Request().Context(), adminID, c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminHandler) listAuditLogs(c echo.Context) error {
	limit, ok := queryInt(c, "limit", 50)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid limit"})
	}
	offset, ok := queryInt(c, "offset", 0)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid offset"})
	}
	from, ok := parseTimeParam(c, "from")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid from"})
	}
	to, ok := parseTimeParam(c, "to")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid to"})
	}

	logs, err := h.audit.List(c.Request().Context(), repository.AuditLogFilter{
		ActorUserID:  c.QueryParam("actorUserId"),
		Action:       model.AuditAction(c.QueryParam("action")),
		ResourceType: model.AuditResourceType(c.QueryParam("resourceType")),
		ResourceID:   c.QueryParam("resourceId"),
		CreatedFrom:  from,
		CreatedTo:    to,
		Limit:        limit,
		Offset:       offset,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, logs)
}
