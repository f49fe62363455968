package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/liverool/volleymate/internal/handlers/ws"
	"github.com/liverool/volleymate/internal/httpx"
	"github.com/liverool/volleymate/internal/models"
	"github.com/liverool/volleymate/internal/service"
)

type RequestHandler struct {
	requestService *service.RequestService
	matchService   *service.MatchService
	hub            *ws.Hub
}

func NewRequestHandler(requestService *service.RequestService, matchService *service.MatchService, hub *ws.Hub) *RequestHandler {
	return &RequestHandler{
		requestService: requestService,
		matchService:   matchService,
		hub:            hub,
	}
}

func (h *RequestHandler) CreateRequest(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}

	var input service.CreateRequestInput
	if err := c.BodyParser(&input); err != nil {
		return httpx.BadRequest(c, "invalid_request_body", "Invalid request body")
	}

	request, err := h.requestService.CreateRequest(userID, input)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingLocation),
			errors.Is(err, service.ErrMissingPlace),
			errors.Is(err, service.ErrBadLevelRange),
			errors.Is(err, service.ErrInvalidType):
			return httpx.BadRequest(c, "invalid_request", err.Error())
		}
		return httpx.Internal(c, "create_failed")
	}

	return c.Status(fiber.StatusCreated).JSON(request.ToResponse())
}

// ListRequests serves the feed. ?tab=mine switches to the viewer's own
// requests; anything else is the open listing.
func (h *RequestHandler) ListRequests(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}

	tab := c.Query("tab", "open")
	limit := c.QueryInt("limit", 100)

	requests, err := h.requestService.ListRequests(userID, tab, limit)
	if err != nil {
		return httpx.Internal(c, "list_failed")
	}

	return c.JSON(fiber.Map{"requests": requests})
}

func (h *RequestHandler) GetRequest(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}

	requestID, err := c.ParamsInt("id")
	if err != nil || requestID <= 0 {
		return httpx.BadRequest(c, "invalid_request_id", "Invalid request ID")
	}

	detail, err := h.requestService.GetRequest(userID, uint(requestID))
	if err != nil {
		if errors.Is(err, service.ErrRequestNotFound) {
			return httpx.NotFound(c, "request_not_found", "Request not found")
		}
		return httpx.Internal(c, "get_failed")
	}

	return c.JSON(detail)
}

func (h *RequestHandler) UpdateStatus(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}

	requestID, err := c.ParamsInt("id")
	if err != nil || requestID <= 0 {
		return httpx.BadRequest(c, "invalid_request_id", "Invalid request ID")
	}

	var input struct {
		Status models.RequestStatus `json:"status"`
	}
	if err := c.BodyParser(&input); err != nil {
		return httpx.BadRequest(c, "invalid_request_body", "Invalid request body")
	}

	if err := h.requestService.UpdateStatus(userID, uint(requestID), input.Status); err != nil {
		switch {
		case errors.Is(err, service.ErrRequestNotFound):
			return httpx.NotFound(c, "request_not_found", "Request not found")
		case errors.Is(err, service.ErrNotOwner):
			return httpx.Forbidden(c, "not_owner", "Only the request owner can change its status")
		case errors.Is(err, service.ErrBadTransition):
			return httpx.Conflict(c, "invalid_transition", err.Error())
		}
		return httpx.Internal(c, "update_failed")
	}

	return c.JSON(fiber.Map{"message": "status updated"})
}

func (h *RequestHandler) DeleteRequest(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}

	requestID, err := c.ParamsInt("id")
	if err != nil || requestID <= 0 {
		return httpx.BadRequest(c, "invalid_request_id", "Invalid request ID")
	}

	if err := h.requestService.DeleteRequest(userID, uint(requestID)); err != nil {
		switch {
		case errors.Is(err, service.ErrRequestNotFound):
			return httpx.NotFound(c, "request_not_found", "Request not found")
		case errors.Is(err, service.ErrNotOwner):
			return httpx.Forbidden(c, "not_owner", "Only the request owner can delete it")
		case errors.Is(err, service.ErrMatchExists):
			return httpx.Conflict(c, "match_exists", err.Error())
		}
		return httpx.Internal(c, "delete_failed")
	}

	return c.JSON(fiber.Map{"message": "request deleted"})
}

func (h *RequestHandler) AddInterest(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}

	requestID, err := c.ParamsInt("id")
	if err != nil || requestID <= 0 {
		return httpx.BadRequest(c, "invalid_request_id", "Invalid request ID")
	}

	if err := h.requestService.AddInterest(userID, uint(requestID)); err != nil {
		switch {
		case errors.Is(err, service.ErrRequestNotFound):
			return httpx.NotFound(c, "request_not_found", "Request not found")
		case errors.Is(err, service.ErrOwnRequest):
			return httpx.BadRequest(c, "own_request", err.Error())
		case errors.Is(err, service.ErrRequestNotOpen):
			return httpx.Conflict(c, "request_not_open", err.Error())
		}
		return httpx.Internal(c, "interest_failed")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "interest registered"})
}

func (h *RequestHandler) WithdrawInterest(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}

	requestID, err := c.ParamsInt("id")
	if err != nil || requestID <= 0 {
		return httpx.BadRequest(c, "invalid_request_id", "Invalid request ID")
	}

	if err := h.requestService.WithdrawInterest(userID, uint(requestID)); err != nil {
		return httpx.Internal(c, "withdraw_failed")
	}

	return c.JSON(fiber.Map{"message": "interest withdrawn"})
}

func (h *RequestHandler) RejectInterest(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}

	requestID, err := c.ParamsInt("id")
	if err != nil || requestID <= 0 {
		return httpx.BadRequest(c, "invalid_request_id", "Invalid request ID")
	}
	interestedID, err := c.ParamsInt("userId")
	if err != nil || interestedID <= 0 {
		return httpx.BadRequest(c, "invalid_user_id", "Invalid user ID")
	}

	if err := h.requestService.RejectInterest(userID, uint(requestID), uint(interestedID)); err != nil {
		switch {
		case errors.Is(err, service.ErrRequestNotFound):
			return httpx.NotFound(c, "request_not_found", "Request not found")
		case errors.Is(err, service.ErrNotOwner):
			return httpx.Forbidden(c, "not_owner", "Only the request owner can reject interest")
		}
		return httpx.Internal(c, "reject_failed")
	}

	return c.JSON(fiber.Map{"message": "interest rejected"})
}

// Approve turns an interest into a match. Approving the same user again
// returns the existing match rather than failing.
func (h *RequestHandler) ApproveInterest(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}

	requestID, err := c.ParamsInt("id")
	if err != nil || requestID <= 0 {
		return httpx.BadRequest(c, "invalid_request_id", "Invalid request ID")
	}

	var input struct {
		UserID uint `json:"user_id"`
	}
	if err := c.BodyParser(&input); err != nil || input.UserID == 0 {
		return httpx.BadRequest(c, "invalid_user_id", "Interested user ID is required")
	}

	match, err := h.matchService.Approve(userID, uint(requestID), input.UserID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRequestNotFound):
			return httpx.NotFound(c, "request_not_found", "Request not found")
		case errors.Is(err, service.ErrNotOwner):
			return httpx.Forbidden(c, "not_owner", "Only the request owner can approve interest")
		case errors.Is(err, service.ErrNotInterested):
			return httpx.Conflict(c, "not_interested", err.Error())
		}
		return httpx.Internal(c, "approve_failed")
	}

	// Tell the approved user right away if they are connected.
	if h.hub != nil {
		h.hub.NotifyParties(fiber.Map{
			"type":       "match_created",
			"match_id":   match.ID,
			"request_id": match.RequestID,
		}, match.InterestedUserID)
	}

	return c.Status(fiber.StatusCreated).JSON(match)
}
