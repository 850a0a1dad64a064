package handlers

import (
	"Compliance-Shield/domain"
	"Compliance-Shield/internal/api/presenters"
	"Compliance-Shield/pkg/user"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	UserHandler interface {
		RequestOTP(c *fiber.Ctx) error
		VerifyOTP(c *fiber.Ctx) error
		Me(c *fiber.Ctx) error
	}

	userHandler struct {
		userService user.UserService
		validator   *validator.Validate
	}
)

func NewUserHandler(userService user.UserService, validator *validator.Validate) UserHandler {
	return &userHandler{
		userService: userService,
		validator:   validator,
	}
}

func (h *userHandler) RequestOTP(c *fiber.Ctx) error {
	req := new(domain.RequestOTPRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedRequestOTP, domain.ErrInvalidPhone)
	}

	res, err := h.userService.RequestOTP(c.Context(), *req)
	if err != nil {
		status := fiber.StatusInternalServerError
		if errors.Is(err, domain.ErrInvalidPhone) {
			status = fiber.StatusBadRequest
		}
		return presenters.ErrorResponse(c, status, domain.MessageFailedRequestOTP, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessRequestOTP)
}

func (h *userHandler) VerifyOTP(c *fiber.Ctx) error {
	req := new(domain.VerifyOTPRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedVerifyOTP, err)
	}

	res, err := h.userService.VerifyOTP(c.Context(), *req)
	if err != nil {
		status := fiber.StatusInternalServerError
		switch {
		case errors.Is(err, domain.ErrInvalidPhone), errors.Is(err, domain.ErrOTPNotRequested):
			status = fiber.StatusBadRequest
		case errors.Is(err, domain.ErrInvalidOTP):
			status = fiber.StatusUnauthorized
		}
		return presenters.ErrorResponse(c, status, domain.MessageFailedVerifyOTP, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessVerifyOTP)
}

func (h *userHandler) Me(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	res, err := h.userService.Me(c.Context(), userID)
	if err != nil {
		status := fiber.StatusInternalServerError
		if errors.Is(err, domain.ErrUserNotFound) {
			status = fiber.StatusNotFound
		}
		return presenters.ErrorResponse(c, status, domain.MessageFailedGetMe, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetMe)
}
