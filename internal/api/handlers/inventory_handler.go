package handlers

import (
	"Compliance-Shield/domain"
	"Compliance-Shield/internal/api/presenters"
	"Compliance-Shield/pkg/inventory"
	"Compliance-Shield/pkg/report"
	"Compliance-Shield/pkg/user"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

const maxImageBytes = 10 << 20

type (
	InventoryHandler interface {
		ScanProduct(c *fiber.Ctx) error
		GetInventory(c *fiber.Ctx) error
		GetItem(c *fiber.Ctx) error
		DeleteItem(c *fiber.Ctx) error
		SubmitFeedback(c *fiber.Ctx) error
		GetFeedback(c *fiber.Ctx) error
		GetDashboardStats(c *fiber.Ctx) error
		DownloadReport(c *fiber.Ctx) error
		EmailReport(c *fiber.Ctx) error
	}

	inventoryHandler struct {
		inventoryService inventory.InventoryService
		userService      user.UserService
		validator        *validator.Validate
	}
)

func NewInventoryHandler(inventoryService inventory.InventoryService, userService user.UserService, validator *validator.Validate) InventoryHandler {
	return &inventoryHandler{
		inventoryService: inventoryService,
		userService:      userService,
		validator:        validator,
	}
}

func (h *inventoryHandler) ScanProduct(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	image, err := h.readImage(c)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedInvalidImage, err)
	}

	item, err := h.inventoryService.ScanProduct(c.Context(), userID, image)
	if err != nil {
		status, message := scanErrorStatus(err)
		return presenters.ErrorResponse(c, status, message, err)
	}

	return presenters.SuccessResponse(c, item, fiber.StatusCreated, domain.MessageSuccessScanProduct)
}

// readImage accepts a multipart "image" file or a JSON body holding base64.
func (h *inventoryHandler) readImage(c *fiber.Ctx) ([]byte, error) {
	if file, err := c.FormFile("image"); err == nil {
		if file.Size > maxImageBytes {
			return nil, fmt.Errorf("%w: image exceeds %d bytes", domain.ErrInvalidImageFormat, maxImageBytes)
		}
		f, err := file.Open()
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return io.ReadAll(io.LimitReader(f, maxImageBytes))
	}

	req := new(domain.ScanProductRequest)
	if err := c.BodyParser(req); err != nil {
		return nil, domain.ErrInvalidImageFormat
	}
	if err := h.validator.Struct(req); err != nil {
		return nil, err
	}

	data := req.Image
	if i := strings.Index(data, ","); strings.HasPrefix(data, "data:") && i >= 0 {
		data = data[i+1:]
	}
	image, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidImageFormat, err)
	}
	return image, nil
}

func (h *inventoryHandler) GetInventory(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	items, err := h.inventoryService.GetInventory(c.Context(), userID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedGetInventory, err)
	}

	return presenters.SuccessResponse(c, domain.InventoryResponse{
		Items: items,
		Total: len(items),
	}, fiber.StatusOK, domain.MessageSuccessGetInventory)
}

func (h *inventoryHandler) GetItem(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	itemID := c.Params("id")

	item, err := h.inventoryService.GetItem(c.Context(), userID, itemID)
	if err != nil {
		return presenters.ErrorResponse(c, itemErrorStatus(err), domain.MessageFailedGetInventoryItem, err)
	}

	return presenters.SuccessResponse(c, item, fiber.StatusOK, domain.MessageSuccessGetInventoryItem)
}

func (h *inventoryHandler) DeleteItem(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	itemID := c.Params("id")

	if err := h.inventoryService.DeleteItem(c.Context(), userID, itemID); err != nil {
		return presenters.ErrorResponse(c, itemErrorStatus(err), domain.MessageFailedDeleteItem, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessDeleteItem)
}

func (h *inventoryHandler) SubmitFeedback(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	itemID := c.Params("id")
	req := new(domain.SubmitFeedbackRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedSubmitFeedback, err)
	}

	feedback, err := h.inventoryService.SubmitFeedback(c.Context(), userID, itemID, *req)
	if err != nil {
		return presenters.ErrorResponse(c, itemErrorStatus(err), domain.MessageFailedSubmitFeedback, err)
	}

	return presenters.SuccessResponse(c, feedback, fiber.StatusCreated, domain.MessageSuccessSubmitFeedback)
}

func (h *inventoryHandler) GetFeedback(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	itemID := c.Params("id")

	feedback, err := h.inventoryService.GetFeedback(c.Context(), userID, itemID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedGetFeedback, err)
	}

	return presenters.SuccessResponse(c, feedback, fiber.StatusOK, domain.MessageSuccessGetFeedback)
}

func (h *inventoryHandler) GetDashboardStats(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	stats, err := h.inventoryService.GetDashboardStats(c.Context(), userID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedGetDashboardStats, err)
	}

	return presenters.SuccessResponse(c, stats, fiber.StatusOK, domain.MessageSuccessGetDashboardStats)
}

func (h *inventoryHandler) DownloadReport(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	me, err := h.userService.Me(c.Context(), userID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusNotFound, domain.MessageFailedExportReport, err)
	}

	pdf, err := h.inventoryService.ExportReport(c.Context(), userID, me.Phone)
	if err != nil {
		return presenters.ErrorResponse(c, reportErrorStatus(err), domain.MessageFailedExportReport, err)
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Attachment(report.FileName(time.Now()))
	return c.Status(fiber.StatusOK).Send(pdf)
}

func (h *inventoryHandler) EmailReport(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	req := new(domain.EmailReportRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedEmailReport, err)
	}

	me, err := h.userService.Me(c.Context(), userID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusNotFound, domain.MessageFailedEmailReport, err)
	}

	if err := h.inventoryService.EmailReport(c.Context(), userID, me.Phone, req.Email); err != nil {
		return presenters.ErrorResponse(c, reportErrorStatus(err), domain.MessageFailedEmailReport, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessEmailReport)
}

func scanErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidImageFormat):
		return fiber.StatusBadRequest, domain.MessageFailedInvalidImage
	case errors.Is(err, domain.ErrContentSafetyRejection):
		return fiber.StatusUnprocessableEntity, domain.MessageFailedSafetyBlock
	case errors.Is(err, domain.ErrClassificationFailure):
		return fiber.StatusServiceUnavailable, domain.MessageFailedClassification
	case errors.Is(err, domain.ErrSchemaValidation):
		return fiber.StatusBadGateway, domain.MessageFailedScanProduct
	case errors.Is(err, domain.ErrParseUUID):
		return fiber.StatusBadRequest, domain.MessageFailedScanProduct
	default:
		return fiber.StatusInternalServerError, domain.MessageFailedScanProduct
	}
}

func itemErrorStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrInventoryItemNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrUnauthorizedAccess):
		return fiber.StatusForbidden
	case errors.Is(err, domain.ErrSchemaValidation), errors.Is(err, domain.ErrParseUUID):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

func reportErrorStatus(err error) int {
	if errors.Is(err, domain.ErrEmptyInventory) {
		return fiber.StatusNotFound
	}
	return fiber.StatusInternalServerError
}
