package inventory

import (
	"Compliance-Shield/domain"
	"Compliance-Shield/entities"
	"Compliance-Shield/internal/utils/mailing"
	"Compliance-Shield/internal/utils/storage"
	"Compliance-Shield/pkg/audit"
	"Compliance-Shield/pkg/classifier"
	"Compliance-Shield/pkg/report"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const DefaultClassifyTimeout = 30 * time.Second

type (
	InventoryService interface {
		ScanProduct(ctx context.Context, userID string, image []byte) (domain.InventoryItem, error)
		GetInventory(ctx context.Context, userID string) ([]domain.InventoryItem, error)
		GetItem(ctx context.Context, userID string, id string) (domain.InventoryItem, error)
		DeleteItem(ctx context.Context, userID string, id string) error
		SubmitFeedback(ctx context.Context, userID string, itemID string, req domain.SubmitFeedbackRequest) (domain.UserFeedback, error)
		GetFeedback(ctx context.Context, userID string, itemID string) ([]domain.UserFeedback, error)
		GetDashboardStats(ctx context.Context, userID string) (domain.DashboardStats, error)
		ExportReport(ctx context.Context, userID string, auditor string) ([]byte, error)
		EmailReport(ctx context.Context, userID string, auditor string, email string) error
	}

	inventoryService struct {
		inventoryRepository InventoryRepository
		classifier          classifier.Classifier
		s3                  storage.AwsS3
		mailer              mailing.Mailer
		classifyTimeout     time.Duration
		locks               *userLocks
		now                 func() time.Time
	}
)

// NewInventoryService wires the ingestion flow. s3 and mailer may be nil:
// scans are then stored without a photo and emailing reports fails.
func NewInventoryService(
	inventoryRepository InventoryRepository,
	cls classifier.Classifier,
	s3 storage.AwsS3,
	mailer mailing.Mailer,
	classifyTimeout time.Duration,
) InventoryService {
	if classifyTimeout <= 0 {
		classifyTimeout = DefaultClassifyTimeout
	}
	return &inventoryService{
		inventoryRepository: inventoryRepository,
		classifier:          cls,
		s3:                  s3,
		mailer:              mailer,
		classifyTimeout:     classifyTimeout,
		locks:               newUserLocks(),
		now:                 time.Now,
	}
}

// ScanProduct audits one label photo and appends the result to the user's
// inventory. Nothing is persisted unless every step succeeds.
func (s *inventoryService) ScanProduct(ctx context.Context, userID string, image []byte) (domain.InventoryItem, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.InventoryItem{}, domain.ErrParseUUID
	}

	if len(image) == 0 {
		return domain.InventoryItem{}, domain.ErrInvalidImageFormat
	}
	mt := mimetype.Detect(image)
	if !mimetype.EqualsAny(mt.String(), storage.AllowImage...) {
		return domain.InventoryItem{}, fmt.Errorf("%w: %s", domain.ErrInvalidImageFormat, mt.String())
	}

	raw, err := s.classify(ctx, image, mt.String())
	if err != nil {
		log.Warnw("label classification failed", "user_id", userID, "error", err)
		return domain.InventoryItem{}, err
	}

	result, err := audit.ValidateComplianceResult(raw)
	if err != nil {
		log.Warnw("classifier payload rejected", "user_id", userID, "error", err)
		return domain.InventoryItem{}, err
	}

	id := uuid.New()
	item := domain.InventoryItem{
		ComplianceResult: result,
		ID:               id.String(),
		AddedAt:          s.now().UTC(),
	}

	var objectKey string
	if s.s3 != nil {
		objectKey, err = s.s3.UploadFile(ctx, "label-"+item.ID, image, "labels", storage.AllowImage...)
		if err != nil {
			log.Warnw("label photo not stored", "item_id", item.ID, "error", err)
			objectKey = ""
		} else {
			item.ImageURL = s.s3.GetPublicLinkKey(objectKey)
		}
	}

	unlock := s.locks.lock(userID)
	defer unlock()

	if err := s.inventoryRepository.PutItem(ctx, toEntity(userUUID, id, item)); err != nil {
		if objectKey != "" {
			if delErr := s.s3.DeleteFile(context.WithoutCancel(ctx), objectKey); delErr != nil {
				log.Errorw("failed to remove orphaned label photo", "object_key", objectKey, "error", delErr)
			}
		}
		return domain.InventoryItem{}, err
	}

	log.Infow("product audited", "user_id", userID, "item_id", item.ID, "compliant", item.IsRegulatorilyCompliant)
	return item, nil
}

// classify bounds the external call. An expired deadline is a retryable failure.
func (s *inventoryService) classify(ctx context.Context, image []byte, mimeType string) (map[string]any, error) {
	cctx, cancel := context.WithTimeout(ctx, s.classifyTimeout)
	defer cancel()

	raw, err := s.classifier.ClassifyLabel(cctx, image, mimeType)
	if err != nil {
		if !errors.Is(err, domain.ErrClassificationFailure) &&
			!errors.Is(err, domain.ErrContentSafetyRejection) &&
			!errors.Is(err, domain.ErrSchemaValidation) {
			err = fmt.Errorf("%w: %v", domain.ErrClassificationFailure, err)
		}
		return nil, err
	}
	return raw, nil
}

func (s *inventoryService) GetInventory(ctx context.Context, userID string) ([]domain.InventoryItem, error) {
	items, err := s.inventoryRepository.GetInventory(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toDomainList(items), nil
}

func (s *inventoryService) GetItem(ctx context.Context, userID string, id string) (domain.InventoryItem, error) {
	item, err := s.ownedItem(ctx, userID, id)
	if err != nil {
		return domain.InventoryItem{}, err
	}
	return toDomain(*item), nil
}

// DeleteItem removes an item and its photo. Deleting an id that is not in
// the collection is a no-op.
func (s *inventoryService) DeleteItem(ctx context.Context, userID string, id string) error {
	unlock := s.locks.lock(userID)
	defer unlock()

	item, err := s.ownedItem(ctx, userID, id)
	if err != nil {
		if errors.Is(err, domain.ErrInventoryItemNotFound) {
			log.Infow("delete of absent inventory item ignored", "user_id", userID, "item_id", id)
			return nil
		}
		return err
	}

	if _, err := s.inventoryRepository.DeleteItem(ctx, userID, id); err != nil {
		return err
	}

	if item.ImageURL != "" && s.s3 != nil {
		if objectKey := s.s3.GetObjectKeyFromLink(item.ImageURL); objectKey != "" {
			if err := s.s3.DeleteFile(ctx, objectKey); err != nil {
				log.Warnw("failed to delete label photo", "object_key", objectKey, "error", err)
			}
		}
	}
	return nil
}

// SubmitFeedback appends a correction and flags the item. Feedback for an
// item that no longer exists is still recorded.
func (s *inventoryService) SubmitFeedback(ctx context.Context, userID string, itemID string, req domain.SubmitFeedbackRequest) (domain.UserFeedback, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.UserFeedback{}, domain.ErrParseUUID
	}
	feedbackType := domain.FeedbackType(req.Type)
	if !feedbackType.Valid() {
		return domain.UserFeedback{}, domain.InvalidEnumValue("type", req.Type)
	}

	if _, err := s.ownedItem(ctx, userID, itemID); err != nil && !errors.Is(err, domain.ErrInventoryItemNotFound) {
		return domain.UserFeedback{}, err
	}

	feedback := &entities.UserFeedback{
		ID:          uuid.New(),
		UserID:      userUUID,
		ItemID:      itemID,
		Type:        string(feedbackType),
		Comment:     req.Comment,
		SubmittedAt: s.now().UTC(),
	}

	unlock := s.locks.lock(userID)
	defer unlock()

	if err := s.inventoryRepository.AppendFeedback(ctx, feedback); err != nil {
		return domain.UserFeedback{}, err
	}

	marked, err := s.inventoryRepository.MarkFeedbackSubmitted(ctx, userID, itemID)
	if err != nil {
		return domain.UserFeedback{}, err
	}
	if !marked {
		log.Warnw("feedback recorded for absent inventory item", "user_id", userID, "item_id", itemID)
	}

	return feedbackToDomain(*feedback), nil
}

func (s *inventoryService) GetFeedback(ctx context.Context, userID string, itemID string) ([]domain.UserFeedback, error) {
	rows, err := s.inventoryRepository.GetFeedbackByItem(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}
	out := make([]domain.UserFeedback, 0, len(rows))
	for _, f := range rows {
		out = append(out, feedbackToDomain(f))
	}
	return out, nil
}

func (s *inventoryService) GetDashboardStats(ctx context.Context, userID string) (domain.DashboardStats, error) {
	items, err := s.GetInventory(ctx, userID)
	if err != nil {
		return domain.DashboardStats{}, err
	}
	return audit.ComputeDashboardStats(items), nil
}

func (s *inventoryService) ExportReport(ctx context.Context, userID string, auditor string) ([]byte, error) {
	items, err := s.GetInventory(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, domain.ErrEmptyInventory
	}
	return report.BuildAuditReport(auditor, s.now(), items)
}

func (s *inventoryService) EmailReport(ctx context.Context, userID string, auditor string, email string) error {
	if s.mailer == nil {
		return errors.New("mailer is not configured")
	}

	pdf, err := s.ExportReport(ctx, userID, auditor)
	if err != nil {
		return err
	}

	body := fmt.Sprintf("<p>Attached is the ComplianceShield audit report generated for %s on %s.</p>",
		auditor, s.now().Format("2006-01-02"))

	return s.mailer.SendMail(email, report.Title, body, mailing.Attachment{
		Name:        report.FileName(s.now()),
		ContentType: "application/pdf",
		Data:        pdf,
	})
}

func (s *inventoryService) ownedItem(ctx context.Context, userID string, id string) (*entities.InventoryItem, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrInventoryItemNotFound
	}

	item, err := s.inventoryRepository.GetItemByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInventoryItemNotFound
		}
		return nil, err
	}

	if item.UserID.String() != userID {
		return nil, domain.ErrUnauthorizedAccess
	}
	return item, nil
}
