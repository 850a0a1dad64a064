package inventory

import (
	"Compliance-Shield/entities"
	"Compliance-Shield/internal/utils/mailing"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	jpegImage = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00, 0x01}
	pngImage  = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1A, '\n', 0x00, 0x00, 0x00, 0x0D, 'I', 'H', 'D', 'R'}
)

const auditJSON = `{
  "productName": "Choco Crunch",
  "brand": "Sunrise Foods",
  "expiryDate": "2025-03-01",
  "isExpired": true,
  "ingredients": ["Sugar", "Palm Oil"],
  "riskyIngredients": [{"name": "Palm Oil", "riskLevel": "High", "reason": "Saturated fat"}],
  "healthSensitivity": {
    "diabetes": {"risk": "High", "reason": "Sugar"},
    "bp": {"risk": "Low", "reason": ""},
    "heart": {"risk": "Medium", "reason": "Palm oil"}
  },
  "safetyScore": 42,
  "recommendation": "Avoid for diabetic patients.",
  "targetAudience": "GENERAL",
  "detectedRegion": "India (FSSAI)",
  "regulatoryMarkers": ["FSSAI License"],
  "complianceViolations": [],
  "isRegulatorilyCompliant": false,
  "detailedChecklist": [{"requirement": "FSSAI license number", "status": "Passed", "regulationId": "FSSR 2.1.1", "details": "Lic 1001"}]
}`

func auditPayload(t *testing.T) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(auditJSON), &m))
	return m
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&entities.User{}, &entities.InventoryItem{}, &entities.UserFeedback{}))
	return db
}

type fakeClassifier struct {
	mu      sync.Mutex
	payload func() map[string]any
	err     error
	block   bool
	calls   int
}

func (f *fakeClassifier) ClassifyLabel(ctx context.Context, image []byte, mimeType string) (map[string]any, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.payload(), nil
}

func (f *fakeClassifier) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeStorage struct {
	mu        sync.Mutex
	objects   map[string][]byte
	deleted   []string
	uploadErr error
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: map[string][]byte{}}
}

func (f *fakeStorage) UploadFile(ctx context.Context, fileName string, data []byte, folder string, allowed ...string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	key := folder + "/" + fileName
	f.objects[key] = data
	return key, nil
}

func (f *fakeStorage) DeleteFile(ctx context.Context, objectKey string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, objectKey)
	f.deleted = append(f.deleted, objectKey)
	return nil
}

func (f *fakeStorage) GetPublicLinkKey(objectKey string) string {
	return "https://cdn.test/" + objectKey
}

func (f *fakeStorage) GetObjectKeyFromLink(link string) string {
	return strings.TrimPrefix(link, "https://cdn.test/")
}

type fakeMailer struct {
	to          string
	subject     string
	attachments []mailing.Attachment
}

func (f *fakeMailer) SendMail(toEmail string, subject string, body string, attachments ...mailing.Attachment) error {
	f.to = toEmail
	f.subject = subject
	f.attachments = attachments
	return nil
}

// failingRepository refuses every write so ingestion rollback can be observed.
type failingRepository struct {
	InventoryRepository
}

func (failingRepository) PutItem(ctx context.Context, item *entities.InventoryItem) error {
	return errors.New("disk full")
}
