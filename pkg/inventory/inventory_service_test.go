package inventory

import (
	"Compliance-Shield/domain"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type serviceFixture struct {
	svc        InventoryService
	repo       InventoryRepository
	classifier *fakeClassifier
	storage    *fakeStorage
	mailer     *fakeMailer
	userID     string
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()
	repo := NewInventoryRepository(newTestDB(t))
	f := &serviceFixture{
		repo:    repo,
		storage: newFakeStorage(),
		mailer:  &fakeMailer{},
		userID:  uuid.NewString(),
	}
	f.classifier = &fakeClassifier{payload: func() map[string]any { return auditPayload(t) }}
	f.svc = NewInventoryService(repo, f.classifier, f.storage, f.mailer, time.Second)
	return f
}

func (f *serviceFixture) count(t *testing.T) int {
	t.Helper()
	items, err := f.svc.GetInventory(context.Background(), f.userID)
	require.NoError(t, err)
	return len(items)
}

func TestScanProduct_Success(t *testing.T) {
	f := newServiceFixture(t)

	item, err := f.svc.ScanProduct(context.Background(), f.userID, jpegImage)
	require.NoError(t, err)

	_, err = uuid.Parse(item.ID)
	assert.NoError(t, err)
	assert.Equal(t, "Choco Crunch", item.ProductName)
	assert.Equal(t, domain.AudienceGeneral, item.TargetAudience)
	assert.False(t, item.AddedAt.IsZero())
	assert.Equal(t, "https://cdn.test/labels/label-"+item.ID, item.ImageURL)
	assert.False(t, item.FeedbackSubmitted)

	stored, err := f.svc.GetItem(context.Background(), f.userID, item.ID)
	require.NoError(t, err)
	assert.Equal(t, item.ComplianceResult, stored.ComplianceResult)
	assert.Equal(t, item.ImageURL, stored.ImageURL)
}

func TestScanProduct_AcceptsPNGWithoutStorage(t *testing.T) {
	f := newServiceFixture(t)
	svc := NewInventoryService(f.repo, f.classifier, nil, nil, time.Second)

	item, err := svc.ScanProduct(context.Background(), f.userID, pngImage)
	require.NoError(t, err)
	assert.Empty(t, item.ImageURL)
	assert.Equal(t, 1, f.count(t))
}

func TestScanProduct_RejectsNonImage(t *testing.T) {
	f := newServiceFixture(t)

	for _, data := range [][]byte{nil, []byte("GIF89a......"), []byte("%PDF-1.4")} {
		_, err := f.svc.ScanProduct(context.Background(), f.userID, data)
		assert.ErrorIs(t, err, domain.ErrInvalidImageFormat)
	}
	assert.Equal(t, 0, f.classifier.callCount())
	assert.Equal(t, 0, f.count(t))
}

func TestScanProduct_InvalidUser(t *testing.T) {
	f := newServiceFixture(t)

	_, err := f.svc.ScanProduct(context.Background(), "not-a-uuid", jpegImage)
	assert.ErrorIs(t, err, domain.ErrParseUUID)
}

func TestScanProduct_SafetyRejectionPersistsNothing(t *testing.T) {
	f := newServiceFixture(t)
	f.classifier.err = domain.ErrContentSafetyRejection

	_, err := f.svc.ScanProduct(context.Background(), f.userID, jpegImage)
	assert.ErrorIs(t, err, domain.ErrContentSafetyRejection)
	assert.False(t, domain.IsRetryable(err))
	assert.Equal(t, 0, f.count(t))
	assert.Empty(t, f.storage.objects)
}

func TestScanProduct_InvalidPayloadPersistsNothing(t *testing.T) {
	f := newServiceFixture(t)
	f.classifier.payload = func() map[string]any {
		p := auditPayload(t)
		p["targetAudience"] = "CHILD"
		return p
	}

	_, err := f.svc.ScanProduct(context.Background(), f.userID, jpegImage)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidEnumValue)
	assert.Equal(t, `InvalidEnumValue("targetAudience", "CHILD")`, err.Error())
	assert.Equal(t, 0, f.count(t))
	assert.Empty(t, f.storage.objects)
}

func TestScanProduct_TimeoutIsRetryable(t *testing.T) {
	f := newServiceFixture(t)
	f.classifier.block = true
	svc := NewInventoryService(f.repo, f.classifier, f.storage, nil, 20*time.Millisecond)

	_, err := svc.ScanProduct(context.Background(), f.userID, jpegImage)
	assert.ErrorIs(t, err, domain.ErrClassificationFailure)
	assert.True(t, domain.IsRetryable(err))
	assert.Equal(t, 0, f.count(t))
}

func TestScanProduct_PersistFailureRemovesPhoto(t *testing.T) {
	f := newServiceFixture(t)
	svc := NewInventoryService(failingRepository{f.repo}, f.classifier, f.storage, nil, time.Second)

	_, err := svc.ScanProduct(context.Background(), f.userID, jpegImage)
	require.Error(t, err)
	assert.Empty(t, f.storage.objects)
	require.Len(t, f.storage.deleted, 1)
	assert.True(t, strings.HasPrefix(f.storage.deleted[0], "labels/label-"))
	assert.Equal(t, 0, f.count(t))
}

func TestScanProduct_UploadFailureStillStoresAudit(t *testing.T) {
	f := newServiceFixture(t)
	f.storage.uploadErr = assert.AnError

	item, err := f.svc.ScanProduct(context.Background(), f.userID, jpegImage)
	require.NoError(t, err)
	assert.Empty(t, item.ImageURL)
	assert.Equal(t, 1, f.count(t))
}

func TestScanProduct_ConcurrentScansGetUniqueIDs(t *testing.T) {
	f := newServiceFixture(t)

	const scans = 8
	var wg sync.WaitGroup
	ids := make(chan string, scans)
	for i := 0; i < scans; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			item, err := f.svc.ScanProduct(context.Background(), f.userID, jpegImage)
			if assert.NoError(t, err) {
				ids <- item.ID
			}
		}()
	}
	wg.Wait()
	close(ids)

	seen := map[string]bool{}
	for id := range ids {
		seen[id] = true
	}
	assert.Len(t, seen, scans)
	assert.Equal(t, scans, f.count(t))
}

func TestDeleteItem(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	item, err := f.svc.ScanProduct(ctx, f.userID, jpegImage)
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteItem(ctx, f.userID, uuid.NewString()))
	require.NoError(t, f.svc.DeleteItem(ctx, f.userID, "garbage-id"))
	assert.Equal(t, 1, f.count(t))

	assert.ErrorIs(t, f.svc.DeleteItem(ctx, uuid.NewString(), item.ID), domain.ErrUnauthorizedAccess)
	assert.Equal(t, 1, f.count(t))

	require.NoError(t, f.svc.DeleteItem(ctx, f.userID, item.ID))
	assert.Equal(t, 0, f.count(t))
	assert.Equal(t, []string{"labels/label-" + item.ID}, f.storage.deleted)

	require.NoError(t, f.svc.DeleteItem(ctx, f.userID, item.ID))
}

func TestGetItem_Errors(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	item, err := f.svc.ScanProduct(ctx, f.userID, jpegImage)
	require.NoError(t, err)

	_, err = f.svc.GetItem(ctx, f.userID, uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrInventoryItemNotFound)

	_, err = f.svc.GetItem(ctx, uuid.NewString(), item.ID)
	assert.ErrorIs(t, err, domain.ErrUnauthorizedAccess)
}

func TestSubmitFeedback(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	item, err := f.svc.ScanProduct(ctx, f.userID, jpegImage)
	require.NoError(t, err)

	fb, err := f.svc.SubmitFeedback(ctx, f.userID, item.ID, domain.SubmitFeedbackRequest{
		Type:    string(domain.FeedbackMissedAllergen),
		Comment: "Contains peanuts",
	})
	require.NoError(t, err)
	assert.Equal(t, item.ID, fb.ItemID)
	assert.Equal(t, domain.FeedbackMissedAllergen, fb.Type)

	stored, err := f.svc.GetItem(ctx, f.userID, item.ID)
	require.NoError(t, err)
	assert.True(t, stored.FeedbackSubmitted)
	assert.Equal(t, item.ComplianceResult, stored.ComplianceResult)

	_, err = f.svc.SubmitFeedback(ctx, f.userID, item.ID, domain.SubmitFeedbackRequest{Type: string(domain.FeedbackOther)})
	require.NoError(t, err)

	all, err := f.svc.GetFeedback(ctx, f.userID, item.ID)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestSubmitFeedback_SurvivesItemDeletion(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	item, err := f.svc.ScanProduct(ctx, f.userID, jpegImage)
	require.NoError(t, err)
	_, err = f.svc.SubmitFeedback(ctx, f.userID, item.ID, domain.SubmitFeedbackRequest{Type: string(domain.FeedbackIncorrectExpiry)})
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteItem(ctx, f.userID, item.ID))

	_, err = f.svc.SubmitFeedback(ctx, f.userID, item.ID, domain.SubmitFeedbackRequest{Type: string(domain.FeedbackOther)})
	require.NoError(t, err)

	all, err := f.svc.GetFeedback(ctx, f.userID, item.ID)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestSubmitFeedback_InvalidType(t *testing.T) {
	f := newServiceFixture(t)

	_, err := f.svc.SubmitFeedback(context.Background(), f.userID, uuid.NewString(), domain.SubmitFeedbackRequest{Type: "Typo"})
	assert.ErrorIs(t, err, domain.ErrInvalidEnumValue)
}

func TestGetDashboardStats(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	stats, err := f.svc.GetDashboardStats(ctx, f.userID)
	require.NoError(t, err)
	assert.Equal(t, domain.DashboardStats{}, stats)

	scores := []float64{90, 70, 50}
	for i, score := range scores {
		f.classifier.payload = func() map[string]any {
			p := auditPayload(t)
			p["safetyScore"] = score
			p["isExpired"] = i == 0
			p["isRegulatorilyCompliant"] = i != 2
			if i != 1 {
				p["riskyIngredients"] = []any{}
			}
			return p
		}
		_, err := f.svc.ScanProduct(ctx, f.userID, jpegImage)
		require.NoError(t, err)
	}

	stats, err = f.svc.GetDashboardStats(ctx, f.userID)
	require.NoError(t, err)
	assert.Equal(t, domain.DashboardStats{
		TotalItems:            3,
		ExpiredCount:          1,
		RiskyCount:            1,
		RegulatoryIssuesCount: 1,
		AverageSafetyScore:    70,
	}, stats)
}

func TestExportReport(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	_, err := f.svc.ExportReport(ctx, f.userID, "9876543210")
	assert.ErrorIs(t, err, domain.ErrEmptyInventory)

	_, err = f.svc.ScanProduct(ctx, f.userID, jpegImage)
	require.NoError(t, err)

	pdf, err := f.svc.ExportReport(ctx, f.userID, "9876543210")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(pdf), "%PDF-"))
}

func TestEmailReport(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	_, err := f.svc.ScanProduct(ctx, f.userID, jpegImage)
	require.NoError(t, err)

	require.NoError(t, f.svc.EmailReport(ctx, f.userID, "9876543210", "qa@example.com"))
	assert.Equal(t, "qa@example.com", f.mailer.to)
	assert.Equal(t, "ComplianceShield Audit Report", f.mailer.subject)
	require.Len(t, f.mailer.attachments, 1)
	assert.Equal(t, "application/pdf", f.mailer.attachments[0].ContentType)
	assert.True(t, strings.HasPrefix(f.mailer.attachments[0].Name, "Compliance_Report_"))
}
