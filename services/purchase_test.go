package services

import (
	"errors"
	"testing"
	"time"

	"lms/models"
	"lms/payment"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// fakeProvider records checkout session requests and answers with a canned
// session or a failure.
type fakeProvider struct {
	requests []payment.SessionRequest
	fail     bool
}

func (f *fakeProvider) CreateSession(req payment.SessionRequest) (*payment.Session, error) {
	f.requests = append(f.requests, req)
	if f.fail {
		return nil, errors.New("connection refused")
	}
	return &payment.Session{
		ID:  "cs_test_123",
		URL: "https://checkout.example.com/cs_test_123",
		Raw: []byte(`{"id":"cs_test_123","url":"https://checkout.example.com/cs_test_123"}`),
	}, nil
}

func newPurchaseService(db *gorm.DB, provider payment.SessionCreator) *PurchaseService {
	return &PurchaseService{DB: db, Payments: provider, Currency: "usd"}
}

func TestFinalAmount(t *testing.T) {
	cases := []struct {
		price    float64
		discount float64
		want     float64
	}{
		{100, 20, 80.00},
		{100, 0, 100.00},
		{100, 100, 0.00},
		{49.99, 10, 44.99},
		{10, 25, 7.5},
	}
	for _, tc := range cases {
		got := FinalAmount(tc.price, tc.discount)
		assert.Equal(t, tc.want, got, "price %.2f discount %.0f", tc.price, tc.discount)
		assert.GreaterOrEqual(t, got, 0.0)
	}
}

func TestCheckoutCreatesPendingPurchase(t *testing.T) {
	db := newTestDB(t)
	educator := seedEducator(t, db, "edu_1")
	user := seedUser(t, db, "user_1")
	course := seedCourse(t, db, educator.ID, 100, 20, 2)

	provider := &fakeProvider{}
	svc := newPurchaseService(db, provider)

	url, err := svc.Checkout(user.ID, course.ID, "http://localhost:5173")
	require.NoError(t, err)
	assert.Equal(t, "https://checkout.example.com/cs_test_123", url)

	var purchase models.Purchase
	require.NoError(t, db.Where("user_id = ? AND course_id = ?", user.ID, course.ID).First(&purchase).Error)
	assert.Equal(t, models.PurchaseStatusPending, purchase.Status)
	assert.Equal(t, 80.00, purchase.Amount)
	assert.NotEmpty(t, purchase.TransactionID)
	assert.NotEmpty(t, purchase.SessionPayload)

	require.Len(t, provider.requests, 1)
	req := provider.requests[0]
	assert.Equal(t, int64(8000), req.AmountMinor)
	assert.Equal(t, course.Title, req.ProductName)
	assert.Equal(t, purchase.TransactionID, req.Reference)
	assert.Equal(t, "http://localhost:5173/loading/my-enrollments", req.SuccessURL)
	assert.Equal(t, "http://localhost:5173/", req.CancelURL)
}

func TestCheckoutRejectsMissingEntities(t *testing.T) {
	db := newTestDB(t)
	educator := seedEducator(t, db, "edu_1")
	user := seedUser(t, db, "user_1")
	course := seedCourse(t, db, educator.ID, 100, 0, 1)

	svc := newPurchaseService(db, &fakeProvider{})

	_, err := svc.Checkout("nobody", course.ID, "http://localhost")
	assert.Equal(t, KindNotFound, kindOf(t, err))

	_, err = svc.Checkout(user.ID, 9999, "http://localhost")
	assert.Equal(t, KindNotFound, kindOf(t, err))

	// Unpublished courses are not purchasable.
	require.NoError(t, db.Model(&models.Course{}).Where("id = ?", course.ID).Update("is_published", false).Error)
	_, err = svc.Checkout(user.ID, course.ID, "http://localhost")
	assert.Equal(t, KindNotFound, kindOf(t, err))
}

func TestCheckoutRejectsUnpricedCourse(t *testing.T) {
	db := newTestDB(t)
	educator := seedEducator(t, db, "edu_1")
	user := seedUser(t, db, "user_1")
	course := seedCourse(t, db, educator.ID, 0, 0, 1)

	svc := newPurchaseService(db, &fakeProvider{})

	_, err := svc.Checkout(user.ID, course.ID, "http://localhost")
	assert.Equal(t, KindValidation, kindOf(t, err))
}

func TestCheckoutRejectsAlreadyEnrolled(t *testing.T) {
	db := newTestDB(t)
	educator := seedEducator(t, db, "edu_1")
	user := seedUser(t, db, "user_1")
	course := seedCourse(t, db, educator.ID, 100, 0, 1)
	enroll(t, db, user.ID, course.ID)

	svc := newPurchaseService(db, &fakeProvider{})

	_, err := svc.Checkout(user.ID, course.ID, "http://localhost")
	assert.Equal(t, KindAlreadyEnrolled, kindOf(t, err))

	// No purchase record may be created for a rejected attempt.
	var count int64
	db.Model(&models.Purchase{}).Where("user_id = ?", user.ID).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestCheckoutSurfacesLookupError(t *testing.T) {
	db := newTestDB(t)
	svc := newPurchaseService(db, &fakeProvider{})

	// A broken read is not the same as an absent row.
	require.NoError(t, db.Migrator().DropTable(&models.User{}))

	_, err := svc.Checkout("user_1", 1, "http://localhost")
	assert.Equal(t, KindInternal, kindOf(t, err))
}

func TestCheckoutKeepsSessionWhenSnapshotWriteFails(t *testing.T) {
	db := newTestDB(t)
	educator := seedEducator(t, db, "edu_1")
	user := seedUser(t, db, "user_1")
	course := seedCourse(t, db, educator.ID, 100, 0, 1)

	// Block the snapshot write specifically; the session is already open by
	// then and the checkout must still hand back its URL.
	require.NoError(t, db.Exec(`CREATE TRIGGER block_snapshot BEFORE UPDATE OF session_payload ON purchases
		BEGIN SELECT RAISE(ABORT, 'snapshot write rejected'); END`).Error)

	svc := newPurchaseService(db, &fakeProvider{})

	url, err := svc.Checkout(user.ID, course.ID, "http://localhost")
	require.NoError(t, err)
	assert.NotEmpty(t, url)

	var purchase models.Purchase
	require.NoError(t, db.Where("user_id = ? AND course_id = ?", user.ID, course.ID).First(&purchase).Error)
	assert.Equal(t, models.PurchaseStatusPending, purchase.Status)
	assert.Empty(t, purchase.SessionPayload)
}

func TestCheckoutUpstreamFailureLeavesPurchasePending(t *testing.T) {
	db := newTestDB(t)
	educator := seedEducator(t, db, "edu_1")
	user := seedUser(t, db, "user_1")
	course := seedCourse(t, db, educator.ID, 50, 0, 1)

	svc := newPurchaseService(db, &fakeProvider{fail: true})

	_, err := svc.Checkout(user.ID, course.ID, "http://localhost")
	require.Error(t, err)
	serviceErr := err.(*Error)
	assert.Equal(t, KindUpstreamUnavailable, serviceErr.Kind)
	assert.True(t, serviceErr.Retryable())

	// The purchase record survives for the sweeper to fail later.
	var purchase models.Purchase
	require.NoError(t, db.Where("user_id = ? AND course_id = ?", user.ID, course.ID).First(&purchase).Error)
	assert.Equal(t, models.PurchaseStatusPending, purchase.Status)
}

func settleReadyPurchase(t *testing.T, db *gorm.DB, svc *PurchaseService, userID string, courseID uint) models.Purchase {
	t.Helper()
	_, err := svc.Checkout(userID, courseID, "http://localhost")
	require.NoError(t, err)
	var purchase models.Purchase
	require.NoError(t, db.Where("user_id = ? AND course_id = ?", userID, courseID).First(&purchase).Error)
	return purchase
}

func TestSettleSuccessEnrollsAndCompletes(t *testing.T) {
	db := newTestDB(t)
	educator := seedEducator(t, db, "edu_1")
	user := seedUser(t, db, "user_1")
	course := seedCourse(t, db, educator.ID, 100, 0, 1)

	svc := newPurchaseService(db, &fakeProvider{})
	purchase := settleReadyPurchase(t, db, svc, user.ID, course.ID)

	require.NoError(t, svc.Settle(purchase.TransactionID, OutcomeSuccess))

	var reloaded models.Purchase
	require.NoError(t, db.First(&reloaded, purchase.ID).Error)
	assert.Equal(t, models.PurchaseStatusCompleted, reloaded.Status)

	var enrollments int64
	db.Model(&models.Enrollment{}).Where("user_id = ? AND course_id = ?", user.ID, course.ID).Count(&enrollments)
	assert.Equal(t, int64(1), enrollments)
}

func TestSettleIsIdempotentOnDuplicateDelivery(t *testing.T) {
	db := newTestDB(t)
	educator := seedEducator(t, db, "edu_1")
	user := seedUser(t, db, "user_1")
	course := seedCourse(t, db, educator.ID, 100, 0, 1)

	svc := newPurchaseService(db, &fakeProvider{})
	purchase := settleReadyPurchase(t, db, svc, user.ID, course.ID)

	require.NoError(t, svc.Settle(purchase.TransactionID, OutcomeSuccess))
	require.NoError(t, svc.Settle(purchase.TransactionID, OutcomeSuccess))

	var completed int64
	db.Model(&models.Purchase{}).Where("user_id = ? AND status = ?", user.ID, models.PurchaseStatusCompleted).Count(&completed)
	assert.Equal(t, int64(1), completed)

	var enrollments int64
	db.Model(&models.Enrollment{}).Where("user_id = ? AND course_id = ?", user.ID, course.ID).Count(&enrollments)
	assert.Equal(t, int64(1), enrollments)
}

func TestSettleFailsSecondPurchaseForEnrolledPair(t *testing.T) {
	db := newTestDB(t)
	educator := seedEducator(t, db, "edu_1")
	user := seedUser(t, db, "user_1")
	course := seedCourse(t, db, educator.ID, 100, 0, 1)

	svc := newPurchaseService(db, &fakeProvider{})
	first := settleReadyPurchase(t, db, svc, user.ID, course.ID)

	// A second checkout that passed the enrollment check before the first
	// settled leaves two pending purchases for the same pair.
	second := models.Purchase{
		CourseID:      course.ID,
		UserID:        user.ID,
		Amount:        100,
		Status:        models.PurchaseStatusPending,
		TransactionID: "txn_second",
	}
	require.NoError(t, db.Create(&second).Error)

	require.NoError(t, svc.Settle(first.TransactionID, OutcomeSuccess))
	require.NoError(t, svc.Settle(second.TransactionID, OutcomeSuccess))

	// Only one purchase may carry the sale for the pair.
	var completed int64
	db.Model(&models.Purchase{}).
		Where("user_id = ? AND course_id = ? AND status = ?", user.ID, course.ID, models.PurchaseStatusCompleted).
		Count(&completed)
	assert.Equal(t, int64(1), completed)

	var reloaded models.Purchase
	require.NoError(t, db.First(&reloaded, second.ID).Error)
	assert.Equal(t, models.PurchaseStatusFailed, reloaded.Status)

	var enrollments int64
	db.Model(&models.Enrollment{}).Where("user_id = ? AND course_id = ?", user.ID, course.ID).Count(&enrollments)
	assert.Equal(t, int64(1), enrollments)

	// A re-delivered success now conflicts with the stored failure.
	err := svc.Settle(second.TransactionID, OutcomeSuccess)
	assert.Equal(t, KindInvalidTransition, kindOf(t, err))
	require.NoError(t, db.First(&reloaded, second.ID).Error)
	assert.Equal(t, models.PurchaseStatusFailed, reloaded.Status)
}

func TestSettleRejectsConflictingOutcome(t *testing.T) {
	db := newTestDB(t)
	educator := seedEducator(t, db, "edu_1")
	user := seedUser(t, db, "user_1")
	course := seedCourse(t, db, educator.ID, 100, 0, 1)

	svc := newPurchaseService(db, &fakeProvider{})
	purchase := settleReadyPurchase(t, db, svc, user.ID, course.ID)

	require.NoError(t, svc.Settle(purchase.TransactionID, OutcomeSuccess))

	err := svc.Settle(purchase.TransactionID, OutcomeFailure)
	assert.Equal(t, KindInvalidTransition, kindOf(t, err))

	// Stored status is untouched by the conflicting delivery.
	var reloaded models.Purchase
	require.NoError(t, db.First(&reloaded, purchase.ID).Error)
	assert.Equal(t, models.PurchaseStatusCompleted, reloaded.Status)
}

func TestSettleFailureOutcome(t *testing.T) {
	db := newTestDB(t)
	educator := seedEducator(t, db, "edu_1")
	user := seedUser(t, db, "user_1")
	course := seedCourse(t, db, educator.ID, 100, 0, 1)

	svc := newPurchaseService(db, &fakeProvider{})
	purchase := settleReadyPurchase(t, db, svc, user.ID, course.ID)

	require.NoError(t, svc.Settle(purchase.TransactionID, OutcomeFailure))

	var reloaded models.Purchase
	require.NoError(t, db.First(&reloaded, purchase.ID).Error)
	assert.Equal(t, models.PurchaseStatusFailed, reloaded.Status)

	// A failed settlement grants no enrollment.
	var enrollments int64
	db.Model(&models.Enrollment{}).Where("user_id = ?", user.ID).Count(&enrollments)
	assert.Equal(t, int64(0), enrollments)

	// Re-delivery of the failure stays a no-op; a late success is rejected.
	require.NoError(t, svc.Settle(purchase.TransactionID, OutcomeFailure))
	err := svc.Settle(purchase.TransactionID, OutcomeSuccess)
	assert.Equal(t, KindInvalidTransition, kindOf(t, err))
}

func TestSettleSurfacesUpdateError(t *testing.T) {
	db := newTestDB(t)
	educator := seedEducator(t, db, "edu_1")
	user := seedUser(t, db, "user_1")
	course := seedCourse(t, db, educator.ID, 100, 0, 1)

	svc := newPurchaseService(db, &fakeProvider{})
	purchase := settleReadyPurchase(t, db, svc, user.ID, course.ID)

	// Reads keep working while the status write errors. Settlement must
	// report the broken write instead of retrying against it forever.
	require.NoError(t, db.Exec(`CREATE TRIGGER block_fail BEFORE UPDATE ON purchases
		WHEN NEW.status = 'failed'
		BEGIN SELECT RAISE(ABORT, 'status write rejected'); END`).Error)

	err := svc.Settle(purchase.TransactionID, OutcomeFailure)
	assert.Equal(t, KindInternal, kindOf(t, err))

	var reloaded models.Purchase
	require.NoError(t, db.First(&reloaded, purchase.ID).Error)
	assert.Equal(t, models.PurchaseStatusPending, reloaded.Status)
}

func TestSettleUnknownPurchase(t *testing.T) {
	db := newTestDB(t)
	svc := newPurchaseService(db, &fakeProvider{})

	err := svc.Settle("txn_missing", OutcomeSuccess)
	assert.Equal(t, KindNotFound, kindOf(t, err))

	// Settlement never creates purchases.
	var count int64
	db.Model(&models.Purchase{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestSettleNotifiesOnFirstCompletionOnly(t *testing.T) {
	db := newTestDB(t)
	educator := seedEducator(t, db, "edu_1")
	user := seedUser(t, db, "user_1")
	course := seedCourse(t, db, educator.ID, 100, 0, 1)

	notified := make(chan string, 4)
	svc := newPurchaseService(db, &fakeProvider{})
	svc.Notify = func(u models.User, c models.Course) {
		notified <- u.ID
	}

	purchase := settleReadyPurchase(t, db, svc, user.ID, course.ID)
	require.NoError(t, svc.Settle(purchase.TransactionID, OutcomeSuccess))
	require.NoError(t, svc.Settle(purchase.TransactionID, OutcomeSuccess))

	select {
	case id := <-notified:
		assert.Equal(t, user.ID, id)
	case <-time.After(2 * time.Second):
		t.Fatal("expected an enrollment notification")
	}

	select {
	case <-notified:
		t.Fatal("duplicate delivery must not notify again")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestSweepStalePending(t *testing.T) {
	db := newTestDB(t)
	educator := seedEducator(t, db, "edu_1")
	user := seedUser(t, db, "user_1")
	course := seedCourse(t, db, educator.ID, 100, 0, 1)

	svc := newPurchaseService(db, &fakeProvider{})
	purchase := settleReadyPurchase(t, db, svc, user.ID, course.ID)

	// Fresh pending purchases are untouched.
	swept, err := svc.SweepStalePending(24 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(0), swept)

	// Age the purchase past the TTL.
	stale := time.Now().Add(-25 * time.Hour)
	require.NoError(t, db.Model(&models.Purchase{}).Where("id = ?", purchase.ID).Update("created_at", stale).Error)

	swept, err = svc.SweepStalePending(24 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), swept)

	var reloaded models.Purchase
	require.NoError(t, db.First(&reloaded, purchase.ID).Error)
	assert.Equal(t, models.PurchaseStatusFailed, reloaded.Status)

	// Terminal purchases never get swept.
	swept, err = svc.SweepStalePending(24 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(0), swept)
}
