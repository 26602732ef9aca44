package services

import (
	"errors"
	"log"
	"math"
	"time"

	"lms/models"
	"lms/payment"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Settlement outcomes delivered by the payment webhook.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// EnrollmentNotifier is called after a purchase first reaches completed.
// Delivery is best effort; settlement never fails on a notification error.
type EnrollmentNotifier func(user models.User, course models.Course)

// PurchaseService owns the purchase lifecycle: creating pending purchases,
// opening checkout sessions, settling provider notifications and failing
// stale pending purchases.
type PurchaseService struct {
	DB       *gorm.DB
	Payments payment.SessionCreator
	Currency string
	Notify   EnrollmentNotifier // optional
}

// FinalAmount computes the charge for a course after its discount, rounded
// to two decimals.
func FinalAmount(price, discount float64) float64 {
	amount := price - (price*discount)/100
	return math.Round(amount*100) / 100
}

// Checkout creates a pending purchase for the user and course and opens a
// hosted checkout session with the payment provider. It returns the session
// entry URL the caller should redirect to. The purchase stays pending if the
// provider call fails; the sweeper cleans it up later.
func (s *PurchaseService) Checkout(userID string, courseID uint, origin string) (string, error) {
	var user models.User
	if err := s.DB.Where("id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", NewError(KindNotFound, "User not found!")
		}
		return "", NewError(KindInternal, "Failed to load user!")
	}

	var course models.Course
	if err := s.DB.Where("id = ? AND is_published = ?", courseID, true).First(&course).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", NewError(KindNotFound, "Course not found or not published!")
		}
		return "", NewError(KindInternal, "Failed to load course!")
	}

	if course.Price <= 0 {
		return "", NewError(KindValidation, "Course is not priced for purchase!")
	}

	// Soft check against the membership set; settlement enforces it again
	// with a set-union insert.
	var enrollment models.Enrollment
	if err := s.DB.Where("user_id = ? AND course_id = ?", userID, courseID).First(&enrollment).Error; err == nil {
		return "", NewError(KindAlreadyEnrolled, "You are already enrolled in this course.")
	}

	amount := FinalAmount(course.Price, course.Discount)

	purchase := models.Purchase{
		CourseID:      course.ID,
		UserID:        user.ID,
		Amount:        amount,
		Status:        models.PurchaseStatusPending,
		TransactionID: uuid.NewString(),
	}
	if err := s.DB.Create(&purchase).Error; err != nil {
		return "", NewError(KindInternal, "Failed to create purchase!")
	}

	session, err := s.Payments.CreateSession(payment.SessionRequest{
		AmountMinor: int64(math.Round(amount * 100)),
		Currency:    s.Currency,
		ProductName: course.Title,
		SuccessURL:  origin + "/loading/my-enrollments",
		CancelURL:   origin + "/",
		Reference:   purchase.TransactionID,
	})
	if err != nil {
		log.Printf("[PURCHASE] Checkout session failed for purchase %s: %v", purchase.TransactionID, err)
		return "", NewError(KindUpstreamUnavailable, "Payment provider is unavailable. Please retry.")
	}

	// Keep the raw session snapshot with the purchase for reconciliation.
	// The session is already open, so a failed write only loses the
	// snapshot; it must not fail the checkout.
	if err := s.DB.Model(&purchase).Update("session_payload", datatypes.JSON(session.Raw)).Error; err != nil {
		log.Printf("[PURCHASE] Failed to store session snapshot for purchase %s: %v", purchase.TransactionID, err)
	}

	return session.URL, nil
}

// Settle applies a trust-verified settlement notification to the purchase
// identified by the correlation token. Re-delivery of the same outcome is a
// no-op; a conflicting outcome on a terminal purchase is rejected and logged.
// A purchase is marked completed only after the enrollment write succeeds, so
// a failed enrollment leaves it pending and retryable. A success arriving for
// a pair that is already enrolled fails the purchase instead of completing
// it; at most one completed purchase exists per (user, course) pair.
func (s *PurchaseService) Settle(transactionID, outcome string) error {
	if outcome != OutcomeSuccess && outcome != OutcomeFailure {
		return NewError(KindValidation, "Unknown settlement outcome!")
	}

	var purchase models.Purchase
	if err := s.DB.Where("transaction_id = ?", transactionID).First(&purchase).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NewError(KindNotFound, "Purchase not found!")
		}
		return NewError(KindInternal, "Failed to load purchase!")
	}

	target := models.PurchaseStatusCompleted
	if outcome == OutcomeFailure {
		target = models.PurchaseStatusFailed
	}

	switch purchase.Status {
	case target:
		// Duplicate delivery of the same outcome.
		return nil
	case models.PurchaseStatusPending:
		// fall through to the transition below
	default:
		log.Printf("[PURCHASE] Conflicting settlement for purchase %s: stored %s, received %s",
			transactionID, purchase.Status, outcome)
		return NewError(KindInvalidTransition, "Purchase already settled with a different outcome!")
	}

	if target == models.PurchaseStatusFailed {
		done, err := s.transitionPending(purchase.ID, models.PurchaseStatusFailed)
		if err != nil {
			log.Printf("[PURCHASE] Settlement update failed for purchase %s: %v", transactionID, err)
			return NewError(KindInternal, "Failed to settle purchase!")
		}
		if done {
			return nil
		}
		// Lost the race; re-read and resolve against the winner's outcome.
		return s.Settle(transactionID, outcome)
	}

	completed := false
	var failedRows int64
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		// Idempotent set union into the membership relation. Both "sides"
		// of enrollment are views over this one table.
		enrollment := models.Enrollment{UserID: purchase.UserID, CourseID: purchase.CourseID}
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&enrollment)
		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected == 0 {
			// The pair is already enrolled, so an earlier purchase carries
			// the sale. At most one completed purchase may exist per pair;
			// this one is failed instead of recorded as a second sale.
			res = tx.Model(&models.Purchase{}).
				Where("id = ? AND status = ?", purchase.ID, models.PurchaseStatusPending).
				Update("status", models.PurchaseStatusFailed)
			if res.Error != nil {
				return res.Error
			}
			failedRows = res.RowsAffected
			return nil
		}

		// Compare-and-set on the pending status guards against a concurrent
		// duplicate delivery completing the purchase first.
		res = tx.Model(&models.Purchase{}).
			Where("id = ? AND status = ?", purchase.ID, models.PurchaseStatusPending).
			Update("status", models.PurchaseStatusCompleted)
		if res.Error != nil {
			return res.Error
		}
		completed = res.RowsAffected == 1
		return nil
	})
	if err != nil {
		log.Printf("[PURCHASE] Settlement transaction failed for purchase %s: %v", transactionID, err)
		return NewError(KindInternal, "Failed to settle purchase!")
	}

	if failedRows == 1 {
		log.Printf("[PURCHASE] Purchase %s paid for an already enrolled pair; marked failed", transactionID)
		return nil
	}

	if !completed {
		// A concurrent delivery won the CAS; re-read and resolve.
		return s.Settle(transactionID, outcome)
	}

	if s.Notify != nil {
		var user models.User
		var course models.Course
		if s.DB.Where("id = ?", purchase.UserID).First(&user).Error == nil &&
			s.DB.Where("id = ?", purchase.CourseID).First(&course).Error == nil {
			go s.Notify(user, course)
		}
	}

	return nil
}

// transitionPending compare-and-sets a pending purchase into a terminal
// status and reports whether this call performed the transition. A false
// result with a nil error means the purchase is no longer pending.
func (s *PurchaseService) transitionPending(purchaseID uint, target string) (bool, error) {
	res := s.DB.Model(&models.Purchase{}).
		Where("id = ? AND status = ?", purchaseID, models.PurchaseStatusPending).
		Update("status", target)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// SweepStalePending fails pending purchases older than ttl. Abandoned
// checkout sessions never send a cancellation, so this sweep is the only
// cleanup path for them.
func (s *PurchaseService) SweepStalePending(ttl time.Duration) (int64, error) {
	cutoff := time.Now().Add(-ttl)
	res := s.DB.Model(&models.Purchase{}).
		Where("status = ? AND created_at < ?", models.PurchaseStatusPending, cutoff).
		Update("status", models.PurchaseStatusFailed)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
