package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path"
	"regexp"
	"strings"
	"time"

	awspkg "github.com/MD-HACKER07/atlanticenterprise-sub001/pkg/aws"
	apperrors "github.com/MD-HACKER07/atlanticenterprise-sub001/services/common/errors"
	"github.com/MD-HACKER07/atlanticenterprise-sub001/services/payment-service/events"
	"github.com/MD-HACKER07/atlanticenterprise-sub001/services/payment-service/models"
	"github.com/MD-HACKER07/atlanticenterprise-sub001/services/payment-service/providers"
	"github.com/MD-HACKER07/atlanticenterprise-sub001/services/payment-service/repository"
	"github.com/MD-HACKER07/atlanticenterprise-sub001/services/payment-service/signature"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const maxResumeURLExpiry = time.Hour

const paymentInUseMessage = "Payment has already been used for another application"

var resumeContentTypes = map[string]string{
	"application/pdf":    ".pdf",
	"application/msword": ".doc",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": ".docx",
}

var unsafeKeyChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// ApplicationService handles internship application submission.
type ApplicationService interface {
	Submit(ctx context.Context, req *models.SubmitApplicationRequest) (*models.InternshipApplication, error)
	Get(ctx context.Context, id uuid.UUID) (*models.InternshipApplication, error)
	ResumeUploadURL(ctx context.Context, filename, contentType string) (*models.ResumeUploadResponse, error)
}

type applicationServiceImpl struct {
	repo          repository.ApplicationRepository
	records       repository.PaymentRepository
	gateway       providers.PaymentGateway
	verifier      signature.Verifier
	presigner     awspkg.UploadPresigner
	resumeExpires time.Duration
	free          map[string]struct{}
	events        events.Publisher
	metrics       awspkg.MetricsRecorder
	logger        *zap.Logger
}

// ApplicationDeps groups the collaborators of ApplicationService. Presigner,
// Events and Metrics are optional. FreeInternships lists the internship ids
// whose applications need no payment.
type ApplicationDeps struct {
	Repo            repository.ApplicationRepository
	Records         repository.PaymentRepository
	Gateway         providers.PaymentGateway
	Verifier        signature.Verifier
	Presigner       awspkg.UploadPresigner
	ResumeExpires   time.Duration
	FreeInternships []string
	Events          events.Publisher
	Metrics         awspkg.MetricsRecorder
}

func NewApplicationService(deps ApplicationDeps, logger *zap.Logger) ApplicationService {
	pub := deps.Events
	if pub == nil {
		pub = events.NoopPublisher{}
	}
	expires := deps.ResumeExpires
	if expires <= 0 {
		expires = 15 * time.Minute
	}
	if expires > maxResumeURLExpiry {
		expires = maxResumeURLExpiry
	}
	free := make(map[string]struct{}, len(deps.FreeInternships))
	for _, id := range deps.FreeInternships {
		free[id] = struct{}{}
	}
	return &applicationServiceImpl{
		free:          free,
		repo:          deps.Repo,
		records:       deps.Records,
		gateway:       deps.Gateway,
		verifier:      deps.Verifier,
		presigner:     deps.Presigner,
		resumeExpires: expires,
		events:        pub,
		metrics:       deps.Metrics,
		logger:        logger,
	}
}

// Submit stores an application. Payment status is waived when the internship is
// on the free list, paid only for a verified callback triple that no other
// application holds, and unpaid otherwise. A store failure is returned to the caller.
func (s *applicationServiceImpl) Submit(ctx context.Context, req *models.SubmitApplicationRequest) (*models.InternshipApplication, error) {
	app := &models.InternshipApplication{
		ID:            uuid.New(),
		InternshipID:  req.InternshipID,
		FullName:      strings.TrimSpace(req.FullName),
		Email:         strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:         req.Phone,
		College:       req.College,
		ResumeURL:     req.ResumeURL,
		CoverLetter:   req.CoverLetter,
		PaymentStatus: models.PaymentStatusUnpaid,
	}

	payment, hasPayment := req.Payment()
	_, free := s.free[req.InternshipID]
	switch {
	case free:
		app.PaymentStatus = models.PaymentStatusWaived
	case hasPayment:
		if payment.OrderID == "" || payment.PaymentID == "" || payment.Signature == "" {
			return nil, apperrors.InvalidRequest("Missing payment verification parameters")
		}
		if !s.verifier.Verify(payment.OrderID, payment.PaymentID, payment.Signature) {
			recordCount(s.metrics, awspkg.MetricVerificationMismatch, nil)
			return nil, apperrors.VerificationMismatch()
		}
		amount, err := orderAmount(ctx, s.records, s.gateway, payment.OrderID)
		if err != nil {
			return nil, err
		}
		app.PaymentStatus = models.PaymentStatusPaid
		app.PaymentID = &payment.PaymentID
		app.OrderID = &payment.OrderID
		app.PaymentAmount = &amount
	}

	if err := s.repo.Create(ctx, app); err != nil {
		if errors.Is(err, repository.ErrPaymentAlreadyUsed) {
			s.logger.Warn("Payment already attached to another application",
				zap.String("order_id", payment.OrderID),
				zap.String("payment_id", payment.PaymentID),
			)
			return nil, apperrors.Conflict(paymentInUseMessage)
		}
		s.logger.Error("Failed to store application",
			zap.String("internship_id", app.InternshipID),
			zap.String("email", app.Email),
			zap.Error(err),
		)
		return nil, apperrors.Internal("Failed to submit application", err)
	}

	recordCount(s.metrics, awspkg.MetricApplicationsSubmitted, map[string]string{"PaymentStatus": string(app.PaymentStatus)})
	s.logger.Info("Application submitted",
		zap.String("application_id", app.ID.String()),
		zap.String("internship_id", app.InternshipID),
		zap.String("payment_status", string(app.PaymentStatus)),
	)

	event := models.PaymentEvent{
		Type:          models.EventApplicationSubmitted,
		ApplicationID: app.ID.String(),
		Timestamp:     time.Now().UTC(),
	}
	if app.PaymentStatus == models.PaymentStatusPaid {
		event.OrderID = *app.OrderID
		event.PaymentID = *app.PaymentID
		event.Amount = *app.PaymentAmount
	}
	publish(ctx, s.events, s.logger, event)

	return app, nil
}

func (s *applicationServiceImpl) Get(ctx context.Context, id uuid.UUID) (*models.InternshipApplication, error) {
	app, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("Application not found")
	}
	if err != nil {
		return nil, apperrors.Internal("Failed to load application", err)
	}
	return app, nil
}

// ResumeUploadURL presigns a direct upload of a resume document.
func (s *applicationServiceImpl) ResumeUploadURL(ctx context.Context, filename, contentType string) (*models.ResumeUploadResponse, error) {
	if s.presigner == nil {
		return nil, apperrors.New(http.StatusServiceUnavailable, apperrors.KindUpstreamUnavailable, "Resume uploads are not configured", nil)
	}
	if strings.TrimSpace(filename) == "" {
		return nil, apperrors.InvalidRequest("filename is required")
	}
	ext, ok := resumeContentTypes[contentType]
	if !ok {
		return nil, apperrors.InvalidRequest("content_type must be a PDF or Word document")
	}

	key := ResumeKey(filename, ext, time.Now().UTC())
	url, err := s.presigner.PresignPut(ctx, key, contentType, s.resumeExpires)
	if err != nil {
		s.logger.Error("Failed to presign resume upload", zap.String("key", key), zap.Error(err))
		return nil, apperrors.UpstreamUnavailable("Failed to create upload URL", err)
	}
	return &models.ResumeUploadResponse{
		UploadURL: url,
		Key:       key,
		ExpiresIn: int(s.resumeExpires.Seconds()),
	}, nil
}

// ResumeKey builds resumes/<yyyy>/<mm>/<uuid>-<name><ext> from an untrusted filename.
func ResumeKey(filename, ext string, now time.Time) string {
	base := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	base = strings.TrimSuffix(base, path.Ext(base))
	base = strings.Trim(unsafeKeyChars.ReplaceAllString(base, "-"), "-.")
	if base == "" {
		base = "resume"
	}
	if len(base) > 64 {
		base = base[:64]
	}
	return fmt.Sprintf("resumes/%04d/%02d/%s-%s%s", now.Year(), int(now.Month()), uuid.NewString(), base, ext)
}
