package businessflow

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/evalforge/workforce-suite/models"
	"github.com/evalforge/workforce-suite/utils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingCertificateRepo serves one certificate by token and counts
// verifications the way the real repository does: a single guarded increment,
// never load-then-save.
type countingCertificateRepo struct {
	mu          sync.Mutex
	certificate models.Certificate
	count       int64
	verifiedAt  *time.Time
}

func (r *countingCertificateRepo) ByVerificationToken(ctx context.Context, token string) (*models.Certificate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if token != r.certificate.VerificationToken {
		return nil, nil
	}
	certificate := r.certificate
	certificate.VerificationCount = r.count
	certificate.VerifiedAt = r.verifiedAt
	return &certificate, nil
}

func (r *countingCertificateRepo) IncrementVerification(ctx context.Context, id uint, verifiedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.count++
	r.verifiedAt = &verifiedAt
	return nil
}

func (r *countingCertificateRepo) ByID(ctx context.Context, id uint) (*models.Certificate, error) {
	return nil, nil
}

func (r *countingCertificateRepo) ByFilter(ctx context.Context, filter models.CertificateFilter, orderBy string, limit, offset int) ([]*models.Certificate, error) {
	return nil, nil
}

func (r *countingCertificateRepo) Save(ctx context.Context, certificate *models.Certificate) error {
	return nil
}

func (r *countingCertificateRepo) SaveBatch(ctx context.Context, certificates []*models.Certificate) error {
	return nil
}

func (r *countingCertificateRepo) Count(ctx context.Context, filter models.CertificateFilter) (int64, error) {
	return 0, nil
}

func (r *countingCertificateRepo) Exists(ctx context.Context, filter models.CertificateFilter) (bool, error) {
	return false, nil
}

func (r *countingCertificateRepo) ByUUID(ctx context.Context, tenantID uint, certificateUUID uuid.UUID) (*models.Certificate, error) {
	return nil, nil
}

func (r *countingCertificateRepo) ByCampaignAndRecipient(ctx context.Context, tenantID, campaignID uint, recipientID uuid.UUID) (*models.Certificate, error) {
	return nil, nil
}

func (r *countingCertificateRepo) Update(ctx context.Context, certificate *models.Certificate) error {
	return nil
}

func TestVerifyCertificateCounterMonotonicity(t *testing.T) {
	token := utils.NewVerificationToken()
	repo := &countingCertificateRepo{
		certificate: models.Certificate{
			ID:                1,
			UUID:              uuid.New(),
			Title:             "Completion Certificate",
			RecipientName:     "Jamie Doe",
			IssuerName:        "Alex Roe",
			VerificationToken: token,
			Status:            models.CertificateStatusValid,
			Type:              models.CertificateTypeCompletion,
			IssuedDate:        utils.UTCNow(),
		},
	}

	flow := NewCertificateFlow(repo, nil, nil, nil, nil, nil, nil)

	const verifiers = 64
	errs := make(chan error, verifiers)

	var wg sync.WaitGroup
	for i := 0; i < verifiers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := flow.VerifyCertificate(context.Background(), token)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
	assert.Equal(t, int64(verifiers), repo.count)
}
