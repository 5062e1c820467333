package businessflow

import (
	"testing"

	"github.com/evalforge/workforce-suite/app/services"
	"github.com/evalforge/workforce-suite/models"
	testingutil "github.com/evalforge/workforce-suite/testing"
	"github.com/stretchr/testify/require"
)

// withFlowDB provisions an isolated database for one test. Tests depending on
// it are skipped when no test database is reachable (TEST_DB_* environment).
func withFlowDB(t *testing.T, fn func(t *testing.T, testDB *testingutil.TestDB)) {
	t.Helper()

	testDB, err := testingutil.SetupTestDB()
	if err != nil {
		t.Skipf("test database unavailable: %v", err)
	}
	defer func() {
		require.NoError(t, testDB.TeardownTestDB())
	}()

	fn(t, testDB)
}

func testNotificationService() services.NotificationService {
	return services.NewNotificationService(services.NewMockEmailProvider(), "noreply@example.com")
}

func testIdentity(user *models.User) *Identity {
	return &Identity{
		ID:       user.ID,
		TenantID: user.TenantID,
		Name:     user.Name,
		Email:    user.Email,
	}
}

func testMetadata() *ClientMetadata {
	metadata := NewClientMetadata("127.0.0.1", "go-test")
	metadata.SetRequestID("test-request")
	return metadata
}
