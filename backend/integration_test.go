package backend_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbknowledge/dbchat/backend"
	"github.com/dbknowledge/dbchat/internal/testutil"
)

// TestLiveSessionLifecycle runs against a real chat API. It needs
// DBCHAT_BACKEND_URL and DBCHAT_TEST_STAFF_ID.
func TestLiveSessionLifecycle(t *testing.T) {
	baseURL := testutil.RequireIntegration(t)
	staffID := os.Getenv("DBCHAT_TEST_STAFF_ID")
	if staffID == "" {
		t.Skip("Skipping integration test: DBCHAT_TEST_STAFF_ID not set")
	}

	client, err := backend.New(&backend.Config{BaseURL: baseURL})
	require.NoError(t, err)
	ctx := testutil.StaffContext(staffID)

	created, err := client.CreateSession(ctx, "dbchat integration test")
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = client.DeleteSession(ctx, created.ID)
	})

	sessions, err := client.ListSessions(ctx)
	require.NoError(t, err)
	var found bool
	for _, s := range sessions {
		if s.ID == created.ID {
			found = true
		}
	}
	assert.True(t, found, "created session %s not listed", created.ID)

	require.NoError(t, client.RenameSession(ctx, created.ID, "dbchat integration test (renamed)"))

	history, err := client.History(ctx, created.ID)
	require.NoError(t, err)
	assert.Empty(t, history)
}
