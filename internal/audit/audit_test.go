package audit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMemoryLogger(t *testing.T) {
	memory := NewMemory()
	Init(memory)
	defer Init(nil)

	ctx := context.Background()
	require.NoError(t, Log(ctx, LogEntry{EntityId: "u1", EntityType: UserEntity, Verb: Login}))
	require.NoError(t, Log(ctx, LogEntry{EntityId: "u1", EntityType: UserEntity, Verb: Logout}))
	require.NoError(t, Log(ctx, LogEntry{EntityId: "u2", EntityType: UserEntity, Verb: Login}))

	entries, err := GetByEntity(ctx, "u1", UserEntity, time.Now().Add(time.Second), 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	entries, err = GetByEntity(ctx, "u1", UserEntity, time.Now().Add(time.Second), 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestLogWithoutLogger(t *testing.T) {
	Init(nil)
	require.ErrorIs(t, Log(context.Background(), LogEntry{}), ErrorNotInitialized)
}

func TestInterpret(t *testing.T) {
	cases := map[string]LogEntry{
		"Invited a user":                       {Verb: Create, ResourceType: InvitationResource},
		"Logged into Tradedesk":                {Verb: Login},
		"Set reminder policy p1 to disable":    {Verb: Disable, ResourceType: ReminderPolicyResource, ResourceId: "p1"},
		"Updated claim template with ID tmpl1": {Verb: Update, ResourceType: ClaimTemplateResource, ResourceId: "tmpl1"},
	}
	for expected, entry := range cases {
		require.Equal(t, expected, Interpret(entry))
	}
}
