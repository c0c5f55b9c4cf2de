package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"portfolio/internal/config"
	"portfolio/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMessageFixture(adminEmail string) (*MessageService, *fakeMessageStore, *fakeNotifier) {
	store := newFakeMessageStore()
	n := &fakeNotifier{}
	svc := NewMessageService(store, n, &config.Config{AdminEmail: adminEmail, NotifyTimeout: time.Second})
	return svc, store, n
}

func validMessage() models.CreateMessageRequest {
	return models.CreateMessageRequest{
		Name:    "Bob",
		Email:   "bob@example.com",
		Subject: "Hi",
		Message: "Let's <b>work</b> together",
	}
}

func TestMessageCreate_NotifiesAdmin(t *testing.T) {
	svc, store, n := newMessageFixture("admin@example.com")

	msg, err := svc.Create(context.Background(), validMessage())
	require.NoError(t, err)
	assert.NotEmpty(t, msg.ID)
	assert.False(t, msg.Read)

	_, err = store.GetByID(context.Background(), msg.ID)
	require.NoError(t, err)

	mails := n.mails()
	require.Len(t, mails, 1)
	assert.Equal(t, "admin@example.com", mails[0].To)
	assert.Equal(t, "New Message Received", mails[0].Subject)
	assert.Contains(t, mails[0].Text, "bob@example.com")
	assert.NotContains(t, mails[0].HTML, "<b>work</b>")
}

func TestMessageCreate_NotificationFailureIsNotFatal(t *testing.T) {
	svc, store, n := newMessageFixture("admin@example.com")
	n.err = errors.New("smtp down")

	msg, err := svc.Create(context.Background(), validMessage())
	require.NoError(t, err)
	_, err = store.GetByID(context.Background(), msg.ID)
	require.NoError(t, err)
}

func TestMessageCreate_NoAdminEmail(t *testing.T) {
	svc, _, n := newMessageFixture("")

	_, err := svc.Create(context.Background(), validMessage())
	require.NoError(t, err)
	assert.Empty(t, n.mails())
}

func TestMessageCreate_Validation(t *testing.T) {
	svc, _, _ := newMessageFixture("admin@example.com")

	req := validMessage()
	req.Subject = "   "
	_, err := svc.Create(context.Background(), req)
	kindOf(t, err, ErrMissingField)
	assert.Equal(t, "All fields are required", err.Error())

	req = validMessage()
	req.Email = "not-an-email"
	_, err = svc.Create(context.Background(), req)
	kindOf(t, err, ErrInvalidInput)
}

func TestMessageCreate_StoreFailure(t *testing.T) {
	svc, store, n := newMessageFixture("admin@example.com")
	store.failSave = true

	_, err := svc.Create(context.Background(), validMessage())
	kindOf(t, err, ErrStore)
	assert.Empty(t, n.mails())
}

func TestMessageList_UnreadFirstThenNewest(t *testing.T) {
	svc, _, _ := newMessageFixture("")
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	var ids []string
	for i := 0; i < 3; i++ {
		at := base.Add(time.Duration(i) * time.Hour)
		svc.now = func() time.Time { return at }
		m, err := svc.Create(context.Background(), validMessage())
		require.NoError(t, err)
		ids = append(ids, m.ID)
	}
	_, err := svc.MarkRead(context.Background(), ids[2])
	require.NoError(t, err)

	list, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{ids[1], ids[0], ids[2]}, []string{list[0].ID, list[1].ID, list[2].ID})
}

func TestMessageGet_MarksRead(t *testing.T) {
	svc, _, _ := newMessageFixture("")
	m, err := svc.Create(context.Background(), validMessage())
	require.NoError(t, err)

	got, err := svc.Get(context.Background(), m.ID)
	require.NoError(t, err)
	assert.True(t, got.Read)
}

func TestMessage_NotFound(t *testing.T) {
	svc, _, _ := newMessageFixture("")
	ctx := context.Background()

	_, err := svc.Get(ctx, "missing")
	kindOf(t, err, ErrNotFound)
	assert.Equal(t, "Message not found", err.Error())

	_, err = svc.MarkRead(ctx, "missing")
	kindOf(t, err, ErrNotFound)

	kindOf(t, svc.Delete(ctx, "missing"), ErrNotFound)
}

func TestMessageDelete(t *testing.T) {
	svc, _, _ := newMessageFixture("")
	m, err := svc.Create(context.Background(), validMessage())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), m.ID))
	_, err = svc.Get(context.Background(), m.ID)
	kindOf(t, err, ErrNotFound)
}
