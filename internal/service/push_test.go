package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"daily-bread/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterDevice_UpsertByToken(t *testing.T) {
	db := newTestDB(t)
	svc := NewPushService(db, "")
	one := seedUser(t, db, "one")
	two := seedUser(t, db, "two")

	ctx := context.Background()
	require.NoError(t, svc.RegisterDevice(ctx, one.ID, "tok-1", "android"))
	// same physical device logs into a second account
	require.NoError(t, svc.RegisterDevice(ctx, two.ID, "tok-1", "android"))

	var devices []model.DeviceToken
	require.NoError(t, db.Find(&devices).Error)
	require.Len(t, devices, 1)
	assert.Equal(t, two.ID, devices[0].UserID, "token re-binds to the latest user")
}

func TestRegisterDevice_RefusesMissingIdentity(t *testing.T) {
	db := newTestDB(t)
	svc := NewPushService(db, "")
	assert.ErrorIs(t, svc.RegisterDevice(context.Background(), 0, "tok", ""), ErrUnauthenticated)
}

func TestNotifyUser_SendsToEachDevice(t *testing.T) {
	var got []map[string]string
	gateway := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var p map[string]string
		json.NewDecoder(r.Body).Decode(&p)
		got = append(got, p)
	}))
	defer gateway.Close()

	db := newTestDB(t)
	svc := NewPushService(db, gateway.URL)
	user := seedUser(t, db, "ana")

	ctx := context.Background()
	require.NoError(t, svc.RegisterDevice(ctx, user.ID, "tok-a", "android"))
	require.NoError(t, svc.RegisterDevice(ctx, user.ID, "tok-b", "ios"))

	require.NoError(t, svc.NotifyUser(ctx, user.ID, "New message", "hello"))
	require.Len(t, got, 2)
	assert.Equal(t, "New message", got[0]["title"])
}

func TestNotifyUser_GatewayFailureReported(t *testing.T) {
	gateway := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer gateway.Close()

	db := newTestDB(t)
	svc := NewPushService(db, gateway.URL)
	user := seedUser(t, db, "ana")

	ctx := context.Background()
	require.NoError(t, svc.RegisterDevice(ctx, user.ID, "tok-a", "android"))
	assert.Error(t, svc.NotifyUser(ctx, user.ID, "t", "b"))
}

func TestNotifyUser_NoGatewayConfigured(t *testing.T) {
	db := newTestDB(t)
	svc := NewPushService(db, "")
	assert.NoError(t, svc.NotifyUser(context.Background(), 1, "t", "b"))
}
