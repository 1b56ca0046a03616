package controllers_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcamargo/studentcard/internal/app/services"
)

func decodeVerification(t *testing.T, body []byte) (valid bool, message string, card map[string]any) {
	t.Helper()
	var envelope struct {
		Data struct {
			Valid   bool           `json:"valid"`
			Message string         `json:"message"`
			Card    map[string]any `json:"card"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(body, &envelope))
	return envelope.Data.Valid, envelope.Data.Message, envelope.Data.Card
}

func TestVerifyCardEndpoint(t *testing.T) {
	t.Run("valid card verifies with its payload", func(t *testing.T) {
		f := newControllerFixture(t)
		card := f.seedCard(t, "Maria Silva", f.now.AddDate(1, 0, 0))

		rec := f.do(t, http.MethodGet, "/api/v1/verify/"+card.VerificationID, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		valid, message, payload := decodeVerification(t, rec.Body.Bytes())
		assert.True(t, valid)
		assert.Equal(t, services.VerificationMessageValid, message)
		require.NotNil(t, payload)
		assert.Equal(t, "Maria Silva", payload["fullName"])
	})

	t.Run("card in the expiring window still verifies", func(t *testing.T) {
		f := newControllerFixture(t)
		card := f.seedCard(t, "João Pereira", f.now.AddDate(0, 0, 10))

		rec := f.do(t, http.MethodGet, "/api/v1/verify/"+card.VerificationID, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		valid, _, payload := decodeVerification(t, rec.Body.Bytes())
		assert.True(t, valid)
		assert.Equal(t, "expiring", payload["validityStatus"])
	})

	t.Run("expired card answers 200 with valid false and the payload", func(t *testing.T) {
		f := newControllerFixture(t)
		card := f.seedCard(t, "Ana Costa", f.now.AddDate(0, -2, 0))

		rec := f.do(t, http.MethodGet, "/api/v1/verify/"+card.VerificationID, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		valid, message, payload := decodeVerification(t, rec.Body.Bytes())
		assert.False(t, valid)
		assert.Equal(t, services.VerificationMessageExpired, message)
		require.NotNil(t, payload)
		assert.Equal(t, "Ana Costa", payload["fullName"])
	})

	t.Run("unknown id answers 200 with valid false and no payload", func(t *testing.T) {
		f := newControllerFixture(t)

		rec := f.do(t, http.MethodGet, "/api/v1/verify/deadbeefdeadbeefdead", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		valid, message, payload := decodeVerification(t, rec.Body.Bytes())
		assert.False(t, valid)
		assert.Equal(t, services.VerificationMessageNotFound, message)
		assert.Nil(t, payload)
	})
}
