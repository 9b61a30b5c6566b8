package supabase

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"
	"time"

	"ayurveda-repository/internal/domain/plants"
	"ayurveda-repository/internal/ports/auth"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testURL = "https://proj.supabase.co"

func newTestClient(t *testing.T) *Client {
	t.Helper()

	c, err := NewClient(Config{URL: testURL + "/", Key: "anon-key"})
	require.NoError(t, err)

	httpmock.ActivateNonDefault(c.HTTPClient())
	t.Cleanup(httpmock.DeactivateAndReset)
	return c
}

func TestNewClient_RequiresURLAndKey(t *testing.T) {
	_, err := NewClient(Config{URL: testURL})
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = NewClient(Config{Key: "k"})
	assert.ErrorIs(t, err, ErrNotConfigured)

	c, err := NewClient(Config{URL: testURL, Key: "k"})
	require.NoError(t, err)
	assert.Equal(t, DefaultBucket, c.bucket)
	assert.Equal(t, DefaultTable, c.table)
}

func TestRecordsRepo_ListOrdersNewestFirst(t *testing.T) {
	c := newTestClient(t)
	repo := NewRecordsRepo(c)

	httpmock.RegisterResponder(http.MethodGet, `=~^https://proj\.supabase\.co/rest/v1/plants`,
		func(req *http.Request) (*http.Response, error) {
			assert.Equal(t, "created_at.desc", req.URL.Query().Get("order"))
			assert.Equal(t, "anon-key", req.Header.Get("apikey"))
			assert.Equal(t, "Bearer anon-key", req.Header.Get("Authorization"))
			return httpmock.NewStringResponse(http.StatusOK, `[
				{"id":"b","name":"Tulsi","botanical_name":"Ocimum sanctum","family":null,"synonyms":["Surasa"],"useful_parts":[],"indications":null,"images":[],"created_at":"2024-02-01T10:00:00Z"},
				{"id":"a","name":"Neem","botanical_name":null,"synonyms":["Nimba","Arishta"],"useful_parts":["Leaves"],"indications":[],"images":null,"created_at":"2024-01-01T10:00:00Z"}
			]`), nil
		})

	items, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "Tulsi", items[0].Name)
	require.NotNil(t, items[0].BotanicalName)
	assert.Equal(t, "Ocimum sanctum", *items[0].BotanicalName)
	assert.Nil(t, items[0].Family)
	assert.Equal(t, []string{}, items[0].Indications)

	assert.Equal(t, []string{"Nimba", "Arishta"}, items[1].Synonyms)
	assert.Equal(t, []string{}, items[1].Images)
}

func TestRecordsRepo_CreateAsksForRepresentation(t *testing.T) {
	c := newTestClient(t)
	repo := NewRecordsRepo(c)

	httpmock.RegisterResponder(http.MethodPost, testURL+"/rest/v1/plants",
		func(req *http.Request) (*http.Response, error) {
			assert.Equal(t, "return=representation", req.Header.Get("Prefer"))

			raw, _ := io.ReadAll(req.Body)
			var body map[string]any
			require.NoError(t, json.Unmarshal(raw, &body))
			assert.Equal(t, "Neem", body["name"])
			assert.Equal(t, []any{}, body["images"])
			assert.NotContains(t, body, "id")

			return httpmock.NewStringResponse(http.StatusCreated,
				`[{"id":"11111111-1111-1111-1111-111111111111","name":"Neem","synonyms":["Nimba"],"useful_parts":[],"indications":[],"images":[],"created_at":"2024-01-01T10:00:00Z"}]`), nil
		})

	p, err := repo.Create(context.Background(), plants.CreateInput{Name: "Neem", Synonyms: []string{"Nimba"}})
	require.NoError(t, err)
	assert.Equal(t, "11111111-1111-1111-1111-111111111111", p.ID)
	assert.Equal(t, time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC), p.CreatedAt.UTC())
}

func TestRecordsRepo_GetByID(t *testing.T) {
	c := newTestClient(t)
	repo := NewRecordsRepo(c)

	httpmock.RegisterResponder(http.MethodGet, `=~^https://proj\.supabase\.co/rest/v1/plants`,
		func(req *http.Request) (*http.Response, error) {
			switch req.URL.Query().Get("id") {
			case "eq.known":
				return httpmock.NewStringResponse(http.StatusOK, `[{"id":"known","name":"Neem"}]`), nil
			case "eq.bad":
				return httpmock.NewStringResponse(http.StatusBadRequest, `{"message":"invalid input syntax for type uuid"}`), nil
			}
			return httpmock.NewStringResponse(http.StatusOK, `[]`), nil
		})

	p, err := repo.GetByID(context.Background(), "known")
	require.NoError(t, err)
	assert.Equal(t, "Neem", p.Name)
	assert.Equal(t, []string{}, p.Synonyms)

	_, err = repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, plants.ErrNotFound)

	_, err = repo.GetByID(context.Background(), "bad")
	assert.ErrorIs(t, err, plants.ErrNotFound)
}

func TestRecordsRepo_UpdateImages(t *testing.T) {
	c := newTestClient(t)
	repo := NewRecordsRepo(c)
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	httpmock.RegisterResponder(http.MethodPatch, `=~^https://proj\.supabase\.co/rest/v1/plants`,
		func(req *http.Request) (*http.Response, error) {
			if req.URL.Query().Get("id") != "eq.p1" {
				return httpmock.NewStringResponse(http.StatusOK, `[]`), nil
			}

			raw, _ := io.ReadAll(req.Body)
			var body imagesPatch
			require.NoError(t, json.Unmarshal(raw, &body))
			assert.Equal(t, []string{"u1", "u2"}, body.Images)
			assert.True(t, now.Equal(body.UpdatedAt))

			return httpmock.NewStringResponse(http.StatusOK, `[{"id":"p1","name":"Tulsi","images":["u1","u2"]}]`), nil
		})

	require.NoError(t, repo.UpdateImages(context.Background(), "p1", []string{"u1", "u2"}, now))
	assert.ErrorIs(t, repo.UpdateImages(context.Background(), "other", []string{"u1"}, now), plants.ErrNotFound)
}

func TestStorage_PutUpsertsAndBuildsPublicURL(t *testing.T) {
	c := newTestClient(t)
	s := NewStorage(c)

	httpmock.RegisterResponder(http.MethodPost, testURL+"/storage/v1/object/plant-images/p1/1700000000000-0.jpg",
		func(req *http.Request) (*http.Response, error) {
			assert.Equal(t, "true", req.Header.Get("x-upsert"))
			assert.Equal(t, "image/jpeg", req.Header.Get("Content-Type"))
			raw, _ := io.ReadAll(req.Body)
			assert.Equal(t, []byte("jpeg-bytes"), raw)
			return httpmock.NewStringResponse(http.StatusOK, `{"Key":"plant-images/p1/1700000000000-0.jpg"}`), nil
		})

	err := s.Put(context.Background(), "p1/1700000000000-0.jpg", []byte("jpeg-bytes"), "image/jpeg", true)
	require.NoError(t, err)
	assert.Equal(t,
		testURL+"/storage/v1/object/public/plant-images/p1/1700000000000-0.jpg",
		s.PublicURL("p1/1700000000000-0.jpg"))
}

func TestRecordsAndStorage_ForwardSessionToken(t *testing.T) {
	c := newTestClient(t)
	repo := NewRecordsRepo(c)
	s := NewStorage(c)

	ctx := auth.WithAccessToken(context.Background(), "user-jwt")

	httpmock.RegisterResponder(http.MethodPost, testURL+"/rest/v1/plants",
		func(req *http.Request) (*http.Response, error) {
			assert.Equal(t, "anon-key", req.Header.Get("apikey"))
			assert.Equal(t, "Bearer user-jwt", req.Header.Get("Authorization"))
			assert.Equal(t, "return=representation", req.Header.Get("Prefer"))
			return httpmock.NewStringResponse(http.StatusCreated,
				`[{"id":"p1","name":"Neem","images":[],"created_at":"2024-01-01T10:00:00Z"}]`), nil
		})
	httpmock.RegisterResponder(http.MethodPatch, `=~^https://proj\.supabase\.co/rest/v1/plants`,
		func(req *http.Request) (*http.Response, error) {
			assert.Equal(t, "Bearer user-jwt", req.Header.Get("Authorization"))
			return httpmock.NewStringResponse(http.StatusOK, `[{"id":"p1","name":"Neem"}]`), nil
		})
	httpmock.RegisterResponder(http.MethodPost, `=~^https://proj\.supabase\.co/storage/v1/object/`,
		func(req *http.Request) (*http.Response, error) {
			assert.Equal(t, "Bearer user-jwt", req.Header.Get("Authorization"))
			assert.Equal(t, "true", req.Header.Get("x-upsert"))
			return httpmock.NewStringResponse(http.StatusOK, `{}`), nil
		})

	_, err := repo.Create(ctx, plants.CreateInput{Name: "Neem"})
	require.NoError(t, err)
	require.NoError(t, s.Put(ctx, "p1/1-0.png", []byte("x"), "image/png", true))
	require.NoError(t, repo.UpdateImages(ctx, "p1", []string{"u"}, time.Now()))

	// sin sesión (detalle público) se usa la key del proyecto
	httpmock.RegisterResponder(http.MethodGet, `=~^https://proj\.supabase\.co/rest/v1/plants`,
		func(req *http.Request) (*http.Response, error) {
			assert.Equal(t, "Bearer anon-key", req.Header.Get("Authorization"))
			return httpmock.NewStringResponse(http.StatusOK, `[]`), nil
		})
	_, err = repo.List(context.Background())
	require.NoError(t, err)
}

func TestStorage_PutPropagatesErrors(t *testing.T) {
	c := newTestClient(t)
	s := NewStorage(c)

	httpmock.RegisterResponder(http.MethodPost, `=~^https://proj\.supabase\.co/storage/v1/object/`,
		httpmock.NewStringResponder(http.StatusForbidden, `{"error":"row-level security"}`))

	err := s.Put(context.Background(), "p1/1-0.png", []byte("x"), "image/png", true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "p1/1-0.png")
}

func TestAuth_SignIn(t *testing.T) {
	c := newTestClient(t)
	a := NewAuth(c, time.Minute)

	httpmock.RegisterResponder(http.MethodPost, `=~^https://proj\.supabase\.co/auth/v1/token`,
		func(req *http.Request) (*http.Response, error) {
			assert.Equal(t, "password", req.URL.Query().Get("grant_type"))

			var body passwordGrant
			raw, _ := io.ReadAll(req.Body)
			require.NoError(t, json.Unmarshal(raw, &body))
			if body.Password != "secret" {
				return httpmock.NewStringResponse(http.StatusBadRequest, `{"error":"invalid_grant"}`), nil
			}
			return httpmock.NewStringResponse(http.StatusOK,
				`{"access_token":"tok-1","token_type":"bearer","expires_in":3600,"expires_at":1700003600,"refresh_token":"r1","user":{"id":"u-1","email":"admin@example.com"}}`), nil
		})

	s, err := a.SignIn(context.Background(), "admin@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", s.AccessToken)
	assert.Equal(t, "u-1", s.User.UserID)
	assert.Equal(t, time.Unix(1700003600, 0).UTC(), s.ExpiresAt)

	_, err = a.SignIn(context.Background(), "admin@example.com", "wrong")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestAuth_VerifyCachesValidTokens(t *testing.T) {
	c := newTestClient(t)
	a := NewAuth(c, time.Minute)

	httpmock.RegisterResponder(http.MethodGet, testURL+"/auth/v1/user",
		func(req *http.Request) (*http.Response, error) {
			if req.Header.Get("Authorization") != "Bearer good" {
				return httpmock.NewStringResponse(http.StatusUnauthorized, `{"msg":"invalid JWT"}`), nil
			}
			return httpmock.NewStringResponse(http.StatusOK, `{"id":"u-1","email":"admin@example.com"}`), nil
		})

	for i := 0; i < 3; i++ {
		claims, err := a.Verify(context.Background(), "good")
		require.NoError(t, err)
		assert.Equal(t, "u-1", claims.UserID)
	}
	assert.Equal(t, 1, httpmock.GetTotalCallCount())

	_, err := a.Verify(context.Background(), "bad")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestAuth_SignOutForgetsCachedToken(t *testing.T) {
	c := newTestClient(t)
	a := NewAuth(c, time.Minute)

	httpmock.RegisterResponder(http.MethodGet, testURL+"/auth/v1/user",
		httpmock.NewStringResponder(http.StatusOK, `{"id":"u-1"}`))
	httpmock.RegisterResponder(http.MethodPost, testURL+"/auth/v1/logout",
		func(req *http.Request) (*http.Response, error) {
			assert.Equal(t, "Bearer tok", req.Header.Get("Authorization"))
			return httpmock.NewStringResponse(http.StatusNoContent, ""), nil
		})

	_, err := a.Verify(context.Background(), "tok")
	require.NoError(t, err)

	require.NoError(t, a.SignOut(context.Background(), "tok"))

	_, found := a.cache.Get(cacheKey("tok"))
	assert.False(t, found)
}
