package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/staffhousing/backoffice-api/internal/models"
	"github.com/staffhousing/backoffice-api/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	if err := validator.RegisterBindings(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

type fakePropertyStore struct {
	properties map[uuid.UUID]*models.Property
	rooms      []models.Room
	listErr    error
}

func newFakePropertyStore() *fakePropertyStore {
	return &fakePropertyStore{properties: map[uuid.UUID]*models.Property{}}
}

func (f *fakePropertyStore) List(ctx context.Context) ([]models.Property, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]models.Property, 0, len(f.properties))
	for _, p := range f.properties {
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakePropertyStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Property, error) {
	p, ok := f.properties[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return p, nil
}

func (f *fakePropertyStore) Create(ctx context.Context, p *models.Property) error {
	p.ID = uuid.New()
	f.properties[p.ID] = p
	return nil
}

func (f *fakePropertyStore) ListRooms(ctx context.Context, propertyID uuid.UUID) ([]models.Room, error) {
	var out []models.Room
	for _, r := range f.rooms {
		if r.PropertyID == propertyID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakePropertyStore) CreateRoom(ctx context.Context, room *models.Room) error {
	room.ID = uuid.New()
	f.rooms = append(f.rooms, *room)
	return nil
}

func setupPropertyRouter(store *fakePropertyStore) *gin.Engine {
	h := NewPropertyHandler(store, quietLogger())
	router := gin.New()
	router.GET("/properties", h.List)
	router.POST("/properties", h.Create)
	router.GET("/properties/:id/rooms", h.ListRooms)
	router.POST("/properties/:id/rooms", h.CreateRoom)
	return router
}

func TestPropertyHandler_Create(t *testing.T) {
	store := newFakePropertyStore()
	router := setupPropertyRouter(store)

	w := doJSON(t, router, http.MethodPost, "/properties", map[string]interface{}{
		"title":         "  Maple House ",
		"address":       "1 Main St",
		"city":          "Austin",
		"state":         "tx",
		"zip_code":      "78701",
		"property_type": "house",
		"rent_amount":   "1200",
	})

	require.Equal(t, http.StatusCreated, w.Code)
	var created models.Property
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "Maple House", created.Title)
	assert.Equal(t, "TX", created.State)
	assert.Len(t, store.properties, 1)
}

func TestPropertyHandler_CreateRejections(t *testing.T) {
	tests := []struct {
		name      string
		body      map[string]interface{}
		wantField string
	}{
		{
			name: "negative rent",
			body: map[string]interface{}{
				"title": "Oak", "address": "2 Main St", "city": "Austin", "state": "TX",
				"zip_code": "78701", "property_type": "house", "rent_amount": "-5",
			},
			wantField: "rent_amount",
		},
		{
			name: "missing title",
			body: map[string]interface{}{
				"address": "2 Main St", "city": "Austin", "state": "TX",
				"zip_code": "78701", "property_type": "house",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakePropertyStore()
			w := doJSON(t, setupPropertyRouter(store), http.MethodPost, "/properties", tt.body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			resp := decodeError(t, w)
			assert.Equal(t, "validation_error", resp.Error)
			assert.Equal(t, tt.wantField, resp.Field)
			assert.Empty(t, store.properties)
		})
	}
}

func TestPropertyHandler_Rooms(t *testing.T) {
	store := newFakePropertyStore()
	property := &models.Property{ID: uuid.New(), Title: "Maple House"}
	store.properties[property.ID] = property
	router := setupPropertyRouter(store)

	t.Run("create room on known property", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/properties/"+property.ID.String()+"/rooms", map[string]interface{}{
			"name": " Room 1 ", "capacity": 2,
		})
		require.Equal(t, http.StatusCreated, w.Code)

		w = doJSON(t, router, http.MethodGet, "/properties/"+property.ID.String()+"/rooms", nil)
		require.Equal(t, http.StatusOK, w.Code)
		var rooms []models.Room
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rooms))
		require.Len(t, rooms, 1)
		assert.Equal(t, "Room 1", rooms[0].Name)
	})

	t.Run("unknown property", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/properties/"+uuid.NewString()+"/rooms", map[string]interface{}{
			"name": "Room 9",
		})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("malformed id", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/properties/not-a-uuid/rooms", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "id", decodeError(t, w).Field)
	})
}

func TestPropertyHandler_ListFailure(t *testing.T) {
	store := newFakePropertyStore()
	store.listErr = errors.New("connection reset")

	w := doJSON(t, setupPropertyRouter(store), http.MethodGet, "/properties", nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	resp := decodeError(t, w)
	assert.Equal(t, "internal_error", resp.Error)
	assert.Equal(t, "Failed to load properties", resp.Message)
}
