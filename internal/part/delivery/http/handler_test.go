package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/garage-management/internal/part/domain"
)

type fakePartRepo struct {
	parts  map[uint]*domain.Part
	nextID uint
}

func newFakePartRepo() *fakePartRepo {
	return &fakePartRepo{parts: make(map[uint]*domain.Part)}
}

func (f *fakePartRepo) Create(ctx context.Context, part *domain.Part) error {
	for _, existing := range f.parts {
		if existing.PartNumber == part.PartNumber {
			return fmt.Errorf("part number already taken")
		}
	}
	f.nextID++
	part.ID = f.nextID
	clone := *part
	f.parts[part.ID] = &clone
	return nil
}

func (f *fakePartRepo) FindByID(ctx context.Context, id uint) (*domain.Part, error) {
	p, ok := f.parts[id]
	if !ok {
		return nil, fmt.Errorf("part not found")
	}
	clone := *p
	return &clone, nil
}

func (f *fakePartRepo) FindAll(ctx context.Context, limit, offset int) ([]domain.Part, error) {
	var out []domain.Part
	for _, p := range f.parts {
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakePartRepo) FindLowStock(ctx context.Context) ([]domain.Part, error) {
	var out []domain.Part
	for _, p := range f.parts {
		if p.IsLowStock() {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakePartRepo) Update(ctx context.Context, part *domain.Part) error {
	if _, ok := f.parts[part.ID]; !ok {
		return fmt.Errorf("part not found")
	}
	clone := *part
	f.parts[part.ID] = &clone
	return nil
}

func (f *fakePartRepo) Delete(ctx context.Context, id uint) error {
	if _, ok := f.parts[id]; !ok {
		return fmt.Errorf("part not found")
	}
	delete(f.parts, id)
	return nil
}

func newTestRouter(repo domain.PartRepository) *mux.Router {
	router := mux.NewRouter()
	NewPartHandler(repo).RegisterRoutes(router)
	return router
}

func doJSON(t *testing.T, router *mux.Router, method, path string, body interface{}) (*httptest.ResponseRecorder, Response) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var resp Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return rec, resp
}

func TestCreatePart(t *testing.T) {
	router := newTestRouter(newFakePartRepo())

	rec, resp := doJSON(t, router, http.MethodPost, "/api/parts", map[string]interface{}{
		"name":           "Brake pads",
		"part_number":    "BP-1001",
		"stock_quantity": 10,
		"selling_price":  24.99,
	})
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, resp.Success)
}

func TestCreatePart_Validation(t *testing.T) {
	router := newTestRouter(newFakePartRepo())

	rec, resp := doJSON(t, router, http.MethodPost, "/api/parts", map[string]interface{}{
		"name": "Brake pads",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, resp.Success)

	rec, _ = doJSON(t, router, http.MethodPost, "/api/parts", map[string]interface{}{
		"name":           "Brake pads",
		"part_number":    "BP-1001",
		"stock_quantity": -2,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetPart_NotFound(t *testing.T) {
	router := newTestRouter(newFakePartRepo())

	rec, resp := doJSON(t, router, http.MethodGet, "/api/parts/99", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.False(t, resp.Success)
}

func TestUpdatePart_PartialMerge(t *testing.T) {
	repo := newFakePartRepo()
	repo.parts[1] = &domain.Part{
		ID: 1, Name: "Brake pads", PartNumber: "BP-1001",
		StockQuantity: 10, SellingPrice: 24.99, Status: domain.StatusActive,
	}
	repo.nextID = 1
	router := newTestRouter(repo)

	rec, resp := doJSON(t, router, http.MethodPatch, "/api/parts/1", map[string]interface{}{
		"selling_price": 29.99,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, resp.Success)

	stored := repo.parts[1]
	assert.Equal(t, 29.99, stored.SellingPrice)
	assert.Equal(t, "Brake pads", stored.Name)
	assert.Equal(t, 10, stored.StockQuantity)
}

func TestListLowStock(t *testing.T) {
	repo := newFakePartRepo()
	repo.parts[1] = &domain.Part{ID: 1, Name: "Low", PartNumber: "A", StockQuantity: 1, MinStockLevel: 5}
	repo.parts[2] = &domain.Part{ID: 2, Name: "Fine", PartNumber: "B", StockQuantity: 50, MinStockLevel: 5}
	router := newTestRouter(repo)

	rec, resp := doJSON(t, router, http.MethodGet, "/api/parts/low-stock", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	raw, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	var parts []domain.Part
	require.NoError(t, json.Unmarshal(raw, &parts))
	require.Len(t, parts, 1)
	assert.Equal(t, "Low", parts[0].Name)
}

func TestDeletePart(t *testing.T) {
	repo := newFakePartRepo()
	repo.parts[1] = &domain.Part{ID: 1, Name: "Brake pads", PartNumber: "BP-1001"}
	router := newTestRouter(repo)

	rec, _ := doJSON(t, router, http.MethodDelete, "/api/parts/1", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, repo.parts)

	rec, _ = doJSON(t, router, http.MethodDelete, "/api/parts/1", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
