package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "dompet/internal/errors"
	"dompet/internal/models"
	"dompet/internal/pagination"
	"dompet/internal/services"
)

// --- mock category service ---

type mockCategoryService struct {
	createCategoryFn    func(userID, name string, categoryType models.CategoryType, icon, color string) (*models.Category, error)
	getUserCategoriesFn func(userID string, categoryType *models.CategoryType, page pagination.PageRequest) (*pagination.PageResponse[models.Category], error)
	getCategoryByIDFn   func(userID, categoryID string) (*models.Category, error)
	updateCategoryFn    func(userID, categoryID string, fields services.CategoryUpdateFields) (*models.Category, error)
	deleteCategoryFn    func(userID, categoryID string) error
}

func (m *mockCategoryService) CreateCategory(userID, name string, categoryType models.CategoryType, icon, color string) (*models.Category, error) {
	if m.createCategoryFn != nil {
		return m.createCategoryFn(userID, name, categoryType, icon, color)
	}
	return &models.Category{Base: models.Base{ID: "c1"}, UserID: userID, Name: name, Type: categoryType}, nil
}

func (m *mockCategoryService) GetUserCategories(userID string, categoryType *models.CategoryType, page pagination.PageRequest) (*pagination.PageResponse[models.Category], error) {
	if m.getUserCategoriesFn != nil {
		return m.getUserCategoriesFn(userID, categoryType, page)
	}
	resp := pagination.NewPageResponse([]models.Category{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockCategoryService) GetCategoryByID(userID, categoryID string) (*models.Category, error) {
	if m.getCategoryByIDFn != nil {
		return m.getCategoryByIDFn(userID, categoryID)
	}
	return &models.Category{Base: models.Base{ID: categoryID}}, nil
}

func (m *mockCategoryService) UpdateCategory(userID, categoryID string, fields services.CategoryUpdateFields) (*models.Category, error) {
	if m.updateCategoryFn != nil {
		return m.updateCategoryFn(userID, categoryID, fields)
	}
	return &models.Category{Base: models.Base{ID: categoryID}}, nil
}

func (m *mockCategoryService) DeleteCategory(userID, categoryID string) error {
	if m.deleteCategoryFn != nil {
		return m.deleteCategoryFn(userID, categoryID)
	}
	return nil
}

var _ services.CategoryServicer = (*mockCategoryService)(nil)

func setupCategoryRouter(handler *CategoryHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUserID(testUserID))
	auth.POST("/categories", handler.CreateCategory)
	auth.GET("/categories", handler.GetUserCategories)
	auth.GET("/categories/:id", handler.GetCategoryByID)
	auth.PUT("/categories/:id", handler.UpdateCategory)
	auth.DELETE("/categories/:id", handler.DeleteCategory)
	return r
}

func TestCategoryHandler_CreateCategory(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		audit := &mockAuditService{}
		r := setupCategoryRouter(NewCategoryHandler(&mockCategoryService{}, audit))

		rec := doRequest(r, "POST", "/categories", `{"name":"Food","type":"expense","icon":"utensils","color":"#ff0000"}`)
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		category := parseJSON(t, rec)["category"].(map[string]interface{})
		if category["name"] != "Food" || category["type"] != "expense" {
			t.Errorf("unexpected category %v", category)
		}
		if len(audit.entries) != 1 {
			t.Errorf("expected audit entry, got %d", len(audit.entries))
		}
	})

	t.Run("returns 400 on invalid type", func(t *testing.T) {
		r := setupCategoryRouter(NewCategoryHandler(&mockCategoryService{}, &mockAuditService{}))

		rec := doRequest(r, "POST", "/categories", `{"name":"Moves","type":"transfer"}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns 400 on missing name", func(t *testing.T) {
		r := setupCategoryRouter(NewCategoryHandler(&mockCategoryService{}, &mockAuditService{}))

		rec := doRequest(r, "POST", "/categories", `{"type":"income"}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on duplicate name", func(t *testing.T) {
		svc := &mockCategoryService{
			createCategoryFn: func(_, _ string, _ models.CategoryType, _, _ string) (*models.Category, error) {
				return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "a category with this name already exists")
			},
		}
		r := setupCategoryRouter(NewCategoryHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "POST", "/categories", `{"name":"Food","type":"expense"}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestCategoryHandler_GetUserCategories(t *testing.T) {
	t.Run("filters by type", func(t *testing.T) {
		var got *models.CategoryType
		svc := &mockCategoryService{
			getUserCategoriesFn: func(_ string, categoryType *models.CategoryType, _ pagination.PageRequest) (*pagination.PageResponse[models.Category], error) {
				got = categoryType
				resp := pagination.NewPageResponse([]models.Category{{Name: "Salary", Type: models.CategoryTypeIncome}}, 1, 20, 1)
				return &resp, nil
			},
		}
		r := setupCategoryRouter(NewCategoryHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "GET", "/categories?type=income", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if got == nil || *got != models.CategoryTypeIncome {
			t.Errorf("expected income filter, got %v", got)
		}
	})

	t.Run("no filter lists all", func(t *testing.T) {
		called := false
		svc := &mockCategoryService{
			getUserCategoriesFn: func(_ string, categoryType *models.CategoryType, _ pagination.PageRequest) (*pagination.PageResponse[models.Category], error) {
				called = true
				if categoryType != nil {
					t.Errorf("expected nil filter, got %v", *categoryType)
				}
				resp := pagination.NewPageResponse([]models.Category{}, 1, 20, 0)
				return &resp, nil
			},
		}
		r := setupCategoryRouter(NewCategoryHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "GET", "/categories", "")
		if rec.Code != http.StatusOK || !called {
			t.Fatalf("expected 200 and a service call, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on unknown type", func(t *testing.T) {
		r := setupCategoryRouter(NewCategoryHandler(&mockCategoryService{}, &mockAuditService{}))

		rec := doRequest(r, "GET", "/categories?type=savings", "")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestCategoryHandler_UpdateCategory(t *testing.T) {
	t.Run("type is not an editable field", func(t *testing.T) {
		var got services.CategoryUpdateFields
		svc := &mockCategoryService{
			updateCategoryFn: func(_, categoryID string, fields services.CategoryUpdateFields) (*models.Category, error) {
				got = fields
				return &models.Category{Base: models.Base{ID: categoryID}, Type: models.CategoryTypeExpense}, nil
			},
		}
		r := setupCategoryRouter(NewCategoryHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "PUT", "/categories/c1", `{"color":"#00ff00","type":"income"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if got.Color == nil || *got.Color != "#00ff00" || got.Name != nil {
			t.Errorf("unexpected fields %+v", got)
		}
		category := parseJSON(t, rec)["category"].(map[string]interface{})
		if category["type"] != "expense" {
			t.Errorf("type must not change, got %v", category["type"])
		}
	})

	t.Run("returns 404 when missing", func(t *testing.T) {
		svc := &mockCategoryService{
			updateCategoryFn: func(_, _ string, _ services.CategoryUpdateFields) (*models.Category, error) {
				return nil, apperrors.ErrCategoryNotFound
			},
		}
		r := setupCategoryRouter(NewCategoryHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "PUT", "/categories/nope", `{"name":"x"}`)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "CATEGORY_NOT_FOUND")
	})
}

func TestCategoryHandler_DeleteCategory(t *testing.T) {
	t.Run("returns 200 on success", func(t *testing.T) {
		audit := &mockAuditService{}
		r := setupCategoryRouter(NewCategoryHandler(&mockCategoryService{}, audit))

		rec := doRequest(r, "DELETE", "/categories/c1", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if len(audit.entries) != 1 || audit.entries[0].action != "DELETE_CATEGORY" {
			t.Errorf("unexpected audit %+v", audit.entries)
		}
	})

	t.Run("returns 409 when in use", func(t *testing.T) {
		svc := &mockCategoryService{
			deleteCategoryFn: func(_, _ string) error { return apperrors.ErrCategoryInUse },
		}
		r := setupCategoryRouter(NewCategoryHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "DELETE", "/categories/c1", "")
		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "CATEGORY_IN_USE")
	})
}

func TestCategoryHandler_GetCategoryByID(t *testing.T) {
	svc := &mockCategoryService{
		getCategoryByIDFn: func(_, categoryID string) (*models.Category, error) {
			if categoryID == "missing" {
				return nil, apperrors.ErrCategoryNotFound
			}
			return &models.Category{Base: models.Base{ID: categoryID}, Name: "Food"}, nil
		},
	}
	r := setupCategoryRouter(NewCategoryHandler(svc, &mockAuditService{}))

	t.Run("returns 200", func(t *testing.T) {
		rec := doRequest(r, "GET", "/categories/c1", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	})

	t.Run("returns 404", func(t *testing.T) {
		rec := doRequest(r, "GET", "/categories/missing", "")
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}
