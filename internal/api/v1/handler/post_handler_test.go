package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"app/internal/middleware"
	"app/internal/model"
	"app/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

type fakePostService struct {
	createErr error
	created   *model.Post
}

func (s *fakePostService) CreatePost(_ context.Context, userID, email, title, content string) (*model.Post, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	s.created = &model.Post{ID: "post-1", OwnerID: userID, Title: title, Content: content}
	return s.created, nil
}

func (s *fakePostService) GetPost(context.Context, string, string) (*model.Post, error) {
	return nil, service.ErrPostNotFound
}

func (s *fakePostService) ListPosts(context.Context, string) ([]model.Post, error) {
	return []model.Post{}, nil
}

func (s *fakePostService) UpdatePost(context.Context, string, string, string, string) (*model.Post, error) {
	return nil, service.ErrPostNotFound
}

func (s *fakePostService) DeletePost(context.Context, string, string) error {
	return service.ErrPostNotFound
}

func authedRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	ctx := context.WithValue(req.Context(), middleware.UserContextKey, "U1")
	ctx = context.WithValue(ctx, middleware.EmailContextKey, "u1@example.com")
	return req.WithContext(ctx)
}

func newPostHandlerForTest(svc service.PostService) *PostHandler {
	return NewPostHandler(svc, validator.New(validator.WithRequiredStructEnabled()), zerolog.Nop())
}

func TestCreateBlogReturnsCreated(t *testing.T) {
	h := newPostHandlerForTest(&fakePostService{})

	rec := httptest.NewRecorder()
	h.handleBlogs(rec, authedRequest(http.MethodPost, "/blogs", `{"title":"hello","content":"world"}`))

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"title":"hello"`) {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
}

func TestCreateBlogValidatesFields(t *testing.T) {
	h := newPostHandlerForTest(&fakePostService{})

	for _, body := range []string{`{}`, `{"title":"only title"}`, `{"content":"only content"}`} {
		rec := httptest.NewRecorder()
		h.handleBlogs(rec, authedRequest(http.MethodPost, "/blogs", body))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %s: status = %d, want 400", body, rec.Code)
		}
		if !strings.Contains(rec.Body.String(), `"error"`) {
			t.Errorf("body %s: missing error field: %s", body, rec.Body.String())
		}
	}
}

func TestCreateBlogPlanLimitMapsToForbidden(t *testing.T) {
	h := newPostHandlerForTest(&fakePostService{createErr: &service.PlanLimitError{MaxBlogs: 4}})

	rec := httptest.NewRecorder()
	h.handleBlogs(rec, authedRequest(http.MethodPost, "/blogs", `{"title":"hello","content":"world"}`))

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "at most 4 blogs") {
		t.Errorf("limit response should name the ceiling: %s", rec.Body.String())
	}
}

func TestBlogByIDNotOwnedIsNotFound(t *testing.T) {
	h := newPostHandlerForTest(&fakePostService{})

	rec := httptest.NewRecorder()
	h.handleBlogByID(rec, authedRequest(http.MethodGet, "/blogs/abc", ""))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}
