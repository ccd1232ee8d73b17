// internal/app/features/posts/posts.go
package posts

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	errorsfeature "github.com/thedevbrian/folio/internal/app/features/errors"
	"github.com/thedevbrian/folio/internal/app/system/content"
	"github.com/thedevbrian/folio/internal/app/system/formaction"
	"github.com/thedevbrian/folio/internal/app/system/honeypot"
	"github.com/thedevbrian/folio/internal/app/system/timeouts"
	"github.com/thedevbrian/folio/internal/app/system/viewdata"
	"github.com/thedevbrian/folio/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// PostSource loads blog posts.
type PostSource interface {
	ListPosts(ctx context.Context) ([]content.Post, error)
	GetPost(ctx context.Context, slug string) (content.Post, error)
}

// CommentStore persists and lists comments. *comments.Store implements it.
type CommentStore interface {
	Insert(ctx context.Context, postID string, userID primitive.ObjectID, content string) (primitive.ObjectID, error)
	ListByPost(ctx context.Context, postID string) ([]models.CommentView, error)
}

// SpamGate checks posts and supplies the hidden inputs forms render.
type SpamGate interface {
	formaction.Gate
	Props() (honeypot.Props, error)
}

// Handler provides the blog pages and the comment form.
type Handler struct {
	posts    PostSource
	comments CommentStore
	gate     SpamGate
	errPages *errorsfeature.Handler
	logger   *zap.Logger
}

// NewHandler creates a new posts Handler.
func NewHandler(posts PostSource, comments CommentStore, gate SpamGate, logger *zap.Logger) *Handler {
	return &Handler{
		posts:    posts,
		comments: comments,
		gate:     gate,
		errPages: errorsfeature.NewHandler(logger),
		logger:   logger,
	}
}

// ListVM is the view model for the post list.
type ListVM struct {
	viewdata.BaseVM
	Posts []content.Post
}

// PostVM is the view model for a single post.
type PostVM struct {
	viewdata.BaseVM
	Post     content.Post
	Comments []models.CommentView
	Honeypot honeypot.Props
	Comment  formaction.View
}

// Routes returns a chi.Router with the blog routes mounted.
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.Get("/{slug}", h.Show)
	r.Post("/{slug}", h.PostComment)
	return r
}

// List renders every post, newest first.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.logger, "list posts")
	defer cancel()

	posts, err := h.posts.ListPosts(ctx)
	if err != nil {
		h.errPages.Upstream(w, r, "failed to load posts", err)
		return
	}

	vm := ListVM{BaseVM: viewdata.NewWithToast(w, r), Posts: posts}
	vm.Title = "Blog"
	templates.Render(w, r, "posts/index", vm)
}

// Show renders one post with its comments.
func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	vm, ok := h.loadPost(w, r)
	if !ok {
		return
	}
	vm.BaseVM = viewdata.NewWithToast(w, r)
	h.render(w, r, http.StatusOK, vm)
}

// loadPost fetches the post and its comments. On failure it writes the
// error page and returns false.
func (h *Handler) loadPost(w http.ResponseWriter, r *http.Request) (PostVM, bool) {
	slug := chi.URLParam(r, "slug")

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.logger, "get post")
	defer cancel()

	post, err := h.posts.GetPost(ctx, slug)
	if errors.Is(err, content.ErrNotFound) {
		h.errPages.NotFound(w, r)
		return PostVM{}, false
	}
	if err != nil {
		h.errPages.Upstream(w, r, "failed to load post", err, zap.String("slug", slug))
		return PostVM{}, false
	}

	list, err := h.comments.ListByPost(ctx, slug)
	if err != nil {
		h.errPages.Upstream(w, r, "failed to load comments", err, zap.String("slug", slug))
		return PostVM{}, false
	}
	return PostVM{Post: post, Comments: list}, true
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, vm PostVM) {
	props, err := h.gate.Props()
	if err != nil {
		h.logger.Error("failed to build honeypot props", zap.Error(err))
	}
	vm.Honeypot = props
	vm.Title = vm.Post.Title

	w.WriteHeader(status)
	templates.Render(w, r, "posts/show", vm)
}
