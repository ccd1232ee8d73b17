// internal/app/features/posts/comment.go
package posts

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/thedevbrian/folio/internal/app/system/auth"
	"github.com/thedevbrian/folio/internal/app/system/formaction"
	"github.com/thedevbrian/folio/internal/app/system/formcheck"
	"github.com/thedevbrian/folio/internal/app/system/htmlsanitize"
	"github.com/thedevbrian/folio/internal/app/system/timeouts"
	"github.com/thedevbrian/folio/internal/app/system/viewdata"
	"go.uber.org/zap"
)

// MsgLoginRequired is returned when an anonymous visitor posts a comment.
const MsgLoginRequired = "You need to be logged in to proceed"

type commentInput struct {
	Comment formcheck.Input

	// Filled from the request, not the form body.
	Slug string
	User *auth.SessionUser
}

func validateComment(in commentInput) (formcheck.FieldErrors, map[string]string) {
	fe := formcheck.Collect(formcheck.Field("comment", formcheck.Message(in.Comment)))
	return fe, map[string]string{"comment": in.Comment.String()}
}

func (h *Handler) commentAction(r *http.Request) formaction.Action[commentInput] {
	slug := chi.URLParam(r, "slug")
	user, _ := auth.CurrentUser(r)

	return formaction.Action[commentInput]{
		Name: "comment",
		Gate: h.gate,
		Decode: func(sub formaction.Submission) commentInput {
			return commentInput{Comment: sub.Field("comment"), Slug: slug, User: user}
		},
		Validate: validateComment,
		Execute:  h.insertComment,
	}
}

// insertComment stores the comment against the post slug. Comments are
// keyed by slug so listing needs no extra lookup in the content service.
func (h *Handler) insertComment(ctx context.Context, in commentInput) (formaction.Result, error) {
	if in.User == nil {
		return formaction.Result{}, formaction.Conflict(MsgLoginRequired)
	}

	body := htmlsanitize.PlainText(in.Comment.String())

	ctx, cancel := timeouts.WithTimeout(ctx, timeouts.Short(), h.logger, "insert comment")
	defer cancel()

	id, err := h.comments.Insert(ctx, in.Slug, in.User.UserID(), body)
	if err != nil {
		return formaction.Result{}, err
	}
	return formaction.Success(map[string]any{"ok": true, "id": id.Hex()}), nil
}

// PostComment handles the comment form on a post page.
func (h *Handler) PostComment(w http.ResponseWriter, r *http.Request) {
	sub, err := formaction.Parse(r, "comment")
	if err != nil {
		h.logger.Info("unreadable comment form body", zap.Error(err))
		formaction.Respond(w, r, formaction.Result{}, formaction.Spam(err), nil, h.logger)
		return
	}

	res, err := h.commentAction(r).Run(r.Context(), sub)
	if err == nil && res.Kind == formaction.KindSuccess && formaction.WantsHTML(r) {
		// Show the new comment in the list rather than a bare confirmation.
		http.Redirect(w, r, r.URL.Path+"#comments", http.StatusSeeOther)
		return
	}
	formaction.Respond(w, r, res, err, h.page, h.logger)
}

// page re-renders the post with the comment form outcome.
func (h *Handler) page(w http.ResponseWriter, r *http.Request, status int, v formaction.View) {
	vm, ok := h.loadPost(w, r)
	if !ok {
		return
	}
	vm.BaseVM = viewdata.New(r)
	vm.Comment = v
	h.render(w, r, status, vm)
}
