// internal/app/features/home/home.go
package home

import (
	"context"
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	errorsfeature "github.com/thedevbrian/folio/internal/app/features/errors"
	"github.com/thedevbrian/folio/internal/app/system/content"
	"github.com/thedevbrian/folio/internal/app/system/formaction"
	"github.com/thedevbrian/folio/internal/app/system/honeypot"
	"github.com/thedevbrian/folio/internal/app/system/mailer"
	"github.com/thedevbrian/folio/internal/app/system/newsletter"
	"github.com/thedevbrian/folio/internal/app/system/timeouts"
	"github.com/thedevbrian/folio/internal/app/system/viewdata"
	"go.uber.org/zap"
)

// ProjectLister loads the portfolio shown on the homepage.
type ProjectLister interface {
	ListProjects(ctx context.Context) ([]content.Project, error)
}

// SpamGate checks posts and supplies the hidden inputs forms render.
type SpamGate interface {
	formaction.Gate
	Props() (honeypot.Props, error)
}

// Handler provides home page handlers.
type Handler struct {
	projects  ProjectLister
	mail      mailer.Sender
	news      newsletter.Subscriber
	gate      SpamGate
	contactTo string
	errPages  *errorsfeature.Handler
	logger    *zap.Logger
}

// NewHandler creates a new home Handler. Contact messages are mailed to
// contactTo.
func NewHandler(
	projects ProjectLister,
	mail mailer.Sender,
	news newsletter.Subscriber,
	gate SpamGate,
	contactTo string,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		projects:  projects,
		mail:      mail,
		news:      news,
		gate:      gate,
		contactTo: contactTo,
		errPages:  errorsfeature.NewHandler(logger),
		logger:    logger,
	}
}

// HomeVM is the view model for the home page.
type HomeVM struct {
	viewdata.BaseVM
	Projects  []content.Project
	Honeypot  honeypot.Props
	Contact   formaction.View
	Subscribe formaction.View
}

// Routes returns a chi.Router with home routes mounted.
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.Index)
	r.Post("/", h.Post)
	return r
}

// Index renders the homepage.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.logger, "list projects")
	defer cancel()

	projects, err := h.projects.ListProjects(ctx)
	if err != nil {
		h.errPages.Upstream(w, r, "failed to load projects", err)
		return
	}

	vm := HomeVM{BaseVM: viewdata.NewWithToast(w, r), Projects: projects}
	h.render(w, r, http.StatusOK, vm)
}

// Post dispatches on the hidden _action input.
func (h *Handler) Post(w http.ResponseWriter, r *http.Request) {
	sub, err := formaction.Parse(r, "")
	if err != nil {
		h.logger.Info("unreadable home form body", zap.Error(err))
		formaction.Respond(w, r, formaction.Result{}, formaction.Spam(err), nil, h.logger)
		return
	}

	// Spam is rejected before dispatch, whatever the _action.
	if err := formaction.Screen(h.gate, sub.Values()); err != nil {
		formaction.Respond(w, r, formaction.Result{}, err, h.page(""), h.logger)
		return
	}

	switch action := sub.Value("_action"); action {
	case formContact:
		res, err := h.contactAction().Run(r.Context(), sub.As(formContact))
		formaction.Respond(w, r, res, err, h.page(formContact), h.logger)
	case formSubscribe:
		res, err := h.subscribeAction().Run(r.Context(), sub.As(formSubscribe))
		formaction.Respond(w, r, res, err, h.page(formSubscribe), h.logger)
	default:
		h.logger.Debug("unknown home action", zap.String("action", action))
		formaction.Respond(w, r, formaction.Result{}, formaction.Conflict(MsgUnknownAction), h.page(""), h.logger)
	}
}

// page re-renders the homepage with the outcome of one form. The project
// list is best effort here; the form result matters more than the grid.
func (h *Handler) page(form string) formaction.Page {
	return func(w http.ResponseWriter, r *http.Request, status int, v formaction.View) {
		vm := HomeVM{BaseVM: viewdata.New(r)}

		ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.logger, "list projects")
		defer cancel()
		if projects, err := h.projects.ListProjects(ctx); err == nil {
			vm.Projects = projects
		} else {
			h.logger.Warn("projects unavailable while re-rendering form", zap.Error(err))
		}

		switch form {
		case formSubscribe:
			vm.Subscribe = v
		default:
			vm.Contact = v
		}
		h.render(w, r, status, vm)
	}
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, vm HomeVM) {
	props, err := h.gate.Props()
	if err != nil {
		h.logger.Error("failed to build honeypot props", zap.Error(err))
	}
	vm.Honeypot = props
	vm.Title = "Home"

	w.WriteHeader(status)
	templates.Render(w, r, "home/index", vm)
}
