package home

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/thedevbrian/folio/internal/app/system/content"
	"github.com/thedevbrian/folio/internal/app/system/formaction"
	"github.com/thedevbrian/folio/internal/app/system/honeypot"
	"github.com/thedevbrian/folio/internal/app/system/mailer"
	"github.com/thedevbrian/folio/internal/testutil"
	"go.uber.org/zap"
)

type fakeProjects struct {
	projects []content.Project
	err      error
}

func (f fakeProjects) ListProjects(context.Context) ([]content.Project, error) {
	return f.projects, f.err
}

type fakeMailer struct {
	sent []mailer.Email
	err  error
	noID bool
}

func (f *fakeMailer) Send(_ context.Context, e mailer.Email) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.sent = append(f.sent, e)
	if f.noID {
		return "", nil
	}
	return "msg-1", nil
}

type fakeSubscriber struct {
	calls [][2]string
	err   error
}

func (f *fakeSubscriber) Subscribe(_ context.Context, name, email string) error {
	f.calls = append(f.calls, [2]string{name, email})
	return f.err
}

type fixture struct {
	h    *Handler
	mail *fakeMailer
	news *fakeSubscriber
}

func newFixture(projects fakeProjects) fixture {
	f := fixture{mail: &fakeMailer{}, news: &fakeSubscriber{}}
	gate := honeypot.New(honeypot.Config{})
	f.h = NewHandler(projects, f.mail, f.news, gate, "brian@example.com", zap.NewNop())
	return f
}

func contactForm() url.Values {
	return url.Values{
		"_action": {"contact"},
		"name":    {"John Doe"},
		"phone":   {"+254 712 345 678"},
		"email":   {"john@doe.com"},
		"message": {"Hello"},

		honeypot.DefaultNameField: {""},
	}
}

func post(h *Handler, form url.Values) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	Routes(h).ServeHTTP(rec, testutil.NewFormRequest("/", form))
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return body
}

func TestContact_HappyPath(t *testing.T) {
	f := newFixture(fakeProjects{})

	rec := post(f.h, contactForm())

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/success" {
		t.Errorf("Location = %q, want /success", loc)
	}
	if len(f.mail.sent) != 1 {
		t.Fatalf("sent %d emails, want 1", len(f.mail.sent))
	}
	e := f.mail.sent[0]
	if e.To != "brian@example.com" || e.ReplyTo != "john@doe.com" || e.Subject != mailer.ContactSubject {
		t.Errorf("email = %+v", e)
	}
}

func TestContact_InvalidPhone(t *testing.T) {
	f := newFixture(fakeProjects{})
	form := contactForm()
	form.Set("phone", "0612345678")

	rec := post(f.h, form)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	want := map[string]any{
		"fieldErrors": map[string]any{"name": "", "phone": "Phone number is invalid", "email": "", "message": ""},
		"fields":      map[string]any{"name": "John Doe", "email": "john@doe.com", "message": "Hello"},
	}
	if diff := cmp.Diff(want, decodeBody(t, rec)); diff != "" {
		t.Errorf("body mismatch (-want +got):\n%s", diff)
	}
	if len(f.mail.sent) != 0 {
		t.Errorf("sent %d emails, want 0", len(f.mail.sent))
	}
}

func TestContact_HoneypotFilled(t *testing.T) {
	f := newFixture(fakeProjects{})
	form := contactForm()
	form.Set(honeypot.DefaultNameField, "x")
	form.Set("phone", "not a phone")

	rec := post(f.h, form)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	want := map[string]any{"error": formaction.MsgSpam}
	if diff := cmp.Diff(want, decodeBody(t, rec)); diff != "" {
		t.Errorf("body mismatch (-want +got):\n%s", diff)
	}
	if len(f.mail.sent) != 0 {
		t.Errorf("sent %d emails, want 0", len(f.mail.sent))
	}
}

func TestContact_MailFailureIsBadGateway(t *testing.T) {
	f := newFixture(fakeProjects{})
	f.mail.err = errors.New("smtp: connection refused")

	rec := post(f.h, contactForm())

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}
	if got := decodeBody(t, rec)["error"]; got != formaction.MsgUpstream {
		t.Errorf("error = %v, want %q", got, formaction.MsgUpstream)
	}
}

func TestSubscribe(t *testing.T) {
	f := newFixture(fakeProjects{})

	rec := post(f.h, url.Values{"_action": {"subscribe"}, "name": {"Jane Roe"}, "email": {"jane@roe.com"}, honeypot.DefaultNameField: {""}})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if diff := cmp.Diff(map[string]any{"ok": true}, decodeBody(t, rec)); diff != "" {
		t.Errorf("body mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([][2]string{{"Jane Roe", "jane@roe.com"}}, f.news.calls); diff != "" {
		t.Errorf("subscribe calls mismatch (-want +got):\n%s", diff)
	}
}

func TestSubscribe_FieldErrors(t *testing.T) {
	f := newFixture(fakeProjects{})

	rec := post(f.h, url.Values{"_action": {"subscribe"}, "name": {"J"}, "email": {"nope"}, honeypot.DefaultNameField: {""}})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	want := map[string]any{
		"fieldErrors": map[string]any{"name": "Name must be at least two characters long", "email": "Invalid email"},
		"fields":      map[string]any{"name": "J", "email": "nope"},
	}
	if diff := cmp.Diff(want, decodeBody(t, rec)); diff != "" {
		t.Errorf("body mismatch (-want +got):\n%s", diff)
	}
	if len(f.news.calls) != 0 {
		t.Errorf("Subscribe called %d times, want 0", len(f.news.calls))
	}
}

func TestUnknownAction(t *testing.T) {
	f := newFixture(fakeProjects{})

	for _, action := range []string{"", "delete"} {
		rec := post(f.h, url.Values{"_action": {action}, honeypot.DefaultNameField: {""}})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("_action=%q status = %d, want 400", action, rec.Code)
		}
		if got := decodeBody(t, rec)["error"]; got != MsgUnknownAction {
			t.Errorf("_action=%q error = %v, want %q", action, got, MsgUnknownAction)
		}
	}
}

func TestSpamRejectedBeforeDispatch(t *testing.T) {
	f := newFixture(fakeProjects{})

	for _, action := range []string{"contact", "subscribe", "", "delete"} {
		form := contactForm()
		form.Set("_action", action)
		form.Set(honeypot.DefaultNameField, "http://spam.example")

		rec := post(f.h, form)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("_action=%q status = %d, want 400", action, rec.Code)
		}
		if got := decodeBody(t, rec)["error"]; got != formaction.MsgSpam {
			t.Errorf("_action=%q error = %v, want %q", action, got, formaction.MsgSpam)
		}
	}
	if len(f.mail.sent) != 0 || len(f.news.calls) != 0 {
		t.Errorf("spam reached collaborators: %d emails, %d subscriptions", len(f.mail.sent), len(f.news.calls))
	}
}

func TestContact_MissingHiddenInputsIsSpam(t *testing.T) {
	f := fixture{mail: &fakeMailer{}, news: &fakeSubscriber{}}
	gate := honeypot.New(honeypot.Config{HashKey: []byte("home-test-key-0123456789abcdefgh")})
	f.h = NewHandler(fakeProjects{}, f.mail, f.news, gate, "brian@example.com", zap.NewNop())

	tests := []struct {
		name string
		drop []string
	}{
		{"no honeypot input", []string{honeypot.DefaultNameField}},
		{"no timestamp input", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := contactForm()
			for _, k := range tt.drop {
				form.Del(k)
			}
			rec := post(f.h, form)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
			if got := decodeBody(t, rec)["error"]; got != formaction.MsgSpam {
				t.Errorf("error = %v, want %q", got, formaction.MsgSpam)
			}
		})
	}
	if len(f.mail.sent) != 0 {
		t.Errorf("sent %d emails, want 0", len(f.mail.sent))
	}
}

func TestContact_EmptyMessageIDIsBadGateway(t *testing.T) {
	f := newFixture(fakeProjects{})
	f.mail.noID = true

	rec := post(f.h, contactForm())

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "" {
		t.Errorf("Location = %q, want none", loc)
	}
	if got := decodeBody(t, rec)["error"]; got != formaction.MsgUpstream {
		t.Errorf("error = %v, want %q", got, formaction.MsgUpstream)
	}
}

func TestPost_UnreadableBodyIsSpam(t *testing.T) {
	f := newFixture(fakeProjects{})

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("name=John"))
	req.Header.Set("Content-Type", "multipart/form-data")
	rec := httptest.NewRecorder()
	Routes(f.h).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if diff := cmp.Diff(map[string]any{"error": formaction.MsgSpam}, decodeBody(t, rec)); diff != "" {
		t.Errorf("body mismatch (-want +got):\n%s", diff)
	}
	if len(f.mail.sent) != 0 {
		t.Errorf("sent %d emails, want 0", len(f.mail.sent))
	}
}

func TestIndex(t *testing.T) {
	testutil.MustBootTemplates(t)
	f := newFixture(fakeProjects{projects: []content.Project{{ID: "p1", Title: "Ticketing site", ProjectURL: "https://x.co"}}})

	rec := testutil.NewRecorder()
	f.h.Index(rec, testutil.WithCSRFToken(httptest.NewRequest(http.MethodGet, "/", nil)))

	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, "Ticketing site")
	rec.AssertContains(t, honeypot.DefaultNameField)
}

func TestIndex_ContentUnavailable(t *testing.T) {
	testutil.MustBootTemplates(t)
	f := newFixture(fakeProjects{err: errors.New("sanity: status 500")})

	rec := testutil.NewRecorder()
	f.h.Index(rec, testutil.WithCSRFToken(httptest.NewRequest(http.MethodGet, "/", nil)))

	rec.AssertStatus(t, http.StatusBadGateway)
}

func TestContact_HTMLReRendersWithErrors(t *testing.T) {
	testutil.MustBootTemplates(t)
	f := newFixture(fakeProjects{})
	form := contactForm()
	form.Set("email", "x")

	rec := testutil.NewRecorder()
	Routes(f.h).ServeHTTP(rec, testutil.NewHTMLFormRequest("/", form))

	rec.AssertStatus(t, http.StatusBadRequest)
	rec.AssertContains(t, "Invalid email")
	rec.AssertContains(t, "John Doe")
}
