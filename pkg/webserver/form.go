package webserver

import (
	_ "embed"
	"fmt"
	html "html/template"
	"io"
	"io/ioutil"
	"net/http"
	"net/url"

	pz "github.com/weberc2/httpeasy"
	"github.com/weberc2/passwordreset/pkg/i18n"
	"github.com/weberc2/passwordreset/pkg/prelude"
	"github.com/weberc2/passwordreset/pkg/types"
)

type field struct {
	ID           string
	Label        string
	Type         string
	Value        string
	Autocomplete string

	// FilterArabic strips Arabic-block characters from the field as the user
	// types.
	FilterArabic bool

	// Toggle is the `toggle` value posted by the field's show/hide button.
	// Empty means no button.
	Toggle      string
	ToggleLabel string
}

type link struct {
	ID   string
	Href string
	Text string
}

// page is the template context for every page. Only the fields tagged for
// JSON end up in the request log.
type page struct {
	Lang         string  `json:"lang"`
	Dir          string  `json:"-"`
	Title        string  `json:"title"`
	Intro        string  `json:"-"`
	FormAction   string  `json:"formAction,omitempty"`
	ErrorMessage string  `json:"errorMessage,omitempty"`
	Fields       []field `json:"-"` // may hold passwords
	Submit       string  `json:"-"`
	Links        []link  `json:"-"`
}

// Toggles reports whether any field has a show/hide button. Those pages get
// an off-screen copy of the submit control ahead of the fields, so pressing
// Enter submits the form rather than the first toggle.
func (p *page) Toggles() bool {
	for i := range p.Fields {
		if p.Fields[i].Toggle != "" {
			return true
		}
	}
	return false
}

func newPage(l *i18n.Localizer, title string) *page {
	return &page{Lang: l.Lang(), Dir: l.Dir(), Title: l.T(title)}
}

//go:embed page.html
var pageTemplate_ string
var pageTemplate = prelude.Must(html.New("page").Parse(pageTemplate_))

func render(status int, p *page, logging interface{}) pz.Response {
	return pz.Response{
		Status: status,
		Data:   pz.HTMLTemplate(pageTemplate, p),
	}.WithLogging(logging)
}

type logging struct {
	Message   string          `json:"message"`
	Session   types.SessionID `json:"session,omitempty"`
	Page      *page           `json:"page,omitempty"`
	ErrorType string          `json:"errorType,omitempty"`
	Error     string          `json:"error,omitempty"`
}

func parseForm(r pz.Request) (url.Values, error) {
	// Read at most 2kb data to avoid DOS attack. That should be plenty for our
	// forms.
	data, err := ioutil.ReadAll(io.LimitReader(r.Body, 2056))
	if err != nil {
		return nil, formParseErr(err)
	}
	form, err := url.ParseQuery(string(data))
	if err != nil {
		return nil, formParseErr(err)
	}
	return form, nil
}

func formParseErr(err error) *pz.HTTPError {
	return &pz.HTTPError{
		Status:  http.StatusBadRequest,
		Message: "error parsing form data",
		Cause_:  err,
	}
}

func handleError(publicMessage, privateMessage string, err error) pz.Response {
	return pz.HandleError(
		publicMessage,
		err,
		&logging{
			Message:   privateMessage,
			ErrorType: fmt.Sprintf("%T", err),
			Error:     err.Error(),
		},
	)
}
