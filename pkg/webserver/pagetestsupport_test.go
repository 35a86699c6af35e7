package webserver

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	pz "github.com/weberc2/httpeasy"
	pztest "github.com/weberc2/httpeasy/testsupport"
)

type pageDocument struct {
	lang         string
	dir          string
	title        string
	errorMessage string

	// action is the wanted form action; empty means the page has no form
	action string
	fields []input
	links  []wantedLink
}

type input struct {
	name  string
	type_ string
	value string
	label string
}

type wantedLink struct {
	id   string
	href string
}

func expectPageFromSerializer(s pz.Serializer, wanted *pageDocument) error {
	data, err := pztest.ReadAll(s)
	if err != nil {
		return fmt.Errorf("reading serializer: %w", err)
	}
	return expectPageFromBytes(data, wanted)
}

func expectPageFromBytes(data []byte, wanted *pageDocument) error {
	d, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("HTML-parsing response: %w", err)
	}
	return expectPage(d, wanted)
}

func expectPage(d *goquery.Document, wanted *pageDocument) error {
	htmlNode := d.Find("html")
	if lang, _ := htmlNode.Attr("lang"); lang != wanted.lang {
		return newError(
			htmlNode,
			"page: `<html>` attribute `lang`: wanted `%s`; found `%s`",
			wanted.lang,
			lang,
		)
	}
	if dir, _ := htmlNode.Attr("dir"); dir != wanted.dir {
		return newError(
			htmlNode,
			"page: `<html>` attribute `dir`: wanted `%s`; found `%s`",
			wanted.dir,
			dir,
		)
	}

	titleNode := d.Find("head title")
	if titleNode.Length() < 1 {
		return newError(d.Selection, "page: missing `<title>` element")
	}
	if titleText := titleNode.Text(); titleText != wanted.title {
		return newError(
			titleNode,
			"page: `<title>` element: wanted `%s`; found `%s`",
			wanted.title,
			titleText,
		)
	}

	body := d.Find("body")
	if body.Length() < 1 {
		return newError(d.Selection, "page: missing `<body>` element")
	}
	titleH1 := body.Find("h1#title")
	if titleText := titleH1.Text(); titleText != wanted.title {
		return newError(
			body,
			"page: `<h1 id=\"title\">` element: wanted `%s`; found `%s`",
			wanted.title,
			titleText,
		)
	}

	errorMessage := body.Find("p#error-message")
	if wanted.errorMessage != "" {
		if errorMessage.Length() < 1 {
			return newError(
				body,
				"page: missing `<p id=\"error-message\">` element; wanted `%s`",
				wanted.errorMessage,
			)
		}
		if found := errorMessage.Text(); found != wanted.errorMessage {
			return newError(
				body,
				"page: `<p id=\"error-message\">` element: wanted `%s`; "+
					"found `%s`",
				wanted.errorMessage,
				found,
			)
		}
	} else if errorMessage.Length() > 0 {
		return newError(
			body,
			"page: unexpected element: `<p id=\"error-message\">`",
		)
	}

	for _, link := range wanted.links {
		a := body.Find(fmt.Sprintf("a#%s", link.id))
		if a.Length() < 1 {
			return newError(body, "page: missing link `%s`", link.id)
		}
		if href, _ := a.Attr("href"); href != link.href {
			return newError(
				a,
				"page: link `%s`: wanted href `%s`; found `%s`",
				link.id,
				link.href,
				href,
			)
		}
	}

	if wanted.action == "" {
		if form := d.Find("form"); form.Length() > 0 {
			return newError(form, "page: unexpected `<form>` element")
		}
		return nil
	}
	return expectForm(d, wanted.action, wanted.fields)
}

func expectForm(
	d *goquery.Document,
	action string,
	fields []input,
) error {
	form := d.Find("form")
	if form.Length() < 1 {
		return newError(
			d.Selection,
			"document has no `<form>` element",
		)
	}

	foundAction, exists := form.First().Attr("action")
	if !exists {
		return newError(form, "form missing attribute: `action`")
	}

	if foundAction != action {
		return fmt.Errorf(
			"form action: wanted `%s`; found `%s`",
			action,
			foundAction,
		)
	}

	for i := range fields {
		if err := expectInput(form, &fields[i]); err != nil {
			return err
		}
	}

	return nil
}

func expectInput(
	form *goquery.Selection,
	input *input,
) error {
	field := form.Find(fmt.Sprintf("input[name=\"%s\"]", input.name))
	if field.Length() < 1 {
		return newError(form, "form field `%s`: not found", input.name)
	}

	type_, exists := field.First().Attr("type")
	if !exists {
		return newError(
			form,
			"form field `%s`: missing `type` attribute",
			input.name,
		)
	}

	if type_ != input.type_ {
		return newError(
			field,
			"form's field `%s`: attribute `type`: wanted `%s`; found `%s`",
			input.name,
			input.type_,
			type_,
		)
	}

	value, exists := field.First().Attr("value")
	if input.value == "" && exists {
		return newError(
			field,
			"form field `%s`: wanted no `value` attribute; found `%s`",
			input.name,
			value,
		)
	} else if input.value != "" && !exists {
		return newError(
			field,
			"form field `%s`: attribute `value`: wanted `%s` but attribute "+
				"not found",
			input.name,
			input.value,
		)
	} else if input.value != "" && value != input.value {
		return newError(
			field,
			"form field `%s`: attribute `value`: wanted `%s`; found `%s`",
			input.name,
			input.value,
			value,
		)
	}

	label := form.Find(fmt.Sprintf(`label[for="%s"]`, input.name))
	if input.label == "" && label.Length() > 0 {
		return newError(
			form,
			"form field `%s`: found unwanted label",
			input.name,
		)
	} else if input.label != "" && label.Length() < 1 {
		return newError(
			form,
			"form field `%s`: wanted label `%s`; label node not found",
			input.name,
			input.label,
		)
	} else if input.label != "" && label.Text() != input.label {
		return newError(
			label,
			"form field `%s`: wanted label `%s`; found `%s`",
			input.name,
			input.label,
			label.Text(),
		)
	}

	return nil
}

func newError(s *goquery.Selection, format string, v ...interface{}) error {
	return handleErr(s, fmt.Errorf(format, v...))
}

func handleErr(s *goquery.Selection, err error) error {
	html, renderErr := s.Html()
	if renderErr != nil {
		return fmt.Errorf(
			"error rendering HTML while handling error (original error: "+
				"%w): %v",
			err,
			renderErr,
		)
	}

	return fmt.Errorf("%w:\n\n%s", err, html)
}

type kv [2]string

func encodeForm(form ...kv) string {
	const key = 0
	const val = 1
	if len(form) < 1 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(url.QueryEscape(form[0][key]))
	sb.WriteByte('=')
	sb.WriteString(url.QueryEscape(form[0][val]))
	for i := range form[1:] {
		sb.WriteByte('&')
		sb.WriteString(url.QueryEscape(form[i+1][key]))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(form[i+1][val]))
	}
	return sb.String()
}

// expectDefaultSubmit checks the form's first submit control, the one a
// browser activates when Enter is pressed in a field.
func expectDefaultSubmit(data []byte, wantedValue string) error {
	d, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("HTML-parsing response: %w", err)
	}
	submit := d.Find("form [type=submit]").First()
	if submit.Length() < 1 {
		return newError(d.Selection, "form: no submit control")
	}
	if name, exists := submit.Attr("name"); exists {
		return newError(
			submit,
			"form: first submit control: wanted no `name`; found `%s`",
			name,
		)
	}
	if value, _ := submit.Attr("value"); value != wantedValue {
		return newError(
			submit,
			"form: first submit control: wanted value `%s`; found `%s`",
			wantedValue,
			value,
		)
	}
	return nil
}
