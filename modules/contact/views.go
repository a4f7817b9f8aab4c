package contact

import (
	"embed"
	"encoding/json"
	"html/template"
	"time"

	"github.com/a-h/templ"

	"github.com/dmitrymomot/landing/handler"
	"github.com/dmitrymomot/landing/pkg/formvalidator"
)

//go:embed templates/*.html
var templateFS embed.FS

// ToastTarget is the element notices are prepended to.
const ToastTarget = "#toast-container"

var fieldLabels = map[string]string{
	formvalidator.FieldFirstName: "First Name",
	formvalidator.FieldLastName:  "Last Name",
	formvalidator.FieldEmail:     "Email",
	formvalidator.FieldPhone:     "Phone",
	formvalidator.FieldMessage:   "Message",
}

var fieldTypes = map[string]string{
	formvalidator.FieldEmail: "email",
	formvalidator.FieldPhone: "tel",
}

// PageParams is the data of the contact page.
type PageParams struct {
	Title          string
	DatastarScript string
	Action         string
	FormID         string
	Fields         []FieldView
	Loading        bool
	Notices        []formvalidator.Notice
}

// Signals returns the initial DataStar signal store of the form.
func (p PageParams) Signals() string {
	values := make(map[string]string, len(p.Fields))
	errs := make(map[string]string, len(p.Fields))
	invalid := make(map[string]bool)
	for _, f := range p.Fields {
		values[f.Name] = f.Value
		errs[f.Name] = f.Error
		if f.Invalid {
			invalid[f.Name] = true
		}
	}

	b, _ := json.Marshal(map[string]any{
		"formId":  p.FormID,
		"values":  values,
		"errors":  errs,
		"invalid": invalid,
		"loading": p.Loading,
	})
	return string(b)
}

// FieldView is one rendered form field.
type FieldView struct {
	Name      string
	Label     string
	Type      string
	Value     string
	Error     string
	Invalid   bool
	Multiline bool
	BlurURL   string
	InputURL  string
}

// Views renders the module's pages and fragments as templ components.
type Views struct {
	t *template.Template
}

// NewViews parses the embedded templates. now supplies the footer year.
func NewViews(now func() time.Time) *Views {
	if now == nil {
		now = time.Now
	}
	t := template.Must(template.New("contact").Funcs(template.FuncMap{
		"year": func() int { return now().Year() },
	}).ParseFS(templateFS, "templates/*.html"))
	return &Views{t: t}
}

func (v *Views) render(name string, data any) templ.Component {
	return templ.FromGoHTML(v.t.Lookup(name), data)
}

// Page renders the whole contact page.
func (v *Views) Page(p PageParams) templ.Component {
	return v.render("page", p)
}

// Toast renders a notice.
func (v *Views) Toast(n formvalidator.Notice) templ.Component {
	return v.render("toast", n)
}

// ErrorPage renders a full error page.
func (v *Views) ErrorPage(p handler.ErrorPageParams) templ.Component {
	return v.render("error_page", p)
}

// ErrorToast renders an error as a toast.
func (v *Views) ErrorToast(p handler.ErrorToastParams) templ.Component {
	return v.render("error_toast", p)
}

// ErrorHandlerConfig returns the handler configuration rendering errors with v.
func (v *Views) ErrorHandlerConfig() handler.ErrorHandlerConfig {
	return handler.ErrorHandlerConfig{
		ErrorPage:   v.ErrorPage,
		ErrorToast:  v.ErrorToast,
		ToastTarget: ToastTarget,
	}
}

func fieldView(base, name string) FieldView {
	label, ok := fieldLabels[name]
	if !ok {
		label = name
	}
	typ, ok := fieldTypes[name]
	if !ok {
		typ = "text"
	}
	return FieldView{
		Name:      name,
		Label:     label,
		Type:      typ,
		Multiline: name == formvalidator.FieldMessage,
		BlurURL:   base + "/fields/" + name + "/blur",
		InputURL:  base + "/fields/" + name + "/input",
	}
}
