package views

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"net/url"
)

//go:embed templates/*.html
var templateFS embed.FS

// HomeTemplate is the name of the prediction form page.
const HomeTemplate = "home.html"

// Renderer executes the embedded page templates.
type Renderer struct {
	templates *template.Template
}

// NewRenderer parses the embedded templates.
func NewRenderer() (*Renderer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return &Renderer{templates: tmpl}, nil
}

// Render writes template name executed with data to w.
func (r *Renderer) Render(w io.Writer, name string, data any) error {
	return r.templates.ExecuteTemplate(w, name, data)
}

// HomePage is the data rendered into home.html.
type HomePage struct {
	Form    FormState
	Options FormOptions
	Results string
}

// FormState echoes the submitted values back into the form.
type FormState struct {
	Gender                   string
	Ethnicity                string
	ParentalLevelOfEducation string
	Lunch                    string
	TestPreparationCourse    string
	ReadingScore             string
	WritingScore             string
}

// FormOptions lists the choices offered by each select box.
type FormOptions struct {
	Gender                   []string
	Ethnicity                []string
	ParentalLevelOfEducation []string
	Lunch                    []string
	TestPreparationCourse    []string
}

// DefaultOptions are the categories the model was trained on.
var DefaultOptions = FormOptions{
	Gender:    []string{"male", "female"},
	Ethnicity: []string{"group A", "group B", "group C", "group D", "group E"},
	ParentalLevelOfEducation: []string{
		"associate's degree",
		"bachelor's degree",
		"high school",
		"master's degree",
		"some college",
		"some high school",
	},
	Lunch:                 []string{"free/reduced", "standard"},
	TestPreparationCourse: []string{"none", "completed"},
}

// NewHomePage builds page data, echoing values when present.
func NewHomePage(values url.Values, results string) HomePage {
	page := HomePage{Options: DefaultOptions, Results: results}
	if values != nil {
		page.Form = FormState{
			Gender:                   values.Get("gender"),
			Ethnicity:                values.Get("ethnicity"),
			ParentalLevelOfEducation: values.Get("parental_level_of_education"),
			Lunch:                    values.Get("lunch"),
			TestPreparationCourse:    values.Get("test_preparation_course"),
			ReadingScore:             values.Get("reading_score"),
			WritingScore:             values.Get("writing_score"),
		}
	}
	return page
}
