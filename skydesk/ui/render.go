package ui

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"amonic/skydesk/internal/auth"
	"amonic/skydesk/internal/constants"
	"amonic/skydesk/internal/listview"
	"amonic/skydesk/internal/logging"
	"amonic/skydesk/internal/models/dtos"
)

//go:embed templates
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Static serves the embedded stylesheet and scripts under /static/.
func Static() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FileServer(http.FS(sub))
}

var funcMap = template.FuncMap{
	"add": func(a, b int) int {
		return a + b
	},
	// seq returns 0..n-1 for ranging a fixed number of form rows.
	"seq": func(n int) []int {
		out := make([]int, n)
		for i := range out {
			out[i] = i
		}
		return out
	},
	"age": func(u dtos.User) string {
		return u.Age(time.Now())
	},
	"roleLabel": func(id int) string {
		return constants.Role(id).Label()
	},
	"deref": func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	},
	"cabin": func(id int) string {
		return constants.CabinType(id).String()
	},
	// dict builds the argument map of a nested template call.
	"dict": func(kv ...any) (map[string]any, error) {
		if len(kv)%2 != 0 {
			return nil, errors.New("dict needs key/value pairs")
		}
		m := make(map[string]any, len(kv)/2)
		for i := 0; i < len(kv); i += 2 {
			k, ok := kv[i].(string)
			if !ok {
				return nil, fmt.Errorf("dict key %v is not a string", kv[i])
			}
			m[k] = kv[i+1]
		}
		return m, nil
	},
	"inputType": func(t listview.FieldType) string {
		switch t {
		case listview.FieldNumber, listview.FieldInteger:
			return "number"
		case listview.FieldEmail, listview.FieldDate, listview.FieldTime:
			return string(t)
		}
		return "text"
	},
}

func parse(page string) (*template.Template, error) {
	t := template.New("").Funcs(funcMap)
	t, err := t.ParseFS(templateFS, "templates/layouts/*.html", "templates/partials/*.html")
	if err != nil {
		return nil, err
	}
	return t.ParseFS(templateFS, "templates/pages/"+page)
}

func execute(w http.ResponseWriter, page, name string, data map[string]any, code []int) error {
	t, err := parse(page)
	if err != nil {
		logging.Error("Error loading template", "page", page, "error", err)
		http.Error(w, "Error loading template", http.StatusInternalServerError)
		return err
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, name, data); err != nil {
		logging.Error("Error rendering template", "page", page, "template", name, "error", err)
		http.Error(w, "Error rendering template", http.StatusInternalServerError)
		return err
	}

	status := http.StatusOK
	if len(code) > 0 {
		status = code[0]
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err = buf.WriteTo(w)
	return err
}

// RenderTemplate renders a page inside the base layout
func RenderTemplate(w http.ResponseWriter, page string, data map[string]any, code ...int) error {
	return execute(w, page, "base", data, code)
}

// RenderPartial renders one named fragment of a page (for HTMX responses)
func RenderPartial(w http.ResponseWriter, page, name string, data map[string]any, code ...int) error {
	return execute(w, page, name, data, code)
}

// pageData seeds the template data every page needs.
func pageData(r *http.Request, title string) map[string]any {
	data := map[string]any{
		"Title": title,
		"Theme": auth.GetTheme(r.Context()),
		"Path":  r.URL.Path,
	}
	if s := auth.GetSession(r.Context()); s != nil {
		data["Email"] = s.Email()
		data["IsAdmin"] = s.Role() == constants.RoleAdmin
		data["SignedIn"] = true
	}
	return data
}
