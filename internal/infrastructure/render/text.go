// Package render produces certificate documents.
package render

import (
	"bytes"
	"fmt"
	"text/template"
	"time"

	"github.com/sgea/academic-events/internal/core/domain"
)

const certificateTemplate = `================================================================================
                         CERTIFICATE OF PARTICIPATION
================================================================================

This certifies that

                        {{.ParticipantName}}

took part in the event

                        {{.EventTitle}}

Type: {{typeName .EventType}}
Dates: {{date .StartDate}} to {{date .EndDate}}
Location: {{.Location}}

Instructor in charge: {{.InstructorName}}
Organizer: {{.OrganizerName}}

================================================================================
               SGEA - Academic Event Management System
                         Issued on: {{date .IssuedAt}}
================================================================================
`

var typeNames = map[domain.EventType]string{
	domain.EventSeminar:  "Seminar",
	domain.EventTalk:     "Talk",
	domain.EventWorkshop: "Workshop",
	domain.EventCourse:   "Course",
}

// TextRenderer renders certificates as plain UTF-8 text.
type TextRenderer struct {
	tmpl *template.Template
}

func NewTextRenderer() *TextRenderer {
	funcs := template.FuncMap{
		"date": func(t time.Time) string { return t.Format("02/01/2006") },
		"typeName": func(t domain.EventType) string {
			if name, ok := typeNames[t]; ok {
				return name
			}
			return string(t)
		},
	}
	return &TextRenderer{
		tmpl: template.Must(template.New("certificate").Funcs(funcs).Parse(certificateTemplate)),
	}
}

func (r *TextRenderer) Render(data domain.CertificateData) ([]byte, error) {
	if data.ParticipantName == "" || data.EventTitle == "" {
		return nil, fmt.Errorf("certificate needs participant name and event title")
	}
	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render certificate: %w", err)
	}
	return buf.Bytes(), nil
}
