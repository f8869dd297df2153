package handlers

import (
	"html/template"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"techshop/internal/storage"
)

// ViewerHandler renders a plain HTML dump of a named table. Diagnostic
// only; it is the one route that does not answer JSON.
type ViewerHandler struct {
	DB *gorm.DB
}

var viewerTmpl = template.Must(template.New("viewer").Parse(`<!DOCTYPE html>
<html>
<head><title>{{.Table}}</title></head>
<body>
<h1>{{.Table}} ({{len .Rows}} rows shown)</h1>
<table border="1" cellpadding="4">
<tr>{{range .Columns}}<th>{{.}}</th>{{end}}</tr>
{{range .Rows}}<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
{{end}}</table>
</body>
</html>
`))

func (h *ViewerHandler) Handle(c echo.Context) error {
	table := c.QueryParam("table")
	if !storage.IsKnownTable(table) {
		return c.String(http.StatusBadRequest, "unknown table")
	}

	cols, rows, err := storage.DumpTable(h.DB, table, 100)
	if err != nil {
		return c.String(http.StatusInternalServerError, "dump failed: "+err.Error())
	}

	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(http.StatusOK)
	return viewerTmpl.Execute(c.Response(), map[string]any{
		"Table":   table,
		"Columns": cols,
		"Rows":    rows,
	})
}
