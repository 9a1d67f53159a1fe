package server

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/KaramelBytes/insights-cli/internal/analysis"
	"github.com/KaramelBytes/insights-cli/internal/charts"
	"github.com/KaramelBytes/insights-cli/internal/metrics"
	"github.com/KaramelBytes/insights-cli/internal/parser"
	"github.com/KaramelBytes/insights-cli/internal/query"
)

type chartRow struct {
	Index  int
	Config charts.Config
}

// ShowAggregation reports whether the value and method selectors are shown.
func (r chartRow) ShowAggregation() bool {
	return r.Config.ChartType.UsesAggregation() && r.Config.UseAggregation
}

type dashboardView struct {
	Error        string
	Report       *analysis.Report
	Columns      []string
	Numeric      []string
	Charts       []chartRow
	ChartTypes   []charts.ChartType
	Schemes      []charts.ColorScheme
	Aggregations []analysis.Aggregation
	MinTopN      int
	MaxTopN      int
	Query        string
	Answer       *query.Answer
	QueryError   string
}

func (s *Server) handleIndex(c echo.Context) error {
	view := dashboardView{
		Error:        c.QueryParam("error"),
		ChartTypes:   charts.ChartTypes,
		Schemes:      charts.ColorSchemes,
		Aggregations: []analysis.Aggregation{analysis.AggSum, analysis.AggMean, analysis.AggCount},
		MinTopN:      charts.MinTopN,
		MaxTopN:      charts.MaxTopN,
		Query:        c.QueryParam("q"),
	}
	f, configs, err := s.ws.Charts()
	if err == nil {
		view.Report = analysis.BuildReport(f, s.opt.Report)
		view.Columns = f.ColumnNames()
		view.Numeric = f.NumericColumns()
		for i, cfg := range configs {
			view.Charts = append(view.Charts, chartRow{Index: i, Config: cfg})
		}
		if view.Query != "" {
			ans, qerr := query.Match(f, view.Query)
			if qerr != nil {
				view.QueryError = qerr.Error()
			} else {
				metrics.RecordQuery(string(ans.Rule))
				view.Answer = &ans
			}
		}
	}
	var buf bytes.Buffer
	if err := s.tmpl.ExecuteTemplate(&buf, "dashboard.html", view); err != nil {
		return s.fail(c, fmt.Errorf("render dashboard: %w", err))
	}
	return c.HTMLBlob(http.StatusOK, buf.Bytes())
}

func (s *Server) handleUpload(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorBody{Error: "missing multipart field \"file\""})
	}
	src, err := fh.Open()
	if err != nil {
		return s.fail(c, fmt.Errorf("open upload: %w", err))
	}
	defer src.Close()

	format := parser.DetectFormat(fh.Filename)
	f, err := parser.Parse(fh.Filename, src, s.opt.Parse)
	if err != nil {
		metrics.RecordUpload(format.String(), "error", 0)
		s.log.Warn("upload rejected", "file", fh.Filename, "format", format.String(), "error", err)
		return s.fail(c, err)
	}
	s.ws.Load(f)
	metrics.RecordUpload(format.String(), "ok", f.Rows())
	s.log.Info("dataset loaded", "file", f.Name, "id", f.ID, "rows", f.Rows(), "columns", f.NumCols())

	if wantsJSON(c) {
		return c.JSON(http.StatusCreated, analysis.ProfileFrame(f))
	}
	return c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) handleAddChart(c echo.Context) error {
	idx, cfg, err := s.ws.AddChart()
	if err != nil {
		return s.fail(c, err)
	}
	if wantsJSON(c) {
		return c.JSON(http.StatusCreated, map[string]any{"index": idx, "config": cfg})
	}
	return c.Redirect(http.StatusSeeOther, "/#chart-"+strconv.Itoa(idx))
}

func chartIndex(c echo.Context) (int, error) {
	i, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", charts.ErrIndexOutOfRange, c.Param("index"))
	}
	return i, nil
}

// handleUpdateChart replaces a whole config from a JSON body, or applies the
// fields of a dashboard form.
func (s *Server) handleUpdateChart(c echo.Context) error {
	idx, err := chartIndex(c)
	if err != nil {
		return s.fail(c, err)
	}
	var cfg charts.Config
	if strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		if err := c.Bind(&cfg); err != nil {
			return c.JSON(http.StatusBadRequest, errorBody{Error: err.Error()})
		}
		cfg, err = s.ws.UpdateChart(idx, cfg)
	} else {
		cfg, err = s.ws.SetChartFields(idx, formFields(c))
	}
	if err != nil {
		return s.fail(c, err)
	}
	if wantsJSON(c) {
		return c.JSON(http.StatusOK, cfg)
	}
	return c.Redirect(http.StatusSeeOther, "/#chart-"+strconv.Itoa(idx))
}

// formFields collects chart fields from a form. An unchecked checkbox is
// absent from the form, so use_aggregation is always set.
func formFields(c echo.Context) map[charts.Field]string {
	out := map[charts.Field]string{}
	for _, f := range charts.Fields {
		if f == charts.FieldUseAggregation {
			out[f] = strconv.FormatBool(c.FormValue(string(f)) != "")
			continue
		}
		if v := c.FormValue(string(f)); v != "" {
			out[f] = v
		}
	}
	return out
}

func (s *Server) handleSetChartField(c echo.Context) error {
	idx, err := chartIndex(c)
	if err != nil {
		return s.fail(c, err)
	}
	field, err := charts.ParseField(c.Param("field"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorBody{Error: err.Error()})
	}
	cfg, err := s.ws.SetChart(idx, field, c.FormValue("value"))
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, cfg)
}

func (s *Server) handleRender(c echo.Context) error {
	f, configs, err := s.ws.Charts()
	if err != nil {
		return s.fail(c, err)
	}
	start := time.Now()
	var buf bytes.Buffer
	if err := s.opt.Renderer.WritePage(&buf, f, configs); err != nil {
		metrics.RecordRender("error", time.Since(start).Seconds(), nil)
		return s.fail(c, err)
	}
	types := make([]string, len(configs))
	for i, cfg := range configs {
		types[i] = cfg.ChartType.String()
	}
	metrics.RecordRender("ok", time.Since(start).Seconds(), types)
	return c.HTMLBlob(http.StatusOK, buf.Bytes())
}

func (s *Server) handleExportLayout(c echo.Context) error {
	_, configs, err := s.ws.Charts()
	if err != nil {
		return s.fail(c, err)
	}
	b, err := (&charts.Layout{Charts: configs}).Marshal()
	if err != nil {
		return s.fail(c, err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="charts.yaml"`)
	return c.Blob(http.StatusOK, "application/yaml", b)
}

func (s *Server) handleProfile(c echo.Context) error {
	f, err := s.ws.Frame()
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, analysis.ProfileFrame(f))
}

type summaryBody struct {
	Describe    analysis.DescribeTable  `json:"describe"`
	Frequencies []analysis.FrequencyRow `json:"frequencies"`
}

func (s *Server) handleSummary(c echo.Context) error {
	f, err := s.ws.Frame()
	if err != nil {
		return s.fail(c, err)
	}
	freq := analysis.TopFrequencies(f, s.opt.Report.TopValues)
	if freq == nil {
		freq = []analysis.FrequencyRow{}
	}
	return c.JSON(http.StatusOK, summaryBody{Describe: analysis.Describe(f), Frequencies: freq})
}

func (s *Server) handleQuery(c echo.Context) error {
	f, err := s.ws.Frame()
	if err != nil {
		return s.fail(c, err)
	}
	ans, err := query.Match(f, c.QueryParam("q"))
	if err != nil {
		return s.fail(c, err)
	}
	metrics.RecordQuery(string(ans.Rule))
	return c.JSON(http.StatusOK, ans)
}
