package main

import (
	"bytes"
	"encoding/json"
	"image"
	"image/png"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"weathercore/color"
	"weathercore/domain"
	"weathercore/errs"
	"weathercore/meta"
	"weathercore/orchestrator"
	"weathercore/tiles"
)

// server binds an Orchestrator to the HTTP surface described in
// spec.md §6: tiles, parameter listing/metadata, point queries, and
// forecast/forecast-stream.
type server struct {
	orch *orchestrator.Orchestrator
}

func (s *server) routes() *gin.Engine {
	r := gin.Default()

	r.GET("/healthz", s.handleHealthz)
	r.GET("/tiles/:model/:param/:offset/:z/:x/:y.png", s.handleTile)
	r.GET("/list_parameters/:model/:offset", s.handleListParameters)
	r.GET("/parameters", s.handleParameters)
	r.POST("/point", s.handlePoint)
	r.POST("/point/:offset", s.handlePoint)
	r.POST("/forecast", s.handleForecast)
	r.POST("/forecast-stream", s.handleForecastStream)

	return r
}

func (s *server) handleHealthz(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}

func (s *server) handleListParameters(c *gin.Context) {
	model := c.Param("model")
	defs, ok := meta.Catalog[model]
	if !ok {
		writeError(c, &errs.UnknownModel{Model: model})
		return
	}
	names := make([]string, 0, len(defs))
	for _, d := range defs {
		names = append(names, d.RawName)
	}
	c.JSON(http.StatusOK, gin.H{"parameters": names})
}

func (s *server) handleParameters(c *gin.Context) {
	model := c.DefaultQuery("model", "gfs")
	defs, ok := meta.Catalog[model]
	if !ok {
		writeError(c, &errs.UnknownModel{Model: model})
		return
	}

	out := make([]gin.H, 0, len(defs))
	for _, d := range defs {
		entry := gin.H{
			"slug":       d.Slug,
			"level_type": d.LevelType,
			"level":      d.Level,
			"step_type":  d.StepType,
			"colormap":   color.AssignColormap(d.RawName).Name,
		}
		if info, ok := meta.Default.Lookup(model, d.Slug); ok {
			entry["description"] = info.Description
			entry["notes"] = info.Notes
		}
		out = append(out, entry)
	}
	c.JSON(http.StatusOK, gin.H{"model": model, "parameters": out})
}

func (s *server) handleTile(c *gin.Context) {
	model := c.Param("model")
	slug := c.Param("param")
	hourOffset, errOff := strconv.Atoi(c.Param("offset"))
	z, errZ := strconv.Atoi(c.Param("z"))
	x, errX := strconv.Atoi(c.Param("x"))
	yStr := strings.TrimSuffix(c.Param("y.png"), ".png")
	y, errY := strconv.Atoi(yStr)
	if errZ != nil || errX != nil || errY != nil || errOff != nil {
		writeError(c, &errs.InvalidCoords{Z: z, X: x, Y: y})
		return
	}

	def, ok := meta.Lookup(model, slug)
	if !ok {
		writeError(c, &errs.NoMatchingMessage{Parameter: slug})
		return
	}
	if lt := c.Query("typeOfLevel"); lt != "" {
		def.LevelType = lt
	}
	if lv := c.Query("level"); lv != "" {
		if f, err := strconv.ParseFloat(lv, 64); err == nil {
			def.Level = f
		}
	}
	if st := c.Query("stepType"); st != "" {
		def.StepType = st
	}

	now := time.Now().UTC()
	timeBucket := domain.TimeBucket(now, hourOffset)

	raster, err := s.orch.RenderTile(c.Request.Context(), model, toParamSpec(def), timeBucket, hourOffset, z, x, y)
	if err != nil {
		writeError(c, err)
		return
	}

	pngBytes, err := encodeTilePNG(raster)
	if err != nil {
		writeError(c, &errs.GribDecodeError{Path: "<raster>", Err: err})
		return
	}
	c.Data(http.StatusOK, "image/png", pngBytes)
}

// encodeTilePNG hands RenderTile's raw RGBA8 raster to image/png at
// the transport boundary, per spec.md §1 ("the PNG encoder — the core
// produces an RGBA raster; encoding is external").
func encodeTilePNG(raster []byte) ([]byte, error) {
	img := &image.RGBA{
		Pix:    raster,
		Stride: tiles.TileSize * 4,
		Rect:   image.Rect(0, 0, tiles.TileSize, tiles.TileSize),
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// pointRequest is POST /point[/{offset}]'s batch request body.
type pointRequest struct {
	Model  string   `json:"model"`
	Lat    float64  `json:"lat"`
	Lon    float64  `json:"lon"`
	Params []string `json:"params"`
}

func (s *server) handlePoint(c *gin.Context) {
	var req pointRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	model := req.Model
	if model == "" {
		model = "gfs"
	}
	hourOffset := 0
	if offStr := c.Param("offset"); offStr != "" {
		if v, err := strconv.Atoi(offStr); err == nil {
			hourOffset = v
		}
	}

	slugs := req.Params
	if len(slugs) == 0 {
		for _, d := range meta.Catalog[model] {
			slugs = append(slugs, d.Slug)
		}
	}

	var specs []orchestrator.ParamSpec
	for _, slug := range slugs {
		def, ok := meta.Lookup(model, slug)
		if !ok {
			continue
		}
		specs = append(specs, toParamSpec(def))
	}

	values, err := s.orch.PointValues(c.Request.Context(), model, specs, hourOffset, req.Lat, req.Lon)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"model": model, "lat": req.Lat, "lon": req.Lon, "values": values})
}

// forecastRequest is POST /forecast and /forecast-stream's request
// body (spec.md §4.12's Timeseries operation).
type forecastRequest struct {
	Model       string   `json:"model"`
	Params      []string `json:"params"`
	Lat         float64  `json:"lat"`
	Lon         float64  `json:"lon"`
	StartOffset int      `json:"start_offset"`
	TotalDays   int      `json:"total_days"`
	StepHours   int      `json:"step_hours"`
}

func (r forecastRequest) offsets() []int {
	step := r.StepHours
	if step <= 0 {
		step = 6
	}
	days := r.TotalDays
	if days <= 0 {
		days = 7
	}
	maxOffset := r.StartOffset + days*24
	var offsets []int
	for off := r.StartOffset; off <= maxOffset; off += step {
		offsets = append(offsets, domain.SnapOffset(off))
	}
	return offsets
}

func (s *server) paramSpecs(model string, slugs []string) []orchestrator.ParamSpec {
	if len(slugs) == 0 {
		for _, d := range meta.Catalog[model] {
			slugs = append(slugs, d.Slug)
		}
	}
	var specs []orchestrator.ParamSpec
	for _, slug := range slugs {
		def, ok := meta.Lookup(model, slug)
		if !ok {
			continue
		}
		specs = append(specs, toParamSpec(def))
	}
	return specs
}

func (s *server) handleForecast(c *gin.Context) {
	var req forecastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	model := req.Model
	if model == "" {
		model = "gfs"
	}
	specs := s.paramSpecs(model, req.Params)
	if len(specs) == 0 {
		writeError(c, &errs.NoMatchingMessage{Parameter: strings.Join(req.Params, ",")})
		return
	}

	series, err := s.orch.Timeseries(c.Request.Context(), model, specs, req.offsets(), req.Lat, req.Lon, nil)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"model": model, "lat": req.Lat, "lon": req.Lon, "timeseries": series})
}

// handleForecastStream runs the same Timeseries computation as
// handleForecast but streams NDJSON progress lines as each offset
// completes, followed by a final line carrying the full timeseries
// (spec.md §6: "emits {"progress":"k of n"} lines then a final
// {"timeseries": …}").
func (s *server) handleForecastStream(c *gin.Context) {
	var req forecastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	model := req.Model
	if model == "" {
		model = "gfs"
	}
	specs := s.paramSpecs(model, req.Params)
	if len(specs) == 0 {
		writeError(c, &errs.NoMatchingMessage{Parameter: strings.Join(req.Params, ",")})
		return
	}

	c.Header("Content-Type", "application/x-ndjson")
	c.Status(http.StatusOK)

	writeLine := func(v any) {
		b, err := json.Marshal(v)
		if err != nil {
			return
		}
		c.Writer.Write(b)
		c.Writer.Write([]byte("\n"))
		c.Writer.Flush()
	}

	progress := func(completed, total int) {
		writeLine(gin.H{"progress": progressString(completed, total)})
	}

	series, err := s.orch.Timeseries(c.Request.Context(), model, specs, req.offsets(), req.Lat, req.Lon, progress)
	if err != nil {
		writeLine(gin.H{"error": err.Error()})
		return
	}
	writeLine(gin.H{"timeseries": series})
}

func progressString(completed, total int) string {
	return strconv.Itoa(completed) + " of " + strconv.Itoa(total)
}

func toParamSpec(d meta.ParamDef) orchestrator.ParamSpec {
	return orchestrator.ParamSpec{
		Slug:      d.Slug,
		Name:      d.RawName,
		Level:     d.Level,
		LevelType: d.LevelType,
		StepType:  d.StepType,
	}
}

// writeError maps a core error kind to the HTTP status spec.md §7
// documents for it: Unknown/NotFound/selector-miss/bad-coords are all
// 404s, decode and data-shape failures are 500s, cancellation
// propagates as 499 (client closed request, nginx's convention for
// this case since 408 would imply a server-side timeout).
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch err.(type) {
	case *errs.UnknownModel, *errs.FileNotFound, *errs.NoMatchingMessage, *errs.InvalidCoords:
		status = http.StatusNotFound
	case *errs.GribDecodeError, *errs.InsufficientData:
		status = http.StatusInternalServerError
	case *errs.Cancelled:
		status = 499
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
