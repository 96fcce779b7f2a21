// Package debugsrv exposes an optional debug HTTP surface
// (/metrics, /snapshot, /snapshot.json, /inspect) over fasthttp. It is
// never required by the protocol driver loop (spec §6's interface is
// stdin/stdout only) and never blocks it — it runs, if started at
// all, on its own listener in a separate goroutine the engine does
// not wait on.
package debugsrv

import (
	"net/http"
	"net/http/pprof"
	"strconv"

	jsoniter "github.com/json-iterator/go"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"

	"github.com/coralstore/diskctl/catalog"
	"github.com/coralstore/diskctl/cmn/logx"
	"github.com/coralstore/diskctl/inspect"
	"github.com/coralstore/diskctl/snapshot"
	"github.com/coralstore/diskctl/store"
)

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// Server serves /metrics (via the promhttp adapter bridged onto
// fasthttp), /snapshot (a point-in-time msgp+lz4 dump of disk state),
// /snapshot.json (the same dump, JSON-encoded for human inspection),
// and /inspect?tag=N (object ids currently carrying that tag, via a
// disposable buntdb-backed index rebuilt on demand).
type Server struct {
	disks []*store.Disk
	table *catalog.Table
	tick  func() int
}

// New builds a Server over the engine's live disk slice and object
// table; tick returns the current tick for snapshot labeling.
func New(disks []*store.Disk, table *catalog.Table, tick func() int) *Server {
	return &Server{disks: disks, table: table, tick: tick}
}

// ListenAndServe blocks serving on addr; callers run it in its own
// goroutine.
func (s *Server) ListenAndServe(addr string) error {
	metricsHandler := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
	pprofHandler := fasthttpadaptor.NewFastHTTPHandler(http.HandlerFunc(pprof.Index))

	handler := func(ctx *fasthttp.RequestCtx) {
		switch string(ctx.Path()) {
		case "/metrics":
			metricsHandler(ctx)
		case "/snapshot":
			s.serveSnapshot(ctx)
		case "/snapshot.json":
			s.serveSnapshotJSON(ctx)
		case "/inspect":
			s.serveInspect(ctx)
		case "/debug/pprof/":
			pprofHandler(ctx)
		default:
			ctx.SetStatusCode(fasthttp.StatusNotFound)
		}
	}

	logx.Infof("debugsrv: listening on %s", addr)
	return fasthttp.ListenAndServe(addr, handler)
}

func (s *Server) serveSnapshot(ctx *fasthttp.RequestCtx) {
	snap := snapshot.Build(s.tick(), s.disks)
	payload, checksum, err := snapshot.Encode(snap)
	if err != nil {
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
		ctx.SetBodyString(err.Error())
		return
	}
	ctx.Response.Header.Set("X-Snapshot-Checksum", strconv.FormatUint(checksum, 10))
	ctx.Response.Header.SetContentType("application/octet-stream")
	ctx.SetBody(payload)
}

func (s *Server) serveSnapshotJSON(ctx *fasthttp.RequestCtx) {
	snap := snapshot.Build(s.tick(), s.disks)
	body, err := jsonAPI.Marshal(snap)
	if err != nil {
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
		ctx.SetBodyString(err.Error())
		return
	}
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetBody(body)
}

func (s *Server) serveInspect(ctx *fasthttp.RequestCtx) {
	tag, err := strconv.Atoi(string(ctx.QueryArgs().Peek("tag")))
	if err != nil {
		ctx.SetStatusCode(fasthttp.StatusBadRequest)
		ctx.SetBodyString("query parameter 'tag' must be an integer")
		return
	}

	idx, err := inspect.Rebuild(s.table)
	if err != nil {
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
		ctx.SetBodyString(err.Error())
		return
	}
	defer idx.Close()

	ids, err := idx.ByTag(tag)
	if err != nil {
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
		ctx.SetBodyString(err.Error())
		return
	}

	body, err := jsonAPI.Marshal(struct {
		Tag       int   `json:"tag"`
		ObjectIDs []int `json:"object_ids"`
	}{Tag: tag, ObjectIDs: ids})
	if err != nil {
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
		ctx.SetBodyString(err.Error())
		return
	}
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetBody(body)
}
