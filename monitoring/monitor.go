// Package monitoring serves simulations over HTTP so that a web page or any
// other client can run, inspect, and compare them.
package monitoring

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"runtime/pprof"
	"strconv"
	"strings"
	"sync"
	"time"

	// Enable profiling
	_ "net/http/pprof"

	"github.com/google/pprof/profile"
	"github.com/gorilla/mux"
	"github.com/pkg/browser"
	"github.com/sarchlab/pagesim/datarecording"
	"github.com/sarchlab/pagesim/idgen"
	"github.com/sarchlab/pagesim/monitoring/web"
	"github.com/sarchlab/pagesim/paging"
	"github.com/sarchlab/pagesim/refstring"
	"github.com/sarchlab/pagesim/tracing"
	"github.com/shirou/gopsutil/process"
	"github.com/syifan/goseth"
)

// Limits on the requests accepted by the monitor.
const (
	DefaultFrames    = 3
	MaxFrames        = 64
	MaxReferences    = 10000
	MaxStoredRuns    = 100
	maxProfileLength = 10 * time.Second
)

var errBadRequest = errors.New("bad request")

// Monitor turns the simulator into a server.
type Monitor struct {
	portNumber int
	ids        idgen.IDGenerator
	reader     datarecording.DataReader

	hooksLock sync.Mutex
	hooks     []paging.Hook

	runsLock sync.RWMutex
	runs     map[string]paging.Trace
	runIDs   []string
	runLimit int
}

// NewMonitor creates a new Monitor
func NewMonitor() *Monitor {
	return &Monitor{
		ids:      idgen.NewSequentialGenerator(),
		runs:     make(map[string]paging.Trace),
		runLimit: MaxStoredRuns,
	}
}

// WithPortNumber sets the port number of the monitor.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber != 0 && portNumber < 1000 {
		fmt.Fprintf(os.Stderr,
			"Port number %d is assigned to the monitoring server, "+
				"which is not allowed. Using a random port instead.\n", portNumber)
		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// WithIDGenerator sets the generator of run IDs.
func (m *Monitor) WithIDGenerator(ids idgen.IDGenerator) *Monitor {
	m.ids = ids
	return m
}

// WithRunLimit sets how many simulated runs are kept in memory. Once the
// limit is reached, storing a run drops the oldest one.
func (m *Monitor) WithRunLimit(n int) *Monitor {
	if n < 1 {
		n = 1
	}

	m.runsLock.Lock()
	defer m.runsLock.Unlock()

	m.runLimit = n
	m.trimRuns()

	return m
}

// RegisterHook attaches a hook to every simulation the monitor runs.
func (m *Monitor) RegisterHook(h paging.Hook) {
	m.hooksLock.Lock()
	defer m.hooksLock.Unlock()

	m.hooks = append(m.hooks, h)
}

// RegisterRecording makes the runs stored in a database available. Runs
// simulated by the monitor take precedence over recorded runs with the same
// ID.
func (m *Monitor) RegisterRecording(reader datarecording.DataReader) {
	datarecording.MapRunTables(reader)
	m.reader = reader
}

// AddRun stores a trace and returns its run ID.
func (m *Monitor) AddRun(trace paging.Trace) string {
	id := m.ids.Generate()
	m.addRun(id, trace)

	return id
}

func (m *Monitor) addRun(id string, trace paging.Trace) {
	m.runsLock.Lock()
	defer m.runsLock.Unlock()

	if _, exists := m.runs[id]; !exists {
		m.runIDs = append(m.runIDs, id)
	}

	m.runs[id] = trace
	m.trimRuns()
}

// trimRuns drops the oldest runs above the limit. runsLock must be held.
func (m *Monitor) trimRuns() {
	drop := len(m.runIDs) - m.runLimit
	if drop <= 0 {
		return
	}

	for _, id := range m.runIDs[:drop] {
		delete(m.runs, id)
	}

	m.runIDs = append([]string(nil), m.runIDs[drop:]...)
}

// Run returns a stored trace.
func (m *Monitor) Run(id string) (paging.Trace, bool) {
	m.runsLock.RLock()
	defer m.runsLock.RUnlock()

	trace, ok := m.runs[id]

	return trace, ok
}

// Handler returns the router of all the monitor routes.
func (m *Monitor) Handler() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/api/algorithms", m.listAlgorithms).Methods(http.MethodGet)
	r.HandleFunc("/api/simulate", m.simulate).
		Methods(http.MethodGet, http.MethodPost)
	r.HandleFunc("/api/compare", m.compare).Methods(http.MethodGet)
	r.HandleFunc("/api/belady", m.belady).Methods(http.MethodGet)
	r.HandleFunc("/api/runs", m.listRuns).Methods(http.MethodGet)
	r.HandleFunc("/api/run/{id}", m.runDetails).Methods(http.MethodGet)
	r.HandleFunc("/api/run/{id}/step/{index}", m.stepDetails).
		Methods(http.MethodGet)
	r.HandleFunc("/api/resource", m.listResources).Methods(http.MethodGet)
	r.HandleFunc("/api/profile", m.collectProfile).Methods(http.MethodGet)
	r.PathPrefix("/debug/pprof/").Handler(http.DefaultServeMux)
	r.PathPrefix("/").Handler(http.FileServer(web.GetAssets()))

	return r
}

// StartServer starts serving in the background and returns the URL of the
// server.
func (m *Monitor) StartServer() string {
	actualPort := ":0"
	if m.portNumber > 1000 {
		actualPort = ":" + strconv.Itoa(m.portNumber)
	}

	listener, err := net.Listen("tcp", actualPort)
	dieOnErr(err)

	url := fmt.Sprintf("http://localhost:%d",
		listener.Addr().(*net.TCPAddr).Port)

	fmt.Fprintf(os.Stderr, "Monitoring simulation with %s\n", url)

	server := &http.Server{
		Handler:           m.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		err := server.Serve(listener)
		dieOnErr(err)
	}()

	return url
}

// OpenInBrowser opens a URL with the default browser of the system.
func OpenInBrowser(url string) error {
	return browser.OpenURL(url)
}

func (m *Monitor) listAlgorithms(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, paging.Catalog())
}

type runRequest struct {
	strategies []paging.Strategy
	frames     int
	refs       []paging.Page
}

func parseRunRequest(r *http.Request, algorithmKey string) (runRequest, error) {
	req := runRequest{frames: DefaultFrames}

	var names []string
	if v := r.FormValue(algorithmKey); v != "" {
		names = strings.Split(v, ",")
	}

	strategies, err := paging.StrategiesByName(names)
	if err != nil {
		return req, err
	}

	req.strategies = strategies

	if v := r.FormValue("frames"); v != "" {
		req.frames, err = parseIntParam("frames", v)
		if err != nil {
			return req, err
		}
	}

	if req.frames > MaxFrames {
		return req, fmt.Errorf("%w: at most %d frames are allowed",
			errBadRequest, MaxFrames)
	}

	refs := r.FormValue("refs")
	if refs == "" {
		return req, fmt.Errorf("%w: refs is required", errBadRequest)
	}

	req.refs, err = refstring.Parse(refs)
	if err != nil {
		return req, err
	}

	if len(req.refs) > MaxReferences {
		return req, fmt.Errorf("%w: at most %d references are allowed",
			errBadRequest, MaxReferences)
	}

	return req, nil
}

func parseIntParam(name, value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer, got %q",
			errBadRequest, name, value)
	}

	return n, nil
}

func (m *Monitor) simulate(w http.ResponseWriter, r *http.Request) {
	req, err := parseRunRequest(r, "algorithm")
	if err != nil {
		badRequest(w, err)
		return
	}

	if len(req.strategies) != 1 {
		badRequest(w, fmt.Errorf("%w: exactly one algorithm is required",
			errBadRequest))
		return
	}

	id := m.ids.Generate()

	trace, err := m.runWithHooks(id, req.strategies[0], req.refs, req.frames)
	if err != nil {
		badRequest(w, err)
		return
	}

	m.addRun(id, trace)

	writeJSON(w, tracing.NewRecord(id, trace))
}

// newSimulator returns a simulator carrying the registered hooks.
// hooksLock must be held.
func (m *Monitor) newSimulator(strategy paging.Strategy) *paging.Simulator {
	sim := paging.NewSimulator(strategy)
	for _, h := range m.hooks {
		sim.AcceptHook(h)
	}

	return sim
}

// runWithHooks runs one simulation under the given run ID. Hooks see the
// same ID as the run store.
func (m *Monitor) runWithHooks(
	id string,
	strategy paging.Strategy,
	refs []paging.Page,
	frames int,
) (paging.Trace, error) {
	m.hooksLock.Lock()
	defer m.hooksLock.Unlock()

	return m.newSimulator(strategy).RunWithID(id, refs, frames)
}

// compareWithHooks runs every strategy on the same input and returns the
// run IDs with the traces. Without hooks, the strategies run in parallel.
func (m *Monitor) compareWithHooks(
	req runRequest,
) ([]string, []paging.Trace, error) {
	m.hooksLock.Lock()
	defer m.hooksLock.Unlock()

	strategies := req.strategies
	if len(strategies) == 0 {
		strategies = paging.Strategies()
	}

	ids := make([]string, len(strategies))
	for i := range ids {
		ids[i] = m.ids.Generate()
	}

	if len(m.hooks) == 0 {
		traces, err := paging.Compare(req.refs, req.frames, strategies...)
		return ids, traces, err
	}

	traces := make([]paging.Trace, len(strategies))
	for i, s := range strategies {
		trace, err := m.newSimulator(s).RunWithID(ids[i], req.refs, req.frames)
		if err != nil {
			return nil, nil, err
		}

		traces[i] = trace
	}

	return ids, traces, nil
}

type compareEntry struct {
	ID        string  `json:"id"`
	Algorithm string  `json:"algorithm"`
	Faults    int     `json:"faults"`
	Hits      int     `json:"hits"`
	FaultRate float64 `json:"fault_rate"`
	HitRate   float64 `json:"hit_rate"`
}

type compareRsp struct {
	Frames  int            `json:"frames"`
	Results []compareEntry `json:"results"`
	Best    string         `json:"best"`
}

func (m *Monitor) compare(w http.ResponseWriter, r *http.Request) {
	req, err := parseRunRequest(r, "algorithms")
	if err != nil {
		badRequest(w, err)
		return
	}

	ids, traces, err := m.compareWithHooks(req)
	if err != nil {
		badRequest(w, err)
		return
	}

	rsp := compareRsp{Frames: req.frames}
	for i, t := range traces {
		m.addRun(ids[i], t)

		rsp.Results = append(rsp.Results, compareEntry{
			ID:        ids[i],
			Algorithm: t.Algorithm,
			Faults:    t.Faults,
			Hits:      t.Hits,
			FaultRate: t.FaultRate(),
			HitRate:   t.HitRate(),
		})
	}

	if best := paging.Best(traces); best >= 0 {
		rsp.Best = traces[best].Algorithm
	}

	writeJSON(w, rsp)
}

type beladyRsp struct {
	Algorithm string              `json:"algorithm"`
	Points    []paging.FaultPoint `json:"points"`
	Anomalies []paging.FaultPoint `json:"anomalies"`
}

func (m *Monitor) belady(w http.ResponseWriter, r *http.Request) {
	req, err := parseRunRequest(r, "algorithm")
	if err != nil {
		badRequest(w, err)
		return
	}

	if len(req.strategies) != 1 {
		badRequest(w, fmt.Errorf("%w: exactly one algorithm is required",
			errBadRequest))
		return
	}

	minFrames, maxFrames, err := parseFrameRange(r)
	if err != nil {
		badRequest(w, err)
		return
	}

	points, err := m.scanWithHooks(req, minFrames, maxFrames)
	if err != nil {
		badRequest(w, err)
		return
	}

	anomalies := paging.Anomalies(points)
	if anomalies == nil {
		anomalies = []paging.FaultPoint{}
	}

	writeJSON(w, beladyRsp{
		Algorithm: req.strategies[0].Name(),
		Points:    points,
		Anomalies: anomalies,
	})
}

func (m *Monitor) scanWithHooks(
	req runRequest,
	minFrames, maxFrames int,
) ([]paging.FaultPoint, error) {
	m.hooksLock.Lock()
	defer m.hooksLock.Unlock()

	return m.newSimulator(req.strategies[0]).Scan(req.refs, minFrames, maxFrames)
}

func parseFrameRange(r *http.Request) (minFrames, maxFrames int, err error) {
	minFrames, maxFrames = 1, 10

	if v := r.FormValue("min"); v != "" {
		if minFrames, err = parseIntParam("min", v); err != nil {
			return 0, 0, err
		}
	}

	if v := r.FormValue("max"); v != "" {
		if maxFrames, err = parseIntParam("max", v); err != nil {
			return 0, 0, err
		}
	}

	if maxFrames > MaxFrames {
		return 0, 0, fmt.Errorf("%w: at most %d frames are allowed",
			errBadRequest, MaxFrames)
	}

	return minFrames, maxFrames, nil
}

type runSummary struct {
	ID         string `json:"id"`
	Algorithm  string `json:"algorithm"`
	FrameCount int    `json:"frame_count"`
	Faults     int    `json:"faults"`
	Hits       int    `json:"hits"`
	Recorded   bool   `json:"recorded"`
}

func (m *Monitor) listRuns(w http.ResponseWriter, r *http.Request) {
	summaries := []runSummary{}

	m.runsLock.RLock()
	for _, id := range m.runIDs {
		t := m.runs[id]
		summaries = append(summaries, runSummary{
			ID:         id,
			Algorithm:  t.Algorithm,
			FrameCount: t.FrameCount,
			Faults:     t.Faults,
			Hits:       t.Hits,
		})
	}
	m.runsLock.RUnlock()

	if m.reader != nil {
		runs, err := datarecording.ListRuns(r.Context(), m.reader)
		if err != nil {
			internalError(w, err)
			return
		}

		for _, run := range runs {
			summaries = append(summaries, runSummary{
				ID:         run.RunID,
				Algorithm:  run.Algorithm,
				FrameCount: run.FrameCount,
				Faults:     run.Faults,
				Hits:       run.Hits,
				Recorded:   true,
			})
		}
	}

	writeJSON(w, summaries)
}

type recordedRunRsp struct {
	Run   datarecording.RunEntry    `json:"run"`
	Steps []datarecording.StepEntry `json:"steps"`
}

func (m *Monitor) runDetails(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if trace, ok := m.Run(id); ok {
		writeJSON(w, tracing.NewRecord(id, trace))
		return
	}

	run, steps, ok := m.findRecordedRunOr404(w, r, id)
	if !ok {
		return
	}

	writeJSON(w, recordedRunRsp{Run: run, Steps: steps})
}

func (m *Monitor) stepDetails(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	index, err := parseIntParam("index", mux.Vars(r)["index"])
	if err != nil {
		badRequest(w, err)
		return
	}

	var step any
	var numSteps int

	if trace, ok := m.Run(id); ok {
		numSteps = len(trace.Steps)
		if index >= 0 && index < numSteps {
			step = trace.Steps[index]
		}
	} else {
		_, steps, ok := m.findRecordedRunOr404(w, r, id)
		if !ok {
			return
		}

		numSteps = len(steps)
		if index >= 0 && index < numSteps {
			step = steps[index]
		}
	}

	if step == nil {
		notFound(w, fmt.Sprintf("Step %d not found, run %s has %d steps",
			index, id, numSteps))
		return
	}

	serializer := goseth.NewSerializer()
	serializer.SetRoot(step)
	serializer.SetMaxDepth(2)

	if field := r.FormValue("field"); field != "" {
		if err := serializer.SetEntryPoint(strings.Split(field, ".")); err != nil {
			badRequest(w, err)
			return
		}
	}

	buf := bytes.NewBuffer(nil)
	if err := serializer.Serialize(buf); err != nil {
		internalError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_, err = w.Write(buf.Bytes())
	dieOnErr(err)
}

func (m *Monitor) findRecordedRunOr404(
	w http.ResponseWriter,
	r *http.Request,
	id string,
) (datarecording.RunEntry, []datarecording.StepEntry, bool) {
	if m.reader == nil {
		notFound(w, "Run not found")
		return datarecording.RunEntry{}, nil, false
	}

	run, steps, err := datarecording.LoadRun(r.Context(), m.reader, id)
	if errors.Is(err, datarecording.ErrRunNotFound) {
		notFound(w, "Run not found")
		return run, nil, false
	}

	if err != nil {
		internalError(w, err)
		return run, nil, false
	}

	return run, steps, true
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (m *Monitor) listResources(w http.ResponseWriter, _ *http.Request) {
	pid := os.Getpid()

	process, err := process.NewProcess(int32(pid))
	if err != nil {
		internalError(w, err)
		return
	}

	cpuPercent, err := process.CPUPercent()
	if err != nil {
		internalError(w, err)
		return
	}

	memorySize, err := process.MemoryInfo()
	if err != nil {
		internalError(w, err)
		return
	}

	writeJSON(w, resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memorySize.RSS,
	})
}

func (m *Monitor) collectProfile(w http.ResponseWriter, r *http.Request) {
	length := time.Second

	if v := r.FormValue("duration"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 || d > maxProfileLength {
			badRequest(w, fmt.Errorf("%w: invalid duration %q",
				errBadRequest, v))
			return
		}

		length = d
	}

	buf := bytes.NewBuffer(nil)

	if err := pprof.StartCPUProfile(buf); err != nil {
		w.WriteHeader(http.StatusConflict)
		fmt.Fprintf(w, "Error: %s", err)
		return
	}

	time.Sleep(length)

	pprof.StopCPUProfile()

	prof, err := profile.ParseData(buf.Bytes())
	if err != nil {
		internalError(w, err)
		return
	}

	writeJSON(w, prof)
}

func writeJSON(w http.ResponseWriter, v any) {
	bytes, err := json.Marshal(v)
	dieOnErr(err)

	w.Header().Set("Content-Type", "application/json")
	_, err = w.Write(bytes)
	dieOnErr(err)
}

func badRequest(w http.ResponseWriter, err error) {
	w.WriteHeader(http.StatusBadRequest)
	fmt.Fprintf(w, "Error: %s", err)
}

func notFound(w http.ResponseWriter, msg string) {
	w.WriteHeader(http.StatusNotFound)
	_, err := w.Write([]byte(msg))
	dieOnErr(err)
}

func internalError(w http.ResponseWriter, err error) {
	w.WriteHeader(http.StatusInternalServerError)
	fmt.Fprintf(w, "Error: %s", err)
}

func dieOnErr(err error) {
	if err != nil {
		log.Panic(err)
	}
}
