package server

import (
	"context"
	"errors"
	"net/http"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/preston-bernstein/cricket-scoreboard-service/internal/config"
	"github.com/preston-bernstein/cricket-scoreboard-service/internal/gateway/fixture"
	"github.com/preston-bernstein/cricket-scoreboard-service/internal/gateway/rest"
	"github.com/preston-bernstein/cricket-scoreboard-service/internal/testutil"
	"github.com/preston-bernstein/cricket-scoreboard-service/internal/teststubs"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	dir := t.TempDir()
	return config.Config{
		Port:    "0",
		Gateway: "fixture",
		Journal: config.JournalConfig{Enabled: true, Path: filepath.Join(dir, "journal.db")},
		Scorecards: config.ScorecardsConfig{
			Enabled:       true,
			Path:          filepath.Join(dir, "scorecards"),
			RetentionDays: 7,
		},
		Sweeper: config.SweeperConfig{Interval: 5 * time.Millisecond, IdleTTL: time.Minute},
		Metrics: config.MetricsConfig{Enabled: false},
	}
}

func TestServerServesHealthAndBoards(t *testing.T) {
	gw := &teststubs.StubGateway{Match: testutil.SampleMatch("m1"), Roster: testutil.SampleRoster("bat")}
	srv := newServerWithGateway(testConfig(t), nil, gw)
	t.Cleanup(func() { _ = srv.journal.Close() })

	router := srv.Handler()

	healthRec := testutil.Serve(router, http.MethodGet, "/health", nil)
	testutil.AssertStatus(t, healthRec, http.StatusOK)

	sessID := testutil.CreateSession(t, router)

	rr := testutil.ServeAsSession(router, sessID, http.MethodPost, "/boards/m1/select-player", `{"playerId":"p1"}`)
	testutil.AssertStatus(t, rr, http.StatusOK)

	rr = testutil.ServeAsSession(router, sessID, http.MethodGet, "/boards/m1/events", "")
	testutil.AssertStatus(t, rr, http.StatusOK)
	var events struct {
		Events []struct {
			Kind string `json:"kind"`
		} `json:"events"`
	}
	testutil.DecodeJSON(t, rr, &events)
	if len(events.Events) != 1 || events.Events[0].Kind != "select_player" {
		t.Fatalf("expected journaled selection, got %+v", events.Events)
	}
}

func TestServerWithFixtureGatewayLoadsSeededMatch(t *testing.T) {
	cfg := testConfig(t)
	cfg.Journal.Enabled = false
	srv := New(cfg, nil)

	sess, err := srv.sessionsService.Create("")
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	b, err := srv.boardsService.Open(context.Background(), sess, fixture.MatchID)
	if err != nil {
		t.Fatalf("expected fixture match to load, got %v", err)
	}
	if len(b.AvailablePlayers()) == 0 {
		t.Fatalf("expected fixture roster players")
	}
}

func TestSelectGatewayFallsBackToFixture(t *testing.T) {
	gw := selectGateway(config.Config{Gateway: "unknown"}, nil)
	if _, ok := gw.(*fixture.Backend); !ok {
		t.Fatalf("expected fixture fallback, got %T", gw)
	}
}

func TestSelectGatewayChoosesRest(t *testing.T) {
	gw := selectGateway(config.Config{
		Gateway: "REST",
		Backend: config.BackendConfig{BaseURL: "http://example.com/api", Timeout: time.Second},
	}, nil)
	if _, ok := gw.(*rest.Client); !ok {
		t.Fatalf("expected rest client, got %T", gw)
	}
}

func TestGatewayFactoryBuilds(t *testing.T) {
	factory := newGatewayFactory(nil, nil)
	if gw := factory.build(config.Config{Gateway: "fixture"}); gw == nil {
		t.Fatalf("expected gateway")
	}
}

func TestNormalizeGatewayName(t *testing.T) {
	if got := normalizeGatewayName("REST", nil); got != "rest" {
		t.Fatalf("expected lower-cased name, got %s", got)
	}
	if got := normalizeGatewayName("", fixture.New()); got != "*fixture.backend" {
		t.Fatalf("expected derived name, got %s", got)
	}
	if got := normalizeGatewayName("", nil); got != "gateway" {
		t.Fatalf("expected default name, got %s", got)
	}
}

func TestBuildStorageRespectsConfig(t *testing.T) {
	cfg := testConfig(t)
	c := buildStorage(cfg, nil)
	if c.journal == nil || c.writer == nil || c.cards == nil {
		t.Fatalf("expected storage components, got %+v", c)
	}
	_ = c.journal.Close()

	cfg.Journal.Enabled = false
	cfg.Scorecards.Enabled = false
	c = buildStorage(cfg, nil)
	if c.journal != nil || c.writer != nil || c.cards != nil {
		t.Fatalf("expected disabled storage, got %+v", c)
	}
}

func TestBuildStorageToleratesJournalFailure(t *testing.T) {
	cfg := testConfig(t)
	blocker := filepath.Join(t.TempDir(), "file")
	if err := writeFile(blocker); err != nil {
		t.Fatalf("setup: %v", err)
	}
	cfg.Journal.Path = filepath.Join(blocker, "journal.db")
	logger, buf := testutil.NewBufferLogger()

	c := buildStorage(cfg, logger)
	if c.journal != nil {
		t.Fatalf("expected journal disabled after open failure")
	}
	if !strings.Contains(buf.String(), "journal unavailable") {
		t.Fatalf("expected warning logged, got %s", buf.String())
	}
}

func TestNewConstructsServer(t *testing.T) {
	srv := New(testConfig(t), nil)
	t.Cleanup(func() { _ = srv.journal.Close() })
	if srv == nil || srv.Handler() == nil {
		t.Fatalf("expected server with handler")
	}
}

func TestGracefulShutdownCallsStopAndShutdown(t *testing.T) {
	s := &testutil.StubSweeper{}
	httpSrv := &testutil.StubHTTPServer{}

	srv := newServerWithDeps(config.Config{}, nil, httpSrv, s)
	srv.gracefulShutdown()

	if s.StopCalls != 1 {
		t.Fatalf("expected sweeper Stop to be called once, got %d", s.StopCalls)
	}
	if httpSrv.ShutdownCalls != 1 {
		t.Fatalf("expected server Shutdown to be called once, got %d", httpSrv.ShutdownCalls)
	}
}

func TestGracefulShutdownTimesOutLongRunningShutdown(t *testing.T) {
	s := &testutil.StubSweeper{}
	blocking := &testutil.BlockingHTTPServer{
		AddrVal:    ":0",
		HandlerVal: http.NewServeMux(),
		Unblock:    make(chan struct{}),
	}

	original := shutdownTimeout
	shutdownTimeout = 5 * time.Millisecond
	defer func() { shutdownTimeout = original }()

	srv := newServerWithDeps(config.Config{}, nil, blocking, s)

	start := time.Now()
	srv.gracefulShutdown()
	elapsed := time.Since(start)

	if blocking.ShutdownCalls != 1 {
		t.Fatalf("expected server Shutdown to be called once, got %d", blocking.ShutdownCalls)
	}
	if s.StopCalls != 1 {
		t.Fatalf("expected sweeper Stop to be called once, got %d", s.StopCalls)
	}
	if elapsed > 200*time.Millisecond {
		t.Fatalf("shutdown took too long: %s", elapsed)
	}
}

func TestGracefulShutdownContinuesWhenSweeperStopErrors(t *testing.T) {
	s := &testutil.StubSweeper{Err: errors.New("stop failure")}
	httpSrv := &testutil.StubHTTPServer{}
	logger, buf := testutil.NewBufferLogger()

	srv := newServerWithDeps(config.Config{}, logger, httpSrv, s)
	srv.gracefulShutdown()

	if httpSrv.ShutdownCalls != 1 {
		t.Fatalf("expected server Shutdown to be called once, got %d", httpSrv.ShutdownCalls)
	}
	if !strings.Contains(buf.String(), "failed to stop sweeper") {
		t.Fatalf("expected stop failure logged")
	}
}

func TestGracefulShutdownClosesJournal(t *testing.T) {
	srv := New(testConfig(t), nil)
	if srv.journal == nil {
		t.Fatalf("expected journal opened")
	}
	srv.httpServer = &testutil.StubHTTPServer{}
	srv.gracefulShutdown()

	if err := srv.journal.Record(context.Background(), sampleEvent()); err == nil {
		t.Fatalf("expected record on closed journal to fail")
	}
}

func TestServerStartHandlesListenErrorAndStops(t *testing.T) {
	srv := newServerWithDeps(config.Config{}, nil, &testutil.ErrHTTPServer{}, &testutil.StubSweeper{})

	var wg sync.WaitGroup
	wg.Add(1)
	stopCalled := make(chan struct{})
	stop := func() {
		close(stopCalled)
		wg.Done()
	}

	srv.startServer(stop)

	select {
	case <-stopCalled:
	case <-time.After(200 * time.Millisecond):
		t.Fatal("expected stop to be called on listen failure")
	}

	wg.Wait()
}

func TestRunCancelsAndStopsComponents(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := &testutil.StubSweeper{}
	httpSrv := &testutil.CloseableHTTPServer{}

	srv := newServerWithDeps(config.Config{}, nil, httpSrv, s)

	done := make(chan struct{})
	go func() {
		srv.Run(ctx, cancel)
		close(done)
	}()

	// Let Start be invoked.
	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("run did not return after cancel")
	}

	if s.StartCalls != 1 {
		t.Fatalf("expected sweeper Start called once, got %d", s.StartCalls)
	}
	if s.StopCalls != 1 {
		t.Fatalf("expected sweeper Stop called once, got %d", s.StopCalls)
	}
	if httpSrv.ShutdownCalls != 1 {
		t.Fatalf("expected server Shutdown called once, got %d", httpSrv.ShutdownCalls)
	}
}

func TestWriteTimeoutCoversActionChain(t *testing.T) {
	cases := []struct {
		name    string
		backend time.Duration
		want    time.Duration
	}{
		{"floor", time.Second, minWriteTimeout},
		{"zero", 0, minWriteTimeout},
		{"scaled", 5 * time.Second, 20 * time.Second},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := writeTimeoutFor(config.BackendConfig{Timeout: tc.backend})
			if got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestBuildHTTPServerAppliesTimeouts(t *testing.T) {
	cfg := testConfig(t)
	cfg.Backend.Timeout = 8 * time.Second
	srv := buildHTTPServer(cfg, nil, nil, storageComponents{}, nil, nil, nil)
	ns, ok := srv.(netHTTPServer)
	if !ok {
		t.Fatalf("expected netHTTPServer, got %T", srv)
	}
	if ns.srv.WriteTimeout != 32*time.Second {
		t.Fatalf("expected write timeout 32s, got %v", ns.srv.WriteTimeout)
	}
	if ns.srv.ReadHeaderTimeout != readHeaderTimeout || ns.srv.IdleTimeout != idleTimeout {
		t.Fatalf("unexpected timeouts %+v", ns.srv)
	}
}
