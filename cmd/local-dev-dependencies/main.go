// Command local-dev-dependencies runs a Postgres container in the background for local development.
// The connection details end up in tmp/local-dev.env which review-service and seed-reviews load on start.
//
//	local-dev-dependencies          start the daemon, returns once postgres accepts connections
//	local-dev-dependencies stop     kill the daemon and wait for it to be gone
//	local-dev-dependencies -s quit  graceful shutdown, stops the container first
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log"
	"net"
	"net/http"
	"os"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sevlyar/go-daemon"

	"github.com/gaqzi/review-service/test"
)

const (
	envFile = "tmp/local-dev.env"
	// The daemon serves its health at an address picked by the parent, passed through the environment.
	healthcheckEnvName = "HEALTHCHECK_ADDR"
)

var (
	postgresStartTimeout = 2 * time.Minute
	postgresUp           atomic.Bool
	signal               = flag.String("s", "", `Send signal to the daemon:
  quit — graceful shutdown
  stop — fast shutdown`)
	stopChan = make(chan struct{})
	doneChan = make(chan struct{})
	errChan  = make(chan error)
)

func main() {
	flag.Parse()
	ctx, cancelCtx := context.WithCancel(context.Background())
	daemon.AddCommand(daemon.StringFlag(signal, "quit"), syscall.SIGQUIT, termHandlerCreator(cancelCtx))
	daemon.AddCommand(daemon.StringFlag(signal, "stop"), syscall.SIGTERM, termHandlerCreator(cancelCtx))
	if err := os.MkdirAll("tmp", 0755); err != nil {
		log.Fatalln(err.Error())
	}

	cntxt := &daemon.Context{
		PidFileName: "tmp/local-dev-dependencies.pid",
		PidFilePerm: 0644,
		LogFileName: "tmp/local-dev-dependencies.log",
		LogFilePerm: 0640,
		WorkDir:     "./",
		Umask:       027,
		Args:        []string{"review-service__local-dev-dependencies"},
	}

	if len(daemon.ActiveFlags()) > 0 {
		d, err := cntxt.Search()
		if err != nil {
			log.Fatalf("Unable send signal to the daemon: %s", err.Error())
		}
		if err := daemon.SendCommands(d); err != nil {
			log.Fatalln(err.Error())
		}
		return
	}

	if args := flag.Args(); len(args) > 0 {
		switch args[0] {
		case "stop":
			stop(cntxt)
		default:
			log.Fatalf("unknown subcommand: %q", args[0])
		}
	}

	healthcheckAddr, err := freeAddr()
	if err != nil {
		log.Fatalf("failed to find an address for the healthcheck: %s", err)
	}
	cntxt.Env = append(os.Environ(), fmt.Sprintf("%s=%s", healthcheckEnvName, healthcheckAddr))

	d, err := cntxt.Reborn()
	if err != nil {
		if errors.Is(err, daemon.ErrWouldBlock) {
			// Already running, nothing to do
			os.Exit(0)
		}
		log.Fatal("Unable to run: ", err)
	}

	// Only the parent gets a process back, it waits for the child to report postgres up and exits.
	if d != nil {
		waitForHealthy(healthcheckAddr)
		return
	}

	defer func() { _ = cntxt.Release() }()

	log.Print("- - - - - - - - - - - - - - -")
	log.Print("up and running")

	go serveHTTP()
	go startPostgres(ctx)
	go (func() {
		if err := daemon.ServeSignals(); err != nil {
			log.Printf("failed to respond to signal: %s", err)
		}
	})()

	select {
	case <-ctx.Done():
		log.Printf("context cancelled, shutting down")
		os.Exit(0)
	case err := <-errChan:
		log.Print(err.Error())
		log.Printf("shutting down")
		os.Exit(1)
	}
}

func freeAddr() (string, error) {
	ln, err := net.Listen("tcp", "localhost:0")
	if err != nil {
		return "", err
	}
	addr := ln.Addr().String()

	return addr, ln.Close()
}

func waitForHealthy(addr string) {
	ctx, cancel := context.WithTimeout(context.Background(), postgresStartTimeout+2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("http://%s/", addr), nil)
	if err != nil {
		log.Fatalf("failed to create http request: %s", err)
	}

	var failedConn int
	for {
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			if strings.Contains(err.Error(), "connection refused") {
				if failedConn >= 20 { // 2s of no answers with the 100ms wait
					log.Fatalf("failed to get health check %d times, check tmp/local-dev-dependencies.log", failedConn)
				}
				time.Sleep(100 * time.Millisecond)
				failedConn++
				continue
			}

			log.Fatalf("failed to call health check endpoint: %s", err)
		}
		failedConn = 0

		body, err := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if err != nil {
			log.Printf("failed to read healthcheck body: %s", err)
		}

		if strings.HasSuffix(string(body), "true") {
			fmt.Printf("postgres is up, connection details in %s\n", envFile)
			return
		}

		time.Sleep(100 * time.Millisecond)
	}
}

func stop(cntxt *daemon.Context) {
	proc, err := cntxt.Search()
	if err != nil {
		// No pid file means the daemon isn't running
		if errors.Is(err, fs.ErrNotExist) {
			os.Exit(0)
		}

		log.Fatalf("failed to find process: %s", err.Error())
	}
	if proc == nil {
		os.Exit(0)
	}

	if err := proc.Kill(); err != nil {
		log.Fatalf("failed to kill process: %s", err.Error())
	}

	log.Printf("waiting for shutdown of local dev dependencies to complete")
	for {
		isAlive, err := cntxt.Search()
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			log.Fatalf("error: %q", err)
		}
		if isAlive == nil {
			fmt.Print("\n")
			os.Exit(0)
		}
		fmt.Print(".")
		time.Sleep(100 * time.Millisecond)
	}
}

func serveHTTP() {
	listenAddr := os.Getenv(healthcheckEnvName)
	if listenAddr == "" {
		errChan <- fmt.Errorf("%s is empty in env", healthcheckEnvName)
		return
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		log.Printf("request from %s: %s %q, postgresUp=%t", r.RemoteAddr, r.Method, r.URL, postgresUp.Load())
		_, _ = fmt.Fprintf(w, "postgresUp=%t", postgresUp.Load())
	})

	log.Printf("about to listen to %q", listenAddr)
	server := &http.Server{Addr: listenAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	if err := server.ListenAndServe(); err != nil {
		errChan <- fmt.Errorf("healthcheck server stopped: %w", err)
	}
}

func startPostgres(ctx context.Context) {
	startCtx, cancel := context.WithTimeout(ctx, postgresStartTimeout)
	defer cancel()

	conn, done, err := test.StartPostgres(startCtx)
	if err != nil {
		errChan <- fmt.Errorf("failed to start postgres: %w", err)
		return
	}

	if err := godotenv.Write(map[string]string{
		"REVIEWS_STORAGE": "postgres",
		"DATABASE_URL":    conn,
	}, envFile); err != nil {
		done()
		errChan <- fmt.Errorf("failed to write %s: %w", envFile, err)
		return
	}

	postgresUp.Store(true)
	<-stopChan
	log.Printf("received stop signal")
	done()
	_ = os.Remove(envFile)
	log.Printf("stopped postgres, time to report back")
	doneChan <- struct{}{}
}

func termHandlerCreator(cancel func()) func(sig os.Signal) error {
	return func(sig os.Signal) error {
		log.Println("terminating...")
		stopChan <- struct{}{}
		if sig == syscall.SIGQUIT {
			<-doneChan
		}
		cancel()
		return daemon.ErrStop
	}
}
