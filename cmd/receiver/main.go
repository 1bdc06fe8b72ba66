// Command receiver reassembles a file sent by a sender over UDP. See
// spec section 6 for exact CLI and wire semantics.
package main

import (
	"flag"
	"log"
	"net"
	"os"
	"strconv"

	"github.com/rs/xid"
	"github.com/schollz/progressbar/v3"
	"github.com/sirupsen/logrus"
	"golang.org/x/term"

	"github.com/arjunsriva/rudpft/internal/config"
	"github.com/arjunsriva/rudpft/internal/metrics"
	"github.com/arjunsriva/rudpft/internal/reassembly"
	"github.com/arjunsriva/rudpft/internal/transport"
)

func usage() {
	log.Fatal("Usage: receiver <server_ip> <server_port>")
}

func main() {
	outFlag := flag.String("out", "", "path to write the received file to (default from config)")
	configFlag := flag.String("config", "", "optional YAML config overlay")
	metricsAddr := flag.String("metrics-addr", "", "address to serve Prometheus metrics on, e.g. :9091")
	logLevel := flag.String("log-level", "info", "logrus level: debug, info, warn, error")
	progressFlag := flag.Bool("progress", term.IsTerminal(int(os.Stdout.Fd())), "show a progress bar")
	flag.Parse()

	args := flag.Args()
	if len(args) != 2 {
		usage()
	}

	ip := args[0]
	port, err := strconv.Atoi(args[1])
	if err != nil {
		log.Fatalf("bad port %q: %v", args[1], err)
	}

	cfg := config.Default()
	cfg, err = config.LoadOverlay(cfg, *configFlag)
	if err != nil {
		log.Fatalf("loading config overlay: %v", err)
	}

	outPath := *outFlag
	if outPath == "" {
		outPath = cfg.ReceiverOutput
	}

	logger := logrus.New()
	level, err := logrus.ParseLevel(*logLevel)
	if err != nil {
		log.Fatalf("bad log level %q: %v", *logLevel, err)
	}
	logger.SetLevel(level)

	sessionID := xid.New().String()
	entry := logger.WithFields(logrus.Fields{"session": sessionID, "role": "receiver"})

	serverAddr := &net.UDPAddr{IP: net.ParseIP(ip), Port: port}
	conn, err := net.ListenUDP("udp", &net.UDPAddr{})
	if err != nil {
		log.Fatalf("bind: %v", err)
	}
	defer conn.Close()

	out, err := os.Create(outPath)
	if err != nil {
		log.Fatalf("create %s: %v", outPath, err)
	}
	defer out.Close()

	var bar *progressbar.ProgressBar
	if *progressFlag {
		bar = progressbar.DefaultBytes(-1, "receiving")
	}

	var collector *metrics.ReceiverCollector
	if *metricsAddr != "" {
		collector = metrics.NewReceiverCollector(sessionID)
		go func() {
			if err := metrics.Serve(*metricsAddr, collector); err != nil {
				entry.WithError(err).Error("metrics server stopped")
			}
		}()
	}

	buf := reassembly.New(out, 0)
	hooks := transport.ReceiverHooks{
		OnProgress: func(expectedOffset uint64) {
			if bar != nil {
				_ = bar.Set64(int64(expectedOffset))
			}
		},
		OnSample: func(snap transport.ReceiverSnapshot) {
			if collector != nil {
				collector.Update(snap)
			}
		},
	}

	r := transport.NewReceiver(conn, serverAddr, buf, hooks, entry, cfg.ReceiverDeadline, cfg.MSS)
	if err := r.Run(); err != nil {
		entry.WithError(err).Fatal("session failed")
	}
}
