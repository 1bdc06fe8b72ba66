// Command sender transmits a local file to a receiver over UDP using
// one of two congestion-control regimes: fixed-window with optional
// fast retransmit, or AIMD (Slow Start / Congestion Avoidance / Fast
// Recovery). See spec section 6 for exact CLI and wire semantics.
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
	"github.com/arjunsriva/rudpft/internal/congestion"
	"github.com/arjunsriva/rudpft/internal/metrics"
	"github.com/arjunsriva/rudpft/internal/rtt"
	"github.com/arjunsriva/rudpft/internal/transport"
)

func usage() {
	log.Fatal("Usage: sender <ip> <port> <fast_recovery:0|1>  (fixed-window)\n" +
		"       sender <ip> <port>                     (AIMD)")
}

func main() {
	fileFlag := flag.String("file", "", "path of the file to send (default from config)")
	configFlag := flag.String("config", "", "optional YAML config overlay")
	metricsAddr := flag.String("metrics-addr", "", "address to serve Prometheus metrics on, e.g. :9090")
	logLevel := flag.String("log-level", "info", "logrus level: debug, info, warn, error")
	progressFlag := flag.Bool("progress", term.IsTerminal(int(os.Stdout.Fd())), "show a progress bar")
	flag.Parse()

	args := flag.Args()
	if len(args) != 2 && len(args) != 3 {
		usage()
	}

	ip := args[0]
	port, err := strconv.Atoi(args[1])
	if err != nil {
		log.Fatalf("bad port %q: %v", args[1], err)
	}

	fixedWindow := len(args) == 3
	fastRecoveryEnabled := false
	if fixedWindow {
		v, err := strconv.Atoi(args[2])
		if err != nil {
			log.Fatalf("bad fast_recovery flag %q: %v", args[2], err)
		}
		fastRecoveryEnabled = v != 0
	}

	cfg := config.Default()
	cfg, err = config.LoadOverlay(cfg, *configFlag)
	if err != nil {
		log.Fatalf("loading config overlay: %v", err)
	}

	filePath := *fileFlag
	if filePath == "" {
		filePath = cfg.SenderFile
	}

	logger := logrus.New()
	level, err := logrus.ParseLevel(*logLevel)
	if err != nil {
		log.Fatalf("bad log level %q: %v", *logLevel, err)
	}
	logger.SetLevel(level)

	sessionID := xid.New().String()
	entry := logger.WithFields(logrus.Fields{"session": sessionID, "role": "sender"})

	udpAddr := &net.UDPAddr{IP: net.ParseIP(ip), Port: port}
	conn, err := net.ListenUDP("udp", udpAddr)
	if err != nil {
		log.Fatalf("bind: %v", err)
	}
	defer conn.Close()

	f, err := os.Open(filePath)
	if err != nil {
		log.Fatalf("open %s: %v", filePath, err)
	}
	defer f.Close()

	var cc congestion.Controller
	if fixedWindow {
		cc = congestion.NewFixedWindow(cfg.WindowSize, cfg.DupAckThreshold, fastRecoveryEnabled)
	} else {
		cc = congestion.NewAIMD(cfg.MSS, cfg.InitialCwnd, cfg.InitialSsthresh, cfg.DupAckThreshold)
	}
	rtoEst := rtt.New(cfg.RTOInit, cfg.RTOMin, cfg.RTOMax)

	var bar *progressbar.ProgressBar
	if *progressFlag {
		info, err := f.Stat()
		if err != nil {
			log.Fatalf("stat %s: %v", filePath, err)
		}
		bar = progressbar.DefaultBytes(info.Size(), "sending")
	}

	var collector *metrics.SenderCollector
	if *metricsAddr != "" {
		collector = metrics.NewSenderCollector(sessionID)
		go func() {
			if err := metrics.Serve(*metricsAddr, collector); err != nil {
				entry.WithError(err).Error("metrics server stopped")
			}
		}()
	}

	hooks := transport.SenderHooks{
		OnProgress: func(ackedOffset uint64) {
			if bar != nil {
				_ = bar.Set64(int64(ackedOffset))
			}
		},
		OnSample: func(snap transport.Snapshot) {
			if collector != nil {
				collector.Update(snap)
			}
		},
	}

	s := transport.NewSender(conn, f, cc, rtoEst, hooks, entry, cfg.MSS)
	if err := s.Run(); err != nil {
		entry.WithError(err).Fatal("session failed")
	}
}
