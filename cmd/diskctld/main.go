// Command diskctld runs the disk-head scheduling engine against a
// driver speaking the line-oriented protocol of spec §6 on stdin and
// stdout. It reads no environment variables; its only flag
// (-debug-addr) is optional ambient tooling that never affects the
// protocol exchange itself.
package main

import (
	"flag"
	"os"

	"github.com/coralstore/diskctl/cmn/logx"
	"github.com/coralstore/diskctl/debugsrv"
	"github.com/coralstore/diskctl/engine"
	"github.com/coralstore/diskctl/proto"
)

func main() {
	debugAddr := flag.String("debug-addr", "", "optional host:port to serve /metrics, /snapshot, /inspect on (off if empty)")
	flag.Parse()

	defer logx.Sync()
	defer func() {
		if r := recover(); r != nil {
			logx.Errorf("diskctld: fatal: %v", r)
			os.Exit(1)
		}
	}()

	r := proto.NewReader(os.Stdin)
	w := proto.NewWriter(os.Stdout)

	cfg := proto.ReadInit(r, w)
	logx.Infof("diskctld: init T=%d M=%d N=%d V=%d G=%d K=%d", cfg.T, cfg.M, cfg.N, cfg.V, cfg.G, cfg.K)

	e := engine.New(cfg, r, w)

	if *debugAddr != "" {
		srv := debugsrv.New(e.Disks(), e.Table(), e.Tick)
		go func() {
			if err := srv.ListenAndServe(*debugAddr); err != nil {
				logx.Warnf("debugsrv: stopped: %v", err)
			}
		}()
	}

	e.Run()
}
