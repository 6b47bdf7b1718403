package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/meridian-protocol/meridian/cmd/rpc"
	"github.com/meridian-protocol/meridian/gov"
	"github.com/meridian-protocol/meridian/lib"
	"github.com/meridian-protocol/meridian/lib/crypto"
	"github.com/meridian-protocol/meridian/store"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:     "meridian",
	Short:   "meridian is the governance voting and staking-lock engine of the meridian protocol",
	Version: rpc.SoftwareVersion,
}

var (
	client  = &rpc.Client{}
	config  = lib.Config{}
	l       = lib.LoggerI(nil)
	dataDir = ""
)

func init() {
	flag.Parse()
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(txCmd)
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", lib.DefaultDataDirPath(), "custom data directory location")
	c, err := lib.NewConfigFromFile(dataDir)
	if err != nil {
		log.Fatal(err.Error())
	}
	config = c
	l = lib.NewLogger(lib.LoggerConfig{Level: config.GetLogLevel()}, config.DataDirPath)
	client = rpc.NewClient(config.RPCUrl, config.RPCPort)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(rpc.SoftwareVersion)
	},
}

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "start the governance node",
	Run: func(cmd *cobra.Command, args []string) {
		Start()
	},
}

// Start() is the entrypoint of the standalone governance node: it opens the store,
// initializes the state machine (from the genesis file on first start), and serves
// the RPC surface until interrupted
func Start() {
	db, err := store.New(config, l)
	if err != nil {
		l.Fatal(err.Error())
	}
	sm, err := gov.New(config, db, newLoggingDispatcher(l), l)
	if err != nil {
		l.Fatal(err.Error())
	}
	// seal the genesis writes on first start so a restart does not re-apply genesis
	if db.Version() == 0 {
		if err = sm.Commit(); err != nil {
			l.Fatal(err.Error())
		}
	}
	rpc.NewServer(sm, config, l).Start()
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	l.Info("Exit command received; shutting down")
	if err = db.Close(); err != nil {
		l.Error(err.Error())
	}
}

// loggingDispatcher stands in for the host ledger's sub-call routing on a standalone
// node: outbound calls are logged instead of forwarded
type loggingDispatcher struct {
	log lib.LoggerI
}

func newLoggingDispatcher(log lib.LoggerI) gov.Dispatcher {
	return &loggingDispatcher{log: log}
}

func (d *loggingDispatcher) Dispatch(target crypto.AddressI, payload []byte) lib.ErrorI {
	d.log.Infof("dispatch: target: %s, payload: %d bytes", target.String(), len(payload))
	return nil
}

// writeToConsole prints an RPC result or its error to stdout
func writeToConsole(result any, err lib.ErrorI) {
	if err != nil {
		l.Fatal(err.Error())
	}
	out, e := lib.MarshalJSONIndentString(result)
	if e != nil {
		l.Fatal(e.Error())
	}
	fmt.Println(out)
}
