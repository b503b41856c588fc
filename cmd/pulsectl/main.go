// Command pulsectl is a minimal demonstration client for the
// github.com/mrlkn/pulseaudio library: list sinks/sources/modules/
// cards, adjust volume, load and unload modules, play or record a raw
// PCM file, and watch subscribe events.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/charmbracelet/log"
	flag "github.com/spf13/pflag"

	"github.com/mrlkn/pulseaudio"
)

type cliOpts struct {
	verbose      bool
	list         bool
	listModules  bool
	listCards    bool
	subscribe    bool
	setSinkVol   string
	muteSink     string
	loadModule   string
	moduleArgs   []string
	unloadModule uint32
	play         string
	record       string
	recordSecs   int
	rate         uint32
	channels     uint8
}

func parseCLIOpts() cliOpts {
	var opt cliOpts
	flag.BoolVarP(&opt.verbose, "verbose", "v", false, "verbose logging")
	flag.BoolVarP(&opt.list, "list", "l", false, "list sinks and sources")
	flag.BoolVar(&opt.listModules, "list-modules", false, "list loaded modules")
	flag.BoolVar(&opt.listCards, "list-cards", false, "list cards and their profiles")
	flag.BoolVar(&opt.subscribe, "subscribe", false, "print subscribe events until interrupted")
	flag.StringVar(&opt.setSinkVol, "set-sink-volume", "", "NAME=PERCENT, e.g. alsa_output.pci-0000_00_1f.3=80")
	flag.StringVar(&opt.muteSink, "mute-sink", "", "NAME=true|false")
	flag.StringVar(&opt.loadModule, "load-module", "", "module name to load")
	flag.StringArrayVar(&opt.moduleArgs, "module-arg", nil, "key=value, repeatable; used with --load-module")
	flag.Uint32Var(&opt.unloadModule, "unload-module", pulseaudio.NoIndex, "module index to unload")
	flag.StringVar(&opt.play, "play", "", "path to a raw interleaved PCM file to play through the default sink")
	flag.StringVar(&opt.record, "record", "", "path to write raw interleaved PCM captured from the default source")
	flag.IntVar(&opt.recordSecs, "record-seconds", 5, "how long to capture for --record")
	flag.Uint32Var(&opt.rate, "rate", 44100, "sample rate for --play/--record")
	flag.Uint8Var(&opt.channels, "channels", 2, "channel count for --play/--record")
	flag.Parse()
	return opt
}

func main() {
	opt := parseCLIOpts()
	if opt.verbose {
		log.SetLevel(log.DebugLevel)
	}

	initializeConfigIfNot()
	conf := readConfig()
	conf.Verbose = opt.verbose

	client, err := pulseaudio.Dial(pulseaudio.ClientOptions{Name: "pulsectl"})
	if err != nil {
		log.Fatal("dial", "err", err)
	}
	defer client.Close()

	switch {
	case opt.list:
		doList(client)
	case opt.listModules:
		doListModules(client)
	case opt.listCards:
		doListCards(client)
	case opt.setSinkVol != "":
		doSetSinkVolume(client, opt.setSinkVol)
	case opt.muteSink != "":
		doMuteSink(client, opt.muteSink)
	case opt.loadModule != "":
		doLoadModule(client, opt.loadModule, opt.moduleArgs)
	case opt.unloadModule != pulseaudio.NoIndex:
		if err := client.UnloadModule(opt.unloadModule); err != nil {
			log.Fatal("unload module", "err", err)
		}
	case opt.play != "":
		doPlay(client, opt.play, opt.rate, opt.channels)
	case opt.record != "":
		doRecord(client, opt.record, opt.rate, opt.channels, opt.recordSecs)
	case opt.subscribe:
		doSubscribe(client)
	default:
		fmt.Fprintln(os.Stderr, "nothing to do; see --help")
		os.Exit(1)
	}

	writeConfig(conf)
}

func doList(client *pulseaudio.Client) {
	sinks, err := client.GetSinkInfoList()
	if err != nil {
		log.Fatal("list sinks", "err", err)
	}
	fmt.Println("Sinks:")
	for _, s := range sinks {
		fmt.Printf("  [%d] %s (%s)\n", s.Index, s.Name, s.Description)
	}

	sources, err := client.GetSourceInfoList()
	if err != nil {
		log.Fatal("list sources", "err", err)
	}
	fmt.Println("Sources:")
	for _, s := range sources {
		fmt.Printf("  [%d] %s (%s)\n", s.Index, s.Name, s.Description)
	}
}

func doSetSinkVolume(client *pulseaudio.Client, arg string) {
	name, pct, ok := strings.Cut(arg, "=")
	if !ok {
		log.Fatal("expected NAME=PERCENT", "got", arg)
	}
	percent, err := strconv.ParseFloat(pct, 64)
	if err != nil {
		log.Fatal("parsing percent", "err", err)
	}

	sinks, err := client.GetSinkInfoList()
	if err != nil {
		log.Fatal("list sinks", "err", err)
	}
	for _, s := range sinks {
		if s.Name != name {
			continue
		}
		vol := uint32(percent / 100 * float64(pulseaudio.VolumeNorm))
		volumes := make([]uint32, len(s.Volume))
		for i := range volumes {
			volumes[i] = vol
		}
		if err := client.SetSinkVolume(s.Index, volumes); err != nil {
			log.Fatal("set sink volume", "err", err)
		}
		return
	}
	log.Fatal("no such sink", "name", name)
}

func doMuteSink(client *pulseaudio.Client, arg string) {
	name, boolStr, ok := strings.Cut(arg, "=")
	if !ok {
		log.Fatal("expected NAME=true|false", "got", arg)
	}
	muted, err := strconv.ParseBool(boolStr)
	if err != nil {
		log.Fatal("parsing bool", "err", err)
	}

	sinks, err := client.GetSinkInfoList()
	if err != nil {
		log.Fatal("list sinks", "err", err)
	}
	for _, s := range sinks {
		if s.Name == name {
			if err := client.SetSinkMute(s.Index, muted); err != nil {
				log.Fatal("set sink mute", "err", err)
			}
			return
		}
	}
	log.Fatal("no such sink", "name", name)
}

func doLoadModule(client *pulseaudio.Client, name string, rawArgs []string) {
	args := make(map[string]interface{}, len(rawArgs))
	for _, kv := range rawArgs {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			log.Fatal("expected key=value", "got", kv)
		}
		args[k] = v
	}

	idx, err := client.LoadModule(name, args)
	if err != nil {
		log.Fatal("load module", "err", err)
	}
	fmt.Printf("loaded module %s at index %d\n", name, idx)
}

func doSubscribe(client *pulseaudio.Client) {
	unsubscribe := client.OnEvent("event", func(ev pulseaudio.SubscribeEvent) {
		fmt.Printf("%s.%s index=%d\n", ev.Facility, ev.Operation, ev.Index)
	})
	defer unsubscribe()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
}
