package main

import (
	"errors"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/mrlkn/pulseaudio"
)

const playChunkSize = 4096

func doListModules(client *pulseaudio.Client) {
	mods, err := client.GetModuleInfoList()
	if err != nil {
		log.Fatal("list modules", "err", err)
	}
	for _, m := range mods {
		log.Infof("[%d] %s %s (used by %d)", m.Index, m.Name, m.Argument, m.NUsed)
	}
}

func doListCards(client *pulseaudio.Client) {
	cards, err := client.GetCardInfoList()
	if err != nil {
		log.Fatal("list cards", "err", err)
	}
	for _, c := range cards {
		log.Infof("[%d] %s driver=%s active=%s", c.Index, c.Name, c.Driver, c.ActiveProfile)
	}
}

// doPlay streams a raw interleaved S16LE PCM file through a fresh
// playback stream until the file is exhausted, then drains and closes.
func doPlay(client *pulseaudio.Client, path string, rate uint32, channels uint8) {
	f, err := os.Open(path)
	if err != nil {
		log.Fatal("open play file", "err", err)
	}
	defer f.Close()

	spec := pulseaudio.SampleSpec{Format: pulseaudio.SampleFormatS16LE, Channels: channels, Rate: rate}
	ps, err := client.CreatePlaybackStream(pulseaudio.CreatePlaybackStreamOptions{SampleSpec: spec})
	if err != nil {
		log.Fatal("create playback stream", "err", err)
	}

	var wg sync.WaitGroup
	wg.Add(1)
	var writeErr error
	buf := make([]byte, playChunkSize)

	var pump func()
	pump = func() {
		n, rerr := f.Read(buf)
		if n > 0 {
			if werr := ps.Write(buf[:n]); werr != nil {
				writeErr = werr
				wg.Done()
				return
			}
		}
		if rerr != nil {
			if !errors.Is(rerr, io.EOF) {
				writeErr = rerr
			}
			wg.Done()
			return
		}
		ps.WhenReady(pump)
	}
	pump()
	wg.Wait()

	if writeErr != nil {
		log.Fatal("play", "err", writeErr)
	}
	if err := ps.Drain(); err != nil {
		log.Fatal("drain playback stream", "err", err)
	}
	if err := ps.Close(); err != nil {
		log.Fatal("close playback stream", "err", err)
	}
}

// doRecord captures raw interleaved S16LE PCM from a fresh record
// stream into path until the stream ends or the cap set by seconds is
// reached.
func doRecord(client *pulseaudio.Client, path string, rate uint32, channels uint8, seconds int) {
	f, err := os.Create(path)
	if err != nil {
		log.Fatal("create record file", "err", err)
	}
	defer f.Close()

	spec := pulseaudio.SampleSpec{Format: pulseaudio.SampleFormatS16LE, Channels: channels, Rate: rate}
	frameSize := uint32(channels) * 2
	maxLength := uint32(seconds) * rate * frameSize

	rs, err := client.CreateRecordStream(pulseaudio.CreateRecordStreamOptions{
		SampleSpec: spec,
		Attr:       pulseaudio.PlaybackBufferAttr{MaxLength: maxLength},
	})
	if err != nil {
		log.Fatal("create record stream", "err", err)
	}

	done := make(chan struct{})
	var closeOnce sync.Once
	finish := func() { closeOnce.Do(func() { close(done) }) }

	rs.OnEvent(func(ev pulseaudio.StreamEvent) {
		switch ev.Kind {
		case pulseaudio.StreamEventCapReached, pulseaudio.StreamEventKilled:
			finish()
		}
	})
	rs.SetConsumer(func(data []byte) bool {
		if _, err := f.Write(data); err != nil {
			log.Error("write record file", "err", err)
			return false
		}
		return true
	})
	rs.SetRunning(true)

	<-done
	if err := rs.Close(); err != nil {
		log.Fatal("close record stream", "err", err)
	}
}
